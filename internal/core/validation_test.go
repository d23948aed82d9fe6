package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() SubmissionForm {
	return SubmissionForm{
		FullName:              "Ana Souza",
		CorporateEmail:        "ana.souza@empresa.com",
		Department:            "TI",
		AutomationFamiliarity: "medium",
		ParticipationDay:      "12/12",
	}
}

func TestValidateSubmission_Valid(t *testing.T) {
	assert.NoError(t, ValidateSubmission(validForm(), DefaultCatalog()))
}

func TestValidateSubmission_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SubmissionForm)
		field  string
	}{
		{"name too short", func(f *SubmissionForm) { f.FullName = "Al" }, FieldFullName},
		{"name short after trim", func(f *SubmissionForm) { f.FullName = "  Al  " }, FieldFullName},
		{"name too long", func(f *SubmissionForm) { f.FullName = strings.Repeat("a", MaxNameLength+1) }, FieldFullName},
		{"email missing at", func(f *SubmissionForm) { f.CorporateEmail = "ana.empresa.com" }, FieldCorporateEmail},
		{"email missing tld", func(f *SubmissionForm) { f.CorporateEmail = "ana@empresa" }, FieldCorporateEmail},
		{"email with space", func(f *SubmissionForm) { f.CorporateEmail = "ana souza@empresa.com" }, FieldCorporateEmail},
		{"email too long", func(f *SubmissionForm) {
			f.CorporateEmail = strings.Repeat("a", MaxEmailLength) + "@empresa.com"
		}, FieldCorporateEmail},
		{"department empty", func(f *SubmissionForm) { f.Department = "" }, FieldDepartment},
		{"department unknown", func(f *SubmissionForm) { f.Department = "Legal" }, FieldDepartment},
		{"familiarity unknown", func(f *SubmissionForm) { f.AutomationFamiliarity = "expert" }, FieldAutomationFamiliarity},
		{"day unknown", func(f *SubmissionForm) { f.ParticipationDay = "14/12" }, FieldParticipationDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)

			err := ValidateSubmission(f, DefaultCatalog())
			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
			assert.Contains(t, verrs.ByField(), tt.field)
			assert.Len(t, verrs, 1)
		})
	}
}

func TestValidateSubmission_NameBoundaries(t *testing.T) {
	f := validForm()
	f.FullName = "Ana"
	assert.NoError(t, ValidateSubmission(f, DefaultCatalog()))

	f.FullName = strings.Repeat("é", MaxNameLength)
	assert.NoError(t, ValidateSubmission(f, DefaultCatalog()), "length counts characters, not bytes")
}

func TestValidateSubmission_ReportsAllFields(t *testing.T) {
	err := ValidateSubmission(SubmissionForm{}, DefaultCatalog())

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, map[string]string{
		FieldFullName:              "name must have at least 3 characters",
		FieldCorporateEmail:        "invalid email address",
		FieldDepartment:            "select a department",
		FieldAutomationFamiliarity: "select your familiarity level",
		FieldParticipationDay:      "select the participation day",
	}, verrs.ByField())
	assert.Contains(t, err.Error(), "invalid submission: ")
}

func TestValidateSubmission_SelectionsIgnoreCase(t *testing.T) {
	f := validForm()
	f.Department = "vendas"
	f.AutomationFamiliarity = "HIGH"
	assert.NoError(t, ValidateSubmission(f, DefaultCatalog()))
}

func TestNormalizeSubmission(t *testing.T) {
	t.Run("description dropped without accessibility flag", func(t *testing.T) {
		f := validForm()
		f.AccessibilityDescription = "ramp"
		r := NormalizeSubmission(f)
		assert.False(t, r.NeedsAccessibility)
		assert.Nil(t, r.AccessibilityDescription)
	})

	t.Run("description kept with flag", func(t *testing.T) {
		f := validForm()
		f.NeedsAccessibility = true
		f.AccessibilityDescription = "  ramp "
		r := NormalizeSubmission(f)
		require.NotNil(t, r.AccessibilityDescription)
		assert.Equal(t, "ramp", *r.AccessibilityDescription)
	})

	t.Run("blank optional text becomes nil", func(t *testing.T) {
		f := validForm()
		f.NeedsAccessibility = true
		f.AccessibilityDescription = "   "
		f.Observations = "\u00a0"
		r := NormalizeSubmission(f)
		assert.Nil(t, r.AccessibilityDescription)
		assert.Nil(t, r.Observations)
	})

	t.Run("text fields trimmed", func(t *testing.T) {
		f := validForm()
		f.FullName = "  Ana Souza  "
		f.CorporateEmail = " ana.souza@empresa.com "
		r := NormalizeSubmission(f)
		assert.Equal(t, "Ana Souza", r.FullName)
		assert.Equal(t, "ana.souza@empresa.com", r.CorporateEmail)
	})
}
