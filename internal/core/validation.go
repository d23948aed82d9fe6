package core

// validation.go checks a submission before it is written.
//
// Validation happens on the cleaned form values:
//  1. Text fields: full name length, email shape and length
//  2. Selections: department, familiarity and day must be chosen from the catalog
//
// All problems are returned together so the form can mark every field at once.

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field limits enforced by the registration form.
const (
	MinNameLength  = 3
	MaxNameLength  = 100
	MaxEmailLength = 255
)

// emailRegex accepts the usual local@domain.tld shape without whitespace.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Form field names, shared with the web layer for error placement.
const (
	FieldFullName                 = "full_name"
	FieldCorporateEmail           = "corporate_email"
	FieldDepartment               = "department"
	FieldAutomationFamiliarity    = "automation_familiarity"
	FieldParticipationDay         = "participation_day"
	FieldAccessibilityDescription = "accessibility_description"
	FieldObservations             = "observations"
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Form field name
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationErrors is the full list of problems found in a submission.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return "invalid submission: " + strings.Join(msgs, "; ")
}

// ByField returns the first message for each field.
func (e ValidationErrors) ByField() map[string]string {
	out := make(map[string]string, len(e))
	for _, ve := range e {
		if _, ok := out[ve.Field]; !ok {
			out[ve.Field] = ve.Message
		}
	}
	return out
}

// ValidateSubmission validates a form against the catalog.
// It returns nil or a ValidationErrors value.
func ValidateSubmission(form SubmissionForm, catalog Catalog) error {
	var errs ValidationErrors

	name := CleanField(form.FullName)
	switch n := utf8.RuneCountInString(name); {
	case n < MinNameLength:
		errs = append(errs, ValidationError{
			Field:   FieldFullName,
			Value:   name,
			Message: fmt.Sprintf("name must have at least %d characters", MinNameLength),
		})
	case n > MaxNameLength:
		errs = append(errs, ValidationError{
			Field:   FieldFullName,
			Value:   name,
			Message: fmt.Sprintf("name must have at most %d characters", MaxNameLength),
		})
	}

	email := CleanField(form.CorporateEmail)
	switch {
	case !emailRegex.MatchString(email):
		errs = append(errs, ValidationError{
			Field:   FieldCorporateEmail,
			Value:   email,
			Message: "invalid email address",
		})
	case utf8.RuneCountInString(email) > MaxEmailLength:
		errs = append(errs, ValidationError{
			Field:   FieldCorporateEmail,
			Value:   email,
			Message: fmt.Sprintf("email must have at most %d characters", MaxEmailLength),
		})
	}

	errs = appendSelection(errs, FieldDepartment, CleanField(form.Department),
		"select a department", catalog.HasDepartment)
	errs = appendSelection(errs, FieldAutomationFamiliarity, CleanField(form.AutomationFamiliarity),
		"select your familiarity level", catalog.HasFamiliarity)
	errs = appendSelection(errs, FieldParticipationDay, CleanField(form.ParticipationDay),
		"select the participation day", catalog.HasDay)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func appendSelection(errs ValidationErrors, field, value, emptyMsg string, allowed func(string) bool) ValidationErrors {
	if value == "" {
		return append(errs, ValidationError{Field: field, Message: emptyMsg})
	}
	if !allowed(value) {
		return append(errs, ValidationError{Field: field, Value: value, Message: "invalid enum value"})
	}
	return errs
}

// NormalizeSubmission converts a validated form into the record to insert.
// The accessibility description is dropped unless the flag is set, and blank
// optional text becomes nil.
func NormalizeSubmission(form SubmissionForm) NewRegistration {
	r := NewRegistration{
		FullName:              CleanField(form.FullName),
		CorporateEmail:        CleanField(form.CorporateEmail),
		Department:            CleanField(form.Department),
		AutomationFamiliarity: CleanField(form.AutomationFamiliarity),
		ParticipationDay:      CleanField(form.ParticipationDay),
		NeedsAccessibility:    form.NeedsAccessibility,
		Observations:          OptionalText(form.Observations),
	}
	if form.NeedsAccessibility {
		r.AccessibilityDescription = OptionalText(form.AccessibilityDescription)
	}
	return r
}
