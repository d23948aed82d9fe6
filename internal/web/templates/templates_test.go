package templates

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/TrainingReg/internal/core"
	"github.com/JonMunkholm/TrainingReg/internal/review"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func ptr(s string) *string { return &s }

func TestIndex_WrapsPanelsInPage(t *testing.T) {
	form := FormState{Catalog: core.DefaultCatalog()}
	html := render(t, Index(form, TableState{Catalog: form.Catalog}))

	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, "<title>Automation Training Registration</title>")
	assert.Contains(t, html, "11/12, 12/12, 13/12")
	assert.Contains(t, html, `id="registration-form"`)
	assert.Contains(t, html, `id="hr-panel"`)
	assert.Contains(t, html, "0 registrants")
	assert.True(t, strings.HasSuffix(html, "</main></body></html>"))
}

func TestRegistrationForm_KeepsValuesAndErrors(t *testing.T) {
	s := FormState{
		Catalog: core.DefaultCatalog(),
		Values: core.SubmissionForm{
			FullName:           `Ana "<b>" Souza`,
			Department:         "TI",
			NeedsAccessibility: true,
		},
		Errors: map[string]string{core.FieldCorporateEmail: "enter a valid email"},
	}
	html := render(t, RegistrationForm(s))

	assert.Contains(t, html, `value="Ana &#34;&lt;b&gt;&#34; Souza"`, "values are escaped")
	assert.Contains(t, html, `<option value="TI" selected>TI</option>`)
	assert.Contains(t, html, `<option value="low">Low</option>`)
	assert.Contains(t, html, `id="corporate_email-error">enter a valid email</div>`)
	assert.Contains(t, html, `name="needs_accessibility" value="true" checked>`)
	assert.Contains(t, html, `<div data-accessibility>`, "description shown when the flag is set")
	assert.NotContains(t, html, "Registration complete!")
}

func TestRegistrationForm_HidesDescriptionByDefault(t *testing.T) {
	html := render(t, RegistrationForm(FormState{Catalog: core.DefaultCatalog(), Success: true}))

	assert.Contains(t, html, `<div data-accessibility hidden>`)
	assert.Contains(t, html, "Registration complete!")
	assert.NotContains(t, html, `aria-invalid="true"`)
}

func TestErrorAlert(t *testing.T) {
	html := render(t, ErrorAlert("Too many requests", "Please wait", "RATE001"))
	assert.Equal(t,
		`<div class="alert alert-error" role="alert"><strong>Too many requests</strong><span>Please wait</span><span class="muted">(Code: RATE001)</span></div>`,
		html)

	assert.NotContains(t, render(t, ErrorAlert("Oops", "", "")), "Code:")
}

func TestReviewTable_RowsAndPager(t *testing.T) {
	created := time.Date(2024, 12, 1, 12, 30, 0, 0, time.UTC)
	rows := []core.Registration{
		{ID: "r1", FullName: "Ana", CorporateEmail: "ana@corp.example", Department: "TI",
			AutomationFamiliarity: "high", ParticipationDay: "12/12", NeedsAccessibility: true,
			AccessibilityDescription: ptr("ramp"), Observations: ptr("<hi>"), CreatedAt: created},
		{ID: "r2", FullName: "Bruno", CreatedAt: created},
	}
	res := review.Result{
		Rows: rows, Page: 2, TotalPages: 3, TotalRows: 22, Total: 22,
		SortKey: review.SortFullName, Direction: review.Asc,
	}
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	html := render(t, ReviewTable(TableState{Result: res, Catalog: core.DefaultCatalog(), Location: loc}))

	assert.Equal(t, 2, strings.Count(html, "data-id="))
	assert.Contains(t, html, "Name ▲")
	assert.Contains(t, html, "<td>High</td>")
	assert.Contains(t, html, `<div class="muted">ramp</div>`)
	assert.Contains(t, html, "&lt;hi&gt;")
	assert.Contains(t, html, "&mdash;")
	assert.Contains(t, html, "2024-12-01 09:30")
	assert.Contains(t, html, "Page 2 of 3")
	assert.Contains(t, html, ">Previous</a>")
	assert.Contains(t, html, ">Next</a>")
	assert.Contains(t, html, `href="?dir=asc&amp;page=3&amp;sort=full_name"`)
	assert.Contains(t, html, `data-total="22"`)
}

func TestReviewTable_EmptyMessages(t *testing.T) {
	tests := []struct {
		name string
		res  review.Result
		want string
	}{
		{"no data", review.Result{Page: 1}, "No registrations yet."},
		{"no match", review.Result{Page: 1, Search: "zz", Total: 3}, "No results found."},
		{"past the end", review.Result{Page: 9, TotalRows: 3, TotalPages: 1, Total: 3}, "This page is empty."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := render(t, ReviewTable(TableState{Result: tt.res}))
			assert.Contains(t, html, tt.want)
			assert.NotContains(t, html, `class="pager"`)
		})
	}
}

func TestViewQuery(t *testing.T) {
	assert.Equal(t, "?dir=desc&sort=created_at", ViewQuery("", review.SortCreatedAt, review.Desc, 1, ""))
	assert.Equal(t, "?dir=asc&page=2&search=a%3Ab&sort=department&toggle=full_name",
		ViewQuery("a:b", review.SortDepartment, review.Asc, 2, review.SortFullName))
}

func TestRegistrantCount(t *testing.T) {
	assert.Equal(t, "1 registrant", registrantCount(1))
	assert.Equal(t, "15 registrants", registrantCount(15))
}
