// Package templates renders the HTML for the registration page and the HR
// review panel. Components are authored in the .templ files; run
// `templ generate` after editing them.
package templates

import (
	"net/url"
	"strconv"
	"time"

	"github.com/JonMunkholm/TrainingReg/internal/core"
	"github.com/JonMunkholm/TrainingReg/internal/review"
)

// FormState is everything the registration form needs to render.
type FormState struct {
	Catalog core.Catalog
	Values  core.SubmissionForm
	Errors  map[string]string // field name -> message
	Success bool
	Failure *core.UserMessage
}

// TableState is the HR table as derived for one request.
type TableState struct {
	Result   review.Result
	Catalog  core.Catalog
	LoadedAt time.Time
	Location *time.Location
}

type column struct {
	key   review.SortKey
	label string
}

var sortableColumns = []column{
	{review.SortFullName, "Name"},
	{review.SortCorporateEmail, "Email"},
	{review.SortDepartment, "Department"},
	{review.SortAutomationFamiliarity, "Familiarity"},
	{review.SortParticipationDay, "Day"},
}

// ViewQuery encodes a view as the query string the table links use.
// toggle, when set, asks the server to apply a sort-header click.
func ViewQuery(search string, key review.SortKey, dir review.Direction, page int, toggle review.SortKey) string {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	q.Set("sort", string(key))
	q.Set("dir", string(dir))
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if toggle != "" {
		q.Set("toggle", string(toggle))
	}
	return "?" + q.Encode()
}

func valueOptions(values []string) []core.Option {
	out := make([]core.Option, len(values))
	for i, v := range values {
		out[i] = core.Option{Value: v, Label: v}
	}
	return out
}

func optionLabel(o core.Option) string {
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}

func ariaInvalid(errs map[string]string, field string) string {
	if _, bad := errs[field]; bad {
		return "true"
	}
	return "false"
}

func registrantCount(n int) string {
	if n == 1 {
		return "1 registrant"
	}
	return strconv.Itoa(n) + " registrants"
}

// sortArrow marks the active sort column.
func sortArrow(res review.Result, key review.SortKey) string {
	switch {
	case res.SortKey != key:
		return ""
	case res.Direction == review.Asc:
		return " ▲"
	default:
		return " ▼"
	}
}

func emptyMessage(res review.Result) string {
	switch {
	case res.Search != "":
		return "No results found."
	case res.TotalRows > 0:
		return "This page is empty."
	default:
		return "No registrations yet."
	}
}

func registeredAt(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02 15:04")
}
