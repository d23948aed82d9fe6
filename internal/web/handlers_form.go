package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/TrainingReg/internal/core"
	"github.com/JonMunkholm/TrainingReg/internal/logging"
	"github.com/JonMunkholm/TrainingReg/internal/review"
	"github.com/JonMunkholm/TrainingReg/internal/web/templates"
)

// maxFormBytes caps the submission body.
const maxFormBytes = 64 << 10

// handleIndex renders the full page. The HR table follows the view in the
// query string so links work without script.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	form := templates.FormState{
		Catalog: s.service.Catalog(),
		Success: r.URL.Query().Get("registered") == "1",
	}
	s.render(w, r, http.StatusOK, templates.Index(form, s.tableState(parseView(r))))
}

// handleSubmit runs the submission flow. In-page requests get the form
// fragment back; plain form posts are redirected on success.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, fmt.Errorf("parse form: %w", err), http.StatusBadRequest)
		return
	}
	form := formFromRequest(r)

	state := templates.FormState{Catalog: s.service.Catalog()}
	status := http.StatusOK

	r = withClient(r)
	_, err := s.service.Submit(r.Context(), form)
	var verrs core.ValidationErrors
	switch {
	case err == nil:
		if !isPartial(r) {
			http.Redirect(w, r, "/?registered=1", http.StatusSeeOther)
			return
		}
		state.Success = true
	case errors.As(err, &verrs):
		status = http.StatusUnprocessableEntity
		state.Values = form
		state.Errors = verrs.ByField()
	default:
		status = http.StatusBadGateway
		if errors.Is(err, core.ErrTooManySubmissions) {
			status = http.StatusServiceUnavailable
			w.Header().Set("Retry-After", "5")
		}
		msg := s.logError(r, err, status)
		state.Values = form
		state.Failure = &msg
	}

	if isPartial(r) {
		s.render(w, r, status, templates.RegistrationForm(state))
		return
	}
	s.render(w, r, status, templates.Index(state, s.tableState(review.NewView())))
}

func formFromRequest(r *http.Request) core.SubmissionForm {
	return core.SubmissionForm{
		FullName:                 r.PostFormValue(core.FieldFullName),
		CorporateEmail:           r.PostFormValue(core.FieldCorporateEmail),
		Department:               r.PostFormValue(core.FieldDepartment),
		AutomationFamiliarity:    r.PostFormValue(core.FieldAutomationFamiliarity),
		ParticipationDay:         r.PostFormValue(core.FieldParticipationDay),
		NeedsAccessibility:       checkbox(r.PostFormValue("needs_accessibility")),
		AccessibilityDescription: r.PostFormValue(core.FieldAccessibilityDescription),
		Observations:             r.PostFormValue(core.FieldObservations),
	}
}

// checkbox accepts the browser's "on" as well as boolean literals.
func checkbox(v string) bool {
	if v == "on" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

// render writes an HTML component with status.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "path", r.URL.Path, "error", err)
	}
}
