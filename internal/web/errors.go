package web

// errors.go turns handler errors into responses.
//
// The technical error is logged with the request ID; the client sees the
// mapped core.UserMessage as JSON for API calls, an alert fragment for
// in-page requests, or plain text otherwise.

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/TrainingReg/internal/core"
	"github.com/JonMunkholm/TrainingReg/internal/logging"
	"github.com/JonMunkholm/TrainingReg/internal/web/templates"
)

// ErrorResponse is the JSON body of API errors.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Action  string            `json:"action,omitempty"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// respondError logs err and writes the user-facing message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := s.logError(r, err, status)

	switch {
	case wantsJSON(r):
		writeJSON(w, status, ErrorResponse{
			Error:   msg.Message,
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
		})
	case isPartial(r):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_ = templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
	default:
		http.Error(w, core.FormatUserError(err), status)
	}
}

// logError records the technical error and returns its user message.
func (s *Server) logError(r *http.Request, err error, status int) core.UserMessage {
	msg := core.MapError(err)
	level := slog.LevelError
	if status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)
	return msg
}

// isPartial reports whether the page script asked for a fragment.
func isPartial(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON reports whether the client prefers JSON.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
