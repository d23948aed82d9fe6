package web

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/TrainingReg/internal/core"
	"github.com/JonMunkholm/TrainingReg/internal/logging"
	"github.com/JonMunkholm/TrainingReg/internal/review"
	"github.com/JonMunkholm/TrainingReg/internal/web/templates"
)

// parseView rebuilds the HR table state from the query string. A toggle
// parameter applies a sort-header click on top of the restored view.
func parseView(r *http.Request) review.View {
	q := r.URL.Query()
	key, _ := review.ParseSortKey(q.Get("sort"))
	v := review.RestoreView(
		q.Get("search"),
		key,
		review.ParseDirection(q.Get("dir")),
		parseIntParam(r, "page", 1),
	)
	if t := q.Get("toggle"); t != "" {
		if k, ok := review.ParseSortKey(t); ok {
			v.SetSort(k)
		}
	}
	return v
}

// parseIntParam parses a positive integer query parameter.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

func (s *Server) tableState(v review.View) templates.TableState {
	return templates.TableState{
		Result:   s.pipeline.Derive(v),
		Catalog:  s.service.Catalog(),
		LoadedAt: s.pipeline.LoadedAt(),
		Location: s.opts.Location,
	}
}

// handleTable renders the HR table fragment for the requested view.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, templates.ReviewTable(s.tableState(parseView(r))))
}

// handleListRegistrations returns the derived page as JSON.
func (s *Server) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.pipeline.Derive(parseView(r)))
}

// handleCatalog returns the form's closed sets.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Catalog())
}

// handleExport downloads every registration in store order, ignoring any
// search, sort or page.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc, err := s.pipeline.Export()
	if err != nil {
		s.respondError(w, r, fmt.Errorf("export registrations: %w", err), http.StatusInternalServerError)
		return
	}
	if s.metrics != nil {
		s.metrics.ObserveExport(doc.Rows)
	}
	logging.FromContext(r.Context()).Info("registrations exported", "rows", doc.Rows, "file", doc.Name)

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(doc.Data); err != nil {
		logging.FromContext(r.Context()).Warn("export write failed", "error", err)
	}
}

type healthResponse struct {
	Status   string                   `json:"status"`
	Records  int                      `json:"records"`
	LoadedAt *time.Time               `json:"loaded_at,omitempty"`
	Writes   *core.WriteLimiterStatus `json:"writes,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

// handleHealth reports liveness and, when configured, database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Records: s.pipeline.Len()}
	if t := s.pipeline.LoadedAt(); !t.IsZero() {
		resp.LoadedAt = &t
	}
	if ws, ok := s.service.WriteStatus(); ok {
		resp.Writes = &ws
	}
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			resp.Status = "unavailable"
			resp.Error = "store unreachable"
			logging.FromContext(r.Context()).Warn("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleEvents streams a "registrations" event after every successful
// reload of the review list, with periodic comments to keep proxies from
// closing the connection.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	changes, release := s.pipeline.Changes()
	defer release()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	rc := http.NewResponseController(w)
	if _, err := fmt.Fprint(w, "retry: 3000\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		logging.FromContext(r.Context()).Error("event stream flush failed", "error", err)
		return
	}

	if s.metrics != nil {
		s.metrics.StreamOpened()
		defer s.metrics.StreamClosed()
	}

	heartbeat := time.NewTicker(s.opts.EventHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-changes:
			if _, err := fmt.Fprintf(w, "event: registrations\ndata: {\"total\":%d}\n\n", s.pipeline.Len()); err != nil {
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
