package report

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// NewServer returns a router that serves a finished trace.
//
//	GET /api/v1/trace         the full trace
//	GET /api/v1/stats         the statistics only
//	GET /api/v1/units/{name}  the timeline of one unit
func NewServer(t *Trace) http.Handler {
	r := chi.NewRouter()

	r.Get("/api/v1/trace", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, t)
	})

	r.Get("/api/v1/stats", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"runId": t.RunID, "stats": t.Stats})
	})

	r.Get("/api/v1/units/{name}", func(w http.ResponseWriter, r *http.Request) {
		name, err := url.PathUnescape(chi.URLParam(r, "name"))
		if err != nil {
			http.Error(w, "Invalid unit name", http.StatusBadRequest)
			return
		}

		u, ok := t.Unit(name)
		if !ok {
			http.Error(w, "Unit not found", http.StatusNotFound)
			return
		}

		writeJSON(w, u)
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "Error", err)
	}
}
