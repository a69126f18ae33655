// Package api provides the HTTP API handlers for the face-touch detector.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/facetouch/internal/app"
)

// StatusHandler reports the application's live touch/alert state.
type StatusHandler struct {
	app *app.App
}

// NewStatusHandler creates a new StatusHandler over the given app.
func NewStatusHandler(a *app.App) *StatusHandler {
	return &StatusHandler{app: a}
}

// ServeHTTP handles GET requests to /api/status.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.app.Status()); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
