package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/facetouch/internal/app"
	"github.com/ayusman/facetouch/internal/store"
)

// SettingsHandler reads and updates the persisted detector settings.
// Updates are applied to the running application immediately.
type SettingsHandler struct {
	store *store.Store
	app   *app.App
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(s *store.Store, a *app.App) *SettingsHandler {
	return &SettingsHandler{store: s, app: a}
}

type settingsResponse struct {
	ThresholdSeconds float64 `json:"touch_threshold_seconds"`
	ProximityMargin  float64 `json:"proximity_threshold"`
	EnableSound      bool    `json:"enable_sound"`
}

// updateSettingsRequest uses pointers so absent fields are left unchanged.
type updateSettingsRequest struct {
	ThresholdSeconds *float64 `json:"touch_threshold_seconds"`
	ProximityMargin  *float64 `json:"proximity_threshold"`
	EnableSound      *bool    `json:"enable_sound"`
}

// ServeHTTP routes settings requests.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	settings := h.store.Settings()

	h.respond(w, settingsResponse{
		ThresholdSeconds: settings.Threshold().Seconds(),
		ProximityMargin:  settings.Margin(),
		EnableSound:      settings.SoundEnabled(),
	})
}

func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	settings := h.store.Settings()

	if req.ThresholdSeconds != nil {
		if *req.ThresholdSeconds <= 0 {
			http.Error(w, "touch_threshold_seconds must be positive", http.StatusBadRequest)
			return
		}
		d := time.Duration(*req.ThresholdSeconds * float64(time.Second))
		if err := settings.SetThreshold(d); err != nil {
			http.Error(w, "Failed to save settings", http.StatusInternalServerError)
			return
		}
		h.app.SetThreshold(d)
	}

	if req.ProximityMargin != nil {
		if *req.ProximityMargin <= 0 || *req.ProximityMargin > 1 {
			http.Error(w, "proximity_threshold must be in (0,1]", http.StatusBadRequest)
			return
		}
		if err := settings.SetMargin(*req.ProximityMargin); err != nil {
			http.Error(w, "Failed to save settings", http.StatusInternalServerError)
			return
		}
		h.app.SetMargin(*req.ProximityMargin)
	}

	if req.EnableSound != nil {
		if err := settings.SetSoundEnabled(*req.EnableSound); err != nil {
			http.Error(w, "Failed to save settings", http.StatusInternalServerError)
			return
		}
		h.app.Coordinator().SetSoundEnabled(*req.EnableSound)
	}

	h.respond(w, settingsResponse{
		ThresholdSeconds: settings.Threshold().Seconds(),
		ProximityMargin:  settings.Margin(),
		EnableSound:      settings.SoundEnabled(),
	})
}

func (h *SettingsHandler) respond(w http.ResponseWriter, body settingsResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
