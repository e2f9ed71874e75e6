package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/valfuente/ecos/internal/app"
)

// handleGetSettings implements GET /api/settings.
func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.Service.GetSettings(r.Context())
	if err != nil {
		h.mapServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// handleSaveSettings implements POST /api/settings. The stored row is fully
// overwritten; omitted fields reset to their zero values.
func (h *Handler) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var s app.Settings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		h.writeError(r.Context(), w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.Service.SaveSettings(r.Context(), s); err != nil {
		h.mapServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "settings saved"})
}
