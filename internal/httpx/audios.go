package httpx

import (
	"net/http"
	"strconv"

	"github.com/valfuente/ecos/internal/app"
	"github.com/valfuente/ecos/internal/metrics"
)

// handleListAudios implements GET /api/audios/{year}/{month}/{day}.
// FilePath is rewritten to the servable /uploads/ URL in the response.
func (h *Handler) handleListAudios(w http.ResponseWriter, r *http.Request) {
	year, month, day, ok := h.dateParams(w, r)
	if !ok {
		return
	}
	recs, err := h.Service.ListAudios(r.Context(), year, month, day)
	if err != nil {
		h.mapServiceError(r.Context(), w, err)
		return
	}
	out := make([]app.AudioRecord, len(recs))
	for n, rec := range recs {
		rec.FilePath = UploadsPrefix + rec.FilePath
		out[n] = rec
	}
	writeJSON(w, http.StatusOK, out)
}

// handleDeleteAudio implements DELETE /api/audios/{id}.
func (h *Handler) handleDeleteAudio(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteAudio(r.Context(), r.PathValue("id")); err != nil {
		h.mapServiceError(r.Context(), w, err)
		return
	}
	h.count(metrics.CounterAudiosDeleted)
	writeJSON(w, http.StatusOK, messageBody{Message: "audio deleted"})
}

// handleIncrementCount implements POST /api/audios/increment-count/{id}.
func (h *Handler) handleIncrementCount(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.IncrementCount(r.Context(), r.PathValue("id")); err != nil {
		h.mapServiceError(r.Context(), w, err)
		return
	}
	h.count(metrics.CounterAudiosPlayed)
	writeJSON(w, http.StatusOK, messageBody{Message: "count incremented"})
}

// dateParams parses the {year}/{month}/{day} path segments.
func (h *Handler) dateParams(w http.ResponseWriter, r *http.Request) (year, month, day int, ok bool) {
	year, errY := strconv.Atoi(r.PathValue("year"))
	month, errM := strconv.Atoi(r.PathValue("month"))
	day, errD := strconv.Atoi(r.PathValue("day"))
	if errY != nil || errM != nil || errD != nil {
		h.writeError(r.Context(), w, http.StatusBadRequest, "invalid date params")
		return 0, 0, 0, false
	}
	return year, month, day, true
}
