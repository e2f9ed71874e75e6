package httpx

import (
	"net/http"
	"strconv"

	"github.com/valfuente/ecos/internal/domain"
	"github.com/valfuente/ecos/internal/metrics"
)

// handleUploadAudio implements POST /upload-audio (multipart form).
// Required parts: `audio` (file), `member`, `day`, `month`, `year`,
// `duration`. Only a missing file is a validation failure; calendar parts
// are stored as tagged, not checked against a real calendar.
func (h *Handler) handleUploadAudio(w http.ResponseWriter, r *http.Request) {
	if h.MaxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.writeError(r.Context(), w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		h.mapServiceError(r.Context(), w, domain.ErrNoFile)
		return
	}
	defer file.Close()

	day, errD := strconv.Atoi(r.FormValue("day"))
	month, errM := strconv.Atoi(r.FormValue("month"))
	year, errY := strconv.Atoi(r.FormValue("year"))
	if errD != nil || errM != nil || errY != nil {
		h.writeError(r.Context(), w, http.StatusBadRequest, "invalid date fields")
		return
	}
	// Duration is advisory client data; an unparsable value is stored as 0.
	duration, _ := strconv.ParseFloat(r.FormValue("duration"), 64)
	member := r.FormValue("member")

	rec, err := h.Service.UploadAudio(r.Context(), file, header.Filename, member, day, month, year, duration)
	if err != nil {
		h.mapServiceError(r.Context(), w, err)
		return
	}
	h.count(metrics.CounterAudiosUploaded)
	writeJSON(w, http.StatusOK, struct {
		Message  string `json:"message"`
		AudioID  string `json:"audioId"`
		FilePath string `json:"filePath"`
	}{Message: "audio saved", AudioID: rec.ID, FilePath: UploadsPrefix + rec.FilePath})
}
