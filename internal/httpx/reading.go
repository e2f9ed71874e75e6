package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/valfuente/ecos/internal/app"
)

// dailyReadingBody is the POST /api/daily-reading request shape.
type dailyReadingBody struct {
	Date      string `json:"date"`
	BookTitle string `json:"bookTitle"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// handleSaveDailyReading implements POST /api/daily-reading with
// insert-or-replace semantics per date.
func (h *Handler) handleSaveDailyReading(w http.ResponseWriter, r *http.Request) {
	var body dailyReadingBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(r.Context(), w, http.StatusBadRequest, "invalid json body")
		return
	}
	reading := app.DailyReading{BookTitle: body.BookTitle, StartDate: body.StartDate, EndDate: body.EndDate}
	if err := h.Service.SaveDailyReading(r.Context(), body.Date, reading); err != nil {
		h.mapServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "daily reading saved"})
}

// handleGetDailyReading implements GET /api/daily-reading/{year}/{month}/{day}.
// A date with no record answers with empty strings, never 404.
func (h *Handler) handleGetDailyReading(w http.ResponseWriter, r *http.Request) {
	year, month, day, ok := h.dateParams(w, r)
	if !ok {
		return
	}
	reading, err := h.Service.GetDailyReading(r.Context(), year, month, day)
	if err != nil {
		h.mapServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, reading)
}
