package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/valfuente/ecos/internal/domain"
)

// writeJSON writes v as a JSON body with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// messageBody is the `{message}` response shape shared by mutations.
type messageBody struct {
	Message string `json:"message"`
}

// writeError writes a JSON error body with the given status code.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, struct {
		Error string `json:"error"`
	}{Error: msg})
	if cid, ok := GetCorrelationID(ctx); ok {
		slog.Debug("wrote error response", "cid", cid, "status", code, "msg", msg)
	}
}

// mapServiceError maps domain/store/service errors to HTTP responses. An
// invalid ID is indistinguishable from an unknown one at this surface; both
// are not-found. Store failures become a generic 500 without internal detail.
func (h *Handler) mapServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	cid, _ := GetCorrelationID(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidID):
		slog.Info("service error", "cid", cid, "code", "not_found")
		h.writeError(ctx, w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrNoFile):
		slog.Warn("service error", "cid", cid, "code", "missing_file")
		h.writeError(ctx, w, http.StatusBadRequest, "missing audio file")
	case errors.Is(err, domain.ErrInvalidDate):
		slog.Warn("service error", "cid", cid, "code", "invalid_date")
		h.writeError(ctx, w, http.StatusBadRequest, "invalid date")
	default:
		slog.Error("unhandled service error", "cid", cid, "code", "unhandled", "error", err)
		h.writeError(ctx, w, http.StatusInternalServerError, "internal")
	}
}
