// Package httpx contains the HTTP delivery layer (net/http handlers) for the
// ecos service. It maps HTTP requests to the application service while
// enforcing validation, upload limits, security headers, and error
// translation. Handlers are split across files (upload.go, audios.go,
// settings.go, reading.go, health.go, errors.go).
package httpx

import (
	"context"
	"io"
	"net/http"

	"github.com/valfuente/ecos/internal/app"
)

// ServicePort abstracts the subset of app.Service used by the HTTP layer.
// It is satisfied by *app.Service in production and mocked in tests.
type ServicePort interface {
	UploadAudio(ctx context.Context, data io.Reader, originalName, member string, day, month, year int, duration float64) (app.AudioRecord, error)
	ListAudios(ctx context.Context, year, month, day int) ([]app.AudioRecord, error)
	DeleteAudio(ctx context.Context, id string) error
	IncrementCount(ctx context.Context, id string) error
	GetSettings(ctx context.Context) (app.Settings, error)
	SaveSettings(ctx context.Context, s app.Settings) error
	SaveDailyReading(ctx context.Context, date string, r app.DailyReading) error
	GetDailyReading(ctx context.Context, year, month, day int) (app.DailyReading, error)
}

// Collector receives counter events; satisfied by metrics.Manager.
// Nil disables counting.
type Collector interface {
	Inc(name string, delta int64)
}

// UploadsPrefix is the public URL prefix blob names are rewritten under.
const UploadsPrefix = "/uploads/"

// Handler wires HTTP endpoints to the application service.
// It is safe for concurrent use. Zero-value is not valid; construct via New.
type Handler struct {
	Service    ServicePort
	MaxUpload  int64                       // maximum multipart body size in bytes
	UploadsDir string                      // blob directory served at /uploads/
	Readiness  func(context.Context) error // optional readiness probe
	Metrics    http.Handler                // optional /metricsz handler
	Counters   Collector                   // optional counter sink
}

// New returns a configured Handler.
func New(svc ServicePort, maxUpload int64, uploadsDir string, readiness func(context.Context) error) *Handler {
	return &Handler{Service: svc, MaxUpload: maxUpload, UploadsDir: uploadsDir, Readiness: readiness}
}

// Router constructs and returns an http.Handler with all routes mounted and
// correlation + security headers middleware applied.
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload-audio", h.handleUploadAudio)
	mux.HandleFunc("GET /api/audios/{year}/{month}/{day}", h.handleListAudios)
	mux.HandleFunc("DELETE /api/audios/{id}", h.handleDeleteAudio)
	mux.HandleFunc("POST /api/audios/increment-count/{id}", h.handleIncrementCount)
	mux.HandleFunc("GET /api/settings", h.handleGetSettings)
	mux.HandleFunc("POST /api/settings", h.handleSaveSettings)
	mux.HandleFunc("POST /api/daily-reading", h.handleSaveDailyReading)
	mux.HandleFunc("GET /api/daily-reading/{year}/{month}/{day}", h.handleGetDailyReading)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /readyz", h.handleReady)
	if h.UploadsDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix(UploadsPrefix, http.FileServer(http.Dir(h.UploadsDir))))
	}
	if h.Metrics != nil {
		mux.Handle("GET /metricsz", h.Metrics)
	}
	return CorrelationIDMiddleware(h.secureHeaders(mux))
}

// secureHeaders middleware adds standard security & cache control headers.
func (h *Handler) secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		if ct := w.Header().Get("Content-Type"); ct == "" {
			w.Header().Set("Cache-Control", "no-store")
		}
		w.Header().Set("Content-Security-Policy", "default-src 'none'; media-src 'self'; img-src 'self' data:; connect-src 'self'; frame-ancestors 'none'; base-uri 'none'")
		next.ServeHTTP(w, r)
	})
}

// count forwards a counter increment when a collector is configured.
func (h *Handler) count(name string) {
	if h.Counters != nil {
		h.Counters.Inc(name, 1)
	}
}
