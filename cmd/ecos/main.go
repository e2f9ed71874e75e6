// Package main provides the ecos binary entry point: a small family
// audio-journal backend. It loads configuration from the environment,
// opens the SQLite journal and blob directory, runs the startup retention
// sweep, and serves the HTTP API until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/valfuente/ecos/internal/app"
	"github.com/valfuente/ecos/internal/config"
	"github.com/valfuente/ecos/internal/httpx"
	"github.com/valfuente/ecos/internal/janitor"
	"github.com/valfuente/ecos/internal/metrics"
	"github.com/valfuente/ecos/internal/store"
	"github.com/valfuente/ecos/internal/store/filesystem"
	"github.com/valfuente/ecos/internal/store/sqlite"
)

// realClock implements app.Clock using time.Now.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// initLogger installs the process-wide slog default: JSON in prod, text in dev.
func initLogger(envName string) {
	var handler slog.Handler
	if envName == "dev" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}

// ensureDataDir creates the data directory and its uploads subdirectory.
func ensureDataDir(dir string) (string, string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", "", fmt.Errorf("create data directory: %w", err)
	}
	blobDir := filepath.Join(dir, "uploads")
	if err := os.MkdirAll(blobDir, 0o750); err != nil {
		return "", "", fmt.Errorf("create uploads directory: %w", err)
	}
	return dir, blobDir, nil
}

// openDatabase opens the SQLite journal and applies migrations. A failure
// here aborts startup; nothing else in the process is fatal.
func openDatabase(dsn string) (*sqlx.DB, *sqlite.Index, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}
	idx, err := sqlite.New(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init schema: %w", err)
	}
	return db, idx, nil
}

func buildHandler(cfg *config.Config, svc *app.Service, db *sqlx.DB, blobDir string, mgr *metrics.Manager) http.Handler {
	readiness := func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		if _, err := os.ReadDir(blobDir); err != nil {
			return err
		}
		return nil
	}
	h := httpx.New(svc, cfg.MaxUploadBytes, blobDir, readiness)
	h.Metrics = metrics.Handler(mgr, cfg.MetricsToken)
	h.Counters = mgr
	return h.Router()
}

func run() error {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	initLogger(cfg.Env)

	dataDir, blobDir, err := ensureDataDir(cfg.DataDir)
	if err != nil {
		return err
	}
	db, idx, err := openDatabase(cfg.SQLiteDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	blobs, err := filesystem.New(blobDir)
	if err != nil {
		return fmt.Errorf("init blob storage: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := store.New(idx, blobs, slog.Default())
	clock := realClock{}
	svc := &app.Service{Store: st, Clock: clock}

	mgr := metrics.New(db, metrics.Config{FlushInterval: cfg.MetricsFlush})
	if err := mgr.InitSchema(ctx); err != nil {
		return fmt.Errorf("init metrics schema: %w", err)
	}
	mgr.Start(ctx)
	defer mgr.Stop(context.Background())

	// Retention sweep runs once, synchronously, before the API comes up.
	jan := janitor.New(st, mgr, janitor.Config{Interval: cfg.JanitorInterval, Clock: clock})
	jan.RunOnce(ctx)
	jan.Start(ctx)
	defer jan.Stop()

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      buildHandler(cfg, svc, db, blobDir, mgr),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.Addr, "data_dir", dataDir, "pid", os.Getpid())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}
