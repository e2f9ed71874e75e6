package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/valfuente/ecos/internal/app"
	"github.com/valfuente/ecos/internal/config"
	"github.com/valfuente/ecos/internal/metrics"
	"github.com/valfuente/ecos/internal/store"
	"github.com/valfuente/ecos/internal/store/filesystem"
)

func TestEnsureDataDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "data")
	dataDir, blobDir, err := ensureDataDir(root)
	if err != nil {
		t.Fatalf("ensureDataDir: %v", err)
	}
	if dataDir != root {
		t.Fatalf("data dir mismatch: %q", dataDir)
	}
	if blobDir != filepath.Join(root, "uploads") {
		t.Fatalf("blob dir mismatch: %q", blobDir)
	}
	for _, d := range []string{dataDir, blobDir} {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %q missing: %v", d, err)
		}
	}
	// Idempotent on restart.
	if _, _, err := ensureDataDir(root); err != nil {
		t.Fatalf("second ensureDataDir: %v", err)
	}
}

func TestOpenDatabaseMigrates(t *testing.T) {
	cfg := config.Config{DataDir: t.TempDir()}
	db, idx, err := openDatabase(cfg.SQLiteDSN())
	if err != nil {
		t.Fatalf("openDatabase: %v", err)
	}
	defer db.Close()
	if idx == nil {
		t.Fatal("nil index")
	}
	for _, table := range []string{"audios", "settings", "daily_readings"} {
		var name string
		err := db.Get(&name, `SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table)
		if err != nil {
			t.Fatalf("table %q not migrated: %v", table, err)
		}
	}
}

func TestBuildHandlerSmoke(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Addr: ":3000", DataDir: dir, Env: "dev",
		MaxUploadBytes: 1 << 20, MetricsFlush: time.Hour,
	}
	_, blobDir, err := ensureDataDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	db, idx, err := openDatabase(cfg.SQLiteDSN())
	if err != nil {
		t.Fatalf("openDatabase: %v", err)
	}
	defer db.Close()
	blobs, err := filesystem.New(blobDir)
	if err != nil {
		t.Fatal(err)
	}
	st := store.New(idx, blobs, nil)
	svc := &app.Service{Store: st, Clock: realClock{}}
	mgr := metrics.New(db, metrics.Config{FlushInterval: time.Hour})
	if err := mgr.InitSchema(context.Background()); err != nil {
		t.Fatal(err)
	}
	handler := buildHandler(cfg, svc, db, blobDir, mgr)

	for _, tt := range []struct {
		path string
		want int
	}{
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
		{"/api/settings", http.StatusOK},
		{"/api/audios/2025/3/9", http.StatusOK},
		{"/api/daily-reading/2025/3/9", http.StatusOK},
		{"/metricsz", http.StatusOK},
	} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rr.Code != tt.want {
			t.Errorf("%s: status %d, want %d (body %s)", tt.path, rr.Code, tt.want, rr.Body)
		}
	}
}
