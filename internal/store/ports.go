// Package store defines internal persistence adapter ports used by the
// higher-level JournalStore implementation. These ports isolate the concrete
// SQLite index and filesystem blob storage so they can be tested and evolved
// independently. Callers outside this package interact only with the
// app.JournalStore implementation, not these internal details.
package store

import (
	"context"
	"io"

	"github.com/valfuente/ecos/internal/app"
)

// Index abstracts the metadata operations (backed by SQLite). It owns the
// audios, settings, and daily_readings tables.
type Index interface {
	InsertAudio(ctx context.Context, rec app.AudioRecord) error
	ListAudiosByDate(ctx context.Context, year, month, day int) ([]app.AudioRecord, error)
	// DeleteAudio removes the row and returns its stored file_path so the
	// caller can delete the blob. domain.ErrNotFound if no row matched.
	DeleteAudio(ctx context.Context, id string) (filePath string, err error)
	IncrementCount(ctx context.Context, id string) error
	GetSettings(ctx context.Context) (app.Settings, error)
	SaveSettings(ctx context.Context, s app.Settings) error
	UpsertDailyReading(ctx context.Context, dateKey string, r app.DailyReading) error
	GetDailyReading(ctx context.Context, dateKey string) (app.DailyReading, error)
	// SelectAudiosOlderThan returns (id, file_path) pairs for rows whose
	// timestamp precedes cutoffMillis. Used only by the retention sweep.
	SelectAudiosOlderThan(ctx context.Context, cutoffMillis int64) ([]PurgeRecord, error)
	// DeleteAudiosByIDs bulk-deletes rows and returns how many were removed.
	DeleteAudiosByIDs(ctx context.Context, ids []string) (int, error)
	// ListFilePaths returns every blob name referenced by an audio row.
	ListFilePaths(ctx context.Context) ([]string, error)
}

// BlobStorage abstracts recording persistence on the filesystem.
type BlobStorage interface {
	// Put writes the stream under a freshly generated collision-resistant
	// name (original extension preserved) and returns that name.
	Put(r io.Reader, originalName string) (string, error)
	Open(name string) (io.ReadCloser, error)
	// Delete is idempotent: a missing file is success.
	Delete(name string) error
	// List returns all blob names present in storage.
	List() ([]string, error)
}

// PurgeRecord identifies an audio row selected for retention deletion.
type PurgeRecord struct {
	ID       string `db:"id"`
	FilePath string `db:"file_path"`
}
