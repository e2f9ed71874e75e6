// Package app defines the application layer "ports" (interfaces) and simple
// data contracts that the core use-cases of ecos depend upon. It follows a
// hexagonal (ports & adapters) design: this package declares what the core
// needs, while adapter packages (e.g. SQLite+filesystem storage, HTTP layer,
// janitor jobs) provide concrete implementations. No I/O, logging, SQL, or
// network concerns belong here.
package app

import (
	"context"
	"io"
	"time"
)

// Clock abstracts time to enable deterministic testing of timestamps and
// retention cutoffs.
type Clock interface {
	// Now returns the current wall-clock time.
	Now() time.Time
}

// JournalStore is the storage port for the audio journal. Implementations
// coordinate a metadata index (e.g. SQLite) with blob storage (filesystem)
// but those details are outside this interface.
type JournalStore interface {
	// SaveAudio persists the uploaded bytes and the metadata row. The blob
	// name is generated by the store; the returned record carries it in
	// FilePath. If the metadata insert fails the written blob is removed
	// best-effort so no orphan survives a failed upload.
	SaveAudio(ctx context.Context, rec AudioRecord, data io.Reader, originalName string) (AudioRecord, error)

	// ListAudiosByDate returns all records tagged (year, month, day),
	// ascending by Timestamp.
	ListAudiosByDate(ctx context.Context, year, month, day int) ([]AudioRecord, error)

	// DeleteAudio removes the metadata row (domain.ErrNotFound if absent)
	// and then deletes the backing blob best-effort. Metadata is the source
	// of truth; a failed blob delete is logged, never surfaced.
	DeleteAudio(ctx context.Context, id string) error

	// IncrementCount atomically bumps the play counter for id.
	// Returns domain.ErrNotFound if no row matched.
	IncrementCount(ctx context.Context, id string) error

	// GetSettings returns the single settings row, or hard-coded defaults
	// if it does not exist yet.
	GetSettings(ctx context.Context) (Settings, error)

	// SaveSettings fully overwrites the single settings row.
	SaveSettings(ctx context.Context, s Settings) error

	// UpsertDailyReading inserts or replaces the reading for dateKey.
	UpsertDailyReading(ctx context.Context, dateKey string, r DailyReading) error

	// GetDailyReading returns the reading for dateKey, or a zero-valued
	// placeholder if absent. Never returns not-found.
	GetDailyReading(ctx context.Context, dateKey string) (DailyReading, error)

	// PurgeOlderThan deletes all audio rows with Timestamp before cutoff in
	// one bulk statement, then removes their blobs best-effort. Returns the
	// number of rows removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)

	// Reconcile removes blob files no metadata row references. Idempotent
	// and safe to run at any time.
	Reconcile(ctx context.Context) error
}
