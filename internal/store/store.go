// Package store provides the concrete implementation of the application
// JournalStore port by composing lower-layer persistence ports (Index and
// BlobStorage). External packages should construct the store via New and
// interact only through the app.JournalStore interface.
package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/valfuente/ecos/internal/app"
)

// Store composes an Index and BlobStorage to satisfy app.JournalStore.
// Metadata rows are the source of truth for record existence; blob cleanup
// is advisory and may lag without corrupting that truth.
type Store struct {
	index Index
	blobs BlobStorage
	log   *slog.Logger
}

// New returns a Store implementation of app.JournalStore.
func New(index Index, blobs BlobStorage, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{index: index, blobs: blobs, log: log.With("domain", "store")}
}

var _ app.JournalStore = (*Store)(nil)

// SaveAudio writes the blob first, then the metadata row. If the insert
// fails the just-written blob is removed so no orphan survives the upload.
func (s *Store) SaveAudio(ctx context.Context, rec app.AudioRecord, data io.Reader, originalName string) (app.AudioRecord, error) {
	if s == nil || s.index == nil || s.blobs == nil {
		return app.AudioRecord{}, errors.New("store not properly initialized")
	}
	name, err := s.blobs.Put(data, originalName)
	if err != nil {
		return app.AudioRecord{}, err
	}
	rec.FilePath = name
	if err := s.index.InsertAudio(ctx, rec); err != nil {
		if delErr := s.blobs.Delete(name); delErr != nil {
			s.log.Warn("orphan blob after failed insert", "name", name, "error", delErr)
		}
		return app.AudioRecord{}, err
	}
	return rec, nil
}

// ListAudiosByDate passes through to the index.
func (s *Store) ListAudiosByDate(ctx context.Context, year, month, day int) ([]app.AudioRecord, error) {
	return s.index.ListAudiosByDate(ctx, year, month, day)
}

// DeleteAudio removes the row, then the blob best-effort. A blob deletion
// failure is logged only; the record is already gone.
func (s *Store) DeleteAudio(ctx context.Context, id string) error {
	filePath, err := s.index.DeleteAudio(ctx, id)
	if err != nil {
		return err
	}
	if err := s.blobs.Delete(filePath); err != nil {
		s.log.Warn("blob cleanup failed", "action", "delete", "name", filePath, "error", err)
	}
	return nil
}

// IncrementCount passes through to the index.
func (s *Store) IncrementCount(ctx context.Context, id string) error {
	return s.index.IncrementCount(ctx, id)
}

// GetSettings passes through to the index.
func (s *Store) GetSettings(ctx context.Context) (app.Settings, error) {
	return s.index.GetSettings(ctx)
}

// SaveSettings passes through to the index.
func (s *Store) SaveSettings(ctx context.Context, set app.Settings) error {
	return s.index.SaveSettings(ctx, set)
}

// UpsertDailyReading passes through to the index.
func (s *Store) UpsertDailyReading(ctx context.Context, dateKey string, r app.DailyReading) error {
	return s.index.UpsertDailyReading(ctx, dateKey, r)
}

// GetDailyReading passes through to the index.
func (s *Store) GetDailyReading(ctx context.Context, dateKey string) (app.DailyReading, error) {
	return s.index.GetDailyReading(ctx, dateKey)
}

// PurgeOlderThan implements the retention sweep: select matches, delete the
// rows in one bulk statement, then attempt each blob independently. One
// failed file never aborts the rest.
func (s *Store) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	matched, err := s.index.SelectAudiosOlderThan(ctx, cutoff.UnixMilli())
	if err != nil {
		return 0, err
	}
	if len(matched) == 0 {
		return 0, nil
	}
	ids := make([]string, len(matched))
	for n, rec := range matched {
		ids[n] = rec.ID
	}
	removed, err := s.index.DeleteAudiosByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	for _, rec := range matched {
		if err := s.blobs.Delete(rec.FilePath); err != nil {
			s.log.Warn("blob cleanup failed", "action", "purge", "name", rec.FilePath, "error", err)
		}
	}
	return removed, nil
}

// Reconcile scans for blobs no audio row references and removes them.
// Covers crashes between a blob write and its row insert.
func (s *Store) Reconcile(ctx context.Context) error {
	if s.index == nil || s.blobs == nil {
		return errors.New("store not properly initialized")
	}
	names, err := s.blobs.List()
	if err != nil {
		return err
	}
	referenced, err := s.index.ListFilePaths(ctx)
	if err != nil {
		return err
	}
	refSet := make(map[string]struct{}, len(referenced))
	for _, p := range referenced {
		refSet[p] = struct{}{}
	}
	for _, name := range names {
		if _, ok := refSet[name]; !ok {
			if err := s.blobs.Delete(name); err != nil {
				s.log.Warn("orphan blob removal failed", "name", name, "error", err)
			}
		}
	}
	return nil
}
