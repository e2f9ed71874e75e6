// Package app contains the application orchestration layer for ecos. It wires
// domain validation with persistence ports without performing any I/O itself.
package app

import (
	"context"
	"io"

	"github.com/valfuente/ecos/internal/domain"
)

// Service orchestrates uploads, listings, and record mutations using the
// injected store and clock.
type Service struct {
	Store JournalStore
	Clock Clock
}

// UploadAudio assigns a new ID and server timestamp, then persists the
// recording bytes and metadata. Returns the stored record including the
// generated blob name in FilePath.
func (s *Service) UploadAudio(ctx context.Context, data io.Reader, originalName, member string, day, month, year int, duration float64) (AudioRecord, error) {
	id, err := domain.NewID()
	if err != nil { // extremely unlikely, but propagate
		return AudioRecord{}, err
	}
	rec := AudioRecord{
		ID:        id.String(),
		Member:    member,
		Day:       day,
		Month:     month,
		Year:      year,
		Timestamp: s.Clock.Now().UnixMilli(),
		Duration:  duration,
		Count:     1,
	}
	return s.Store.SaveAudio(ctx, rec, data, originalName)
}

// ListAudios returns all recordings tagged with the given calendar parts,
// oldest first.
func (s *Service) ListAudios(ctx context.Context, year, month, day int) ([]AudioRecord, error) {
	return s.Store.ListAudiosByDate(ctx, year, month, day)
}

// DeleteAudio validates the ID then removes the record and its blob.
func (s *Service) DeleteAudio(ctx context.Context, idStr string) error {
	if _, err := domain.ParseID(idStr); err != nil {
		return domain.ErrInvalidID
	}
	return s.Store.DeleteAudio(ctx, idStr)
}

// IncrementCount validates the ID then bumps the play counter.
func (s *Service) IncrementCount(ctx context.Context, idStr string) error {
	if _, err := domain.ParseID(idStr); err != nil {
		return domain.ErrInvalidID
	}
	return s.Store.IncrementCount(ctx, idStr)
}

// GetSettings loads the single settings record (defaults if never saved).
func (s *Service) GetSettings(ctx context.Context) (Settings, error) {
	return s.Store.GetSettings(ctx)
}

// SaveSettings overwrites the single settings record.
func (s *Service) SaveSettings(ctx context.Context, set Settings) error {
	if set.Members == nil {
		set.Members = []string{}
	}
	return s.Store.SaveSettings(ctx, set)
}

// SaveDailyReading normalizes the date key then upserts the reading.
func (s *Service) SaveDailyReading(ctx context.Context, date string, r DailyReading) error {
	key, err := domain.NormalizeDateKey(date)
	if err != nil {
		return err
	}
	return s.Store.UpsertDailyReading(ctx, key, r)
}

// GetDailyReading returns the reading for the calendar parts, or an empty
// placeholder when nothing was saved for that date.
func (s *Service) GetDailyReading(ctx context.Context, year, month, day int) (DailyReading, error) {
	return s.Store.GetDailyReading(ctx, domain.DateKey(year, month, day))
}
