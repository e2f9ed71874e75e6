// Package sqlite provides a SQLite-backed implementation of the store.Index
// port for persisting audio metadata, settings, and daily readings. Schema
// is managed through embedded goose migrations run once at construction.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/valfuente/ecos/internal/app"
	"github.com/valfuente/ecos/internal/domain"
	"github.com/valfuente/ecos/internal/store"

	// database/sql SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var _ store.Index = (*Index)(nil)

// Index implements store.Index using SQLite via sqlx. It is safe for
// concurrent use; database/sql manages connection pooling and SQLite's own
// locking makes each statement atomic (notably count = count + 1).
type Index struct{ db *sqlx.DB }

// New constructs an Index, applying any pending migrations.
func New(db *sqlx.DB) (*Index, error) {
	if err := migrate(db.DB); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Index{db: db}, nil
}

// migrate runs the embedded goose migrations. Goose tracks applied versions
// in its own table, so this is idempotent across restarts.
func migrate(db *sql.DB) error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	return goose.Up(db, "migrations")
}

// InsertAudio stores a new audio row. ID and Timestamp are caller-assigned.
func (i *Index) InsertAudio(ctx context.Context, rec app.AudioRecord) error {
	const q = `INSERT INTO audios (id, member, day, month, year, file_path, timestamp, duration, count)
VALUES (:id, :member, :day, :month, :year, :file_path, :timestamp, :duration, :count)`
	_, err := i.db.NamedExecContext(ctx, q, rec)
	return err
}

// ListAudiosByDate returns rows tagged (year, month, day), oldest first.
func (i *Index) ListAudiosByDate(ctx context.Context, year, month, day int) ([]app.AudioRecord, error) {
	const q = `SELECT id, member, day, month, year, file_path, timestamp, duration, count
FROM audios WHERE year = ? AND month = ? AND day = ? ORDER BY timestamp ASC`
	var recs []app.AudioRecord
	if err := i.db.SelectContext(ctx, &recs, q, year, month, day); err != nil {
		return nil, err
	}
	return recs, nil
}

// DeleteAudio removes the row and returns its file_path for blob cleanup.
func (i *Index) DeleteAudio(ctx context.Context, id string) (string, error) {
	const q = `DELETE FROM audios WHERE id = ? RETURNING file_path`
	var filePath string
	if err := i.db.QueryRowxContext(ctx, q, id).Scan(&filePath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return filePath, nil
}

// IncrementCount bumps the play counter in a single statement; SQLite
// serializes writers so concurrent increments never lose updates.
func (i *Index) IncrementCount(ctx context.Context, id string) error {
	res, err := i.db.ExecContext(ctx, `UPDATE audios SET count = count + 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// settingsRow is the raw table shape; members is a JSON array in TEXT.
type settingsRow struct {
	GlobalBookTitle string `db:"global_book_title"`
	Members         string `db:"members"`
	LastLoginMode   string `db:"last_login_mode"`
}

// GetSettings returns the single settings row, falling back to hard-coded
// defaults if the row is somehow missing.
func (i *Index) GetSettings(ctx context.Context) (app.Settings, error) {
	const q = `SELECT global_book_title, members, last_login_mode FROM settings WHERE id = 1`
	var row settingsRow
	if err := i.db.GetContext(ctx, &row, q); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return app.DefaultSettings(), nil
		}
		return app.Settings{}, err
	}
	members := []string{}
	if row.Members != "" {
		if err := json.Unmarshal([]byte(row.Members), &members); err != nil {
			return app.Settings{}, fmt.Errorf("decode members: %w", err)
		}
	}
	return app.Settings{
		GlobalBookTitle: row.GlobalBookTitle,
		Members:         members,
		LastLoginMode:   row.LastLoginMode,
	}, nil
}

// SaveSettings fully overwrites row id 1.
func (i *Index) SaveSettings(ctx context.Context, s app.Settings) error {
	members := s.Members
	if members == nil {
		members = []string{}
	}
	encoded, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("encode members: %w", err)
	}
	const q = `INSERT INTO settings (id, global_book_title, members, last_login_mode)
VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    global_book_title = excluded.global_book_title,
    members = excluded.members,
    last_login_mode = excluded.last_login_mode`
	_, err = i.db.ExecContext(ctx, q, s.GlobalBookTitle, string(encoded), s.LastLoginMode)
	return err
}

// UpsertDailyReading inserts or replaces the reading keyed by dateKey.
func (i *Index) UpsertDailyReading(ctx context.Context, dateKey string, r app.DailyReading) error {
	const q = `INSERT INTO daily_readings (date, book_title, start_date, end_date)
VALUES (?, ?, ?, ?)
ON CONFLICT(date) DO UPDATE SET
    book_title = excluded.book_title,
    start_date = excluded.start_date,
    end_date = excluded.end_date`
	_, err := i.db.ExecContext(ctx, q, dateKey, r.BookTitle, r.StartDate, r.EndDate)
	return err
}

// GetDailyReading returns the reading for dateKey. A date with no record
// yields the zero value, never an error.
func (i *Index) GetDailyReading(ctx context.Context, dateKey string) (app.DailyReading, error) {
	const q = `SELECT book_title, start_date, end_date FROM daily_readings WHERE date = ?`
	var r app.DailyReading
	if err := i.db.GetContext(ctx, &r, q, dateKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return app.DailyReading{}, nil
		}
		return app.DailyReading{}, err
	}
	return r, nil
}

// SelectAudiosOlderThan returns (id, file_path) for rows created before
// cutoffMillis. Used only by the retention sweep.
func (i *Index) SelectAudiosOlderThan(ctx context.Context, cutoffMillis int64) ([]store.PurgeRecord, error) {
	const q = `SELECT id, file_path FROM audios WHERE timestamp < ?`
	var recs []store.PurgeRecord
	if err := i.db.SelectContext(ctx, &recs, q, cutoffMillis); err != nil {
		return nil, err
	}
	return recs, nil
}

// DeleteAudiosByIDs bulk-deletes rows and reports how many went away.
func (i *Index) DeleteAudiosByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q, args, err := sqlx.In(`DELETE FROM audios WHERE id IN (?)`, ids)
	if err != nil {
		return 0, err
	}
	res, err := i.db.ExecContext(ctx, i.db.Rebind(q), args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ListFilePaths returns every blob name referenced by an audio row.
func (i *Index) ListFilePaths(ctx context.Context) ([]string, error) {
	var paths []string
	if err := i.db.SelectContext(ctx, &paths, `SELECT file_path FROM audios`); err != nil {
		return nil, err
	}
	return paths, nil
}
