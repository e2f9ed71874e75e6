package app

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/valfuente/ecos/internal/domain"
)

type fakeStore struct {
	savedRec     AudioRecord
	savedName    string
	saveErr      error
	deletedID    string
	incrementID  string
	settings     Settings
	savedSet     *Settings
	readingKey   string
	savedReading *DailyReading
	savedKey     string
}

func (f *fakeStore) SaveAudio(_ context.Context, rec AudioRecord, data io.Reader, originalName string) (AudioRecord, error) {
	if f.saveErr != nil {
		return AudioRecord{}, f.saveErr
	}
	f.savedRec = rec
	f.savedName = originalName
	rec.FilePath = "generated.ogg"
	return rec, nil
}

func (f *fakeStore) ListAudiosByDate(context.Context, int, int, int) ([]AudioRecord, error) {
	return []AudioRecord{f.savedRec}, nil
}

func (f *fakeStore) DeleteAudio(_ context.Context, id string) error {
	f.deletedID = id
	return nil
}

func (f *fakeStore) IncrementCount(_ context.Context, id string) error {
	f.incrementID = id
	return nil
}

func (f *fakeStore) GetSettings(context.Context) (Settings, error) { return f.settings, nil }

func (f *fakeStore) SaveSettings(_ context.Context, s Settings) error {
	f.savedSet = &s
	return nil
}

func (f *fakeStore) UpsertDailyReading(_ context.Context, dateKey string, r DailyReading) error {
	f.savedKey = dateKey
	f.savedReading = &r
	return nil
}

func (f *fakeStore) GetDailyReading(_ context.Context, dateKey string) (DailyReading, error) {
	f.readingKey = dateKey
	return DailyReading{}, nil
}

func (f *fakeStore) PurgeOlderThan(context.Context, time.Time) (int, error) { return 0, nil }
func (f *fakeStore) Reconcile(context.Context) error                       { return nil }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var hexID = regexp.MustCompile(`^[0-9a-f]{32}$`)

func newService(fs *fakeStore) *Service {
	return &Service{
		Store: fs,
		Clock: fixedClock{time.Date(2025, 3, 9, 15, 4, 5, 0, time.UTC)},
	}
}

func TestUploadAudioAssignsIdentity(t *testing.T) {
	fs := &fakeStore{}
	svc := newService(fs)
	rec, err := svc.UploadAudio(context.Background(), strings.NewReader("bytes"), "voz.ogg", "papá", 9, 3, 2025, 7.5)
	if err != nil {
		t.Fatalf("UploadAudio: %v", err)
	}
	if !hexID.MatchString(rec.ID) {
		t.Fatalf("expected 32-hex id, got %q", rec.ID)
	}
	wantTS := time.Date(2025, 3, 9, 15, 4, 5, 0, time.UTC).UnixMilli()
	if rec.Timestamp != wantTS {
		t.Fatalf("timestamp should come from the clock: got %d want %d", rec.Timestamp, wantTS)
	}
	if rec.Count != 1 {
		t.Fatalf("fresh record starts at count 1, got %d", rec.Count)
	}
	if rec.Member != "papá" || rec.Day != 9 || rec.Month != 3 || rec.Year != 2025 || rec.Duration != 7.5 {
		t.Fatalf("field passthrough mismatch: %+v", rec)
	}
	if rec.FilePath != "generated.ogg" {
		t.Fatalf("expected store-assigned file path, got %q", rec.FilePath)
	}
	if fs.savedName != "voz.ogg" {
		t.Fatalf("original name should reach the store, got %q", fs.savedName)
	}
}

func TestUploadAudioPropagatesStoreError(t *testing.T) {
	fs := &fakeStore{saveErr: errors.New("disk full")}
	if _, err := newService(fs).UploadAudio(context.Background(), nil, "a.ogg", "m", 1, 1, 2025, 0); err == nil {
		t.Fatal("expected store error")
	}
}

func TestDeleteAudioRejectsBadID(t *testing.T) {
	fs := &fakeStore{}
	svc := newService(fs)
	for _, id := range []string{"", "short", "ZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZ", "../../etc/passwd"} {
		if err := svc.DeleteAudio(context.Background(), id); !errors.Is(err, domain.ErrInvalidID) {
			t.Errorf("id %q: expected ErrInvalidID, got %v", id, err)
		}
	}
	if fs.deletedID != "" {
		t.Fatalf("store should never see an invalid id, got %q", fs.deletedID)
	}
	valid := "0123456789abcdef0123456789abcdef"
	if err := svc.DeleteAudio(context.Background(), valid); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}
	if fs.deletedID != valid {
		t.Fatalf("store received %q", fs.deletedID)
	}
}

func TestIncrementCountRejectsBadID(t *testing.T) {
	fs := &fakeStore{}
	svc := newService(fs)
	if err := svc.IncrementCount(context.Background(), "not-hex"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	valid := "ffffffffffffffffffffffffffffffff"
	if err := svc.IncrementCount(context.Background(), valid); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}
	if fs.incrementID != valid {
		t.Fatalf("store received %q", fs.incrementID)
	}
}

func TestSaveSettingsNormalizesNilMembers(t *testing.T) {
	fs := &fakeStore{}
	if err := newService(fs).SaveSettings(context.Background(), Settings{LastLoginMode: "lectura"}); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if fs.savedSet == nil || fs.savedSet.Members == nil || len(fs.savedSet.Members) != 0 {
		t.Fatalf("nil members should become empty slice: %+v", fs.savedSet)
	}
}

func TestSaveDailyReadingNormalizesDate(t *testing.T) {
	fs := &fakeStore{}
	svc := newService(fs)
	if err := svc.SaveDailyReading(context.Background(), "2025-3-9", DailyReading{BookTitle: "Platero"}); err != nil {
		t.Fatalf("SaveDailyReading: %v", err)
	}
	if fs.savedKey != "2025-03-09" {
		t.Fatalf("date should be zero-padded, got %q", fs.savedKey)
	}
	if err := svc.SaveDailyReading(context.Background(), "not-a-date", DailyReading{}); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestGetDailyReadingBuildsKey(t *testing.T) {
	fs := &fakeStore{}
	if _, err := newService(fs).GetDailyReading(context.Background(), 2025, 3, 9); err != nil {
		t.Fatalf("GetDailyReading: %v", err)
	}
	if fs.readingKey != "2025-03-09" {
		t.Fatalf("key mismatch: %q", fs.readingKey)
	}
}
