package filesystem

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPutOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	bs, err := New(dir)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	data := []byte("fake-ogg-bytes")
	name, err := bs.Put(bytes.NewReader(data), "grabacion.ogg")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !strings.HasSuffix(name, ".ogg") {
		t.Fatalf("expected original extension preserved, got %q", name)
	}
	if strings.ContainsAny(name, "/\\") {
		t.Fatalf("generated name contains separators: %q", name)
	}
	rc, err := bs.Open(name)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	got, _ := io.ReadAll(rc)
	rc.Close()
	if !bytes.Equal(got, data) {
		t.Fatalf("read-back mismatch: %q", got)
	}
}

func TestPutUniqueNames(t *testing.T) {
	dir := t.TempDir()
	bs, _ := New(dir)
	seen := map[string]struct{}{}
	for i := 0; i < 20; i++ {
		name, err := bs.Put(strings.NewReader("x"), "a.mp3")
		if err != nil {
			t.Fatalf("Put %d: %v", i, err)
		}
		if _, dup := seen[name]; dup {
			t.Fatalf("duplicate generated name: %q", name)
		}
		seen[name] = struct{}{}
	}
}

func TestPutStrangeExtensionDropped(t *testing.T) {
	dir := t.TempDir()
	bs, _ := New(dir)
	name, err := bs.Put(strings.NewReader("x"), "weird.o!g/g")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if strings.Contains(name, ".") {
		t.Fatalf("expected extension dropped, got %q", name)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	dir := t.TempDir()
	bs, _ := New(dir)
	name, err := bs.Put(strings.NewReader("x"), "a.wav")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := bs.Delete(name); err != nil {
		t.Fatalf("first Delete failed: %v", err)
	}
	// Absent target is success, not an error.
	if err := bs.Delete(name); err != nil {
		t.Fatalf("second Delete should be nil, got: %v", err)
	}
	if err := bs.Delete(""); err != nil {
		t.Fatalf("empty name Delete should be nil, got: %v", err)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	bs, _ := New(dir)
	for _, name := range []string{"../secret", "a/b", "..", ""} {
		if _, err := bs.Open(name); err == nil {
			t.Errorf("expected error for %q", name)
		}
	}
}

func TestNewBadRoot(t *testing.T) {
	if _, err := New("/path/does/not/exist"); err == nil {
		t.Fatalf("expected error for non-existent root")
	}
	f := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(f, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := New(f); err == nil {
		t.Fatalf("expected error for non-directory root")
	}
}

func TestListSkipsFreshFiles(t *testing.T) {
	dir := t.TempDir()
	bs, _ := New(dir)
	name, err := bs.Put(strings.NewReader("x"), "a.m4a")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	names, err := bs.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("fresh file should be skipped, got %v", names)
	}
	old := time.Now().Add(-2 * time.Second)
	if err := os.Chtimes(filepath.Join(dir, name), old, old); err != nil {
		t.Fatal(err)
	}
	names, err = bs.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 1 || names[0] != name {
		t.Fatalf("expected [%q], got %v", name, names)
	}
}
