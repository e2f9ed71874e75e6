// Package filesystem provides a BlobStorage implementation backed by the
// local filesystem. It stores uploaded recordings as immutable blob files
// under generated names.
package filesystem

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/valfuente/ecos/internal/store"
)

// Ensure BlobStore implements store.BlobStorage
var _ store.BlobStorage = (*BlobStore)(nil)

// BlobStore implements store.BlobStorage using the local filesystem.
// Names are generated at write time from the current instant plus a random
// component, preserving the upload's original extension.
type BlobStore struct {
	root string
}

// New returns a filesystem-backed blob store rooted at dir. The directory
// must already exist.
func New(root string) (*BlobStore, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, errors.New("blob root is not a directory")
	}
	return &BlobStore{root: root}, nil
}

// Root returns the directory blobs are stored under, for static serving.
func (b *BlobStore) Root() string { return b.root }

// Put streams r into a new file and returns the generated name.
func (b *BlobStore) Put(r io.Reader, originalName string) (string, error) {
	name, err := generateName(originalName)
	if err != nil {
		return "", err
	}
	p := filepath.Join(b.root, name)
	// O_EXCL: the generated name must not already exist.
	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600) // #nosec G304 path is root + generated name
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err = io.Copy(f, r); err != nil {
		// delete partial file on error
		_ = os.Remove(p)
		return "", err
	}
	if err = f.Sync(); err != nil {
		return "", err
	}
	return name, nil
}

// Open returns a reader over the blob for read-back.
func (b *BlobStore) Open(name string) (io.ReadCloser, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(b.root, name)) // #nosec G304 path constructed internally
}

// Delete removes the blob file. A file that is already gone is success;
// callers rely on this when metadata deletion raced ahead of cleanup.
func (b *BlobStore) Delete(name string) error {
	if name == "" {
		return nil
	}
	if err := validateName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(b.root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// List returns all blob names currently present. Higher layers derive
// orphans by diffing against index-reported file paths.
func (b *BlobStore) List() ([]string, error) {
	entries, err := os.ReadDir(b.root)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		// Freshness guard: skip very recent files so reconciliation never
		// races an upload whose metadata row is still being written.
		if info, err := e.Info(); err == nil && time.Since(info.ModTime()) < time.Second {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// generateName builds "<unixMillis>-<8 hex><ext>". The random component
// keeps two uploads within the same millisecond from colliding.
func generateName(originalName string) (string, error) {
	var rnd [4]byte
	if _, err := rand.Read(rnd[:]); err != nil {
		return "", err
	}
	ext := sanitizeExt(filepath.Ext(originalName))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), hex.EncodeToString(rnd[:]), ext), nil
}

// sanitizeExt keeps only a plain dotted extension; anything suspicious is
// dropped rather than rejected since the extension is cosmetic.
func sanitizeExt(ext string) string {
	if ext == "" || ext == "." {
		return ""
	}
	for i := 1; i < len(ext); i++ {
		c := ext[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return ""
		}
	}
	if len(ext) > 11 { // ".":1 + 10 chars is plenty for audio containers
		return ""
	}
	return strings.ToLower(ext)
}

// validateName rejects anything that could escape the blob root. Generated
// names never contain separators or dot-dot.
func validateName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return errors.New("invalid blob name")
	}
	return nil
}
