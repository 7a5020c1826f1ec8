// Package blob implements content-addressed storage of image payloads.
//
// A blob is a PNG file whose name is derived from a short hash of its
// encoded bytes, so re-copying the same image never stores it twice.
// The history store owns the lifetime: a blob lives exactly as long as
// at least one history item references its filename.
package blob

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tobq/clipboard-tray/pkg/utils"
)

// Ext is the on-disk encoding of every stored image.
const Ext = ".png"

// Store is a directory of content-addressed image files.
type Store struct {
	dir    string
	logger *zap.Logger
}

// New creates the blob directory if needed and returns a store over it.
func New(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Put stores encoded PNG bytes and returns the blob filename. Writing
// is skipped when a blob with the same content hash already exists.
func (s *Store) Put(data []byte) (string, error) {
	fname := utils.ShortHash(data) + Ext
	path := filepath.Join(s.dir, fname)
	if _, err := os.Stat(path); err == nil {
		return fname, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob %s: %w", fname, err)
	}
	return fname, nil
}

// Path returns the absolute path of a blob. The filename is reduced to
// its base so callers can pass untrusted names from the wire.
func (s *Store) Path(fname string) string {
	return filepath.Join(s.dir, filepath.Base(fname))
}

// Read returns the encoded bytes of a blob.
func (s *Store) Read(fname string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(fname))
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", fname, err)
	}
	return data, nil
}

// SizeOf returns the on-disk size of a blob, or 0 if it is missing.
func (s *Store) SizeOf(fname string) int64 {
	info, err := os.Stat(s.Path(fname))
	if err != nil {
		return 0
	}
	return info.Size()
}

// Remove deletes a blob. Deletion is best-effort: a failure is logged
// and otherwise ignored, leaving at worst an orphaned file on disk.
func (s *Store) Remove(fname string) {
	if err := os.Remove(s.Path(fname)); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove blob",
			zap.String("file", fname),
			zap.Error(err))
	}
}
