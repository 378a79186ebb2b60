package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrFileNotFound is returned by Resolve when no stored file matches the given
// code. It is an expected outcome, not an I/O fault.
var ErrFileNotFound = errors.New("stored file not found")

// StoredFile is a handle to a file in the attachment store.
type StoredFile struct {
	// Name is the full stored name, "<code>-<originalName>".
	Name string
	// Path is the absolute or store-relative location on disk.
	Path string
	// Size is the file size in bytes.
	Size int64
}

// Open returns a reader over the stored file's content. The caller closes it.
func (f *StoredFile) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// Store persists uploaded attachments under a single backing directory.
// Every upload gets a fresh uuid code prefixed to its original name, so two
// uploads of the same file never collide and no locking is needed beyond the
// filesystem's own create atomicity.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created lazily on
// the first Save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the backing directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes content under "<code>-<originalName>" and returns the
// generated code together with the stored name actually written to disk.
// originalName must be non-empty; any surrounding whitespace and path
// components in it are stripped, only the base name is kept — callers must
// bind references to the returned stored name, never to their own
// composition from the raw input.
func (s *Store) Save(originalName string, content io.Reader) (code, storedName string, err error) {
	originalName = filepath.Base(strings.TrimSpace(originalName))
	if originalName == "" || originalName == "." || originalName == string(filepath.Separator) {
		return "", "", fmt.Errorf("save attachment: original file name is empty")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", "", fmt.Errorf("save attachment: create directory %s: %w", s.dir, err)
	}

	code = uuid.New().String()
	storedName = code + "-" + originalName
	path := filepath.Join(s.dir, storedName)

	dst, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("save attachment %s: %w", path, err)
	}

	if _, err := io.Copy(dst, content); err != nil {
		// A truncated file would still resolve by its code and serve
		// corrupt content, so it must not survive the failure.
		dst.Close()
		os.Remove(path)
		return "", "", fmt.Errorf("save attachment %s: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("save attachment %s: %w", path, err)
	}
	return code, storedName, nil
}

// Resolve finds the stored file whose name starts with fileCode. The directory
// listing from os.ReadDir is sorted by filename, so when more than one entry
// shares the prefix the lexicographically smallest wins, deterministically.
// Returns ErrFileNotFound when nothing matches.
func (s *Store) Resolve(fileCode string) (*StoredFile, error) {
	if fileCode == "" {
		return nil, ErrFileNotFound
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("resolve attachment %s: %w", fileCode, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), fileCode) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("resolve attachment %s: %w", fileCode, err)
		}
		return &StoredFile{
			Name: entry.Name(),
			Path: filepath.Join(s.dir, entry.Name()),
			Size: info.Size(),
		}, nil
	}
	return nil, ErrFileNotFound
}
