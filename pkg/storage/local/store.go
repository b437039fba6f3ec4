package local

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists binary artifacts on the local filesystem under a single
// root directory. Refs handed out are root-relative paths of the form
// "<scope>/<uuid><ext>" and never contain parent traversal.
type Store struct {
	root string
}

// New ensures the root directory exists and returns a store rooted there.
func New(root string) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("storage root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	return &Store{root: root}, nil
}

// Save writes the reader's contents into the scope directory and returns
// the artifact ref plus the number of bytes written.
func (s *Store) Save(scope, filename string, r io.Reader) (string, int64, error) {
	cleanScope, err := sanitizeSegment(scope)
	if err != nil {
		return "", 0, err
	}
	dir := filepath.Join(s.root, cleanScope)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("creating scope dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.NewString() + ext
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("creating artifact: %w", err)
	}
	size, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("writing artifact: %w", err)
	}
	return cleanScope + "/" + name, size, nil
}

// SaveBytes is a convenience wrapper for in-memory payloads.
func (s *Store) SaveBytes(scope, filename string, data []byte) (string, int64, error) {
	return s.Save(scope, filename, bytes.NewReader(data))
}

// Open returns a reader over the artifact at ref.
func (s *Store) Open(ref string) (io.ReadCloser, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening artifact: %w", err)
	}
	return f, nil
}

// Delete removes the artifact at ref. A missing artifact is not an error;
// the bool reports whether a file was actually removed.
func (s *Store) Delete(ref string) (bool, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("deleting artifact: %w", err)
	}
	return true, nil
}

// Path resolves ref to an absolute filesystem path without touching disk.
func (s *Store) Path(ref string) (string, error) {
	return s.resolve(ref)
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) resolve(ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", errors.New("artifact ref is required")
	}
	path := filepath.Join(s.root, filepath.FromSlash(ref))
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("artifact ref %q escapes storage root", ref)
	}
	return path, nil
}

func sanitizeSegment(segment string) (string, error) {
	clean := strings.TrimSpace(segment)
	if clean == "" || strings.ContainsAny(clean, `/\`) || clean == "." || clean == ".." {
		return "", fmt.Errorf("invalid storage scope %q", segment)
	}
	return clean, nil
}
