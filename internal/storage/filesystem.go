package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore persists files under a single root directory. The service keeps
// one store per directory (uploads, outputs, downloads); nothing is ever
// pruned by the store itself.
type FileStore struct {
	basePath string
}

// NewFileStore initializes a FileStore rooted at basePath.
func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Path maps a storage key to its location on disk.
func (s *FileStore) Path(key string) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, filepath.FromSlash(cleanKey)), nil
}

// Rel converts an absolute or root-prefixed path back into a slash separated
// key relative to the store root.
func (s *FileStore) Rel(path string) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	rel, err := filepath.Rel(s.basePath, path)
	if err != nil {
		return "", fmt.Errorf("storage: relative path: %w", err)
	}
	return sanitizeKey(filepath.ToSlash(rel))
}

// Write persists the provided bytes at the given relative key and returns the
// full path of the written file. Keys are cleaned to prevent directory traversal.
func (s *FileStore) Write(ctx context.Context, key string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fullPath, err := s.Path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return fullPath, nil
}

// NewScope creates a fresh, uniquely named subdirectory and returns its key.
// Concurrent callers never share a scope.
func (s *FileStore) NewScope(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	scope := uuid.NewString()
	fullPath, err := s.Path(scope)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(fullPath, 0o755); err != nil {
		return "", fmt.Errorf("storage: create scope: %w", err)
	}
	return scope, nil
}

// Create opens a new file for writing at key. The parent directory must
// already exist; an existing file is never truncated.
func (s *FileStore) Create(key string) (*os.File, error) {
	fullPath, err := s.Path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("storage: create file: %w", err)
	}
	return f, nil
}

// Remove deletes the file stored at key. Missing files are not an error.
func (s *FileStore) Remove(key string) error {
	fullPath, err := s.Path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: remove file: %w", err)
	}
	return nil
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.ToSlash(filepath.Clean(key))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
