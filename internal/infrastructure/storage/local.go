package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/reeljournal/reeljournal/pkg/interfaces"
)

// LocalStore keeps images on disk below basePath; the HTTP server exposes
// that directory at publicBaseURL.
type LocalStore struct {
	basePath      string
	publicBaseURL string
	logger        interfaces.Logger
}

// NewLocalStore creates basePath if needed.
func NewLocalStore(basePath, publicBaseURL string, logger interfaces.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}

	return &LocalStore{
		basePath:      basePath,
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}, nil
}

// BasePath returns the directory images are written to.
func (s *LocalStore) BasePath() string {
	return s.basePath
}

// Put writes r to key, replacing any existing file.
func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.WithContext(ctx).Debug("Stored image", interfaces.String("key", key))
	return s.URL(key), nil
}

// Delete removes key.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// URL returns the public URL of key.
func (s *LocalStore) URL(key string) string {
	return joinURL(s.publicBaseURL, key)
}

// path resolves key below basePath, rejecting keys that escape it.
func (s *LocalStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.basePath, clean), nil
}
