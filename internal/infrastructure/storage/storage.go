package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/reeljournal/reeljournal/pkg/config"
	"github.com/reeljournal/reeljournal/pkg/interfaces"
)

// ErrKeyNotFound is returned when a stored object does not exist.
var ErrKeyNotFound = errors.New("storage key not found")

// ImageStore persists uploaded images and returns their public URL.
type ImageStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// URL returns the public URL of key without checking it exists.
	URL(key string) string
}

// NewImageStore builds the store selected by cfg.Type.
func NewImageStore(ctx context.Context, cfg config.StorageConfig, logger interfaces.Logger) (ImageStore, error) {
	switch cfg.Type {
	case config.StorageLocal, "":
		return NewLocalStore(cfg.LocalPath, cfg.PublicBaseURL, logger)
	case config.StorageS3:
		return NewS3Store(ctx, cfg.S3, logger)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
