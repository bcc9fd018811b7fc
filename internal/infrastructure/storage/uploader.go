package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"slices"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/reeljournal/reeljournal/pkg/config"
	pkgerrors "github.com/reeljournal/reeljournal/pkg/errors"
	"github.com/reeljournal/reeljournal/pkg/interfaces"
)

// Image describes a stored upload.
type Image struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Uploader validates poster and gallery uploads by content, not by file
// name, and hands them to an ImageStore under a fresh key.
type Uploader struct {
	store    ImageStore
	maxBytes int64
	allowed  []string
	logger   interfaces.Logger
	now      func() time.Time
}

// NewUploader creates an uploader from the storage settings.
func NewUploader(store ImageStore, cfg config.StorageConfig, logger interfaces.Logger) *Uploader {
	maxBytes := cfg.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxUploadBytes
	}
	return &Uploader{
		store:    store,
		maxBytes: maxBytes,
		allowed:  cfg.AllowedTypes,
		logger:   logger,
		now:      time.Now,
	}
}

// MaxBytes is the largest accepted upload.
func (u *Uploader) MaxBytes() int64 {
	return u.maxBytes
}

// Upload reads r fully (up to the size limit), sniffs its type and stores it
// as images/YYYY/MM/<uuid><ext>.
func (u *Uploader) Upload(ctx context.Context, r io.Reader) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, u.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, pkgerrors.InvalidField("file", "is empty")
	}
	if int64(len(data)) > u.maxBytes {
		return nil, pkgerrors.InvalidField("file", fmt.Sprintf("must be at most %d bytes", u.maxBytes))
	}

	mtype := mimetype.Detect(data)
	if !u.isAllowed(mtype) {
		return nil, pkgerrors.InvalidField("file", fmt.Sprintf("unsupported content type %q", mtype.String()))
	}

	now := u.now().UTC()
	key := path.Join("images", now.Format("2006"), now.Format("01"), uuid.NewString()+mtype.Extension())

	url, err := u.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), mtype.String())
	if err != nil {
		return nil, err
	}

	u.logger.WithContext(ctx).Info("Image uploaded",
		interfaces.String("key", key),
		interfaces.String("content_type", mtype.String()),
		interfaces.Int("size", len(data)))

	return &Image{Key: key, URL: url, ContentType: mtype.String(), Size: int64(len(data))}, nil
}

func (u *Uploader) isAllowed(mtype *mimetype.MIME) bool {
	if len(u.allowed) == 0 {
		return true
	}
	for m := mtype; m != nil; m = m.Parent() {
		if slices.Contains(u.allowed, m.String()) {
			return true
		}
	}
	return false
}
