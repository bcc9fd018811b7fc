package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reeljournal/reeljournal/internal/infrastructure/storage"
	"github.com/reeljournal/reeljournal/pkg/config"
	pkgerrors "github.com/reeljournal/reeljournal/pkg/errors"
	"github.com/reeljournal/reeljournal/pkg/logger"
)

// Smallest valid PNG: signature plus IHDR chunk start is enough for sniffing.
var pngBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
	0x89,
}

func storageConfig(dir string) config.StorageConfig {
	return config.StorageConfig{
		Type:           config.StorageLocal,
		LocalPath:      dir,
		PublicBaseURL:  "/media/",
		MaxUploadBytes: 1024,
		AllowedTypes:   []string{"image/png", "image/jpeg"},
	}
}

func TestLocalStore_PutAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir, "/media", logger.NewNoopLogger())
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "images/a.png", bytes.NewReader(pngBytes), int64(len(pngBytes)), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/media/images/a.png", url)

	written, err := os.ReadFile(filepath.Join(dir, "images", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, written)

	require.NoError(t, store.Delete(context.Background(), "images/a.png"))
	assert.ErrorIs(t, store.Delete(context.Background(), "images/a.png"), storage.ErrKeyNotFound)
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir(), "/media", logger.NewNoopLogger())
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../outside.png", strings.NewReader("x"), 1, "image/png")
	assert.Error(t, err)
}

func TestUploader_Upload(t *testing.T) {
	dir := t.TempDir()
	cfg := storageConfig(dir)
	store, err := storage.NewImageStore(context.Background(), cfg, logger.NewNoopLogger())
	require.NoError(t, err)
	uploader := storage.NewUploader(store, cfg, logger.NewNoopLogger())

	img, err := uploader.Upload(context.Background(), bytes.NewReader(pngBytes))

	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.True(t, strings.HasPrefix(img.Key, "images/"))
	assert.True(t, strings.HasSuffix(img.Key, ".png"))
	assert.Equal(t, "/media/"+img.Key, img.URL)
	assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(img.Key)))
}

func TestUploader_Rejects(t *testing.T) {
	cfg := storageConfig(t.TempDir())
	store, err := storage.NewImageStore(context.Background(), cfg, logger.NewNoopLogger())
	require.NoError(t, err)
	uploader := storage.NewUploader(store, cfg, logger.NewNoopLogger())

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"too large", append(append([]byte{}, pngBytes...), make([]byte, 2048)...)},
		{"not an image", []byte("plain text, definitely not a picture")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uploader.Upload(context.Background(), bytes.NewReader(tt.data))

			assert.True(t, pkgerrors.IsInvalidArgument(err))
			assert.Equal(t, "file", pkgerrors.FieldOf(err))
		})
	}
}

func TestNewImageStore_UnknownType(t *testing.T) {
	_, err := storage.NewImageStore(context.Background(), config.StorageConfig{Type: "ftp"}, logger.NewNoopLogger())

	assert.Error(t, err)
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func (m *mockS3) HeadObject(ctx context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	return &s3.HeadObjectOutput{}, args.Error(0)
}

func TestS3Store_Put(t *testing.T) {
	client := new(mockS3)
	store := storage.NewS3StoreWithClient(client, config.S3Config{
		Bucket: "posters",
		Region: "eu-west-1",
		Prefix: "/journal/",
	}, logger.NewNoopLogger())

	var captured *s3.PutObjectInput
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*s3.PutObjectInput)
	})

	url, err := store.Put(context.Background(), "images/a.png", bytes.NewReader(pngBytes), int64(len(pngBytes)), "image/png")

	require.NoError(t, err)
	assert.Equal(t, "https://posters.s3.eu-west-1.amazonaws.com/journal/images/a.png", url)
	require.NotNil(t, captured)
	assert.Equal(t, "posters", *captured.Bucket)
	assert.Equal(t, "journal/images/a.png", *captured.Key)
	assert.Equal(t, "image/png", *captured.ContentType)
	body, err := io.ReadAll(captured.Body)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, body)
	client.AssertExpectations(t)
}

func TestS3Store_PutFailure(t *testing.T) {
	client := new(mockS3)
	store := storage.NewS3StoreWithClient(client, config.S3Config{Bucket: "b", Endpoint: "http://minio:9000"}, logger.NewNoopLogger())
	client.On("PutObject", mock.Anything, mock.Anything).Return(errors.New("access denied"))

	_, err := store.Put(context.Background(), "k.png", bytes.NewReader(pngBytes), 0, "image/png")

	assert.ErrorContains(t, err, "access denied")
	assert.Equal(t, "http://minio:9000/b/k.png", store.URL("k.png"))
}

func TestS3Store_DeleteMissing(t *testing.T) {
	client := new(mockS3)
	store := storage.NewS3StoreWithClient(client, config.S3Config{Bucket: "b", Region: "us-east-1"}, logger.NewNoopLogger())
	client.On("HeadObject", mock.Anything, mock.Anything).Return(&types.NotFound{})

	err := store.Delete(context.Background(), "gone.png")

	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
	client.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
}
