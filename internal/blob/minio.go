package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/GaygysyzMyradov/EncryptedDrive/internal/common"
)

// MinioStore persists blobs as objects in one MinIO bucket. Object names
// are `<uuid><original extension>` so concurrent uploads never collide.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore wraps an initialized MinIO client, creating the bucket if
// it does not exist yet.
func NewMinioStore(ctx context.Context, client *minio.Client, bucket string) (*MinioStore, error) {
	found, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", bucket, err)
	}
	if !found {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", bucket, err)
		}
	}
	return &MinioStore{client: client, bucket: bucket}, nil
}

func (s *MinioStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	locator := uuid.New().String() + filepath.Ext(name)

	_, err := s.client.PutObject(ctx, s.bucket, locator, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%w: put object %q: %v", common.ErrStorageWrite, locator, err)
	}
	return locator, nil
}

func (s *MinioStore) Get(ctx context.Context, locator string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, locator, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: get object %q: %v", common.ErrStorageRead, locator, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: object %q", common.ErrNotFound, locator)
		}
		return nil, fmt.Errorf("%w: read object %q: %v", common.ErrStorageRead, locator, err)
	}
	return data, nil
}

func (s *MinioStore) Delete(ctx context.Context, locator string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, locator, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: remove object %q: %v", common.ErrStorageWrite, locator, err)
	}
	return nil
}

func (s *MinioStore) Stat(ctx context.Context, locator string) (int64, error) {
	info, err := s.client.StatObject(ctx, s.bucket, locator, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return 0, fmt.Errorf("%w: object %q", common.ErrNotFound, locator)
		}
		return 0, fmt.Errorf("%w: stat object %q: %v", common.ErrStorageRead, locator, err)
	}
	return info.Size, nil
}
