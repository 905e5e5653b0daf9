package minio

import (
	"context"
	"fmt"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/GaygysyzMyradov/EncryptedDrive/internal/config"
)

var (
	client  *minio.Client
	once    sync.Once
	initErr error
)

// GetClient initializes and returns the MinIO client as a singleton.
// The connection is verified once with a bucket listing at startup.
func GetClient(cfg *config.MinIOConfig) (*minio.Client, error) {
	once.Do(func() {
		c, err := minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.Secure,
		})
		if err != nil {
			initErr = fmt.Errorf("failed to create MinIO client: %w", err)
			return
		}

		if _, err = c.ListBuckets(context.Background()); err != nil {
			initErr = fmt.Errorf("MinIO startup health check failed: %w", err)
			return
		}

		client = c
	})

	return client, initErr
}

// HealthCheck verifies connectivity and authentication against MinIO.
func HealthCheck(ctx context.Context) error {
	if client == nil {
		return fmt.Errorf("MinIO client is not initialized")
	}
	if _, err := client.ListBuckets(ctx); err != nil {
		return fmt.Errorf("MinIO health check failed: %w", err)
	}
	return nil
}
