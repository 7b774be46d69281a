package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"mynotes/internal/config"
)

// MinIOStorage implements BlobStore using an S3-compatible backend (MinIO, AWS S3, etc.).
// It is safe for concurrent use by multiple goroutines.
type MinIOStorage struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

var _ BlobStore = (*MinIOStorage)(nil)

// NewMinIO creates a new S3-compatible storage client backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(ctx context.Context, cfg config.MinIOConfig) (*MinIOStorage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &MinIOStorage{client: cli, bucket: cfg.Bucket, now: time.Now}, nil
}

func newClient(cfg config.MinIOConfig) (*minio.Client, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return cli, nil
}

// Client exposes the underlying client for bucket notification listening.
func (m *MinIOStorage) Client() *minio.Client { return m.client }

// Bucket is the bucket holding note files.
func (m *MinIOStorage) Bucket() string { return m.bucket }

// PresignPut generates a pre-signed URL for PUT with the specified expiry.
func (m *MinIOStorage) PresignPut(ctx context.Context, key string, ttl time.Duration) (SignedURL, error) {
	issued := m.now()
	u, err := m.client.PresignedPutObject(ctx, m.bucket, key, ttl)
	if err != nil {
		return SignedURL{}, fmt.Errorf("presign put %s: %w", key, err)
	}
	return SignedURL{URL: u.String(), ExpiresAt: issued.Add(ttl).UTC()}, nil
}

// PresignGet generates a pre-signed URL for GET with the specified expiry.
func (m *MinIOStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (SignedURL, error) {
	issued := m.now()
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, ttl, url.Values{})
	if err != nil {
		return SignedURL{}, fmt.Errorf("presign get %s: %w", key, err)
	}
	return SignedURL{URL: u.String(), ExpiresAt: issued.Add(ttl).UTC()}, nil
}

// Delete removes an object by key.
func (m *MinIOStorage) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
