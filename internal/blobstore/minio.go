package blobstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore is an S3-compatible blob store bound to a single bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

var (
	_ ObjectFetcher = (*MinioStore)(nil)
	_ Uploader      = (*MinioStore)(nil)
)

func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("blob endpoint is required")
	}
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &MinioStore{
		client: client,
		bucket: bucket,
	}, nil
}

func (s *MinioStore) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("blob store is not initialized")
	}
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("object key is required")
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch object %q: %w", key, err)
	}

	return obj, nil
}

func (s *MinioStore) PresignPut(ctx context.Context, key string, expiry time.Duration) (*url.URL, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("blob store is not initialized")
	}
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("object key is required")
	}
	if expiry <= 0 {
		expiry = 10 * time.Minute
	}

	signedURL, err := s.client.PresignedPutObject(ctx, s.bucket, key, expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload for %q: %w", key, err)
	}

	return signedURL, nil
}

// Ping verifies bucket reachability for readiness checks.
func (s *MinioStore) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("blob store is not initialized")
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", s.bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", s.bucket)
	}
	return nil
}
