package blobstore

import (
	"context"
	"io"
	"net/url"
	"time"
)

// ObjectFetcher streams stored objects, keyed by path within a bucket.
type ObjectFetcher interface {
	Fetch(ctx context.Context, key string) (io.ReadCloser, error)
}

// Uploader issues presigned PUT URLs for direct client uploads.
type Uploader interface {
	PresignPut(ctx context.Context, key string, expiry time.Duration) (*url.URL, error)
}
