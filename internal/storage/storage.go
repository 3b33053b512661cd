package storage

import "context"

// UploadInput is a single blob upload.
type UploadInput struct {
	Key          string
	Body         []byte
	ContentType  string
	CacheControl string
}

// UploadResult describes the persisted artifact.
type UploadResult struct {
	URL  string
	ETag string
}

// Uploader stores invoice blobs. Implementations: S3Uploader for real
// deployments, NoopUploader when no object storage is configured.
type Uploader interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
}
