package storage

import (
	"context"
	"errors"
)

// NoopUploader rejects every upload; used when object storage is not
// configured so attachment endpoints fail cleanly instead of panicking.
type NoopUploader struct{}

func (NoopUploader) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	return nil, errors.New("storage: no uploader configured")
}
