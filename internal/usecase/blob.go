package usecase

import (
	"context"
	"io"
)

// Upload is an image submitted alongside a team form.
type Upload struct {
	Filename string
	Content  io.Reader
}

// BlobStore persists uploads and returns their public URL. Rejected content
// is reported wrapped in ErrInvalidInput.
type BlobStore interface {
	Save(ctx context.Context, category string, upload Upload) (string, error)
	Remove(ctx context.Context, url string) error
}
