package domain

import (
	"context"
	"io"
)

// MaxPosterSize is the largest poster image accepted, in bytes.
const MaxPosterSize = 5 << 20

// PosterUpload is an image submitted for an event poster.
type PosterUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ObjectStorage stores poster images and returns their public URL.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, size int64, body io.Reader) (publicURL string, err error)
}
