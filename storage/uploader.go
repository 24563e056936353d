package storage

import (
	"context"
	"io"
)

// Object is one file to publish.
type Object struct {
	Key         string
	ContentType string
	// CacheControl is sent as the object's Cache-Control header when set.
	CacheControl string
	Body         io.Reader
}

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader publishes objects under public URLs. Uploading to an existing
// key replaces the object.
type FileUploader interface {
	Upload(ctx context.Context, obj Object) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}
