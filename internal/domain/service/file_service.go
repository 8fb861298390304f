package service

import (
	"context"
	"io"
)

// FileUploadService stores binary objects and returns their public URL.
type FileUploadService interface {
	UploadFile(ctx context.Context, file io.Reader, contentType, folder string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
	// OwnsURL reports whether fileURL points into this service's storage.
	OwnsURL(fileURL string) bool
	GenerateSignedUploadURL(ctx context.Context, contentType, folder string) (*SignedUpload, error)
	Close() error
}

type SignedUpload struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	Method    string `json:"method"`
	ExpiresIn int    `json:"expires_in"`
}
