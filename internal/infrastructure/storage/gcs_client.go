package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"farmily/internal/domain/service"
)

const (
	publicHost      = "https://storage.googleapis.com/"
	signedURLExpiry = 15 * time.Minute
)

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName string, credentialsPath string) (*CloudStorageClient, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// Extension returns the object suffix for an image content type.
func Extension(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}

func objectName(folder, contentType string) string {
	folder = strings.Trim(folder, "/")
	return fmt.Sprintf("%s/%s-%s%s", folder, uuid.New().String(), time.Now().UTC().Format("20060102150405"), Extension(contentType))
}

func (c *CloudStorageClient) publicURL(name string) string {
	return fmt.Sprintf("%s%s/%s", publicHost, c.bucketName, name)
}

func (c *CloudStorageClient) UploadFile(ctx context.Context, file io.Reader, contentType, folder string) (string, error) {
	name := objectName(folder, contentType)

	obj := c.client.Bucket(c.bucketName).Object(name)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(wc, file); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to copy file to GCS: %v", err)
	}

	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %v", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("failed to set ACL: %v", err)
	}

	return c.publicURL(name), nil
}

func (c *CloudStorageClient) OwnsURL(fileURL string) bool {
	return strings.HasPrefix(fileURL, publicHost+c.bucketName+"/")
}

func (c *CloudStorageClient) DeleteFile(ctx context.Context, fileURL string) error {
	if !c.OwnsURL(fileURL) {
		return fmt.Errorf("invalid GCS URL format or bucket mismatch")
	}
	name := strings.TrimPrefix(fileURL, publicHost+c.bucketName+"/")

	if err := c.client.Bucket(c.bucketName).Object(name).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}

func (c *CloudStorageClient) GenerateSignedUploadURL(ctx context.Context, contentType, folder string) (*service.SignedUpload, error) {
	name := objectName(folder, contentType)

	opts := &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		ContentType: contentType,
		Expires:     time.Now().Add(signedURLExpiry),
	}

	url, err := c.client.Bucket(c.bucketName).SignedURL(name, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signed URL: %v", err)
	}

	return &service.SignedUpload{
		UploadURL: url,
		PublicURL: c.publicURL(name),
		Method:    http.MethodPut,
		ExpiresIn: int(signedURLExpiry.Seconds()),
	}, nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
