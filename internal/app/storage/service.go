/*
Package storage handles the media side of IMAGE and FILE messages.

The relay never carries media bytes: clients upload and download directly
against S3-compatible object storage using short-lived presigned URLs, and
messages only reference the object key.
*/
package storage

import (
	"context"
	"time"
)

// PresignedURLDuration is how long an issued upload or download URL stays valid.
const PresignedURLDuration = 5 * time.Minute

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// Service defines the public interface for the file storage service.
type Service interface {
	// PresignUpload generates a pre-signed URL for uploading a file.
	PresignUpload(
		ctx context.Context,
		key string,
		mimeType string,
		fileSize int64,
		duration time.Duration,
	) (string, error)

	// PresignDownload generates a pre-signed URL for downloading a file.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Delete removes the object stored under the given key.
	Delete(ctx context.Context, key string) error
}

// NewService is the factory function for Service. Only S3-compatible
// backends are supported.
func NewService(cfg ServiceConfig) (Service, error) {
	return newS3Client(cfg)
}
