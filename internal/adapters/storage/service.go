// Package storage provides an S3-compatible object store adapter.
// Agencies keep branding assets (logos) and catalog photos here; the
// engine only ever hands out presigned URLs, it never proxies bytes.
package storage

import (
	"context"
	"time"
)

// PresignedURL is the result of a presign operation.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ObjectStore is the storage port used by the identity and catalog modules.
type ObjectStore interface {
	// PresignUpload creates a presigned PUT URL. folder is the key prefix,
	// typically "{agencyID}" or "{agencyID}/{serviceID}".
	PresignUpload(ctx context.Context, bucket, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error)

	// PresignDownload creates a presigned GET URL for an existing object.
	PresignDownload(ctx context.Context, bucket, fileKey string) (*PresignedURL, error)

	// DeleteObject removes an object. Deleting a missing key is not an error.
	DeleteObject(ctx context.Context, bucket, fileKey string) error

	// EnsureBucketExists creates the bucket if it does not exist.
	EnsureBucketExists(ctx context.Context, bucket string) error
}

// Config is the subset of application config the adapter needs.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	IsMinIOEnabled() bool
}
