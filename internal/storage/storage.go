package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"matchpoint/internal/config"

	"github.com/google/uuid"
)

// Storage abstracts where uploaded media lives: video lessons, news images
// and profile avatars all go through it.
type Storage interface {
	// Store saves a file and returns the storage key.
	Store(ctx context.Context, ownerID uuid.UUID, filename string, content io.Reader, contentType string) (string, error)

	// Retrieve opens a file by storage key.
	Retrieve(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file by storage key.
	Delete(ctx context.Context, key string) error

	// SignedURL returns a URL clients can fetch the file from. For S3 this is
	// a presigned URL valid for the given duration; locally it is a server path.
	SignedURL(ctx context.Context, key string, expiration time.Duration) (string, error)

	// Exists reports whether a key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Metadata returns size and content type info for a key.
	Metadata(ctx context.Context, key string) (FileMetadata, error)
}

type FileMetadata struct {
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	LastModified time.Time `json:"last_modified"`
	ETag         string    `json:"etag"`
}

// New builds the backend selected by configuration.
func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "local", "":
		path := cfg.LocalPath
		if path == "" {
			path = "./uploads"
		}
		return NewLocalStorage(path)
	case "s3":
		if cfg.S3Bucket == "" || cfg.S3Region == "" {
			return nil, fmt.Errorf("s3 storage requires STORAGE_S3_BUCKET and STORAGE_S3_REGION")
		}
		return NewS3Storage(cfg.S3Bucket, cfg.S3Region)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

func storageKey(ownerID uuid.UUID, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%d/%02d/%s_%s",
		ownerID.String(),
		now.Year(),
		now.Month(),
		uuid.New().String(),
		sanitizeFilename(filename),
	)
}

func sanitizeFilename(filename string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(filename)
}
