package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage - хранилище блобов вложений
type Storage interface {
	// Save stores a blob under the given key
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes a blob; a missing key is not an error
	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns a public URL for the blob
	GetURL(ctx context.Context, key string) (string, error)

	// GetSignedURL returns a temporary URL; local storage falls back to GetURL
	GetSignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Provider is recorded on the attachment row (local, s3, cloudflare_r2)
	Provider() string
}

// Config holds storage configuration
type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // For local storage
	BaseURL    string // Public URL base
	Bucket     string // For S3/R2
	Region     string // For S3
	AccessKey  string // For S3/R2
	SecretKey  string // For S3/R2
	Endpoint   string // For R2 or custom S3
	UseSSL     bool   // For custom S3 endpoints
	PublicRead bool   // Upload with public-read ACL
}

const (
	ProviderLocal        = "local"
	ProviderS3           = "s3"
	ProviderCloudflareR2 = "cloudflare_r2"
)

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", ProviderLocal:
		return NewLocalStorage(cfg)
	case ProviderS3:
		return NewS3Storage(cfg)
	case ProviderCloudflareR2:
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// ObjectKey строит ключ блоба: candidates/<id>/<slot>/<uuid><ext>.
// Исходное имя файла в ключ не попадает, оно хранится в метаданных вложения.
func ObjectKey(recordType, recordID, slot, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 {
		ext = ""
	}
	owner := strings.ToLower(recordType) + "s"
	return path.Join(owner, recordID, slot, uuid.NewString()+ext)
}
