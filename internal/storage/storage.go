// Package storage keeps uploaded datasets and their standardised output.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"ethnicityfacts/internal/config"
	"ethnicityfacts/internal/errors"

	"github.com/google/uuid"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// FileStorage stores files under opaque keys
type FileStorage interface {
	Driver() string
	// Store saves r under a new unique key derived from filename
	Store(ctx context.Context, filename string, r io.Reader, contentType string) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Presigner is implemented by stores that can hand out direct download links
type Presigner interface {
	PresignURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// New builds the storage selected by configuration
func New(ctx context.Context, cfg config.StorageConfig) (FileStorage, error) {
	switch cfg.Driver {
	case "", DriverLocal:
		return NewLocalFileStorageWithPath(cfg.Path), nil
	case DriverS3:
		return NewS3FileStorage(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,

			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unknown storage driver %q", cfg.Driver))
	}
}

// uniqueKey turns "survey.csv" into "survey_20240301_090000_1a2b3c4d.csv"
func uniqueKey(filename string, now time.Time) string {
	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%s_%s%s", base, now.Format("20060102_150405"), uuid.New().String()[:8], ext)
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return errors.InvalidInput(fmt.Sprintf("invalid storage key %q", key))
	}
	return nil
}
