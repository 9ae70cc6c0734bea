package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"ethnicityfacts/domain/core"
)

const defaultChunkSize = 64 * 1024

// LocalFileStorage implements FileStorage using local filesystem
type LocalFileStorage struct {
	basePath  string
	chunkSize int
}

// NewLocalFileStorageWithPath creates a local file storage rooted at basePath
func NewLocalFileStorageWithPath(basePath string) *LocalFileStorage {
	if basePath == "" {
		basePath = "uploads"
	}
	return &LocalFileStorage{basePath: basePath, chunkSize: defaultChunkSize}
}

func (s *LocalFileStorage) Driver() string { return DriverLocal }

// Store saves a file to the local filesystem with a unique name
func (s *LocalFileStorage) Store(ctx context.Context, filename string, r io.Reader, contentType string) (string, error) {
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	key := uniqueKey(filename, time.Now())
	filePath := filepath.Join(s.basePath, key)

	destFile, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}

	buf := make([]byte, s.chunkSize)
	if _, err := io.CopyBuffer(destFile, r, buf); err != nil {
		destFile.Close()
		os.Remove(filePath)
		return "", fmt.Errorf("failed to copy file contents: %w", err)
	}
	if err := destFile.Close(); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return key, nil
}

// Open returns a reader for the stored file
func (s *LocalFileStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(s.basePath, key))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", core.ErrObjectNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes a file from storage; deleting a missing file is not an error
func (s *LocalFileStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.basePath, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists checks if a file exists in storage
func (s *LocalFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	_, err := os.Stat(filepath.Join(s.basePath, key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}
	return true, nil
}
