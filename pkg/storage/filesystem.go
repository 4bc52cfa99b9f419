package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage persists uploaded files on disk under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Store copies the payload under folder/filename and returns the relative
// location usable with Open and Delete.
func (s *LocalStorage) Store(_ context.Context, data io.Reader, folder, filename string) (string, error) {
	location := filepath.Join(folder, filename)
	path := s.resolve(location)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare upload directory: %w", err)
	}

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, data); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return location, nil
}

// Open returns a read-only stream for the stored file.
func (s *LocalStorage) Open(_ context.Context, location string) (io.ReadCloser, error) {
	file, err := os.Open(s.resolve(location))
	if err != nil {
		return nil, fmt.Errorf("open upload file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file if present.
func (s *LocalStorage) Delete(_ context.Context, location string) error {
	if err := os.Remove(s.resolve(location)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

// resolve keeps every access inside the base directory.
func (s *LocalStorage) resolve(location string) string {
	cleaned := filepath.Clean("/" + location)
	return filepath.Join(s.baseDir, strings.TrimPrefix(cleaned, string(os.PathSeparator)))
}
