package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage persists uploaded files on disk under a base directory that is
// served publicly under prefix.
type LocalStorage struct {
	baseDir string
	prefix  string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir, publicPrefix string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./public/uploads"
	}
	if publicPrefix == "" {
		publicPrefix = "/uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, prefix: "/" + strings.Trim(publicPrefix, "/")}, nil
}

// SaveStream copies r into filename and returns the public URL of the file.
// filename must be a bare name; directory components are rejected.
func (s *LocalStorage) SaveStream(filename string, r io.Reader) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return "", fmt.Errorf("invalid file name %q", filename)
	}
	target := filepath.Join(s.baseDir, filename)
	file, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(file, r); err != nil {
		_ = file.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("write upload stream: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return s.URL(filename), nil
}

// URL is the public path the file is served at.
func (s *LocalStorage) URL(filename string) string {
	return path.Join(s.prefix, filename)
}

// Dir returns the directory files are written to.
func (s *LocalStorage) Dir() string {
	return s.baseDir
}
