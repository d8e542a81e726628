package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// LocalUploader writes attachments to a directory on disk. Development only;
// the returned URL is a /uploads path served by the API binary.
type LocalUploader struct {
	dir string
}

// NewLocalUploader ensures the target directory exists.
func NewLocalUploader(dir string) (*LocalUploader, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalUploader{dir: dir}, nil
}

// Upload writes the file under a collision-free name.
func (u *LocalUploader) Upload(_ context.Context, r io.Reader, name string, _ ResourceKind) (string, error) {
	fileName := fmt.Sprintf("%d_%s%s", time.Now().Unix(), uuid.NewString()[:8], filepath.Ext(name))
	path := filepath.Join(u.dir, fileName)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return "/uploads/" + fileName, nil
}
