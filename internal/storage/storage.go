// Package storage abstracts attachment file storage behind an Uploader.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fleetdesk/fleetdesk/internal/config"
)

// ResourceKind classifies an upload for the storage backend.
type ResourceKind string

const (
	ResourceImage ResourceKind = "image"
	ResourceVideo ResourceKind = "video"
)

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, name string, kind ResourceKind) (publicURL string, err error)
}

// KindForMime maps a MIME type to a resource kind. Only image/* and video/*
// uploads are accepted.
func KindForMime(mimeType string) (ResourceKind, bool) {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return ResourceImage, true
	case strings.HasPrefix(mimeType, "video/"):
		return ResourceVideo, true
	}
	return "", false
}

// MaxBytes returns the configured size cap for a resource kind.
func MaxBytes(cfg config.UploadConfig, kind ResourceKind) int64 {
	if kind == ResourceVideo {
		return cfg.MaxVideoBytes
	}
	return cfg.MaxImageBytes
}

// NewUploader selects the backend from config.
func NewUploader(cfg config.UploadConfig) (Uploader, error) {
	switch cfg.Provider {
	case "cloudinary":
		return NewCloudinaryUploader(cfg)
	case "local", "":
		return NewLocalUploader(cfg.LocalDir)
	}
	return nil, fmt.Errorf("unknown upload provider %q", cfg.Provider)
}
