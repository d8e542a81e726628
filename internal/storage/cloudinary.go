package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/fleetdesk/fleetdesk/internal/config"
)

// CloudinaryUploader stores attachments in Cloudinary and returns the
// secure delivery URL.
type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader initializes the client from config credentials.
func NewCloudinaryUploader(cfg config.UploadConfig) (*CloudinaryUploader, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryUploader{client: client, folder: cfg.Folder}, nil
}

// Upload pushes the file and returns its SecureURL.
func (u *CloudinaryUploader) Upload(ctx context.Context, r io.Reader, name string, kind ResourceKind) (string, error) {
	result, err := u.client.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       u.folder,
		PublicID:     fmt.Sprintf("%s_%d", name, time.Now().Unix()),
		ResourceType: string(kind),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return result.SecureURL, nil
}
