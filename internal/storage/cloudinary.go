package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

type videoUploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryStore uploads videos to Cloudinary and derives a poster frame URL.
type CloudinaryStore struct {
	cloudName string
	folder    string
	uploader  videoUploader
}

// NewCloudinaryStore builds a store from cloud name, API key and secret.
func NewCloudinaryStore(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStore, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("storage: cloudinary config: %w", err)
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, fmt.Errorf("storage: cloudinary uploader: %w", err)
	}
	return &CloudinaryStore{cloudName: cloudName, folder: folder, uploader: up}, nil
}

func (c *CloudinaryStore) Name() string { return "cloudinary" }

// Put uploads data as a video asset. The public id is the key without its
// extension and without a leading folder segment equal to the configured folder.
func (c *CloudinaryStore) Put(ctx context.Context, key string, data []byte, contentType string) (Object, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return Object{}, err
	}
	publicID := strings.TrimSuffix(cleanKey, path.Ext(cleanKey))
	publicID = strings.TrimPrefix(publicID, strings.Trim(c.folder, "/")+"/")

	result, err := c.uploader.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       c.folder,
		PublicID:     publicID,
		ResourceType: "video",
	})
	if err != nil {
		return Object{}, fmt.Errorf("storage: cloudinary upload: %w", err)
	}
	if result == nil {
		return Object{}, errors.New("storage: cloudinary returned no result")
	}
	if result.Error.Message != "" {
		return Object{}, fmt.Errorf("storage: cloudinary upload: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return Object{}, errors.New("storage: cloudinary returned no url")
	}
	return Object{
		Key:          cleanKey,
		URL:          result.SecureURL,
		ThumbnailURL: fmt.Sprintf("https://res.cloudinary.com/%s/video/upload/so_0/%s.jpg", c.cloudName, result.PublicID),
	}, nil
}

var _ Store = (*CloudinaryStore)(nil)
