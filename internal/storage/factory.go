package storage

import (
	"fmt"
	"path/filepath"

	"videostudio/internal/infra"
)

// New builds the Store selected by STORAGE_DRIVER.
func New(cfg *infra.Config) (Store, error) {
	switch cfg.StorageDriver {
	case "", "filesystem":
		path := cfg.StoragePath
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		fs, err := NewFileStore(path, cfg.StorageBaseURL)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case "supabase":
		return NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseBucket), nil
	case "cloudinary":
		cs, err := NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			return nil, err
		}
		return cs, nil
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.StorageDriver)
	}
}
