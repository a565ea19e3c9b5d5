// Package storage re-hosts generated assets and returns their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// Object is a stored asset.
type Object struct {
	Key          string
	URL          string
	ThumbnailURL string
}

// Store persists bytes under a key.
type Store interface {
	Name() string
	Put(ctx context.Context, key string, data []byte, contentType string) (Object, error)
}

// VideoKey is the storage key for a generation's video.
func VideoKey(userID, generationID string) string {
	return fmt.Sprintf("videos/%s/%s.mp4", userID, generationID)
}

// sanitizeKey normalizes a key to a slash-separated relative path and rejects
// keys that would escape the store root.
func sanitizeKey(key string) (string, error) {
	key = strings.ReplaceAll(strings.TrimSpace(key), "\\", "/")
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return "", errors.New("storage: invalid key")
		}
	}
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
