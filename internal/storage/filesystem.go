package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FileStore writes assets under a local directory that the API serves at
// baseURL. Development and single-node installs only.
type FileStore struct {
	root    string
	baseURL string
}

func NewFileStore(root, baseURL string) (*FileStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *FileStore) Name() string { return "filesystem" }

// BasePath is the directory mounted under /static.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.root
}

// Put writes through a unique temp file and a rename; readers never observe a
// partial video.
func (s *FileStore) Put(ctx context.Context, key string, data []byte, _ string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return Object{}, err
	}
	target := filepath.Join(s.root, filepath.FromSlash(cleanKey))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Object{}, fmt.Errorf("storage: ensure directory: %w", err)
	}
	if err := writeAtomic(target, data); err != nil {
		return Object{}, err
	}
	return Object{Key: cleanKey, URL: s.publicURL(cleanKey)}, nil
}

func (s *FileStore) publicURL(key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return s.baseURL + "/" + strings.Join(segments, "/")
}

func writeAtomic(target string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.part")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("storage: write file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("storage: chmod file: %w", err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("storage: finalize file: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
