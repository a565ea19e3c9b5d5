package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseStore uploads to a public Supabase Storage bucket.
type SupabaseStore struct {
	client *storage_go.Client
	bucket string
}

func NewSupabaseStore(baseURL, serviceKey, bucket string) *SupabaseStore {
	endpoint := strings.TrimRight(baseURL, "/") + "/storage/v1"
	return &SupabaseStore{
		client: storage_go.NewClient(endpoint, serviceKey, map[string]string{"apikey": serviceKey}),
		bucket: bucket,
	}
}

func (s *SupabaseStore) Name() string { return "supabase" }

func (s *SupabaseStore) Put(ctx context.Context, key string, data []byte, contentType string) (Object, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return Object{}, err
	}
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	upsert := true
	resp, err := s.client.UploadFile(s.bucket, cleanKey, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return Object{}, fmt.Errorf("storage: upload: %w", err)
	}
	if resp.Key == "" {
		return Object{}, errors.New("storage: upload rejected")
	}
	return Object{Key: cleanKey, URL: s.client.GetPublicUrl(s.bucket, cleanKey).SignedURL}, nil
}

var _ Store = (*SupabaseStore)(nil)
