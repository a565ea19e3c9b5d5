// Package credentials keeps upstream model API keys in the database so they
// can be rotated without redeploying.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"videostudio/internal/infra"
	"videostudio/internal/sqlinline"
)

const (
	// ProviderGoogleAI keys both the video model and the prompt text model.
	ProviderGoogleAI = "google_ai"
	ProviderOpenAI   = "openai"
)

// ErrUnknownProvider is returned for provider names outside the supported set.
var ErrUnknownProvider = errors.New("unknown provider")

// ValidProvider reports whether provider has a provider_keys row slot.
func ValidProvider(provider string) bool {
	switch provider {
	case ProviderGoogleAI, ProviderOpenAI:
		return true
	}
	return false
}

type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// Key returns the stored key for provider, or "" when none is stored.
func (s *Store) Key(ctx context.Context, provider string) (string, error) {
	if !ValidProvider(provider) {
		return "", fmt.Errorf("%w %q", ErrUnknownProvider, provider)
	}
	var key string
	if err := s.sql.QueryRow(ctx, sqlinline.QSelectProviderKey, provider).Scan(&key); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("load %s key: %w", provider, err)
	}
	return strings.TrimSpace(key), nil
}

// Resolve returns the configured key when set and the stored key otherwise.
func (s *Store) Resolve(ctx context.Context, provider, configured string) (string, error) {
	if key := strings.TrimSpace(configured); key != "" {
		return key, nil
	}
	return s.Key(ctx, provider)
}

// SetKey stores or rotates the key for provider. props are merged into the
// row's existing properties.
func (s *Store) SetKey(ctx context.Context, provider, key string, props map[string]any) error {
	if !ValidProvider(provider) {
		return fmt.Errorf("%w %q", ErrUnknownProvider, provider)
	}
	if key = strings.TrimSpace(key); key == "" {
		return fmt.Errorf("%s api key is required", provider)
	}
	raw := []byte("{}")
	if len(props) > 0 {
		var err error
		if raw, err = json.Marshal(props); err != nil {
			return fmt.Errorf("encode %s key properties: %w", provider, err)
		}
	}
	if _, err := s.sql.Exec(ctx, sqlinline.QUpsertProviderKey, provider, key, raw); err != nil {
		return fmt.Errorf("store %s key: %w", provider, err)
	}
	return nil
}
