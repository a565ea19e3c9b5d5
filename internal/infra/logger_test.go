package infra

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		dev  bool
		raw  string
		want zerolog.Level
	}{
		{dev: true, want: zerolog.DebugLevel},
		{dev: false, want: zerolog.InfoLevel},
		{dev: false, raw: "WARN", want: zerolog.WarnLevel},
		{dev: true, raw: " error ", want: zerolog.ErrorLevel},
		{dev: false, raw: "verbose", want: zerolog.InfoLevel},
	}
	for _, tc := range tests {
		if got := resolveLevel(tc.dev, tc.raw); got != tc.want {
			t.Fatalf("resolveLevel(%v, %q) = %s, want %s", tc.dev, tc.raw, got, tc.want)
		}
	}
}

func TestNewLoggerTagsServiceAndFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production", "warn", "worker")
	logger.Info().Msg("dropped")
	logger.Warn().Str("generation_id", "g-1").Msg("kept")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "worker" || entry["message"] != "kept" || entry["generation_id"] != "g-1" {
		t.Fatalf("unexpected entry %v", entry)
	}
}
