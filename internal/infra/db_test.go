package infra

import (
	"testing"
	"time"
)

func TestPoolConfigSizing(t *testing.T) {
	cfg := &Config{
		AppEnv:             "production",
		DatabaseURL:        "postgres://studio@localhost:5432/studio",
		WorkerConcurrency:  4,
		DBStatementTimeout: 15 * time.Second,
	}
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		t.Fatalf("poolConfig returned error: %v", err)
	}
	if poolCfg.MaxConns != 18 {
		t.Fatalf("MaxConns = %d, want 18", poolCfg.MaxConns)
	}
	params := poolCfg.ConnConfig.RuntimeParams
	if params["application_name"] != "videostudio-production" || params["statement_timeout"] != "15000" {
		t.Fatalf("unexpected runtime params %v", params)
	}

	cfg.DBMaxConns = 5
	cfg.DBStatementTimeout = 0
	cfg.DatabaseURL += "?application_name=migrator"
	poolCfg, err = poolConfig(cfg)
	if err != nil {
		t.Fatalf("poolConfig returned error: %v", err)
	}
	if poolCfg.MaxConns != 5 {
		t.Fatalf("MaxConns = %d, want 5", poolCfg.MaxConns)
	}
	if got := poolCfg.ConnConfig.RuntimeParams["application_name"]; got != "migrator" {
		t.Fatalf("application_name = %q, want migrator", got)
	}
	if _, ok := poolCfg.ConnConfig.RuntimeParams["statement_timeout"]; ok {
		t.Fatal("statement_timeout must be unset when disabled")
	}
}

func TestPoolConfigRejectsBadInput(t *testing.T) {
	if _, err := poolConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := poolConfig(&Config{DatabaseURL: "postgres://%zz"}); err == nil {
		t.Fatal("expected error for malformed url")
	}
}
