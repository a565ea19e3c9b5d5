package main

import (
	"bytes"
	"strings"
	"testing"

	"videostudio/internal/domain"
	"videostudio/internal/middleware"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTokenCommandMintsVerifiableToken(t *testing.T) {
	out, err := execute(t, "token", "--user", "user-1", "--email", "u@example.com", "--secret", "s3cret")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	id, err := middleware.ParseToken("s3cret", "authenticated", strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if id.UserID != "user-1" || id.Email != "u@example.com" {
		t.Fatalf("unexpected identity %#v", id)
	}
}

func TestTokenCommandRequiresSecret(t *testing.T) {
	t.Setenv("SUPABASE_JWT_SECRET", "")
	t.Setenv("JWT_SECRET", "")
	if _, err := execute(t, "token", "--user", "user-1"); err == nil {
		t.Fatal("expected missing secret error")
	}
}

func TestValidateGrant(t *testing.T) {
	tests := []struct {
		name    string
		grant   domain.Grant
		wantErr bool
	}{
		{name: "purchase", grant: domain.Grant{UserID: "u", Amount: 50, Type: domain.TransactionPurchase}},
		{name: "bonus", grant: domain.Grant{UserID: "u", Amount: 5, Type: domain.TransactionBonus}},
		{name: "missing user", grant: domain.Grant{Amount: 5, Type: domain.TransactionBonus}, wantErr: true},
		{name: "zero amount", grant: domain.Grant{UserID: "u", Type: domain.TransactionBonus}, wantErr: true},
		{name: "usage type", grant: domain.Grant{UserID: "u", Amount: 5, Type: domain.TransactionUsage}, wantErr: true},
		{name: "unknown type", grant: domain.Grant{UserID: "u", Amount: 5, Type: "gift"}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateGrant(tc.grant)
			if (err != nil) != tc.wantErr {
				t.Fatalf("validateGrant err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestProviderKeyRejectsUnknownProvider(t *testing.T) {
	_, err := execute(t, "provider-key", "set", "--provider", "anthropic", "k")
	if err == nil || !strings.Contains(err.Error(), "unsupported provider") {
		t.Fatalf("expected unsupported provider error, got %v", err)
	}
}

func TestProviderKeyEnv(t *testing.T) {
	if providerKeyEnv("openai") != "OPENAI_API_KEY" || providerKeyEnv("google_ai") != "GOOGLE_AI_API_KEY" {
		t.Fatal("unexpected env names")
	}
}
