package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func TestAuthenticate(t *testing.T) {
	valid, err := SignToken(testSecret, "authenticated", Identity{UserID: "user-1", Email: "a@example.com", FullName: "Ada"}, time.Hour)
	if err != nil {
		t.Fatalf("SignToken error: %v", err)
	}
	expired, _ := SignToken(testSecret, "authenticated", Identity{UserID: "user-1"}, -time.Minute)
	wrongAud, _ := SignToken(testSecret, "anon", Identity{UserID: "user-1"}, time.Hour)
	wrongKey, _ := SignToken("another-secret-another-secret-another", "authenticated", Identity{UserID: "user-1"}, time.Hour)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{name: "anonymous", wantStatus: http.StatusOK},
		{name: "valid", header: "Bearer " + valid, wantStatus: http.StatusOK, wantUser: "user-1"},
		{name: "lowercase scheme", header: "bearer " + valid, wantStatus: http.StatusOK, wantUser: "user-1"},
		{name: "expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "wrong audience", header: "Bearer " + wrongAud, wantStatus: http.StatusUnauthorized},
		{name: "wrong key", header: "Bearer " + wrongKey, wantStatus: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotUser string
			h := Authenticate(testSecret, "authenticated")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = UserIDFromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if gotUser != tc.wantUser {
				t.Fatalf("user = %q, want %q", gotUser, tc.wantUser)
			}
		})
	}
}

func TestParseTokenCarriesProfileClaims(t *testing.T) {
	raw, _ := SignToken(testSecret, "authenticated", Identity{UserID: "u", Email: "e@example.com", FullName: "Grace", AvatarURL: "https://img"}, time.Hour)
	id, err := ParseToken(testSecret, "authenticated", raw)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if id.Email != "e@example.com" || id.FullName != "Grace" || id.AvatarURL != "https://img" {
		t.Fatalf("unexpected identity %#v", id)
	}
}
