package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func TestClientIPForRateLimit(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		remoteAddr string
		want       string
	}{
		{
			name:       "single ip",
			header:     "203.0.113.1",
			remoteAddr: "198.51.100.10:1234",
			want:       "203.0.113.1",
		},
		{
			name:       "multiple ips use first",
			header:     " 203.0.113.1 , 198.51.100.2 ",
			remoteAddr: "198.51.100.10:1234",
			want:       "203.0.113.1",
		},
		{
			name:       "invalid forwarded falls back",
			header:     "invalid",
			remoteAddr: "198.51.100.10:1234",
			want:       "198.51.100.10",
		},
		{
			name:       "empty forwarded uses remote host",
			header:     "",
			remoteAddr: "198.51.100.10:1234",
			want:       "198.51.100.10",
		},
		{
			name:       "ipv6 forwarded",
			header:     "2001:db8::1",
			remoteAddr: net.JoinHostPort("2001:db8::2", "443"),
			want:       "2001:db8::1",
		},
		{
			name:       "ipv6 remote fallback",
			header:     "invalid",
			remoteAddr: net.JoinHostPort("2001:db8::2", "443"),
			want:       "2001:db8::2",
		},
		{
			name:       "remote without port",
			header:     "invalid",
			remoteAddr: "203.0.113.1",
			want:       "203.0.113.1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.header != "" {
				req.Header.Set("X-Forwarded-For", tc.header)
			}
			if got := clientIPForRateLimit(req); got != tc.want {
				t.Fatalf("clientIPForRateLimit() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMemoryLimiterSlidingWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(2, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		d, _ := l.Allow(ctx, "ip:1")
		if d.Allowed != want {
			t.Fatalf("call %d allowed = %v, want %v", i, d.Allowed, want)
		}
	}
	if d, _ := l.Allow(ctx, "ip:2"); !d.Allowed || d.Remaining != 1 {
		t.Fatalf("other key should be independent: %#v", d)
	}
	now = now.Add(61 * time.Second)
	if d, _ := l.Allow(ctx, "ip:1"); !d.Allowed {
		t.Fatal("window should have slid")
	}
}

func TestMemoryLimiterEvictsIdleClients(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(5, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		if _, err := l.Allow(ctx, fmt.Sprintf("ip:%d", i)); err != nil {
			t.Fatalf("Allow error: %v", err)
		}
	}
	if got := l.keys(); got != 100 {
		t.Fatalf("tracked keys = %d, want 100", got)
	}

	now = now.Add(2 * time.Minute)
	if _, err := l.Allow(ctx, "ip:fresh"); err != nil {
		t.Fatalf("Allow error: %v", err)
	}
	if got := l.keys(); got != 1 {
		t.Fatalf("tracked keys after a quiet window = %d, want 1", got)
	}
}

func newRedisLimiter(t *testing.T, limit int) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLimiter(client, limit, time.Minute), mr
}

func TestRedisLimiter(t *testing.T) {
	l, mr := newRedisLimiter(t, 3)
	ctx := context.Background()

	var last Decision
	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "user:a")
		if err != nil || !d.Allowed {
			t.Fatalf("call %d: %#v, %v", i, d, err)
		}
		last = d
	}
	if last.Remaining != 0 {
		t.Fatalf("remaining = %d, want 0", last.Remaining)
	}
	d, err := l.Allow(ctx, "user:a")
	if err != nil || d.Allowed {
		t.Fatalf("fourth call should be denied: %#v, %v", d, err)
	}
	members, err := mr.ZMembers("ratelimit:user:a")
	if err != nil || len(members) != 3 {
		t.Fatalf("denied request must not be recorded: %v, %v", members, err)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	l, _ := newRedisLimiter(t, 1)
	h := RateLimit(l, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(ctx context.Context) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/templates", nil).WithContext(ctx)
		req.RemoteAddr = "203.0.113.9:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := do(context.Background())
	if first.Code != http.StatusNoContent || first.Header().Get("X-RateLimit-Limit") != "1" || first.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("unexpected first response %d %v", first.Code, first.Header())
	}
	second := do(context.Background())
	if second.Code != http.StatusTooManyRequests || second.Header().Get("Retry-After") == "" {
		t.Fatalf("expected 429 with Retry-After, got %d %v", second.Code, second.Header())
	}
	if authed := do(ContextWithUserID(context.Background(), "u1")); authed.Code != http.StatusNoContent {
		t.Fatalf("user key should have its own window, got %d", authed.Code)
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	return Decision{}, context.DeadlineExceeded
}

func TestRateLimitFailsOpen(t *testing.T) {
	h := RateLimit(failingLimiter{}, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
