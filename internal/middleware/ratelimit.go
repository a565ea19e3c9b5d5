package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Decision is the outcome of one rate limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter counts requests per key over a sliding window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// MemoryLimiter is a per-process sliding window log. Keys whose window has
// emptied are dropped by a sweep that runs at most once per window.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	hits      map[string][]time.Time
	lastPrune time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{limit: limit, window: window, now: time.Now, hits: map[string][]time.Time{}}
}

func (m *MemoryLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := m.now()
	cutoff := now.Add(-m.window)

	m.mu.Lock()
	defer m.mu.Unlock()
	if now.Sub(m.lastPrune) >= m.window {
		m.prune(cutoff)
		m.lastPrune = now
	}

	kept := recent(m.hits[key], cutoff)
	d := Decision{Limit: m.limit, Reset: now.Add(m.window)}
	if len(kept) > 0 {
		d.Reset = kept[0].Add(m.window)
	}
	if len(kept) >= m.limit {
		m.hits[key] = kept
		return d, nil
	}
	m.hits[key] = append(kept, now)
	d.Allowed = true
	d.Remaining = m.limit - len(kept) - 1
	return d, nil
}

func (m *MemoryLimiter) prune(cutoff time.Time) {
	for key, hits := range m.hits {
		if kept := recent(hits, cutoff); len(kept) == 0 {
			delete(m.hits, key)
		} else {
			m.hits[key] = kept
		}
	}
}

// keys reports how many clients are tracked.
func (m *MemoryLimiter) keys() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.hits)
}

// recent filters hits in place, keeping those after cutoff.
func recent(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, ts := range hits {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}

// RedisLimiter shares the window across instances with one sorted set per key.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window, prefix: "ratelimit:", now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	redisKey := l.prefix + key
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + uuid.NewString()
	cutoff := strconv.FormatInt(now.Add(-l.window).UnixMilli(), 10)

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", cutoff)
	count := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixMilli()), Member: member})
	oldest := pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
	pipe.PExpire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("rate limit pipeline: %w", err)
	}

	d := Decision{Limit: l.limit, Reset: now.Add(l.window)}
	if first := oldest.Val(); len(first) > 0 {
		d.Reset = time.UnixMilli(int64(first[0].Score)).Add(l.window)
	}
	seen := int(count.Val())
	if seen >= l.limit {
		if err := l.client.ZRem(ctx, redisKey, member).Err(); err != nil {
			return Decision{}, fmt.Errorf("rate limit rollback: %w", err)
		}
		return d, nil
	}
	d.Allowed = true
	d.Remaining = l.limit - seen - 1
	return d, nil
}

// RateLimit rejects callers over their window with 429. Authenticated callers
// are keyed by user id, anonymous ones by client IP. Limiter errors fail open.
func RateLimit(l Limiter, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + clientIPForRateLimit(r)
			if uid := UserIDFromContext(r.Context()); uid != "" {
				key = "user:" + uid
			}
			d, err := l.Allow(r.Context(), key)
			if err != nil {
				logger.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))
			if !d.Allowed {
				retry := int(time.Until(d.Reset).Seconds()) + 1
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIPForRateLimit(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			ip := strings.TrimSpace(part)
			if ip == "" {
				continue
			}
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		if net.ParseIP(host) != nil {
			return host
		}
	} else if net.ParseIP(r.RemoteAddr) != nil {
		return r.RemoteAddr
	}

	return r.RemoteAddr
}
