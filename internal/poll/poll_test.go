package poll

import (
	"context"
	"errors"
	"testing"
	"time"
)

var fast = Policy{Interval: time.Millisecond, MaxAttempts: 5}

func TestUntilReturnsWhenDone(t *testing.T) {
	got, err := Until(context.Background(), fast, func(_ context.Context, attempt int) (string, bool, error) {
		if attempt < 3 {
			return "", false, nil
		}
		return "uri", true, nil
	})
	if err != nil || got != "uri" {
		t.Fatalf("Until = %q, %v; want uri", got, err)
	}
}

func TestUntilExhausts(t *testing.T) {
	calls := 0
	_, err := Until(context.Background(), fast, func(context.Context, int) (string, bool, error) {
		calls++
		return "", false, nil
	})
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if calls != fast.MaxAttempts {
		t.Fatalf("calls = %d, want %d", calls, fast.MaxAttempts)
	}
}

func TestUntilRetriesTransientErrors(t *testing.T) {
	got, err := Until(context.Background(), fast, func(_ context.Context, attempt int) (int, bool, error) {
		if attempt == 1 {
			return 0, false, errors.New("503 from upstream")
		}
		return attempt, true, nil
	})
	if err != nil || got != 2 {
		t.Fatalf("Until = %d, %v; want 2", got, err)
	}
}

func TestUntilExhaustsOnPersistentTransientError(t *testing.T) {
	_, err := Until(context.Background(), fast, func(context.Context, int) (int, bool, error) {
		return 0, false, errors.New("connection reset")
	})
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}

func TestUntilStopsOnPermanent(t *testing.T) {
	boom := errors.New("job failed")
	calls := 0
	_, err := Until(context.Background(), fast, func(context.Context, int) (int, bool, error) {
		calls++
		return 0, false, Permanent(boom)
	})
	if !errors.Is(err, boom) || errors.Is(err, ErrExhausted) {
		t.Fatalf("expected the permanent error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestUntilHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	slow := Policy{Interval: 20 * time.Millisecond, MaxAttempts: 100}
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()
	start := time.Now()
	_, err := Until(ctx, slow, func(context.Context, int) (int, bool, error) {
		return 0, false, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("cancellation was not prompt")
	}
}

func TestPolicyCeiling(t *testing.T) {
	p := Policy{Interval: 8 * time.Second, MaxAttempts: 60}
	if p.Ceiling() != 8*time.Minute {
		t.Fatalf("Ceiling = %s", p.Ceiling())
	}
	if _, err := Until(context.Background(), Policy{}, func(context.Context, int) (int, bool, error) { return 0, true, nil }); err == nil {
		t.Fatal("expected error for zero attempts")
	}
}
