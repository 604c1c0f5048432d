package form

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ryankolean/rarefindtalent/internal/clientstate"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T) (*RateLimiter, *fixedClock, clientstate.Store) {
	t.Helper()
	store := clientstate.NewMemoryStore()
	clock := &fixedClock{now: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)}
	limiter := NewRateLimiter(store, WithClock(clock.Now))
	return limiter, clock, store
}

func TestRateLimiterAllowsUnderQuota(t *testing.T) {
	limiter, _, _ := newTestLimiter(t)

	result, err := limiter.Check()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Allowed || result.Remaining != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	minutes, err := limiter.RemainingMinutes()
	if err != nil || minutes != nil {
		t.Fatalf("expected nil remaining minutes under quota, got %v, err %v", minutes, err)
	}
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	// Submissions at t, t+10m and t+20m; a fourth attempt at t+30m is
	// blocked until t+60m, and allowed again at t+61m.
	limiter, clock, _ := newTestLimiter(t)
	start := clock.Now()

	for i := 0; i < 3; i++ {
		if err := limiter.Record(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		clock.Advance(10 * time.Minute)
	}

	// now = t+30m
	result, err := limiter.Check()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Allowed {
		t.Fatalf("expected fourth attempt blocked")
	}
	wantReset := start.Add(time.Hour)
	if result.ResetAt == nil || !result.ResetAt.Equal(wantReset) {
		t.Fatalf("expected reset at %s, got %v", wantReset, result.ResetAt)
	}

	minutes, err := limiter.RemainingMinutes()
	if err != nil || minutes == nil || *minutes != 30 {
		t.Fatalf("expected 30 minutes remaining, got %v, err %v", minutes, err)
	}

	clock.Advance(31 * time.Minute) // now = t+61m
	result, err = limiter.Check()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Allowed {
		t.Fatalf("expected attempt after window allowed")
	}
}

func TestRateLimiterRecordPersistsMillisTimestamps(t *testing.T) {
	limiter, clock, store := newTestLimiter(t)

	if err := limiter.Record(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := store.Get(RateLimitKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var stored []int64
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("stored state is not a JSON array: %v", err)
	}
	if len(stored) != 1 || stored[0] != clock.Now().UnixMilli() {
		t.Fatalf("unexpected stored timestamps: %v", stored)
	}
}

func TestRateLimiterRecordPrunesExpiredEntries(t *testing.T) {
	limiter, clock, store := newTestLimiter(t)

	if err := limiter.Record(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.Advance(2 * time.Hour)
	if err := limiter.Record(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, _ := store.Get(RateLimitKey)
	var stored []int64
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("unexpected state: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected expired entry pruned on record, got %v", stored)
	}
}

func TestRateLimiterTreatsCorruptStateAsEmpty(t *testing.T) {
	limiter, _, store := newTestLimiter(t)
	if err := store.Set(RateLimitKey, "not-json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := limiter.Check()
	if err != nil || !result.Allowed {
		t.Fatalf("corrupt state should not block submissions: %+v, err %v", result, err)
	}
}

func TestRateLimiterCustomQuota(t *testing.T) {
	store := clientstate.NewMemoryStore()
	clock := &fixedClock{now: time.Unix(1700000000, 0)}
	limiter := NewRateLimiter(store, WithClock(clock.Now), WithQuota(1, 10*time.Minute))

	if err := limiter.Record(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := limiter.Check()
	if err != nil || result.Allowed {
		t.Fatalf("expected quota of one exhausted: %+v, err %v", result, err)
	}

	clock.Advance(11 * time.Minute)
	result, err = limiter.Check()
	if err != nil || !result.Allowed {
		t.Fatalf("expected quota restored after window: %+v, err %v", result, err)
	}
}
