package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ryankolean/rarefindtalent/internal/clientstate"
)

// RateLimitKey is the store key holding the submission timestamp list, as a
// JSON array of millisecond timestamps.
const RateLimitKey = "contact_form_submissions"

// Rate limiter defaults: 3 submissions per rolling 60-minute window. This is
// an abuse deterrent scoped to one client, not a security boundary; losing
// the store resets it.
const (
	DefaultMaxPerWindow = 3
	DefaultWindow       = time.Hour
)

// RateLimitResult reports whether a submission is currently allowed.
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetAt   *time.Time
}

// RateLimiter enforces the sliding-window submission quota against a
// client-scoped store.
type RateLimiter struct {
	store  clientstate.Store
	max    int
	window time.Duration
	now    func() time.Time
}

// RateLimiterOption configures optional limiter behavior.
type RateLimiterOption func(*RateLimiter)

// WithQuota overrides the submission quota and window.
func WithQuota(max int, window time.Duration) RateLimiterOption {
	return func(l *RateLimiter) {
		if max > 0 {
			l.max = max
		}
		if window > 0 {
			l.window = window
		}
	}
}

// WithClock overrides the limiter's clock.
func WithClock(now func() time.Time) RateLimiterOption {
	return func(l *RateLimiter) {
		if now != nil {
			l.now = now
		}
	}
}

// NewRateLimiter builds a limiter with the default 3-per-hour quota.
func NewRateLimiter(store clientstate.Store, opts ...RateLimiterOption) *RateLimiter {
	l := &RateLimiter{
		store:  store,
		max:    DefaultMaxPerWindow,
		window: DefaultWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check reports whether another submission fits in the trailing window.
// When blocked, ResetAt is the instant the oldest in-window entry expires.
func (l *RateLimiter) Check() (RateLimitResult, error) {
	recent, err := l.recentSubmissions()
	if err != nil {
		return RateLimitResult{}, err
	}

	if len(recent) >= l.max {
		oldest := recent[0]
		for _, ts := range recent[1:] {
			if ts < oldest {
				oldest = ts
			}
		}
		resetAt := time.UnixMilli(oldest).Add(l.window)
		return RateLimitResult{Allowed: false, Remaining: 0, ResetAt: &resetAt}, nil
	}

	return RateLimitResult{Allowed: true, Remaining: l.max - len(recent) - 1}, nil
}

// Record appends the current timestamp. Call it only after a successful
// submission so failed attempts do not consume quota.
func (l *RateLimiter) Record() error {
	recent, err := l.recentSubmissions()
	if err != nil {
		return err
	}
	recent = append(recent, l.now().UnixMilli())

	data, err := json.Marshal(recent)
	if err != nil {
		return fmt.Errorf("encode rate limit state: %w", err)
	}
	if err := l.store.Set(RateLimitKey, string(data)); err != nil {
		return fmt.Errorf("persist rate limit state: %w", err)
	}
	return nil
}

// RemainingMinutes returns the minutes until the window frees a slot, or nil
// when the caller is under quota.
func (l *RateLimiter) RemainingMinutes() (*int, error) {
	result, err := l.Check()
	if err != nil {
		return nil, err
	}
	if result.Allowed || result.ResetAt == nil {
		return nil, nil
	}
	minutes := int(math.Ceil(result.ResetAt.Sub(l.now()).Minutes()))
	if minutes < 0 {
		minutes = 0
	}
	return &minutes, nil
}

// Quota exposes the configured limit for introspection endpoints.
func (l *RateLimiter) Quota() (max int, window time.Duration) {
	return l.max, l.window
}

// recentSubmissions loads the stored timestamps filtered to the trailing
// window. Expired entries are dropped lazily; the list is only rewritten by
// Record.
func (l *RateLimiter) recentSubmissions() ([]int64, error) {
	raw, err := l.store.Get(RateLimitKey)
	if err != nil {
		if errors.Is(err, clientstate.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read rate limit state: %w", err)
	}

	var stored []int64
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		// Unreadable state counts as empty; the limiter is a deterrent only.
		return nil, nil
	}

	cutoff := l.now().UnixMilli() - l.window.Milliseconds()
	recent := stored[:0]
	for _, ts := range stored {
		if ts > cutoff {
			recent = append(recent, ts)
		}
	}
	return recent, nil
}
