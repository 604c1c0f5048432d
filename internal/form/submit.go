package form

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ryankolean/rarefindtalent/internal/dto"
	"github.com/ryankolean/rarefindtalent/internal/entity"
	"github.com/ryankolean/rarefindtalent/internal/store"
)

// State is one step of the submission state machine.
type State string

const (
	StateIdle           State = "idle"
	StateValidating     State = "validating"
	StateRateLimitCheck State = "rate_limit_check"
	StateSubmitting     State = "submitting"
	StateNotifying      State = "notifying_best_effort"
	StateSucceeded      State = "succeeded"
	StateFailed         State = "failed"
)

// Fallback message shown once manual retries are spent.
const contactFallbackMessage = "We're having trouble submitting your request. Please contact us directly at contact@rarefindtalent.com."

// Notifier requests the best-effort email notifications for a created
// inquiry. Its errors never fail the submission.
type Notifier interface {
	Send(ctx context.Context, req dto.InquiryRequest) error
}

// Options tunes the orchestrator's retry and notification behavior.
type Options struct {
	// MaxAttempts bounds the automatic create attempts (initial + retries).
	MaxAttempts int
	// BackoffBase is the first inter-attempt delay; each further delay
	// doubles, capped at BackoffCap.
	BackoffBase time.Duration
	BackoffCap  time.Duration
	// ManualRetries bounds extra end-to-end attempts after a retryable
	// terminal failure.
	ManualRetries int
	// NotifyTimeout bounds the best-effort notification call.
	NotifyTimeout time.Duration
}

func (o *Options) applyDefaults() {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = time.Second
	}
	if o.BackoffCap <= 0 {
		o.BackoffCap = 5 * time.Second
	}
	if o.ManualRetries < 0 {
		o.ManualRetries = 0
	}
	if o.NotifyTimeout <= 0 {
		o.NotifyTimeout = 15 * time.Second
	}
}

// Orchestrator drives one inquiry from form data to a terminal state:
// validation, rate-limit check, create with bounded backoff, then a
// best-effort notification. Side effects happen only at state transitions.
type Orchestrator struct {
	creator  store.Creator
	notifier Notifier
	limiter  *RateLimiter
	drafts   *Drafts
	opts     Options

	sleep  func(ctx context.Context, d time.Duration) error
	online func() bool

	state          State
	history        []State
	manualAttempts int
	lastFailure    *SubmitError
}

// OrchestratorOption configures optional orchestrator behavior.
type OrchestratorOption func(*Orchestrator)

// WithSleeper overrides the inter-attempt delay, used by tests.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) OrchestratorOption {
	return func(o *Orchestrator) {
		if sleep != nil {
			o.sleep = sleep
		}
	}
}

// WithConnectivityProbe installs an offline detector consulted before any
// network call.
func WithConnectivityProbe(online func() bool) OrchestratorOption {
	return func(o *Orchestrator) {
		o.online = online
	}
}

// NewOrchestrator builds the submission pipeline around its collaborators.
// notifier may be nil when notifications are disabled.
func NewOrchestrator(creator store.Creator, notifier Notifier, limiter *RateLimiter, drafts *Drafts, opts Options, options ...OrchestratorOption) *Orchestrator {
	opts.applyDefaults()
	o := &Orchestrator{
		creator:  creator,
		notifier: notifier,
		limiter:  limiter,
		drafts:   drafts,
		opts:     opts,
		sleep:    sleepContext,
		state:    StateIdle,
		history:  []State{StateIdle},
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// State returns the current state.
func (o *Orchestrator) State() State {
	return o.state
}

// History returns every state visited, in order.
func (o *Orchestrator) History() []State {
	out := make([]State, len(o.history))
	copy(out, o.history)
	return out
}

// LastFailure returns the terminal failure of the most recent attempt, nil
// after a success.
func (o *Orchestrator) LastFailure() *SubmitError {
	return o.lastFailure
}

// CanRetry reports whether a manual retry is still permitted.
func (o *Orchestrator) CanRetry() bool {
	return o.lastFailure != nil && o.lastFailure.Retryable() && o.manualAttempts < o.opts.ManualRetries
}

// Submit drives one end-to-end submission. On success it returns the created
// inquiry; on failure it returns a *SubmitError classifying the cause.
func (o *Orchestrator) Submit(ctx context.Context, req dto.InquiryRequest) (*entity.Inquiry, error) {
	created, err := o.run(ctx, req)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Retry repeats a failed submission. It refuses non-retryable failures and
// enforces the manual retry bound, after which the caller is pointed at the
// direct-contact fallback.
func (o *Orchestrator) Retry(ctx context.Context, req dto.InquiryRequest) (*entity.Inquiry, error) {
	if o.lastFailure == nil {
		return nil, &SubmitError{Reason: FailureClientError, Message: "nothing to retry"}
	}
	if !o.lastFailure.Retryable() {
		return nil, o.lastFailure
	}
	if o.manualAttempts >= o.opts.ManualRetries {
		return nil, &SubmitError{Reason: FailureServerError, Message: contactFallbackMessage}
	}
	o.manualAttempts++
	return o.run(ctx, req)
}

func (o *Orchestrator) run(ctx context.Context, req dto.InquiryRequest) (*entity.Inquiry, error) {
	o.transition(StateValidating)
	ApplyDefaults(&req)
	if errs := Validate(req); len(errs) > 0 {
		return nil, o.fail(&SubmitError{
			Reason:  FailureValidation,
			Message: "Please correct the highlighted fields",
			Fields:  errs,
		})
	}
	req.Phone = NormalizePhone(req.Phone)

	o.transition(StateRateLimitCheck)
	check, err := o.limiter.Check()
	if err != nil {
		log.Printf("rate limit check failed, allowing submission: %v", err)
	} else if !check.Allowed {
		minutes, _ := o.limiter.RemainingMinutes()
		return nil, o.fail(&SubmitError{
			Reason:  FailureRateLimited,
			Message: rateLimitMessage(minutes),
			ResetAt: check.ResetAt,
		})
	}

	if o.online != nil && !o.online() {
		return nil, o.fail(&SubmitError{
			Reason:  FailureOffline,
			Message: "You appear to be offline. Check your connection and try again.",
		})
	}

	o.transition(StateSubmitting)
	created, submitErr := o.create(ctx, req)
	if submitErr != nil {
		return nil, o.fail(submitErr)
	}

	if err := o.limiter.Record(); err != nil {
		log.Printf("failed to record submission for rate limiting: %v", err)
	}
	if err := o.drafts.Discard(); err != nil {
		log.Printf("failed to discard draft after submission: %v", err)
	}

	o.transition(StateNotifying)
	o.notify(ctx, req)

	o.transition(StateSucceeded)
	o.lastFailure = nil
	o.manualAttempts = 0
	return created, nil
}

// create issues the store insert, retrying transient failures with
// exponential backoff. Definite client rejections are never retried.
func (o *Orchestrator) create(ctx context.Context, req dto.InquiryRequest) (*entity.Inquiry, *SubmitError) {
	var lastErr *store.Error

	for attempt := 1; attempt <= o.opts.MaxAttempts; attempt++ {
		created, err := o.creator.CreateInquiry(ctx, req)
		if err == nil {
			return created, nil
		}

		storeErr := store.AsError(err)
		lastErr = storeErr
		log.Printf("inquiry create attempt %d/%d failed: status=%d code=%s %s",
			attempt, o.opts.MaxAttempts, storeErr.Status, storeErr.Code, storeErr.Message)

		switch {
		case storeErr.Status == http.StatusTooManyRequests:
			return nil, &SubmitError{
				Reason:  FailureRateLimited,
				Message: "Too many requests. Please wait a moment and try again.",
				Status:  storeErr.Status,
			}
		case storeErr.Status >= 400 && storeErr.Status < 500:
			return nil, &SubmitError{
				Reason:  FailureClientError,
				Message: storeErr.Message,
				Status:  storeErr.Status,
			}
		}

		if attempt == o.opts.MaxAttempts {
			break
		}
		if err := o.sleep(ctx, o.backoff(attempt)); err != nil {
			return nil, &SubmitError{
				Reason:  FailureServerError,
				Message: "Submission was interrupted. Please try again.",
			}
		}
	}

	msg := "We couldn't submit your request. Please try again."
	status := 0
	if lastErr != nil {
		status = lastErr.Status
	}
	return nil, &SubmitError{Reason: FailureServerError, Message: msg, Status: status}
}

// backoff computes the delay before the next attempt: base doubled per
// attempt, capped.
func (o *Orchestrator) backoff(attempt int) time.Duration {
	delay := o.opts.BackoffBase
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= o.opts.BackoffCap {
			return o.opts.BackoffCap
		}
	}
	if delay > o.opts.BackoffCap {
		return o.opts.BackoffCap
	}
	return delay
}

// notify dispatches the email notification with a hard timeout. Failures are
// logged and swallowed; the inquiry row already exists.
func (o *Orchestrator) notify(ctx context.Context, req dto.InquiryRequest) {
	if o.notifier == nil {
		return
	}
	notifyCtx, cancel := context.WithTimeout(ctx, o.opts.NotifyTimeout)
	defer cancel()

	if err := o.notifier.Send(notifyCtx, req); err != nil {
		log.Printf("notification dispatch failed (submission unaffected): %v", err)
	}
}

func (o *Orchestrator) transition(next State) {
	o.state = next
	o.history = append(o.history, next)
}

func (o *Orchestrator) fail(err *SubmitError) *SubmitError {
	o.transition(StateFailed)
	o.lastFailure = err
	return err
}

func rateLimitMessage(minutes *int) string {
	if minutes == nil {
		return "Rate limit exceeded. Please try again later."
	}
	unit := "minutes"
	if *minutes == 1 {
		unit = "minute"
	}
	return fmt.Sprintf("Rate limit exceeded. Please try again in %d %s.", *minutes, unit)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
