package form

import "time"

// FailureReason classifies why a submission reached a terminal Failed state.
type FailureReason string

const (
	FailureValidation  FailureReason = "validation"
	FailureRateLimited FailureReason = "rate_limited"
	FailureServerError FailureReason = "server_error"
	FailureClientError FailureReason = "client_error"
	FailureOffline     FailureReason = "offline"
)

// SubmitError is the terminal failure of one submission attempt.
type SubmitError struct {
	Reason  FailureReason
	Message string
	// Fields is populated for validation failures.
	Fields FieldErrors
	// ResetAt is populated for rate-limit failures.
	ResetAt *time.Time
	// Status is the backend status for server/client errors, 0 when the
	// request never got a response.
	Status int
}

func (e *SubmitError) Error() string {
	return e.Message
}

// Retryable reports whether the user may manually retry this failure.
// Validation and rate-limit failures are only resolved by correcting input
// or waiting out the window.
func (e *SubmitError) Retryable() bool {
	return e.Reason == FailureServerError || e.Reason == FailureOffline
}
