// Package store abstracts the hosted backend the submission pipeline writes
// inquiries to. The orchestrator only sees the Creator contract; the concrete
// backend is either the local Postgres repository or the hosted REST API.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ryankolean/rarefindtalent/internal/dto"
	"github.com/ryankolean/rarefindtalent/internal/entity"
)

// Creator inserts one inquiry and returns the created row with its assigned
// id and timestamp.
type Creator interface {
	CreateInquiry(ctx context.Context, req dto.InquiryRequest) (*entity.Inquiry, error)
}

// Error carries the HTTP-like status and backend error code the retry
// classifier needs. Status 0 means the request never reached the backend.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store error (status %d, code %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("store error (status %d): %s", e.Status, e.Message)
}

// AsError unwraps err into a store Error if possible. Unknown errors are
// treated as status 0 (no response), which the orchestrator retries.
func AsError(err error) *Error {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr
	}
	return &Error{Status: 0, Message: err.Error()}
}
