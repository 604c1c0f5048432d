package entity

import (
	"time"

	"github.com/google/uuid"
)

// Subscriber is one newsletter signup.
type Subscriber struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
