package dto

// SubscribeRequest is the newsletter signup payload.
type SubscribeRequest struct {
	Email string `json:"email"`
}
