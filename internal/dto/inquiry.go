package dto

// InquiryRequest is the consultation form payload submitted by the site.
type InquiryRequest struct {
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	CompanyName      string `json:"company_name,omitempty"`
	JobTitle         string `json:"job_title,omitempty"`
	InquiryType      string `json:"inquiry_type"`
	Message          string `json:"message,omitempty"`
	PreferredContact string `json:"preferred_contact,omitempty"`
	Urgency          string `json:"urgency,omitempty"`
}

// RateLimitInfo describes the caller's current submission quota.
type RateLimitInfo struct {
	Allowed        bool   `json:"allowed"`
	Remaining      int    `json:"remaining"`
	MaxPerHour     int    `json:"max_per_hour"`
	WindowMinutes  int    `json:"window_minutes"`
	ResetInMinutes *int   `json:"reset_in_minutes,omitempty"`
	ResetAt        *int64 `json:"reset_at,omitempty"`
}
