package entity

import (
	"time"

	"github.com/google/uuid"
)

// Inquiry types accepted by the consultation form.
const (
	InquiryTypeConsultation         = "consultation"
	InquiryTypeContingencyPlacement = "contingency_placement"
	InquiryTypeContractServices     = "contract_services"
	InquiryTypeCoaching             = "coaching"
	InquiryTypeGeneral              = "general"
)

// Preferred contact channels.
const (
	ContactByEmail  = "email"
	ContactByPhone  = "phone"
	ContactByEither = "either"
)

// Urgency buckets for follow-up scheduling.
const (
	UrgencyImmediate   = "immediate"
	UrgencyWithinWeek  = "within-week"
	UrgencyWithinMonth = "within-month"
	UrgencyFlexible    = "flexible"
)

// Inquiry is one consultation request. Rows are immutable once created; the
// store assigns id and created_at on insert.
type Inquiry struct {
	ID               uuid.UUID `json:"id"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	Phone            *string   `json:"phone,omitempty"`
	CompanyName      *string   `json:"company_name,omitempty"`
	JobTitle         *string   `json:"job_title,omitempty"`
	InquiryType      string    `json:"inquiry_type"`
	Message          *string   `json:"message,omitempty"`
	PreferredContact string    `json:"preferred_contact"`
	Urgency          string    `json:"urgency"`
	CreatedAt        time.Time `json:"created_at"`
}

// InquiryTypeLabel maps the stored inquiry type to its display label.
func InquiryTypeLabel(inquiryType string) string {
	switch inquiryType {
	case InquiryTypeConsultation:
		return "General Consultation"
	case InquiryTypeContingencyPlacement:
		return "Contingency Placement"
	case InquiryTypeContractServices:
		return "In-house Contract Services"
	case InquiryTypeCoaching:
		return "Resume/Coaching Services"
	case InquiryTypeGeneral:
		return "General Inquiry"
	default:
		return inquiryType
	}
}

// UrgencyLabel maps the stored urgency to its display label.
func UrgencyLabel(urgency string) string {
	switch urgency {
	case UrgencyImmediate:
		return "Immediate"
	case UrgencyWithinWeek:
		return "Within a Week"
	case UrgencyWithinMonth:
		return "Within a Month"
	case UrgencyFlexible:
		return "Flexible"
	default:
		return urgency
	}
}
