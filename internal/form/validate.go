// Package form implements the consultation submission pipeline: field
// validation, the per-client sliding-window rate limiter, draft persistence,
// and the orchestrator that drives one submission to a terminal state.
package form

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/ryankolean/rarefindtalent/internal/dto"
	"github.com/ryankolean/rarefindtalent/internal/entity"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[0-9+\-().\s]+$`)
	idnaProfile  = idna.Lookup
)

const (
	maxNameLength    = 100
	minNameLength    = 2
	maxMessageLength = 1000

	defaultPhoneRegion = "US"
)

var inquiryTypes = map[string]struct{}{
	entity.InquiryTypeConsultation:         {},
	entity.InquiryTypeContingencyPlacement: {},
	entity.InquiryTypeContractServices:     {},
	entity.InquiryTypeCoaching:             {},
	entity.InquiryTypeGeneral:              {},
}

var contactMethods = map[string]struct{}{
	entity.ContactByEmail:  {},
	entity.ContactByPhone:  {},
	entity.ContactByEither: {},
}

var urgencies = map[string]struct{}{
	entity.UrgencyImmediate:   {},
	entity.UrgencyWithinWeek:  {},
	entity.UrgencyWithinMonth: {},
	entity.UrgencyFlexible:    {},
}

// FieldErrors maps field names to human-readable validation messages. An
// empty map means the form is valid.
type FieldErrors map[string]string

// ApplyDefaults fills the optional enum fields the way the form does before
// validation runs.
func ApplyDefaults(req *dto.InquiryRequest) {
	if strings.TrimSpace(req.PreferredContact) == "" {
		req.PreferredContact = entity.ContactByEmail
	}
	if strings.TrimSpace(req.Urgency) == "" {
		req.Urgency = entity.UrgencyFlexible
	}
}

// Validate runs every field validator and collects the failures. It always
// re-runs in full regardless of prior field interaction.
func Validate(req dto.InquiryRequest) FieldErrors {
	errs := make(FieldErrors)

	if msg := ValidateFullName(req.FullName); msg != "" {
		errs["full_name"] = msg
	}
	if msg := ValidateEmail(req.Email); msg != "" {
		errs["email"] = msg
	}
	if msg := ValidatePhone(req.Phone); msg != "" {
		errs["phone"] = msg
	}
	if msg := ValidateInquiryType(req.InquiryType); msg != "" {
		errs["inquiry_type"] = msg
	}
	if msg := ValidateMessage(req.Message); msg != "" {
		errs["message"] = msg
	}
	if msg := validateEnum(req.PreferredContact, contactMethods, "Please select a valid contact method"); msg != "" {
		errs["preferred_contact"] = msg
	}
	if msg := validateEnum(req.Urgency, urgencies, "Please select a valid timeline"); msg != "" {
		errs["urgency"] = msg
	}

	return errs
}

// ValidateFullName checks length and the allowed character set.
func ValidateFullName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Full name is required"
	}
	length := utf8.RuneCountInString(name)
	if length < minNameLength {
		return "Full name must be at least 2 characters"
	}
	if length > maxNameLength {
		return "Full name is too long"
	}
	for _, r := range name {
		if unicode.IsLetter(r) || r == ' ' || r == '-' || r == '\'' {
			continue
		}
		return "Full name may only contain letters, spaces, hyphens and apostrophes"
	}
	return ""
}

// ValidateEmail checks syntax and that the domain is a resolvable IDNA name.
func ValidateEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "Email is required"
	}
	if !emailPattern.MatchString(email) {
		return "Please enter a valid email address"
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	if !isDomainValid(domain) {
		return "Please enter a valid email address"
	}
	if ascii, err := idnaProfile.ToASCII(domain); err != nil || ascii == "" {
		return "Please enter a valid email address"
	}
	return ""
}

// ValidatePhone accepts an empty value; a present value must be at least
// 8 characters of digits, spaces and +-().. punctuation.
func ValidatePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	if utf8.RuneCountInString(phone) < 8 {
		return "Phone number must be at least 8 characters"
	}
	if !phonePattern.MatchString(phone) {
		return "Phone number may only contain digits, spaces and + - ( ) . characters"
	}
	return ""
}

// ValidateInquiryType requires one of the service-interest values.
func ValidateInquiryType(inquiryType string) string {
	if strings.TrimSpace(inquiryType) == "" {
		return "Please select a service interest"
	}
	if _, ok := inquiryTypes[inquiryType]; !ok {
		return "Please select a valid service interest"
	}
	return ""
}

// ValidateMessage bounds the optional free-text message.
func ValidateMessage(message string) string {
	if utf8.RuneCountInString(message) > maxMessageLength {
		return "Message must be 1000 characters or fewer"
	}
	return ""
}

func validateEnum(value string, allowed map[string]struct{}, message string) string {
	if value == "" {
		return ""
	}
	if _, ok := allowed[value]; !ok {
		return message
	}
	return ""
}

// NormalizePhone formats a valid phone to E164 when it parses as a real
// number; otherwise the trimmed input is kept as entered.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	number, err := phonenumbers.Parse(phone, defaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return phone
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
