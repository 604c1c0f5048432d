package service

import (
	"errors"
	"fmt"

	"github.com/ryankolean/rarefindtalent/internal/dto"
)

// Pricing rates mirror the published service rates.
const (
	contingencyRate  = 0.15
	contractHourly   = 85
	contractMinHours = 120
	coachingSession  = 125
)

// ErrUnknownService is returned for service types the calculator does not price.
var ErrUnknownService = errors.New("unknown service type")

// PricingService produces fee estimates for the three billable services.
type PricingService struct{}

// NewPricingService constructs a PricingService.
func NewPricingService() *PricingService {
	return &PricingService{}
}

// Estimate prices a service. The quantity parameter is the annual salary for
// contingency placements, billable hours for contract work, and session count
// for coaching.
func (s *PricingService) Estimate(serviceType string, quantity int) (*dto.PricingEstimate, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative, got %d", quantity)
	}

	var (
		amount      float64
		description string
	)
	switch serviceType {
	case "contingency":
		amount = float64(quantity) * contingencyRate
		description = "Based on 15% of the hired candidate's first-year base compensation. You only pay when we successfully place a candidate."
	case "contract":
		hours := quantity
		if hours < contractMinHours {
			hours = contractMinHours
		}
		amount = float64(hours * contractHourly)
		description = "Based on $85/hour for project-based consulting work. Minimum commitment of 120 hours."
	case "coaching":
		amount = float64(quantity * coachingSession)
		description = "Career coaching and resume services at $125 per 60-minute session. Package discounts available."
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, serviceType)
	}

	return &dto.PricingEstimate{
		ServiceType: serviceType,
		Amount:      amount,
		Formatted:   formatUSD(amount),
		Description: description,
	}, nil
}

// formatUSD renders a whole-dollar amount with thousands separators.
func formatUSD(amount float64) string {
	n := int64(amount + 0.5)
	if n < 1000 {
		return fmt.Sprintf("$%d", n)
	}

	var parts []string
	for n >= 1000 {
		parts = append([]string{fmt.Sprintf("%03d", n%1000)}, parts...)
		n /= 1000
	}
	out := fmt.Sprintf("$%d", n)
	for _, p := range parts {
		out += "," + p
	}
	return out
}
