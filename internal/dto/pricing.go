package dto

// PricingEstimate is the calculator output for one service type.
type PricingEstimate struct {
	ServiceType string  `json:"service_type"`
	Amount      float64 `json:"amount"`
	Formatted   string  `json:"formatted"`
	Description string  `json:"description"`
}
