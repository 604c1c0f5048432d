package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ryankolean/rarefindtalent/internal/service"
)

// PricingHandler exposes the fee estimate endpoint.
type PricingHandler struct {
	pricing *service.PricingService
}

// NewPricingHandler constructs a PricingHandler.
func NewPricingHandler(pricing *service.PricingService) *PricingHandler {
	return &PricingHandler{pricing: pricing}
}

// Estimate handles GET /pricing/estimate requests. The quantity query param
// is the annual salary, billable hours or session count depending on service.
func (h *PricingHandler) Estimate(c echo.Context) error {
	serviceType := c.QueryParam("service")
	if serviceType == "" {
		return Error(c, http.StatusBadRequest, "service query parameter is required")
	}

	quantity, err := strconv.Atoi(c.QueryParam("quantity"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "quantity must be an integer")
	}

	estimate, err := h.pricing.Estimate(serviceType, quantity)
	if err != nil {
		if errors.Is(err, service.ErrUnknownService) {
			return Error(c, http.StatusBadRequest, "unknown service type")
		}
		return Error(c, http.StatusBadRequest, "unable to price request")
	}

	return Success(c, http.StatusOK, "", estimate)
}
