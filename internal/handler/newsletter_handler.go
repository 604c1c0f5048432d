package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ryankolean/rarefindtalent/internal/dto"
	"github.com/ryankolean/rarefindtalent/internal/form"
	"github.com/ryankolean/rarefindtalent/internal/repository"
)

// NewsletterHandler exposes the newsletter signup endpoint.
type NewsletterHandler struct {
	subscribers repository.SubscribersRepository
}

// NewNewsletterHandler constructs a NewsletterHandler.
func NewNewsletterHandler(subscribers repository.SubscribersRepository) *NewsletterHandler {
	return &NewsletterHandler{subscribers: subscribers}
}

// Subscribe handles POST /newsletter requests.
func (h *NewsletterHandler) Subscribe(c echo.Context) error {
	var req dto.SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if msg := form.ValidateEmail(email); msg != "" {
		return Error(c, http.StatusBadRequest, msg)
	}

	sub, err := h.subscribers.Create(c.Request().Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadySubscribed) {
			return Error(c, http.StatusConflict, "This email is already subscribed")
		}
		return Error(c, http.StatusInternalServerError, "unable to subscribe")
	}

	return Success(c, http.StatusCreated, "subscribed", sub)
}
