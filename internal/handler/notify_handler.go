package handler

import (
	"log"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/ryankolean/rarefindtalent/internal/dto"
	"github.com/ryankolean/rarefindtalent/internal/mailer"
)

// corsHeaders are echoed on every notification endpoint response so browser
// clients can call it cross-origin.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, PUT, DELETE, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type, Authorization, X-Client-Info, Apikey",
}

// NotifyHandler re-hosts the notification function: one POST per inquiry
// fans out the owner and submitter emails. Its wire shapes are fixed by the
// clients already calling it, so it bypasses the shared envelope.
type NotifyHandler struct {
	mail  mailer.Sender
	from  string
	owner string
}

// NewNotifyHandler constructs a NotifyHandler. mail may be nil when the email
// provider key is not configured; the endpoint then acknowledges submissions
// without sending.
func NewNotifyHandler(mail mailer.Sender, from, owner string) *NotifyHandler {
	return &NotifyHandler{mail: mail, from: from, owner: owner}
}

// Handle serves every method on the notification endpoint.
func (h *NotifyHandler) Handle(c echo.Context) error {
	h.writeCORS(c)

	switch c.Request().Method {
	case http.MethodOptions:
		return c.NoContent(http.StatusOK)
	case http.MethodPost:
		return h.post(c)
	default:
		return c.JSON(http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	}
}

func (h *NotifyHandler) post(c echo.Context) error {
	var req dto.InquiryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "An error occurred processing your request",
			"details": err.Error(),
		})
	}

	if req.FullName == "" || req.Email == "" || req.InquiryType == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
	}

	if h.mail == nil {
		log.Printf("email provider not configured, skipping notifications for %s", req.Email)
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"message": "Form submitted successfully. Email notifications are pending configuration.",
		})
	}

	// Both emails go out concurrently; a partial failure is logged, never
	// surfaced, because the inquiry record already exists.
	emails := []mailer.Email{
		mailer.OwnerEmail(h.from, h.owner, req),
		mailer.SubmitterEmail(h.from, req),
	}
	ctx := c.Request().Context()

	var wg sync.WaitGroup
	for _, email := range emails {
		wg.Add(1)
		go func(email mailer.Email) {
			defer wg.Done()
			if err := h.mail.Send(ctx, email); err != nil {
				log.Printf("notification email to %v failed: %v", email.To, err)
			}
		}(email)
	}
	wg.Wait()

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Form submitted successfully. Email notifications sent.",
	})
}

func (h *NotifyHandler) writeCORS(c echo.Context) {
	header := c.Response().Header()
	for key, value := range corsHeaders {
		header.Set(key, value)
	}
}
