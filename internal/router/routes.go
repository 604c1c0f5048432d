// Package router wires the HTTP surface: public form endpoints, the
// re-hosted notification function and the JWT-guarded admin group.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ryankolean/rarefindtalent/internal/auth"
	"github.com/ryankolean/rarefindtalent/internal/config"
	"github.com/ryankolean/rarefindtalent/internal/handler"
	middlewarepkg "github.com/ryankolean/rarefindtalent/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth       *handler.AuthHandler
	Inquiries  *handler.InquiryHandler
	Newsletter *handler.NewsletterHandler
	Pricing    *handler.PricingHandler
	Notify     *handler.NotifyHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/login", handlers.Auth.Login)

	limited := middlewarepkg.SubmitRateLimiter(cfg.RateLimitSubmit)

	e.POST("/inquiries", handlers.Inquiries.Submit, middlewarepkg.ClientKey(), limited)
	e.GET("/inquiries/rate-limit", handlers.Inquiries.RateLimit, middlewarepkg.ClientKey())
	e.PUT("/inquiries/draft", handlers.Inquiries.SaveDraft, middlewarepkg.ClientKey())
	e.GET("/inquiries/draft", handlers.Inquiries.GetDraft, middlewarepkg.ClientKey())
	e.DELETE("/inquiries/draft", handlers.Inquiries.DeleteDraft, middlewarepkg.ClientKey())

	e.POST("/newsletter", handlers.Newsletter.Subscribe, limited)
	e.GET("/pricing/estimate", handlers.Pricing.Estimate)

	if handlers.Notify != nil {
		e.Any("/functions/send-contact-notification", handlers.Notify.Handle)
	}

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	admin := secured.Group("/admin", middlewarepkg.RequireRole("admin"))
	admin.GET("/inquiries", handlers.Inquiries.AdminList)
}
