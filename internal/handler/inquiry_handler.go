package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ryankolean/rarefindtalent/internal/clientstate"
	"github.com/ryankolean/rarefindtalent/internal/config"
	"github.com/ryankolean/rarefindtalent/internal/dto"
	"github.com/ryankolean/rarefindtalent/internal/form"
	"github.com/ryankolean/rarefindtalent/internal/middleware"
	"github.com/ryankolean/rarefindtalent/internal/repository"
	"github.com/ryankolean/rarefindtalent/internal/store"
)

// InquiryHandler exposes the consultation form endpoints: public submission,
// quota introspection, draft persistence and the admin listing.
type InquiryHandler struct {
	creator   store.Creator
	notifier  form.Notifier
	inquiries repository.InquiriesRepository
	state     clientstate.Store
	sub       config.SubmissionConfig
}

// NewInquiryHandler constructs an InquiryHandler. notifier may be nil when
// notifications are disabled; inquiries may be nil when the admin listing is
// not mounted.
func NewInquiryHandler(creator store.Creator, notifier form.Notifier, inquiries repository.InquiriesRepository, state clientstate.Store, sub config.SubmissionConfig) *InquiryHandler {
	return &InquiryHandler{
		creator:   creator,
		notifier:  notifier,
		inquiries: inquiries,
		state:     state,
		sub:       sub,
	}
}

// limiterFor scopes the sliding-window quota to one client key.
func (h *InquiryHandler) limiterFor(clientKey string) *form.RateLimiter {
	scoped := clientstate.NewNamespaced(h.state, clientKey)
	return form.NewRateLimiter(scoped, form.WithQuota(h.sub.MaxPerWindow, h.sub.Window))
}

// draftsFor scopes draft persistence to one client key.
func (h *InquiryHandler) draftsFor(clientKey string) *form.Drafts {
	return form.NewDrafts(clientstate.NewNamespaced(h.state, clientKey))
}

// pipelineFor assembles the submission pipeline for one request.
func (h *InquiryHandler) pipelineFor(clientKey string) *form.Orchestrator {
	return form.NewOrchestrator(h.creator, h.notifier, h.limiterFor(clientKey), h.draftsFor(clientKey), form.Options{
		MaxAttempts:   h.sub.MaxAttempts,
		BackoffBase:   h.sub.BackoffBase,
		BackoffCap:    h.sub.BackoffCap,
		ManualRetries: h.sub.ManualRetries,
		NotifyTimeout: h.sub.NotifyTimeout,
	})
}

// Submit handles POST /inquiries requests.
func (h *InquiryHandler) Submit(c echo.Context) error {
	var req dto.InquiryRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	clientKey := middleware.ClientKeyFromContext(c)
	created, err := h.pipelineFor(clientKey).Submit(c.Request().Context(), req)
	if err != nil {
		return h.submitFailure(c, err)
	}

	return Success(c, http.StatusCreated, "inquiry received", created)
}

// submitFailure translates the pipeline's failure taxonomy to HTTP.
func (h *InquiryHandler) submitFailure(c echo.Context, err error) error {
	var submitErr *form.SubmitError
	if !errors.As(err, &submitErr) {
		return Error(c, http.StatusInternalServerError, "unable to submit inquiry")
	}

	switch submitErr.Reason {
	case form.FailureValidation:
		return ValidationError(c, submitErr.Message, submitErr.Fields)
	case form.FailureRateLimited:
		return Error(c, http.StatusTooManyRequests, submitErr.Message)
	case form.FailureClientError:
		status := submitErr.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadRequest
		}
		return Error(c, status, submitErr.Message)
	case form.FailureOffline:
		return Error(c, http.StatusServiceUnavailable, submitErr.Message)
	default:
		return Error(c, http.StatusInternalServerError, submitErr.Message)
	}
}

// RateLimit handles GET /inquiries/rate-limit requests.
func (h *InquiryHandler) RateLimit(c echo.Context) error {
	limiter := h.limiterFor(middleware.ClientKeyFromContext(c))

	check, err := limiter.Check()
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to read rate limit state")
	}
	max, window := limiter.Quota()

	info := dto.RateLimitInfo{
		Allowed:       check.Allowed,
		Remaining:     check.Remaining,
		MaxPerHour:    max,
		WindowMinutes: int(window.Minutes()),
	}
	if !check.Allowed {
		if minutes, err := limiter.RemainingMinutes(); err == nil {
			info.ResetInMinutes = minutes
		}
		if check.ResetAt != nil {
			resetAt := check.ResetAt.UnixMilli()
			info.ResetAt = &resetAt
		}
	}

	return Success(c, http.StatusOK, "", info)
}

// SaveDraft handles PUT /inquiries/draft requests.
func (h *InquiryHandler) SaveDraft(c echo.Context) error {
	var req dto.InquiryRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	drafts := h.draftsFor(middleware.ClientKeyFromContext(c))
	if err := drafts.Save(req); err != nil {
		return Error(c, http.StatusInternalServerError, "unable to save draft")
	}
	return Success(c, http.StatusOK, "draft saved", nil)
}

// GetDraft handles GET /inquiries/draft requests.
func (h *InquiryHandler) GetDraft(c echo.Context) error {
	drafts := h.draftsFor(middleware.ClientKeyFromContext(c))

	draft, ok, err := drafts.Restore()
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to restore draft")
	}
	if !ok {
		return Error(c, http.StatusNotFound, "no draft saved")
	}
	return Success(c, http.StatusOK, "", draft)
}

// DeleteDraft handles DELETE /inquiries/draft requests.
func (h *InquiryHandler) DeleteDraft(c echo.Context) error {
	drafts := h.draftsFor(middleware.ClientKeyFromContext(c))
	if err := drafts.Discard(); err != nil {
		return Error(c, http.StatusInternalServerError, "unable to discard draft")
	}
	return Success(c, http.StatusOK, "draft discarded", nil)
}

// AdminList handles GET /admin/inquiries requests.
func (h *InquiryHandler) AdminList(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	inquiries, err := h.inquiries.List(c.Request().Context(), limit, offset)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to list inquiries")
	}
	return Success(c, http.StatusOK, "", inquiries)
}
