package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ryankolean/rarefindtalent/internal/dto"
	"github.com/ryankolean/rarefindtalent/internal/entity"
)

const inquiriesTable = "contact_inquiries"

// RESTClient creates inquiries through the hosted store's REST surface
// (PostgREST-style: POST /rest/v1/<table> authorized with the anon key).
type RESTClient struct {
	client  *http.Client
	baseURL string
	anonKey string
}

// NewRESTClient builds a hosted-store client.
func NewRESTClient(client *http.Client, baseURL, anonKey string) *RESTClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RESTClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
	}
}

var _ Creator = (*RESTClient)(nil)

// CreateInquiry inserts one row and returns the created representation.
func (c *RESTClient) CreateInquiry(ctx context.Context, req dto.InquiryRequest) (*entity.Inquiry, error) {
	body, err := json.Marshal(insertPayload(req))
	if err != nil {
		return nil, fmt.Errorf("marshal inquiry payload: %w", err)
	}

	url := c.baseURL + "/rest/v1/" + inquiriesTable
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create store request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Prefer", "return=representation")
	if c.anonKey != "" {
		httpReq.Header.Set("apikey", c.anonKey)
		httpReq.Header.Set("Authorization", "Bearer "+c.anonKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &Error{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, decodeStoreError(resp.StatusCode, resp.Body)
	}

	var rows []entity.Inquiry
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode store response: %w", err)
	}
	if len(rows) == 0 {
		return nil, &Error{Status: resp.StatusCode, Message: "store returned no representation"}
	}
	return &rows[0], nil
}

func insertPayload(req dto.InquiryRequest) map[string]any {
	payload := map[string]any{
		"full_name":         req.FullName,
		"email":             req.Email,
		"inquiry_type":      req.InquiryType,
		"preferred_contact": req.PreferredContact,
		"urgency":           req.Urgency,
	}
	payload["phone"] = nullable(req.Phone)
	payload["company_name"] = nullable(req.CompanyName)
	payload["job_title"] = nullable(req.JobTitle)
	payload["message"] = nullable(req.Message)
	return payload
}

func nullable(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func decodeStoreError(status int, body io.Reader) *Error {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return &Error{Status: status, Message: http.StatusText(status)}
	}

	var payload struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return &Error{Status: status, Code: payload.Code, Message: payload.Message}
	}
	return &Error{Status: status, Message: string(data)}
}
