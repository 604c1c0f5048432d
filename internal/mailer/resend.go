// Package mailer wraps the Resend HTTP API and builds the two notification
// emails sent for each inquiry.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.resend.com"

// Email is one outbound message.
type Email struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Sender delivers a single email.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// ResendClient sends email through the Resend API.
type ResendClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// ResendOption configures the client.
type ResendOption func(*ResendClient)

// WithBaseURL overrides the API base URL, used by tests.
func WithBaseURL(baseURL string) ResendOption {
	return func(c *ResendClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// NewResendClient builds a Resend API client.
func NewResendClient(client *http.Client, apiKey string, opts ...ResendOption) *ResendClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	c := &ResendClient{client: client, baseURL: defaultBaseURL, apiKey: apiKey}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Sender = (*ResendClient)(nil)

// Send posts the email. Success means the API accepted the request, not that
// the message was delivered.
func (c *ResendClient) Send(ctx context.Context, email Email) error {
	body, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("email provider error: %s", extractProviderError(resp.Body, resp.StatusCode))
	}
	return nil
}

func extractProviderError(body io.Reader, status int) string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return http.StatusText(status)
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return string(data)
}
