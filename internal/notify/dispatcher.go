// Package notify implements the client half of the notification boundary:
// one JSON POST per created inquiry to the serverless notification endpoint.
// The call is best-effort; callers bound it with a context timeout and log
// failures instead of surfacing them.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"

	"github.com/ryankolean/rarefindtalent/internal/dto"
)

// Dispatcher posts inquiry payloads to the notification endpoint.
type Dispatcher struct {
	client  *http.Client
	url     string
	authKey string
}

// NewDispatcher builds a dispatcher. When client is nil it attempts an ID
// token client for service-to-service calls, falling back to a plain client.
func NewDispatcher(client *http.Client, url, authKey string) *Dispatcher {
	if url == "" {
		panic("notification url must not be empty")
	}
	if client == nil {
		idc, err := idtoken.NewClient(context.Background(), url)
		if err != nil {
			client = &http.Client{Timeout: 15 * time.Second}
		} else {
			client = idc
		}
	}
	return &Dispatcher{client: client, url: strings.TrimRight(url, "/"), authKey: authKey}
}

// Send posts the inquiry fields and interprets the endpoint's response. A
// 200 with success=false or any non-2xx status is an error; the caller
// decides whether that matters.
func (d *Dispatcher) Send(ctx context.Context, req dto.InquiryRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create notification request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if d.authKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+d.authKey)
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("notification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("notification endpoint error: %s", extractEndpointError(resp.Body))
	}

	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil && err != io.EOF {
		return fmt.Errorf("decode notification response: %w", err)
	}
	if payload.Error != "" {
		return fmt.Errorf("notification endpoint error: %s", payload.Error)
	}
	if !payload.Success {
		return fmt.Errorf("notification endpoint reported failure")
	}
	return nil
}

func extractEndpointError(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return "notification endpoint returned an error"
	}

	var payload struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		if payload.Details != "" {
			return payload.Error + ": " + payload.Details
		}
		return payload.Error
	}
	return string(data)
}
