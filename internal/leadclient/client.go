// Package leadclient posts calculator leads to a running API.
package leadclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/LucianBellevue/ba-website/internal/core"
)

type Client struct {
	baseURL string
	client  *http.Client
}

// New targets baseURL (e.g. http://localhost:8080). A nil client gets a
// 15 second timeout.
func New(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// SubmitLead makes one POST /api/lead attempt. A non-2xx reply is an error
// even when the body decodes; the decoded body is still returned.
func (c *Client) SubmitLead(ctx context.Context, lead core.LeadRequest) (core.LeadResponse, error) {
	payload, err := json.Marshal(lead)
	if err != nil {
		return core.LeadResponse{}, fmt.Errorf("encode lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/lead", bytes.NewReader(payload))
	if err != nil {
		return core.LeadResponse{}, fmt.Errorf("build lead request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return core.LeadResponse{}, fmt.Errorf("submit lead: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return core.LeadResponse{}, fmt.Errorf("submit lead: read body: %w", err)
	}

	var out core.LeadResponse
	decodeErr := json.Unmarshal(body, &out)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, fmt.Errorf("submit lead: status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return core.LeadResponse{}, fmt.Errorf("submit lead: decode: %w", decodeErr)
	}
	return out, nil
}
