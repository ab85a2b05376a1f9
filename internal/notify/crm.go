package notify

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

// CRM upserts contacts with PUT {base}/contacts, keyed by email on the
// CRM's side.
type CRM struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewCRM(baseURL, apiKey string, client *http.Client) *CRM {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &CRM{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: client}
}

func (c *CRM) UpsertContact(ctx context.Context, contact core.CRMContact) (core.CRMResult, error) {
	payload, err := json.Marshal(contact)
	if err != nil {
		return core.CRMResult{}, fmt.Errorf("encode contact: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/contacts", bytes.NewReader(payload))
	if err != nil {
		return core.CRMResult{}, fmt.Errorf("build crm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return core.CRMResult{}, fmt.Errorf("crm upsert: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return core.CRMResult{}, fmt.Errorf("crm upsert: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return core.CRMResult{}, fmt.Errorf("crm upsert: status %d", resp.StatusCode)
	}

	var res core.CRMResult
	if err := json.Unmarshal(body, &res); err != nil {
		return core.CRMResult{}, fmt.Errorf("crm upsert: decode: %w", err)
	}
	return res, nil
}
