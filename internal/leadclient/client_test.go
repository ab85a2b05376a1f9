package leadclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucianBellevue/ba-website/internal/core"
	"github.com/LucianBellevue/ba-website/internal/rates"
)

func TestSubmitLead(t *testing.T) {
	var got core.LeadRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/lead", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(core.LeadResponse{OK: true, LeadID: "lead_1_x", Message: "thanks", EmailSent: true})
	}))
	defer srv.Close()

	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	resp, err := New(srv.URL+"/", nil).SubmitLead(context.Background(), core.LeadRequest{
		ProductType: rates.TermLife,
		Inputs:      &core.EstimateInput{Age: 35, Gender: rates.Male, Coverage: "500k"},
		Contact:     &core.ContactInfo{FirstName: "Ada", Email: "ada@example.com"},
		Source:      "ratesctl",
		CreatedAt:   &now,
	})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.True(t, resp.EmailSent)
	assert.Equal(t, "lead_1_x", resp.LeadID)

	assert.Equal(t, rates.TermLife, got.ProductType)
	assert.Equal(t, "500k", got.Inputs.Coverage)
	assert.True(t, got.CreatedAt.Equal(now))
}

func TestSubmitLeadFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"server error with body", http.StatusInternalServerError, `{"ok":false,"message":"try again"}`, "try again"},
		{"validation", http.StatusBadRequest, `{"ok":false,"message":"check fields","errors":{"email":"bad"}}`, "check fields"},
		{"gateway html", http.StatusBadGateway, `<html>bad gateway</html>`, ""},
		{"ok status, junk body", http.StatusOK, `not json`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			resp, err := New(srv.URL, nil).SubmitLead(context.Background(), core.LeadRequest{})
			require.Error(t, err)
			assert.False(t, resp.OK)
			assert.Equal(t, tt.wantMsg, resp.Message)
		})
	}
}

func TestSubmitLeadUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).SubmitLead(context.Background(), core.LeadRequest{})
	assert.ErrorContains(t, err, "submit lead")
}
