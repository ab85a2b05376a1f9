package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	version := func() string { return "2024.1" }

	tests := []struct {
		name     string
		path     string
		ping     error
		wantCode int
		want     Status
	}{
		{"liveness ignores the store", "/health", errors.New("down"), http.StatusOK, Status{Status: "ok", RatesVersion: "2024.1"}},
		{"ready", "/readyz", nil, http.StatusOK, Status{Status: "ready", Store: "ok", RatesVersion: "2024.1"}},
		{"store down", "/readyz", errors.New("down"), http.StatusServiceUnavailable,
			Status{Status: "not ready", Store: "unreachable", RatesVersion: "2024.1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(log, pingerFunc(func(context.Context) error { return tt.ping }), time.Second, version)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var got Status
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHealthWithoutRatesVersion(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(log, pingerFunc(func(context.Context) error { return nil }), time.Second, nil)

	for _, path := range []string{"/health", "/readyz"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotContains(t, rec.Body.String(), "ratesVersion", path)
	}
}
