package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Status struct {
	Status       string `json:"status"`
	Store        string `json:"store,omitempty"`
	RatesVersion string `json:"ratesVersion,omitempty"`
}

// New serves /health (process up) and /readyz (lead store reachable).
// ratesVersion may be nil.
func New(log *slog.Logger, p Pinger, opTimeout time.Duration, ratesVersion func() string) http.Handler {
	r := chi.NewRouter()

	version := func() string {
		if ratesVersion == nil {
			return ""
		}
		return ratesVersion()
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		write(w, http.StatusOK, Status{Status: "ok", RatesVersion: version()})
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), opTimeout)
		defer cancel()

		st := Status{Status: "ready", Store: "ok", RatesVersion: version()}
		if err := p.Ping(ctx); err != nil {
			log.WarnContext(ctx, "readiness failed", "err", err)
			st.Status, st.Store = "not ready", "unreachable"
			write(w, http.StatusServiceUnavailable, st)
			return
		}
		write(w, http.StatusOK, st)
	})

	return r
}

func write(w http.ResponseWriter, code int, st Status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(st)
}
