package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/LucianBellevue/ba-website/pkg/problem"
)

// RateLimiter is a per-client sliding window held in process memory. Counts
// are not shared between replicas.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// PerMinute is shorthand for NewRateLimiter(rpm, time.Minute).
func PerMinute(rpm int) *RateLimiter { return NewRateLimiter(rpm, time.Minute) }

// Run prunes idle clients every window until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.prune()
		}
	}
}

func (rl *RateLimiter) prune() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.window)
	for client, times := range rl.requests {
		times = recent(times, cutoff)
		if len(times) == 0 {
			delete(rl.requests, client)
			continue
		}
		rl.requests[client] = times
	}
}

// Allow records a request for client and reports whether it fits the window.
// When it does not, retry is how long until the oldest request ages out.
func (rl *RateLimiter) Allow(client string) (ok bool, retry time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	times := recent(rl.requests[client], now.Add(-rl.window))
	if len(times) >= rl.limit {
		rl.requests[client] = times
		return false, times[0].Add(rl.window).Sub(now)
	}
	rl.requests[client] = append(times, now)
	return true, 0
}

func recent(times []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(times) && !times[i].After(cutoff) {
		i++
	}
	return times[i:]
}

// Middleware limits by client IP. It must run after chi's RealIP so that
// RemoteAddr reflects the trusted forwarded address.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retry := rl.Allow(clientIP(r.RemoteAddr))
		if !ok {
			secs := int(retry.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			problem.Write(w, http.StatusTooManyRequests, "Rate Limit Exceeded",
				"Too many requests. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
