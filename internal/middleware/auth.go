package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/LucianBellevue/ba-website/pkg/problem"
)

// APIKey guards the admin routes. The key comes from X-API-Key or an
// Authorization bearer token; an empty configured key rejects everything.
func APIKey(apiKey string) func(http.Handler) http.Handler {
	want := []byte(apiKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				key, _ = strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			}

			if len(want) == 0 || subtle.ConstantTimeCompare([]byte(key), want) != 1 {
				problem.Write(w, http.StatusUnauthorized, "Unauthorized", "Invalid or missing API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
