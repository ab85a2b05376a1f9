package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

// Mountable is implemented by every feature handler; the router mounts each
// under /api.
type Mountable interface {
	Mount(r chi.Router)
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// isEmptyBody reports a decode failure caused by a missing body.
func isEmptyBody(err error) bool { return errors.Is(err, io.EOF) }

// decodeFailure is the user-facing text for a body that did not decode.
func decodeFailure(err error) string {
	if isEmptyBody(err) {
		return "Request body is required."
	}
	return "Request body could not be decoded."
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "err", err)
	}
}
