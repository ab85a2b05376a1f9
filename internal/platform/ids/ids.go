// Package ids generates identifiers for persisted records.
package ids

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// New returns a random UUIDv4 string.
func New() string {
	return uuid.NewString()
}

// NewLeadID returns lead_<unix millis>_<8 random hex chars>. It sorts by
// creation time and is unique in practice, but it is not an idempotency key.
func NewLeadID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("lead_%d_%s", now.UnixMilli(), suffix)
}
