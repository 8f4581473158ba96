package idhash

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/mr-tron/base58"
)

// DefaultOrderWindow is the span within which repeated orders share a key.
const DefaultOrderWindow = time.Hour

// ComputeOrderKey computes a deterministic idempotency key for a purchase order.
// Formula: SHA256(ndc|qty|window_start_unix)
// Returns base58-encoded hash.
func ComputeOrderKey(ndc string, qty int, windowStart time.Time) string {
	data := fmt.Sprintf("%s|%d|%d", ndc, qty, windowStart.UTC().Unix())

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}

// WindowStart returns the start of the window containing t.
// Non-positive windows fall back to DefaultOrderWindow.
func WindowStart(t time.Time, window time.Duration) time.Time {
	if window <= 0 {
		window = DefaultOrderWindow
	}
	return t.UTC().Truncate(window)
}
