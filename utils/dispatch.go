package utils

import "errors"

// ErrNotConfigured is returned by dispatchers whose provider credentials are
// absent. It is always raised before any network call, so callers can tell
// "feature disabled" apart from a delivery failure.
var ErrNotConfigured = errors.New("dispatcher is not configured")

// DeliveryReceipt reports the outcome of a single dispatch attempt
type DeliveryReceipt struct {
	Success     bool   `json:"success"`
	MessageID   string `json:"message_id"`
	Status      string `json:"status"`
	Destination string `json:"destination"`
}
