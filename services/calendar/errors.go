package calendar

import (
	"errors"
	"fmt"
	"strings"
)

// SlotUnavailableError reports that a booking attempt's target window is, or
// has become, occupied. It is the only expected domain failure: the caller
// should re-list availability and pick another slot, not treat it as fatal.
type SlotUnavailableError struct {
	Message string
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("slotUnavailable: %s", e.Message)
}

// NewSlotUnavailableError wraps msg as a SlotUnavailableError.
func NewSlotUnavailableError(msg string) error {
	return &SlotUnavailableError{Message: msg}
}

// IsSlotUnavailable reports whether err is (or wraps) a SlotUnavailableError.
func IsSlotUnavailable(err error) bool {
	var target *SlotUnavailableError
	return errors.As(err, &target)
}

// APIError is any other non-success response from the calendar service.
// It is propagated as-is and never retried by the engine.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calendar api error (status %d): %s", e.StatusCode, e.Message)
}

// conflictKeywords are the error-message substrings conservatively mapped to
// SlotUnavailableError when the backend reports a 4xx/5xx without a
// structured conflict status. Wording-dependent and provider-specific; kept
// in one place so a structured check can replace it.
var conflictKeywords = []string{"busy", "conflict", "overlap"}

// isConflictMessage reports whether a remote error message textually
// indicates an occupied window.
func isConflictMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, k := range conflictKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
