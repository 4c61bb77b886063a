package models

import (
	"encoding/base32"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// AvailableSlot represents a bookable interval of fixed duration.
// Values are transient: they are computed per request from the remote
// calendar's freebusy snapshot and never persisted.
type AvailableSlot struct {
	StartTime   time.Time `json:"startTime"`
	DurationMin int       `json:"durationMin"`
}

// UniqueHash derives a short, stable identifier for the slot so a user can
// refer to it by code instead of retyping a timestamp. It is a pure function
// of (StartTime, DurationMin): equal inputs always produce equal hashes.
func (s AvailableSlot) UniqueHash() string {
	raw := fmt.Sprintf("%s|%d", s.StartTime.Format(time.RFC3339), s.DurationMin)
	h, _ := blake2b.New(5, nil)
	h.Write([]byte(raw))
	digest := h.Sum(nil)
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return "ST_" + strings.ToLower(enc.EncodeToString(digest))
}

// End returns the exclusive end instant of the slot.
func (s AvailableSlot) End() time.Time {
	return s.StartTime.Add(time.Duration(s.DurationMin) * time.Minute)
}

// BusyInterval is a conflicting interval reported by the remote calendar.
// Intervals are half-open: [Start, End).
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether [start, end) intersects the busy interval.
// Touching boundaries do not conflict: an interval ending exactly when
// another begins leaves both free.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return start.Before(b.End) && end.After(b.Start)
}
