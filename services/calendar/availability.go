package calendar

import (
	"time"

	"screenqa/models"
)

// alignToInterval aligns t forward to the next boundary of the given
// granularity (in minutes), in UTC. A time already on a boundary is used
// as-is; alignment never moves backward, so a window starting mid-interval
// never yields a slot before its own start.
func alignToInterval(t time.Time, minutes int) time.Time {
	t = t.UTC()
	m := (t.Minute() / minutes) * minutes
	base := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), m%60, 0, 0, time.UTC)
	if base.Before(t) {
		base = base.Add(time.Duration(minutes) * time.Minute)
	}
	return base
}

// isRangeBusy reports whether [start, end) overlaps any busy interval.
// Half-open semantics: touching boundaries are not a conflict.
func isRangeBusy(start, end time.Time, busy []models.BusyInterval) bool {
	for _, b := range busy {
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// computeOpenSlots generates candidate slots of durationMin starting at the
// first aligned boundary at or after start, and keeps those that fit inside
// [start, end) without touching a busy interval. Candidates are emitted in
// ascending order; callers rely on that ordering.
func computeOpenSlots(start, end time.Time, durationMin int, busy []models.BusyInterval) []models.AvailableSlot {
	duration := time.Duration(durationMin) * time.Minute
	slots := []models.AvailableSlot{}
	for cur := alignToInterval(start, durationMin); !cur.Add(duration).After(end); cur = cur.Add(duration) {
		if !isRangeBusy(cur, cur.Add(duration), busy) {
			slots = append(slots, models.AvailableSlot{StartTime: cur, DurationMin: durationMin})
		}
	}
	return slots
}
