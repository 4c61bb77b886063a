package calendar

import (
	"context"
	"time"

	"screenqa/models"
)

// Calendar defines the operations the agent needs from a booking backend.
type Calendar interface {
	// Initialize verifies that the calendar exists and is accessible.
	Initialize(ctx context.Context) error

	// ListAvailableSlots computes the bookable slots inside [startTime,
	// endTime) at the configured duration granularity, in ascending order.
	// An empty or inverted window yields an empty result, not an error.
	ListAvailableSlots(ctx context.Context, startTime, endTime time.Time) ([]models.AvailableSlot, error)

	// ScheduleAppointment books the slot beginning at startTime. The target
	// window is re-validated against live freebusy state before the event is
	// created; a window that is no longer free fails with
	// SlotUnavailableError and creates nothing.
	ScheduleAppointment(ctx context.Context, startTime time.Time) error

	// EventDurationMin returns the fixed appointment duration in minutes.
	EventDurationMin() int
}
