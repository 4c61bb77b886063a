// File: services/agent/slots.go
package agent

import (
	"context"
	"fmt"
	"time"

	"screenqa/models"
	"screenqa/services/calendar"
	"screenqa/utils"

	"go.uber.org/zap"
)

// ErrUnknownRange is returned for a listing range keyword the agent does not
// understand; a user-correctable input error, not a calendar failure.
type ErrUnknownRange struct {
	Keyword string
}

func (e *ErrUnknownRange) Error() string {
	return fmt.Sprintf("unknown range keyword %q (use +2week, +1month, +3month or default)", e.Keyword)
}

// ErrUnknownSlot is returned when a booking refers to a slot code that was
// not part of the session's last listing (or the listing expired).
type ErrUnknownSlot struct {
	SlotID string
}

func (e *ErrUnknownSlot) Error() string {
	return fmt.Sprintf("unknown slot code %q", e.SlotID)
}

// resolveRange maps a relative range keyword to a concrete [start, end) window.
func resolveRange(now time.Time, keyword string) (time.Time, time.Time, error) {
	switch keyword {
	case "+2week", "default", "":
		return now, now.AddDate(0, 0, 14), nil
	case "+1month":
		return now, now.AddDate(0, 1, 0), nil
	case "+3month":
		return now, now.AddDate(0, 3, 0), nil
	default:
		return time.Time{}, time.Time{}, &ErrUnknownRange{Keyword: keyword}
	}
}

// ListSlots lists the open slots in the given relative range and remembers
// the id->start mapping for this session so a slot can be booked by code.
func (s *DefaultAgentService) ListSlots(ctx context.Context, sessionID, rangeKeyword string) ([]string, error) {
	now := s.now()
	start, end, err := resolveRange(now, rangeKeyword)
	if err != nil {
		return nil, err
	}

	slots, err := s.Cal.ListAvailableSlots(ctx, start, end)
	if err != nil {
		return nil, err
	}

	agentCtx := &models.AgentContext{
		Slots:    make(map[string]time.Time, len(slots)),
		ListedAt: now,
	}
	lines := make([]string, 0, len(slots))
	for _, slot := range slots {
		id := slot.UniqueHash()
		agentCtx.Slots[id] = slot.StartTime
		lines = append(lines, s.renderSlotLine(id, slot, now))
	}
	if s.CtxStore != nil {
		if err := s.CtxStore.Set(ctx, sessionID, agentCtx); err != nil {
			return nil, fmt.Errorf("save slot listing: %w", err)
		}
	}
	return lines, nil
}

// renderSlotLine formats one listing line:
//
//	ST_abcd1234 – Friday, January 10, 2025 at 09:00 UTC (in 3 days)
func (s *DefaultAgentService) renderSlotLine(id string, slot models.AvailableSlot, now time.Time) string {
	local := slot.StartTime.In(s.Location)
	return fmt.Sprintf("%s – %s at %s (%s)",
		id,
		local.Format("Monday, January 2, 2006"),
		local.Format("15:04 MST"),
		relativePhrase(now, slot.StartTime),
	)
}

// BookSlot books a previously listed slot by its short code. Unknown codes
// fail with ErrUnknownSlot and an occupied window propagates the calendar's
// SlotUnavailableError; translating either into user-facing language is the
// conversational layer's job.
func (s *DefaultAgentService) BookSlot(ctx context.Context, sessionID, slotID string) (string, error) {
	agentCtx, err := s.CtxStore.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load slot listing: %w", err)
	}
	startTime, ok := agentCtx.Slots[slotID]
	if !ok {
		return "", &ErrUnknownSlot{SlotID: slotID}
	}
	return s.book(ctx, sessionID, startTime)
}

// BookStartTime books an appointment at an explicit start instant, skipping
// the listed-slot lookup. Used by the REST surface.
func (s *DefaultAgentService) BookStartTime(ctx context.Context, startTime time.Time) (string, error) {
	return s.book(ctx, "", startTime)
}

func (s *DefaultAgentService) book(ctx context.Context, sessionID string, startTime time.Time) (string, error) {
	logger := utils.GetLogger()
	if err := s.Cal.ScheduleAppointment(ctx, startTime); err != nil {
		if calendar.IsSlotUnavailable(err) {
			logger.Info("booking lost race for slot", zap.Time("startTime", startTime))
		}
		return "", err
	}

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleReminder(ctx, sessionID, startTime); err != nil {
			// Booking already succeeded; a lost reminder is not worth failing over.
			logger.Warn("failed to schedule reminder", zap.Time("startTime", startTime), zap.Error(err))
		}
	}

	local := startTime.In(s.Location)
	return fmt.Sprintf("Booked! Your appointment is on %s at %s.",
		local.Format("Monday, January 2, 2006"),
		local.Format("15:04 MST"),
	), nil
}
