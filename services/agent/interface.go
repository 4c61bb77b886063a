// File: services/agent/interface.go
package agent

import (
	"context"
	"errors"
	"strings"
	"time"

	"screenqa/models"
	"screenqa/services/calendar"
	"screenqa/services/screenshare"
)

// AgentService is the conversational surface of the screen QA agent.
type AgentService interface {
	ProcessUserInput(ctx context.Context, req models.AgentRequest) (*models.AgentResponse, error)
	AnswerAboutScreen(ctx context.Context, question string) (string, error)
	ListSlots(ctx context.Context, sessionID, rangeKeyword string) ([]string, error)
	BookSlot(ctx context.Context, sessionID, slotID string) (string, error)
	BookStartTime(ctx context.Context, startTime time.Time) (string, error)
}

// ReminderScheduler enqueues an appointment reminder after a successful
// booking. A nil scheduler disables reminders.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, sessionID string, startTime time.Time) error
}

// DefaultAgentService wires the calendar engine, the latest-frame buffer and
// the vision model together. The frame buffer is an explicit dependency
// shared with the room transport (the producer side), scoped to the session.
type DefaultAgentService struct {
	Cal       calendar.Calendar
	Frames    *screenshare.LastFrame
	Gemini    *GeminiClient
	CtxStore  *RedisContextStore
	Reminders ReminderScheduler
	Location  *time.Location

	now func() time.Time
}

// NewDefaultAgentService builds the agent service. loc is the timezone slots
// are rendered in; nil falls back to UTC.
func NewDefaultAgentService(cal calendar.Calendar, frames *screenshare.LastFrame, gemini *GeminiClient, ctxStore *RedisContextStore, loc *time.Location) *DefaultAgentService {
	if loc == nil {
		loc = time.UTC
	}
	return &DefaultAgentService{
		Cal:      cal,
		Frames:   frames,
		Gemini:   gemini,
		CtxStore: ctxStore,
		Location: loc,
		now:      time.Now,
	}
}

// ProcessUserInput routes a user message to the right flow: booking a listed
// slot by its short code, listing availability, or answering about the
// shared screen.
func (s *DefaultAgentService) ProcessUserInput(ctx context.Context, req models.AgentRequest) (*models.AgentResponse, error) {
	// 1. A slot code anywhere in the message means "book that one".
	if slotID := extractSlotID(req.Text); slotID != "" {
		msg, err := s.BookSlot(ctx, req.SessionID, slotID)
		if err != nil {
			// Expected failures become replies; the user picks again.
			var unknown *ErrUnknownSlot
			switch {
			case errors.As(err, &unknown):
				msg = "I don't recognize that slot code. Ask me to list available slots first."
			case calendar.IsSlotUnavailable(err):
				msg = "That slot is no longer available. Ask me to list slots again and pick another."
			default:
				return nil, err
			}
		}
		return &models.AgentResponse{Intent: "schedule", ResponseText: msg}, nil
	}

	// 2. Route by intent keywords.
	switch getIntent(req.Text) {
	case "schedule":
		lines, err := s.ListSlots(ctx, req.SessionID, rangeKeywordFromText(req.Text))
		if err != nil {
			return nil, err
		}
		if len(lines) == 0 {
			return &models.AgentResponse{
				Intent:       "schedule",
				ResponseText: "I couldn't find any open slots in that range. Want me to look further out?",
			}, nil
		}
		resp := &models.AgentResponse{
			Intent:       "schedule",
			ResponseText: "Here are the open slots:\n" + strings.Join(lines, "\n") + "\nReply with a slot code to book it.",
		}
		for _, line := range lines {
			resp.Actions = append(resp.Actions, models.AgentAction{
				Label:  line,
				Type:   "book",
				SlotID: strings.SplitN(line, " ", 2)[0],
			})
		}
		return resp, nil
	default:
		answer, err := s.AnswerAboutScreen(ctx, req.Text)
		if err != nil {
			return nil, err
		}
		return &models.AgentResponse{Intent: "screen", ResponseText: answer}, nil
	}
}

// getIntent classifies a message with simple keyword matching.
func getIntent(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "book"),
		strings.Contains(lower, "schedule"),
		strings.Contains(lower, "appointment"),
		strings.Contains(lower, "slot"),
		strings.Contains(lower, "meeting"):
		return "schedule"
	default:
		return "screen"
	}
}

// extractSlotID finds a slot short code (ST_xxxxxxxx) in free text.
func extractSlotID(text string) string {
	for _, field := range strings.Fields(text) {
		token := strings.Trim(field, ".,!?:;\"'()")
		if strings.HasPrefix(strings.ToUpper(token), "ST_") && len(token) > 3 {
			return "ST_" + strings.ToLower(token[3:])
		}
	}
	return ""
}

// rangeKeywordFromText maps a message to a listing range keyword.
func rangeKeywordFromText(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "3 month"), strings.Contains(lower, "three month"):
		return "+3month"
	case strings.Contains(lower, "month"):
		return "+1month"
	case strings.Contains(lower, "2 week"), strings.Contains(lower, "two week"):
		return "+2week"
	default:
		return "default"
	}
}
