package handlers

import (
	"errors"
	"net/http"
	"time"

	agentsvc "screenqa/services/agent"
	"screenqa/services/calendar"
	"screenqa/utils"

	"github.com/gin-gonic/gin"
)

// CalendarHandler exposes slot listing and booking over REST.
type CalendarHandler struct {
	Svc agentsvc.AgentService
}

func NewCalendarHandler(svc agentsvc.AgentService) *CalendarHandler {
	return &CalendarHandler{Svc: svc}
}

// BookSlotRequest books either a previously listed slot by code or an
// explicit start time (RFC 3339).
type BookSlotRequest struct {
	SessionID string `json:"session_id"`
	SlotID    string `json:"slot_id"`
	StartTime string `json:"start_time"`
}

// ListSlotsHandler lists open slots for a relative range keyword
// (+2week, +1month, +3month or default).
func (h *CalendarHandler) ListSlotsHandler(c *gin.Context) {
	sessionID := c.DefaultQuery("session_id", c.ClientIP())
	rangeKeyword := c.DefaultQuery("range", "default")

	lines, err := h.Svc.ListSlots(c.Request.Context(), sessionID, rangeKeyword)
	if err != nil {
		var unknownRange *agentsvc.ErrUnknownRange
		if errors.As(err, &unknownRange) {
			utils.JSONError(c, http.StatusBadRequest, "invalid range", err.Error())
			return
		}
		utils.JSONError(c, http.StatusBadGateway, "failed to list slots", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": lines})
}

// BookSlotHandler books an appointment. A window that is no longer free
// maps to 409; the caller should re-list and pick another slot.
func (h *CalendarHandler) BookSlotHandler(c *gin.Context) {
	var req BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking request", err.Error())
		return
	}
	if req.SessionID == "" {
		req.SessionID = c.ClientIP()
	}

	var (
		msg string
		err error
	)
	switch {
	case req.SlotID != "":
		msg, err = h.Svc.BookSlot(c.Request.Context(), req.SessionID, req.SlotID)
	case req.StartTime != "":
		var startTime time.Time
		startTime, err = time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid start time", err.Error())
			return
		}
		msg, err = h.Svc.BookStartTime(c.Request.Context(), startTime)
	default:
		utils.JSONError(c, http.StatusBadRequest, "invalid booking request", "slot_id or start_time is required")
		return
	}

	if err != nil {
		var unknownSlot *agentsvc.ErrUnknownSlot
		switch {
		case errors.As(err, &unknownSlot):
			utils.JSONError(c, http.StatusNotFound, "unknown slot", err.Error())
		case calendar.IsSlotUnavailable(err):
			utils.JSONError(c, http.StatusConflict, "slot unavailable", err.Error())
		default:
			utils.JSONError(c, http.StatusBadGateway, "booking failed", err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
