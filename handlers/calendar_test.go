package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"screenqa/models"
	agentsvc "screenqa/services/agent"
	"screenqa/services/calendar"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAgent returns scripted results so handler status mapping can be
// exercised without a calendar backend.
type stubAgent struct {
	listLines []string
	listErr   error
	bookMsg   string
	bookErr   error

	lastSlotID    string
	lastStartTime time.Time
}

func (s *stubAgent) ProcessUserInput(ctx context.Context, req models.AgentRequest) (*models.AgentResponse, error) {
	return &models.AgentResponse{Intent: "screen", ResponseText: "ok"}, nil
}

func (s *stubAgent) AnswerAboutScreen(ctx context.Context, question string) (string, error) {
	return "ok", nil
}

func (s *stubAgent) ListSlots(ctx context.Context, sessionID, rangeKeyword string) ([]string, error) {
	return s.listLines, s.listErr
}

func (s *stubAgent) BookSlot(ctx context.Context, sessionID, slotID string) (string, error) {
	s.lastSlotID = slotID
	return s.bookMsg, s.bookErr
}

func (s *stubAgent) BookStartTime(ctx context.Context, startTime time.Time) (string, error) {
	s.lastStartTime = startTime
	return s.bookMsg, s.bookErr
}

func newCalendarRouter(stub *stubAgent) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCalendarHandler(stub)
	r := gin.New()
	r.GET("/slots", h.ListSlotsHandler)
	r.POST("/book", h.BookSlotHandler)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListSlotsHandler(t *testing.T) {
	stub := &stubAgent{listLines: []string{"ST_abcd1234 – Friday, June 13, 2025 at 09:00 UTC (in 3 days)"}}
	r := newCalendarRouter(stub)

	w := doJSON(t, r, http.MethodGet, "/slots?range=default", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Slots []string `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Slots, 1)
}

func TestListSlotsHandlerBadRange(t *testing.T) {
	stub := &stubAgent{listErr: &agentsvc.ErrUnknownRange{Keyword: "+1year"}}
	r := newCalendarRouter(stub)

	w := doJSON(t, r, http.MethodGet, "/slots?range=%2B1year", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookSlotHandlerByCode(t *testing.T) {
	stub := &stubAgent{bookMsg: "Booked! Your appointment is on Friday, June 13, 2025 at 09:00 UTC."}
	r := newCalendarRouter(stub)

	w := doJSON(t, r, http.MethodPost, "/book", BookSlotRequest{SessionID: "sess-1", SlotID: "ST_abcd1234"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ST_abcd1234", stub.lastSlotID)
}

func TestBookSlotHandlerByStartTime(t *testing.T) {
	stub := &stubAgent{bookMsg: "Booked!"}
	r := newCalendarRouter(stub)

	start := time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)
	w := doJSON(t, r, http.MethodPost, "/book", BookSlotRequest{StartTime: start.Format(time.RFC3339)})

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, stub.lastStartTime.Equal(start))
}

func TestBookSlotHandlerStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unknown slot", &agentsvc.ErrUnknownSlot{SlotID: "ST_deadbeef"}, http.StatusNotFound},
		{"slot taken", calendar.NewSlotUnavailableError("time slot is no longer available"), http.StatusConflict},
		{"backend down", &calendar.APIError{StatusCode: 500, Message: "boom"}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newCalendarRouter(&stubAgent{bookErr: tc.err})
			w := doJSON(t, r, http.MethodPost, "/book", BookSlotRequest{SlotID: "ST_deadbeef"})
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestBookSlotHandlerValidation(t *testing.T) {
	r := newCalendarRouter(&stubAgent{})

	// Neither slot_id nor start_time.
	w := doJSON(t, r, http.MethodPost, "/book", BookSlotRequest{SessionID: "sess-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed start_time.
	w = doJSON(t, r, http.MethodPost, "/book", BookSlotRequest{StartTime: "next tuesday"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
