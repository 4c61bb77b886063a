package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"screenqa/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a minimal in-memory Google Calendar v3 stand-in covering
// the calls the client makes: calendar metadata, freeBusy and event insert.
type fakeBackend struct {
	busy          []models.BusyInterval
	eventStatus   int    // non-zero forces this status on event insert
	eventErrorMsg string // error.message returned alongside eventStatus
	eventsCreated atomic.Int32

	lastFreeBusyBody map[string]any
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /calendars/primary", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"summary": "Test Calendar"})
	})
	mux.HandleFunc("POST /freeBusy", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		f.lastFreeBusyBody = body

		busy := make([]map[string]string, 0, len(f.busy))
		for _, b := range f.busy {
			busy = append(busy, map[string]string{
				"start": b.Start.Format(time.RFC3339),
				"end":   b.End.Format(time.RFC3339),
			})
		}
		json.NewEncoder(w).Encode(map[string]any{
			"calendars": map[string]any{
				"primary": map[string]any{"busy": busy},
			},
		})
	})
	mux.HandleFunc("POST /calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		if f.eventStatus != 0 {
			w.WriteHeader(f.eventStatus)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": f.eventErrorMsg},
			})
			return
		}
		f.eventsCreated.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"id": "evt_1"})
	})
	return mux
}

func newTestCalendar(t *testing.T, backend *fakeBackend) *GoogleCalendar {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	cal, err := NewGoogleCalendar(GoogleCalendarConfig{
		AccessToken: "test-token",
		BaseURL:     srv.URL + "/",
		Timezone:    "UTC",
		DurationMin: 60,
	})
	require.NoError(t, err)
	return cal
}

func TestNewGoogleCalendarRequiresToken(t *testing.T) {
	_, err := NewGoogleCalendar(GoogleCalendarConfig{})
	assert.Error(t, err)
}

func TestInitialize(t *testing.T) {
	cal := newTestCalendar(t, &fakeBackend{})
	assert.NoError(t, cal.Initialize(context.Background()))
}

func TestListAvailableSlotsAroundBusyBlock(t *testing.T) {
	backend := &fakeBackend{
		busy: []models.BusyInterval{{Start: at(10, 0), End: at(11, 0)}},
	}
	cal := newTestCalendar(t, backend)

	slots, err := cal.ListAvailableSlots(context.Background(), at(9, 0), at(12, 0))
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, at(9, 0), slots[0].StartTime)
	assert.Equal(t, at(11, 0), slots[1].StartTime)

	// The freebusy query is issued in UTC over the requested window.
	assert.Equal(t, "UTC", backend.lastFreeBusyBody["timeZone"])
	assert.Equal(t, at(9, 0).Format(time.RFC3339), backend.lastFreeBusyBody["timeMin"])
	assert.Equal(t, at(12, 0).Format(time.RFC3339), backend.lastFreeBusyBody["timeMax"])
}

func TestListAvailableSlotsInvertedWindow(t *testing.T) {
	cal := newTestCalendar(t, &fakeBackend{})

	slots, err := cal.ListAvailableSlots(context.Background(), at(12, 0), at(9, 0))
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestScheduleAppointmentCreatesEvent(t *testing.T) {
	backend := &fakeBackend{}
	cal := newTestCalendar(t, backend)

	err := cal.ScheduleAppointment(context.Background(), at(9, 0))
	require.NoError(t, err)
	assert.Equal(t, int32(1), backend.eventsCreated.Load())
}

func TestScheduleAppointmentRevalidatesBeforeCreating(t *testing.T) {
	// The window was free at listing time but is busy now; the booking must
	// fail as unavailable without creating an event.
	backend := &fakeBackend{
		busy: []models.BusyInterval{{Start: at(9, 30), End: at(10, 30)}},
	}
	cal := newTestCalendar(t, backend)

	err := cal.ScheduleAppointment(context.Background(), at(9, 0))
	require.Error(t, err)
	assert.True(t, IsSlotUnavailable(err))
	assert.Equal(t, int32(0), backend.eventsCreated.Load())
}

func TestScheduleAppointmentBoundaryTouchAllowed(t *testing.T) {
	backend := &fakeBackend{
		busy: []models.BusyInterval{{Start: at(10, 0), End: at(11, 0)}},
	}
	cal := newTestCalendar(t, backend)

	// 09:00-10:00 ends exactly when the busy block starts.
	err := cal.ScheduleAppointment(context.Background(), at(9, 0))
	require.NoError(t, err)
	assert.Equal(t, int32(1), backend.eventsCreated.Load())
}

func TestScheduleAppointmentConflictStatus(t *testing.T) {
	backend := &fakeBackend{eventStatus: http.StatusConflict}
	cal := newTestCalendar(t, backend)

	err := cal.ScheduleAppointment(context.Background(), at(9, 0))
	assert.True(t, IsSlotUnavailable(err))
}

func TestScheduleAppointmentConflictMessage(t *testing.T) {
	backend := &fakeBackend{
		eventStatus:   http.StatusBadRequest,
		eventErrorMsg: "The requested time is Busy on this calendar",
	}
	cal := newTestCalendar(t, backend)

	err := cal.ScheduleAppointment(context.Background(), at(9, 0))
	assert.True(t, IsSlotUnavailable(err))
}

func TestScheduleAppointmentAPIError(t *testing.T) {
	backend := &fakeBackend{
		eventStatus:   http.StatusForbidden,
		eventErrorMsg: "insufficient permissions",
	}
	cal := newTestCalendar(t, backend)

	err := cal.ScheduleAppointment(context.Background(), at(9, 0))
	require.Error(t, err)
	assert.False(t, IsSlotUnavailable(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "insufficient permissions", apiErr.Message)
}

func TestIsConflictMessage(t *testing.T) {
	assert.True(t, isConflictMessage("slot is BUSY"))
	assert.True(t, isConflictMessage("scheduling conflict detected"))
	assert.True(t, isConflictMessage("events overlap"))
	assert.False(t, isConflictMessage("quota exceeded"))
	assert.False(t, isConflictMessage(""))
}
