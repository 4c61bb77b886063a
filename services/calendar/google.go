package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"screenqa/models"
	"screenqa/utils"

	"go.uber.org/zap"
)

const (
	defaultBaseURL     = "https://www.googleapis.com/calendar/v3/"
	defaultDurationMin = 60
	eventSummary       = "AI Feature Exploration Meeting"
)

// GoogleCalendarConfig carries the settings for a GoogleCalendar client.
type GoogleCalendarConfig struct {
	AccessToken string
	CalendarID  string // defaults to "primary"
	BaseURL     string // defaults to the Google Calendar v3 endpoint
	Timezone    string // IANA name used for event payloads, e.g. "Asia/Ho_Chi_Minh"
	DurationMin int    // fixed appointment duration, defaults to 60
}

// GoogleCalendar implements Calendar against the Google Calendar REST API.
type GoogleCalendar struct {
	cfg    GoogleCalendarConfig
	tz     *time.Location
	client *http.Client
}

// NewGoogleCalendar builds a GoogleCalendar client from cfg, applying
// defaults for unset fields.
func NewGoogleCalendar(cfg GoogleCalendarConfig) (*GoogleCalendar, error) {
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("google calendar access token not provided")
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.DurationMin <= 0 {
		cfg.DurationMin = defaultDurationMin
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
	tz, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar timezone %q: %w", cfg.Timezone, err)
	}
	return &GoogleCalendar{
		cfg:    cfg,
		tz:     tz,
		client: &http.Client{},
	}, nil
}

// EventDurationMin returns the configured appointment duration.
func (g *GoogleCalendar) EventDurationMin() int {
	return g.cfg.DurationMin
}

// Initialize verifies that the calendar is accessible.
func (g *GoogleCalendar) Initialize(ctx context.Context) error {
	var data struct {
		Summary string `json:"summary"`
	}
	if err := g.doJSON(ctx, http.MethodGet, "calendars/"+g.cfg.CalendarID, nil, &data); err != nil {
		return fmt.Errorf("failed to access calendar %q: %w", g.cfg.CalendarID, err)
	}
	summary := data.Summary
	if summary == "" {
		summary = g.cfg.CalendarID
	}
	utils.GetLogger().Info("using google calendar", zap.String("summary", summary))
	return nil
}

// ListAvailableSlots fetches live freebusy state for the window and returns
// the open slots at duration granularity, ascending. Results are a pure
// function of the freebusy snapshot at call time; nothing is cached.
func (g *GoogleCalendar) ListAvailableSlots(ctx context.Context, startTime, endTime time.Time) ([]models.AvailableSlot, error) {
	startUTC := startTime.UTC()
	endUTC := endTime.UTC()
	if !endUTC.After(startUTC) {
		return []models.AvailableSlot{}, nil
	}
	busy, err := g.freeBusy(ctx, startUTC, endUTC)
	if err != nil {
		return nil, err
	}
	return computeOpenSlots(startUTC, endUTC, g.cfg.DurationMin, busy), nil
}

// ScheduleAppointment re-validates the window against live freebusy state
// and then creates the event. The re-check is mandatory: the caller may be
// acting on a listing from minutes ago and another booking may have landed
// in between. An occupied window fails with SlotUnavailableError before any
// event is created.
func (g *GoogleCalendar) ScheduleAppointment(ctx context.Context, startTime time.Time) error {
	startUTC := startTime.UTC()
	endUTC := startUTC.Add(time.Duration(g.cfg.DurationMin) * time.Minute)

	busy, err := g.freeBusy(ctx, startUTC, endUTC)
	if err != nil {
		return err
	}
	if isRangeBusy(startUTC, endUTC, busy) {
		return NewSlotUnavailableError("time slot is no longer available")
	}

	startLocal := startUTC.In(g.tz)
	endLocal := endUTC.In(g.tz)
	body := map[string]any{
		"summary": eventSummary,
		"start":   map[string]string{"dateTime": startLocal.Format(time.RFC3339), "timeZone": g.cfg.Timezone},
		"end":     map[string]string{"dateTime": endLocal.Format(time.RFC3339), "timeZone": g.cfg.Timezone},
	}
	return g.createEvent(ctx, body)
}

func (g *GoogleCalendar) createEvent(ctx context.Context, body map[string]any) error {
	resp, err := g.do(ctx, http.MethodPost, "calendars/"+g.cfg.CalendarID+"/events?sendUpdates=all", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return NewSlotUnavailableError("time slot is no longer available")
	}
	if resp.StatusCode >= 400 {
		msg := readErrorMessage(resp.Body)
		if msg == "" {
			msg = "failed to create event"
		}
		// Some backends report conflicts only through the error text.
		if isConflictMessage(msg) {
			return NewSlotUnavailableError(msg)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	return nil
}

// freeBusy fetches the busy intervals overlapping [startUTC, endUTC) from
// the remote calendar. One network round trip, no local state.
func (g *GoogleCalendar) freeBusy(ctx context.Context, startUTC, endUTC time.Time) ([]models.BusyInterval, error) {
	body := map[string]any{
		"timeMin":  startUTC.Format(time.RFC3339),
		"timeMax":  endUTC.Format(time.RFC3339),
		"timeZone": "UTC",
		"items":    []map[string]string{{"id": g.cfg.CalendarID}},
	}
	var data struct {
		Calendars map[string]struct {
			Busy []struct {
				Start string `json:"start"`
				End   string `json:"end"`
			} `json:"busy"`
		} `json:"calendars"`
	}
	if err := g.doJSON(ctx, http.MethodPost, "freeBusy", body, &data); err != nil {
		return nil, fmt.Errorf("freebusy query failed: %w", err)
	}

	cal := data.Calendars[g.cfg.CalendarID]
	busy := make([]models.BusyInterval, 0, len(cal.Busy))
	for _, b := range cal.Busy {
		// RFC 3339 covers both Z-suffixed and offset forms.
		start, err := time.Parse(time.RFC3339, b.Start)
		if err != nil {
			return nil, fmt.Errorf("unparseable busy start %q: %w", b.Start, err)
		}
		end, err := time.Parse(time.RFC3339, b.End)
		if err != nil {
			return nil, fmt.Errorf("unparseable busy end %q: %w", b.End, err)
		}
		busy = append(busy, models.BusyInterval{Start: start, End: end})
	}
	return busy, nil
}

func (g *GoogleCalendar) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	return g.client.Do(req)
}

func (g *GoogleCalendar) doJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := g.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// readErrorMessage extracts error.message from a Google-style error body.
func readErrorMessage(r io.Reader) string {
	var data struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return ""
	}
	return data.Error.Message
}
