package tasks

import (
	"context"
	"encoding/json"
	"time"

	"screenqa/cron"

	"github.com/hibiken/asynq"
)

// reminderLead is how long before the appointment the reminder fires.
const reminderLead = time.Hour

// NewReminderTask builds an appointment reminder task that fires at fireAt.
func NewReminderTask(payload cron.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(cron.TypeReminderSend, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// ReminderScheduler enqueues appointment reminders on the asynq queue.
type ReminderScheduler struct {
	Client *asynq.Client
}

// ScheduleReminder enqueues a reminder one hour before startTime. Reminders
// for appointments starting sooner than the lead fire immediately.
func (s *ReminderScheduler) ScheduleReminder(ctx context.Context, sessionID string, startTime time.Time) error {
	fireAt := startTime.Add(-reminderLead)
	if fireAt.Before(time.Now()) {
		fireAt = time.Now()
	}
	task, opts, err := NewReminderTask(cron.ReminderPayload{
		SessionID: sessionID,
		StartTime: startTime,
	}, fireAt)
	if err != nil {
		return err
	}
	_, err = s.Client.EnqueueContext(ctx, task, opts...)
	return err
}
