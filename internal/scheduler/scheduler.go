package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/vocabtutor/internal/notify"
)

// DefaultReminderHour is the UTC hour the daily reminder fires at when no
// REMINDER_HOUR is configured.
const DefaultReminderHour = 10

// Scheduler runs the in-process daily reminder job, replacing the platform
// cron of the serverless deployment.
type Scheduler struct {
	scheduler *gocron.Scheduler
	reminder  *notify.Reminder
	learnerID string
	hour      int
	logger    *slog.Logger
}

// New creates a scheduler that sends the reminder for one learner once a day.
func New(reminder *notify.Reminder, learnerID string, hour int, logger *slog.Logger) *Scheduler {
	if hour < 0 || hour > 23 {
		hour = DefaultReminderHour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		reminder:  reminder,
		learnerID: learnerID,
		hour:      hour,
		logger:    logger,
	}
}

// Start begins running the daily job in the background.
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Day().At(fmt.Sprintf("%02d:00", s.hour)).Do(s.sendReminder)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) sendReminder() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.reminder.Run(ctx, s.learnerID); err != nil {
		s.logger.Error("scheduled reminder failed", "learner", s.learnerID, "error", err)
		return
	}
	s.logger.Info("daily reminder sent", "learner", s.learnerID)
}
