package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/vocabtutor/internal/task"
)

// DigestSource builds the daily reminder material.
type DigestSource interface {
	GetReminderDigest(ctx context.Context, learnerID string) (*task.ReminderDigest, error)
}

// EmailSender delivers one HTML email.
type EmailSender interface {
	SendEmail(ctx context.Context, subject, htmlContent string) error
}

// DigestSender posts the digest to a secondary channel.
type DigestSender interface {
	SendDigest(subject, newWordLine string, reviewTerms []string) error
}

// Reminder composes and delivers the daily study reminder.
type Reminder struct {
	Svc         DigestSource
	Email       EmailSender
	Telegram    DigestSender // optional
	PlatformURL string
	Logger      *slog.Logger
}

// Run builds today's digest for the learner and sends it out. Email is the
// primary channel; Telegram failures are logged, not returned.
func (r *Reminder) Run(ctx context.Context, learnerID string) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	digest, err := r.Svc.GetReminderDigest(ctx, learnerID)
	if err != nil {
		return fmt.Errorf("failed to build reminder digest: %w", err)
	}

	day, err := time.Parse(time.DateOnly, digest.Date)
	if err != nil {
		return fmt.Errorf("invalid digest date %q: %v", digest.Date, err)
	}
	calendarLink := GoogleCalendarLink(digest.NewWord.Term, digest.ReviewTerms, r.PlatformURL, day)

	subject := fmt.Sprintf("🇪🇸 Your daily Spanish word: %s", digest.NewWord.Term)
	html := r.composeHTML(digest, calendarLink)

	if err := r.Email.SendEmail(ctx, subject, html); err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}

	if r.Telegram != nil {
		newWordLine := fmt.Sprintf("New word: %s — %s", digest.NewWord.Term, digest.NewWord.Translation)
		if err := r.Telegram.SendDigest(subject, newWordLine, digest.ReviewTerms); err != nil {
			logger.Warn("telegram reminder failed", "error", err)
		}
	}

	return nil
}

func (r *Reminder) composeHTML(digest *task.ReminderDigest, calendarLink string) string {
	meaning := digest.NewWord.Translation
	if digest.Tutor != nil && digest.Tutor.Explanation != "" {
		meaning = fmt.Sprintf("%s (%s)", digest.NewWord.Translation, firstClause(digest.Tutor.Explanation))
	}

	reviews := "Nothing to review today, well done!"
	if len(digest.ReviewTerms) > 0 {
		reviews = strings.Join(digest.ReviewTerms, ", ")
	}

	return fmt.Sprintf(`
		<div style="font-family: sans-serif; line-height: 1.6;">
			<h2>¡Hola! Here is your daily Spanish lesson ☀️</h2>
			<p>Consistency wins. Today's task:</p>
			<hr>
			<h3>✨ New word</h3>
			<p style="font-size: 1.2em;"><strong>%s</strong> - %s</p>
			<h3>📚 Review</h3>
			<p>%s</p>
			<hr>
			<p style="text-align: center; margin: 20px 0;">
				<a href="%s" style="background-color: #007bff; color: white; padding: 12px 22px; text-decoration: none; border-radius: 5px; font-size: 16px;">Open the platform</a>
			</p>
			<p style="text-align: center; font-size: 14px;">
				<a href="%s" target="_blank">Add to Google Calendar</a>
			</p>
		</div>
	`, digest.NewWord.Term, meaning, reviews, r.PlatformURL, calendarLink)
}

// firstClause trims an explanation down to its leading clause for the
// one-line word gloss.
func firstClause(s string) string {
	for _, sep := range []string{". ", ", ", "; "} {
		if i := strings.Index(s, sep); i > 0 {
			return s[:i]
		}
	}
	return s
}
