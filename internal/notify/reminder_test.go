package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabtutor/internal/task"
	"github.com/example/vocabtutor/pkg/models"
)

type fakeDigestSource struct {
	digest *task.ReminderDigest
	err    error
}

func (f fakeDigestSource) GetReminderDigest(context.Context, string) (*task.ReminderDigest, error) {
	return f.digest, f.err
}

type fakeEmail struct {
	subject string
	html    string
	err     error
}

func (f *fakeEmail) SendEmail(_ context.Context, subject, htmlContent string) error {
	f.subject = subject
	f.html = htmlContent
	return f.err
}

type fakeTelegram struct {
	calls int
	err   error
}

func (f *fakeTelegram) SendDigest(_, _ string, _ []string) error {
	f.calls++
	return f.err
}

func sampleDigest() *task.ReminderDigest {
	return &task.ReminderDigest{
		Date:        "2026-08-30",
		NewWord:     models.NewWord{Term: "gato", Translation: "cat"},
		Tutor:       &models.Explanation{Explanation: "a cat, the common house pet"},
		ReviewTerms: []string{"hola", "adios"},
	}
}

func TestReminderRunSendsEmail(t *testing.T) {
	email := &fakeEmail{}
	r := &Reminder{
		Svc:         fakeDigestSource{digest: sampleDigest()},
		Email:       email,
		PlatformURL: "http://localhost:3000",
	}

	require.NoError(t, r.Run(context.Background(), "user_default"))

	assert.Contains(t, email.subject, "gato")
	assert.Contains(t, email.html, "hola, adios")
	assert.Contains(t, email.html, "cat (a cat)")
	assert.Contains(t, email.html, "calendar/render")
}

func TestReminderRunPropagatesEmailFailure(t *testing.T) {
	r := &Reminder{
		Svc:   fakeDigestSource{digest: sampleDigest()},
		Email: &fakeEmail{err: errors.New("smtp relay rejected")},
	}

	err := r.Run(context.Background(), "user_default")
	assert.ErrorContains(t, err, "failed to send reminder email")
}

func TestReminderRunToleratesTelegramFailureWithoutLogger(t *testing.T) {
	email := &fakeEmail{}
	telegram := &fakeTelegram{err: errors.New("chat not found")}

	// No Logger set: the Telegram-failure branch must not panic.
	r := &Reminder{
		Svc:      fakeDigestSource{digest: sampleDigest()},
		Email:    email,
		Telegram: telegram,
	}

	require.NoError(t, r.Run(context.Background(), "user_default"))
	assert.Equal(t, 1, telegram.calls)
	assert.NotEmpty(t, email.subject, "email still goes out when telegram fails")
}

func TestReminderRunFailsOnDigestError(t *testing.T) {
	r := &Reminder{
		Svc:   fakeDigestSource{err: errors.New("word source down")},
		Email: &fakeEmail{},
	}

	err := r.Run(context.Background(), "user_default")
	assert.ErrorContains(t, err, "failed to build reminder digest")
}
