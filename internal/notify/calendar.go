package notify

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// GoogleCalendarLink builds a prefilled "add to calendar" URL for a 15-minute
// study slot at 10:00 on the given day.
func GoogleCalendarLink(newWordTerm string, reviewTerms []string, platformURL string, day time.Time) string {
	start := time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, time.UTC)
	end := start.Add(15 * time.Minute)
	format := func(t time.Time) string {
		return t.UTC().Format("20060102T150405Z")
	}

	details := fmt.Sprintf("Today's new word: %s\n\nReview words:\n%s\n\nOpen the platform to start:\n%s",
		newWordTerm, strings.Join(reviewTerms, ", "), platformURL)

	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", fmt.Sprintf("Daily Spanish: %s", newWordTerm))
	params.Set("dates", fmt.Sprintf("%s/%s", format(start), format(end)))
	params.Set("details", details)
	params.Set("location", platformURL)

	return "https://www.google.com/calendar/render?" + params.Encode()
}
