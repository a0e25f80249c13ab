package notify

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleCalendarLink(t *testing.T) {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	link := GoogleCalendarLink("gato", []string{"hola", "adios"}, "http://localhost:3000", day)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "www.google.com", parsed.Host)

	params := parsed.Query()
	assert.Equal(t, "TEMPLATE", params.Get("action"))
	assert.Equal(t, "Daily Spanish: gato", params.Get("text"))
	assert.Equal(t, "20260830T100000Z/20260830T101500Z", params.Get("dates"))
	assert.Contains(t, params.Get("details"), "hola, adios")
	assert.Equal(t, "http://localhost:3000", params.Get("location"))
}

func TestFirstClause(t *testing.T) {
	assert.Equal(t, "a cat", firstClause("a cat, the common house pet"))
	assert.Equal(t, "short", firstClause("short"))
}
