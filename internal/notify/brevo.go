package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoClient sends transactional email through the Brevo REST API.
type BrevoClient struct {
	apiKey         string
	senderEmail    string
	recipientEmail string
	httpClient     *http.Client
}

// NewBrevoClient creates a Brevo client. An empty API key yields an error on
// send, not on construction, so the reminder path can report NotConfigured.
func NewBrevoClient(apiKey, senderEmail, recipientEmail string) *BrevoClient {
	return &BrevoClient{
		apiKey:         apiKey,
		senderEmail:    senderEmail,
		recipientEmail: recipientEmail,
		httpClient:     &http.Client{Timeout: 25 * time.Second},
	}
}

type brevoRequest struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

type brevoAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SendEmail delivers one HTML email to the configured recipient.
func (c *BrevoClient) SendEmail(ctx context.Context, subject, htmlContent string) error {
	if c.apiKey == "" {
		return fmt.Errorf("Brevo API key is not configured")
	}

	payload := brevoRequest{
		Sender:      brevoAddress{Email: c.senderEmail, Name: "AI Spanish Tutor"},
		To:          []brevoAddress{{Email: c.recipientEmail}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoEndpoint, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to create email request: %v", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("failed to send email, status %d", resp.StatusCode)
	}
	return nil
}
