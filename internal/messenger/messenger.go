// Package messenger delivers rendered WhatsApp texts to a gateway.
package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Sender defines the interface for delivering a WhatsApp-formatted text.
// Implemented by the webhook client and by the log fallback.
type Sender interface {
	Send(ctx context.Context, recipient, body string) error
}

// WebhookSender posts messages to a WhatsApp gateway endpoint as JSON.
type WebhookSender struct {
	client     *http.Client
	url        string
	authHeader string
}

var _ Sender = (*WebhookSender)(nil)

func NewWebhookSender(url, authHeader string) *WebhookSender {
	return &WebhookSender{
		client:     &http.Client{Timeout: 15 * time.Second},
		url:        url,
		authHeader: authHeader,
	}
}

type webhookPayload struct {
	Recipient string `json:"recipient,omitempty"`
	Message   string `json:"message"`
}

func (s *WebhookSender) Send(ctx context.Context, recipient, body string) error {
	payload, err := json.Marshal(webhookPayload{Recipient: recipient, Message: body})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.authHeader != "" {
		req.Header.Set("Authorization", s.authHeader)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	slog.InfoContext(ctx, "Message delivered",
		"recipient", recipient,
		"bytes", len(body),
		"status", resp.StatusCode)
	return nil
}

// LogSender writes messages to the log instead of a gateway. Used when no
// gateway URL is configured, so workers stay runnable in development.
type LogSender struct{}

var _ Sender = (*LogSender)(nil)

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, recipient, body string) error {
	slog.InfoContext(ctx, "Message (log only)",
		"recipient", recipient,
		"body", body)
	return nil
}
