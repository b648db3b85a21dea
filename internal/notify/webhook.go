// Package notify delivers parent notifications to an operator-configured
// webhook endpoint. Delivery is strictly best-effort: the lifecycle service
// persists the action log first and only logs a failed send, so nothing in
// this package may block or fail a caller's request beyond its own timeout.
//
// No HTTP client library is used because the payload is a single JSON POST;
// the stdlib client with a bounded timeout covers it.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Notifier sends one parent notification. Implementations must be safe for
// concurrent use and must treat "nowhere to deliver" as success, not error.
type Notifier interface {
	Send(ctx context.Context, phone, message, childName string) error
}

// URLProvider resolves the current webhook endpoint. Returning an empty
// string (with nil error) means notifications are unconfigured and sends
// become no-ops. Backing it with the settings store means URL changes apply
// without a restart.
type URLProvider func(ctx context.Context) (string, error)

// payload is the JSON body posted to the webhook.
type payload struct {
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	ChildName string    `json:"childName"`
	SentAt    time.Time `json:"sentAt"`
}

// WebhookNotifier POSTs notifications to the endpoint resolved by URL.
type WebhookNotifier struct {
	// Client performs the delivery; its Timeout bounds each send.
	Client *http.Client
	// URL resolves the destination per send.
	URL URLProvider
}

// NewWebhookNotifier constructs a WebhookNotifier with the given per-send
// timeout and endpoint provider.
func NewWebhookNotifier(timeout time.Duration, url URLProvider) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		Client: &http.Client{Timeout: timeout},
		URL:    url,
	}
}

// Send delivers one notification. When no endpoint is configured it
// returns nil without doing anything. A non-2xx response is an error so
// the caller can log it; this package never retries.
func (n *WebhookNotifier) Send(ctx context.Context, phone, message, childName string) error {
	endpoint, err := n.URL(ctx)
	if err != nil {
		return fmt.Errorf("resolve webhook url: %w", err)
	}
	if endpoint == "" {
		log.Debug().Str("child", childName).Msg("webhook url unconfigured; notification skipped")
		return nil
	}

	body, err := json.Marshal(payload{
		Phone:     phone,
		Message:   message,
		ChildName: childName,
		SentAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	return nil
}

// LogNotifier writes the notification to the application log instead of
// delivering it. Used in development when no webhook is wired up.
type LogNotifier struct{}

// Send logs the would-be notification and reports success.
func (LogNotifier) Send(_ context.Context, phone, message, childName string) error {
	log.Info().
		Str("phone", phone).
		Str("child", childName).
		Str("message", message).
		Msg("notification (log only)")
	return nil
}
