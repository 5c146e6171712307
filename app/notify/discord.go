package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/launch-comb/app/announcement"
)

// Discord posts messages to a Discord webhook.
type Discord struct {
	webhookURL string
	httpClient *http.Client
}

func NewDiscord(webhookURL string, timeout time.Duration) *Discord {
	return &Discord{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type webhookPayload struct {
	Content string `json:"content"`
}

// Send delivers content in a single webhook call.
func (d *Discord) Send(ctx context.Context, content string) error {
	if d.webhookURL == "" {
		return announcement.ErrNotifierUnconfigured
	}

	payload, err := json.Marshal(webhookPayload{Content: content})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", announcement.ErrNotifierDelivery, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", announcement.ErrNotifierDelivery, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: webhook responded %s", announcement.ErrNotifierDelivery, resp.Status)
	}

	slog.Debug("Webhook delivered", "status", resp.StatusCode, "size", len(content))
	return nil
}

// Printer writes messages to an io.Writer instead of delivering them.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Send(_ context.Context, content string) error {
	if _, err := fmt.Fprintln(p.w, content); err != nil {
		return fmt.Errorf("%w: %v", announcement.ErrNotifierDelivery, err)
	}
	return nil
}
