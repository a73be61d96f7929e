// Package notify delivers push notifications for new threads.
//
// Delivery is best-effort. Callers in the watch loop go through BestEffort,
// which never returns an error and never lets a panic escape.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/abelbrown/rfd/internal/config"
)

// ErrNotConfigured is returned when a transport is missing its credentials.
var ErrNotConfigured = errors.New("notifier not configured")

// Message is one push notification.
type Message struct {
	Title string // optional
	Text  string
	URL   string // optional
}

// Notifier delivers a single message.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Multi sends every message to each notifier in turn. A failure in one does
// not stop the others; all failures are joined.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FromConfig builds the notifier described by cfg. It returns nil, nil when
// no transport is configured: notifications are an optional capability.
// A half-configured transport (token without user, say) is an error.
func FromConfig(cfg config.Config) (Notifier, error) {
	client := &http.Client{Timeout: cfg.HTTP.Timeout}
	if cfg.HTTP.Timeout <= 0 {
		client.Timeout = 30 * time.Second
	}

	var out Multi

	po := cfg.Pushover
	if po.Token != "" || po.User != "" {
		p, err := NewPushover(po.Token, po.User, client)
		if err != nil {
			return nil, fmt.Errorf("pushover: %w", err)
		}
		out = append(out, p)
	}

	if cfg.Discord.WebhookURL != "" {
		d, err := NewDiscord(cfg.Discord.WebhookURL, client)
		if err != nil {
			return nil, fmt.Errorf("discord: %w", err)
		}
		out = append(out, d)
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0], nil
	default:
		return out, nil
	}
}
