package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// PushoverEndpoint is the Pushover message API.
const PushoverEndpoint = "https://api.pushover.net/1/messages.json"

// Pushover sends messages through the Pushover API.
type Pushover struct {
	token    string
	user     string
	endpoint string
	client   *http.Client
}

// NewPushover creates a Pushover notifier. Both the application token and the
// user key are required. A nil client uses http.DefaultClient.
func NewPushover(token, user string, client *http.Client) (*Pushover, error) {
	if token == "" || user == "" {
		return nil, fmt.Errorf("%w: token and user are both required", ErrNotConfigured)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Pushover{
		token:    token,
		user:     user,
		endpoint: PushoverEndpoint,
		client:   client,
	}, nil
}

// Notify posts msg as a form-encoded request.
func (p *Pushover) Notify(ctx context.Context, msg Message) error {
	form := url.Values{}
	form.Set("token", p.token)
	form.Set("user", p.user)
	form.Set("message", msg.Text)
	if msg.Title != "" {
		form.Set("title", msg.Title)
	}
	if msg.URL != "" {
		form.Set("url", msg.URL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("pushover returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}
