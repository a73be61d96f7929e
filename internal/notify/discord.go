package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Discord posts messages to a channel webhook.
type Discord struct {
	session *discordgo.Session
	id      string
	token   string
}

// NewDiscord creates a notifier for a webhook URL of the form
// https://discord.com/api/webhooks/{id}/{token}. A nil client keeps
// discordgo's default.
func NewDiscord(webhookURL string, client *http.Client) (*Discord, error) {
	id, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}

	// Webhook execution needs no bot token.
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if client != nil {
		s.Client = client
	}
	return &Discord{session: s, id: id, token: token}, nil
}

// Notify sends the message text, followed by the URL on its own line.
func (d *Discord) Notify(ctx context.Context, msg Message) error {
	content := msg.Text
	if msg.Title != "" {
		content = "**" + msg.Title + "**\n" + content
	}
	if msg.URL != "" {
		content += "\n" + msg.URL
	}

	_, err := d.session.WebhookExecute(d.id, d.token, false, &discordgo.WebhookParams{
		Content: content,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	return nil
}

func parseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", "", fmt.Errorf("%w: invalid webhook URL %q", ErrNotConfigured, raw)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("%w: webhook URL %q has no id/token", ErrNotConfigured, raw)
}
