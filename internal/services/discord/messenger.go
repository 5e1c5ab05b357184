package discord

import (
	"context"

	"hardbound/internal/config"
)

const userAgent = "Hardbound-Go/0.1.0"

// Messenger is the chat surface the workflow components talk to: posting
// status lines to the admin channel, editing previously posted messages in
// place, and reaching requesters by direct message.
type Messenger interface {
	SendChannelMessage(ctx context.Context, channelID, content string) (string, error)
	UpdateMessage(ctx context.Context, channelID, messageID, content string) error
	SendDirectMessage(ctx context.Context, userID, content string) (channelID, messageID string, err error)
	NotifyAdmin(ctx context.Context, content string) error
}

// NewMessenger builds a Messenger backed by the Discord REST API when a bot
// token is configured. Without a token a noop implementation is returned,
// which lets the daemon run headless in tests and dry setups.
func NewMessenger(cfg *config.Config) Messenger {
	if cfg.Discord.BotToken == "" {
		return noopMessenger{}
	}
	return NewClient(cfg.Discord.BotToken, cfg.Discord.AdminChannelID,
		WithTimeout(cfg.Discord.RequestTimeoutDuration()))
}

type noopMessenger struct{}

func (noopMessenger) SendChannelMessage(context.Context, string, string) (string, error) {
	return "", nil
}
func (noopMessenger) UpdateMessage(context.Context, string, string, string) error { return nil }
func (noopMessenger) SendDirectMessage(context.Context, string, string) (string, string, error) {
	return "", "", nil
}
func (noopMessenger) NotifyAdmin(context.Context, string) error { return nil }
