// Package notify provides user notification delivery channels and
// locale-aware message templates.
package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"trip-monitor/internal/config"
	"trip-monitor/internal/errors"
)

// Channel defines the interface for delivering a message to a user.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, userID int64, text string) error
	IsEnabled() bool
}

// TelegramChannel delivers messages through the Telegram Bot API. The
// recipient's chat ID is their Telegram user ID.
type TelegramChannel struct {
	http    *resty.Client
	enabled bool
}

// NewTelegramChannel creates a new TelegramChannel.
func NewTelegramChannel(cfg config.TelegramConfig) *TelegramChannel {
	return &TelegramChannel{
		http: resty.New().
			SetBaseURL("https://api.telegram.org/bot" + cfg.BotToken).
			SetTimeout(10 * time.Second),
		enabled: cfg.Enabled && cfg.BotToken != "",
	}
}

// Name returns the name of the channel.
func (t *TelegramChannel) Name() string {
	return "telegram"
}

// IsEnabled returns whether the channel is enabled.
func (t *TelegramChannel) IsEnabled() bool {
	return t.enabled
}

// Deliver sends a message to the user's Telegram chat.
func (t *TelegramChannel) Deliver(ctx context.Context, userID int64, text string) error {
	if !t.enabled {
		return errors.ErrChannelDisabled
	}

	resp, err := t.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"chat_id": strconv.FormatInt(userID, 10),
			"text":    text,
		}).
		Post("/sendMessage")
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrDeliveryFailed, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: telegram API returned status %d", errors.ErrDeliveryFailed, resp.StatusCode())
	}

	return nil
}

// NoopChannel discards all messages. Used when no channel is configured
// and in tests.
type NoopChannel struct{}

// NewNoopChannel creates a new NoopChannel.
func NewNoopChannel() *NoopChannel {
	return &NoopChannel{}
}

// Name returns the name of the channel.
func (n *NoopChannel) Name() string {
	return "noop"
}

// IsEnabled returns true; the no-op channel accepts everything.
func (n *NoopChannel) IsEnabled() bool {
	return true
}

// Deliver discards the message.
func (n *NoopChannel) Deliver(ctx context.Context, userID int64, text string) error {
	return nil
}
