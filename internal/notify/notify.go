// Package notify provides notification delivery for detected trade signals.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"dexwatch/internal/config"
	"dexwatch/internal/models"
)

// NotificationChannel is one delivery transport.
type NotificationChannel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
	IsEnabled() bool
}

// Notification is one outbound message.
type Notification struct {
	Title     string
	Message   string
	Timestamp time.Time
}

// MultiNotifier fans a notification out to every enabled channel. Channel
// failures are logged and dropped; nothing is retried.
type MultiNotifier struct {
	channels []NotificationChannel
	logger   zerolog.Logger
	mu       sync.RWMutex
}

// NewMultiNotifier builds a notifier from the configuration. Channels whose
// credentials are absent are silently left out.
func NewMultiNotifier(cfg *config.Config, logger zerolog.Logger) *MultiNotifier {
	mn := &MultiNotifier{logger: logger}

	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		mn.channels = append(mn.channels, NewTelegramChannel(cfg.Telegram, cfg.Monitor.RequestTimeout))
	}
	if cfg.Webhook.Enabled && cfg.Webhook.URL != "" {
		mn.channels = append(mn.channels, NewWebhookChannel(cfg.Webhook, cfg.Monitor.RequestTimeout))
	}
	if cfg.Email.Enabled {
		mn.channels = append(mn.channels, NewEmailChannel(cfg.Email))
	}

	if len(mn.channels) == 0 {
		logger.Debug().Msg("No notification channels configured")
	}

	return mn
}

// AddChannel adds a notification channel.
func (mn *MultiNotifier) AddChannel(ch NotificationChannel) {
	mn.mu.Lock()
	defer mn.mu.Unlock()
	mn.channels = append(mn.channels, ch)
}

// Send delivers a notification to all enabled channels.
func (mn *MultiNotifier) Send(ctx context.Context, n Notification) error {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	mn.mu.RLock()
	channels := mn.channels
	mn.mu.RUnlock()

	var errs []string
	for _, ch := range channels {
		if !ch.IsEnabled() {
			continue
		}
		if err := ch.Send(ctx, n); err != nil {
			mn.logger.Warn().Err(err).Str("channel", ch.Name()).Msg("Notification delivery failed")
			errs = append(errs, fmt.Sprintf("%s: %v", ch.Name(), err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SendTradeSignal composes and sends the trade-signal message for one
// token: a header line plus one "<kind>: <detail>" line per event.
func (mn *MultiNotifier) SendTradeSignal(ctx context.Context, symbol string, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Trade Signal for %s:\n", symbol))
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		lines = append(lines, fmt.Sprintf("%s: %s", ev.Kind, ev.Detail()))
	}
	sb.WriteString(strings.Join(lines, "\n"))

	return mn.Send(ctx, Notification{
		Title:   fmt.Sprintf("Trade Signal: %s", symbol),
		Message: sb.String(),
	})
}
