package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"dexwatch/internal/config"
)

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// TelegramChannel sends notifications via the Telegram bot API.
type TelegramChannel struct {
	botToken string
	chatID   string
	enabled  bool
	client   *http.Client
}

// NewTelegramChannel creates a new TelegramChannel.
func NewTelegramChannel(cfg config.TelegramConfig, timeout time.Duration) *TelegramChannel {
	return &TelegramChannel{
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		enabled:  cfg.BotToken != "" && cfg.ChatID != "",
		client:   newHTTPClient(timeout),
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

// Send sends a notification via Telegram.
func (t *TelegramChannel) Send(ctx context.Context, n Notification) error {
	if !t.enabled {
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)

	payload := map[string]interface{}{
		"chat_id": t.chatID,
		"text":    n.Message,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling telegram payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	return nil
}

// WebhookChannel sends notifications via HTTP webhook.
type WebhookChannel struct {
	url     string
	enabled bool
	client  *http.Client
}

// NewWebhookChannel creates a new WebhookChannel.
func NewWebhookChannel(cfg config.WebhookConfig, timeout time.Duration) *WebhookChannel {
	return &WebhookChannel{
		url:     cfg.URL,
		enabled: cfg.Enabled && cfg.URL != "",
		client:  newHTTPClient(timeout),
	}
}

// Name returns the name of the channel.
func (w *WebhookChannel) Name() string {
	return "webhook"
}

// IsEnabled returns whether the channel is enabled.
func (w *WebhookChannel) IsEnabled() bool {
	return w.enabled
}

// Send sends a notification via webhook.
func (w *WebhookChannel) Send(ctx context.Context, n Notification) error {
	if !w.enabled {
		return nil
	}

	payload := map[string]interface{}{
		"title":     n.Title,
		"message":   n.Message,
		"timestamp": n.Timestamp.Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "dexwatch/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// EmailChannel sends notifications via SMTP.
type EmailChannel struct {
	smtpHost string
	smtpPort int
	username string
	password string
	from     string
	to       string
	enabled  bool
}

// NewEmailChannel creates a new EmailChannel.
func NewEmailChannel(cfg config.EmailConfig) *EmailChannel {
	return &EmailChannel{
		smtpHost: cfg.SMTPHost,
		smtpPort: cfg.SMTPPort,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		to:       cfg.To,
		enabled:  cfg.Enabled && cfg.SMTPHost != "" && cfg.From != "" && cfg.To != "",
	}
}

// Name returns the name of the channel.
func (e *EmailChannel) Name() string {
	return "email"
}

// IsEnabled returns whether the channel is enabled.
func (e *EmailChannel) IsEnabled() bool {
	return e.enabled
}

// Send sends a notification via email.
func (e *EmailChannel) Send(ctx context.Context, n Notification) error {
	if !e.enabled {
		return nil
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", e.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", e.to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", n.Title))
	msg.WriteString("\r\n")
	msg.WriteString(n.Message)

	addr := fmt.Sprintf("%s:%d", e.smtpHost, e.smtpPort)
	auth := smtp.PlainAuth("", e.username, e.password, e.smtpHost)

	if err := smtp.SendMail(addr, auth, e.from, []string{e.to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}
