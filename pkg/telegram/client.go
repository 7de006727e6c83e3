// Package telegram is a minimal Telegram Bot API client covering the
// single operation the gateway needs: sendMessage.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultAPIBaseURL = "https://api.telegram.org"
	defaultTimeout    = 10 * time.Second
)

// ErrDisabled is returned by send operations when no bot token is
// configured. This is a startup configuration state, not a runtime
// failure.
var ErrDisabled = errors.New("telegram adapter disabled: no bot token configured")

// Client talks to the Telegram Bot API. A client without a token is
// valid but permanently disabled.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
	logger  *logrus.Logger
}

// NewClient creates a Telegram client. An empty BotToken yields a
// disabled client; this is logged once here rather than on every send.
func NewClient(cfg ClientConfig, logger *logrus.Logger) *Client {
	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	if cfg.BotToken == "" {
		logger.Info("Telegram bot token not configured, adapter disabled")
	}

	return &Client{
		token:   cfg.BotToken,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Enabled reports whether the client holds a bot token.
func (c *Client) Enabled() bool {
	return c.token != ""
}

// SendMessage posts a sendMessage call for the given chat. The text is
// expected to already carry Telegram Markdown syntax.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	payload := sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "Markdown",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var result apiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !result.OK {
		return fmt.Errorf("sendMessage failed with status %d: %s", resp.StatusCode, result.Description)
	}

	return nil
}
