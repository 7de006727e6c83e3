// Package whatsapp is a WhatsApp Business API client covering text
// delivery and the fb_exchange_token refresh flow.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultAPIBaseURL = "https://graph.facebook.com/v19.0"
	defaultTimeout    = 10 * time.Second
)

// ErrDisabled is returned by send and refresh operations when the
// credential set is incomplete. Configuration state, not a failure.
var ErrDisabled = errors.New("whatsapp adapter disabled: credentials not configured")

// ErrTokenInvalid is returned by SendText when the access token is
// missing or expired. The refresh scheduler owns recovery.
var ErrTokenInvalid = errors.New("whatsapp access token missing or expired")

// Client talks to the WhatsApp Business (Graph-style) API. All sends
// read the shared Credential through an immutable snapshot.
type Client struct {
	baseURL       string
	phoneNumberID string
	cred          *Credential
	client        *http.Client
	logger        *logrus.Logger
}

// NewClient creates a WhatsApp client bound to the process-wide
// credential. Incomplete credentials yield a disabled client; this is
// logged once here.
func NewClient(cfg ClientConfig, cred *Credential, logger *logrus.Logger) *Client {
	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	if cred == nil || !cred.Configured() || cfg.PhoneNumberID == "" {
		logger.Info("WhatsApp credentials not configured, adapter disabled")
	}

	return &Client{
		baseURL:       baseURL,
		phoneNumberID: cfg.PhoneNumberID,
		cred:          cred,
		client:        &http.Client{Timeout: timeout},
		logger:        logger,
	}
}

// Enabled reports whether the client has a complete credential set.
func (c *Client) Enabled() bool {
	return c.cred != nil && c.cred.Configured() && c.phoneNumberID != ""
}

// SendText delivers a text message to an E.164 phone number. The text
// is expected to already carry WhatsApp markup.
func (c *Client) SendText(ctx context.Context, phone, text string) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	snapshot := c.cred.Snapshot()
	if !snapshot.Valid(time.Now()) {
		return ErrTokenInvalid
	}

	payload := sendTextRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               phone,
		Type:             "text",
		Text:             textBody{Body: text},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+snapshot.AccessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var result sendMessageResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if result.Error != nil {
			return fmt.Errorf("message send failed with status %d: %s (code %d)",
				resp.StatusCode, result.Error.Message, result.Error.Code)
		}
		return fmt.Errorf("message send failed with status %d", resp.StatusCode)
	}

	return nil
}

// RefreshAccessToken exchanges the long-lived refresh token for a new
// access token. On success the shared credential is rotated in one
// step with an expiry derived from the exchange response. On failure
// the existing token stays in place so a later attempt can retry.
func (c *Client) RefreshAccessToken(ctx context.Context) error {
	if c.cred == nil || !c.cred.Configured() {
		return ErrDisabled
	}

	appID, appSecret, refreshToken := c.cred.exchangeParams()

	query := url.Values{}
	query.Set("grant_type", "fb_exchange_token")
	query.Set("client_id", appID)
	query.Set("client_secret", appSecret)
	query.Set("fb_exchange_token", refreshToken)

	endpoint := fmt.Sprintf("%s/oauth/access_token?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("token exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("failed to read token exchange response: %w", err)
	}

	var result tokenExchangeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to decode token exchange response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || result.AccessToken == "" {
		if result.Error != nil {
			return fmt.Errorf("token exchange failed with status %d: %s (code %d)",
				resp.StatusCode, result.Error.Message, result.Error.Code)
		}
		return fmt.Errorf("token exchange failed with status %d", resp.StatusCode)
	}

	if result.ExpiresIn <= 0 {
		return fmt.Errorf("token exchange returned invalid expires_in: %d", result.ExpiresIn)
	}

	expiresAt := time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)
	c.cred.rotate(result.AccessToken, expiresAt)

	c.logger.WithField("expires_at", expiresAt.Format(time.RFC3339)).Info("WhatsApp access token refreshed")
	return nil
}

// TokenExpiry returns the current token expiry.
func (c *Client) TokenExpiry() time.Time {
	if c.cred == nil {
		return time.Time{}
	}
	return c.cred.Snapshot().ExpiresAt
}

// NeedsRefresh reports whether the token expires within lead.
func (c *Client) NeedsRefresh(now time.Time, lead time.Duration) bool {
	if c.cred == nil {
		return false
	}
	return c.cred.NeedsRefresh(now, lead)
}
