// Package userapi is a client for the external user-management
// service that owns recipient profiles, contact groups and reminders.
package userapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"notigate/internal/models"

	"github.com/sirupsen/logrus"
)

const defaultTimeout = 10 * time.Second

// ClientConfig holds user API connection settings.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *logrus.Logger
}

func NewClient(cfg ClientConfig, logger *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// GetProfile fetches the routing profile for a user.
func (c *Client) GetProfile(ctx context.Context, userID string) (*models.RecipientProfile, error) {
	var profile models.RecipientProfile
	endpoint := fmt.Sprintf("%s/users/%s/profile", c.baseURL, url.PathEscape(userID))
	if err := c.getJSON(ctx, endpoint, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetGroupMembers fetches a user's contact group.
func (c *Client) GetGroupMembers(ctx context.Context, ownerID string) ([]models.GroupMember, error) {
	var members []models.GroupMember
	endpoint := fmt.Sprintf("%s/users/%s/group-members", c.baseURL, url.PathEscape(ownerID))
	if err := c.getJSON(ctx, endpoint, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// DueReminders fetches reminders whose due time has passed and that
// have not been dispatched yet.
func (c *Client) DueReminders(ctx context.Context) ([]models.Reminder, error) {
	var reminders []models.Reminder
	if err := c.getJSON(ctx, c.baseURL+"/reminders/due", &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

// MarkReminderDispatched records that a reminder was delivered so it
// is not returned by later DueReminders calls.
func (c *Client) MarkReminderDispatched(ctx context.Context, reminderID string) error {
	endpoint := fmt.Sprintf("%s/reminders/%s/dispatched", c.baseURL, url.PathEscape(reminderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
}
