package config

import (
	"encoding/json"
	"fmt"
	"os"

	"notigate/internal/constants"
	"notigate/internal/models"

	"github.com/go-playground/validator/v10"
)

// LoadConfig reads the JSON config file, applies defaults and
// environment overrides, and validates the result. Missing platform
// credentials are not an error; the affected adapter starts disabled.
func LoadConfig(path string) (*models.Config, error) {
	file, err := os.ReadFile(path) // #nosec G304 - path comes from the operator's flag
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&config)
	applyEnvironmentOverrides(&config)

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := validateSecurity(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyDefaults(c *models.Config) {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Telegram.TimeoutSec <= 0 {
		c.Telegram.TimeoutSec = constants.DefaultHTTPTimeoutSec
	}
	if c.WhatsApp.TimeoutSec <= 0 {
		c.WhatsApp.TimeoutSec = constants.DefaultHTTPTimeoutSec
	}
	if c.UserAPI.TimeoutSec <= 0 {
		c.UserAPI.TimeoutSec = constants.DefaultHTTPTimeoutSec
	}
	if c.Schedulers.TokenRefreshIntervalMin <= 0 {
		c.Schedulers.TokenRefreshIntervalMin = constants.DefaultTokenRefreshIntervalMin
	}
	if c.Schedulers.TokenRefreshLeadMin <= 0 {
		c.Schedulers.TokenRefreshLeadMin = constants.DefaultTokenRefreshLeadMin
	}
	if c.Schedulers.ReminderIntervalSec <= 0 {
		c.Schedulers.ReminderIntervalSec = constants.DefaultReminderIntervalSec
	}
	if c.Server.Port <= 0 {
		c.Server.Port = constants.DefaultServerPort
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = constants.DefaultServerReadTimeoutSec
	}
	if c.Server.WriteTimeoutSec <= 0 {
		c.Server.WriteTimeoutSec = constants.DefaultServerWriteTimeoutSec
	}
	if c.Server.IdleTimeoutSec <= 0 {
		c.Server.IdleTimeoutSec = constants.DefaultServerIdleTimeoutSec
	}
}

func applyEnvironmentOverrides(c *models.Config) {
	if token := os.Getenv("NOTIGATE_TELEGRAM_BOT_TOKEN"); token != "" {
		c.Telegram.BotToken = token
	}
	// SECURITY: Webhook secrets should be set via environment variables
	if secret := os.Getenv("NOTIGATE_TELEGRAM_WEBHOOK_SECRET"); secret != "" {
		c.Telegram.WebhookSecret = secret
	}
	if secret := os.Getenv("NOTIGATE_WHATSAPP_WEBHOOK_SECRET"); secret != "" {
		c.WhatsApp.WebhookSecret = secret
	}

	if id := os.Getenv("NOTIGATE_WA_APP_ID"); id != "" {
		c.WhatsApp.AppID = id
	}
	if secret := os.Getenv("NOTIGATE_WA_APP_SECRET"); secret != "" {
		c.WhatsApp.AppSecret = secret
	}
	if token := os.Getenv("NOTIGATE_WA_REFRESH_TOKEN"); token != "" {
		c.WhatsApp.RefreshToken = token
	}
	if token := os.Getenv("NOTIGATE_WA_ACCESS_TOKEN"); token != "" {
		c.WhatsApp.AccessToken = token
	}
	if id := os.Getenv("NOTIGATE_WA_PHONE_NUMBER_ID"); id != "" {
		c.WhatsApp.PhoneNumberID = id
	}

	if url := os.Getenv("NOTIGATE_TELEGRAM_API_URL"); url != "" {
		c.Telegram.APIBaseURL = url
	}
	if url := os.Getenv("NOTIGATE_WA_API_URL"); url != "" {
		c.WhatsApp.APIBaseURL = url
	}
	if url := os.Getenv("NOTIGATE_USER_API_URL"); url != "" {
		c.UserAPI.BaseURL = url
	}
	if key := os.Getenv("NOTIGATE_USER_API_KEY"); key != "" {
		c.UserAPI.APIKey = key
	}
}

// validateSecurity enforces production-only requirements.
func validateSecurity(c *models.Config) error {
	isProduction := os.Getenv("NOTIGATE_ENV") == "production"

	if isProduction {
		if c.WhatsApp.WebhookSecret == "" && waConfigured(c) {
			return models.ConfigError{Message: "WhatsApp webhook secret is required in production (set NOTIGATE_WHATSAPP_WEBHOOK_SECRET environment variable)"}
		}
		if c.WhatsApp.WebhookSecret != "" && len(c.WhatsApp.WebhookSecret) < 32 {
			return models.ConfigError{Message: "WhatsApp webhook secret must be at least 32 characters long"}
		}
		if c.Telegram.WebhookSecret == "" && c.Telegram.BotToken != "" {
			return models.ConfigError{Message: "Telegram webhook secret is required in production (set NOTIGATE_TELEGRAM_WEBHOOK_SECRET environment variable)"}
		}
		if c.LogLevel == "debug" {
			return models.ConfigError{Message: "debug logging should not be used in production (security risk)"}
		}
	} else {
		if c.WhatsApp.WebhookSecret == "" && waConfigured(c) {
			fmt.Fprintf(os.Stderr, "WARNING: WhatsApp webhook secret not set. Set NOTIGATE_WHATSAPP_WEBHOOK_SECRET environment variable for security.\n")
		}
	}

	return nil
}

func waConfigured(c *models.Config) bool {
	return c.WhatsApp.AppID != "" && c.WhatsApp.AppSecret != "" && c.WhatsApp.RefreshToken != ""
}
