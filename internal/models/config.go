package models

// Config holds the application configuration
type Config struct {
	Telegram   TelegramConfig   `json:"telegram"`
	WhatsApp   WhatsAppConfig   `json:"whatsapp"`
	Schedulers SchedulerConfig  `json:"schedulers"`
	UserAPI    UserAPIConfig    `json:"user_api"`
	Server     ServerConfig     `json:"server"`
	Tracing    TracingConfig    `json:"tracing"`
	LogLevel   string           `json:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// TelegramConfig holds Telegram Bot API settings. An empty BotToken
// disables the adapter without failing startup.
type TelegramConfig struct {
	BotToken      string `json:"bot_token"`
	APIBaseURL    string `json:"api_base_url" validate:"omitempty,url"`
	WebhookSecret string `json:"webhook_secret"`
	TimeoutSec    int    `json:"timeout_sec" validate:"omitempty,min=1,max=60"`
}

// WhatsAppConfig holds WhatsApp Business API settings. Missing
// credentials disable the adapter without failing startup.
type WhatsAppConfig struct {
	AppID         string `json:"app_id"`
	AppSecret     string `json:"app_secret"`
	RefreshToken  string `json:"refresh_token"`
	AccessToken   string `json:"access_token"`
	PhoneNumberID string `json:"phone_number_id"`
	APIBaseURL    string `json:"api_base_url" validate:"omitempty,url"`
	WebhookSecret string `json:"webhook_secret"`
	TimeoutSec    int    `json:"timeout_sec" validate:"omitempty,min=1,max=60"`
}

// UserAPIConfig points at the external user-management service that
// owns recipient profiles, contact groups and the reminder store. An
// empty BaseURL disables profile lookup and reminder dispatch.
type UserAPIConfig struct {
	BaseURL    string `json:"base_url" validate:"omitempty,url"`
	APIKey     string `json:"api_key"`
	TimeoutSec int    `json:"timeout_sec" validate:"omitempty,min=1,max=60"`
}

// SchedulerConfig holds background loop cadences.
type SchedulerConfig struct {
	TokenRefreshIntervalMin int `json:"token_refresh_interval_min" validate:"omitempty,min=1"`
	TokenRefreshLeadMin     int `json:"token_refresh_lead_min" validate:"omitempty,min=1"`
	ReminderIntervalSec     int `json:"reminder_interval_sec" validate:"omitempty,min=1"`
}

// ServerConfig holds webhook HTTP server settings.
type ServerConfig struct {
	Port            int `json:"port" validate:"omitempty,min=1,max=65535"`
	ReadTimeoutSec  int `json:"read_timeout_sec"`
	WriteTimeoutSec int `json:"write_timeout_sec"`
	IdleTimeoutSec  int `json:"idle_timeout_sec"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	ServiceName    string  `json:"service_name"`
	ServiceVersion string  `json:"service_version"`
	Environment    string  `json:"environment"`
	OTLPEndpoint   string  `json:"otlp_endpoint"`
	SampleRate     float64 `json:"sample_rate" validate:"omitempty,min=0,max=1"`
	Enabled        bool    `json:"enabled"`
	UseStdout      bool    `json:"use_stdout"`
}

type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}
