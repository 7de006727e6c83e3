package constants

// Default scheduler configuration values
const (
	DefaultTokenRefreshIntervalMin = 30
	DefaultTokenRefreshLeadMin     = 10
	DefaultTokenRefreshBackoffSec  = 60
	DefaultReminderIntervalSec     = 60
)

// Default timeout values
const (
	DefaultHTTPTimeoutSec        = 10
	DefaultGracefulShutdownSec   = 30
	DefaultServerReadTimeoutSec  = 15
	DefaultServerWriteTimeoutSec = 15
	DefaultServerIdleTimeoutSec  = 60
	DefaultServerPort            = 8082
)

// Identifier validation bounds
const (
	MinPhoneNumberLength     = 7
	MaxPhoneNumberLength     = 20
	MaxParticipantNameLength = 256
)

// Privacy settings
const (
	DefaultPhoneMaskLength = 4
)

// Server internals
const (
	ServerErrorChannelSize = 1
	MaxWebhookBodyBytes    = 1 << 20
)
