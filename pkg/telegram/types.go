package telegram

import "time"

// ClientConfig holds the settings for a Telegram Bot API client.
type ClientConfig struct {
	BotToken   string
	APIBaseURL string
	Timeout    time.Duration
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// apiResponse is the generic Bot API envelope. Description is only
// set when OK is false.
type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}
