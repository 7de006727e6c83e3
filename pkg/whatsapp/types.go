package whatsapp

import "time"

// ClientConfig holds the settings for a WhatsApp Business API client.
type ClientConfig struct {
	APIBaseURL    string
	PhoneNumberID string
	Timeout       time.Duration
}

type sendTextRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	RecipientType    string   `json:"recipient_type"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

type sendMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *graphError `json:"error,omitempty"`
}

// graphError is the Graph API error envelope.
type graphError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

// tokenExchangeResponse is the body of a successful
// fb_exchange_token call.
type tokenExchangeResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	Error       *graphError `json:"error,omitempty"`
}
