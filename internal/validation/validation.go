// Package validation checks externally supplied identifiers before
// they reach a platform API.
package validation

import (
	"fmt"
	"strings"
	"unicode"

	"notigate/internal/constants"
	"notigate/internal/errors"
)

// ValidatePhoneNumber validates an E.164 phone number. The leading
// "+" is optional; everything after it must be digits within the
// international length bounds.
func ValidatePhoneNumber(phone string) error {
	if phone == "" {
		return errors.New(errors.ErrCodeInvalidInput, "phone number cannot be empty")
	}

	cleaned := strings.TrimPrefix(phone, "+")

	if len(cleaned) < constants.MinPhoneNumberLength {
		return errors.Newf(errors.ErrCodeInvalidInput,
			"phone number must be at least %d digits", constants.MinPhoneNumberLength)
	}
	if len(cleaned) > constants.MaxPhoneNumberLength {
		return errors.Newf(errors.ErrCodeInvalidInput,
			"phone number too long (max %d digits)", constants.MaxPhoneNumberLength)
	}

	for _, char := range cleaned {
		if !unicode.IsDigit(char) {
			return errors.New(errors.ErrCodeInvalidInput, "phone number must contain only digits")
		}
	}

	return nil
}

// ValidateChatID validates a Telegram chat id. Zero is never a valid
// chat; negative values are group chats and are accepted.
func ValidateChatID(chatID int64) error {
	if chatID == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "chat id cannot be zero")
	}
	return nil
}

// ValidateParticipantName validates a free-text participant name prior
// to resolution.
func ValidateParticipantName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "participant name cannot be empty")
	}
	if len(name) > constants.MaxParticipantNameLength {
		return errors.Newf(errors.ErrCodeInvalidInput,
			"participant name too long (max %d characters)", constants.MaxParticipantNameLength)
	}
	for _, char := range name {
		if char == '\x00' || char == '\n' || char == '\r' {
			return errors.New(errors.ErrCodeInvalidInput, "participant name contains invalid characters")
		}
	}
	return nil
}

// ValidateMessageBody rejects empty outbound bodies.
func ValidateMessageBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "message body cannot be empty")
	}
	return nil
}

// FormatE164 normalizes a digit string into E.164 form with a leading
// "+". It assumes the number already carries a country code.
func FormatE164(phone string) (string, error) {
	if err := ValidatePhoneNumber(phone); err != nil {
		return "", err
	}
	if strings.HasPrefix(phone, "+") {
		return phone, nil
	}
	return fmt.Sprintf("+%s", phone), nil
}
