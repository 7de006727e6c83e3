// Package privacy masks recipient identifiers and credentials before
// they reach log output.
package privacy

import (
	"strings"
)

// MaskPhoneNumber masks an E.164 phone number showing only the last
// four digits. Example: "+491701234567" -> "+********4567".
func MaskPhoneNumber(phone string) string {
	if phone == "" {
		return ""
	}

	if strings.HasPrefix(phone, "+") {
		if len(phone) <= 5 {
			return "+" + strings.Repeat("*", len(phone)-1)
		}
		return "+" + strings.Repeat("*", len(phone)-5) + phone[len(phone)-4:]
	}

	return maskString(phone, 4)
}

// MaskChatID masks a Telegram chat id, keeping the sign and the last
// four digits so adjacent log lines remain correlatable.
func MaskChatID(chatID string) string {
	if chatID == "" {
		return ""
	}

	if strings.HasPrefix(chatID, "-") {
		return "-" + maskString(chatID[1:], 4)
	}
	return maskString(chatID, 4)
}

// MaskToken masks an access or refresh token, keeping only the last
// four characters. Tokens shorter than eight characters are fully
// masked.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) < 8 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}

// MaskEmail masks the local part of an email address.
// Example: "john.smith@example.com" -> "j********h@example.com".
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return maskString(email, 0)
	}

	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return strings.Repeat("*", len(local)) + domain
	}
	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + domain
}

// maskString masks a string showing only the last n characters.
func maskString(s string, keepLast int) string {
	if s == "" {
		return ""
	}
	if len(s) <= keepLast {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-keepLast) + s[len(s)-keepLast:]
}

// MaskSensitiveFields applies the appropriate masking to well-known
// logging field names, passing everything else through untouched.
func MaskSensitiveFields(fields map[string]interface{}) map[string]interface{} {
	if fields == nil {
		return nil
	}

	masked := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		s, isString := v.(string)
		if !isString {
			masked[k] = v
			continue
		}

		switch k {
		case "phone", "phone_number", "from", "to", "wa_phone":
			masked[k] = MaskPhoneNumber(s)
		case "chat_id", "sender_id":
			masked[k] = MaskChatID(s)
		case "access_token", "refresh_token", "token":
			masked[k] = MaskToken(s)
		case "email":
			masked[k] = MaskEmail(s)
		default:
			masked[k] = v
		}
	}

	return masked
}
