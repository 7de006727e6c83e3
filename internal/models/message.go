package models

import "fmt"

// Platform identifies a supported messaging channel.
type Platform string

const (
	PlatformTelegram Platform = "telegram"
	PlatformWhatsApp Platform = "whatsapp"
)

// ParsePlatform converts a wire/config string into a Platform.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformTelegram:
		return PlatformTelegram, nil
	case PlatformWhatsApp:
		return PlatformWhatsApp, nil
	}
	return "", fmt.Errorf("unknown platform: %q", s)
}

// RecipientProfile is the slice of a user record the gateway reads.
// It is owned and mutated by the external user-management service.
type RecipientProfile struct {
	UserID            string   `json:"user_id"`
	PreferredPlatform Platform `json:"preferred_platform"`
	TelegramChatID    *int64   `json:"telegram_chat_id,omitempty"`
	WhatsAppPhone     string   `json:"whatsapp_phone,omitempty"`
	Approved          bool     `json:"approved"`
}

// EffectivePlatform returns the recipient's preferred platform,
// defaulting to Telegram when none is set.
func (p RecipientProfile) EffectivePlatform() Platform {
	if p.PreferredPlatform == "" {
		return PlatformTelegram
	}
	return p.PreferredPlatform
}

// OutboundMessage describes a single delivery attempt. It is created
// per call and never persisted.
type OutboundMessage struct {
	Platform Platform `json:"platform"`
	Target   string   `json:"target"`
	Body     string   `json:"body"`
	RichText bool     `json:"rich_text"`
}

// InboundEvent is the normalized result of a platform webhook.
// ChatID holds the Telegram chat id or the WhatsApp phone number,
// depending on Platform.
type InboundEvent struct {
	Platform Platform `json:"platform"`
	SenderID string   `json:"sender_id"`
	ChatID   string   `json:"chat_id"`
	Text     string   `json:"text"`
}

// Reminder is one scheduled notification owned by the external
// reminder store. The gateway only reads due entries and reports
// dispatch.
type Reminder struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Body   string `json:"body"`
	DueAt  string `json:"due_at"`
}

// MemberStatus is the approval state of a group member.
type MemberStatus string

const (
	MemberApproved MemberStatus = "approved"
	MemberPending  MemberStatus = "pending"
)

// GroupMember is one entry of a user's private contact group, supplied
// by the external contacts service on each resolution call.
type GroupMember struct {
	Email    string       `json:"email"`
	FullName string       `json:"full_name"`
	Status   MemberStatus `json:"status"`
}

// Participant is a name/email pair used in participant resolution.
// Email may be empty on input, in which case Name is resolved against
// the owner's group members.
type Participant struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
