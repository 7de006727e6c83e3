package service

import (
	"context"
	"strconv"
	"time"

	"notigate/internal/errors"
	"notigate/internal/metrics"
	"notigate/internal/models"
	"notigate/internal/privacy"
	"notigate/internal/validation"

	"github.com/sirupsen/logrus"
)

// ProfileStore supplies recipient profiles from the external user
// management service.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.RecipientProfile, error)
}

// Messenger routes outbound notifications to the recipient's preferred
// platform and normalizes inbound webhooks. Routing is fail-closed:
// when the preferred channel cannot deliver, the error surfaces and no
// other channel is tried.
type Messenger struct {
	channels map[models.Platform]Channel
	profiles ProfileStore
	metrics  *metrics.Registry
	logger   *logrus.Logger
}

// NewMessenger builds a messenger over the given channels. profiles
// may be nil when SendToUserID is not used.
func NewMessenger(channels []Channel, profiles ProfileStore, registry *metrics.Registry, logger *logrus.Logger) *Messenger {
	byPlatform := make(map[models.Platform]Channel, len(channels))
	for _, ch := range channels {
		byPlatform[ch.Platform()] = ch
	}
	return &Messenger{
		channels: byPlatform,
		profiles: profiles,
		metrics:  registry,
		logger:   logger,
	}
}

// SendToUser delivers a notification to the recipient's preferred
// platform. It returns true when the message was handed to the
// platform API. Unapproved recipients and missing channel identifiers
// fail without any delivery attempt.
func (m *Messenger) SendToUser(ctx context.Context, profile *models.RecipientProfile, body string) (bool, error) {
	if profile == nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "recipient profile is nil")
	}
	if err := validation.ValidateMessageBody(body); err != nil {
		return false, err
	}
	if !profile.Approved {
		return false, errors.New(errors.ErrCodeRecipientNotApproved, "recipient is not approved").
			WithContext(LogFieldUserID, profile.UserID)
	}

	platform := profile.EffectivePlatform()
	target, err := m.targetFor(profile, platform)
	if err != nil {
		return false, err
	}

	channel, ok := m.channels[platform]
	if !ok {
		return false, errors.New(errors.ErrCodeNoChannelConfigured, "no channel registered").
			WithContext(LogFieldPlatform, string(platform))
	}

	start := time.Now()
	sendErr := channel.Send(ctx, target, body)
	labels := map[string]string{"platform": string(platform)}
	m.metrics.RecordTimer("messenger_send_duration", time.Since(start), labels)

	if sendErr != nil {
		m.metrics.IncrementCounter("messenger_send_failures", labels)
		errors.LogError(m.logger, sendErr, "Failed to send notification", logrus.Fields{
			LogFieldUserID:   profile.UserID,
			LogFieldPlatform: string(platform),
		})
		return false, sendErr
	}

	m.metrics.IncrementCounter("messenger_send_success", labels)
	m.logger.WithFields(logrus.Fields{
		LogFieldUserID:    profile.UserID,
		LogFieldPlatform:  string(platform),
		LogFieldDirection: "outgoing",
	}).Info("Notification sent")
	return true, nil
}

// SendToUserID looks up the recipient profile and delivers to their
// preferred platform.
func (m *Messenger) SendToUserID(ctx context.Context, userID, body string) (bool, error) {
	if m.profiles == nil {
		return false, errors.New(errors.ErrCodeInternalError, "no profile store configured")
	}
	profile, err := m.profiles.GetProfile(ctx, userID)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeTransportFailure, "failed to load recipient profile").
			WithContext(LogFieldUserID, userID)
	}
	return m.SendToUser(ctx, profile, body)
}

// SendToPhone delivers directly over WhatsApp, bypassing preference
// routing. Used for replies to inbound WhatsApp messages.
func (m *Messenger) SendToPhone(ctx context.Context, phone, body string) error {
	channel, ok := m.channels[models.PlatformWhatsApp]
	if !ok {
		return errors.New(errors.ErrCodeNoChannelConfigured, "no whatsapp channel registered")
	}
	return channel.Send(ctx, phone, body)
}

// SendToTelegramID delivers directly over Telegram, bypassing
// preference routing. Used for replies to inbound Telegram messages.
func (m *Messenger) SendToTelegramID(ctx context.Context, chatID int64, body string) error {
	channel, ok := m.channels[models.PlatformTelegram]
	if !ok {
		return errors.New(errors.ErrCodeNoChannelConfigured, "no telegram channel registered")
	}
	return channel.Send(ctx, strconv.FormatInt(chatID, 10), body)
}

// HandleWebhook normalizes a raw platform webhook body. Malformed or
// non-message payloads return nil; webhook handling never produces an
// error visible to the platform.
func (m *Messenger) HandleWebhook(platform models.Platform, payload []byte) *models.InboundEvent {
	channel, ok := m.channels[platform]
	if !ok {
		m.logger.WithField(LogFieldPlatform, string(platform)).Warn("Webhook received for unregistered platform")
		return nil
	}

	event := channel.ParseWebhook(payload)
	labels := map[string]string{"platform": string(platform)}
	if event == nil {
		m.metrics.IncrementCounter("webhook_ignored", labels)
		return nil
	}

	m.metrics.IncrementCounter("webhook_events", labels)
	m.logger.WithFields(logrus.Fields{
		LogFieldPlatform:  string(platform),
		LogFieldSenderID:  privacy.MaskChatID(event.SenderID),
		LogFieldDirection: "incoming",
	}).Debug("Inbound event normalized")
	return event
}

func (m *Messenger) targetFor(profile *models.RecipientProfile, platform models.Platform) (string, error) {
	switch platform {
	case models.PlatformTelegram:
		if profile.TelegramChatID == nil {
			return "", errors.New(errors.ErrCodeNoChannelConfigured, "recipient has no telegram chat id").
				WithContext(LogFieldUserID, profile.UserID)
		}
		return strconv.FormatInt(*profile.TelegramChatID, 10), nil
	case models.PlatformWhatsApp:
		if profile.WhatsAppPhone == "" {
			return "", errors.New(errors.ErrCodeNoChannelConfigured, "recipient has no whatsapp phone").
				WithContext(LogFieldUserID, profile.UserID)
		}
		return profile.WhatsAppPhone, nil
	}
	return "", errors.Newf(errors.ErrCodeInvalidInput, "unsupported platform: %s", platform)
}
