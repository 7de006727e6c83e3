package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strconv"

	"notigate/internal/errors"
	"notigate/internal/markup"
	"notigate/internal/models"
	"notigate/internal/privacy"
	"notigate/internal/validation"
	"notigate/pkg/whatsapp"

	"github.com/sirupsen/logrus"
)

// Channel is one platform adapter seen from the gateway side. Send
// applies platform markup before delivery. ParseWebhook normalizes a
// raw webhook body; payloads that do not carry a usable text message
// yield nil without an error.
type Channel interface {
	Platform() models.Platform
	Enabled() bool
	Send(ctx context.Context, target, body string) error
	ParseWebhook(payload []byte) *models.InboundEvent
}

// TelegramSender is the transport surface the Telegram channel needs.
type TelegramSender interface {
	Enabled() bool
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// WhatsAppSender is the transport surface the WhatsApp channel needs.
type WhatsAppSender interface {
	Enabled() bool
	SendText(ctx context.Context, phone, text string) error
}

type telegramChannel struct {
	client TelegramSender
	logger *logrus.Logger
}

// NewTelegramChannel wraps a Telegram client as a gateway channel.
func NewTelegramChannel(client TelegramSender, logger *logrus.Logger) Channel {
	return &telegramChannel{client: client, logger: logger}
}

func (c *telegramChannel) Platform() models.Platform {
	return models.PlatformTelegram
}

func (c *telegramChannel) Enabled() bool {
	return c.client.Enabled()
}

func (c *telegramChannel) Send(ctx context.Context, target, body string) error {
	if !c.client.Enabled() {
		return errors.New(errors.ErrCodeChannelDisabled, "telegram channel is disabled")
	}

	chatID, err := strconv.ParseInt(target, 10, 64)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid telegram chat id").
			WithContext("chat_id", privacy.MaskChatID(target))
	}
	if err := validation.ValidateChatID(chatID); err != nil {
		return err
	}

	text := markup.Format(body, models.PlatformTelegram)
	if err := c.client.SendMessage(ctx, chatID, text); err != nil {
		return errors.WrapRetryable(err, errors.ErrCodeTransportFailure, "telegram send failed").
			WithContext("chat_id", privacy.MaskChatID(target))
	}
	return nil
}

func (c *telegramChannel) ParseWebhook(payload []byte) *models.InboundEvent {
	var update models.TelegramUpdate
	if err := json.Unmarshal(payload, &update); err != nil {
		c.logger.WithError(err).Debug("Ignoring unparseable Telegram webhook")
		return nil
	}

	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.From == nil || msg.Text == "" {
		return nil
	}

	return &models.InboundEvent{
		Platform: models.PlatformTelegram,
		SenderID: strconv.FormatInt(msg.From.ID, 10),
		ChatID:   strconv.FormatInt(msg.Chat.ID, 10),
		Text:     msg.Text,
	}
}

type whatsappChannel struct {
	client WhatsAppSender
	logger *logrus.Logger
}

// NewWhatsAppChannel wraps a WhatsApp client as a gateway channel.
func NewWhatsAppChannel(client WhatsAppSender, logger *logrus.Logger) Channel {
	return &whatsappChannel{client: client, logger: logger}
}

func (c *whatsappChannel) Platform() models.Platform {
	return models.PlatformWhatsApp
}

func (c *whatsappChannel) Enabled() bool {
	return c.client.Enabled()
}

func (c *whatsappChannel) Send(ctx context.Context, target, body string) error {
	if !c.client.Enabled() {
		return errors.New(errors.ErrCodeChannelDisabled, "whatsapp channel is disabled")
	}
	phone, err := validation.FormatE164(target)
	if err != nil {
		return err
	}

	text := markup.Format(body, models.PlatformWhatsApp)
	if err := c.client.SendText(ctx, phone, text); err != nil {
		if stderrors.Is(err, whatsapp.ErrTokenInvalid) {
			return errors.Wrap(err, errors.ErrCodeTokenExpired, "whatsapp access token is not valid").
				WithContext("phone", privacy.MaskPhoneNumber(target))
		}
		return errors.WrapRetryable(err, errors.ErrCodeTransportFailure, "whatsapp send failed").
			WithContext("phone", privacy.MaskPhoneNumber(target))
	}
	return nil
}

func (c *whatsappChannel) ParseWebhook(payload []byte) *models.InboundEvent {
	var envelope models.WhatsAppWebhookPayload
	if err := json.Unmarshal(payload, &envelope); err != nil {
		c.logger.WithError(err).Debug("Ignoring unparseable WhatsApp webhook")
		return nil
	}

	for _, entry := range envelope.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.Type != "text" || msg.Text == nil || msg.Text.Body == "" || msg.From == "" {
					continue
				}
				return &models.InboundEvent{
					Platform: models.PlatformWhatsApp,
					SenderID: msg.From,
					ChatID:   msg.From,
					Text:     msg.Text.Body,
				}
			}
		}
	}
	return nil
}
