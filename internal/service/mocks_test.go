package service

import (
	"context"
	"time"

	"notigate/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockTelegramSender struct {
	mock.Mock
}

func (m *mockTelegramSender) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *mockTelegramSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

type mockWhatsAppSender struct {
	mock.Mock
}

func (m *mockWhatsAppSender) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *mockWhatsAppSender) SendText(ctx context.Context, phone, text string) error {
	args := m.Called(ctx, phone, text)
	return args.Error(0)
}

type mockProfileStore struct {
	mock.Mock
}

func (m *mockProfileStore) GetProfile(ctx context.Context, userID string) (*models.RecipientProfile, error) {
	args := m.Called(ctx, userID)
	if p := args.Get(0); p != nil {
		return p.(*models.RecipientProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) GetGroupMembers(ctx context.Context, ownerID string) ([]models.GroupMember, error) {
	args := m.Called(ctx, ownerID)
	if members := args.Get(0); members != nil {
		return members.([]models.GroupMember), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockTokenRefresher struct {
	mock.Mock
}

func (m *mockTokenRefresher) RefreshAccessToken(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockTokenRefresher) TokenExpiry() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

type mockReminderDispatcher struct {
	mock.Mock
}

func (m *mockReminderDispatcher) CheckAndDispatchDueReminders(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
