package service

import (
	"context"
	"testing"

	"notigate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReminderSource struct {
	mock.Mock
}

func (m *mockReminderSource) DueReminders(ctx context.Context) ([]models.Reminder, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.([]models.Reminder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReminderSource) MarkReminderDispatched(ctx context.Context, reminderID string) error {
	args := m.Called(ctx, reminderID)
	return args.Error(0)
}

type mockUserSender struct {
	mock.Mock
}

func (m *mockUserSender) SendToUserID(ctx context.Context, userID, body string) (bool, error) {
	args := m.Called(ctx, userID, body)
	return args.Bool(0), args.Error(1)
}

func TestCheckAndDispatchDueReminders(t *testing.T) {
	source := &mockReminderSource{}
	source.On("DueReminders", mock.Anything).Return([]models.Reminder{
		{ID: "r1", UserID: "u1", Body: "standup"},
		{ID: "r2", UserID: "u2", Body: "review"},
	}, nil)
	source.On("MarkReminderDispatched", mock.Anything, "r1").Return(nil)
	source.On("MarkReminderDispatched", mock.Anything, "r2").Return(nil)

	sender := &mockUserSender{}
	sender.On("SendToUserID", mock.Anything, "u1", "standup").Return(true, nil)
	sender.On("SendToUserID", mock.Anything, "u2", "review").Return(true, nil)

	s := NewReminderService(source, sender, testLogger())
	require.NoError(t, s.CheckAndDispatchDueReminders(context.Background()))
	source.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestCheckAndDispatchNothingDue(t *testing.T) {
	source := &mockReminderSource{}
	source.On("DueReminders", mock.Anything).Return([]models.Reminder{}, nil)

	s := NewReminderService(source, &mockUserSender{}, testLogger())
	require.NoError(t, s.CheckAndDispatchDueReminders(context.Background()))
}

func TestCheckAndDispatchSourceFailure(t *testing.T) {
	source := &mockReminderSource{}
	source.On("DueReminders", mock.Anything).Return(nil, assert.AnError)

	s := NewReminderService(source, &mockUserSender{}, testLogger())
	require.Error(t, s.CheckAndDispatchDueReminders(context.Background()))
}

func TestCheckAndDispatchPartialFailure(t *testing.T) {
	source := &mockReminderSource{}
	source.On("DueReminders", mock.Anything).Return([]models.Reminder{
		{ID: "r1", UserID: "u1", Body: "standup"},
		{ID: "r2", UserID: "u2", Body: "review"},
	}, nil)
	source.On("MarkReminderDispatched", mock.Anything, "r2").Return(nil)

	sender := &mockUserSender{}
	sender.On("SendToUserID", mock.Anything, "u1", "standup").Return(false, assert.AnError)
	sender.On("SendToUserID", mock.Anything, "u2", "review").Return(true, nil)

	s := NewReminderService(source, sender, testLogger())
	err := s.CheckAndDispatchDueReminders(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reminder r1")
	// The failed reminder must not be marked dispatched.
	source.AssertNotCalled(t, "MarkReminderDispatched", mock.Anything, "r1")
	// The rest of the batch is still delivered.
	source.AssertCalled(t, "MarkReminderDispatched", mock.Anything, "r2")
}

func TestCheckAndDispatchMarkFailureKeepsReminder(t *testing.T) {
	source := &mockReminderSource{}
	source.On("DueReminders", mock.Anything).Return([]models.Reminder{
		{ID: "r1", UserID: "u1", Body: "standup"},
	}, nil)
	source.On("MarkReminderDispatched", mock.Anything, "r1").Return(assert.AnError)

	sender := &mockUserSender{}
	sender.On("SendToUserID", mock.Anything, "u1", "standup").Return(true, nil)

	s := NewReminderService(source, sender, testLogger())
	require.Error(t, s.CheckAndDispatchDueReminders(context.Background()))
}
