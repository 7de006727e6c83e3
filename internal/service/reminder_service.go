package service

import (
	"context"
	"fmt"
	"strings"

	"notigate/internal/errors"
	"notigate/internal/models"

	"github.com/sirupsen/logrus"
)

// ReminderSource is the reminder-store surface of the external user
// management service.
type ReminderSource interface {
	DueReminders(ctx context.Context) ([]models.Reminder, error)
	MarkReminderDispatched(ctx context.Context, reminderID string) error
}

// UserSender delivers a message to a user's preferred platform.
type UserSender interface {
	SendToUserID(ctx context.Context, userID, body string) (bool, error)
}

// ReminderService dispatches due reminders through the messenger. One
// failed reminder does not block the rest of the batch; a reminder is
// only marked dispatched after a successful send, so failures are
// retried on the next pass.
type ReminderService struct {
	source ReminderSource
	sender UserSender
	logger *logrus.Logger
}

func NewReminderService(source ReminderSource, sender UserSender, logger *logrus.Logger) *ReminderService {
	return &ReminderService{source: source, sender: sender, logger: logger}
}

// CheckAndDispatchDueReminders delivers every due reminder and reports
// a combined error for the ones that failed.
func (s *ReminderService) CheckAndDispatchDueReminders(ctx context.Context) error {
	reminders, err := s.source.DueReminders(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeTransportFailure, "failed to fetch due reminders")
	}
	if len(reminders) == 0 {
		return nil
	}

	s.logger.WithField(LogFieldCount, len(reminders)).Info("Dispatching due reminders")

	var failures []string
	for _, reminder := range reminders {
		if err := s.dispatchOne(ctx, reminder); err != nil {
			failures = append(failures, fmt.Sprintf("reminder %s: %v", reminder.ID, err))
		}
	}

	if len(failures) > 0 {
		return errors.New(errors.ErrCodeTransportFailure, strings.Join(failures, "; "))
	}
	return nil
}

func (s *ReminderService) dispatchOne(ctx context.Context, reminder models.Reminder) error {
	sent, err := s.sender.SendToUserID(ctx, reminder.UserID, reminder.Body)
	if err != nil {
		errors.LogError(s.logger, err, "Failed to deliver reminder", logrus.Fields{
			LogFieldUserID: reminder.UserID,
		})
		return err
	}
	if !sent {
		return errors.New(errors.ErrCodeTransportFailure, "reminder was not delivered")
	}

	if err := s.source.MarkReminderDispatched(ctx, reminder.ID); err != nil {
		// The reminder was delivered but will be offered again next
		// pass. Dispatch is at-least-once.
		errors.LogError(s.logger, err, "Failed to mark reminder dispatched", logrus.Fields{
			LogFieldUserID: reminder.UserID,
		})
		return err
	}
	return nil
}
