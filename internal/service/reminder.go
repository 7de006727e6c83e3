package service

import (
	"context"
	"sync"
	"time"

	"notigate/internal/constants"

	"github.com/sirupsen/logrus"
)

// ReminderDispatcher finds due reminders and sends them through the
// messenger. The reminder store lives in an external service; the
// gateway only drives the cadence.
type ReminderDispatcher interface {
	CheckAndDispatchDueReminders(ctx context.Context) error
}

// ReminderScheduler runs the reminder dispatch on a fixed cadence.
type ReminderScheduler struct {
	dispatcher ReminderDispatcher
	interval   time.Duration
	logger     *logrus.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewReminderScheduler builds a reminder scheduler. A non-positive
// interval falls back to the default.
func NewReminderScheduler(dispatcher ReminderDispatcher, interval time.Duration, logger *logrus.Logger) *ReminderScheduler {
	if interval <= 0 {
		interval = time.Duration(constants.DefaultReminderIntervalSec) * time.Second
	}
	return &ReminderScheduler{
		dispatcher: dispatcher,
		interval:   interval,
		logger:     logger,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the dispatch loop. Calling Start on a running scheduler
// is a no-op.
func (s *ReminderScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("Reminder scheduler is already running")
		return
	}
	if s.stopCh == nil {
		s.stopCh = make(chan struct{})
	}
	s.running = true
	s.mu.Unlock()

	go s.loop(ctx)
	s.logger.Info("Reminder scheduler started")
}

// Stop stops the dispatch loop.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
	s.running = false
	s.logger.Info("Reminder scheduler stopped")
}

func (s *ReminderScheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.getStopCh():
			return
		case <-ticker.C:
			s.dispatch(ctx)
		}
	}
}

// dispatch runs one reminder pass. Errors are logged and the loop
// continues; a failed pass is picked up by the next tick.
func (s *ReminderScheduler) dispatch(ctx context.Context) {
	if err := s.dispatcher.CheckAndDispatchDueReminders(ctx); err != nil {
		s.logger.WithError(err).Error("Failed to dispatch due reminders")
	}
}

func (s *ReminderScheduler) getStopCh() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return s.stopCh
}
