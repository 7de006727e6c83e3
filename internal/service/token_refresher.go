package service

import (
	"context"
	"sync"
	"time"

	"notigate/internal/constants"
	"notigate/internal/errors"

	"github.com/sirupsen/logrus"
)

// TokenRefresher is the credential surface the refresh scheduler
// drives. RefreshAccessToken must rotate token and expiry atomically.
type TokenRefresher interface {
	RefreshAccessToken(ctx context.Context) error
	TokenExpiry() time.Time
}

// TokenRefreshScheduler keeps the WhatsApp access token fresh. Every
// tick it refreshes when the token expires within the lead window. A
// failed refresh is retried after a short backoff instead of waiting a
// full interval.
type TokenRefreshScheduler struct {
	refresher TokenRefresher
	interval  time.Duration
	lead      time.Duration
	backoff   time.Duration
	logger    *logrus.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewTokenRefreshScheduler builds a refresh scheduler. Non-positive
// durations fall back to defaults.
func NewTokenRefreshScheduler(refresher TokenRefresher, interval, lead time.Duration, logger *logrus.Logger) *TokenRefreshScheduler {
	if interval <= 0 {
		interval = time.Duration(constants.DefaultTokenRefreshIntervalMin) * time.Minute
	}
	if lead <= 0 {
		lead = time.Duration(constants.DefaultTokenRefreshLeadMin) * time.Minute
	}
	return &TokenRefreshScheduler{
		refresher: refresher,
		interval:  interval,
		lead:      lead,
		backoff:   time.Duration(constants.DefaultTokenRefreshBackoffSec) * time.Second,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the refresh loop. Calling Start on a running scheduler
// is a no-op.
func (s *TokenRefreshScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("Token refresh scheduler is already running")
		return
	}
	if s.stopCh == nil {
		s.stopCh = make(chan struct{})
	}
	s.running = true
	s.mu.Unlock()

	go s.loop(ctx)
	s.logger.Info("Token refresh scheduler started")
}

// Stop stops the refresh loop.
func (s *TokenRefreshScheduler) Stop() {
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
	s.logger.Info("Token refresh scheduler stopped")
}

func (s *TokenRefreshScheduler) loop(ctx context.Context) {
	// Zero so the first check runs immediately. A token loaded from
	// config has no known expiry and must be exchanged at startup.
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.getStopCh():
			return
		case <-timer.C:
			if err := s.checkAndRefresh(ctx); err != nil {
				timer.Reset(s.backoff)
			} else {
				timer.Reset(s.interval)
			}
		}
	}
}

// checkAndRefresh refreshes the token when its expiry falls inside the
// lead window. It returns an error only when a refresh attempt failed.
func (s *TokenRefreshScheduler) checkAndRefresh(ctx context.Context) error {
	expiry := s.refresher.TokenExpiry()
	if !expiry.IsZero() && time.Now().Add(s.lead).Before(expiry) {
		return nil
	}

	refreshCtx, cancel := context.WithTimeout(ctx, time.Duration(constants.DefaultHTTPTimeoutSec)*time.Second)
	defer cancel()

	if err := s.refresher.RefreshAccessToken(refreshCtx); err != nil {
		wrapped := errors.WrapRetryable(err, errors.ErrCodeTokenRefresh, "scheduled token refresh failed")
		s.logger.WithError(wrapped).WithField(LogFieldAttempt, "scheduled").Error("Failed to refresh access token")
		return wrapped
	}
	return nil
}

func (s *TokenRefreshScheduler) getStopCh() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return s.stopCh
}
