package whatsapp

import (
	"sync"
	"time"
)

// TokenSnapshot is an immutable view of the access token taken under
// the credential lock. The send path works against a snapshot so a
// concurrent refresh can never produce a torn read of token and
// expiry.
type TokenSnapshot struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Valid reports whether the snapshot holds a non-empty token that has
// not yet expired.
func (s TokenSnapshot) Valid(now time.Time) bool {
	return s.AccessToken != "" && now.Before(s.ExpiresAt)
}

// Credential holds the mutable WhatsApp token state. There is exactly
// one instance per process; the refresh scheduler writes it and the
// send path reads it through Snapshot.
type Credential struct {
	mu           sync.RWMutex
	accessToken  string
	expiresAt    time.Time
	refreshToken string
	appID        string
	appSecret    string
}

// NewCredential creates a credential from process configuration. An
// initial access token may be supplied; its expiry is deliberately
// left at zero so the first refresh establishes a server-derived
// expiry rather than a guessed one.
func NewCredential(appID, appSecret, refreshToken, initialAccessToken string) *Credential {
	return &Credential{
		accessToken:  initialAccessToken,
		refreshToken: refreshToken,
		appID:        appID,
		appSecret:    appSecret,
	}
}

// Configured reports whether the credential carries everything the
// token-exchange flow needs.
func (c *Credential) Configured() bool {
	return c.appID != "" && c.appSecret != "" && c.refreshToken != ""
}

// Snapshot returns an immutable copy of the current token state.
func (c *Credential) Snapshot() TokenSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return TokenSnapshot{
		AccessToken: c.accessToken,
		ExpiresAt:   c.expiresAt,
	}
}

// NeedsRefresh reports whether the token will expire within lead. A
// zero expiry (no successful exchange yet) always needs a refresh.
func (c *Credential) NeedsRefresh(now time.Time, lead time.Duration) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !now.Add(lead).Before(c.expiresAt)
}

// rotate atomically replaces the access token and its expiry. Called
// only after a successful token exchange; a failed exchange leaves the
// previous state untouched.
func (c *Credential) rotate(accessToken string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = accessToken
	c.expiresAt = expiresAt
}

// exchangeParams returns the fields needed for a token exchange.
func (c *Credential) exchangeParams() (appID, appSecret, refreshToken string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.appID, c.appSecret, c.refreshToken
}
