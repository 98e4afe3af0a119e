// Package gate suppresses rendering of sensitive entries until the viewer
// passes a password challenge. Each viewing session of an entry gets its own
// gate; navigating away and back constructs a new one, so an unlock never
// outlives the session it was granted in.
package gate

import (
	"context"
	"sync"
	"time"

	"quill/internal/client/settings"
	"quill/internal/models"
)

// Verifier checks a gate password with the server and returns a session
// unlock token.
type Verifier interface {
	VerifyPassword(ctx context.Context, userEmail, password string) (string, error)
}

// Session gates one viewing session of one entry. The settings object is
// injected, not read from any global, so behavior is fixed at construction.
type Session struct {
	mu sync.Mutex

	verifier  Verifier
	userEmail string
	sensitive bool
	cfg       settings.Settings
	now       func() time.Time

	token      string
	unlockedAt time.Time
}

// NewSession creates a gate for viewing one entry. sensitive is the entry's
// flag at fetch time.
func NewSession(verifier Verifier, userEmail string, sensitive bool, cfg settings.Settings) *Session {
	return &Session{
		verifier:  verifier,
		userEmail: models.NormalizeEmail(userEmail),
		sensitive: sensitive,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Locked reports whether entry content must still be suppressed. The gate is
// bypassed entirely when password protection is disabled in settings. An
// unlock expires after AutoLockMinutes of the configured timeout; zero
// disables expiry.
func (s *Session) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sensitive || !s.cfg.PasswordProtectionEnabled {
		return false
	}
	if s.token == "" {
		return true
	}
	if s.cfg.AutoLockMinutes > 0 {
		deadline := s.unlockedAt.Add(time.Duration(s.cfg.AutoLockMinutes) * time.Minute)
		if s.now().After(deadline) {
			s.token = ""
			return true
		}
	}
	return false
}

// Verify checks the password with the server. On success the session
// unlocks; on failure it stays locked and the caller gets the same
// AuthChallengeError no matter why verification failed.
func (s *Session) Verify(ctx context.Context, password string) error {
	s.mu.Lock()
	verifier := s.verifier
	email := s.userEmail
	s.mu.Unlock()

	token, err := verifier.VerifyPassword(ctx, email, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.unlockedAt = s.now()
	s.mu.Unlock()
	return nil
}

// Token returns the unlock token while the session is unlocked, or "" while
// locked. It is held in memory only; nothing persists it across sessions.
func (s *Session) Token() string {
	if s.Locked() {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Lock re-locks the session immediately, discarding the token.
func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}
