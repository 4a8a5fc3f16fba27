package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/hidayetmm/places-client/internal/core/domain"
	"github.com/hidayetmm/places-client/internal/core/ports"
	"github.com/hidayetmm/places-client/internal/metrics"
)

// SessionStore holds the current Session and mirrors it into the durable
// vault. The value is replaced wholesale: Login and Logout are the only
// mutators, and both serialize through a single mutex.
type SessionStore struct {
	mu      sync.RWMutex
	current domain.Session
	vault   ports.SessionVault
	log     zerolog.Logger
}

// NewSessionStore builds a SessionStore and restores the durable session
// once. Absent, malformed, or expired durable data falls back to the
// logged-out default without error: a broken stored session must never
// prevent startup.
func NewSessionStore(ctx context.Context, vault ports.SessionVault, log zerolog.Logger) *SessionStore {
	s := &SessionStore{vault: vault, log: log}
	s.current = s.restore(ctx)
	return s
}

func (s *SessionStore) restore(ctx context.Context) domain.Session {
	raw, err := s.vault.Get(ctx)
	if err != nil {
		if !errors.Is(err, ports.ErrNoSession) {
			s.log.Warn().Err(err).Msg("session vault unreadable, starting logged out")
		}
		metrics.SessionRestoresTotal.WithLabelValues("absent").Inc()
		return domain.EmptySession()
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil || sess.AccessToken == "" {
		s.log.Debug().Msg("malformed stored session, treating as absent")
		metrics.SessionRestoresTotal.WithLabelValues("malformed").Inc()
		return domain.EmptySession()
	}

	if tokenExpired(sess.AccessToken, time.Now()) {
		s.log.Info().Str("username", sess.Username).Msg("stored access token expired, discarding session")
		if err := s.vault.Delete(ctx); err != nil {
			s.log.Warn().Err(err).Msg("failed to delete expired session")
		}
		metrics.SessionRestoresTotal.WithLabelValues("expired").Inc()
		return domain.EmptySession()
	}

	sess.IsLoggedIn = true
	metrics.SessionRestoresTotal.WithLabelValues("restored").Inc()
	s.log.Info().Str("username", sess.Username).Msg("session restored")
	return sess
}

// tokenExpired reports whether token carries an exp claim in the past. The
// token is parsed without signature verification: the client holds no key
// material, and an unparseable or claim-less token is treated as still valid
// so the server stays the authority on rejection.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

// Current returns the session value.
func (s *SessionStore) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Login replaces the session wholesale and writes the durable copy. This is
// the only legitimate transition from logged-out to logged-in; IsLoggedIn is
// derived from the token rather than trusted from the caller. The in-memory
// session is updated even when persisting fails, so a broken vault degrades
// to a non-durable login instead of no login.
func (s *SessionStore) Login(ctx context.Context, sess domain.Session) error {
	sess.IsLoggedIn = sess.AccessToken != ""

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.vault.Put(ctx, raw); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Logout replaces the session with the logged-out default and removes the
// durable copy. Idempotent: logging out while already logged out is a no-op.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = domain.EmptySession()
	s.mu.Unlock()

	if err := s.vault.Delete(ctx); err != nil {
		return fmt.Errorf("delete stored session: %w", err)
	}
	return nil
}
