// Package session holds the single operator session of the dashboard process.
//
// The session is mutated only by Login, Logout and the teardown paths
// (Invalidate, proactive expiry). Every teardown path is idempotent: once the
// credential it was triggered for is gone, further calls do nothing.
package session

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"hospital-dashboard/internal/model"
	"hospital-dashboard/internal/storage"
)

type TeardownReason string

const (
	ReasonLogout    TeardownReason = "logout"
	ReasonRejected  TeardownReason = "rejected"
	ReasonExpired   TeardownReason = "expired"
	ReasonMalformed TeardownReason = "malformed"
)

type TeardownHook func(reason TeardownReason, claim model.Claim)

type LoginHook func(claim model.Claim)

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithExpiryEnforcement makes role lookups tear down a session whose claim has
// expired instead of waiting for the hospital API to reject it.
func WithExpiryEnforcement(enabled bool) Option {
	return func(s *Session) { s.enforceExpiry = enabled }
}

func WithTeardownHook(hook TeardownHook) Option {
	return func(s *Session) { s.onTeardown = hook }
}

func WithLoginHook(hook LoginHook) Option {
	return func(s *Session) { s.onLogin = hook }
}

type Session struct {
	store         storage.CredentialStore
	now           func() time.Time
	enforceExpiry bool
	onTeardown    TeardownHook
	onLogin       LoginHook

	mu         sync.RWMutex
	credential string
	claim      model.Claim
}

func New(store storage.CredentialStore, opts ...Option) *Session {
	s := &Session{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore installs the stored credential, if any. A stored credential that
// cannot be read or decoded is discarded and the process starts
// unauthenticated.
func (s *Session) Restore() bool {
	credential, err := s.store.Load()
	if errors.Is(err, storage.ErrNoCredential) {
		return false
	}
	if err != nil {
		slog.Warn("stored credential unreadable, starting unauthenticated", "error", err)
		s.clearStore()
		return false
	}

	credential = strings.TrimSpace(credential)
	claim, err := Decode(credential)
	if err != nil {
		slog.Warn("stored credential malformed, starting unauthenticated", "error", err)
		s.clearStore()
		return false
	}

	s.mu.Lock()
	s.credential = credential
	s.claim = claim
	s.mu.Unlock()

	slog.Info("session restored", "subject", claim.Subject, "role", claim.Role.String())
	return true
}

// Login decodes the credential, persists it and makes it the current
// session. A credential that fails to decode never establishes a session and
// also ends any session that was active.
func (s *Session) Login(credential string) (model.Claim, error) {
	credential = strings.TrimSpace(credential)
	claim, err := Decode(credential)
	if err != nil {
		s.teardown(ReasonMalformed, nil)
		return model.Claim{}, err
	}

	s.mu.Lock()
	if err := s.store.Save(credential); err != nil {
		s.mu.Unlock()
		return model.Claim{}, err
	}
	s.credential = credential
	s.claim = claim
	s.mu.Unlock()

	if s.onLogin != nil {
		s.onLogin(claim)
	}

	return claim, nil
}

// Logout destroys the stored credential unconditionally.
func (s *Session) Logout() error {
	s.mu.Lock()
	ended, active := s.claim, s.credential != ""
	s.credential = ""
	s.claim = model.Claim{}
	err := s.store.Clear()
	s.mu.Unlock()

	if active && s.onTeardown != nil {
		s.onTeardown(ReasonLogout, ended)
	}
	return err
}

// Invalidate ends the session if it still holds credential, and reports
// whether this call did the teardown. It is the reaction to the hospital API
// rejecting credential; a rejection of an older credential leaves a newer
// session alone.
func (s *Session) Invalidate(credential string) bool {
	if credential == "" {
		return false
	}
	return s.teardown(ReasonRejected, &credential)
}

func (s *Session) CurrentRole() (model.Role, bool) {
	claim, ok := s.Claim()
	if !ok {
		return model.RoleUnknown, false
	}
	return claim.Role, true
}

func (s *Session) Claim() (model.Claim, bool) {
	s.mu.RLock()
	credential, claim := s.credential, s.claim
	s.mu.RUnlock()

	if credential == "" {
		return model.Claim{}, false
	}

	if s.enforceExpiry && claim.Expired(s.now()) {
		s.teardown(ReasonExpired, &credential)
		return model.Claim{}, false
	}

	return claim, true
}

// Credential returns the bearer credential to attach to outbound calls.
func (s *Session) Credential() (string, bool) {
	if _, ok := s.Claim(); !ok {
		return "", false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential, s.credential != ""
}

func (s *Session) Authenticated() bool {
	_, ok := s.Claim()
	return ok
}

// teardown clears the in-memory session and the stored credential. When only
// is set, the teardown happens only while that exact credential is current.
func (s *Session) teardown(reason TeardownReason, only *string) bool {
	s.mu.Lock()
	if s.credential == "" || (only != nil && s.credential != *only) {
		s.mu.Unlock()
		return false
	}
	ended := s.claim
	s.credential = ""
	s.claim = model.Claim{}
	s.clearStore()
	s.mu.Unlock()

	if s.onTeardown != nil {
		s.onTeardown(reason, ended)
	}

	return true
}

func (s *Session) clearStore() {
	if err := s.store.Clear(); err != nil {
		slog.Warn("failed to clear stored credential", "error", err)
	}
}
