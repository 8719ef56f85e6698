// Package session holds the logged-in state of the single supported user.
//
// The session is a boolean flag backed by a marker in the key-value store.
// The marker is a JSON encoded oauth2.Token carrying a random bearer token and
// an optional expiry, so a later process can restore the flag.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"todo/internal/kvstore"
	"todo/internal/logging"
)

const (
	// MarkerKey is the store key of the session marker.
	MarkerKey = "session"

	// TasksKey is the store key of the serialized task list.
	// Logout removes it together with the marker.
	TasksKey = "todos"

	// Username is the only accepted user name.
	Username = "admin"

	password = "password"

	// bcryptMaxKey is the longest key bcrypt reads; later bytes are ignored.
	bcryptMaxKey = 72
)

// ErrInvalidCredentials is returned by Check for a wrong username or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

var passwordHash = mustHash(password)

func mustHash(p string) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return h
}

// Check validates a username/password pair against the fixed credentials.
func Check(username, pass string) error {
	if username != Username {
		return ErrInvalidCredentials
	}
	// bcrypt NUL-terminates and truncates its key, so such passwords could
	// collide with the real one.
	if len(pass) > bcryptMaxKey || strings.IndexByte(pass, 0) >= 0 {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(passwordHash, []byte(pass)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Session is the session state container.
type Session struct {
	mu       sync.RWMutex
	store    kvstore.Store
	ttl      time.Duration
	now      func() time.Time
	log      logrus.FieldLogger
	loggedIn bool
}

// New creates a logged-out session over store.
// ttl bounds how long a login stays valid; zero means no expiry.
func New(store kvstore.Store, ttl time.Duration, log logrus.FieldLogger) *Session {
	if log == nil {
		log = logging.Discard()
	}
	return &Session{
		store: store,
		ttl:   ttl,
		now:   time.Now,
		log:   log,
	}
}

// SetClock replaces the clock used for token expiry (for testing).
func (s *Session) SetClock(now func() time.Time) {
	s.now = now
}

// LoggedIn reports whether the session is active.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// Restore sets the flag from the stored marker.
// An absent, unreadable or expired marker leaves the session logged out.
func (s *Session) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.store.Get(ctx, MarkerKey)
	if err != nil {
		return fmt.Errorf("failed to read session marker: %w", err)
	}
	if !ok {
		s.loggedIn = false
		return nil
	}

	var token oauth2.Token
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		s.log.WithError(err).Debug("ignoring unreadable session marker")
		s.loggedIn = false
		return nil
	}

	s.loggedIn = token.Valid()
	if !s.loggedIn {
		s.log.WithField("expiry", token.Expiry).Debug("session marker expired")
	}
	return nil
}

// Login starts a session if the credentials match.
// On mismatch it returns false and leaves the flag and the store untouched.
func (s *Session) Login(ctx context.Context, username, pass string) (bool, error) {
	if err := Check(username, pass); err != nil {
		s.log.WithField("username", username).Debug("login rejected")
		return false, nil
	}

	token := &oauth2.Token{
		AccessToken: uuid.NewString(),
		TokenType:   "Bearer",
	}
	if s.ttl > 0 {
		token.Expiry = s.now().Add(s.ttl)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(ctx, MarkerKey, string(data)); err != nil {
		return false, fmt.Errorf("failed to save session marker: %w", err)
	}
	s.loggedIn = true
	s.log.WithField("username", username).Debug("logged in")
	return true, nil
}

// Logout clears the marker and the stored task list, then drops the flag.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Remove(ctx, MarkerKey); err != nil {
		return fmt.Errorf("failed to remove session marker: %w", err)
	}
	s.loggedIn = false
	if err := s.store.Remove(ctx, TasksKey); err != nil {
		return fmt.Errorf("failed to remove stored tasks: %w", err)
	}
	s.log.Debug("logged out, stored tasks cleared")
	return nil
}
