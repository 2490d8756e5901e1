package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/pulsetrack/pulsetrack/internal/model"
	"github.com/pulsetrack/pulsetrack/internal/store"
)

// Session and account errors.
var (
	ErrInvalidSessionID   = errors.New("malformed session ID")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidUsername    = errors.New("invalid username format")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Session IDs are 16 random bytes, hex encoded.
var sessionIDPattern = regexp.MustCompile(`^[a-f0-9]{32}$`)

// Username: 3-50 chars, alphanumeric plus hyphen and underscore.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)

const minPasswordLength = 8

// Manager owns the user and session registries, both persisted under
// the global scope.
type Manager struct {
	gw     store.Gateway
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a session Manager.
func NewManager(gw store.Gateway, logger *slog.Logger) *Manager {
	return &Manager{
		gw:     gw,
		logger: logger.With("component", "session"),
		now:    time.Now,
	}
}

// NewSessionID generates a random session identifier.
func NewSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Anonymous creates a session with no account attached.
func (m *Manager) Anonymous(ctx context.Context) (model.Session, error) {
	id, err := NewSessionID()
	if err != nil {
		return model.Session{}, err
	}

	sess := model.Session{
		ID:        id,
		CreatedAt: m.now().UTC(),
		LastSeen:  m.now().UTC(),
	}

	sessions := m.loadSessions(ctx)
	sessions[sess.ID] = sess
	if err := m.gw.Save(ctx, store.GlobalScope, store.KeySessions, sessions); err != nil {
		return model.Session{}, fmt.Errorf("save session: %w", err)
	}

	m.logger.Info("session_created", "session_id", sess.ID, "anonymous", true)
	return sess, nil
}

// Register creates a user account and an initial session for it.
func (m *Manager) Register(ctx context.Context, username, password string) (model.User, model.Session, error) {
	if !usernamePattern.MatchString(username) {
		return model.User{}, model.Session{}, ErrInvalidUsername
	}
	if len(password) < minPasswordLength {
		return model.User{}, model.Session{}, ErrPasswordTooShort
	}

	users := m.loadUsers(ctx)
	for _, u := range users {
		if u.Username == username {
			return model.User{}, model.Session{}, ErrUsernameTaken
		}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return model.User{}, model.Session{}, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    m.now().UTC(),
	}
	users = append(users, user)
	if err := m.gw.Save(ctx, store.GlobalScope, store.KeyUsers, users); err != nil {
		return model.User{}, model.Session{}, fmt.Errorf("save users: %w", err)
	}

	sess, err := m.sessionFor(ctx, user.ID)
	if err != nil {
		return model.User{}, model.Session{}, err
	}

	m.logger.Info("user_registered", "user_id", user.ID, "username", username)
	return user, sess, nil
}

// Login verifies credentials and returns a fresh session.
func (m *Manager) Login(ctx context.Context, username, password string) (model.Session, error) {
	users := m.loadUsers(ctx)

	for _, u := range users {
		if u.Username != username {
			continue
		}
		ok, err := VerifyPassword(password, u.PasswordHash)
		if err != nil || !ok {
			return model.Session{}, ErrInvalidCredentials
		}
		return m.sessionFor(ctx, u.ID)
	}

	return model.Session{}, ErrInvalidCredentials
}

// Validate checks a session ID's format, looks it up and bumps its
// LastSeen. Malformed IDs are a validation error, unknown ones a miss.
func (m *Manager) Validate(ctx context.Context, id string) (model.Session, error) {
	if !sessionIDPattern.MatchString(id) {
		return model.Session{}, ErrInvalidSessionID
	}

	sessions := m.loadSessions(ctx)
	sess, ok := sessions[id]
	if !ok {
		return model.Session{}, ErrSessionNotFound
	}

	sess.LastSeen = m.now().UTC()
	sessions[id] = sess
	if err := m.gw.Save(ctx, store.GlobalScope, store.KeySessions, sessions); err != nil {
		// A failed LastSeen bump must not invalidate the session.
		m.logger.Warn("failed to update session last_seen", "session_id", id, "error", err)
	}

	return sess, nil
}

func (m *Manager) sessionFor(ctx context.Context, userID string) (model.Session, error) {
	id, err := NewSessionID()
	if err != nil {
		return model.Session{}, err
	}

	sess := model.Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: m.now().UTC(),
		LastSeen:  m.now().UTC(),
	}

	sessions := m.loadSessions(ctx)
	sessions[sess.ID] = sess
	if err := m.gw.Save(ctx, store.GlobalScope, store.KeySessions, sessions); err != nil {
		return model.Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// loadUsers returns the user registry. Storage failures and corrupt
// data degrade to an empty registry rather than erroring; the store
// clears corrupt keys itself.
func (m *Manager) loadUsers(ctx context.Context) []model.User {
	var users []model.User
	if err := m.gw.Load(ctx, store.GlobalScope, store.KeyUsers, &users); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.logger.Error("failed to load users, using empty registry", "error", err)
		}
		return nil
	}
	return users
}

func (m *Manager) loadSessions(ctx context.Context) map[string]model.Session {
	sessions := make(map[string]model.Session)
	if err := m.gw.Load(ctx, store.GlobalScope, store.KeySessions, &sessions); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.logger.Error("failed to load sessions, using empty registry", "error", err)
		}
		return make(map[string]model.Session)
	}
	return sessions
}
