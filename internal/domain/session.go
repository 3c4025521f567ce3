package domain

import (
	"context"
	"errors"
	"time"
)

// AnonymousUserID is the reserved user id that bypasses user-existence
// validation. It represents unauthenticated callers.
const AnonymousUserID = "anonymous"

// DefaultLanguage is the language preference assigned to new sessions.
const DefaultLanguage = "english"

var (
	// ErrValidation indicates a missing or malformed identifier.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates the session is absent from both cache and store,
	// or is owned by a different user than the caller claims.
	ErrNotFound = errors.New("session not found")

	// ErrUserNotFound indicates the user id is unknown to the user directory.
	ErrUserNotFound = errors.New("user not found")
)

// Message is a single entry in a session's conversation history.
// Messages are immutable once appended.
type Message struct {
	Timestamp time.Time      `json:"timestamp"`
	Content   string         `json:"content"`
	AgentType string         `json:"agent_type"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Session is the durable record of one user's accumulated conversational
// context and message history. UserID is immutable after creation.
type Session struct {
	SessionID          string         `json:"session_id"`
	UserID             string         `json:"user_id"`
	CreatedAt          time.Time      `json:"created_at"`
	LastActive         time.Time      `json:"last_active"`
	Messages           []Message      `json:"messages"`
	LanguagePreference string         `json:"language_preference"`
	Context            map[string]any `json:"context"`
}

// ContextKeys returns the keys of the session context map.
func (s *Session) ContextKeys() []string {
	keys := make([]string, 0, len(s.Context))
	for k := range s.Context {
		keys = append(keys, k)
	}
	return keys
}

// SessionSummary is the session shape embedded in API responses: everything
// except the message bodies.
type SessionSummary struct {
	SessionID          string    `json:"session_id"`
	UserID             string    `json:"user_id"`
	CreatedAt          time.Time `json:"created_at"`
	LastActive         time.Time `json:"last_active"`
	LanguagePreference string    `json:"language_preference"`
	MessageCount       int       `json:"message_count"`
	ContextKeys        []string  `json:"context_keys"`
}

// Summary builds a SessionSummary from the session.
func (s *Session) Summary() *SessionSummary {
	return &SessionSummary{
		SessionID:          s.SessionID,
		UserID:             s.UserID,
		CreatedAt:          s.CreatedAt,
		LastActive:         s.LastActive,
		LanguagePreference: s.LanguagePreference,
		MessageCount:       len(s.Messages),
		ContextKeys:        s.ContextKeys(),
	}
}

// SessionRepository defines the interface for durable session storage.
// Implementations are document-oriented: one record per session, keyed by
// session id, queryable by user id equality.
type SessionRepository interface {
	// Get returns the session or ErrNotFound.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Put writes the full session record, overwriting any existing one.
	Put(ctx context.Context, session *Session) error

	// UpdateFields applies a partial update to an existing record.
	UpdateFields(ctx context.Context, sessionID string, fields map[string]any) error

	// QueryByUser returns all sessions owned by the user, oldest first.
	QueryByUser(ctx context.Context, userID string) ([]*Session, error)
}
