package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/purva-labs/sahayak-api/internal/domain"
)

// Manager owns the lifecycle of teaching sessions. It keeps a cache in
// front of the durable store and treats the store as best effort: a
// failed write degrades the session to cache-only instead of failing
// the request.
type Manager struct {
	store  domain.SessionRepository
	users  domain.UserDirectory
	cache  Cache
	logger zerolog.Logger
	now    func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(store domain.SessionRepository, users domain.UserDirectory, cache Cache, logger zerolog.Logger) *Manager {
	return &Manager{
		store:  store,
		users:  users,
		cache:  cache,
		logger: logger.With().Str("component", "session_manager").Logger(),
		now:    time.Now,
		locks:  make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex serializing mutations for one user's
// session. Append and update are read-modify-write sequences, so
// concurrent callers for the same user must not interleave.
func (m *Manager) userLock(userID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[userID] = lock
	}
	return lock
}

func normalizeUserID(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("user id is empty: %w", domain.ErrValidation)
	}
	return userID, nil
}

// checkUser verifies a non-anonymous user is registered. Directory
// failures are treated as unknown user rather than surfaced.
func (m *Manager) checkUser(ctx context.Context, userID string) error {
	if userID == domain.AnonymousUserID {
		return nil
	}
	exists, err := m.users.Exists(ctx, userID)
	if err != nil {
		m.logger.Warn().Err(err).Str("user_id", userID).Msg("user directory lookup failed")
		return fmt.Errorf("user %q: %w", userID, domain.ErrUserNotFound)
	}
	if !exists {
		return fmt.Errorf("user %q: %w", userID, domain.ErrUserNotFound)
	}
	return nil
}

// GetOrCreateSession returns the user's current session, creating one
// when none exists. Repeated calls for the same user converge on the
// same session.
func (m *Manager) GetOrCreateSession(ctx context.Context, userID, language string) (*domain.Session, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	if err := m.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return m.getOrCreateLocked(ctx, userID, language)
}

// getOrCreateLocked assumes the caller holds the user lock.
func (m *Manager) getOrCreateLocked(ctx context.Context, userID, language string) (*domain.Session, error) {
	if cached, err := m.cache.GetByUser(ctx, userID); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		m.logger.Warn().Err(err).Str("user_id", userID).Msg("session cache lookup failed")
	}

	stored, err := m.store.QueryByUser(ctx, userID)
	if err != nil {
		m.logger.Warn().Err(err).Str("user_id", userID).Msg("session store query failed, continuing without store")
	}
	if len(stored) > 0 {
		// QueryByUser returns oldest first; resume the newest. A pure
		// read does not touch last_active.
		session := stored[len(stored)-1]
		if cacheErr := m.cache.Put(ctx, session); cacheErr != nil {
			m.logger.Warn().Err(cacheErr).Str("session_id", session.SessionID).Msg("failed to cache session")
		}
		return session, nil
	}

	session := m.newSession(userID, language)
	if putErr := m.store.Put(ctx, session); putErr != nil {
		m.logger.Warn().Err(putErr).Str("session_id", session.SessionID).Msg("failed to persist new session, keeping it cache-only")
	}
	if cacheErr := m.cache.Put(ctx, session); cacheErr != nil {
		m.logger.Warn().Err(cacheErr).Str("session_id", session.SessionID).Msg("failed to cache session")
	}
	m.logger.Info().Str("session_id", session.SessionID).Str("user_id", userID).Msg("created session")
	return session, nil
}

func (m *Manager) newSession(userID, language string) *domain.Session {
	if language == "" {
		language = domain.DefaultLanguage
	}
	now := m.now()
	return &domain.Session{
		SessionID:          uuid.New().String(),
		UserID:             userID,
		CreatedAt:          now,
		LastActive:         now,
		Messages:           []domain.Message{},
		LanguagePreference: language,
		Context:            map[string]any{},
	}
}

// AppendMessage records one exchange turn on the user's session and
// returns the session ID. The append succeeds even when the durable
// write fails.
func (m *Manager) AppendMessage(ctx context.Context, userID, content, agentType string, metadata map[string]any) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("message content is empty: %w", domain.ErrValidation)
	}
	if agentType == "" {
		agentType = string(domain.AgentMain)
	}
	userID, err := normalizeUserID(userID)
	if err != nil {
		return "", err
	}
	if err := m.checkUser(ctx, userID); err != nil {
		return "", err
	}

	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session, err := m.getOrCreateLocked(ctx, userID, "")
	if err != nil {
		return "", err
	}

	now := m.now()
	session.Messages = append(session.Messages, domain.Message{
		Timestamp: now,
		Content:   content,
		AgentType: agentType,
		Metadata:  metadata,
	})
	session.LastActive = now

	if putErr := m.store.Put(ctx, session); putErr != nil {
		m.logger.Warn().Err(putErr).Str("session_id", session.SessionID).Msg("failed to persist message, session is cache-only")
	}
	if cacheErr := m.cache.Put(ctx, session); cacheErr != nil {
		m.logger.Warn().Err(cacheErr).Str("session_id", session.SessionID).Msg("failed to cache session")
	}
	return session.SessionID, nil
}

// UpdateContext merges the given keys into the context of the session
// with that id. A missing session is reported as not found, never
// created. An empty update still refreshes last_active.
func (m *Manager) UpdateContext(ctx context.Context, sessionID string, updates map[string]any) (*domain.Session, error) {
	// First read resolves the owner so the right lock is taken; the
	// session is re-read under the lock before mutating.
	owner, err := m.GetSessionByID(ctx, sessionID, "")
	if err != nil {
		return nil, err
	}

	lock := m.userLock(owner.UserID)
	lock.Lock()
	defer lock.Unlock()

	session, err := m.GetSessionByID(ctx, sessionID, "")
	if err != nil {
		return nil, err
	}

	if session.Context == nil {
		session.Context = map[string]any{}
	}
	for k, v := range updates {
		session.Context[k] = v
	}
	session.LastActive = m.now()

	fields := map[string]any{
		"context":     session.Context,
		"last_active": session.LastActive.Format(time.RFC3339),
	}
	if updErr := m.store.UpdateFields(ctx, session.SessionID, fields); updErr != nil {
		m.logger.Warn().Err(updErr).Str("session_id", session.SessionID).Msg("failed to persist context update")
	}
	if cacheErr := m.cache.Put(ctx, session); cacheErr != nil {
		m.logger.Warn().Err(cacheErr).Str("session_id", session.SessionID).Msg("failed to cache session")
	}
	return session, nil
}

// ClearSession drops the conversation history while keeping the
// session itself, its context and its language preference.
func (m *Manager) ClearSession(ctx context.Context, userID string) (*domain.Session, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	if err := m.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session, err := m.getOrCreateLocked(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	session.Messages = []domain.Message{}
	session.LastActive = m.now()

	if putErr := m.store.Put(ctx, session); putErr != nil {
		m.logger.Warn().Err(putErr).Str("session_id", session.SessionID).Msg("failed to persist cleared session")
	}
	if cacheErr := m.cache.Put(ctx, session); cacheErr != nil {
		m.logger.Warn().Err(cacheErr).Str("session_id", session.SessionID).Msg("failed to cache session")
	}
	m.logger.Info().Str("session_id", session.SessionID).Str("user_id", userID).Msg("cleared session history")
	return session, nil
}

// GetSessionByID fetches a session by its ID. When ownerID is
// non-empty the session must belong to that user; a mismatch is
// indistinguishable from a missing session.
func (m *Manager) GetSessionByID(ctx context.Context, sessionID, ownerID string) (*domain.Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is empty: %w", domain.ErrValidation)
	}

	session, err := m.cache.Get(ctx, sessionID)
	if err != nil {
		m.logger.Warn().Err(err).Str("session_id", sessionID).Msg("session cache lookup failed")
	}
	if session == nil {
		session, err = m.store.Get(ctx, sessionID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				m.logger.Warn().Err(err).Str("session_id", sessionID).Msg("session store read failed")
			}
			return nil, fmt.Errorf("session %q: %w", sessionID, domain.ErrNotFound)
		}
		if cacheErr := m.cache.Put(ctx, session); cacheErr != nil {
			m.logger.Warn().Err(cacheErr).Str("session_id", sessionID).Msg("failed to cache session")
		}
	}

	if ownerID != "" && session.UserID != ownerID {
		return nil, fmt.Errorf("session %q: %w", sessionID, domain.ErrNotFound)
	}
	return session, nil
}

// ListSessionsForUser returns all stored sessions for a user, oldest
// first. Unknown users get an empty list, not an error.
func (m *Manager) ListSessionsForUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	sessions, err := m.store.QueryByUser(ctx, userID)
	if err != nil {
		m.logger.Warn().Err(err).Str("user_id", userID).Msg("session store query failed")
		return []*domain.Session{}, nil
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// GetHistory returns the most recent messages of the user's session,
// oldest first. A non-positive limit returns everything.
func (m *Manager) GetHistory(ctx context.Context, userID string, limit int) ([]domain.Message, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	if err := m.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session, err := m.getOrCreateLocked(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	messages := session.Messages
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	out := make([]domain.Message, len(messages))
	copy(out, messages)
	return out, nil
}

// GetSessionDetails returns a summary of the user's current session.
func (m *Manager) GetSessionDetails(ctx context.Context, userID string) (*domain.SessionSummary, error) {
	session, err := m.GetOrCreateSession(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	return session.Summary(), nil
}

// GetSessionHistory returns the messages of a specific session owned
// by the given user.
func (m *Manager) GetSessionHistory(ctx context.Context, sessionID, ownerID string) ([]domain.Message, error) {
	session, err := m.GetSessionByID(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Message, len(session.Messages))
	copy(out, session.Messages)
	return out, nil
}

// UserExists reports whether a user is registered. The anonymous
// sentinel always exists.
func (m *Manager) UserExists(ctx context.Context, userID string) (bool, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return false, err
	}
	if userID == domain.AnonymousUserID {
		return true, nil
	}
	return m.users.Exists(ctx, userID)
}
