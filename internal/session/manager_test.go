package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/purva-labs/sahayak-api/internal/domain"
)

func newTestManager(store *MockSessionRepository, users *MockUserDirectory) *Manager {
	return NewManager(store, users, NewMemoryCache(64, time.Hour), zerolog.Nop())
}

func TestGetOrCreateSession_CreatesNewSession(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	users.On("Exists", mock.Anything, "teacher42").Return(true, nil)
	store.On("QueryByUser", mock.Anything, "teacher42").Return([]*domain.Session{}, nil)
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)

	session, err := mgr.GetOrCreateSession(context.Background(), "teacher42", "hindi")

	assert.NoError(t, err)
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, "teacher42", session.UserID)
	assert.Equal(t, "hindi", session.LanguagePreference)
	assert.Empty(t, session.Messages)
	store.AssertExpectations(t)
}

func TestGetOrCreateSession_IsIdempotent(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	users.On("Exists", mock.Anything, "teacher42").Return(true, nil)
	store.On("QueryByUser", mock.Anything, "teacher42").Return([]*domain.Session{}, nil).Once()
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil).Once()

	first, err := mgr.GetOrCreateSession(context.Background(), "teacher42", "")
	assert.NoError(t, err)

	// Second call must hit the cache, not the store.
	second, err := mgr.GetOrCreateSession(context.Background(), "teacher42", "")
	assert.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)
	store.AssertExpectations(t)
}

func TestGetOrCreateSession_EmptyUserIsRejected(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	for _, userID := range []string{"", "  "} {
		session, err := mgr.GetOrCreateSession(context.Background(), userID, "")
		assert.Nil(t, session)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	store.AssertNotCalled(t, "QueryByUser", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

func TestGetOrCreateSession_ReadDoesNotBumpLastActive(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mgr.now = func() time.Time { return now }

	users.On("Exists", mock.Anything, "teacher42").Return(true, nil)
	store.On("QueryByUser", mock.Anything, "teacher42").Return([]*domain.Session{}, nil).Once()
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)

	created, err := mgr.GetOrCreateSession(context.Background(), "teacher42", "")
	assert.NoError(t, err)

	now = now.Add(30 * time.Minute)
	resumed, err := mgr.GetOrCreateSession(context.Background(), "teacher42", "")
	assert.NoError(t, err)
	assert.Equal(t, created.SessionID, resumed.SessionID)
	assert.Equal(t, created.LastActive, resumed.LastActive)
}

func TestGetOrCreateSession_UnknownUser(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	users.On("Exists", mock.Anything, "ghost_user").Return(false, nil)

	session, err := mgr.GetOrCreateSession(context.Background(), "ghost_user", "")

	assert.Nil(t, session)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	store.AssertNotCalled(t, "QueryByUser", mock.Anything, mock.Anything)
}

func TestGetOrCreateSession_ResumesNewestStoredSession(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	older := &domain.Session{SessionID: "s-old", UserID: "teacher42", CreatedAt: time.Now().Add(-2 * time.Hour)}
	newer := &domain.Session{SessionID: "s-new", UserID: "teacher42", CreatedAt: time.Now().Add(-time.Hour)}

	users.On("Exists", mock.Anything, "teacher42").Return(true, nil)
	store.On("QueryByUser", mock.Anything, "teacher42").Return([]*domain.Session{older, newer}, nil)

	session, err := mgr.GetOrCreateSession(context.Background(), "teacher42", "")

	assert.NoError(t, err)
	assert.Equal(t, "s-new", session.SessionID)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestGetOrCreateSession_StoreFailureFallsBackToCache(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	users.On("Exists", mock.Anything, "teacher42").Return(true, nil)
	store.On("QueryByUser", mock.Anything, "teacher42").Return(nil, errors.New("firestore unavailable")).Once()
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(errors.New("firestore unavailable"))

	first, err := mgr.GetOrCreateSession(context.Background(), "teacher42", "")
	assert.NoError(t, err)
	assert.NotEmpty(t, first.SessionID)

	// The cache-only session is still resumable.
	second, err := mgr.GetOrCreateSession(context.Background(), "teacher42", "")
	assert.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)
}

func TestAppendMessage_AppendsToHistory(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	users.On("Exists", mock.Anything, "teacher42").Return(true, nil)
	store.On("QueryByUser", mock.Anything, "teacher42").Return([]*domain.Session{}, nil).Once()
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)

	sessionID, err := mgr.AppendMessage(context.Background(), "teacher42", "Explain photosynthesis", string(domain.AgentUser), nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, sessionID)

	_, err = mgr.AppendMessage(context.Background(), "teacher42", "Photosynthesis is...", string(domain.AgentMain), map[string]any{"model": "gemini"})
	assert.NoError(t, err)

	history, err := mgr.GetHistory(context.Background(), "teacher42", 0)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, "Explain photosynthesis", history[0].Content)
	assert.Equal(t, string(domain.AgentUser), history[0].AgentType)
	assert.Equal(t, string(domain.AgentMain), history[1].AgentType)
}

func TestAppendMessage_EmptyContent(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	_, err := mgr.AppendMessage(context.Background(), "teacher42", "   ", "", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAppendMessage_SucceedsWhenStoreWriteFails(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	users.On("Exists", mock.Anything, "teacher42").Return(true, nil)
	store.On("QueryByUser", mock.Anything, "teacher42").Return([]*domain.Session{}, nil).Once()
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(errors.New("write timeout"))

	sessionID, err := mgr.AppendMessage(context.Background(), "teacher42", "hello", "", nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, sessionID)

	history, err := mgr.GetHistory(context.Background(), "teacher42", 0)
	assert.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestUpdateContext_MergesKeys(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	users.On("Exists", mock.Anything, "teacher42").Return(true, nil)
	store.On("QueryByUser", mock.Anything, "teacher42").Return([]*domain.Session{}, nil).Once()
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)
	store.On("UpdateFields", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	created, err := mgr.GetOrCreateSession(context.Background(), "teacher42", "")
	assert.NoError(t, err)

	_, err = mgr.UpdateContext(context.Background(), created.SessionID, map[string]any{"grade": 5, "subject": "science"})
	assert.NoError(t, err)

	session, err := mgr.UpdateContext(context.Background(), created.SessionID, map[string]any{"subject": "math"})
	assert.NoError(t, err)
	assert.Equal(t, 5, session.Context["grade"])
	assert.Equal(t, "math", session.Context["subject"])
}

func TestUpdateContext_MissingSession(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	store.On("Get", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

	session, err := mgr.UpdateContext(context.Background(), "nope", map[string]any{"grade": 5})
	assert.Nil(t, session)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	store.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateContext_EmptyUpdateRefreshesLastActive(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mgr.now = func() time.Time { return now }

	store.On("QueryByUser", mock.Anything, domain.AnonymousUserID).Return([]*domain.Session{}, nil).Once()
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)
	store.On("UpdateFields", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	session, err := mgr.GetOrCreateSession(context.Background(), domain.AnonymousUserID, "")
	assert.NoError(t, err)
	created := session.LastActive

	now = now.Add(10 * time.Minute)
	updated, err := mgr.UpdateContext(context.Background(), session.SessionID, map[string]any{})
	assert.NoError(t, err)
	assert.True(t, updated.LastActive.After(created))
	assert.Empty(t, updated.Context)
}

func TestClearSession_KeepsIdentityContextAndLanguage(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	users.On("Exists", mock.Anything, "teacher42").Return(true, nil)
	store.On("QueryByUser", mock.Anything, "teacher42").Return([]*domain.Session{}, nil).Once()
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)
	store.On("UpdateFields", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	original, err := mgr.GetOrCreateSession(context.Background(), "teacher42", "marathi")
	assert.NoError(t, err)

	_, err = mgr.AppendMessage(context.Background(), "teacher42", "question one", "", nil)
	assert.NoError(t, err)
	_, err = mgr.UpdateContext(context.Background(), original.SessionID, map[string]any{"grade": 3})
	assert.NoError(t, err)

	cleared, err := mgr.ClearSession(context.Background(), "teacher42")
	assert.NoError(t, err)
	assert.Equal(t, original.SessionID, cleared.SessionID)
	assert.Empty(t, cleared.Messages)
	assert.Equal(t, "marathi", cleared.LanguagePreference)
	assert.Equal(t, 3, cleared.Context["grade"])
}

func TestGetSessionByID_OwnershipMismatch(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	stored := &domain.Session{SessionID: "s-1", UserID: "teacher42"}
	store.On("Get", mock.Anything, "s-1").Return(stored, nil)

	_, err := mgr.GetSessionByID(context.Background(), "s-1", "someone_else")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	session, err := mgr.GetSessionByID(context.Background(), "s-1", "teacher42")
	assert.NoError(t, err)
	assert.Equal(t, "s-1", session.SessionID)
}

func TestGetSessionByID_Missing(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	store.On("Get", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

	_, err := mgr.GetSessionByID(context.Background(), "nope", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = mgr.GetSessionByID(context.Background(), "  ", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetSessionByID_StoreErrorReadsAsNotFound(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	store.On("Get", mock.Anything, "s-1").Return(nil, errors.New("deadline exceeded"))

	_, err := mgr.GetSessionByID(context.Background(), "s-1", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSessionsForUser_UnknownUserIsEmpty(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	store.On("QueryByUser", mock.Anything, "ghost_user").Return([]*domain.Session{}, nil)

	sessions, err := mgr.ListSessionsForUser(context.Background(), "ghost_user")
	assert.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestListSessionsForUser_SortsOldestFirst(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	newer := &domain.Session{SessionID: "s-new", UserID: "teacher42", CreatedAt: time.Now()}
	older := &domain.Session{SessionID: "s-old", UserID: "teacher42", CreatedAt: time.Now().Add(-time.Hour)}
	store.On("QueryByUser", mock.Anything, "teacher42").Return([]*domain.Session{newer, older}, nil)

	sessions, err := mgr.ListSessionsForUser(context.Background(), "teacher42")
	assert.NoError(t, err)
	assert.Len(t, sessions, 2)
	assert.Equal(t, "s-old", sessions[0].SessionID)
	assert.Equal(t, "s-new", sessions[1].SessionID)
}

func TestGetHistory_TailLimit(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	store.On("QueryByUser", mock.Anything, domain.AnonymousUserID).Return([]*domain.Session{}, nil).Once()
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)

	for _, content := range []string{"one", "two", "three", "four"} {
		_, err := mgr.AppendMessage(context.Background(), domain.AnonymousUserID, content, "", nil)
		assert.NoError(t, err)
	}

	history, err := mgr.GetHistory(context.Background(), domain.AnonymousUserID, 2)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, "three", history[0].Content)
	assert.Equal(t, "four", history[1].Content)
}

func TestGetSessionDetails_ReportsCounts(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	store.On("QueryByUser", mock.Anything, domain.AnonymousUserID).Return([]*domain.Session{}, nil).Once()
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)
	store.On("UpdateFields", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	sessionID, err := mgr.AppendMessage(context.Background(), domain.AnonymousUserID, "hello", "", nil)
	assert.NoError(t, err)
	_, err = mgr.UpdateContext(context.Background(), sessionID, map[string]any{"grade": 4})
	assert.NoError(t, err)

	details, err := mgr.GetSessionDetails(context.Background(), domain.AnonymousUserID)
	assert.NoError(t, err)
	assert.Equal(t, 1, details.MessageCount)
	assert.Equal(t, []string{"grade"}, details.ContextKeys)
}

func TestAppendMessage_ConcurrentAppendsAreNotLost(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	store.On("QueryByUser", mock.Anything, domain.AnonymousUserID).Return([]*domain.Session{}, nil).Once()
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)

	const n = 20
	done := make(chan struct{})
	for i := 0; i < n; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_, err := mgr.AppendMessage(context.Background(), domain.AnonymousUserID, "ping", "", nil)
			assert.NoError(t, err)
		}()
	}
	for i := 0; i < n; i++ {
		<-done
	}

	history, err := mgr.GetHistory(context.Background(), domain.AnonymousUserID, 0)
	assert.NoError(t, err)
	assert.Len(t, history, n)
}

func TestAppendMessage_ConcurrentReadersSeeStableSnapshots(t *testing.T) {
	store := new(MockSessionRepository)
	users := new(MockUserDirectory)
	mgr := newTestManager(store, users)

	store.On("QueryByUser", mock.Anything, domain.AnonymousUserID).Return([]*domain.Session{}, nil).Once()
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)

	_, err := mgr.AppendMessage(context.Background(), domain.AnonymousUserID, "seed", "", nil)
	assert.NoError(t, err)

	const n = 10
	done := make(chan struct{})
	for i := 0; i < n; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_, err := mgr.AppendMessage(context.Background(), domain.AnonymousUserID, "ping", "", nil)
			assert.NoError(t, err)
		}()
		go func() {
			defer func() { done <- struct{}{} }()
			details, err := mgr.GetSessionDetails(context.Background(), domain.AnonymousUserID)
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, details.MessageCount, 1)
		}()
	}
	for i := 0; i < 2*n; i++ {
		<-done
	}
}
