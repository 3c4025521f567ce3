package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"github.com/purva-labs/sahayak-api/internal/domain"
	"github.com/purva-labs/sahayak-api/internal/session"
)

// MockProvider is a mock implementation of llm.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GenerateContent(ctx context.Context, prompt string, temperature float32) (string, error) {
	args := m.Called(ctx, prompt, temperature)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) GenerateFromMedia(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	args := m.Called(ctx, prompt, data, mimeType)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

// fakeStore is an in-memory domain.SessionRepository for wiring a real
// session manager into service tests.
type fakeStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[string]*domain.Session)}
}

func (f *fakeStore) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) Put(_ context.Context, session *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.SessionID] = session
	return nil
}

func (f *fakeStore) UpdateFields(_ context.Context, sessionID string, _ map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[sessionID]; !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (f *fakeStore) QueryByUser(_ context.Context, userID string) ([]*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Session
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

// fakeUsers treats every user id as registered.
type fakeUsers struct{}

func (fakeUsers) Exists(context.Context, string) (bool, error) { return true, nil }

func newTestSessions() *session.Manager {
	return session.NewManager(newFakeStore(), fakeUsers{}, session.NewMemoryCache(64, time.Hour), zerolog.Nop())
}
