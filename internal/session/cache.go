package session

import (
	"context"
	"sync"
	"time"

	"github.com/purva-labs/sahayak-api/internal/domain"
)

// Cache is a fast lookup layer in front of the durable session store.
// Implementations return (nil, nil) on a miss rather than an error.
type Cache interface {
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByUser(ctx context.Context, userID string) (*domain.Session, error)
	Put(ctx context.Context, session *domain.Session) error
	Invalidate(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	session  *domain.Session
	cachedAt time.Time
}

// cloneSession copies the session record so cache readers and writers
// never share message slices or context maps.
func cloneSession(s *domain.Session) *domain.Session {
	clone := *s
	clone.Messages = make([]domain.Message, len(s.Messages))
	copy(clone.Messages, s.Messages)
	if s.Context != nil {
		clone.Context = make(map[string]any, len(s.Context))
		for k, v := range s.Context {
			clone.Context[k] = v
		}
	}
	return &clone
}

// MemoryCache keeps recently touched sessions in process memory with a
// TTL and a hard entry cap. When the cap is reached the stalest entry
// is evicted.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]*memoryEntry
	byUser     map[string]string // userID -> sessionID
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

func NewMemoryCache(maxEntries int, ttl time.Duration) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &MemoryCache{
		entries:    make(map[string]*memoryEntry),
		byUser:     make(map[string]string),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	c.mu.RLock()
	entry, ok := c.entries[sessionID]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if c.expired(entry) {
		c.mu.Lock()
		c.removeLocked(sessionID)
		c.mu.Unlock()
		return nil, nil
	}
	return cloneSession(entry.session), nil
}

func (c *MemoryCache) GetByUser(_ context.Context, userID string) (*domain.Session, error) {
	c.mu.RLock()
	sessionID, ok := c.byUser[userID]
	var entry *memoryEntry
	if ok {
		entry = c.entries[sessionID]
	}
	c.mu.RUnlock()
	if entry == nil {
		return nil, nil
	}
	if c.expired(entry) {
		c.mu.Lock()
		c.removeLocked(sessionID)
		c.mu.Unlock()
		return nil, nil
	}
	return cloneSession(entry.session), nil
}

func (c *MemoryCache) Put(_ context.Context, session *domain.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[session.SessionID]; !exists && len(c.entries) >= c.maxEntries {
		c.evictStalestLocked()
	}
	c.entries[session.SessionID] = &memoryEntry{session: cloneSession(session), cachedAt: c.now()}
	c.byUser[session.UserID] = session.SessionID
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(sessionID)
	return nil
}

func (c *MemoryCache) expired(entry *memoryEntry) bool {
	return c.ttl > 0 && c.now().Sub(entry.cachedAt) > c.ttl
}

func (c *MemoryCache) removeLocked(sessionID string) {
	entry, ok := c.entries[sessionID]
	if !ok {
		return
	}
	delete(c.entries, sessionID)
	if c.byUser[entry.session.UserID] == sessionID {
		delete(c.byUser, entry.session.UserID)
	}
}

func (c *MemoryCache) evictStalestLocked() {
	var victim string
	var oldest time.Time
	for id, entry := range c.entries {
		if victim == "" || entry.cachedAt.Before(oldest) {
			victim = id
			oldest = entry.cachedAt
		}
	}
	if victim != "" {
		c.removeLocked(victim)
	}
}
