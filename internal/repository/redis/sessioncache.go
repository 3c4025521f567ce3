package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/purva-labs/sahayak-api/internal/domain"
)

const (
	sessionCachePrefix     = "session:"
	sessionUserIndexPrefix = "session:user:"
)

// SessionCache is the shared session cache for multi-instance
// deployments. Sessions are stored as JSON under "session:<id>" with a
// "session:user:<uid>" pointer for user lookups.
type SessionCache struct {
	client *Client
	ttl    time.Duration
}

func NewSessionCache(client *Client, ttl time.Duration) *SessionCache {
	return &SessionCache{client: client, ttl: ttl}
}

func (c *SessionCache) sessionKey(sessionID string) string {
	return sessionCachePrefix + sessionID
}

func (c *SessionCache) userKey(userID string) string {
	return sessionUserIndexPrefix + userID
}

func (c *SessionCache) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	data, err := c.client.rdb.Get(ctx, c.sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (c *SessionCache) GetByUser(ctx context.Context, userID string) (*domain.Session, error) {
	sessionID, err := c.client.rdb.Get(ctx, c.userKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get user index: %w", err)
	}
	return c.Get(ctx, sessionID)
}

func (c *SessionCache) Put(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := c.client.rdb.Pipeline()
	pipe.Set(ctx, c.sessionKey(session.SessionID), data, c.ttl)
	pipe.Set(ctx, c.userKey(session.UserID), session.SessionID, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis put session: %w", err)
	}
	return nil
}

func (c *SessionCache) Invalidate(ctx context.Context, sessionID string) error {
	session, err := c.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	pipe := c.client.rdb.Pipeline()
	pipe.Del(ctx, c.sessionKey(sessionID))
	if session != nil {
		pipe.Del(ctx, c.userKey(session.UserID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis invalidate session: %w", err)
	}
	return nil
}
