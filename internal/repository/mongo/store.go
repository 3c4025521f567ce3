// Package mongo is the MongoDB session store, selectable through
// store.driver when Firestore is not available. Document shape matches
// the Firestore store so data can migrate between them.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/purva-labs/sahayak-api/internal/config"
	"github.com/purva-labs/sahayak-api/internal/domain"
)

const (
	sessionsCollection = "sessions"
	usersCollection    = "users"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewStore(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI())
	if cfg.TimeoutSeconds > 0 {
		clientOpts.SetConnectTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) sessions() *mongo.Collection {
	return s.db.Collection(sessionsCollection)
}

func (s *Store) users() *mongo.Collection {
	return s.db.Collection(usersCollection)
}

type messageDoc struct {
	Timestamp string         `bson:"timestamp"`
	Content   string         `bson:"content"`
	AgentType string         `bson:"agent_type"`
	Metadata  map[string]any `bson:"metadata,omitempty"`
}

type sessionDoc struct {
	SessionID          string         `bson:"_id"`
	UserID             string         `bson:"user_id"`
	CreatedAt          string         `bson:"created_at"`
	LastActive         string         `bson:"last_active"`
	Messages           []messageDoc   `bson:"messages"`
	LanguagePreference string         `bson:"language_preference"`
	Context            map[string]any `bson:"context"`
}

func toDoc(session *domain.Session) sessionDoc {
	messages := make([]messageDoc, len(session.Messages))
	for i, m := range session.Messages {
		messages[i] = messageDoc{
			Timestamp: m.Timestamp.Format(time.RFC3339),
			Content:   m.Content,
			AgentType: m.AgentType,
			Metadata:  m.Metadata,
		}
	}
	return sessionDoc{
		SessionID:          session.SessionID,
		UserID:             session.UserID,
		CreatedAt:          session.CreatedAt.Format(time.RFC3339),
		LastActive:         session.LastActive.Format(time.RFC3339),
		Messages:           messages,
		LanguagePreference: session.LanguagePreference,
		Context:            session.Context,
	}
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func fromDoc(doc sessionDoc) *domain.Session {
	messages := make([]domain.Message, len(doc.Messages))
	for i, m := range doc.Messages {
		messages[i] = domain.Message{
			Timestamp: parseTime(m.Timestamp),
			Content:   m.Content,
			AgentType: m.AgentType,
			Metadata:  m.Metadata,
		}
	}
	ctx := doc.Context
	if ctx == nil {
		ctx = map[string]any{}
	}
	return &domain.Session{
		SessionID:          doc.SessionID,
		UserID:             doc.UserID,
		CreatedAt:          parseTime(doc.CreatedAt),
		LastActive:         parseTime(doc.LastActive),
		Messages:           messages,
		LanguagePreference: doc.LanguagePreference,
		Context:            ctx,
	}
}

func (s *Store) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	var doc sessionDoc
	err := s.sessions().FindOne(ctx, bson.M{"_id": sessionID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("session %q: %w", sessionID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("mongo get session: %w", err)
	}
	return fromDoc(doc), nil
}

func (s *Store) Put(ctx context.Context, session *domain.Session) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.sessions().ReplaceOne(ctx, bson.M{"_id": session.SessionID}, toDoc(session), opts)
	if err != nil {
		return fmt.Errorf("mongo put session: %w", err)
	}
	return nil
}

func (s *Store) UpdateFields(ctx context.Context, sessionID string, fields map[string]any) error {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	res, err := s.sessions().UpdateOne(ctx, bson.M{"_id": sessionID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("mongo update session: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("session %q: %w", sessionID, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) QueryByUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	cursor, err := s.sessions().Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("mongo query sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Session
	for cursor.Next(ctx) {
		var doc sessionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo decode session: %w", err)
		}
		out = append(out, fromDoc(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo cursor: %w", err)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type userDoc struct {
	UID          string `bson:"_id"`
	FullName     string `bson:"full_name"`
	Email        string `bson:"email"`
	ProfileImage string `bson:"profile_image,omitempty"`
}

func (s *Store) Exists(ctx context.Context, userID string) (bool, error) {
	err := s.users().FindOne(ctx, bson.M{"_id": userID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("mongo get user: %w", err)
	}
	return true, nil
}

func (s *Store) Create(ctx context.Context, userID string, user *domain.User) error {
	doc := userDoc{
		UID:          userID,
		FullName:     user.FullName,
		Email:        user.Email,
		ProfileImage: user.ProfileImage,
	}
	opts := options.Replace().SetUpsert(true)
	_, err := s.users().ReplaceOne(ctx, bson.M{"_id": userID}, doc, opts)
	if err != nil {
		return fmt.Errorf("mongo create user: %w", err)
	}
	return nil
}
