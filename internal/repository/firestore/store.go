// Package firestore persists sessions and users in Cloud Firestore.
// Timestamps are stored as RFC3339 strings so documents stay readable
// in the console and portable across drivers.
package firestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/purva-labs/sahayak-api/internal/domain"
)

const (
	sessionsCollection = "sessions"
	usersCollection    = "users"
)

type Store struct {
	client *firestore.Client
}

func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// HealthCheck issues a minimal read to verify the backend is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	_, err := s.sessionsCol().Limit(1).Documents(ctx).GetAll()
	return err
}

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection(sessionsCollection)
}

func (s *Store) usersCol() *firestore.CollectionRef {
	return s.client.Collection(usersCollection)
}

type messageDoc struct {
	Timestamp string         `firestore:"timestamp"`
	Content   string         `firestore:"content"`
	AgentType string         `firestore:"agent_type"`
	Metadata  map[string]any `firestore:"metadata,omitempty"`
}

type sessionDoc struct {
	UserID             string         `firestore:"user_id"`
	CreatedAt          string         `firestore:"created_at"`
	LastActive         string         `firestore:"last_active"`
	Messages           []messageDoc   `firestore:"messages"`
	LanguagePreference string         `firestore:"language_preference"`
	Context            map[string]any `firestore:"context"`
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

func fromDoc(sessionID string, doc sessionDoc) *domain.Session {
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
		SessionID:          sessionID,
		UserID:             doc.UserID,
		CreatedAt:          parseTime(doc.CreatedAt),
		LastActive:         parseTime(doc.LastActive),
		Messages:           messages,
		LanguagePreference: doc.LanguagePreference,
		Context:            ctx,
	}
}

func (s *Store) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	snap, err := s.sessionsCol().Doc(sessionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("session %q: %w", sessionID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("firestore get session: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore decode session: %w", err)
	}
	return fromDoc(sessionID, doc), nil
}

func (s *Store) Put(ctx context.Context, session *domain.Session) error {
	_, err := s.sessionsCol().Doc(session.SessionID).Set(ctx, toDoc(session))
	if err != nil {
		return fmt.Errorf("firestore put session: %w", err)
	}
	return nil
}

func (s *Store) UpdateFields(ctx context.Context, sessionID string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	_, err := s.sessionsCol().Doc(sessionID).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("session %q: %w", sessionID, domain.ErrNotFound)
		}
		return fmt.Errorf("firestore update session: %w", err)
	}
	return nil
}

// QueryByUser avoids OrderBy so no composite index is needed; results
// are sorted client side.
func (s *Store) QueryByUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	iter := s.sessionsCol().Where("user_id", "==", userID).Documents(ctx)
	defer iter.Stop()

	var out []*domain.Session
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore query sessions: %w", err)
		}

		var doc sessionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("firestore decode session: %w", err)
		}
		out = append(out, fromDoc(snap.Ref.ID, doc))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type userDoc struct {
	FullName     string `firestore:"full_name"`
	Email        string `firestore:"email"`
	ProfileImage string `firestore:"profile_image,omitempty"`
}

func (s *Store) Exists(ctx context.Context, userID string) (bool, error) {
	_, err := s.usersCol().Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("firestore get user: %w", err)
	}
	return true, nil
}

func (s *Store) Create(ctx context.Context, userID string, user *domain.User) error {
	doc := userDoc{
		FullName:     user.FullName,
		Email:        user.Email,
		ProfileImage: user.ProfileImage,
	}
	_, err := s.usersCol().Doc(userID).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore create user: %w", err)
	}
	return nil
}
