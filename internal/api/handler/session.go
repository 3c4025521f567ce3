package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/purva-labs/sahayak-api/internal/api/response"
	"github.com/purva-labs/sahayak-api/internal/domain"
	"github.com/purva-labs/sahayak-api/internal/session"
	"github.com/go-chi/chi/v5"
)

// SessionHandler handles session inspection endpoints
type SessionHandler struct {
	sessions *session.Manager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Manager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// sessionError maps session manager errors onto HTTP responses.
func sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		response.BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, err.Error())
	default:
		response.InternalError(w, err.Error())
	}
}

// limitParam parses the limit query parameter within [1, 100].
func limitParam(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > 100 {
		return 0, errors.New("limit must be an integer between 1 and 100")
	}
	return limit, nil
}

// History returns a user's most recent messages
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit, err := limitParam(r, 10)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	messages, err := h.sessions.GetHistory(r.Context(), userID, limit)
	if err != nil {
		sessionError(w, err)
		return
	}
	response.OK(w, messages)
}

// Clear drops a user's conversation history
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	cleared, err := h.sessions.ClearSession(r.Context(), userID)
	if err != nil {
		sessionError(w, err)
		return
	}
	response.OK(w, map[string]any{
		"status":     "success",
		"session_id": cleared.SessionID,
		"message":    "session history cleared",
	})
}

// Info returns a summary of the user's current session
func (h *SessionHandler) Info(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	summary, err := h.sessions.GetSessionDetails(r.Context(), userID)
	if err != nil {
		sessionError(w, err)
		return
	}
	response.OK(w, summary)
}

// ListAll returns every session id owned by the user
func (h *SessionHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	exists, err := h.sessions.UserExists(r.Context(), userID)
	if err != nil || !exists {
		response.NotFound(w, "user "+userID+" not found")
		return
	}

	sessions, err := h.sessions.ListSessionsForUser(r.Context(), userID)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.SessionID)
	}
	response.OK(w, ids)
}

type sessionHistoryRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
	Limit     int    `json:"limit" validate:"omitempty,gte=1,lte=100"`
}

type sessionHistoryResponse struct {
	Status             string           `json:"status"`
	SessionID          string           `json:"session_id"`
	UserID             string           `json:"user_id"`
	CreatedAt          time.Time        `json:"created_at"`
	LastActive         time.Time        `json:"last_active"`
	LanguagePreference string           `json:"language_preference"`
	MessageCount       int              `json:"message_count"`
	Messages           []domain.Message `json:"messages"`
	ContextKeys        []string         `json:"context_keys"`
}

func (h *SessionHandler) historyByID(w http.ResponseWriter, r *http.Request, sessionID, userID string, limit int) {
	exists, err := h.sessions.UserExists(r.Context(), userID)
	if err != nil || !exists {
		response.NotFound(w, "user "+userID+" not found")
		return
	}

	found, err := h.sessions.GetSessionByID(r.Context(), sessionID, userID)
	if err != nil {
		sessionError(w, err)
		return
	}

	messages := found.Messages
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	response.OK(w, sessionHistoryResponse{
		Status:             "success",
		SessionID:          found.SessionID,
		UserID:             found.UserID,
		CreatedAt:          found.CreatedAt,
		LastActive:         found.LastActive,
		LanguagePreference: found.LanguagePreference,
		MessageCount:       len(found.Messages),
		Messages:           messages,
		ContextKeys:        found.ContextKeys(),
	})
}

// ByID returns a specific session identified in the request body
func (h *SessionHandler) ByID(w http.ResponseWriter, r *http.Request) {
	var input sessionHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}
	limit := input.Limit
	if limit == 0 {
		limit = 50
	}
	h.historyByID(w, r, input.SessionID, input.UserID, limit)
}

// ByIDPath returns a specific session identified by URL path parameters
func (h *SessionHandler) ByIDPath(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	userID := chi.URLParam(r, "userID")
	limit, err := limitParam(r, 50)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	h.historyByID(w, r, sessionID, userID, limit)
}
