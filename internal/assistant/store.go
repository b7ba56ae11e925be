package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dviselman/pconsole/internal/db"
)

// Session is a persisted chat session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessage is one persisted message within a session.
type ChatMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists chat sessions and messages.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// CreateSession inserts a new session for the given user.
func (s *Store) CreateSession(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		userID = "anonymous"
	}
	sess := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO chat_sessions (id, user_id) VALUES (?, ?)",
		sess.ID, sess.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating chat session: %w", err)
	}
	return sess, nil
}

// GetSession fetches a session by id.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	var (
		sess Session
		ts   string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, created_at FROM chat_sessions WHERE id = ?", id,
	).Scan(&sess.ID, &sess.UserID, &ts)
	if err != nil {
		return nil, fmt.Errorf("fetching chat session %s: %w", id, err)
	}
	if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
		sess.CreatedAt = t
	}
	return &sess, nil
}

// AppendMessage inserts a message into a session.
func (s *Store) AppendMessage(ctx context.Context, sessionID, role, content string) (*ChatMessage, error) {
	msg := &ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO chat_messages (id, session_id, role, content) VALUES (?, ?, ?, ?)",
		msg.ID, msg.SessionID, msg.Role, msg.Content,
	)
	if err != nil {
		return nil, fmt.Errorf("appending chat message: %w", err)
	}
	return msg, nil
}

// ListMessages returns a session's messages in insertion order.
func (s *Store) ListMessages(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, created_at
		FROM chat_messages WHERE session_id = ?
		ORDER BY rowid ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing chat messages: %w", err)
	}
	defer rows.Close()

	var messages []ChatMessage
	for rows.Next() {
		var (
			msg ChatMessage
			ts  string
		)
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &ts); err != nil {
			return nil, err
		}
		if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
			msg.CreatedAt = t
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
