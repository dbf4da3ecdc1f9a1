package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository is a database-backed repository for chats.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Create stores a new empty chat for the user.
func (r *Repository) Create(ctx context.Context, userID, title string) (*Chat, error) {
	now := time.Now().UTC()
	chat := &Chat{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chats (id, user_id, title, messages, created_at, updated_at)
		 VALUES (?, ?, ?, '[]', ?, ?)`,
		chat.ID, chat.UserID, chat.Title, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	return chat, nil
}

// Save replaces the chat's messages and timestamps.
func (r *Repository) Save(ctx context.Context, chat *Chat) error {
	messagesJSON, err := json.Marshal(chat.Messages)
	if err != nil {
		return fmt.Errorf("failed to marshal chat messages: %w", err)
	}
	chat.UpdatedAt = time.Now().UTC()
	_, err = r.db.ExecContext(ctx,
		`UPDATE chats SET messages = ?, last_message_at = ?, updated_at = ? WHERE id = ?`,
		string(messagesJSON), chat.LastMessageAt, chat.UpdatedAt, chat.ID)
	if err != nil {
		return fmt.Errorf("failed to save chat: %w", err)
	}
	return nil
}

// Latest returns the user's most recently updated chat, or nil if none.
func (r *Repository) Latest(ctx context.Context, userID string) (*Chat, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, messages, last_message_at, created_at, updated_at
		 FROM chats WHERE user_id = ? ORDER BY updated_at DESC LIMIT 1`, userID)
	chat, err := scanChat(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return chat, err
}

// ListByUser returns all of the user's chats, most recent first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Chat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, messages, last_message_at, created_at, updated_at
		 FROM chats WHERE user_id = ? ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, *chat)
	}
	return chats, rows.Err()
}

// Count returns the number of chats.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chats`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count chats: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChat(row rowScanner) (*Chat, error) {
	var c Chat
	var messagesJSON string
	var lastMessageAt sql.NullTime
	err := row.Scan(&c.ID, &c.UserID, &c.Title, &messagesJSON, &lastMessageAt, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan chat: %w", err)
	}
	if err := json.Unmarshal([]byte(messagesJSON), &c.Messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat messages: %w", err)
	}
	if lastMessageAt.Valid {
		c.LastMessageAt = lastMessageAt.Time
	}
	return &c, nil
}
