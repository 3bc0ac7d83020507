package repository

import (
	"context"
	"time"

	"github.com/spec-kit/commerce-core/internal/domain"
)

// ChatRepository reads chat sessions and messages for aggregation.
type ChatRepository interface {
	ListSessionsTouchingWindow(ctx context.Context, from, to time.Time) ([]domain.ChatSession, error)
	ListMessagesForSessionsStartedBetween(ctx context.Context, from, to time.Time) ([]domain.ChatMessage, error)
}

type chatRepository struct {
	db Querier
}

// NewChatRepository instantiates repository.
func NewChatRepository(db Querier) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) ListSessionsTouchingWindow(ctx context.Context, from, to time.Time) ([]domain.ChatSession, error) {
	const query = `
        SELECT id, customer_user_id, staff_id, priority, started_at, closed_at, last_message_at
        FROM chat_sessions
        WHERE started_at < $2 AND (closed_at IS NULL OR closed_at >= $1)`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ChatSession
	for rows.Next() {
		var session domain.ChatSession
		if err := rows.Scan(
			&session.ID,
			&session.CustomerID,
			&session.StaffID,
			&session.Priority,
			&session.StartedAt,
			&session.ClosedAt,
			&session.LastMessageAt,
		); err != nil {
			return nil, err
		}
		result = append(result, session)
	}
	return result, rows.Err()
}

// ListMessagesForSessionsStartedBetween returns every message, regardless of
// when it was sent, belonging to a session that started inside the window.
// Per-session means attribute whole conversations to the session start day.
func (r *chatRepository) ListMessagesForSessionsStartedBetween(ctx context.Context, from, to time.Time) ([]domain.ChatMessage, error) {
	const query = `
        SELECT m.id, m.session_id, m.sender_role, m.sent_at
        FROM chat_messages m
        JOIN chat_sessions s ON s.id = m.session_id
        WHERE s.started_at >= $1 AND s.started_at < $2
        ORDER BY m.sent_at`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.SenderRole, &msg.SentAt); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
