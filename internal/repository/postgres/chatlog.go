package postgres

import (
	"context"
	"fmt"

	"github.com/Rrens/hospital-chat/internal/domain"
)

// ChatLogRepository persists chat turns in PostgreSQL
type ChatLogRepository struct {
	db *DB
}

func NewChatLogRepository(db *DB) *ChatLogRepository {
	return &ChatLogRepository{db: db}
}

// SaveTurn inserts one request/response pair
func (r *ChatLogRepository) SaveTurn(ctx context.Context, turn *domain.ChatTurn) error {
	query := `
		INSERT INTO chat_logs (id, user_id, user_role, message, response, is_appointment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Pool.Exec(ctx, query,
		turn.ID, turn.UserID, turn.UserRole, turn.Message, turn.Response, turn.IsAppointment, turn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert chat turn: %w", err)
	}
	return nil
}

// ListByUser returns the user's most recent turns, newest first
func (r *ChatLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.ChatTurn, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, user_role, message, response, is_appointment, created_at
		FROM chat_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.ChatTurn
	for rows.Next() {
		var turn domain.ChatTurn
		if err := rows.Scan(&turn.ID, &turn.UserID, &turn.UserRole, &turn.Message,
			&turn.Response, &turn.IsAppointment, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat turn: %w", err)
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat turns: %w", err)
	}

	return turns, nil
}
