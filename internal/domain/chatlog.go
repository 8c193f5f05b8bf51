package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChatTurn is one persisted request/response pair
type ChatTurn struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"user_id"`
	UserRole      UserRole  `json:"user_role"`
	Message       string    `json:"message"`
	Response      string    `json:"response"`
	IsAppointment bool      `json:"is_appointment"`
	CreatedAt     time.Time `json:"created_at"`
}

// ChatLogRepository persists chat turns. Saving is best-effort: callers log
// failures and continue, they never surface them to the user.
type ChatLogRepository interface {
	SaveTurn(ctx context.Context, turn *ChatTurn) error
	ListByUser(ctx context.Context, userID string, limit int) ([]ChatTurn, error)
}
