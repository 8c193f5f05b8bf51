// Package sqlite stores appointment requests in a local SQLite file, so
// booking keeps working without the main database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Rrens/hospital-chat/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS appointments (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  appointment_id TEXT,
  patient_name TEXT,
  phone_number TEXT,
  preferred_date TEXT,
  preferred_time TEXT,
  reason TEXT,
  user_role TEXT,
  status TEXT DEFAULT 'pending',
  admin_notes TEXT,
  original_message TEXT,
  created_at TEXT
);`

// AppointmentRepository persists booking requests in SQLite
type AppointmentRepository struct {
	db *sql.DB
}

// NewAppointmentRepository opens (creating if needed) the appointment
// database and ensures the schema exists.
func NewAppointmentRepository(path string) (*AppointmentRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open appointment database: %w", err)
	}

	// sqlite handles one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create appointment schema: %w", err)
	}

	return &AppointmentRepository{db: db}, nil
}

func (r *AppointmentRepository) Close() error {
	return r.db.Close()
}

// Insert stores a booking request and returns its row id
func (r *AppointmentRepository) Insert(ctx context.Context, req *domain.AppointmentRequest) (int64, error) {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	if req.Status == "" {
		req.Status = domain.AppointmentPending
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments
		(appointment_id, patient_name, phone_number, preferred_date, preferred_time, reason, user_role, status, admin_notes, original_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.AppointmentID, req.PatientName, req.PhoneNumber, req.PreferredDate, req.PreferredTime,
		req.Reason, req.UserRole, req.Status, req.AdminNotes, req.OriginalMessage,
		req.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to insert appointment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read appointment row id: %w", err)
	}
	req.ID = id
	return id, nil
}

// List returns the most recent booking requests, newest first
func (r *AppointmentRepository) List(ctx context.Context, limit int) ([]domain.AppointmentRequest, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, appointment_id, patient_name, phone_number, preferred_date, preferred_time,
		       reason, user_role, status, admin_notes, original_message, created_at
		FROM appointments
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	var requests []domain.AppointmentRequest
	for rows.Next() {
		var req domain.AppointmentRequest
		var createdAt string
		if err := rows.Scan(&req.ID, &req.AppointmentID, &req.PatientName, &req.PhoneNumber,
			&req.PreferredDate, &req.PreferredTime, &req.Reason, &req.UserRole,
			&req.Status, &req.AdminNotes, &req.OriginalMessage, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			req.CreatedAt = t
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointments: %w", err)
	}

	return requests, nil
}
