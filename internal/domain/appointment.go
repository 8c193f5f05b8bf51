package domain

import (
	"context"
	"time"
)

// AppointmentStatus tracks admin review state
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentRejected  AppointmentStatus = "rejected"
)

// AppointmentDetails are the fields extracted from a booking message. Empty
// fields mean the user did not mention them.
type AppointmentDetails struct {
	Date   string `json:"date,omitempty"`
	Time   string `json:"time,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// AppointmentRequest is a persisted booking request awaiting admin review
type AppointmentRequest struct {
	ID              int64             `json:"id"`
	AppointmentID   string            `json:"appointment_id"`
	PatientName     string            `json:"patient_name,omitempty"`
	PhoneNumber     string            `json:"phone_number,omitempty"`
	PreferredDate   string            `json:"preferred_date"`
	PreferredTime   string            `json:"preferred_time"`
	Reason          string            `json:"reason"`
	UserRole        UserRole          `json:"user_role"`
	Status          AppointmentStatus `json:"status"`
	AdminNotes      string            `json:"admin_notes,omitempty"`
	OriginalMessage string            `json:"original_message,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// AppointmentRepository stores booking requests
type AppointmentRepository interface {
	Insert(ctx context.Context, req *AppointmentRequest) (int64, error)
	List(ctx context.Context, limit int) ([]AppointmentRequest, error)
}
