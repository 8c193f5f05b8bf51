// Package appointment detects booking intent in user messages, extracts the
// fields the admin needs, and persists the request for review.
package appointment

import (
	"context"
	"regexp"
	"strings"

	"github.com/Rrens/hospital-chat/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Detector is the booking collaborator the chat engine consumes. SaveRequest
// returns the public appointment id, or an error when persistence failed.
type Detector interface {
	DetectIntent(message string) bool
	ExtractDetails(message string) domain.AppointmentDetails
	SaveRequest(ctx context.Context, req *domain.AppointmentRequest) (string, error)
}

var intentPhrases = []string{
	"book an appointment",
	"book appointment",
	"make an appointment",
	"schedule an appointment",
	"schedule a visit",
	"book a consultation",
	"want an appointment",
	"need an appointment",
	"get an appointment",
	"fix an appointment",
	"i want to book",
	"i would like to book",
	"can i book",
}

var (
	datePattern = regexp.MustCompile(`(?i)\b(today|tomorrow|day after tomorrow|monday|tuesday|wednesday|thursday|friday|saturday|sunday|\d{1,2}[-/]\d{1,2}(?:[-/]\d{2,4})?)\b`)
	timePattern = regexp.MustCompile(`(?i)\b(\d{1,2}(?::\d{2})?\s*(?:am|pm)|morning|afternoon|evening|noon)\b`)
)

// reasonKeywords maps symptom words in the message to a booking reason.
// Order matters: the first match wins.
var reasonKeywords = []struct {
	keyword string
	reason  string
}{
	{"fever", "Fever treatment"},
	{"headache", "Headache consultation"},
	{"chest pain", "Chest pain consultation"},
	{"back pain", "Back pain treatment"},
	{"pain", "Pain management"},
	{"cold", "Cold and flu"},
	{"cough", "Cough treatment"},
	{"diabetes", "Diabetes consultation"},
	{"blood pressure", "Blood pressure checkup"},
	{"heart", "Cardiac consultation"},
	{"stomach", "Gastric issues"},
	{"throat", "Throat infection"},
	{"flu", "Flu treatment"},
	{"allergy", "Allergy consultation"},
	{"skin", "Skin condition"},
	{"breathing", "Respiratory issues"},
	{"dizzy", "Dizziness consultation"},
	{"vomit", "Vomiting/Nausea"},
	{"injury", "Injury treatment"},
	{"checkup", "General checkup"},
	{"consultation", "General consultation"},
}

// SuggestReason returns the pre-fill booking reason for a message, or ""
func SuggestReason(message string) string {
	lower := strings.ToLower(message)
	for _, rk := range reasonKeywords {
		if strings.Contains(lower, rk.keyword) {
			return rk.reason
		}
	}
	return ""
}

// RegexDetector is the default detector: keyword intent matching, light
// pattern extraction, and repository-backed persistence.
type RegexDetector struct {
	repo domain.AppointmentRepository
}

func NewRegexDetector(repo domain.AppointmentRepository) *RegexDetector {
	return &RegexDetector{repo: repo}
}

// DetectIntent reports whether the message asks to book an appointment
func (d *RegexDetector) DetectIntent(message string) bool {
	lower := strings.ToLower(message)
	for _, phrase := range intentPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return strings.Contains(lower, "appointment") &&
		(strings.Contains(lower, "book") || strings.Contains(lower, "schedule") || strings.Contains(lower, "want") || strings.Contains(lower, "need"))
}

// ExtractDetails pulls the date, time, and reason the user mentioned.
// Missing fields stay empty.
func (d *RegexDetector) ExtractDetails(message string) domain.AppointmentDetails {
	details := domain.AppointmentDetails{}
	if m := datePattern.FindString(message); m != "" {
		details.Date = strings.ToLower(m)
	}
	if m := timePattern.FindString(message); m != "" {
		details.Time = strings.ToLower(m)
	}
	details.Reason = SuggestReason(message)
	return details
}

// SaveRequest assigns a public id, persists the request, and returns the id
func (d *RegexDetector) SaveRequest(ctx context.Context, req *domain.AppointmentRequest) (string, error) {
	if req.AppointmentID == "" {
		req.AppointmentID = "APT-" + strings.ToUpper(uuid.NewString()[:8])
	}
	if req.Status == "" {
		req.Status = domain.AppointmentPending
	}

	if _, err := d.repo.Insert(ctx, req); err != nil {
		return "", err
	}

	log.Info().Str("appointment_id", req.AppointmentID).Str("reason", req.Reason).Msg("appointment request saved")
	return req.AppointmentID, nil
}

// NoopDetector disables appointment handling. Used when no appointment
// store is configured.
type NoopDetector struct{}

func (NoopDetector) DetectIntent(string) bool { return false }

func (NoopDetector) ExtractDetails(string) domain.AppointmentDetails {
	return domain.AppointmentDetails{}
}

func (NoopDetector) SaveRequest(context.Context, *domain.AppointmentRequest) (string, error) {
	return "", nil
}
