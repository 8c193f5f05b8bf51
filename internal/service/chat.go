// Package service implements the conversational engine: intent
// classification, numbered-list back-references, retrieval-grounded
// generation, and response composition.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Rrens/hospital-chat/internal/appointment"
	"github.com/Rrens/hospital-chat/internal/config"
	"github.com/Rrens/hospital-chat/internal/domain"
	"github.com/Rrens/hospital-chat/internal/retrieval"
	"github.com/Rrens/hospital-chat/internal/session"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Generator is the text-generation capability: prompt in, free text out.
// No determinism is guaranteed.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ContextGatherer merges fan-out retrieval queries into one context string.
// An empty result means retrieval produced nothing and the caller must use
// a canned fallback instead of generating ungrounded.
type ContextGatherer interface {
	Gather(ctx context.Context, queries []string, params retrieval.Params) string
}

// ChatService is the engine core. One HandleMessage call per incoming
// message; every path returns a well-formed response, degrading to canned
// text on collaborator failure.
type ChatService struct {
	sessions     *session.Store
	gatherer     ContextGatherer
	generator    Generator
	appointments appointment.Detector
	chatLog      domain.ChatLogRepository
	composer     *Composer
	hospital     config.HospitalConfig
	restrictive  []string
}

// NewChatService wires the engine. Nil optional collaborators are replaced
// with no-op implementations at construction, not probed per call.
func NewChatService(
	sessions *session.Store,
	gatherer ContextGatherer,
	generator Generator,
	appointments appointment.Detector,
	chatLog domain.ChatLogRepository,
	hospital config.HospitalConfig,
) *ChatService {
	if appointments == nil {
		appointments = appointment.NoopDetector{}
	}
	if chatLog == nil {
		chatLog = noopChatLog{}
	}
	return &ChatService{
		sessions:     sessions,
		gatherer:     gatherer,
		generator:    generator,
		appointments: appointments,
		chatLog:      chatLog,
		composer:     NewComposer(hospital.Name, hospital.AddressMatch),
		hospital:     hospital,
		restrictive:  restrictivePhrases(hospital.Name),
	}
}

var greetingResponses = map[domain.UserRole]string{
	domain.RoleVisitor: "Hello! I'm here to help you with %s information. How can I assist you today?",
	domain.RoleStaff:   "Hello. How can I help you today?",
	domain.RoleAdmin:   "Hello. How can I assist you with hospital management today?",
}

const listTip = "\n\n💡 *Tip: Type a doctor's number (e.g., \"1\" or \"doctor 3\") to get detailed information and book an appointment.*"

// restrictivePhrases are the tells of an unhelpful generated answer. The
// contact phrase tracks the configured hospital name.
func restrictivePhrases(hospitalName string) []string {
	return []string{
		"I don't have that specific information",
		"not in my current knowledge base",
		"please contact " + hospitalName,
		"I don't know",
		"I cannot provide",
	}
}

var (
	inlineDoctorList = regexp.MustCompile(`\d+\.\s+Dr\.`)
	drPrefix         = regexp.MustCompile(`(?i)^dr\.?\s*`)
)

// HandleMessage routes one message through classification and the matching
// handler. Panics are converted into an apology response so the caller
// always receives a well-formed result.
func (s *ChatService) HandleMessage(ctx context.Context, req domain.ChatRequest) (resp domain.ChatResponse) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("message", req.Message).Msg("chat handler panicked")
			resp = s.apologyResponse()
		}
	}()

	if req.UserRole == "" {
		req.UserRole = domain.RoleVisitor
	}

	s.sessions.SweepExpired()
	sess := s.sessions.GetOrCreate(req.UserID)

	intents := Classify(req.Message)
	log.Debug().
		Str("user_id", sess.UserID).
		Str("role", string(req.UserRole)).
		Int("number_ref", intents.NumberRef).
		Bool("medical", intents.Medical).
		Str("list_kind", string(intents.ListKind)).
		Msg("message classified")

	switch {
	case intents.NumberRef > 0:
		resp = s.handleNumberRef(ctx, sess, intents.NumberRef)
	case intents.Greeting:
		resp = s.handleGreeting(sess, req.UserRole)
	case intents.Location:
		resp = s.handleLocation()
	case intents.ListKind == domain.ListDoctors:
		resp = s.handleDoctorList(ctx, sess)
	case intents.ListKind == domain.ListDepartments:
		resp = s.handleDepartmentList(ctx, sess)
	case intents.Medical:
		resp = s.handleMedical(ctx, req)
	case s.appointments.DetectIntent(req.Message):
		resp = s.handleBooking(ctx, req)
	default:
		resp = s.handleGeneral(ctx, sess, req)
	}

	s.saveTurn(ctx, req, resp)
	return resp
}

// handleNumberRef resolves a numeric back-reference against the session and
// either answers with the entity's detail or a clarification.
func (s *ChatService) handleNumberRef(ctx context.Context, sess *domain.Session, number int) domain.ChatResponse {
	snap := s.sessions.Snapshot(sess)

	entry, err := ResolveNumber(snap, number, s.sessions.Timeout())
	if err != nil {
		var notFound *NotFoundError
		switch {
		case errors.As(err, &notFound):
			return s.textResponse(s.notFoundMessage(notFound), domain.ContextNone)
		default:
			return s.textResponse(
				"I don't have an active numbered list to reference. Please ask me about doctors or departments first.",
				domain.ContextNone)
		}
	}

	s.sessions.Touch(sess)

	if snap.Kind == domain.ListDepartments {
		return s.departmentDetailResponse(entry)
	}
	return s.doctorDetailResponse(ctx, entry)
}

func (s *ChatService) notFoundMessage(nf *NotFoundError) string {
	numbers := make([]string, len(nf.Valid))
	for i, n := range nf.Valid {
		numbers[i] = strconv.Itoa(n)
	}
	kind := "doctors"
	if nf.Kind == domain.ListDepartments {
		kind = "departments"
	}
	return fmt.Sprintf("I don't see number %d in the current %s list. Please choose a valid number from: %s",
		nf.Number, kind, strings.Join(numbers, ", "))
}

func (s *ChatService) doctorDetailResponse(ctx context.Context, entry domain.ListEntry) domain.ChatResponse {
	detail := s.doctorDetail(ctx, entry)
	if detail == "" {
		var b strings.Builder
		fmt.Fprintf(&b, "**%s**\n\n**Specialty:** %s\n\n", entry.Name, entry.Category)
		if entry.Detail != "" {
			fmt.Fprintf(&b, "**Additional Information:** %s\n\n", entry.Detail)
		}
		fmt.Fprintf(&b, "For appointments or more information, please contact %s at %s.", s.hospital.Name, s.hospital.Phone)
		detail = b.String()
	}

	answer := s.composer.Compose(detail)
	answer += fmt.Sprintf("\n\nWould you like to book an appointment with %s?", entry.Name)

	resp := s.textResponse(answer, domain.ContextDoctorDetail)
	resp.ShowAppointmentButton = true
	resp.SuggestedReason = "Consultation with " + entry.Name
	return resp
}

// doctorDetail gathers doctor-specific context across several query
// phrasings and generates the detail text. Returns "" when retrieval or
// generation cannot contribute, so the caller falls back to basic info.
func (s *ChatService) doctorDetail(ctx context.Context, entry domain.ListEntry) string {
	cleanName := strings.TrimSpace(drPrefix.ReplaceAllString(entry.Name, ""))

	queries := []string{
		fmt.Sprintf("%s %s doctor information", cleanName, entry.Category),
		fmt.Sprintf("Dr. %s %s", cleanName, entry.Category),
		fmt.Sprintf("%s qualifications experience contact", cleanName),
		fmt.Sprintf("doctor %s hospital staff", cleanName),
	}

	context := s.gatherer.Gather(ctx, queries, retrieval.ProfileDetail)
	if context == "" {
		return ""
	}

	answer, err := s.generator.Generate(ctx, doctorDetailPrompt(s.hospital.Name, cleanName, entry.Category, context))
	if err != nil {
		log.Warn().Err(err).Str("doctor", entry.Name).Msg("doctor detail generation failed")
		return ""
	}
	return strings.TrimSpace(answer)
}

func (s *ChatService) departmentDetailResponse(entry domain.ListEntry) domain.ChatResponse {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", entry.Name)
	if entry.Detail != "" {
		fmt.Fprintf(&b, "%s\n\n", entry.Detail)
	}
	fmt.Fprintf(&b, "For more information, please contact %s at %s.", s.hospital.Name, s.hospital.Phone)

	return s.textResponse(s.composer.Compose(b.String()), domain.ContextDepartmentDetail)
}

func (s *ChatService) handleGreeting(sess *domain.Session, role domain.UserRole) domain.ChatResponse {
	greeting, ok := greetingResponses[role]
	if !ok {
		greeting = greetingResponses[domain.RoleVisitor]
	}
	if strings.Contains(greeting, "%s") {
		greeting = fmt.Sprintf(greeting, s.hospital.Name)
	}

	// a fresh greeting drops stale back-references
	s.sessions.Clear(sess)

	return s.textResponse(greeting, domain.ContextNone)
}

func (s *ChatService) handleLocation() domain.ChatResponse {
	var b strings.Builder
	fmt.Fprintf(&b, "📍 **%s Location:**\n\n**Address:**\n", s.hospital.Name)
	b.WriteString(strings.Join(s.hospital.AddressLines, "\n"))
	fmt.Fprintf(&b, "\n\n**Contact:**\n📞 Phone: %s\n\n", s.hospital.Phone)
	fmt.Fprintf(&b, "**How to Reach:**\n%s is located on Arts College Road in Coimbatore city center, easily accessible by all modes of transport.\n\n", s.hospital.Name)
	fmt.Fprintf(&b, "For detailed directions and map, please visit: %s", s.hospital.Website)

	return s.textResponse(s.composer.Annotate(b.String()), domain.ContextNone)
}

func (s *ChatService) handleDoctorList(ctx context.Context, sess *domain.Session) domain.ChatResponse {
	queries := []string{
		"list all doctors and their specialties departments",
		"doctors names specialties departments cardiology surgery",
		"medical staff doctors physicians specialists",
		"consulting doctors cardiologists surgeons physicians",
	}

	context := s.gatherer.Gather(ctx, queries, retrieval.ProfileDoctorList)
	if context == "" {
		return s.textResponse(s.composer.Compose(s.medicalAnswer(ctx, "doctors list")), domain.ContextDoctors)
	}

	answer, err := s.generator.Generate(ctx, doctorsListPrompt(context))
	if err != nil || strings.TrimSpace(answer) == "" {
		log.Warn().Err(err).Msg("doctors list generation failed")
		return s.textResponse(s.composer.Compose(s.medicalAnswer(ctx, "doctors list")), domain.ContextDoctors)
	}
	answer = strings.TrimSpace(answer)

	entries := ExtractDoctorEntries(answer)
	s.sessions.SetList(sess, entries, domain.ListDoctors, answer)
	log.Debug().Int("doctors", len(entries)).Msg("doctor list stored in session")

	return s.textResponse(s.composer.Compose(answer)+listTip, domain.ContextDoctors)
}

func (s *ChatService) handleDepartmentList(ctx context.Context, sess *domain.Session) domain.ChatResponse {
	queries := []string{
		"list all hospital departments",
		"medical departments specialties",
		"clinical departments services",
		"hospital departments list",
	}

	context := s.gatherer.Gather(ctx, queries, retrieval.ProfileDeptList)
	if context == "" {
		return s.textResponse(s.composer.Compose(s.medicalAnswer(ctx, "hospital departments list")), domain.ContextDepartments)
	}

	answer, err := s.generator.Generate(ctx, departmentsListPrompt(context))
	if err != nil || strings.TrimSpace(answer) == "" {
		log.Warn().Err(err).Msg("departments list generation failed")
		return s.textResponse(s.composer.Compose(s.medicalAnswer(ctx, "hospital departments list")), domain.ContextDepartments)
	}
	answer = strings.TrimSpace(answer)

	entries := ExtractDepartmentEntries(answer)
	s.sessions.SetList(sess, entries, domain.ListDepartments, answer)

	return s.textResponse(s.composer.Compose(answer), domain.ContextDepartments)
}

// handleMedical answers symptom and specialist-seeking questions. Booking
// intent in the same message turns it into a compound query: the answer is
// kept but the booking button and pre-filled reason are attached.
func (s *ChatService) handleMedical(ctx context.Context, req domain.ChatRequest) domain.ChatResponse {
	answer := s.composer.Compose(s.medicalAnswer(ctx, req.Message))

	resp := s.textResponse(answer, domain.ContextMedical)
	resp.ShowAppointmentButton = true
	resp.SuggestedReason = "Medical consultation"

	if s.appointments.DetectIntent(req.Message) {
		if reason := appointment.SuggestReason(req.Message); reason != "" {
			resp.SuggestedReason = reason
		}
		if !strings.Contains(strings.ToLower(resp.Response), "appointment") {
			resp.Response += "\n\nWould you like to book an appointment with one of our doctors?"
		}
	}
	return resp
}

// medicalAnswer generates a grounded medical reply, falling back to the
// deterministic symptom-to-department response when retrieval or
// generation is unavailable.
func (s *ChatService) medicalAnswer(ctx context.Context, message string) string {
	expanded := message + " hospital medical treatment symptoms diagnosis"

	context := s.gatherer.Gather(ctx, []string{expanded}, retrieval.ProfileMedical)
	if context == "" {
		return s.fallbackMedicalResponse(message)
	}

	answer, err := s.generator.Generate(ctx, medicalQueryPrompt(s.hospital.Name, message, context))
	if err != nil || strings.TrimSpace(answer) == "" {
		log.Warn().Err(err).Msg("medical generation failed, using fallback")
		return s.fallbackMedicalResponse(message)
	}
	return strings.TrimSpace(answer)
}

// handleGeneral is the full retrieval-and-generate path for everything the
// other handlers did not claim.
func (s *ChatService) handleGeneral(ctx context.Context, sess *domain.Session, req domain.ChatRequest) domain.ChatResponse {
	answer := ""

	context := s.gatherer.Gather(ctx, []string{req.Message}, retrieval.ProfileGeneral)
	if context != "" {
		generated, err := s.generator.Generate(ctx, generalQueryPrompt(s.hospital.Name, req.Message, context))
		if err != nil {
			log.Warn().Err(err).Msg("general generation failed")
		} else {
			answer = strings.TrimSpace(generated)
		}
	}

	if answer == "" {
		answer = s.medicalAnswer(ctx, req.Message)
	} else if s.containsRestrictivePhrase(answer) {
		improved := s.medicalAnswer(ctx, req.Message)
		if improved != "" && !s.containsRestrictivePhrase(improved) {
			answer = improved
		}
	}

	if answer == "" {
		answer = fmt.Sprintf("I'm happy to help with your query about %s. For detailed information, you can contact %s's support at %s or visit the front desk for assistance.",
			s.hospital.Name, s.hospital.Name, s.hospital.Phone)
	}

	// a specialty question can surface a numbered doctor list inline;
	// capture it so back-references work
	if inlineDoctorList.MatchString(answer) {
		if entries := ExtractDoctorEntries(answer); len(entries) > 0 {
			s.sessions.SetList(sess, entries, domain.ListDoctors, answer)
			answer += listTip
		}
	}

	return s.textResponse(s.composer.Compose(answer), s.contextFor(sess))
}

func (s *ChatService) containsRestrictivePhrase(answer string) bool {
	for _, phrase := range s.restrictive {
		if strings.Contains(answer, phrase) {
			return true
		}
	}
	return false
}

var (
	bookingPhonePattern = regexp.MustCompile(`\+?\d{1,3}[-.\s]?\(?\d{1,4}\)?[-.\s]?\d{1,4}[-.\s]?\d{1,9}`)
	bookingNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:for|name:?)\s+([A-Za-z]+)`),
		regexp.MustCompile(`^([A-Za-z]+)\s+\(`),
		regexp.MustCompile(`([A-Za-z]+)\s+\d{10}`),
	}
)

// handleBooking persists a simple appointment request and confirms with the
// captured fields. A failed save degrades to contact guidance.
func (s *ChatService) handleBooking(ctx context.Context, req domain.ChatRequest) domain.ChatResponse {
	details := s.appointments.ExtractDetails(req.Message)

	phone := bookingPhonePattern.FindString(req.Message)
	date := valueOr(details.Date, "Not specified")
	preferredTime := valueOr(details.Time, "Not specified")
	reason := valueOr(details.Reason, "General consultation")

	id, err := s.appointments.SaveRequest(ctx, &domain.AppointmentRequest{
		PatientName:     extractPatientName(req.Message),
		PhoneNumber:     phone,
		PreferredDate:   date,
		PreferredTime:   preferredTime,
		Reason:          reason,
		UserRole:        req.UserRole,
		OriginalMessage: req.Message,
	})
	if err != nil || id == "" {
		log.Warn().Err(err).Msg("appointment save failed")
		return s.textResponse(
			fmt.Sprintf("I can help you book an appointment. Please contact %s at [TEL:%s] to schedule, or try again with your preferred date and time.",
				s.hospital.Name, s.hospital.Phone),
			domain.ContextNone)
	}

	phoneLine := "Not provided"
	if phone != "" {
		phoneLine = "[TEL:" + phone + "]"
	}

	resp := s.textResponse(fmt.Sprintf(
		"Appointment request has been successfully sent to the admin, soon we will reach out to you.\n\nName: %s\nPhone: %s\nDate: %s\nTime: %s\nReason: %s",
		extractPatientName(req.Message), phoneLine, date, preferredTime, reason), domain.ContextNone)
	resp.IsAppointmentRequest = true
	resp.AppointmentID = id
	return resp
}

func extractPatientName(message string) string {
	for _, pattern := range bookingNamePatterns {
		if m := pattern.FindStringSubmatch(message); m != nil {
			name := strings.ToLower(m[1])
			return strings.ToUpper(name[:1]) + name[1:]
		}
	}
	return "Patient"
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func (s *ChatService) contextFor(sess *domain.Session) domain.ContextType {
	snap := s.sessions.Snapshot(sess)
	if !snap.Valid(s.sessions.Timeout()) {
		return domain.ContextNone
	}
	switch snap.Kind {
	case domain.ListDoctors:
		return domain.ContextDoctors
	case domain.ListDepartments:
		return domain.ContextDepartments
	default:
		return domain.ContextNone
	}
}

func (s *ChatService) textResponse(text string, contextType domain.ContextType) domain.ChatResponse {
	return domain.ChatResponse{
		Response:    text,
		Timestamp:   time.Now().Format(time.RFC3339),
		ContextType: contextType,
	}
}

func (s *ChatService) apologyResponse() domain.ChatResponse {
	return s.textResponse(
		fmt.Sprintf("I apologize for the technical issue. Please try again or contact %s directly at %s for assistance.",
			s.hospital.Name, s.hospital.Phone),
		domain.ContextNone)
}

// saveTurn persists the exchange best-effort; failures are logged and
// swallowed.
func (s *ChatService) saveTurn(ctx context.Context, req domain.ChatRequest, resp domain.ChatResponse) {
	userID := req.UserID
	if userID == "" {
		userID = "anonymous"
	}

	err := s.chatLog.SaveTurn(ctx, &domain.ChatTurn{
		ID:            uuid.New(),
		UserID:        userID,
		UserRole:      req.UserRole,
		Message:       req.Message,
		Response:      resp.Response,
		IsAppointment: resp.IsAppointmentRequest,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to save chat turn")
	}
}

type noopChatLog struct{}

func (noopChatLog) SaveTurn(context.Context, *domain.ChatTurn) error { return nil }

func (noopChatLog) ListByUser(context.Context, string, int) ([]domain.ChatTurn, error) {
	return nil, nil
}
