package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Rrens/hospital-chat/internal/config"
	"github.com/Rrens/hospital-chat/internal/domain"
	"github.com/Rrens/hospital-chat/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testHospital() config.HospitalConfig {
	return config.HospitalConfig{
		Name:  "KG Hospital",
		Phone: "0422-2324105",
		AddressLines: []string{
			"No. 5, Arts College Road,",
			"Coimbatore - 641 018,",
			"Tamil Nadu, India",
		},
		AddressMatch: []string{"No. 5, Arts College Road", "Arts College Road, Coimbatore"},
		Website:      "https://www.kghospital.com/",
	}
}

type serviceFixture struct {
	svc      *ChatService
	store    *session.Store
	gatherer *mockGatherer
	gen      *mockGenerator
	detector *mockDetector
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()

	store := session.NewStore(30 * time.Minute)
	gatherer := new(mockGatherer)
	gen := new(mockGenerator)
	detector := new(mockDetector)

	svc := NewChatService(store, gatherer, gen, detector, nil, testHospital())
	return &serviceFixture{svc: svc, store: store, gatherer: gatherer, gen: gen, detector: detector}
}

func TestHandleMessage_NumberRefWithoutList(t *testing.T) {
	f := newFixture(t)

	resp := f.svc.HandleMessage(context.Background(), domain.ChatRequest{Message: "1", UserID: "u1"})

	assert.Contains(t, resp.Response, "don't have an active numbered list")
	assert.Equal(t, domain.ContextNone, resp.ContextType)
	assert.False(t, resp.IsAppointmentRequest)
}

func TestHandleMessage_NumberRefResolvesDoctorDetail(t *testing.T) {
	f := newFixture(t)

	sess := f.store.GetOrCreate("u1")
	f.store.SetList(sess, []domain.ListEntry{
		{Number: 1, Name: "Dr. A", Category: "Cardiology"},
		{Number: 2, Name: "Dr. B", Category: "Neurology"},
	}, domain.ListDoctors, "")

	f.gatherer.On("Gather", mock.Anything, mock.Anything, mock.Anything).Return("Dr. B profile snippet")
	f.gen.On("Generate", mock.Anything, mock.Anything).Return("Dr. B is a senior consultant in Neurology with 12 years of experience.", nil)

	resp := f.svc.HandleMessage(context.Background(), domain.ChatRequest{Message: "2", UserID: "u1"})

	assert.Equal(t, domain.ContextDoctorDetail, resp.ContextType)
	assert.Contains(t, resp.Response, "Dr. B")
	assert.Contains(t, resp.Response, "book an appointment with Dr. B")
	assert.True(t, resp.ShowAppointmentButton)
	assert.Equal(t, "Consultation with Dr. B", resp.SuggestedReason)
}

func TestHandleMessage_GreetingClearsList(t *testing.T) {
	f := newFixture(t)

	sess := f.store.GetOrCreate("u1")
	f.store.SetList(sess, []domain.ListEntry{{Number: 1, Name: "Dr. A"}}, domain.ListDoctors, "1. Dr. A, Cardiology")

	resp := f.svc.HandleMessage(context.Background(), domain.ChatRequest{Message: "hello", UserID: "u1", UserRole: domain.RoleVisitor})

	assert.Contains(t, resp.Response, "KG Hospital")
	snap := f.store.Snapshot(sess)
	assert.Equal(t, domain.ListNone, snap.Kind)
	assert.Empty(t, snap.List)
	assert.Empty(t, snap.RawListText)
}

func TestHandleMessage_RoleSpecificGreeting(t *testing.T) {
	f := newFixture(t)

	resp := f.svc.HandleMessage(context.Background(), domain.ChatRequest{Message: "hi", UserID: "u2", UserRole: domain.RoleAdmin})
	assert.Contains(t, resp.Response, "hospital management")

	resp = f.svc.HandleMessage(context.Background(), domain.ChatRequest{Message: "hi", UserID: "u3", UserRole: domain.RoleStaff})
	assert.Equal(t, "Hello. How can I help you today?", resp.Response)
}

func TestHandleMessage_OutOfRangeNumberListsValidOptions(t *testing.T) {
	f := newFixture(t)

	sess := f.store.GetOrCreate("u1")
	f.store.SetList(sess, []domain.ListEntry{
		{Number: 1, Name: "Dr. A"},
		{Number: 2, Name: "Dr. B"},
		{Number: 3, Name: "Dr. C"},
	}, domain.ListDoctors, "")

	resp := f.svc.HandleMessage(context.Background(), domain.ChatRequest{Message: "doctor 7", UserID: "u1"})

	assert.Contains(t, resp.Response, "number 7")
	assert.Contains(t, resp.Response, "1, 2, 3")
}

func TestHandleMessage_DuplicateNumbersResolveFirstOccurrence(t *testing.T) {
	f := newFixture(t)

	raw := "1. Dr. A, Cardiology\n2. Dr. B, Neurology\n2. Dr. C, Dermatology\n4. Dr. D, ENT"
	entries := ExtractDoctorEntries(raw)
	sess := f.store.GetOrCreate("u1")
	f.store.SetList(sess, entries, domain.ListDoctors, raw)

	// empty retrieval forces the basic-info path so the resolved entry is
	// visible in the response
	f.gatherer.On("Gather", mock.Anything, mock.Anything, mock.Anything).Return("")

	resp := f.svc.HandleMessage(context.Background(), domain.ChatRequest{Message: "2", UserID: "u1"})

	assert.Contains(t, resp.Response, "Dr. B")
	assert.NotContains(t, resp.Response, "Dr. C")
}

func TestHandleMessage_DoctorListStoresSession(t *testing.T) {
	f := newFixture(t)

	list := "1. Dr. A, Cardiology\n2. Dr. B, Neurology"
	f.gatherer.On("Gather", mock.Anything, mock.Anything, mock.Anything).Return("doctors context")
	f.gen.On("Generate", mock.Anything, mock.Anything).Return(list, nil)

	resp := f.svc.HandleMessage(context.Background(), domain.ChatRequest{Message: "list doctors", UserID: "u1"})

	assert.Equal(t, domain.ContextDoctors, resp.ContextType)
	assert.Contains(t, resp.Response, "Dr. A")
	assert.Contains(t, resp.Response, "Tip:")

	snap := f.store.Snapshot(f.store.GetOrCreate("u1"))
	assert.Equal(t, domain.ListDoctors, snap.Kind)
	require.Len(t, snap.List, 2)
	assert.Equal(t, "Dr. B", snap.List[1].Name)
	assert.Equal(t, list, snap.RawListText)
}

func TestHandleMessage_DepartmentListStoresSession(t *testing.T) {
	f := newFixture(t)

	list := "1. Cardiology\n2. Neurology\n3. Orthopedics"
	f.gatherer.On("Gather", mock.Anything, mock.Anything, mock.Anything).Return("departments context")
	f.gen.On("Generate", mock.Anything, mock.Anything).Return(list, nil)

	resp := f.svc.HandleMessage(context.Background(), domain.ChatRequest{Message: "list departments", UserID: "u1"})

	assert.Equal(t, domain.ContextDepartments, resp.ContextType)

	snap := f.store.Snapshot(f.store.GetOrCreate("u1"))
	assert.Equal(t, domain.ListDepartments, snap.Kind)
	assert.Len(t, snap.List, 3)
}

func TestHandleMessage_MedicalFallbackWhenRetrievalEmpty(t *testing.T) {
	f := newFixture(t)

	f.gatherer.On("Gather", mock.Anything, mock.Anything, mock.Anything).Return("")
	f.detector.On("DetectIntent", mock.Anything).Return(false)

	resp := f.svc.HandleMessage(context.Background(), domain.ChatRequest{Message: "I have a fever, what should I do", UserID: "u1"})

	assert.Equal(t, domain.ContextMedical, resp.ContextType)
	assert.Contains(t, resp.Response, "General Medicine or Infectious Diseases")
	assert.True(t, resp.ShowAppointmentButton)
	assert.Equal(t, "Medical consultation", resp.SuggestedReason)
}

func TestHandleMessage_CompoundMedicalAndBooking(t *testing.T) {
	f := newFixture(t)

	f.gatherer.On("Gather", mock.Anything, mock.Anything, mock.Anything).Return("")
	f.detector.On("DetectIntent", mock.Anything).Return(true)

	resp := f.svc.HandleMessage(context.Background(), domain.ChatRequest{
		Message: "I have a fever, can I book an appointment", UserID: "u1",
	})

	assert.Equal(t, domain.ContextMedical, resp.ContextType)
	assert.True(t, resp.ShowAppointmentButton)
	assert.Equal(t, "Fever treatment", resp.SuggestedReason)
	assert.False(t, resp.IsAppointmentRequest, "compound queries only offer the button")
}

func TestHandleMessage_SimpleBookingSavesRequest(t *testing.T) {
	f := newFixture(t)

	f.detector.On("DetectIntent", mock.Anything).Return(true)
	f.detector.On("ExtractDetails", mock.Anything).Return(domain.AppointmentDetails{Date: "tomorrow", Time: "10 am"})
	f.detector.On("SaveRequest", mock.Anything, mock.MatchedBy(func(req *domain.AppointmentRequest) bool {
		return req.PreferredDate == "tomorrow" && req.PreferredTime == "10 am"
	})).Return("APT-12AB34CD", nil)

	resp := f.svc.HandleMessage(context.Background(), domain.ChatRequest{
		Message: "please book an appointment tomorrow 10 am", UserID: "u1",
	})

	assert.True(t, resp.IsAppointmentRequest)
	assert.Equal(t, "APT-12AB34CD", resp.AppointmentID)
	assert.Contains(t, resp.Response, "successfully sent to the admin")
	assert.Contains(t, resp.Response, "Date: tomorrow")
	f.detector.AssertExpectations(t)
}

func TestHandleMessage_GeneralPathRetriesRestrictiveAnswer(t *testing.T) {
	f := newFixture(t)

	f.gatherer.On("Gather", mock.Anything, mock.Anything, mock.Anything).Return("context")
	f.gen.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Answer in a helpful, informative tone:")
	})).Return("I don't know about that.", nil)
	f.gen.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Provide a comprehensive, helpful response:")
	})).Return("Yes, ambulance services run around the clock from the emergency wing.", nil)
	f.detector.On("DetectIntent", mock.Anything).Return(false)

	resp := f.svc.HandleMessage(context.Background(), domain.ChatRequest{
		Message: "do you provide ambulance services", UserID: "u1",
	})

	assert.Contains(t, resp.Response, "ambulance services run around the clock")
	assert.NotContains(t, resp.Response, "I don't know")
}

func TestHandleMessage_GeneralInlineDoctorListCaptured(t *testing.T) {
	f := newFixture(t)

	inline := "Our cardiology specialists:\n1. Dr. A, Cardiology\n2. Dr. B, Cardiology"
	f.gatherer.On("Gather", mock.Anything, mock.Anything, mock.Anything).Return("context")
	f.gen.On("Generate", mock.Anything, mock.Anything).Return(inline, nil)
	f.detector.On("DetectIntent", mock.Anything).Return(false)

	resp := f.svc.HandleMessage(context.Background(), domain.ChatRequest{
		Message: "do you have cardiology specialists available here", UserID: "u1",
	})

	assert.Contains(t, resp.Response, "Tip:")
	snap := f.store.Snapshot(f.store.GetOrCreate("u1"))
	assert.Equal(t, domain.ListDoctors, snap.Kind)
	assert.Len(t, snap.List, 2)
}

func TestHandleMessage_PanicDegradesToApology(t *testing.T) {
	store := session.NewStore(30 * time.Minute)
	svc := NewChatService(store, panicGatherer{}, new(mockGenerator), nil, nil, testHospital())

	resp := svc.HandleMessage(context.Background(), domain.ChatRequest{Message: "list doctors", UserID: "u1"})

	assert.Contains(t, resp.Response, "apologize for the technical issue")
	assert.Contains(t, resp.Response, "0422-2324105")
}

func TestHandleMessage_ChatTurnSaved(t *testing.T) {
	store := session.NewStore(30 * time.Minute)
	chatLog := new(mockChatLog)
	chatLog.On("SaveTurn", mock.Anything, mock.MatchedBy(func(turn *domain.ChatTurn) bool {
		return turn.UserID == "u1" && turn.Message == "hello"
	})).Return(nil)

	svc := NewChatService(store, new(mockGatherer), new(mockGenerator), nil, chatLog, testHospital())
	svc.HandleMessage(context.Background(), domain.ChatRequest{Message: "hello", UserID: "u1"})

	chatLog.AssertExpectations(t)
}

func TestContextForConcurrentListUpdates(t *testing.T) {
	f := newFixture(t)
	sess := f.store.GetOrCreate("u1")

	entries := []domain.ListEntry{{Number: 1, Name: "Dr. A", Category: "Cardiology"}}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			f.store.SetList(sess, entries, domain.ListDoctors, "1. Dr. A, Cardiology")
			f.store.Clear(sess)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = f.svc.contextFor(sess)
		}
	}()
	wg.Wait()
}

func TestHandleMessage_RestrictiveDetectionFollowsHospitalName(t *testing.T) {
	store := session.NewStore(30 * time.Minute)
	gatherer := new(mockGatherer)
	gen := new(mockGenerator)
	detector := new(mockDetector)
	hospital := config.HospitalConfig{Name: "City Care Clinic", Phone: "044-1234567"}
	svc := NewChatService(store, gatherer, gen, detector, nil, hospital)

	gatherer.On("Gather", mock.Anything, mock.Anything, mock.Anything).Return("context")
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Answer in a helpful, informative tone:")
	})).Return("For details, please contact City Care Clinic directly.", nil)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Provide a comprehensive, helpful response:")
	})).Return("Ambulance services run around the clock from the emergency wing.", nil)
	detector.On("DetectIntent", mock.Anything).Return(false)

	resp := svc.HandleMessage(context.Background(), domain.ChatRequest{
		Message: "do you provide ambulance services", UserID: "u1",
	})

	assert.Contains(t, resp.Response, "around the clock")
	assert.NotContains(t, resp.Response, "please contact City Care Clinic directly")
}

func TestHandleMessage_RawOnlyListMissFallsBackToNoListMessage(t *testing.T) {
	f := newFixture(t)
	sess := f.store.GetOrCreate("u1")
	f.store.SetList(sess, nil, domain.ListDoctors, "Our doctors are available on weekdays.")

	resp := f.svc.HandleMessage(context.Background(), domain.ChatRequest{Message: "2", UserID: "u1"})

	assert.Contains(t, resp.Response, "don't have an active numbered list")
	assert.NotContains(t, resp.Response, "valid number from:")
}
