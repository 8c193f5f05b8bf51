package service

import (
	"context"

	"github.com/Rrens/hospital-chat/internal/domain"
	"github.com/Rrens/hospital-chat/internal/retrieval"
	"github.com/stretchr/testify/mock"
)

type mockGatherer struct {
	mock.Mock
}

func (m *mockGatherer) Gather(ctx context.Context, queries []string, params retrieval.Params) string {
	args := m.Called(ctx, queries, params)
	return args.String(0)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type mockDetector struct {
	mock.Mock
}

func (m *mockDetector) DetectIntent(message string) bool {
	args := m.Called(message)
	return args.Bool(0)
}

func (m *mockDetector) ExtractDetails(message string) domain.AppointmentDetails {
	args := m.Called(message)
	return args.Get(0).(domain.AppointmentDetails)
}

func (m *mockDetector) SaveRequest(ctx context.Context, req *domain.AppointmentRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// panicGatherer exercises the request-boundary recovery path
type panicGatherer struct{}

func (panicGatherer) Gather(context.Context, []string, retrieval.Params) string {
	panic("retrieval backend unavailable")
}

type mockChatLog struct {
	mock.Mock
}

func (m *mockChatLog) SaveTurn(ctx context.Context, turn *domain.ChatTurn) error {
	args := m.Called(ctx, turn)
	return args.Error(0)
}

func (m *mockChatLog) ListByUser(ctx context.Context, userID string, limit int) ([]domain.ChatTurn, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.ChatTurn), args.Error(1)
}
