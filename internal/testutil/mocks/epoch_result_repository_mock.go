package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/neuroprofile/internal/models"
)

// MockEpochResultRepository is a mock implementation of repository.EpochResultRepository
type MockEpochResultRepository struct {
	mock.Mock
}

func (m *MockEpochResultRepository) InsertBatch(ctx context.Context, results []models.EpochResult) error {
	args := m.Called(ctx, results)
	return args.Error(0)
}

func (m *MockEpochResultRepository) ListForSession(ctx context.Context, sessionID string) ([]models.EpochResult, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EpochResult), args.Error(1)
}

func (m *MockEpochResultRepository) LabelCounts(ctx context.Context) ([]models.LabelTotal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LabelTotal), args.Error(1)
}
