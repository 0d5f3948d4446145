package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/neuroprofile/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueAnalysis(sessionID string, rec models.Recording) error {
	args := m.Called(sessionID, rec)
	return args.Error(0)
}
