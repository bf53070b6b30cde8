// Package storagemock contains testify mocks for the storage interfaces.
package storagemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/slok/scanboard/internal/model"
	"github.com/slok/scanboard/internal/storage"
)

// MockHistoryRepository is a mock of storage.HistoryRepository.
type MockHistoryRepository struct {
	mock.Mock
}

var _ storage.HistoryRepository = &MockHistoryRepository{}

// AppendHistory mocks storage.HistoryRepository.AppendHistory.
func (m *MockHistoryRepository) AppendHistory(ctx context.Context, e model.HistoryEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

// ListHistory mocks storage.HistoryRepository.ListHistory.
func (m *MockHistoryRepository) ListHistory(ctx context.Context, opts storage.ListHistoryOpts) ([]model.HistoryEntry, error) {
	args := m.Called(ctx, opts)

	var entries []model.HistoryEntry
	if v := args.Get(0); v != nil {
		entries = v.([]model.HistoryEntry)
	}

	return entries, args.Error(1)
}
