package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slok/scanboard/internal/model"
)

func TestHistoryEntryValidate(t *testing.T) {
	base := model.HistoryEntry{
		ID:          "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Kind:        model.KindVulnerability,
		Title:       "Vulnerability Summary",
		Status:      model.OperationStatusCompleted,
		StartedAt:   time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC),
		CompletedAt: time.Date(2026, 1, 30, 10, 0, 5, 0, time.UTC),
	}

	tests := map[string]struct {
		entry  model.HistoryEntry
		expErr error
	}{
		"valid entry": {
			entry: base,
		},
		"cancelled entries are valid": {
			entry: func() model.HistoryEntry {
				e := base
				e.Status = model.OperationStatusCancelled
				return e
			}(),
		},
		"missing id": {
			entry: func() model.HistoryEntry {
				e := base
				e.ID = ""
				return e
			}(),
			expErr: model.ErrNotValid,
		},
		"unknown kind": {
			entry: func() model.HistoryEntry {
				e := base
				e.Kind = "lint"
				return e
			}(),
			expErr: model.ErrInvalidKind,
		},
		"running status is not terminal": {
			entry: func() model.HistoryEntry {
				e := base
				e.Status = model.OperationStatusRunning
				return e
			}(),
			expErr: model.ErrNotValid,
		},
		"missing completion time": {
			entry: func() model.HistoryEntry {
				e := base
				e.CompletedAt = time.Time{}
				return e
			}(),
			expErr: model.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := test.entry.Validate()
			if test.expErr != nil {
				assert.True(t, errors.Is(err, test.expErr), "expected %v, got %v", test.expErr, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOperationHistoryEntry(t *testing.T) {
	startedAt := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)
	completedAt := startedAt.Add(5 * time.Second)

	op := model.Operation{
		ID:          "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Kind:        model.KindAnalysis,
		Title:       "Code Analysis",
		Status:      model.OperationStatusCompleted,
		Progress:    100,
		StartedAt:   startedAt,
		CompletedAt: &completedAt,
	}

	exp := model.HistoryEntry{
		ID:          "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Kind:        model.KindAnalysis,
		Title:       "Code Analysis",
		Status:      model.OperationStatusCompleted,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
	}
	assert.Equal(t, exp, op.HistoryEntry())
	assert.True(t, op.HistoryEntry().Succeeded())
}
