package model

import (
	"fmt"
	"time"
)

// HistoryEntry is the read-only record of a finished operation.
type HistoryEntry struct {
	ID          string
	Kind        Kind
	Title       string
	Status      OperationStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Error       string
}

// Validate validates the history entry.
func (e HistoryEntry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("id is required: %w", ErrNotValid)
	}

	if err := e.Kind.Validate(); err != nil {
		return err
	}

	if !e.Status.Terminal() {
		return fmt.Errorf("status %q is not terminal: %w", e.Status, ErrNotValid)
	}

	if e.CompletedAt.IsZero() {
		return fmt.Errorf("completed at is required: %w", ErrNotValid)
	}

	return nil
}

// Succeeded returns true if the operation completed successfully.
func (e HistoryEntry) Succeeded() bool { return e.Status == OperationStatusCompleted }
