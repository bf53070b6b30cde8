package model

import "time"

// OperationStatus represents the state of an operation.
type OperationStatus string

const (
	// OperationStatusIdle is the status of a lane with nothing running.
	OperationStatusIdle OperationStatus = "idle"
	// OperationStatusRunning indicates the operation is in flight.
	OperationStatusRunning OperationStatus = "running"
	// OperationStatusCompleted indicates the operation finished successfully.
	OperationStatusCompleted OperationStatus = "completed"
	// OperationStatusCancelled indicates the operation was cancelled while running.
	OperationStatusCancelled OperationStatus = "cancelled"
	// OperationStatusFailed indicates the operation failed.
	OperationStatusFailed OperationStatus = "failed"
)

// Terminal returns true if the status is a final one.
func (s OperationStatus) Terminal() bool {
	switch s {
	case OperationStatusCompleted, OperationStatusCancelled, OperationStatusFailed:
		return true
	}
	return false
}

// MaxProgress is the progress of a completed operation.
const MaxProgress = 100

// Operation represents a single unit of tracked work.
type Operation struct {
	ID          string
	Kind        Kind
	Title       string
	Status      OperationStatus
	Progress    int
	StartedAt   time.Time
	CompletedAt *time.Time
	// Error is the failure reason, only set on failed operations.
	Error string
}

// HistoryEntry returns the history projection of a terminal operation.
func (o Operation) HistoryEntry() HistoryEntry {
	e := HistoryEntry{
		ID:        o.ID,
		Kind:      o.Kind,
		Title:     o.Title,
		Status:    o.Status,
		StartedAt: o.StartedAt,
		Error:     o.Error,
	}
	if o.CompletedAt != nil {
		e.CompletedAt = *o.CompletedAt
	}

	return e
}
