package model

import "time"

// EventType is the type of an operation state transition.
type EventType string

const (
	EventTypeStarted   EventType = "started"
	EventTypeProgress  EventType = "progress"
	EventTypeCompleted EventType = "completed"
	EventTypeCancelled EventType = "cancelled"
	EventTypeFailed    EventType = "failed"
)

// Event is emitted on every operation state transition.
type Event struct {
	Type      EventType
	Operation Operation
	At        time.Time
}
