package lib

import (
	"errors"
	"time"

	"github.com/slok/scanboard/internal/model"
	"github.com/slok/scanboard/internal/tracker"
)

var (
	// ErrNotFound is returned when an operation does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned when the input or the operation is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrRejected is returned when an operation of the same kind is already running.
	ErrRejected = errors.New("operation of this kind already running")
	// ErrInvalidKind is returned when a kind is not part of the catalog.
	ErrInvalidKind = errors.New("invalid operation kind")
)

// Kind identifies the type of an operation.
type Kind string

const (
	KindCodeQuality       Kind = Kind(model.KindCodeQuality)
	KindVulnerability     Kind = Kind(model.KindVulnerability)
	KindDependency        Kind = Kind(model.KindDependency)
	KindAnalysis          Kind = Kind(model.KindAnalysis)
	KindScan              Kind = Kind(model.KindScan)
	KindRepositoryScan    Kind = Kind(model.KindRepositoryScan)
	KindExport            Kind = Kind(model.KindExport)
	KindRepositoryConnect Kind = Kind(model.KindRepositoryConnect)
)

// Title returns the human readable label of the kind.
func (k Kind) Title() string { return model.Kind(k).Title() }

// OperationStatus represents the lifecycle state of an operation.
//
//	running -> completed | cancelled | failed
type OperationStatus string

const (
	OperationStatusRunning   OperationStatus = OperationStatus(model.OperationStatusRunning)
	OperationStatusCompleted OperationStatus = OperationStatus(model.OperationStatusCompleted)
	OperationStatusCancelled OperationStatus = OperationStatus(model.OperationStatusCancelled)
	OperationStatusFailed    OperationStatus = OperationStatus(model.OperationStatusFailed)
)

// Operation is a read-only snapshot of an operation at the time of the API call.
type Operation struct {
	ID     string
	Kind   Kind
	Title  string
	Status OperationStatus
	// Progress is in the [0, 100] range.
	Progress  int
	StartedAt time.Time
	// CompletedAt is nil while the operation is running.
	CompletedAt *time.Time
	// Error is the failure reason of failed operations.
	Error string
}

// HistoryEntry is a finished operation.
type HistoryEntry struct {
	ID          string
	Kind        Kind
	Title       string
	Status      OperationStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Error       string
}

// EventType is the type of an operation state transition.
type EventType string

const (
	EventTypeStarted   EventType = EventType(model.EventTypeStarted)
	EventTypeProgress  EventType = EventType(model.EventTypeProgress)
	EventTypeCompleted EventType = EventType(model.EventTypeCompleted)
	EventTypeCancelled EventType = EventType(model.EventTypeCancelled)
	EventTypeFailed    EventType = EventType(model.EventTypeFailed)
)

// Event is an operation state transition.
type Event struct {
	Type      EventType
	Operation Operation
	At        time.Time
}

// Profile tunes how the operations of a kind progress.
type Profile struct {
	// TickInterval is the progress advance cadence, 0 disables ticking.
	TickInterval time.Duration
	// MaxIncrement is the exclusive upper bound of the random increment on every tick.
	MaxIncrement int
	// FinalizeAfter is when the operation completes after it started.
	FinalizeAfter time.Duration
	// Saturation is one of "hold" (default), "display" or "finalize".
	Saturation string
}

// HistoryOpts are the history listing options.
type HistoryOpts struct {
	// Kind filters by kind, empty means all.
	Kind Kind
	// Limit is the maximum number of entries, 0 means no limit.
	Limit int
}

func fromInternalOperation(op model.Operation) Operation {
	return Operation{
		ID:          op.ID,
		Kind:        Kind(op.Kind),
		Title:       op.Title,
		Status:      OperationStatus(op.Status),
		Progress:    op.Progress,
		StartedAt:   op.StartedAt,
		CompletedAt: op.CompletedAt,
		Error:       op.Error,
	}
}

func fromInternalOperationList(ops []model.Operation) []Operation {
	res := make([]Operation, 0, len(ops))
	for _, op := range ops {
		res = append(res, fromInternalOperation(op))
	}
	return res
}

func fromInternalHistoryList(es []model.HistoryEntry) []HistoryEntry {
	res := make([]HistoryEntry, 0, len(es))
	for _, e := range es {
		res = append(res, HistoryEntry{
			ID:          e.ID,
			Kind:        Kind(e.Kind),
			Title:       e.Title,
			Status:      OperationStatus(e.Status),
			StartedAt:   e.StartedAt,
			CompletedAt: e.CompletedAt,
			Error:       e.Error,
		})
	}
	return res
}

func fromInternalEvent(ev model.Event) Event {
	return Event{
		Type:      EventType(ev.Type),
		Operation: fromInternalOperation(ev.Operation),
		At:        ev.At,
	}
}

func toInternalProfiles(ps map[Kind]Profile) map[model.Kind]tracker.Profile {
	if ps == nil {
		return nil
	}

	profiles := tracker.DefaultProfiles()
	for k, p := range ps {
		profiles[model.Kind(k)] = tracker.Profile{
			TickInterval:  p.TickInterval,
			MaxIncrement:  p.MaxIncrement,
			FinalizeAfter: p.FinalizeAfter,
			Saturation:    tracker.SaturationMode(p.Saturation),
		}
	}
	return profiles
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return joinErrors(err, ErrNotFound)
	case errors.Is(err, model.ErrRejected):
		return joinErrors(err, ErrRejected)
	case errors.Is(err, model.ErrInvalidKind):
		return joinErrors(err, ErrInvalidKind)
	case errors.Is(err, model.ErrNotValid):
		return joinErrors(err, ErrNotValid)
	default:
		return err
	}
}

func joinErrors(original, sentinel error) error {
	return &mappedError{original: original, sentinel: sentinel}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
