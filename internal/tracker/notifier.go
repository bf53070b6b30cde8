package tracker

import "github.com/slok/scanboard/internal/model"

// Notifier receives the user facing lifecycle events of the tracker.
//
// Notifiers are called on the tracker control path, they must return fast
// and must not call back into the tracker.
type Notifier interface {
	// Rejected is called when a start is rejected because the lane is busy.
	Rejected(kind model.Kind, reason string)
	// Completed is called when an operation completes successfully.
	Completed(entry model.HistoryEntry)
}

type noopNotifier struct{}

func (noopNotifier) Rejected(model.Kind, string)   {}
func (noopNotifier) Completed(model.HistoryEntry) {}
