package storage

import (
	"context"

	"github.com/slok/scanboard/internal/model"
)

// ListHistoryOpts are the options to filter the history listing.
type ListHistoryOpts struct {
	// Kind only returns entries of this kind when set.
	Kind *model.Kind
	// Limit caps the number of returned entries, 0 means no limit.
	Limit int
}

// HistoryRepository is the append-only log of finished operations.
type HistoryRepository interface {
	// AppendHistory records a finished operation as the most recent entry.
	AppendHistory(ctx context.Context, e model.HistoryEntry) error
	// ListHistory returns the entries most-recent-first.
	ListHistory(ctx context.Context, opts ListHistoryOpts) ([]model.HistoryEntry, error)
}
