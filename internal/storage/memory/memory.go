package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/slok/scanboard/internal/log"
	"github.com/slok/scanboard/internal/model"
	"github.com/slok/scanboard/internal/storage"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	// MaxEntries bounds the history, oldest entries are evicted first. 0 means unbounded.
	MaxEntries int
	Logger     log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.MaxEntries < 0 {
		return fmt.Errorf("max entries can't be negative")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.HistoryRepository.
type Repository struct {
	// entries are stored in append order, the last one is the most recent.
	entries    []model.HistoryEntry
	ids        map[string]struct{}
	maxEntries int
	mu         sync.RWMutex
	logger     log.Logger
}

var _ storage.HistoryRepository = &Repository{}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		ids:        make(map[string]struct{}),
		maxEntries: cfg.MaxEntries,
		logger:     cfg.Logger,
	}, nil
}

// AppendHistory records a new history entry.
func (r *Repository) AppendHistory(ctx context.Context, e model.HistoryEntry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("invalid history entry: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ids[e.ID]; ok {
		return fmt.Errorf("history entry %s: %w", e.ID, model.ErrAlreadyExists)
	}

	r.entries = append(r.entries, e)
	r.ids[e.ID] = struct{}{}

	if r.maxEntries > 0 && len(r.entries) > r.maxEntries {
		// Evicted ids are kept so an operation is never recorded twice.
		evicted := r.entries[:len(r.entries)-r.maxEntries]
		r.entries = append([]model.HistoryEntry(nil), r.entries[len(evicted):]...)
		r.logger.Debugf("Evicted %d history entries", len(evicted))
	}

	r.logger.Debugf("Appended history entry: %s", e.ID)
	return nil
}

// ListHistory returns the history entries most-recent-first.
func (r *Repository) ListHistory(ctx context.Context, opts storage.ListHistoryOpts) ([]model.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]model.HistoryEntry, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if opts.Kind != nil && e.Kind != *opts.Kind {
			continue
		}
		entries = append(entries, e)
		if opts.Limit > 0 && len(entries) == opts.Limit {
			break
		}
	}

	return entries, nil
}
