package history

import (
	"context"
	"fmt"

	"github.com/slok/scanboard/internal/log"
	"github.com/slok/scanboard/internal/model"
	"github.com/slok/scanboard/internal/storage"
)

// ServiceConfig is the configuration for the history service.
type ServiceConfig struct {
	Repository storage.HistoryRepository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.History"})

	return nil
}

// Service lists the finished operations history with optional filtering.
type Service struct {
	repo   storage.HistoryRepository
	logger log.Logger
}

// NewService creates a new history service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the history request parameters.
type Request struct {
	// Kind is an optional filter to only show entries of this kind.
	Kind *model.Kind
	// StatusFilter is an optional filter to only show entries with this status.
	StatusFilter *model.OperationStatus
	// Limit is the maximum number of entries, 0 means no limit.
	Limit int
}

func (r Request) validate() error {
	if r.Kind != nil {
		if err := r.Kind.Validate(); err != nil {
			return err
		}
	}

	if r.StatusFilter != nil && !r.StatusFilter.Terminal() {
		return fmt.Errorf("history has only finished operations, %q is not a finished status: %w", *r.StatusFilter, model.ErrNotValid)
	}

	if r.Limit < 0 {
		return fmt.Errorf("limit can't be negative: %w", model.ErrNotValid)
	}

	return nil
}

// Run lists the history entries, most recent first.
func (s *Service) Run(ctx context.Context, req Request) ([]model.HistoryEntry, error) {
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	s.logger.Debugf("listing history with kind %v, status %v and limit %d", req.Kind, req.StatusFilter, req.Limit)

	opts := storage.ListHistoryOpts{Kind: req.Kind}
	// The status filter is applied here, so the limit too.
	if req.StatusFilter == nil {
		opts.Limit = req.Limit
	}

	entries, err := s.repo.ListHistory(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("could not list history: %w", err)
	}

	if req.StatusFilter != nil {
		filtered := make([]model.HistoryEntry, 0, len(entries))
		for _, e := range entries {
			if e.Status != *req.StatusFilter {
				continue
			}
			filtered = append(filtered, e)
			if req.Limit > 0 && len(filtered) == req.Limit {
				break
			}
		}
		entries = filtered
	}

	s.logger.Debugf("found %d history entries", len(entries))
	return entries, nil
}
