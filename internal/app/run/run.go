package run

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/slok/scanboard/internal/log"
	"github.com/slok/scanboard/internal/model"
)

// OperationTracker is the subset of the tracker the run service needs.
type OperationTracker interface {
	Start(ctx context.Context, kind model.Kind) (string, error)
	Wait(ctx context.Context, id string) (model.Operation, error)
	Cancel(ctx context.Context, id string) error
}

// ServiceConfig is the configuration for the run service.
type ServiceConfig struct {
	Tracker OperationTracker
	Logger  log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Tracker == nil {
		return fmt.Errorf("tracker is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Run"})

	return nil
}

// Service starts operations and waits until all of them finish.
type Service struct {
	tracker OperationTracker
	logger  log.Logger
}

// NewService creates a new run service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		tracker: cfg.Tracker,
		logger:  cfg.Logger,
	}, nil
}

// Request contains the parameters for a run.
type Request struct {
	// Kinds are started in order, a repeated kind is rejected while the first one is running.
	Kinds []model.Kind
}

func (r Request) validate() error {
	if len(r.Kinds) == 0 {
		return fmt.Errorf("at least one kind is required: %w", model.ErrNotValid)
	}

	for _, k := range r.Kinds {
		if err := k.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Response is the result of a run.
type Response struct {
	// Operations are the finished operations in start order.
	Operations []model.Operation
	// Rejected are the kinds that could not start because their lane was busy.
	Rejected []model.Kind
	// Interrupted is true when the context ended before the operations finished
	// and the running ones were cancelled.
	Interrupted bool
}

// Run starts one operation per requested kind and waits for all of them. If the context
// ends before they finish, the running operations are cancelled.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	resp := &Response{}
	ids := make([]string, 0, len(req.Kinds))
	for _, k := range req.Kinds {
		id, err := s.tracker.Start(ctx, k)
		if err != nil {
			if errors.Is(err, model.ErrRejected) {
				resp.Rejected = append(resp.Rejected, k)
				continue
			}
			s.cancelAll(ids)
			return nil, fmt.Errorf("could not start %s: %w", k, err)
		}
		s.logger.Debugf("Started %s operation %s", k, id)
		ids = append(ids, id)
	}

	ops := make([]model.Operation, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			op, err := s.wait(ctx, id)
			if err != nil {
				return fmt.Errorf("waiting operation %s: %w", id, err)
			}
			ops[i] = op
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp.Operations = ops
	resp.Interrupted = ctx.Err() != nil

	return resp, nil
}

// wait waits for the operation to finish, cancelling it when the context ends first.
func (s *Service) wait(ctx context.Context, id string) (model.Operation, error) {
	op, err := s.tracker.Wait(ctx, id)
	if err == nil {
		return op, nil
	}
	if ctx.Err() == nil {
		return model.Operation{}, err
	}

	s.logger.Infof("Cancelling operation %s", id)
	// The operation could have finished in the meantime.
	err = s.tracker.Cancel(context.Background(), id)
	if err != nil && !errors.Is(err, model.ErrNotValid) {
		return model.Operation{}, fmt.Errorf("could not cancel: %w", err)
	}

	return s.tracker.Wait(context.Background(), id)
}

func (s *Service) cancelAll(ids []string) {
	for _, id := range ids {
		if err := s.tracker.Cancel(context.Background(), id); err != nil && !errors.Is(err, model.ErrNotValid) {
			s.logger.Warningf("Could not cancel operation %s: %s", id, err)
		}
	}
}
