package lib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/slok/scanboard/internal/conventions"
	"github.com/slok/scanboard/internal/log"
	"github.com/slok/scanboard/internal/model"
	"github.com/slok/scanboard/internal/storage"
	"github.com/slok/scanboard/internal/storage/memory"
	"github.com/slok/scanboard/internal/storage/sqlite"
	"github.com/slok/scanboard/internal/tracker"
)

// Notifier receives the user facing notifications of the operations lifecycle.
type Notifier interface {
	// Rejected is called when an operation can't start because its kind is already running.
	Rejected(kind Kind, reason string)
	// Completed is called once per successfully completed operation.
	Completed(entry HistoryEntry)
}

// Config configures the SDK client.
//
// All fields are optional. An empty Config{} uses ~/.scanboard/scanboard.db for
// the history and the default kind profiles.
type Config struct {
	// DBPath is the SQLite history database path.
	// Default: ~/.scanboard/scanboard.db.
	DBPath string

	// InMemory keeps the history in memory instead of SQLite, DBPath is ignored.
	InMemory bool

	// Profiles override the progress profile of the kinds, kinds not present keep
	// their default profile.
	Profiles map[Kind]Profile

	// Notifier receives the rejected and completed notifications. Default: none.
	Notifier Notifier

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.DBPath == "" && !c.InMemory {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DBPath = conventions.DBPath(home)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Client is the main SDK entry point for tracking operations.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use.
type Client struct {
	tracker *tracker.Tracker
	history storage.HistoryRepository
	logger  log.Logger
	closeFn func() error
}

// New creates a new SDK client.
//
// The caller must call [Client.Close] when done to release the database
// connection. Typically used with defer:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var (
		history storage.HistoryRepository
		closeFn func() error
	)
	if cfg.InMemory {
		repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: cfg.Logger})
		if err != nil {
			return nil, fmt.Errorf("could not create repository: %w", err)
		}
		history = repo
	} else {
		repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: filepath.Clean(cfg.DBPath),
			Logger: cfg.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create repository: %w", err)
		}
		history = repo
		closeFn = repo.Close
	}

	var notifier tracker.Notifier
	if cfg.Notifier != nil {
		notifier = notifierAdapter{n: cfg.Notifier}
	}

	t, err := tracker.NewTracker(tracker.Config{
		History:  history,
		Notifier: notifier,
		Profiles: toInternalProfiles(cfg.Profiles),
		Logger:   cfg.Logger,
	})
	if err != nil {
		if closeFn != nil {
			_ = closeFn()
		}
		return nil, mapError(fmt.Errorf("could not create tracker: %w", err))
	}

	return &Client{
		tracker: t,
		history: history,
		logger:  cfg.Logger,
		closeFn: closeFn,
	}, nil
}

// Close cancels the running operations and releases the resources held by the client.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	for _, op := range c.tracker.Running() {
		if err := c.tracker.Cancel(context.Background(), op.ID); err != nil {
			c.logger.Warningf("Could not cancel operation %s: %s", op.ID, err)
		}
	}

	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}

// Start starts an operation of the kind and returns its ID.
//
// Returns [ErrRejected] if an operation of the same kind is already running.
func (c *Client) Start(ctx context.Context, kind Kind) (string, error) {
	id, err := c.tracker.Start(ctx, model.Kind(kind))
	if err != nil {
		return "", mapError(err)
	}
	return id, nil
}

// Get returns the running operation of the kind, if any.
func (c *Client) Get(kind Kind) (*Operation, bool) {
	op, ok := c.tracker.Get(model.Kind(kind))
	if !ok {
		return nil, false
	}
	res := fromInternalOperation(op)
	return &res, true
}

// GetByID returns an operation by ID, running or finished.
func (c *Client) GetByID(id string) (*Operation, error) {
	op, err := c.tracker.GetByID(id)
	if err != nil {
		return nil, mapError(err)
	}
	res := fromInternalOperation(op)
	return &res, nil
}

// Running returns the running operations sorted by kind.
func (c *Client) Running() []Operation {
	return fromInternalOperationList(c.tracker.Running())
}

// Cancel cancels a running operation. No more events are emitted for it once it returns.
func (c *Client) Cancel(ctx context.Context, id string) error {
	return mapError(c.tracker.Cancel(ctx, id))
}

// Fail finishes a running operation as failed.
func (c *Client) Fail(ctx context.Context, id string, reason error) error {
	return mapError(c.tracker.Fail(ctx, id, reason))
}

// Wait blocks until the operation finishes or the context is done.
func (c *Client) Wait(ctx context.Context, id string) (*Operation, error) {
	op, err := c.tracker.Wait(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	res := fromInternalOperation(op)
	return &res, nil
}

// Subscribe registers f to be called on every operation state transition and returns
// the function that deregisters it.
func (c *Client) Subscribe(f func(Event)) (unsubscribe func()) {
	return c.tracker.Subscribe(func(ev model.Event) {
		f(fromInternalEvent(ev))
	})
}

// History returns the finished operations, most recent first.
func (c *Client) History(ctx context.Context, opts HistoryOpts) ([]HistoryEntry, error) {
	if opts.Limit < 0 {
		return nil, fmt.Errorf("limit can't be negative: %w", ErrNotValid)
	}

	listOpts := storage.ListHistoryOpts{Limit: opts.Limit}
	if opts.Kind != "" {
		k := model.Kind(opts.Kind)
		if err := k.Validate(); err != nil {
			return nil, mapError(err)
		}
		listOpts.Kind = &k
	}

	entries, err := c.history.ListHistory(ctx, listOpts)
	if err != nil {
		return nil, mapError(fmt.Errorf("could not list history: %w", err))
	}

	return fromInternalHistoryList(entries), nil
}

type notifierAdapter struct {
	n Notifier
}

func (a notifierAdapter) Rejected(kind model.Kind, reason string) {
	a.n.Rejected(Kind(kind), reason)
}

func (a notifierAdapter) Completed(e model.HistoryEntry) {
	a.n.Completed(fromInternalHistoryList([]model.HistoryEntry{e})[0])
}
