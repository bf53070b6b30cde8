// Package tracker implements the long running operation tracker.
//
// The tracker owns every operation, it allows a single running operation per
// kind (lane), drives the operation progress with two independent timers (tick
// and finalize) and records every finished operation in the history log.
//
// All the state transitions, timer callbacks and subscriber calls are
// serialized by the tracker, so subscribers observe the events of an operation
// in order (started, progress..., terminal) and always before the lane is freed.
package tracker

import (
	"context"
	"crypto/rand"
	"fmt"
	mathrand "math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/scanboard/internal/clock"
	"github.com/slok/scanboard/internal/log"
	"github.com/slok/scanboard/internal/model"
	"github.com/slok/scanboard/internal/storage"
	"github.com/slok/scanboard/internal/storage/memory"
)

// Config is the configuration of the tracker.
type Config struct {
	Clock    clock.Clock
	History  storage.HistoryRepository
	Notifier Notifier
	// Profiles are the progress driver profiles by kind, kinds without a profile can't be started.
	Profiles map[model.Kind]Profile
	// Increment returns a random value in [0, max).
	Increment func(max int) int
	// IDGenerator returns a new unique operation ID.
	IDGenerator func(now time.Time) string
	Logger      log.Logger
}

func (c *Config) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "tracker.Tracker"})

	if c.Clock == nil {
		c.Clock = clock.Real
	}

	if c.Notifier == nil {
		c.Notifier = noopNotifier{}
	}

	if c.History == nil {
		h, err := memory.NewRepository(memory.RepositoryConfig{Logger: c.Logger})
		if err != nil {
			return fmt.Errorf("could not create memory history: %w", err)
		}
		c.History = h
	}

	if c.Profiles == nil {
		c.Profiles = DefaultProfiles()
	}
	for k, p := range c.Profiles {
		if err := k.Validate(); err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("profile %q: %w", k, err)
		}
	}

	if c.Increment == nil {
		c.Increment = mathrand.IntN
	}

	if c.IDGenerator == nil {
		entropy := ulid.Monotonic(rand.Reader, 0)
		c.IDGenerator = func(now time.Time) string {
			return ulid.MustNew(ulid.Timestamp(now), entropy).String()
		}
	}

	return nil
}

// Tracker tracks long running operations.
type Tracker struct {
	clock     clock.Clock
	history   storage.HistoryRepository
	notifier  Notifier
	profiles  map[model.Kind]Profile
	increment func(max int) int
	newID     func(now time.Time) string
	logger    log.Logger

	mu          sync.Mutex
	lanes       map[model.Kind]*run
	runs        map[string]*run
	subscribers []subscriber
	nextSubID   int
}

// run is the tracker internal state of one operation.
type run struct {
	op      model.Operation
	profile Profile
	// tick and finalize are the progress driver timers, nil when not armed.
	tick     clock.Timer
	finalize clock.Timer
	done     chan struct{}
}

type subscriber struct {
	id int
	f  func(model.Event)
}

// NewTracker returns a new tracker.
func NewTracker(cfg Config) (*Tracker, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Tracker{
		clock:     cfg.Clock,
		history:   cfg.History,
		notifier:  cfg.Notifier,
		profiles:  cfg.Profiles,
		increment: cfg.Increment,
		newID:     cfg.IDGenerator,
		logger:    cfg.Logger,
		lanes:     map[model.Kind]*run{},
		runs:      map[string]*run{},
	}, nil
}

// Start starts a new operation of the kind and returns its ID.
// It returns model.ErrRejected if an operation of the same kind is already running.
func (t *Tracker) Start(ctx context.Context, kind model.Kind) (string, error) {
	logger := t.logger.WithCtxValues(ctx).WithValues(log.Kv{"kind": kind})

	if err := kind.Validate(); err != nil {
		return "", err
	}
	profile, ok := t.profiles[kind]
	if !ok {
		return "", fmt.Errorf("%q has no progress profile: %w", kind, model.ErrInvalidKind)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if active, ok := t.lanes[kind]; ok {
		logger.Warningf("Start rejected, operation %s is running", active.op.ID)
		t.notifier.Rejected(kind, model.ErrRejected.Error())
		return "", fmt.Errorf("%s: %w", kind, model.ErrRejected)
	}

	now := t.clock.Now()
	id := t.newID(now)
	if _, ok := t.runs[id]; ok {
		return "", fmt.Errorf("operation %s: %w", id, model.ErrAlreadyExists)
	}

	r := &run{
		op: model.Operation{
			ID:        id,
			Kind:      kind,
			Title:     kind.Title(),
			Status:    model.OperationStatusRunning,
			Progress:  0,
			StartedAt: now,
		},
		profile: profile,
		done:    make(chan struct{}),
	}
	t.lanes[kind] = r
	t.runs[id] = r

	t.emit(model.EventTypeStarted, r)
	t.drive(r)

	logger.Debugf("Operation %s started", id)
	return id, nil
}

// Get returns the active operation of the kind lane, if any.
func (t *Tracker) Get(kind model.Kind) (model.Operation, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.lanes[kind]
	if !ok {
		return model.Operation{}, false
	}
	return r.snapshot(), true
}

// GetByID returns any operation known by the tracker, running or finished.
func (t *Tracker) GetByID(id string) (model.Operation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.runs[id]
	if !ok {
		return model.Operation{}, fmt.Errorf("operation %s: %w", id, model.ErrNotFound)
	}
	return r.snapshot(), nil
}

// Running returns the running operations sorted by kind.
func (t *Tracker) Running() []model.Operation {
	t.mu.Lock()
	defer t.mu.Unlock()

	ops := make([]model.Operation, 0, len(t.lanes))
	for _, r := range t.lanes {
		ops = append(ops, r.snapshot())
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Kind < ops[j].Kind })

	return ops
}

// Cancel cancels a running operation. Once it returns no more events will be
// emitted for the operation.
func (t *Tracker) Cancel(ctx context.Context, id string) error {
	return t.terminate(ctx, id, model.OperationStatusCancelled, nil)
}

// Fail finishes a running operation as failed with the reason.
func (t *Tracker) Fail(ctx context.Context, id string, reason error) error {
	if reason == nil {
		return fmt.Errorf("failure reason is required: %w", model.ErrNotValid)
	}
	return t.terminate(ctx, id, model.OperationStatusFailed, reason)
}

// History returns the finished operations, most recent first.
func (t *Tracker) History(ctx context.Context) ([]model.HistoryEntry, error) {
	entries, err := t.history.ListHistory(ctx, storage.ListHistoryOpts{})
	if err != nil {
		return nil, fmt.Errorf("could not list history: %w", err)
	}
	return entries, nil
}

// Subscribe registers f to be called on every operation state transition.
// The returned function deregisters it.
func (t *Tracker) Subscribe(f func(model.Event)) (unsubscribe func()) {
	if f == nil {
		return func() {}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextSubID++
	id := t.nextSubID
	t.subscribers = append(t.subscribers, subscriber{id: id, f: f})

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		for i, s := range t.subscribers {
			if s.id == id {
				t.subscribers = append(t.subscribers[:i:i], t.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Wait blocks until the operation reaches a terminal status or the context is done.
func (t *Tracker) Wait(ctx context.Context, id string) (model.Operation, error) {
	t.mu.Lock()
	r, ok := t.runs[id]
	t.mu.Unlock()
	if !ok {
		return model.Operation{}, fmt.Errorf("operation %s: %w", id, model.ErrNotFound)
	}

	select {
	case <-r.done:
	case <-ctx.Done():
		return model.Operation{}, ctx.Err()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return r.snapshot(), nil
}

func (t *Tracker) terminate(ctx context.Context, id string, status model.OperationStatus, reason error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.runs[id]
	if !ok {
		return fmt.Errorf("operation %s: %w", id, model.ErrNotFound)
	}
	if r.op.Status.Terminal() {
		return fmt.Errorf("operation %s already %s: %w", id, r.op.Status, model.ErrNotValid)
	}

	r.stop()
	if reason != nil {
		r.op.Error = reason.Error()
	}
	t.finish(ctx, r, status)

	return nil
}

// finish moves a running operation to a terminal status, records it and frees its lane.
// It must be called with the lock held and the driver timers stopped.
func (t *Tracker) finish(ctx context.Context, r *run, status model.OperationStatus) {
	now := t.clock.Now()
	r.op.Status = status
	r.op.CompletedAt = &now
	if status == model.OperationStatusCompleted {
		r.op.Progress = model.MaxProgress
	}

	entry := r.op.HistoryEntry()
	if err := t.history.AppendHistory(ctx, entry); err != nil {
		t.logger.Errorf("Could not record operation %s on history: %s", r.op.ID, err)
	}

	switch status {
	case model.OperationStatusCompleted:
		t.emit(model.EventTypeCompleted, r)
		t.notifier.Completed(entry)
		t.logger.Infof("Operation %s (%s) completed", r.op.ID, r.op.Kind)
	case model.OperationStatusCancelled:
		t.emit(model.EventTypeCancelled, r)
		t.logger.Infof("Operation %s (%s) cancelled", r.op.ID, r.op.Kind)
	case model.OperationStatusFailed:
		t.emit(model.EventTypeFailed, r)
		t.logger.Warningf("Operation %s (%s) failed: %s", r.op.ID, r.op.Kind, r.op.Error)
	}

	delete(t.lanes, r.op.Kind)
	close(r.done)
}

// emit must be called with the lock held.
func (t *Tracker) emit(typ model.EventType, r *run) {
	ev := model.Event{
		Type:      typ,
		Operation: r.snapshot(),
		At:        t.clock.Now(),
	}

	// Copy so subscribers can't change the list while we are iterating.
	subs := make([]subscriber, len(t.subscribers))
	copy(subs, t.subscribers)
	for _, s := range subs {
		s.f(ev)
	}
}

func (r *run) snapshot() model.Operation {
	op := r.op
	if r.op.CompletedAt != nil {
		completedAt := *r.op.CompletedAt
		op.CompletedAt = &completedAt
	}
	return op
}
