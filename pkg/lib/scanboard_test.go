package lib_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/scanboard/pkg/lib"
)

var testProfiles = map[lib.Kind]lib.Profile{
	lib.KindAnalysis:       {TickInterval: time.Millisecond, MaxIncrement: 15, FinalizeAfter: 20 * time.Millisecond},
	lib.KindRepositoryScan: {FinalizeAfter: 10 * time.Millisecond},
	lib.KindScan:           {TickInterval: time.Millisecond, MaxIncrement: 15, FinalizeAfter: time.Hour},
}

type recordNotifier struct {
	mu        sync.Mutex
	rejected  []lib.Kind
	completed []string
}

func (r *recordNotifier) Rejected(kind lib.Kind, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, kind)
}

func (r *recordNotifier) Completed(e lib.HistoryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, e.ID)
}

func newTestClient(t *testing.T, cfg lib.Config) *lib.Client {
	t.Helper()

	if cfg.DBPath == "" {
		cfg.InMemory = true
	}
	if cfg.Profiles == nil {
		cfg.Profiles = testProfiles
	}

	client, err := lib.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func TestClientLifecycle(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	n := &recordNotifier{}
	client := newTestClient(t, lib.Config{Notifier: n})

	var (
		mu     sync.Mutex
		events []lib.EventType
	)
	unsubscribe := client.Subscribe(func(ev lib.Event) {
		if ev.Operation.Kind != lib.KindRepositoryScan {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev.Type)
	})
	defer unsubscribe()

	id, err := client.Start(ctx, lib.KindRepositoryScan)
	require.NoError(err)

	// Single flight.
	_, err = client.Start(ctx, lib.KindRepositoryScan)
	assert.ErrorIs(err, lib.ErrRejected)

	op, ok := client.Get(lib.KindRepositoryScan)
	require.True(ok)
	assert.Equal(id, op.ID)
	assert.Equal(lib.OperationStatusRunning, op.Status)
	assert.Len(client.Running(), 1)

	op, err = client.Wait(ctx, id)
	require.NoError(err)
	assert.Equal(lib.OperationStatusCompleted, op.Status)
	assert.Equal(100, op.Progress)
	assert.NotNil(op.CompletedAt)

	_, ok = client.Get(lib.KindRepositoryScan)
	assert.False(ok)

	mu.Lock()
	assert.Equal([]lib.EventType{lib.EventTypeStarted, lib.EventTypeCompleted}, events)
	mu.Unlock()

	n.mu.Lock()
	assert.Equal([]lib.Kind{lib.KindRepositoryScan}, n.rejected)
	assert.Equal([]string{id}, n.completed)
	n.mu.Unlock()

	entries, err := client.History(ctx, lib.HistoryOpts{})
	require.NoError(err)
	require.Len(entries, 1)
	assert.Equal(id, entries[0].ID)
	assert.Equal("Repository Scan", entries[0].Title)
}

func TestClientCancelAndFail(t *testing.T) {
	tests := map[string]struct {
		finish    func(ctx context.Context, c *lib.Client, id string) error
		expStatus lib.OperationStatus
		expError  string
	}{
		"Cancelling should finish the operation as cancelled.": {
			finish:    func(ctx context.Context, c *lib.Client, id string) error { return c.Cancel(ctx, id) },
			expStatus: lib.OperationStatusCancelled,
		},

		"Failing should finish the operation as failed with the reason.": {
			finish:    func(ctx context.Context, c *lib.Client, id string) error { return c.Fail(ctx, id, errors.New("boom")) },
			expStatus: lib.OperationStatusFailed,
			expError:  "boom",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			assert := assert.New(t)
			ctx := context.Background()

			client := newTestClient(t, lib.Config{})

			id, err := client.Start(ctx, lib.KindScan)
			require.NoError(err)

			require.NoError(test.finish(ctx, client, id))

			op, err := client.GetByID(id)
			require.NoError(err)
			assert.Equal(test.expStatus, op.Status)
			assert.Equal(test.expError, op.Error)

			// Finished operations can't be finished again.
			assert.ErrorIs(client.Cancel(ctx, id), lib.ErrNotValid)

			entries, err := client.History(ctx, lib.HistoryOpts{Kind: lib.KindScan})
			require.NoError(err)
			require.Len(entries, 1)
			assert.Equal(test.expStatus, entries[0].Status)
		})
	}
}

func TestClientErrors(t *testing.T) {
	tests := map[string]struct {
		call  func(c *lib.Client) error
		expIs error
	}{
		"Starting an unknown kind should fail.": {
			call: func(c *lib.Client) error {
				_, err := c.Start(context.Background(), "unknown")
				return err
			},
			expIs: lib.ErrInvalidKind,
		},
		"Getting an unknown operation should fail.": {
			call: func(c *lib.Client) error {
				_, err := c.GetByID("missing")
				return err
			},
			expIs: lib.ErrNotFound,
		},
		"Cancelling an unknown operation should fail.": {
			call:  func(c *lib.Client) error { return c.Cancel(context.Background(), "missing") },
			expIs: lib.ErrNotFound,
		},
		"Listing history with a negative limit should fail.": {
			call: func(c *lib.Client) error {
				_, err := c.History(context.Background(), lib.HistoryOpts{Limit: -1})
				return err
			},
			expIs: lib.ErrNotValid,
		},
		"Listing history of an unknown kind should fail.": {
			call: func(c *lib.Client) error {
				_, err := c.History(context.Background(), lib.HistoryOpts{Kind: "unknown"})
				return err
			},
			expIs: lib.ErrInvalidKind,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, lib.Config{})
			assert.ErrorIs(t, test.call(client), test.expIs)
		})
	}
}

func TestClientInvalidProfiles(t *testing.T) {
	_, err := lib.New(context.Background(), lib.Config{
		InMemory: true,
		Profiles: map[lib.Kind]lib.Profile{lib.KindScan: {FinalizeAfter: -1}},
	})
	assert.ErrorIs(t, err, lib.ErrNotValid)
}

func TestClientSQLiteHistoryPersists(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "scanboard.db")

	client, err := lib.New(ctx, lib.Config{DBPath: dbPath, Profiles: testProfiles})
	require.NoError(err)

	id, err := client.Start(ctx, lib.KindRepositoryScan)
	require.NoError(err)
	_, err = client.Wait(ctx, id)
	require.NoError(err)
	require.NoError(client.Close())

	// A new client sees the previous history.
	client = newTestClient(t, lib.Config{DBPath: dbPath})
	entries, err := client.History(ctx, lib.HistoryOpts{})
	require.NoError(err)
	require.Len(entries, 1)
	assert.Equal(t, id, entries[0].ID)
}
