package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/slok/scanboard/internal/log"
	"github.com/slok/scanboard/internal/model"
	"github.com/slok/scanboard/internal/storage"
	"github.com/slok/scanboard/internal/storage/sqlite"
	"github.com/slok/scanboard/internal/storage/sqlite/migrations"
)

var baseTime = time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)

func entryFixture(id string, kind model.Kind, status model.OperationStatus) model.HistoryEntry {
	return model.HistoryEntry{
		ID:          id,
		Kind:        kind,
		Title:       kind.Title(),
		Status:      status,
		StartedAt:   baseTime,
		CompletedAt: baseTime.Add(5 * time.Second),
	}
}

func newRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
		Logger: log.Noop,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func ptrKind(k model.Kind) *model.Kind { return &k }

func TestRepositoryAppendAndList(t *testing.T) {
	tests := map[string]struct {
		entries []model.HistoryEntry
		opts    storage.ListHistoryOpts
		exp     []model.HistoryEntry
		expErr  error
	}{
		"Listing an empty history should return an empty list.": {
			exp: []model.HistoryEntry{},
		},

		"Entries should be listed in completion order, most recent first.": {
			entries: []model.HistoryEntry{
				entryFixture("01A", model.KindAnalysis, model.OperationStatusCompleted),
				entryFixture("01B", model.KindScan, model.OperationStatusCompleted),
				entryFixture("01C", model.KindDependency, model.OperationStatusCompleted),
			},
			exp: []model.HistoryEntry{
				entryFixture("01C", model.KindDependency, model.OperationStatusCompleted),
				entryFixture("01B", model.KindScan, model.OperationStatusCompleted),
				entryFixture("01A", model.KindAnalysis, model.OperationStatusCompleted),
			},
		},

		"Failed entries should keep their error.": {
			entries: []model.HistoryEntry{
				func() model.HistoryEntry {
					e := entryFixture("01A", model.KindScan, model.OperationStatusFailed)
					e.Error = "scanner crashed"
					return e
				}(),
			},
			exp: []model.HistoryEntry{
				func() model.HistoryEntry {
					e := entryFixture("01A", model.KindScan, model.OperationStatusFailed)
					e.Error = "scanner crashed"
					return e
				}(),
			},
		},

		"Filtering by kind and limiting should be applied together.": {
			entries: []model.HistoryEntry{
				entryFixture("01A", model.KindAnalysis, model.OperationStatusCompleted),
				entryFixture("01B", model.KindScan, model.OperationStatusCompleted),
				entryFixture("01C", model.KindAnalysis, model.OperationStatusCancelled),
				entryFixture("01D", model.KindAnalysis, model.OperationStatusCompleted),
			},
			opts: storage.ListHistoryOpts{Kind: ptrKind(model.KindAnalysis), Limit: 2},
			exp: []model.HistoryEntry{
				entryFixture("01D", model.KindAnalysis, model.OperationStatusCompleted),
				entryFixture("01C", model.KindAnalysis, model.OperationStatusCancelled),
			},
		},

		"Appending the same operation twice should fail.": {
			entries: []model.HistoryEntry{
				entryFixture("01A", model.KindAnalysis, model.OperationStatusCompleted),
				entryFixture("01A", model.KindAnalysis, model.OperationStatusCompleted),
			},
			expErr: model.ErrAlreadyExists,
		},

		"Appending an invalid entry should fail.": {
			entries: []model.HistoryEntry{
				entryFixture("01A", "lint", model.OperationStatusCompleted),
			},
			expErr: model.ErrInvalidKind,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			ctx := context.Background()

			repo := newRepo(t)

			var err error
			for _, e := range test.entries {
				if err = repo.AppendHistory(ctx, e); err != nil {
					break
				}
			}

			if test.expErr != nil {
				assert.True(errors.Is(err, test.expErr), "expected %v, got %v", test.expErr, err)
				return
			}
			require.NoError(err)

			got, err := repo.ListHistory(ctx, test.opts)
			require.NoError(err)
			assert.Equal(test.exp, got)
		})
	}
}

func TestRepositoryPersistsAcrossReopen(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "history.db")

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{DBPath: dbPath})
	require.NoError(err)
	require.NoError(repo.AppendHistory(ctx, entryFixture("01A", model.KindScan, model.OperationStatusCompleted)))
	require.NoError(repo.Close())

	repo, err = sqlite.NewRepository(ctx, sqlite.RepositoryConfig{DBPath: dbPath})
	require.NoError(err)
	defer repo.Close()

	got, err := repo.ListHistory(ctx, storage.ListHistoryOpts{})
	require.NoError(err)
	require.Len(got, 1)
	assert.Equal(t, "01A", got[0].ID)
}

func TestNewRepositoryRequiresPath(t *testing.T) {
	_, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{})
	assert.Error(t, err)
}

func TestMigratorVersion(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrations.db"))
	require.NoError(err)
	t.Cleanup(func() { db.Close() })

	m, err := migrations.NewMigrator(db, log.Noop)
	require.NoError(err)

	v, err := m.Version(ctx)
	require.NoError(err)
	assert.Equal(t, uint(0), v)

	require.NoError(m.Up(ctx))
	v, err = m.Version(ctx)
	require.NoError(err)
	assert.Equal(t, uint(1), v)

	require.NoError(m.Down(ctx))
	v, err = m.Version(ctx)
	require.NoError(err)
	assert.Equal(t, uint(0), v)
}
