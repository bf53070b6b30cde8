package notify_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slok/scanboard/internal/log"
	"github.com/slok/scanboard/internal/model"
	"github.com/slok/scanboard/internal/notify"
	"github.com/slok/scanboard/internal/tracker"
)

func TestWriter(t *testing.T) {
	entry := model.HistoryEntry{
		ID:          "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Kind:        model.KindDependency,
		Title:       "Dependency Audit",
		Status:      model.OperationStatusCompleted,
		CompletedAt: time.Date(2026, 1, 30, 10, 0, 5, 0, time.UTC),
	}

	tests := map[string]struct {
		notify func(n tracker.Notifier)
		expOut string
	}{
		"Rejections should be printed.": {
			notify: func(n tracker.Notifier) { n.Rejected(model.KindAnalysis, "operation of this kind already running") },
			expOut: "✗ Code Analysis already running: please wait for the current one to complete (operation of this kind already running)\n",
		},

		"Completions should be printed.": {
			notify: func(n tracker.Notifier) { n.Completed(entry) },
			expOut: "✓ Dependency Audit completed: your Dependency Audit is ready to view\n",
		},

		"Multi notifier should fan out to every notifier.": {
			notify: func(n tracker.Notifier) {
				notify.Multi{n, n, notify.Noop, notify.NewLogger(log.Noop)}.Completed(entry)
			},
			expOut: "✓ Dependency Audit completed: your Dependency Audit is ready to view\n" +
				"✓ Dependency Audit completed: your Dependency Audit is ready to view\n",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			test.notify(notify.NewWriter(&out))
			assert.Equal(t, test.expOut, out.String())
		})
	}
}
