// Package notify has the tracker notifier implementations, the user facing
// side of the operation lifecycle (the "toasts").
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/slok/scanboard/internal/log"
	"github.com/slok/scanboard/internal/model"
	"github.com/slok/scanboard/internal/tracker"
)

// Noop is a notifier that ignores everything.
var Noop tracker.Notifier = noop{}

type noop struct{}

func (noop) Rejected(model.Kind, string)   {}
func (noop) Completed(model.HistoryEntry) {}

// Logger notifies using a logger.
type Logger struct {
	logger log.Logger
}

// NewLogger returns a new logger notifier.
func NewLogger(logger log.Logger) *Logger {
	if logger == nil {
		logger = log.Noop
	}
	return &Logger{logger: logger.WithValues(log.Kv{"svc": "notify.Logger"})}
}

func (l *Logger) Rejected(kind model.Kind, reason string) {
	l.logger.WithValues(log.Kv{"kind": kind}).Warningf("Start rejected: %s", reason)
}

func (l *Logger) Completed(e model.HistoryEntry) {
	l.logger.WithValues(log.Kv{"kind": e.Kind, "id": e.ID}).Infof("%s completed", e.Title)
}

// Writer prints one line per notification, the terminal version of a toast.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter returns a new writer notifier.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Rejected(kind model.Kind, reason string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.w, "✗ %s already running: please wait for the current one to complete (%s)\n", kind.Title(), reason)
}

func (w *Writer) Completed(e model.HistoryEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.w, "✓ %s completed: your %s is ready to view\n", e.Title, e.Title)
}

// Multi fans out the notifications to multiple notifiers in order.
type Multi []tracker.Notifier

func (m Multi) Rejected(kind model.Kind, reason string) {
	for _, n := range m {
		n.Rejected(kind, reason)
	}
}

func (m Multi) Completed(e model.HistoryEntry) {
	for _, n := range m {
		n.Completed(e)
	}
}
