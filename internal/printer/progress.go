package printer

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/slok/scanboard/internal/model"
)

const progressBarWidth = 40

// ProgressPrinter prints the tracker events as plain progress lines, one per event,
// so the output of multiple lanes can be interleaved.
type ProgressPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewProgressPrinter creates a new progress printer.
func NewProgressPrinter(w io.Writer) *ProgressPrinter {
	return &ProgressPrinter{w: w}
}

// Handle prints an event, it can be used directly as a tracker subscriber.
func (p *ProgressPrinter) Handle(ev model.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	op := ev.Operation
	switch ev.Type {
	case model.EventTypeStarted:
		fmt.Fprintf(p.w, "%s started (%s)\n", op.Title, op.ID)
	case model.EventTypeProgress:
		fmt.Fprintf(p.w, "  %s %3d%% %s\n", ProgressBar(op.Progress, progressBarWidth), op.Progress, op.Title)
	case model.EventTypeCompleted:
		fmt.Fprintf(p.w, "  %s %3d%% %s completed\n", ProgressBar(op.Progress, progressBarWidth), op.Progress, op.Title)
	case model.EventTypeCancelled:
		fmt.Fprintf(p.w, "%s cancelled at %d%%\n", op.Title, op.Progress)
	case model.EventTypeFailed:
		fmt.Fprintf(p.w, "%s failed: %s\n", op.Title, op.Error)
	}
}

// ProgressBar renders a fixed width text progress bar.
func ProgressBar(progress, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > model.MaxProgress {
		progress = model.MaxProgress
	}

	filled := progress * width / model.MaxProgress
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}
