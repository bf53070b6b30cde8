// Package tui renders the tracked operations as an interactive terminal dashboard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/slok/scanboard/internal/model"
)

const (
	toastDismissDelay = 5 * time.Second
	maxToasts         = 3
	barWidth          = 40
	titleWidth        = 24
)

// EventMsg carries a tracker event into the dashboard.
type EventMsg struct {
	Event model.Event
}

// NotificationMsg carries a user notification into the dashboard.
type NotificationMsg struct {
	Success bool
	Title   string
	Message string
}

// DoneMsg tells the dashboard all the operations are finished.
type DoneMsg struct {
	Err error
}

type toastDismissMsg struct {
	id int
}

type cancelErrorMsg struct {
	err error
}

// Canceller cancels running operations.
type Canceller interface {
	Cancel(ctx context.Context, id string) error
}

type lane struct {
	op  model.Operation
	bar progress.Model
}

type toast struct {
	id int
	NotificationMsg
}

// DashboardConfig is the dashboard configuration.
type DashboardConfig struct {
	// Canceller is optional, without it operations can't be cancelled from the dashboard.
	Canceller Canceller
	// ToastDelay is how long a notification stays on screen.
	ToastDelay time.Duration
}

func (c *DashboardConfig) defaults() {
	if c.ToastDelay <= 0 {
		c.ToastDelay = toastDismissDelay
	}
}

// Dashboard is the bubbletea model of the operations dashboard.
type Dashboard struct {
	canceller  Canceller
	toastDelay time.Duration

	lanes    []lane
	byID     map[string]int
	selected int

	toasts      []toast
	nextToastID int

	err      error
	quitting bool
}

// NewDashboard returns a new dashboard.
func NewDashboard(cfg DashboardConfig) Dashboard {
	cfg.defaults()

	return Dashboard{
		canceller:  cfg.Canceller,
		toastDelay: cfg.ToastDelay,
		byID:       map[string]int{},
	}
}

// Init satisfies tea.Model.
func (d Dashboard) Init() tea.Cmd { return nil }

// Update satisfies tea.Model.
func (d Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return d.handleEvent(msg.Event), nil

	case NotificationMsg:
		return d.handleNotification(msg)

	case toastDismissMsg:
		for i, t := range d.toasts {
			if t.id == msg.id {
				d.toasts = append(d.toasts[:i:i], d.toasts[i+1:]...)
				break
			}
		}
		return d, nil

	case cancelErrorMsg:
		d.err = msg.err
		return d, nil

	case DoneMsg:
		d.err = msg.Err
		d.quitting = true
		return d, tea.Quit

	case tea.KeyMsg:
		return d.handleKey(msg)
	}

	return d, nil
}

func (d Dashboard) handleEvent(ev model.Event) Dashboard {
	idx, ok := d.byID[ev.Operation.ID]
	if !ok {
		bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth), progress.WithoutPercentage())
		d.lanes = append(d.lanes, lane{bar: bar})
		idx = len(d.lanes) - 1
		d.byID[ev.Operation.ID] = idx
	}
	d.lanes[idx].op = ev.Operation

	return d
}

func (d Dashboard) handleNotification(msg NotificationMsg) (tea.Model, tea.Cmd) {
	id := d.nextToastID
	d.nextToastID++

	d.toasts = append(d.toasts, toast{id: id, NotificationMsg: msg})
	if len(d.toasts) > maxToasts {
		d.toasts = d.toasts[len(d.toasts)-maxToasts:]
	}

	return d, tea.Tick(d.toastDelay, func(_ time.Time) tea.Msg {
		return toastDismissMsg{id: id}
	})
}

func (d Dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		d.quitting = true
		return d, tea.Quit

	case "up", "k":
		if d.selected > 0 {
			d.selected--
		}

	case "down", "j":
		if d.selected < len(d.lanes)-1 {
			d.selected++
		}

	case "c", "x":
		if d.canceller == nil || d.selected >= len(d.lanes) {
			return d, nil
		}
		op := d.lanes[d.selected].op
		if op.Status != model.OperationStatusRunning {
			return d, nil
		}

		canceller := d.canceller
		return d, func() tea.Msg {
			if err := canceller.Cancel(context.Background(), op.ID); err != nil {
				return cancelErrorMsg{err: fmt.Errorf("could not cancel %s: %w", op.Title, err)}
			}
			return nil
		}
	}

	return d, nil
}

// Operations returns the last known state of the dashboard operations in start order.
func (d Dashboard) Operations() []model.Operation {
	ops := make([]model.Operation, 0, len(d.lanes))
	for _, l := range d.lanes {
		ops = append(ops, l.op)
	}
	return ops
}

// View satisfies tea.Model.
func (d Dashboard) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("scanboard"))
	b.WriteString("\n\n")

	if len(d.lanes) == 0 {
		b.WriteString(subtitleStyle.Render("Waiting for operations..."))
		b.WriteString("\n")
	}

	for i, l := range d.lanes {
		cursor := "  "
		if i == d.selected && !d.quitting {
			cursor = cursorStyle.Render("> ")
		}

		title := l.op.Title
		if len(title) < titleWidth {
			title += strings.Repeat(" ", titleWidth-len(title))
		}

		fmt.Fprintf(&b, "%s%s %s %3d%% %s\n",
			cursor,
			title,
			l.bar.ViewAs(float64(l.op.Progress)/float64(model.MaxProgress)),
			l.op.Progress,
			renderStatus(l.op),
		)
	}

	for _, t := range d.toasts {
		b.WriteString("\n")
		b.WriteString(renderToast(t.NotificationMsg))
	}

	if d.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + d.err.Error()))
	}

	if !d.quitting {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("↑/↓ select • c cancel • q quit"))
	}
	b.WriteString("\n")

	return b.String()
}

func renderStatus(op model.Operation) string {
	switch op.Status {
	case model.OperationStatusCompleted:
		return successStyle.Render("completed")
	case model.OperationStatusCancelled:
		return warningStyle.Render("cancelled")
	case model.OperationStatusFailed:
		return errorStyle.Render("failed: " + op.Error)
	default:
		return subtitleStyle.Render(string(op.Status))
	}
}

func renderToast(n NotificationMsg) string {
	head := errorStyle.Render("✗ " + n.Title)
	if n.Success {
		head = successStyle.Render("✓ " + n.Title)
	}
	return toastStyle.Render(head + "\n" + n.Message)
}
