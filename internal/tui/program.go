package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/slok/scanboard/internal/model"
	"github.com/slok/scanboard/internal/tracker"
)

// Sender sends messages to a running bubbletea program, *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Subscriber returns a tracker subscriber that forwards the events to the program.
func Subscriber(s Sender) func(model.Event) {
	return func(ev model.Event) {
		s.Send(EventMsg{Event: ev})
	}
}

// Notifier forwards the tracker notifications to the program as toasts.
type Notifier struct {
	sender Sender
}

// NewNotifier returns a new program notifier.
func NewNotifier(s Sender) *Notifier {
	return &Notifier{sender: s}
}

var _ tracker.Notifier = &Notifier{}

// Rejected satisfies tracker.Notifier.
func (n *Notifier) Rejected(kind model.Kind, reason string) {
	n.sender.Send(NotificationMsg{
		Title:   kind.Title() + " already running",
		Message: "Please wait for the current one to complete (" + reason + ")",
	})
}

// Completed satisfies tracker.Notifier.
func (n *Notifier) Completed(entry model.HistoryEntry) {
	n.sender.Send(NotificationMsg{
		Success: true,
		Title:   entry.Title + " completed",
		Message: "Your " + entry.Title + " is ready to view",
	})
}
