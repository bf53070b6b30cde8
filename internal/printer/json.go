package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/scanboard/internal/model"
)

// JSONPrinter prints operation information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type historyItem struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

type operationItem struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

type kindItem struct {
	Kind          string `json:"kind"`
	Title         string `json:"title"`
	TickInterval  string `json:"tick_interval"`
	MaxIncrement  int    `json:"max_increment"`
	FinalizeAfter string `json:"finalize_after"`
	Saturation    string `json:"saturation"`
}

type messageOutput struct {
	Message string `json:"message"`
}

// PrintHistory prints the history entries in JSON format.
func (j *JSONPrinter) PrintHistory(entries []model.HistoryEntry) error {
	items := make([]historyItem, len(entries))
	for i, e := range entries {
		items[i] = historyItem{
			ID:          e.ID,
			Kind:        string(e.Kind),
			Title:       e.Title,
			Status:      string(e.Status),
			Error:       e.Error,
			StartedAt:   e.StartedAt.UTC(),
			CompletedAt: e.CompletedAt.UTC(),
		}
	}

	return j.encode(items)
}

// PrintOperations prints operations in JSON format.
func (j *JSONPrinter) PrintOperations(ops []model.Operation) error {
	items := make([]operationItem, len(ops))
	for i, op := range ops {
		items[i] = operationItem{
			ID:        op.ID,
			Kind:      string(op.Kind),
			Title:     op.Title,
			Status:    string(op.Status),
			Progress:  op.Progress,
			Error:     op.Error,
			StartedAt: op.StartedAt.UTC(),
		}
		if op.CompletedAt != nil {
			utcTime := op.CompletedAt.UTC()
			items[i].CompletedAt = &utcTime
		}
	}

	return j.encode(items)
}

// PrintKinds prints the known kinds in JSON format.
func (j *JSONPrinter) PrintKinds(kinds []model.KindInfo) error {
	items := make([]kindItem, len(kinds))
	for i, k := range kinds {
		items[i] = kindItem{
			Kind:          string(k.Kind),
			Title:         k.Title,
			TickInterval:  k.TickInterval.String(),
			MaxIncrement:  k.MaxIncrement,
			FinalizeAfter: k.FinalizeAfter.String(),
			Saturation:    k.Saturation,
		}
	}

	return j.encode(items)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
