package printer

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/slok/scanboard/internal/model"
)

// TablePrinter prints operation information in a table format.
type TablePrinter struct {
	writer io.Writer
	now    func() time.Time
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w, now: time.Now}
}

// PrintHistory prints the history entries in a table format.
func (t *TablePrinter) PrintHistory(entries []model.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tTITLE\tKIND\tSTATUS\tCOMPLETED")
	for _, e := range entries {
		status := string(e.Status)
		if e.Error != "" {
			status = fmt.Sprintf("%s (%s)", e.Status, e.Error)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Title, e.Kind, status, TimeAgo(t.now(), e.CompletedAt))
	}

	return nil
}

// PrintOperations prints operations with their status and progress.
func (t *TablePrinter) PrintOperations(ops []model.Operation) error {
	if len(ops) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPROGRESS\tDURATION")
	for _, op := range ops {
		duration := "-"
		if op.CompletedAt != nil {
			duration = op.CompletedAt.Sub(op.StartedAt).Round(time.Millisecond).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d%%\t%s\n", op.ID, op.Title, op.Status, op.Progress, duration)
	}

	return nil
}

// PrintKinds prints the known kinds and their timings.
func (t *TablePrinter) PrintKinds(kinds []model.KindInfo) error {
	if len(kinds) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "KIND\tTITLE\tTICK\tMAX INCREMENT\tFINALIZE\tSATURATION")
	for _, k := range kinds {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			k.Kind,
			k.Title,
			FormatDuration(k.TickInterval),
			k.MaxIncrement,
			FormatDuration(k.FinalizeAfter),
			k.Saturation,
		)
	}

	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	_, err := fmt.Fprintln(t.writer, msg)
	return err
}
