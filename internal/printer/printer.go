package printer

import "github.com/slok/scanboard/internal/model"

// Printer knows how to print operation information in different formats.
type Printer interface {
	PrintHistory(entries []model.HistoryEntry) error
	PrintOperations(ops []model.Operation) error
	PrintKinds(kinds []model.KindInfo) error
	PrintMessage(msg string) error
}
