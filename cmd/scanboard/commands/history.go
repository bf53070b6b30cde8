package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/scanboard/internal/app/history"
	"github.com/slok/scanboard/internal/model"
	"github.com/slok/scanboard/internal/storage/sqlite"
)

type HistoryCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	kind         string
	statusFilter string
	limit        int
	format       string
}

// NewHistoryCommand returns the history command.
func NewHistoryCommand(rootCmd *RootCommand, app *kingpin.Application) *HistoryCommand {
	c := &HistoryCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("history", "List the finished operations, most recent first.")
	c.Cmd.Flag("kind", "Filter by operation kind.").StringVar(&c.kind)
	c.Cmd.Flag("status", "Filter by status (completed, cancelled, failed).").StringVar(&c.statusFilter)
	c.Cmd.Flag("limit", "Maximum number of entries, 0 means all.").Default("0").IntVar(&c.limit)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c HistoryCommand) Name() string { return c.Cmd.FullCommand() }

func (c HistoryCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	req := history.Request{Limit: c.limit}
	if c.kind != "" {
		kind, err := model.ParseKind(strings.ToLower(c.kind))
		if err != nil {
			return fmt.Errorf("invalid kind filter: %w", err)
		}
		req.Kind = &kind
	}
	if c.statusFilter != "" {
		status := model.OperationStatus(strings.ToLower(c.statusFilter))
		req.StatusFilter = &status
	}

	// Initialize storage (SQLite).
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	svc, err := history.NewService(history.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	entries, err := svc.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("could not list history: %w", err)
	}

	if err := c.rootCmd.printer(c.format).PrintHistory(entries); err != nil {
		return fmt.Errorf("could not print history: %w", err)
	}

	return nil
}
