package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/oklog/run"

	apprun "github.com/slok/scanboard/internal/app/run"
	"github.com/slok/scanboard/internal/model"
	"github.com/slok/scanboard/internal/notify"
	"github.com/slok/scanboard/internal/printer"
	"github.com/slok/scanboard/internal/storage/sqlite"
	"github.com/slok/scanboard/internal/tracker"
	"github.com/slok/scanboard/internal/tui"
)

type RunCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	// TUI is exported so main can silence the logger while the dashboard owns the terminal.
	TUI bool

	kinds    []string
	format   string
	profiles string
}

// NewRunCommand returns the run command.
func NewRunCommand(rootCmd *RootCommand, app *kingpin.Application) *RunCommand {
	c := &RunCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("run", "Run operations and wait until they finish.")
	c.Cmd.Arg("kinds", "Operation kinds to run, a repeated kind is rejected while the first one runs.").Required().StringsVar(&c.kinds)
	c.Cmd.Flag("tui", "Show the interactive dashboard.").BoolVar(&c.TUI)
	c.Cmd.Flag("format", "Output format (text, json).").Default(formatText).EnumVar(&c.format, formatText, formatJSON)
	c.Cmd.Flag("profiles", "Kind profiles YAML file.").StringVar(&c.profiles)

	return c
}

func (c RunCommand) Name() string { return c.Cmd.FullCommand() }

func (c RunCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	kinds := make([]model.Kind, 0, len(c.kinds))
	for _, k := range c.kinds {
		kind, err := model.ParseKind(k)
		if err != nil {
			return fmt.Errorf("invalid kind: %w", err)
		}
		kinds = append(kinds, kind)
	}

	profiles, err := loadProfiles(ctx, c.profiles)
	if err != nil {
		return err
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

	newTracker := func(n tracker.Notifier) (*tracker.Tracker, error) {
		return tracker.NewTracker(tracker.Config{
			History:  repo,
			Notifier: notify.Multi{notify.NewLogger(logger), n},
			Profiles: profiles,
			Logger:   logger,
		})
	}

	req := apprun.Request{Kinds: kinds}

	var resp *apprun.Response
	switch {
	case c.TUI:
		resp, err = c.runTUI(ctx, newTracker, req)
	case c.format == formatJSON:
		resp, err = c.runPlain(ctx, newTracker, req, nil, notify.Noop)
	default:
		pp := printer.NewProgressPrinter(c.rootCmd.Stdout)
		resp, err = c.runPlain(ctx, newTracker, req, pp.Handle, notify.NewWriter(c.rootCmd.Stdout))
	}
	if err != nil {
		return err
	}

	for _, k := range resp.Rejected {
		logger.Warningf("%s was rejected, another one was already running", k.Title())
	}
	if resp.Interrupted {
		logger.Warningf("Run interrupted, running operations have been cancelled")
	}

	format := c.format
	if format == formatText {
		format = formatTable
		fmt.Fprintln(c.rootCmd.Stdout)
	}
	if err := c.rootCmd.printer(format).PrintOperations(resp.Operations); err != nil {
		return fmt.Errorf("could not print operations: %w", err)
	}

	return nil
}

func (c RunCommand) runPlain(ctx context.Context, newTracker func(tracker.Notifier) (*tracker.Tracker, error), req apprun.Request, onEvent func(model.Event), n tracker.Notifier) (*apprun.Response, error) {
	trk, err := newTracker(n)
	if err != nil {
		return nil, fmt.Errorf("could not create tracker: %w", err)
	}

	if onEvent != nil {
		unsubscribe := trk.Subscribe(onEvent)
		defer unsubscribe()
	}

	svc, err := apprun.NewService(apprun.ServiceConfig{Tracker: trk, Logger: c.rootCmd.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("could not run operations: %w", err)
	}

	return resp, nil
}

var errDashboardClosed = errors.New("dashboard closed")

// programSender lets the tracker be created before the program that renders it.
type programSender struct {
	p *tea.Program
}

func (s *programSender) Send(msg tea.Msg) { s.p.Send(msg) }

func (c RunCommand) runTUI(ctx context.Context, newTracker func(tracker.Notifier) (*tracker.Tracker, error), req apprun.Request) (*apprun.Response, error) {
	sender := &programSender{}
	trk, err := newTracker(tui.NewNotifier(sender))
	if err != nil {
		return nil, fmt.Errorf("could not create tracker: %w", err)
	}

	p := tea.NewProgram(
		tui.NewDashboard(tui.DashboardConfig{Canceller: trk}),
		tea.WithInput(c.rootCmd.Stdin),
		tea.WithOutput(c.rootCmd.Stdout),
	)
	sender.p = p

	unsubscribe := trk.Subscribe(tui.Subscriber(p))
	defer unsubscribe()

	svc, err := apprun.NewService(apprun.ServiceConfig{Tracker: trk, Logger: c.rootCmd.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	var (
		g    run.Group
		resp *apprun.Response
	)

	// Dashboard.
	g.Add(
		func() error {
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("dashboard failed: %w", err)
			}
			return errDashboardClosed
		},
		func(_ error) {
			p.Quit()
		},
	)

	// Operations.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				var err error
				resp, err = svc.Run(ctx, req)
				p.Send(tui.DoneMsg{Err: err})
				if err != nil {
					return fmt.Errorf("could not run operations: %w", err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	if err := g.Run(); err != nil && !errors.Is(err, errDashboardClosed) {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("operations did not finish")
	}

	return resp, nil
}
