package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/scanboard/internal/app/kinds"
)

type KindsCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format   string
	profiles string
}

// NewKindsCommand returns the kinds command.
func NewKindsCommand(rootCmd *RootCommand, app *kingpin.Application) *KindsCommand {
	c := &KindsCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("kinds", "List the operation kinds and their progress profiles.")
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)
	c.Cmd.Flag("profiles", "Kind profiles YAML file.").StringVar(&c.profiles)

	return c
}

func (c KindsCommand) Name() string { return c.Cmd.FullCommand() }

func (c KindsCommand) Run(ctx context.Context) error {
	path, err := resolveProfilesPath(c.profiles)
	if err != nil {
		return err
	}

	svc, err := kinds.NewService(kinds.ServiceConfig{
		ProfilesRepository: newProfilesRepository(),
		Logger:             c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	infos, err := svc.Run(ctx, kinds.Request{ProfilesPath: path})
	if err != nil {
		return fmt.Errorf("could not list kinds: %w", err)
	}

	if err := c.rootCmd.printer(c.format).PrintKinds(infos); err != nil {
		return fmt.Errorf("could not print kinds: %w", err)
	}

	return nil
}
