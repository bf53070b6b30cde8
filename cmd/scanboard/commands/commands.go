package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/scanboard/internal/conventions"
	"github.com/slok/scanboard/internal/log"
	"github.com/slok/scanboard/internal/model"
	"github.com/slok/scanboard/internal/printer"
	storageio "github.com/slok/scanboard/internal/storage/io"
	"github.com/slok/scanboard/internal/tracker"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

const (
	formatTable = "table"
	formatText  = "text"
	formatJSON  = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	DBPath     string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	defaultDBPath := conventions.DBPath(homedir.HomeDir())
	app.Flag("db-path", "Path to the SQLite history database file.").Envar("SCANBOARD_DB_PATH").Default(defaultDBPath).StringVar(&c.DBPath)

	return c
}

func (r RootCommand) printer(format string) printer.Printer {
	if format == formatJSON {
		return printer.NewJSONPrinter(r.Stdout)
	}
	return printer.NewTablePrinter(r.Stdout)
}

// resolveProfilesPath returns the profiles file to use, the explicit one or the one
// on the data directory if present. Empty means the default profiles.
func resolveProfilesPath(path string) (string, error) {
	if path == "" {
		def := conventions.ProfilesPath(homedir.HomeDir())
		if _, err := os.Stat(def); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", nil
			}
			return "", fmt.Errorf("could not check profiles file: %w", err)
		}
		path = def
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("could not resolve profiles path: %w", err)
	}

	return abs, nil
}

// newProfilesRepository returns a profiles repository rooted on the filesystem root, paths
// passed to it are the absolute ones without the leading slash.
func newProfilesRepository() *rootProfilesRepository {
	return &rootProfilesRepository{repo: storageio.NewProfilesYAMLRepository(os.DirFS("/"))}
}

type rootProfilesRepository struct {
	repo *storageio.ProfilesYAMLRepository
}

func (r rootProfilesRepository) GetProfiles(ctx context.Context, path string) (map[model.Kind]tracker.Profile, error) {
	return r.repo.GetProfiles(ctx, filepath.ToSlash(path)[1:])
}

func loadProfiles(ctx context.Context, path string) (map[model.Kind]tracker.Profile, error) {
	path, err := resolveProfilesPath(path)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return tracker.DefaultProfiles(), nil
	}

	profiles, err := newProfilesRepository().GetProfiles(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("could not load profiles: %w", err)
	}

	return profiles, nil
}
