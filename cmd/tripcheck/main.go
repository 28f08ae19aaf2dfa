package main

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/tripcheck/internal/cli"
	"github.com/julianstephens/tripcheck/internal/constants"
	"github.com/julianstephens/tripcheck/internal/errors"
	"github.com/julianstephens/tripcheck/internal/keyring"
	"github.com/julianstephens/tripcheck/internal/logger"
	"github.com/julianstephens/tripcheck/internal/storage"
	"github.com/julianstephens/tripcheck/internal/storage/postgres"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Database path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use the OS keyring, ${env} or ~/.pgpass instead." type:"string" default:"${default_config}"`
	DebugLog bool   `name:"debug-log" help:"Mirror debug logs to stderr."`
	LogLevel string `help:"Log level (debug, info, warn, error)." enum:",debug,info,warn,error" default:""`

	Check     cli.CheckCmd     `cmd:"" help:"Reconcile the travel lists and report per-guest issues."`
	Window    cli.WindowCmd    `cmd:"" help:"Show or change the stored travel window."`
	Resolve   cli.ResolveCmd   `cmd:"" help:"Mark a guest issue as resolved."`
	Unresolve cli.UnresolveCmd `cmd:"" help:"Reopen a resolved guest issue."`
	Note      cli.NoteCmd      `cmd:"" help:"Attach a note to a guest."`
	Sessions  cli.SessionsCmd  `cmd:"" help:"Manage saved check sessions."`
	Diff      cli.DiffCmd      `cmd:"" help:"Compare two saved sessions."`
	Review    cli.ReviewCmd    `cmd:"" help:"Review a session interactively."`
	Event     cli.EventCmd     `cmd:"" help:"Manage event files."`
	Init      cli.InitCmd      `cmd:"" help:"Initialize tripcheck storage."`
	Migrate   cli.MigrateCmd   `cmd:"" help:"Run database migrations."`
	Backup    cli.BackupCmd    `cmd:"" help:"Manage database backups."`
	Doctor    cli.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Debug     cli.DebugCmd     `cmd:"" help:"Debug commands for troubleshooting."`
	Keyring   cli.KeyringCmd   `cmd:"" help:"Manage the database connection string in the OS keyring."`
}

// noLoad lists commands that open (or never need) the store themselves.
var noLoad = []string{"init", "keyring", "doctor", "event", "debug columns"}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Cross-check event travel lists: flights, hotel, car transfers and dietary needs."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
			"env":            constants.EnvDBConnection,
		},
	)

	config, err := resolveConfig(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.DebugLog,
		Level:     CLI.LogLevel,
		ConfigDir: logDir(config),
	}); err != nil {
		errors.Fatal(err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "version", constants.Version)

	store, err := cli.NewStore(config)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	if needsLoad(ctx.Command()) {
		if err := store.Load(); err != nil {
			if stderrors.Is(err, storage.ErrNotInitialized) {
				err = errors.WithHint(err, "run 'tripcheck init' first")
			}
			store.Close()
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(&cli.Context{Store: store}); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

// resolveConfig picks the storage location. An explicit --config wins; with
// the default, TRIPCHECK_DB_CONNECTION and then the OS keyring are consulted.
func resolveConfig(config string) (string, error) {
	if config == constants.DefaultConfigPath {
		if env := os.Getenv(constants.EnvDBConnection); env != "" {
			return env, nil
		}
		if connStr, err := keyring.GetConnectionString(); err == nil && connStr != "" {
			return connStr, nil
		} else if err != nil && !stderrors.Is(err, keyring.ErrNotFound) && !stderrors.Is(err, keyring.ErrKeyringUnavailable) {
			logger.Warn("Failed to read connection string from keyring", "error", err)
		}
	}

	if postgres.IsConnString(config) || strings.Contains(config, "host=") {
		return config, nil
	}
	return expandHome(config)
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}

// logDir places logs next to a database file, or in the default config
// directory for PostgreSQL.
func logDir(config string) string {
	if postgres.IsConnString(config) || strings.Contains(config, "host=") {
		dir, err := expandHome(filepath.Dir(constants.DefaultConfigPath))
		if err != nil {
			return os.TempDir()
		}
		return dir
	}
	return filepath.Dir(config)
}

func needsLoad(command string) bool {
	for _, name := range noLoad {
		if command == name || strings.HasPrefix(command, name+" ") {
			return false
		}
	}
	return true
}
