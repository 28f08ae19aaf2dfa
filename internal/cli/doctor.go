package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/tripcheck/internal/backup"
	"github.com/julianstephens/tripcheck/internal/constants"
	"github.com/julianstephens/tripcheck/internal/keyring"
	"github.com/julianstephens/tripcheck/internal/storage/postgres"
	"github.com/julianstephens/tripcheck/internal/storage/sqlite"
)

var listProcesses = ps.Processes

type DoctorCmd struct{}

type checkLevel int

const (
	levelFail checkLevel = iota
	levelWarn
)

type doctorCheck struct {
	name  string
	level checkLevel // how a returned error is reported
	run   func(*Context) error
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Fprintln(ctx.out(), "Running diagnostics...")
	fmt.Fprintln(ctx.out())

	checks := []doctorCheck{
		{"Database reachable", levelFail, checkDBReachable},
		{"Schema version", levelFail, checkSchemaVersion},
		{"Migrations complete", levelFail, checkMigrationsComplete},
		{"Stored data", levelFail, checkStoredData},
		{"Backups present", levelWarn, checkBackupsPresent},
		{"Keyring", levelWarn, checkKeyring},
		{"Other tripcheck processes", levelWarn, checkOtherProcesses},
		{"Clock/timezone", levelFail, func(*Context) error { return checkClockTimezone(time.Now()) }},
	}

	hasError := false
	dbReachable := true
	for _, c := range checks {
		if !dbReachable && c.name == "Stored data" {
			fmt.Fprintf(ctx.out(), "⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Fprintf(ctx.out(), "✓ %s: OK\n", c.name)
		case c.level == levelWarn:
			fmt.Fprintf(ctx.out(), "⚠ %s: WARNING\n", c.name)
			fmt.Fprintf(ctx.out(), "   %v\n", err)
		default:
			fmt.Fprintf(ctx.out(), "❌ %s: FAIL\n", c.name)
			fmt.Fprintf(ctx.out(), "   Error: %v\n", err)
			hasError = true
			if c.name == "Database reachable" {
				dbReachable = false
			}
		}
	}

	fmt.Fprintln(ctx.out())
	if hasError {
		fmt.Fprintln(ctx.out(), "Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Fprintln(ctx.out(), "All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if s, ok := ctx.Store.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func schemaVersions(ctx *Context) (current, latest int, ok bool, err error) {
	store, isSQL := ctx.Store.(migratable)
	if !isSQL {
		return 0, 0, false, nil
	}
	runner, err := store.Runner()
	if err != nil {
		return 0, 0, true, err
	}
	current, latest, err = runner.Pending()
	return current, latest, true, err
}

func checkSchemaVersion(ctx *Context) error {
	current, latest, ok, err := schemaVersions(ctx)
	if !ok || err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *Context) error {
	current, latest, ok, err := schemaVersions(ctx)
	if !ok || err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'tripcheck migrate')", current, latest)
	}
	return nil
}

// checkStoredData reads everything back and checks the invariants the
// commands rely on.
func checkStoredData(ctx *Context) error {
	window, err := ctx.Store.GetWindow()
	if err != nil {
		return fmt.Errorf("failed to read travel window: %w", err)
	}
	if err := window.Validate(); err != nil {
		return fmt.Errorf("stored travel window: %w", err)
	}

	meta, err := ctx.Store.GetAllMeta()
	if err != nil {
		return fmt.Errorf("failed to read guest metadata: %w", err)
	}
	for key := range meta {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("guest metadata has an empty key")
		}
	}

	sessions, err := ctx.Store.ListSessions()
	if err != nil {
		return fmt.Errorf("failed to read sessions: %w", err)
	}
	for _, s := range sessions {
		seen := make(map[string]bool, len(s.Guests))
		for _, g := range s.Guests {
			if seen[g.Key] {
				return fmt.Errorf("session %s: duplicate guest key %q", s.ID, g.Key)
			}
			seen[g.Key] = true
		}
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	s, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil
	}
	backups, err := backup.NewManager(s.GetConfigPath()).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'tripcheck backup create'")
	}
	return nil
}

// checkKeyring matters only when the store is PostgreSQL.
func checkKeyring(ctx *Context) error {
	if _, ok := ctx.Store.(*postgres.Store); !ok {
		return nil
	}
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

// checkOtherProcesses warns about concurrent tripcheck runs; a second writer
// can interleave metadata updates.
func checkOtherProcesses(ctx *Context) error {
	procs, err := listProcesses()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	self := os.Getpid()
	var pids []string
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		if strings.EqualFold(strings.TrimSuffix(p.Executable(), ".exe"), constants.AppName) {
			pids = append(pids, fmt.Sprintf("%d", p.Pid()))
		}
	}
	if len(pids) > 0 {
		return fmt.Errorf("other %s processes are running (pid %s); close them before restoring backups", constants.AppName, strings.Join(pids, ", "))
	}
	return nil
}

func checkClockTimezone(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
