package cli

import (
	"fmt"

	"github.com/julianstephens/tripcheck/internal/migration"
)

// migratable is implemented by the SQL-backed stores.
type migratable interface {
	Runner() (*migration.Runner, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	store, ok := ctx.Store.(migratable)
	if !ok {
		return fmt.Errorf("migrate is only supported for SQL storage (current: %s)", ctx.Store.GetConfigPath())
	}

	runner, err := store.Runner()
	if err != nil {
		return err
	}
	count, err := runner.ApplyMigrations(func(msg string) {
		fmt.Fprintln(ctx.out(), msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Fprintln(ctx.out(), "No migrations to apply. Database is up to date.")
	} else {
		fmt.Fprintf(ctx.out(), "\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
