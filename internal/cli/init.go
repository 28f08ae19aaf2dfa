package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/tripcheck/internal/constants"
	"github.com/julianstephens/tripcheck/internal/storage"
	"github.com/julianstephens/tripcheck/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing database file before initializing."`
	Source string `help:"Database path or connection string to copy the window, guest metadata and sessions from."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Force {
		if err := c.removeExisting(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.out(), "Initialized tripcheck storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Fprintf(ctx.out(), "Copying data from: %s\n", c.Source)
		if err := c.copyFrom(ctx); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		fmt.Fprintln(ctx.out(), "Copy completed successfully!")
	}
	return nil
}

func (c *InitCmd) removeExisting(ctx *Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if _, ok := ctx.Store.(*postgres.Store); ok {
		return fmt.Errorf("--force is not supported for PostgreSQL; drop the %q schema manually", constants.AppName)
	}

	if c.Source != "" {
		absDB, errDB := filepath.Abs(dbPath)
		absSrc, errSrc := filepath.Abs(c.Source)
		if errDB == nil && errSrc == nil && absDB == absSrc {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Fprintf(ctx.out(), "Deleted existing database at: %s\n", dbPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

// copyFrom copies every record type from the source store into ctx.Store.
func (c *InitCmd) copyFrom(ctx *Context) error {
	src, err := NewStore(c.Source)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	return copyStore(ctx, src, ctx.Store)
}

func copyStore(ctx *Context, src, dst storage.Provider) error {
	fmt.Fprintln(ctx.out(), "  Copying travel window...")
	window, err := src.GetWindow()
	if err != nil {
		return fmt.Errorf("failed to get travel window from source: %w", err)
	}
	if err := dst.SaveWindow(window); err != nil {
		return fmt.Errorf("failed to save travel window to destination: %w", err)
	}

	fmt.Fprintln(ctx.out(), "  Copying guest metadata...")
	meta, err := src.GetAllMeta()
	if err != nil {
		return fmt.Errorf("failed to get guest metadata from source: %w", err)
	}
	for key, m := range meta {
		if err := dst.SaveMeta(key, m); err != nil {
			return fmt.Errorf("failed to save metadata for %s: %w", key, err)
		}
	}
	fmt.Fprintf(ctx.out(), "    Copied %d guest entries\n", len(meta))

	fmt.Fprintln(ctx.out(), "  Copying sessions...")
	sessions, err := src.ListSessions()
	if err != nil {
		return fmt.Errorf("failed to get sessions from source: %w", err)
	}
	for _, s := range sessions {
		if err := dst.SaveSession(s); err != nil {
			return fmt.Errorf("failed to save session %s: %w", s.ID, err)
		}
	}
	fmt.Fprintf(ctx.out(), "    Copied %d sessions\n", len(sessions))
	return nil
}

