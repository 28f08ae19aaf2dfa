package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/tripcheck/internal/backup"
	tcerrors "github.com/julianstephens/tripcheck/internal/errors"
	"github.com/julianstephens/tripcheck/internal/logger"
	"github.com/julianstephens/tripcheck/internal/storage"
	"github.com/julianstephens/tripcheck/internal/storage/postgres"
	"github.com/julianstephens/tripcheck/internal/storage/sqlite"
)

type Context struct {
	Store storage.Provider
	Out   io.Writer
	In    io.Reader
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) in() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

// confirm asks a yes/no question on the context's streams. Anything but y/yes is a no.
func (c *Context) confirm(prompt string) (bool, error) {
	fmt.Fprintf(c.out(), "%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.in()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// sqliteStore returns the store as a SQLite store, or an error naming cmd.
func (c *Context) sqliteStore(cmd string) (*sqlite.Store, error) {
	s, ok := c.Store.(*sqlite.Store)
	if !ok {
		return nil, fmt.Errorf("%s is only supported for the SQLite store (current: %s)", cmd, c.Store.GetConfigPath())
	}
	return s, nil
}

// PerformAutomaticBackup snapshots a SQLite store before a write. Failures are
// logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	s, ok := c.Store.(*sqlite.Store)
	if !ok {
		return
	}
	mgr := backup.NewManager(s.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// NewStore picks a storage backend for a --config value: a PostgreSQL URL or
// DSN, a .json file, or a SQLite database file.
func NewStore(config string) (storage.Provider, error) {
	switch {
	case postgres.IsConnString(config) || strings.Contains(config, "host="):
		if err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, tcerrors.WithHint(err, "store the connection string with 'tripcheck keyring set' or use ~/.pgpass")
			}
			return nil, err
		}
		return postgres.New(config), nil
	case strings.EqualFold(filepath.Ext(config), ".json"):
		return storage.NewJSONStore(config), nil
	default:
		return sqlite.NewStore(config), nil
	}
}
