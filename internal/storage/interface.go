package storage

import (
	"errors"

	"github.com/julianstephens/tripcheck/internal/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrNotInitialized = errors.New("storage not initialized, run 'tripcheck init' first")
	ErrNotLoaded      = errors.New("storage not loaded")
)

// Provider persists everything tripcheck keeps between runs: the travel window,
// per-guest metadata, and saved reconciliation sessions.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Travel window
	GetWindow() (models.TravelWindow, error)
	SaveWindow(models.TravelWindow) error

	// Guest metadata, keyed by email or name key.
	// GetMeta returns the zero value for unknown keys. SaveMeta deletes the
	// entry when the metadata is empty.
	GetAllMeta() (models.MetaStore, error)
	GetMeta(key string) (models.GuestMeta, error)
	SaveMeta(key string, meta models.GuestMeta) error

	// Sessions. ListSessions returns newest first.
	SaveSession(models.Session) error
	GetSession(id string) (models.Session, error)
	ListSessions() ([]models.Session, error)
	DeleteSession(id string) error

	// Utils
	GetConfigPath() string
}
