package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/julianstephens/tripcheck/internal/models"
)

// Store is the on-disk layout of a JSON store file.
type Store struct {
	Version  int                       `json:"version"`
	Window   models.TravelWindow       `json:"window"`
	Meta     models.MetaStore          `json:"meta"`
	Sessions map[string]models.Session `json:"sessions"`
}

// JSONStore keeps everything in a single JSON file, rewritten on every change.
type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &Store{
		Version:  1,
		Meta:     make(models.MetaStore),
		Sessions: make(map[string]models.Session),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if s.store.Meta == nil {
		s.store.Meta = make(models.MetaStore)
	}
	if s.store.Sessions == nil {
		s.store.Sessions = make(map[string]models.Session)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes to a temp file and renames it over the store.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) GetWindow() (models.TravelWindow, error) {
	if s.store == nil {
		return models.TravelWindow{}, ErrNotLoaded
	}
	return s.store.Window, nil
}

func (s *JSONStore) SaveWindow(w models.TravelWindow) error {
	if s.store == nil {
		return ErrNotLoaded
	}
	if err := w.Validate(); err != nil {
		return err
	}
	s.store.Window = w
	return s.save()
}

func (s *JSONStore) GetAllMeta() (models.MetaStore, error) {
	if s.store == nil {
		return nil, ErrNotLoaded
	}
	out := make(models.MetaStore, len(s.store.Meta))
	for k, v := range s.store.Meta {
		v.Resolved = slices.Clone(v.Resolved)
		out[k] = v
	}
	return out, nil
}

func (s *JSONStore) GetMeta(key string) (models.GuestMeta, error) {
	if s.store == nil {
		return models.GuestMeta{}, ErrNotLoaded
	}
	m := s.store.Meta[key]
	m.Resolved = slices.Clone(m.Resolved)
	return m, nil
}

func (s *JSONStore) SaveMeta(key string, meta models.GuestMeta) error {
	if s.store == nil {
		return ErrNotLoaded
	}
	if meta.IsEmpty() {
		delete(s.store.Meta, key)
		return s.save()
	}
	if meta.UpdatedAt.IsZero() {
		meta.UpdatedAt = time.Now().UTC()
	}
	s.store.Meta[key] = meta
	return s.save()
}

func (s *JSONStore) SaveSession(session models.Session) error {
	if s.store == nil {
		return ErrNotLoaded
	}
	if session.ID == "" {
		return fmt.Errorf("session id is required")
	}
	s.store.Sessions[session.ID] = session
	return s.save()
}

func (s *JSONStore) GetSession(id string) (models.Session, error) {
	if s.store == nil {
		return models.Session{}, ErrNotLoaded
	}
	session, ok := s.store.Sessions[id]
	if !ok {
		return models.Session{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return session, nil
}

func (s *JSONStore) ListSessions() ([]models.Session, error) {
	if s.store == nil {
		return nil, ErrNotLoaded
	}
	sessions := make([]models.Session, 0, len(s.store.Sessions))
	for _, session := range s.store.Sessions {
		sessions = append(sessions, session)
	}
	SortSessions(sessions)
	return sessions, nil
}

func (s *JSONStore) DeleteSession(id string) error {
	if s.store == nil {
		return ErrNotLoaded
	}
	if _, ok := s.store.Sessions[id]; !ok {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	delete(s.store.Sessions, id)
	return s.save()
}

// GetConfigPath returns the path to the JSON store file.
//
// JSONStore is not safe for concurrent use, and running several tripcheck
// processes against the same file may lose writes.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
