package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/tripcheck/internal/constants"
	"github.com/julianstephens/tripcheck/internal/models"
	"github.com/julianstephens/tripcheck/internal/storage"
)

var windowKeys = []string{
	"window_arrival_start",
	"window_arrival_end",
	"window_departure_start",
	"window_departure_end",
}

func windowBounds(w *models.TravelWindow) []**time.Time {
	return []**time.Time{&w.ArrivalStart, &w.ArrivalEnd, &w.DepartureStart, &w.DepartureEnd}
}

func (s *Store) GetWindow() (models.TravelWindow, error) {
	var w models.TravelWindow
	bounds := windowBounds(&w)

	for i, key := range windowKeys {
		var value string
		err := s.db.QueryRow("SELECT value FROM settings WHERE key = $1", key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return models.TravelWindow{}, err
		}
		if value == "" {
			continue
		}
		t, err := time.Parse(constants.DateFormat, value)
		if err != nil {
			return models.TravelWindow{}, fmt.Errorf("parsing %s: %w", key, err)
		}
		*bounds[i] = &t
	}
	return w, nil
}

func (s *Store) SaveWindow(w models.TravelWindow) error {
	if err := w.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, bound := range windowBounds(&w) {
		value := ""
		if *bound != nil {
			value = (*bound).Format(constants.DateFormat)
		}
		if _, err := tx.Exec(`
			INSERT INTO settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
			windowKeys[i], value,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) GetAllMeta() (models.MetaStore, error) {
	rows, err := s.db.Query("SELECT key, resolved, note, updated_at FROM guest_meta")
	if err != nil {
		return nil, fmt.Errorf("failed to query guest metadata: %w", err)
	}
	defer rows.Close()

	out := make(models.MetaStore)
	for rows.Next() {
		var key string
		var resolved []byte
		var m models.GuestMeta
		if err := rows.Scan(&key, &resolved, &m.Note, &m.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(resolved, &m.Resolved); err != nil {
			return nil, fmt.Errorf("guest metadata %s: %w", key, err)
		}
		out[key] = m
	}
	return out, rows.Err()
}

func (s *Store) GetMeta(key string) (models.GuestMeta, error) {
	var resolved []byte
	var m models.GuestMeta

	err := s.db.QueryRow("SELECT resolved, note, updated_at FROM guest_meta WHERE key = $1", key).
		Scan(&resolved, &m.Note, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GuestMeta{}, nil
	}
	if err != nil {
		return models.GuestMeta{}, fmt.Errorf("failed to get guest metadata: %w", err)
	}
	if err := json.Unmarshal(resolved, &m.Resolved); err != nil {
		return models.GuestMeta{}, fmt.Errorf("guest metadata %s: %w", key, err)
	}
	return m, nil
}

func (s *Store) SaveMeta(key string, meta models.GuestMeta) error {
	if meta.IsEmpty() {
		_, err := s.db.Exec("DELETE FROM guest_meta WHERE key = $1", key)
		return err
	}

	resolved := meta.Resolved
	if resolved == nil {
		resolved = []string{}
	}
	resolvedJSON, err := json.Marshal(resolved)
	if err != nil {
		return fmt.Errorf("failed to marshal resolved issues: %w", err)
	}
	if meta.UpdatedAt.IsZero() {
		meta.UpdatedAt = time.Now().UTC()
	}

	_, err = s.db.Exec(`
		INSERT INTO guest_meta (key, resolved, note, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET resolved = EXCLUDED.resolved, note = EXCLUDED.note, updated_at = EXCLUDED.updated_at`,
		key, string(resolvedJSON), meta.Note, meta.UpdatedAt,
	)
	return err
}

const sessionColumns = "id, label, created_at, travel_window, sources, guests"

func (s *Store) SaveSession(session models.Session) error {
	if session.ID == "" {
		return fmt.Errorf("session id is required")
	}

	windowJSON, err := json.Marshal(session.Window)
	if err != nil {
		return fmt.Errorf("failed to marshal window: %w", err)
	}
	sourcesJSON, err := json.Marshal(session.Sources)
	if err != nil {
		return fmt.Errorf("failed to marshal source counts: %w", err)
	}
	guests := session.Guests
	if guests == nil {
		guests = []models.Guest{}
	}
	guestsJSON, err := json.Marshal(guests)
	if err != nil {
		return fmt.Errorf("failed to marshal guests: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO sessions (`+sessionColumns+`) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET label = EXCLUDED.label, created_at = EXCLUDED.created_at,
			travel_window = EXCLUDED.travel_window, sources = EXCLUDED.sources, guests = EXCLUDED.guests`,
		session.ID, session.Label, session.CreatedAt.UTC(),
		string(windowJSON), string(sourcesJSON), string(guestsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(id string) (models.Session, error) {
	session, err := scanSession(s.db.QueryRow("SELECT "+sessionColumns+" FROM sessions WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, fmt.Errorf("session %s: %w", id, storage.ErrNotFound)
	}
	return session, err
}

func (s *Store) ListSessions() ([]models.Session, error) {
	rows, err := s.db.Query("SELECT " + sessionColumns + " FROM sessions ORDER BY created_at DESC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (s *Store) DeleteSession(id string) error {
	res, err := s.db.Exec("DELETE FROM sessions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("session %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (models.Session, error) {
	var session models.Session
	var windowJSON, sourcesJSON, guestsJSON []byte
	if err := row.Scan(&session.ID, &session.Label, &session.CreatedAt, &windowJSON, &sourcesJSON, &guestsJSON); err != nil {
		return models.Session{}, err
	}
	session.CreatedAt = session.CreatedAt.UTC()

	if err := json.Unmarshal(windowJSON, &session.Window); err != nil {
		return models.Session{}, fmt.Errorf("session %s: failed to unmarshal window: %w", session.ID, err)
	}
	if err := json.Unmarshal(sourcesJSON, &session.Sources); err != nil {
		return models.Session{}, fmt.Errorf("session %s: failed to unmarshal sources: %w", session.ID, err)
	}
	if err := json.Unmarshal(guestsJSON, &session.Guests); err != nil {
		return models.Session{}, fmt.Errorf("session %s: failed to unmarshal guests: %w", session.ID, err)
	}
	return session, nil
}
