package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/tripcheck/internal/models"
	"github.com/julianstephens/tripcheck/internal/storage"
)

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

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO sessions ("+sessionColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		session.ID, session.Label, session.CreatedAt.UTC().Format(timeLayout),
		string(windowJSON), string(sourcesJSON), string(guestsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(id string) (models.Session, error) {
	row := s.db.QueryRow("SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)
	session, err := scanSession(row)
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
	res, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id)
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
	var createdAt, windowJSON, sourcesJSON, guestsJSON string
	if err := row.Scan(&session.ID, &session.Label, &createdAt, &windowJSON, &sourcesJSON, &guestsJSON); err != nil {
		return models.Session{}, err
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return models.Session{}, fmt.Errorf("session %s: failed to parse created_at: %w", session.ID, err)
	}
	session.CreatedAt = t

	if err := json.Unmarshal([]byte(windowJSON), &session.Window); err != nil {
		return models.Session{}, fmt.Errorf("session %s: failed to unmarshal window: %w", session.ID, err)
	}
	if err := json.Unmarshal([]byte(sourcesJSON), &session.Sources); err != nil {
		return models.Session{}, fmt.Errorf("session %s: failed to unmarshal sources: %w", session.ID, err)
	}
	if err := json.Unmarshal([]byte(guestsJSON), &session.Guests); err != nil {
		return models.Session{}, fmt.Errorf("session %s: failed to unmarshal guests: %w", session.ID, err)
	}
	return session, nil
}
