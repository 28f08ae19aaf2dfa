package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/tripcheck/internal/models"
)

func (s *Store) GetAllMeta() (models.MetaStore, error) {
	rows, err := s.db.Query("SELECT key, resolved, note, updated_at FROM guest_meta")
	if err != nil {
		return nil, fmt.Errorf("failed to query guest metadata: %w", err)
	}
	defer rows.Close()

	out := make(models.MetaStore)
	for rows.Next() {
		var key, resolvedJSON, updatedAt string
		var m models.GuestMeta
		if err := rows.Scan(&key, &resolvedJSON, &m.Note, &updatedAt); err != nil {
			return nil, err
		}
		if err := decodeMeta(&m, resolvedJSON, updatedAt); err != nil {
			return nil, fmt.Errorf("guest metadata %s: %w", key, err)
		}
		out[key] = m
	}

	return out, rows.Err()
}

func (s *Store) GetMeta(key string) (models.GuestMeta, error) {
	var resolvedJSON, updatedAt string
	var m models.GuestMeta

	err := s.db.QueryRow("SELECT resolved, note, updated_at FROM guest_meta WHERE key = ?", key).
		Scan(&resolvedJSON, &m.Note, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GuestMeta{}, nil
	}
	if err != nil {
		return models.GuestMeta{}, fmt.Errorf("failed to get guest metadata: %w", err)
	}

	if err := decodeMeta(&m, resolvedJSON, updatedAt); err != nil {
		return models.GuestMeta{}, fmt.Errorf("guest metadata %s: %w", key, err)
	}
	return m, nil
}

func (s *Store) SaveMeta(key string, meta models.GuestMeta) error {
	if meta.IsEmpty() {
		_, err := s.db.Exec("DELETE FROM guest_meta WHERE key = ?", key)
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

	updatedAt := meta.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO guest_meta (key, resolved, note, updated_at) VALUES (?, ?, ?, ?)",
		key, string(resolvedJSON), meta.Note, updatedAt.UTC().Format(timeLayout),
	)
	return err
}

func decodeMeta(m *models.GuestMeta, resolvedJSON, updatedAt string) error {
	if err := json.Unmarshal([]byte(resolvedJSON), &m.Resolved); err != nil {
		return fmt.Errorf("failed to unmarshal resolved issues: %w", err)
	}
	t, err := time.Parse(timeLayout, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to parse updated_at: %w", err)
	}
	m.UpdatedAt = t
	return nil
}
