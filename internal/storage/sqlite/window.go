package sqlite

import (
	"fmt"
	"time"

	"github.com/julianstephens/tripcheck/internal/constants"
	"github.com/julianstephens/tripcheck/internal/models"
)

const (
	keyArrivalStart   = "window_arrival_start"
	keyArrivalEnd     = "window_arrival_end"
	keyDepartureStart = "window_departure_start"
	keyDepartureEnd   = "window_departure_end"
)

func (s *Store) GetWindow() (models.TravelWindow, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings WHERE key LIKE 'window_%'")
	if err != nil {
		return models.TravelWindow{}, err
	}
	defer rows.Close()

	var w models.TravelWindow
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.TravelWindow{}, err
		}
		if value == "" {
			continue
		}

		t, err := time.Parse(constants.DateFormat, value)
		if err != nil {
			return models.TravelWindow{}, fmt.Errorf("parsing %s: %w", key, err)
		}
		switch key {
		case keyArrivalStart:
			w.ArrivalStart = &t
		case keyArrivalEnd:
			w.ArrivalEnd = &t
		case keyDepartureStart:
			w.DepartureStart = &t
		case keyDepartureEnd:
			w.DepartureEnd = &t
		}
	}

	return w, rows.Err()
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

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, t := range map[string]*time.Time{
		keyArrivalStart:   w.ArrivalStart,
		keyArrivalEnd:     w.ArrivalEnd,
		keyDepartureStart: w.DepartureStart,
		keyDepartureEnd:   w.DepartureEnd,
	} {
		value := ""
		if t != nil {
			value = t.Format(constants.DateFormat)
		}
		if _, err := stmt.Exec(key, value); err != nil {
			return err
		}
	}

	return tx.Commit()
}
