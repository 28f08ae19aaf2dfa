// Package event loads the TOML file that describes one event: which
// spreadsheets hold each source list and the approved travel window.
package event

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/julianstephens/tripcheck/internal/constants"
	"github.com/julianstephens/tripcheck/internal/models"
)

var (
	ErrNoFlightFile = errors.New("no flight manifest file configured")
	ErrNoHotelFile  = errors.New("no hotel roster file configured")
)

type Files struct {
	Flight  string `toml:"flight"`
	Hotel   string `toml:"hotel"`
	Car     string `toml:"car,omitempty"`
	Dietary string `toml:"dietary,omitempty"`
}

// Window holds travel window bounds as YYYY-MM-DD strings. Empty means unset.
type Window struct {
	ArrivalStart   string `toml:"arrival_start,omitempty"`
	ArrivalEnd     string `toml:"arrival_end,omitempty"`
	DepartureStart string `toml:"departure_start,omitempty"`
	DepartureEnd   string `toml:"departure_end,omitempty"`
}

type Event struct {
	Name   string `toml:"name"`
	Files  Files  `toml:"files"`
	Window Window `toml:"window"`
}

// Load decodes an event file. Relative source paths are resolved against the
// directory holding the event file. Unknown keys are rejected so that typos do
// not silently drop a source.
func Load(path string) (*Event, error) {
	var e Event
	md, err := toml.DecodeFile(path, &e)
	if err != nil {
		return nil, fmt.Errorf("failed to decode event file %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in event file %s: %s", path, strings.Join(keys, ", "))
	}

	dir := filepath.Dir(path)
	e.Files.Flight = resolve(dir, e.Files.Flight)
	e.Files.Hotel = resolve(dir, e.Files.Hotel)
	e.Files.Car = resolve(dir, e.Files.Car)
	e.Files.Dietary = resolve(dir, e.Files.Dietary)

	return &e, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Validate checks that the two required sources are configured.
func (e *Event) Validate() error {
	if e.Files.Flight == "" {
		return ErrNoFlightFile
	}
	if e.Files.Hotel == "" {
		return ErrNoHotelFile
	}
	_, err := e.Window.Parse()
	return err
}

// Parse converts the string bounds to a travel window.
func (w Window) Parse() (models.TravelWindow, error) {
	var (
		tw  models.TravelWindow
		err error
	)
	if tw.ArrivalStart, err = ParseDate("arrival_start", w.ArrivalStart); err != nil {
		return tw, err
	}
	if tw.ArrivalEnd, err = ParseDate("arrival_end", w.ArrivalEnd); err != nil {
		return tw, err
	}
	if tw.DepartureStart, err = ParseDate("departure_start", w.DepartureStart); err != nil {
		return tw, err
	}
	if tw.DepartureEnd, err = ParseDate("departure_end", w.DepartureEnd); err != nil {
		return tw, err
	}
	if err := tw.Validate(); err != nil {
		return tw, err
	}
	return tw, nil
}

// ParseDate parses a YYYY-MM-DD bound. An empty value is an unset bound.
func ParseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(constants.DateFormat, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q (expected YYYY-MM-DD): %w", field, value, err)
	}
	return &t, nil
}

// FromTravelWindow formats a travel window back into string bounds.
func FromTravelWindow(tw models.TravelWindow) Window {
	format := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format(constants.DateFormat)
	}
	return Window{
		ArrivalStart:   format(tw.ArrivalStart),
		ArrivalEnd:     format(tw.ArrivalEnd),
		DepartureStart: format(tw.DepartureStart),
		DepartureEnd:   format(tw.DepartureEnd),
	}
}

// Save writes the event file, refusing to overwrite an existing one.
func Save(path string, e *Event) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create event file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(e); err != nil {
		return fmt.Errorf("failed to encode event file: %w", err)
	}
	return nil
}
