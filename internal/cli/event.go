package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/julianstephens/tripcheck/internal/event"
)

type EventCmd struct {
	New EventNewCmd `cmd:"" help:"Write a new event file."`
}

type EventNewCmd struct {
	Path    string `arg:"" help:"Event file to create." type:"path"`
	Name    string `help:"Event name (defaults to the file name)."`
	Flight  string `help:"Flight manifest path." default:"flights.csv"`
	Hotel   string `help:"Hotel roster path." default:"hotel.csv"`
	Car     string `help:"Ground transport list path."`
	Dietary string `help:"Dietary list path."`

	WindowFlags `embed:""`
}

func (c *EventNewCmd) Run(ctx *Context) error {
	name := c.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(c.Path), filepath.Ext(c.Path))
	}

	e := &event.Event{
		Name: name,
		Files: event.Files{
			Flight:  c.Flight,
			Hotel:   c.Hotel,
			Car:     c.Car,
			Dietary: c.Dietary,
		},
		Window: c.window(),
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if err := event.Save(c.Path, e); err != nil {
		return err
	}

	fmt.Fprintf(ctx.out(), "✓ Created event file: %s\n", c.Path)
	fmt.Fprintf(ctx.out(), "  Run 'tripcheck check --event %s' once the spreadsheets are in place.\n", c.Path)
	return nil
}
