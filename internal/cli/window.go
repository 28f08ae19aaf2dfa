package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tripcheck/internal/event"
	"github.com/julianstephens/tripcheck/internal/models"
	"github.com/julianstephens/tripcheck/internal/report"
)

type WindowCmd struct {
	Show  WindowShowCmd  `cmd:"" default:"1" help:"Show the stored travel window."`
	Set   WindowSetCmd   `cmd:"" help:"Set one or more window bounds."`
	Clear WindowClearCmd `cmd:"" help:"Remove every window bound."`
	Edit  WindowEditCmd  `cmd:"" help:"Edit the window in an interactive form."`
}

type WindowShowCmd struct{}

func (c *WindowShowCmd) Run(ctx *Context) error {
	w, err := ctx.Store.GetWindow()
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.out(), "Travel window: %s\n", report.WindowLine(w))
	return nil
}

// WindowSetCmd updates only the bounds that are passed; the others keep their stored value.
type WindowSetCmd struct {
	WindowFlags `embed:""`
}

func (c *WindowSetCmd) Run(ctx *Context) error {
	update, err := c.window().Parse()
	if err != nil {
		return err
	}
	if update.IsZero() {
		return fmt.Errorf("no bounds given; pass at least one of --arrival-start, --arrival-end, --departure-start, --departure-end")
	}

	current, err := ctx.Store.GetWindow()
	if err != nil {
		return err
	}
	return saveWindow(ctx, current.Merge(update))
}

type WindowClearCmd struct{}

func (c *WindowClearCmd) Run(ctx *Context) error {
	return saveWindow(ctx, models.TravelWindow{})
}

type WindowEditCmd struct{}

func (c *WindowEditCmd) Run(ctx *Context) error {
	current, err := ctx.Store.GetWindow()
	if err != nil {
		return err
	}
	w := event.FromTravelWindow(current)

	input := func(title, field string, value *string) *huh.Input {
		return huh.NewInput().
			Title(title).
			Placeholder("YYYY-MM-DD (empty to unset)").
			Value(value).
			Validate(func(s string) error {
				_, err := event.ParseDate(field, s)
				return err
			})
	}

	form := huh.NewForm(
		huh.NewGroup(
			input("Arrival window start", "arrival_start", &w.ArrivalStart),
			input("Arrival window end", "arrival_end", &w.ArrivalEnd),
		),
		huh.NewGroup(
			input("Departure window start", "departure_start", &w.DepartureStart),
			input("Departure window end", "departure_end", &w.DepartureEnd),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(ctx.out(), "Window unchanged.")
			return nil
		}
		return err
	}

	updated, err := w.Parse()
	if err != nil {
		return err
	}
	return saveWindow(ctx, updated)
}

func saveWindow(ctx *Context, w models.TravelWindow) error {
	if err := ctx.Store.SaveWindow(w); err != nil {
		return err
	}
	fmt.Fprintf(ctx.out(), "✓ Travel window: %s\n", report.WindowLine(w))
	return nil
}
