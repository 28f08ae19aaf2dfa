package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	tcerrors "github.com/julianstephens/tripcheck/internal/errors"
	"github.com/julianstephens/tripcheck/internal/event"
	"github.com/julianstephens/tripcheck/internal/logger"
	"github.com/julianstephens/tripcheck/internal/models"
	"github.com/julianstephens/tripcheck/internal/reconcile"
	"github.com/julianstephens/tripcheck/internal/report"
)

// WindowFlags are the travel window bounds accepted on the command line.
type WindowFlags struct {
	ArrivalStart   string `help:"Earliest approved arrival (YYYY-MM-DD)." placeholder:"DATE"`
	ArrivalEnd     string `help:"Latest approved arrival (YYYY-MM-DD)." placeholder:"DATE"`
	DepartureStart string `help:"Earliest approved departure (YYYY-MM-DD)." placeholder:"DATE"`
	DepartureEnd   string `help:"Latest approved departure (YYYY-MM-DD)." placeholder:"DATE"`
}

func (f WindowFlags) window() event.Window {
	return event.Window{
		ArrivalStart:   f.ArrivalStart,
		ArrivalEnd:     f.ArrivalEnd,
		DepartureStart: f.DepartureStart,
		DepartureEnd:   f.DepartureEnd,
	}
}

type FilterFlags struct {
	Format     string `help:"Output format." enum:"table,json" default:"table"`
	OnlyIssues bool   `help:"Only show guests with active issues."`
	Status     string `help:"Only show guests with this status." enum:",ok,warn,error" default:""`
}

func (f FilterFlags) filter() report.Filter {
	return report.Filter{OnlyIssues: f.OnlyIssues, Status: models.Status(f.Status)}
}

type CheckCmd struct {
	Event   string `short:"e" help:"Event file (TOML) naming the source files and travel window." type:"existingfile"`
	Flight  string `help:"Flight manifest (CSV, TSV or XLSX)." type:"existingfile"`
	Hotel   string `help:"Hotel roster (CSV, TSV or XLSX)." type:"existingfile"`
	Car     string `help:"Ground transport list (CSV, TSV or XLSX)." type:"existingfile"`
	Dietary string `help:"Dietary and accessibility list (CSV, TSV or XLSX)." type:"existingfile"`

	WindowFlags `embed:""`
	FilterFlags `embed:""`

	Label   string `help:"Label stored with the session (defaults to the event name)."`
	NoSave  bool   `help:"Do not save the run as a session."`
	Verbose bool   `short:"v" help:"Print header collisions and row warnings."`
}

// inputs merges the event file with command-line overrides.
func (c *CheckCmd) inputs() (event.Files, models.TravelWindow, string, error) {
	var (
		files  event.Files
		window models.TravelWindow
		name   string
	)

	if c.Event != "" {
		e, err := event.Load(c.Event)
		if err != nil {
			return files, window, "", err
		}
		files = e.Files
		name = e.Name
		if window, err = e.Window.Parse(); err != nil {
			return files, window, "", fmt.Errorf("event file %s: %w", c.Event, err)
		}
	}

	for _, o := range []struct {
		dst *string
		val string
	}{
		{&files.Flight, c.Flight},
		{&files.Hotel, c.Hotel},
		{&files.Car, c.Car},
		{&files.Dietary, c.Dietary},
	} {
		if o.val != "" {
			*o.dst = o.val
		}
	}

	flagWindow, err := c.WindowFlags.window().Parse()
	if err != nil {
		return files, window, "", err
	}
	return files, window.Merge(flagWindow), name, nil
}

func (c *CheckCmd) Run(ctx *Context) error {
	files, window, name, err := c.inputs()
	if err != nil {
		return err
	}

	e := event.Event{Files: files}
	if err := e.Validate(); err != nil {
		switch {
		case errors.Is(err, event.ErrNoFlightFile):
			return tcerrors.WithHint(err, "pass --flight or set files.flight in the event file")
		case errors.Is(err, event.ErrNoHotelFile):
			return tcerrors.WithHint(err, "pass --hotel or set files.hotel in the event file")
		}
		return err
	}

	// Stored bounds apply only where neither the event file nor a flag sets one.
	stored, err := ctx.Store.GetWindow()
	if err != nil {
		return fmt.Errorf("failed to load travel window: %w", err)
	}
	window = stored.Merge(window)
	if err := window.Validate(); err != nil {
		return tcerrors.WithHint(err, "check the window bounds with 'tripcheck window show'")
	}

	src, diags, err := loadSources(files)
	if err != nil {
		return err
	}

	meta, err := ctx.Store.GetAllMeta()
	if err != nil {
		return fmt.Errorf("failed to load guest metadata: %w", err)
	}

	label := c.Label
	if label == "" {
		label = name
	}
	session := models.Session{
		ID:        uuid.New().String(),
		Label:     label,
		CreatedAt: time.Now().UTC(),
		Window:    window,
		Sources:   src.Counts(),
		Guests:    reconcile.CrossMatch(src, window, meta),
	}

	if c.NoSave {
		session.ID = ""
	} else {
		ctx.PerformAutomaticBackup()
		if err := ctx.Store.SaveSession(session); err != nil {
			return err
		}
		logger.Info("Saved session", "id", session.ID, "guests", len(session.Guests))
	}

	if c.Verbose {
		printDiagnostics(ctx, diags)
	}
	return report.Write(ctx.out(), report.New(session, c.filter()), report.Format(c.Format))
}

func printDiagnostics(ctx *Context, diags []sourceDiagnostics) {
	p := report.NewPrinter(ctx.out())
	for _, d := range diags {
		fmt.Fprintf(ctx.out(), "%s: %s (%s", d.Kind, d.Path, d.Encoding)
		if d.Skipped > 0 {
			fmt.Fprintf(ctx.out(), ", %d blank rows skipped", d.Skipped)
		}
		fmt.Fprintln(ctx.out(), ")")
		p.Collisions(string(d.Kind), d.Header, d.Collisions)
		for _, w := range d.Warnings {
			fmt.Fprintf(ctx.out(), "warning: %s row %d: %s\n", d.Kind, w.Row, w.Message)
		}
	}
	fmt.Fprintln(ctx.out())
}
