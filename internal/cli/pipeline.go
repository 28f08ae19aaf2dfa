package cli

import (
	"fmt"

	"github.com/julianstephens/tripcheck/internal/columns"
	"github.com/julianstephens/tripcheck/internal/event"
	"github.com/julianstephens/tripcheck/internal/logger"
	"github.com/julianstephens/tripcheck/internal/normalize"
	"github.com/julianstephens/tripcheck/internal/reconcile"
	"github.com/julianstephens/tripcheck/internal/sources"
	"github.com/julianstephens/tripcheck/internal/tabular"
)

// sourceDiagnostics describes how one file was read and mapped.
type sourceDiagnostics struct {
	Kind       sources.Kind
	Path       string
	Encoding   string
	Header     []string
	Collisions []columns.Collision
	Warnings   []tabular.Warning
	Skipped    int
}

// loadSources reads every configured file and runs the matching parser.
// Flight and hotel files are required; car and dietary are optional and an
// unset path yields an empty source.
func loadSources(files event.Files) (reconcile.Sources, []sourceDiagnostics, error) {
	var (
		src   reconcile.Sources
		diags []sourceDiagnostics
	)

	read := func(kind sources.Kind, path string) ([][]any, error) {
		sheet, err := tabular.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s list: %w", kind, err)
		}
		d := sourceDiagnostics{
			Kind:     kind,
			Path:     path,
			Encoding: sheet.Encoding,
			Warnings: sheet.Warnings,
		}
		if len(sheet.Rows) > 0 {
			for _, cell := range sheet.Rows[0] {
				d.Header = append(d.Header, normalize.Text(cell))
			}
		}
		diags = append(diags, d)

		for _, w := range sheet.Warnings {
			logger.Warn("Row problem", "source", kind, "row", w.Row, "message", w.Message)
		}
		logger.Debug("Read source", "source", kind, "path", path, "rows", sheet.DataRows(), "encoding", sheet.Encoding)
		return sheet.Rows, nil
	}

	record := func(m columns.Map, skipped int) {
		d := &diags[len(diags)-1]
		d.Collisions = m.Collisions()
		d.Skipped = skipped
		for _, c := range d.Collisions {
			logger.Warn("Header cell feeds more than one field", "source", d.Kind, "column", c.Column+1, "fields", c.Fields)
		}
	}

	rows, err := read(sources.KindFlight, files.Flight)
	if err != nil {
		return src, nil, err
	}
	flights := sources.ParseFlights(rows)
	record(flights.Columns, flights.Skipped)
	src.Flights = flights.Records

	if rows, err = read(sources.KindHotel, files.Hotel); err != nil {
		return src, nil, err
	}
	hotels := sources.ParseHotels(rows)
	record(hotels.Columns, hotels.Skipped)
	src.Hotels = hotels.Records

	if files.Car != "" {
		if rows, err = read(sources.KindCar, files.Car); err != nil {
			return src, nil, err
		}
		cars := sources.ParseCars(rows)
		record(cars.Columns, cars.Skipped)
		src.Cars = cars.Records
	}

	if files.Dietary != "" {
		if rows, err = read(sources.KindDietary, files.Dietary); err != nil {
			return src, nil, err
		}
		dietary := sources.ParseDietary(rows)
		record(dietary.Columns, dietary.Skipped)
		src.Dietary = dietary.Records
	}

	logger.Info("Parsed sources",
		"flights", len(src.Flights), "hotels", len(src.Hotels),
		"cars", len(src.Cars), "dietary", len(src.Dietary))
	return src, diags, nil
}
