// Package sources configures the column mapper and row normalizer for each
// uploaded list: flight manifest, hotel roster, car transfers and dietary records.
package sources

import (
	"fmt"

	"github.com/julianstephens/tripcheck/internal/columns"
	"github.com/julianstephens/tripcheck/internal/models"
	"github.com/julianstephens/tripcheck/internal/normalize"
)

type Kind string

const (
	KindFlight  Kind = "flight"
	KindHotel   Kind = "hotel"
	KindCar     Kind = "car"
	KindDietary Kind = "dietary"
)

// Kinds lists every source kind in matching precedence order.
var Kinds = []Kind{KindFlight, KindHotel, KindCar, KindDietary}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown source kind: %s (must be flight, hotel, car, or dietary)", s)
}

var identityColumns = columns.Table{
	{Field: columns.FieldName, Substrings: []string{"full name", "guest name", "attendee name", "passenger name", "name", "guest", "attendee", "passenger", "traveler", "traveller"}},
	{Field: columns.FieldEmail, Substrings: []string{"email", "e-mail", "mail"}},
}

// nameColumns is appended to every source table.
var nameColumns = columns.Table{
	{Field: columns.FieldFirstName, Substrings: []string{"first name", "firstname", "first_name", "given name", "forename"}},
	{Field: columns.FieldLastName, Substrings: []string{"last name", "lastname", "last_name", "surname", "family name"}},
}

var flightColumns = identityColumns.With(
	columns.Candidates{Field: columns.FieldFlightArrival, Substrings: []string{"arrival date", "arrival", "arrive", "inbound date", "land", "flight in"}},
	columns.Candidates{Field: columns.FieldFlightDeparture, Substrings: []string{"departure date", "departure", "depart", "outbound date", "return date", "flight out"}},
	columns.Candidates{Field: columns.FieldFlightIn, Substrings: []string{"arrival flight", "inbound flight", "flight in", "flight #", "flight number", "flight no", "inbound"}},
	columns.Candidates{Field: columns.FieldFlightOut, Substrings: []string{"departure flight", "outbound flight", "return flight", "flight out", "outbound"}},
	columns.Candidates{Field: columns.FieldAirport, Substrings: []string{"airport", "iata"}},
)

var hotelColumns = identityColumns.With(
	columns.Candidates{Field: columns.FieldCheckIn, Substrings: []string{"check-in", "check in", "checkin", "arrival", "arrive"}},
	columns.Candidates{Field: columns.FieldCheckOut, Substrings: []string{"check-out", "check out", "checkout", "departure", "depart"}},
	columns.Candidates{Field: columns.FieldRoom, Substrings: []string{"room type", "room"}},
	columns.Candidates{Field: columns.FieldHotel, Substrings: []string{"hotel", "property", "accommodation"}},
)

var carColumns = identityColumns.With(
	columns.Candidates{Field: columns.FieldPickupDate, Substrings: []string{"pickup date", "pick-up date", "pick up date", "pickup time", "pickup", "pick-up", "pick up"}},
	columns.Candidates{Field: columns.FieldDropoffDate, Substrings: []string{"dropoff date", "drop-off date", "drop off date", "return date", "dropoff", "drop-off", "drop off"}},
	columns.Candidates{Field: columns.FieldPickupLoc, Substrings: []string{"pickup location", "pick-up location", "pick up location", "pickup loc", "origin", "from"}},
	columns.Candidates{Field: columns.FieldDropoffLoc, Substrings: []string{"dropoff location", "drop-off location", "drop off location", "dropoff loc", "destination"}},
	columns.Candidates{Field: columns.FieldConfirmation, Substrings: []string{"confirmation", "conf", "booking ref", "reference"}},
)

var dietaryColumns = identityColumns.With(
	columns.Candidates{Field: columns.FieldDietary, Substrings: []string{"dietary", "diet", "food", "meal", "allerg"}},
	columns.Candidates{Field: columns.FieldAccessibility, Substrings: []string{"accessibility", "accessible", "mobility", "wheelchair", "access"}},
	columns.Candidates{Field: columns.FieldSpecialNotes, Substrings: []string{"special", "notes", "note", "comment", "request"}},
)

// Columns returns the full candidate table for a source kind, including the
// shared first/last-name candidates.
func Columns(kind Kind) columns.Table {
	var table columns.Table
	switch kind {
	case KindFlight:
		table = flightColumns
	case KindHotel:
		table = hotelColumns
	case KindCar:
		table = carColumns
	case KindDietary:
		table = dietaryColumns
	}
	return table.With(nameColumns...)
}

// Parsed is the output of one source parser.
type Parsed[T models.Record] struct {
	Records []T
	Columns columns.Map
	Skipped int // fully blank data rows
}

// parse skips the header row and any blank data row. A sheet with fewer than
// two rows has no data and yields zero records.
func parse[T models.Record](rows [][]any, table columns.Table, build func(normalize.Row) T) Parsed[T] {
	out := Parsed[T]{Records: []T{}}
	if len(rows) < 2 {
		return out
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = normalize.Text(cell)
	}
	out.Columns = columns.Resolve(header, table)

	for i, cells := range rows[1:] {
		if normalize.IsBlankRow(cells) {
			out.Skipped++
			continue
		}
		out.Records = append(out.Records, build(normalize.NewRow(cells, out.Columns, i)))
	}
	return out
}

func ParseFlights(rows [][]any) Parsed[models.FlightRecord] {
	return parse(rows, Columns(KindFlight), func(r normalize.Row) models.FlightRecord {
		return models.FlightRecord{
			Person:          r.Person(),
			FlightArrival:   r.Date(columns.FieldFlightArrival),
			FlightDeparture: r.Date(columns.FieldFlightDeparture),
			FlightIn:        r.Text(columns.FieldFlightIn),
			FlightOut:       r.Text(columns.FieldFlightOut),
			Airport:         r.Text(columns.FieldAirport),
		}
	})
}

func ParseHotels(rows [][]any) Parsed[models.HotelRecord] {
	return parse(rows, Columns(KindHotel), func(r normalize.Row) models.HotelRecord {
		return models.HotelRecord{
			Person:   r.Person(),
			CheckIn:  r.Date(columns.FieldCheckIn),
			CheckOut: r.Date(columns.FieldCheckOut),
			Room:     r.Text(columns.FieldRoom),
			Hotel:    r.Text(columns.FieldHotel),
		}
	})
}

func ParseCars(rows [][]any) Parsed[models.CarRecord] {
	return parse(rows, Columns(KindCar), func(r normalize.Row) models.CarRecord {
		return models.CarRecord{
			Person:       r.Person(),
			PickupDate:   r.Date(columns.FieldPickupDate),
			DropoffDate:  r.Date(columns.FieldDropoffDate),
			PickupLoc:    r.Text(columns.FieldPickupLoc),
			DropoffLoc:   r.Text(columns.FieldDropoffLoc),
			Confirmation: r.Text(columns.FieldConfirmation),
		}
	})
}

func ParseDietary(rows [][]any) Parsed[models.DietaryRecord] {
	return parse(rows, Columns(KindDietary), func(r normalize.Row) models.DietaryRecord {
		return models.DietaryRecord{
			Person:        r.Person(),
			Dietary:       r.Text(columns.FieldDietary),
			Accessibility: r.Text(columns.FieldAccessibility),
			SpecialNotes:  r.Text(columns.FieldSpecialNotes),
		}
	})
}
