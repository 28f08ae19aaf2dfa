// Package columns resolves which spreadsheet column backs each semantic field.
//
// Matching is intentionally permissive: header cells are lower-cased and trimmed,
// and a field matches the first header cell that contains one of its candidate
// substrings. Candidates are tried in priority order, so the first candidate that
// matches anything wins even if a later candidate would match an earlier column.
package columns

import "strings"

// Field names a semantic field a source parser wants to extract.
type Field string

const (
	FieldName      Field = "name"
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldEmail     Field = "email"

	FieldFlightArrival   Field = "flightArrival"
	FieldFlightDeparture Field = "flightDeparture"
	FieldFlightIn        Field = "flightIn"
	FieldFlightOut       Field = "flightOut"
	FieldAirport         Field = "airport"

	FieldCheckIn  Field = "checkIn"
	FieldCheckOut Field = "checkOut"
	FieldRoom     Field = "room"
	FieldHotel    Field = "hotel"

	FieldPickupDate   Field = "pickupDate"
	FieldDropoffDate  Field = "dropoffDate"
	FieldPickupLoc    Field = "pickupLoc"
	FieldDropoffLoc   Field = "dropoffLoc"
	FieldConfirmation Field = "confirmation"

	FieldDietary       Field = "dietary"
	FieldAccessibility Field = "accessibility"
	FieldSpecialNotes  Field = "specialNotes"
)

// Absent is the index reported for a field no header matched.
const Absent = -1

// Candidates lists the header substrings tried for one field, highest priority first.
type Candidates struct {
	Field      Field
	Substrings []string
}

// Table is an ordered candidate table. Order only matters for Collisions output.
type Table []Candidates

// With returns a copy of t with extra candidate entries appended.
func (t Table) With(extra ...Candidates) Table {
	out := make(Table, 0, len(t)+len(extra))
	out = append(out, t...)
	return append(out, extra...)
}

// Map is the resolved field -> column index mapping.
type Map struct {
	order   []Field
	indices map[Field]int
}

// Resolve maps every field in table to a header column index, or Absent.
func Resolve(header []string, table Table) Map {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	m := Map{
		order:   make([]Field, 0, len(table)),
		indices: make(map[Field]int, len(table)),
	}
	for _, c := range table {
		if _, seen := m.indices[c.Field]; !seen {
			m.order = append(m.order, c.Field)
		}
		m.indices[c.Field] = findColumn(normalized, c.Substrings)
	}
	return m
}

func findColumn(header []string, substrings []string) int {
	for _, sub := range substrings {
		sub = strings.ToLower(sub)
		if sub == "" {
			continue
		}
		for i, h := range header {
			if h == "" {
				continue
			}
			if strings.Contains(h, sub) {
				return i
			}
		}
	}
	return Absent
}

// Index returns the column for f and whether it was found.
func (m Map) Index(f Field) (int, bool) {
	idx, ok := m.indices[f]
	if !ok || idx == Absent {
		return Absent, false
	}
	return idx, true
}

// Has reports whether f resolved to a column.
func (m Map) Has(f Field) bool {
	_, ok := m.Index(f)
	return ok
}

// Fields returns the resolved fields in table order.
func (m Map) Fields() []Field {
	return append([]Field(nil), m.order...)
}

// Collision describes several fields that resolved to the same column.
type Collision struct {
	Column int
	Fields []Field
}

// Collisions lists columns claimed by more than one field. The mapping itself is
// not altered; callers decide whether to surface a warning.
func (m Map) Collisions() []Collision {
	byColumn := make(map[int][]Field)
	var columns []int
	for _, f := range m.order {
		idx := m.indices[f]
		if idx == Absent {
			continue
		}
		if _, ok := byColumn[idx]; !ok {
			columns = append(columns, idx)
		}
		byColumn[idx] = append(byColumn[idx], f)
	}

	var out []Collision
	for _, col := range columns {
		if fields := byColumn[col]; len(fields) > 1 {
			out = append(out, Collision{Column: col, Fields: fields})
		}
	}
	return out
}
