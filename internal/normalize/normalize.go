// Package normalize turns raw spreadsheet cells into typed record fields.
//
// Nothing here returns an error: malformed input degrades to nil dates and empty
// strings so that every non-blank row still yields a record.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/julianstephens/tripcheck/internal/columns"
	"github.com/julianstephens/tripcheck/internal/constants"
	"github.com/julianstephens/tripcheck/internal/models"
)

const (
	// serialUnixEpoch is the 1900-system spreadsheet serial for 1970-01-01.
	serialUnixEpoch = 25569
	msPerDay        = 86400 * 1000
	// maxDateMs bounds representable dates to ±100,000,000 days around the Unix epoch.
	maxDateMs = 8.64e15
)

// dateLayouts are tried in order for string cells.
var dateLayouts = []string{
	constants.DateFormat,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006/01/02 15:04",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 3:04 PM",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"Mon, 02 Jan 2006",
	"Mon Jan 2 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// SerialToTime converts a 1900-system spreadsheet serial to a UTC instant.
// Fractional serials carry the time of day.
func SerialToTime(serial float64) time.Time {
	ms := math.Round((serial - serialUnixEpoch) * msPerDay)
	return time.UnixMilli(int64(ms)).UTC()
}

// Date parses a cell as a date. It accepts native time values, numeric
// spreadsheet serials, and date strings. Anything else yields nil.
func Date(cell any) *time.Time {
	switch v := cell.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return &v
	case *time.Time:
		if v == nil || v.IsZero() {
			return nil
		}
		t := *v
		return &t
	case float64:
		return fromSerial(v)
	case float32:
		return fromSerial(float64(v))
	case int:
		return fromSerial(float64(v))
	case int64:
		return fromSerial(float64(v))
	case int32:
		return fromSerial(float64(v))
	case string:
		return parseDateString(v)
	}
	return nil
}

func fromSerial(serial float64) *time.Time {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return nil
	}
	if math.Abs((serial-serialUnixEpoch)*msPerDay) > maxDateMs {
		return nil
	}
	t := SerialToTime(serial)
	return &t
}

func parseDateString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	// CSV exports flatten serial dates to digits.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(f)
	}
	return nil
}

// DateOnly strips the time of day, keeping the calendar date as seen in t's location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns round((dateOnly(a) - dateOnly(b)) / day).
func DaysBetween(a, b time.Time) int {
	diff := DateOnly(a).Sub(DateOnly(b))
	return int(math.Round(diff.Hours() / 24))
}

// Text coerces a cell to a trimmed string.
func Text(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(constants.DateFormat)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	}
	return strings.TrimSpace(fmt.Sprint(cell))
}

// Email lower-cases and trims an email cell.
func Email(cell any) string {
	return strings.ToLower(Text(cell))
}

// NameKey strips every non-letter character and lower-cases the rest.
// It is the key used to match guests by name.
func NameKey(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// SplitName splits a display name into first and last name.
//
// "Last, First" splits on the first comma. Otherwise the final whitespace
// token is the last name and everything before it is the first name.
func SplitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}

	if strings.Contains(name, ",") {
		parts := strings.Split(name, ",")
		last = strings.TrimSpace(parts[0])
		first = strings.TrimSpace(strings.Join(parts[1:], ","))
		return first, last
	}

	tokens := strings.Fields(name)
	if len(tokens) == 1 {
		return tokens[0], ""
	}
	return strings.Join(tokens[:len(tokens)-1], " "), tokens[len(tokens)-1]
}

// PlaceholderName names a row that has no name. Spreadsheet rows are 1-based
// and the header occupies row 1, so data row i is spreadsheet row i+2.
func PlaceholderName(rowIndex int) string {
	return fmt.Sprintf("Row %d", rowIndex+2)
}

// IsBlankRow reports whether every cell in the row is empty.
func IsBlankRow(cells []any) bool {
	for _, c := range cells {
		if Text(c) != "" {
			return false
		}
	}
	return true
}

// Row reads semantic fields out of one raw spreadsheet row.
type Row struct {
	cells []any
	cols  columns.Map
	index int
}

// NewRow binds raw cells to a resolved column map. index is the zero-based
// data row index (the header is not counted).
func NewRow(cells []any, cols columns.Map, index int) Row {
	return Row{cells: cells, cols: cols, index: index}
}

// Cell returns the raw cell backing f, or nil when the column is absent.
func (r Row) Cell(f columns.Field) any {
	idx, ok := r.cols.Index(f)
	if !ok || idx >= len(r.cells) {
		return nil
	}
	return r.cells[idx]
}

func (r Row) Text(f columns.Field) string {
	return Text(r.Cell(f))
}

func (r Row) Date(f columns.Field) *time.Time {
	return Date(r.Cell(f))
}

// Person builds the shared identity fields. Explicit first/last-name columns take
// precedence over splitting the single name column.
func (r Row) Person() models.Person {
	name := r.Text(columns.FieldName)
	if name == "" {
		name = PlaceholderName(r.index)
	}

	p := models.Person{
		Email: Email(r.Cell(columns.FieldEmail)),
	}

	if r.cols.Has(columns.FieldFirstName) || r.cols.Has(columns.FieldLastName) {
		p.FirstName = r.Text(columns.FieldFirstName)
		p.LastName = r.Text(columns.FieldLastName)
		p.Name = strings.TrimSpace(p.FirstName + " " + p.LastName)
		if p.Name == "" {
			p.Name = name
			p.FirstName, p.LastName = SplitName(name)
		}
		return p
	}

	p.Name = name
	p.FirstName, p.LastName = SplitName(name)
	return p
}
