package tabular

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// builtinDateFormats are the predefined number format IDs that render dates or times.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// formatNoise strips quoted literals, escaped characters and bracketed
// sections ([Red], [$-409]) before looking for date tokens.
var formatNoise = regexp.MustCompile(`"[^"]*"|\\.|\[[^\]]*\]`)

// IsDateFormat reports whether a custom number format renders a date or time.
func IsDateFormat(format string) bool {
	f := strings.ToLower(formatNoise.ReplaceAllString(format, ""))
	return strings.ContainsAny(f, "ymdhs")
}

// ReadWorkbook reads the active sheet of an .xlsx workbook. Cells formatted as
// dates come back as time.Time; every other cell is its raw text. Rows shorter
// than the header are padded silently, since workbooks omit trailing empty
// cells. Longer rows are truncated with a warning.
func ReadWorkbook(path string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	name := f.GetSheetName(f.GetActiveSheetIndex())
	if name == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return &Sheet{Encoding: "xlsx", Rows: [][]any{}}, nil
		}
		name = list[0]
	}

	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", name, path, err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	w := &workbook{file: f, sheet: name, date1904: date1904, styles: map[int]bool{}}
	sheet := &Sheet{Encoding: "xlsx", Rows: [][]any{}}
	if len(raw) == 0 {
		return sheet, nil
	}

	width := len(raw[0])
	sheet.Rows = append(sheet.Rows, cells(raw[0]))
	for r := 1; r < len(raw); r++ {
		record := raw[r]
		if len(record) > width {
			sheet.Warnings = append(sheet.Warnings, Warning{
				Row:     r + 1,
				Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(record), width),
			})
			record = record[:width]
		}

		row := make([]any, width)
		for c := range row {
			row[c] = ""
			if c < len(record) {
				row[c] = w.cell(record[c], c, r)
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

type workbook struct {
	file     *excelize.File
	sheet    string
	date1904 bool
	styles   map[int]bool // style ID -> renders a date
}

// cell converts one raw value at zero-based column c, row r.
func (w *workbook) cell(value string, c, r int) any {
	serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return norm.NFC.String(value)
	}

	ref, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return value
	}
	styleID, err := w.file.GetCellStyle(w.sheet, ref)
	if err != nil || !w.isDateStyle(styleID) {
		return value
	}

	t, err := excelize.ExcelDateToTime(serial, w.date1904)
	if err != nil {
		return value
	}
	return t
}

func (w *workbook) isDateStyle(id int) bool {
	if isDate, ok := w.styles[id]; ok {
		return isDate
	}
	isDate := false
	if style, err := w.file.GetStyle(id); err == nil && style != nil {
		switch {
		case style.CustomNumFmt != nil:
			isDate = IsDateFormat(*style.CustomNumFmt)
		default:
			isDate = builtinDateFormats[style.NumFmt]
		}
	}
	w.styles[id] = isDate
	return isDate
}
