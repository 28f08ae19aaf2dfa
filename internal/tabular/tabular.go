// Package tabular reads spreadsheet exports into rows of cells.
//
// The first row is the header. Delimited files yield string cells. Workbooks
// also yield time.Time for date-formatted cells. The row normalizer interprets
// everything else.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Warning is a non-fatal problem found in one row.
type Warning struct {
	Row     int // 1-based, header is row 1
	Message string
}

// Sheet is the parsed content of one file.
type Sheet struct {
	Rows     [][]any
	Encoding string
	Warnings []Warning
}

// DataRows is the number of rows after the header.
func (s *Sheet) DataRows() int {
	if len(s.Rows) == 0 {
		return 0
	}
	return len(s.Rows) - 1
}

// ReadFile reads a CSV, TSV or .xlsx file. For delimited files the delimiter
// is chosen by extension and, for unknown extensions, sniffed from the first line.
func ReadFile(path string) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadWorkbook(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	sheet, err := Read(data, delimiterFor(path, data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return sheet, nil
}

func delimiterFor(path string, data []byte) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ','
	case ".tsv", ".tab":
		return '\t'
	}
	first, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(first, []byte("\t")) > bytes.Count(first, []byte(",")) {
		return '\t'
	}
	return ','
}

// Read parses delimited data. Data rows are padded or truncated to the header
// width and a warning is recorded for each. An empty input yields no rows.
func Read(data []byte, delimiter rune) (*Sheet, error) {
	decoded, encoding, err := Decode(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	sheet := &Sheet{Encoding: encoding, Rows: [][]any{}}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return sheet, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	sheet.Rows = append(sheet.Rows, cells(header))

	width := len(header)
	rowNum := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++

		if err != nil {
			sheet.Warnings = append(sheet.Warnings, Warning{Row: rowNum, Message: fmt.Sprintf("parse error: %v", err)})
			continue
		}

		switch {
		case len(record) < width:
			sheet.Warnings = append(sheet.Warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; padding with empty values", len(record), width),
			})
			padded := make([]string, width)
			copy(padded, record)
			record = padded
		case len(record) > width:
			sheet.Warnings = append(sheet.Warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(record), width),
			})
			record = record[:width]
		}

		sheet.Rows = append(sheet.Rows, cells(record))
	}

	return sheet, nil
}

// cells converts a record to NFC-normalized cell values so that composed and
// decomposed accents produce the same name keys.
func cells(record []string) []any {
	out := make([]any, len(record))
	for i, v := range record {
		out[i] = norm.NFC.String(v)
	}
	return out
}
