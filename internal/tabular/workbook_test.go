package tabular

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func setupTestWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	isoDate := "yyyy-mm-dd"
	builtin, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		t.Fatalf("NewStyle() failed: %v", err)
	}
	custom, err := f.NewStyle(&excelize.Style{CustomNumFmt: &isoDate})
	if err != nil {
		t.Fatalf("NewStyle() failed: %v", err)
	}

	values := map[string]any{
		"A1": "Guest Name", "B1": "Email", "C1": "Arrival Date", "D1": "Departure Date", "E1": "Room",
		"A2": "José Diaz", "B2": "jose@example.com",
		"C2": time.Date(2025, 12, 4, 0, 0, 0, 0, time.UTC), "D2": 46000, "E2": 101,
		"A3": "Sam Poe",
	}
	for ref, v := range values {
		if err := f.SetCellValue(sheet, ref, v); err != nil {
			t.Fatalf("SetCellValue(%s) failed: %v", ref, err)
		}
	}
	if err := f.SetCellStyle(sheet, "C2", "C2", builtin); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellStyle(sheet, "D2", "D2", custom); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "flights.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() failed: %v", err)
	}
	return path
}

func TestReadWorkbook(t *testing.T) {
	sheet, err := ReadFile(setupTestWorkbook(t))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if sheet.Encoding != "xlsx" {
		t.Errorf("Encoding = %q, want xlsx", sheet.Encoding)
	}
	if len(sheet.Rows) != 3 {
		t.Fatalf("expected header and 2 data rows, got %d: %v", len(sheet.Rows), sheet.Rows)
	}
	if len(sheet.Warnings) != 0 {
		t.Errorf("short workbook rows should pad silently, got %v", sheet.Warnings)
	}

	row := sheet.Rows[1]
	if row[0] != "José Diaz" {
		t.Errorf("name = %q, want the composed form", row[0])
	}

	for col, want := range map[int]string{2: "2025-12-04", 3: "2025-12-09"} {
		got, ok := row[col].(time.Time)
		if !ok {
			t.Errorf("column %d = %T %v, want a native date", col, row[col], row[col])
			continue
		}
		if got.Format("2006-01-02") != want {
			t.Errorf("column %d = %s, want %s", col, got.Format("2006-01-02"), want)
		}
	}
	if row[4] != "101" {
		t.Errorf("unformatted number = %T %v, want the raw text", row[4], row[4])
	}

	if short := sheet.Rows[2]; len(short) != 5 || short[0] != "Sam Poe" || short[4] != "" {
		t.Errorf("short row = %v, want padding to the header width", short)
	}
}

func TestIsDateFormat(t *testing.T) {
	tests := []struct {
		format string
		want   bool
	}{
		{"yyyy-mm-dd", true},
		{"d-mmm-yy", true},
		{"[h]:mm:ss", true},
		{"[$-409]mmmm d, yyyy;@", true},
		{"General", false},
		{"0.00", false},
		{"#,##0", false},
		{`0 "days"`, false},
		{"[Red]0.00", false},
		{"@", false},
	}
	for _, tt := range tests {
		if got := IsDateFormat(tt.format); got != tt.want {
			t.Errorf("IsDateFormat(%q) = %v, want %v", tt.format, got, tt.want)
		}
	}
}
