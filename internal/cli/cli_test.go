package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/tripcheck/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) (*Context, *bytes.Buffer, func()) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "tripcheck.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := &Context{
		Store: store,
		Out:   out,
		In:    strings.NewReader(""),
	}
	return ctx, out, func() { store.Close() }
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

const (
	testFlights = `Guest Name,Email,Arrival Date,Departure Date
Ann Lee,ann@example.com,2025-12-04,2025-12-08
Bob Ray,BOB@example.com,2025-12-05,2025-12-08
`
	testHotel = `Guest Name,Email,Check-in,Check-out,Hotel
Ann Lee,ann@example.com,2025-12-04,2025-12-08,Harbor Inn
Bob Ray,bob@example.com,2025-12-04,2025-12-08,Harbor Inn
Dana Fox,dana@example.com,2025-12-04,2025-12-07,Harbor Inn
`
)

// writeSources writes the default flight and hotel lists and returns their paths.
func writeSources(t *testing.T) (dir, flights, hotel string) {
	t.Helper()
	dir = t.TempDir()
	return dir, writeFile(t, dir, "flights.csv", testFlights), writeFile(t, dir, "hotel.csv", testHotel)
}
