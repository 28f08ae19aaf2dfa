package columns

import "testing"

func TestResolve_SubstringCaseInsensitive(t *testing.T) {
	header := []string{"  Guest Name ", "E-MAIL Address", "Arrival Date"}
	table := Table{
		{Field: FieldName, Substrings: []string{"name"}},
		{Field: FieldEmail, Substrings: []string{"email", "e-mail"}},
		{Field: FieldFlightArrival, Substrings: []string{"arrival"}},
		{Field: FieldAirport, Substrings: []string{"airport"}},
	}

	m := Resolve(header, table)

	tests := []struct {
		field Field
		want  int
		found bool
	}{
		{FieldName, 0, true},
		{FieldEmail, 1, true},
		{FieldFlightArrival, 2, true},
		{FieldAirport, Absent, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			got, ok := m.Index(tt.field)
			if got != tt.want || ok != tt.found {
				t.Errorf("Index(%s) = (%d, %v), want (%d, %v)", tt.field, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestResolve_CandidatePriorityWins(t *testing.T) {
	// "arrive" appears in an earlier column but "arrival" is the higher priority candidate.
	header := []string{"Arrive By", "Arrival"}
	table := Table{
		{Field: FieldFlightArrival, Substrings: []string{"arrival", "arrive"}},
	}

	m := Resolve(header, table)
	if idx, _ := m.Index(FieldFlightArrival); idx != 1 {
		t.Errorf("expected column 1 for first-priority candidate, got %d", idx)
	}
}

func TestResolve_DuplicateHeadersUseFirst(t *testing.T) {
	header := []string{"Email", "email"}
	m := Resolve(header, Table{{Field: FieldEmail, Substrings: []string{"email"}}})
	if idx, _ := m.Index(FieldEmail); idx != 0 {
		t.Errorf("expected first occurrence, got %d", idx)
	}
}

func TestResolve_EmptyHeaderCellsIgnored(t *testing.T) {
	header := []string{"", "   ", "Name"}
	// An empty candidate must never match, and blank headers are skipped.
	m := Resolve(header, Table{{Field: FieldName, Substrings: []string{"", "name"}}})
	if idx, _ := m.Index(FieldName); idx != 2 {
		t.Errorf("expected column 2, got %d", idx)
	}
}

func TestCollisions(t *testing.T) {
	header := []string{"Check-in / Check-out"}
	table := Table{
		{Field: FieldCheckIn, Substrings: []string{"check-in"}},
		{Field: FieldCheckOut, Substrings: []string{"check-out"}},
		{Field: FieldRoom, Substrings: []string{"room"}},
	}

	m := Resolve(header, table)

	// Both fields alias the same column; the mapping is left as-is.
	if !m.Has(FieldCheckIn) || !m.Has(FieldCheckOut) {
		t.Fatal("expected both fields to resolve")
	}

	collisions := m.Collisions()
	if len(collisions) != 1 {
		t.Fatalf("expected 1 collision, got %d", len(collisions))
	}
	if collisions[0].Column != 0 || len(collisions[0].Fields) != 2 {
		t.Errorf("unexpected collision: %+v", collisions[0])
	}
}

func TestTableWith(t *testing.T) {
	base := Table{{Field: FieldName, Substrings: []string{"name"}}}
	extended := base.With(Candidates{Field: FieldEmail, Substrings: []string{"mail"}})

	if len(base) != 1 {
		t.Errorf("With must not modify the receiver, got len %d", len(base))
	}
	if len(extended) != 2 {
		t.Errorf("expected 2 entries, got %d", len(extended))
	}
	if fields := Resolve([]string{"Name", "Mail"}, extended).Fields(); len(fields) != 2 || fields[1] != FieldEmail {
		t.Errorf("unexpected field order: %v", fields)
	}
}
