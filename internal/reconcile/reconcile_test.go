package reconcile

import (
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/tripcheck/internal/models"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func person(name, email string) models.Person {
	return models.Person{Name: name, Email: email}
}

func flight(name, email string, arrive, depart *time.Time) models.FlightRecord {
	return models.FlightRecord{Person: person(name, email), FlightArrival: arrive, FlightDeparture: depart}
}

func hotel(name, email string, in, out *time.Time) models.HotelRecord {
	return models.HotelRecord{Person: person(name, email), CheckIn: in, CheckOut: out}
}

func issueTexts(g models.Guest) []string {
	out := make([]string, 0, len(g.Issues))
	for _, issue := range g.Issues {
		out = append(out, issue.Text)
	}
	return out
}

func findGuest(t *testing.T, guests []models.Guest, key string) models.Guest {
	t.Helper()
	for _, g := range guests {
		if g.Key == key {
			return g
		}
	}
	t.Fatalf("no guest with key %q in %d guests", key, len(guests))
	return models.Guest{}
}

func TestCrossMatch_EmailTakesPrecedence(t *testing.T) {
	src := Sources{
		Flights: []models.FlightRecord{flight("Jane Doe", "jane@example.com", day(2025, 12, 4), day(2025, 12, 8))},
		Hotels:  []models.HotelRecord{hotel("Doe, Jane", "jane@example.com", day(2025, 12, 4), day(2025, 12, 8))},
		Cars:    []models.CarRecord{{Person: person("Jane Doe", "")}},
	}

	guests := CrossMatch(src, models.TravelWindow{}, nil)
	if len(guests) != 1 {
		t.Fatalf("expected a single guest, got %d: %+v", len(guests), guests)
	}

	g := guests[0]
	if g.MatchedBy != models.MatchedByEmail || g.Key != "jane@example.com" {
		t.Errorf("expected email match on jane@example.com, got %s %q", g.MatchedBy, g.Key)
	}
	if g.DisplayName != "Jane Doe" {
		t.Errorf("expected flight display name to win, got %q", g.DisplayName)
	}
	if g.Flight == nil || g.Hotel == nil {
		t.Fatal("expected flight and hotel records on the guest")
	}
	// The name-only car record belongs to an email-matched name, so it is not re-matched.
	if g.Car != nil {
		t.Error("car record without email should not join an email match")
	}
	if !g.HasIssue(textMissingCar) {
		t.Errorf("expected missing car issue, got %v", issueTexts(g))
	}
}

func TestCrossMatch_NameFallback(t *testing.T) {
	src := Sources{
		Flights: []models.FlightRecord{flight("Jane Doe", "", day(2025, 12, 4), day(2025, 12, 8))},
		Hotels:  []models.HotelRecord{hotel("DOE JANE", "", day(2025, 12, 4), day(2025, 12, 8))},
	}

	guests := CrossMatch(src, models.TravelWindow{}, nil)
	if len(guests) != 2 {
		t.Fatalf("expected 2 guests, names differ in order: got %d", len(guests))
	}

	src.Hotels[0].Name = "Jane  Doe."
	guests = CrossMatch(src, models.TravelWindow{}, nil)
	if len(guests) != 1 {
		t.Fatalf("expected 1 guest, got %d", len(guests))
	}
	g := guests[0]
	if g.MatchedBy != models.MatchedByName || g.Key != "janedoe" {
		t.Errorf("expected name match on janedoe, got %s %q", g.MatchedBy, g.Key)
	}
	if g.Status != models.StatusOK {
		t.Errorf("expected ok, got %s with %v", g.Status, issueTexts(g))
	}
}

func TestCrossMatch_ArrivalAfterCheckIn(t *testing.T) {
	src := Sources{
		Flights: []models.FlightRecord{flight("Jane Doe", "jane@example.com", day(2025, 12, 5), day(2025, 12, 8))},
		Hotels:  []models.HotelRecord{hotel("Jane Doe", "jane@example.com", day(2025, 12, 4), day(2025, 12, 8))},
	}

	g := CrossMatch(src, models.TravelWindow{}, nil)[0]

	want := []string{"Arrives 1 day after check-in"}
	if got := issueTexts(g); !reflect.DeepEqual(got, want) {
		t.Errorf("issues = %v, want %v", got, want)
	}
	if g.Details.ArrDiff == nil || *g.Details.ArrDiff != 1 {
		t.Errorf("expected arrDiff 1, got %v", g.Details.ArrDiff)
	}
	if g.Details.DepDiff == nil || *g.Details.DepDiff != 0 {
		t.Errorf("expected zero depDiff to be stored, got %v", g.Details.DepDiff)
	}
	if g.Details.PickupDiff != nil {
		t.Errorf("expected nil pickupDiff without a car, got %v", *g.Details.PickupDiff)
	}
	if g.Status != models.StatusWarn {
		t.Errorf("expected warn, got %s", g.Status)
	}
}

func TestCrossMatch_DuplicateNames(t *testing.T) {
	src := Sources{
		Flights: []models.FlightRecord{
			flight("Jane Doe", "", day(2025, 12, 4), nil),
			flight("jane doe", "", day(2025, 12, 5), nil),
			flight("John Roe", "", day(2025, 12, 4), nil),
		},
	}

	guests := CrossMatch(src, models.TravelWindow{}, nil)

	jane := findGuest(t, guests, "janedoe")
	if !jane.HasIssue(textDuplicate) {
		t.Errorf("expected duplicate issue, got %v", issueTexts(jane))
	}
	// Later duplicates overwrite earlier ones in the index.
	if jane.Flight.FlightArrival.Day() != 5 {
		t.Errorf("expected last duplicate record to win, got %v", jane.Flight.FlightArrival)
	}

	john := findGuest(t, guests, "johnroe")
	if john.HasIssue(textDuplicate) {
		t.Error("unique name flagged as duplicate")
	}
}

func TestCrossMatch_DietaryDuplicatesIgnored(t *testing.T) {
	src := Sources{
		Flights: []models.FlightRecord{flight("Jane Doe", "", nil, nil)},
		Hotels:  []models.HotelRecord{hotel("Jane Doe", "", nil, nil)},
		Dietary: []models.DietaryRecord{
			{Person: person("Jane Doe", ""), Dietary: "Vegan"},
			{Person: person("Jane Doe", ""), Dietary: "Kosher"},
		},
	}

	g := CrossMatch(src, models.TravelWindow{}, nil)[0]
	if g.HasIssue(textDuplicate) {
		t.Error("repeated dietary names must not raise a duplicate issue")
	}
	if g.Diet == nil || g.Diet.Dietary != "Kosher" {
		t.Errorf("expected last dietary record, got %+v", g.Diet)
	}
}

func TestCrossMatch_CarSource(t *testing.T) {
	flights := []models.FlightRecord{
		flight("Jane Doe", "jane@example.com", day(2025, 12, 4), day(2025, 12, 8)),
		flight("John Roe", "john@example.com", day(2025, 12, 4), day(2025, 12, 8)),
	}

	t.Run("no car file", func(t *testing.T) {
		guests := CrossMatch(Sources{Flights: flights}, models.TravelWindow{}, nil)
		for _, g := range guests {
			if g.HasIssue(textMissingCar) {
				t.Errorf("%s: unexpected missing car issue", g.Key)
			}
		}
	})

	t.Run("car file supplied", func(t *testing.T) {
		cars := []models.CarRecord{{
			Person:      person("Jane Doe", "jane@example.com"),
			PickupDate:  day(2025, 12, 2),
			DropoffDate: day(2025, 12, 9),
		}}
		guests := CrossMatch(Sources{Flights: flights, Cars: cars}, models.TravelWindow{}, nil)

		jane := findGuest(t, guests, "jane@example.com")
		for _, want := range []string{"Car pickup 2 days before flight arrival", "Car dropoff 1 day after flight departure"} {
			if !jane.HasIssue(want) {
				t.Errorf("expected %q, got %v", want, issueTexts(jane))
			}
		}
		if jane.Details.PickupDiff == nil || *jane.Details.PickupDiff != -2 {
			t.Errorf("expected pickupDiff -2, got %v", jane.Details.PickupDiff)
		}
		if jane.Details.DropoffDiff == nil || *jane.Details.DropoffDiff != 1 {
			t.Errorf("expected dropoffDiff 1, got %v", jane.Details.DropoffDiff)
		}

		john := findGuest(t, guests, "john@example.com")
		if !john.HasIssue(textMissingCar) {
			t.Errorf("expected missing car issue, got %v", issueTexts(john))
		}
	})
}

func TestCrossMatch_TravelWindow(t *testing.T) {
	window := models.TravelWindow{
		ArrivalStart: day(2025, 12, 3),
		ArrivalEnd:   day(2025, 12, 5),
		DepartureEnd: day(2025, 12, 9),
	}

	tests := []struct {
		name string
		src  Sources
		want []string
	}{
		{
			name: "inside window",
			src: Sources{
				Flights: []models.FlightRecord{flight("A", "a@x.com", day(2025, 12, 3), day(2025, 12, 9))},
				Hotels:  []models.HotelRecord{hotel("A", "a@x.com", day(2025, 12, 3), day(2025, 12, 9))},
			},
			want: []string{},
		},
		{
			name: "early arrival and late departure",
			src: Sources{
				Flights: []models.FlightRecord{flight("A", "a@x.com", day(2025, 12, 1), day(2025, 12, 10))},
				Hotels:  []models.HotelRecord{hotel("A", "a@x.com", day(2025, 12, 1), day(2025, 12, 10))},
			},
			want: []string{
				"Arrival 2025-12-01 is before arrival window start (window: 2025-12-03 to 2025-12-05)",
				"Departure 2025-12-10 is after departure window end (window: until 2025-12-09)",
			},
		},
		{
			name: "hotel dates used without flight",
			src: Sources{
				Hotels: []models.HotelRecord{hotel("A", "a@x.com", day(2025, 12, 6), day(2025, 12, 8))},
			},
			want: []string{
				textMissingFlight,
				"Arrival 2025-12-06 is after arrival window end (window: 2025-12-03 to 2025-12-05)",
			},
		},
		{
			name: "time of day ignored",
			src: Sources{
				Flights: []models.FlightRecord{flight("A", "a@x.com", ptr(time.Date(2025, 12, 5, 23, 59, 0, 0, time.UTC)), nil)},
				Hotels:  []models.HotelRecord{hotel("A", "a@x.com", day(2025, 12, 5), nil)},
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := CrossMatch(tt.src, window, nil)[0]
			if got := issueTexts(g); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("issues = %v, want %v", got, tt.want)
			}
		})
	}
}

func ptr(t time.Time) *time.Time { return &t }

func TestCrossMatch_UnsetWindowDirections(t *testing.T) {
	src := Sources{
		Flights: []models.FlightRecord{flight("A", "a@x.com", day(2025, 12, 1), day(2025, 12, 20))},
		Hotels:  []models.HotelRecord{hotel("A", "a@x.com", day(2025, 12, 1), day(2025, 12, 20))},
	}

	tests := []struct {
		name   string
		window models.TravelWindow
		want   []string
	}{
		{name: "no window", window: models.TravelWindow{}, want: []string{}},
		{
			name:   "arrival bounds only",
			window: models.TravelWindow{ArrivalStart: day(2025, 12, 3)},
			want:   []string{"Arrival 2025-12-01 is before arrival window start (window: from 2025-12-03)"},
		},
		{
			name:   "departure bounds only",
			window: models.TravelWindow{DepartureEnd: day(2025, 12, 9)},
			want:   []string{"Departure 2025-12-20 is after departure window end (window: until 2025-12-09)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := CrossMatch(src, tt.window, nil)[0]
			if got := issueTexts(g); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("issues = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCrossMatch_MetaCarriedForward(t *testing.T) {
	src := Sources{
		Flights: []models.FlightRecord{flight("Jane Doe", "jane@example.com", day(2025, 12, 5), day(2025, 12, 9))},
		Hotels:  []models.HotelRecord{hotel("Jane Doe", "jane@example.com", day(2025, 12, 4), day(2025, 12, 8))},
	}
	meta := models.MetaStore{
		"jane@example.com": {Resolved: []string{"Arrives 1 day after check-in"}, Note: "late flight booked"},
	}

	without := CrossMatch(src, models.TravelWindow{}, nil)[0]
	if without.Status != models.StatusError {
		t.Fatalf("expected error with two active issues, got %s", without.Status)
	}

	with := CrossMatch(src, models.TravelWindow{}, meta)[0]
	if with.Status != models.StatusWarn {
		t.Errorf("expected warn after resolving one issue, got %s", with.Status)
	}
	if with.Note != "late flight booked" {
		t.Errorf("expected note to carry forward, got %q", with.Note)
	}
	if len(with.Issues) != 2 {
		t.Errorf("resolved issues stay on the guest, got %v", issueTexts(with))
	}
}

func TestCrossMatch_Idempotent(t *testing.T) {
	src := Sources{
		Flights: []models.FlightRecord{
			flight("Jane Doe", "jane@example.com", day(2025, 12, 5), day(2025, 12, 9)),
			flight("Sam Poe", "", day(2025, 12, 4), day(2025, 12, 8)),
		},
		Hotels: []models.HotelRecord{
			hotel("Jane Doe", "jane@example.com", day(2025, 12, 4), day(2025, 12, 8)),
			hotel("Ann Lee", "ann@example.com", day(2025, 12, 4), day(2025, 12, 8)),
		},
		Dietary: []models.DietaryRecord{{Person: person("Kai Moe", "")}},
	}
	meta := models.MetaStore{"samsoe": {Note: "x"}}

	first := CrossMatch(src, models.TravelWindow{}, meta)
	second := CrossMatch(src, models.TravelWindow{}, meta)
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical results for identical inputs")
	}

	for _, g := range first {
		seen := map[string]bool{}
		for _, text := range issueTexts(g) {
			if seen[text] {
				t.Errorf("%s: duplicate issue text %q", g.Key, text)
			}
			seen[text] = true
		}
	}
}

func TestCrossMatch_DoesNotModifyInput(t *testing.T) {
	src := Sources{
		Flights: []models.FlightRecord{flight("Jane Doe", "jane@example.com", day(2025, 12, 5), nil)},
	}
	g := CrossMatch(src, models.TravelWindow{}, nil)[0]
	g.Flight.Airport = "changed"
	if src.Flights[0].Airport != "" {
		t.Error("guest records must be copies of the source records")
	}
}

func TestCheckConsistency_MissingSources(t *testing.T) {
	issues, details := CheckConsistency(nil, nil, nil, true, models.TravelWindow{})

	want := []string{textMissingFlight, textMissingHotel, textMissingCar}
	if len(issues) != len(want) {
		t.Fatalf("expected %d issues, got %v", len(want), issues)
	}
	for i, issue := range issues {
		if issue.Text != want[i] || issue.Type != models.IssueMissing {
			t.Errorf("issue %d = %+v, want missing %q", i, issue, want[i])
		}
	}
	if details != (models.Details{}) {
		t.Errorf("expected empty details, got %+v", details)
	}
}

func TestMismatchPhrasing(t *testing.T) {
	tests := []struct {
		diff int
		want string
	}{
		{1, "Departs 1 day after check-out"},
		{-1, "Departs 1 day before check-out"},
		{3, "Departs 3 days after check-out"},
		{-2, "Departs 2 days before check-out"},
	}
	for _, tt := range tests {
		if got := mismatch("Departs %s check-out", tt.diff).Text; got != tt.want {
			t.Errorf("mismatch(%d) = %q, want %q", tt.diff, got, tt.want)
		}
	}
}

func TestDeriveStatus(t *testing.T) {
	issues := []models.Issue{
		{Type: models.IssueMissing, Text: "a"},
		{Type: models.IssueMismatch, Text: "b"},
	}

	tests := []struct {
		name       string
		resolved   []string
		wantActive int
		want       models.Status
	}{
		{"none resolved", nil, 2, models.StatusError},
		{"one resolved", []string{"a"}, 1, models.StatusWarn},
		{"all resolved", []string{"b", "a"}, 0, models.StatusOK},
		{"unknown text", []string{"zzz"}, 2, models.StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			active, status := DeriveStatus(issues, tt.resolved)
			if len(active) != tt.wantActive || status != tt.want {
				t.Errorf("DeriveStatus() = (%d, %s), want (%d, %s)", len(active), status, tt.wantActive, tt.want)
			}
		})
	}

	if _, status := DeriveStatus(nil, nil); status != models.StatusOK {
		t.Errorf("expected ok with no issues, got %s", status)
	}
}

func TestApplyMeta(t *testing.T) {
	guests := []models.Guest{
		{
			Key:    "jane@example.com",
			Email:  "jane@example.com",
			Issues: []models.Issue{{Text: "a"}, {Text: "b"}},
			Status: models.StatusError,
		},
		{
			Key:    "samsoe",
			Issues: []models.Issue{{Text: "c"}},
			Status: models.StatusWarn,
		},
	}
	meta := models.MetaStore{
		"jane@example.com": {Resolved: []string{"a"}},
		"samsoe":           {Resolved: []string{"c"}, Note: "called"},
	}

	got := ApplyMeta(guests, meta)
	if got[0].Status != models.StatusWarn {
		t.Errorf("expected warn, got %s", got[0].Status)
	}
	if got[1].Status != models.StatusOK || got[1].Note != "called" {
		t.Errorf("unexpected second guest: %+v", got[1])
	}
	if guests[0].Status != models.StatusError || guests[0].Resolved != nil {
		t.Error("ApplyMeta must not modify its input")
	}

	// Clearing metadata restores the original status.
	cleared := ApplyMeta(got, nil)
	if cleared[0].Status != models.StatusError || len(cleared[0].Resolved) != 0 {
		t.Errorf("expected error after clearing, got %s %v", cleared[0].Status, cleared[0].Resolved)
	}
}
