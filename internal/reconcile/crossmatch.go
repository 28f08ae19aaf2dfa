// Package reconcile merges the per-source record lists into one report entry
// per guest and grades each guest by the issues found.
//
// Everything in this package is pure: inputs are never modified and every call
// returns freshly built guests.
package reconcile

import (
	"github.com/julianstephens/tripcheck/internal/models"
	"github.com/julianstephens/tripcheck/internal/normalize"
)

// Sources holds the normalized record lists of one run. A nil list behaves
// like an empty one.
type Sources struct {
	Flights []models.FlightRecord
	Hotels  []models.HotelRecord
	Cars    []models.CarRecord
	Dietary []models.DietaryRecord
}

// Counts reports how many records each source contributed.
func (s Sources) Counts() models.SourceCounts {
	return models.SourceCounts{
		Flight:  len(s.Flights),
		Hotel:   len(s.Hotels),
		Car:     len(s.Cars),
		Dietary: len(s.Dietary),
	}
}

// index maps match keys to records within one source list. Later records
// overwrite earlier ones sharing a key.
type index[T models.Record] struct {
	byEmail map[string]*T
	byName  map[string]*T
}

func buildIndex[T models.Record](records []T) index[T] {
	idx := index[T]{
		byEmail: make(map[string]*T, len(records)),
		byName:  make(map[string]*T, len(records)),
	}
	for i := range records {
		p := records[i].Identity()
		if p.Email != "" {
			idx.byEmail[p.Email] = &records[i]
		}
		if key := normalize.NameKey(p.Name); key != "" {
			idx.byName[key] = &records[i]
		}
	}
	return idx
}

func collectKeys[T models.Record](records []T, emails, names *orderedSet) {
	for _, r := range records {
		p := r.Identity()
		emails.add(p.Email)
		names.add(normalize.NameKey(p.Name))
	}
}

// markDuplicates adds every name key that occurs more than once in records.
func markDuplicates[T models.Record](records []T, dups map[string]bool) {
	counts := make(map[string]int, len(records))
	for _, r := range records {
		key := normalize.NameKey(r.Identity().Name)
		if key == "" {
			continue
		}
		counts[key]++
		if counts[key] > 1 {
			dups[key] = true
		}
	}
}

// match is the set of records chosen for one guest, at most one per source.
type match struct {
	flight *models.FlightRecord
	hotel  *models.HotelRecord
	car    *models.CarRecord
	diet   *models.DietaryRecord
}

// people lists the identities present, in flight, hotel, car, dietary order.
func (m match) people() []models.Person {
	var out []models.Person
	if m.flight != nil {
		out = append(out, m.flight.Person)
	}
	if m.hotel != nil {
		out = append(out, m.hotel.Person)
	}
	if m.car != nil {
		out = append(out, m.car.Person)
	}
	if m.diet != nil {
		out = append(out, m.diet.Person)
	}
	return out
}

// CrossMatch unifies the four source lists into guests. Guests are matched by
// email first; records whose name already belongs to an email-matched guest are
// not matched again by name.
//
// Resolved issue texts and notes come from meta, keyed by email or, for guests
// without one, by their name key.
func CrossMatch(src Sources, window models.TravelWindow, meta models.MetaStore) []models.Guest {
	flights := buildIndex(src.Flights)
	hotels := buildIndex(src.Hotels)
	cars := buildIndex(src.Cars)
	diets := buildIndex(src.Dietary)

	emails, names := newOrderedSet(), newOrderedSet()
	collectKeys(src.Flights, emails, names)
	collectKeys(src.Hotels, emails, names)
	collectKeys(src.Cars, emails, names)
	collectKeys(src.Dietary, emails, names)

	// Dietary lists are not scanned: shared names there are not a booking concern.
	dups := make(map[string]bool)
	markDuplicates(src.Flights, dups)
	markDuplicates(src.Hotels, dups)
	markDuplicates(src.Cars, dups)

	b := builder{
		carSupplied: len(src.Cars) > 0,
		window:      window,
		dups:        dups,
		meta:        meta,
	}

	guests := make([]models.Guest, 0, len(emails.items)+len(names.items))
	emailMatched := newOrderedSet()

	for _, email := range emails.items {
		m := match{
			flight: flights.byEmail[email],
			hotel:  hotels.byEmail[email],
			car:    cars.byEmail[email],
			diet:   diets.byEmail[email],
		}
		for _, p := range m.people() {
			emailMatched.add(normalize.NameKey(p.Name))
		}
		guests = append(guests, b.build(email, models.MatchedByEmail, m))
	}

	for _, name := range names.items {
		if emailMatched.has(name) {
			continue
		}
		m := match{
			flight: flights.byName[name],
			hotel:  hotels.byName[name],
			car:    cars.byName[name],
			diet:   diets.byName[name],
		}
		guests = append(guests, b.build(name, models.MatchedByName, m))
	}

	return guests
}

type builder struct {
	carSupplied bool
	window      models.TravelWindow
	dups        map[string]bool
	meta        models.MetaStore
}

func (b builder) build(key string, by models.MatchStrategy, m match) models.Guest {
	g := models.Guest{
		Key:       key,
		MatchedBy: by,
		Flight:    clone(m.flight),
		Hotel:     clone(m.hotel),
		Car:       clone(m.car),
		Diet:      clone(m.diet),
	}

	for _, p := range m.people() {
		if g.DisplayName == "" {
			g.DisplayName = p.Name
		}
		if g.Email == "" {
			g.Email = p.Email
		}
		if g.FirstName == "" {
			g.FirstName = p.FirstName
		}
		if g.LastName == "" {
			g.LastName = p.LastName
		}
	}
	if g.DisplayName == "" {
		g.DisplayName = key
	}

	issues, details := CheckConsistency(m.flight, m.hotel, m.car, b.carSupplied, b.window)
	if b.dups[normalize.NameKey(g.DisplayName)] {
		issues = append(issues, models.Issue{Type: models.IssueDuplicate, Text: textDuplicate})
	}
	g.Issues = dedupeIssues(issues)
	g.Details = details

	return applyMeta(g, b.meta)
}

func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
