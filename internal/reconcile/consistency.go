package reconcile

import (
	"fmt"
	"time"

	"github.com/julianstephens/tripcheck/internal/constants"
	"github.com/julianstephens/tripcheck/internal/models"
	"github.com/julianstephens/tripcheck/internal/normalize"
)

const (
	textMissingFlight = "Missing from flight manifest"
	textMissingHotel  = "Missing from hotel roster"
	textMissingCar    = "Missing from car transfers"
	textDuplicate     = "Duplicate name detected across lists"
)

// CheckConsistency evaluates one matched guest. carSupplied reports whether the
// car list had any records at all; when it did not, a missing car record is
// not an issue.
//
// The returned issues are in generation order and may contain repeated texts;
// callers dedupe before storing.
func CheckConsistency(flight *models.FlightRecord, hotel *models.HotelRecord, car *models.CarRecord, carSupplied bool, window models.TravelWindow) ([]models.Issue, models.Details) {
	var (
		issues  []models.Issue
		details models.Details
	)

	if flight == nil {
		issues = append(issues, models.Issue{Type: models.IssueMissing, Text: textMissingFlight})
	}
	if hotel == nil {
		issues = append(issues, models.Issue{Type: models.IssueMissing, Text: textMissingHotel})
	}
	if carSupplied && car == nil {
		issues = append(issues, models.Issue{Type: models.IssueMissing, Text: textMissingCar})
	}

	if flight != nil && hotel != nil {
		if d, ok := dayDiff(flight.FlightArrival, hotel.CheckIn); ok {
			details.ArrDiff = &d
			if d != 0 {
				issues = append(issues, mismatch("Arrives %s check-in", d))
			}
		}
		if d, ok := dayDiff(flight.FlightDeparture, hotel.CheckOut); ok {
			details.DepDiff = &d
			if d != 0 {
				issues = append(issues, mismatch("Departs %s check-out", d))
			}
		}
	}

	if flight != nil && car != nil {
		if d, ok := dayDiff(car.PickupDate, flight.FlightArrival); ok {
			details.PickupDiff = &d
			if d != 0 {
				issues = append(issues, mismatch("Car pickup %s flight arrival", d))
			}
		}
		if d, ok := dayDiff(car.DropoffDate, flight.FlightDeparture); ok {
			details.DropoffDiff = &d
			if d != 0 {
				issues = append(issues, mismatch("Car dropoff %s flight departure", d))
			}
		}
	}

	arrival, departure := effectiveDates(flight, hotel)
	issues = append(issues, windowIssues(arrival, departure, window)...)

	return issues, details
}

// dayDiff returns DaysBetween(a, b) when both dates are set.
func dayDiff(a, b *time.Time) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	return normalize.DaysBetween(*a, *b), true
}

// mismatch renders "N day(s) before/after" into format. Negative means a is
// earlier than b.
func mismatch(format string, diff int) models.Issue {
	dir := "after"
	if diff < 0 {
		dir = "before"
		diff = -diff
	}
	unit := "days"
	if diff == 1 {
		unit = "day"
	}
	return models.Issue{
		Type: models.IssueMismatch,
		Text: fmt.Sprintf(format, fmt.Sprintf("%d %s %s", diff, unit, dir)),
	}
}

// effectiveDates prefers the flight dates and falls back to the hotel stay.
func effectiveDates(flight *models.FlightRecord, hotel *models.HotelRecord) (arrival, departure *time.Time) {
	if flight != nil {
		arrival, departure = flight.FlightArrival, flight.FlightDeparture
	}
	if hotel != nil {
		if arrival == nil {
			arrival = hotel.CheckIn
		}
		if departure == nil {
			departure = hotel.CheckOut
		}
	}
	return arrival, departure
}

func windowIssues(arrival, departure *time.Time, w models.TravelWindow) []models.Issue {
	var issues []models.Issue

	check := func(label, kind string, date, start, end *time.Time) {
		if date == nil || (start == nil && end == nil) {
			return
		}
		day := normalize.DateOnly(*date)
		span := windowSpan(start, end)
		if start != nil && day.Before(normalize.DateOnly(*start)) {
			issues = append(issues, models.Issue{
				Type: models.IssueWindow,
				Text: fmt.Sprintf("%s %s is before %s window start (window: %s)", label, formatDate(date), kind, span),
			})
		}
		if end != nil && day.After(normalize.DateOnly(*end)) {
			issues = append(issues, models.Issue{
				Type: models.IssueWindow,
				Text: fmt.Sprintf("%s %s is after %s window end (window: %s)", label, formatDate(date), kind, span),
			})
		}
	}

	check("Arrival", "arrival", arrival, w.ArrivalStart, w.ArrivalEnd)
	check("Departure", "departure", departure, w.DepartureStart, w.DepartureEnd)
	return issues
}

func windowSpan(start, end *time.Time) string {
	switch {
	case start != nil && end != nil:
		return formatDate(start) + " to " + formatDate(end)
	case start != nil:
		return "from " + formatDate(start)
	default:
		return "until " + formatDate(end)
	}
}

func formatDate(t *time.Time) string {
	return normalize.DateOnly(*t).Format(constants.DateFormat)
}

// dedupeIssues keeps the first occurrence of every issue text.
func dedupeIssues(issues []models.Issue) []models.Issue {
	out := make([]models.Issue, 0, len(issues))
	seen := make(map[string]struct{}, len(issues))
	for _, issue := range issues {
		if _, ok := seen[issue.Text]; ok {
			continue
		}
		seen[issue.Text] = struct{}{}
		out = append(out, issue)
	}
	return out
}
