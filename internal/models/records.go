package models

import "time"

// Person holds the identity columns every source shares.
type Person struct {
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"` // lower-cased, trimmed; empty when absent
}

// Identity returns the shared identity fields of a record.
func (p Person) Identity() Person {
	return p
}

// Record is implemented by every per-source record type.
type Record interface {
	Identity() Person
}

type FlightRecord struct {
	Person
	FlightArrival   *time.Time `json:"flight_arrival,omitempty"`
	FlightDeparture *time.Time `json:"flight_departure,omitempty"`
	FlightIn        string     `json:"flight_in"`
	FlightOut       string     `json:"flight_out"`
	Airport         string     `json:"airport"`
}

type HotelRecord struct {
	Person
	CheckIn  *time.Time `json:"check_in,omitempty"`
	CheckOut *time.Time `json:"check_out,omitempty"`
	Room     string     `json:"room"`
	Hotel    string     `json:"hotel"`
}

type CarRecord struct {
	Person
	PickupDate   *time.Time `json:"pickup_date,omitempty"`
	DropoffDate  *time.Time `json:"dropoff_date,omitempty"`
	PickupLoc    string     `json:"pickup_loc"`
	DropoffLoc   string     `json:"dropoff_loc"`
	Confirmation string     `json:"confirmation"`
}

type DietaryRecord struct {
	Person
	Dietary       string `json:"dietary"`
	Accessibility string `json:"accessibility"`
	SpecialNotes  string `json:"special_notes"`
}

// SourceCounts records how many normalized rows each source contributed.
type SourceCounts struct {
	Flight  int `json:"flight"`
	Hotel   int `json:"hotel"`
	Car     int `json:"car"`
	Dietary int `json:"dietary"`
}
