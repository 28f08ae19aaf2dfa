package models

import "time"

// Session is one saved reconciliation run.
type Session struct {
	ID        string       `json:"id"`
	Label     string       `json:"label"`
	CreatedAt time.Time    `json:"created_at"`
	Window    TravelWindow `json:"window"`
	Sources   SourceCounts `json:"sources"`
	Guests    []Guest      `json:"guests"`
}

// StatusCounts tallies guests per status.
func (s Session) StatusCounts() map[Status]int {
	counts := map[Status]int{StatusOK: 0, StatusWarn: 0, StatusError: 0}
	for _, g := range s.Guests {
		counts[g.Status]++
	}
	return counts
}
