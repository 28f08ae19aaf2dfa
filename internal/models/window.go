package models

import (
	"fmt"
	"time"
)

// TravelWindow is the configured arrival/departure range. Any bound may be nil.
type TravelWindow struct {
	ArrivalStart   *time.Time `json:"arrival_start,omitempty"`
	ArrivalEnd     *time.Time `json:"arrival_end,omitempty"`
	DepartureStart *time.Time `json:"departure_start,omitempty"`
	DepartureEnd   *time.Time `json:"departure_end,omitempty"`
}

// IsZero reports whether no bound is configured.
func (w TravelWindow) IsZero() bool {
	return w.ArrivalStart == nil && w.ArrivalEnd == nil && w.DepartureStart == nil && w.DepartureEnd == nil
}

func (w TravelWindow) Validate() error {
	if w.ArrivalStart != nil && w.ArrivalEnd != nil && w.ArrivalEnd.Before(*w.ArrivalStart) {
		return fmt.Errorf("arrival window ends before it starts")
	}
	if w.DepartureStart != nil && w.DepartureEnd != nil && w.DepartureEnd.Before(*w.DepartureStart) {
		return fmt.Errorf("departure window ends before it starts")
	}
	return nil
}

// Merge returns w with every bound that is set in o overriding the corresponding bound.
func (w TravelWindow) Merge(o TravelWindow) TravelWindow {
	if o.ArrivalStart != nil {
		w.ArrivalStart = o.ArrivalStart
	}
	if o.ArrivalEnd != nil {
		w.ArrivalEnd = o.ArrivalEnd
	}
	if o.DepartureStart != nil {
		w.DepartureStart = o.DepartureStart
	}
	if o.DepartureEnd != nil {
		w.DepartureEnd = o.DepartureEnd
	}
	return w
}
