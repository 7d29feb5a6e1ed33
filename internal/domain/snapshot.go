package domain

import (
	"fmt"
	"strings"
)

// Snapshot is the persisted state of a manager, collections in catalog order.
type Snapshot struct {
	Airports     []Airport     `json:"airports"`
	Flights      []Flight      `json:"flights"`
	Reservations []Reservation `json:"reservations"`
}

func (s Snapshot) IsEmpty() bool {
	return len(s.Airports) == 0 && len(s.Flights) == 0 && len(s.Reservations) == 0
}

// Validate checks that codes are unique, flights reference known airports and
// reservations reference known flights.
func (s Snapshot) Validate() error {
	airports := make(map[string]struct{}, len(s.Airports))
	for _, a := range s.Airports {
		if a.Code == "" {
			return fmt.Errorf("airport code is required")
		}
		if _, dup := airports[codeKey(a.Code)]; dup {
			return fmt.Errorf("duplicate airport %s", a.Code)
		}
		airports[codeKey(a.Code)] = struct{}{}
	}

	flights := make(map[string]struct{}, len(s.Flights))
	for _, f := range s.Flights {
		if err := f.Validate(); err != nil {
			return err
		}
		if _, dup := flights[codeKey(f.Code)]; dup {
			return fmt.Errorf("duplicate flight %s", f.Code)
		}
		if _, ok := airports[codeKey(f.From)]; !ok {
			return fmt.Errorf("flight %s: unknown airport %s", f.Code, f.From)
		}
		if _, ok := airports[codeKey(f.To)]; !ok {
			return fmt.Errorf("flight %s: unknown airport %s", f.Code, f.To)
		}
		flights[codeKey(f.Code)] = struct{}{}
	}

	reservations := make(map[string]struct{}, len(s.Reservations))
	for _, r := range s.Reservations {
		if r.Code == "" {
			return fmt.Errorf("reservation code is required")
		}
		if _, dup := reservations[codeKey(r.Code)]; dup {
			return fmt.Errorf("duplicate reservation %s", r.Code)
		}
		if _, ok := flights[codeKey(r.FlightCode)]; !ok {
			return fmt.Errorf("reservation %s: unknown flight %s", r.Code, r.FlightCode)
		}
		reservations[codeKey(r.Code)] = struct{}{}
	}
	return nil
}

// codeKey is the form codes are indexed and compared by.
func codeKey(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Clone returns a deep copy of the snapshot slices.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Airports:     append([]Airport(nil), s.Airports...),
		Flights:      append([]Flight(nil), s.Flights...),
		Reservations: append([]Reservation(nil), s.Reservations...),
	}
}
