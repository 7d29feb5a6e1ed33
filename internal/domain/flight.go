package domain

import (
	"fmt"
	"strings"
)

type Flight struct {
	Code           string  `json:"code"`
	Airline        string  `json:"airline"`
	From           string  `json:"from"`
	To             string  `json:"to"`
	Weekday        Weekday `json:"weekday"`
	Time           string  `json:"time"`
	CostCents      int64   `json:"cost_cents"`
	TotalSeats     int     `json:"total_seats"`
	SeatsAvailable int     `json:"seats_available"`
}

// Validate checks the catalog invariants of a single flight.
func (f Flight) Validate() error {
	switch {
	case strings.TrimSpace(f.Code) == "":
		return fmt.Errorf("flight code is required")
	case f.From == "" || f.To == "":
		return fmt.Errorf("flight %s: origin and destination are required", f.Code)
	case strings.EqualFold(f.From, f.To):
		return fmt.Errorf("flight %s: origin and destination must differ", f.Code)
	case !f.Weekday.IsConcrete():
		return fmt.Errorf("flight %s: %w: %q", f.Code, ErrInvalidWeekday, f.Weekday)
	case f.CostCents < 0:
		return fmt.Errorf("flight %s: cost must not be negative", f.Code)
	case f.TotalSeats < 0:
		return fmt.Errorf("flight %s: capacity must not be negative", f.Code)
	case f.SeatsAvailable < 0 || f.SeatsAvailable > f.TotalSeats:
		return fmt.Errorf("flight %s: seats available %d outside [0, %d]", f.Code, f.SeatsAvailable, f.TotalSeats)
	}
	return nil
}

// FormatCost renders cents as a decimal amount with thousands separators, e.g. 1,234.50.
func FormatCost(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := fmt.Sprintf("%d", cents/100)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s%s.%02d", sign, b.String(), cents%100)
}

type FlightFilter struct {
	From    string
	To      string
	Weekday Weekday
}

// Normalize trims and upper-cases the airport codes and folds an empty
// weekday into Any, so equal searches compare equal.
func (ff FlightFilter) Normalize() FlightFilter {
	ff.From = strings.ToUpper(strings.TrimSpace(ff.From))
	ff.To = strings.ToUpper(strings.TrimSpace(ff.To))
	if ff.Weekday.IsAny() {
		ff.Weekday = WeekdayAny
	}
	return ff
}

// Match reports whether f satisfies every non-wildcard field of the filter.
func (ff FlightFilter) Match(f Flight) bool {
	ff = ff.Normalize()
	if ff.From != "" && !strings.EqualFold(ff.From, f.From) {
		return false
	}
	if ff.To != "" && !strings.EqualFold(ff.To, f.To) {
		return false
	}
	if !ff.Weekday.IsAny() && ff.Weekday != f.Weekday {
		return false
	}
	return true
}
