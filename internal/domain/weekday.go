package domain

import (
	"fmt"
	"strings"
)

type Weekday string

const (
	WeekdayAny       Weekday = "Any"
	WeekdaySunday    Weekday = "Sunday"
	WeekdayMonday    Weekday = "Monday"
	WeekdayTuesday   Weekday = "Tuesday"
	WeekdayWednesday Weekday = "Wednesday"
	WeekdayThursday  Weekday = "Thursday"
	WeekdayFriday    Weekday = "Friday"
	WeekdaySaturday  Weekday = "Saturday"
)

// Weekdays lists the concrete days in calendar order, Sunday first.
var Weekdays = []Weekday{
	WeekdaySunday,
	WeekdayMonday,
	WeekdayTuesday,
	WeekdayWednesday,
	WeekdayThursday,
	WeekdayFriday,
	WeekdaySaturday,
}

// ParseWeekday accepts any casing of a day name or "Any". An empty string is
// treated as "Any".
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(WeekdayAny)) {
		return WeekdayAny, nil
	}
	for _, d := range Weekdays {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

func (d Weekday) IsAny() bool {
	return d == "" || d == WeekdayAny
}

// IsConcrete reports whether d names an actual day and can be stored on a flight.
func (d Weekday) IsConcrete() bool {
	for _, w := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}
