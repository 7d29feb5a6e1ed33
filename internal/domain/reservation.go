package domain

import (
	"strings"
	"time"
)

type Reservation struct {
	Code        string    `json:"code"`
	FlightCode  string    `json:"flight_code"`
	Airline     string    `json:"airline"`
	CostCents   int64     `json:"cost_cents"`
	Name        string    `json:"name"`
	Citizenship string    `json:"citizenship"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReservationFilter matches on code (exact) and on airline and name
// (substring). Comparisons ignore case; empty fields match everything.
type ReservationFilter struct {
	Code    string
	Airline string
	Name    string
}

func (rf ReservationFilter) Match(r Reservation) bool {
	rf.Code = strings.TrimSpace(rf.Code)
	rf.Airline = strings.TrimSpace(rf.Airline)
	rf.Name = strings.TrimSpace(rf.Name)

	if rf.Code != "" && !strings.EqualFold(rf.Code, r.Code) {
		return false
	}
	if rf.Airline != "" && !containsFold(r.Airline, rf.Airline) {
		return false
	}
	if rf.Name != "" && !containsFold(r.Name, rf.Name) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
