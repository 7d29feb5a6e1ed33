package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func catalogSnapshot() Snapshot {
	return Snapshot{
		Airports: []Airport{{Code: "JFK", Name: "New York"}, {Code: "LAX", Name: "Los Angeles"}},
		Flights: []Flight{
			{Code: "F100", From: "JFK", To: "LAX", Weekday: WeekdayMonday, TotalSeats: 2, SeatsAvailable: 1},
		},
		Reservations: []Reservation{{Code: "R0000001", FlightCode: "F100", Active: true}},
	}
}

func TestSnapshot_Validate(t *testing.T) {
	assert.NoError(t, catalogSnapshot().Validate())
}

func TestSnapshot_Validate_DuplicatesIgnoreCase(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"airport", func(s *Snapshot) {
			s.Airports = append(s.Airports, Airport{Code: "jfk", Name: "Kennedy"})
		}},
		{"flight", func(s *Snapshot) {
			s.Flights = append(s.Flights, Flight{Code: "f100", From: "LAX", To: "JFK", Weekday: WeekdayFriday, TotalSeats: 1, SeatsAvailable: 1})
		}},
		{"reservation", func(s *Snapshot) {
			s.Reservations = append(s.Reservations, Reservation{Code: " r0000001", FlightCode: "F100"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := catalogSnapshot()
			tt.mutate(&s)
			err := s.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "duplicate "+tt.name)
		})
	}
}

func TestSnapshot_Validate_ReferencesIgnoreCase(t *testing.T) {
	s := catalogSnapshot()
	s.Flights[0].From = "jfk"
	s.Reservations[0].FlightCode = "f100"
	assert.NoError(t, s.Validate())

	s.Reservations[0].FlightCode = "F999"
	assert.Error(t, s.Validate())
}
