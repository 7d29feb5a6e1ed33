package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Domenick1991/tickettoride/internal/domain"
)

// LoadSeed reads the initial catalog from two CSV files:
//
//	airports.csv: code,name
//	flights.csv:  code,airline,from,to,weekday,time,seats,cost
//
// A first line starting with "code" is treated as a header.
func LoadSeed(airportsPath, flightsPath string) (domain.Snapshot, error) {
	airportRows, err := readCSV(airportsPath, 2)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("airports: %w", err)
	}
	flightRows, err := readCSV(flightsPath, 8)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("flights: %w", err)
	}

	snapshot := domain.Snapshot{
		Airports: make([]domain.Airport, 0, len(airportRows)),
		Flights:  make([]domain.Flight, 0, len(flightRows)),
	}
	for _, row := range airportRows {
		snapshot.Airports = append(snapshot.Airports, domain.Airport{
			Code: strings.ToUpper(row[0]),
			Name: row[1],
		})
	}
	for i, row := range flightRows {
		f, err := parseFlightRow(row)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("flights row %d: %w", i+1, err)
		}
		snapshot.Flights = append(snapshot.Flights, f)
	}

	if err := snapshot.Validate(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("seed: %w", err)
	}
	return snapshot, nil
}

func readCSV(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fields
	r.TrimLeadingSpace = true
	r.Comment = '#'

	var rows [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if len(rows) == 0 && strings.EqualFold(record[0], "code") {
			continue
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func parseFlightRow(row []string) (domain.Flight, error) {
	weekday, err := domain.ParseWeekday(row[4])
	if err != nil {
		return domain.Flight{}, err
	}
	seats, err := strconv.Atoi(row[6])
	if err != nil {
		return domain.Flight{}, fmt.Errorf("seats: %w", err)
	}
	cost, err := ParseCents(row[7])
	if err != nil {
		return domain.Flight{}, fmt.Errorf("cost: %w", err)
	}

	return domain.Flight{
		Code:           strings.ToUpper(row[0]),
		Airline:        row[1],
		From:           strings.ToUpper(row[2]),
		To:             strings.ToUpper(row[3]),
		Weekday:        weekday,
		Time:           row[5],
		CostCents:      cost,
		TotalSeats:     seats,
		SeatsAvailable: seats,
	}, nil
}

// ParseCents converts a decimal amount such as "1,123.5" into cents.
func ParseCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "$"), ",", "")
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("amount %q is negative", s)
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && !hasFrac {
		return 0, fmt.Errorf("empty amount")
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimals", s)
	}

	var units int64
	if whole != "" {
		v, err := strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return 0, err
		}
		units = v
	}
	var cents int64
	if frac != "" {
		frac += strings.Repeat("0", 2-len(frac))
		v, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid decimals in %q", s)
		}
		cents = v
	}
	return units*100 + cents, nil
}
