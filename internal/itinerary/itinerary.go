package itinerary

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/Domenick1991/tickettoride/internal/domain"
	"github.com/Domenick1991/tickettoride/internal/manager"
)

// Passenger names may hold any letter, so text is set in an embedded UTF-8
// font instead of a core PDF font.
const fontFamily = "DejaVu"

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	fontRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	fontBold []byte
	//go:embed fonts/DejaVuSansCondensed-Oblique.ttf
	fontItalic []byte
)

type reservationReader interface {
	GetReservation(ctx context.Context, code string) (domain.Reservation, error)
}

type Service struct {
	catalog      manager.Catalog
	reservations reservationReader
}

func NewService(catalog manager.Catalog, reservations reservationReader) *Service {
	return &Service{catalog: catalog, reservations: reservations}
}

type document struct {
	reservation domain.Reservation
	flight      domain.Flight
	from        domain.Airport
	to          domain.Airport
}

// Render builds the itinerary PDF for a reservation and returns it with a
// suggested file name.
func (s *Service) Render(ctx context.Context, code string) ([]byte, string, error) {
	r, err := s.reservations.GetReservation(ctx, code)
	if err != nil {
		return nil, "", err
	}
	f, err := s.catalog.FindFlightByCode(ctx, r.FlightCode)
	if err != nil {
		return nil, "", err
	}
	d := document{
		reservation: r,
		flight:      f,
		from:        s.airport(ctx, f.From),
		to:          s.airport(ctx, f.To),
	}
	return buildPDF(d)
}

func (s *Service) airport(ctx context.Context, code string) domain.Airport {
	a, err := s.catalog.FindAirportByCode(ctx, code)
	if err != nil {
		return domain.Airport{Code: code, Name: code}
	}
	return a
}

func buildPDF(d document) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", fontRegular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", fontBold)
	pdf.AddUTF8FontFromBytes(fontFamily, "I", fontItalic)
	pdf.SetTitle("Itinerary "+d.reservation.Code, true)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 18)
	pdf.Cell(0, 10, "ITINERARY")
	pdf.Ln(12)

	status := "ACTIVE"
	if !d.reservation.Active {
		status = "INACTIVE"
	}

	pdf.SetFont(fontFamily, "", 12)
	lines := []string{
		"Reservation : " + d.reservation.Code + " (" + status + ")",
		"Passenger   : " + d.reservation.Name,
		"Citizenship : " + d.reservation.Citizenship,
		"",
		"Flight      : " + d.flight.Code + " / " + d.flight.Airline,
		"From        : " + airportLine(d.from),
		"To          : " + airportLine(d.to),
		"Departs     : " + string(d.flight.Weekday) + " " + d.flight.Time,
		"Cost        : $" + domain.FormatCost(d.reservation.CostCents),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont(fontFamily, "I", 10)
	pdf.MultiCell(0, 6, "Booked "+d.reservation.CreatedAt.UTC().Format("2006-01-02 15:04 MST")+".", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render itinerary: %w", err)
	}
	return buf.Bytes(), "itinerary-" + strings.ToLower(d.reservation.Code) + ".pdf", nil
}

func airportLine(a domain.Airport) string {
	if a.Name == "" || a.Name == a.Code {
		return a.Code
	}
	return a.Code + " " + a.Name
}
