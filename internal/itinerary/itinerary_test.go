package itinerary

import (
	"bytes"
	"compress/zlib"
	"context"
	"io"
	"strings"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/tickettoride/internal/domain"
	"github.com/Domenick1991/tickettoride/internal/manager"
	"github.com/Domenick1991/tickettoride/internal/repository"
)

func loaded(t *testing.T) *manager.Manager {
	t.Helper()
	snapshot := domain.Snapshot{
		Airports: []domain.Airport{{Code: "DEN", Name: "Denver"}, {Code: "LAX", Name: "Los Angeles"}},
		Flights: []domain.Flight{{
			Code: "F100", Airline: "Otto Airlines", From: "DEN", To: "LAX",
			Weekday: domain.WeekdayMonday, Time: "08:30", CostCents: 12550, TotalSeats: 3, SeatsAvailable: 3,
		}},
	}
	store := repository.NewFileStore(t.TempDir() + "/snapshot.json")
	require.NoError(t, store.Save(context.Background(), snapshot))

	m := manager.New(store, manager.WithClock(func() time.Time {
		return time.Date(2019, 6, 27, 9, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, m.Load(context.Background()))
	return m
}

func TestService_Render(t *testing.T) {
	ctx := context.Background()
	m := loaded(t)
	r, err := m.MakeReservation(ctx, manager.MakeReservationInput{FlightCode: "F100", Name: "Jane Doe", Citizenship: "US"})
	require.NoError(t, err)

	data, name, err := NewService(m, m).Render(ctx, r.Code)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, "itinerary-"+strings.ToLower(r.Code)+".pdf", name)
}

func TestService_Render_NonASCIIName(t *testing.T) {
	ctx := context.Background()
	m := loaded(t)
	r, err := m.MakeReservation(ctx, manager.MakeReservationInput{FlightCode: "F100", Name: "Zoë Łukasz", Citizenship: "Österreich"})
	require.NoError(t, err)

	data, _, err := NewService(m, m).Render(ctx, r.Code)
	require.NoError(t, err)

	assert.Contains(t, string(data), "/Encoding /Identity-H")
	text := inflateStreams(data)
	assert.True(t, bytes.Contains(text, utf16BE("Zoë Łukasz")), "name not set as UTF-16 glyph codes")
	assert.True(t, bytes.Contains(text, utf16BE("Österreich")))
	assert.False(t, bytes.Contains(text, []byte("Zo\xc3\xab")), "name written as raw UTF-8")
}

// inflateStreams concatenates every stream of a PDF that decompresses.
func inflateStreams(data []byte) []byte {
	var out []byte
	for {
		start := bytes.Index(data, []byte("stream\n"))
		if start < 0 {
			return out
		}
		data = data[start+len("stream\n"):]
		end := bytes.Index(data, []byte("\nendstream"))
		if end < 0 {
			return out
		}
		if zr, err := zlib.NewReader(bytes.NewReader(data[:end])); err == nil {
			if raw, err := io.ReadAll(zr); err == nil {
				out = append(out, raw...)
			}
		}
		data = data[end+len("\nendstream"):]
	}
}

func utf16BE(s string) []byte {
	var b []byte
	for _, u := range utf16.Encode([]rune(s)) {
		b = append(b, byte(u>>8), byte(u))
	}
	return b
}

func TestService_Render_UnknownReservation(t *testing.T) {
	m := loaded(t)

	_, _, err := NewService(m, m).Render(context.Background(), "RNOPE")

	assert.True(t, domain.IsNotFound(err))
}

func TestAirportLine(t *testing.T) {
	assert.Equal(t, "DEN Denver", airportLine(domain.Airport{Code: "DEN", Name: "Denver"}))
	assert.Equal(t, "LAX", airportLine(domain.Airport{Code: "LAX", Name: "LAX"}))
}
