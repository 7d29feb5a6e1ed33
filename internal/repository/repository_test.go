package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/tickettoride/internal/domain"
)

func sampleSnapshot() domain.Snapshot {
	created := time.Date(2019, 6, 27, 10, 0, 0, 0, time.UTC)
	return domain.Snapshot{
		Airports: []domain.Airport{
			{Code: "JFK", Name: "New York John F. Kennedy"},
			{Code: "LAX", Name: "Los Angeles International"},
		},
		Flights: []domain.Flight{
			{Code: "F100", Airline: "Otto Airlines", From: "JFK", To: "LAX", Weekday: domain.WeekdayMonday, Time: "07:00", CostCents: 25000, TotalSeats: 2, SeatsAvailable: 1},
		},
		Reservations: []domain.Reservation{
			{Code: "R1A2B3C4", FlightCode: "F100", Airline: "Otto Airlines", CostCents: 25000, Name: "Jane Doe", Citizenship: "US", Active: true, CreatedAt: created, UpdatedAt: created},
		},
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "data", "snapshot.json"))

	empty, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	want := sampleSnapshot()
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStore_Load_UnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99}`), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported snapshot version")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSeed(t *testing.T) {
	dir := t.TempDir()
	airports := writeFile(t, dir, "airports.csv", "code,name\nYYC,Calgary International\nyvr,Vancouver International\n")
	flights := writeFile(t, dir, "flights.csv", "# weekly schedule\nOA-1442,Otto Airlines,YYC,YVR,monday,07:00,6,\"1,123.50\"\n")

	snapshot, err := LoadSeed(airports, flights)
	require.NoError(t, err)

	require.Len(t, snapshot.Airports, 2)
	assert.Equal(t, "YVR", snapshot.Airports[1].Code)
	require.Len(t, snapshot.Flights, 1)
	assert.Equal(t, domain.Flight{
		Code: "OA-1442", Airline: "Otto Airlines", From: "YYC", To: "YVR",
		Weekday: domain.WeekdayMonday, Time: "07:00", CostCents: 112350,
		TotalSeats: 6, SeatsAvailable: 6,
	}, snapshot.Flights[0])
	assert.Empty(t, snapshot.Reservations)
}

func TestLoadSeed_UnknownAirport(t *testing.T) {
	dir := t.TempDir()
	airports := writeFile(t, dir, "airports.csv", "YYC,Calgary International\n")
	flights := writeFile(t, dir, "flights.csv", "OA-1442,Otto Airlines,YYC,YVR,Monday,07:00,6,100\n")

	_, err := LoadSeed(airports, flights)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown airport YVR")
}

func TestParseCents(t *testing.T) {
	testCases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "250", want: 25000},
		{in: "250.00", want: 25000},
		{in: "$1,123.5", want: 112350},
		{in: ".99", want: 99},
		{in: "", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "1.234", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseCents(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) Load(ctx context.Context) (domain.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Snapshot), args.Error(1)
}

func (m *MockSnapshotStore) Save(ctx context.Context, snapshot domain.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func TestSeededStore_FallsBackToSeedWhenEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	airports := writeFile(t, dir, "airports.csv", "JFK,New York\nLAX,Los Angeles\n")
	flights := writeFile(t, dir, "flights.csv", "F100,Otto Airlines,JFK,LAX,Monday,07:00,1,250.00\n")

	primary := &MockSnapshotStore{}
	primary.On("Load", ctx).Return(domain.Snapshot{}, nil).Once()

	snapshot, err := NewSeededStore(primary, airports, flights).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Flights, 1)
	primary.AssertExpectations(t)
}

func TestSeededStore_PrefersPrimary(t *testing.T) {
	ctx := context.Background()
	primary := &MockSnapshotStore{}
	want := sampleSnapshot()
	primary.On("Load", ctx).Return(want, nil).Once()
	primary.On("Save", ctx, want).Return(nil).Once()

	store := NewSeededStore(primary, "missing-airports.csv", "missing-flights.csv")
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoError(t, store.Save(ctx, want))

	primary.AssertExpectations(t)
}

func TestBuildSnapshotInserts(t *testing.T) {
	sb := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	stmts, err := buildSnapshotInserts(sb, sampleSnapshot())
	require.NoError(t, err)
	require.Len(t, stmts, 3)

	assert.True(t, strings.HasPrefix(stmts[0].sql, "INSERT INTO airports (position,code,name) VALUES ($1,$2,$3),($4,$5,$6)"))
	assert.Equal(t, []interface{}{0, "JFK", "New York John F. Kennedy", 1, "LAX", "Los Angeles International"}, stmts[0].args)
	assert.True(t, strings.HasPrefix(stmts[1].sql, "INSERT INTO flights"))
	assert.Len(t, stmts[1].args, len(flightColumns))
	assert.True(t, strings.HasPrefix(stmts[2].sql, "INSERT INTO reservations"))
	assert.Len(t, stmts[2].args, len(reservationColumns))
}

func TestBuildSnapshotInserts_Batches(t *testing.T) {
	sb := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	snapshot := domain.Snapshot{}
	for i := 0; i < insertBatchSize+1; i++ {
		snapshot.Airports = append(snapshot.Airports, domain.Airport{Code: string(rune('A' + i%26)), Name: "x"})
	}

	stmts, err := buildSnapshotInserts(sb, snapshot)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Len(t, stmts[0].args, insertBatchSize*len(airportColumns))
	assert.Len(t, stmts[1].args, len(airportColumns))
}

func TestSelectOrdered(t *testing.T) {
	sb := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	sqlStr, _, err := selectOrdered(sb, "airports", airportColumns).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT position, code, name FROM airports ORDER BY position", sqlStr)
}

func TestNewPGSnapshotStore(t *testing.T) {
	pool := &pgxpool.Pool{}
	store := NewPGSnapshotStore(pool)
	assert.NotNil(t, store)
}
