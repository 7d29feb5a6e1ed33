package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/tickettoride/config"
	"github.com/Domenick1991/tickettoride/internal/domain"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	c := NewRedisCache(config.RedisConfig{Addr: srv.Addr()}, time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c, srv
}

func TestSearchKey(t *testing.T) {
	assert.Equal(t, "cache:flights:search:*:*:*", searchKey(domain.FlightFilter{}))
	assert.Equal(t, "cache:flights:search:*:*:*", searchKey(domain.FlightFilter{Weekday: domain.WeekdayAny}))
	assert.Equal(t, "cache:flights:search:JFK:LAX:Monday", searchKey(domain.FlightFilter{From: " jfk", To: "LAX", Weekday: domain.WeekdayMonday}))
	assert.Equal(t,
		searchKey(domain.FlightFilter{From: "yyc"}),
		searchKey(domain.FlightFilter{From: "YYC", Weekday: domain.WeekdayAny}),
	)
}

func TestNewRedisCache(t *testing.T) {
	c := NewRedisCache(config.RedisConfig{Addr: "localhost:6379"}, time.Minute)
	assert.NotNil(t, c)
	assert.Equal(t, time.Minute, c.ttl)
	assert.NoError(t, c.Close())
}

func TestRedisCache_Airports(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestCache(t)
	require.NoError(t, c.Ping(ctx))

	got, err := c.GetAirports(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	airports := []domain.Airport{{Code: "JFK", Name: "New York"}, {Code: "LAX", Name: "Los Angeles"}}
	require.NoError(t, c.SetAirports(ctx, airports))

	got, err = c.GetAirports(ctx)
	require.NoError(t, err)
	assert.Equal(t, airports, got)
	assert.Equal(t, time.Minute, srv.TTL(airportsKey()))
}

func TestRedisCache_FlightCodes(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestCache(t)
	filter := domain.FlightFilter{From: "JFK", To: "LAX", Weekday: domain.WeekdayMonday}

	got, err := c.GetFlightCodes(ctx, filter)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.SetFlightCodes(ctx, filter, []string{"F100", "F200"}))
	got, err = c.GetFlightCodes(ctx, domain.FlightFilter{From: " jfk", To: "lax", Weekday: domain.WeekdayMonday})
	require.NoError(t, err)
	assert.Equal(t, []string{"F100", "F200"}, got)

	srv.FastForward(2 * time.Minute)
	got, err = c.GetFlightCodes(ctx, filter)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCache_FlightCodes_EmptyResultIsAHit(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestCache(t)
	filter := domain.FlightFilter{From: "YYC"}

	require.NoError(t, c.SetFlightCodes(ctx, filter, nil))
	assert.Equal(t, "[]", mustGet(t, srv, searchKey(filter)))

	got, err := c.GetFlightCodes(ctx, filter)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRedisCache_CorruptValue(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestCache(t)
	require.NoError(t, srv.Set(airportsKey(), "not json"))

	got, err := c.GetAirports(ctx)
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestRedisCache_ServerDown(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestCache(t)
	srv.Close()

	_, err := c.GetAirports(ctx)
	assert.Error(t, err)
	assert.Error(t, c.SetFlightCodes(ctx, domain.FlightFilter{}, []string{"F100"}))
}

func mustGet(t *testing.T, srv *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := srv.Get(key)
	require.NoError(t, err)
	return v
}
