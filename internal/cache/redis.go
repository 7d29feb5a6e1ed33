package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Domenick1991/tickettoride/config"
	"github.com/Domenick1991/tickettoride/internal/domain"
)

// RedisCache stores data that never changes during a run: the airport list
// and, per search filter, the codes of the matching flights. Seat counts are
// never cached.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg config.RedisConfig, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetAirports returns nil, nil on a cache miss.
func (c *RedisCache) GetAirports(ctx context.Context) ([]domain.Airport, error) {
	var airports []domain.Airport
	ok, err := c.getJSON(ctx, airportsKey(), &airports)
	if err != nil || !ok {
		return nil, err
	}
	return airports, nil
}

func (c *RedisCache) SetAirports(ctx context.Context, airports []domain.Airport) error {
	return c.setJSON(ctx, airportsKey(), airports)
}

// GetFlightCodes returns the cached codes for filter, or nil, nil on a miss.
func (c *RedisCache) GetFlightCodes(ctx context.Context, filter domain.FlightFilter) ([]string, error) {
	var codes []string
	ok, err := c.getJSON(ctx, searchKey(filter), &codes)
	if err != nil || !ok {
		return nil, err
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

func (c *RedisCache) SetFlightCodes(ctx context.Context, filter domain.FlightFilter, codes []string) error {
	if codes == nil {
		codes = []string{}
	}
	return c.setJSON(ctx, searchKey(filter), codes)
}

func (c *RedisCache) getJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) setJSON(ctx context.Context, key string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

func airportsKey() string {
	return "cache:airports"
}

func searchKey(f domain.FlightFilter) string {
	f = f.Normalize()
	part := func(s string) string {
		if s == "" {
			return "*"
		}
		return s
	}
	day := "*"
	if !f.Weekday.IsAny() {
		day = string(f.Weekday)
	}
	return fmt.Sprintf("cache:flights:search:%s:%s:%s", part(f.From), part(f.To), day)
}
