package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, StorageDriverFile, cfg.Storage.Driver)
	assert.Equal(t, "data/snapshot.json", cfg.Storage.Path)
	assert.Equal(t, "reservations", cfg.Kafka.ReservationTopic)
	assert.Equal(t, 300, cfg.Cache.SearchTTLSeconds)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoadConfig_Postgres(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
http:
  address: ":9090"
storage:
  driver: postgres
  seed_airports: seed/airports.csv
  seed_flights: seed/flights.csv
database:
  host: localhost
  user: travel
  password: secret
  name: tickettoride
redis:
  addr: localhost:6379
kafka:
  brokers: ["localhost:9092"]
log:
  level: debug
  development: true
`))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.Equal(t, "host=localhost port=5432 user=travel password=secret dbname=tickettoride sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Log.Development)
}

func TestLoadConfig_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errText string
	}{
		{name: "Unknown driver", content: "storage:\n  driver: mongo\n", errText: "unknown storage driver"},
		{name: "Postgres without database", content: "storage:\n  driver: postgres\n", errText: "database.host"},
		{name: "Half seed", content: "storage:\n  seed_airports: a.csv\n", errText: "must be set together"},
		{name: "Broken yaml", content: "http: [", errText: "failed to parse config"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.content))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tc.errText)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}
