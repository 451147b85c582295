package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/park-peeps/internal/economy"
	"github.com/talgya/park-peeps/internal/ride"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	defs, err := cfg.Definitions()
	require.NoError(t, err)
	assert.Len(t, defs, int(ride.TypeCount))
	assert.Equal(t, "Merry-Go-Round", defs[0].Name)

	park := cfg.ParkSettings()
	assert.Equal(t, economy.Money(100), park.EntranceFee)
	assert.Equal(t, economy.Money(500), park.GuestInitialCash)
	assert.Equal(t, 25*time.Millisecond, cfg.TickInterval)
}

func TestParseOverridesDefaults(t *testing.T) {
	t.Setenv("PARK_FEE", "4.5")
	cfg, err := Parse([]byte(`
seed: 7
tick_interval: 10ms
map:
  width: 32
  height: 30
park:
  entrance_fee: ${PARK_FEE:0}
  max_guests: ${PARK_MAX_GUESTS:250}
rides:
  - type: maze
    name: The Labyrinth
    price: 1.5
  - type: toilets
    open: false
roster:
  mechanics: 3
`))
	require.NoError(t, err)

	assert.EqualValues(t, 7, cfg.Seed)
	assert.Equal(t, 10*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 32, cfg.GenConfig().Width)
	assert.EqualValues(t, 7, cfg.GenConfig().Seed)
	assert.Equal(t, economy.Money(45), cfg.ParkSettings().EntranceFee)
	assert.Equal(t, 250, cfg.Park.MaxGuests)
	assert.Equal(t, 0.68, cfg.Map.GardenLevel, "unset fields keep their defaults")
	assert.Equal(t, 3, cfg.Roster.Mechanics)
	assert.Equal(t, 1, cfg.Roster.Security)

	defs, err := cfg.Definitions()
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "The Labyrinth", defs[0].Name)
	assert.Equal(t, economy.Money(15), defs[0].Price)
	assert.True(t, cfg.Rides[0].IsOpen())
	assert.False(t, cfg.Rides[1].IsOpen())

	ec := cfg.EngineConfig()
	assert.Equal(t, economy.Money(100000), ec.StartCash)
	assert.Equal(t, cfg.Capacity, ec.Capacity)
}

func TestParseRejectsBadPark(t *testing.T) {
	cases := map[string]string{
		"tiny map":     "map: {width: 10, height: 10}",
		"unknown ride": "rides: [{type: log_flume}]",
		"no peeps":     "capacity: 0",
		"bad yaml":     "seed: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "park.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: ${PARK_DB_PATH:/tmp/park.db}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/park.db", cfg.DBPath)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
