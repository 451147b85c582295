// Package config loads the park definition: map, guests, rides and the
// server around them.
package config

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/talgya/park-peeps/internal/economy"
	"github.com/talgya/park-peeps/internal/engine"
	"github.com/talgya/park-peeps/internal/peep"
	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

// Config is the top-level park definition.
type Config struct {
	Seed         uint64        `yaml:"seed"`
	Capacity     int           `yaml:"capacity"`      // Peep pool size
	TickInterval time.Duration `yaml:"tick_interval"` // Wall time per tick at speed 1
	DBPath       string        `yaml:"db_path"`
	Server       ServerConfig  `yaml:"server"`
	Map          MapConfig     `yaml:"map"`
	Park         ParkConfig    `yaml:"park"`
	Rides        []RideConfig  `yaml:"rides"`
	Roster       engine.Roster `yaml:"roster"`
}

type ServerConfig struct {
	Port     int    `yaml:"port"`
	AdminKey string `yaml:"admin_key"`
}

type MapConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	GardenLevel  float64 `yaml:"garden_level"`
	SceneryLevel float64 `yaml:"scenery_level"`
	WaterLevel   float64 `yaml:"water_level"`
}

// ParkConfig holds money in whole currency units; the park works in tenths.
type ParkConfig struct {
	Open        bool        `yaml:"open"`
	NoMoney     bool        `yaml:"no_money"`
	EntranceFee float64     `yaml:"entrance_fee"`
	MaxGuests   int         `yaml:"max_guests"`
	StartCash   float64     `yaml:"start_cash"`
	Guests      GuestConfig `yaml:"guests"`
}

// GuestConfig is what a newly generated guest starts with.
type GuestConfig struct {
	Cash      float64 `yaml:"cash"`
	Happiness uint8   `yaml:"happiness"`
	Hunger    uint8   `yaml:"hunger"`
	Thirst    uint8   `yaml:"thirst"`
}

// RideConfig names a ride to build; zero fields keep the type's stock figures.
type RideConfig struct {
	Type  string  `yaml:"type"`
	Name  string  `yaml:"name,omitempty"`
	Price float64 `yaml:"price,omitempty"`
	Open  *bool   `yaml:"open,omitempty"`
}

// IsOpen reports whether the ride opens when the park is built. Rides open
// unless told otherwise.
func (r RideConfig) IsOpen() bool {
	return r.Open == nil || *r.Open
}

// envVarRe matches ${VAR} and ${VAR:default} patterns.
var envVarRe = regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

// Load reads a YAML park file over the defaults, substituting environment
// variable references first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML park definition over the defaults.
func Parse(data []byte) (*Config, error) {
	resolved := envVarRe.ReplaceAllStringFunc(string(data), func(match string) string {
		parts := envVarRe.FindStringSubmatch(match)
		if v := os.Getenv(parts[1]); v != "" {
			return v
		}
		return parts[2]
	})

	cfg := Default()
	if err := yaml.Unmarshal([]byte(resolved), cfg); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in demo park.
func Default() *Config {
	return &Config{
		Seed:         42,
		Capacity:     2000,
		TickInterval: time.Second / engine.TicksPerSecond,
		DBPath:       "data/park.db",
		Server:       ServerConfig{Port: 8080},
		Map: MapConfig{
			Width:        48,
			Height:       48,
			GardenLevel:  0.68,
			SceneryLevel: 0.62,
			WaterLevel:   0.18,
		},
		Park: ParkConfig{
			Open:        true,
			EntranceFee: 10,
			MaxGuests:   1000,
			StartCash:   10000,
			Guests: GuestConfig{
				Cash:      50,
				Happiness: 128,
				Hunger:    200,
				Thirst:    200,
			},
		},
		Rides: []RideConfig{
			{Type: "merry_go_round"},
			{Type: "wooden_coaster"},
			{Type: "ferris_wheel"},
			{Type: "spiral_slide"},
			{Type: "maze"},
			{Type: "food_stall"},
			{Type: "drink_stall"},
			{Type: "souvenir_stall"},
			{Type: "toilets"},
			{Type: "information_kiosk"},
		},
		Roster: engine.Roster{Handymen: 2, Mechanics: 1, Security: 1, Entertainers: 1},
	}
}

// Validate checks the definition can build a park.
func (c *Config) Validate() error {
	if c.Map.Width < 24 || c.Map.Height < 24 {
		return fmt.Errorf("map %dx%d is smaller than 24x24", c.Map.Width, c.Map.Height)
	}
	if c.Capacity <= 0 || c.Capacity > 0xFFFE {
		return fmt.Errorf("capacity %d out of range", c.Capacity)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval %s must be positive", c.TickInterval)
	}
	if c.Park.Guests.Cash < 0 || c.Park.EntranceFee < 0 {
		return fmt.Errorf("guest cash and entrance fee must not be negative")
	}
	if len(c.Rides) > ride.MaxRides {
		return fmt.Errorf("%d rides, at most %d", len(c.Rides), ride.MaxRides)
	}
	for i, r := range c.Rides {
		if _, err := ride.ParseType(r.Type); err != nil {
			return fmt.Errorf("ride %d: %w", i, err)
		}
	}
	return nil
}

// GenConfig returns the map generation parameters.
func (c *Config) GenConfig() world.GenConfig {
	return world.GenConfig{
		Width:        c.Map.Width,
		Height:       c.Map.Height,
		Seed:         int64(c.Seed),
		GardenLevel:  c.Map.GardenLevel,
		SceneryLevel: c.Map.SceneryLevel,
		WaterLevel:   c.Map.WaterLevel,
	}
}

// ParkSettings returns the peep-facing park settings.
func (c *Config) ParkSettings() peep.ParkSettings {
	return peep.ParkSettings{
		Open:                  c.Park.Open,
		NoMoney:               c.Park.NoMoney,
		EntranceFee:           Money(c.Park.EntranceFee),
		MaxGuests:             c.Park.MaxGuests,
		GuestInitialCash:      Money(c.Park.Guests.Cash),
		GuestInitialHappiness: c.Park.Guests.Happiness,
		GuestInitialHunger:    c.Park.Guests.Hunger,
		GuestInitialThirst:    c.Park.Guests.Thirst,
	}
}

// EngineConfig returns what a new simulation is built from.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		Park:      c.ParkSettings(),
		Capacity:  c.Capacity,
		Seed:      c.Seed,
		StartCash: Money(c.Park.StartCash),
		Roster:    c.Roster,
	}
}

// Definitions returns the rides to build, in order.
func (c *Config) Definitions() ([]ride.Definition, error) {
	out := make([]ride.Definition, 0, len(c.Rides))
	for i, rc := range c.Rides {
		t, err := ride.ParseType(rc.Type)
		if err != nil {
			return nil, fmt.Errorf("ride %d: %w", i, err)
		}
		def := ride.DefaultDefinition(t)
		if rc.Name != "" {
			def.Name = rc.Name
		}
		if rc.Price > 0 {
			def.Price = Money(rc.Price)
		}
		out = append(out, def)
	}
	return out, nil
}

// Money converts whole currency units to park money.
func Money(units float64) economy.Money {
	return economy.Money(math.Round(units * 10))
}
