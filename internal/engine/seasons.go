// Seasonal climate: the park year runs March to October and each month
// pulls the temperature toward its own average.
package engine

import (
	"log/slog"

	"github.com/talgya/park-peeps/internal/weather"
)

// monthClimate is the typical weather of a park month.
type monthClimate struct {
	Temperature int8 // Mean, Celsius
	RainChance  int  // Percent chance a month opens wet
}

var monthClimates = [MonthsPerYear]monthClimate{
	{Temperature: 8, RainChance: 35},  // March
	{Temperature: 11, RainChance: 35}, // April
	{Temperature: 15, RainChance: 25}, // May
	{Temperature: 19, RainChance: 15}, // June
	{Temperature: 22, RainChance: 10}, // July
	{Temperature: 22, RainChance: 10}, // August
	{Temperature: 17, RainChance: 20}, // September
	{Temperature: 12, RainChance: 30}, // October
}

// MonthOf returns the park month (0 = March) a tick falls in.
func MonthOf(tick uint64) int {
	return int(tick / TicksPerParkMonth % MonthsPerYear)
}

// MonthName returns a human-readable month name.
func MonthName(month int) string {
	if month < 0 || month >= MonthsPerYear {
		return "Unknown"
	}
	return monthNames[month]
}

// applySeason moves the climate halfway toward the new month's average.
func (s *Simulation) applySeason(tick uint64) {
	month := MonthOf(tick)
	mc := monthClimates[month]
	c := s.Climate
	c.Temperature += (mc.Temperature - c.Temperature) / 2
	if s.RNG.Percent(mc.RainChance) && !c.Raining() {
		c.Kind = weather.Rain
	}
	slog.Info("new month", "month", MonthName(month), "weather", c)
}
