// Package weather provides the park climate.
// Weather changes are drawn from the park's random stream so replays agree.
package weather

import (
	"fmt"

	"github.com/talgya/park-peeps/internal/entropy"
)

// Kind is the current sky.
type Kind uint8

const (
	Sunny Kind = iota
	PartiallyCloudy
	Cloudy
	Rain
	HeavyRain
	Thunder
)

var kindNames = []string{"sunny", "partially cloudy", "cloudy", "rain", "heavy rain", "thunderstorm"}

func (k Kind) String() string {
	if int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Climate holds the park's current weather.
type Climate struct {
	Kind        Kind   `json:"kind"`
	Temperature int8   `json:"temperature"` // Celsius
	Timer       uint16 `json:"timer"`       // Ticks until the next change
}

// changeInterval is how long a weather spell lasts.
const changeInterval = 1920

// Default returns mild starting weather.
func Default() Climate {
	return Climate{Kind: Sunny, Temperature: 18, Timer: changeInterval}
}

// Raining reports whether guests get wet outdoors.
func (c *Climate) Raining() bool {
	return c.Kind >= Rain
}

// Hot reports weather that makes guests thirsty and keen on ice cream.
func (c *Climate) Hot() bool {
	return c.Temperature >= 21
}

// Cold reports weather that makes guests want hot drinks.
func (c *Climate) Cold() bool {
	return c.Temperature < 11
}

// Update advances the climate by one tick.
func (c *Climate) Update(rng *entropy.Stream) {
	if c.Timer > 0 {
		c.Timer--
		return
	}
	c.Timer = changeInterval

	// Drift one step toward a drawn sky so spells change gradually.
	target := Kind(rng.Intn(int(Thunder) + 1))
	switch {
	case target > c.Kind:
		c.Kind++
	case target < c.Kind:
		c.Kind--
	}

	c.Temperature += int8(rng.Intn(5)) - 2
	if c.Raining() {
		c.Temperature--
	}
	if c.Temperature < 4 {
		c.Temperature = 4
	}
	if c.Temperature > 32 {
		c.Temperature = 32
	}
}

// String returns a short description.
func (c *Climate) String() string {
	return fmt.Sprintf("%s, %d°C", c.Kind, c.Temperature)
}
