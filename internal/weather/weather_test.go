package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/park-peeps/internal/entropy"
)

func TestClimateStaysInRange(t *testing.T) {
	c := Default()
	rng := entropy.NewStream(3)
	for i := 0; i < changeInterval*50; i++ {
		c.Update(rng)
		assert.LessOrEqual(t, c.Kind, Thunder)
		assert.GreaterOrEqual(t, c.Temperature, int8(4))
		assert.LessOrEqual(t, c.Temperature, int8(32))
	}
}

func TestClimateIsDeterministic(t *testing.T) {
	a, b := Default(), Default()
	ra, rb := entropy.NewStream(11), entropy.NewStream(11)
	for i := 0; i < changeInterval*10; i++ {
		a.Update(ra)
		b.Update(rb)
	}
	assert.Equal(t, a, b)
}

func TestRaining(t *testing.T) {
	c := Climate{Kind: Rain}
	assert.True(t, c.Raining())
	c.Kind = Cloudy
	assert.False(t, c.Raining())
}
