package peep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

func TestThoughtText(t *testing.T) {
	w, layout := testWorld(t)
	r, err := w.Rides.Build(w.Map, layout.Plots[0], ride.DefaultDefinition(ride.TypeMerryGoRound))
	require.NoError(t, err)

	cases := []struct {
		th   Thought
		want string
	}{
		{Thought{Type: ThoughtHungry, Item: ThoughtItemNone}, "I'm hungry"},
		{Thought{Type: ThoughtWasGreat, Item: uint8(r.ID)}, "Merry-Go-Round was great"},
		{Thought{Type: ThoughtIntense, Item: 77}, "the ride looks too intense for me"},
		{Thought{Type: ItemValueThought(ride.ItemBurger)}, "Burger is really good value"},
		{Thought{Type: ItemExpensiveThought(ride.ItemPhoto2)}, "I'm not paying that much for " + ride.ItemPhoto2.Info().Name},
		{Thought{Type: ThoughtAlreadyGot, Item: uint8(ride.ItemBalloon)}, "I've already got Balloon"},
		{Thought{Type: ThoughtType(200)}, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, w.ThoughtText(tc.th), "thought %d", tc.th.Type)
	}
}

func TestThoughtFormatArgs(t *testing.T) {
	w := bareWorld(t, 8)
	format, args := w.ThoughtFormatArgs(Thought{Type: ThoughtCantAfford, Item: uint8(ride.ItemBurger)})
	assert.Equal(t, "I can't afford %s", format)
	assert.Equal(t, []any{"Burger"}, args)

	_, args = w.ThoughtFormatArgs(Thought{Type: ThoughtTired})
	assert.Nil(t, args)
}

func TestFormatActionTo(t *testing.T) {
	w, layout := testWorld(t)
	r, err := w.Rides.Build(w.Map, layout.Plots[0], ride.DefaultDefinition(ride.TypeMerryGoRound))
	require.NoError(t, err)

	p := testGuest(t, w, layout.Plots[1].Path)
	assert.Equal(t, "Walking", w.FormatActionTo(p))

	p.Guest().HeadingToRide = r.ID
	assert.Equal(t, "Heading for Merry-Go-Round", w.FormatActionTo(p))

	p.Guest().CurrentRide = r.ID
	p.SetState(StateOnRide)
	assert.Equal(t, "On Merry-Go-Round", w.FormatActionTo(p))

	p.SetState(StateFalling)
	p.StartAction(ActionDrowning)
	assert.Equal(t, "Drowning", w.FormatActionTo(p))

	m := testStaff(t, w, StaffMechanic, layout.Plots[1].Path)
	m.Staff().CurrentRide = r.ID
	m.SetState(StateInspecting)
	assert.Equal(t, "Inspecting Merry-Go-Round", w.FormatActionTo(m))
	m.SetState(StateHeadingToInspection)
	assert.Equal(t, "Heading to Merry-Go-Round for an inspection", w.FormatActionTo(m))
}

func TestGuestSummary(t *testing.T) {
	w := bareWorld(t, 8)
	p := testGuest(t, w, world.TileCoord{X: 1, Y: 1})
	p.SetName("Sam")
	g := p.Guest()
	g.NumRides = 3
	g.CashSpent = 125

	assert.Equal(t, "Sam: 3 rides, spent £12.50, £100.00 in pocket", w.GuestSummary(p))
	staff := testStaff(t, w, StaffHandyman, world.TileCoord{X: 1, Y: 1})
	assert.Empty(t, w.GuestSummary(staff))
}
