package peep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

func TestPickupAbortRestoresExactly(t *testing.T) {
	w := bareWorld(t, 8)
	here := world.TileCoord{X: 3, Y: 3}
	w.Map.AddPath(here, world.NoRide)
	p := testStaff(t, w, StaffHandyman, here)
	p.SetState(StateSweeping)
	p.Sub.SetStep(1)
	p.SetDestination(world.Coords{X: 100, Y: 104}, 5)
	before := *p

	require.NoError(t, w.Pickup(p))
	assert.Equal(t, StatePicked, p.State)
	assert.True(t, p.Pos.IsNull())
	assert.Equal(t, "Being carried", w.FormatActionTo(p))

	require.NoError(t, w.PickupAbort(p))
	assert.Equal(t, before.Pos, p.Pos)
	assert.Equal(t, before.NextLoc, p.NextLoc)
	assert.Equal(t, before.State, p.State)
	assert.Equal(t, before.Sub, p.Sub)
	assert.Equal(t, before.Destination(), p.Destination())
	assert.Equal(t, before.DestTolerance, p.DestTolerance)
	assert.Equal(t, PickupOrigin{}, p.PickedFrom)
}

func TestPickupQueuingGuestRejoinsAtBack(t *testing.T) {
	w, layout := testWorld(t)
	r, err := w.Rides.Build(w.Map, layout.Plots[0], ride.DefaultDefinition(ride.TypeMerryGoRound))
	require.NoError(t, err)
	queueTile := layout.Plots[0].At(1, false)

	first := testGuest(t, w, queueTile)
	second := testGuest(t, w, queueTile)
	for _, p := range []*Peep{first, second} {
		p.SetState(StateQueuing)
		p.Guest().CurrentRide = r.ID
		r.Stations[0].Join(p.Index)
	}

	require.NoError(t, w.Pickup(first))
	assert.Equal(t, []uint16{second.Index}, r.Stations[0].Queue)

	require.NoError(t, w.PickupAbort(first))
	assert.Equal(t, StateQueuing, first.State)
	assert.Equal(t, []uint16{second.Index, first.Index}, r.Stations[0].Queue)
	assert.Equal(t, "Queuing for Merry-Go-Round (2nd in line)", w.FormatActionTo(first))
}

func TestPickupRefusedOnRide(t *testing.T) {
	w := bareWorld(t, 8)
	p := testGuest(t, w, world.TileCoord{X: 2, Y: 2})
	p.SetState(StateOnRide)
	assert.ErrorIs(t, w.Pickup(p), ErrNotPickable)
	assert.ErrorIs(t, w.PickupAbort(p), ErrNotPickable)
	assert.ErrorIs(t, w.Place(p, world.TileCoord{X: 1, Y: 1}), ErrNotPickable)
}

func TestPlaceChecksTile(t *testing.T) {
	w := bareWorld(t, 8)
	here := world.TileCoord{X: 3, Y: 3}
	w.Map.AddPath(here, world.NoRide)
	p := testGuest(t, w, here)
	require.NoError(t, w.Pickup(p))

	unowned := world.TileCoord{X: 0, Y: 0}
	w.Map.TileAt(unowned).Owned = false
	assert.ErrorIs(t, w.Place(p, unowned), ErrInvalidPlacement)
	assert.ErrorIs(t, w.Place(p, world.TileCoord{X: 20, Y: 20}), ErrInvalidPlacement)

	pond := world.TileCoord{X: 6, Y: 6}
	w.Map.TileAt(pond).Surface = world.SurfaceWater
	assert.ErrorIs(t, w.Place(p, pond), ErrInvalidPlacement)

	queue := world.TileCoord{X: 5, Y: 1}
	w.Map.AddPath(queue, 0)
	assert.ErrorIs(t, w.Place(p, queue), ErrInvalidPlacement)

	grass := world.TileCoord{X: 1, Y: 5}
	require.NoError(t, w.Place(p, grass))
	assert.Equal(t, StateFalling, p.State)
	assert.Equal(t, grass, p.Pos.Tile())
	assert.Equal(t, grass, p.Tile())
}

func TestPlacedMechanicGivesUpCall(t *testing.T) {
	w, layout := testWorld(t)
	r, err := w.Rides.Build(w.Map, layout.Plots[0], ride.DefaultDefinition(ride.TypeMerryGoRound))
	require.NoError(t, err)
	m := testStaff(t, w, StaffMechanic, layout.Plots[1].Path)

	r.Lifecycle |= ride.LifecycleDueInspection
	r.CallMechanic()
	w.CallMechanics()
	require.Equal(t, StateHeadingToInspection, m.State)

	require.NoError(t, w.Pickup(m))
	require.NoError(t, w.Place(m, layout.Plots[1].Path))
	assert.Equal(t, ride.MechanicCalling, r.MechanicStatus)
	assert.Equal(t, ride.NoRide, m.Staff().CurrentRide)
}

func TestPickedGuestCallsForHelp(t *testing.T) {
	w := bareWorld(t, 8)
	p := testGuest(t, w, world.TileCoord{X: 2, Y: 2})
	require.NoError(t, w.Pickup(p))

	for i := 0; i < 32*pickedHelpDelay; i++ {
		p.UpdatePicked(w)
		w.Tick++
	}
	assert.True(t, p.HasThought(ThoughtHelp))
}
