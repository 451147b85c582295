package peep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

// openMerryGoRound builds an open merry-go-round that never breaks down.
func openMerryGoRound(t *testing.T, w *World, plot world.Plot) *ride.Ride {
	t.Helper()
	r, err := w.Rides.Build(w.Map, plot, ride.DefaultDefinition(ride.TypeMerryGoRound))
	require.NoError(t, err)
	r.Open()
	r.Reliability = 100
	return r
}

func outsideEntrance(t *testing.T, w *World, r *ride.Ride) world.TileCoord {
	t.Helper()
	entrance := r.Stations[0].Entrance
	facing, ok := accessFacing(w, entrance)
	require.True(t, ok)
	return entrance.Step(facing)
}

func TestGuestRidesFromQueueFrontToPath(t *testing.T) {
	w, layout := testWorld(t)
	r := openMerryGoRound(t, w, layout.Plots[0])

	p := testGuest(t, w, outsideEntrance(t, w, r))
	g := p.Guest()
	g.CurrentRide = r.ID
	g.CurrentRideStation = 0
	p.setRideState(StateQueuingFront, RideAtEntrance)

	boarded := false
	for i := 0; i < 5000 && p.State != StateWalking; i++ {
		p.UpdateRide(w, g)
		w.Rides.Update(w.RNG)
		if p.State == StateOnRide {
			boarded = true
		}
	}
	require.Equal(t, StateWalking, p.State)
	assert.True(t, boarded)

	assert.EqualValues(t, 1, g.NumRides)
	assert.True(t, g.HasRidden(r.ID))
	assert.EqualValues(t, 1000-r.Price, g.CashInPocket)
	assert.Equal(t, r.Price, g.PaidOnRides)
	assert.EqualValues(t, 1, r.TotalCustomers)
	assert.Zero(t, r.NumRiders)
	assert.Zero(t, p.Flags&(FlagRode|FlagRidePaid))
	assert.Equal(t, ride.NoRide, g.CurrentRide)
	assert.Equal(t, r.ID, g.PreviousRide)
}

func TestRefusedGuestIsNotCreditedWithRide(t *testing.T) {
	w, layout := testWorld(t)
	r := openMerryGoRound(t, w, layout.Plots[0])
	r.Price = 500

	p := testGuest(t, w, r.Stations[0].Entrance)
	g := p.Guest()
	g.CashInPocket = 300
	g.CurrentRide = r.ID
	p.setRideState(StateEnteringRide, RideFreeVehicleCheck)

	for i := 0; i < 2000 && p.State != StateWalking; i++ {
		p.UpdateRide(w, g)
	}
	require.Equal(t, StateWalking, p.State)

	assert.Zero(t, g.NumRides)
	assert.False(t, g.HasRidden(r.ID))
	assert.False(t, g.HasRiddenRideType(r.Type))
	assert.Zero(t, r.Favourites)
	assert.Zero(t, r.TotalCustomers)
	assert.EqualValues(t, 300, g.CashInPocket)
	assert.Equal(t, ThoughtCantAfford0, p.Thoughts[0].Type)
}

func TestRideExitRemovedUnderGuest(t *testing.T) {
	w, layout := testWorld(t)
	r := openMerryGoRound(t, w, layout.Plots[0])

	p := testGuest(t, w, r.Stations[0].Exit)
	g := p.Guest()
	g.CurrentRide = r.ID
	r.OnEnter()
	p.Flags |= FlagRode | FlagRidePaid
	p.setRideState(StateLeavingRide, RideInExit)
	w.Map.TileAt(r.Stations[0].Exit).Access = nil

	assert.NotPanics(t, func() { p.UpdateRide(w, g) })
	assert.Equal(t, StateFalling, p.State)
	assert.Equal(t, ride.NoRide, g.CurrentRide)
	assert.Equal(t, r.ID, g.PreviousRide)
	assert.EqualValues(t, 1, g.NumRides)
	assert.Zero(t, r.NumRiders)
	assert.Zero(t, p.Flags&(FlagRode|FlagRidePaid))
}

func TestRideEntranceRemovedUnderQueue(t *testing.T) {
	w, layout := testWorld(t)
	r := openMerryGoRound(t, w, layout.Plots[0])

	p := testGuest(t, w, outsideEntrance(t, w, r))
	g := p.Guest()
	g.CurrentRide = r.ID
	r.Stations[0].Join(p.Index)
	p.SetState(StateQueuing)
	w.Map.TileAt(r.Stations[0].Entrance).Access = nil

	assert.NotPanics(t, func() { p.UpdateQueuing(w, g) })
	assert.Equal(t, StateOne, p.State)
	assert.Zero(t, r.QueueLength())
}
