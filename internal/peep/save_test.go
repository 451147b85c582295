package peep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

func TestGuestRecordRoundTrip(t *testing.T) {
	w := bareWorld(t, 8)
	p := testGuest(t, w, world.TileCoord{X: 3, Y: 4})
	p.SetName("Ada L.")
	p.SetState(StateSitting)
	p.Sub.SetSitting(SittingSatDown)
	p.Nausea, p.NauseaTarget = 61, 90
	p.Flags |= FlagTracking
	p.InsertNewThought(ThoughtWasGreat, 3)
	p.rememberJunction(world.TileCoord{X: 3, Y: 3}, world.DirEast)
	g := p.Guest()
	g.SetHasRidden(5)
	g.GiveItem(ride.ItemBalloon)
	g.PaidOnFood = 45
	g.TimeInPark = 1234

	data, err := p.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, RecordSize)

	var back Peep
	require.NoError(t, back.UnmarshalBinary(data))
	p.WindowInvalidate = 0
	assert.Equal(t, *p, back)
	assert.Equal(t, SittingSatDown, back.Sub.Sitting())

	again, err := back.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestStaffRecordRoundTrip(t *testing.T) {
	w := bareWorld(t, 8)
	p := testStaff(t, w, StaffMechanic, world.TileCoord{X: 1, Y: 1})
	p.SetName("Fixer")
	p.SetState(StateFixing)
	p.Sub.SetFixing(FixStationBrakes)
	s := p.Staff()
	s.CurrentRide = 2
	s.RidesFixed = 17
	s.HireDate = 99

	data, err := p.MarshalBinary()
	require.NoError(t, err)

	var back Peep
	require.NoError(t, back.UnmarshalBinary(data))
	p.WindowInvalidate = 0
	assert.Equal(t, *p, back)
	assert.Equal(t, FixStationBrakes, back.Sub.Fixing())
}

func TestPickedRecordKeepsOrigin(t *testing.T) {
	w := bareWorld(t, 8)
	w.Map.AddPath(world.TileCoord{X: 2, Y: 2}, world.NoRide)
	p := testGuest(t, w, world.TileCoord{X: 2, Y: 2})
	require.NoError(t, w.Pickup(p))

	data, err := p.MarshalBinary()
	require.NoError(t, err)
	var back Peep
	require.NoError(t, back.UnmarshalBinary(data))
	assert.True(t, back.Pos.IsNull())
	assert.Equal(t, p.PickedFrom, back.PickedFrom)
}

func TestRecordRejectsBadInput(t *testing.T) {
	w := bareWorld(t, 8)
	p := testGuest(t, w, world.TileCoord{X: 2, Y: 2})

	var back Peep
	assert.ErrorIs(t, back.UnmarshalBinary(make([]byte, RecordSize-1)), ErrBadRecord)
	assert.ErrorIs(t, back.UnmarshalBinary(make([]byte, RecordSize)), ErrBadRecord)

	p.State = StateSitting
	p.Sub = SubState{owner: StateSitting, value: 7}
	data, err := p.MarshalBinary()
	require.NoError(t, err)
	assert.ErrorIs(t, back.UnmarshalBinary(data), ErrSubStateMismatch)

	p.Name = "a name much longer than the thirty-two bytes a record holds"
	_, err = p.MarshalBinary()
	assert.ErrorIs(t, err, ErrBadRecord)

	p.Name = ""
	p.Role = nil
	_, err = p.MarshalBinary()
	assert.ErrorIs(t, err, ErrBadRecord)
}
