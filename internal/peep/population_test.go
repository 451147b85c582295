package peep

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

func TestGenerateGuestWalksIn(t *testing.T) {
	w, layout := testWorld(t)

	p, err := w.GenerateGuest()
	require.NoError(t, err)
	assert.Equal(t, StateEnteringPark, p.State)
	assert.True(t, p.OutsideOfPark)
	assert.EqualValues(t, 1, w.GuestsHeadingForPark)
	assert.EqualValues(t, 1, p.ID)
	assert.NotEqual(t, layout.Entrance, p.Tile())
	assert.GreaterOrEqual(t, p.Energy, uint8(65))
	assert.GreaterOrEqual(t, p.Guest().CashInPocket, w.Park.GuestInitialCash-100)
	assert.Equal(t, "Entering the park", w.FormatActionTo(p))

	w.Remove(p)
	assert.Zero(t, w.GuestsHeadingForPark)
	assert.Zero(t, w.Pool.Len())
}

func TestGenerateGuestIsDeterministic(t *testing.T) {
	a, _ := testWorld(t)
	b, _ := testWorld(t)
	for i := 0; i < 5; i++ {
		pa, err := a.GenerateGuest()
		require.NoError(t, err)
		pb, err := b.GenerateGuest()
		require.NoError(t, err)
		assert.Equal(t, *pa, *pb)
	}
}

func TestGenerateGuestPanicsWhenPoolFull(t *testing.T) {
	w, _ := testWorld(t)
	for !w.Pool.Full() {
		_, err := w.Pool.Alloc()
		require.NoError(t, err)
	}
	assert.PanicsWithError(t, "generate guest: peep pool exhausted", func() {
		w.GenerateGuest()
	})
}

func TestGenerateGuestNeedsEntrance(t *testing.T) {
	w := bareWorld(t, 8)
	_, err := w.GenerateGuest()
	assert.ErrorIs(t, err, ErrInvalidPlacement)
	_, err = w.HireStaff(StaffHandyman)
	assert.ErrorIs(t, err, ErrInvalidPlacement)
}

func TestRemoveQueuingGuestLeavesQueue(t *testing.T) {
	w, layout := testWorld(t)
	r, err := w.Rides.Build(w.Map, layout.Plots[0], ride.DefaultDefinition(ride.TypeMerryGoRound))
	require.NoError(t, err)
	p := testGuest(t, w, layout.Plots[0].At(1, false))
	p.SetState(StateQueuing)
	p.Guest().CurrentRide = r.ID
	r.Stations[0].Join(p.Index)

	w.Remove(p)
	assert.Empty(t, r.Stations[0].Queue)
	assert.Zero(t, w.GuestsInPark)
}

func TestRecountGuests(t *testing.T) {
	w, _ := testWorld(t)
	_, err := w.GenerateGuest()
	require.NoError(t, err)
	testGuest(t, w, world.TileCoord{X: 2, Y: 2})
	testGuest(t, w, world.TileCoord{X: 3, Y: 2})
	_, err = w.HireStaff(StaffMechanic)
	require.NoError(t, err)

	w.GuestsInPark, w.GuestsHeadingForPark = 99, 99
	w.RecountGuests()
	assert.EqualValues(t, 2, w.GuestsInPark)
	assert.EqualValues(t, 1, w.GuestsHeadingForPark)
	assert.Len(t, w.Guests(), 3)
	assert.Len(t, w.StaffMembers(), 1)
}

func TestWeeklyUpdateTracksTrend(t *testing.T) {
	w := bareWorld(t, 8)
	w.GuestsInPark = 10
	w.WeeklyUpdate()
	assert.EqualValues(t, 2, w.GuestChangeModifier)
	w.WeeklyUpdate()
	assert.EqualValues(t, 1, w.GuestChangeModifier)
	w.GuestsInPark = 4
	w.WeeklyUpdate()
	assert.EqualValues(t, 0, w.GuestChangeModifier)
	assert.EqualValues(t, 4, w.GuestsInParkLastWeek)
}

func TestCompareOrdersGuestsFirst(t *testing.T) {
	w := bareWorld(t, 8)
	staff := testStaff(t, w, StaffHandyman, world.TileCoord{X: 1, Y: 1})
	b := testGuest(t, w, world.TileCoord{X: 1, Y: 1})
	a := testGuest(t, w, world.TileCoord{X: 1, Y: 1})

	peeps := []*Peep{staff, a, b}
	slices.SortFunc(peeps, w.Compare)
	assert.Equal(t, []*Peep{b, a, staff}, peeps)

	a.SetName("alice")
	b.SetName("Bob")
	slices.SortFunc(peeps, w.Compare)
	assert.Equal(t, []*Peep{a, b, staff}, peeps)
}

func TestApplauseReleasesBalloons(t *testing.T) {
	w := bareWorld(t, 8)
	p := testGuest(t, w, world.TileCoord{X: 2, Y: 2})
	p.Guest().GiveItem(ride.ItemBalloon)

	w.Applause()
	assert.False(t, p.Guest().HasItem(ride.ItemBalloon))
	assert.Equal(t, ActionClap, p.Action)
}

func TestUpdateDaysInQueue(t *testing.T) {
	w := bareWorld(t, 8)
	q := testGuest(t, w, world.TileCoord{X: 2, Y: 2})
	q.SetState(StateQueuing)
	walker := testGuest(t, w, world.TileCoord{X: 3, Y: 2})

	w.UpdateDaysInQueue()
	w.UpdateDaysInQueue()
	assert.EqualValues(t, 2, q.Guest().DaysInQueue)
	assert.Zero(t, walker.Guest().DaysInQueue)
}

func TestResetStaffStats(t *testing.T) {
	w := bareWorld(t, 8)
	p := testStaff(t, w, StaffMechanic, world.TileCoord{X: 2, Y: 2})
	p.Staff().RidesFixed = 9
	p.Staff().LitterSwept = 4
	w.ResetStaffStats()
	assert.Zero(t, p.Staff().RidesFixed)
	assert.Zero(t, p.Staff().LitterSwept)
}

func TestRestoreRebuildsCounters(t *testing.T) {
	w := bareWorld(t, 8)
	g := testGuest(t, w, world.TileCoord{X: 2, Y: 2})
	s := testStaff(t, w, StaffHandyman, world.TileCoord{X: 3, Y: 2})
	guestData, err := g.MarshalBinary()
	require.NoError(t, err)
	staffData, err := s.MarshalBinary()
	require.NoError(t, err)

	fresh := bareWorld(t, 8)
	var lg, ls Peep
	require.NoError(t, lg.UnmarshalBinary(guestData))
	require.NoError(t, ls.UnmarshalBinary(staffData))
	require.NoError(t, fresh.Restore([]*Peep{&ls, &lg}))

	assert.Equal(t, 2, fresh.Pool.Len())
	assert.EqualValues(t, 1, fresh.GuestsInPark)
	assert.Equal(t, g.ID+1, fresh.NextGuestNumber)
	assert.Equal(t, s.ID+1, fresh.NextStaffNumber)
	assert.Same(t, &lg, fresh.Pool.Get(g.Index))

	dup := lg
	assert.Error(t, fresh.Restore([]*Peep{&lg, &dup}))
}
