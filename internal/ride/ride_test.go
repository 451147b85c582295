package ride

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/park-peeps/internal/entropy"
	"github.com/talgya/park-peeps/internal/world"
)

func testPark(t *testing.T) (*world.Map, world.Layout, *Registry) {
	t.Helper()
	m, layout := world.Generate(world.SmallTestConfig())
	require.GreaterOrEqual(t, len(layout.Plots), 2)
	return m, layout, NewRegistry()
}

func TestBuildRideLaysQueueEntranceAndExit(t *testing.T) {
	m, layout, reg := testPark(t)
	plot := layout.Plots[0]

	rd, err := reg.Build(m, plot, DefaultDefinition(TypeMerryGoRound))
	require.NoError(t, err)
	assert.Equal(t, ID(0), rd.ID)
	assert.Same(t, rd, reg.Get(0))

	st := rd.Stations[0]
	entrance := m.TileAt(st.Entrance)
	require.NotNil(t, entrance.Access)
	assert.Equal(t, world.AccessRideEntrance, entrance.Access.Kind)

	// Walk the queue from the loop to the entrance.
	d, ok := m.NextDirection(plot.Path, st.Entrance, rd.ID)
	require.True(t, ok)
	assert.Equal(t, plot.Facing, d)

	// Guests not heading for the ride never route through its queue.
	assert.True(t, m.TileAt(plot.At(1, false)).Path.Queue)

	exit := m.TileAt(st.Exit)
	require.NotNil(t, exit.Access)
	assert.True(t, m.CanStep(st.Exit, plot.Facing.Reverse()))

	_, err = reg.Build(m, plot, DefaultDefinition(TypeMerryGoRound))
	assert.ErrorIs(t, err, ErrPlotBlocked)
}

func TestBuildStall(t *testing.T) {
	m, layout, reg := testPark(t)
	rd, err := reg.Build(m, layout.Plots[1], DefaultDefinition(TypeFoodStall))
	require.NoError(t, err)
	assert.Empty(t, rd.Trains)
	price, ok := rd.Sells(ItemBurger)
	assert.True(t, ok)
	assert.EqualValues(t, 19, price)
	_, ok = rd.Sells(ItemDrink)
	assert.False(t, ok)
}

func TestSeatClaimIsCheckThenClaim(t *testing.T) {
	m, layout, reg := testPark(t)
	rd, err := reg.Build(m, layout.Plots[0], DefaultDefinition(TypeMerryGoRound))
	require.NoError(t, err)

	tr, car, seat, ok := rd.FindFreeSeat()
	require.True(t, ok)
	require.NoError(t, rd.ClaimSeat(tr, car, seat, 7))
	assert.ErrorIs(t, rd.ClaimSeat(tr, car, seat, 8), ErrSeatTaken)

	_, _, seat2, ok := rd.FindFreeSeat()
	require.True(t, ok)
	assert.NotEqual(t, seat, seat2)
}

func TestTrainCycle(t *testing.T) {
	m, layout, reg := testPark(t)
	def := DefaultDefinition(TypeMerryGoRound)
	def.LoadTime, def.RideTime = 2, 3
	rd, err := reg.Build(m, layout.Plots[0], def)
	require.NoError(t, err)
	rd.Reliability = 100
	rng := entropy.NewStream(1)

	tr := rd.Trains[0]
	require.NoError(t, rd.ClaimSeat(0, 0, 0, 1))

	// Claimed but not boarded: the train waits.
	for i := 0; i < 5; i++ {
		reg.Update(rng)
	}
	assert.Equal(t, TrainLoading, tr.Status)

	require.True(t, rd.BoardSeat(0, 0, 0, 1))
	reg.Update(rng)
	assert.Equal(t, TrainTravelling, tr.Status)
	for i := 0; i < 3; i++ {
		reg.Update(rng)
	}
	assert.Equal(t, TrainUnloading, tr.Status)

	rd.VacateSeat(0, 0, 0, 1)
	reg.Update(rng)
	assert.Equal(t, TrainLoading, tr.Status)
}

func TestBreakdownAndFix(t *testing.T) {
	m, layout, reg := testPark(t)
	rd, err := reg.Build(m, layout.Plots[0], DefaultDefinition(TypeWoodenCoaster))
	require.NoError(t, err)

	rd.BreakDown(BreakdownBrakesFailure)
	assert.True(t, rd.BrokenDown())
	assert.Equal(t, MechanicCalling, rd.MechanicStatus)

	rd.AssignMechanic(4)
	rd.ForgetPeep(4)
	assert.Equal(t, MechanicCalling, rd.MechanicStatus)
	assert.Equal(t, NoPeep, rd.Mechanic)

	before := rd.Reliability
	rd.Fix(10)
	assert.Equal(t, min(before+10, 100), rd.Reliability)
	assert.False(t, rd.BrokenDown())
	assert.Equal(t, BreakdownNone, rd.BreakdownReason)
	assert.Equal(t, MechanicUndefined, rd.MechanicStatus)
}

func TestInspectionFallsDue(t *testing.T) {
	m, layout, reg := testPark(t)
	def := DefaultDefinition(TypeMaze)
	def.InspectionInterval = 10
	rd, err := reg.Build(m, layout.Plots[0], def)
	require.NoError(t, err)

	rng := entropy.NewStream(2)
	for i := 0; i < 10; i++ {
		reg.Update(rng)
	}
	assert.True(t, rd.DueInspection())
	assert.Equal(t, MechanicCalling, rd.MechanicStatus)

	rd.Inspect()
	assert.False(t, rd.DueInspection())
	assert.Zero(t, rd.SinceInspection)
}

func TestStationQueue(t *testing.T) {
	var s Station
	s.Join(3)
	s.Join(5)
	s.Join(9)

	front, ok := s.Front()
	assert.True(t, ok)
	assert.Equal(t, uint16(3), front)
	assert.Equal(t, uint16(3), s.Ahead(5))
	assert.Equal(t, NoPeep, s.Ahead(3))

	assert.True(t, s.Leave(5))
	assert.Equal(t, []uint16{3, 9}, s.Queue)
	assert.Equal(t, -1, s.Position(5))
}

func TestShopItemFlags(t *testing.T) {
	assert.False(t, ItemBurger.IsExtra())
	assert.Equal(t, uint32(1<<6), ItemBurger.Flag())
	assert.True(t, ItemPretzel.IsExtra())
	assert.Equal(t, uint32(1<<3), ItemPretzel.Flag())
	assert.Equal(t, ItemEmptyCan, ItemDrink.Info().Container)
	assert.True(t, ItemCoffee.IsDrink())
	assert.Len(t, AllItems(), 50)
}
