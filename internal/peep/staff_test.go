package peep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/park-peeps/internal/economy"
	"github.com/talgya/park-peeps/internal/entropy"
	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/weather"
	"github.com/talgya/park-peeps/internal/world"
)

func TestHireAndFire(t *testing.T) {
	w, _ := testWorld(t)

	p, err := w.HireStaff(StaffHandyman)
	require.NoError(t, err)
	assert.Equal(t, StateFalling, p.State)
	assert.Equal(t, TypeStaff, p.Type)
	assert.EqualValues(t, 1, p.ID)
	s := p.Staff()
	require.NotNil(t, s)
	assert.NotZero(t, s.Orders&OrderSweeping)
	assert.Zero(t, s.Orders&OrderMowing)
	assert.Equal(t, SpriteHandyman, p.SpriteType)

	m, err := w.HireStaff(StaffMechanic)
	require.NoError(t, err)
	assert.EqualValues(t, 1, m.Staff().StaffID)
	assert.Equal(t, 2, w.StaffCount())

	found, err := w.FindByID(TypeStaff, 2)
	require.NoError(t, err)
	assert.Same(t, m, found)

	require.NoError(t, w.Fire(p))
	assert.Equal(t, 1, w.StaffCount())
	assert.Nil(t, w.Pool.Get(p.Index))
	_, err = w.FindByID(TypeStaff, 1)
	assert.ErrorIs(t, err, ErrNoSuchPeep)

	again, err := w.HireStaff(StaffSecurity)
	require.NoError(t, err)
	assert.EqualValues(t, 0, again.Staff().StaffID)
	assert.EqualValues(t, 3, again.ID)
}

func TestFireGuestRefused(t *testing.T) {
	w := bareWorld(t, 8)
	g := testGuest(t, w, world.TileCoord{X: 1, Y: 1})
	assert.ErrorIs(t, w.Fire(g), ErrNotStaff)
	assert.ErrorIs(t, w.SetPatrolArea(g, world.TileCoord{}, true), ErrNotStaff)
}

func TestHireStaffLimit(t *testing.T) {
	m, _ := world.Generate(world.SmallTestConfig())
	climate := weather.Default()
	w := NewWorld(m, ride.NewRegistry(), entropy.NewStream(1), &climate,
		economy.NewFinance(0), DefaultParkSettings(), MaxStaff+10)
	for i := 0; i < MaxStaff; i++ {
		_, err := w.HireStaff(StaffEntertainer)
		require.NoError(t, err)
	}
	_, err := w.HireStaff(StaffEntertainer)
	assert.ErrorIs(t, err, ErrStaffLimit)
}

func TestPatrolArea(t *testing.T) {
	w := bareWorld(t, 16)
	p := testStaff(t, w, StaffMechanic, world.TileCoord{X: 1, Y: 1})
	s := p.Staff()

	assert.True(t, w.InPatrolArea(s, world.TileCoord{X: 12, Y: 12}))

	require.NoError(t, w.SetPatrolArea(p, world.TileCoord{X: 5, Y: 5}, true))
	assert.True(t, w.InPatrolArea(s, world.TileCoord{X: 4, Y: 7}))
	assert.False(t, w.InPatrolArea(s, world.TileCoord{X: 8, Y: 5}))
	assert.False(t, w.InPatrolArea(s, world.TileCoord{X: 1, Y: 1}))

	w.Map.TileAt(world.TileCoord{X: 6, Y: 6}).Owned = false
	assert.False(t, w.InPatrolArea(s, world.TileCoord{X: 6, Y: 6}))

	require.NoError(t, w.SetPatrolArea(p, world.TileCoord{X: 7, Y: 7}, false))
	assert.True(t, w.InPatrolArea(s, world.TileCoord{X: 1, Y: 1}))
}

func TestPatrolAreaIgnoresOffGrid(t *testing.T) {
	var a PatrolArea
	a.Set(world.TileCoord{X: -1, Y: 3}, true)
	a.Set(world.TileCoord{X: patrolGridSize * patrolCellSize, Y: 0}, true)
	assert.True(t, a.Empty())
	assert.False(t, a.Has(world.TileCoord{X: -1, Y: 3}))
}

func TestPatrolAreaBinary(t *testing.T) {
	var a PatrolArea
	a.Set(world.TileCoord{X: 9, Y: 30}, true)
	data, err := a.MarshalBinary()
	require.NoError(t, err)

	var b PatrolArea
	require.NoError(t, b.UnmarshalBinary(data))
	assert.Equal(t, a, b)
	assert.ErrorIs(t, b.UnmarshalBinary(data[:7]), ErrBadRecord)
}

func planSteps(plan uint16) []FixingStep {
	var steps []FixingStep
	cur := FixEnterStation
	steps = append(steps, cur)
	for {
		next, ok := nextFixingStep(plan, cur)
		if !ok {
			return steps
		}
		steps = append(steps, next)
		cur = next
	}
}

func TestFixingPlans(t *testing.T) {
	r := &ride.Ride{BreakdownReason: ride.BreakdownBrakesFailure}
	assert.Equal(t, []FixingStep{
		FixEnterStation, FixMoveToStationStart, FixStationBrakes,
		FixMoveToStationExit, FixFinishFixOrInspect, FixLeaveByEntranceExit,
	}, planSteps(fixingPlan(r, false)))

	assert.Equal(t, []FixingStep{
		FixEnterStation, FixMoveToStationEnd, FixStationEnd, FixMoveToStationStart, FixStationStart,
		FixMoveToStationExit, FixFinishFixOrInspect, FixLeaveByEntranceExit,
	}, planSteps(fixingPlan(r, true)))

	r.BreakdownReason = ride.BreakdownDoorsStuckOpen
	assert.Contains(t, planSteps(fixingPlan(r, false)), FixVehicle)
	r.BreakdownReason = ride.BreakdownVehicleMalfunction
	assert.Contains(t, planSteps(fixingPlan(r, false)), FixVehicleMalfunction)
}

func TestFixBoostBounds(t *testing.T) {
	assert.EqualValues(t, 1, fixBoost(0))
	assert.EqualValues(t, 8, fixBoost(128))
	assert.EqualValues(t, 16, fixBoost(1000))
}

func TestStaffWithNoWayOnStaysPut(t *testing.T) {
	w := bareWorld(t, 8)
	here := world.TileCoord{X: 3, Y: 3}
	w.Map.AddPath(here, world.NoRide)
	p := testStaff(t, w, StaffMechanic, here)
	dest := p.Destination()

	assert.True(t, p.staffPathFinding(w, p.Staff()))
	assert.Equal(t, dest, p.Destination())
	assert.Equal(t, here, p.Tile())

	_, ok := p.staffDirectionPath(w, 0)
	assert.False(t, ok)
}

func TestStaffDirectionAvoidsDoublingBack(t *testing.T) {
	w := bareWorld(t, 8)
	p := testStaff(t, w, StaffHandyman, world.TileCoord{X: 3, Y: 3})
	p.NextDirection = world.DirEast

	for i := 0; i < 20; i++ {
		d, ok := p.staffDirectionPath(w, world.DirWest.Bit()|world.DirNorth.Bit())
		require.True(t, ok)
		assert.Equal(t, world.DirNorth, d)
	}
	d, ok := p.staffDirectionPath(w, world.DirWest.Bit())
	require.True(t, ok)
	assert.Equal(t, world.DirWest, d)
}

func TestCallMechanicsSendsEligibleMechanic(t *testing.T) {
	w, layout := testWorld(t)
	r, err := w.Rides.Build(w.Map, layout.Plots[0], ride.DefaultDefinition(ride.TypeMerryGoRound))
	require.NoError(t, err)
	r.Open()

	lazy := testStaff(t, w, StaffMechanic, layout.Plots[0].Path)
	lazy.Staff().Orders = OrderInspectRides
	keen := testStaff(t, w, StaffMechanic, layout.Plots[1].Path)

	r.BreakDown(ride.BreakdownSafetyCutOut)
	require.Equal(t, ride.MechanicCalling, r.MechanicStatus)
	w.CallMechanics()

	assert.Equal(t, StatePatrolling, lazy.State)
	assert.Equal(t, StateAnswering, keen.State)
	assert.Equal(t, ride.MechanicHeading, r.MechanicStatus)
	assert.Equal(t, keen.Index, r.Mechanic)
	assert.Equal(t, r.ID, keen.Staff().CurrentRide)
	assert.Equal(t, "Answering radio call", w.FormatActionTo(keen))
}

func TestBreakdownPullsMechanicOffInspection(t *testing.T) {
	w, layout := testWorld(t)
	inspect, err := w.Rides.Build(w.Map, layout.Plots[0], ride.DefaultDefinition(ride.TypeMerryGoRound))
	require.NoError(t, err)
	broken, err := w.Rides.Build(w.Map, layout.Plots[1], ride.DefaultDefinition(ride.TypeFerrisWheel))
	require.NoError(t, err)
	inspect.Open()
	broken.Open()

	m := testStaff(t, w, StaffMechanic, layout.Plots[0].Path)

	inspect.Lifecycle |= ride.LifecycleDueInspection
	inspect.CallMechanic()
	w.CallMechanics()
	require.Equal(t, StateHeadingToInspection, m.State)
	require.Equal(t, m.Index, inspect.Mechanic)

	broken.BreakDown(ride.BreakdownSafetyCutOut)
	w.CallMechanics()
	assert.Equal(t, StateAnswering, m.State)
	assert.Equal(t, broken.ID, m.Staff().CurrentRide)
	assert.Equal(t, ride.MechanicCalling, inspect.MechanicStatus)
	assert.Equal(t, ride.NoPeep, inspect.Mechanic)
}

func TestHandymanSweepsLitter(t *testing.T) {
	w := bareWorld(t, 8)
	here := world.TileCoord{X: 3, Y: 3}
	w.Map.AddPath(here, world.NoRide)
	w.Map.AddLitter(here, 3)
	p := testStaff(t, w, StaffHandyman, here)
	s := p.Staff()

	require.True(t, p.updatePatrollingFindSweeping(w, s))
	require.Equal(t, StateSweeping, p.State)
	for i := 0; i < 200 && p.State == StateSweeping; i++ {
		p.UpdateSweeping(w, s)
	}
	assert.Equal(t, StateOne, p.State)
	assert.Zero(t, w.Map.LitterAt(here))
	assert.EqualValues(t, 3, s.LitterSwept)
}

func TestHandymanEmptiesBin(t *testing.T) {
	w := bareWorld(t, 8)
	here := world.TileCoord{X: 3, Y: 3}
	w.Map.AddPath(here, world.NoRide)
	tile := w.Map.TileAt(here)
	tile.Bin = &world.Bin{Fill: 5}
	p := testStaff(t, w, StaffHandyman, here)
	s := p.Staff()

	require.True(t, p.updatePatrollingFindBin(w, s))
	for i := 0; i < 200 && p.State == StateEmptyingBin; i++ {
		p.UpdateEmptyingBin(w, s)
	}
	assert.Equal(t, StateOne, p.State)
	assert.Zero(t, tile.Bin.Fill)
	assert.EqualValues(t, 1, s.BinsEmptied)
}

func TestStaffTick128HoldsEnergy(t *testing.T) {
	w := bareWorld(t, 8)
	p := testStaff(t, w, StaffHandyman, world.TileCoord{X: 1, Y: 1})
	p.Energy = 40
	p.Tick128(w)
	assert.EqualValues(t, staffEnergy, p.Energy)
	assert.EqualValues(t, 1, p.Staff().MowingTimeout)
	assert.Equal(t, SpriteHandyman, p.SpriteType)
}

func TestSecurityDetersVandals(t *testing.T) {
	w := bareWorld(t, 12)
	testStaff(t, w, StaffSecurity, world.TileCoord{X: 2, Y: 2})
	assert.True(t, w.securityNearby(world.TileCoord{X: 4, Y: 4}, securityDeterrenceRadius))
	assert.False(t, w.securityNearby(world.TileCoord{X: 10, Y: 10}, securityDeterrenceRadius))
}

func TestMechanicFixesBrokenRide(t *testing.T) {
	w, layout := testWorld(t)
	r, err := w.Rides.Build(w.Map, layout.Plots[0], ride.DefaultDefinition(ride.TypeMerryGoRound))
	require.NoError(t, err)
	r.Open()
	r.Reliability = 50
	r.BreakDown(ride.BreakdownSafetyCutOut)
	require.EqualValues(t, 45, r.Reliability)

	m := testStaff(t, w, StaffMechanic, r.Stations[0].Entrance)
	s := m.Staff()
	s.CurrentRide = r.ID
	r.AssignMechanic(m.Index)
	m.SetState(StateFixing)
	require.Equal(t, FixEnterStation, m.Sub.Fixing())

	for i := 0; i < 2000 && m.State == StateFixing; i++ {
		m.UpdateFixing(w, s, 64)
	}
	require.Equal(t, StateFalling, m.State)

	assert.False(t, r.BrokenDown())
	assert.Equal(t, ride.BreakdownNone, r.BreakdownReason)
	assert.Equal(t, ride.MechanicUndefined, r.MechanicStatus)
	assert.Equal(t, ride.NoPeep, r.Mechanic)
	assert.EqualValues(t, 45+fixBoost(64), r.Reliability)
	assert.EqualValues(t, 1, s.RidesFixed)
	assert.Equal(t, ride.NoRide, s.CurrentRide)
}
