package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/park-peeps/internal/economy"
	"github.com/talgya/park-peeps/internal/peep"
	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

func newTestSim(t *testing.T) *Simulation {
	t.Helper()
	m, layout := world.Generate(world.SmallTestConfig())
	rides := ride.NewRegistry()
	r, err := rides.Build(m, layout.Plots[0], ride.DefaultDefinition(ride.TypeMerryGoRound))
	require.NoError(t, err)
	r.Open()
	return NewSimulation(m, layout, rides, Config{
		Park:      peep.DefaultParkSettings(),
		Capacity:  64,
		Seed:      5,
		StartCash: 10000,
	})
}

func TestParkTime(t *testing.T) {
	assert.Equal(t, "1st March, Year 1", ParkTime(0))
	assert.Equal(t, "2nd April, Year 1", ParkTime(33*TicksPerParkDay))
	assert.Equal(t, "1st March, Year 2", ParkTime(MonthsPerYear*TicksPerParkMonth))
	assert.Equal(t, "October", MonthName(MonthOf(7*TicksPerParkMonth)))
	assert.Equal(t, "Unknown", MonthName(9))
}

func TestEngineCallbackSchedule(t *testing.T) {
	e := NewEngine()
	var ticks, days, weeks, months int
	e.OnTick = func(uint64) { ticks++ }
	e.OnDay = func(uint64) { days++ }
	e.OnWeek = func(uint64) { weeks++ }
	e.OnMonth = func(uint64) { months++ }

	e.Advance(TicksPerParkWeek)
	assert.Equal(t, TicksPerParkWeek, ticks)
	assert.Equal(t, 7, days)
	assert.Equal(t, 1, weeks)
	assert.Zero(t, months)
	assert.EqualValues(t, TicksPerParkWeek, e.Tick)
	assert.False(t, e.Running())
}

func TestSimulationRunsDays(t *testing.T) {
	sim := newTestSim(t)
	sim.Roster = Roster{Handymen: 1, Mechanics: 1}
	e := NewEngine()
	sim.Attach(e)

	e.Advance(3 * TicksPerParkDay)
	assert.EqualValues(t, 3*TicksPerParkDay, sim.CurrentTick())
	assert.EqualValues(t, 3*TicksPerParkDay, sim.Peeps.Tick)

	stats := sim.Snapshot()
	assert.Equal(t, 2, stats.Staff)
	assert.LessOrEqual(t, stats.RidesOpen, 1)

	hired := 0
	for _, ev := range sim.RecentEvents(100) {
		if ev.Category == "staff" && strings.HasSuffix(ev.Description, "hired") {
			hired++
		}
	}
	assert.Equal(t, 2, hired)
	assert.GreaterOrEqual(t, sim.Rating, 0)
	assert.LessOrEqual(t, sim.Rating, 999)
}

func TestSimulationIsDeterministic(t *testing.T) {
	a, b := newTestSim(t), newTestSim(t)
	ea, eb := NewEngine(), NewEngine()
	a.Attach(ea)
	b.Attach(eb)
	a.generationProbability, b.generationProbability = 4000, 4000

	ea.Advance(TicksPerParkDay - 1)
	eb.Advance(TicksPerParkDay - 1)
	require.Equal(t, a.Peeps.Pool.Len(), b.Peeps.Pool.Len())
	a.Peeps.Pool.Each(func(p *peep.Peep) {
		q := b.Peeps.Pool.Get(p.Index)
		require.NotNil(t, q)
		assert.Equal(t, p.Pos, q.Pos)
		assert.Equal(t, p.State, q.State)
		assert.Equal(t, p.Happiness, q.Happiness)
	})
	assert.Equal(t, a.RNG.Next(), b.RNG.Next())
}

func TestGenerateGuestsRespectsPark(t *testing.T) {
	sim := newTestSim(t)
	sim.generationProbability = 0x10000

	sim.generateGuests(1)
	assert.EqualValues(t, 1, sim.Peeps.GuestsHeadingForPark)

	sim.Peeps.Park.MaxGuests = 1
	sim.generateGuests(2)
	assert.EqualValues(t, 1, sim.Peeps.GuestsHeadingForPark)

	sim.Peeps.Park.MaxGuests = 0
	sim.Peeps.Park.Open = false
	sim.generateGuests(3)
	assert.EqualValues(t, 1, sim.Peeps.GuestsHeadingForPark)

	sim.Peeps.Park.Open = true
	sim.generationProbability = 0
	sim.generateGuests(4)
	assert.EqualValues(t, 1, sim.Peeps.GuestsHeadingForPark)

	sim.generationProbability = 0x10000
	for !sim.Peeps.Pool.Full() {
		_, err := sim.Peeps.Pool.Alloc()
		require.NoError(t, err)
	}
	assert.NotPanics(t, func() { sim.generateGuests(5) })
	assert.EqualValues(t, 1, sim.Peeps.GuestsHeadingForPark)
}

func TestParkRatingPenalisesLitter(t *testing.T) {
	sim := newTestSim(t)
	clean := sim.parkRating()
	for i := range sim.Map.Tiles {
		sim.Map.Tiles[i].Litter = world.MaxLitter
	}
	dirty := sim.parkRating()
	assert.Less(t, dirty, clean)
	assert.GreaterOrEqual(t, dirty, 0)
	assert.LessOrEqual(t, clean, 999)
}

func TestSuggestedMaxGuestsCountsOpenRides(t *testing.T) {
	sim := newTestSim(t)
	assert.Equal(t, rideGuestBonus[ride.TypeMerryGoRound], sim.suggestedMaxGuests())
	sim.Rides.Get(0).Close()
	assert.Zero(t, sim.suggestedMaxGuests())
}

func TestGenerationProbabilityFallsWhenCrowded(t *testing.T) {
	sim := newTestSim(t)
	sim.Rating = 600
	sim.SuggestedMaxGuests = 10
	sim.Peeps.Park.EntranceFee = 0
	roomy := sim.guestGenerationProbability()
	assert.Equal(t, 450, roomy)

	sim.Peeps.GuestsInPark = 11
	assert.Equal(t, roomy/4, sim.guestGenerationProbability())

	sim.Peeps.GuestsInPark = 0
	sim.Peeps.Park.EntranceFee = 1000
	assert.Equal(t, roomy/16, sim.guestGenerationProbability())
}

func TestMonthlyWages(t *testing.T) {
	sim := newTestSim(t)
	_, _, err := sim.Hire(peep.StaffHandyman)
	require.NoError(t, err)
	_, _, err = sim.Hire(peep.StaffMechanic)
	require.NoError(t, err)

	sim.TickMonth(TicksPerParkMonth)
	assert.Equal(t, economy.Money(10000-1300), sim.Finance.Cash)
	assert.Equal(t, economy.Money(-1300), sim.Finance.Income(economy.ExpenditureWages))
}

func TestRosterHiresMissingStaff(t *testing.T) {
	sim := newTestSim(t)
	sim.Roster = Roster{Security: 2}
	sim.maintainRoster(1)
	sim.maintainRoster(2)
	staff := sim.Peeps.StaffMembers()
	require.Len(t, staff, 2)
	for _, p := range staff {
		assert.Equal(t, peep.StaffSecurity, p.Staff().Type)
	}
}

func TestInterventions(t *testing.T) {
	sim := newTestSim(t)

	ref, desc, err := sim.Hire(peep.StaffHandyman)
	require.NoError(t, err)
	assert.Equal(t, "Handyman 1 hired", desc)
	assert.Equal(t, PeepRef{Type: peep.TypeStaff, ID: 1}, ref)

	_, err = sim.PickUp(ref)
	require.NoError(t, err)
	_, err = sim.PickUp(ref)
	assert.ErrorIs(t, err, peep.ErrNotPickable)
	desc, err = sim.PutBack(ref)
	require.NoError(t, err)
	assert.Equal(t, "Handyman 1 was put back", desc)

	desc, err = sim.Rename(ref, "Norm")
	require.NoError(t, err)
	assert.Equal(t, "Handyman 1 is now called Norm", desc)

	_, err = sim.Patrol(ref.ID, world.TileCoord{X: 4, Y: 4}, true)
	require.NoError(t, err)

	desc, err = sim.Dismiss(ref.ID)
	require.NoError(t, err)
	assert.Equal(t, "Norm was fired", desc)
	_, err = sim.Dismiss(ref.ID)
	assert.ErrorIs(t, err, peep.ErrNoSuchPeep)

	_, err = sim.SetRideOpen(42, true)
	assert.ErrorIs(t, err, ErrNotFound)
	desc, err = sim.SetRideOpen(0, false)
	require.NoError(t, err)
	assert.Equal(t, "Merry-Go-Round has closed", desc)

	events := sim.RecentEvents(3)
	require.Len(t, events, 3)
	assert.Equal(t, "Merry-Go-Round has closed", events[2].Description)
}

func TestStateRestoresPark(t *testing.T) {
	sim := newTestSim(t)
	sim.Roster = Roster{Mechanics: 1}
	sim.generationProbability = 0x10000
	e := NewEngine()
	sim.Attach(e)
	e.Advance(40)
	sim.maintainRoster(e.Tick)

	var st ParkState
	var peeps []*peep.Peep
	require.NoError(t, sim.Do(func() error {
		st = sim.State()
		var err error
		sim.Peeps.Pool.Each(func(p *peep.Peep) {
			if err != nil {
				return
			}
			data, merr := p.MarshalBinary()
			if merr != nil {
				err = merr
				return
			}
			var back peep.Peep
			err = back.UnmarshalBinary(data)
			peeps = append(peeps, &back)
		})
		return err
	}))

	back, err := RestoreSimulation(st, peeps)
	require.NoError(t, err)
	assert.Equal(t, sim.SaveID, back.SaveID)
	assert.Equal(t, sim.CurrentTick(), back.CurrentTick())
	assert.Equal(t, sim.Peeps.Pool.Len(), back.Peeps.Pool.Len())
	assert.Equal(t, sim.Peeps.GuestsInPark, back.Peeps.GuestsInPark)
	assert.Equal(t, sim.Peeps.GuestsHeadingForPark, back.Peeps.GuestsHeadingForPark)
	assert.Equal(t, sim.Peeps.NextGuestNumber, back.Peeps.NextGuestNumber)
	assert.Len(t, back.Peeps.StaffMembers(), 1)
}

func TestEngineSpeed(t *testing.T) {
	e := NewEngine()
	assert.Equal(t, 1.0, e.Speed())
	e.SetSpeed(4)
	assert.Equal(t, 4.0, e.Speed())
	e.SetSpeed(-2)
	assert.Zero(t, e.Speed())
}
