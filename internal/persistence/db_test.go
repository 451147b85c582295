package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/park-peeps/internal/engine"
	"github.com/talgya/park-peeps/internal/peep"
	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "park.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func runningPark(t *testing.T) *engine.Simulation {
	t.Helper()
	m, layout := world.Generate(world.SmallTestConfig())
	rides := ride.NewRegistry()
	r, err := rides.Build(m, layout.Plots[0], ride.DefaultDefinition(ride.TypeMerryGoRound))
	require.NoError(t, err)
	r.Open()
	sim := engine.NewSimulation(m, layout, rides, engine.Config{
		Park:      peep.DefaultParkSettings(),
		Capacity:  64,
		Seed:      11,
		StartCash: 20000,
		Roster:    engine.Roster{Handymen: 1, Mechanics: 1},
	})
	e := engine.NewEngine()
	sim.Attach(e)
	e.Advance(engine.TicksPerParkDay + 40)
	return sim
}

func TestMetaRoundTrip(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.SaveMeta("last_tick", "42"))
	require.NoError(t, db.SaveMeta("last_tick", "43"))
	v, err := db.GetMeta("last_tick")
	require.NoError(t, err)
	assert.Equal(t, "43", v)

	_, err = db.GetMeta("missing")
	assert.Error(t, err)
}

func TestLoadWorldWithoutSave(t *testing.T) {
	db := openTestDB(t)
	assert.False(t, db.HasWorldState())
	_, err := db.LoadWorld()
	assert.ErrorIs(t, err, ErrNoSave)
}

func TestSaveAndLoadPark(t *testing.T) {
	db := openTestDB(t)
	sim := runningPark(t)
	_, err := sim.Patrol(1, world.TileCoord{X: 5, Y: 5}, true)
	require.NoError(t, err)
	_, err = sim.Rename(engine.PeepRef{Type: peep.TypeStaff, ID: 2}, "Wrench")
	require.NoError(t, err)

	require.NoError(t, db.SaveWorldState(sim))
	assert.True(t, db.HasWorldState())

	back, err := db.LoadWorld()
	require.NoError(t, err)

	assert.Equal(t, sim.SaveID, back.SaveID)
	assert.Equal(t, sim.CurrentTick(), back.CurrentTick())
	assert.Equal(t, sim.Finance.Cash, back.Finance.Cash)
	assert.Equal(t, *sim.Climate, *back.Climate)
	assert.Equal(t, sim.Layout, back.Layout)
	assert.Equal(t, sim.Roster, back.Roster)
	assert.Equal(t, sim.Map.Width, back.Map.Width)
	assert.Equal(t, sim.Map.Tiles, back.Map.Tiles)
	assert.Equal(t, sim.Rides.Count(), back.Rides.Count())
	assert.Equal(t, sim.Rides.Get(0).Name, back.Rides.Get(0).Name)
	assert.Equal(t, sim.Peeps.Pool.Len(), back.Peeps.Pool.Len())
	assert.Equal(t, sim.Peeps.GuestsInPark, back.Peeps.GuestsInPark)
	assert.Equal(t, sim.Peeps.NextStaffNumber, back.Peeps.NextStaffNumber)
	assert.Equal(t, sim.Peeps.Patrols, back.Peeps.Patrols)
	assert.Equal(t, sim.RNG.Next(), back.RNG.Next())

	mech, err := back.Peeps.FindByID(peep.TypeStaff, 2)
	require.NoError(t, err)
	assert.Equal(t, "Wrench", mech.Name)

	assert.Equal(t, sim.RecentEvents(10), back.RecentEvents(10))
}

func TestSaveAppendsOnlyNewEvents(t *testing.T) {
	db := openTestDB(t)
	sim := runningPark(t)

	require.NoError(t, db.SaveWorldState(sim))
	first, err := db.RecentEvents(100)
	require.NoError(t, err)

	require.NoError(t, db.SaveWorldState(sim))
	again, err := db.RecentEvents(100)
	require.NoError(t, err)
	assert.Len(t, again, len(first))

	sim.CelebrateRide()
	require.NoError(t, db.SaveWorldState(sim))
	after, err := db.RecentEvents(100)
	require.NoError(t, err)
	require.Len(t, after, len(first)+1)
	assert.Equal(t, "The crowd bursts into applause", after[0].Description)
}
