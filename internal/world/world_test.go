package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func straightPath(m *Map, y, fromX, toX int) {
	for x := fromX; x <= toX; x++ {
		m.AddPath(TileCoord{X: x, Y: y}, NoRide)
	}
}

func TestCoordsTileRoundTrip(t *testing.T) {
	tc := TileCoord{X: 3, Y: 7}
	assert.Equal(t, tc, tc.Center().Tile())
	assert.Equal(t, TileCoord{X: -1, Y: 0}, Coords{X: -1, Y: 5}.Tile())
	assert.True(t, CoordsXYZ{X: LocationNull}.IsNull())
}

func TestDirectionReverse(t *testing.T) {
	for d := Direction(0); d < NumDirections; d++ {
		assert.Equal(t, d, d.Reverse().Reverse())
		back := TileCoord{}.Step(d).Step(d.Reverse())
		assert.Equal(t, TileCoord{}, back)
	}
}

func TestAddPathConnectsNeighbours(t *testing.T) {
	m := NewMap(8, 8)
	straightPath(m, 2, 1, 4)

	assert.True(t, m.CanStep(TileCoord{X: 1, Y: 2}, DirEast))
	assert.True(t, m.CanStep(TileCoord{X: 2, Y: 2}, DirWest))
	assert.False(t, m.CanStep(TileCoord{X: 4, Y: 2}, DirEast))
	assert.False(t, m.CanStep(TileCoord{X: 2, Y: 2}, DirNorth))
	assert.Equal(t, 2, m.TileAt(TileCoord{X: 2, Y: 2}).Path.EdgeCount())
}

func TestQueuesOnlyJoinTheirRide(t *testing.T) {
	m := NewMap(8, 8)
	straightPath(m, 1, 1, 4)
	m.AddPath(TileCoord{X: 2, Y: 2}, 3)
	m.AddPath(TileCoord{X: 3, Y: 2}, 4)
	m.AddPath(TileCoord{X: 3, Y: 3}, 4)

	assert.True(t, m.CanStep(TileCoord{X: 2, Y: 1}, DirNorth))
	assert.False(t, m.CanStep(TileCoord{X: 2, Y: 2}, DirEast))
	assert.True(t, m.CanStep(TileCoord{X: 3, Y: 2}, DirNorth))

	_, ok := m.NextDirection(TileCoord{X: 1, Y: 1}, TileCoord{X: 3, Y: 3}, NoRide)
	assert.False(t, ok)
	d, ok := m.NextDirection(TileCoord{X: 1, Y: 1}, TileCoord{X: 3, Y: 3}, 4)
	require.True(t, ok)
	assert.Equal(t, DirEast, d)
}

func TestNextDirectionFollowsPath(t *testing.T) {
	m := NewMap(10, 10)
	straightPath(m, 1, 1, 5)
	for y := 2; y <= 5; y++ {
		m.AddPath(TileCoord{X: 5, Y: y}, NoRide)
	}

	d, ok := m.NextDirection(TileCoord{X: 1, Y: 1}, TileCoord{X: 5, Y: 5}, NoRide)
	require.True(t, ok)
	assert.Equal(t, DirEast, d)

	d, ok = m.NextDirection(TileCoord{X: 5, Y: 5}, TileCoord{X: 1, Y: 1}, NoRide)
	require.True(t, ok)
	assert.Equal(t, DirSouth, d)

	m.RemovePath(TileCoord{X: 5, Y: 3})
	_, ok = m.NextDirection(TileCoord{X: 1, Y: 1}, TileCoord{X: 5, Y: 5}, NoRide)
	assert.False(t, ok)
}

func TestNextDirectionReachesAccess(t *testing.T) {
	m := NewMap(8, 8)
	straightPath(m, 1, 1, 4)
	m.PlaceAccess(TileCoord{X: 3, Y: 2}, Access{Kind: AccessShop, Ride: 0, Direction: DirSouth})

	d, ok := m.NextDirection(TileCoord{X: 1, Y: 1}, TileCoord{X: 3, Y: 2}, NoRide)
	require.True(t, ok)
	assert.Equal(t, DirEast, d)
	d, ok = m.NextDirection(TileCoord{X: 3, Y: 1}, TileCoord{X: 3, Y: 2}, NoRide)
	require.True(t, ok)
	assert.Equal(t, DirNorth, d)

	// The shop counter is a destination, not a thoroughfare.
	m.AddPath(TileCoord{X: 3, Y: 3}, NoRide)
	_, ok = m.NextDirection(TileCoord{X: 1, Y: 1}, TileCoord{X: 3, Y: 3}, NoRide)
	assert.False(t, ok)
}

func TestLitterIsCapped(t *testing.T) {
	m := NewMap(4, 4)
	tc := TileCoord{X: 1, Y: 1}
	m.AddLitter(tc, 40)
	m.AddVomit(tc)
	assert.Equal(t, MaxLitter+1, m.LitterAt(tc))
	assert.Equal(t, MaxLitter+1, m.SweepLitter(tc))
	assert.Zero(t, m.LitterAt(tc))
}

func TestDailyUpdateGrowsGrassAndDriesGardens(t *testing.T) {
	m := NewMap(4, 4)
	grass := m.TileAt(TileCoord{X: 0, Y: 0})
	bed := m.TileAt(TileCoord{X: 1, Y: 0})
	bed.Garden = &Garden{Water: 0x18}

	m.DailyUpdate()
	assert.Equal(t, uint8(0x10), grass.GrassLength)
	assert.Equal(t, uint8(0x08), bed.Garden.Water)
	assert.True(t, bed.Garden.NeedsWater())

	m.Water(bed.Coord)
	assert.False(t, bed.Garden.NeedsWater())
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := SmallTestConfig()
	a, la := Generate(cfg)
	b, lb := Generate(cfg)

	assert.Equal(t, la, lb)
	require.Equal(t, len(a.Tiles), len(b.Tiles))
	for i := range a.Tiles {
		assert.Equal(t, a.Tiles[i].GrassLength, b.Tiles[i].GrassLength)
		assert.Equal(t, a.Tiles[i].Scenery, b.Tiles[i].Scenery)
	}
}

func TestGeneratedParkIsConnected(t *testing.T) {
	m, layout := Generate(SmallTestConfig())

	require.NotEmpty(t, layout.Plots)
	assert.False(t, m.IsOwned(layout.Outside))
	assert.True(t, m.IsOwned(layout.Entrance))
	assert.Equal(t, []TileCoord{layout.Entrance}, m.ParkEntrances())

	for _, p := range layout.Plots {
		assert.True(t, m.HasPath(p.Path))
		assert.True(t, m.HasPath(p.At(0, true)), "exit column must lie on the loop")
		_, ok := m.NextDirection(layout.Outside, p.Path, NoRide)
		assert.True(t, ok, "plot at %v unreachable", p.Path)
	}
}

func TestNearestPath(t *testing.T) {
	m := NewMap(8, 8)
	m.AddPath(TileCoord{X: 5, Y: 5}, NoRide)
	tc, ok := m.NearestPath(TileCoord{X: 3, Y: 5}, 3)
	require.True(t, ok)
	assert.Equal(t, TileCoord{X: 5, Y: 5}, tc)

	_, ok = m.NearestPath(TileCoord{X: 0, Y: 0}, 2)
	assert.False(t, ok)
}
