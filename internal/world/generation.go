// Park generation using layered simplex noise.
// Lays out owned land, grass, gardens and scenery, a footpath loop with benches and
// bins, a spine to the park entrance, and the building plots rides are placed on.
package world

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds park generation parameters.
type GenConfig struct {
	Width        int     // Tiles along X (minimum 24)
	Height       int     // Tiles along Y (minimum 24)
	Seed         int64   // Random seed (0 = random)
	GardenLevel  float64 // Noise threshold above which a flower bed is planted (0.0–1.0)
	SceneryLevel float64 // Noise threshold above which scenery is placed (0.0–1.0)
	WaterLevel   float64 // Noise threshold below which unpathed land is a pond (0.0–1.0)
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:        48,
		Height:       48,
		Seed:         0,
		GardenLevel:  0.68,
		SceneryLevel: 0.62,
		WaterLevel:   0.18,
	}
}

// SmallTestConfig returns a tiny park for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Width:        24,
		Height:       24,
		Seed:         42,
		GardenLevel:  0.70,
		SceneryLevel: 0.65,
		WaterLevel:   0.10,
	}
}

// Plot is a building site beside the path loop. Rides and stalls are built
// outward from Path in direction Facing.
type Plot struct {
	Path   TileCoord `json:"path"`
	Facing Direction `json:"facing"`
}

// Perp is the direction along the loop used for a plot's exit column.
func (p Plot) Perp() Direction {
	return (p.Facing + 1) & 3
}

// At returns the tile depth steps out from the path, shifted one column along
// the loop when side is set.
func (p Plot) At(depth int, side bool) TileCoord {
	tc := p.Path
	if side {
		tc = tc.Step(p.Perp())
	}
	for i := 0; i < depth; i++ {
		tc = tc.Step(p.Facing)
	}
	return tc
}

// Layout describes the generated park's fixed features.
type Layout struct {
	Entrance TileCoord `json:"entrance"` // Park entrance tile
	Outside  TileCoord `json:"outside"`  // Off-park tile where arriving guests appear
	Plots    []Plot    `json:"plots"`
}

// plotDepth is how many tiles a plot reaches inward from the loop.
const plotDepth = 5

// Generate creates a park map and returns it with its layout.
func Generate(cfg GenConfig) (*Map, Layout) {
	if cfg.Width < 24 {
		cfg.Width = 24
	}
	if cfg.Height < 24 {
		cfg.Height = 24
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	grassNoise := opensimplex.NewNormalized(seed)
	gardenNoise := opensimplex.NewNormalized(seed + 1)
	sceneryNoise := opensimplex.NewNormalized(seed + 2)

	m := NewMap(cfg.Width, cfg.Height)
	rng := rand.New(rand.NewSource(seed + 100))

	// Everything but the approach strip belongs to the park.
	for y := 1; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			t := m.TileAt(TileCoord{X: x, Y: y})
			t.Owned = true
			g := octaveNoise(grassNoise, float64(x), float64(y), 3, 0.12, 0.5)
			t.GrassLength = uint8(g * 0xF0)
		}
	}

	x0, y0 := 2, 4
	x1, y1 := m.Width-3, m.Height-3

	// Path loop.
	for x := x0; x <= x1; x++ {
		m.AddPath(TileCoord{X: x, Y: y0}, NoRide)
		m.AddPath(TileCoord{X: x, Y: y1}, NoRide)
	}
	for y := y0 + 1; y < y1; y++ {
		m.AddPath(TileCoord{X: x0, Y: y}, NoRide)
		m.AddPath(TileCoord{X: x1, Y: y}, NoRide)
	}

	// Spine from the outside tile through the entrance to the loop.
	mid := m.Width / 2
	outside := TileCoord{X: mid, Y: 0}
	entrance := TileCoord{X: mid, Y: 1}
	for y := 0; y < y0; y++ {
		m.AddPath(TileCoord{X: mid, Y: y}, NoRide)
	}
	m.TileAt(entrance).Access = &Access{Kind: AccessParkEntrance, Ride: NoRide, Direction: DirNorth, Index: 0}

	layout := Layout{Entrance: entrance, Outside: outside}
	reserved := make(map[TileCoord]bool)

	// Plots face inward from the south and north edges of the loop.
	for x := x0 + 2; x+1 < x1-1; x += 4 {
		layout.Plots = append(layout.Plots, Plot{Path: TileCoord{X: x, Y: y0}, Facing: DirNorth})
	}
	if y1-y0 > 2*plotDepth+2 {
		for x := x0 + 2; x+1 < x1-1; x += 4 {
			// Mirror so the exit column still lies on the loop.
			layout.Plots = append(layout.Plots, Plot{Path: TileCoord{X: x + 1, Y: y1}, Facing: DirSouth})
		}
	}
	for _, p := range layout.Plots {
		reserved[p.Path] = true
		reserved[p.At(0, true)] = true
		for d := 1; d < plotDepth; d++ {
			reserved[p.At(d, false)] = true
			reserved[p.At(d, true)] = true
		}
	}

	// Benches and bins on plain loop tiles.
	n := 0
	for i := range m.Tiles {
		t := &m.Tiles[i]
		if t.Path == nil || t.Path.Queue || !t.Owned || reserved[t.Coord] || t.Access != nil {
			continue
		}
		n++
		switch {
		case n%7 == 0:
			t.Bench = true
		case n%5 == 0:
			t.Bin = &Bin{Capacity: 8}
		}
	}

	// Gardens, scenery and ponds in the open ground.
	for i := range m.Tiles {
		t := &m.Tiles[i]
		if !t.Owned || t.Path != nil || t.Access != nil || reserved[t.Coord] {
			continue
		}
		x, y := float64(t.Coord.X), float64(t.Coord.Y)
		inside := t.Coord.X > x0 && t.Coord.X < x1 && t.Coord.Y > y0 && t.Coord.Y < y1
		gv := octaveNoise(gardenNoise, x, y, 3, 0.15, 0.5)
		sv := octaveNoise(sceneryNoise, x, y, 2, 0.2, 0.5)
		switch {
		case !inside && gv < cfg.WaterLevel:
			t.Surface = SurfaceWater
			t.GrassLength = 0
		case gv > cfg.GardenLevel:
			t.Garden = &Garden{Water: uint8(rng.Intn(0x100))}
		case sv > cfg.SceneryLevel:
			t.Scenery = true
		}
	}

	return m, layout
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// SurfaceCounts returns a summary of ground type distribution over owned land.
func SurfaceCounts(m *Map) map[Surface]int {
	counts := make(map[Surface]int)
	for i := range m.Tiles {
		if m.Tiles[i].Owned {
			counts[m.Tiles[i].Surface]++
		}
	}
	return counts
}

// SurfaceName returns a human-readable name for a surface type.
func SurfaceName(s Surface) string {
	switch s {
	case SurfaceGrass:
		return "Grass"
	case SurfaceDirt:
		return "Dirt"
	case SurfaceWater:
		return "Water"
	default:
		return "Unknown"
	}
}
