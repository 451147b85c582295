package world

import "fmt"

// RideIndex identifies a ride slot. The ride registry owns the rides themselves.
type RideIndex uint16

// NoRide is the null ride index.
const NoRide RideIndex = 0xFFFF

// Surface is the ground type of a tile.
type Surface uint8

const (
	SurfaceGrass Surface = iota
	SurfaceDirt
	SurfaceWater
)

// GrassMowThreshold is the grass length at which handymen will mow a tile.
const GrassMowThreshold = 0x40

// GardenDryThreshold is the water level below which a garden needs watering.
const GardenDryThreshold = 0x20

// MaxLitter caps the litter count kept per tile.
const MaxLitter = 15

// Footpath is a walkable path element on a tile.
type Footpath struct {
	Edges     uint8     `json:"edges"` // Bit per Direction
	Queue     bool      `json:"queue"`
	QueueRide RideIndex `json:"queue_ride"`
	Sloped    bool      `json:"sloped"`
	Wide      bool      `json:"wide"`
}

// HasEdge reports whether the path connects in direction d.
func (f *Footpath) HasEdge(d Direction) bool {
	return f.Edges&d.Bit() != 0
}

// EdgeCount returns the number of connected edges.
func (f *Footpath) EdgeCount() int {
	n := 0
	for d := Direction(0); d < NumDirections; d++ {
		if f.HasEdge(d) {
			n++
		}
	}
	return n
}

// AccessKind enumerates things a peep can walk into from a path.
type AccessKind uint8

const (
	AccessRideEntrance AccessKind = iota
	AccessRideExit
	AccessParkEntrance
	AccessShop
)

// Access is a ride entrance/exit, shop counter, or park entrance on a tile.
// Direction points from the access tile to the path it opens onto.
type Access struct {
	Kind      AccessKind `json:"kind"`
	Ride      RideIndex  `json:"ride"`
	Station   uint8      `json:"station"`
	Direction Direction  `json:"direction"`
	Index     uint8      `json:"index"` // Park entrance number
}

// Bin is a litter bin path addition.
type Bin struct {
	Capacity uint8 `json:"capacity"`
	Fill     uint8 `json:"fill"`
}

// Full reports whether the bin accepts no more litter.
func (b *Bin) Full() bool {
	return b.Fill >= b.Capacity
}

// Garden is a flower bed that handymen water.
type Garden struct {
	Water uint8 `json:"water"`
}

// NeedsWater reports whether the bed is dry.
func (g *Garden) NeedsWater() bool {
	return g.Water < GardenDryThreshold
}

// Tile is a single map cell.
type Tile struct {
	Coord       TileCoord `json:"coord"`
	Height      int       `json:"height"`
	Surface     Surface   `json:"surface"`
	GrassLength uint8     `json:"grass_length"`
	Owned       bool      `json:"owned"`

	Path   *Footpath `json:"path,omitempty"`
	Access *Access   `json:"access,omitempty"`
	Bin    *Bin      `json:"bin,omitempty"`
	Garden *Garden   `json:"garden,omitempty"`
	Bench  bool      `json:"bench"`

	Scenery    bool  `json:"scenery"`
	Vandalized bool  `json:"vandalized"`
	Litter     uint8 `json:"litter"`
	Vomit      uint8 `json:"vomit"`

	// Ride is the ride whose track or station occupies this tile.
	Ride RideIndex `json:"ride"`
}

// Walkable reports whether peeps can stand on the tile.
func (t *Tile) Walkable() bool {
	return t.Path != nil || t.Access != nil
}

// Map holds the complete park tile grid.
type Map struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Tiles  []Tile `json:"-"`
}

// NewMap creates an unowned grass map.
func NewMap(width, height int) *Map {
	m := &Map{
		Width:  width,
		Height: height,
		Tiles:  make([]Tile, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.Tiles[y*width+x] = Tile{
				Coord: TileCoord{X: x, Y: y},
				Ride:  NoRide,
			}
		}
	}
	return m
}

// InBounds reports whether the coordinate lies on the map.
func (m *Map) InBounds(tc TileCoord) bool {
	return tc.X >= 0 && tc.Y >= 0 && tc.X < m.Width && tc.Y < m.Height
}

// TileAt returns the tile, or nil if out of bounds.
func (m *Map) TileAt(tc TileCoord) *Tile {
	if !m.InBounds(tc) {
		return nil
	}
	return &m.Tiles[tc.Y*m.Width+tc.X]
}

// HasPath reports whether the tile carries a footpath.
func (m *Map) HasPath(tc TileCoord) bool {
	t := m.TileAt(tc)
	return t != nil && t.Path != nil
}

// IsOwned reports whether the tile belongs to the park.
func (m *Map) IsOwned(tc TileCoord) bool {
	t := m.TileAt(tc)
	return t != nil && t.Owned
}

// SurfaceHeight returns the ground height of the tile in world units.
func (m *Map) SurfaceHeight(tc TileCoord) int {
	t := m.TileAt(tc)
	if t == nil {
		return 0
	}
	return t.Height
}

// CanStep reports whether a peep standing on from may walk to the neighbour in d.
func (m *Map) CanStep(from TileCoord, d Direction) bool {
	a := m.TileAt(from)
	b := m.TileAt(from.Step(d))
	if a == nil || b == nil {
		return false
	}
	switch {
	case a.Path != nil:
		if !a.Path.HasEdge(d) {
			return false
		}
	case a.Access != nil:
		if a.Access.Direction != d {
			return false
		}
	default:
		return false
	}
	switch {
	case b.Path != nil:
		return b.Path.HasEdge(d.Reverse())
	case b.Access != nil:
		return b.Access.Direction == d.Reverse()
	}
	return false
}

// PathDirections returns a bitmask of the directions a peep can walk from tc.
func (m *Map) PathDirections(tc TileCoord) uint8 {
	var mask uint8
	for d := Direction(0); d < NumDirections; d++ {
		if m.CanStep(tc, d) {
			mask |= d.Bit()
		}
	}
	return mask
}

// AddPath lays a footpath and connects it to neighbouring paths of the same kind.
// Queue tiles only join other queue tiles of the same ride, plus one ordinary path.
func (m *Map) AddPath(tc TileCoord, queueRide RideIndex) *Footpath {
	t := m.TileAt(tc)
	if t == nil {
		return nil
	}
	fp := &Footpath{Queue: queueRide != NoRide, QueueRide: queueRide}
	t.Path = fp
	for d := Direction(0); d < NumDirections; d++ {
		n := m.TileAt(tc.Step(d))
		if n == nil || n.Path == nil {
			continue
		}
		if fp.Queue && n.Path.Queue && n.Path.QueueRide != queueRide {
			continue
		}
		if !fp.Queue && n.Path.Queue {
			continue
		}
		m.Connect(tc, d)
	}
	return fp
}

// Connect joins the edge between tc and its neighbour in d on both sides.
func (m *Map) Connect(tc TileCoord, d Direction) {
	a := m.TileAt(tc)
	b := m.TileAt(tc.Step(d))
	if a == nil || b == nil {
		return
	}
	if a.Path != nil {
		a.Path.Edges |= d.Bit()
	}
	if b.Path != nil {
		b.Path.Edges |= d.Reverse().Bit()
	}
}

// RemovePath demolishes the footpath on a tile and unhooks its neighbours.
func (m *Map) RemovePath(tc TileCoord) {
	t := m.TileAt(tc)
	if t == nil || t.Path == nil {
		return
	}
	t.Path = nil
	t.Bin = nil
	t.Bench = false
	for d := Direction(0); d < NumDirections; d++ {
		if n := m.TileAt(tc.Step(d)); n != nil && n.Path != nil {
			n.Path.Edges &^= d.Reverse().Bit()
		}
	}
}

// PlaceAccess puts an entrance, exit, or shop counter on a tile facing dir and
// connects the path tile it opens onto.
func (m *Map) PlaceAccess(tc TileCoord, a Access) {
	t := m.TileAt(tc)
	if t == nil {
		return
	}
	acc := a
	t.Access = &acc
	if n := m.TileAt(tc.Step(a.Direction)); n != nil && n.Path != nil {
		n.Path.Edges |= a.Direction.Reverse().Bit()
	}
}

// AddLitter drops litter on a tile.
func (m *Map) AddLitter(tc TileCoord, n int) {
	t := m.TileAt(tc)
	if t == nil {
		return
	}
	v := int(t.Litter) + n
	if v > MaxLitter {
		v = MaxLitter
	}
	t.Litter = uint8(v)
}

// AddVomit leaves sick on a tile.
func (m *Map) AddVomit(tc TileCoord) {
	t := m.TileAt(tc)
	if t == nil || t.Vomit >= MaxLitter {
		return
	}
	t.Vomit++
}

// LitterAt returns how much litter and vomit a tile holds.
func (m *Map) LitterAt(tc TileCoord) int {
	t := m.TileAt(tc)
	if t == nil {
		return 0
	}
	return int(t.Litter) + int(t.Vomit)
}

// SweepLitter clears a tile and returns how many items were removed.
func (m *Map) SweepLitter(tc TileCoord) int {
	t := m.TileAt(tc)
	if t == nil {
		return 0
	}
	n := int(t.Litter) + int(t.Vomit)
	t.Litter = 0
	t.Vomit = 0
	return n
}

// Mow cuts the grass on a tile.
func (m *Map) Mow(tc TileCoord) {
	if t := m.TileAt(tc); t != nil {
		t.GrassLength = 0
	}
}

// Water fills the garden on a tile.
func (m *Map) Water(tc TileCoord) {
	if t := m.TileAt(tc); t != nil && t.Garden != nil {
		t.Garden.Water = 0xFF
	}
}

// EmptyBin empties the bin on a tile, returning the amount removed.
func (m *Map) EmptyBin(tc TileCoord) int {
	t := m.TileAt(tc)
	if t == nil || t.Bin == nil {
		return 0
	}
	n := int(t.Bin.Fill)
	t.Bin.Fill = 0
	return n
}

// DailyUpdate grows grass and dries gardens.
func (m *Map) DailyUpdate() {
	for i := range m.Tiles {
		t := &m.Tiles[i]
		if t.Surface == SurfaceGrass && t.Path == nil && t.Ride == NoRide && t.GrassLength < 0xF0 {
			t.GrassLength += 0x10
		}
		if t.Garden != nil && t.Garden.Water > 0 {
			if t.Garden.Water < 0x10 {
				t.Garden.Water = 0
			} else {
				t.Garden.Water -= 0x10
			}
		}
	}
}

// String returns a summary of the map.
func (m *Map) String() string {
	paths := 0
	for i := range m.Tiles {
		if m.Tiles[i].Path != nil {
			paths++
		}
	}
	return fmt.Sprintf("Map(%dx%d, paths=%d)", m.Width, m.Height, paths)
}
