// Package world provides the park tile grid, footpaths, and the pathing oracle.
// Positions are held in world units; a tile is TileSize units square.
package world

// TileSize is the number of world units along one tile edge.
const TileSize = 32

// LocationNull marks an X coordinate that is not in the world (a picked-up peep).
const LocationNull = -32768

// TileCoord addresses a tile on the grid.
type TileCoord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Coords is a position in world units.
type Coords struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CoordsXYZ is a position in world units including height.
type CoordsXYZ struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Direction is one of the four tile-adjacent directions.
type Direction uint8

const (
	DirWest  Direction = iota // -X
	DirNorth                  // +Y
	DirEast                   // +X
	DirSouth                  // -Y
)

// NumDirections is the count of tile-adjacent directions.
const NumDirections = 4

// DirectionDelta holds the tile offset for each direction.
var DirectionDelta = [NumDirections]TileCoord{
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 1, Y: 0},
	{X: 0, Y: -1},
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	return (d + 2) & 3
}

// Bit returns the direction as a single-bit mask.
func (d Direction) Bit() uint8 {
	return 1 << (d & 3)
}

func (d Direction) String() string {
	switch d & 3 {
	case DirWest:
		return "west"
	case DirNorth:
		return "north"
	case DirEast:
		return "east"
	default:
		return "south"
	}
}

// Step returns the neighbouring tile in direction d.
func (t TileCoord) Step(d Direction) TileCoord {
	delta := DirectionDelta[d&3]
	return TileCoord{X: t.X + delta.X, Y: t.Y + delta.Y}
}

// Center returns the world position at the middle of the tile.
func (t TileCoord) Center() Coords {
	return Coords{X: t.X*TileSize + TileSize/2, Y: t.Y*TileSize + TileSize/2}
}

// Origin returns the world position of the tile's low corner.
func (t TileCoord) Origin() Coords {
	return Coords{X: t.X * TileSize, Y: t.Y * TileSize}
}

// Add offsets a position.
func (c Coords) Add(o Coords) Coords {
	return Coords{X: c.X + o.X, Y: c.Y + o.Y}
}

// Tile returns the tile containing the position.
func (c Coords) Tile() TileCoord {
	return TileCoord{X: floorDiv(c.X, TileSize), Y: floorDiv(c.Y, TileSize)}
}

// Tile returns the tile containing the position.
func (c CoordsXYZ) Tile() TileCoord {
	return Coords{X: c.X, Y: c.Y}.Tile()
}

// XY drops the height component.
func (c CoordsXYZ) XY() Coords {
	return Coords{X: c.X, Y: c.Y}
}

// IsNull reports whether the position is outside the world.
func (c CoordsXYZ) IsNull() bool {
	return c.X == LocationNull
}

// Distance returns the tile Manhattan distance between two tiles.
func Distance(a, b TileCoord) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// DirectionTowards returns the direction whose axis dominates the offset from a to b.
func DirectionTowards(a, b Coords) Direction {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if abs(dx) >= abs(dy) {
		if dx < 0 {
			return DirWest
		}
		return DirEast
	}
	if dy < 0 {
		return DirSouth
	}
	return DirNorth
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
