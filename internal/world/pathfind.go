package world

// maxSearchNodes bounds a single pathing query so a tick stays cheap on big parks.
const maxSearchNodes = 4096

// NextDirection is the pathing oracle: it returns the first step of the shortest
// walk over connected footpaths from one tile to another. Queue tiles are only
// entered when they belong to queueRide (pass NoRide to avoid all queues).
// Neighbours are expanded in Direction order so equal-length routes always
// resolve the same way.
func (m *Map) NextDirection(from, goal TileCoord, queueRide RideIndex) (Direction, bool) {
	if from == goal || !m.InBounds(from) || !m.InBounds(goal) {
		return 0, false
	}

	type node struct {
		tile  TileCoord
		first Direction
	}

	visited := make(map[TileCoord]bool, 64)
	visited[from] = true
	queue := []node{}
	for d := Direction(0); d < NumDirections; d++ {
		next := from.Step(d)
		if !m.CanStep(from, d) || !m.enterable(next, goal, queueRide) {
			continue
		}
		if next == goal {
			return d, true
		}
		visited[next] = true
		queue = append(queue, node{tile: next, first: d})
	}

	for len(queue) > 0 && len(visited) < maxSearchNodes {
		cur := queue[0]
		queue = queue[1:]
		for d := Direction(0); d < NumDirections; d++ {
			next := cur.tile.Step(d)
			if visited[next] || !m.CanStep(cur.tile, d) || !m.enterable(next, goal, queueRide) {
				continue
			}
			if next == goal {
				return cur.first, true
			}
			visited[next] = true
			queue = append(queue, node{tile: next, first: cur.first})
		}
	}
	return 0, false
}

func (m *Map) enterable(tc, goal TileCoord, queueRide RideIndex) bool {
	if tc == goal {
		return true
	}
	t := m.TileAt(tc)
	if t == nil {
		return false
	}
	if t.Path == nil {
		return false
	}
	if t.Path.Queue && t.Path.QueueRide != queueRide {
		return false
	}
	return true
}

// NearestPath finds the closest tile carrying a footpath within radius tiles,
// ignoring connectivity. Used to recover peeps stranded off the path network.
func (m *Map) NearestPath(from TileCoord, radius int) (TileCoord, bool) {
	best := TileCoord{}
	bestDist := -1
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			tc := TileCoord{X: from.X + dx, Y: from.Y + dy}
			t := m.TileAt(tc)
			if t == nil || t.Path == nil || t.Path.Queue {
				continue
			}
			dist := abs(dx) + abs(dy)
			if bestDist < 0 || dist < bestDist {
				best = tc
				bestDist = dist
			}
		}
	}
	return best, bestDist >= 0
}

// ParkEntrances returns the tiles holding park entrances, in index order.
func (m *Map) ParkEntrances() []TileCoord {
	var out []TileCoord
	for i := range m.Tiles {
		t := &m.Tiles[i]
		if t.Access != nil && t.Access.Kind == AccessParkEntrance {
			out = append(out, t.Coord)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && m.TileAt(out[j]).Access.Index < m.TileAt(out[j-1]).Access.Index; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
