package peep

import (
	"encoding/binary"
	"fmt"

	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

// Patrol areas are kept as a bitmap of 4×4-tile cells.
const (
	patrolCellSize = 4
	patrolGridSize = 64 // Cells per side, enough for a 256-tile map
)

// PatrolArea is the set of cells a staff member keeps to. An empty area means
// the whole park.
type PatrolArea [patrolGridSize * patrolGridSize / 64]uint64

func patrolCell(tc world.TileCoord) (int, bool) {
	if tc.X < 0 || tc.Y < 0 {
		return 0, false
	}
	cx, cy := tc.X/patrolCellSize, tc.Y/patrolCellSize
	if cx >= patrolGridSize || cy >= patrolGridSize {
		return 0, false
	}
	return cy*patrolGridSize + cx, true
}

// Has reports whether the cell holding tc is in the area.
func (a *PatrolArea) Has(tc world.TileCoord) bool {
	i, ok := patrolCell(tc)
	return ok && a[i/64]&(1<<(i%64)) != 0
}

// Set adds or removes the cell holding tc.
func (a *PatrolArea) Set(tc world.TileCoord, on bool) {
	i, ok := patrolCell(tc)
	if !ok {
		return
	}
	if on {
		a[i/64] |= 1 << (i % 64)
	} else {
		a[i/64] &^= 1 << (i % 64)
	}
}

// Empty reports whether no cell is set.
func (a *PatrolArea) Empty() bool {
	for _, w := range a {
		if w != 0 {
			return false
		}
	}
	return true
}

// MarshalBinary packs the area bitmap little-endian.
func (a *PatrolArea) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, len(a)*8)
	for _, w := range a {
		out = binary.LittleEndian.AppendUint64(out, w)
	}
	return out, nil
}

// UnmarshalBinary restores an area packed by MarshalBinary.
func (a *PatrolArea) UnmarshalBinary(data []byte) error {
	if len(data) != len(a)*8 {
		return fmt.Errorf("patrol area: %d bytes: %w", len(data), ErrBadRecord)
	}
	for i := range a {
		a[i] = binary.LittleEndian.Uint64(data[i*8:])
	}
	return nil
}

// patrolArea returns the area for a staff member, nil if none was ever set.
func (w *World) patrolArea(s *StaffRole) *PatrolArea {
	if int(s.StaffID) >= len(w.Patrols) {
		return nil
	}
	return &w.Patrols[s.StaffID]
}

// SetPatrolArea adds or removes the 4×4 cell holding tc from a staff member's
// patrol.
func (w *World) SetPatrolArea(p *Peep, tc world.TileCoord, on bool) error {
	s := p.Staff()
	if s == nil {
		return ErrNotStaff
	}
	for int(s.StaffID) >= len(w.Patrols) {
		w.Patrols = append(w.Patrols, PatrolArea{})
	}
	w.Patrols[s.StaffID].Set(tc, on)
	p.WindowInvalidate |= InvalidateStaff
	return nil
}

// InPatrolArea reports whether a tile is somewhere the staff member works.
func (w *World) InPatrolArea(s *StaffRole, tc world.TileCoord) bool {
	if !w.Map.IsOwned(tc) {
		return false
	}
	a := w.patrolArea(s)
	if a == nil || a.Empty() {
		return true
	}
	return a.Has(tc)
}

// staffPathFinding picks the next tile for staff. Mechanics on a call head for
// the ride; everyone else patrols, handymen steering toward litter and long
// grass. It returns true when no new destination was set.
func (p *Peep) staffPathFinding(w *World, s *StaffRole) bool {
	here := p.Tile()

	if s.Type == StaffMechanic && (p.State == StateAnswering || p.State == StateHeadingToInspection) {
		return p.mechanicPathToRide(w, s, here)
	}

	if p.NextSurface {
		d, ok := p.handymanDirectionRandSurface(w, s, here)
		if !ok {
			return true
		}
		p.walkTowards(here, d)
		return false
	}

	valid := w.staffPathDirections(s, here)
	if s.Type == StaffHandyman && p.State == StatePatrolling {
		if s.Orders&OrderSweeping != 0 {
			if d, ok := w.handymanDirectionToLitter(s, here, valid); ok {
				p.walkTowards(here, d)
				return false
			}
		}
		if s.Orders&OrderMowing != 0 && s.MowingTimeout >= mowingTimeoutReady {
			if d, ok := w.handymanDirectionToUncutGrass(s, here); ok {
				p.walkTowards(here, d)
				return false
			}
		}
	}

	d, ok := p.staffDirectionPath(w, valid)
	if !ok {
		return true
	}
	p.walkTowards(here, d)
	return false
}

// mechanicPathToRide steps toward the entrance of a broken ride, or the exit of
// one being inspected.
func (p *Peep) mechanicPathToRide(w *World, s *StaffRole, here world.TileCoord) bool {
	r := w.Rides.Get(s.CurrentRide)
	if r == nil || len(r.Stations) == 0 {
		return true
	}
	st := r.Stations[s.CurrentRideStation%uint8(len(r.Stations))]
	goal, queueRide := st.Entrance, r.ID
	if p.State == StateHeadingToInspection {
		goal, queueRide = st.Exit, ride.NoRide
	}
	p.PathfindGoal = PathNode{Tile: goal, Direction: 0xFF}
	d, ok := w.Map.NextDirection(here, goal, queueRide)
	if !ok {
		return p.staffWander(w, s, here)
	}
	p.walkTowards(here, d)
	return false
}

func (p *Peep) staffWander(w *World, s *StaffRole, here world.TileCoord) bool {
	d, ok := p.staffDirectionPath(w, w.staffPathDirections(s, here))
	if !ok {
		return true
	}
	p.walkTowards(here, d)
	return false
}

// staffPathDirections returns the path directions from here that stay inside
// the patrol area. Staff outside their area may take any path back.
func (w *World) staffPathDirections(s *StaffRole, here world.TileCoord) uint8 {
	var all, inside uint8
	for d := world.Direction(0); d < world.NumDirections; d++ {
		if !w.Map.CanStep(here, d) {
			continue
		}
		next := here.Step(d)
		if t := w.Map.TileAt(next); t.Path == nil {
			continue
		}
		all |= d.Bit()
		if w.InPatrolArea(s, next) {
			inside |= d.Bit()
		}
	}
	if inside == 0 {
		return all
	}
	return inside
}

// staffDirectionPath picks a random direction from the mask, turning back only
// at a dead end. The bool is false when the mask is empty.
func (p *Peep) staffDirectionPath(w *World, valid uint8) (world.Direction, bool) {
	if valid == 0 {
		return 0, false
	}
	back := p.NextDirection.Reverse()
	if valid&^back.Bit() != 0 {
		valid &^= back.Bit()
	}
	d := world.Direction(w.RNG.Next() & 3)
	for i := 0; i < int(world.NumDirections); i++ {
		if valid&d.Bit() != 0 {
			return d, true
		}
		d = (d + 1) & 3
	}
	return 0, false
}

// handymanDirectionToLitter returns the first step toward the nearest
// littered path tile in the patrol, if one is close and reachable.
func (w *World) handymanDirectionToLitter(s *StaffRole, here world.TileCoord, valid uint8) (world.Direction, bool) {
	best := world.TileCoord{}
	bestDist := -1
	for dy := -litterSearchRadius; dy <= litterSearchRadius; dy++ {
		for dx := -litterSearchRadius; dx <= litterSearchRadius; dx++ {
			tc := world.TileCoord{X: here.X + dx, Y: here.Y + dy}
			if tc == here {
				continue
			}
			t := w.Map.TileAt(tc)
			if t == nil || t.Path == nil || t.Litter+t.Vomit == 0 || !w.InPatrolArea(s, tc) {
				continue
			}
			if d := world.Distance(here, tc); bestDist < 0 || d < bestDist {
				best, bestDist = tc, d
			}
		}
	}
	if bestDist < 0 {
		return 0, false
	}
	d, ok := w.Map.NextDirection(here, best, ride.NoRide)
	if !ok || valid&d.Bit() == 0 {
		return 0, false
	}
	return d, true
}

// mowable reports whether a handyman may walk onto a tile off the path.
func mowable(t *world.Tile) bool {
	return t != nil && t.Owned && t.Path == nil && t.Access == nil && t.Ride == world.NoRide &&
		!t.Scenery && t.Garden == nil && t.Surface != world.SurfaceWater
}

// handymanDirectionToUncutGrass returns a direction off the path onto long
// grass beside it.
func (w *World) handymanDirectionToUncutGrass(s *StaffRole, here world.TileCoord) (world.Direction, bool) {
	start := world.Direction(w.RNG.Next() & 3)
	for i := world.Direction(0); i < world.NumDirections; i++ {
		d := (start + i) & 3
		tc := here.Step(d)
		t := w.Map.TileAt(tc)
		if !mowable(t) || t.Surface != world.SurfaceGrass || t.GrassLength < world.GrassMowThreshold {
			continue
		}
		if w.InPatrolArea(s, tc) {
			return d, true
		}
	}
	return 0, false
}

// handymanDirectionRandSurface picks where a handyman on the grass goes next,
// preferring not to double back. Paths count, so they find their way back.
func (p *Peep) handymanDirectionRandSurface(w *World, s *StaffRole, here world.TileCoord) (world.Direction, bool) {
	var valid uint8
	for d := world.Direction(0); d < world.NumDirections; d++ {
		tc := here.Step(d)
		t := w.Map.TileAt(tc)
		if t == nil || !w.InPatrolArea(s, tc) {
			continue
		}
		if mowable(t) || (t.Path != nil && !t.Path.Queue && t.Owned) {
			valid |= d.Bit()
		}
	}
	return p.staffDirectionPath(w, valid)
}
