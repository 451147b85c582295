package peep

import (
	"fmt"

	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

// PickupOrigin is where a picked-up peep was and what it was doing, kept so
// the pickup can be undone.
type PickupOrigin struct {
	Pos           world.CoordsXYZ `json:"pos"`
	NextLoc       world.CoordsXYZ `json:"next_loc"`
	NextDirection world.Direction `json:"next_direction"`
	NextSloped    bool            `json:"next_sloped"`
	NextSurface   bool            `json:"next_surface"`
	Facing        world.Direction `json:"facing"`
	State         State           `json:"state"`
	Sub           uint8           `json:"sub"`
	Action        ActionType      `json:"action"`
	ActionFrame   uint8           `json:"action_frame"`
	DestX         int             `json:"dest_x"`
	DestY         int             `json:"dest_y"`
	DestTolerance uint8           `json:"dest_tolerance"`
}

// CanBePickedUp reports whether the player may lift the peep out of the
// world. Peeps inside rides, shops and the park gate may not be.
func (p *Peep) CanBePickedUp() bool {
	switch p.State {
	case StateFalling, StateWalking, StateQueuing, StateSitting, StatePatrolling,
		StateMowing, StateSweeping, StateAnswering, StateWatching, StateEmptyingBin,
		StateUsingBin, StateWatering, StateHeadingToInspection:
		return true
	}
	return false
}

// Pickup lifts a peep out of the world. A queuing guest gives up their place.
func (w *World) Pickup(p *Peep) error {
	if !p.CanBePickedUp() {
		return fmt.Errorf("pick up %s: %w", p, ErrNotPickable)
	}
	p.PickedFrom = PickupOrigin{
		Pos:           p.Pos,
		NextLoc:       p.NextLoc,
		NextDirection: p.NextDirection,
		NextSloped:    p.NextSloped,
		NextSurface:   p.NextSurface,
		Facing:        p.Facing,
		State:         p.State,
		Sub:           p.Sub.Raw(),
		Action:        p.Action,
		ActionFrame:   p.ActionFrame,
		DestX:         p.DestX,
		DestY:         p.DestY,
		DestTolerance: p.DestTolerance,
	}
	if p.State == StateQueuing {
		p.RemoveFromQueue(w)
	}
	p.Pos.X = world.LocationNull
	p.SetState(StatePicked)
	return nil
}

// PickupAbort puts a picked-up peep back exactly where and as it was. A guest
// who was queuing rejoins at the back of the queue.
func (w *World) PickupAbort(p *Peep) error {
	if p.State != StatePicked {
		return fmt.Errorf("abort pickup of %s: %w", p, ErrNotPickable)
	}
	o := p.PickedFrom
	sub, err := restoreSubState(o.State, o.Sub)
	if err != nil {
		return fmt.Errorf("abort pickup of %s: %w", p, err)
	}

	p.Pos = o.Pos
	p.NextLoc = o.NextLoc
	p.NextDirection = o.NextDirection
	p.NextSloped = o.NextSloped
	p.NextSurface = o.NextSurface
	p.Facing = o.Facing
	p.State = o.State
	p.Sub = sub
	p.Action = o.Action
	p.ActionFrame = o.ActionFrame
	p.ActionSpriteImageOffset = 0
	p.DestX, p.DestY, p.DestTolerance = o.DestX, o.DestY, o.DestTolerance
	p.UpdateCurrentActionSpriteType()
	p.WindowInvalidate |= InvalidateStats | InvalidateAction
	p.PickedFrom = PickupOrigin{}

	if p.State == StateQueuing {
		g := p.Guest()
		r := w.Rides.Get(g.CurrentRide)
		if r == nil || int(g.CurrentRideStation) >= len(r.Stations) {
			p.SetState(StateFalling)
			return nil
		}
		r.Stations[g.CurrentRideStation].Join(p.Index)
	}
	return nil
}

// Place drops a picked-up peep on a tile. The peep falls to the nearest path
// from there.
func (w *World) Place(p *Peep, tc world.TileCoord) error {
	if p.State != StatePicked {
		return fmt.Errorf("place %s: %w", p, ErrNotPickable)
	}
	t := w.Map.TileAt(tc)
	if t == nil || !t.Owned || t.Ride != world.NoRide || (t.Surface == world.SurfaceWater && t.Path == nil) {
		return fmt.Errorf("place %s at %v: %w", p, tc, ErrInvalidPlacement)
	}
	if t.Access != nil || (t.Path != nil && t.Path.Queue) {
		return fmt.Errorf("place %s at %v: %w", p, tc, ErrInvalidPlacement)
	}

	if s := p.Staff(); s != nil && s.CurrentRide != ride.NoRide {
		if r := w.Rides.Get(s.CurrentRide); r != nil && r.Mechanic == p.Index {
			r.ReleaseMechanic()
		}
		s.CurrentRide = ride.NoRide
	}
	if g := p.Guest(); g != nil && p.PickedFrom.State == StateQueuing {
		g.CurrentRide = ride.NoRide
	}

	c := tc.Center()
	p.Pos = world.CoordsXYZ{X: c.X, Y: c.Y, Z: w.Map.SurfaceHeight(tc)}
	p.SetNextLoc(tc, p.Facing, false, t.Path == nil)
	p.SetState(StateFalling)
	p.Action = ActionNone2
	p.SwitchToSpecialSprite(SpecialNone)
	p.PathCheckOptimisation = 0
	p.PickedFrom = PickupOrigin{}
	return nil
}
