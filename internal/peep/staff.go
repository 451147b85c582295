package peep

import (
	"log/slog"

	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

// Handyman orders.
const (
	OrderSweeping    uint8 = 1 << 0
	OrderWaterFlower uint8 = 1 << 1
	OrderEmptyBins   uint8 = 1 << 2
	OrderMowing      uint8 = 1 << 3
)

// Mechanic orders.
const (
	OrderInspectRides uint8 = 1 << 0
	OrderFixRides     uint8 = 1 << 1
)

const (
	mowingTimeoutReady = 12   // Patrol stops before a handyman will mow again
	mechanicCallGiveUp = 2500 // Ticks a mechanic tries to reach a ride
	litterSearchRadius = 4
	staffEnergy        = 0x60
)

// StaffRole is the staff half of a peep.
type StaffRole struct {
	Type     StaffType `json:"staff_type"`
	StaffID  uint8     `json:"staff_id"` // Patrol area slot
	Orders   uint8     `json:"orders"`
	Costume  uint8     `json:"costume,omitempty"`
	HireDate uint32    `json:"hire_date"`

	MowingTimeout         uint8   `json:"mowing_timeout"`
	MechanicTimeSinceCall uint16  `json:"mechanic_time_since_call"`
	CurrentRide           ride.ID `json:"current_ride"`
	CurrentRideStation    uint8   `json:"current_ride_station"`

	LawnsMown      uint16 `json:"lawns_mown"`
	GardensWatered uint16 `json:"gardens_watered"`
	LitterSwept    uint16 `json:"litter_swept"`
	BinsEmptied    uint16 `json:"bins_emptied"`
	RidesFixed     uint16 `json:"rides_fixed"`
	RidesInspected uint16 `json:"rides_inspected"`
}

func (*StaffRole) peepType() PeepType { return TypeStaff }

func newStaffRole(t StaffType) *StaffRole {
	s := &StaffRole{Type: t, CurrentRide: ride.NoRide}
	switch t {
	case StaffHandyman:
		s.Orders = OrderSweeping | OrderWaterFlower | OrderEmptyBins
	case StaffMechanic:
		s.Orders = OrderInspectRides | OrderFixRides
	}
	return s
}

// staffSprites maps staff type to body sprite.
var staffSprites = [StaffTypeCount]SpriteType{SpriteHandyman, SpriteMechanic, SpriteSecurity, SpriteEntertainer}

// UpdateStaff runs the state handler for a staff member. steps is this tick's
// movement allowance, used to scale a finished repair.
func (p *Peep) UpdateStaff(w *World, steps int) {
	s := p.Staff()
	if s == nil {
		return
	}
	switch p.State {
	case StatePatrolling:
		p.UpdatePatrolling(w, s)
	case StateMowing:
		p.UpdateMowing(w, s)
	case StateSweeping:
		p.UpdateSweeping(w, s)
	case StateWatering:
		p.UpdateWatering(w, s)
	case StateEmptyingBin:
		p.UpdateEmptyingBin(w, s)
	case StateAnswering:
		p.UpdateAnswering(w, s)
	case StateHeadingToInspection:
		p.UpdateHeadingToInspect(w, s)
	case StateFixing, StateInspecting:
		p.UpdateFixing(w, s, steps)
	default:
		slog.Warn("staff in guest state", "peep", p.ID, "state", p.State)
		p.StateReset()
	}
}

// UpdatePatrolling walks the patrol and, for handymen, looks for a job on
// every tile reached.
func (p *Peep) UpdatePatrolling(w *World, s *StaffRole) {
	if !p.CheckForPath(w) {
		return
	}
	if p.PerformNextAction(w)&PathingDestinationReached == 0 {
		return
	}

	if p.NextSurface {
		if t := w.Map.TileAt(p.Tile()); t != nil && t.Surface == world.SurfaceWater {
			p.StateReset()
			return
		}
	}

	switch s.Type {
	case StaffHandyman:
		if p.updatePatrollingFindSweeping(w, s) {
			return
		}
		if p.updatePatrollingFindGrass(w, s) {
			return
		}
		if p.updatePatrollingFindBin(w, s) {
			return
		}
		p.updatePatrollingFindWatering(w, s)
	case StaffEntertainer:
		p.entertain(w)
	}
}

func (p *Peep) updatePatrollingFindSweeping(w *World, s *StaffRole) bool {
	if s.Orders&OrderSweeping == 0 || p.NextSurface {
		return false
	}
	if w.Map.LitterAt(p.Tile()) == 0 {
		return false
	}
	p.SetState(StateSweeping)
	p.SetDestination(p.Tile().Center(), 5)
	return true
}

func (p *Peep) updatePatrollingFindGrass(w *World, s *StaffRole) bool {
	if s.Orders&OrderMowing == 0 || s.MowingTimeout < mowingTimeoutReady || !p.NextSurface {
		return false
	}
	t := w.Map.TileAt(p.Tile())
	if t == nil || t.Surface != world.SurfaceGrass || t.GrassLength < world.GrassMowThreshold {
		return false
	}
	p.SetState(StateMowing)
	p.SetDestination(p.Tile().Origin().Add(mowingWaypoints[0]), 3)
	return true
}

func (p *Peep) updatePatrollingFindBin(w *World, s *StaffRole) bool {
	if s.Orders&OrderEmptyBins == 0 || p.NextSurface {
		return false
	}
	t := w.Map.TileAt(p.Tile())
	if t == nil || t.Bin == nil || t.Bin.Fill == 0 {
		return false
	}
	p.SetState(StateEmptyingBin)
	p.SetDestination(p.Tile().Center(), 3)
	return true
}

func (p *Peep) updatePatrollingFindWatering(w *World, s *StaffRole) bool {
	if s.Orders&OrderWaterFlower == 0 || p.NextSurface {
		return false
	}
	here := p.Tile()
	for d := world.Direction(0); d < world.NumDirections; d++ {
		t := w.Map.TileAt(here.Step(d))
		if t == nil || t.Garden == nil || !t.Garden.NeedsWater() {
			continue
		}
		p.SetState(StateWatering)
		c := here.Center()
		edge := here.Step(d).Center()
		p.SetDestination(world.Coords{X: (c.X*2 + edge.X) / 3, Y: (c.Y*2 + edge.Y) / 3}, 3)
		p.Facing = d
		return true
	}
	return false
}

// mowingWaypoints are the tile-relative points a mower zigzags through. The
// grass is cut as the mower passes the middle of the tile.
var mowingWaypoints = [...]world.Coords{
	{X: 28, Y: 28}, {X: 28, Y: 4}, {X: 24, Y: 4}, {X: 24, Y: 28},
	{X: 20, Y: 28}, {X: 20, Y: 4}, {X: 16, Y: 4}, {X: 16, Y: 28},
	{X: 12, Y: 28}, {X: 12, Y: 4}, {X: 8, Y: 4}, {X: 8, Y: 28},
	{X: 4, Y: 28}, {X: 4, Y: 4},
}

const mowingCutWaypoint = 7

// UpdateMowing drives the mower through its waypoints.
func (p *Peep) UpdateMowing(w *World, s *StaffRole) {
	if !p.CheckForPath(w) {
		return
	}
	for {
		if next, busy := p.UpdateAction(w); busy {
			p.MoveTo(next)
			return
		}
		step := p.Sub.Step() + 1
		p.Sub.SetStep(step)
		if step == 1 {
			p.SwitchToSpecialSprite(SpecialStaffMower)
		}
		if int(step) >= len(mowingWaypoints) {
			p.StateReset()
			return
		}
		p.SetDestination(p.Tile().Origin().Add(mowingWaypoints[step]), p.DestTolerance)
		if step != mowingCutWaypoint {
			continue
		}
		if t := w.Map.TileAt(p.Tile()); t != nil && t.Surface == world.SurfaceGrass {
			w.Map.Mow(p.Tile())
		}
		s.MowingTimeout = 0
		s.LawnsMown++
		p.WindowInvalidate |= InvalidateStaff
	}
}

const sweepFrame = 8

// UpdateSweeping plays two sweeps over the tile, clearing it on the first.
func (p *Peep) UpdateSweeping(w *World, s *StaffRole) {
	if !p.CheckForPath(w) {
		return
	}
	if p.Action == ActionStaffSweep && p.ActionFrame == sweepFrame {
		if n := w.Map.SweepLitter(p.Tile()); n > 0 {
			s.LitterSwept += uint16(n)
			p.WindowInvalidate |= InvalidateStaff
		}
	}
	if next, busy := p.UpdateAction(w); busy {
		p.MoveTo(next)
		return
	}
	step := p.Sub.Step() + 1
	p.Sub.SetStep(step)
	if step != 2 {
		p.StartAction(ActionStaffSweep)
		return
	}
	p.StateReset()
}

// UpdateWatering walks to the edge of the tile facing the flower bed and
// waters it.
func (p *Peep) UpdateWatering(w *World, s *StaffRole) {
	s.MowingTimeout = 0
	if p.Sub.Step() == 0 {
		if !p.CheckForPath(w) {
			return
		}
		facing := p.Facing
		if next, busy := p.UpdateAction(w); busy {
			p.MoveTo(next)
			return
		}
		p.Facing = facing
		p.StartAction(ActionStaffWatering)
		p.Sub.SetStep(1)
		return
	}
	if !p.Action.IsIdle() {
		p.UpdateAction(w)
		return
	}
	target := p.Tile().Step(p.Facing)
	if t := w.Map.TileAt(target); t != nil && t.Garden != nil {
		w.Map.Water(target)
		s.GardensWatered++
		p.WindowInvalidate |= InvalidateStaff
	}
	p.StateReset()
}

const emptyBinFrame = 11

// UpdateEmptyingBin walks to the bin and empties it partway through the
// animation.
func (p *Peep) UpdateEmptyingBin(w *World, s *StaffRole) {
	if p.Sub.Step() == 0 {
		if !p.CheckForPath(w) {
			return
		}
		if next, busy := p.UpdateAction(w); busy {
			p.MoveTo(next)
			return
		}
		p.StartAction(ActionStaffEmptyBin)
		p.Sub.SetStep(1)
		return
	}
	if p.Action.IsIdle() {
		p.StateReset()
		return
	}
	p.UpdateAction(w)
	if p.ActionFrame != emptyBinFrame {
		return
	}
	if w.Map.EmptyBin(p.Tile()) > 0 {
		s.BinsEmptied++
		p.WindowInvalidate |= InvalidateStaff
	}
}

// entertain cheers up guests around an entertainer: queuers forget some of
// their wait and walkers may clap.
func (p *Peep) entertain(w *World) {
	if p.Action.IsIdle() && w.RNG.Chance(4) {
		p.StartAction(ActionJoy)
	}
	here := p.Tile()
	w.Pool.Each(func(other *Peep) {
		g := other.Guest()
		if g == nil || other.OutsideOfPark || world.Distance(other.Tile(), here) > 2 {
			return
		}
		switch other.State {
		case StateQueuing:
			g.TimeInQueue -= min(g.TimeInQueue, 100)
			other.HappinessTarget = addU8(other.HappinessTarget, 3)
		case StateWalking, StateSitting:
			if other.Action.IsIdle() && w.RNG.Chance(8) {
				other.StartAction(ActionClap)
				other.HappinessTarget = addU8(other.HappinessTarget, 5)
			}
		}
	})
}

// Tick128UpdateStaff is the slow staff update.
func (p *Peep) Tick128UpdateStaff(w *World, s *StaffRole) {
	p.Energy = staffEnergy
	p.EnergyTarget = staffEnergy
	if s.Type == StaffHandyman && s.MowingTimeout < 0xFF {
		s.MowingTimeout++
	}
	if s.Type < StaffTypeCount && p.SpriteType != staffSprites[s.Type] {
		p.setSpriteType(staffSprites[s.Type])
	}
}

// securityNearby reports whether a security guard is patrolling within radius
// tiles of a tile.
func (w *World) securityNearby(tc world.TileCoord, radius int) bool {
	found := false
	w.Pool.Each(func(other *Peep) {
		if found {
			return
		}
		s := other.Staff()
		if s != nil && s.Type == StaffSecurity && !other.Pos.IsNull() && world.Distance(other.Tile(), tc) <= radius {
			found = true
		}
	})
	return found
}
