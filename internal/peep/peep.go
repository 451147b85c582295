package peep

import (
	"fmt"

	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

// NoIndex is the null pool index.
const NoIndex = ride.NoPeep

// PathNode is a tile and the direction chosen there, used for pathing history.
type PathNode struct {
	Tile      world.TileCoord `json:"tile"`
	Direction uint8           `json:"direction"`
}

var nullPathNode = PathNode{Tile: world.TileCoord{X: -1, Y: -1}, Direction: 0xFF}

// Role holds the role-specific half of a peep: *GuestRole or *StaffRole.
type Role interface {
	peepType() PeepType
}

// Peep is one agent in the pool. Fields shared by guests and staff live here;
// the rest hang off Role.
type Peep struct {
	Index uint16   `json:"index"` // Pool slot
	ID    uint32   `json:"id"`    // Guest number or staff number
	Name  string   `json:"name"`
	Type  PeepType `json:"type"`

	Pos           world.CoordsXYZ `json:"pos"`
	NextLoc       world.CoordsXYZ `json:"next_loc"` // Tile origin the peep is logically standing on
	NextDirection world.Direction `json:"next_direction"`
	NextSloped    bool            `json:"next_sloped"`
	NextSurface   bool            `json:"next_surface"` // Walking on grass rather than path
	Facing        world.Direction `json:"facing"`
	OutsideOfPark bool            `json:"outside_of_park"`

	State State    `json:"state"`
	Sub   SubState `json:"-"`

	DestX         int   `json:"dest_x"`
	DestY         int   `json:"dest_y"`
	DestTolerance uint8 `json:"dest_tolerance"`

	Energy          uint8           `json:"energy"`
	EnergyTarget    uint8           `json:"energy_target"`
	Happiness       uint8           `json:"happiness"`
	HappinessTarget uint8           `json:"happiness_target"`
	Nausea          uint8           `json:"nausea"`
	NauseaTarget    uint8           `json:"nausea_target"`
	Hunger          uint8           `json:"hunger"`
	Thirst          uint8           `json:"thirst"`
	Toilet          uint8           `json:"toilet"`
	Mass            uint8           `json:"mass"`
	Intensity       IntensityRange  `json:"intensity"`
	NauseaTolerance NauseaTolerance `json:"nausea_tolerance"`

	SpriteType              SpriteType       `json:"sprite_type"`
	SpecialSprite           SpecialSprite    `json:"special_sprite"`
	Action                  ActionType       `json:"action"`
	ActionFrame             uint8            `json:"action_frame"`
	ActionSpriteType        ActionSpriteType `json:"action_sprite_type"`
	NextActionSpriteType    ActionSpriteType `json:"next_action_sprite_type"`
	ActionSpriteImageOffset uint8            `json:"action_sprite_image_offset"`
	WalkingFrameNum         uint8            `json:"walking_frame_num"`
	StepProgress            uint8            `json:"step_progress"`
	TshirtColour            uint8            `json:"tshirt_colour"`
	TrousersColour          uint8            `json:"trousers_colour"`

	PathCheckOptimisation uint8       `json:"path_check_optimisation"`
	PathfindGoal          PathNode    `json:"pathfind_goal"`
	PathfindHistory       [4]PathNode `json:"pathfind_history"`

	PickedFrom PickupOrigin `json:"picked_from"`

	Flags            Flags                `json:"flags"`
	WindowInvalidate uint8                `json:"-"`
	Thoughts         [MaxThoughts]Thought `json:"thoughts"`

	Role Role `json:"-"`
}

// Guest returns the guest half, or nil for staff.
func (p *Peep) Guest() *GuestRole {
	g, _ := p.Role.(*GuestRole)
	return g
}

// Staff returns the staff half, or nil for guests.
func (p *Peep) Staff() *StaffRole {
	s, _ := p.Role.(*StaffRole)
	return s
}

func (p *Peep) String() string {
	return fmt.Sprintf("Peep(%d %s %q %s)", p.Index, p.Type, p.Name, p.State)
}

// SetState moves the peep to a new top-level state. The action animation is
// reset, the sub-state is replaced by the new state's initial one, and the UI
// is told to redraw.
func (p *Peep) SetState(s State) {
	p.State = s
	p.Sub = NewSubState(s)
	if !p.Action.IsIdle() {
		p.Action = ActionNone2
		p.ActionFrame = 0
	}
	p.ActionSpriteImageOffset = 0
	p.UpdateCurrentActionSpriteType()
	p.WindowInvalidate |= InvalidateStats | InvalidateAction
}

// StateReset drops the peep back to the neutral state with no carried gear.
func (p *Peep) StateReset() {
	p.SetState(StateOne)
	p.SwitchToSpecialSprite(SpecialNone)
}

// setRideState changes between ride pipeline states, keeping the ride, train
// and seat the guest holds.
func (p *Peep) setRideState(s State, sub RideSubState) {
	p.SetState(s)
	p.Sub.SetRide(sub)
}

// MoveTo places the peep at a world position.
func (p *Peep) MoveTo(c world.Coords) {
	p.Pos.X, p.Pos.Y = c.X, c.Y
}

// SetDestination sets where UpdateAction walks to and how close counts.
func (p *Peep) SetDestination(c world.Coords, tolerance uint8) {
	p.DestX, p.DestY = c.X, c.Y
	p.DestTolerance = tolerance
}

// Destination returns the walking target.
func (p *Peep) Destination() world.Coords {
	return world.Coords{X: p.DestX, Y: p.DestY}
}

// Tile returns the tile the peep is logically on.
func (p *Peep) Tile() world.TileCoord {
	return p.NextLoc.Tile()
}

// SetNextLoc records the tile the peep is standing on.
func (p *Peep) SetNextLoc(tc world.TileCoord, d world.Direction, sloped, surface bool) {
	o := tc.Origin()
	p.NextLoc = world.CoordsXYZ{X: o.X, Y: o.Y, Z: p.Pos.Z}
	p.NextDirection = d
	p.NextSloped = sloped
	p.NextSurface = surface
}

// ResetPathfindGoal forgets the stored goal and junction history so the next
// pathing decision starts afresh.
func (p *Peep) ResetPathfindGoal() {
	p.PathfindGoal = nullPathNode
	for i := range p.PathfindHistory {
		p.PathfindHistory[i] = nullPathNode
	}
}

func (p *Peep) rememberJunction(tc world.TileCoord, d world.Direction) {
	copy(p.PathfindHistory[1:], p.PathfindHistory[:3])
	p.PathfindHistory[0] = PathNode{Tile: tc, Direction: uint8(d)}
}

func (p *Peep) triedAtJunction(tc world.TileCoord, d world.Direction) bool {
	for _, n := range p.PathfindHistory {
		if n.Tile == tc && n.Direction == uint8(d) {
			return true
		}
	}
	return false
}

// Update runs one tick for the peep. Energy decides how often the state handler
// runs: the step counter carries over 255 roughly Energy/256 of the ticks.
func (p *Peep) Update(w *World) {
	g := p.Guest()
	if g != nil {
		if g.PreviousRide != ride.NoRide {
			g.PreviousRideTimeOut++
			if g.PreviousRideTimeOut >= PreviousRideReset {
				g.PreviousRide = ride.NoRide
				g.PreviousRideTimeOut = 0
			}
		}
		p.UpdateThoughts()
	}

	steps := int(p.Energy)
	if p.State == StateQueuing && steps < 95 {
		steps = 95
	}
	if p.Flags&FlagSlowWalk != 0 && p.State != StateQueuing {
		steps /= 2
	}
	if p.Action == ActionNone2 && p.NextSloped {
		steps /= 2
		if p.State == StateQueuing {
			steps += steps / 2
		}
	}

	carry := int(p.StepProgress) + steps
	p.StepProgress = uint8(carry)
	if carry <= 255 {
		if g != nil {
			p.UpdateEasterEggInteractions(w)
		}
		return
	}

	switch p.State {
	case StateFalling:
		p.UpdateFalling(w)
	case StateOne:
		p.Update1(w)
	case StatePicked:
		p.UpdatePicked(w)
	default:
		if g != nil {
			p.UpdateGuest(w)
		} else {
			p.UpdateStaff(w, steps)
		}
	}
}

// Update1 settles a peep that has just landed: it starts walking or patrolling
// from where it stands.
func (p *Peep) Update1(w *World) {
	if !p.CheckForPath(w) {
		return
	}
	if p.Type == TypeGuest {
		p.SetState(StateWalking)
	} else {
		p.SetState(StatePatrolling)
	}
	p.SetDestination(p.Pos.XY(), 10)
	p.NextDirection = p.Facing
}

// UpdateFalling drops a peep onto the nearest path. A guest with nowhere to land
// is removed; staff are sent back to the park entrance.
func (p *Peep) UpdateFalling(w *World) {
	tc := p.Pos.Tile()
	if t := w.Map.TileAt(tc); t != nil && t.Walkable() {
		p.land(w, tc)
		return
	}
	if near, ok := w.Map.NearestPath(tc, fallSearchRadius); ok {
		p.land(w, near)
		return
	}
	if p.Type == TypeGuest {
		w.Remove(p)
		return
	}
	entrances := w.Map.ParkEntrances()
	if len(entrances) == 0 {
		w.Remove(p)
		return
	}
	p.land(w, entrances[0])
}

const fallSearchRadius = 8

func (p *Peep) land(w *World, tc world.TileCoord) {
	if p.Pos.Tile() != tc {
		p.MoveTo(tc.Center())
	}
	t := w.Map.TileAt(tc)
	sloped := t != nil && t.Path != nil && t.Path.Sloped
	p.SetNextLoc(tc, p.Facing, sloped, false)
	p.SetState(StateOne)
}

// UpdatePicked runs while the player holds the peep. After a while a guest
// starts asking to be put down.
func (p *Peep) UpdatePicked(w *World) {
	if w.Tick&0x1F != uint32(p.Index)&0x1F {
		return
	}
	step := p.Sub.Step() + 1
	p.Sub.SetStep(step)
	if step == pickedHelpDelay && p.Type == TypeGuest {
		p.InsertNewThought(ThoughtHelp, ThoughtItemNone)
	}
}

const pickedHelpDelay = 13

// CheckForPath verifies the tile under the peep still carries what it is
// walking on. The check runs on one tick in sixteen per peep; a peep whose path
// has gone starts falling.
func (p *Peep) CheckForPath(w *World) bool {
	p.PathCheckOptimisation++
	if p.PathCheckOptimisation&0xF != uint8(p.Index)&0xF {
		return true
	}
	t := w.Map.TileAt(p.Tile())
	if t != nil {
		if p.NextSurface {
			if t.Owned && t.Path == nil && t.Surface != world.SurfaceWater {
				return true
			}
		} else if t.Walkable() {
			return true
		}
	}
	p.SetState(StateFalling)
	return false
}

// returnToCentre turns the peep around to the middle of the tile it is on.
func (p *Peep) returnToCentre() {
	p.NextDirection = p.NextDirection.Reverse()
	p.SetDestination(p.Tile().Center(), 2)
}

// PerformNextAction moves the peep one step along its walk, handing tile
// changes to the path, entrance and surface interactions. When the current
// destination is reached the role's pathfinding picks the next one.
func (p *Peep) PerformNextAction(w *World) PathingResult {
	var result PathingResult
	if p.Action == ActionNone1 {
		p.Action = ActionNone2
	}

	next, ok := p.UpdateAction(w)
	if !ok {
		result |= PathingDestinationReached
		if p.pathFind(w) {
			return result
		}
		if next, ok = p.UpdateAction(w); !ok {
			return result
		}
	}

	target := next.Tile()
	if target == p.Tile() {
		p.MoveTo(next)
		return result
	}

	if !w.Map.InBounds(target) {
		if p.OutsideOfPark {
			result |= PathingOutsidePark
		}
		p.returnToCentre()
		return result
	}

	t := w.Map.TileAt(target)
	if t.Path != nil {
		if t.Access != nil && t.Access.Kind == world.AccessParkEntrance {
			if p.interactWithParkEntrance(w, target, next) {
				return result
			}
		}
		if !p.OutsideOfPark && !t.Owned {
			p.returnToCentre()
			return result
		}
		if p.OutsideOfPark && t.Owned && (t.Access == nil || t.Access.Kind != world.AccessParkEntrance) {
			p.returnToCentre()
			return result
		}
		return result | p.interactWithPath(w, target, next)
	}

	if t.Access != nil {
		return result | p.interactWithAccess(w, target, next)
	}

	if s := p.Staff(); s != nil && t.Owned && t.Surface != world.SurfaceWater && t.Ride == world.NoRide && !t.Scenery {
		p.SetNextLoc(target, world.DirectionTowards(p.Pos.XY(), next), false, true)
		p.MoveTo(next)
		return result
	}

	p.returnToCentre()
	return result
}

// pathFind asks the role for the next destination. True means none was set.
func (p *Peep) pathFind(w *World) bool {
	switch r := p.Role.(type) {
	case *GuestRole:
		return p.guestPathFinding(w, r)
	case *StaffRole:
		return p.staffPathFinding(w, r)
	}
	return true
}

// footpathMoveForward commits a step onto a path tile.
func (p *Peep) footpathMoveForward(w *World, tc world.TileCoord, next world.Coords) {
	t := w.Map.TileAt(tc)
	d := world.DirectionTowards(p.Pos.XY(), next)
	p.SetNextLoc(tc, d, t.Path.Sloped, false)
	p.MoveTo(next)
	if g := p.Guest(); g != nil && !p.OutsideOfPark {
		p.noticeSurroundings(w, g, t)
	}
}

// interactWithPath handles stepping onto a path tile: queue entry and exit, and
// ordinary walking.
func (p *Peep) interactWithPath(w *World, tc world.TileCoord, next world.Coords) PathingResult {
	t := w.Map.TileAt(tc)
	g := p.Guest()
	if g == nil {
		p.footpathMoveForward(w, tc, next)
		return 0
	}

	if t.Path.Queue {
		rideID := t.Path.QueueRide
		if p.State == StateQueuing {
			if rideID == g.CurrentRide {
				p.footpathMoveForward(w, tc, next)
				return 0
			}
			p.RemoveFromQueue(w)
			p.SetState(StateOne)
			p.returnToCentre()
			return 0
		}
		cur := w.Map.TileAt(p.Tile())
		if cur != nil && cur.Path != nil && cur.Path.Queue {
			p.footpathMoveForward(w, tc, next)
			return 0
		}
		r := w.Rides.Get(rideID)
		if r == nil || p.Flags&FlagLeavingPark != 0 || !p.wantsRideAtQueue(w, g, r) {
			p.returnToCentre()
			return 0
		}
		p.joinQueue(w, g, r)
		p.footpathMoveForward(w, tc, next)
		return 0
	}

	if p.State == StateQueuing {
		p.RemoveFromQueue(w)
		p.SetState(StateOne)
	}
	p.footpathMoveForward(w, tc, next)
	return 0
}

func (p *Peep) wantsRideAtQueue(w *World, g *GuestRole, r *ride.Ride) bool {
	if r.Class == ride.ClassRide {
		return p.ShouldGoOnRide(w, r, true, false)
	}
	return p.ShouldGoToShop(w, r, true)
}

func (p *Peep) joinQueue(w *World, g *GuestRole, r *ride.Ride) {
	st := &r.Stations[0]
	st.Join(p.Index)
	g.CurrentRide = r.ID
	g.CurrentRideStation = 0
	g.DaysInQueue = 0
	p.SetState(StateQueuing)
	g.TimeInQueue = 0
	g.TimeLost = 0
	if g.HeadingToRide == r.ID {
		g.HeadingToRide = ride.NoRide
	}
}

// interactWithAccess handles walking into a ride entrance, exit or shop counter.
func (p *Peep) interactWithAccess(w *World, tc world.TileCoord, next world.Coords) PathingResult {
	t := w.Map.TileAt(tc)
	a := t.Access
	g := p.Guest()

	switch a.Kind {
	case world.AccessRideExit, world.AccessRideEntrance:
		if s := p.Staff(); s != nil && s.Type == StaffMechanic && p.mechanicTargets(s, a.Ride) {
			p.SetNextLoc(tc, a.Direction.Reverse(), false, false)
			p.MoveTo(next)
			if a.Kind == world.AccessRideExit {
				return PathingRideExit
			}
			return PathingRideEntrance
		}
		p.returnToCentre()
		return 0
	case world.AccessShop:
		if g == nil || p.State == StateLeavingPark {
			p.returnToCentre()
			return 0
		}
		r := w.Rides.Get(a.Ride)
		if r == nil || !r.IsOpen() || r.BrokenDown() || !p.ShouldGoToShop(w, r, true) {
			p.returnToCentre()
			return 0
		}
		g.InteractionRide = r.ID
		if g.HeadingToRide == r.ID {
			g.HeadingToRide = ride.NoRide
		}
		g.CurrentRide = r.ID
		p.SetState(StateBuying)
		p.SetDestination(tc.Center(), 3)
		p.NextDirection = a.Direction.Reverse()
		return 0
	}
	p.returnToCentre()
	return 0
}

// interactWithParkEntrance handles a guest arriving at the park gate from
// either side. It returns true when the step was consumed.
func (p *Peep) interactWithParkEntrance(w *World, tc world.TileCoord, next world.Coords) bool {
	g := p.Guest()
	if g == nil {
		return false
	}
	if p.Flags&FlagLeavingPark != 0 && !p.OutsideOfPark {
		p.footpathMoveForward(w, tc, next)
		p.leaveThroughGate(w, g)
		return true
	}
	if p.State == StateEnteringPark && p.OutsideOfPark {
		p.footpathMoveForward(w, tc, next)
		p.enterThroughGate(w, g)
		return true
	}
	if p.State == StateWalking && !p.OutsideOfPark && p.Flags&FlagLeavingPark == 0 {
		p.returnToCentre()
		return true
	}
	return false
}

// RemoveFromQueue takes a queuing guest out of its station queue.
func (p *Peep) RemoveFromQueue(w *World) {
	g := p.Guest()
	if g == nil {
		return
	}
	r := w.Rides.Get(g.CurrentRide)
	if r == nil || int(g.CurrentRideStation) >= len(r.Stations) {
		return
	}
	r.Stations[g.CurrentRideStation].Leave(p.Index)
}

// RemoveFromRide pulls a guest out of the ride pipeline: queue place, claimed
// seat and rider count are released and the guest goes back to neutral.
func (p *Peep) RemoveFromRide(w *World) {
	g := p.Guest()
	if g == nil {
		return
	}
	if p.State == StateQueuing {
		p.RemoveFromQueue(w)
	}
	if r := w.Rides.Get(g.CurrentRide); r != nil && p.State.InRideFamily() {
		r.VacateSeat(int(g.CurrentTrain), int(g.CurrentCar), int(g.CurrentSeat), p.Index)
		if r.SlideInUse == p.Index {
			r.SlideInUse = ride.NoPeep
		}
		if p.Flags&FlagRidePaid != 0 {
			r.OnExit()
			p.Flags &^= FlagRidePaid
		}
	}
	p.Flags &^= FlagRode
	p.StateReset()
}
