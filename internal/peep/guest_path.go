package peep

import (
	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

// guestPathFinding picks the next tile for a guest who has reached the middle
// of their current one. Guests leaving head for the park entrance, guests with
// a ride in mind walk the shortest route to it, and everyone else wanders. It
// returns true when no new destination was set.
func (p *Peep) guestPathFinding(w *World, g *GuestRole) bool {
	here := p.Tile()

	if p.OutsideOfPark {
		if p.State != StateEnteringPark {
			p.turnToExit(w)
			return false
		}
		entrances := w.Map.ParkEntrances()
		if len(entrances) == 0 {
			return true
		}
		return p.stepTowards(w, here, entrances[int(g.ChosenParkEntrance)%len(entrances)], ride.NoRide)
	}

	if p.State == StateQueuing {
		return p.queuePathFinding(w, g, here)
	}

	p.CheckIfLost(w)
	p.CheckCantFindRide(w)
	p.CheckCantFindExit(w)

	if p.Flags&FlagLeavingPark != 0 {
		goal, ok := p.chooseParkExit(w, g)
		if !ok {
			return p.wander(w, here)
		}
		if goal == here {
			p.leaveThroughGate(w, g)
			return false
		}
		return p.stepTowards(w, here, goal, ride.NoRide)
	}

	if g.HeadingToRide != ride.NoRide {
		r := w.Rides.Get(g.HeadingToRide)
		if r == nil || len(r.Stations) == 0 {
			g.HeadingToRide = ride.NoRide
			return p.wander(w, here)
		}
		queueRide := ride.NoRide
		if r.Class != ride.ClassStall {
			queueRide = r.ID
		}
		return p.stepTowards(w, here, r.Stations[0].Entrance, queueRide)
	}

	return p.wander(w, here)
}

// chooseParkExit returns the entrance a leaving guest walks to, choosing the
// closest the first time it is asked.
func (p *Peep) chooseParkExit(w *World, g *GuestRole) (world.TileCoord, bool) {
	entrances := w.Map.ParkEntrances()
	if len(entrances) == 0 {
		return world.TileCoord{}, false
	}
	if p.Flags&FlagParkEntranceChose == 0 {
		here := p.Tile()
		best := 0
		for i, e := range entrances {
			if world.Distance(here, e) < world.Distance(here, entrances[best]) {
				best = i
			}
		}
		g.ChosenParkEntrance = uint8(best)
		g.IsLostCountdown = 90
		p.Flags |= FlagParkEntranceChose
	}
	return entrances[int(g.ChosenParkEntrance)%len(entrances)], true
}

// stepTowards asks the pathing oracle for the first step to goal. A guest with
// no route is lost and wanders instead.
func (p *Peep) stepTowards(w *World, here, goal world.TileCoord, queueRide ride.ID) bool {
	p.PathfindGoal = PathNode{Tile: goal, Direction: 0xFF}
	d, ok := w.Map.NextDirection(here, goal, queueRide)
	if !ok {
		if g := p.Guest(); g != nil && !p.OutsideOfPark {
			p.Flags |= FlagLost
			return p.wander(w, here)
		}
		return true
	}
	p.Flags &^= FlagLost
	p.walkTowards(here, d)
	return false
}

func (p *Peep) walkTowards(here world.TileCoord, d world.Direction) {
	p.NextDirection = d
	p.SetDestination(here.Step(d).Center(), 2)
}

// queuePathFinding shuffles a guest up the queue. The guest at the head waits
// on the last queue tile for the ride to call them in.
func (p *Peep) queuePathFinding(w *World, g *GuestRole, here world.TileCoord) bool {
	r := w.Rides.Get(g.CurrentRide)
	if r == nil || int(g.CurrentRideStation) >= len(r.Stations) {
		return true
	}
	st := &r.Stations[g.CurrentRideStation]
	d, ok := w.Map.NextDirection(here, st.Entrance, r.ID)
	if !ok || here.Step(d) == st.Entrance {
		return true
	}
	p.walkTowards(here, d)
	return false
}

// wander picks a random way on at a junction, avoiding turning back and the
// choices already tried at the same junction.
func (p *Peep) wander(w *World, here world.TileCoord) bool {
	var options, fresh []world.Direction
	back := p.NextDirection.Reverse()
	for d := world.Direction(0); d < world.NumDirections; d++ {
		if !w.Map.CanStep(here, d) || !p.wanderInto(w, here.Step(d)) {
			continue
		}
		options = append(options, d)
	}
	if len(options) == 0 {
		return true
	}
	if len(options) > 1 {
		trimmed := options[:0:0]
		for _, d := range options {
			if d != back {
				trimmed = append(trimmed, d)
			}
		}
		options = trimmed
	}
	if len(options) > 2 {
		for _, d := range options {
			if !p.triedAtJunction(here, d) {
				fresh = append(fresh, d)
			}
		}
		if len(fresh) > 0 {
			options = fresh
		}
	}
	d := options[w.RNG.Intn(len(options))]
	if len(options) > 1 {
		p.rememberJunction(here, d)
	}
	p.walkTowards(here, d)
	return false
}

// wanderInto reports whether an aimless guest would step onto a tile.
func (p *Peep) wanderInto(w *World, tc world.TileCoord) bool {
	t := w.Map.TileAt(tc)
	if t == nil {
		return false
	}
	if t.Access == nil {
		return true
	}
	switch t.Access.Kind {
	case world.AccessShop:
		return true
	case world.AccessParkEntrance:
		return p.Flags&FlagLeavingPark != 0
	}
	return false
}

// noticeSurroundings is what a guest sees stepping onto a path tile: litter,
// sick and vandalism nearby each wear happiness down.
func (p *Peep) noticeSurroundings(w *World, g *GuestRole, t *world.Tile) {
	litter, vomit, vandalism := 0, 0, 0
	look := func(tc world.TileCoord) {
		n := w.Map.TileAt(tc)
		if n == nil {
			return
		}
		litter += int(n.Litter)
		vomit += int(n.Vomit)
		if n.Vandalized {
			vandalism++
		}
	}
	look(t.Coord)
	for d := world.Direction(0); d < world.NumDirections; d++ {
		look(t.Coord.Step(d))
	}

	g.VandalismSeen = noticeCounter(g.VandalismSeen, vandalism > 0)
	if g.VandalismSeen&0x3F >= 2 && g.VandalismSeen&0xC0 == 0 && w.RNG.Next()&0xFFFF <= 10922 {
		p.InsertNewThought(ThoughtVandalism, ThoughtItemNone)
		p.HappinessTarget = addU8(p.HappinessTarget, -17)
		g.VandalismSeen = 0xC0
	}

	g.DisgustingCount = noticeCounter(g.DisgustingCount, vomit >= 3)
	if g.DisgustingCount&0x3F >= 3 && g.DisgustingCount&0xC0 == 0 && w.RNG.Next()&0xFFFF <= 10922 {
		p.InsertNewThought(ThoughtPathDisgusting, ThoughtItemNone)
		p.HappinessTarget = addU8(p.HappinessTarget, -17)
		g.DisgustingCount = 0xC0
	}

	g.LitterCount = noticeCounter(g.LitterCount, litter >= 3)
	if g.LitterCount&0x3F >= 3 && g.LitterCount&0xC0 == 0 && w.RNG.Next()&0xFFFF <= 10922 {
		p.InsertNewThought(ThoughtBadLitter, ThoughtItemNone)
		p.HappinessTarget = addU8(p.HappinessTarget, -17)
		g.LitterCount = 0xC0
	}
}

// noticeCounter packs a 2-bit thought cooldown over a 6-bit sighting count.
// The cooldown drops by one per tile; sightings count up while seen and fade
// while not.
func noticeCounter(c uint8, seen bool) uint8 {
	timer := c >> 6
	count := c & 0x3F
	if timer > 0 {
		timer--
	}
	switch {
	case seen && count < 0x3F:
		count++
	case !seen && count > 0:
		count--
	}
	return timer<<6 | count
}

// assessSurroundings looks around a guest for something worth a happy thought:
// lots of scenery, or a spotless stretch of path.
func (p *Peep) assessSurroundings(w *World) ThoughtType {
	here := p.Pos.Tile()
	scenery, paths, litter := 0, 0, 0
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			t := w.Map.TileAt(world.TileCoord{X: here.X + dx, Y: here.Y + dy})
			if t == nil {
				continue
			}
			if t.Scenery || t.Garden != nil {
				scenery++
			}
			if t.Path != nil {
				paths++
				litter += int(t.Litter) + int(t.Vomit)
			}
		}
	}
	switch {
	case scenery >= 5:
		return ThoughtScenery
	case paths >= 5 && litter == 0:
		return ThoughtVeryClean
	}
	return ThoughtNone
}
