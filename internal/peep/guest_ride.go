package peep

import (
	"github.com/talgya/park-peeps/internal/economy"
	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

// Queue patience, in queue updates.
const (
	queueRestlessTime = 2000 // Starts fidgeting
	queueGiveUpTime   = 3500 // May walk out of the queue
	queueMaxTime      = 4300 // Stops counting
)

// Ticks on the spiral slide and tiles wandered in a maze before heading out.
const (
	spiralSlideLength = 64
	mazeTilesToVisit  = 8
)

// UpdateQueuing moves a guest along a ride queue and hands the front guest to
// the ride pipeline once they reach the entrance.
func (p *Peep) UpdateQueuing(w *World, g *GuestRole) {
	if !p.CheckForPath(w) {
		return
	}
	r := w.Rides.Get(g.CurrentRide)
	if r == nil || !r.IsOpen() || r.BrokenDown() {
		p.RemoveFromQueue(w)
		p.SetState(StateOne)
		return
	}
	if g.TimeInQueue < queueMaxTime {
		g.TimeInQueue++
	}

	st := &r.Stations[g.CurrentRideStation]
	facing, ok := accessFacing(w, st.Entrance)
	if !ok {
		p.RemoveFromQueue(w)
		p.SetState(StateOne)
		return
	}
	if st.Position(p.Index) == 0 && p.Tile() == st.Entrance.Step(facing) {
		p.setRideState(StateQueuingFront, RideAtEntrance)
		p.SetDestination(p.Tile().Center(), 2)
		return
	}

	if !p.Action.IsIdle() {
		p.UpdateAction(w)
		return
	}

	if g.TimeInQueue >= queueGiveUpTime && w.RNG.Next()&0xFFFF <= 93 {
		p.RemoveFromQueue(w)
		p.SetState(StateOne)
		return
	}

	result := p.PerformNextAction(w)
	if result&PathingDestinationReached == 0 || g.TimeInQueue < queueRestlessTime {
		return
	}
	if p.Happiness > 180 || w.RNG.Next()&0xFF > 16 {
		return
	}
	switch w.RNG.Intn(4) {
	case 0:
		p.StartAction(ActionShakeHead)
	case 1:
		p.StartAction(ActionEmptyPockets)
	case 2:
		p.StartAction(ActionCheckTime)
	default:
		p.StartAction(ActionReadMap)
	}
}

// UpdateRide runs one step of the ride pipeline for the guest's sub-state.
func (p *Peep) UpdateRide(w *World, g *GuestRole) {
	r := w.Rides.Get(g.CurrentRide)
	if r == nil {
		p.StateReset()
		return
	}
	switch p.Sub.Ride() {
	case RideAtEntrance:
		p.rideAtEntrance(w, g, r)
	case RideInEntrance:
		p.rideWalkThen(w, func() {
			p.setRideState(StateEnteringRide, RideFreeVehicleCheck)
		})
	case RideFreeVehicleCheck:
		p.rideFreeVehicleCheck(w, g, r)
	case RideLeaveEntrance:
		p.rideWalkThen(w, func() {
			p.Sub.SetRide(RideApproachVehicle)
			p.SetDestination(r.Stations[g.CurrentRideStation].Start.Center(), 2)
		})
	case RideApproachVehicle, RideApproachVehicleWaypoints:
		p.rideWalkThen(w, func() { p.Sub.SetRide(RideEnterVehicle) })
	case RideEnterVehicle:
		p.rideEnterVehicle(w, g, r)
	case RideOnRide:
		p.rideOnRide(w, g, r)
	case RideLeaveVehicle:
		r.VacateSeat(int(g.CurrentTrain), int(g.CurrentCar), int(g.CurrentSeat), p.Index)
		p.approachExit(g, r)
	case RideApproachExit, RideApproachExitWaypoints:
		p.rideWalkThen(w, func() { p.Sub.SetRide(RideInExit) })
	case RideInExit:
		if p.Flags&FlagRode != 0 {
			p.OnExitRide(w, r)
		}
		st := &r.Stations[g.CurrentRideStation]
		facing, ok := accessFacing(w, st.Exit)
		if !ok {
			p.RemoveFromRide(w)
			g.PreviousRide = r.ID
			g.CurrentRide = ride.NoRide
			p.SetState(StateFalling)
			return
		}
		out := st.Exit.Step(facing)
		p.Sub.SetRide(RideLeaveExit)
		p.SetDestination(out.Center(), 4)
	case RideLeaveExit:
		p.rideLeaveExit(w, g, r)
	case RideApproachSpiralSlide:
		p.rideWalkThen(w, func() {
			if r.SlideInUse != ride.NoPeep && r.SlideInUse != p.Index {
				return
			}
			r.SlideInUse = p.Index
			g.RideProgress = 0
			p.Flags |= FlagRode
			p.Sub.SetRide(RideOnSpiralSlide)
		})
	case RideOnSpiralSlide:
		g.RideProgress++
		if g.RideProgress >= spiralSlideLength {
			p.Sub.SetRide(RideLeaveSpiralSlide)
		}
	case RideLeaveSpiralSlide:
		if r.SlideInUse == p.Index {
			r.SlideInUse = ride.NoPeep
		}
		p.approachExit(g, r)
	case RideMazePathfinding:
		p.rideWalkThen(w, func() { p.mazeStep(w, g, r) })
	case RideApproachShop:
		p.rideWalkThen(w, func() {
			g.RideProgress = 0
			p.Sub.SetRide(RideInteractShop)
		})
	case RideInteractShop:
		p.rideInteractShop(w, g, r)
	case RideLeaveShop:
		p.approachExit(g, r)
	}
}

// accessFacing is the direction a ride entrance or exit opens onto. It fails
// when the access point has been removed from the tile.
func accessFacing(w *World, tc world.TileCoord) (world.Direction, bool) {
	t := w.Map.TileAt(tc)
	if t == nil || t.Access == nil {
		return 0, false
	}
	return t.Access.Direction, true
}

// rideWalkThen steps toward the destination and calls arrived once there.
func (p *Peep) rideWalkThen(w *World, arrived func()) {
	if next, ok := p.UpdateAction(w); ok {
		p.MoveTo(next)
		return
	}
	arrived()
}

func (p *Peep) approachExit(g *GuestRole, r *ride.Ride) {
	p.setRideState(StateLeavingRide, RideApproachExit)
	p.SetDestination(r.Stations[g.CurrentRideStation].Exit.Center(), 2)
}

// rideAtEntrance holds the front guest until the ride can take them. Vehicle
// rides reserve a seat here; the seat stays claimed until the guest boards.
func (p *Peep) rideAtEntrance(w *World, g *GuestRole, r *ride.Ride) {
	if !r.IsOpen() || r.BrokenDown() {
		p.RemoveFromQueue(w)
		p.SetState(StateOne)
		p.returnToCentre()
		return
	}
	if r.HasVehicles() {
		train, car, seat, ok := r.FindFreeSeat()
		if !ok || r.ClaimSeat(train, car, seat, p.Index) != nil {
			return
		}
		g.CurrentTrain, g.CurrentCar, g.CurrentSeat = uint8(train), uint8(car), uint8(seat)
	} else if r.Class == ride.ClassRide && r.Mode != ride.ModeSpiralSlide && !r.HasRoom() {
		return
	}
	p.RemoveFromQueue(w)
	p.Flags &^= FlagRode
	st := &r.Stations[g.CurrentRideStation]
	p.Sub.SetRide(RideInEntrance)
	p.SetDestination(st.Entrance.Center(), 2)
}

// rideFreeVehicleCheck is where the guest pays. A guest who can no longer pay
// gives up the seat and is shown out.
func (p *Peep) rideFreeVehicleCheck(w *World, g *GuestRole, r *ride.Ride) {
	if !r.HasVehicles() && r.Mode != ride.ModeSpiralSlide && !r.HasRoom() {
		return
	}
	if p.Flags&FlagRidePaid == 0 {
		price := r.Price
		if g.hasFreeRideVoucher(r.ID) {
			price = 0
			g.RemoveItem(ride.ItemVoucher)
		}
		if price > 0 && !w.Park.NoMoney {
			if price > g.CashInPocket {
				p.InsertNewThought(ThoughtCantAfford0, uint8(r.ID))
				r.VacateSeat(int(g.CurrentTrain), int(g.CurrentCar), int(g.CurrentSeat), p.Index)
				p.approachExit(g, r)
				return
			}
			p.SpendMoney(w, &g.PaidOnRides, price, economy.ExpenditureParkRideTickets)
		}
		r.OnEnter()
		p.Flags |= FlagRidePaid
		if p.Flags&FlagHereWeAre != 0 {
			p.InsertNewThought(ThoughtHereWeAre, uint8(r.ID))
		}
	}

	st := &r.Stations[g.CurrentRideStation]
	switch {
	case r.HasVehicles():
		p.Sub.SetRide(RideLeaveEntrance)
		p.SetDestination(st.Entrance.Step(st.Facing).Center(), 2)
	case r.Mode == ride.ModeSpiralSlide:
		p.Sub.SetRide(RideApproachSpiralSlide)
		p.SetDestination(st.Start.Center(), 2)
	case r.Mode == ride.ModeMaze:
		g.RideProgress = 0
		g.MazeLastEdge = uint8(st.Facing)
		p.Flags |= FlagRode
		p.Sub.SetRide(RideMazePathfinding)
		p.SetDestination(st.Start.Center(), 2)
	default:
		p.Sub.SetRide(RideApproachShop)
		p.SetDestination(st.Start.Center(), 2)
	}
}

func (p *Peep) rideEnterVehicle(w *World, g *GuestRole, r *ride.Ride) {
	if !r.BoardSeat(int(g.CurrentTrain), int(g.CurrentCar), int(g.CurrentSeat), p.Index) {
		// The claim was lost, typically to a pickup or reload.
		p.approachExit(g, r)
		return
	}
	g.TimeOnRide = 0
	p.Flags |= FlagRode
	p.setRideState(StateOnRide, RideOnRide)
	p.SwitchToSpecialSprite(SpecialNone)
}

// rideOnRide waits for the train to come back and start unloading.
func (p *Peep) rideOnRide(w *World, g *GuestRole, r *ride.Ride) {
	t := r.Train(int(g.CurrentTrain))
	if t == nil {
		p.setRideState(StateLeavingRide, RideLeaveVehicle)
		return
	}
	if t.Status != ride.TrainUnloading {
		return
	}
	p.setRideState(StateLeavingRide, RideLeaveVehicle)
}

// mazeStep picks the next tile of the maze, preferring not to double back.
func (p *Peep) mazeStep(w *World, g *GuestRole, r *ride.Ride) {
	g.RideProgress++
	if g.RideProgress >= mazeTilesToVisit {
		p.approachExit(g, r)
		return
	}
	here := p.Pos.Tile()
	var options []world.Direction
	back := world.Direction(g.MazeLastEdge).Reverse()
	for d := world.Direction(0); d < world.NumDirections; d++ {
		t := w.Map.TileAt(here.Step(d))
		if t == nil || t.Ride != r.ID || d == back {
			continue
		}
		options = append(options, d)
	}
	if len(options) == 0 {
		options = []world.Direction{back}
		if t := w.Map.TileAt(here.Step(back)); t == nil || t.Ride != r.ID {
			p.approachExit(g, r)
			return
		}
	}
	d := options[w.RNG.Intn(len(options))]
	g.MazeLastEdge = uint8(d)
	p.SetDestination(here.Step(d).Center(), 2)
}

// rideInteractShop is a guest using a facility: toilets take time, kiosks sell.
func (p *Peep) rideInteractShop(w *World, g *GuestRole, r *ride.Ride) {
	if r.Type == ride.TypeToilets {
		g.RideProgress++
		p.Toilet = addU8(p.Toilet, -16)
		if p.Toilet > 0 && uint16(g.RideProgress) < r.RideTime {
			return
		}
		p.Toilet = 0
		p.HappinessTarget = addU8(p.HappinessTarget, 30)
		p.Sub.SetRide(RideLeaveShop)
		return
	}
	for _, sale := range r.Items {
		p.DecideAndBuyItem(w, r, sale.Item, sale.Price)
	}
	p.Sub.SetRide(RideLeaveShop)
}

// rideLeaveExit walks the guest out onto the path and back to normal life.
func (p *Peep) rideLeaveExit(w *World, g *GuestRole, r *ride.Ride) {
	if next, ok := p.UpdateAction(w); ok {
		p.MoveTo(next)
		return
	}
	if p.Flags&FlagRidePaid != 0 {
		r.OnExit()
		p.Flags &^= FlagRidePaid
	}
	p.Flags &^= FlagRode
	g.PreviousRide = r.ID
	g.PreviousRideTimeOut = 0
	g.CurrentRide = ride.NoRide
	tc := p.Pos.Tile()
	t := w.Map.TileAt(tc)
	sloped := t != nil && t.Path != nil && t.Path.Sloped
	p.SetNextLoc(tc, p.Facing, sloped, false)
	p.SetState(StateWalking)
	p.SetDestination(tc.Center(), 5)
}

// OnExitRide is what a ride leaves behind: memories, nausea, a new favourite
// and maybe a photo.
func (p *Peep) OnExitRide(w *World, r *ride.Ride) {
	g := p.Guest()
	if r.Class != ride.ClassRide {
		return
	}
	if g.NumRides < 255 {
		g.NumRides++
	}
	g.SetHasRidden(r.ID)
	g.SetHasRiddenRideType(r.Type)

	growth := int(r.Nausea) * 32 / (100 * (int(p.NauseaTolerance&3) + 1))
	p.NauseaTarget = addU8(p.NauseaTarget, growth)

	lo := int(p.Intensity.Min()) * 100
	hi := int(p.Intensity.Max()) * 100
	if int(r.Intensity) >= lo && int(r.Intensity) <= hi {
		p.HappinessTarget = addU8(p.HappinessTarget, 30)
		if r.Excitement >= 600 {
			p.InsertNewThought(ThoughtWasGreat, uint8(r.ID))
		}
	} else {
		p.HappinessTarget = addU8(p.HappinessTarget, -10)
	}

	if r.Value != economy.MoneyNull && r.Price > 0 && r.Price*2 <= r.Value {
		p.InsertNewThought(ThoughtGoodValue, uint8(r.ID))
	}

	rating := uint8(min(max(int(r.Excitement)/4, 0), 255))
	if rating > g.FavouriteRideRating {
		if prev := w.Rides.Get(g.FavouriteRide); prev != nil && prev.Favourites > 0 && p.Flags&FlagRideFavourite != 0 {
			prev.Favourites--
		}
		g.FavouriteRide = r.ID
		g.FavouriteRideRating = rating
		r.Favourites++
		p.Flags |= FlagRideFavourite
	}

	if price, ok := r.Sells(ride.ItemPhoto); ok {
		p.DecideAndBuyItem(w, r, ride.ItemPhoto, price)
	}
	p.WindowInvalidate |= InvalidateStats
}
