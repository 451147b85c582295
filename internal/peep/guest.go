package peep

import (
	"github.com/talgya/park-peeps/internal/economy"
	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

// GuestRole is the guest half of a peep.
type GuestRole struct {
	NumRides uint8 `json:"num_rides"`

	CurrentRide        ride.ID `json:"current_ride"`
	CurrentRideStation uint8   `json:"current_ride_station"`
	CurrentTrain       uint8   `json:"current_train"`
	CurrentCar         uint8   `json:"current_car"`
	CurrentSeat        uint8   `json:"current_seat"`
	ChosenParkEntrance uint8   `json:"chosen_park_entrance"`
	InteractionRide    ride.ID `json:"interaction_ride"`
	HeadingToRide      ride.ID `json:"heading_to_ride"`
	IsLostCountdown    uint8   `json:"is_lost_countdown"`
	TimeOnRide         uint8   `json:"time_on_ride"`
	RideProgress       uint8   `json:"ride_progress"` // Slide ticks, maze tiles or toilet time
	MazeLastEdge       uint8   `json:"maze_last_edge"`

	TimeToSitdown uint16 `json:"time_to_sitdown"`
	TimeToStand   uint8  `json:"time_to_stand"`
	StandingFlags uint8  `json:"standing_flags"`

	TimeInQueue        uint16 `json:"time_in_queue"`
	DaysInQueue        uint8  `json:"days_in_queue"`
	RejoinQueueTimeout int8   `json:"rejoin_queue_timeout"`

	RidesBeenOn         [32]uint8 `json:"rides_been_on"`
	RideTypesBeenOn     [16]uint8 `json:"ride_types_been_on"`
	PreviousRide        ride.ID   `json:"previous_ride"`
	PreviousRideTimeOut uint16    `json:"previous_ride_time_out"`
	FavouriteRide       ride.ID   `json:"favourite_ride"`
	FavouriteRideRating uint8     `json:"favourite_ride_rating"`

	CashInPocket    economy.Money `json:"cash_in_pocket"`
	CashSpent       economy.Money `json:"cash_spent"`
	PaidToEnter     economy.Money `json:"paid_to_enter"`
	PaidOnRides     economy.Money `json:"paid_on_rides"`
	PaidOnFood      economy.Money `json:"paid_on_food"`
	PaidOnDrink     economy.Money `json:"paid_on_drink"`
	PaidOnSouvenirs economy.Money `json:"paid_on_souvenirs"`
	TimeInPark      int32         `json:"time_in_park"`

	ItemStandardFlags uint32     `json:"item_standard_flags"`
	ItemExtraFlags    uint32     `json:"item_extra_flags"`
	PhotoRides        [4]ride.ID `json:"photo_rides"`
	VoucherType       uint8      `json:"voucher_type"`
	VoucherRide       ride.ID    `json:"voucher_ride"` // Ride or shop item, by VoucherType
	TimeToConsume     uint8      `json:"time_to_consume"`
	AmountOfFood      uint8      `json:"amount_of_food"`
	AmountOfDrinks    uint8      `json:"amount_of_drinks"`
	AmountOfSouvenirs uint8      `json:"amount_of_souvenirs"`
	BalloonColour     uint8      `json:"balloon_colour"`
	UmbrellaColour    uint8      `json:"umbrella_colour"`
	HatColour         uint8      `json:"hat_colour"`

	LitterCount                uint8 `json:"litter_count"`     // 0x3F recent litter seen, 0xC0 thought timer
	DisgustingCount            uint8 `json:"disgusting_count"` // 0x3F recent sick seen, 0xC0 thought timer
	VandalismSeen              uint8 `json:"vandalism_seen"`   // 0x3F tiles seen, 0xC0 thought timer
	SurroundingsThoughtTimeout uint8 `json:"surroundings_thought_timeout"`
	Angriness                  uint8 `json:"angriness"`
	TimeLost                   uint8 `json:"time_lost"`
}

func (*GuestRole) peepType() PeepType { return TypeGuest }

// Voucher kinds.
const (
	VoucherEntryFree uint8 = iota
	VoucherEntryHalfPrice
	VoucherRideFree
	VoucherFoodOrDrinkFree
)

func newGuestRole() *GuestRole {
	g := &GuestRole{
		CurrentRide:     ride.NoRide,
		InteractionRide: ride.NoRide,
		HeadingToRide:   ride.NoRide,
		PreviousRide:    ride.NoRide,
		FavouriteRide:   ride.NoRide,
		VoucherRide:     ride.NoRide,
		TimeInPark:      -1,
	}
	for i := range g.PhotoRides {
		g.PhotoRides[i] = ride.NoRide
	}
	return g
}

// HasRidden reports whether the guest has been on a ride.
func (g *GuestRole) HasRidden(id ride.ID) bool {
	return id < 256 && g.RidesBeenOn[id/8]&(1<<(id%8)) != 0
}

// SetHasRidden marks a ride as ridden.
func (g *GuestRole) SetHasRidden(id ride.ID) {
	if id < 256 {
		g.RidesBeenOn[id/8] |= 1 << (id % 8)
	}
}

// HasRiddenRideType reports whether the guest has been on any ride of a type.
func (g *GuestRole) HasRiddenRideType(t ride.Type) bool {
	return int(t) < 128 && g.RideTypesBeenOn[t/8]&(1<<(t%8)) != 0
}

// SetHasRiddenRideType marks a ride type as ridden.
func (g *GuestRole) SetHasRiddenRideType(t ride.Type) {
	if int(t) < 128 {
		g.RideTypesBeenOn[t/8] |= 1 << (t % 8)
	}
}

// HeadingForRideOrParkExit reports whether the guest already has somewhere to go.
func (p *Peep) HeadingForRideOrParkExit() bool {
	g := p.Guest()
	return p.Flags&FlagLeavingPark != 0 || (g != nil && g.HeadingToRide != ride.NoRide)
}

// UpdateGuest dispatches a guest's state handler.
func (p *Peep) UpdateGuest(w *World) {
	g := p.Guest()
	switch p.State {
	case StateQueuingFront, StateEnteringRide, StateOnRide, StateLeavingRide:
		p.UpdateRide(w, g)
	case StateWalking:
		p.UpdateWalking(w, g)
	case StateQueuing:
		p.UpdateQueuing(w, g)
	case StateSitting:
		p.UpdateSitting(w, g)
	case StateEnteringPark:
		p.UpdateEnteringPark(w, g)
	case StateLeavingPark:
		p.UpdateLeavingPark(w, g)
	case StateBuying:
		p.UpdateBuying(w, g)
	case StateWatching:
		p.UpdateWatching(w, g)
	case StateUsingBin:
		p.UpdateUsingBin(w, g)
	}
}

// UpdateWalking is a guest wandering the paths: it litters, looks for benches,
// bins and sights, then takes the next step.
func (p *Peep) UpdateWalking(w *World, g *GuestRole) {
	if !p.CheckForPath(w) {
		return
	}

	if p.Flags&FlagWaving != 0 && p.Action.IsIdle() && w.RNG.Next()&0xFFFF < 0x3333 {
		p.StartAction(ActionWave2)
	}
	if p.Flags&FlagPhoto != 0 && p.Action.IsIdle() && w.RNG.Next()&0xFFFF < 0x3333 {
		p.StartAction(ActionTakePhoto)
	}
	if p.Flags&FlagPainting != 0 && p.Action.IsIdle() && w.RNG.Next()&0xFFFF < 0x3333 {
		p.StartAction(ActionDrawPicture)
	}

	if p.Flags&FlagLitter != 0 && !p.NextSurface && w.RNG.Next()&0xFFFF <= 4096 {
		w.Map.AddLitter(p.Tile(), 1)
	} else if g.HasEmptyContainer() && !p.NextSurface && w.RNG.Next()&0xFFFF <= 4096 {
		if c := g.itemsWhere(ride.ShopItem.IsContainer); len(c) > 0 {
			g.RemoveItem(c[0])
			p.WindowInvalidate |= InvalidateInventory
			p.UpdateSpriteType(w)
			w.Map.AddLitter(p.Tile(), 1)
		}
	}

	p.updateWalkingBreakScenery(w, g)

	if p.Flags&FlagLeavingPark == 0 && !p.OutsideOfPark && p.Action.IsIdle() {
		if p.updateWalkingFindBench(w, g) || p.updateWalkingFindBin(w, g) || p.updateWalkingFindSights(w, g) {
			return
		}
	}

	result := p.PerformNextAction(w)
	if result&PathingDestinationReached == 0 {
		return
	}
	if t := w.Map.TileAt(p.Tile()); t != nil && t.Path != nil && t.Path.Queue {
		p.SetState(StateOne)
	}
}

// securityDeterrenceRadius is how close a guard must be to stop vandalism.
const securityDeterrenceRadius = 5

// updateWalkingBreakScenery lets an angry or disgusted guest smash the bench
// or bin they are passing, unless a security guard is nearby.
func (p *Peep) updateWalkingBreakScenery(w *World, g *GuestRole) {
	if p.NextSurface || p.OutsideOfPark {
		return
	}
	if p.Flags&FlagAngry == 0 {
		if p.Happiness >= 48 || p.Energy < 85 {
			return
		}
		if g.LitterCount&0xC0 != 0xC0 && g.DisgustingCount&0xC0 != 0xC0 {
			return
		}
		if w.RNG.Next()&0xFFFF > 3276 {
			return
		}
	}
	t := w.Map.TileAt(p.Tile())
	if t == nil || t.Vandalized || (!t.Bench && t.Bin == nil) {
		return
	}
	if w.securityNearby(p.Tile(), securityDeterrenceRadius) {
		return
	}
	t.Vandalized = true
	g.Angriness = 16
}

func (p *Peep) shouldFindBench() bool {
	g := p.Guest()
	if g == nil || p.Flags&FlagLeavingPark != 0 || g.HeadingToRide != ride.NoRide {
		return false
	}
	if g.HasFood() {
		return p.Hunger < 128 || p.Happiness < 128
	}
	return p.Nausea >= 170 || p.Energy < 60
}

// updateWalkingFindBench sits a tired, queasy or hungry guest down on a bench
// tile they are standing on.
func (p *Peep) updateWalkingFindBench(w *World, g *GuestRole) bool {
	if !p.shouldFindBench() {
		return false
	}
	t := w.Map.TileAt(p.Tile())
	if t == nil || !t.Bench || t.Vandalized {
		return false
	}
	if w.walkingOn(p.Tile()) > 4 {
		return false
	}
	p.SetState(StateSitting)
	p.Sub.SetSitting(SittingTryingToSit)
	p.SetDestination(p.Tile().Center(), 3)
	return true
}

// updateWalkingFindBin walks a guest carrying rubbish to a bin on their tile.
func (p *Peep) updateWalkingFindBin(w *World, g *GuestRole) bool {
	if !g.HasEmptyContainer() {
		return false
	}
	t := w.Map.TileAt(p.Tile())
	if t == nil || t.Bin == nil || t.Bin.Full() || t.Vandalized {
		return false
	}
	p.SetState(StateUsingBin)
	p.Sub.SetUsingBin(UsingBinWalkingToBin)
	p.SetDestination(p.Tile().Center(), 3)
	return true
}

// updateWalkingFindSights stops a content guest beside an open ride to watch it.
func (p *Peep) updateWalkingFindSights(w *World, g *GuestRole) bool {
	if g.HeadingToRide != ride.NoRide || p.Energy < 80 || p.Happiness < 110 {
		return false
	}
	if w.RNG.Next()&0xFFFF > 0x100 {
		return false
	}
	tc := p.Tile()
	for d := world.Direction(0); d < world.NumDirections; d++ {
		n := w.Map.TileAt(tc.Step(d))
		if n == nil || n.Ride == world.NoRide {
			continue
		}
		r := w.Rides.Get(n.Ride)
		if r == nil || !r.IsOpen() || r.Class != ride.ClassRide {
			continue
		}
		p.SetState(StateWatching)
		g.CurrentRide = r.ID
		g.TimeToStand = uint8(w.RNG.Intn(64) + 64)
		g.StandingFlags = 0
		p.Facing = d
		p.SetDestination(p.Tile().Center(), 5)
		return true
	}
	return false
}

// UpdateSitting sits a guest on a bench until they are rested or fed.
func (p *Peep) UpdateSitting(w *World, g *GuestRole) {
	switch p.Sub.Sitting() {
	case SittingTryingToSit:
		if !p.CheckForPath(w) {
			return
		}
		if next, ok := p.UpdateAction(w); ok {
			p.MoveTo(next)
			return
		}
		p.Sub.SetSitting(SittingSatDown)
		p.Action = ActionNone1
		p.ActionSpriteType = SpriteActionSittingIdle
		p.NextActionSpriteType = SpriteActionSittingIdle
		g.TimeToSitdown = uint16(w.RNG.Intn(128) + 64)
	case SittingSatDown:
		if !p.Action.IsIdle() {
			p.UpdateAction(w)
			if !p.Action.IsIdle() {
				return
			}
			p.Action = ActionNone1
			p.ActionSpriteType = SpriteActionSittingIdle
			p.NextActionSpriteType = SpriteActionSittingIdle
			p.TryGetUpFromSitting()
			return
		}
		if p.Flags&FlagLeavingPark != 0 {
			p.standUp()
			return
		}
		if p.Nausea > 140 {
			p.standUp()
			return
		}
		if g.HasFood() {
			if w.RNG.Next()&0xFFFF > 1310 {
				p.TryGetUpFromSitting()
				return
			}
			p.StartAction(ActionSittingEatFood)
			return
		}
		r := w.RNG.Next() & 0xFFFF
		switch {
		case r > 131:
			p.TryGetUpFromSitting()
		case p.Happiness >= 180 || r&1 != 0:
			p.StartAction(ActionSittingLookAroundRight)
		default:
			p.StartAction(ActionSittingLookAroundLeft)
		}
	}
}

// TryGetUpFromSitting stands a guest up once their sitting time has run out.
func (p *Peep) TryGetUpFromSitting() {
	g := p.Guest()
	if g.TimeToSitdown > 0 {
		g.TimeToSitdown--
		return
	}
	p.standUp()
}

func (p *Peep) standUp() {
	p.SetState(StateWalking)
	p.SetDestination(p.Tile().Center(), 5)
}

// UpdateUsingBin throws away the guest's empty containers.
func (p *Peep) UpdateUsingBin(w *World, g *GuestRole) {
	switch p.Sub.UsingBin() {
	case UsingBinWalkingToBin:
		if !p.CheckForPath(w) {
			return
		}
		if next, ok := p.UpdateAction(w); ok {
			p.MoveTo(next)
			return
		}
		p.Sub.SetUsingBin(UsingBinGoingBack)
		t := w.Map.TileAt(p.Tile())
		for _, c := range g.itemsWhere(ride.ShopItem.IsContainer) {
			if t != nil && t.Bin != nil && !t.Bin.Full() {
				t.Bin.Fill++
			} else if t != nil {
				w.Map.AddLitter(p.Tile(), 1)
			}
			g.RemoveItem(c)
		}
		p.WindowInvalidate |= InvalidateInventory
		p.UpdateSpriteType(w)
		p.SetDestination(p.Tile().Center(), 5)
	case UsingBinGoingBack:
		if next, ok := p.UpdateAction(w); ok {
			p.MoveTo(next)
			return
		}
		p.StateReset()
	}
}

// UpdateWatching stands a guest beside a ride for a while.
func (p *Peep) UpdateWatching(w *World, g *GuestRole) {
	switch p.Sub.Step() {
	case 0:
		if !p.CheckForPath(w) {
			return
		}
		if next, ok := p.UpdateAction(w); ok {
			p.MoveTo(next)
			return
		}
		p.Sub.SetStep(1)
		p.Action = ActionNone1
		p.ActionSpriteType = SpriteActionWatchRide
		p.NextActionSpriteType = SpriteActionWatchRide
		g.StandingFlags |= 1
		p.UpdateSpriteType(w)
	default:
		if !p.Action.IsIdle() {
			p.UpdateAction(w)
			return
		}
		if p.HeadingForRideOrParkExit() {
			p.stopWatching(w, g)
			return
		}
		if w.RNG.Next()&0xFFFF <= 1310 {
			p.StartAction(ActionEatFood)
			if !g.HasFood() {
				p.StartAction(ActionCheckTime)
			}
			return
		}
		if w.RNG.Next()&0xFFFF <= 655 {
			p.StartAction(ActionTakePhoto)
			return
		}
		if g.TimeToStand > 0 {
			g.TimeToStand--
			return
		}
		p.stopWatching(w, g)
	}
}

func (p *Peep) stopWatching(w *World, g *GuestRole) {
	g.StandingFlags = 0
	g.CurrentRide = ride.NoRide
	p.SetState(StateWalking)
	p.UpdateSpriteType(w)
	p.SetDestination(p.Tile().Center(), 5)
}

// UpdateBuying has a guest buy from a stall counter and step back onto the path.
func (p *Peep) UpdateBuying(w *World, g *GuestRole) {
	r := w.Rides.Get(g.CurrentRide)
	if r == nil || !r.IsOpen() {
		p.leaveShopCounter(w, g)
		return
	}
	switch p.Sub.Step() {
	case 0:
		if next, ok := p.UpdateAction(w); ok {
			p.MoveTo(next)
			return
		}
		bought := false
		for _, sale := range r.Items {
			if p.DecideAndBuyItem(w, r, sale.Item, sale.Price) {
				bought = true
			}
		}
		if bought {
			r.TotalCustomers++
			p.StartAction(ActionWithdrawMoney)
			if g.HasFood() {
				p.StartAction(ActionEatFood)
			}
		} else {
			p.ChoseNotToGoOnRide(w, r, true, false)
		}
		p.Sub.SetStep(1)
	default:
		if !p.Action.IsIdle() {
			p.UpdateAction(w)
			return
		}
		p.leaveShopCounter(w, g)
	}
}

func (p *Peep) leaveShopCounter(w *World, g *GuestRole) {
	g.InteractionRide = ride.NoRide
	g.CurrentRide = ride.NoRide
	p.SetState(StateWalking)
	p.returnToCentre()
	p.NextDirection = p.Facing
}

// UpdateEnteringPark walks an arriving guest from outside the park to the gate.
func (p *Peep) UpdateEnteringPark(w *World, g *GuestRole) {
	result := p.PerformNextAction(w)
	if result&PathingOutsidePark != 0 {
		w.Remove(p)
	}
}

// enterThroughGate admits a guest who has reached the gate, or turns them away.
func (p *Peep) enterThroughGate(w *World, g *GuestRole) {
	fee := w.Park.EntranceFee
	if g.HasItem(ride.ItemVoucher) {
		switch g.VoucherType {
		case VoucherEntryFree:
			fee = 0
		case VoucherEntryHalfPrice:
			fee /= 2
		}
	}
	if !w.Park.Open || w.GuestsInPark >= uint32(w.Park.MaxGuests) || (!w.Park.NoMoney && fee > g.CashInPocket) {
		if fee > g.CashInPocket {
			p.InsertNewThought(ThoughtCantAfford0, ThoughtItemNone)
		}
		p.Flags |= FlagLeavingPark
		p.SetState(StateLeavingPark)
		p.Sub.SetStep(1)
		w.HeadingForParkDec()
		p.turnToExit(w)
		return
	}
	if fee > 0 && !w.Park.NoMoney {
		p.SpendMoney(w, &g.PaidToEnter, fee, economy.ExpenditureParkEntranceTickets)
		p.Flags |= FlagHasPaidParkEntry
	}
	if g.HasItem(ride.ItemVoucher) && g.VoucherType <= VoucherEntryHalfPrice {
		g.RemoveItem(ride.ItemVoucher)
	}
	p.OutsideOfPark = false
	g.TimeInPark = int32(w.Tick)
	w.GuestsInPark++
	w.HeadingForParkDec()
	p.SetState(StateWalking)
	p.SetDestination(p.Tile().Step(world.DirNorth).Center(), 2)
}

// UpdateLeavingPark walks a departing guest off the edge of the map.
func (p *Peep) UpdateLeavingPark(w *World, g *GuestRole) {
	result := p.PerformNextAction(w)
	if result&PathingOutsidePark != 0 {
		w.Remove(p)
		return
	}
	if result&PathingDestinationReached != 0 && p.OutsideOfPark {
		p.turnToExit(w)
	}
}

// leaveThroughGate moves a guest from the park to the outside at the gate.
func (p *Peep) leaveThroughGate(w *World, g *GuestRole) {
	p.OutsideOfPark = true
	if w.GuestsInPark > 0 {
		w.GuestsInPark--
	}
	p.Flags &^= FlagLost
	p.SetState(StateLeavingPark)
	p.Sub.SetStep(1)
	p.turnToExit(w)
}

// turnToExit aims an outside guest at the map edge beyond the gate.
func (p *Peep) turnToExit(w *World) {
	tc := p.Tile()
	p.SetDestination(world.TileCoord{X: tc.X, Y: -1}.Center(), 0)
	p.NextDirection = world.DirSouth
}
