package peep

import (
	"log/slog"

	"github.com/talgya/park-peeps/internal/economy"
	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

// Nausea rating a guest will accept, by tolerance, before happiness is added.
var nauseaMaximumThresholds = [...]int{300, 600, 800, 1000}

// rideSightRadius is how far, in tiles, a guest without a map can see rides.
const rideSightRadius = 13

// maxQueueLength is the queue length at which guests stop joining.
const maxQueueLength = 1000

// rideSet is a bitset over ride IDs.
type rideSet [MaxRideSetBytes]uint8

// MaxRideSetBytes covers every ride ID.
const MaxRideSetBytes = (ride.MaxRides + 7) / 8

func (s *rideSet) add(id ride.ID) {
	if int(id) < ride.MaxRides {
		s[id/8] |= 1 << (id % 8)
	}
}

func (s *rideSet) has(id ride.ID) bool {
	return int(id) < ride.MaxRides && s[id/8]&(1<<(id%8)) != 0
}

// visibleFromAfar reports whether a ride is tall enough to be seen from
// anywhere in the park.
func visibleFromAfar(r *ride.Ride) bool {
	return r.Type == ride.TypeWoodenCoaster || r.Type == ride.TypeFerrisWheel
}

func (g *GuestRole) hasFreeRideVoucher(id ride.ID) bool {
	return g.HasItem(ride.ItemVoucher) && g.VoucherType == VoucherRideFree && g.VoucherRide == id
}

func (g *GuestRole) hasFreeItemVoucher(item ride.ShopItem) bool {
	return g.HasItem(ride.ItemVoucher) && g.VoucherType == VoucherFoodOrDrinkFree && g.VoucherRide == ride.ID(item)
}

// ShouldGoOnRide decides whether a guest is willing to ride. atQueue is set when
// the guest stands at the back of the queue and would join it; thinking is set
// when the guest is only considering rides to head for. A guest who is at the
// ride rather than thinking about it is left a thought saying why they refused,
// and remembers the refusal.
func (p *Peep) ShouldGoOnRide(w *World, r *ride.Ride, atQueue, thinking bool) bool {
	g := p.Guest()
	if g == nil {
		return false
	}
	atRide := !thinking
	if r.Class != ride.ClassRide {
		return p.ShouldGoToShop(w, r, atRide)
	}
	if !r.IsOpen() || r.BrokenDown() {
		p.ChoseNotToGoOnRide(w, r, atRide, false)
		return false
	}
	if r.ID == g.PreviousRide {
		p.ChoseNotToGoOnRide(w, r, atRide, false)
		return false
	}
	if r.QueueLength() >= maxQueueLength {
		p.ChoseNotToGoOnRide(w, r, atRide, true)
		return false
	}
	if atQueue && p.lastInQueueWaitedTooLong(w, r) {
		p.ChoseNotToGoOnRide(w, r, atRide, true)
		return false
	}

	free := g.hasFreeRideVoucher(r.ID)
	if !free && !w.Park.NoMoney && r.Price > 0 && r.Price > g.CashInPocket {
		if atRide {
			if g.CashInPocket <= 0 {
				p.InsertNewThought(ThoughtSpentMoney, ThoughtItemNone)
			} else {
				p.InsertNewThought(ThoughtCantAfford0, uint8(r.ID))
			}
		}
		p.ChoseNotToGoOnRide(w, r, atRide, true)
		return false
	}

	if w.Climate != nil && w.Climate.Raining() && !r.Covered {
		if atRide {
			p.InsertNewThought(ThoughtNotWhileRaining, uint8(r.ID))
			if p.HappinessTarget >= 64 {
				p.HappinessTarget -= 8
			}
		}
		p.ChoseNotToGoOnRide(w, r, atRide, true)
		return false
	}

	if r.ID != g.HeadingToRide || atRide {
		maxIntensity := min(int(p.Intensity.Max())*100, 1000) + int(p.Happiness)
		minIntensity := int(p.Intensity.Min())*100 - int(p.Happiness)
		if int(r.Intensity) < minIntensity {
			if atRide {
				p.InsertNewThought(ThoughtMoreThrilling, uint8(r.ID))
			}
			p.ChoseNotToGoOnRide(w, r, atRide, true)
			return false
		}
		if int(r.Intensity) > maxIntensity {
			if atRide {
				p.InsertNewThought(ThoughtIntense, uint8(r.ID))
			}
			p.ChoseNotToGoOnRide(w, r, atRide, true)
			return false
		}
		if int(r.Nausea) > nauseaMaximumThresholds[p.NauseaTolerance&3]+int(p.Happiness) {
			if atRide {
				p.InsertNewThought(ThoughtSickening, uint8(r.ID))
			}
			p.ChoseNotToGoOnRide(w, r, atRide, true)
			return false
		}
		if r.Nausea >= 140 && p.Nausea > 160 {
			p.ChoseNotToGoOnRide(w, r, atRide, true)
			return false
		}
	}

	if !free && !w.Park.NoMoney && r.Value != economy.MoneyNull && r.Price > 0 {
		value := r.Value
		if g.HasRidden(r.ID) {
			value -= value / 2
		}
		if r.Price > value {
			if atRide {
				p.InsertNewThought(ThoughtBadValue, uint8(r.ID))
				if p.HappinessTarget >= 60 {
					p.HappinessTarget -= 16
				}
			}
			p.ChoseNotToGoOnRide(w, r, atRide, true)
			return false
		}
	}

	if atRide && r.ID == g.FavouriteRide {
		p.HappinessTarget = addU8(p.HappinessTarget, 10)
	}
	return true
}

// lastInQueueWaitedTooLong reports whether the guest at the back of the ride's
// queue has already waited long enough to put newcomers off.
func (p *Peep) lastInQueueWaitedTooLong(w *World, r *ride.Ride) bool {
	st := &r.Stations[0]
	if len(st.Queue) == 0 {
		return false
	}
	last := w.Pool.Get(st.Queue[len(st.Queue)-1])
	if last == nil || last.Guest() == nil {
		return false
	}
	return last.Guest().TimeInQueue > queueTooLongToJoin
}

const queueTooLongToJoin = 1000

// ShouldGoToShop decides whether a guest wants to use a stall or facility.
func (p *Peep) ShouldGoToShop(w *World, r *ride.Ride, atShop bool) bool {
	g := p.Guest()
	if g == nil {
		return false
	}
	if !r.IsOpen() || r.BrokenDown() {
		p.ChoseNotToGoOnRide(w, r, atShop, false)
		return false
	}
	if r.Type == ride.TypeToilets {
		if p.Toilet < 70 {
			p.ChoseNotToGoOnRide(w, r, atShop, true)
			return false
		}
		// What a guest will pay for the toilets rises with need.
		toiletCost := economy.Money(int(p.Toilet)/16 - 12)
		if r.Price > toiletCost {
			if atShop {
				p.InsertNewThought(ThoughtNotPaying, uint8(r.ID))
				if p.HappinessTarget >= 60 {
					p.HappinessTarget -= 16
				}
			}
			p.ChoseNotToGoOnRide(w, r, atShop, true)
			return false
		}
	}
	if r.Price != 0 && !w.Park.NoMoney && r.Price > g.CashInPocket {
		if atShop {
			if g.CashInPocket <= 0 {
				p.InsertNewThought(ThoughtSpentMoney, ThoughtItemNone)
			} else {
				p.InsertNewThought(ThoughtCantAfford0, uint8(r.ID))
			}
		}
		p.ChoseNotToGoOnRide(w, r, atShop, true)
		return false
	}
	if atShop && r.ID == g.FavouriteRide {
		p.HappinessTarget = addU8(p.HappinessTarget, 10)
	}
	return true
}

// ChoseNotToGoOnRide records a refusal: the ride is remembered for a while so
// the guest does not turn straight back to it, and stops being a destination.
func (p *Peep) ChoseNotToGoOnRide(w *World, r *ride.Ride, atRide, updatePrevious bool) {
	g := p.Guest()
	if atRide && updatePrevious {
		g.PreviousRide = r.ID
		g.PreviousRideTimeOut = 0
	}
	if g.HeadingToRide == r.ID {
		g.HeadingToRide = ride.NoRide
		p.WindowInvalidate |= InvalidateAction
	}
	slog.Debug("guest declined ride", "guest", p.Index, "ride", r.Name)
}

// FindRidesToGoOn collects the rides a guest knows about: every ride when they
// carry a map, otherwise the rides within sight plus the tall ones.
func (p *Peep) FindRidesToGoOn(w *World) rideSet {
	var set rideSet
	g := p.Guest()
	if g.HasItem(ride.ItemMap) {
		for _, r := range w.Rides.All() {
			if r.Class == ride.ClassRide {
				set.add(r.ID)
			}
		}
		return set
	}
	here := p.Pos.Tile()
	for _, r := range w.Rides.All() {
		if r.Class != ride.ClassRide {
			continue
		}
		if visibleFromAfar(r) {
			set.add(r.ID)
			continue
		}
		for _, tc := range r.Tiles {
			if absInt(tc.X-here.X) <= rideSightRadius && absInt(tc.Y-here.Y) <= rideSightRadius {
				set.add(r.ID)
				break
			}
		}
	}
	return set
}

// Ride choice weights: score lost per tile walked and per guest already queuing,
// and the bonus for a ride whose intensity suits the guest.
const (
	rideDistancePenalty = 4
	rideQueuePenalty    = 8
	rideIntensityBonus  = 100
)

// rideScore weighs a ride for choosing where to go next: its excitement against
// the guest's taste, less the walk to its entrance and the queue in front of it.
func (p *Peep) rideScore(r *ride.Ride, here world.TileCoord) int {
	g := p.Guest()
	score := int(r.Excitement)
	if !g.HasRiddenRideType(r.Type) {
		score += score / 4
	}
	if r.ID == g.FavouriteRide {
		score += score / 2
	}
	lo, hi := int(p.Intensity.Min())*100, int(p.Intensity.Max())*100
	if int(r.Intensity) >= lo && int(r.Intensity) <= hi {
		score += rideIntensityBonus
	}
	if len(r.Stations) > 0 {
		score -= world.Distance(here, r.Stations[0].Entrance) * rideDistancePenalty
	}
	score -= r.QueueLength() * rideQueuePenalty
	return score
}

// FindBestRideToGoOn returns the acceptable ride with the highest score among
// the candidates. Ties go to the lowest ride ID.
func (p *Peep) FindBestRideToGoOn(w *World, candidates rideSet) *ride.Ride {
	var best *ride.Ride
	bestScore := 0
	here := p.Pos.Tile()
	for _, r := range w.Rides.All() {
		if !candidates.has(r.ID) || !p.ShouldGoOnRide(w, r, false, true) {
			continue
		}
		if s := p.rideScore(r, here); best == nil || s > bestScore {
			best, bestScore = r, s
		}
	}
	return best
}

// PickRideToGoOn has a wandering guest choose a ride to head for.
func (p *Peep) PickRideToGoOn(w *World) {
	g := p.Guest()
	if p.State != StateWalking || g.HeadingToRide != ride.NoRide || p.Flags&FlagLeavingPark != 0 {
		return
	}
	if g.HasFood() || p.Pos.IsNull() {
		return
	}
	r := p.FindBestRideToGoOn(w, p.FindRidesToGoOn(w))
	if r == nil {
		return
	}
	p.headFor(r)
	if g.HasItem(ride.ItemMap) && p.Action.IsIdle() {
		p.StartAction(ActionReadMap)
	}
}

func (p *Peep) headFor(r *ride.Ride) {
	g := p.Guest()
	g.HeadingToRide = r.ID
	g.IsLostCountdown = 200
	p.ResetPathfindGoal()
	p.WindowInvalidate |= InvalidateAction
}

// headForNearestRideWhere sends the guest to the closest known ride matching
// keep. It is how needs like hunger turn into a destination.
func (p *Peep) headForNearestRideWhere(w *World, keep func(*ride.Ride) bool) {
	g := p.Guest()
	if p.State != StateSitting && p.State != StateWatching && p.State != StateWalking {
		return
	}
	if p.Flags&FlagLeavingPark != 0 || p.OutsideOfPark || p.Pos.IsNull() {
		return
	}
	if g.HeadingToRide != ride.NoRide {
		if cur := w.Rides.Get(g.HeadingToRide); cur != nil && keep(cur) {
			return
		}
	}
	here := p.Pos.Tile()
	var best *ride.Ride
	bestDist := 0
	for _, r := range w.Rides.All() {
		if !keep(r) || len(r.Stations) == 0 {
			continue
		}
		if !g.HasItem(ride.ItemMap) && world.Distance(here, r.Stations[0].Entrance) > 2*rideSightRadius {
			continue
		}
		if !p.ShouldGoToShop(w, r, false) {
			continue
		}
		if d := world.Distance(here, r.Stations[0].Entrance); best == nil || d < bestDist {
			best, bestDist = r, d
		}
	}
	if best != nil {
		p.headFor(best)
	}
}

func sellsFood(r *ride.Ride) bool {
	for _, s := range r.Items {
		if s.Item.IsFood() {
			return true
		}
	}
	return false
}

func sellsDrink(r *ride.Ride) bool {
	for _, s := range r.Items {
		if s.Item.IsDrink() {
			return true
		}
	}
	return false
}

func isToilet(r *ride.Ride) bool { return r.Type == ride.TypeToilets }

// itemValue is what a guest thinks an item is worth in today's weather.
func itemValue(w *World, item ride.ShopItem) economy.Money {
	info := item.Info()
	v := info.Cost
	if w.Climate == nil {
		return v
	}
	switch {
	case w.Climate.Hot() && info.HotValue:
		v += v / 2
	case w.Climate.Cold() && info.ColdValue:
		v += v / 2
	case w.Climate.Hot() && info.ColdValue, w.Climate.Cold() && info.HotValue:
		v -= v / 3
	}
	return v
}

// DecideAndBuyItem has the guest consider one item on sale and buy it if they
// want it, can afford it and think the price fair. A guest with an empty
// pocket buys nothing unless they hold a voucher for the item.
func (p *Peep) DecideAndBuyItem(w *World, r *ride.Ride, item ride.ShopItem, price economy.Money) bool {
	g := p.Guest()
	hasVoucher := g.hasFreeItemVoucher(item)

	if g.HasItem(item) {
		p.InsertNewThought(ThoughtAlreadyGot, uint8(item))
		return false
	}
	if item.IsFood() || item.IsDrink() {
		if held, ok := g.firstConsumable(); ok {
			p.InsertNewThought(ThoughtHaventFinished, uint8(held))
			return false
		}
		if p.Nausea >= 145 {
			return false
		}
	}
	raining := w.Climate != nil && w.Climate.Raining()
	if raining && (item == ride.ItemBalloon || item == ride.ItemIceCream || item == ride.ItemCandyfloss || item == ride.ItemSunglasses) {
		return false
	}
	if w.Climate != nil && w.Climate.Temperature < 12 && (item == ride.ItemSunglasses || item == ride.ItemIceCream) {
		return false
	}
	if item.IsFood() && p.Hunger > 75 {
		p.InsertNewThought(ThoughtNotHungry, ThoughtItemNone)
		return false
	}
	if item.IsDrink() && p.Thirst > 75 {
		p.InsertNewThought(ThoughtNotThirsty, ThoughtItemNone)
		return false
	}
	if !hasVoucher && g.CashInPocket <= 0 && !w.Park.NoMoney {
		p.InsertNewThought(ThoughtSpentMoney, ThoughtItemNone)
		return false
	}
	if !hasVoucher && item.IsSouvenir() && item != ride.ItemMap && !(item == ride.ItemUmbrella && raining) {
		if w.RNG.Next()&0x3 != 0 {
			return false
		}
	}

	if !w.Park.NoMoney && !hasVoucher && price != 0 {
		if price > g.CashInPocket {
			p.InsertNewThought(ThoughtCantAfford, uint8(item))
			return false
		}
		value := itemValue(w, item)
		if !(item == ride.ItemUmbrella && raining) {
			if value < price {
				over := int(price - value)
				if p.Happiness >= 128 {
					over /= 2
				}
				if p.Happiness >= 180 {
					over /= 2
				}
				if over > int(w.RNG.Next()&0x07) {
					p.InsertNewThought(ItemExpensiveThought(item), uint8(item))
					return false
				}
			} else {
				under := max(int(value-price), 8)
				if under >= int(w.RNG.Next()&0x07) {
					p.InsertNewThought(ItemValueThought(item), uint8(item))
				}
				p.HappinessTarget = addU8(p.HappinessTarget, under*4)
				p.Happiness = addU8(p.Happiness, under*4)
			}
		}
	}

	g.GiveItem(item)
	switch item {
	case ride.ItemTShirt:
		p.TshirtColour = uint8(r.ID) & 0x1F
	case ride.ItemHat:
		g.HatColour = uint8(r.ID) & 0x1F
	case ride.ItemBalloon:
		g.BalloonColour = uint8(w.RNG.Intn(32))
	case ride.ItemUmbrella:
		g.UmbrellaColour = uint8(w.RNG.Intn(32))
	case ride.ItemMap:
		p.ResetPathfindGoal()
	}
	if item.IsPhoto() {
		for i := range g.PhotoRides {
			if g.PhotoRides[i] == ride.NoRide {
				g.PhotoRides[i] = r.ID
				break
			}
		}
	}

	switch {
	case hasVoucher:
		g.RemoveItem(ride.ItemVoucher)
	case item.IsFood():
		p.SpendMoney(w, &g.PaidOnFood, price, economy.ExpenditureFoodDrinkSales)
	case item.IsDrink():
		p.SpendMoney(w, &g.PaidOnDrink, price, economy.ExpenditureFoodDrinkSales)
	default:
		p.SpendMoney(w, &g.PaidOnSouvenirs, price, economy.ExpenditureShopSales)
	}
	if w.Finance != nil && !w.Park.NoMoney {
		stock := economy.ExpenditureShopStock
		if item.IsFood() || item.IsDrink() {
			stock = economy.ExpenditureFoodDrinkStock
		}
		w.Finance.SpendMoney(item.Info().Cost/2, stock)
	}

	switch {
	case item.IsFood():
		g.AmountOfFood = addU8(g.AmountOfFood, 1)
	case item.IsDrink():
		g.AmountOfDrinks = addU8(g.AmountOfDrinks, 1)
	default:
		g.AmountOfSouvenirs = addU8(g.AmountOfSouvenirs, 1)
	}
	p.WindowInvalidate |= InvalidateInventory
	p.UpdateSpriteType(w)

	if item.IsSouvenir() && w.guestsNear(p, 1) >= showOffCrowd {
		p.Flags |= FlagWaving
	}
	return true
}

// showOffCrowd is how many onlookers make a guest wave a new souvenir around.
const showOffCrowd = 3

// CheckIfLost makes a lost guest unhappier every so often. Guests only count as
// lost in parks with more than one ride.
func (p *Peep) CheckIfLost(w *World) {
	g := p.Guest()
	if p.Flags&FlagLost == 0 {
		if w.Rides.Count() < 2 {
			return
		}
		p.Flags ^= Flag21
		if p.Flags&Flag21 == 0 {
			return
		}
		g.TimeLost++
		if g.TimeLost != 254 {
			return
		}
		g.TimeLost = 230
	}
	p.InsertNewThought(ThoughtLost, ThoughtItemNone)
	p.HappinessTarget = addU8(p.HappinessTarget, -30)
}

// CheckCantFindRide gives up on a ride the guest has been looking for too long,
// complaining twice on the way.
func (p *Peep) CheckCantFindRide(w *World) {
	g := p.Guest()
	if g.HeadingToRide == ride.NoRide {
		return
	}
	if g.IsLostCountdown == 30 || g.IsLostCountdown == 60 {
		p.InsertNewThought(ThoughtCantFind, uint8(g.HeadingToRide))
		p.HappinessTarget = addU8(p.HappinessTarget, -30)
	}
	g.IsLostCountdown--
	if g.IsLostCountdown != 0 {
		return
	}
	g.HeadingToRide = ride.NoRide
	p.WindowInvalidate |= InvalidateAction
}

// CheckCantFindExit makes a guest who cannot find the way out steadily unhappier.
func (p *Peep) CheckCantFindExit(w *World) {
	g := p.Guest()
	if p.Flags&FlagLeavingPark == 0 {
		return
	}
	if g.IsLostCountdown == 1 {
		p.InsertNewThought(ThoughtCantFindExit, ThoughtItemNone)
		p.HappinessTarget = addU8(p.HappinessTarget, -30)
	}
	g.IsLostCountdown--
	if g.IsLostCountdown == 0 {
		g.IsLostCountdown = 90
	}
}
