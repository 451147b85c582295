package peep

import (
	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

const (
	crowdedGuests          = 10  // Guests on one tile before it feels crowded
	surroundingsInterval   = 18  // 128-tick updates between looking around
	noRideGiveUpAge        = 5   // 2048-tick periods without a ride before leaving
	pickRideChanceWithMap  = 8192
	pickRideChanceNoMap    = 2184
	queueSceneryHappiness  = 90
)

// Tick128UpdateGuest is the slow guest update, run once every 128 ticks per
// guest: crowding, moods, needs, ride choice and physiology.
func (p *Peep) Tick128UpdateGuest(w *World, g *GuestRole) {
	if p.Action.IsIdle() && !p.OutsideOfPark && (p.State == StateWalking || p.State == StateSitting) {
		if (w.walkingOn(p.Tile()) >= crowdedGuests || p.Flags&FlagCrowded != 0) && w.RNG.Next()&0xFFFF <= 16384 {
			p.InsertNewThought(ThoughtCrowded, ThoughtItemNone)
			p.HappinessTarget = addU8(p.HappinessTarget, -14)
		}
	}

	if p.Flags&FlagHunger != 0 && p.Hunger >= 15 {
		p.Hunger -= 15
	}
	if p.Flags&FlagToilet != 0 && p.Toilet <= 180 {
		p.Toilet = 180
	}
	if p.Flags&FlagHappiness != 0 {
		p.HappinessTarget = 5
	}
	if p.Flags&FlagNausea != 0 {
		p.NauseaTarget = 200
		p.Nausea = max(p.Nausea, 130)
	}
	if g.Angriness > 0 {
		g.Angriness--
	}

	if p.State == StateWalking || p.State == StateSitting {
		g.SurroundingsThoughtTimeout++
		if g.SurroundingsThoughtTimeout >= surroundingsInterval {
			g.SurroundingsThoughtTimeout = 0
			if !p.Pos.IsNull() {
				if t := p.assessSurroundings(w); t != ThoughtNone {
					p.InsertNewThought(t, ThoughtItemNone)
					p.HappinessTarget = addU8(p.HappinessTarget, 45)
				}
			}
		}
	}

	p.UpdateSpriteType(w)

	if p.State == StateOnRide || p.State == StateEnteringRide {
		g.TimeOnRide = addU8(g.TimeOnRide, 1)
		if p.Flags&FlagWow != 0 && w.RNG.Next()&0xFFFF <= 8192 {
			p.InsertNewThought(ThoughtWow2, ThoughtItemNone)
		}
		if g.TimeOnRide > 15 {
			p.HappinessTarget = addU8(p.HappinessTarget, -5)
			if g.TimeOnRide > 22 {
				thought := ThoughtGetOut
				if r := w.Rides.Get(g.CurrentRide); r != nil && r.HasVehicles() {
					thought = ThoughtGetOff
				}
				p.InsertNewThought(thought, uint8(g.CurrentRide))
			}
		}
	}

	if p.State == StateWalking && !p.OutsideOfPark && p.Flags&FlagLeavingPark == 0 &&
		g.NumRides == 0 && g.HeadingToRide == ride.NoRide && g.TimeInPark >= 0 {
		if (int64(w.Tick)-int64(g.TimeInPark))/2048 >= noRideGiveUpAge {
			p.PickRideToGoOn(w)
			if g.HeadingToRide == ride.NoRide {
				p.HappinessTarget = addU8(p.HappinessTarget, -128)
				p.LeavePark()
			}
		}
	}

	chance := uint32(pickRideChanceNoMap)
	if g.HasItem(ride.ItemMap) {
		chance = pickRideChanceWithMap
	}
	if w.RNG.Next()&0xFFFF <= chance {
		p.PickRideToGoOn(w)
	}

	if uint32(p.Index)&0x1FF == w.Tick&0x1FF {
		p.thinkAboutNeeds(w, g)
	} else if p.Nausea >= 128 {
		thought := ThoughtSick
		if p.Nausea >= 200 {
			thought = ThoughtVerySick
		}
		p.InsertNewThought(thought, ThoughtItemNone)
	}

	switch p.State {
	case StateWalking, StateLeavingPark, StateEnteringPark:
		p.decideWhetherToLeavePark(w, g)
		p.updateHunger()
	case StateSitting:
		if p.EnergyTarget <= 135 {
			p.EnergyTarget += 5
		}
		if p.Thirst >= 5 {
			p.Thirst -= 4
			p.Toilet = addU8(p.Toilet, 3)
		}
		if p.NauseaTarget >= 50 {
			p.NauseaTarget -= 6
		}
	case StateQueuing:
		if g.TimeInQueue >= queueRestlessTime {
			if p.sceneryNearby(w) {
				p.HappinessTarget = max(p.HappinessTarget, queueSceneryHappiness)
			} else {
				p.HappinessTarget = addU8(p.HappinessTarget, -3)
				p.InsertNewThought(ThoughtQueuingAges, uint8(g.CurrentRide))
			}
		}
		p.updateHunger()
	case StateEnteringRide:
		if sub, err := p.Sub.TryRide(); err == nil && (sub == RideMazePathfinding || sub == RideOnSpiralSlide) {
			p.decideWhetherToLeavePark(w, g)
		}
		p.updateHunger()
	}

	p.updatePhysiology(w, g)
}

// thinkAboutNeeds picks one pressing need to think about and, for the ones a
// stall can fix, sets off toward the nearest.
func (p *Peep) thinkAboutNeeds(w *World, g *GuestRole) {
	var possible []ThoughtType
	if p.Flags&FlagLeavingPark != 0 {
		possible = append(possible, ThoughtGoHome)
	} else {
		if p.Energy <= 70 && p.Happiness < 128 {
			possible = append(possible, ThoughtTired)
		}
		if p.Hunger <= 10 && !g.HasFood() {
			possible = append(possible, ThoughtHungry)
		}
		if p.Thirst <= 25 && !g.HasFood() {
			possible = append(possible, ThoughtThirsty)
		}
		if p.Toilet >= 160 {
			possible = append(possible, ThoughtToilet)
		}
		if !w.Park.NoMoney && g.CashInPocket <= 90 && p.Happiness >= 105 && p.Energy >= 70 {
			possible = append(possible, ThoughtRunningOut)
		}
	}
	if len(possible) == 0 {
		return
	}
	chosen := possible[w.RNG.Intn(len(possible))]
	p.InsertNewThought(chosen, ThoughtItemNone)
	switch chosen {
	case ThoughtHungry:
		p.headForNearestRideWhere(w, sellsFood)
	case ThoughtThirsty:
		p.headForNearestRideWhere(w, sellsDrink)
	case ThoughtToilet:
		p.headForNearestRideWhere(w, isToilet)
	}
}

func (p *Peep) sceneryNearby(w *World) bool {
	here := p.Pos.Tile()
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if n := w.Map.TileAt(world.TileCoord{X: here.X + dx, Y: here.Y + dy}); n != nil && (n.Scenery || n.Garden != nil) {
				return true
			}
		}
	}
	return false
}
