package peep

import (
	"github.com/talgya/park-peeps/internal/economy"
	"github.com/talgya/park-peeps/internal/ride"
)

func clampU8(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

func addU8(v uint8, d int) uint8 {
	return clampU8(int(v) + d)
}

// easeToward moves cur toward target by at most step without overshooting.
func easeToward(cur, target uint8, step int) uint8 {
	if cur >= target {
		v := int(cur) - step
		if v < int(target) {
			v = int(target)
		}
		return uint8(v)
	}
	v := int(cur) + step
	if v > int(target) {
		v = int(target)
	}
	return uint8(v)
}

// easeAttributes brings energy, happiness and nausea one step closer to their
// targets. Energy falls by 2 and rises by 4 and is held in [MinEnergy,
// MaxEnergy] even though its target may range over the whole byte.
func (p *Peep) easeAttributes() {
	energy := int(easeToward(p.Energy, p.EnergyTarget, 4))
	if p.Energy >= p.EnergyTarget {
		energy = int(easeToward(p.Energy, p.EnergyTarget, 2))
	}
	energy = max(energy, MinEnergy)
	energy = min(energy, MaxEnergy)
	if uint8(energy) != p.Energy {
		p.Energy = uint8(energy)
		p.WindowInvalidate |= Invalidate2
	}
	if h := easeToward(p.Happiness, p.HappinessTarget, 4); h != p.Happiness {
		p.Happiness = h
		p.WindowInvalidate |= Invalidate2
	}
	if n := easeToward(p.Nausea, p.NauseaTarget, 4); n != p.Nausea {
		p.Nausea = n
		p.WindowInvalidate |= Invalidate2
	}
}

// updatePhysiology is the slow part of a guest's 128-tick update: happiness
// drifts toward the middle, nausea settles, needs saturate, food is eaten and
// the current values ease toward their targets.
func (p *Peep) updatePhysiology(w *World, g *GuestRole) {
	if p.HappinessTarget >= 128 {
		p.HappinessTarget--
	} else {
		p.HappinessTarget++
	}
	p.NauseaTarget = addU8(p.NauseaTarget, -2)
	if p.Energy <= 50 {
		p.HappinessTarget = addU8(p.HappinessTarget, -2)
	}
	if p.Hunger < 10 {
		p.Hunger = addU8(p.Hunger, -1)
	}
	if p.Thirst < 10 {
		p.Thirst = addU8(p.Thirst, -1)
	}
	if p.Toilet >= 195 {
		p.Toilet--
	}

	if p.State == StateWalking && p.NauseaTarget >= 128 {
		if int(w.RNG.Next()&0xFF) <= (int(p.Nausea)-128)/2 && p.Action.IsIdle() {
			p.StartAction(ActionThrowUp)
		}
	}

	if g.TimeToConsume == 0 && g.HasFood() {
		g.TimeToConsume += 3
	}
	if g.TimeToConsume != 0 && p.State != StateOnRide {
		g.TimeToConsume = addU8(g.TimeToConsume, -3)
		if g.HasDrink() {
			p.Thirst = addU8(p.Thirst, 7)
		} else {
			p.Hunger = addU8(p.Hunger, 7)
			p.Thirst = addU8(p.Thirst, -3)
			p.Toilet = addU8(p.Toilet, 2)
		}
		if g.TimeToConsume == 0 {
			if item, ok := g.firstConsumable(); ok {
				g.RemoveItem(item)
				if c := item.Info().Container; c != ride.ItemNone {
					g.GiveItem(c)
				}
				p.WindowInvalidate |= InvalidateInventory
				p.UpdateSpriteType(w)
			}
		}
	}

	p.easeAttributes()
}

// updateHunger is the walking cost of being in the park.
func (p *Peep) updateHunger() {
	if p.Hunger >= 3 {
		p.Hunger -= 2
		p.EnergyTarget = addU8(p.EnergyTarget, -2)
		p.Toilet = addU8(p.Toilet, 1)
	}
}

// decideWhetherToLeavePark tires the guest and occasionally sends an unhappy,
// tired or broke guest home.
func (p *Peep) decideWhetherToLeavePark(w *World, g *GuestRole) {
	if p.EnergyTarget >= 33 {
		p.EnergyTarget -= 2
	}
	if w.Climate != nil && w.Climate.Hot() && p.Thirst >= 5 {
		p.Thirst--
	}
	if p.OutsideOfPark {
		return
	}
	if p.Flags&FlagLeavingPark == 0 {
		if w.Park.NoMoney {
			if p.Energy >= 70 && p.Happiness >= 60 {
				return
			}
		} else if p.Energy >= 55 && p.Happiness >= 45 && g.CashInPocket >= 50 {
			return
		}
	}
	if w.RNG.Next()&0xFFFF > 3276 {
		return
	}
	p.LeavePark()
}

// LeavePark makes a guest head for the exit.
func (p *Peep) LeavePark() {
	g := p.Guest()
	if g == nil {
		return
	}
	g.HeadingToRide = ride.NoRide
	if p.Flags&FlagLeavingPark != 0 {
		if p.Flags&FlagParkEntranceChose != 0 {
			return
		}
	} else {
		p.Flags |= FlagLeavingPark
	}
	p.Flags &^= FlagParkEntranceChose
	p.InsertNewThought(ThoughtGoHome, ThoughtItemNone)
	p.WindowInvalidate |= InvalidateAction
}

// HasItem reports whether the guest carries an item.
func (g *GuestRole) HasItem(item ride.ShopItem) bool {
	if item.IsExtra() {
		return g.ItemExtraFlags&item.Flag() != 0
	}
	return g.ItemStandardFlags&item.Flag() != 0
}

// GiveItem puts an item in the guest's inventory.
func (g *GuestRole) GiveItem(item ride.ShopItem) {
	if item.IsExtra() {
		g.ItemExtraFlags |= item.Flag()
	} else {
		g.ItemStandardFlags |= item.Flag()
	}
}

// RemoveItem takes an item out of the guest's inventory.
func (g *GuestRole) RemoveItem(item ride.ShopItem) {
	if item.IsExtra() {
		g.ItemExtraFlags &^= item.Flag()
	} else {
		g.ItemStandardFlags &^= item.Flag()
	}
}

func (g *GuestRole) itemsWhere(keep func(ride.ShopItem) bool) []ride.ShopItem {
	var out []ride.ShopItem
	for _, it := range ride.AllItems() {
		if keep(it) && g.HasItem(it) {
			out = append(out, it)
		}
	}
	return out
}

// HasFood reports whether the guest is holding anything to eat or drink.
func (g *GuestRole) HasFood() bool {
	_, ok := g.firstConsumable()
	return ok
}

// HasDrink reports whether the guest is holding a drink.
func (g *GuestRole) HasDrink() bool {
	return len(g.itemsWhere(ride.ShopItem.IsDrink)) > 0
}

// HasEmptyContainer reports whether the guest has rubbish to throw away.
func (g *GuestRole) HasEmptyContainer() bool {
	return len(g.itemsWhere(ride.ShopItem.IsContainer)) > 0
}

func (g *GuestRole) firstConsumable() (ride.ShopItem, bool) {
	items := g.itemsWhere(func(it ride.ShopItem) bool { return it.IsFood() || it.IsDrink() })
	if len(items) == 0 {
		return ride.ItemNone, false
	}
	return items[0], true
}

// SpendMoney takes amount from the guest's pocket, never below zero, records it
// against one of the guest's spending tallies and pays it to the park.
func (p *Peep) SpendMoney(w *World, tally *economy.Money, amount economy.Money, category economy.ExpenditureType) {
	g := p.Guest()
	if g == nil || w.Park.NoMoney {
		return
	}
	g.CashInPocket = max(0, g.CashInPocket-amount)
	g.CashSpent += amount
	if tally != nil {
		*tally += amount
	}
	if w.Finance != nil {
		w.Finance.SpendMoney(-amount, category)
	}
	p.WindowInvalidate |= InvalidateStats
}

var itemSpritePreference = []struct {
	item   ride.ShopItem
	sprite SpriteType
}{
	{ride.ItemIceCream, SpriteIceCream},
	{ride.ItemBurger, SpriteBurger},
	{ride.ItemDrink, SpriteDrink},
	{ride.ItemBalloon, SpriteBalloon},
	{ride.ItemPizza, SpritePizza},
	{ride.ItemHat, SpriteHat},
}

var slowWalkSprites = map[SpriteType]bool{
	SpriteVeryNauseous:  true,
	SpriteHeadDown:      true,
	SpriteRequireToilet: true,
}

// UpdateSpriteType picks the guest's body sprite from what it carries and how it
// feels. Balloons occasionally float away.
func (p *Peep) UpdateSpriteType(w *World) {
	g := p.Guest()
	if g == nil {
		return
	}
	if p.SpriteType == SpriteBalloon && w.RNG.Next()&0xFFFF <= 327 {
		g.RemoveItem(ride.ItemBalloon)
		p.WindowInvalidate |= InvalidateInventory
	}
	if w.Climate != nil && w.Climate.Raining() && g.HasItem(ride.ItemUmbrella) && !p.Pos.IsNull() {
		p.setSpriteType(SpriteUmbrella)
		return
	}
	for _, pref := range itemSpritePreference {
		if g.HasItem(pref.item) {
			p.setSpriteType(pref.sprite)
			return
		}
	}
	switch {
	case p.State == StateWatching && g.StandingFlags&1 != 0:
		p.setSpriteType(SpriteWatching)
	case p.Nausea > 170:
		p.setSpriteType(SpriteVeryNauseous)
	case p.Nausea > 140:
		p.setSpriteType(SpriteNauseous)
	case p.Energy <= 64 && p.Happiness < 128:
		p.setSpriteType(SpriteHeadDown)
	case p.Energy <= 80 && p.Happiness < 128:
		p.setSpriteType(SpriteArmsCrossed)
	case p.Toilet > 220:
		p.setSpriteType(SpriteRequireToilet)
	default:
		p.setSpriteType(SpriteNormal)
	}
}

func (p *Peep) setSpriteType(s SpriteType) {
	if p.SpriteType == s {
		return
	}
	p.SpriteType = s
	p.ActionSpriteImageOffset = 0
	p.WalkingFrameNum = 0
	if p.Action.IsIdle() {
		p.Action = ActionNone2
	}
	p.Flags &^= FlagSlowWalk
	if slowWalkSprites[s] {
		p.Flags |= FlagSlowWalk
	}
	p.ActionSpriteType = SpriteActionInvalid
	p.UpdateCurrentActionSpriteType()
	switch p.State {
	case StateSitting:
		p.Action = ActionNone1
		p.ActionSpriteType = SpriteActionSittingIdle
		p.NextActionSpriteType = SpriteActionSittingIdle
	case StateWatching:
		p.Action = ActionNone1
		p.ActionSpriteType = SpriteActionWatchRide
		p.NextActionSpriteType = SpriteActionWatchRide
	}
}
