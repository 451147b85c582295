package peep

import "github.com/talgya/park-peeps/internal/ride"

// UpdateEasterEggInteractions runs the per-tick effects of special guest names
// on the guests sharing their tile.
func (p *Peep) UpdateEasterEggInteractions(w *World) {
	if p.Flags&FlagPurple != 0 {
		p.applyToNearbyGuests(w, givePurpleClothes)
	}
	if p.Flags&FlagPizza != 0 {
		p.applyToNearbyGuests(w, giveItemTo(w, ride.ItemPizza))
	}
	if p.Flags&FlagContagious != 0 {
		p.applyToNearbyGuests(w, makeSick)
	}
	if p.Flags&FlagIceCream != 0 {
		p.applyToNearbyGuests(w, giveItemTo(w, ride.ItemIceCream))
	}
	if p.Flags&FlagJoy != 0 && p.Action.IsIdle() && w.RNG.Next()&0xFFFF <= 1456 {
		p.StartAction(ActionJoy)
	}
	if p.Flags&FlagAngry != 0 && p.Action.IsIdle() && w.RNG.Next()&0xFFFF <= 1456 {
		p.StartAction(ActionShakeHead)
	}
}

// applyToNearbyGuests calls fn for every other guest on the same tile.
func (p *Peep) applyToNearbyGuests(w *World, fn func(other *Peep)) {
	if p.Pos.IsNull() {
		return
	}
	here := p.Pos.Tile()
	w.Pool.Each(func(other *Peep) {
		if other == p || other.Type != TypeGuest || other.Pos.IsNull() {
			return
		}
		if other.Pos.Tile() == here && absInt(other.Pos.Z-p.Pos.Z) <= 32 {
			fn(other)
		}
	})
}

func givePurpleClothes(other *Peep) {
	other.TshirtColour = ColourPurple
	other.TrousersColour = ColourPurple
	other.WindowInvalidate |= InvalidateStats
}

func giveItemTo(w *World, item ride.ShopItem) func(*Peep) {
	return func(other *Peep) {
		g := other.Guest()
		if g.HasItem(item) {
			return
		}
		g.GiveItem(item)
		other.WindowInvalidate |= InvalidateInventory
		other.UpdateSpriteType(w)
	}
}

func makeSick(other *Peep) {
	if other.State != StateWalking || !other.Action.IsIdle() {
		return
	}
	other.StartAction(ActionThrowUp)
}
