package peep

import (
	"cmp"
	"fmt"
	"log/slog"
	"strings"

	"github.com/talgya/park-peeps/internal/economy"
	"github.com/talgya/park-peeps/internal/entropy"
	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/weather"
	"github.com/talgya/park-peeps/internal/world"
)

// MaxStaff caps the number of staff a park may employ.
const MaxStaff = 200

// ParkSettings are the park-wide rules guests are admitted and judged by.
type ParkSettings struct {
	Open        bool          `json:"open"`
	NoMoney     bool          `json:"no_money"`
	EntranceFee economy.Money `json:"entrance_fee"`
	MaxGuests   int           `json:"max_guests"`

	GuestInitialCash      economy.Money `json:"guest_initial_cash"`
	GuestInitialHappiness uint8         `json:"guest_initial_happiness"`
	GuestInitialHunger    uint8         `json:"guest_initial_hunger"`
	GuestInitialThirst    uint8         `json:"guest_initial_thirst"`
}

// DefaultParkSettings returns the settings of a fresh scenario.
func DefaultParkSettings() ParkSettings {
	return ParkSettings{
		Open:                  true,
		EntranceFee:           100,
		MaxGuests:             1000,
		GuestInitialCash:      500,
		GuestInitialHappiness: 128,
		GuestInitialHunger:    200,
		GuestInitialThirst:    200,
	}
}

// World is everything a peep update reads or writes outside the peep itself:
// the map, rides, money, weather, the deterministic random stream and the
// park-wide counters.
type World struct {
	Tick    uint32
	Map     *world.Map
	Rides   *ride.Registry
	RNG     *entropy.Stream
	Climate *weather.Climate
	Finance *economy.Finance
	Park    ParkSettings
	Pool    *Pool
	Patrols []PatrolArea

	GuestsInPark         uint32
	GuestsHeadingForPark uint32
	GuestsInParkLastWeek uint32
	GuestChangeModifier  uint8
	NextGuestNumber      uint32
	NextStaffNumber      uint32
	RealNames            bool

	warningThrottle [warningCount]uint8
	notices         []Notice
}

// NewWorld assembles a world with an empty pool of the given capacity.
func NewWorld(m *world.Map, rides *ride.Registry, rng *entropy.Stream, climate *weather.Climate,
	finance *economy.Finance, park ParkSettings, capacity int) *World {
	return &World{
		Map:             m,
		Rides:           rides,
		RNG:             rng,
		Climate:         climate,
		Finance:         finance,
		Park:            park,
		Pool:            NewPool(capacity),
		NextGuestNumber: 1,
		NextStaffNumber: 1,
	}
}

// UpdateAll runs one tick for every peep: guests first, then staff, each in
// pool order. One peep in 128 of each kind also gets its slow update this tick.
func (w *World) UpdateAll() {
	w.updateKind(TypeGuest)
	w.updateKind(TypeStaff)
}

func (w *World) updateKind(kind PeepType) {
	i := uint32(0)
	w.Pool.Each(func(p *Peep) {
		if p.Type != kind {
			return
		}
		if i&0x7F == w.Tick&0x7F {
			p.Tick128(w)
		}
		i++
		if w.Pool.Get(p.Index) == p {
			p.Update(w)
		}
	})
}

// Tick128 dispatches the slow update by role.
func (p *Peep) Tick128(w *World) {
	switch r := p.Role.(type) {
	case *GuestRole:
		if p.Flags&FlagExplode != 0 && !p.Pos.IsNull() {
			if p.State == StateWalking || p.State == StateSitting {
				w.Remove(p)
				return
			}
			p.Flags &^= FlagExplode
		}
		p.Tick128UpdateGuest(w, r)
	case *StaffRole:
		p.Tick128UpdateStaff(w, r)
	}
}

func (w *World) HeadingForParkDec() {
	if w.GuestsHeadingForPark > 0 {
		w.GuestsHeadingForPark--
	}
}

// walkingOn counts the guests standing on a tile.
func (w *World) walkingOn(tc world.TileCoord) int {
	n := 0
	w.Pool.Each(func(p *Peep) {
		if p.Type == TypeGuest && !p.OutsideOfPark && !p.Pos.IsNull() && p.Pos.Tile() == tc {
			n++
		}
	})
	return n
}

// guestsNear counts the other guests within radius tiles of p.
func (w *World) guestsNear(p *Peep, radius int) int {
	if p.Pos.IsNull() {
		return 0
	}
	here := p.Pos.Tile()
	n := 0
	w.Pool.Each(func(other *Peep) {
		if other == p || other.Type != TypeGuest || other.Pos.IsNull() {
			return
		}
		if world.Distance(other.Pos.Tile(), here) <= radius {
			n++
		}
	})
	return n
}

// initPeep gives a freshly allocated peep the fields every peep starts with.
func initPeep(p *Peep, kind PeepType) {
	p.Type = kind
	p.Action = ActionNone2
	p.ActionSpriteType = SpriteActionInvalid
	p.NextActionSpriteType = SpriteActionNone
	p.clearThoughts()
	p.ResetPathfindGoal()
	p.Sub = NewSubState(p.State)
	p.Pos.X = world.LocationNull
}

var nauseaToleranceDistribution = [...]NauseaTolerance{
	NauseaNone,
	NauseaLow, NauseaLow,
	NauseaAverage, NauseaAverage, NauseaAverage,
	NauseaHigh, NauseaHigh, NauseaHigh, NauseaHigh, NauseaHigh,
}

var guestColours = [...]uint8{1, 2, 3, 5, 7, 11, 13, 14, 16, 18, 20, 23, 24, 26, 28, 30}

// GenerateGuest creates a guest outside a park entrance, walking in. The pool
// must have a free slot: callers check Pool.Full first, and GenerateGuest
// panics with ErrPoolExhausted otherwise.
func (w *World) GenerateGuest() (*Peep, error) {
	entrances := w.Map.ParkEntrances()
	if len(entrances) == 0 {
		return nil, fmt.Errorf("generate guest: no park entrance: %w", ErrInvalidPlacement)
	}
	idx := w.RNG.Intn(len(entrances))
	gate := entrances[idx]
	inward := world.DirNorth
	if t := w.Map.TileAt(gate); t != nil && t.Access != nil {
		inward = t.Access.Direction
	}
	outside := gate.Step(inward.Reverse())
	if !w.Map.InBounds(outside) {
		return nil, fmt.Errorf("generate guest at %v: %w", gate, ErrInvalidPlacement)
	}

	p, err := w.Pool.Alloc()
	if err != nil {
		panic(fmt.Errorf("generate guest: %w", err))
	}
	initPeep(p, TypeGuest)
	g := newGuestRole()
	p.Role = g
	p.ID = w.NextGuestNumber
	w.NextGuestNumber++

	p.Energy = uint8(w.RNG.Intn(64) + 65)
	p.EnergyTarget = p.Energy
	p.Happiness = clampU8(int(w.Park.GuestInitialHappiness) + int(w.RNG.Next()&0x1F) - 15)
	p.HappinessTarget = p.Happiness
	p.Hunger = clampU8(int(w.Park.GuestInitialHunger) + int(w.RNG.Next()&0x1F) - 15)
	p.Thirst = clampU8(int(w.Park.GuestInitialThirst) + int(w.RNG.Next()&0x1F) - 15)
	p.Mass = uint8(w.RNG.Next()&0x1F) + 45
	lo := uint8(w.RNG.Intn(4))
	hi := lo + uint8(w.RNG.Intn(8)) + 4
	p.Intensity = NewIntensityRange(lo, hi)
	p.NauseaTolerance = nauseaToleranceDistribution[w.RNG.Intn(len(nauseaToleranceDistribution))]
	p.TshirtColour = guestColours[w.RNG.Intn(len(guestColours))]
	p.TrousersColour = guestColours[w.RNG.Intn(len(guestColours))]
	p.SpriteType = SpriteNormal

	cash := w.Park.GuestInitialCash + economy.Money(w.RNG.Intn(4))*100 - 100
	g.CashInPocket = max(cash, 0)
	g.ChosenParkEntrance = uint8(idx)

	c := outside.Center()
	p.Pos = world.CoordsXYZ{X: c.X, Y: c.Y, Z: w.Map.SurfaceHeight(outside)}
	p.SetNextLoc(outside, inward, false, false)
	p.Facing = inward
	p.OutsideOfPark = true
	p.SetState(StateEnteringPark)
	p.SetDestination(c, 2)
	w.GuestsHeadingForPark++
	return p, nil
}

// entertainerCostumes is the number of costumes an entertainer is hired in.
const entertainerCostumes = 8

// HireStaff employs a staff member and drops them just inside the park gate.
func (w *World) HireStaff(t StaffType) (*Peep, error) {
	if t >= StaffTypeCount {
		return nil, fmt.Errorf("hire staff type %d: %w", t, ErrInvalidPlacement)
	}
	if w.StaffCount() >= MaxStaff {
		return nil, ErrStaffLimit
	}
	entrances := w.Map.ParkEntrances()
	if len(entrances) == 0 {
		return nil, fmt.Errorf("hire %s: no park entrance: %w", t, ErrInvalidPlacement)
	}
	gate := entrances[0]
	spawn := gate
	if tile := w.Map.TileAt(gate); tile != nil && tile.Access != nil {
		spawn = gate.Step(tile.Access.Direction)
	}

	p, err := w.Pool.Alloc()
	if err != nil {
		return nil, fmt.Errorf("hire %s: %w", t, err)
	}
	initPeep(p, TypeStaff)
	s := newStaffRole(t)
	s.StaffID = w.freeStaffID()
	s.HireDate = w.Tick
	if t == StaffEntertainer {
		s.Costume = uint8(w.RNG.Intn(entertainerCostumes))
	}
	if int(s.StaffID) < len(w.Patrols) {
		w.Patrols[s.StaffID] = PatrolArea{}
	}
	p.Role = s
	p.ID = w.NextStaffNumber
	w.NextStaffNumber++
	p.Energy = staffEnergy
	p.EnergyTarget = staffEnergy
	p.Happiness, p.HappinessTarget = 128, 128
	p.Intensity = NewIntensityRange(0, 15)
	p.SpriteType = staffSprites[t]

	c := spawn.Center()
	p.Pos = world.CoordsXYZ{X: c.X, Y: c.Y, Z: w.Map.SurfaceHeight(spawn)}
	p.Facing = world.DirNorth
	p.SetNextLoc(spawn, world.DirNorth, false, false)
	p.SetState(StateFalling)

	slog.Info("staff hired", "type", t, "id", p.ID)
	return p, nil
}

// freeStaffID returns the lowest patrol slot no current staff member uses.
func (w *World) freeStaffID() uint8 {
	var used [MaxStaff]bool
	w.Pool.Each(func(p *Peep) {
		if s := p.Staff(); s != nil && int(s.StaffID) < MaxStaff {
			used[s.StaffID] = true
		}
	})
	for i, u := range used {
		if !u {
			return uint8(i)
		}
	}
	return MaxStaff - 1
}

// Fire dismisses a staff member.
func (w *World) Fire(p *Peep) error {
	s := p.Staff()
	if s == nil {
		return fmt.Errorf("fire %d: %w", p.ID, ErrNotStaff)
	}
	if a := w.patrolArea(s); a != nil {
		*a = PatrolArea{}
	}
	slog.Info("staff fired", "type", s.Type, "id", p.ID)
	w.Remove(p)
	return nil
}

// Remove takes a peep out of the world: it leaves any queue or ride it is in,
// drops out of the park counters, and gives its pool slot back.
func (w *World) Remove(p *Peep) {
	if g := p.Guest(); g != nil {
		switch {
		case p.OutsideOfPark && p.State == StateEnteringPark:
			w.HeadingForParkDec()
		case !p.OutsideOfPark && w.GuestsInPark > 0:
			w.GuestsInPark--
		}
		if p.State == StateQueuing || p.State.InRideFamily() {
			p.RemoveFromRide(w)
		}
	}
	w.Rides.ForgetPeep(p.Index)
	w.Pool.Free(p.Index)
}

// RecountGuests rebuilds the park counters from the pool after a load.
func (w *World) RecountGuests() {
	w.GuestsInPark, w.GuestsHeadingForPark = 0, 0
	w.Pool.Each(func(p *Peep) {
		if p.Type != TypeGuest {
			return
		}
		switch {
		case !p.OutsideOfPark:
			w.GuestsInPark++
		case p.State == StateEnteringPark:
			w.GuestsHeadingForPark++
		}
	})
}

// Restore refills the pool with loaded peeps. Park counters are rebuilt and
// warnings start afresh; guest and staff numbering resumes past the highest
// loaded number.
func (w *World) Restore(peeps []*Peep) error {
	w.Pool.Clear()
	for _, p := range peeps {
		if err := w.Pool.Put(p); err != nil {
			return err
		}
		switch p.Type {
		case TypeGuest:
			w.NextGuestNumber = max(w.NextGuestNumber, p.ID+1)
		case TypeStaff:
			w.NextStaffNumber = max(w.NextStaffNumber, p.ID+1)
		}
	}
	w.RecountGuests()
	w.ResetWarnings()
	return nil
}

// StaffCount returns the number of staff employed.
func (w *World) StaffCount() int {
	n := 0
	w.Pool.Each(func(p *Peep) {
		if p.Type == TypeStaff {
			n++
		}
	})
	return n
}

// ResetStaffStats zeroes every staff member's work counters.
func (w *World) ResetStaffStats() {
	w.Pool.Each(func(p *Peep) {
		if s := p.Staff(); s != nil {
			s.LawnsMown, s.GardensWatered, s.LitterSwept, s.BinsEmptied = 0, 0, 0, 0
			s.RidesFixed, s.RidesInspected = 0, 0
			p.WindowInvalidate |= InvalidateStaff
		}
	})
}

// Applause makes every guest in the park clap; balloons are let go.
func (w *World) Applause() {
	w.Pool.Each(func(p *Peep) {
		g := p.Guest()
		if g == nil || p.OutsideOfPark {
			return
		}
		if g.HasItem(ride.ItemBalloon) {
			g.RemoveItem(ride.ItemBalloon)
			p.WindowInvalidate |= InvalidateInventory
			p.UpdateSpriteType(w)
		}
		if (p.State == StateWalking || p.State == StateQueuing) && p.Action.IsIdle() {
			p.StartAction(ActionClap)
		}
	})
}

// UpdateDaysInQueue ages every queuing guest's wait by a day.
func (w *World) UpdateDaysInQueue() {
	w.Pool.Each(func(p *Peep) {
		if g := p.Guest(); g != nil && !p.OutsideOfPark && p.State == StateQueuing && g.DaysInQueue < 0xFF {
			g.DaysInQueue++
		}
	})
}

// UpdateNames switches guests between numbered and real names.
func (w *World) UpdateNames(realNames bool) {
	w.RealNames = realNames
	w.Pool.Each(func(p *Peep) {
		if p.Type == TypeGuest {
			p.WindowInvalidate |= InvalidateStats
		}
	})
}

// ExplodeGuests marks about one guest in six to burst on their next slow
// update.
func (w *World) ExplodeGuests() {
	w.Pool.Each(func(p *Peep) {
		if p.Type == TypeGuest && !p.OutsideOfPark && w.RNG.Chance(6) {
			p.Flags |= FlagExplode
		}
	})
}

// WeeklyUpdate records the guest count trend for the week.
func (w *World) WeeklyUpdate() {
	switch {
	case w.GuestsInPark > w.GuestsInParkLastWeek:
		w.GuestChangeModifier = 2
	case w.GuestsInPark < w.GuestsInParkLastWeek:
		w.GuestChangeModifier = 0
	default:
		w.GuestChangeModifier = 1
	}
	w.GuestsInParkLastWeek = w.GuestsInPark
}

// Compare orders peeps for lists: guests before staff, then by display name,
// then by number.
func (w *World) Compare(a, b *Peep) int {
	if a.Type != b.Type {
		return cmp.Compare(a.Type, b.Type)
	}
	if a.Name == "" && b.Name == "" && !(a.Type == TypeGuest && w.RealNames) {
		return cmp.Compare(a.ID, b.ID)
	}
	if c := strings.Compare(strings.ToLower(a.DisplayName(w.RealNames)), strings.ToLower(b.DisplayName(w.RealNames))); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Guests returns the live guests in pool order.
func (w *World) Guests() []*Peep {
	return w.peepsOf(TypeGuest)
}

// StaffMembers returns the staff in pool order.
func (w *World) StaffMembers() []*Peep {
	return w.peepsOf(TypeStaff)
}

func (w *World) peepsOf(kind PeepType) []*Peep {
	var out []*Peep
	w.Pool.Each(func(p *Peep) {
		if p.Type == kind {
			out = append(out, p)
		}
	})
	return out
}

// FindByID looks a peep up by its guest or staff number.
func (w *World) FindByID(kind PeepType, id uint32) (*Peep, error) {
	var found *Peep
	w.Pool.Each(func(p *Peep) {
		if found == nil && p.Type == kind && p.ID == id {
			found = p
		}
	})
	if found == nil {
		return nil, fmt.Errorf("%s %d: %w", kind, id, ErrNoSuchPeep)
	}
	return found, nil
}
