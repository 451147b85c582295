package ride

import (
	"fmt"
	"log/slog"

	"github.com/talgya/park-peeps/internal/economy"
	"github.com/talgya/park-peeps/internal/entropy"
	"github.com/talgya/park-peeps/internal/world"
)

// Type is the ride kind; guests remember which kinds they have been on.
type Type uint8

const (
	TypeMerryGoRound Type = iota
	TypeWoodenCoaster
	TypeFerrisWheel
	TypeSpiralSlide
	TypeMaze
	TypeFoodStall
	TypeDrinkStall
	TypeSouvenirStall
	TypeToilets
	TypeInformationKiosk
	TypeCount
)

var typeNames = [TypeCount]string{
	"merry_go_round",
	"wooden_coaster",
	"ferris_wheel",
	"spiral_slide",
	"maze",
	"food_stall",
	"drink_stall",
	"souvenir_stall",
	"toilets",
	"information_kiosk",
}

func (t Type) String() string {
	if t >= TypeCount {
		return "unknown"
	}
	return typeNames[t]
}

// ParseType looks a ride type up by its config name.
func ParseType(name string) (Type, error) {
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown ride type %q", name)
}

// Definition is everything needed to build a ride.
type Definition struct {
	Type       Type
	Name       string
	Class      Classification
	Mode       Mode
	Price      economy.Money
	Value      economy.Money
	Excitement Rating
	Intensity  Rating
	Nausea     Rating
	Covered    bool
	Items      []ItemSale

	Trains       int
	CarsPerTrain int
	SeatsPerCar  int
	RideTime     uint16
	LoadTime     uint16
	MaxPeeps     uint16

	Reliability        uint8
	InspectionInterval uint16
}

// DefaultDefinition returns stock figures for a ride type.
func DefaultDefinition(t Type) Definition {
	d := Definition{
		Type:               t,
		Name:               t.String(),
		Class:              ClassRide,
		Mode:               ModeCircuit,
		Value:              economy.MoneyNull,
		Reliability:        90,
		InspectionInterval: 40 * 60 * 20,
		LoadTime:           120,
		RideTime:           600,
	}
	switch t {
	case TypeMerryGoRound:
		d.Name = "Merry-Go-Round"
		d.Price, d.Value = 10, 20
		d.Excitement, d.Intensity, d.Nausea = 110, 40, 30
		d.Covered = true
		d.Trains, d.CarsPerTrain, d.SeatsPerCar = 1, 4, 4
	case TypeWoodenCoaster:
		d.Name = "Wooden Roller Coaster"
		d.Price, d.Value = 40, 60
		d.Excitement, d.Intensity, d.Nausea = 650, 720, 480
		d.Trains, d.CarsPerTrain, d.SeatsPerCar = 2, 4, 4
		d.RideTime = 1200
		d.Reliability = 80
		d.Items = []ItemSale{{Item: ItemPhoto, Price: 20}}
	case TypeFerrisWheel:
		d.Name = "Ferris Wheel"
		d.Price, d.Value = 15, 30
		d.Excitement, d.Intensity, d.Nausea = 160, 60, 40
		d.Trains, d.CarsPerTrain, d.SeatsPerCar = 1, 8, 2
		d.RideTime = 900
	case TypeSpiralSlide:
		d.Name = "Spiral Slide"
		d.Mode = ModeSpiralSlide
		d.Price, d.Value = 10, 18
		d.Excitement, d.Intensity, d.Nausea = 150, 140, 90
		d.MaxPeeps = 4
	case TypeMaze:
		d.Name = "Hedge Maze"
		d.Mode = ModeMaze
		d.Price, d.Value = 10, 22
		d.Excitement, d.Intensity, d.Nausea = 220, 30, 0
		d.MaxPeeps = 6
		d.Reliability = 100
	case TypeFoodStall:
		d.Name = "Burger Bar"
		d.Class, d.Mode = ClassStall, ModeShop
		d.Items = []ItemSale{{Item: ItemBurger, Price: 19}}
	case TypeDrinkStall:
		d.Name = "Drinks Stall"
		d.Class, d.Mode = ClassStall, ModeShop
		d.Items = []ItemSale{{Item: ItemDrink, Price: 12}}
	case TypeSouvenirStall:
		d.Name = "Balloon Stall"
		d.Class, d.Mode = ClassStall, ModeShop
		d.Items = []ItemSale{{Item: ItemBalloon, Price: 9}}
	case TypeToilets:
		d.Name = "Toilets"
		d.Class, d.Mode = ClassFacility, ModeShop
		d.MaxPeeps = 2
		d.Covered = true
		d.RideTime = 80
	case TypeInformationKiosk:
		d.Name = "Information Kiosk"
		d.Class, d.Mode = ClassStall, ModeShop
		d.Items = []ItemSale{{Item: ItemMap, Price: 6}, {Item: ItemUmbrella, Price: 30}}
	}
	return d
}

// Registry owns every ride in the park, indexed by ID.
type Registry struct {
	rides []*Ride
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Get returns a ride by ID, or nil.
func (r *Registry) Get(id ID) *Ride {
	if int(id) >= len(r.rides) {
		return nil
	}
	return r.rides[id]
}

// All returns the rides in ID order.
func (r *Registry) All() []*Ride {
	out := make([]*Ride, 0, len(r.rides))
	for _, rd := range r.rides {
		if rd != nil {
			out = append(out, rd)
		}
	}
	return out
}

// Count returns the number of rides.
func (r *Registry) Count() int {
	return len(r.All())
}

// Restore replaces the registry contents with loaded rides.
func (r *Registry) Restore(rides []*Ride) {
	r.rides = nil
	for _, rd := range rides {
		for int(rd.ID) >= len(r.rides) {
			r.rides = append(r.rides, nil)
		}
		r.rides[rd.ID] = rd
	}
}

// Build places a ride on a plot. Rides and facilities get a two-tile queue, an
// entrance, a platform and an exit; stalls get a counter facing the path.
func (r *Registry) Build(m *world.Map, plot world.Plot, def Definition) (*Ride, error) {
	if len(r.rides) >= MaxRides {
		return nil, ErrRegistryFull
	}
	id := ID(len(r.rides))
	back := plot.Facing.Reverse()

	rd := &Ride{
		ID:                 id,
		Name:               def.Name,
		Type:               def.Type,
		Class:              def.Class,
		Mode:               def.Mode,
		Status:             StatusClosed,
		Price:              def.Price,
		Value:              def.Value,
		Items:              append([]ItemSale(nil), def.Items...),
		Excitement:         def.Excitement,
		Intensity:          def.Intensity,
		Nausea:             def.Nausea,
		Covered:            def.Covered,
		Plot:               plot,
		RideTime:           def.RideTime,
		LoadTime:           def.LoadTime,
		MaxPeepsInRide:     def.MaxPeeps,
		SlideInUse:         NoPeep,
		Reliability:        def.Reliability,
		BreakdownReason:    BreakdownNone,
		Mechanic:           NoPeep,
		InspectionInterval: def.InspectionInterval,
	}

	if def.Class == ClassStall {
		counter := plot.At(1, false)
		if !plotTileFree(m, counter) {
			return nil, fmt.Errorf("build %s at %v: %w", def.Name, plot.Path, ErrPlotBlocked)
		}
		m.PlaceAccess(counter, world.Access{Kind: world.AccessShop, Ride: id, Direction: back})
		m.TileAt(counter).Ride = id
		rd.Tiles = []world.TileCoord{counter}
		rd.Stations = []Station{{Start: counter, End: counter, Entrance: counter, Exit: counter, Facing: plot.Facing}}
		r.rides = append(r.rides, rd)
		return rd, nil
	}

	queue := []world.TileCoord{plot.At(1, false), plot.At(2, false)}
	entrance := plot.At(3, false)
	exit := plot.At(1, true)
	footprint := []world.TileCoord{plot.At(2, true), plot.At(3, true), plot.At(4, false), plot.At(4, true)}
	for _, tc := range append(append(append([]world.TileCoord{}, queue...), entrance, exit), footprint...) {
		if !plotTileFree(m, tc) {
			return nil, fmt.Errorf("build %s at %v: %w", def.Name, plot.Path, ErrPlotBlocked)
		}
	}

	for _, tc := range queue {
		m.AddPath(tc, id)
	}
	m.PlaceAccess(entrance, world.Access{Kind: world.AccessRideEntrance, Ride: id, Direction: back})
	m.PlaceAccess(exit, world.Access{Kind: world.AccessRideExit, Ride: id, Direction: back})
	for _, tc := range footprint {
		m.TileAt(tc).Ride = id
	}
	rd.Tiles = footprint
	rd.Stations = []Station{{
		Start:    plot.At(4, false),
		End:      plot.At(4, true),
		Entrance: entrance,
		Exit:     exit,
		Facing:   plot.Facing,
	}}
	for i := 0; i < def.Trains; i++ {
		rd.Trains = append(rd.Trains, NewTrain(def.CarsPerTrain, def.SeatsPerCar))
	}

	r.rides = append(r.rides, rd)
	return rd, nil
}

func plotTileFree(m *world.Map, tc world.TileCoord) bool {
	t := m.TileAt(tc)
	return t != nil && t.Owned && t.Path == nil && t.Access == nil && t.Ride == world.NoRide
}

// breakdownOdds is the one-in-N chance per tick of an open ride breaking down.
func breakdownOdds(r *Ride) int {
	rel := int(r.Reliability)
	return 4000 + rel*rel*8
}

// Update advances every ride by one tick: train cycles, breakdowns and
// inspection schedules.
func (r *Registry) Update(rng *entropy.Stream) {
	for _, rd := range r.rides {
		if rd == nil || rd.Class == ClassStall {
			continue
		}
		rd.updateTrains()

		if rd.BrokenDown() {
			rd.Downtime++
			continue
		}
		if rd.SinceInspection < 0xFFFF {
			rd.SinceInspection++
		}
		if rd.InspectionInterval > 0 && rd.SinceInspection >= rd.InspectionInterval && !rd.DueInspection() &&
			rd.MechanicStatus == MechanicUndefined {
			rd.Lifecycle |= LifecycleDueInspection
			rd.CallMechanic()
		}

		if !rd.IsOpen() || rd.Reliability >= 100 {
			continue
		}
		if rng.Intn(breakdownOdds(rd)) != 0 {
			continue
		}
		reason := BreakdownSafetyCutOut
		if rd.HasVehicles() {
			reason = Breakdown(rng.Intn(int(BreakdownCount)))
			rd.BreakDown(reason)
			rd.BrokenTrain = uint8(rng.Intn(len(rd.Trains)))
			rd.BrokenCar = uint8(rng.Intn(len(rd.Trains[rd.BrokenTrain].Cars)))
		} else {
			if rng.Chance(2) {
				reason = BreakdownControlFailure
			}
			rd.BreakDown(reason)
		}
		slog.Info("ride broke down", "ride", rd.Name, "reason", reason)
	}
}

// DailyUpdate wears rides down a little each day they are open.
func (r *Registry) DailyUpdate() {
	for _, rd := range r.rides {
		if rd != nil && rd.IsOpen() && rd.Class != ClassStall && rd.Reliability > 30 && rd.Reliability < 100 {
			rd.Reliability--
		}
	}
}

// ForgetPeep removes every queue, seat and mechanic reference to a pool slot.
func (r *Registry) ForgetPeep(peep uint16) {
	for _, rd := range r.rides {
		if rd != nil {
			rd.ForgetPeep(peep)
		}
	}
}
