// Package ride is the ride registry: rides, stalls and facilities, their stations
// and queues, vehicles and seats, breakdowns and inspections.
// Peeps hold rides by ID only; the registry owns the ride objects.
package ride

import (
	"errors"
	"fmt"

	"github.com/talgya/park-peeps/internal/economy"
	"github.com/talgya/park-peeps/internal/world"
)

// ID is a ride slot index.
type ID = world.RideIndex

// NoRide is the null ride ID.
const NoRide = world.NoRide

// MaxRides is the registry capacity; guests track rides ridden in a 256-bit set.
const MaxRides = 255

// NoPeep is the null peep pool index.
const NoPeep uint16 = 0xFFFF

var (
	ErrRegistryFull = errors.New("ride registry full")
	ErrPlotBlocked  = errors.New("plot is not clear")
	ErrSeatTaken    = errors.New("seat already claimed")
)

// Classification separates rides guests queue for from stalls they buy at.
type Classification uint8

const (
	ClassRide     Classification = iota
	ClassStall                   // Food, drink and souvenir counters
	ClassFacility                // Toilets and kiosks, used like a ride without vehicles
)

// Mode selects how guests move through a ride.
type Mode uint8

const (
	ModeCircuit     Mode = iota // Trains leave and return to the station
	ModeMaze                    // Guests find their own way to the exit
	ModeSpiralSlide             // Guests climb and slide down one at a time
	ModeShop                    // Guests walk in, use the facility, walk out
)

// Status is whether the ride admits guests.
type Status uint8

const (
	StatusClosed Status = iota
	StatusOpen
)

// Lifecycle flags.
const (
	LifecycleBrokenDown    uint16 = 1 << 0
	LifecycleDueInspection uint16 = 1 << 1
	LifecycleEverOpened    uint16 = 1 << 2
)

// Breakdown reasons. The order is relied on by mechanic fixing routines.
type Breakdown uint8

const (
	BreakdownSafetyCutOut Breakdown = iota
	BreakdownRestraintsStuckClosed
	BreakdownRestraintsStuckOpen
	BreakdownDoorsStuckClosed
	BreakdownDoorsStuckOpen
	BreakdownVehicleMalfunction
	BreakdownBrakesFailure
	BreakdownControlFailure
	BreakdownCount

	BreakdownNone Breakdown = 0xFF
)

var breakdownNames = [BreakdownCount]string{
	"safety cut-out",
	"restraints stuck closed",
	"restraints stuck open",
	"doors stuck closed",
	"doors stuck open",
	"vehicle malfunction",
	"brakes failure",
	"control failure",
}

func (b Breakdown) String() string {
	if b >= BreakdownCount {
		return "none"
	}
	return breakdownNames[b]
}

// MechanicStatus tracks the repair call on a broken ride.
type MechanicStatus uint8

const (
	MechanicUndefined MechanicStatus = iota
	MechanicCalling
	MechanicHeading
	MechanicFixing
	MechanicHasFixedStationBrakes
)

// Rating is an excitement, intensity or nausea figure scaled by 100.
type Rating int16

// ItemSale is one product a stall sells.
type ItemSale struct {
	Item  ShopItem      `json:"item"`
	Price economy.Money `json:"price"`
}

// Ride is one ride, stall or facility.
type Ride struct {
	ID     ID             `json:"id"`
	Name   string         `json:"name"`
	Type   Type           `json:"type"`
	Class  Classification `json:"class"`
	Mode   Mode           `json:"mode"`
	Status Status         `json:"status"`

	Lifecycle uint16        `json:"lifecycle"`
	Price     economy.Money `json:"price"`
	Value     economy.Money `json:"value"` // Fair price as guests judge it, MoneyNull if unknown
	Items     []ItemSale    `json:"items,omitempty"`

	Excitement Rating `json:"excitement"`
	Intensity  Rating `json:"intensity"`
	Nausea     Rating `json:"nausea"`
	Covered    bool   `json:"covered"`

	Stations []Station         `json:"stations"`
	Trains   []*Train          `json:"trains,omitempty"`
	Plot     world.Plot        `json:"plot"`
	Tiles    []world.TileCoord `json:"tiles"`

	RideTime       uint16 `json:"ride_time"`         // Ticks a train spends out of the station
	LoadTime       uint16 `json:"load_time"`         // Ticks a train waits for riders
	MaxPeepsInRide uint16 `json:"max_peeps_in_ride"` // Capacity when there are no vehicles
	SlideInUse     uint16 `json:"slide_in_use"`      // Peep on the spiral slide, NoPeep if free

	NumRiders      uint16 `json:"num_riders"`
	TotalCustomers uint32 `json:"total_customers"`
	Favourites     uint16 `json:"favourites"`

	Reliability        uint8          `json:"reliability"` // 0–100
	BreakdownReason    Breakdown      `json:"breakdown_reason"`
	BrokenTrain        uint8          `json:"broken_train"`
	BrokenCar          uint8          `json:"broken_car"`
	MechanicStatus     MechanicStatus `json:"mechanic_status"`
	Mechanic           uint16         `json:"mechanic"`
	InspectionInterval uint16         `json:"inspection_interval"` // Ticks between inspections
	SinceInspection    uint16         `json:"since_inspection"`
	Downtime           uint32         `json:"downtime"`
}

// IsOpen reports whether guests may enter.
func (r *Ride) IsOpen() bool {
	return r.Status == StatusOpen
}

// BrokenDown reports whether the ride is waiting for repair.
func (r *Ride) BrokenDown() bool {
	return r.Lifecycle&LifecycleBrokenDown != 0
}

// DueInspection reports whether a mechanic should inspect the ride.
func (r *Ride) DueInspection() bool {
	return r.Lifecycle&LifecycleDueInspection != 0
}

// HasVehicles reports whether guests board seats rather than walking in.
func (r *Ride) HasVehicles() bool {
	return len(r.Trains) > 0
}

// Open admits guests.
func (r *Ride) Open() {
	r.Status = StatusOpen
	r.Lifecycle |= LifecycleEverOpened
}

// Close stops admitting guests. Queuing guests notice on their next update.
func (r *Ride) Close() {
	r.Status = StatusClosed
}

// Sells reports whether a stall sells the item, and its price.
func (r *Ride) Sells(item ShopItem) (economy.Money, bool) {
	for _, s := range r.Items {
		if s.Item == item {
			return s.Price, true
		}
	}
	return 0, false
}

// QueueLength is the total number of guests queuing at all stations.
func (r *Ride) QueueLength() int {
	n := 0
	for i := range r.Stations {
		n += len(r.Stations[i].Queue)
	}
	return n
}

// OnEnter records a guest committing to the ride.
func (r *Ride) OnEnter() {
	r.NumRiders++
	r.TotalCustomers++
}

// OnExit records a guest leaving the ride.
func (r *Ride) OnExit() {
	if r.NumRiders > 0 {
		r.NumRiders--
	}
}

// HasRoom reports whether a vehicle-less ride can take another guest.
func (r *Ride) HasRoom() bool {
	return r.NumRiders < r.MaxPeepsInRide
}

// CallMechanic raises a repair or inspection request.
func (r *Ride) CallMechanic() {
	if r.MechanicStatus == MechanicUndefined {
		r.MechanicStatus = MechanicCalling
		r.Mechanic = NoPeep
	}
}

// AssignMechanic records which mechanic is on the way.
func (r *Ride) AssignMechanic(peep uint16) {
	r.MechanicStatus = MechanicHeading
	r.Mechanic = peep
}

// ReleaseMechanic puts the ride back on the call list when its mechanic is lost.
func (r *Ride) ReleaseMechanic() {
	if r.MechanicStatus == MechanicHeading || r.MechanicStatus == MechanicFixing ||
		r.MechanicStatus == MechanicHasFixedStationBrakes {
		r.MechanicStatus = MechanicCalling
	}
	r.Mechanic = NoPeep
	if !r.BrokenDown() && !r.DueInspection() {
		r.MechanicStatus = MechanicUndefined
	}
}

// Fix completes a repair. boost is added to reliability, capped at 100.
func (r *Ride) Fix(boost uint8) {
	r.Lifecycle &^= LifecycleBrokenDown | LifecycleDueInspection
	r.BreakdownReason = BreakdownNone
	r.MechanicStatus = MechanicUndefined
	r.Mechanic = NoPeep
	r.SinceInspection = 0
	if int(r.Reliability)+int(boost) > 100 {
		r.Reliability = 100
	} else {
		r.Reliability += boost
	}
}

// Inspect completes an inspection.
func (r *Ride) Inspect() {
	r.Lifecycle &^= LifecycleDueInspection
	r.MechanicStatus = MechanicUndefined
	r.Mechanic = NoPeep
	r.SinceInspection = 0
}

// BreakDown puts the ride out of action and calls a mechanic.
func (r *Ride) BreakDown(reason Breakdown) {
	if r.BrokenDown() {
		return
	}
	r.Lifecycle |= LifecycleBrokenDown
	r.BreakdownReason = reason
	r.BrokenTrain, r.BrokenCar = 0, 0
	r.MechanicStatus = MechanicUndefined
	r.CallMechanic()
	if r.Reliability > 10 {
		r.Reliability -= 5
	}
}

// ForgetPeep drops every reference the ride holds to a pool slot.
func (r *Ride) ForgetPeep(peep uint16) {
	for i := range r.Stations {
		r.Stations[i].Leave(peep)
	}
	for _, t := range r.Trains {
		t.Vacate(peep)
	}
	if r.SlideInUse == peep {
		r.SlideInUse = NoPeep
	}
	if r.Mechanic == peep {
		r.ReleaseMechanic()
	}
}

func (r *Ride) String() string {
	return fmt.Sprintf("Ride(%d %q)", r.ID, r.Name)
}

// Station is a boarding point with its entrance, exit and queue.
type Station struct {
	Start    world.TileCoord `json:"start"`    // Where vehicles load
	End      world.TileCoord `json:"end"`      // Far end of the platform
	Entrance world.TileCoord `json:"entrance"` // Ride entrance tile
	Exit     world.TileCoord `json:"exit"`     // Ride exit tile
	Facing   world.Direction `json:"facing"`   // From the path into the ride

	// Queue holds pool indices, front first.
	Queue []uint16 `json:"queue"`
}

// Join appends a guest to the back of the queue.
func (s *Station) Join(peep uint16) {
	s.Queue = append(s.Queue, peep)
}

// Leave removes a guest from anywhere in the queue.
func (s *Station) Leave(peep uint16) bool {
	for i, p := range s.Queue {
		if p == peep {
			s.Queue = append(s.Queue[:i], s.Queue[i+1:]...)
			return true
		}
	}
	return false
}

// Front returns the guest at the head of the queue.
func (s *Station) Front() (uint16, bool) {
	if len(s.Queue) == 0 {
		return NoPeep, false
	}
	return s.Queue[0], true
}

// Position returns a guest's place in the queue, or -1.
func (s *Station) Position(peep uint16) int {
	for i, p := range s.Queue {
		if p == peep {
			return i
		}
	}
	return -1
}

// Ahead returns the guest directly in front of peep, or NoPeep.
func (s *Station) Ahead(peep uint16) uint16 {
	i := s.Position(peep)
	if i <= 0 {
		return NoPeep
	}
	return s.Queue[i-1]
}
