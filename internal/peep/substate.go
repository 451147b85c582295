package peep

import "fmt"

// RideSubState is a guest's stage in the ride pipeline.
type RideSubState uint8

const (
	RideAtEntrance               RideSubState = 0
	RideInEntrance               RideSubState = 1
	RideFreeVehicleCheck         RideSubState = 2 // Pays for the ride
	RideLeaveEntrance            RideSubState = 3
	RideApproachVehicle          RideSubState = 4
	RideEnterVehicle             RideSubState = 5
	RideOnRide                   RideSubState = 6
	RideLeaveVehicle             RideSubState = 7
	RideApproachExit             RideSubState = 8
	RideInExit                   RideSubState = 9
	RideApproachVehicleWaypoints RideSubState = 12
	RideApproachExitWaypoints    RideSubState = 13
	RideApproachSpiralSlide      RideSubState = 14
	RideOnSpiralSlide            RideSubState = 15
	RideLeaveSpiralSlide         RideSubState = 16
	RideMazePathfinding          RideSubState = 17
	RideLeaveExit                RideSubState = 18
	RideApproachShop             RideSubState = 19
	RideInteractShop             RideSubState = 20
	RideLeaveShop                RideSubState = 21
)

func (r RideSubState) valid() bool {
	return r <= RideInExit || (r >= RideApproachVehicleWaypoints && r <= RideLeaveShop)
}

// SittingSubState is a guest's progress on a bench.
type SittingSubState uint8

const (
	SittingTryingToSit SittingSubState = iota
	SittingSatDown
)

// UsingBinSubState is a guest's progress throwing rubbish away.
type UsingBinSubState uint8

const (
	UsingBinWalkingToBin UsingBinSubState = iota
	UsingBinGoingBack
)

// FixingStep is a mechanic's stage in a repair or inspection.
type FixingStep uint8

const (
	FixEnterStation FixingStep = iota
	FixMoveToBrokenVehicle
	FixVehicle
	FixVehicleMalfunction
	FixMoveToStationEnd
	FixStationEnd
	FixMoveToStationStart
	FixStationStart
	FixStationBrakes
	FixMoveToStationExit
	FixFinishFixOrInspect
	FixLeaveByEntranceExit
	fixStepCount
)

// SubStateKind names which sub-state shape a State carries.
type SubStateKind uint8

const (
	SubNone SubStateKind = iota
	SubRide
	SubSitting
	SubUsingBin
	SubFixing
	SubStep // A plain step counter
)

var subStateKindNames = []string{"none", "ride", "sitting", "using_bin", "fixing", "step"}

func (k SubStateKind) String() string {
	if int(k) >= len(subStateKindNames) {
		return "unknown"
	}
	return subStateKindNames[k]
}

// KindOf returns the sub-state shape a state uses.
func KindOf(s State) SubStateKind {
	switch s {
	case StateQueuingFront, StateOnRide, StateLeavingRide, StateEnteringRide:
		return SubRide
	case StateSitting:
		return SubSitting
	case StateUsingBin:
		return SubUsingBin
	case StateFixing, StateInspecting:
		return SubFixing
	case StateFalling, StateOne, StateWalking, StateQueuing, StatePatrolling:
		return SubNone
	default:
		return SubStep
	}
}

// SubState is the secondary state of a peep, tagged with the State that owns it.
// Accessors check the tag: reading a shape the owning state does not define is
// a programming error and panics; the Try variants return ErrSubStateMismatch.
type SubState struct {
	owner State
	value uint8
}

// NewSubState returns the initial sub-state for a state.
func NewSubState(s State) SubState {
	return SubState{owner: s}
}

// restoreSubState rebuilds a sub-state from a save record. The shape comes
// strictly from the owning state.
func restoreSubState(s State, raw uint8) (SubState, error) {
	sub := SubState{owner: s, value: raw}
	if !sub.Valid() {
		return SubState{}, fmt.Errorf("sub-state %d for %s: %w", raw, s, ErrSubStateMismatch)
	}
	return sub, nil
}

// Owner returns the state the sub-state belongs to.
func (s SubState) Owner() State { return s.owner }

// Kind returns the sub-state shape.
func (s SubState) Kind() SubStateKind { return KindOf(s.owner) }

// Raw is the stored byte, used by the save record.
func (s SubState) Raw() uint8 { return s.value }

// Valid reports whether the value is in its shape's domain.
func (s SubState) Valid() bool {
	switch s.Kind() {
	case SubNone:
		return s.value == 0
	case SubRide:
		return RideSubState(s.value).valid()
	case SubSitting:
		return s.value <= uint8(SittingSatDown)
	case SubUsingBin:
		return s.value <= uint8(UsingBinGoingBack)
	case SubFixing:
		return s.value < uint8(fixStepCount)
	default:
		return true
	}
}

func (s SubState) check(want SubStateKind) error {
	if s.Kind() != want {
		return fmt.Errorf("%s sub-state under %s: %w", want, s.owner, ErrSubStateMismatch)
	}
	return nil
}

func (s SubState) must(want SubStateKind) {
	if err := s.check(want); err != nil {
		panic(err)
	}
}

func (s SubState) TryRide() (RideSubState, error) {
	if err := s.check(SubRide); err != nil {
		return 0, err
	}
	return RideSubState(s.value), nil
}

func (s SubState) Ride() RideSubState {
	s.must(SubRide)
	return RideSubState(s.value)
}

func (s SubState) TrySitting() (SittingSubState, error) {
	if err := s.check(SubSitting); err != nil {
		return 0, err
	}
	return SittingSubState(s.value), nil
}

func (s SubState) Sitting() SittingSubState {
	s.must(SubSitting)
	return SittingSubState(s.value)
}

func (s SubState) UsingBin() UsingBinSubState {
	s.must(SubUsingBin)
	return UsingBinSubState(s.value)
}

func (s SubState) TryFixing() (FixingStep, error) {
	if err := s.check(SubFixing); err != nil {
		return 0, err
	}
	return FixingStep(s.value), nil
}

func (s SubState) Fixing() FixingStep {
	s.must(SubFixing)
	return FixingStep(s.value)
}

func (s SubState) Step() uint8 {
	s.must(SubStep)
	return s.value
}

func (s *SubState) SetRide(v RideSubState) {
	s.must(SubRide)
	s.value = uint8(v)
}

func (s *SubState) SetSitting(v SittingSubState) {
	s.must(SubSitting)
	s.value = uint8(v)
}

func (s *SubState) SetUsingBin(v UsingBinSubState) {
	s.must(SubUsingBin)
	s.value = uint8(v)
}

func (s *SubState) SetFixing(v FixingStep) {
	s.must(SubFixing)
	s.value = uint8(v)
}

func (s *SubState) SetStep(v uint8) {
	s.must(SubStep)
	s.value = v
}

func (s SubState) String() string {
	return fmt.Sprintf("%s/%s:%d", s.owner, s.Kind(), s.value)
}
