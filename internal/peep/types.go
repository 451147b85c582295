// Package peep is the agent core of the park: guests and staff, their state
// machines, attributes and thoughts, and the pool that updates them every tick.
package peep

import (
	"errors"
	"fmt"
)

// Attribute bounds.
const (
	MaxHappiness      = 255
	MinEnergy         = 32
	MaxEnergy         = 128
	MaxEnergyTarget   = 255
	MaxHunger         = 255
	MaxToilet         = 255
	MaxNausea         = 255
	MaxThirst         = 255
	MaxThoughts       = 5
	ThoughtItemNone   = 255
	PreviousRideReset = 720
)

// Problem warning thresholds: the count of guests with a complaint that triggers
// a park notice.
const (
	HungerWarningThreshold    = 25
	ThirstWarningThreshold    = 25
	ToiletWarningThreshold    = 28
	LitterWarningThreshold    = 23
	DisgustWarningThreshold   = 22
	VandalismWarningThreshold = 15
	NoExitWarningThreshold    = 8
	LostWarningThreshold      = 8
)

var (
	ErrSubStateMismatch = errors.New("sub-state read under wrong state")
	ErrPoolExhausted    = errors.New("peep pool exhausted")
	ErrNotPickable      = errors.New("peep cannot be picked up")
	ErrInvalidPlacement = errors.New("invalid placement")
	ErrNoSuchPeep       = errors.New("no such peep")
	ErrNotStaff         = errors.New("peep is not staff")
	ErrStaffLimit       = errors.New("too many staff")
)

// PeepType is the closed set of agent kinds.
type PeepType uint8

const (
	TypeGuest PeepType = iota
	TypeStaff
)

func (t PeepType) String() string {
	if t == TypeStaff {
		return "staff"
	}
	return "guest"
}

// StaffType is the job a staff member was hired for.
type StaffType uint8

const (
	StaffHandyman StaffType = iota
	StaffMechanic
	StaffSecurity
	StaffEntertainer
	StaffTypeCount
)

var staffTypeNames = [StaffTypeCount]string{"handyman", "mechanic", "security", "entertainer"}

func (s StaffType) String() string {
	if s >= StaffTypeCount {
		return "unknown"
	}
	return staffTypeNames[s]
}

// ParseStaffType looks a staff type up by name.
func ParseStaffType(name string) (StaffType, error) {
	for i, n := range staffTypeNames {
		if n == name {
			return StaffType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown staff type %q", name)
}

// State is the top-level peep state.
type State uint8

const (
	StateFalling State = iota // Drowning is part of falling
	StateOne
	StateQueuingFront
	StateOnRide
	StateLeavingRide
	StateWalking
	StateQueuing
	StateEnteringRide
	StateSitting
	StatePicked
	StatePatrolling
	StateMowing
	StateSweeping
	StateEnteringPark
	StateLeavingPark
	StateAnswering
	StateFixing
	StateBuying
	StateWatching
	StateEmptyingBin
	StateUsingBin
	StateWatering
	StateHeadingToInspection
	StateInspecting
	StateCount
)

var stateNames = [StateCount]string{
	"falling", "one", "queuing_front", "on_ride", "leaving_ride", "walking",
	"queuing", "entering_ride", "sitting", "picked", "patrolling", "mowing",
	"sweeping", "entering_park", "leaving_park", "answering", "fixing", "buying",
	"watching", "emptying_bin", "using_bin", "watering", "heading_to_inspection",
	"inspecting",
}

func (s State) String() string {
	if s >= StateCount {
		return "unknown"
	}
	return stateNames[s]
}

// InRideFamily reports whether the state belongs to the ride pipeline.
func (s State) InRideFamily() bool {
	return s == StateQueuingFront || s == StateOnRide || s == StateLeavingRide || s == StateEnteringRide
}

// Flags are the per-peep behaviour bits.
type Flags uint32

const (
	FlagLeavingPark       Flags = 1 << 0
	FlagSlowWalk          Flags = 1 << 1
	Flag2                 Flags = 1 << 2
	FlagTracking          Flags = 1 << 3
	FlagWaving            Flags = 1 << 4
	FlagHasPaidParkEntry  Flags = 1 << 5
	FlagPhoto             Flags = 1 << 6
	FlagPainting          Flags = 1 << 7
	FlagWow               Flags = 1 << 8
	FlagLitter            Flags = 1 << 9
	FlagLost              Flags = 1 << 10
	FlagHunger            Flags = 1 << 11
	FlagToilet            Flags = 1 << 12
	FlagCrowded           Flags = 1 << 13
	FlagHappiness         Flags = 1 << 14
	FlagNausea            Flags = 1 << 15
	FlagPurple            Flags = 1 << 16
	FlagPizza             Flags = 1 << 17
	FlagExplode           Flags = 1 << 18
	FlagRideFavourite     Flags = 1 << 19
	FlagParkEntranceChose Flags = 1 << 20
	Flag21                Flags = 1 << 21 // Toggled by the lost check
	FlagContagious        Flags = 1 << 22
	FlagJoy               Flags = 1 << 23
	FlagAngry             Flags = 1 << 24
	FlagIceCream          Flags = 1 << 25
	FlagHereWeAre         Flags = 1 << 28
	FlagRidePaid          Flags = 1 << 29 // Paid for and entered the current ride
	FlagRode              Flags = 1 << 30 // Boarded, slid or walked the current ride
)

// Window invalidation bits raised for the UI.
const (
	InvalidateThoughts  uint8 = 1 << 0
	InvalidateStats     uint8 = 1 << 1
	Invalidate2         uint8 = 1 << 2
	InvalidateInventory uint8 = 1 << 3
	InvalidateStaff     uint8 = 1 << 4
	InvalidateAction    uint8 = 1 << 5
)

// PathingResult is the flag set PerformNextAction reports to its caller.
type PathingResult uint8

const (
	PathingDestinationReached PathingResult = 1 << 0
	PathingOutsidePark        PathingResult = 1 << 1
	PathingRideExit           PathingResult = 1 << 2
	PathingRideEntrance       PathingResult = 1 << 3
)

// NauseaTolerance is how much nausea a guest will put up with.
type NauseaTolerance uint8

const (
	NauseaNone NauseaTolerance = iota
	NauseaLow
	NauseaAverage
	NauseaHigh
)

// IntensityRange packs a guest's preferred ride intensity as two nibbles
// (minimum low, maximum high), each 0–15 in units of 100.
type IntensityRange uint8

// NewIntensityRange builds a range, clamping both ends to 15.
func NewIntensityRange(lo, hi uint8) IntensityRange {
	return IntensityRange(min(lo, 15) | min(hi, 15)<<4)
}

func (r IntensityRange) Min() uint8 { return uint8(r) & 0x0F }
func (r IntensityRange) Max() uint8 { return uint8(r) >> 4 }

// WithMin returns the range with a new minimum.
func (r IntensityRange) WithMin(v uint8) IntensityRange { return NewIntensityRange(v, r.Max()) }

// WithMax returns the range with a new maximum.
func (r IntensityRange) WithMax(v uint8) IntensityRange { return NewIntensityRange(r.Min(), v) }

// SpriteType is the body sprite set the peep is drawn with.
type SpriteType uint8

const (
	SpriteNormal SpriteType = iota
	SpriteHandyman
	SpriteMechanic
	SpriteSecurity
	SpriteEntertainer
	SpriteIceCream
	SpriteBurger
	SpriteDrink
	SpriteBalloon
	SpriteUmbrella
	SpritePizza
	SpriteNauseous
	SpriteVeryNauseous
	SpriteRequireToilet
	SpriteHeadDown
	SpriteArmsCrossed
	SpriteHat
	SpriteWatching
)

// SpecialSprite is carried gear that replaces the idle animation.
type SpecialSprite uint8

const (
	SpecialNone SpecialSprite = iota
	SpecialHoldMat
	SpecialStaffMower
)

// Colour indices used for clothing and carried items.
const (
	ColourPurple = 9
	ColourDefault = 0
)
