package peep

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/talgya/park-peeps/internal/world"
)

// Save record layout: a fixed header of the fields every peep has, then the
// role half at roleOffset. Unused bytes are zero.
const (
	RecordSize    = 512
	roleOffset    = 256
	recordVersion = 1
)

var ErrBadRecord = errors.New("malformed peep record")

type pathNodeRecord struct {
	X, Y      int32
	Direction uint8
}

type pickupRecord struct {
	PosX, PosY, PosZ    int32
	NextX, NextY, NextZ int32
	NextDirection       world.Direction
	NextSloped          bool
	NextSurface         bool
	Facing              world.Direction
	State               State
	Sub                 uint8
	Action              ActionType
	ActionFrame         uint8
	DestX, DestY        int32
	DestTolerance       uint8
}

type peepRecord struct {
	Version uint16
	Index   uint16
	ID      uint32
	Name    [MaxNameLength]byte
	Type    PeepType

	PosX, PosY, PosZ    int32
	NextX, NextY, NextZ int32
	NextDirection       world.Direction
	NextSloped          bool
	NextSurface         bool
	Facing              world.Direction
	OutsideOfPark       bool

	State State
	Sub   uint8

	DestX, DestY  int32
	DestTolerance uint8

	Energy          uint8
	EnergyTarget    uint8
	Happiness       uint8
	HappinessTarget uint8
	Nausea          uint8
	NauseaTarget    uint8
	Hunger          uint8
	Thirst          uint8
	Toilet          uint8
	Mass            uint8
	Intensity       IntensityRange
	NauseaTolerance NauseaTolerance

	SpriteType              SpriteType
	SpecialSprite           SpecialSprite
	Action                  ActionType
	ActionFrame             uint8
	ActionSpriteType        ActionSpriteType
	NextActionSpriteType    ActionSpriteType
	ActionSpriteImageOffset uint8
	WalkingFrameNum         uint8
	StepProgress            uint8
	TshirtColour            uint8
	TrousersColour          uint8

	PathCheckOptimisation uint8
	PathfindGoal          pathNodeRecord
	PathfindHistory       [4]pathNodeRecord

	Flags    Flags
	Thoughts [MaxThoughts]Thought
	Picked   pickupRecord
}

func toPathNodeRecord(n PathNode) pathNodeRecord {
	return pathNodeRecord{X: int32(n.Tile.X), Y: int32(n.Tile.Y), Direction: n.Direction}
}

func (r pathNodeRecord) node() PathNode {
	return PathNode{Tile: world.TileCoord{X: int(r.X), Y: int(r.Y)}, Direction: r.Direction}
}

// MarshalBinary writes the peep as a RecordSize-byte save record.
func (p *Peep) MarshalBinary() ([]byte, error) {
	if len(p.Name) > MaxNameLength {
		return nil, fmt.Errorf("encode peep %d: name longer than %d bytes: %w", p.Index, MaxNameLength, ErrBadRecord)
	}
	rec := peepRecord{
		Version: recordVersion,
		Index:   p.Index,
		ID:      p.ID,
		Type:    p.Type,

		PosX:          int32(p.Pos.X),
		PosY:          int32(p.Pos.Y),
		PosZ:          int32(p.Pos.Z),
		NextX:         int32(p.NextLoc.X),
		NextY:         int32(p.NextLoc.Y),
		NextZ:         int32(p.NextLoc.Z),
		NextDirection: p.NextDirection,
		NextSloped:    p.NextSloped,
		NextSurface:   p.NextSurface,
		Facing:        p.Facing,
		OutsideOfPark: p.OutsideOfPark,

		State: p.State,
		Sub:   p.Sub.Raw(),

		DestX:         int32(p.DestX),
		DestY:         int32(p.DestY),
		DestTolerance: p.DestTolerance,

		Energy:          p.Energy,
		EnergyTarget:    p.EnergyTarget,
		Happiness:       p.Happiness,
		HappinessTarget: p.HappinessTarget,
		Nausea:          p.Nausea,
		NauseaTarget:    p.NauseaTarget,
		Hunger:          p.Hunger,
		Thirst:          p.Thirst,
		Toilet:          p.Toilet,
		Mass:            p.Mass,
		Intensity:       p.Intensity,
		NauseaTolerance: p.NauseaTolerance,

		SpriteType:              p.SpriteType,
		SpecialSprite:           p.SpecialSprite,
		Action:                  p.Action,
		ActionFrame:             p.ActionFrame,
		ActionSpriteType:        p.ActionSpriteType,
		NextActionSpriteType:    p.NextActionSpriteType,
		ActionSpriteImageOffset: p.ActionSpriteImageOffset,
		WalkingFrameNum:         p.WalkingFrameNum,
		StepProgress:            p.StepProgress,
		TshirtColour:            p.TshirtColour,
		TrousersColour:          p.TrousersColour,

		PathCheckOptimisation: p.PathCheckOptimisation,
		PathfindGoal:          toPathNodeRecord(p.PathfindGoal),

		Flags:    p.Flags,
		Thoughts: p.Thoughts,
	}
	copy(rec.Name[:], p.Name)
	for i, n := range p.PathfindHistory {
		rec.PathfindHistory[i] = toPathNodeRecord(n)
	}
	o := p.PickedFrom
	rec.Picked = pickupRecord{
		PosX:          int32(o.Pos.X),
		PosY:          int32(o.Pos.Y),
		PosZ:          int32(o.Pos.Z),
		NextX:         int32(o.NextLoc.X),
		NextY:         int32(o.NextLoc.Y),
		NextZ:         int32(o.NextLoc.Z),
		NextDirection: o.NextDirection,
		NextSloped:    o.NextSloped,
		NextSurface:   o.NextSurface,
		Facing:        o.Facing,
		State:         o.State,
		Sub:           o.Sub,
		Action:        o.Action,
		ActionFrame:   o.ActionFrame,
		DestX:         int32(o.DestX),
		DestY:         int32(o.DestY),
		DestTolerance: o.DestTolerance,
	}

	out := make([]byte, RecordSize)
	var head bytes.Buffer
	if err := binary.Write(&head, binary.LittleEndian, &rec); err != nil {
		return nil, fmt.Errorf("encode peep %d: %w", p.Index, err)
	}
	if head.Len() > roleOffset {
		return nil, fmt.Errorf("encode peep %d: header is %d bytes: %w", p.Index, head.Len(), ErrBadRecord)
	}
	copy(out, head.Bytes())

	var role bytes.Buffer
	var err error
	switch r := p.Role.(type) {
	case *GuestRole:
		err = binary.Write(&role, binary.LittleEndian, r)
	case *StaffRole:
		err = binary.Write(&role, binary.LittleEndian, r)
	default:
		return nil, fmt.Errorf("encode peep %d: no role: %w", p.Index, ErrBadRecord)
	}
	if err != nil {
		return nil, fmt.Errorf("encode peep %d role: %w", p.Index, err)
	}
	if role.Len() > RecordSize-roleOffset {
		return nil, fmt.Errorf("encode peep %d: role is %d bytes: %w", p.Index, role.Len(), ErrBadRecord)
	}
	copy(out[roleOffset:], role.Bytes())
	return out, nil
}

// UnmarshalBinary restores a peep from a save record. The sub-state is
// interpreted strictly by the saved state.
func (p *Peep) UnmarshalBinary(data []byte) error {
	if len(data) != RecordSize {
		return fmt.Errorf("peep record is %d bytes, want %d: %w", len(data), RecordSize, ErrBadRecord)
	}
	var rec peepRecord
	if err := binary.Read(bytes.NewReader(data[:roleOffset]), binary.LittleEndian, &rec); err != nil {
		return fmt.Errorf("decode peep: %w", err)
	}
	if rec.Version != recordVersion {
		return fmt.Errorf("peep record version %d: %w", rec.Version, ErrBadRecord)
	}
	sub, err := restoreSubState(rec.State, rec.Sub)
	if err != nil {
		return fmt.Errorf("decode peep %d: %w", rec.Index, err)
	}

	var role Role
	roleData := bytes.NewReader(data[roleOffset:])
	switch rec.Type {
	case TypeGuest:
		g := &GuestRole{}
		err = binary.Read(roleData, binary.LittleEndian, g)
		role = g
	case TypeStaff:
		s := &StaffRole{}
		err = binary.Read(roleData, binary.LittleEndian, s)
		role = s
	default:
		return fmt.Errorf("decode peep %d: type %d: %w", rec.Index, rec.Type, ErrBadRecord)
	}
	if err != nil {
		return fmt.Errorf("decode peep %d role: %w", rec.Index, err)
	}

	*p = Peep{
		Index: rec.Index,
		ID:    rec.ID,
		Name:  string(bytes.TrimRight(rec.Name[:], "\x00")),
		Type:  rec.Type,

		Pos:           world.CoordsXYZ{X: int(rec.PosX), Y: int(rec.PosY), Z: int(rec.PosZ)},
		NextLoc:       world.CoordsXYZ{X: int(rec.NextX), Y: int(rec.NextY), Z: int(rec.NextZ)},
		NextDirection: rec.NextDirection,
		NextSloped:    rec.NextSloped,
		NextSurface:   rec.NextSurface,
		Facing:        rec.Facing,
		OutsideOfPark: rec.OutsideOfPark,

		State: rec.State,
		Sub:   sub,

		DestX:         int(rec.DestX),
		DestY:         int(rec.DestY),
		DestTolerance: rec.DestTolerance,

		Energy:          rec.Energy,
		EnergyTarget:    rec.EnergyTarget,
		Happiness:       rec.Happiness,
		HappinessTarget: rec.HappinessTarget,
		Nausea:          rec.Nausea,
		NauseaTarget:    rec.NauseaTarget,
		Hunger:          rec.Hunger,
		Thirst:          rec.Thirst,
		Toilet:          rec.Toilet,
		Mass:            rec.Mass,
		Intensity:       rec.Intensity,
		NauseaTolerance: rec.NauseaTolerance,

		SpriteType:              rec.SpriteType,
		SpecialSprite:           rec.SpecialSprite,
		Action:                  rec.Action,
		ActionFrame:             rec.ActionFrame,
		ActionSpriteType:        rec.ActionSpriteType,
		NextActionSpriteType:    rec.NextActionSpriteType,
		ActionSpriteImageOffset: rec.ActionSpriteImageOffset,
		WalkingFrameNum:         rec.WalkingFrameNum,
		StepProgress:            rec.StepProgress,
		TshirtColour:            rec.TshirtColour,
		TrousersColour:          rec.TrousersColour,

		PathCheckOptimisation: rec.PathCheckOptimisation,
		PathfindGoal:          rec.PathfindGoal.node(),

		Flags:    rec.Flags,
		Thoughts: rec.Thoughts,
		Role:     role,
	}
	for i, n := range rec.PathfindHistory {
		p.PathfindHistory[i] = n.node()
	}
	o := rec.Picked
	p.PickedFrom = PickupOrigin{
		Pos:           world.CoordsXYZ{X: int(o.PosX), Y: int(o.PosY), Z: int(o.PosZ)},
		NextLoc:       world.CoordsXYZ{X: int(o.NextX), Y: int(o.NextY), Z: int(o.NextZ)},
		NextDirection: o.NextDirection,
		NextSloped:    o.NextSloped,
		NextSurface:   o.NextSurface,
		Facing:        o.Facing,
		State:         o.State,
		Sub:           o.Sub,
		Action:        o.Action,
		ActionFrame:   o.ActionFrame,
		DestX:         int(o.DestX),
		DestY:         int(o.DestY),
		DestTolerance: o.DestTolerance,
	}
	return nil
}
