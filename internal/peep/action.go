package peep

import "github.com/talgya/park-peeps/internal/world"

// ActionType is a one-off animation played over the current state. While an
// action plays the peep does not move.
type ActionType uint8

const (
	ActionCheckTime ActionType = iota
	ActionEatFood              // Checks the time instead when there is no food
	ActionShakeHead
	ActionEmptyPockets
	ActionSittingEatFood
	ActionSittingLookAroundLeft
	ActionSittingLookAroundRight
	ActionWow
	ActionThrowUp
	ActionJump
	ActionStaffSweep
	ActionDrowning
	ActionStaffAnswerCall
	ActionStaffAnswerCall2
	ActionStaffCheckboard
	ActionStaffFix
	ActionStaffFix2
	ActionStaffFixGround
	ActionStaffFix3
	ActionStaffWatering
	ActionJoy
	ActionReadMap
	ActionWave
	ActionStaffEmptyBin
	ActionWave2
	ActionTakePhoto
	ActionClap
	ActionDisgust
	ActionDrawPicture
	ActionBeingWatched
	ActionWithdrawMoney

	ActionNone1 ActionType = 254 // Idle, not yet picked up by UpdateAction
	ActionNone2 ActionType = 255 // Idle
)

// IsIdle reports whether no action is playing, so another may start.
func (a ActionType) IsIdle() bool {
	return a >= ActionNone1
}

// ActionSpriteType is the animation currently drawn for the peep.
type ActionSpriteType uint8

const (
	SpriteActionNone ActionSpriteType = iota
	SpriteActionCheckTime
	SpriteActionWatchRide
	SpriteActionEatFood
	SpriteActionShakeHead
	SpriteActionEmptyPockets
	SpriteActionHoldMat
	SpriteActionSittingIdle
	SpriteActionSittingEatFood
	SpriteActionSittingLookAroundLeft
	SpriteActionSittingLookAroundRight
	SpriteActionUi
	SpriteActionStaffMower
	SpriteActionWow
	SpriteActionThrowUp
	SpriteActionJump
	SpriteActionStaffSweep
	SpriteActionDrowning
	SpriteActionStaffAnswerCall
	SpriteActionStaffAnswerCall2
	SpriteActionStaffCheckboard
	SpriteActionStaffFix
	SpriteActionStaffFix2
	SpriteActionStaffFixGround
	SpriteActionStaffFix3
	SpriteActionStaffWatering
	SpriteActionJoy
	SpriteActionReadMap
	SpriteActionWave
	SpriteActionStaffEmptyBin
	SpriteActionWave2
	SpriteActionTakePhoto
	SpriteActionClap
	SpriteActionDisgust
	SpriteActionDrawPicture
	SpriteActionBeingWatched
	SpriteActionWithdrawMoney

	SpriteActionInvalid ActionSpriteType = 255
)

type actionInfo struct {
	sprite ActionSpriteType
	frames uint8
}

var actionTable = map[ActionType]actionInfo{
	ActionCheckTime:              {SpriteActionCheckTime, 32},
	ActionEatFood:                {SpriteActionEatFood, 48},
	ActionShakeHead:              {SpriteActionShakeHead, 16},
	ActionEmptyPockets:           {SpriteActionEmptyPockets, 24},
	ActionSittingEatFood:         {SpriteActionSittingEatFood, 24},
	ActionSittingLookAroundLeft:  {SpriteActionSittingLookAroundLeft, 16},
	ActionSittingLookAroundRight: {SpriteActionSittingLookAroundRight, 16},
	ActionWow:                    {SpriteActionWow, 24},
	ActionThrowUp:                {SpriteActionThrowUp, 32},
	ActionJump:                   {SpriteActionJump, 24},
	ActionStaffSweep:             {SpriteActionStaffSweep, 32},
	ActionDrowning:               {SpriteActionDrowning, 64},
	ActionStaffAnswerCall:        {SpriteActionStaffAnswerCall, 24},
	ActionStaffAnswerCall2:       {SpriteActionStaffAnswerCall2, 24},
	ActionStaffCheckboard:        {SpriteActionStaffCheckboard, 48},
	ActionStaffFix:               {SpriteActionStaffFix, 48},
	ActionStaffFix2:              {SpriteActionStaffFix2, 96},
	ActionStaffFixGround:         {SpriteActionStaffFixGround, 64},
	ActionStaffFix3:              {SpriteActionStaffFix3, 112},
	ActionStaffWatering:          {SpriteActionStaffWatering, 32},
	ActionJoy:                    {SpriteActionJoy, 24},
	ActionReadMap:                {SpriteActionReadMap, 48},
	ActionWave:                   {SpriteActionWave, 16},
	ActionStaffEmptyBin:          {SpriteActionStaffEmptyBin, 32},
	ActionWave2:                  {SpriteActionWave2, 16},
	ActionTakePhoto:              {SpriteActionTakePhoto, 32},
	ActionClap:                   {SpriteActionClap, 24},
	ActionDisgust:                {SpriteActionDisgust, 24},
	ActionDrawPicture:            {SpriteActionDrawPicture, 64},
	ActionBeingWatched:           {SpriteActionBeingWatched, 32},
	ActionWithdrawMoney:          {SpriteActionWithdrawMoney, 40},
}

var specialSprites = [...]ActionSpriteType{
	SpecialNone:       SpriteActionNone,
	SpecialHoldMat:    SpriteActionHoldMat,
	SpecialStaffMower: SpriteActionStaffMower,
}

// walkStep is how far a peep moves, in world units, per UpdateAction call.
const walkStep = 2

const walkingFrames = 8

// throwUpFrame is the ThrowUp frame on which the sick lands.
const throwUpFrame = 15

// GetActionSpriteType returns the sprite for the current action, or the idle
// sprite of the carried special sprite when no action plays.
func (p *Peep) GetActionSpriteType() ActionSpriteType {
	if p.Action.IsIdle() {
		if int(p.SpecialSprite) < len(specialSprites) {
			return specialSprites[p.SpecialSprite]
		}
		return SpriteActionNone
	}
	if info, ok := actionTable[p.Action]; ok {
		return info.sprite
	}
	return SpriteActionNone
}

// UpdateCurrentActionSpriteType refreshes the drawn animation after the action
// or special sprite changed.
func (p *Peep) UpdateCurrentActionSpriteType() {
	next := p.GetActionSpriteType()
	p.NextActionSpriteType = next
	if next == p.ActionSpriteType {
		return
	}
	p.ActionSpriteType = next
	p.WindowInvalidate |= InvalidateAction
}

// SwitchToSpecialSprite changes the carried gear sprite.
func (p *Peep) SwitchToSpecialSprite(s SpecialSprite) {
	if s == p.SpecialSprite {
		return
	}
	p.SpecialSprite = s
	if p.Action.IsIdle() {
		p.ActionSpriteImageOffset = 0
	}
	p.UpdateCurrentActionSpriteType()
}

// StartAction begins an action animation.
func (p *Peep) StartAction(a ActionType) {
	p.Action = a
	p.ActionFrame = 0
	p.ActionSpriteImageOffset = 0
	p.UpdateCurrentActionSpriteType()
}

// UpdateAction plays one frame of the current action, or takes one walking step
// toward the destination. It returns the position the peep should move to and
// true while the peep is busy; false means the peep is idle and has arrived.
func (p *Peep) UpdateAction(w *World) (world.Coords, bool) {
	if p.Action == ActionNone1 {
		p.Action = ActionNone2
	}
	cur := p.Pos.XY()

	if p.Action.IsIdle() {
		dx := cur.X - p.DestX
		dy := cur.Y - p.DestY
		if absInt(dx)+absInt(dy) <= int(p.DestTolerance) {
			return cur, false
		}
		next := cur
		if absInt(dx) < absInt(dy) {
			step := min(walkStep, absInt(dy))
			if dy > 0 {
				next.Y -= step
				p.Facing = world.DirSouth
			} else {
				next.Y += step
				p.Facing = world.DirNorth
			}
		} else {
			step := min(walkStep, absInt(dx))
			if dx > 0 {
				next.X -= step
				p.Facing = world.DirWest
			} else {
				next.X += step
				p.Facing = world.DirEast
			}
		}
		p.WalkingFrameNum = (p.WalkingFrameNum + 1) % walkingFrames
		return next, true
	}

	info, ok := actionTable[p.Action]
	if !ok {
		info = actionInfo{frames: 1}
	}
	p.ActionFrame++
	if p.Action == ActionThrowUp && p.ActionFrame == throwUpFrame {
		p.throwUp(w)
	}
	if p.ActionFrame >= info.frames {
		p.Action = ActionNone2
		p.ActionFrame = 0
		p.UpdateCurrentActionSpriteType()
		return cur, true
	}
	p.ActionSpriteImageOffset = p.ActionFrame
	return cur, true
}

func (p *Peep) throwUp(w *World) {
	if w != nil && w.Map != nil {
		w.Map.AddVomit(p.Pos.Tile())
	}
	p.Hunger /= 2
	p.NauseaTarget /= 2
	if p.Nausea < 30 {
		p.Nausea = 0
	} else {
		p.Nausea -= 30
	}
	p.WindowInvalidate |= Invalidate2
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
