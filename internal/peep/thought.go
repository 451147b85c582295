package peep

import "github.com/talgya/park-peeps/internal/ride"

// ThoughtType is what a guest is thinking about.
type ThoughtType uint8

const (
	ThoughtCantAfford0      ThoughtType = 0  // "I can't afford X"
	ThoughtSpentMoney       ThoughtType = 1  // "I've spent all my money"
	ThoughtSick             ThoughtType = 2  // "I feel sick"
	ThoughtVerySick         ThoughtType = 3  // "I feel very sick"
	ThoughtMoreThrilling    ThoughtType = 4  // "I want to go on something more thrilling than X"
	ThoughtIntense          ThoughtType = 5  // "X looks too intense for me"
	ThoughtHaventFinished   ThoughtType = 6  // "I haven't finished my X yet"
	ThoughtSickening        ThoughtType = 7  // "Just looking at X makes me feel sick"
	ThoughtBadValue         ThoughtType = 8  // "I'm not paying that much to go on X"
	ThoughtGoHome           ThoughtType = 9  // "I want to go home"
	ThoughtGoodValue        ThoughtType = 10 // "X is really good value"
	ThoughtAlreadyGot       ThoughtType = 11 // "I've already got X"
	ThoughtCantAfford       ThoughtType = 12 // "I can't afford X"
	ThoughtNotHungry        ThoughtType = 13
	ThoughtNotThirsty       ThoughtType = 14
	ThoughtDrowning         ThoughtType = 15
	ThoughtLost             ThoughtType = 16
	ThoughtWasGreat         ThoughtType = 17
	ThoughtQueuingAges      ThoughtType = 18
	ThoughtTired            ThoughtType = 19
	ThoughtHungry           ThoughtType = 20
	ThoughtThirsty          ThoughtType = 21
	ThoughtToilet           ThoughtType = 22
	ThoughtCantFind         ThoughtType = 23
	ThoughtNotPaying        ThoughtType = 24
	ThoughtNotWhileRaining  ThoughtType = 25
	ThoughtBadLitter        ThoughtType = 26
	ThoughtCantFindExit     ThoughtType = 27
	ThoughtGetOff           ThoughtType = 28
	ThoughtGetOut           ThoughtType = 29
	ThoughtNotSafe          ThoughtType = 30
	ThoughtPathDisgusting   ThoughtType = 31
	ThoughtCrowded          ThoughtType = 32
	ThoughtVandalism        ThoughtType = 33
	ThoughtScenery          ThoughtType = 34
	ThoughtVeryClean        ThoughtType = 35
	ThoughtFountains        ThoughtType = 36
	ThoughtMusic            ThoughtType = 37
	ThoughtBalloon          ThoughtType = 38 // First "good value" item thought
	ThoughtWow              ThoughtType = 67
	ThoughtWow2             ThoughtType = 70
	ThoughtWatched          ThoughtType = 71
	ThoughtBalloonMuch      ThoughtType = 72 // First "too expensive" item thought
	ThoughtPhoto2           ThoughtType = 104
	ThoughtPhoto2Much       ThoughtType = 136
	ThoughtHelp             ThoughtType = 168
	ThoughtRunningOut       ThoughtType = 169
	ThoughtNewRide          ThoughtType = 170
	ThoughtHereWeAre        ThoughtType = 173
	ThoughtNone             ThoughtType = 255
)

// Thought is one entry of a guest's thought list. Freshness grows as the thought
// ages; a thought that reaches staleThoughtFreshness is dropped.
type Thought struct {
	Type         ThoughtType `json:"type"`
	Item         uint8       `json:"item"`
	Freshness    uint8       `json:"freshness"`
	FreshTimeout uint8       `json:"fresh_timeout"`
}

const (
	freshThoughtTimeout   = 220
	staleThoughtFreshness = 28
)

// ItemValueThought is the "X is really good value" thought for an item.
func ItemValueThought(item ride.ShopItem) ThoughtType {
	if item.IsExtra() {
		return ThoughtPhoto2 + ThoughtType(item-ride.ShopItemExtraBase)
	}
	return ThoughtBalloon + ThoughtType(item)
}

// ItemExpensiveThought is the "I'm not paying that much for X" thought for an item.
func ItemExpensiveThought(item ride.ShopItem) ThoughtType {
	if item.IsExtra() {
		return ThoughtPhoto2Much + ThoughtType(item-ride.ShopItemExtraBase)
	}
	return ThoughtBalloonMuch + ThoughtType(item)
}

var thoughtActions = map[ThoughtType]ActionType{
	ThoughtCantAfford0:     ActionShakeHead,
	ThoughtSpentMoney:      ActionEmptyPockets,
	ThoughtMoreThrilling:   ActionShakeHead,
	ThoughtIntense:         ActionShakeHead,
	ThoughtSickening:       ActionShakeHead,
	ThoughtBadValue:        ActionShakeHead,
	ThoughtCantAfford:      ActionShakeHead,
	ThoughtNotPaying:       ActionShakeHead,
	ThoughtNotWhileRaining: ActionShakeHead,
	ThoughtBadLitter:       ActionDisgust,
	ThoughtPathDisgusting:  ActionDisgust,
	ThoughtWow:             ActionWow,
	ThoughtWow2:            ActionWow,
	ThoughtLost:            ActionCheckTime,
}

func (p *Peep) clearThoughts() {
	for i := range p.Thoughts {
		p.Thoughts[i] = Thought{Type: ThoughtNone, Item: ThoughtItemNone}
	}
}

// InsertNewThought puts a thought at the top of the list. A thought with the same
// type and item already present is moved to the top with its freshness reset;
// otherwise the oldest entry falls off the end. Thoughts with an attached action
// start it when the peep is idle.
func (p *Peep) InsertNewThought(t ThoughtType, item uint8) {
	if action, ok := thoughtActions[t]; ok && p.Action.IsIdle() {
		p.Action = action
		p.ActionFrame = 0
		p.ActionSpriteImageOffset = 0
		p.UpdateCurrentActionSpriteType()
	}

	last := MaxThoughts - 1
	for i := range p.Thoughts {
		th := p.Thoughts[i]
		if th.Type == ThoughtNone {
			break
		}
		if th.Type == t && th.Item == item {
			last = i
			break
		}
	}
	copy(p.Thoughts[1:last+1], p.Thoughts[0:last])
	p.Thoughts[0] = Thought{Type: t, Item: item}
	p.WindowInvalidate |= InvalidateThoughts
}

// ThoughtCount returns the number of live thoughts.
func (p *Peep) ThoughtCount() int {
	n := 0
	for _, th := range p.Thoughts {
		if th.Type == ThoughtNone {
			break
		}
		n++
	}
	return n
}

// HasThought reports whether a thought of type t is live.
func (p *Peep) HasThought(t ThoughtType) bool {
	for _, th := range p.Thoughts {
		if th.Type == ThoughtNone {
			return false
		}
		if th.Type == t {
			return true
		}
	}
	return false
}

// UpdateThoughts ages the thought list by one tick. Only one thought is fresh at
// a time; a fresh thought holds for freshThoughtTimeout ticks before the next
// new one is shown. Old thoughts age every 256 ticks and drop off when stale.
func (p *Peep) UpdateThoughts() {
	addFresh := true
	freshIdx := -1
	for i := 0; i < MaxThoughts; i++ {
		th := &p.Thoughts[i]
		if th.Type == ThoughtNone {
			break
		}
		switch {
		case th.Freshness == 1:
			addFresh = false
			th.FreshTimeout++
			if th.FreshTimeout >= freshThoughtTimeout {
				th.FreshTimeout = 0
				th.Freshness++
				addFresh = true
			}
		case th.Freshness > 1:
			th.FreshTimeout++
			if th.FreshTimeout != 0 {
				continue
			}
			th.Freshness++
			if th.Freshness >= staleThoughtFreshness {
				p.WindowInvalidate |= InvalidateThoughts
				copy(p.Thoughts[i:], p.Thoughts[i+1:])
				p.Thoughts[MaxThoughts-1] = Thought{Type: ThoughtNone, Item: ThoughtItemNone}
				i--
			}
		default:
			freshIdx = i
		}
	}
	if addFresh && freshIdx >= 0 {
		p.Thoughts[freshIdx].Freshness = 1
		p.WindowInvalidate |= InvalidateThoughts
	}
}
