package peep

import (
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/talgya/park-peeps/internal/ride"
)

// thoughtSubject is what a thought's item byte refers to.
type thoughtSubject uint8

const (
	subjectNone thoughtSubject = iota
	subjectRide
	subjectItem
)

var thoughtFormats = map[ThoughtType]string{
	ThoughtCantAfford0:     "I can't afford %s",
	ThoughtSpentMoney:      "I've spent all my money",
	ThoughtSick:            "I feel sick",
	ThoughtVerySick:        "I feel very sick",
	ThoughtMoreThrilling:   "I want to go on something more thrilling than %s",
	ThoughtIntense:         "%s looks too intense for me",
	ThoughtHaventFinished:  "I haven't finished my %s yet",
	ThoughtSickening:       "Just looking at %s makes me feel sick",
	ThoughtBadValue:        "I'm not paying that much to go on %s",
	ThoughtGoHome:          "I want to go home",
	ThoughtGoodValue:       "%s is really good value",
	ThoughtAlreadyGot:      "I've already got %s",
	ThoughtCantAfford:      "I can't afford %s",
	ThoughtNotHungry:       "I'm not hungry",
	ThoughtNotThirsty:      "I'm not thirsty",
	ThoughtDrowning:        "Help! I'm drowning!",
	ThoughtLost:            "I'm lost!",
	ThoughtWasGreat:        "%s was great",
	ThoughtQueuingAges:     "I've been queuing for %s for ages",
	ThoughtTired:           "I'm tired",
	ThoughtHungry:          "I'm hungry",
	ThoughtThirsty:         "I'm thirsty",
	ThoughtToilet:          "I need to go to the toilet",
	ThoughtCantFind:        "I can't find %s",
	ThoughtNotPaying:       "I'm not paying that much to use %s",
	ThoughtNotWhileRaining: "I'm not going on %s while it's raining",
	ThoughtBadLitter:       "The litter here is really bad",
	ThoughtCantFindExit:    "I can't find the park exit",
	ThoughtGetOff:          "I want to get off %s",
	ThoughtGetOut:          "I want to get out of %s",
	ThoughtNotSafe:         "I'm not going on %s, it isn't safe",
	ThoughtPathDisgusting:  "This path is disgusting",
	ThoughtCrowded:         "It's too crowded here",
	ThoughtVandalism:       "The vandalism here is really bad",
	ThoughtScenery:         "Great scenery!",
	ThoughtVeryClean:       "This park is very clean and tidy",
	ThoughtFountains:       "The jumping fountains are great",
	ThoughtMusic:           "The music is nice here",
	ThoughtWow:             "Wow!",
	ThoughtWow2:            "Wow!",
	ThoughtWatched:         "I enjoyed watching %s",
	ThoughtHelp:            "Help! Put me down!",
	ThoughtRunningOut:      "I'm running out of cash!",
	ThoughtNewRide:         "Wow! A new ride being built!",
	ThoughtHereWeAre:       "Here we are at %s!",
}

var rideThoughts = []ThoughtType{
	ThoughtCantAfford0, ThoughtMoreThrilling, ThoughtIntense, ThoughtSickening,
	ThoughtBadValue, ThoughtGoodValue, ThoughtWasGreat, ThoughtQueuingAges,
	ThoughtCantFind, ThoughtNotPaying, ThoughtNotWhileRaining, ThoughtGetOff,
	ThoughtGetOut, ThoughtNotSafe, ThoughtWatched, ThoughtHereWeAre,
}

// subjectOf classifies a thought and, for the per-item value thoughts, names
// the item the thought is about.
func subjectOf(t ThoughtType) (thoughtSubject, ride.ShopItem, string) {
	switch {
	case t >= ThoughtBalloon && t < ThoughtWow:
		return subjectItem, ride.ShopItem(t - ThoughtBalloon), "%s is really good value"
	case t >= ThoughtBalloonMuch && t < ThoughtPhoto2:
		return subjectItem, ride.ShopItem(t - ThoughtBalloonMuch), "I'm not paying that much for %s"
	case t >= ThoughtPhoto2 && t < ThoughtPhoto2Much:
		return subjectItem, ride.ShopItemExtraBase + ride.ShopItem(t-ThoughtPhoto2), "%s is really good value"
	case t >= ThoughtPhoto2Much && t < ThoughtHelp:
		return subjectItem, ride.ShopItemExtraBase + ride.ShopItem(t-ThoughtPhoto2Much), "I'm not paying that much for %s"
	case t == ThoughtHaventFinished || t == ThoughtAlreadyGot || t == ThoughtCantAfford:
		return subjectItem, ride.ItemNone, thoughtFormats[t]
	case slices.Contains(rideThoughts, t):
		return subjectRide, ride.ItemNone, thoughtFormats[t]
	}
	return subjectNone, ride.ItemNone, thoughtFormats[t]
}

// ThoughtFormatArgs returns the format string for a thought and the arguments
// that fill it. Unknown thoughts render as an empty format.
func (w *World) ThoughtFormatArgs(th Thought) (string, []any) {
	kind, item, format := subjectOf(th.Type)
	switch kind {
	case subjectRide:
		return format, []any{w.rideName(ride.ID(th.Item))}
	case subjectItem:
		if item == ride.ItemNone {
			item = ride.ShopItem(th.Item)
		}
		return format, []any{item.Info().Name}
	}
	return format, nil
}

// ThoughtText renders a thought as the guest would say it.
func (w *World) ThoughtText(th Thought) string {
	format, args := w.ThoughtFormatArgs(th)
	if format == "" {
		return ""
	}
	return fmt.Sprintf(format, args...)
}

func (w *World) rideName(id ride.ID) string {
	if r := w.Rides.Get(id); r != nil {
		return r.Name
	}
	return "the ride"
}

// FormatActionTo describes what the peep is doing, as shown in its window.
func (w *World) FormatActionTo(p *Peep) string {
	var current ride.ID = ride.NoRide
	if g := p.Guest(); g != nil {
		current = g.CurrentRide
	} else if s := p.Staff(); s != nil {
		current = s.CurrentRide
	}

	switch p.State {
	case StateFalling:
		if p.Action == ActionDrowning {
			return "Drowning"
		}
		return "Walking"
	case StateOne, StateWalking:
		if g := p.Guest(); g != nil && g.HeadingToRide != ride.NoRide {
			return "Heading for " + w.rideName(g.HeadingToRide)
		}
		if p.Guest() != nil && p.Flags&FlagLeavingPark != 0 {
			return "Leaving the park"
		}
		return "Walking"
	case StateQueuing, StateQueuingFront:
		desc := "Queuing for " + w.rideName(current)
		if pos := w.queuePosition(p, current); pos > 0 {
			desc += fmt.Sprintf(" (%s in line)", humanize.Ordinal(pos))
		}
		return desc
	case StateEnteringRide, StateOnRide:
		return "On " + w.rideName(current)
	case StateLeavingRide:
		return "Leaving " + w.rideName(current)
	case StateBuying:
		return "At " + w.rideName(current)
	case StateSitting:
		return "Sitting"
	case StateWatching:
		return "Watching the rides"
	case StatePicked:
		return "Being carried"
	case StateEnteringPark:
		return "Entering the park"
	case StateLeavingPark:
		return "Leaving the park"
	case StatePatrolling:
		return "Walking"
	case StateMowing:
		return "Mowing grass"
	case StateSweeping:
		return "Sweeping footpath"
	case StateWatering:
		return "Watering gardens"
	case StateEmptyingBin:
		return "Emptying litter bin"
	case StateUsingBin:
		return "Putting litter in litter bin"
	case StateAnswering:
		if p.Sub.Step() == 0 {
			return "Answering radio call"
		}
		return "Heading to " + w.rideName(current)
	case StateFixing:
		return "Fixing " + w.rideName(current)
	case StateHeadingToInspection:
		return "Heading to " + w.rideName(current) + " for an inspection"
	case StateInspecting:
		return "Inspecting " + w.rideName(current)
	}
	return p.State.String()
}

// queuePosition is the 1-based place of a queuing guest, or 0.
func (w *World) queuePosition(p *Peep, id ride.ID) int {
	g := p.Guest()
	r := w.Rides.Get(id)
	if g == nil || r == nil || int(g.CurrentRideStation) >= len(r.Stations) {
		return 0
	}
	return r.Stations[g.CurrentRideStation].Position(p.Index) + 1
}

// GuestSummary is a one-line account of a guest's visit so far.
func (w *World) GuestSummary(p *Peep) string {
	g := p.Guest()
	if g == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s rides, spent %s, %s in pocket",
		p.DisplayName(w.RealNames), humanize.Comma(int64(g.NumRides)), g.CashSpent, g.CashInPocket)
}
