package peep

import (
	"log/slog"

	"github.com/talgya/park-peeps/internal/ride"
)

// Warning is a park-wide problem guests are complaining about.
type Warning uint8

const (
	WarningHungry Warning = iota
	WarningThirsty
	WarningToilet
	WarningLitter
	WarningDisgust
	WarningVandalism
	WarningNoExit
	WarningLost
	warningCount
)

var warningMessages = [warningCount]string{
	"Guests are hungry and can't find anywhere to buy food",
	"Guests are thirsty and can't find anywhere to buy drinks",
	"Guests are complaining they can't find the toilets",
	"Guests are complaining about the litter in the park",
	"Guests are complaining about the vomit in the park",
	"Guests are complaining about the vandalism in the park",
	"Guests are getting lost or stuck",
	"Guests are lost in the park",
}

func (k Warning) String() string {
	if k >= warningCount {
		return "unknown"
	}
	return warningMessages[k]
}

// warningRule is the count of complaining guests that raises a warning, and the
// share of the park that must be complaining (one in Divisor guests).
type warningRule struct {
	Threshold int
	Divisor   uint32
}

var warningRules = [warningCount]warningRule{
	WarningHungry:    {HungerWarningThreshold, 16},
	WarningThirsty:   {ThirstWarningThreshold, 16},
	WarningToilet:    {ToiletWarningThreshold, 16},
	WarningLitter:    {LitterWarningThreshold, 32},
	WarningDisgust:   {DisgustWarningThreshold, 32},
	WarningVandalism: {VandalismWarningThreshold, 32},
	WarningNoExit:    {NoExitWarningThreshold, 0},
	WarningLost:      {LostWarningThreshold, 0},
}

// warningThrottleTicks is how many updates a raised warning stays quiet for.
const warningThrottleTicks = 4

// freshComplaint is the freshness below which a thought counts as current.
const freshComplaint = 5

// Notice is a message for the player.
type Notice struct {
	Tick    uint32  `json:"tick"`
	Warning Warning `json:"warning"`
	Message string  `json:"message"`
}

const maxNotices = 64

// ProblemWarningsUpdate counts the guests whose newest thought is a complaint
// and raises a notice for each problem that is widespread. Each problem is
// throttled separately.
func (w *World) ProblemWarningsUpdate() {
	var counts [warningCount]int
	w.Pool.Each(func(p *Peep) {
		g := p.Guest()
		if g == nil || p.OutsideOfPark {
			return
		}
		th := p.Thoughts[0]
		if th.Type == ThoughtNone || th.Freshness > freshComplaint {
			return
		}
		switch th.Type {
		case ThoughtLost:
			counts[WarningLost]++
		case ThoughtHungry:
			if !w.headingFor(g, sellsFood) {
				counts[WarningHungry]++
			}
		case ThoughtThirsty:
			if !w.headingFor(g, sellsDrink) {
				counts[WarningThirsty]++
			}
		case ThoughtToilet:
			if !w.headingFor(g, isToilet) {
				counts[WarningToilet]++
			}
		case ThoughtBadLitter:
			counts[WarningLitter]++
		case ThoughtCantFindExit:
			counts[WarningNoExit]++
		case ThoughtPathDisgusting:
			counts[WarningDisgust]++
		case ThoughtVandalism:
			counts[WarningVandalism]++
		}
	})

	for k := Warning(0); k < warningCount; k++ {
		if w.warningThrottle[k] > 0 {
			w.warningThrottle[k]--
			continue
		}
		rule := warningRules[k]
		if counts[k] < rule.Threshold {
			continue
		}
		if rule.Divisor > 0 && uint32(counts[k]) < w.GuestsInPark/rule.Divisor {
			continue
		}
		w.warningThrottle[k] = warningThrottleTicks
		w.notify(k)
	}
}

// headingFor reports whether the guest is already on the way to a ride that
// answers the need.
func (w *World) headingFor(g *GuestRole, want func(*ride.Ride) bool) bool {
	if g.HeadingToRide == ride.NoRide {
		return false
	}
	r := w.Rides.Get(g.HeadingToRide)
	return r != nil && want(r)
}

func (w *World) notify(k Warning) {
	n := Notice{Tick: w.Tick, Warning: k, Message: k.String()}
	slog.Info("park warning", "warning", n.Message, "tick", n.Tick)
	if len(w.notices) >= maxNotices {
		copy(w.notices, w.notices[1:])
		w.notices = w.notices[:maxNotices-1]
	}
	w.notices = append(w.notices, n)
}

// Notices returns the raised notices, oldest first.
func (w *World) Notices() []Notice {
	return append([]Notice(nil), w.notices...)
}

// DrainNotices returns the raised notices and forgets them. Throttles are kept.
func (w *World) DrainNotices() []Notice {
	out := w.notices
	w.notices = nil
	return out
}

// ResetWarnings clears the notice history and throttles, as on loading a park.
func (w *World) ResetWarnings() {
	w.warningThrottle = [warningCount]uint8{}
	w.notices = nil
}
