// Park rating and guest arrival odds.
package engine

import (
	"github.com/talgya/park-peeps/internal/peep"
	"github.com/talgya/park-peeps/internal/ride"
)

// rideGuestBonus is how many extra guests each open ride type can entertain.
var rideGuestBonus = [ride.TypeCount]int{
	ride.TypeMerryGoRound:     45,
	ride.TypeWoodenCoaster:    120,
	ride.TypeFerrisWheel:      45,
	ride.TypeSpiralSlide:      40,
	ride.TypeMaze:             40,
	ride.TypeFoodStall:        0,
	ride.TypeDrinkStall:       0,
	ride.TypeSouvenirStall:    0,
	ride.TypeToilets:          0,
	ride.TypeInformationKiosk: 0,
}

// lostGuestAllowance is how many lost guests the rating shrugs off.
const lostGuestAllowance = 25

// refreshRating recomputes the park rating, the suggested guest maximum and
// the per-tick arrival odds.
func (s *Simulation) refreshRating() {
	s.Rating = s.parkRating()
	s.SuggestedMaxGuests = s.suggestedMaxGuests()
	s.generationProbability = s.guestGenerationProbability()
}

// parkRating scores the park from 0 to 999 on guest happiness, ride
// reliability and thrills, and litter.
func (s *Simulation) parkRating() int {
	rating := 1150

	happy, lost := 0, 0
	s.Peeps.Pool.Each(func(p *peep.Peep) {
		g := p.Guest()
		if g == nil || p.OutsideOfPark {
			return
		}
		if p.Happiness > 128 {
			happy++
		}
		if p.Flags&peep.FlagLeavingPark != 0 && g.IsLostCountdown < 90 {
			lost++
		}
	})
	rating -= 150
	if n := int(s.Peeps.GuestsInPark); n > 0 {
		rating += 2 * min(250, happy*300/n)
	}
	if lost > lostGuestAllowance {
		rating -= (lost - lostGuestAllowance) * 7
	}

	uptime, excitement, intensity, rides, rated := 0, 0, 0, 0, 0
	for _, r := range s.Rides.All() {
		if r.Class == ride.ClassStall {
			continue
		}
		rides++
		up := int(r.Reliability)
		if r.BrokenDown() {
			up = 0
		}
		uptime += up
		if r.Excitement > 0 {
			excitement += int(r.Excitement) / 8
			intensity += int(r.Intensity) / 8
			rated++
		}
	}
	rating -= 200
	if rides > 0 {
		rating += uptime / rides * 2
	}
	rating -= 100
	if rated > 0 {
		avgExcitement := abs(excitement/rated - 46)
		avgIntensity := abs(intensity/rated - 65)
		rating += 100 - min(avgExcitement/2, 50) - min(avgIntensity/2, 50)
	}
	rating -= 200 - (min(1000, excitement)+min(1000, intensity))/10

	rating -= 600 - 4*(150-min(150, totalLitter(s.Map)))
	return max(0, min(999, rating))
}

// suggestedMaxGuests is how many guests the open rides can keep busy.
func (s *Simulation) suggestedMaxGuests() int {
	n := 0
	for _, r := range s.Rides.All() {
		if r.IsOpen() && int(r.Type) < len(rideGuestBonus) {
			n += rideGuestBonus[r.Type]
		}
	}
	return min(n, 65535)
}

// guestGenerationProbability is the chance out of 65536 each tick that a new
// guest arrives.
func (s *Simulation) guestGenerationProbability() int {
	prob := 50 + max(0, min(650, s.Rating-200))

	guests := int(s.Peeps.GuestsInPark + s.Peeps.GuestsHeadingForPark)
	if guests > s.SuggestedMaxGuests {
		prob /= 4
	}

	value := 0
	for _, r := range s.Rides.All() {
		if r.IsOpen() && r.Value > 0 {
			value += int(r.Value) * 2
		}
	}
	fee := int(s.Peeps.Park.EntranceFee)
	if fee > value {
		prob /= 4
		if fee/2 > value {
			prob /= 4
		}
	}
	return prob
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
