// Population upkeep: guest arrivals at the gate, the staff roster, wages.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/park-peeps/internal/economy"
	"github.com/talgya/park-peeps/internal/peep"
)

// Roster is the minimum number of each kind of staff kept employed.
type Roster struct {
	Handymen     int `json:"handymen" yaml:"handymen"`
	Mechanics    int `json:"mechanics" yaml:"mechanics"`
	Security     int `json:"security" yaml:"security"`
	Entertainers int `json:"entertainers" yaml:"entertainers"`
}

func (r Roster) want(t peep.StaffType) int {
	switch t {
	case peep.StaffHandyman:
		return r.Handymen
	case peep.StaffMechanic:
		return r.Mechanics
	case peep.StaffSecurity:
		return r.Security
	case peep.StaffEntertainer:
		return r.Entertainers
	}
	return 0
}

// monthlyWages is what each kind of staff costs per park month.
var monthlyWages = [peep.StaffTypeCount]economy.Money{
	peep.StaffHandyman:    500,
	peep.StaffMechanic:    800,
	peep.StaffSecurity:    600,
	peep.StaffEntertainer: 550,
}

// generateGuests lets a guest arrive with the odds set by the park rating.
func (s *Simulation) generateGuests(tick uint64) {
	park := s.Peeps.Park
	if !park.Open {
		return
	}
	if int(s.RNG.Next()&0xFFFF) >= s.generationProbability {
		return
	}
	if park.MaxGuests > 0 && int(s.Peeps.GuestsInPark+s.Peeps.GuestsHeadingForPark) >= park.MaxGuests {
		return
	}
	if s.Peeps.Pool.Full() {
		return
	}
	p, err := s.Peeps.GenerateGuest()
	if err != nil {
		slog.Debug("guest generation skipped", "tick", tick, "error", err)
		return
	}
	if p.ID%100 == 0 {
		s.emit(tick, "guest", fmt.Sprintf("Guest number %d is on the way", p.ID))
	}
}

// maintainRoster hires staff until each kind meets the roster.
func (s *Simulation) maintainRoster(tick uint64) {
	var have [peep.StaffTypeCount]int
	for _, p := range s.Peeps.StaffMembers() {
		have[p.Staff().Type]++
	}
	for t := peep.StaffType(0); t < peep.StaffTypeCount; t++ {
		for have[t] < s.Roster.want(t) {
			p, err := s.Peeps.HireStaff(t)
			if err != nil {
				slog.Warn("roster hire failed", "type", t, "error", err)
				break
			}
			have[t]++
			s.emit(tick, "staff", fmt.Sprintf("%s hired", p.DisplayName(false)))
		}
	}
}

// payWages takes a month's pay for every staff member from the park account.
func (s *Simulation) payWages(tick uint64) {
	var bill economy.Money
	for _, p := range s.Peeps.StaffMembers() {
		bill += monthlyWages[p.Staff().Type]
	}
	if bill == 0 {
		return
	}
	s.Finance.SpendMoney(bill, economy.ExpenditureWages)
	s.emit(tick, "finance", fmt.Sprintf("Paid %s in staff wages", bill))
}
