package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/talgya/park-peeps/internal/economy"
	"github.com/talgya/park-peeps/internal/entropy"
	"github.com/talgya/park-peeps/internal/peep"
	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/weather"
	"github.com/talgya/park-peeps/internal/world"
)

// Counters are the park-wide peep figures that survive a save. Guests in
// the park are recounted on load instead.
type Counters struct {
	NextGuestNumber      uint32 `json:"next_guest_number"`
	NextStaffNumber      uint32 `json:"next_staff_number"`
	GuestsInParkLastWeek uint32 `json:"guests_in_park_last_week"`
	GuestChangeModifier  uint8  `json:"guest_change_modifier"`
	RealNames            bool   `json:"real_names"`
}

// ParkState is everything saved about a park apart from the peeps themselves.
type ParkState struct {
	SaveID   uuid.UUID
	Tick     uint64
	Map      *world.Map
	Layout   world.Layout
	Rides    *ride.Registry
	Finance  *economy.Finance
	Climate  weather.Climate
	RNG      *entropy.Stream
	Park     peep.ParkSettings
	Capacity int
	Roster   Roster
	Counters Counters
	Patrols  []peep.PatrolArea
	Events   []Event
	Emitted  uint64
}

// State captures the park for saving. Call it inside Do.
func (s *Simulation) State() ParkState {
	w := s.Peeps
	return ParkState{
		SaveID:   s.SaveID,
		Tick:     s.LastTick,
		Map:      s.Map,
		Layout:   s.Layout,
		Rides:    s.Rides,
		Finance:  s.Finance,
		Climate:  *s.Climate,
		RNG:      s.RNG,
		Park:     w.Park,
		Capacity: w.Pool.Cap(),
		Roster:   s.Roster,
		Counters: Counters{
			NextGuestNumber:      w.NextGuestNumber,
			NextStaffNumber:      w.NextStaffNumber,
			GuestsInParkLastWeek: w.GuestsInParkLastWeek,
			GuestChangeModifier:  w.GuestChangeModifier,
			RealNames:            w.RealNames,
		},
		Patrols: append([]peep.PatrolArea(nil), w.Patrols...),
		Events:  append([]Event(nil), s.Events...),
		Emitted: s.Emitted,
	}
}

// RestoreSimulation rebuilds a park from saved state and its peeps.
func RestoreSimulation(st ParkState, peeps []*peep.Peep) (*Simulation, error) {
	climate := st.Climate
	w := peep.NewWorld(st.Map, st.Rides, st.RNG, &climate, st.Finance, st.Park, st.Capacity)
	w.Tick = uint32(st.Tick)
	w.NextGuestNumber = max(st.Counters.NextGuestNumber, 1)
	w.NextStaffNumber = max(st.Counters.NextStaffNumber, 1)
	w.GuestsInParkLastWeek = st.Counters.GuestsInParkLastWeek
	w.GuestChangeModifier = st.Counters.GuestChangeModifier
	w.RealNames = st.Counters.RealNames
	w.Patrols = st.Patrols
	if err := w.Restore(peeps); err != nil {
		return nil, fmt.Errorf("restore peeps: %w", err)
	}

	sim := &Simulation{
		Map:      st.Map,
		Layout:   st.Layout,
		Rides:    st.Rides,
		Finance:  st.Finance,
		Climate:  &climate,
		RNG:      st.RNG,
		Peeps:    w,
		SaveID:   st.SaveID,
		Events:   st.Events,
		Emitted:  max(st.Emitted, uint64(len(st.Events))),
		LastTick: st.Tick,
		Roster:   st.Roster,
	}
	sim.refreshRating()
	sim.updateStats()
	return sim, nil
}
