// Simulation ties together all park systems and runs them each tick.
package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/talgya/park-peeps/internal/economy"
	"github.com/talgya/park-peeps/internal/entropy"
	"github.com/talgya/park-peeps/internal/peep"
	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/weather"
	"github.com/talgya/park-peeps/internal/world"
)

// maxEvents is how many recent events are kept in memory.
const maxEvents = 1000

// Simulation holds the complete park state and wires systems together.
// Every exported method takes the lock; the API reaches the park only
// through them or through Do.
type Simulation struct {
	mu sync.Mutex

	Map     *world.Map
	Layout  world.Layout
	Rides   *ride.Registry
	Finance *economy.Finance
	Climate *weather.Climate
	RNG     *entropy.Stream
	Peeps   *peep.World

	SaveID   uuid.UUID // Identifies this park across saves
	Events   []Event   // Recent events, oldest first
	Emitted  uint64    // Events ever emitted, including those trimmed from Events
	LastTick uint64    // Most recent tick processed

	// Roster is the minimum staff the park keeps employed.
	Roster Roster

	// Park rating and guest arrival odds, recomputed daily.
	Rating                int
	SuggestedMaxGuests    int
	generationProbability int

	// Statistics refreshed daily.
	Stats SimStats
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LastTick
}

// Event is a notable occurrence in the park.
type Event struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "guest", "staff", "ride", "warning", "finance", "weather"
}

// SimStats tracks aggregate park statistics.
type SimStats struct {
	GuestsInPark         uint32        `json:"guests_in_park"`
	GuestsHeadingForPark uint32        `json:"guests_heading_for_park"`
	Staff                int           `json:"staff"`
	AvgHappiness         float32       `json:"avg_happiness"`
	AvgEnergy            float32       `json:"avg_energy"`
	AvgNausea            float32       `json:"avg_nausea"`
	Cash                 economy.Money `json:"cash"`
	RidesOpen            int           `json:"rides_open"`
	RidesBroken          int           `json:"rides_broken"`
	Litter               int           `json:"litter"`
}

// Config is what a new park is built from.
type Config struct {
	Park      peep.ParkSettings
	Capacity  int // Peep pool size
	Seed      uint64
	StartCash economy.Money
	Roster    Roster
}

// NewSimulation creates a Simulation from a generated map and built rides.
func NewSimulation(m *world.Map, layout world.Layout, rides *ride.Registry, cfg Config) *Simulation {
	climate := weather.Default()
	rng := entropy.NewStream(cfg.Seed)
	finance := economy.NewFinance(cfg.StartCash)

	sim := &Simulation{
		Map:     m,
		Layout:  layout,
		Rides:   rides,
		Finance: finance,
		Climate: &climate,
		RNG:     rng,
		Peeps:   peep.NewWorld(m, rides, rng, &climate, finance, cfg.Park, cfg.Capacity),
		SaveID:  uuid.New(),
		Roster:  cfg.Roster,
	}
	sim.refreshRating()
	sim.updateStats()
	return sim
}

// Attach wires the simulation's tick layers into an engine.
func (s *Simulation) Attach(e *Engine) {
	e.Tick = s.LastTick
	e.OnTick = s.TickPark
	e.OnDay = s.TickDay
	e.OnWeek = s.TickWeek
	e.OnMonth = s.TickMonth
	e.OnYear = s.TickYear
}

// Do runs fn with the park locked, between ticks.
func (s *Simulation) Do(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// TickPark runs every tick: rides, weather, mechanic dispatch, every peep,
// then new arrivals.
func (s *Simulation) TickPark(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastTick = tick
	s.Peeps.Tick = uint32(tick)

	wasRaining := s.Climate.Raining()
	s.Rides.Update(s.RNG)
	s.Climate.Update(s.RNG)
	if s.Climate.Raining() != wasRaining {
		s.emit(tick, "weather", fmt.Sprintf("The weather turns %s", s.Climate.Kind))
	}

	s.Peeps.CallMechanics()
	s.Peeps.UpdateAll()
	s.generateGuests(tick)
}

// TickDay runs every park day: ratings, warnings, ground upkeep, roster.
func (s *Simulation) TickDay(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Rides.DailyUpdate()
	s.Map.DailyUpdate()
	s.Peeps.UpdateDaysInQueue()
	s.Peeps.ProblemWarningsUpdate()
	for _, n := range s.Peeps.DrainNotices() {
		s.emit(tick, "warning", n.Message)
	}
	s.maintainRoster(tick)
	s.refreshRating()
	s.updateStats()

	slog.Info("daily report",
		"tick", tick,
		"time", ParkTime(tick),
		"guests", s.Stats.GuestsInPark,
		"heading_in", s.Stats.GuestsHeadingForPark,
		"staff", s.Stats.Staff,
		"rating", s.Rating,
		"avg_happiness", fmt.Sprintf("%.1f", s.Stats.AvgHappiness),
		"cash", s.Finance.Cash,
		"rides_broken", s.Stats.RidesBroken,
		"litter", s.Stats.Litter,
		"weather", s.Climate,
	)
}

// TickWeek runs every park week: ledgers and the guest trend.
func (s *Simulation) TickWeek(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Peeps.WeeklyUpdate()
	slog.Info("weekly summary",
		"tick", tick,
		"time", ParkTime(tick),
		"finance", s.Finance.Summary(),
		"ride_tickets", s.Finance.Income(economy.ExpenditureParkRideTickets),
		"entrance_tickets", s.Finance.Income(economy.ExpenditureParkEntranceTickets),
		"events_this_week", len(s.Events),
	)
	s.Finance.WeeklyRollover()
}

// TickMonth runs every park month: wages and the turn of the season.
func (s *Simulation) TickMonth(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payWages(tick)
	s.applySeason(tick)
}

// TickYear runs at the start of each season: staff stats start over.
func (s *Simulation) TickYear(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Peeps.ResetStaffStats()
	s.emit(tick, "staff", "Staff records reset for the new season")
}

func (s *Simulation) emit(tick uint64, category, desc string) {
	s.Events = append(s.Events, Event{Tick: tick, Description: desc, Category: category})
	s.Emitted++
	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}
}

// RecentEvents returns up to n of the newest events, newest last.
func (s *Simulation) RecentEvents(n int) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := max(len(s.Events)-n, 0)
	return append([]Event(nil), s.Events[start:]...)
}

// Snapshot returns the current statistics.
func (s *Simulation) Snapshot() SimStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateStats()
	return s.Stats
}

func (s *Simulation) updateStats() {
	var st SimStats
	var happiness, energy, nausea int
	guests := 0
	s.Peeps.Pool.Each(func(p *peep.Peep) {
		if p.Type == peep.TypeStaff {
			st.Staff++
			return
		}
		if p.OutsideOfPark {
			return
		}
		guests++
		happiness += int(p.Happiness)
		energy += int(p.Energy)
		nausea += int(p.Nausea)
	})
	if guests > 0 {
		st.AvgHappiness = float32(happiness) / float32(guests)
		st.AvgEnergy = float32(energy) / float32(guests)
		st.AvgNausea = float32(nausea) / float32(guests)
	}
	st.GuestsInPark = s.Peeps.GuestsInPark
	st.GuestsHeadingForPark = s.Peeps.GuestsHeadingForPark
	st.Cash = s.Finance.Cash
	for _, r := range s.Rides.All() {
		if r.IsOpen() {
			st.RidesOpen++
		}
		if r.BrokenDown() {
			st.RidesBroken++
		}
	}
	st.Litter = totalLitter(s.Map)
	s.Stats = st
}

func totalLitter(m *world.Map) int {
	n := 0
	for i := range m.Tiles {
		n += int(m.Tiles[i].Litter) + int(m.Tiles[i].Vomit)
	}
	return n
}
