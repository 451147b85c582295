package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/park-peeps/internal/peep"
	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

// ErrNotFound is returned for a ride or peep that does not exist.
var ErrNotFound = errors.New("not found")

// PeepRef names a peep the way players do: by kind and number.
type PeepRef struct {
	Type peep.PeepType `json:"type"`
	ID   uint32        `json:"id"`
}

func (r PeepRef) String() string {
	return fmt.Sprintf("%s %d", r.Type, r.ID)
}

// PickUp lifts a peep off the map.
func (s *Simulation) PickUp(ref PeepRef) (string, error) {
	return s.withPeep(ref, "pickup", func(p *peep.Peep) (string, error) {
		if err := s.Peeps.Pickup(p); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s was picked up", p.DisplayName(s.Peeps.RealNames)), nil
	})
}

// PutBack cancels a pickup, returning the peep exactly where it was.
func (s *Simulation) PutBack(ref PeepRef) (string, error) {
	return s.withPeep(ref, "pickup abort", func(p *peep.Peep) (string, error) {
		if err := s.Peeps.PickupAbort(p); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s was put back", p.DisplayName(s.Peeps.RealNames)), nil
	})
}

// Drop places a picked-up peep on a tile.
func (s *Simulation) Drop(ref PeepRef, tc world.TileCoord) (string, error) {
	return s.withPeep(ref, "place", func(p *peep.Peep) (string, error) {
		if err := s.Peeps.Place(p, tc); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s was dropped at %d,%d", p.DisplayName(s.Peeps.RealNames), tc.X, tc.Y), nil
	})
}

// Hire takes on a member of staff.
func (s *Simulation) Hire(t peep.StaffType) (PeepRef, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Peeps.HireStaff(t)
	if err != nil {
		return PeepRef{}, "", fmt.Errorf("hire %s: %w", t, err)
	}
	desc := fmt.Sprintf("%s hired", p.DisplayName(false))
	s.emit(s.LastTick, "staff", desc)
	slog.Info("hire intervention", "type", t, "id", p.ID)
	return PeepRef{Type: peep.TypeStaff, ID: p.ID}, desc, nil
}

// Dismiss fires a member of staff.
func (s *Simulation) Dismiss(id uint32) (string, error) {
	return s.withPeep(PeepRef{Type: peep.TypeStaff, ID: id}, "fire", func(p *peep.Peep) (string, error) {
		name := p.DisplayName(false)
		if err := s.Peeps.Fire(p); err != nil {
			return "", err
		}
		return name + " was fired", nil
	})
}

// Patrol adds or removes the cell holding tc from a staff member's patrol.
func (s *Simulation) Patrol(id uint32, tc world.TileCoord, on bool) (string, error) {
	return s.withPeep(PeepRef{Type: peep.TypeStaff, ID: id}, "patrol", func(p *peep.Peep) (string, error) {
		if err := s.Peeps.SetPatrolArea(p, tc, on); err != nil {
			return "", err
		}
		verb := "now patrols"
		if !on {
			verb = "no longer patrols"
		}
		return fmt.Sprintf("%s %s around %d,%d", p.DisplayName(false), verb, tc.X, tc.Y), nil
	})
}

// Rename gives a peep a new name; some names have effects.
func (s *Simulation) Rename(ref PeepRef, name string) (string, error) {
	return s.withPeep(ref, "rename", func(p *peep.Peep) (string, error) {
		old := p.DisplayName(s.Peeps.RealNames)
		p.SetName(name)
		return fmt.Sprintf("%s is now called %s", old, p.DisplayName(s.Peeps.RealNames)), nil
	})
}

// SetRideOpen opens or closes a ride.
func (s *Simulation) SetRideOpen(id ride.ID, open bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.Rides.Get(id)
	if r == nil {
		return "", fmt.Errorf("ride %d: %w", id, ErrNotFound)
	}
	verb := "opened"
	if open {
		r.Open()
	} else {
		r.Close()
		verb = "closed"
	}
	desc := fmt.Sprintf("%s has %s", r.Name, verb)
	s.emit(s.LastTick, "ride", desc)
	slog.Info("ride intervention", "ride", r.Name, "open", open)
	return desc, nil
}

// CelebrateRide makes every guest clap and let go of their balloons.
func (s *Simulation) CelebrateRide() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Peeps.Applause()
	desc := "The crowd bursts into applause"
	s.emit(s.LastTick, "guest", desc)
	return desc
}

// Explode sets some guests to pop on their next slow update.
func (s *Simulation) Explode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Peeps.ExplodeGuests()
	desc := "Guests begin to look unwell"
	s.emit(s.LastTick, "guest", desc)
	return desc
}

// UseRealNames switches guests between real names and numbers.
func (s *Simulation) UseRealNames(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Peeps.UpdateNames(on)
}

// withPeep runs fn on the peep named by ref with the park locked, and records
// the outcome as an event.
func (s *Simulation) withPeep(ref PeepRef, what string, fn func(*peep.Peep) (string, error)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Peeps.FindByID(ref.Type, ref.ID)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", what, ref, err)
	}
	desc, err := fn(p)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", what, ref, err)
	}
	s.emit(s.LastTick, "admin", desc)
	slog.Info("peep intervention", "action", what, "peep", ref.String())
	return desc, nil
}
