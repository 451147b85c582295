package peep

import (
	"log/slog"

	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

// Fixing plans, one bit per FixingStep. A mechanic runs the steps of the plan
// in ascending order.
const (
	planTail = 1<<FixMoveToStationExit | 1<<FixFinishFixOrInspect | 1<<FixLeaveByEntranceExit

	planStation = 1<<FixEnterStation | 1<<FixMoveToStationEnd | 1<<FixStationEnd |
		1<<FixMoveToStationStart | 1<<FixStationStart | planTail
	planVehicle     = 1<<FixEnterStation | 1<<FixMoveToBrokenVehicle | 1<<FixVehicle | planTail
	planMalfunction = 1<<FixEnterStation | 1<<FixMoveToBrokenVehicle | 1<<FixVehicleMalfunction | planTail
	planBrakes      = 1<<FixEnterStation | 1<<FixMoveToStationStart | 1<<FixStationBrakes | planTail
)

const fixBrakesFrame = 0x28

// fixingPlan returns the steps for the job in hand. Inspections walk the
// whole platform.
func fixingPlan(r *ride.Ride, inspecting bool) uint16 {
	if inspecting {
		return planStation
	}
	switch r.BreakdownReason {
	case ride.BreakdownRestraintsStuckClosed, ride.BreakdownRestraintsStuckOpen,
		ride.BreakdownDoorsStuckClosed, ride.BreakdownDoorsStuckOpen:
		return planVehicle
	case ride.BreakdownVehicleMalfunction:
		return planMalfunction
	case ride.BreakdownBrakesFailure:
		return planBrakes
	}
	return planStation
}

// nextFixingStep returns the first step of plan after cur.
func nextFixingStep(plan uint16, cur FixingStep) (FixingStep, bool) {
	for s := cur + 1; s < fixStepCount; s++ {
		if plan&(1<<s) != 0 {
			return s, true
		}
	}
	return 0, false
}

// mechanicTargets reports whether a mechanic is on a call to the given ride.
func (p *Peep) mechanicTargets(s *StaffRole, rideID world.RideIndex) bool {
	if s.CurrentRide != rideID {
		return false
	}
	return p.State == StateAnswering || p.State == StateHeadingToInspection
}

// UpdateAnswering takes the call, then walks to the broken ride's entrance.
// A mechanic who cannot get there in time gives the call back.
func (p *Peep) UpdateAnswering(w *World, s *StaffRole) {
	r := w.Rides.Get(s.CurrentRide)
	if r == nil || r.MechanicStatus != ride.MechanicHeading || r.Mechanic != p.Index {
		p.StateReset()
		return
	}

	switch p.Sub.Step() {
	case 0:
		p.StartAction(ActionStaffAnswerCall)
		p.Sub.SetStep(1)
		return
	case 1:
		if !p.Action.IsIdle() {
			p.UpdateAction(w)
			return
		}
		p.Sub.SetStep(2)
		s.MechanicTimeSinceCall = 0
		p.ResetPathfindGoal()
		return
	}

	s.MechanicTimeSinceCall++
	if s.MechanicTimeSinceCall >= mechanicCallGiveUp {
		slog.Info("mechanic failed to reach ride", "mechanic", p.ID, "ride", r.Name)
		r.ReleaseMechanic()
		p.StateReset()
		return
	}
	if !p.CheckForPath(w) {
		return
	}
	if p.PerformNextAction(w)&PathingRideEntrance == 0 {
		return
	}
	r.MechanicStatus = ride.MechanicFixing
	p.SetState(StateFixing)
}

// UpdateHeadingToInspect walks a mechanic to the exit of a ride due for
// inspection.
func (p *Peep) UpdateHeadingToInspect(w *World, s *StaffRole) {
	r := w.Rides.Get(s.CurrentRide)
	if r == nil || r.Mechanic != p.Index {
		p.StateReset()
		return
	}
	if !r.DueInspection() {
		r.ReleaseMechanic()
		p.StateReset()
		return
	}

	if p.Sub.Step() == 0 {
		s.MechanicTimeSinceCall = 0
		p.ResetPathfindGoal()
		p.Sub.SetStep(2)
	}

	s.MechanicTimeSinceCall++
	if s.MechanicTimeSinceCall > mechanicCallGiveUp {
		r.ReleaseMechanic()
		p.StateReset()
		return
	}
	if !p.CheckForPath(w) {
		return
	}
	if p.PerformNextAction(w)&(PathingRideExit|PathingRideEntrance) == 0 {
		return
	}
	r.MechanicStatus = ride.MechanicFixing
	p.SetState(StateInspecting)
}

// UpdateFixing runs a mechanic through the steps of a repair or inspection.
// Steps that finish immediately fall through to the next within the same
// tick; firstRun is false for a step entered this way so it sets itself up.
func (p *Peep) UpdateFixing(w *World, s *StaffRole, steps int) {
	r := w.Rides.Get(s.CurrentRide)
	if r == nil || len(r.Stations) == 0 {
		p.StateReset()
		return
	}

	if p.State == StateInspecting && r.BrokenDown() {
		if r.Mechanic != ride.NoPeep && r.Mechanic != p.Index {
			p.StateReset()
			return
		}
		r.AssignMechanic(p.Index)
		r.MechanicStatus = ride.MechanicFixing
		p.SetState(StateFixing)
	}

	firstRun := true
	for {
		step := p.Sub.Fixing()
		if step < FixFinishFixOrInspect && r.Mechanic != p.Index {
			p.StateReset()
			return
		}
		plan := fixingPlan(r, p.State == StateInspecting)

		var done bool
		switch step {
		case FixEnterStation:
			r.MechanicStatus = ride.MechanicFixing
			done = true
		case FixMoveToBrokenVehicle:
			done = p.fixingMoveTo(w, firstRun, brokenVehiclePosition(r))
		case FixVehicle:
			a := ActionStaffFix
			if w.RNG.Chance(2) {
				a = ActionStaffFix2
			}
			done = p.fixingAction(w, firstRun, a)
		case FixVehicleMalfunction:
			done = p.fixingAction(w, firstRun, ActionStaffFix3)
		case FixMoveToStationEnd:
			done = p.fixingMoveTo(w, firstRun, r.Stations[s.CurrentRideStation%uint8(len(r.Stations))].End.Center())
		case FixStationEnd:
			done = p.fixingAction(w, firstRun, ActionStaffCheckboard)
		case FixMoveToStationStart:
			done = p.fixingMoveTo(w, firstRun, r.Stations[s.CurrentRideStation%uint8(len(r.Stations))].Start.Center())
		case FixStationStart:
			done = p.fixingAction(w, firstRun, ActionStaffFix)
		case FixStationBrakes:
			done = p.fixingAction(w, firstRun, ActionStaffFixGround)
			if p.Action == ActionStaffFixGround && p.ActionFrame == fixBrakesFrame {
				r.MechanicStatus = ride.MechanicHasFixedStationBrakes
			}
		case FixMoveToStationExit:
			done = p.fixingMoveTo(w, firstRun, p.stationExit(r, s).Center())
		case FixFinishFixOrInspect:
			done = p.fixingFinish(w, s, r, firstRun, steps)
		case FixLeaveByEntranceExit:
			p.fixingLeave(w, s, r, firstRun)
			return
		}
		if !done {
			return
		}
		next, ok := nextFixingStep(plan, step)
		if !ok {
			return
		}
		p.Sub.SetFixing(next)
		firstRun = false
	}
}

func brokenVehiclePosition(r *ride.Ride) world.Coords {
	st := r.Stations[0]
	c := st.Start.Center()
	car := int(r.BrokenCar)
	if car == 0 {
		return c
	}
	end := st.End.Center()
	return world.Coords{X: c.X + (end.X-c.X)*car/8, Y: c.Y + (end.Y-c.Y)*car/8}
}

// stationExit is the access tile a mechanic leaves through.
func (p *Peep) stationExit(r *ride.Ride, s *StaffRole) world.TileCoord {
	st := r.Stations[s.CurrentRideStation%uint8(len(r.Stations))]
	if st.Exit != st.Start {
		return st.Exit
	}
	return st.Entrance
}

func (p *Peep) fixingMoveTo(w *World, firstRun bool, dest world.Coords) bool {
	if !firstRun {
		p.SetDestination(dest, 2)
	}
	if next, busy := p.UpdateAction(w); busy {
		p.MoveTo(next)
		return false
	}
	return true
}

func (p *Peep) fixingAction(w *World, firstRun bool, a ActionType) bool {
	if !firstRun {
		p.StartAction(a)
	}
	if p.Action.IsIdle() {
		return true
	}
	p.UpdateAction(w)
	return false
}

func (p *Peep) fixingFinish(w *World, s *StaffRole, r *ride.Ride, firstRun bool, steps int) bool {
	if !firstRun {
		if p.State == StateInspecting {
			r.Inspect()
			s.RidesInspected++
			p.WindowInvalidate |= InvalidateStaff
			slog.Debug("ride inspected", "ride", r.Name, "mechanic", p.ID)
			return true
		}
		s.RidesFixed++
		p.WindowInvalidate |= InvalidateStaff
		p.StartAction(ActionStaffAnswerCall2)
	}
	if !p.Action.IsIdle() {
		p.UpdateAction(w)
		return false
	}
	r.Fix(fixBoost(steps))
	slog.Info("ride fixed", "ride", r.Name, "mechanic", p.ID, "reliability", r.Reliability)
	return true
}

// fixBoost turns a tick's movement allowance into reliability restored.
func fixBoost(steps int) uint8 {
	return uint8(max(1, min(steps/16, 16)))
}

func (p *Peep) fixingLeave(w *World, s *StaffRole, r *ride.Ride, firstRun bool) {
	exit := p.stationExit(r, s)
	t := w.Map.TileAt(exit)
	if t == nil || t.Access == nil {
		p.SetState(StateFalling)
		return
	}
	out := exit.Step(t.Access.Direction)
	if !firstRun {
		p.SetDestination(out.Center(), 2)
	}
	if next, busy := p.UpdateAction(w); busy {
		p.MoveTo(next)
		return
	}
	p.SetNextLoc(out, t.Access.Direction, false, false)
	s.CurrentRide = ride.NoRide
	p.SetState(StateFalling)
}

// CallMechanics sends the closest free mechanic to every ride asking for one.
// Breakdowns may pull a mechanic off the way to an inspection.
func (w *World) CallMechanics() {
	for _, r := range w.Rides.All() {
		if r.MechanicStatus != ride.MechanicCalling || len(r.Stations) == 0 {
			continue
		}
		forInspection := !r.BrokenDown()
		m := w.closestMechanic(r, forInspection)
		if m == nil {
			continue
		}
		w.assignMechanic(m, r, forInspection)
	}
}

func (w *World) closestMechanic(r *ride.Ride, forInspection bool) *Peep {
	target := r.Stations[0].Entrance
	var best *Peep
	bestDist := -1
	w.Pool.Each(func(p *Peep) {
		s := p.Staff()
		if s == nil || s.Type != StaffMechanic || p.Pos.IsNull() {
			return
		}
		switch p.State {
		case StatePatrolling:
		case StateHeadingToInspection:
			if forInspection || p.Sub.Step() > 2 {
				return
			}
		default:
			return
		}
		order := OrderFixRides
		if forInspection {
			order = OrderInspectRides
		}
		if s.Orders&order == 0 {
			return
		}
		if !w.InPatrolArea(s, target) {
			return
		}
		d := world.Distance(p.Tile(), target)
		if bestDist < 0 || d < bestDist {
			best, bestDist = p, d
		}
	})
	return best
}

func (w *World) assignMechanic(m *Peep, r *ride.Ride, forInspection bool) {
	s := m.Staff()
	if m.State == StateHeadingToInspection {
		if old := w.Rides.Get(s.CurrentRide); old != nil && old.Mechanic == m.Index {
			old.ReleaseMechanic()
		}
	}
	r.AssignMechanic(m.Index)
	s.CurrentRide = r.ID
	s.CurrentRideStation = 0
	if forInspection {
		m.SetState(StateHeadingToInspection)
	} else {
		m.SetState(StateAnswering)
	}
	slog.Debug("mechanic called", "mechanic", m.ID, "ride", r.Name, "inspection", forInspection)
}
