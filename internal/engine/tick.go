// Package engine provides the tick-based park loop.
package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

// TickSchedule defines when each system runs relative to the tick counter.
const (
	TicksPerSecond    = 40
	TicksPerParkDay   = 512
	TicksPerParkWeek  = 7 * TicksPerParkDay
	TicksPerParkMonth = 32 * TicksPerParkDay
	MonthsPerYear     = 8 // March to October
)

var monthNames = [MonthsPerYear]string{
	"March", "April", "May", "June", "July", "August", "September", "October",
}

// Engine drives the simulation forward.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Interval time.Duration // Base tick interval (default 25ms)

	running atomic.Bool
	speed   atomic.Uint64 // float64 bits; 1.0 = real-time, 0 = paused

	// Callbacks for each tick layer, populated during setup.
	OnTick   func(tick uint64) // Every tick
	OnDay    func(tick uint64) // Every 512 ticks
	OnWeek   func(tick uint64) // Every 3584 ticks
	OnMonth  func(tick uint64) // Every 16384 ticks
	OnYear   func(tick uint64) // Every 8 months
	OnMinute func(tick uint64) // Every 2400 ticks, a real minute at speed 1
}

// NewEngine creates a simulation engine with default settings.
func NewEngine() *Engine {
	e := &Engine{Interval: time.Second / TicksPerSecond}
	e.SetSpeed(1)
	return e
}

// Speed returns the speed multiplier.
func (e *Engine) Speed() float64 {
	return math.Float64frombits(e.speed.Load())
}

// SetSpeed changes the speed multiplier; it may be called while Run loops.
func (e *Engine) SetSpeed(v float64) {
	e.speed.Store(math.Float64bits(max(v, 0)))
}

// Running reports whether Run is looping.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Run starts the simulation loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.running.Store(true)
	slog.Info("park engine started", "tick", e.Tick, "speed", e.Speed(), "interval", e.Interval)

	for e.running.Load() {
		speed := e.Speed()
		if speed <= 0 {
			// Paused: sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.Step()

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("park engine stopped", "tick", e.Tick, "time", ParkTime(e.Tick))
}

// Stop halts the simulation loop.
func (e *Engine) Stop() {
	e.running.Store(false)
}

// Step advances the simulation by one tick.
func (e *Engine) Step() {
	e.Tick++

	if e.OnTick != nil {
		e.OnTick(e.Tick)
	}
	if e.Tick%TicksPerParkDay == 0 && e.OnDay != nil {
		e.OnDay(e.Tick)
	}
	if e.Tick%TicksPerParkWeek == 0 && e.OnWeek != nil {
		e.OnWeek(e.Tick)
	}
	if e.Tick%TicksPerParkMonth == 0 && e.OnMonth != nil {
		e.OnMonth(e.Tick)
	}
	if e.Tick%(TicksPerParkMonth*MonthsPerYear) == 0 && e.OnYear != nil {
		e.OnYear(e.Tick)
	}
	if e.Tick%(60*TicksPerSecond) == 0 && e.OnMinute != nil {
		e.OnMinute(e.Tick)
	}
}

// Advance runs n ticks without sleeping.
func (e *Engine) Advance(n int) {
	for i := 0; i < n; i++ {
		e.Step()
	}
}

// ParkTime returns the park calendar date for a tick, e.g. "3rd March, Year 1".
func ParkTime(tick uint64) string {
	days := tick / TicksPerParkDay
	day := days%32 + 1
	months := days / 32
	month := months % MonthsPerYear
	year := months/MonthsPerYear + 1
	return fmt.Sprintf("%s %s, Year %d", humanize.Ordinal(int(day)), monthNames[month], year)
}
