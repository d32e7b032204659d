// Package engine runs the match: the Simulation aggregate, its systems,
// and the fixed-step loop that drives them.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultStep is the fixed update interval: 20 updates per second.
const DefaultStep = 50 * time.Millisecond

// DefaultReportEvery is how many steps pass between OnReport calls.
const DefaultReportEvery = 600

// Engine drives a Simulation forward at a fixed step.
type Engine struct {
	Sim     *Simulation
	Step    time.Duration // Simulated time per update
	Speed   float64       // Wall-clock multiplier for Run: 1.0 = real-time, 0 = paused
	Running bool

	// Callbacks, populated during setup. OnStep runs after every update,
	// OnReport every ReportEvery updates, OnOutcome once when decided.
	OnStep      func(s *Simulation)
	OnReport    func(s *Simulation)
	OnOutcome   func(s *Simulation, o Outcome)
	ReportEvery uint64

	steps   uint64
	carry   float64 // Fractional steps owed by Speed
	decided bool
}

// NewEngine creates an engine with default settings.
func NewEngine(sim *Simulation) *Engine {
	return &Engine{
		Sim:         sim,
		Step:        DefaultStep,
		Speed:       1.0,
		ReportEvery: DefaultReportEvery,
	}
}

// Run steps the simulation in real time until the context is cancelled,
// Stop is called, or the match is decided.
func (e *Engine) Run(ctx context.Context) {
	e.Running = true
	slog.Info("simulation engine started", "tick", e.Sim.Tick, "speed", e.Speed)

	ticker := time.NewTicker(e.Step)
	defer ticker.Stop()
	for e.Running {
		select {
		case <-ctx.Done():
			e.Running = false
		case <-ticker.C:
			for range e.due() {
				if !e.step() {
					e.Running = false
					break
				}
			}
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Sim.Tick, "time", MatchClock(e.Sim.Time))
}

// due returns how many steps a ticker tick owes at the current Speed.
// Fractional speeds carry over, so 0.5 runs a step every other tick.
func (e *Engine) due() int {
	if e.Speed <= 0 {
		return 0
	}
	e.carry += e.Speed
	n := int(e.carry)
	e.carry -= float64(n)
	return n
}

// RunFor steps the simulation as fast as possible until the match clock
// has advanced by seconds of game time, stopping early once the match
// is decided or paused. It returns the number of updates run.
func (e *Engine) RunFor(seconds float64) uint64 {
	e.Running = true
	// Half a step of slack absorbs float drift in the accumulated clock.
	end := e.Sim.Time + seconds - 0.5*e.Step.Seconds()*e.Sim.Config.TimeScale
	var n uint64
	for e.Running && e.Sim.Time < end {
		if e.Sim.Config.TimeScale <= 0 {
			slog.Warn("match paused, run stopped", "time", MatchClock(e.Sim.Time))
			break
		}
		n++
		if !e.step() {
			break
		}
	}
	e.Running = false
	return n
}

// Stop halts the loop after the current step.
func (e *Engine) Stop() {
	e.Running = false
}

// step runs one update and the callbacks. Returns false once decided.
func (e *Engine) step() bool {
	e.Sim.Update(e.Step.Seconds())
	e.steps++

	if e.OnStep != nil {
		e.OnStep(e.Sim)
	}
	if e.ReportEvery > 0 && e.steps%e.ReportEvery == 0 && e.OnReport != nil {
		e.OnReport(e.Sim)
	}

	if e.decided {
		return false
	}
	if o := e.Sim.Outcome(); o.Decided {
		e.decided = true
		e.Sim.logEvent("match", "Match decided: %s wins (%s)", o.Winner, o.Reason)
		slog.Info("match decided", "winner", o.Winner, "reason", o.Reason, "time", MatchClock(e.Sim.Time))
		if e.OnOutcome != nil {
			e.OnOutcome(e.Sim, o)
		}
		return false
	}
	return true
}

// MatchClock formats match seconds as m:ss, or h:mm:ss past an hour.
func MatchClock(seconds float64) string {
	total := int(seconds)
	h, m, sec := total/3600, (total/60)%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}
