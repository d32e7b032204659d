package ai

import (
	"log/slog"

	"github.com/talgya/ironwake/internal/engine"
	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/social"
)

// maxActionsPerCycle bounds how many commands one decision cycle issues.
const maxActionsPerCycle = 2

// Player is an AI opponent. It implements engine.Controller.
type Player struct {
	owner    social.Owner
	Strategy Strategy
	Interval float64 // Seconds between decisions
	Memory   CycleMemory

	timer float64
}

// NewPlayer creates an opponent for owner. A positive interval overrides
// the strategy's own decision interval.
func NewPlayer(owner social.Owner, strat Strategy, interval float64) *Player {
	if interval <= 0 {
		interval = strat.DecisionInterval
	}
	// Stagger opponents so they do not all think on the same tick.
	stagger := interval * float64(owner) / float64(len(social.Owners))
	return &Player{
		owner:    owner,
		Strategy: strat,
		Interval: interval,
		timer:    stagger,
	}
}

// Attach creates and registers a Player for every AI faction in the match.
func Attach(s *engine.Simulation) []*Player {
	var players []*Player
	for _, f := range s.Factions {
		if f.Kind != social.KindAI {
			continue
		}
		p := NewPlayer(f.Owner, NewStrategy(s.Config.Strategy(f.Strategy)), s.Config.AI.DecisionInterval)
		s.AddController(p)
		players = append(players, p)
		slog.Info("ai opponent ready", "owner", f.Owner, "name", f.Name, "strategy", p.Strategy.Name, "interval", p.Interval)
	}
	return players
}

// Owner returns the faction this player commands.
func (p *Player) Owner() social.Owner {
	return p.owner
}

// Think runs one observe, decide, act cycle when the decision timer
// expires.
func (p *Player) Think(s *engine.Simulation, dt float64) {
	p.timer -= dt
	if p.timer > 0 {
		return
	}
	p.timer += p.Interval
	if p.timer <= 0 {
		p.timer = p.Interval
	}
	if Eliminated(s, p.owner) {
		return
	}

	snap := Observe(s, p.owner)
	health := Triage(snap, p.Strategy)
	actions := Decide(snap, health, p.Strategy)

	record := CycleRecord{
		Tick:   s.Tick,
		Time:   s.Time,
		Action: ActNone.String(),
		Level:  health.Level,
		Wood:   snap.Stock.Wood,
		Food:   snap.Stock.Food,
		Army:   health.Army,
	}
	taken := 0
	for _, a := range actions {
		if taken >= maxActionsPerCycle {
			break
		}
		if !Act(s, p.owner, snap, a) {
			slog.Debug("ai action declined", "owner", p.owner, "action", a.Kind, "score", a.Score)
			continue
		}
		if taken == 0 {
			record.Action = a.Kind.String()
			record.Rationale = a.Rationale
		}
		taken++
		slog.Debug("ai action",
			"owner", p.owner,
			"action", a.Kind,
			"score", a.Score,
			"level", health.Level,
			"rationale", a.Rationale,
		)
		// Both share the stockpile and the same ships; refresh before
		// acting again.
		snap = Observe(s, p.owner)
	}
	p.Memory.Record(record)
}

// CountAssets tallies the ships, ports, settlements and towers an owner
// still has.
func CountAssets(s *engine.Simulation, owner social.Owner) entity.Counts {
	return s.Store.CountOwned(owner)
}

// Eliminated reports whether an owner has no ports and no ships left.
func Eliminated(s *engine.Simulation, owner social.Owner) bool {
	return CountAssets(s, owner).Eliminated()
}
