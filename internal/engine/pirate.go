// Pirate behaviour: a patrol / chase / attack / retreat state machine per
// pirate ship, evaluated every ThinkInterval.
package engine

import (
	"context"
	"log/slog"

	"github.com/looplab/fsm"

	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/nav"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

// Pirate states.
const (
	PiratePatrol  = "patrol"
	PirateChase   = "chase"
	PirateAttack  = "attack"
	PirateRetreat = "retreat"
)

// Pirate transition events.
const (
	evSpot    = "spot"
	evEngage  = "engage"
	evPursue  = "pursue"
	evLose    = "lose"
	evFlee    = "flee"
	evRecover = "recover"
)

// fleeRadius bounds the search for a retreat hex.
const fleeRadius = 4

// newPirateBrain builds the behaviour machine for a freshly spawned pirate.
func newPirateBrain(center world.HexCoord) *entity.PirateBrain {
	b := &entity.PirateBrain{Center: center}
	b.FSM = fsm.NewFSM(
		PiratePatrol,
		fsm.Events{
			{Name: evSpot, Src: []string{PiratePatrol}, Dst: PirateChase},
			{Name: evEngage, Src: []string{PiratePatrol, PirateChase}, Dst: PirateAttack},
			{Name: evPursue, Src: []string{PirateAttack}, Dst: PirateChase},
			{Name: evLose, Src: []string{PirateChase, PirateAttack}, Dst: PiratePatrol},
			{Name: evFlee, Src: []string{PiratePatrol, PirateChase, PirateAttack}, Dst: PirateRetreat},
			{Name: evRecover, Src: []string{PirateRetreat}, Dst: PiratePatrol},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				slog.Debug("pirate state", "from", e.Src, "to", e.Dst, "event", e.Event)
			},
		},
	)
	return b
}

// transition fires an event if the current state allows it.
func transition(b *entity.PirateBrain, event string) bool {
	if !b.FSM.Can(event) {
		return false
	}
	return b.FSM.Event(context.Background(), event) == nil
}

// patrolCenter is the map centre in versus mode and the player's home
// port otherwise.
func (s *Simulation) patrolCenter() world.HexCoord {
	if !s.Config.Versus {
		if _, p, ok := s.Store.HomePort(social.OwnerPlayer); ok {
			return p.DockHex
		}
	}
	return s.Map.Center()
}

// updatePirates runs every pirate brain. Timers tick each update;
// decisions happen on the think interval.
func (s *Simulation) updatePirates(dt float64) {
	cfg := s.Config.Pirates
	for h, sh := range s.Store.Ships.All() {
		b := sh.Brain
		if b == nil || b.FSM == nil {
			continue
		}
		b.RetreatTimer = max(0, b.RetreatTimer-dt)
		b.IdleTimer = max(0, b.IdleTimer-dt)
		if b.State() == PirateRetreat && sh.Health < sh.MaxHealth {
			sh.Health = min(sh.MaxHealth, sh.Health+cfg.RegenRate*dt)
		}
		b.ThinkTimer -= dt
		if b.ThinkTimer > 0 {
			continue
		}
		b.ThinkTimer += cfg.ThinkInterval
		if b.ThinkTimer <= 0 {
			b.ThinkTimer = cfg.ThinkInterval
		}
		s.thinkPirate(h, sh, b)
	}
}

func (s *Simulation) thinkPirate(h entity.Handle, sh *entity.Ship, b *entity.PirateBrain) {
	cfg := s.Config.Pirates

	// Low health preempts every other transition.
	if b.State() != PirateRetreat && sh.Fraction() < cfg.RetreatThreshold {
		if transition(b, evFlee) {
			b.RetreatTimer = cfg.RetreatDuration
			b.Target = entity.Ref{}
			s.logEvent("pirate", "Pirate at %v breaks off and flees", sh.Hex)
			slog.Debug("pirate retreating", "ship", h, "health", sh.Health)
			s.flee(sh)
		}
		return
	}

	switch b.State() {
	case PirateRetreat:
		if b.RetreatTimer <= 0 && sh.Fraction() >= cfg.RecoverThreshold {
			transition(b, evRecover)
			sh.Stop()
			b.IdleTimer = 0
			return
		}
		if !sh.Moving() {
			s.flee(sh)
		}

	case PiratePatrol:
		if ref, dist, ok := s.NearestHostile(social.OwnerPirate, sh.Hex, cfg.DetectionRange); ok {
			b.Target = ref
			if dist <= sh.Stats().AttackRange {
				transition(b, evEngage)
			} else {
				transition(b, evSpot)
			}
			sh.SetOrders(entity.AttackOrders(ref))
			return
		}
		s.wander(sh, b)

	case PirateChase, PirateAttack:
		e := s.Store.Lookup(b.Target)
		if e == nil || world.Distance(sh.Hex, e.Coord()) > cfg.DetectionRange+2 {
			transition(b, evLose)
			b.Target = entity.Ref{}
			sh.Stop()
			return
		}
		b.LastKnown = e.Coord()
		inRange := world.Distance(sh.Hex, e.Coord()) <= sh.Stats().AttackRange
		switch {
		case inRange && b.State() == PirateChase:
			transition(b, evEngage)
		case !inRange && b.State() == PirateAttack:
			transition(b, evPursue)
		}
		if sh.Orders.Mode != entity.ModeAttack || sh.Orders.Target != b.Target {
			sh.SetOrders(entity.AttackOrders(b.Target))
		}
	}
}

// wander sails to a random water hex around the patrol centre once the
// idle timer runs out.
func (s *Simulation) wander(sh *entity.Ship, b *entity.PirateBrain) {
	if sh.Moving() || b.IdleTimer > 0 {
		return
	}
	b.IdleTimer = s.Config.Pirates.PatrolIdle
	rng := s.Rand.Stream("pirates")
	disk := world.Spiral(b.Center, max(s.Config.Pirates.PatrolRadius, 0))
	for range 8 {
		c := disk[rng.Intn(len(disk))]
		if c != sh.Hex && s.Map.IsOcean(c) {
			sh.SetOrders(entity.MoveOrders())
			s.sailTo(sh, c)
			return
		}
	}
}

// flee heads for the open water hex farthest from the nearest threat.
func (s *Simulation) flee(sh *entity.Ship) {
	threat, _, ok := s.NearestHostile(social.OwnerPirate, sh.Hex, s.Config.Pirates.DetectionRange*2)
	from := sh.Brain.LastKnown
	if ok {
		if e := s.Store.Lookup(threat); e != nil {
			from = e.Coord()
		}
	}
	best, bestDist := sh.Hex, world.Distance(sh.Hex, from)
	for _, c := range world.Spiral(sh.Hex, fleeRadius) {
		if !s.Map.IsOcean(c) {
			continue
		}
		if _, _, taken := s.Store.ShipAt(c, entity.Handle{}); taken {
			continue
		}
		if d := world.Distance(c, from); d > bestDist {
			best, bestDist = c, d
		}
	}
	sh.SetOrders(entity.MoveOrders())
	if best != sh.Hex {
		if nav.FindPath(sh.Hex, best, s.Map.IsWater) != nil {
			s.sailTo(sh, best)
		}
	}
}
