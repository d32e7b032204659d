// Ship movement: waypoint planning, pixel advance along A* paths,
// obstruction handling, and per-mode order steps.
package engine

import (
	"log/slog"

	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/nav"
	"github.com/talgya/ironwake/internal/world"
)

// updateMovement steps each ship's orders and then advances it along
// its path.
func (s *Simulation) updateMovement(dt float64) {
	if dt <= 0 {
		return
	}
	for h, sh := range s.Store.Ships.All() {
		s.stepOrders(h, sh, dt)
		if s.Store.Ships.Get(h) == nil {
			continue
		}
		s.moveShip(h, sh, dt)
	}
}

// stepOrders runs the behaviour belonging to the ship's current mode.
func (s *Simulation) stepOrders(h entity.Handle, sh *entity.Ship, dt float64) {
	switch sh.Orders.Mode {
	case entity.ModeMove:
		if !sh.Orders.Unload.IsZero() {
			s.stepUnload(h, sh, dt)
		}
	case entity.ModeTrade:
		s.stepTrade(h, sh, dt)
	case entity.ModePatrol:
		s.stepPatrol(sh)
	case entity.ModeAttack:
		s.stepAttack(sh)
	}
}

// passableFor returns the predicate used when planning h's path: water
// not occupied by another stationary ship. The goal is always allowed so
// a ship can head for an occupied hex and stop beside it.
func (s *Simulation) passableFor(h entity.Handle, goal world.HexCoord) nav.Passable {
	return func(c world.HexCoord) bool {
		if !s.Map.IsWater(c) {
			return false
		}
		if c == goal {
			return true
		}
		_, _, taken := s.Store.ShipAt(c, h)
		return !taken
	}
}

// planNext pops waypoints until one yields a path. Unreachable waypoints
// are dropped and the ship waits RepathDelay before trying the next.
func (s *Simulation) planNext(h entity.Handle, sh *entity.Ship) bool {
	for len(sh.Waypoints) > 0 {
		goal := sh.Waypoints[0]
		sh.Waypoints = sh.Waypoints[1:]
		if goal == sh.Hex {
			continue
		}
		path := nav.FindPath(sh.Hex, goal, s.passableFor(h, goal))
		if path == nil {
			slog.Debug("waypoint unreachable", "ship", h, "from", sh.Hex, "to", goal)
			sh.RepathTimer = s.Config.Movement.RepathDelay
			return false
		}
		sh.Path = path[1:]
		return true
	}
	return false
}

// moveShip advances a ship by its speed. Arriving at the end of a plain
// move leaves the ship idle.
func (s *Simulation) moveShip(h entity.Handle, sh *entity.Ship, dt float64) {
	if sh.Dock.Busy() {
		return
	}
	if sh.RepathTimer > 0 {
		sh.RepathTimer -= dt
		if sh.RepathTimer > 0 {
			return
		}
		sh.RepathTimer = 0
	}
	if !sh.Moving() {
		return
	}

	budget := sh.Stats().Speed * dt
	for budget > 0 {
		if len(sh.Path) == 0 && !s.planNext(h, sh) {
			break
		}
		next := sh.Path[0]
		if _, _, blocked := s.Store.ShipAt(next, h); blocked {
			if len(sh.Path) == 1 {
				// Destination taken; stop beside it.
				sh.Path = nil
				sh.Pos = s.hexPixel(sh.Hex)
				if len(sh.Waypoints) == 0 {
					break
				}
				continue
			}
			if !s.repath(h, sh) {
				break
			}
			continue
		}

		target := s.hexPixel(next)
		dist := target.Sub(sh.Pos).Len()
		if dist > 0 {
			sh.Heading = world.Heading(sh.Pos, target)
		}
		if dist > budget {
			sh.Pos = sh.Pos.Lerp(target, budget/dist)
			break
		}
		budget -= dist
		sh.Pos = target
		sh.Hex = next
		sh.Path = sh.Path[1:]
		s.markFogDirty(sh.Owner)
		s.collectLoot(sh)
	}

	if !sh.Moving() && sh.Orders.Mode == entity.ModeMove && sh.Orders.Unload.IsZero() {
		sh.Orders = entity.IdleOrders()
	}
}

// repath plans around an obstruction toward the end of the current path.
// On failure the ship snaps back to its hex and waits.
func (s *Simulation) repath(h entity.Handle, sh *entity.Ship) bool {
	goal := sh.Path[len(sh.Path)-1]
	path := nav.FindPath(sh.Hex, goal, s.passableFor(h, goal))
	if len(path) < 2 {
		sh.Pos = s.hexPixel(sh.Hex)
		sh.RepathTimer = s.Config.Movement.RepathDelay
		return false
	}
	sh.Path = path[1:]
	return true
}

// sailTo replaces the ship's route with a single destination.
func (s *Simulation) sailTo(sh *entity.Ship, goal world.HexCoord) {
	sh.Waypoints = []world.HexCoord{goal}
	sh.Path = nil
}

// heading returns the final hex the ship is sailing to.
func heading(sh *entity.Ship) (world.HexCoord, bool) {
	if n := len(sh.Waypoints); n > 0 {
		return sh.Waypoints[n-1], true
	}
	if n := len(sh.Path); n > 0 {
		return sh.Path[n-1], true
	}
	return world.HexCoord{}, false
}

// collectLoot moves floating cargo on the ship's hex into its hold.
func (s *Simulation) collectLoot(sh *entity.Ship) {
	for i := range s.Store.Loot {
		l := &s.Store.Loot[i]
		if l.Hex != sh.Hex || l.Cargo.Empty() {
			continue
		}
		space := sh.CargoSpace()
		if space == 0 {
			return
		}
		got := l.Cargo.Take(space)
		sh.Cargo.Put(got)
		s.Store.Floaters = append(s.Store.Floaters, entity.Floater{
			Hex:   sh.Hex,
			Text:  "+" + got.String(),
			Owner: sh.Owner,
		})
	}
}

// stepPatrol loops through the patrol points, engaging hostiles that
// come within vision.
func (s *Simulation) stepPatrol(sh *entity.Ship) {
	route := sh.Orders.Patrol
	if !sh.Orders.Target.IsZero() {
		if e := s.Store.Lookup(sh.Orders.Target); e != nil && world.Distance(sh.Hex, e.Coord()) <= sh.Stats().Vision+2 {
			s.pursue(sh, e)
			return
		}
		sh.Orders.Target = entity.Ref{}
		sh.Path = nil
		sh.Waypoints = nil
	}
	if sh.Stats().Armed() {
		if ref, _, ok := s.NearestHostile(sh.Owner, sh.Hex, sh.Stats().Vision); ok {
			sh.Orders.Target = ref
			return
		}
	}
	if sh.Moving() || sh.RepathTimer > 0 {
		return
	}
	pt := route.Points[route.Next%len(route.Points)]
	route.Next = (route.Next + 1) % len(route.Points)
	s.sailTo(sh, pt)
}

// stepAttack pursues the target until it is in range. Held ships stop
// once the target leaves range.
func (s *Simulation) stepAttack(sh *entity.Ship) {
	e := s.Store.Lookup(sh.Orders.Target)
	if e == nil {
		sh.Stop()
		return
	}
	if world.Distance(sh.Hex, e.Coord()) > sh.Stats().AttackRange && sh.Orders.Hold {
		sh.Stop()
		return
	}
	s.pursue(sh, e)
}

// pursue closes to attack range of e and halts once there.
func (s *Simulation) pursue(sh *entity.Ship, e entity.Entity) {
	target := e.Coord()
	rng := max(sh.Stats().AttackRange, 1)
	if world.Distance(sh.Hex, target) <= rng {
		if len(sh.Path) > 1 {
			sh.Path = sh.Path[:1]
		}
		sh.Waypoints = nil
		return
	}
	if sh.RepathTimer > 0 {
		return
	}
	if goal, ok := heading(sh); ok && world.Distance(goal, target) <= rng {
		return
	}
	goal := target
	if !s.Map.IsWater(target) {
		spot, ok := nav.Nearest(target, rng, func(c world.HexCoord) bool {
			if !s.Map.IsOcean(c) {
				return false
			}
			_, _, taken := s.Store.ShipAt(c, entity.Handle{})
			return !taken
		})
		if !ok {
			return
		}
		goal = spot
	}
	s.sailTo(sh, goal)
}
