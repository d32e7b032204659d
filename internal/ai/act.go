package ai

import (
	"log/slog"

	"github.com/talgya/ironwake/internal/engine"
	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

// Act carries out an action through the engine command API. It returns
// false when the engine declined every command involved.
func Act(s *engine.Simulation, owner social.Owner, snap *Snapshot, a Action) bool {
	switch a.Kind {
	case ActQueueShip:
		return s.QueueShip(owner, a.Port, a.Ship)

	case ActBuild:
		site, ok := pickSite(s, owner, snap, a.Build)
		if !ok {
			return false
		}
		switch a.Build {
		case entity.BuildPort:
			_, ok = s.BuildPort(owner, site)
		case entity.BuildSettlement:
			_, ok = s.BuildSettlement(owner, site)
		case entity.BuildTower:
			_, ok = s.BuildTower(owner, site)
		default:
			ok = false
		}
		return ok

	case ActUpgrade:
		return s.Upgrade(owner, a.Target)

	case ActRepair:
		return s.Repair(owner, a.Target)

	case ActTrade:
		if len(a.Ships) == 0 {
			return false
		}
		return s.AssignTradeRoute(owner, a.Ships[0], a.Source, a.Dest)

	case ActReturnCargo:
		return each(a.Ships, func(h entity.Handle) bool {
			return s.ReturnCargo(owner, h, a.Port)
		})

	case ActDefend, ActAttack:
		ok := each(a.Ships, func(h entity.Handle) bool {
			return s.Attack(owner, h, a.Target)
		})
		if ok && a.Kind == ActAttack {
			slog.Info("ai attack launched", "owner", owner, "ships", len(a.Ships), "target", a.Target)
		}
		return ok
	}
	return false
}

// each runs fn for every handle and reports whether any call succeeded.
func each(hs []entity.Handle, fn func(entity.Handle) bool) bool {
	done := false
	for _, h := range hs {
		if fn(h) {
			done = true
		}
	}
	return done
}

// pickSite chooses where to build: towers go nearest the closest threat,
// everything else nearest home.
func pickSite(s *engine.Simulation, owner social.Owner, snap *Snapshot, kind entity.BuildKind) (world.HexCoord, bool) {
	sites := s.PlacementSites(owner, kind)
	if len(sites) == 0 {
		return world.HexCoord{}, false
	}
	anchor := snap.Home.Hex
	if kind == entity.BuildTower && len(snap.Threats) > 0 {
		anchor = closest(snap.Threats).Hex
	}
	best := sites[0]
	for _, c := range sites[1:] {
		if world.Distance(c, anchor) < world.Distance(best, anchor) {
			best = c
		}
	}
	return best, true
}
