// Trade routes and docking. Each port has a single berth at its dock
// hex; ships claim it within berthRange and others wait nearby.
package engine

import (
	"log/slog"

	"github.com/talgya/ironwake/internal/economy"
	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/world"
)

// berthRange is how close a ship must be before it claims or waits for a berth.
const berthRange = 2

type berthStatus uint8

const (
	berthApproach berthStatus = iota // Sailing in or waiting
	berthTransfer                    // Cargo moving
	berthDone                        // Transfer finished, berth released
	berthLost                        // Port gone or no longer ours
)

// stepTrade advances one leg of a trade cycle.
func (s *Simulation) stepTrade(h entity.Handle, sh *entity.Ship, dt float64) {
	route := sh.Orders.Trade
	loading := route.Leg == entity.LegToSource || route.Leg == entity.LegLoading
	portH := route.Dest
	if loading {
		portH = route.Source
	}

	switch s.stepBerth(h, sh, portH, loading, dt) {
	case berthLost:
		s.logEvent("economy", "%s %s abandoned its trade route", sh.Owner, sh.Type)
		slog.Info("trade route cancelled", "ship", h, "owner", sh.Owner, "reason", "port lost")
		sh.Stop()
	case berthTransfer:
		if loading {
			route.Leg = entity.LegLoading
		} else {
			route.Leg = entity.LegUnloading
		}
	case berthDone:
		if loading {
			route.Leg = entity.LegToDest
		} else {
			route.Leg = entity.LegToSource
		}
	}
}

// stepUnload handles a move order that ends by unloading at a port.
func (s *Simulation) stepUnload(h entity.Handle, sh *entity.Ship, dt float64) {
	switch s.stepBerth(h, sh, sh.Orders.Unload, false, dt) {
	case berthDone, berthLost:
		sh.Stop()
	}
}

// stepBerth sails to a port's dock, claims or waits for the berth, and
// runs the transfer timer.
func (s *Simulation) stepBerth(h entity.Handle, sh *entity.Ship, portH entity.Handle, loading bool, dt float64) berthStatus {
	p := s.Store.Ports.Get(portH)
	if p == nil || p.Owner != sh.Owner || !p.Operational() {
		s.releaseDock(h, sh)
		return berthLost
	}
	if sh.Dock.Active() && sh.Dock.Port != portH {
		s.releaseDock(h, sh)
	}

	if sh.Dock.Transferring {
		sh.Dock.Progress += dt
		if sh.Dock.Progress < sh.Dock.Duration {
			return berthTransfer
		}
		s.transfer(sh, p, loading)
		s.releaseDock(h, sh)
		return berthDone
	}

	claimed := sh.Dock.Active() && p.Docked == h
	if !claimed {
		if world.Distance(sh.Hex, p.DockHex) > berthRange {
			if goal, ok := heading(sh); !ok || goal != p.DockHex {
				if sh.RepathTimer <= 0 {
					s.sailTo(sh, p.DockHex)
				}
			}
			return berthApproach
		}
		if !s.berthFree(p, portH) {
			if !sh.Dock.Waiting {
				sh.Path = nil
				sh.Waypoints = nil
				sh.Pos = s.hexPixel(sh.Hex)
			}
			sh.Dock = entity.DockState{Port: portH, Waiting: true}
			return berthApproach
		}
		p.Docked = h
		sh.Dock = entity.DockState{Port: portH}
		claimed = true
	}

	atBerth := sh.Hex == p.DockHex || (!sh.Moving() && world.Distance(sh.Hex, p.DockHex) <= 1)
	if !atBerth {
		if goal, ok := heading(sh); (!ok || goal != p.DockHex) && sh.RepathTimer <= 0 {
			s.sailTo(sh, p.DockHex)
		}
		return berthApproach
	}

	units := sh.Cargo.Total()
	if loading {
		units = min(sh.CargoSpace(), s.available(p))
	}
	sh.Path = nil
	sh.Waypoints = nil
	sh.Dock.Transferring = true
	sh.Dock.Loading = loading
	sh.Dock.Progress = 0
	sh.Dock.Duration = float64(units) * s.Config.Economy.PerUnitLoadTime
	return berthTransfer
}

// berthFree reports whether no live ship holds the port's berth.
func (s *Simulation) berthFree(p *entity.Port, portH entity.Handle) bool {
	if p.Docked.IsZero() {
		return true
	}
	holder := s.Store.Ships.Get(p.Docked)
	if holder == nil || holder.Dock.Port != portH || holder.Dock.Waiting {
		p.Docked = entity.Handle{}
		return true
	}
	return false
}

// releaseDock frees any berth the ship holds and clears its dock state.
func (s *Simulation) releaseDock(h entity.Handle, sh *entity.Ship) {
	if p := s.Store.Ports.Get(sh.Dock.Port); p != nil && p.Docked == h {
		p.Docked = entity.Handle{}
	}
	sh.Dock = entity.DockState{}
}

// available returns the goods a port can hand to a loading ship. Home
// ports draw on the owner's stockpile.
func (s *Simulation) available(p *entity.Port) int {
	if p.IsHome {
		if sp := s.Store.Stockpile(p.Owner); sp != nil {
			return sp.Wood + sp.Food
		}
		return 0
	}
	return p.Storage.Total()
}

// transfer moves cargo between ship and port once the timer completes.
func (s *Simulation) transfer(sh *entity.Ship, p *entity.Port, loading bool) {
	var moved economy.Cargo
	sp := s.Store.Stockpile(p.Owner)
	switch {
	case loading && p.IsHome && sp != nil:
		moved = economy.TakeFromStockpile(sp, sh.CargoSpace())
		sh.Cargo.Put(moved)
	case loading:
		moved = p.Storage.Take(sh.CargoSpace())
		sh.Cargo.Put(moved)
	case p.IsHome && sp != nil:
		moved = sh.Cargo.Take(sh.Cargo.Total())
		sp.Add(moved.Wood, moved.Food)
	default:
		moved = sh.Cargo.Take(sh.Cargo.Total())
		p.Storage.Put(moved)
	}
	if !loading && moved.Total() > 0 {
		s.Stats.TradeUnits[sh.Owner] += moved.Total()
		s.Store.Floaters = append(s.Store.Floaters, entity.Floater{
			Hex:   p.Hex,
			Text:  "+" + moved.String(),
			Owner: p.Owner,
		})
	}
	slog.Debug("cargo transferred",
		"owner", sh.Owner,
		"port", p.Hex,
		"loading", loading,
		"wood", moved.Wood,
		"food", moved.Food,
	)
}
