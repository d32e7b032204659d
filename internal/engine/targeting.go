package engine

import (
	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

// NearestHostile returns the closest entity hostile to owner within
// radius of from. Ties go to the first found: ships, then ports,
// settlements, and towers.
func (s *Simulation) NearestHostile(owner social.Owner, from world.HexCoord, radius int) (entity.Ref, int, bool) {
	var best entity.Ref
	bestDist := radius + 1
	consider := func(r entity.Ref, o social.Owner, at world.HexCoord) {
		if !social.Hostile(owner, o) {
			return
		}
		if d := world.Distance(from, at); d < bestDist {
			best, bestDist = r, d
		}
	}
	for h, sh := range s.Store.Ships.All() {
		consider(entity.ShipRef(h), sh.Owner, sh.Hex)
	}
	for h, p := range s.Store.Ports.All() {
		consider(entity.PortRef(h), p.Owner, p.Hex)
	}
	for h, st := range s.Store.Settlements.All() {
		consider(entity.SettlementRef(h), st.Owner, st.Hex)
	}
	for h, t := range s.Store.Towers.All() {
		consider(entity.TowerRef(h), t.Owner, t.Hex)
	}
	if best.IsZero() {
		return entity.Ref{}, 0, false
	}
	return best, bestDist, true
}

// updateTargeting lets towers and idle armed ships pick the nearest
// hostile in range. Pirates choose their own targets.
func (s *Simulation) updateTargeting() {
	for _, t := range s.Store.Towers.All() {
		if !t.Operational() {
			continue
		}
		if e := s.Store.Lookup(t.Target); e != nil && world.Distance(t.Hex, e.Coord()) <= t.Stats().AttackRange {
			continue
		}
		t.Target = entity.Ref{}
		if ref, _, ok := s.NearestHostile(t.Owner, t.Hex, t.Stats().AttackRange); ok {
			t.Target = ref
		}
	}
	for _, sh := range s.Store.Ships.All() {
		if sh.Owner == social.OwnerPirate || sh.Orders.Mode != entity.ModeIdle || !sh.Stats().Armed() || sh.Dock.Active() {
			continue
		}
		if ref, _, ok := s.NearestHostile(sh.Owner, sh.Hex, sh.Stats().AttackRange); ok {
			sh.SetOrders(entity.GuardOrders(ref))
		}
	}
}
