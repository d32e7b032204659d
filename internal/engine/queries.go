// Read-only queries for the input layer and AI controllers.
package engine

import (
	"github.com/talgya/ironwake/internal/economy"
	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/nav"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

// CanAfford reports whether the owner's stockpile covers a cost.
func (s *Simulation) CanAfford(owner social.Owner, c economy.Cost) bool {
	sp := s.Store.Stockpile(owner)
	return sp != nil && sp.CanAfford(c)
}

// StructureCost returns the price of a new structure of a kind.
func StructureCost(kind entity.BuildKind) economy.Cost {
	switch kind {
	case entity.BuildPort:
		return entity.PortStatsFor(entity.TierDock).Cost
	case entity.BuildSettlement:
		return entity.SettlementStatsFor(entity.TierVillage).Cost
	case entity.BuildTower:
		return entity.TowerStatsFor(entity.TierWatchtower).Cost
	}
	return economy.Cost{}
}

// CanPlace reports whether owner may found a structure of kind at c.
//
// Ports need a free port site whose dock hex no other port uses, on an
// island the owner already holds or one adjacent to it. Settlements need
// free land within SettlementRange of an own port on the same island.
// Towers need free land within TowerRange of any own structure. Owners
// with fog may only build on explored hexes.
func (s *Simulation) CanPlace(owner social.Owner, kind entity.BuildKind, c world.HexCoord) bool {
	if !s.Map.IsLand(c) {
		return false
	}
	if _, taken := s.Store.StructureAt(c); taken {
		return false
	}
	if g := s.Fog[owner]; g != nil && !g.IsExplored(c) {
		return false
	}

	switch kind {
	case entity.BuildPort:
		if !s.Map.Get(c).PortSite {
			return false
		}
		dock, ok := s.Map.DockHex(c)
		if !ok {
			return false
		}
		if _, _, used := s.Store.PortAtDock(dock); used {
			return false
		}
		return s.reachesIsland(owner, s.Map.IslandAt(c))

	case entity.BuildSettlement:
		_, ok := s.settlementPort(owner, c)
		return ok

	case entity.BuildTower:
		rng := s.Config.Economy.TowerRange
		for _, p := range s.Store.Ports.All() {
			if p.Owner == owner && world.Distance(c, p.Hex) <= rng {
				return true
			}
		}
		for _, st := range s.Store.Settlements.All() {
			if st.Owner == owner && world.Distance(c, st.Hex) <= rng {
				return true
			}
		}
		for _, t := range s.Store.Towers.All() {
			if t.Owner == owner && world.Distance(c, t.Hex) <= rng {
				return true
			}
		}
	}
	return false
}

// reachesIsland reports whether the owner holds a structure on island id
// or on an island adjacent to it.
func (s *Simulation) reachesIsland(owner social.Owner, id int) bool {
	if id < 0 {
		return false
	}
	held := s.ownedIslands(owner)
	if held[id] {
		return true
	}
	for _, adj := range s.Map.AdjacentIslands(id) {
		if held[adj] {
			return true
		}
	}
	return false
}

func (s *Simulation) ownedIslands(owner social.Owner) map[int]bool {
	held := make(map[int]bool)
	for _, p := range s.Store.Ports.All() {
		if p.Owner == owner {
			held[s.Map.IslandAt(p.Hex)] = true
		}
	}
	for _, st := range s.Store.Settlements.All() {
		if st.Owner == owner {
			held[s.Map.IslandAt(st.Hex)] = true
		}
	}
	for _, t := range s.Store.Towers.All() {
		if t.Owner == owner {
			held[s.Map.IslandAt(t.Hex)] = true
		}
	}
	return held
}

// settlementPort picks the nearest own operational port on the same
// island within SettlementRange of c.
func (s *Simulation) settlementPort(owner social.Owner, c world.HexCoord) (entity.Handle, bool) {
	island := s.Map.IslandAt(c)
	best := s.Config.Economy.SettlementRange + 1
	var found entity.Handle
	for h, p := range s.Store.Ports.All() {
		if p.Owner != owner || !p.Operational() || s.Map.IslandAt(p.Hex) != island {
			continue
		}
		if d := world.Distance(c, p.Hex); d < best {
			best, found = d, h
		}
	}
	return found, !found.IsZero()
}

// PlacementSites lists every hex where owner may found a structure of kind.
func (s *Simulation) PlacementSites(owner social.Owner, kind entity.BuildKind) []world.HexCoord {
	var out []world.HexCoord
	for _, c := range s.Map.Coords {
		if s.CanPlace(owner, kind, c) {
			out = append(out, c)
		}
	}
	return out
}

// BuildableShips lists the ship types a port can currently queue.
func (s *Simulation) BuildableShips(port entity.Handle) []entity.ShipType {
	p := s.Store.Ports.Get(port)
	if p == nil || !p.Operational() {
		return nil
	}
	out := make([]entity.ShipType, len(p.Stats().Buildable))
	copy(out, p.Stats().Buildable)
	return out
}

// CargoSpace returns a ship's free cargo capacity, or 0 for stale handles.
func (s *Simulation) CargoSpace(ship entity.Handle) int {
	sh := s.Store.Ships.Get(ship)
	if sh == nil {
		return 0
	}
	return sh.CargoSpace()
}

// NearestWaitingHex returns the free water hex closest to a port's berth
// where an arriving ship can wait its turn.
func (s *Simulation) NearestWaitingHex(port entity.Handle) (world.HexCoord, bool) {
	p := s.Store.Ports.Get(port)
	if p == nil {
		return world.HexCoord{}, false
	}
	return nav.Nearest(p.DockHex, berthRange, func(c world.HexCoord) bool {
		if c == p.DockHex || !s.Map.IsOcean(c) {
			return false
		}
		_, _, taken := s.Store.ShipAt(c, entity.Handle{})
		return !taken
	})
}
