// Commands issued by the input layer and AI controllers. Each validates
// ownership and preconditions and returns false without side effects
// when it declines.
package engine

import (
	"log/slog"

	"github.com/talgya/ironwake/internal/economy"
	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

// BuildPort founds a dock on a port site.
func (s *Simulation) BuildPort(owner social.Owner, c world.HexCoord) (entity.Handle, bool) {
	if !s.CanPlace(owner, entity.BuildPort, c) {
		return entity.Handle{}, false
	}
	stats := entity.PortStatsFor(entity.TierDock)
	if !s.pay(owner, stats.Cost) {
		return entity.Handle{}, false
	}
	dock, _ := s.Map.DockHex(c)
	h, _ := s.Store.AddPort(entity.Port{
		Hull:         entity.Hull{Health: stats.Health, MaxHealth: stats.Health},
		Hex:          c,
		DockHex:      dock,
		Tier:         entity.TierDock,
		Owner:        owner,
		Construction: &entity.Construction{BuildTime: stats.BuildTime, Cost: stats.Cost},
	})
	s.markFogDirty(owner)
	s.logEvent("build", "%s began a dock at %v", owner, c)
	return h, true
}

// BuildSettlement founds a village attached to the nearest own port.
func (s *Simulation) BuildSettlement(owner social.Owner, c world.HexCoord) (entity.Handle, bool) {
	if !s.CanPlace(owner, entity.BuildSettlement, c) {
		return entity.Handle{}, false
	}
	port, _ := s.settlementPort(owner, c)
	stats := entity.SettlementStatsFor(entity.TierVillage)
	if !s.pay(owner, stats.Cost) {
		return entity.Handle{}, false
	}
	h, _ := s.Store.AddSettlement(entity.Settlement{
		Hull:         entity.Hull{Health: stats.Health, MaxHealth: stats.Health},
		Hex:          c,
		Tier:         entity.TierVillage,
		Owner:        owner,
		Port:         port,
		Construction: &entity.Construction{BuildTime: stats.BuildTime, Cost: stats.Cost},
	})
	s.markFogDirty(owner)
	s.logEvent("build", "%s began a village at %v", owner, c)
	return h, true
}

// BuildTower raises a watchtower.
func (s *Simulation) BuildTower(owner social.Owner, c world.HexCoord) (entity.Handle, bool) {
	if !s.CanPlace(owner, entity.BuildTower, c) {
		return entity.Handle{}, false
	}
	stats := entity.TowerStatsFor(entity.TierWatchtower)
	if !s.pay(owner, stats.Cost) {
		return entity.Handle{}, false
	}
	h, _ := s.Store.AddTower(entity.Tower{
		Hull:         entity.Hull{Health: stats.Health, MaxHealth: stats.Health},
		Hex:          c,
		Tier:         entity.TierWatchtower,
		Owner:        owner,
		Construction: &entity.Construction{BuildTime: stats.BuildTime, Cost: stats.Cost},
	})
	s.markFogDirty(owner)
	s.logEvent("build", "%s began a watchtower at %v", owner, c)
	return h, true
}

func (s *Simulation) pay(owner social.Owner, c economy.Cost) bool {
	sp := s.Store.Stockpile(owner)
	return sp != nil && sp.Deduct(c)
}

// UpgradeCost returns the price and target tier of upgrading a structure.
func (s *Simulation) UpgradeCost(ref entity.Ref) (economy.Cost, float64, int, bool) {
	switch ref.Kind {
	case entity.KindPort:
		p := s.Store.Ports.Get(ref.Handle)
		if p == nil || p.Construction != nil {
			return economy.Cost{}, 0, 0, false
		}
		next, ok := p.Tier.NextTier()
		if !ok {
			return economy.Cost{}, 0, 0, false
		}
		st := entity.PortStatsFor(next)
		return st.Cost, st.BuildTime, int(next), true
	case entity.KindSettlement:
		st := s.Store.Settlements.Get(ref.Handle)
		if st == nil || st.Construction != nil || st.Tier == entity.TierTown {
			return economy.Cost{}, 0, 0, false
		}
		stats := entity.SettlementStatsFor(entity.TierTown)
		return stats.Cost, stats.BuildTime, int(entity.TierTown), true
	case entity.KindTower:
		t := s.Store.Towers.Get(ref.Handle)
		if t == nil || t.Construction != nil || t.Tier == entity.TierFortress {
			return economy.Cost{}, 0, 0, false
		}
		stats := entity.TowerStatsFor(entity.TierFortress)
		return stats.Cost, stats.BuildTime, int(entity.TierFortress), true
	}
	return economy.Cost{}, 0, 0, false
}

// Upgrade starts upgrading a finished structure to its next tier.
// Structures keep working at their current tier meanwhile.
func (s *Simulation) Upgrade(owner social.Owner, ref entity.Ref) bool {
	e := s.Store.Lookup(ref)
	if e == nil || e.Faction() != owner || ref.Kind == entity.KindShip {
		return false
	}
	cost, buildTime, tier, ok := s.UpgradeCost(ref)
	if !ok || !s.pay(owner, cost) {
		return false
	}
	c := &entity.Construction{BuildTime: buildTime, Upgrade: true, UpgradeTier: tier, Cost: cost}
	switch ref.Kind {
	case entity.KindPort:
		s.Store.Ports.Get(ref.Handle).Construction = c
	case entity.KindSettlement:
		s.Store.Settlements.Get(ref.Handle).Construction = c
	case entity.KindTower:
		s.Store.Towers.Get(ref.Handle).Construction = c
	}
	s.logEvent("build", "%s began upgrading %s at %v", owner, ref.Kind, e.Coord())
	return true
}

// CancelConstruction refunds an unfinished build or upgrade. A cancelled
// new structure is removed; a cancelled upgrade leaves the old tier.
func (s *Simulation) CancelConstruction(owner social.Owner, ref entity.Ref) bool {
	e := s.Store.Lookup(ref)
	if e == nil || e.Faction() != owner {
		return false
	}
	var rec **entity.Construction
	switch ref.Kind {
	case entity.KindPort:
		p := s.Store.Ports.Get(ref.Handle)
		if p.IsHome && p.Construction != nil && !p.Construction.Upgrade {
			return false
		}
		rec = &p.Construction
	case entity.KindSettlement:
		rec = &s.Store.Settlements.Get(ref.Handle).Construction
	case entity.KindTower:
		rec = &s.Store.Towers.Get(ref.Handle).Construction
	default:
		return false
	}
	c := *rec
	if c == nil {
		return false
	}
	if sp := s.Store.Stockpile(owner); sp != nil {
		sp.Refund(c.Cost)
	}
	if c.Upgrade {
		*rec = nil
	} else {
		if ref.Kind == entity.KindPort {
			s.detachSettlements(ref.Handle)
		}
		s.Store.Remove(ref)
		s.markFogDirty(owner)
	}
	s.logEvent("build", "%s cancelled work at %v", owner, e.Coord())
	return true
}

// QueueShip pays for a ship and appends it to a port's build queue.
func (s *Simulation) QueueShip(owner social.Owner, port entity.Handle, t entity.ShipType) bool {
	p := s.Store.Ports.Get(port)
	if p == nil || p.Owner != owner || !p.Operational() {
		return false
	}
	if !p.Tier.CanBuild(t) || p.QueueFull() {
		return false
	}
	stats := entity.StatsFor(t)
	if !s.pay(owner, stats.Cost) {
		return false
	}
	p.Queue = append(p.Queue, entity.BuildItem{Ship: t, BuildTime: stats.BuildTime, Cost: stats.Cost})
	slog.Debug("ship queued", "owner", owner, "port", port, "type", t, "queue", len(p.Queue))
	return true
}

// CancelQueuedShip removes the item at index from a port's queue and
// refunds it.
func (s *Simulation) CancelQueuedShip(owner social.Owner, port entity.Handle, index int) bool {
	p := s.Store.Ports.Get(port)
	if p == nil || p.Owner != owner || index < 0 || index >= len(p.Queue) {
		return false
	}
	item := p.Queue[index]
	p.Queue = append(p.Queue[:index], p.Queue[index+1:]...)
	if sp := s.Store.Stockpile(owner); sp != nil {
		sp.Refund(item.Cost)
	}
	return true
}

// ownShip resolves a ship handle the owner controls.
func (s *Simulation) ownShip(owner social.Owner, ship entity.Handle) *entity.Ship {
	sh := s.Store.Ships.Get(ship)
	if sh == nil || sh.Owner != owner || sh.Brain != nil {
		return nil
	}
	return sh
}

// retask clears a ship's berth before it takes new orders.
func (s *Simulation) retask(ship entity.Handle, sh *entity.Ship, o entity.Orders) bool {
	if !o.Valid() {
		return false
	}
	s.releaseDock(ship, sh)
	return sh.SetOrders(o)
}

// SetWaypoints sends a ship through water hexes in order. With appendTo
// set, a moving ship extends its current queue.
func (s *Simulation) SetWaypoints(owner social.Owner, ship entity.Handle, hexes []world.HexCoord, appendTo bool) bool {
	sh := s.ownShip(owner, ship)
	if sh == nil || len(hexes) == 0 {
		return false
	}
	for _, c := range hexes {
		if !s.Map.IsWater(c) {
			return false
		}
	}
	if appendTo && sh.Orders.Mode == entity.ModeMove && sh.Orders.Unload.IsZero() {
		sh.Waypoints = append(sh.Waypoints, hexes...)
		return true
	}
	if !s.retask(ship, sh, entity.MoveOrders()) {
		return false
	}
	sh.Waypoints = append([]world.HexCoord(nil), hexes...)
	return true
}

// Attack orders an armed ship to pursue and fire on a hostile target.
func (s *Simulation) Attack(owner social.Owner, ship entity.Handle, target entity.Ref) bool {
	sh := s.ownShip(owner, ship)
	if sh == nil || !sh.Stats().Armed() {
		return false
	}
	e := s.Store.Lookup(target)
	if e == nil || !social.Hostile(owner, e.Faction()) {
		return false
	}
	return s.retask(ship, sh, entity.AttackOrders(target))
}

// Patrol loops a ship through water hexes.
func (s *Simulation) Patrol(owner social.Owner, ship entity.Handle, points []world.HexCoord) bool {
	sh := s.ownShip(owner, ship)
	if sh == nil || len(points) == 0 {
		return false
	}
	for _, c := range points {
		if !s.Map.IsWater(c) {
			return false
		}
	}
	return s.retask(ship, sh, entity.PatrolOrders(points))
}

// AssignTradeRoute starts a ship cycling goods between two own ports.
func (s *Simulation) AssignTradeRoute(owner social.Owner, ship, source, dest entity.Handle) bool {
	sh := s.ownShip(owner, ship)
	if sh == nil || sh.Stats().Cargo <= 0 || source == dest {
		return false
	}
	for _, ph := range []entity.Handle{source, dest} {
		p := s.Store.Ports.Get(ph)
		if p == nil || p.Owner != owner || !p.Operational() {
			return false
		}
	}
	if !s.retask(ship, sh, entity.TradeOrders(source, dest)) {
		return false
	}
	s.logEvent("economy", "%s %s assigned a trade route", owner, sh.Type)
	return true
}

// CancelTradeRoute leaves a trading ship idle where it is, keeping its
// cargo and releasing any berth.
func (s *Simulation) CancelTradeRoute(owner social.Owner, ship entity.Handle) bool {
	sh := s.ownShip(owner, ship)
	if sh == nil || sh.Orders.Mode != entity.ModeTrade {
		return false
	}
	s.releaseDock(ship, sh)
	sh.Stop()
	sh.Pos = s.hexPixel(sh.Hex)
	return true
}

// ReturnCargo sends a ship to unload everything at an own port.
func (s *Simulation) ReturnCargo(owner social.Owner, ship, port entity.Handle) bool {
	sh := s.ownShip(owner, ship)
	if sh == nil || sh.Cargo.Empty() {
		return false
	}
	p := s.Store.Ports.Get(port)
	if p == nil || p.Owner != owner || !p.Operational() {
		return false
	}
	return s.retask(ship, sh, entity.UnloadOrders(port))
}

// StopShip cancels whatever the ship was doing.
func (s *Simulation) StopShip(owner social.Owner, ship entity.Handle) bool {
	sh := s.ownShip(owner, ship)
	if sh == nil {
		return false
	}
	s.releaseDock(ship, sh)
	sh.Stop()
	return true
}

// Select replaces (or extends) the selection with the owner's ships.
func (s *Simulation) Select(owner social.Owner, ships []entity.Handle, add bool) bool {
	if !add {
		s.Store.Selection = entity.Selection{}
	}
	picked := false
	for _, h := range ships {
		if s.ownShip(owner, h) == nil {
			continue
		}
		dup := false
		for _, sel := range s.Store.Selection.Ships {
			if sel == h {
				dup = true
				break
			}
		}
		if !dup {
			s.Store.Selection.Ships = append(s.Store.Selection.Ships, h)
			picked = true
		}
	}
	return picked
}

// SelectStructure selects one of the owner's structures.
func (s *Simulation) SelectStructure(owner social.Owner, ref entity.Ref) bool {
	e := s.Store.Lookup(ref)
	if e == nil || e.Faction() != owner || ref.Kind == entity.KindShip {
		return false
	}
	s.Store.Selection = entity.Selection{Structure: ref}
	return true
}

// ClearSelection empties the selection and leaves placement modes.
func (s *Simulation) ClearSelection() {
	s.Store.Selection = entity.Selection{}
	s.Store.BuildMode = entity.BuildNone
	s.Store.PatrolMode = false
}

// SetBuildMode enters or leaves structure placement.
func (s *Simulation) SetBuildMode(kind entity.BuildKind) {
	s.Store.BuildMode = kind
	if kind != entity.BuildNone {
		s.Store.PatrolMode = false
	}
}

// SetPatrolMode toggles patrol point placement for the selected ships.
func (s *Simulation) SetPatrolMode(on bool) {
	s.Store.PatrolMode = on
	if on {
		s.Store.BuildMode = entity.BuildNone
	}
}

// SetTimeScale changes the global time scale. Zero pauses.
func (s *Simulation) SetTimeScale(scale float64) bool {
	if scale < 0 {
		return false
	}
	s.Config.TimeScale = scale
	slog.Info("time scale changed", "scale", scale)
	return true
}
