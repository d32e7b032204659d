package engine

import (
	"log/slog"
	"math"

	"github.com/talgya/ironwake/internal/economy"
	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

// RepairCost returns the wood needed to restore an entity to full health.
func (s *Simulation) RepairCost(ref entity.Ref) (economy.Cost, bool) {
	e := s.Store.Lookup(ref)
	if e == nil {
		return economy.Cost{}, false
	}
	missing := e.Condition().Missing()
	if missing <= 0 {
		return economy.Cost{}, false
	}
	return economy.Cost{Wood: int(math.Ceil(missing * s.Config.Economy.RepairWoodPerHP))}, true
}

// Repair pays for and starts restoring an entity's health over
// RepairDuration. Ships must lie within one hex of an own operational
// port.
func (s *Simulation) Repair(owner social.Owner, ref entity.Ref) bool {
	e := s.Store.Lookup(ref)
	if e == nil || e.Faction() != owner {
		return false
	}
	hull := e.Condition()
	if hull.Repair != nil {
		return false
	}
	if sh, ok := e.(*entity.Ship); ok && !s.nearOwnPort(owner, sh.Hex) {
		return false
	}
	cost, ok := s.RepairCost(ref)
	if !ok {
		return false
	}
	sp := s.Store.Stockpile(owner)
	if sp == nil || !sp.Deduct(cost) {
		return false
	}
	duration := s.Config.Economy.RepairDuration
	hull.Repair = &entity.Repair{
		Duration: duration,
		Rate:     hull.Missing() / duration,
		Cost:     cost,
	}
	slog.Debug("repair started", "owner", owner, "ref", ref, "cost", cost)
	return true
}

func (s *Simulation) nearOwnPort(owner social.Owner, c world.HexCoord) bool {
	for _, p := range s.Store.Ports.All() {
		if p.Owner == owner && p.Operational() && (world.Distance(c, p.DockHex) <= 1 || world.Distance(c, p.Hex) <= 1) {
			return true
		}
	}
	return false
}

// updateRepair restores health on every active repair record.
func (s *Simulation) updateRepair(dt float64) {
	if dt <= 0 {
		return
	}
	for _, sh := range s.Store.Ships.All() {
		tickRepair(&sh.Hull, dt)
	}
	for _, p := range s.Store.Ports.All() {
		tickRepair(&p.Hull, dt)
	}
	for _, st := range s.Store.Settlements.All() {
		tickRepair(&st.Hull, dt)
	}
	for _, t := range s.Store.Towers.All() {
		tickRepair(&t.Hull, dt)
	}
}

func tickRepair(hull *entity.Hull, dt float64) {
	r := hull.Repair
	if r == nil {
		return
	}
	step := min(dt, r.Duration-r.Elapsed)
	r.Elapsed += step
	hull.Health = min(hull.MaxHealth, hull.Health+r.Rate*step)
	if r.Elapsed >= r.Duration-buildEpsilon {
		hull.Repair = nil
	}
}
