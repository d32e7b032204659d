package ai

import (
	"github.com/talgya/ironwake/internal/economy"
	"github.com/talgya/ironwake/internal/engine"
	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

// threatRadius is how close a hostile must come to an own structure to
// count as a threat.
const threatRadius = 6

// Snapshot is what an opponent knows at decision time. Hostiles are
// limited to what its fog lets it see.
type Snapshot struct {
	Owner  social.Owner
	Tick   uint64
	Time   float64
	Stock  economy.Stockpile
	Assets entity.Counts

	Home     PortInfo
	HasHome  bool
	Ports    []PortInfo
	Warships []ShipInfo
	Traders  []ShipInfo
	Damaged  []entity.Ref // Own entities below repairFraction
	Threats  []Sighting   // Hostiles near own structures
	Targets  []Sighting   // Every visible hostile
}

// PortInfo summarises an own port.
type PortInfo struct {
	Handle      entity.Handle
	Hex         world.HexCoord
	Tier        entity.PortTier
	Home        bool
	Operational bool
	Upgrading   bool
	QueueLen    int
	QueueMax    int
	Storage     economy.Cargo
	Buildable   []entity.ShipType
}

// ShipInfo summarises an own ship.
type ShipInfo struct {
	Handle entity.Handle
	Type   entity.ShipType
	Hex    world.HexCoord
	Mode   entity.Mode
	Cargo  economy.Cargo
	Health float64 // Fraction of maximum
}

// Idle reports whether the ship has no orders.
func (s ShipInfo) Idle() bool {
	return s.Mode == entity.ModeIdle
}

// Sighting is a visible hostile entity.
type Sighting struct {
	Ref      entity.Ref
	Owner    social.Owner
	Hex      world.HexCoord
	Distance int // To the nearest own structure, or the home port for targets
	Ship     bool
}

// repairFraction is the health share below which an entity is worth
// repairing.
const repairFraction = 0.6

// Observe collects a Snapshot of the owner's situation.
func Observe(s *engine.Simulation, owner social.Owner) *Snapshot {
	snap := &Snapshot{
		Owner:  owner,
		Tick:   s.Tick,
		Time:   s.Time,
		Assets: CountAssets(s, owner),
	}
	if sp := s.Store.Stockpile(owner); sp != nil {
		snap.Stock = *sp
	}

	var own []world.HexCoord
	for h, p := range s.Store.Ports.All() {
		if p.Owner != owner {
			continue
		}
		own = append(own, p.Hex)
		info := PortInfo{
			Handle:      h,
			Hex:         p.Hex,
			Tier:        p.Tier,
			Home:        p.IsHome,
			Operational: p.Operational(),
			Upgrading:   p.Construction != nil && p.Construction.Upgrade,
			QueueLen:    len(p.Queue),
			QueueMax:    p.Stats().QueueMax,
			Storage:     p.Storage,
			Buildable:   s.BuildableShips(h),
		}
		snap.Ports = append(snap.Ports, info)
		if p.IsHome {
			snap.Home, snap.HasHome = info, true
		}
		if p.Operational() && p.Fraction() < repairFraction {
			snap.Damaged = append(snap.Damaged, entity.PortRef(h))
		}
	}
	if !snap.HasHome && len(snap.Ports) > 0 {
		snap.Home, snap.HasHome = snap.Ports[0], true
	}
	for h, st := range s.Store.Settlements.All() {
		if st.Owner != owner {
			continue
		}
		own = append(own, st.Hex)
		if st.Operational() && st.Fraction() < repairFraction {
			snap.Damaged = append(snap.Damaged, entity.SettlementRef(h))
		}
	}
	for h, t := range s.Store.Towers.All() {
		if t.Owner != owner {
			continue
		}
		own = append(own, t.Hex)
		if t.Operational() && t.Fraction() < repairFraction {
			snap.Damaged = append(snap.Damaged, entity.TowerRef(h))
		}
	}

	for h, sh := range s.Store.Ships.All() {
		if sh.Owner != owner {
			continue
		}
		info := ShipInfo{
			Handle: h,
			Type:   sh.Type,
			Hex:    sh.Hex,
			Mode:   sh.Orders.Mode,
			Cargo:  sh.Cargo,
			Health: sh.Fraction(),
		}
		if sh.Stats().Armed() {
			snap.Warships = append(snap.Warships, info)
		} else {
			snap.Traders = append(snap.Traders, info)
		}
	}

	sight := func(ref entity.Ref, o social.Owner, at world.HexCoord, ship bool) {
		if !social.Hostile(owner, o) || !s.Visible(owner, at) {
			return
		}
		seen := Sighting{Ref: ref, Owner: o, Hex: at, Ship: ship, Distance: nearest(at, own)}
		snap.Targets = append(snap.Targets, seen)
		if seen.Distance <= threatRadius {
			snap.Threats = append(snap.Threats, seen)
		}
	}
	for h, sh := range s.Store.Ships.All() {
		sight(entity.ShipRef(h), sh.Owner, sh.Hex, true)
	}
	for h, p := range s.Store.Ports.All() {
		sight(entity.PortRef(h), p.Owner, p.Hex, false)
	}
	for h, st := range s.Store.Settlements.All() {
		sight(entity.SettlementRef(h), st.Owner, st.Hex, false)
	}
	for h, t := range s.Store.Towers.All() {
		sight(entity.TowerRef(h), t.Owner, t.Hex, false)
	}
	return snap
}

// nearest returns the distance from c to the closest hex in set, or a
// large number for an empty set.
func nearest(c world.HexCoord, set []world.HexCoord) int {
	best := 1 << 30
	for _, h := range set {
		best = min(best, world.Distance(c, h))
	}
	return best
}

// IdleWarships returns the warships with no orders.
func (s *Snapshot) IdleWarships() []ShipInfo {
	var out []ShipInfo
	for _, sh := range s.Warships {
		if sh.Idle() {
			out = append(out, sh)
		}
	}
	return out
}

// PortByHandle finds an own port in the snapshot.
func (s *Snapshot) PortByHandle(h entity.Handle) (PortInfo, bool) {
	for _, p := range s.Ports {
		if p.Handle == h {
			return p, true
		}
	}
	return PortInfo{}, false
}
