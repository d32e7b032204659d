package entity

import (
	"github.com/talgya/ironwake/internal/economy"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

// Hull is the damageable part shared by every entity.
type Hull struct {
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"max_health"`
	HitFlash  float64 `json:"hit_flash"` // Seconds of hit highlight remaining
	Repair    *Repair `json:"repair,omitempty"`
}

// Condition exposes the hull through the Entity interface.
func (h *Hull) Condition() *Hull {
	return h
}

// Damage subtracts d, clamping at zero, and returns the new health.
func (h *Hull) Damage(d float64) float64 {
	if d < 0 {
		d = 0
	}
	h.Health = max(0, h.Health-d)
	return h.Health
}

// Dead reports whether health reached zero.
func (h *Hull) Dead() bool {
	return h.Health <= 0
}

// Missing returns the health below maximum.
func (h *Hull) Missing() float64 {
	return max(0, h.MaxHealth-h.Health)
}

// Fraction returns health as a share of maximum.
func (h *Hull) Fraction() float64 {
	if h.MaxHealth <= 0 {
		return 0
	}
	return h.Health / h.MaxHealth
}

// Repair restores health over a fixed duration.
type Repair struct {
	Elapsed  float64      `json:"elapsed"`
	Duration float64      `json:"duration"`
	Rate     float64      `json:"rate"` // Health per second
	Cost     economy.Cost `json:"cost"`
}

// Construction tracks an unfinished build or an in-flight upgrade.
type Construction struct {
	Progress    float64      `json:"progress"`
	BuildTime   float64      `json:"build_time"`
	Upgrade     bool         `json:"upgrade"`
	UpgradeTier int          `json:"upgrade_tier,omitempty"`
	Cost        economy.Cost `json:"cost"`
}

// Remaining returns seconds left until completion.
func (c *Construction) Remaining() float64 {
	return max(0, c.BuildTime-c.Progress)
}

// Entity is implemented by every pooled entity that can be targeted.
type Entity interface {
	Coord() world.HexCoord
	Faction() social.Owner
	Condition() *Hull
}

// BuildItem is a queued ship build. Its cost is paid at enqueue time.
type BuildItem struct {
	Ship      ShipType     `json:"ship"`
	Progress  float64      `json:"progress"`
	BuildTime float64      `json:"build_time"`
	Cost      economy.Cost `json:"cost"`
}

// Port is a harbor structure on a coastal land hex. Ships dock at DockHex,
// one at a time.
type Port struct {
	Hull
	Hex          world.HexCoord `json:"hex"`
	DockHex      world.HexCoord `json:"dock_hex"`
	Tier         PortTier       `json:"tier"`
	Owner        social.Owner   `json:"owner"`
	IsHome       bool           `json:"is_home"`
	Construction *Construction  `json:"construction,omitempty"`
	Queue        []BuildItem    `json:"queue"`
	Storage      economy.Cargo  `json:"storage"` // Non-home ports only
	Docked       Handle         `json:"docked"`  // Ship holding the berth
	ProduceTimer float64        `json:"produce_timer"`
}

func (p *Port) Coord() world.HexCoord { return p.Hex }
func (p *Port) Faction() social.Owner { return p.Owner }

// Operational reports whether the port is finished. Ports mid-upgrade
// keep working at their current tier.
func (p *Port) Operational() bool {
	return p.Construction == nil || p.Construction.Upgrade
}

// Stats returns the stats of the current tier.
func (p *Port) Stats() PortStats {
	return PortStatsFor(p.Tier)
}

// QueueFull reports whether another ship can be queued.
func (p *Port) QueueFull() bool {
	return len(p.Queue) >= p.Stats().QueueMax
}

// Settlement is a producing land structure attached to a port.
type Settlement struct {
	Hull
	Hex          world.HexCoord `json:"hex"`
	Tier         SettlementTier `json:"tier"`
	Owner        social.Owner   `json:"owner"`
	Construction *Construction  `json:"construction,omitempty"`
	Port         Handle         `json:"port"` // Attached port receiving production
	ProduceTimer float64        `json:"produce_timer"`
}

func (s *Settlement) Coord() world.HexCoord { return s.Hex }
func (s *Settlement) Faction() social.Owner { return s.Owner }

// Operational reports whether the settlement produces.
func (s *Settlement) Operational() bool {
	return s.Construction == nil || s.Construction.Upgrade
}

// Stats returns the stats of the current tier.
func (s *Settlement) Stats() SettlementStats {
	return SettlementStatsFor(s.Tier)
}

// Tower is a defensive structure that fires on hostiles in range.
type Tower struct {
	Hull
	Hex          world.HexCoord `json:"hex"`
	Tier         TowerTier      `json:"tier"`
	Owner        social.Owner   `json:"owner"`
	Construction *Construction  `json:"construction,omitempty"`
	Cooldown     float64        `json:"cooldown"` // Seconds until the next shot
	Target       Ref            `json:"target"`
}

func (t *Tower) Coord() world.HexCoord { return t.Hex }
func (t *Tower) Faction() social.Owner { return t.Owner }

// Operational reports whether the tower can fire.
func (t *Tower) Operational() bool {
	return t.Construction == nil || t.Construction.Upgrade
}

// Stats returns the stats of the current tier.
func (t *Tower) Stats() TowerStats {
	return TowerStatsFor(t.Tier)
}
