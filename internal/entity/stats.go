package entity

import "github.com/talgya/ironwake/internal/economy"

// ShipType selects a ship's stat block.
type ShipType uint8

const (
	ShipCutter     ShipType = iota // Fast light escort
	ShipSchooner                   // Unarmed trader
	ShipBrigantine                 // Line warship
	ShipGalleon                    // Heavy hauler and gun platform
	ShipPirate                     // Pirate raider, never buildable
)

// ShipStats are the fixed attributes of a ship type.
type ShipStats struct {
	Name        string
	Speed       float64 // Pixels per second
	Health      float64
	Cargo       int
	Damage      float64 // Zero for unarmed ships
	AttackRange int     // Hexes
	Cooldown    float64 // Seconds between shots
	Vision      int     // Hexes
	Cost        economy.Cost
	BuildTime   float64 // Seconds
}

// Armed reports whether the ship can fire.
func (s ShipStats) Armed() bool {
	return s.Damage > 0
}

var shipStats = map[ShipType]ShipStats{
	ShipCutter: {
		Name: "cutter", Speed: 70, Health: 60, Cargo: 20,
		Damage: 8, AttackRange: 2, Cooldown: 2.0, Vision: 3,
		Cost: economy.Cost{Wood: 20, Food: 10, Crew: 1}, BuildTime: 10,
	},
	ShipSchooner: {
		Name: "schooner", Speed: 60, Health: 80, Cargo: 60,
		Vision: 3,
		Cost:   economy.Cost{Wood: 30, Food: 20, Crew: 1}, BuildTime: 12,
	},
	ShipBrigantine: {
		Name: "brigantine", Speed: 55, Health: 140, Cargo: 30,
		Damage: 14, AttackRange: 3, Cooldown: 2.5, Vision: 4,
		Cost: economy.Cost{Wood: 50, Food: 30, Crew: 2}, BuildTime: 20,
	},
	ShipGalleon: {
		Name: "galleon", Speed: 40, Health: 260, Cargo: 80,
		Damage: 22, AttackRange: 3, Cooldown: 3.0, Vision: 4,
		Cost: economy.Cost{Wood: 90, Food: 60, Crew: 3}, BuildTime: 35,
	},
	ShipPirate: {
		Name: "pirate", Speed: 55, Health: 100, Cargo: 20,
		Damage: 10, AttackRange: 2, Cooldown: 2.2, Vision: 4,
	},
}

// StatsFor returns the stat block for a ship type.
func StatsFor(t ShipType) ShipStats {
	return shipStats[t]
}

func (t ShipType) String() string {
	if s, ok := shipStats[t]; ok {
		return s.Name
	}
	return "unknown"
}

// PortTier is a port's development level.
type PortTier uint8

const (
	TierDock PortTier = iota
	TierHarbor
	TierShipyard
)

// PortStats are the attributes of a port tier.
type PortStats struct {
	Name      string
	Health    float64
	Vision    int
	QueueMax  int
	Buildable []ShipType
	Crew      int // Crew capacity granted while operational
	Food      int // Food produced per production interval
	Cost      economy.Cost
	BuildTime float64
}

var portStats = map[PortTier]PortStats{
	TierDock: {
		Name: "dock", Health: 300, Vision: 4, QueueMax: 2,
		Buildable: []ShipType{ShipCutter, ShipSchooner},
		Crew:      4,
		Cost:      economy.Cost{Wood: 40}, BuildTime: 20,
	},
	TierHarbor: {
		Name: "harbor", Health: 450, Vision: 5, QueueMax: 3,
		Buildable: []ShipType{ShipCutter, ShipSchooner, ShipBrigantine},
		Crew:      6, Food: 2,
		Cost:      economy.Cost{Wood: 80, Food: 40}, BuildTime: 30,
	},
	TierShipyard: {
		Name: "shipyard", Health: 600, Vision: 5, QueueMax: 5,
		Buildable: []ShipType{ShipCutter, ShipSchooner, ShipBrigantine, ShipGalleon},
		Crew:      8, Food: 3,
		Cost:      economy.Cost{Wood: 150, Food: 80}, BuildTime: 45,
	},
}

// PortStatsFor returns the stat block for a port tier.
func PortStatsFor(t PortTier) PortStats {
	return portStats[t]
}

// NextTier returns the upgrade target of a tier.
func (t PortTier) NextTier() (PortTier, bool) {
	if t >= TierShipyard {
		return t, false
	}
	return t + 1, true
}

func (t PortTier) String() string {
	return portStats[t].Name
}

// CanBuild reports whether a port tier offers a ship type.
func (t PortTier) CanBuild(st ShipType) bool {
	for _, b := range portStats[t].Buildable {
		if b == st {
			return true
		}
	}
	return false
}

// SettlementTier is a settlement's size.
type SettlementTier uint8

const (
	TierVillage SettlementTier = iota
	TierTown
)

// SettlementStats are the attributes of a settlement tier.
type SettlementStats struct {
	Name      string
	Health    float64
	Vision    int
	Crew      int
	Wood      int // Produced per interval
	Food      int
	Cost      economy.Cost
	BuildTime float64
}

var settlementStats = map[SettlementTier]SettlementStats{
	TierVillage: {
		Name: "village", Health: 150, Vision: 3, Crew: 3, Wood: 5, Food: 5,
		Cost: economy.Cost{Wood: 30}, BuildTime: 15,
	},
	TierTown: {
		Name: "town", Health: 250, Vision: 4, Crew: 6, Wood: 8, Food: 8,
		Cost: economy.Cost{Wood: 70, Food: 40}, BuildTime: 25,
	},
}

// SettlementStatsFor returns the stat block for a settlement tier.
func SettlementStatsFor(t SettlementTier) SettlementStats {
	return settlementStats[t]
}

func (t SettlementTier) String() string {
	return settlementStats[t].Name
}

// TowerTier is a tower's fortification level.
type TowerTier uint8

const (
	TierWatchtower TowerTier = iota
	TierFortress
)

// TowerStats are the attributes of a tower tier.
type TowerStats struct {
	Name        string
	Health      float64
	Vision      int
	Damage      float64
	AttackRange int
	Cooldown    float64
	Cost        economy.Cost
	BuildTime   float64
}

var towerStats = map[TowerTier]TowerStats{
	TierWatchtower: {
		Name: "watchtower", Health: 200, Vision: 5,
		Damage: 12, AttackRange: 3, Cooldown: 2.0,
		Cost: economy.Cost{Wood: 40, Food: 10}, BuildTime: 15,
	},
	TierFortress: {
		Name: "fortress", Health: 400, Vision: 6,
		Damage: 20, AttackRange: 4, Cooldown: 2.5,
		Cost: economy.Cost{Wood: 90, Food: 30}, BuildTime: 30,
	},
}

// TowerStatsFor returns the stat block for a tower tier.
func TowerStatsFor(t TowerTier) TowerStats {
	return towerStats[t]
}

func (t TowerTier) String() string {
	return towerStats[t].Name
}
