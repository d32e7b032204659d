// Faction start setup: home ports, starting fleets, stockpiles and fog.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/ironwake/internal/config"
	"github.com/talgya/ironwake/internal/economy"
	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/fog"
	"github.com/talgya/ironwake/internal/nav"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

// initFactions places each slotted faction at its start position.
func (s *Simulation) initFactions() error {
	strategies := s.Config.AI.Strategies
	aiIndex := 0
	for _, f := range s.Factions {
		if f.Kind == social.KindAI {
			if aiIndex < len(strategies) && strategies[aiIndex] != "" {
				f.Strategy = strategies[aiIndex]
			} else {
				rng := s.Rand.Stream("strategy")
				f.Strategy = config.Strategies[rng.Intn(len(config.Strategies))]
			}
			aiIndex++
		}
		if f.Slot < 0 {
			continue
		}
		start, ok := s.Map.StartFor(f.Slot)
		if !ok {
			return fmt.Errorf("no start position for %s (slot %d)", f.Owner, f.Slot)
		}
		s.placeStart(f, start)

		if f.Owner == social.OwnerPlayer || s.Config.Fog.AIUseFog {
			s.Fog[f.Owner] = fog.NewGrid(s.Map, s.Config.Fog.RecalcPerSecond)
		}
	}
	return nil
}

func (s *Simulation) placeStart(f *social.Faction, start world.StartPosition) {
	stats := entity.PortStatsFor(entity.TierDock)
	ph, _ := s.Store.AddPort(entity.Port{
		Hull:    entity.Hull{Health: stats.Health, MaxHealth: stats.Health},
		Hex:     start.Home,
		DockHex: start.Dock,
		Tier:    entity.TierDock,
		Owner:   f.Owner,
		IsHome:  true,
	})

	sp := s.Store.Stockpile(f.Owner)
	*sp = economy.Stockpile{Wood: s.Config.Start.Wood, Food: s.Config.Start.Food}

	var fleet []entity.ShipType
	for i := 0; i < s.Config.Start.Cutters; i++ {
		fleet = append(fleet, entity.ShipCutter)
	}
	for i := 0; i < s.Config.Start.Schooners; i++ {
		fleet = append(fleet, entity.ShipSchooner)
	}
	for _, t := range fleet {
		hex, ok := s.freeWaterNear(start.Dock, 6)
		if !ok {
			slog.Warn("no water for starting ship", "faction", f.Owner, "type", t)
			continue
		}
		s.spawnShip(t, f.Owner, hex)
	}

	slog.Info("faction placed",
		"faction", f.Owner,
		"name", f.Name,
		"home", start.Home,
		"island", start.Island,
		"port", ph,
		"ships", len(fleet),
		"strategy", f.Strategy,
	)
}

// spawnShip creates a ship at full health on a water hex.
func (s *Simulation) spawnShip(t entity.ShipType, owner social.Owner, hex world.HexCoord) (entity.Handle, *entity.Ship) {
	stats := entity.StatsFor(t)
	h, sh := s.Store.AddShip(entity.Ship{
		Hull:   entity.Hull{Health: stats.Health, MaxHealth: stats.Health},
		Type:   t,
		Owner:  owner,
		Hex:    hex,
		Pos:    s.hexPixel(hex),
		Orders: entity.IdleOrders(),
	})
	s.markFogDirty(owner)
	return h, sh
}

// freeWaterNear finds the nearest ocean hex to c with no stationary ship.
func (s *Simulation) freeWaterNear(c world.HexCoord, radius int) (world.HexCoord, bool) {
	return nav.Nearest(c, radius, func(h world.HexCoord) bool {
		if !s.Map.IsOcean(h) {
			return false
		}
		_, _, taken := s.Store.ShipAt(h, entity.Handle{})
		return !taken
	})
}
