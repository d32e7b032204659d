// Pirate population: steady respawns up to a cap plus periodic waves.
package engine

import (
	"log/slog"

	"github.com/talgya/ironwake/internal/economy"
	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

// plunder is the cargo a pirate carries from spawn, dropped as loot on death.
var plunder = economy.Cargo{Wood: 10, Food: 5}

type respawnState struct {
	elapsed   float64 // Scaled seconds since match start
	cooldown  float64 // Until the next steady respawn
	waveTimer float64 // Until the next wave
	started   bool
}

// updateRespawn keeps the pirate population topped up and launches waves.
func (s *Simulation) updateRespawn(dt float64) {
	if dt <= 0 {
		return
	}
	cfg := s.Config.Pirates
	r := &s.respawn
	r.elapsed += dt
	if r.elapsed < cfg.InitialDelay {
		return
	}
	if !r.started {
		r.started = true
		r.waveTimer = cfg.WaveInterval
		slog.Info("pirates active", "time", s.Time, "max", cfg.MaxPirates)
	}

	r.cooldown -= dt
	if r.cooldown <= 0 && s.pirateCount() < cfg.MaxPirates {
		if s.SpawnPirate() {
			r.cooldown = cfg.RespawnDelay
		}
	}

	if cfg.WaveInterval <= 0 {
		return
	}
	r.waveTimer -= dt
	if r.waveTimer > 0 {
		return
	}
	r.waveTimer += cfg.WaveInterval
	size := cfg.WaveSize + s.Stats.Waves*cfg.WaveGrowth
	spawned := 0
	for range size {
		if s.SpawnPirate() {
			spawned++
		}
	}
	s.Stats.Waves++
	s.logEvent("pirate", "Pirate wave %d: %d raiders sighted", s.Stats.Waves, spawned)
	slog.Info("pirate wave", "wave", s.Stats.Waves, "size", size, "spawned", spawned)
}

func (s *Simulation) pirateCount() int {
	n := 0
	for _, sh := range s.Store.Ships.All() {
		if sh.Owner == social.OwnerPirate {
			n++
		}
	}
	return n
}

// SpawnPirate places one pirate at a random valid spawn site.
func (s *Simulation) SpawnPirate() bool {
	sites := s.spawnSites()
	if len(sites) == 0 {
		slog.Debug("no pirate spawn site")
		return false
	}
	hex := sites[s.Rand.Stream("respawn").Intn(len(sites))]
	s.SpawnPirateAt(hex)
	return true
}

// SpawnPirateAt places a pirate on a specific water hex.
func (s *Simulation) SpawnPirateAt(hex world.HexCoord) (entity.Handle, *entity.Ship) {
	h, sh := s.spawnShip(entity.ShipPirate, social.OwnerPirate, hex)
	sh.Cargo = plunder
	sh.Brain = newPirateBrain(s.patrolCenter())
	s.Stats.PiratesSpawned++
	s.logEvent("pirate", "Pirate sloop spotted near %v", hex)
	return h, sh
}

// spawnSites lists deep ocean hexes far enough from every non-pirate
// structure and free of ships.
func (s *Simulation) spawnSites() []world.HexCoord {
	minDist := s.Config.Pirates.MinSpawnDistance
	var structures []world.HexCoord
	for _, p := range s.Store.Ports.All() {
		structures = append(structures, p.Hex)
	}
	for _, st := range s.Store.Settlements.All() {
		structures = append(structures, st.Hex)
	}
	for _, t := range s.Store.Towers.All() {
		structures = append(structures, t.Hex)
	}

	var sites []world.HexCoord
	for _, c := range s.Map.Coords {
		t := s.Map.Get(c)
		if t.Terrain != world.TerrainDeep || !t.Ocean {
			continue
		}
		far := true
		for _, st := range structures {
			if world.Distance(c, st) < minDist {
				far = false
				break
			}
		}
		if !far {
			continue
		}
		if _, _, taken := s.Store.ShipAt(c, entity.Handle{}); taken {
			continue
		}
		sites = append(sites, c)
	}
	return sites
}
