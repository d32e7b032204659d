package engine

import (
	"testing"

	"github.com/talgya/ironwake/internal/config"
	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/entropy"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

// quietScenario is a scenario with no starting fleet and no pirates
// unless a test spawns them.
func quietScenario() *config.Scenario {
	cfg := config.Default()
	cfg.Seed = 7
	cfg.Start.Cutters = 0
	cfg.Start.Schooners = 0
	cfg.Pirates.InitialDelay = 1e9
	cfg.Pirates.WaveInterval = 0
	cfg.Economy.HomeWood = 0
	return cfg
}

// islandCenters are offset positions for up to three hand-made islands
// on a 24x18 map.
var islandCenters = [][2]int{{6, 9}, {17, 4}, {17, 14}}

// handMadeMap builds an open sea with n disk islands of radius 1. Each
// island's eastern tile is the home port site for slot i.
func handMadeMap(t *testing.T, n int) *world.Map {
	t.Helper()
	m := world.NewMap(24, 18)
	var centers []world.HexCoord
	for i := 0; i < n; i++ {
		c := world.OffsetToAxial(islandCenters[i][0], islandCenters[i][1])
		centers = append(centers, c)
		for _, h := range world.Spiral(c, 1) {
			m.Get(h).Terrain = world.TerrainLand
		}
	}
	m.Rebuild(4)
	for slot, c := range centers {
		home := c.Add(world.HexCoord{Q: 1})
		dock, ok := m.DockHex(home)
		if !ok {
			t.Fatalf("no dock for island %d", slot)
		}
		m.Starts = append(m.Starts, world.StartPosition{
			Home:     home,
			Dock:     dock,
			Island:   m.IslandAt(home),
			Assigned: slot,
		})
	}
	return m
}

func newTestSim(t *testing.T, cfg *config.Scenario) *Simulation {
	t.Helper()
	n := 1
	if cfg.Versus {
		n = 3
	}
	s, err := NewSimulationWithMap(cfg, handMadeMap(t, n), entropy.New(cfg.Seed))
	if err != nil {
		t.Fatalf("NewSimulationWithMap: %v", err)
	}
	return s
}

func homePort(t *testing.T, s *Simulation, o social.Owner) (entity.Handle, *entity.Port) {
	t.Helper()
	h, p, ok := s.Store.HomePort(o)
	if !ok {
		t.Fatalf("%s has no home port", o)
	}
	return h, p
}

// openWater returns an ocean hex in row 1, clear of every island.
func openWater(col int) world.HexCoord {
	return world.OffsetToAxial(col, 1)
}

func run(s *Simulation, dt float64, steps int) {
	for i := 0; i < steps; i++ {
		s.Update(dt)
	}
}
