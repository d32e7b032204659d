package engine

import (
	"testing"

	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

func TestRespawnRespectsCapAndDistance(t *testing.T) {
	cfg := quietScenario()
	cfg.Pirates.InitialDelay = 0
	cfg.Pirates.RespawnDelay = 5
	cfg.Pirates.MaxPirates = 2
	s := newTestSim(t, cfg)
	_, home := homePort(t, s, social.OwnerPlayer)

	s.Update(0.1)
	if got := s.pirateCount(); got != 1 {
		t.Fatalf("pirates after first tick = %d, want 1", got)
	}
	for _, sh := range s.Store.Ships.All() {
		if d := world.Distance(sh.Hex, home.Hex); d < cfg.Pirates.MinSpawnDistance {
			t.Errorf("pirate spawned %d hexes from a structure", d)
		}
		if s.Map.Get(sh.Hex).Terrain != world.TerrainDeep {
			t.Errorf("pirate spawned on %v", s.Map.Get(sh.Hex).Terrain)
		}
	}

	run(s, 0.1, 20)
	if got := s.pirateCount(); got != 1 {
		t.Errorf("pirates before the respawn delay = %d", got)
	}
	run(s, 0.1, 200)
	if got := s.pirateCount(); got != 2 {
		t.Errorf("pirates = %d, want the cap of 2", got)
	}
	if s.Stats.PiratesSpawned != 2 {
		t.Errorf("spawned = %d", s.Stats.PiratesSpawned)
	}
}

func TestPirateWavesGrow(t *testing.T) {
	cfg := quietScenario()
	cfg.Pirates.InitialDelay = 0
	cfg.Pirates.MaxPirates = 0
	cfg.Pirates.WaveInterval = 10
	cfg.Pirates.WaveSize = 2
	cfg.Pirates.WaveGrowth = 1
	s := newTestSim(t, cfg)

	run(s, 0.1, 95)
	if s.Stats.Waves != 0 {
		t.Fatalf("wave arrived early at %.1fs", s.Time)
	}
	run(s, 0.1, 10)
	if s.Stats.Waves != 1 || s.pirateCount() != 2 {
		t.Fatalf("after first wave: waves=%d pirates=%d", s.Stats.Waves, s.pirateCount())
	}
	run(s, 0.1, 100)
	if s.Stats.Waves != 2 || s.pirateCount() != 5 {
		t.Errorf("after second wave: waves=%d pirates=%d, want 2 and 5", s.Stats.Waves, s.pirateCount())
	}
}

func TestPiratesWaitForInitialDelay(t *testing.T) {
	cfg := quietScenario()
	cfg.Pirates.InitialDelay = 3
	s := newTestSim(t, cfg)
	run(s, 0.1, 25)
	if s.pirateCount() != 0 {
		t.Fatal("pirates before the initial delay")
	}
	run(s, 0.1, 10)
	if s.pirateCount() != 1 {
		t.Errorf("pirates = %d after the initial delay", s.pirateCount())
	}
}
