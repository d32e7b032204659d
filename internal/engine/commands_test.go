package engine

import (
	"testing"

	"github.com/talgya/ironwake/internal/economy"
	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

func TestCommandsCheckOwnership(t *testing.T) {
	cfg := quietScenario()
	cfg.Versus = true
	s := newTestSim(t, cfg)
	homeH, _ := homePort(t, s, social.OwnerPlayer)
	aiPort, _ := homePort(t, s, social.OwnerAI1)
	ship, _ := s.spawnShip(entity.ShipCutter, social.OwnerPlayer, openWater(8))
	other, _ := s.spawnShip(entity.ShipCutter, social.OwnerPlayer, openWater(10))
	stale, _ := s.spawnShip(entity.ShipCutter, social.OwnerPlayer, openWater(12))
	s.Store.Remove(entity.ShipRef(stale))
	sp := *s.Store.Stockpile(social.OwnerAI1)

	tests := []struct {
		name string
		ok   func() bool
	}{
		{"move foreign ship", func() bool {
			return s.SetWaypoints(social.OwnerAI1, ship, []world.HexCoord{openWater(9)}, false)
		}},
		{"move stale ship", func() bool {
			return s.SetWaypoints(social.OwnerPlayer, stale, []world.HexCoord{openWater(9)}, false)
		}},
		{"move onto land", func() bool {
			return s.SetWaypoints(social.OwnerPlayer, ship, []world.HexCoord{world.OffsetToAxial(6, 9)}, false)
		}},
		{"attack own ship", func() bool {
			return s.Attack(social.OwnerPlayer, ship, entity.ShipRef(other))
		}},
		{"queue at foreign port", func() bool {
			return s.QueueShip(social.OwnerAI1, homeH, entity.ShipCutter)
		}},
		{"queue unbuildable type", func() bool {
			return s.QueueShip(social.OwnerAI1, aiPort, entity.ShipGalleon)
		}},
		{"upgrade foreign port", func() bool {
			return s.Upgrade(social.OwnerAI1, entity.PortRef(homeH))
		}},
		{"trade between same port", func() bool {
			return s.AssignTradeRoute(social.OwnerPlayer, ship, homeH, homeH)
		}},
		{"trade via foreign port", func() bool {
			return s.AssignTradeRoute(social.OwnerPlayer, ship, homeH, aiPort)
		}},
		{"return empty hold", func() bool {
			return s.ReturnCargo(social.OwnerPlayer, ship, homeH)
		}},
		{"repair full health", func() bool {
			return s.Repair(social.OwnerPlayer, entity.PortRef(homeH))
		}},
		{"build in the sea", func() bool {
			_, ok := s.BuildTower(social.OwnerAI1, openWater(3))
			return ok
		}},
		{"select foreign structure", func() bool {
			return s.SelectStructure(social.OwnerPlayer, entity.PortRef(aiPort))
		}},
		{"negative time scale", func() bool {
			return s.SetTimeScale(-1)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.ok() {
				t.Error("command accepted")
			}
		})
	}
	if got := *s.Store.Stockpile(social.OwnerAI1); got != sp {
		t.Errorf("declined commands touched the stockpile: %+v -> %+v", sp, got)
	}
}

func TestQueueLimitsAndCosts(t *testing.T) {
	s := newTestSim(t, quietScenario())
	ph, p := homePort(t, s, social.OwnerPlayer)
	sp := s.Store.Stockpile(social.OwnerPlayer)

	for i := range p.Stats().QueueMax {
		if !s.QueueShip(social.OwnerPlayer, ph, entity.ShipCutter) {
			t.Fatalf("queue %d declined", i)
		}
	}
	if s.QueueShip(social.OwnerPlayer, ph, entity.ShipCutter) {
		t.Error("queue accepted past its limit")
	}
	if sp.Wood != 80 || sp.Food != 60 || sp.CrewUsed != 2 {
		t.Errorf("stockpile = %+v", *sp)
	}

	*sp = economy.Stockpile{Wood: 5, CrewCap: 4}
	p.Queue = nil
	if s.QueueShip(social.OwnerPlayer, ph, entity.ShipCutter) {
		t.Error("queued without resources")
	}
	if sp.Wood != 5 {
		t.Errorf("declined queue spent wood: %d", sp.Wood)
	}
}

func TestWaypointsAppend(t *testing.T) {
	s := newTestSim(t, quietScenario())
	h, sh := s.spawnShip(entity.ShipCutter, social.OwnerPlayer, openWater(4))
	a, b := openWater(8), openWater(12)
	s.SetWaypoints(social.OwnerPlayer, h, []world.HexCoord{a}, false)
	s.Update(0.1)
	if !s.SetWaypoints(social.OwnerPlayer, h, []world.HexCoord{b}, true) {
		t.Fatal("append declined")
	}
	if goal, ok := heading(sh); !ok || goal != b {
		t.Errorf("final destination = %v, want %v", goal, b)
	}
	run(s, 0.1, 200)
	if sh.Hex != b {
		t.Errorf("ship at %v, want %v", sh.Hex, b)
	}
}

func TestSelection(t *testing.T) {
	s := newTestSim(t, quietScenario())
	a, _ := s.spawnShip(entity.ShipCutter, social.OwnerPlayer, openWater(4))
	b, _ := s.spawnShip(entity.ShipCutter, social.OwnerPlayer, openWater(6))
	pirate, _ := s.SpawnPirateAt(openWater(12))

	if !s.Select(social.OwnerPlayer, []entity.Handle{a, pirate}, false) {
		t.Fatal("Select declined")
	}
	s.Select(social.OwnerPlayer, []entity.Handle{b, a}, true)
	if got := s.Store.Selection.Ships; len(got) != 2 {
		t.Fatalf("selection = %v, want two own ships", got)
	}

	s.destroy(entity.ShipRef(a), social.OwnerPirate)
	if got := s.Store.Selection.Ships; len(got) != 1 || got[0] != b {
		t.Errorf("selection after loss = %v", got)
	}

	s.SetBuildMode(entity.BuildTower)
	s.SetPatrolMode(true)
	if s.Store.BuildMode != entity.BuildNone || !s.Store.PatrolMode {
		t.Errorf("patrol mode did not replace build mode")
	}
	s.ClearSelection()
	if len(s.Store.Selection.Ships) != 0 || s.Store.PatrolMode {
		t.Error("ClearSelection left state behind")
	}
}

func TestPatrolEngagesHostile(t *testing.T) {
	s := newTestSim(t, quietScenario())
	h, sh := s.spawnShip(entity.ShipCutter, social.OwnerPlayer, openWater(4))
	points := []world.HexCoord{openWater(4), openWater(8)}
	if !s.Patrol(social.OwnerPlayer, h, points) {
		t.Fatal("Patrol declined")
	}
	ph, pirate := s.SpawnPirateAt(openWater(7))
	pirate.Brain.ThinkTimer = 1e9

	s.Update(0.1)
	if sh.Orders.Target != entity.ShipRef(ph) {
		t.Fatalf("patrol target = %v, want %v", sh.Orders.Target, ph)
	}
	run(s, 0.1, 40)
	if s.Stats.ShotsFired == 0 {
		t.Error("patrolling cutter never fired")
	}
	if sh.Orders.Mode != entity.ModePatrol {
		t.Errorf("mode = %s, want patrol kept", sh.Orders.Mode)
	}
}
