package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/talgya/ironwake/internal/config"
	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/fog"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

func TestNewSimulationGeneratedMap(t *testing.T) {
	tests := []struct {
		name   string
		versus bool
		homes  int
	}{
		{"single player", false, 1},
		{"versus", true, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Seed = 42
			cfg.Versus = tt.versus
			s, err := NewSimulation(cfg)
			if err != nil {
				t.Fatalf("NewSimulation: %v", err)
			}
			homes := 0
			for _, p := range s.Store.Ports.All() {
				if p.IsHome {
					homes++
					if !s.Map.IsWater(p.DockHex) {
						t.Errorf("%s dock %v is not water", p.Owner, p.DockHex)
					}
				}
			}
			if homes != tt.homes {
				t.Errorf("home ports = %d, want %d", homes, tt.homes)
			}
			if got := s.Store.CountOwned(social.OwnerPlayer).Ships; got != 2 {
				t.Errorf("player ships = %d, want 2", got)
			}
			if s.FogFor(social.OwnerPlayer) == nil {
				t.Error("player has no fog grid")
			}
			if s.FogFor(social.OwnerAI1) != nil {
				t.Error("AI has fog without AIUseFog")
			}
			sp := s.Store.Stockpile(social.OwnerPlayer)
			if sp.Wood != cfg.Start.Wood || sp.CrewUsed != 2 || sp.CrewCap != 4 {
				t.Errorf("stockpile = %+v", *sp)
			}
		})
	}
}

func TestNewSimulationRejectsBadScenario(t *testing.T) {
	cfg := config.Default()
	cfg.Combat.HitChance = 2
	if _, err := NewSimulation(cfg); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestAIStrategyOverride(t *testing.T) {
	cfg := quietScenario()
	cfg.Versus = true
	cfg.AI.Strategies = []string{"turtle", ""}
	s := newTestSim(t, cfg)
	if got := s.Faction(social.OwnerAI1).Strategy; got != "turtle" {
		t.Errorf("AI1 strategy = %q", got)
	}
	if got := s.Faction(social.OwnerAI2).Strategy; !config.KnownStrategy(got) {
		t.Errorf("AI2 strategy = %q", got)
	}
}

// A ship with a three-hex path at 60 px/s ends exactly on the last hex
// after length/60 seconds.
func TestMovementThreeHexPath(t *testing.T) {
	s := newTestSim(t, quietScenario())
	start := openWater(8)
	h, sh := s.spawnShip(entity.ShipSchooner, social.OwnerPlayer, start)
	sh.SetOrders(entity.MoveOrders())
	sh.Path = []world.HexCoord{
		start.Add(world.HexCoord{Q: 1}),
		start.Add(world.HexCoord{Q: 2}),
		start.Add(world.HexCoord{Q: 3}),
	}
	final := s.hexPixel(sh.Path[2])

	length := 0.0
	prev := sh.Pos
	for _, c := range sh.Path {
		p := s.hexPixel(c)
		length += p.Sub(prev).Len()
		prev = p
	}
	const dt = 0.1
	ticks := int(math.Ceil(length / sh.Stats().Speed / dt))

	run(s, dt, ticks-1)
	if len(sh.Path) == 0 {
		t.Fatalf("arrived early after %d ticks", ticks-1)
	}
	run(s, dt, 1)
	sh = s.Store.Ships.Get(h)
	if len(sh.Path) != 0 {
		t.Fatalf("path not empty after %d ticks: %v", ticks, sh.Path)
	}
	if sh.Pos.Sub(final).Len() > 1e-6 {
		t.Errorf("pos = %+v, want %+v", sh.Pos, final)
	}
	if sh.Hex != start.Add(world.HexCoord{Q: 3}) {
		t.Errorf("hex = %v", sh.Hex)
	}
	if sh.Orders.Mode != entity.ModeIdle {
		t.Errorf("mode = %s after arrival", sh.Orders.Mode)
	}
}

func TestWaypointsPlanAroundIsland(t *testing.T) {
	s := newTestSim(t, quietScenario())
	_, home := homePort(t, s, social.OwnerPlayer)
	center := home.Hex.Add(world.HexCoord{Q: -1})
	from := center.Add(world.HexCoord{Q: -3})
	to := center.Add(world.HexCoord{Q: 3})

	h, _ := s.spawnShip(entity.ShipCutter, social.OwnerPlayer, from)
	if !s.SetWaypoints(social.OwnerPlayer, h, []world.HexCoord{to}, false) {
		t.Fatal("SetWaypoints declined")
	}
	run(s, 0.1, 200)
	sh := s.Store.Ships.Get(h)
	if sh.Hex != to {
		t.Fatalf("ship at %v, want %v", sh.Hex, to)
	}
	if sh.Orders.Mode != entity.ModeIdle {
		t.Errorf("mode = %s", sh.Orders.Mode)
	}
}

func TestWaypointOntoStationaryShipStopsBeside(t *testing.T) {
	s := newTestSim(t, quietScenario())
	start := openWater(4)
	goal := openWater(8)
	s.spawnShip(entity.ShipSchooner, social.OwnerPlayer, goal)
	h, _ := s.spawnShip(entity.ShipSchooner, social.OwnerPlayer, start)
	s.SetWaypoints(social.OwnerPlayer, h, []world.HexCoord{goal}, false)

	run(s, 0.1, 200)
	sh := s.Store.Ships.Get(h)
	if sh.Moving() {
		t.Fatal("ship still moving")
	}
	if d := world.Distance(sh.Hex, goal); d != 1 {
		t.Errorf("stopped %d hexes from the occupied goal", d)
	}
}

func TestUpdateTimeScaleZeroPauses(t *testing.T) {
	cfg := quietScenario()
	cfg.TimeScale = 0
	s := newTestSim(t, cfg)
	ph, _ := homePort(t, s, social.OwnerPlayer)
	if !s.QueueShip(social.OwnerPlayer, ph, entity.ShipCutter) {
		t.Fatal("QueueShip declined")
	}
	run(s, 0.1, 50)
	p := s.Store.Ports.Get(ph)
	if s.Time != 0 || p.Queue[0].Progress != 0 {
		t.Errorf("paused match advanced: time=%v progress=%v", s.Time, p.Queue[0].Progress)
	}
	if s.RealTime < 4.9 {
		t.Errorf("real time = %v", s.RealTime)
	}
	if !s.FogFor(social.OwnerPlayer).IsVisible(p.Hex) {
		t.Error("fog did not settle while paused")
	}
}

func TestEventsTrimmed(t *testing.T) {
	s := newTestSim(t, quietScenario())
	for i := 0; i < MaxEvents+50; i++ {
		s.logEvent("test", "event %d", i)
	}
	s.Update(0.05)
	if len(s.Events) != MaxEvents {
		t.Errorf("events = %d, want %d", len(s.Events), MaxEvents)
	}
}

func TestFogFollowsShips(t *testing.T) {
	s := newTestSim(t, quietScenario())
	far := openWater(20)
	g := s.FogFor(social.OwnerPlayer)
	s.Update(0.1)
	if g.At(far) != fog.Unseen {
		t.Fatalf("far hex state = %s before any ship", g.At(far))
	}
	h, _ := s.spawnShip(entity.ShipCutter, social.OwnerPlayer, far)
	s.Update(0.2)
	if !g.IsVisible(far) {
		t.Fatal("ship hex not visible")
	}
	s.Store.Remove(entity.ShipRef(h))
	s.markFogDirty(social.OwnerPlayer)
	s.Update(0.2)
	if g.IsVisible(far) || !g.IsExplored(far) {
		t.Errorf("after ship left: state = %s, want explored", g.At(far))
	}
}
