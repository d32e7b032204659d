package ai

import (
	"slices"
	"testing"

	"github.com/talgya/ironwake/internal/config"
	"github.com/talgya/ironwake/internal/economy"
	"github.com/talgya/ironwake/internal/engine"
	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

func versusSim(t *testing.T, fogged bool) *engine.Simulation {
	t.Helper()
	return versusSimWith(t, func(cfg *config.Scenario) { cfg.Fog.AIUseFog = fogged })
}

// versusSimWith builds a pirate-free versus match on seed 42 after mutate
// adjusts the scenario.
func versusSimWith(t *testing.T, mutate func(*config.Scenario)) *engine.Simulation {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 42
	cfg.Versus = true
	cfg.Pirates.InitialDelay = 1e9
	cfg.Pirates.WaveInterval = 0
	mutate(cfg)
	s, err := engine.NewSimulation(cfg)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	return s
}

func TestStrategiesCoverConfig(t *testing.T) {
	for _, name := range config.Strategies {
		if got := StrategyFor(name); got.Name != name {
			t.Errorf("StrategyFor(%q) = %q", name, got.Name)
		}
	}
	if got := StrategyFor("reckless"); got.Name != "balanced" {
		t.Errorf("unknown strategy fell back to %q", got.Name)
	}
}

func TestObserve(t *testing.T) {
	s := versusSim(t, true)
	snap := Observe(s, social.OwnerAI1)
	if !snap.HasHome || !snap.Home.Home || len(snap.Ports) != 1 {
		t.Fatalf("home = %+v, ports = %d", snap.Home, len(snap.Ports))
	}
	if len(snap.Warships) != 1 || len(snap.Traders) != 1 {
		t.Errorf("warships %d traders %d, want 1 and 1", len(snap.Warships), len(snap.Traders))
	}
	if snap.Stock.Wood != s.Config.Start.Wood {
		t.Errorf("stock = %+v", snap.Stock)
	}
	for _, seen := range snap.Targets {
		if !s.Visible(social.OwnerAI1, seen.Hex) {
			t.Errorf("sighting of %s at %v through fog", seen.Owner, seen.Hex)
		}
		if seen.Owner == social.OwnerAI1 {
			t.Errorf("own entity listed as a target: %v", seen.Ref)
		}
	}
}

func TestObserveWithoutFogSeesRivals(t *testing.T) {
	s := versusSim(t, false)
	snap := Observe(s, social.OwnerAI1)
	rivals := map[social.Owner]bool{}
	for _, seen := range snap.Targets {
		if seen.Ref.Kind == entity.KindPort {
			rivals[seen.Owner] = true
		}
	}
	if !rivals[social.OwnerPlayer] || !rivals[social.OwnerAI2] {
		t.Errorf("rival ports seen = %v", rivals)
	}
}

func TestTriage(t *testing.T) {
	strat := StrategyFor("balanced")
	ship := ShipInfo{Type: entity.ShipCutter, Health: 1}
	threat := Sighting{Distance: 3, Ship: true}
	tests := []struct {
		name    string
		army    int
		threats int
		want    string
	}{
		{"no army", 0, 0, LevelWatch},
		{"ready", strat.ArmyThreshold, 0, LevelHealthy},
		{"raid held off", 2, 1, LevelWarning},
		{"outnumbered", 1, 3, LevelCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &Snapshot{}
			for range tt.army {
				snap.Warships = append(snap.Warships, ship)
			}
			for range tt.threats {
				snap.Threats = append(snap.Threats, threat)
			}
			h := Triage(snap, strat)
			if h.Level != tt.want {
				t.Errorf("level = %s, want %s", h.Level, tt.want)
			}
			if h.ArmyWanted != strat.ArmyThreshold+tt.threats {
				t.Errorf("army wanted = %d", h.ArmyWanted)
			}
		})
	}
}

// baseSnapshot is a fresh faction with a dock, 120 wood and 80 food.
func baseSnapshot() *Snapshot {
	home := PortInfo{
		Handle:      entity.Handle{Index: 1, Gen: 1},
		Hex:         world.HexCoord{Q: 5, R: 5},
		Tier:        entity.TierDock,
		Home:        true,
		Operational: true,
		QueueMax:    2,
		Buildable:   []entity.ShipType{entity.ShipCutter, entity.ShipSchooner},
	}
	return &Snapshot{
		Owner:   social.OwnerAI1,
		Stock:   economy.Stockpile{Wood: 120, Food: 80, CrewCap: 4},
		Assets:  entity.Counts{Ports: 1},
		Home:    home,
		HasHome: true,
		Ports:   []PortInfo{home},
	}
}

func warships(n int) []ShipInfo {
	out := make([]ShipInfo, n)
	for i := range out {
		out[i] = ShipInfo{Handle: entity.Handle{Index: uint32(i + 10), Gen: 1}, Type: entity.ShipCutter, Health: 1}
	}
	return out
}

func TestDecideDefendsFirst(t *testing.T) {
	snap := baseSnapshot()
	snap.Warships = warships(2)
	raider := Sighting{Ref: entity.ShipRef(entity.Handle{Index: 99, Gen: 1}), Owner: social.OwnerPirate, Distance: 2, Ship: true}
	snap.Threats = []Sighting{raider}
	snap.Targets = []Sighting{raider}
	strat := StrategyFor("balanced")

	actions := Decide(snap, Triage(snap, strat), strat)
	if len(actions) == 0 || actions[0].Kind != ActDefend {
		t.Fatalf("actions = %+v, want defend first", actions)
	}
	if actions[0].Target != raider.Ref || len(actions[0].Ships) != 2 {
		t.Errorf("defend = %+v", actions[0])
	}
}

func TestDecideAttackNeedsArmy(t *testing.T) {
	strat := StrategyFor("aggressive")
	target := Sighting{Ref: entity.PortRef(entity.Handle{Index: 7, Gen: 1}), Owner: social.OwnerAI2, Distance: 12}
	tests := []struct {
		name  string
		ships int
		want  bool
	}{
		{"below threshold", strat.ArmyThreshold - 1, false},
		{"at threshold", strat.ArmyThreshold, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := baseSnapshot()
			snap.Warships = warships(tt.ships)
			snap.Targets = []Sighting{target}
			got := false
			for _, a := range Decide(snap, Triage(snap, strat), strat) {
				if a.Kind == ActAttack {
					got = true
				}
			}
			if got != tt.want {
				t.Errorf("attack = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecideQueuesBuildableHull(t *testing.T) {
	snap := baseSnapshot()
	strat := StrategyFor("balanced")
	for _, a := range Decide(snap, Triage(snap, strat), strat) {
		if a.Kind != ActQueueShip {
			continue
		}
		if !slices.Contains(snap.Home.Buildable, a.Ship) {
			t.Errorf("queued %s at a dock", a.Ship)
		}
		return
	}
	t.Error("no ship queued with an empty army")
}

func TestDecideSortedByScore(t *testing.T) {
	snap := baseSnapshot()
	strat := StrategyFor("expansionist")
	actions := Decide(snap, Triage(snap, strat), strat)
	for i := 1; i < len(actions); i++ {
		if actions[i].Score > actions[i-1].Score {
			t.Fatalf("actions out of order at %d: %v > %v", i, actions[i].Score, actions[i-1].Score)
		}
	}
}

func TestEliminated(t *testing.T) {
	s := versusSim(t, false)
	if Eliminated(s, social.OwnerAI1) {
		t.Fatal("fresh faction eliminated")
	}
	for h, sh := range s.Store.Ships.All() {
		if sh.Owner == social.OwnerAI1 {
			s.Store.Remove(entity.ShipRef(h))
		}
	}
	for h, p := range s.Store.Ports.All() {
		if p.Owner == social.OwnerAI1 {
			s.Store.Remove(entity.PortRef(h))
		}
	}
	if !Eliminated(s, social.OwnerAI1) {
		t.Errorf("assets left: %+v", CountAssets(s, social.OwnerAI1))
	}
}

func TestPlayersActThroughCommands(t *testing.T) {
	s := versusSim(t, true)
	players := Attach(s)
	if len(players) != 2 {
		t.Fatalf("attached %d players, want 2", len(players))
	}
	engine.NewEngine(s).RunFor(90)

	for _, p := range players {
		acted := false
		for _, r := range p.Memory.Records {
			if r.Action != ActNone.String() {
				acted = true
			}
		}
		if !acted {
			t.Errorf("%s never acted:\n%s", p.Owner(), p.Memory.Format())
		}
		sp := s.Store.Stockpile(p.Owner())
		if sp.Wood < 0 || sp.Food < 0 {
			t.Errorf("%s stockpile went negative: %+v", p.Owner(), *sp)
		}
	}
}

func TestDecideFirstSettlement(t *testing.T) {
	strat := StrategyFor("aggressive")
	tests := []struct {
		name           string
		wood           int
		wantSettlement bool
	}{
		{"affordable", 50, true},
		{"saving up", 25, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := baseSnapshot()
			snap.Stock.Wood = tt.wood
			actions := Decide(snap, Triage(snap, strat), strat)

			if tt.wantSettlement {
				if len(actions) == 0 || actions[0].Kind != ActBuild || actions[0].Build != entity.BuildSettlement {
					t.Fatalf("actions = %+v, want settlement first", actions)
				}
			}
			// Nothing may dip into the wood held back for the settlement.
			for _, a := range actions {
				if a.Kind == ActBuild && a.Build != entity.BuildSettlement {
					t.Errorf("built %v before any settlement", a.Build)
				}
				if a.Kind == ActUpgrade {
					t.Errorf("upgrade before any settlement: %+v", a)
				}
				if a.Kind == ActQueueShip && tt.wood-entity.StatsFor(a.Ship).Cost.Wood < 30 {
					t.Errorf("queued %s with %d wood and no settlement", a.Ship, tt.wood)
				}
			}
		})
	}
}

func TestStarvedOpponentRecovers(t *testing.T) {
	s := versusSimWith(t, func(cfg *config.Scenario) {
		cfg.Economy.HomeWood = 15
		cfg.AI.Strategies = []string{"aggressive", "aggressive"}
	})
	s.Store.Stockpile(social.OwnerAI1).Wood = 0
	Attach(s)
	engine.NewEngine(s).RunFor(150)

	if got := CountAssets(s, social.OwnerAI1).Settlements; got == 0 {
		t.Errorf("opponent with no wood never founded a settlement, stockpile %+v", *s.Store.Stockpile(social.OwnerAI1))
	}
}

func TestAttachHonoursWeightOverrides(t *testing.T) {
	s := versusSimWith(t, func(cfg *config.Scenario) {
		cfg.AI.Strategies = []string{"turtle", "aggressive"}
		cfg.AI.Weights = map[string]config.StrategyWeights{"turtle": {ArmyThreshold: 11}}
	})
	players := Attach(s)
	if len(players) != 2 {
		t.Fatalf("attached %d players, want 2", len(players))
	}
	turtle, aggressive := players[0].Strategy, players[1].Strategy
	if turtle.Name != "turtle" || turtle.ArmyThreshold != 11 || turtle.Defense != StrategyFor("turtle").Defense {
		t.Errorf("turtle = %+v", turtle)
	}
	if aggressive.ArmyThreshold != StrategyFor("aggressive").ArmyThreshold {
		t.Errorf("override leaked into aggressive: %+v", aggressive)
	}
	if len(turtle.Warships) == 0 {
		t.Error("turtle lost its hull preferences")
	}
}
