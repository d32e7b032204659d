package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default scenario invalid: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scenario)
	}{
		{"negative time scale", func(c *Scenario) { c.TimeScale = -1 }},
		{"zero map", func(c *Scenario) { c.Map.Width = 0 }},
		{"negative wood", func(c *Scenario) { c.Start.Wood = -10 }},
		{"retreat threshold one", func(c *Scenario) { c.Pirates.RetreatThreshold = 1 }},
		{"recover below retreat", func(c *Scenario) { c.Pirates.RecoverThreshold = 0.1 }},
		{"hit chance above one", func(c *Scenario) { c.Combat.HitChance = 1.5 }},
		{"zero produce interval", func(c *Scenario) { c.Economy.ProduceInterval = 0 }},
		{"unknown strategy", func(c *Scenario) { c.AI.Strategies = []string{"reckless"} }},
		{"negative home wood", func(c *Scenario) { c.Economy.HomeWood = -1 }},
		{"weights for unknown strategy", func(c *Scenario) {
			c.AI.Weights = map[string]StrategyWeights{"reckless": {Attack: 2}}
		}},
		{"negative weight", func(c *Scenario) {
			c.AI.Weights = map[string]StrategyWeights{"turtle": {Defense: -1}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestSaveLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.json")
	c := Default()
	c.Seed = 77
	c.Versus = true
	c.AI.Strategies = []string{"turtle", ""}
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Seed != 77 || !got.Versus || got.AI.Strategies[0] != "turtle" {
		t.Errorf("round trip lost fields: %+v", got)
	}

	// A partial file only overrides what it names.
	partial := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(partial, []byte(`{"pirates":{"maxPirates":9}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = Load(partial)
	if err != nil {
		t.Fatalf("Load partial: %v", err)
	}
	if got.Pirates.MaxPirates != 9 || got.Pirates.RetreatThreshold != 0.3 || got.Map.Width != 48 {
		t.Errorf("partial load = %+v", got.Pirates)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("IRONWAKE_SEED", "1234")
	t.Setenv("IRONWAKE_VERSUS", "true")
	t.Setenv("IRONWAKE_TIME_SCALE", "2.5")
	t.Setenv("IRONWAKE_MAP_WIDTH", "not-a-number")
	t.Setenv("IRONWAKE_AI_STRATEGIES", "aggressive,turtle")

	c := Default()
	c.ApplyEnv()
	if c.Seed != 1234 || !c.Versus || c.TimeScale != 2.5 {
		t.Errorf("env not applied: seed=%d versus=%v scale=%v", c.Seed, c.Versus, c.TimeScale)
	}
	if c.Map.Width != 48 {
		t.Errorf("bad width override applied: %d", c.Map.Width)
	}
	if len(c.AI.Strategies) != 2 || c.AI.Strategies[1] != "turtle" {
		t.Errorf("strategies = %v", c.AI.Strategies)
	}
}

func TestStrategyOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	body := `{"ai":{"weights":{"aggressive":{"armyThreshold":9,"attack":2.5}}}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	_, stock := DefaultStrategy("aggressive")
	tests := []struct {
		name     string
		strategy string
		wantName string
		want     StrategyWeights
	}{
		{"override merges", "aggressive", "aggressive", StrategyWeights{
			Economy: stock.Economy, Expansion: stock.Expansion, Defense: stock.Defense,
			Attack: 2.5, ArmyThreshold: 9, DecisionInterval: stock.DecisionInterval,
		}},
		{"no override", "turtle", "turtle", func() StrategyWeights { _, w := DefaultStrategy("turtle"); return w }()},
		{"unknown falls back", "reckless", "balanced", func() StrategyWeights { _, w := DefaultStrategy("balanced"); return w }()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, got := c.Strategy(tt.strategy)
			if name != tt.wantName || got != tt.want {
				t.Errorf("Strategy(%q) = %s %+v, want %s %+v", tt.strategy, name, got, tt.wantName, tt.want)
			}
		})
	}
}

func TestStrategiesHaveStockWeights(t *testing.T) {
	for _, name := range Strategies {
		got, w := DefaultStrategy(name)
		if got != name || w.ArmyThreshold <= 0 || w.DecisionInterval <= 0 {
			t.Errorf("DefaultStrategy(%q) = %s %+v", name, got, w)
		}
	}
}
