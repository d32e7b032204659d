// Package config holds the scenario configuration consumed once when a
// match starts.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid scenario")

// Scenario is the complete match configuration.
type Scenario struct {
	Seed      int64   `json:"seed"`      // 0 draws a random seed
	Versus    bool    `json:"versus"`    // Three factions instead of player vs pirates
	TimeScale float64 `json:"timeScale"` // 0 pauses
	HexSize   float64 `json:"hexSize"`   // Pixels from hex centre to corner

	Map      MapConfig      `json:"map"`
	Start    StartConfig    `json:"start"`
	Pirates  PirateConfig   `json:"pirates"`
	Combat   CombatConfig   `json:"combat"`
	Economy  EconomyConfig  `json:"economy"`
	Movement MovementConfig `json:"movement"`
	Fog      FogConfig      `json:"fog"`
	AI       AIConfig       `json:"ai"`
	Victory  VictoryConfig  `json:"victory"`
}

// MapConfig controls map generation.
type MapConfig struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	SeaLevel         float64 `json:"seaLevel"`
	MinStartDistance int     `json:"minStartDistance"`
}

// StartConfig is what each faction starts with.
type StartConfig struct {
	Wood      int `json:"wood"`
	Food      int `json:"food"`
	Cutters   int `json:"cutters"`
	Schooners int `json:"schooners"`
}

// PirateConfig controls pirate population and behaviour.
type PirateConfig struct {
	InitialDelay     float64 `json:"initialDelay"` // Seconds before the first spawn
	RespawnDelay     float64 `json:"respawnDelay"`
	MaxPirates       int     `json:"maxPirates"`
	WaveInterval     float64 `json:"waveInterval"` // 0 disables waves
	WaveSize         int     `json:"waveSize"`
	WaveGrowth       int     `json:"waveGrowth"`
	MinSpawnDistance int     `json:"minSpawnDistance"` // Hexes from any structure

	DetectionRange   int     `json:"detectionRange"`
	PatrolRadius     int     `json:"patrolRadius"`
	PatrolIdle       float64 `json:"patrolIdle"` // Seconds between patrol legs
	ThinkInterval    float64 `json:"thinkInterval"`
	RetreatThreshold float64 `json:"retreatThreshold"` // Health fraction that forces retreat
	RecoverThreshold float64 `json:"recoverThreshold"` // Health fraction needed to leave retreat
	RetreatDuration  float64 `json:"retreatDuration"`
	RegenRate        float64 `json:"regenRate"` // Health per second while retreating
}

// CombatConfig controls shots and their effects.
type CombatConfig struct {
	ProjectileTime float64 `json:"projectileTime"`
	HitChance      float64 `json:"hitChance"` // Ship shots; tower shots always hit
	HitFlash       float64 `json:"hitFlash"`
	LootLife       float64 `json:"lootLife"`
	EffectLife     float64 `json:"effectLife"`
}

// EconomyConfig controls production, trade, and repair.
type EconomyConfig struct {
	ProduceInterval float64 `json:"produceInterval"`
	PerUnitLoadTime float64 `json:"perUnitLoadTime"`
	RepairDuration  float64 `json:"repairDuration"`
	RepairWoodPerHP float64 `json:"repairWoodPerHP"`
	SettlementRange int     `json:"settlementRange"` // Max hexes from an own port
	TowerRange      int     `json:"towerRange"`      // Max hexes from an own structure
	HomeWood        int     `json:"homeWood"`        // Wood the home port yields per interval
}

// MovementConfig controls ship movement.
type MovementConfig struct {
	RepathDelay float64 `json:"repathDelay"` // Wait before retrying a blocked path
}

// FogConfig controls fog of war.
type FogConfig struct {
	RecalcPerSecond float64 `json:"recalcPerSecond"` // Staleness bound is 1/RecalcPerSecond
	AIUseFog        bool    `json:"aiUseFog"`
}

// AIConfig controls AI opponents.
type AIConfig struct {
	Strategies       []string `json:"strategies"`       // Per AI slot; empty picks at random
	DecisionInterval float64  `json:"decisionInterval"` // 0 uses the strategy's own

	// Weights overrides stock strategy weights by name. Zero fields keep
	// the stock value.
	Weights map[string]StrategyWeights `json:"weights,omitempty"`
}

// VictoryConfig controls match outcome bookkeeping.
type VictoryConfig struct {
	SurviveSeconds float64 `json:"surviveSeconds"` // Single-player survival goal
}

// Default returns the stock scenario.
func Default() *Scenario {
	return &Scenario{
		TimeScale: 1,
		HexSize:   32,
		Map: MapConfig{
			Width:            48,
			Height:           36,
			SeaLevel:         0.58,
			MinStartDistance: 12,
		},
		Start: StartConfig{
			Wood:      120,
			Food:      80,
			Cutters:   1,
			Schooners: 1,
		},
		Pirates: PirateConfig{
			InitialDelay:     60,
			RespawnDelay:     30,
			MaxPirates:       4,
			WaveInterval:     240,
			WaveSize:         2,
			WaveGrowth:       1,
			MinSpawnDistance: 8,
			DetectionRange:   5,
			PatrolRadius:     6,
			PatrolIdle:       4,
			ThinkInterval:    0.5,
			RetreatThreshold: 0.3,
			RecoverThreshold: 0.5,
			RetreatDuration:  8,
			RegenRate:        2,
		},
		Combat: CombatConfig{
			ProjectileTime: 0.6,
			HitChance:      0.75,
			HitFlash:       0.25,
			LootLife:       60,
			EffectLife:     1.5,
		},
		Economy: EconomyConfig{
			ProduceInterval: 30,
			PerUnitLoadTime: 0.1,
			RepairDuration:  10,
			RepairWoodPerHP: 0.2,
			SettlementRange: 3,
			TowerRange:      4,
			HomeWood:        3,
		},
		Movement: MovementConfig{
			RepathDelay: 1,
		},
		Fog: FogConfig{
			RecalcPerSecond: 10,
		},
		Victory: VictoryConfig{
			SurviveSeconds: 900,
		},
	}
}

// Load reads a scenario from a JSON file. Missing fields keep their
// defaults.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return cfg, nil
}

// Save writes a scenario as indented JSON.
func Save(cfg *Scenario, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from IRONWAKE_* environment variables.
// Unparseable values are ignored.
func (c *Scenario) ApplyEnv() {
	c.Seed = envInt64OrDefault("IRONWAKE_SEED", c.Seed)
	c.Versus = envBoolOrDefault("IRONWAKE_VERSUS", c.Versus)
	c.TimeScale = envFloatOrDefault("IRONWAKE_TIME_SCALE", c.TimeScale)
	c.Map.Width = envIntOrDefault("IRONWAKE_MAP_WIDTH", c.Map.Width)
	c.Map.Height = envIntOrDefault("IRONWAKE_MAP_HEIGHT", c.Map.Height)
	if v := envOrDefault("IRONWAKE_AI_STRATEGIES", ""); v != "" {
		c.AI.Strategies = strings.Split(v, ",")
	}
}

// Validate reports the first malformed field.
func (c *Scenario) Validate() error {
	switch {
	case c.TimeScale < 0:
		return fmt.Errorf("%w: timeScale %v is negative", ErrInvalid, c.TimeScale)
	case c.HexSize <= 0:
		return fmt.Errorf("%w: hexSize must be positive", ErrInvalid)
	case c.Map.Width <= 0 || c.Map.Height <= 0:
		return fmt.Errorf("%w: map size %dx%d", ErrInvalid, c.Map.Width, c.Map.Height)
	case c.Start.Wood < 0 || c.Start.Food < 0 || c.Start.Cutters < 0 || c.Start.Schooners < 0:
		return fmt.Errorf("%w: negative starting resources", ErrInvalid)
	case c.Pirates.MaxPirates < 0 || c.Pirates.WaveSize < 0 || c.Pirates.WaveGrowth < 0:
		return fmt.Errorf("%w: negative pirate counts", ErrInvalid)
	case c.Pirates.RetreatThreshold < 0 || c.Pirates.RetreatThreshold >= 1:
		return fmt.Errorf("%w: retreatThreshold %v outside [0,1)", ErrInvalid, c.Pirates.RetreatThreshold)
	case c.Pirates.RecoverThreshold < c.Pirates.RetreatThreshold || c.Pirates.RecoverThreshold > 1:
		return fmt.Errorf("%w: recoverThreshold %v must lie in [retreatThreshold,1]", ErrInvalid, c.Pirates.RecoverThreshold)
	case c.Pirates.ThinkInterval <= 0:
		return fmt.Errorf("%w: thinkInterval must be positive", ErrInvalid)
	case c.Combat.HitChance < 0 || c.Combat.HitChance > 1:
		return fmt.Errorf("%w: hitChance %v outside [0,1]", ErrInvalid, c.Combat.HitChance)
	case c.Combat.ProjectileTime <= 0:
		return fmt.Errorf("%w: projectileTime must be positive", ErrInvalid)
	case c.Economy.ProduceInterval <= 0:
		return fmt.Errorf("%w: produceInterval must be positive", ErrInvalid)
	case c.Economy.PerUnitLoadTime < 0 || c.Economy.RepairDuration <= 0:
		return fmt.Errorf("%w: trade or repair timing", ErrInvalid)
	case c.Economy.HomeWood < 0:
		return fmt.Errorf("%w: homeWood is negative", ErrInvalid)
	case c.Fog.RecalcPerSecond < 0:
		return fmt.Errorf("%w: recalcPerSecond is negative", ErrInvalid)
	}
	for _, s := range c.AI.Strategies {
		if s != "" && !KnownStrategy(s) {
			return fmt.Errorf("%w: unknown AI strategy %q", ErrInvalid, s)
		}
	}
	return validateWeights(c.AI.Weights)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envInt64OrDefault(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}

func envFloatOrDefault(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func envBoolOrDefault(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
