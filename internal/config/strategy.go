package config

import (
	"fmt"
	"slices"
)

// StrategyWeights tunes one AI strategy. Weights are relative;
// ArmyThreshold is the idle warship count at which the opponent goes on
// the offensive.
type StrategyWeights struct {
	Economy          float64 `json:"economy,omitempty"`   // Settlements, traders, port upgrades
	Expansion        float64 `json:"expansion,omitempty"` // New ports on neighbouring islands
	Defense          float64 `json:"defense,omitempty"`   // Towers, repairs, home guard
	Attack           float64 `json:"attack,omitempty"`    // Warships and raids
	ArmyThreshold    int     `json:"armyThreshold,omitempty"`
	DecisionInterval float64 `json:"decisionInterval,omitempty"` // Seconds between decisions
}

type namedWeights struct {
	name string
	w    StrategyWeights
}

// stockStrategies is ordered; the first entry is the fallback.
var stockStrategies = []namedWeights{
	{"balanced", StrategyWeights{Economy: 1.0, Expansion: 1.0, Defense: 1.0, Attack: 1.0, ArmyThreshold: 4, DecisionInterval: 3}},
	{"aggressive", StrategyWeights{Economy: 0.7, Expansion: 0.6, Defense: 0.6, Attack: 1.8, ArmyThreshold: 3, DecisionInterval: 2}},
	{"expansionist", StrategyWeights{Economy: 1.3, Expansion: 1.8, Defense: 0.7, Attack: 0.6, ArmyThreshold: 6, DecisionInterval: 3}},
	{"turtle", StrategyWeights{Economy: 1.2, Expansion: 0.5, Defense: 1.9, Attack: 0.4, ArmyThreshold: 8, DecisionInterval: 4}},
}

// Strategies lists the AI strategy names a scenario may request.
var Strategies = strategyNames()

func strategyNames() []string {
	names := make([]string, len(stockStrategies))
	for i, s := range stockStrategies {
		names[i] = s.name
	}
	return names
}

// KnownStrategy reports whether name is a valid AI strategy.
func KnownStrategy(name string) bool {
	return slices.Contains(Strategies, name)
}

// DefaultStrategy returns the stock weights for name and the name they
// belong to. Unknown names fall back to balanced.
func DefaultStrategy(name string) (string, StrategyWeights) {
	for _, s := range stockStrategies {
		if s.name == name {
			return s.name, s.w
		}
	}
	return stockStrategies[0].name, stockStrategies[0].w
}

// Strategy returns the weights for name with any scenario overrides
// applied. Zero override fields keep the stock value.
func (c *Scenario) Strategy(name string) (string, StrategyWeights) {
	name, w := DefaultStrategy(name)
	o, ok := c.AI.Weights[name]
	if !ok {
		return name, w
	}
	if o.Economy > 0 {
		w.Economy = o.Economy
	}
	if o.Expansion > 0 {
		w.Expansion = o.Expansion
	}
	if o.Defense > 0 {
		w.Defense = o.Defense
	}
	if o.Attack > 0 {
		w.Attack = o.Attack
	}
	if o.ArmyThreshold > 0 {
		w.ArmyThreshold = o.ArmyThreshold
	}
	if o.DecisionInterval > 0 {
		w.DecisionInterval = o.DecisionInterval
	}
	return name, w
}

func validateWeights(weights map[string]StrategyWeights) error {
	for name, w := range weights {
		if !KnownStrategy(name) {
			return fmt.Errorf("%w: weights for unknown AI strategy %q", ErrInvalid, name)
		}
		if w.Economy < 0 || w.Expansion < 0 || w.Defense < 0 || w.Attack < 0 ||
			w.ArmyThreshold < 0 || w.DecisionInterval < 0 {
			return fmt.Errorf("%w: negative weight in AI strategy %q", ErrInvalid, name)
		}
	}
	return nil
}
