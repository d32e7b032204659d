// Package ai implements the computer opponents of versus matches. Each
// Player observes its faction's situation on a decision timer, scores
// candidate actions with its strategy's weights, and acts through the
// same engine commands the input layer uses.
package ai

import (
	"github.com/talgya/ironwake/internal/config"
	"github.com/talgya/ironwake/internal/entity"
)

// Strategy is a named set of weights plus the hulls the opponent prefers.
type Strategy struct {
	Name string
	config.StrategyWeights
	Warships []entity.ShipType // Preferred hulls, best first
}

var hullPreferences = map[string][]entity.ShipType{
	"balanced":     {entity.ShipBrigantine, entity.ShipCutter, entity.ShipGalleon},
	"aggressive":   {entity.ShipGalleon, entity.ShipBrigantine, entity.ShipCutter},
	"expansionist": {entity.ShipCutter, entity.ShipBrigantine},
	"turtle":       {entity.ShipBrigantine, entity.ShipGalleon, entity.ShipCutter},
}

// NewStrategy pairs weights with the hull preferences of name.
func NewStrategy(name string, w config.StrategyWeights) Strategy {
	return Strategy{Name: name, StrategyWeights: w, Warships: hullPreferences[name]}
}

// StrategyFor returns the stock named strategy, falling back to balanced.
func StrategyFor(name string) Strategy {
	return NewStrategy(config.DefaultStrategy(name))
}
