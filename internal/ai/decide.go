package ai

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/talgya/ironwake/internal/economy"
	"github.com/talgya/ironwake/internal/engine"
	"github.com/talgya/ironwake/internal/entity"
)

// ActionKind is one thing an opponent can do in a decision cycle.
type ActionKind uint8

const (
	ActNone ActionKind = iota
	ActQueueShip
	ActBuild
	ActUpgrade
	ActRepair
	ActTrade
	ActReturnCargo
	ActDefend
	ActAttack
)

var actionNames = [...]string{"none", "queue", "build", "upgrade", "repair", "trade", "return", "defend", "attack"}

func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return "unknown"
}

// Action is a scored candidate. Only the fields its kind needs are set.
type Action struct {
	Kind      ActionKind
	Score     float64
	Rationale string

	Ship   entity.ShipType  // ActQueueShip
	Port   entity.Handle    // ActQueueShip, ActReturnCargo
	Build  entity.BuildKind // ActBuild
	Target entity.Ref       // ActUpgrade, ActRepair, ActDefend, ActAttack
	Ships  []entity.Handle  // ActTrade, ActReturnCargo, ActDefend, ActAttack
	Source entity.Handle    // ActTrade
	Dest   entity.Handle    // ActTrade
}

// minScore drops candidates not worth a cycle.
const minScore = 0.25

// firstSettlementScore puts a faction's first settlement ahead of any
// other action while nothing threatens it.
const firstSettlementScore = 10

// Decide scores every candidate action for the snapshot and returns the
// ones worth taking, best first.
func Decide(snap *Snapshot, h *Health, strat Strategy) []Action {
	if !snap.HasHome && len(snap.Warships)+len(snap.Traders) == 0 {
		return nil
	}
	urgency := 1.0
	switch h.Level {
	case LevelCritical:
		urgency = 2
	case LevelWarning:
		urgency = 1.5
	}

	var out []Action
	add := func(a Action) {
		if a.Score >= minScore {
			out = append(out, a)
		}
	}

	// With no settlement the faction has no wood income beyond the home
	// trickle, so the first one's cost is held back from other spending.
	settlementCost := engine.StructureCost(entity.BuildSettlement)
	spend := snap.Stock
	if snap.Assets.Settlements == 0 {
		spend.Wood -= settlementCost.Wood
		spend.Food -= settlementCost.Food
	}

	idle := snap.IdleWarships()
	if len(snap.Threats) > 0 && len(idle) > 0 {
		t := closest(snap.Threats)
		add(Action{
			Kind:      ActDefend,
			Score:     strat.Defense * 3 * urgency,
			Target:    t.Ref,
			Ships:     handles(idle),
			Rationale: fmt.Sprintf("%s %s %d hexes from our holdings", t.Owner, t.Ref.Kind, t.Distance),
		})
	}

	if len(snap.Damaged) > 0 && spend.Wood >= 20 {
		add(Action{
			Kind:      ActRepair,
			Score:     strat.Defense * 1.5 * urgency,
			Target:    snap.Damaged[0],
			Rationale: fmt.Sprintf("%d damaged structures", len(snap.Damaged)),
		})
	}

	if h.Army < h.ArmyWanted && h.CrewFree > 0 {
		if port, t, ok := pickHull(snap, &spend, strat.Warships); ok {
			deficit := float64(h.ArmyWanted-h.Army) / float64(max(strat.ArmyThreshold, 1))
			add(Action{
				Kind:      ActQueueShip,
				Score:     (strat.Attack + strat.Defense*urgency) * min(deficit, 1.5) * 0.8,
				Ship:      t,
				Port:      port,
				Rationale: fmt.Sprintf("army %d of %d wanted", h.Army, h.ArmyWanted),
			})
		}
	}

	outposts := outpostPorts(snap)
	if len(snap.Traders) < 1+len(outposts) && h.CrewFree > 0 {
		if port, t, ok := pickHull(snap, &spend, []entity.ShipType{entity.ShipSchooner}); ok {
			add(Action{
				Kind:      ActQueueShip,
				Score:     strat.Economy * 0.9,
				Ship:      t,
				Port:      port,
				Rationale: fmt.Sprintf("%d traders for %d outposts", len(snap.Traders), len(outposts)),
			})
		}
	}

	if snap.HasHome {
		var idleTraders []ShipInfo
		for _, sh := range snap.Traders {
			if sh.Idle() && sh.Cargo.Empty() {
				idleTraders = append(idleTraders, sh)
			}
		}
		if len(idleTraders) > 0 && len(outposts) > 0 {
			src := slices.MaxFunc(outposts, func(a, b PortInfo) int {
				return cmp.Compare(a.Storage.Total(), b.Storage.Total())
			})
			score := strat.Economy * 0.8
			if src.Storage.Total() >= 10 {
				score = strat.Economy * 2
			}
			add(Action{
				Kind:      ActTrade,
				Score:     score,
				Ships:     []entity.Handle{idleTraders[0].Handle},
				Source:    src.Handle,
				Dest:      snap.Home.Handle,
				Rationale: fmt.Sprintf("outpost holds %s", src.Storage),
			})
		}

		var laden []entity.Handle
		for _, sh := range append(slices.Clone(snap.Warships), snap.Traders...) {
			if sh.Idle() && !sh.Cargo.Empty() {
				laden = append(laden, sh.Handle)
			}
		}
		if len(laden) > 0 {
			add(Action{
				Kind:      ActReturnCargo,
				Score:     strat.Economy * 1.5,
				Ships:     laden,
				Port:      snap.Home.Handle,
				Rationale: fmt.Sprintf("%d ships carrying goods", len(laden)),
			})
		}
	}

	if snap.Stock.CanAfford(settlementCost) {
		score := strat.Economy * 1.2 / float64(1+snap.Assets.Settlements)
		rationale := "grow crew and income"
		if h.CrewFree == 0 {
			score *= 1.8
		}
		if snap.Assets.Settlements == 0 && len(snap.Threats) == 0 {
			score, rationale = firstSettlementScore, "no wood income"
		}
		add(Action{Kind: ActBuild, Build: entity.BuildSettlement, Score: score, Rationale: rationale})
	}

	if spend.CanAfford(engine.StructureCost(entity.BuildPort)) && h.Level != LevelCritical {
		add(Action{
			Kind:      ActBuild,
			Build:     entity.BuildPort,
			Score:     strat.Expansion * 1.1 / float64(max(snap.Assets.Ports, 1)),
			Rationale: fmt.Sprintf("%d ports held", snap.Assets.Ports),
		})
	}

	if spend.CanAfford(engine.StructureCost(entity.BuildTower)) {
		add(Action{
			Kind:      ActBuild,
			Build:     entity.BuildTower,
			Score:     strat.Defense * (0.5 + 0.5*float64(h.Threats)) / float64(1+snap.Assets.Towers),
			Rationale: fmt.Sprintf("%d towers, %d threats", snap.Assets.Towers, h.Threats),
		})
	}

	if home := snap.Home; snap.HasHome && home.Operational && !home.Upgrading {
		if next, ok := home.Tier.NextTier(); ok && spend.CanAfford(entity.PortStatsFor(next).Cost) {
			add(Action{
				Kind:      ActUpgrade,
				Target:    entity.PortRef(home.Handle),
				Score:     (strat.Economy + strat.Attack) / 2 * 0.9,
				Rationale: fmt.Sprintf("home %s to %s", home.Tier, next),
			})
		}
	}

	if len(idle) >= strat.ArmyThreshold && len(snap.Targets) > 0 && h.Level != LevelCritical {
		t := closest(snap.Targets)
		add(Action{
			Kind:      ActAttack,
			Score:     strat.Attack * 2.5 * float64(len(idle)) / float64(max(strat.ArmyThreshold, 1)),
			Target:    t.Ref,
			Ships:     handles(idle),
			Rationale: fmt.Sprintf("%d idle warships against %s %s", len(idle), t.Owner, t.Ref.Kind),
		})
	}

	slices.SortStableFunc(out, func(a, b Action) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}

// pickHull finds an operational port with queue space and the first
// preferred hull it can build and stock can afford.
func pickHull(snap *Snapshot, stock *economy.Stockpile, preferred []entity.ShipType) (entity.Handle, entity.ShipType, bool) {
	for _, t := range preferred {
		cost := entity.StatsFor(t).Cost
		if !stock.CanAfford(cost) {
			continue
		}
		for _, p := range snap.Ports {
			if p.Operational && p.QueueLen < p.QueueMax && slices.Contains(p.Buildable, t) {
				return p.Handle, t, true
			}
		}
	}
	return entity.Handle{}, 0, false
}

// outpostPorts returns operational ports other than home.
func outpostPorts(snap *Snapshot) []PortInfo {
	var out []PortInfo
	for _, p := range snap.Ports {
		if !p.Home && p.Operational && p.Handle != snap.Home.Handle {
			out = append(out, p)
		}
	}
	return out
}

// closest picks the sighting nearest our holdings, preferring ships on ties.
func closest(seen []Sighting) Sighting {
	return slices.MinFunc(seen, func(a, b Sighting) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		switch {
		case a.Ship && !b.Ship:
			return -1
		case b.Ship && !a.Ship:
			return 1
		}
		return 0
	})
}

func handles(ships []ShipInfo) []entity.Handle {
	out := make([]entity.Handle, len(ships))
	for i, sh := range ships {
		out[i] = sh.Handle
	}
	return out
}
