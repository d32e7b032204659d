// Resource generation and crew accounting.
package engine

import (
	"fmt"

	"github.com/talgya/ironwake/internal/economy"
	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

// updateProduction accrues output on each producer's interval timer and
// refreshes crew capacity.
func (s *Simulation) updateProduction(dt float64) {
	if dt > 0 {
		interval := s.Config.Economy.ProduceInterval
		for _, st := range s.Store.Settlements.All() {
			if !st.Operational() {
				continue
			}
			st.ProduceTimer += dt
			for st.ProduceTimer >= interval {
				st.ProduceTimer -= interval
				stats := st.Stats()
				s.deliver(st.Owner, st.Port, st.Hex, stats.Wood, stats.Food)
			}
		}
		for h, p := range s.Store.Ports.All() {
			wood, food := 0, p.Stats().Food
			if p.IsHome {
				// A trickle of home wood keeps a faction with no settlements
				// able to afford its first one.
				wood = s.Config.Economy.HomeWood
			}
			if !p.Operational() || (wood <= 0 && food <= 0) {
				continue
			}
			p.ProduceTimer += dt
			for p.ProduceTimer >= interval {
				p.ProduceTimer -= interval
				s.deliver(p.Owner, h, p.Hex, wood, food)
			}
		}
	}
	s.recomputeCrew()
}

// deliver credits output to an attached non-home port's storage, or to
// the owner's stockpile.
func (s *Simulation) deliver(owner social.Owner, port entity.Handle, at world.HexCoord, wood, food int) {
	out := economy.Cargo{Wood: wood, Food: food}
	if p := s.Store.Ports.Get(port); p != nil && p.Owner == owner && !p.IsHome {
		p.Storage.Put(out)
	} else if sp := s.Store.Stockpile(owner); sp != nil {
		sp.Add(wood, food)
	} else {
		return
	}
	s.Store.Floaters = append(s.Store.Floaters, entity.Floater{
		Hex:   at,
		Text:  fmt.Sprintf("+%d wood +%d food", wood, food),
		Owner: owner,
	})
}

// recomputeCrew derives crew capacity from operational ports and
// settlements, and crew used from ships afloat and ships queued.
func (s *Simulation) recomputeCrew() {
	caps := make(map[social.Owner]int)
	used := make(map[social.Owner]int)
	for _, p := range s.Store.Ports.All() {
		if p.Operational() {
			caps[p.Owner] += p.Stats().Crew
		}
		for _, item := range p.Queue {
			used[p.Owner] += item.Cost.Crew
		}
	}
	for _, st := range s.Store.Settlements.All() {
		if st.Operational() {
			caps[st.Owner] += st.Stats().Crew
		}
	}
	for _, sh := range s.Store.Ships.All() {
		used[sh.Owner] += sh.Stats().Cost.Crew
	}
	for o, sp := range s.Store.Stockpiles {
		sp.CrewCap = caps[o]
		sp.CrewUsed = used[o]
	}
}
