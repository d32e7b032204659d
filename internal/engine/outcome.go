package engine

import (
	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/social"
)

// Outcome is the match result as of the current tick.
type Outcome struct {
	Decided bool         `json:"decided"`
	Winner  social.Owner `json:"winner"`
	Reason  string       `json:"reason"`
}

// Outcome checks the win conditions. Single-player: the player wins by
// surviving SurviveSeconds and loses when eliminated. Versus: the last
// faction with a port or a ship wins.
func (s *Simulation) Outcome() Outcome {
	if !s.Config.Versus {
		if s.Store.CountOwned(social.OwnerPlayer).Eliminated() {
			return Outcome{Decided: true, Winner: social.OwnerPirate, Reason: "player fleet and ports lost"}
		}
		if goal := s.Config.Victory.SurviveSeconds; goal > 0 && s.Time >= goal {
			return Outcome{Decided: true, Winner: social.OwnerPlayer, Reason: "survived the pirate raids"}
		}
		return Outcome{}
	}

	var standing []social.Owner
	for _, f := range s.Factions {
		if f.Kind == social.KindPirate {
			continue
		}
		if !s.Store.CountOwned(f.Owner).Eliminated() {
			standing = append(standing, f.Owner)
		}
	}
	switch len(standing) {
	case 0:
		return Outcome{Decided: true, Winner: social.OwnerPirate, Reason: "every faction eliminated"}
	case 1:
		return Outcome{Decided: true, Winner: standing[0], Reason: "last faction standing"}
	}
	return Outcome{}
}

// Assets returns the remaining counts for every non-pirate faction.
func (s *Simulation) Assets() map[social.Owner]entity.Counts {
	out := make(map[social.Owner]entity.Counts)
	for _, f := range s.Factions {
		if f.Kind != social.KindPirate {
			out[f.Owner] = s.Store.CountOwned(f.Owner)
		}
	}
	return out
}
