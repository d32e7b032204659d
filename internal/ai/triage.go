package ai

import "github.com/talgya/ironwake/internal/entity"

// Threat levels, most severe first.
const (
	LevelCritical = "CRITICAL" // Home under attack by more than we can field
	LevelWarning  = "WARNING"  // Hostiles near our structures
	LevelWatch    = "WATCH"    // Army below the strategy's threshold
	LevelHealthy  = "HEALTHY"
)

// Health holds derived signals computed from a Snapshot before scoring.
// Deterministic and cheap.
type Health struct {
	Level       string
	Threats     int
	Army        int // Warships afloat
	IdleArmy    int
	ArmyWanted  int
	CrewFree    int
	Damaged     int
	HomeHealthy bool
}

// Triage computes a Health from the snapshot for a strategy.
func Triage(snap *Snapshot, strat Strategy) *Health {
	h := &Health{
		Threats:     len(snap.Threats),
		Army:        len(snap.Warships),
		IdleArmy:    len(snap.IdleWarships()),
		ArmyWanted:  strat.ArmyThreshold,
		CrewFree:    snap.Stock.CrewFree(),
		Damaged:     len(snap.Damaged),
		HomeHealthy: true,
	}
	for _, ref := range snap.Damaged {
		if snap.HasHome && ref == entity.PortRef(snap.Home.Handle) {
			h.HomeHealthy = false
		}
	}
	// Threats raise the garrison we want.
	h.ArmyWanted += h.Threats

	h.Level = LevelHealthy
	switch {
	case h.Threats > h.Army && !h.HomeHealthy:
		h.Level = LevelCritical
	case h.Threats > h.Army+1:
		h.Level = LevelCritical
	case h.Threats > 0:
		h.Level = LevelWarning
	case h.Army < strat.ArmyThreshold:
		h.Level = LevelWatch
	}
	return h
}
