// Package fog tracks per-faction fog of war over the hex grid.
//
// Visibility is rebuilt from scratch on each recalculation. Recalculation
// is gated by a dirty flag and throttled by a rate limiter driven by the
// simulation's unscaled clock, so visibility lags vision-source changes by
// at most one Interval.
package fog

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/talgya/ironwake/internal/world"
)

// State is the visibility of one hex.
type State uint8

const (
	Unseen   State = iota // Never observed
	Explored              // Seen before, not currently in range
	Visible               // Inside a live vision source's range
)

func (s State) String() string {
	switch s {
	case Explored:
		return "explored"
	case Visible:
		return "visible"
	default:
		return "unseen"
	}
}

// DefaultRate is the maximum recalculations per second.
const DefaultRate = 10.0

// Source is anything that reveals hexes around itself.
type Source struct {
	Hex   world.HexCoord
	Range int
}

// Grid is one faction's view of the map.
type Grid struct {
	m        *world.Map
	cells    map[world.HexCoord]State
	dirty    bool
	limiter  *rate.Limiter
	interval time.Duration
	clock    time.Time // Synthetic clock advanced by unscaled elapsed time
	recalcs  int
}

// NewGrid creates an all-unseen grid allowing perSecond recalculations.
// A non-positive rate disables throttling.
func NewGrid(m *world.Map, perSecond float64) *Grid {
	g := &Grid{
		m:       m,
		cells:   make(map[world.HexCoord]State, m.HexCount()),
		dirty:   true,
		limiter: rate.NewLimiter(rate.Inf, 1),
		clock:   time.Unix(0, 0),
	}
	if perSecond > 0 {
		g.interval = time.Duration(float64(time.Second) / perSecond)
		g.limiter = rate.NewLimiter(rate.Every(g.interval), 1)
	}
	return g
}

// Interval returns the staleness bound: the minimum time between
// recalculations.
func (g *Grid) Interval() time.Duration {
	return g.interval
}

// MarkDirty flags that a vision source moved, appeared, or vanished.
func (g *Grid) MarkDirty() {
	g.dirty = true
}

// Dirty reports whether a recalculation is pending.
func (g *Grid) Dirty() bool {
	return g.dirty
}

// Update advances the throttle clock by realElapsed seconds and
// recalculates if dirty and the throttle allows. Returns true if it
// recalculated.
func (g *Grid) Update(realElapsed float64, sources []Source) bool {
	if realElapsed > 0 {
		g.clock = g.clock.Add(time.Duration(realElapsed * float64(time.Second)))
	}
	if !g.dirty || !g.limiter.AllowN(g.clock, 1) {
		return false
	}
	g.Recalculate(sources)
	return true
}

// Recalculate rebuilds visibility immediately. Visible hexes demote to
// explored, then every hex within range of a source becomes visible.
func (g *Grid) Recalculate(sources []Source) {
	for c, s := range g.cells {
		if s == Visible {
			g.cells[c] = Explored
		}
	}
	for _, src := range sources {
		for _, c := range world.Spiral(src.Hex, max(src.Range, 0)) {
			if g.m.InBounds(c) {
				g.cells[c] = Visible
			}
		}
	}
	g.dirty = false
	g.recalcs++
}

// At returns the state of a hex. Out-of-bounds hexes are unseen.
func (g *Grid) At(c world.HexCoord) State {
	return g.cells[c]
}

// IsVisible reports whether a hex is currently in sight.
func (g *Grid) IsVisible(c world.HexCoord) bool {
	return g.cells[c] == Visible
}

// IsExplored reports whether a hex has ever been seen.
func (g *Grid) IsExplored(c world.HexCoord) bool {
	return g.cells[c] != Unseen
}

// Counts returns the number of hexes in each state.
func (g *Grid) Counts() (unseen, explored, visible int) {
	for _, s := range g.cells {
		switch s {
		case Explored:
			explored++
		case Visible:
			visible++
		}
	}
	unseen = g.m.HexCount() - explored - visible
	return unseen, explored, visible
}

// Recalculations returns how many rebuilds have run.
func (g *Grid) Recalculations() int {
	return g.recalcs
}
