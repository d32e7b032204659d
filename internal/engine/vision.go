package engine

import (
	"github.com/talgya/ironwake/internal/fog"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

// VisionSources lists every hex an owner sees from, with its range.
// Structures under construction see one hex around themselves.
func (s *Simulation) VisionSources(o social.Owner) []fog.Source {
	var out []fog.Source
	for _, sh := range s.Store.Ships.All() {
		if sh.Owner == o {
			out = append(out, fog.Source{Hex: sh.Hex, Range: sh.Stats().Vision})
		}
	}
	for _, p := range s.Store.Ports.All() {
		if p.Owner == o {
			out = append(out, fog.Source{Hex: p.Hex, Range: structureVision(p.Operational(), p.Stats().Vision)})
		}
	}
	for _, st := range s.Store.Settlements.All() {
		if st.Owner == o {
			out = append(out, fog.Source{Hex: st.Hex, Range: structureVision(st.Operational(), st.Stats().Vision)})
		}
	}
	for _, t := range s.Store.Towers.All() {
		if t.Owner == o {
			out = append(out, fog.Source{Hex: t.Hex, Range: structureVision(t.Operational(), t.Stats().Vision)})
		}
	}
	return out
}

func structureVision(operational bool, vision int) int {
	if !operational {
		return 1
	}
	return vision
}

// FogFor returns an owner's fog grid, or nil if the owner sees everything.
func (s *Simulation) FogFor(o social.Owner) *fog.Grid {
	return s.Fog[o]
}

// Visible reports whether an owner can currently see a hex. Owners
// without a fog grid see the whole map.
func (s *Simulation) Visible(o social.Owner, c world.HexCoord) bool {
	g := s.Fog[o]
	if g == nil {
		return s.Map.InBounds(c)
	}
	return g.IsVisible(c)
}

func (s *Simulation) markFogDirty(o social.Owner) {
	if g := s.Fog[o]; g != nil {
		g.MarkDirty()
	}
}

// updateFog runs the throttled recalculation for each grid. It uses real
// time so fog keeps settling while the match is paused.
func (s *Simulation) updateFog(real float64) {
	for o, g := range s.Fog {
		if !g.Dirty() {
			g.Update(real, nil)
			continue
		}
		g.Update(real, s.VisionSources(o))
	}
}
