// Construction: structure builds and upgrades, and port ship queues.
package engine

import (
	"log/slog"

	"github.com/talgya/ironwake/internal/entity"
)

// buildEpsilon absorbs float drift when split steps sum to the build time.
const buildEpsilon = 1e-6

// updateConstruction advances every construction record and build queue.
func (s *Simulation) updateConstruction(dt float64) {
	if dt <= 0 {
		return
	}
	for h, p := range s.Store.Ports.All() {
		if c := p.Construction; c != nil {
			c.Progress += dt
			if c.Remaining() <= buildEpsilon {
				s.finishPort(h, p)
			}
		}
		if p.Operational() {
			s.advanceQueue(h, p, dt)
		}
	}
	for _, st := range s.Store.Settlements.All() {
		if c := st.Construction; c != nil {
			c.Progress += dt
			if c.Remaining() <= buildEpsilon {
				s.finishSettlement(st)
			}
		}
	}
	for _, t := range s.Store.Towers.All() {
		if c := t.Construction; c != nil {
			c.Progress += dt
			if c.Remaining() <= buildEpsilon {
				s.finishTower(t)
			}
		}
	}
}

// upgradeHealth raises MaxHealth to the new tier, keeping damage taken.
func upgradeHealth(hull *entity.Hull, newMax float64) {
	missing := hull.Missing()
	hull.MaxHealth = newMax
	hull.Health = max(0, newMax-missing)
}

func (s *Simulation) finishPort(h entity.Handle, p *entity.Port) {
	c := p.Construction
	p.Construction = nil
	if c.Upgrade {
		p.Tier = entity.PortTier(c.UpgradeTier)
		upgradeHealth(&p.Hull, p.Stats().Health)
		s.logEvent("build", "%s port at %v upgraded to %s", p.Owner, p.Hex, p.Tier)
	} else {
		s.logEvent("build", "%s completed a %s at %v", p.Owner, p.Tier, p.Hex)
	}
	s.Store.Sounds = append(s.Store.Sounds, entity.Sound{Kind: entity.SoundBuilt, Hex: p.Hex})
	s.markFogDirty(p.Owner)
	slog.Debug("port finished", "port", h, "owner", p.Owner, "tier", p.Tier, "upgrade", c.Upgrade)
}

func (s *Simulation) finishSettlement(st *entity.Settlement) {
	c := st.Construction
	st.Construction = nil
	if c.Upgrade {
		st.Tier = entity.SettlementTier(c.UpgradeTier)
		upgradeHealth(&st.Hull, st.Stats().Health)
		s.logEvent("build", "%s village at %v grew into a %s", st.Owner, st.Hex, st.Tier)
	} else {
		s.logEvent("build", "%s founded a %s at %v", st.Owner, st.Tier, st.Hex)
	}
	s.Store.Sounds = append(s.Store.Sounds, entity.Sound{Kind: entity.SoundBuilt, Hex: st.Hex})
	s.markFogDirty(st.Owner)
}

func (s *Simulation) finishTower(t *entity.Tower) {
	c := t.Construction
	t.Construction = nil
	if c.Upgrade {
		t.Tier = entity.TowerTier(c.UpgradeTier)
		upgradeHealth(&t.Hull, t.Stats().Health)
		s.logEvent("build", "%s tower at %v fortified into a %s", t.Owner, t.Hex, t.Tier)
	} else {
		s.logEvent("build", "%s raised a %s at %v", t.Owner, t.Tier, t.Hex)
	}
	s.Store.Sounds = append(s.Store.Sounds, entity.Sound{Kind: entity.SoundBuilt, Hex: t.Hex})
	s.markFogDirty(t.Owner)
}

// advanceQueue feeds dt into the head of the build queue. Time left over
// after a ship completes carries into the next item, so one long step
// and several short ones finish the same ships.
func (s *Simulation) advanceQueue(h entity.Handle, p *entity.Port, dt float64) {
	budget := dt
	for budget > 0 && len(p.Queue) > 0 {
		head := &p.Queue[0]
		need := head.BuildTime - head.Progress
		if budget < need-buildEpsilon {
			head.Progress += budget
			return
		}
		head.Progress = head.BuildTime
		if !s.launchShip(h, p, head.Ship) {
			// Every berth hex is taken; hold the finished ship.
			return
		}
		budget -= max(need, 0)
		p.Queue = p.Queue[1:]
	}
}

// launchShip spawns a finished ship at the port's dock hex, or the
// nearest free water if a ship sits there.
func (s *Simulation) launchShip(h entity.Handle, p *entity.Port, t entity.ShipType) bool {
	hex, ok := s.freeWaterNear(p.DockHex, 3)
	if !ok {
		return false
	}
	sh, _ := s.spawnShip(t, p.Owner, hex)
	s.Stats.ShipsBuilt[p.Owner]++
	s.Store.Sounds = append(s.Store.Sounds, entity.Sound{Kind: entity.SoundBuilt, Hex: hex})
	s.logEvent("build", "%s launched a %s from %v", p.Owner, t, p.Hex)
	slog.Debug("ship launched", "port", h, "ship", sh, "type", t, "owner", p.Owner)
	return true
}
