// Combat: firing on assigned targets, projectile flight, hits, and
// destruction. Combat never picks targets itself.
package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/talgya/ironwake/internal/economy"
	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

const debrisPieces = 4

// updateCombat fires ready weapons and resolves projectiles in flight.
func (s *Simulation) updateCombat(dt float64) {
	if dt <= 0 {
		return
	}
	for h, sh := range s.Store.Ships.All() {
		sh.AttackCooldown = max(0, sh.AttackCooldown-dt)
		stats := sh.Stats()
		if !stats.Armed() || sh.AttackCooldown > 0 {
			continue
		}
		if sh.Orders.Mode != entity.ModeAttack && sh.Orders.Mode != entity.ModePatrol {
			continue
		}
		if s.fire(entity.ShipRef(h), sh.Owner, sh.Hex, sh.Orders.Target, stats.AttackRange, stats.Damage, false) {
			sh.AttackCooldown = stats.Cooldown
		}
	}
	for h, t := range s.Store.Towers.All() {
		t.Cooldown = max(0, t.Cooldown-dt)
		if !t.Operational() || t.Cooldown > 0 {
			continue
		}
		stats := t.Stats()
		if s.fire(entity.TowerRef(h), t.Owner, t.Hex, t.Target, stats.AttackRange, stats.Damage, true) {
			t.Cooldown = stats.Cooldown
		}
	}
	s.advanceProjectiles(dt)
}

// fire launches a projectile if the target is alive, hostile and in range.
func (s *Simulation) fire(src entity.Ref, owner social.Owner, from world.HexCoord, target entity.Ref, rng int, damage float64, deterministic bool) bool {
	e := s.Store.Lookup(target)
	if e == nil || !social.Hostile(owner, e.Faction()) || e.Condition().Dead() {
		return false
	}
	if world.Distance(from, e.Coord()) > rng {
		return false
	}
	s.Store.Projectiles = append(s.Store.Projectiles, entity.Projectile{
		From:          from,
		To:            e.Coord(),
		Duration:      s.Config.Combat.ProjectileTime,
		Source:        src,
		SourceOwner:   owner,
		Target:        target,
		Damage:        damage,
		Deterministic: deterministic,
	})
	s.Store.Sounds = append(s.Store.Sounds, entity.Sound{Kind: entity.SoundCannon, Hex: from})
	s.Stats.ShotsFired++
	return true
}

func (s *Simulation) advanceProjectiles(dt float64) {
	inFlight := s.Store.Projectiles
	s.Store.Projectiles = nil
	var kept []entity.Projectile
	for _, p := range inFlight {
		p.Progress += dt / p.Duration
		if p.Progress < 1 {
			kept = append(kept, p)
			continue
		}
		s.resolve(p)
	}
	s.Store.Projectiles = append(kept, s.Store.Projectiles...)
}

// resolve lands a projectile. Targets that moved away or died take no
// damage and the shot splashes where it was aimed.
func (s *Simulation) resolve(p entity.Projectile) {
	e := s.Store.Lookup(p.Target)
	if e == nil || e.Condition().Dead() {
		s.splash(p.To)
		return
	}
	hit := p.Deterministic || s.Rand.Stream("combat").Float64() < s.Config.Combat.HitChance
	if !hit {
		s.splash(p.To)
		return
	}

	hull := e.Condition()
	before := hull.Health
	hull.Damage(p.Damage)
	hull.HitFlash = s.Config.Combat.HitFlash
	s.Stats.ShotsHit++
	s.Store.Sounds = append(s.Store.Sounds, entity.Sound{Kind: entity.SoundHit, Hex: e.Coord()})
	s.Store.Floaters = append(s.Store.Floaters, entity.Floater{
		Hex:   e.Coord(),
		Text:  fmt.Sprintf("-%d", int(math.Round(before-hull.Health))),
		Owner: e.Faction(),
	})
	if hull.Dead() {
		s.destroy(p.Target, p.SourceOwner)
	}
}

func (s *Simulation) splash(at world.HexCoord) {
	s.Store.Splashes = append(s.Store.Splashes, entity.Effect{
		Hex:  at,
		Pos:  s.hexPixel(at),
		Life: s.Config.Combat.EffectLife,
	})
	s.Store.Sounds = append(s.Store.Sounds, entity.Sound{Kind: entity.SoundSplash, Hex: at})
}

// destroy removes a dead entity exactly once and leaves its wreckage.
func (s *Simulation) destroy(ref entity.Ref, killer social.Owner) {
	e := s.Store.Lookup(ref)
	if e == nil {
		return
	}
	at, owner := e.Coord(), e.Faction()
	name := ref.Kind.String()
	var cargo economy.Cargo
	if sh, ok := e.(*entity.Ship); ok {
		name = sh.Type.String()
		cargo = sh.Cargo
	}
	if ref.Kind == entity.KindPort {
		s.detachSettlements(ref.Handle)
	}
	if !s.Store.Remove(ref) {
		return
	}

	pos := s.hexPixel(at)
	life := s.Config.Combat.EffectLife
	s.Store.Explosions = append(s.Store.Explosions, entity.Effect{Hex: at, Pos: pos, Life: life})
	rng := s.Rand.Stream("effects")
	for range debrisPieces {
		angle := rng.Float64() * 2 * math.Pi
		speed := 10 + rng.Float64()*20
		s.Store.Debris = append(s.Store.Debris, entity.Effect{
			Hex:  at,
			Pos:  pos,
			Vel:  world.Point{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed},
			Life: life * 2,
		})
	}
	if !cargo.Empty() {
		s.Store.Loot = append(s.Store.Loot, entity.Loot{Hex: at, Cargo: cargo, Life: s.Config.Combat.LootLife})
	}
	s.Store.Sounds = append(s.Store.Sounds, entity.Sound{Kind: entity.SoundExplosion, Hex: at})

	if ref.Kind == entity.KindShip {
		s.Stats.ShipsLost[owner]++
	}
	s.Stats.Destroyed[killer]++
	s.markFogDirty(owner)
	s.logEvent("combat", "%s %s destroyed by %s at %v", owner, name, killer, at)
	slog.Info("entity destroyed", "kind", ref.Kind, "name", name, "owner", owner, "killer", killer, "hex", at)
}

// detachSettlements clears the port link of settlements that fed a port.
func (s *Simulation) detachSettlements(port entity.Handle) {
	for _, st := range s.Store.Settlements.All() {
		if st.Port == port {
			st.Port = entity.Handle{}
		}
	}
}
