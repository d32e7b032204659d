// Simulation ties together all match systems and runs them each tick.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/ironwake/internal/config"
	"github.com/talgya/ironwake/internal/entity"
	"github.com/talgya/ironwake/internal/entropy"
	"github.com/talgya/ironwake/internal/fog"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

// MaxEvents bounds the in-memory event log.
const MaxEvents = 1000

// Controller is an AI client issuing commands for one faction. It goes
// through the same command API as the input layer.
type Controller interface {
	Owner() social.Owner
	Think(s *Simulation, dt float64)
}

// Simulation holds the complete match state and wires systems together.
// It is single-writer: exactly one goroutine calls Update and the command
// methods.
type Simulation struct {
	Config   *config.Scenario
	Map      *world.Map
	Store    *entity.Store
	Factions []*social.Faction
	Fog      map[social.Owner]*fog.Grid
	Rand     *entropy.Source

	Controllers []Controller
	Events      []Event // Recent events, trimmed to MaxEvents

	Tick     uint64  // Updates processed
	Time     float64 // Scaled simulation seconds
	RealTime float64 // Unscaled seconds

	Stats MatchStats

	respawn respawnState
}

// Event is a notable occurrence in the match.
type Event struct {
	Tick        uint64  `json:"tick" db:"tick"`
	Time        float64 `json:"time" db:"time"`
	Description string  `json:"description" db:"description"`
	Category    string  `json:"category" db:"category"` // "combat", "build", "economy", "pirate", "ai", "match"
}

// MatchStats tracks aggregate counters.
type MatchStats struct {
	ShipsBuilt     map[social.Owner]int `json:"ships_built"`
	ShipsLost      map[social.Owner]int `json:"ships_lost"`
	Destroyed      map[social.Owner]int `json:"destroyed"` // Kills credited to the shooter
	ShotsFired     int                  `json:"shots_fired"`
	ShotsHit       int                  `json:"shots_hit"`
	PiratesSpawned int                  `json:"pirates_spawned"`
	Waves          int                  `json:"waves"`
	TradeUnits     map[social.Owner]int `json:"trade_units"`
}

// NewSimulation validates the scenario, generates the map and sets up
// every faction's start. Malformed scenarios fail here.
func NewSimulation(cfg *config.Scenario) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	src := entropy.New(cfg.Seed)

	gen := world.DefaultGenConfig()
	gen.Width = cfg.Map.Width
	gen.Height = cfg.Map.Height
	gen.Seed = src.Seed()
	gen.VersusMode = cfg.Versus
	if cfg.Map.SeaLevel > 0 {
		gen.SeaLevel = cfg.Map.SeaLevel
	}
	if cfg.Map.MinStartDistance > 0 {
		gen.MinStartDistance = cfg.Map.MinStartDistance
	}
	m, err := world.Generate(gen)
	if err != nil {
		return nil, fmt.Errorf("generate map: %w", err)
	}
	return NewSimulationWithMap(cfg, m, src)
}

// NewSimulationWithMap builds a match on an existing map. Every faction
// with a start slot needs a start position on the map.
func NewSimulationWithMap(cfg *config.Scenario, m *world.Map, src *entropy.Source) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = entropy.New(cfg.Seed)
	}

	factions := social.SeedFactions(cfg.Versus)
	var owners []social.Owner
	for _, f := range factions {
		if f.Kind != social.KindPirate {
			owners = append(owners, f.Owner)
		}
	}

	s := &Simulation{
		Config:   cfg,
		Map:      m,
		Store:    entity.NewStore(owners...),
		Factions: factions,
		Fog:      make(map[social.Owner]*fog.Grid),
		Rand:     src,
		Stats: MatchStats{
			ShipsBuilt: make(map[social.Owner]int),
			ShipsLost:  make(map[social.Owner]int),
			Destroyed:  make(map[social.Owner]int),
			TradeUnits: make(map[social.Owner]int),
		},
	}
	if err := s.initFactions(); err != nil {
		return nil, err
	}
	s.recomputeCrew()
	for o, g := range s.Fog {
		g.Recalculate(s.VisionSources(o))
	}

	terrain := m.TerrainCounts()
	slog.Info("match created",
		"seed", src.Seed(),
		"versus", cfg.Versus,
		"map", m.String(),
		"islands", len(m.Islands),
		"land", terrain[world.TerrainLand],
	)
	s.logEvent("match", "Match begins on %s", m.String())
	return s, nil
}

// AddController registers an AI controller.
func (s *Simulation) AddController(c Controller) {
	s.Controllers = append(s.Controllers, c)
}

// Faction returns the faction for an owner.
func (s *Simulation) Faction(o social.Owner) *social.Faction {
	for _, f := range s.Factions {
		if f.Owner == o {
			return f
		}
	}
	return nil
}

// Update advances the match by dt seconds of real time. Systems receive
// dt scaled by the time scale; cosmetic timers and the fog throttle use
// dt unscaled so they keep running while paused.
func (s *Simulation) Update(dt float64) {
	if dt <= 0 {
		return
	}
	s.Tick++
	s.RealTime += dt
	sdt := dt * s.Config.TimeScale
	s.Time += sdt

	s.updateMovement(sdt)
	s.updateAI(sdt)
	s.updateCombat(sdt)
	s.updateConstruction(sdt)
	s.updateProduction(sdt)
	s.updateRepair(sdt)
	s.updateRespawn(sdt)
	s.updateFog(dt)
	s.ageEffects(dt, sdt)

	if len(s.Events) > MaxEvents {
		s.Events = s.Events[len(s.Events)-MaxEvents:]
	}
}

// updateAI runs controllers, pirate brains and automatic targeting.
func (s *Simulation) updateAI(dt float64) {
	if dt <= 0 {
		return
	}
	for _, c := range s.Controllers {
		c.Think(s, dt)
	}
	s.updatePirates(dt)
	s.updateTargeting()
}

// ageEffects advances transient visual records and hit flashes.
func (s *Simulation) ageEffects(real, dt float64) {
	st := s.Store
	st.Explosions = ageSlice(st.Explosions, real)
	st.Debris = ageSlice(st.Debris, real)
	st.Splashes = ageSlice(st.Splashes, real)

	for i := range st.Debris {
		d := &st.Debris[i]
		d.Pos.X += d.Vel.X * real
		d.Pos.Y += d.Vel.Y * real
	}

	kept := st.Loot[:0]
	for _, l := range st.Loot {
		l.Age += dt
		if l.Age < l.Life && !l.Cargo.Empty() {
			kept = append(kept, l)
		}
	}
	st.Loot = kept

	for _, sh := range st.Ships.All() {
		sh.Frame += real
		sh.HitFlash = max(0, sh.HitFlash-real)
	}
	for _, p := range st.Ports.All() {
		p.HitFlash = max(0, p.HitFlash-real)
	}
	for _, se := range st.Settlements.All() {
		se.HitFlash = max(0, se.HitFlash-real)
	}
	for _, t := range st.Towers.All() {
		t.HitFlash = max(0, t.HitFlash-real)
	}
}

func ageSlice(effects []entity.Effect, dt float64) []entity.Effect {
	kept := effects[:0]
	for _, e := range effects {
		e.Age += dt
		if !e.Expired() {
			kept = append(kept, e)
		}
	}
	return kept
}

// logEvent records a notable event.
func (s *Simulation) logEvent(category, format string, args ...any) {
	s.Events = append(s.Events, Event{
		Tick:        s.Tick,
		Time:        s.Time,
		Description: fmt.Sprintf(format, args...),
		Category:    category,
	})
}

// hexPixel returns the pixel centre of a hex at the configured size.
func (s *Simulation) hexPixel(c world.HexCoord) world.Point {
	return world.HexToPixel(c, s.Config.HexSize)
}
