package entity

import (
	"github.com/talgya/ironwake/internal/economy"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

// BuildKind is the structure an input layer is placing in build mode.
type BuildKind uint8

const (
	BuildNone BuildKind = iota
	BuildPort
	BuildSettlement
	BuildTower
)

func (k BuildKind) String() string {
	switch k {
	case BuildPort:
		return "port"
	case BuildSettlement:
		return "settlement"
	case BuildTower:
		return "tower"
	}
	return "none"
}

// Selection is the player's current selection.
type Selection struct {
	Ships     []Handle `json:"ships"`
	Structure Ref      `json:"structure"`
}

// Store owns every entity collection. Systems mutate it in place, one at
// a time, during a tick.
type Store struct {
	Ships       Pool[Ship]
	Ports       Pool[Port]
	Settlements Pool[Settlement]
	Towers      Pool[Tower]

	Projectiles []Projectile
	Explosions  []Effect
	Debris      []Effect
	Splashes    []Effect
	Loot        []Loot
	Floaters    []Floater
	Sounds      []Sound

	Stockpiles map[social.Owner]*economy.Stockpile

	Selection  Selection
	BuildMode  BuildKind
	PatrolMode bool

	structures map[world.HexCoord]Ref
}

// NewStore creates an empty store with a stockpile for each listed owner.
func NewStore(owners ...social.Owner) *Store {
	s := &Store{
		Stockpiles: make(map[social.Owner]*economy.Stockpile, len(owners)),
		structures: make(map[world.HexCoord]Ref),
	}
	for _, o := range owners {
		s.Stockpiles[o] = &economy.Stockpile{}
	}
	return s
}

// Stockpile returns the owner's stockpile, or nil for factions without one.
func (s *Store) Stockpile(o social.Owner) *economy.Stockpile {
	return s.Stockpiles[o]
}

// AddShip inserts a ship.
func (s *Store) AddShip(sh Ship) (Handle, *Ship) {
	return s.Ships.Insert(sh)
}

// AddPort inserts a port and claims its hex.
func (s *Store) AddPort(p Port) (Handle, *Port) {
	h, ptr := s.Ports.Insert(p)
	s.structures[p.Hex] = PortRef(h)
	return h, ptr
}

// AddSettlement inserts a settlement and claims its hex.
func (s *Store) AddSettlement(st Settlement) (Handle, *Settlement) {
	h, ptr := s.Settlements.Insert(st)
	s.structures[st.Hex] = SettlementRef(h)
	return h, ptr
}

// AddTower inserts a tower and claims its hex.
func (s *Store) AddTower(t Tower) (Handle, *Tower) {
	h, ptr := s.Towers.Insert(t)
	s.structures[t.Hex] = TowerRef(h)
	return h, ptr
}

// StructureAt returns the structure occupying a land hex.
func (s *Store) StructureAt(c world.HexCoord) (Ref, bool) {
	r, ok := s.structures[c]
	return r, ok
}

// Lookup resolves a reference, returning nil for stale or zero refs.
func (s *Store) Lookup(r Ref) Entity {
	switch r.Kind {
	case KindShip:
		if sh := s.Ships.Get(r.Handle); sh != nil {
			return sh
		}
	case KindPort:
		if p := s.Ports.Get(r.Handle); p != nil {
			return p
		}
	case KindSettlement:
		if st := s.Settlements.Get(r.Handle); st != nil {
			return st
		}
	case KindTower:
		if t := s.Towers.Get(r.Handle); t != nil {
			return t
		}
	}
	return nil
}

// Alive reports whether a reference still resolves.
func (s *Store) Alive(r Ref) bool {
	return s.Lookup(r) != nil
}

// Remove deletes the referenced entity and releases what it held. It
// returns true exactly once per entity.
func (s *Store) Remove(r Ref) bool {
	e := s.Lookup(r)
	if e == nil {
		return false
	}
	switch r.Kind {
	case KindShip:
		sh := e.(*Ship)
		if p := s.Ports.Get(sh.Dock.Port); p != nil && p.Docked == r.Handle {
			p.Docked = Handle{}
		}
		s.deselectShip(r.Handle)
		return s.Ships.Remove(r.Handle)
	case KindPort:
		delete(s.structures, e.Coord())
		if s.Selection.Structure == r {
			s.Selection.Structure = Ref{}
		}
		return s.Ports.Remove(r.Handle)
	case KindSettlement:
		delete(s.structures, e.Coord())
		if s.Selection.Structure == r {
			s.Selection.Structure = Ref{}
		}
		return s.Settlements.Remove(r.Handle)
	case KindTower:
		delete(s.structures, e.Coord())
		if s.Selection.Structure == r {
			s.Selection.Structure = Ref{}
		}
		return s.Towers.Remove(r.Handle)
	}
	return false
}

func (s *Store) deselectShip(h Handle) {
	kept := s.Selection.Ships[:0]
	for _, sel := range s.Selection.Ships {
		if sel != h {
			kept = append(kept, sel)
		}
	}
	s.Selection.Ships = kept
}

// ShipAt returns a stationary ship on a hex other than skip.
func (s *Store) ShipAt(c world.HexCoord, skip Handle) (Handle, *Ship, bool) {
	for h, sh := range s.Ships.All() {
		if h != skip && sh.Hex == c && sh.Stationary() {
			return h, sh, true
		}
	}
	return Handle{}, nil, false
}

// PortAtDock returns the port served by a water hex.
func (s *Store) PortAtDock(c world.HexCoord) (Handle, *Port, bool) {
	for h, p := range s.Ports.All() {
		if p.DockHex == c {
			return h, p, true
		}
	}
	return Handle{}, nil, false
}

// HomePort returns the owner's home port.
func (s *Store) HomePort(o social.Owner) (Handle, *Port, bool) {
	for h, p := range s.Ports.All() {
		if p.Owner == o && p.IsHome {
			return h, p, true
		}
	}
	return Handle{}, nil, false
}

// DrainSounds returns and clears the pending sound events.
func (s *Store) DrainSounds() []Sound {
	out := s.Sounds
	s.Sounds = nil
	return out
}

// DrainFloaters returns and clears the pending floating numbers.
func (s *Store) DrainFloaters() []Floater {
	out := s.Floaters
	s.Floaters = nil
	return out
}

// Counts holds one faction's remaining assets.
type Counts struct {
	Ships       int `json:"ships"`
	Ports       int `json:"ports"`
	Settlements int `json:"settlements"`
	Towers      int `json:"towers"`
}

// Total returns the number of assets.
func (c Counts) Total() int {
	return c.Ships + c.Ports + c.Settlements + c.Towers
}

// Structures returns the number of structures.
func (c Counts) Structures() int {
	return c.Ports + c.Settlements + c.Towers
}

// Eliminated reports whether the faction has neither ports nor ships,
// leaving it unable to build or fight.
func (c Counts) Eliminated() bool {
	return c.Ports == 0 && c.Ships == 0
}

// CountOwned tallies the entities an owner still has.
func (s *Store) CountOwned(o social.Owner) Counts {
	var c Counts
	for _, sh := range s.Ships.All() {
		if sh.Owner == o {
			c.Ships++
		}
	}
	for _, p := range s.Ports.All() {
		if p.Owner == o {
			c.Ports++
		}
	}
	for _, st := range s.Settlements.All() {
		if st.Owner == o {
			c.Settlements++
		}
	}
	for _, t := range s.Towers.All() {
		if t.Owner == o {
			c.Towers++
		}
	}
	return c
}
