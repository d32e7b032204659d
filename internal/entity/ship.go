package entity

import (
	"github.com/looplab/fsm"

	"github.com/talgya/ironwake/internal/economy"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

// Mode is the ship's current behaviour. Modes are mutually exclusive and
// each carries its own payload in Orders.
type Mode uint8

const (
	ModeIdle   Mode = iota // Resting, may auto-engage hostiles in range
	ModeMove               // Following a waypoint queue
	ModeTrade              // Automated trade route
	ModePatrol             // Looping through patrol points
	ModeAttack             // Pursuing and firing on a target
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeMove:
		return "move"
	case ModeTrade:
		return "trade"
	case ModePatrol:
		return "patrol"
	case ModeAttack:
		return "attack"
	default:
		return "unknown"
	}
}

// TradeLeg is the step of a trade cycle.
type TradeLeg uint8

const (
	LegToSource TradeLeg = iota
	LegLoading
	LegToDest
	LegUnloading
)

// TradeRoute links a source and destination port.
type TradeRoute struct {
	Source Handle   `json:"source"`
	Dest   Handle   `json:"dest"`
	Leg    TradeLeg `json:"leg"`
}

// PatrolRoute is a loop of water hexes.
type PatrolRoute struct {
	Points []world.HexCoord `json:"points"`
	Next   int              `json:"next"`
}

// Orders is a tagged union of ship behaviours. Only the payload for Mode
// is meaningful; Valid rejects any other combination.
type Orders struct {
	Mode   Mode         `json:"mode"`
	Trade  *TradeRoute  `json:"trade,omitempty"`
	Patrol *PatrolRoute `json:"patrol,omitempty"`
	Target Ref          `json:"target"` // Attack target, or a patrol's current engagement
	Hold   bool         `json:"hold"`   // Attack without pursuit
	Unload Handle       `json:"unload"` // Move: unload cargo at this port on arrival
}

// IdleOrders leaves a ship at rest.
func IdleOrders() Orders { return Orders{Mode: ModeIdle} }

// MoveOrders follows the waypoint queue.
func MoveOrders() Orders { return Orders{Mode: ModeMove} }

// UnloadOrders sails to a port and unloads all cargo there.
func UnloadOrders(port Handle) Orders { return Orders{Mode: ModeMove, Unload: port} }

// TradeOrders runs a route starting with the sail to the source port.
func TradeOrders(source, dest Handle) Orders {
	return Orders{Mode: ModeTrade, Trade: &TradeRoute{Source: source, Dest: dest}}
}

// PatrolOrders loops through points.
func PatrolOrders(points []world.HexCoord) Orders {
	pts := make([]world.HexCoord, len(points))
	copy(pts, points)
	return Orders{Mode: ModePatrol, Patrol: &PatrolRoute{Points: pts}}
}

// AttackOrders pursues and fires on target.
func AttackOrders(target Ref) Orders {
	return Orders{Mode: ModeAttack, Target: target}
}

// GuardOrders fires on a target in range without leaving station.
func GuardOrders(target Ref) Orders {
	return Orders{Mode: ModeAttack, Target: target, Hold: true}
}

// Valid reports whether the payload matches the mode.
func (o Orders) Valid() bool {
	if o.Mode != ModeMove && !o.Unload.IsZero() {
		return false
	}
	switch o.Mode {
	case ModeIdle, ModeMove:
		return o.Trade == nil && o.Patrol == nil && o.Target.IsZero() && !o.Hold
	case ModeTrade:
		return o.Trade != nil && o.Patrol == nil && o.Target.IsZero() &&
			!o.Trade.Source.IsZero() && !o.Trade.Dest.IsZero() && o.Trade.Source != o.Trade.Dest
	case ModePatrol:
		return o.Patrol != nil && o.Trade == nil && len(o.Patrol.Points) > 0 && !o.Hold
	case ModeAttack:
		return o.Trade == nil && o.Patrol == nil && !o.Target.IsZero()
	default:
		return false
	}
}

// DockState tracks a ship's claim on a port berth. A ship either waits
// for the berth, sails its last hexes to it, or transfers cargo there.
type DockState struct {
	Port         Handle  `json:"port"`
	Waiting      bool    `json:"waiting"` // Berth busy; retried every tick
	Transferring bool    `json:"transferring"`
	Loading      bool    `json:"loading"` // Transfer direction
	Progress     float64 `json:"progress"`
	Duration     float64 `json:"duration"`
}

// Active reports whether the ship holds or waits for a berth.
func (d *DockState) Active() bool {
	return !d.Port.IsZero()
}

// Busy reports whether the dock state pins the ship in place.
func (d *DockState) Busy() bool {
	return d.Waiting || d.Transferring
}

// PirateBrain is the per-pirate behaviour state.
type PirateBrain struct {
	FSM          *fsm.FSM       `json:"-"`
	Center       world.HexCoord `json:"center"`
	Target       Ref            `json:"target"`
	LastKnown    world.HexCoord `json:"last_known"`
	ThinkTimer   float64        `json:"think_timer"`
	IdleTimer    float64        `json:"idle_timer"`
	RetreatTimer float64        `json:"retreat_timer"`
}

// State returns the current FSM state name.
func (b *PirateBrain) State() string {
	if b == nil || b.FSM == nil {
		return ""
	}
	return b.FSM.Current()
}

// Ship is a vessel on the water.
type Ship struct {
	Hull
	Type      ShipType         `json:"type"`
	Owner     social.Owner     `json:"owner"`
	Hex       world.HexCoord   `json:"hex"`
	Pos       world.Point      `json:"pos"`     // Pixel position
	Heading   float64          `json:"heading"` // Radians
	Frame     float64          `json:"frame"`   // Animation phase
	Cargo     economy.Cargo    `json:"cargo"`
	Waypoints []world.HexCoord `json:"waypoints"`
	Path      []world.HexCoord `json:"path"` // Remaining nodes, excluding Hex
	Orders    Orders           `json:"orders"`
	Dock      DockState        `json:"dock"`
	Brain     *PirateBrain     `json:"brain,omitempty"`

	AttackCooldown float64 `json:"attack_cooldown"`
	RepathTimer    float64 `json:"repath_timer"` // Blocked: wait before retrying
}

func (s *Ship) Coord() world.HexCoord { return s.Hex }
func (s *Ship) Faction() social.Owner { return s.Owner }

// Stats returns the ship's stat block.
func (s *Ship) Stats() ShipStats {
	return StatsFor(s.Type)
}

// CargoSpace returns the remaining cargo capacity.
func (s *Ship) CargoSpace() int {
	return s.Cargo.Space(s.Stats().Cargo)
}

// Moving reports whether the ship has somewhere to go.
func (s *Ship) Moving() bool {
	return len(s.Path) > 0 || len(s.Waypoints) > 0
}

// Stationary reports whether the ship occupies its hex for obstruction
// purposes.
func (s *Ship) Stationary() bool {
	return len(s.Path) == 0
}

// SetOrders replaces the ship's orders if they are valid. Movement state
// belonging to the old orders is cleared.
func (s *Ship) SetOrders(o Orders) bool {
	if !o.Valid() {
		return false
	}
	s.Orders = o
	s.Path = nil
	s.Waypoints = nil
	s.RepathTimer = 0
	return true
}

// Stop clears all movement and leaves the ship idle.
func (s *Ship) Stop() {
	s.Orders = IdleOrders()
	s.Path = nil
	s.Waypoints = nil
	s.RepathTimer = 0
}
