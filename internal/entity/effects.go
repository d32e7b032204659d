package entity

import (
	"github.com/talgya/ironwake/internal/economy"
	"github.com/talgya/ironwake/internal/social"
	"github.com/talgya/ironwake/internal/world"
)

// Projectile is a shot in flight. It resolves when Progress reaches 1.
type Projectile struct {
	From          world.HexCoord `json:"from"`
	To            world.HexCoord `json:"to"`
	Progress      float64        `json:"progress"` // 0..1
	Duration      float64        `json:"duration"` // Seconds of flight
	Source        Ref            `json:"source"`
	SourceOwner   social.Owner   `json:"source_owner"`
	Target        Ref            `json:"target"`
	Damage        float64        `json:"damage"`
	Deterministic bool           `json:"deterministic"` // Always hits
}

// Effect is a short-lived visual record consumed by the renderer.
type Effect struct {
	Hex  world.HexCoord `json:"hex"`
	Pos  world.Point    `json:"pos"`
	Vel  world.Point    `json:"vel"` // Debris drift, pixels per second
	Age  float64        `json:"age"`
	Life float64        `json:"life"`
}

// Expired reports whether the effect outlived its lifetime.
func (e *Effect) Expired() bool {
	return e.Age >= e.Life
}

// Loot is cargo floating at a death site until collected or expired.
type Loot struct {
	Hex   world.HexCoord `json:"hex"`
	Cargo economy.Cargo  `json:"cargo"`
	Age   float64        `json:"age"`
	Life  float64        `json:"life"`
}

// Floater is a floating-number event, e.g. "+5 wood" over a settlement.
type Floater struct {
	Hex   world.HexCoord `json:"hex"`
	Text  string         `json:"text"`
	Owner social.Owner   `json:"owner"`
}

// SoundKind names an audio cue.
type SoundKind string

const (
	SoundCannon    SoundKind = "cannon"
	SoundHit       SoundKind = "hit"
	SoundSplash    SoundKind = "splash"
	SoundExplosion SoundKind = "explosion"
	SoundBuilt     SoundKind = "built"
)

// Sound is an audio cue at a hex. The audio layer decides whether the
// hex is audible using the fog grid.
type Sound struct {
	Kind SoundKind      `json:"kind"`
	Hex  world.HexCoord `json:"hex"`
}
