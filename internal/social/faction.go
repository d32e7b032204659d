// Package social defines the factions contesting the archipelago.
package social

// Owner identifies the faction controlling an entity.
type Owner uint8

const (
	OwnerPlayer Owner = iota
	OwnerAI1
	OwnerAI2
	OwnerPirate
)

// Owners lists every faction in slot order.
var Owners = [...]Owner{OwnerPlayer, OwnerAI1, OwnerAI2, OwnerPirate}

// FactionKind categorizes who drives a faction.
type FactionKind uint8

const (
	KindHuman  FactionKind = iota // Commands arrive from the input layer
	KindAI                        // Driven by an AI opponent controller
	KindPirate                    // Per-ship pirate brains, no stockpile
)

// Faction is a participant in a match.
type Faction struct {
	Owner    Owner       `json:"owner"`
	Name     string      `json:"name"`
	Kind     FactionKind `json:"kind"`
	Slot     int         `json:"slot"`               // Start position slot, -1 for pirates
	Strategy string      `json:"strategy,omitempty"` // AI strategy name
}

// String returns the short faction name used in logs.
func (o Owner) String() string {
	switch o {
	case OwnerPlayer:
		return "player"
	case OwnerAI1:
		return "ai1"
	case OwnerAI2:
		return "ai2"
	case OwnerPirate:
		return "pirate"
	default:
		return "unknown"
	}
}

// IsAI reports whether the owner is an AI opponent.
func (o Owner) IsAI() bool {
	return o == OwnerAI1 || o == OwnerAI2
}

// Hostile reports whether two factions fight each other. Every distinct
// pair of factions is at war; nobody attacks their own side.
func Hostile(a, b Owner) bool {
	return a != b
}

// SeedFactions creates the factions for a match. Single-player matches
// pit the player against pirates; versus adds two AI opponents.
func SeedFactions(versus bool) []*Faction {
	factions := []*Faction{
		{Owner: OwnerPlayer, Name: "Wardens of the Reach", Kind: KindHuman, Slot: 0},
	}
	if versus {
		factions = append(factions,
			&Faction{Owner: OwnerAI1, Name: "Saltmarch Company", Kind: KindAI, Slot: 1},
			&Faction{Owner: OwnerAI2, Name: "Ember Isles Compact", Kind: KindAI, Slot: 2},
		)
	}
	factions = append(factions, &Faction{Owner: OwnerPirate, Name: "Blackwater Brethren", Kind: KindPirate, Slot: -1})
	return factions
}
