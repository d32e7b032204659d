// Package entity holds the mutable game state: ships, structures,
// projectiles, transient effects, and per-faction stockpiles.
//
// Entities live in generation-counted pools. A Handle names a slot and
// the generation it was issued for; once the entity is removed the slot
// generation advances, so stale handles resolve to nil instead of
// aliasing whatever reuses the slot.
package entity

import (
	"fmt"
	"iter"
)

// Handle is a stable reference into a Pool. The zero Handle is never valid.
type Handle struct {
	Index uint32 `json:"index"`
	Gen   uint32 `json:"gen"`
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h.Gen == 0
}

func (h Handle) String() string {
	return fmt.Sprintf("#%d.%d", h.Index, h.Gen)
}

// Kind identifies the pool a Ref points into.
type Kind uint8

const (
	KindNone Kind = iota
	KindShip
	KindPort
	KindSettlement
	KindTower
)

func (k Kind) String() string {
	switch k {
	case KindShip:
		return "ship"
	case KindPort:
		return "port"
	case KindSettlement:
		return "settlement"
	case KindTower:
		return "tower"
	default:
		return "none"
	}
}

// Ref is a cross-kind entity reference, used for targets and selection.
type Ref struct {
	Kind   Kind   `json:"kind"`
	Handle Handle `json:"handle"`
}

// IsZero reports whether r references nothing.
func (r Ref) IsZero() bool {
	return r.Kind == KindNone || r.Handle.IsZero()
}

func (r Ref) String() string {
	return r.Kind.String() + r.Handle.String()
}

// ShipRef and friends build typed references.
func ShipRef(h Handle) Ref       { return Ref{Kind: KindShip, Handle: h} }
func PortRef(h Handle) Ref       { return Ref{Kind: KindPort, Handle: h} }
func SettlementRef(h Handle) Ref { return Ref{Kind: KindSettlement, Handle: h} }
func TowerRef(h Handle) Ref      { return Ref{Kind: KindTower, Handle: h} }

type slot[T any] struct {
	gen uint32
	val *T
}

// Pool stores entities of one kind. Removed slots are reused with a
// bumped generation. Values are held by pointer so pointers returned by
// Get stay valid while the pool grows.
type Pool[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// Insert stores v and returns its handle and the stored pointer.
func (p *Pool[T]) Insert(v T) (Handle, *T) {
	ptr := new(T)
	*ptr = v
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		s := &p.slots[idx]
		s.gen++
		s.val = ptr
		p.live++
		return Handle{Index: idx, Gen: s.gen}, ptr
	}
	p.slots = append(p.slots, slot[T]{gen: 1, val: ptr})
	p.live++
	return Handle{Index: uint32(len(p.slots) - 1), Gen: 1}, ptr
}

// Get returns the entity for h, or nil if h is stale or zero.
func (p *Pool[T]) Get(h Handle) *T {
	if h.IsZero() || int(h.Index) >= len(p.slots) {
		return nil
	}
	s := p.slots[h.Index]
	if s.gen != h.Gen || s.val == nil {
		return nil
	}
	return s.val
}

// Alive reports whether h still resolves.
func (p *Pool[T]) Alive(h Handle) bool {
	return p.Get(h) != nil
}

// Remove deletes the entity for h. It returns true exactly once per
// inserted entity; removing a stale handle is a no-op.
func (p *Pool[T]) Remove(h Handle) bool {
	if p.Get(h) == nil {
		return false
	}
	p.slots[h.Index].val = nil
	p.free = append(p.free, h.Index)
	p.live--
	return true
}

// Len returns the number of live entities.
func (p *Pool[T]) Len() int {
	return p.live
}

// All iterates live entities in slot order. Entities removed during the
// iteration are skipped. Entities inserted during it are only visited if
// they reuse a freed slot not yet reached.
func (p *Pool[T]) All() iter.Seq2[Handle, *T] {
	return func(yield func(Handle, *T) bool) {
		n := len(p.slots)
		for i := 0; i < n; i++ {
			s := p.slots[i]
			if s.val == nil {
				continue
			}
			if !yield(Handle{Index: uint32(i), Gen: s.gen}, s.val) {
				return
			}
		}
	}
}
