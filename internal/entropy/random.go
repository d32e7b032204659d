// Package entropy provides the deterministic random streams a match draws
// from. Every subsystem gets its own stream derived from the match seed,
// so replaying a seed replays the match. A zero seed is replaced with one
// drawn from crypto/rand.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"hash/fnv"
	"log/slog"
	mrand "math/rand"
)

// Source hands out named random streams for one match.
type Source struct {
	seed    int64
	streams map[string]*mrand.Rand
}

// New creates a Source. A zero seed draws a fresh one.
func New(seed int64) *Source {
	if seed == 0 {
		seed = CryptoSeed()
		slog.Debug("drew match seed", "seed", seed)
	}
	return &Source{seed: seed, streams: make(map[string]*mrand.Rand)}
}

// Seed returns the match seed in use.
func (s *Source) Seed() int64 {
	return s.seed
}

// Stream returns the stream for a subsystem, creating it on first use.
func (s *Source) Stream(name string) *mrand.Rand {
	if r, ok := s.streams[name]; ok {
		return r
	}
	h := fnv.New64a()
	h.Write([]byte(name))
	r := mrand.New(mrand.NewSource(s.seed ^ int64(h.Sum64())))
	s.streams[name] = r
	return r
}

// CryptoSeed returns a non-zero seed from crypto/rand.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen; fall back to a fixed non-zero seed.
		return 1
	}
	n := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if n == 0 {
		n = 1
	}
	return n
}

// CryptoFloat returns a float in [0, 1) from crypto/rand, for callers
// that must not perturb the match streams.
func CryptoFloat() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}
