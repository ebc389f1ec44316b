// Package random provides the seeded, replayable random source used by
// event commands.
//
// Every draw is counted. A Source restored from State{Seed, Draws} replays
// the same underlying stream and produces the same future values, which is
// what save games and rewind rely on.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// State is the persisted form of a Source
type State struct {
	Seed  int64  `json:"seed"`
	Draws uint64 `json:"draws"`
}

// countingSource wraps PCG and counts the raw values drawn from it
type countingSource struct {
	pcg   *rand.PCG
	draws uint64
}

func (c *countingSource) Uint64() uint64 {
	c.draws++
	return c.pcg.Uint64()
}

// Source is a deterministic random source
type Source struct {
	seed int64
	src  *countingSource
	rng  *rand.Rand
}

// New creates a source from seed
func New(seed int64) *Source {
	src := &countingSource{pcg: rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)}
	return &Source{seed: seed, src: src, rng: rand.New(src)}
}

// Restore recreates a source and replays its draws
func Restore(st State) *Source {
	s := New(st.Seed)
	for s.src.draws < st.Draws {
		s.src.Uint64()
	}
	return s
}

// Intn returns a value in [0, n). n <= 0 yields 0 without drawing.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.IntN(n)
}

// State returns the seed and draw count
func (s *Source) State() State {
	return State{Seed: s.seed, Draws: s.src.draws}
}

// Reset moves s to st in place, so holders of s follow the change
func (s *Source) Reset(st State) {
	*s = *Restore(st)
}
