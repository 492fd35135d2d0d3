// Package rng supplies the uniformly distributed integers that drive daily
// price drift and news triggers.
package rng

import (
	"fmt"
	"math/rand"
	"time"
)

// Source returns a uniform integer in [0, n). *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// New returns a generator owned by the caller. A zero seed is replaced by the
// wall clock so interactive sessions differ run to run.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Sequence replays fixed draws in order. Each value is reduced modulo n so a
// script stays inside the requested range. It panics when exhausted, which
// in a test means the script is shorter than the number of draws made.
type Sequence struct {
	values []int
	next   int
}

// Script builds a Sequence from the given draws.
func Script(values ...int) *Sequence {
	return &Sequence{values: append([]int(nil), values...)}
}

// Intn implements Source.
func (s *Sequence) Intn(n int) int {
	if s.next >= len(s.values) {
		panic(fmt.Sprintf("rng: sequence exhausted after %d draws", len(s.values)))
	}
	v := s.values[s.next]
	s.next++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Append queues more draws.
func (s *Sequence) Append(values ...int) {
	s.values = append(s.values, values...)
}

// Remaining reports how many scripted draws are left.
func (s *Sequence) Remaining() int {
	return len(s.values) - s.next
}
