package combat

import "math/rand/v2"

// Roller is the source of randomness for hit, critical, flee, and AI
// selection rolls. Injecting it keeps resolution deterministic under
// test while production code uses the shared math/rand source.
type Roller interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). n must be positive.
	IntN(n int) int
}

type randRoller struct{}

// NewRoller returns a Roller backed by math/rand.
func NewRoller() Roller {
	return randRoller{}
}

func (randRoller) Float64() float64 { return rand.Float64() }
func (randRoller) IntN(n int) int   { return rand.IntN(n) }

// SequenceRoller replays fixed sequences of rolls, cycling when
// exhausted. Intended for tests.
type SequenceRoller struct {
	Rolls []float64
	Ints  []int

	ri int
	ii int
}

func (s *SequenceRoller) Float64() float64 {
	if len(s.Rolls) == 0 {
		return 0
	}
	v := s.Rolls[s.ri%len(s.Rolls)]
	s.ri++
	return v
}

func (s *SequenceRoller) IntN(n int) int {
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[s.ii%len(s.Ints)] % n
	s.ii++
	return v
}
