// Package entropy provides the deterministic random stream shared by the whole park.
// Every stochastic decision in a tick draws from one Stream so that a saved park
// replays identically after load.
package entropy

import (
	"fmt"
	"math/rand/v2"
)

// Stream is the park-wide random number stream.
// It is not safe for concurrent use; the simulation is single-threaded.
type Stream struct {
	src *rand.PCG
}

// NewStream creates a stream from a scenario seed.
func NewStream(seed uint64) *Stream {
	return &Stream{src: rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)}
}

// Next returns the next 32 random bits.
func (s *Stream) Next() uint32 {
	return uint32(s.src.Uint64() >> 32)
}

// Intn returns a value in [0, n). Returns 0 when n <= 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(uint64(s.Next()) * uint64(n) >> 32)
}

// Chance reports true with probability 1/outOf.
func (s *Stream) Chance(outOf int) bool {
	return s.Intn(outOf) == 0
}

// Percent reports true with probability pct/100.
func (s *Stream) Percent(pct int) bool {
	return s.Intn(100) < pct
}

// MarshalBinary captures the stream position for save state.
func (s *Stream) MarshalBinary() ([]byte, error) {
	return s.src.MarshalBinary()
}

// UnmarshalBinary restores a stream position captured by MarshalBinary.
func (s *Stream) UnmarshalBinary(data []byte) error {
	if s.src == nil {
		s.src = rand.NewPCG(0, 0)
	}
	if err := s.src.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("restore random stream: %w", err)
	}
	return nil
}
