package gacha

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource yields independent uniform values in [0, 1).

type RandomSource interface {
	Float64() float64
}

// crypto random : default source when callers pass nil
type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	// Read 53 bits => [0, 1)
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		// back to math/rand/v2
		return rand.Float64()
	}

	u := binary.BigEndian.Uint64(buf[:]) >> 11 // 53 bits
	return float64(u) / (1 << 53)
}

func DefaultRNG() RandomSource { return cryptoRNG{} }

// Replicable RNG for simulation runs
type seededRNG struct{ r *rand.Rand }

func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 { return s.r.Float64() }

// sequenceRNG plays back a fixed list of values, cycling once exhausted.
// Deterministic stand-in for tests that need exact draw outcomes.
type sequenceRNG struct {
	vals []float64
	next int
}

// NewSequenceRNG returns a playback source over vals. Empty vals degrade
// to a constant 0.5 source so Float64 never indexes an empty slice.
func NewSequenceRNG(vals ...float64) RandomSource {
	if len(vals) == 0 {
		vals = []float64{0.5}
	}
	return &sequenceRNG{vals: vals}
}

func (s *sequenceRNG) Float64() float64 {
	v := s.vals[s.next]
	s.next = (s.next + 1) % len(s.vals)
	return v
}
