package dice

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
)

// streamSalt decorrelates the PCG increment from the seed.
const streamSalt = 0x9e3779b97f4a7c15

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed in [0, n) for any n > 0.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand. It is used to pick
// seeds, never as a battle's own stream, because it cannot be replayed.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// Float64 returns a cryptographically secure random float64 in [0.0, 1.0).
func (c *cryptoSource) Float64() float64 {
	return float64(c.Intn(1<<53)) / (1 << 53)
}

// seededSource is a deterministic PCG stream.
type seededSource struct {
	pcg *mrand.PCG
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic Source for seed. Two sources built
// from the same seed produce identical sequences.
//
// Postcondition: the returned Source is Restorable.
func NewSeededSource(seed uint64) Restorable {
	pcg := mrand.NewPCG(seed, seed^streamSalt)
	return &seededSource{pcg: pcg, rng: mrand.New(pcg)}
}

// Intn returns a deterministic pseudo-random int in [0, n).
//
// Precondition: n > 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.rng.IntN(n)
}

// Float64 returns a deterministic pseudo-random float64 in [0.0, 1.0).
func (s *seededSource) Float64() float64 {
	return s.rng.Float64()
}

// MarshalBinary captures the current stream position.
func (s *seededSource) MarshalBinary() ([]byte, error) {
	return s.pcg.MarshalBinary()
}

// UnmarshalBinary resumes the stream from a position captured by MarshalBinary.
func (s *seededSource) UnmarshalBinary(data []byte) error {
	return s.pcg.UnmarshalBinary(data)
}
