// Package dice provides the randomness abstraction for the battle engine.
// Every random decision in a battle (speed tie-breaks, accuracy rolls,
// forced random moves) draws from a single Source owned by that battle.
package dice

import "errors"

// ErrNotRestorable is returned when the stream position of a Source cannot
// be captured or restored.
var ErrNotRestorable = errors.New("dice: source is not restorable")

// Source is the randomness provider for a battle.
//
// Implementations are not required to be safe for concurrent use; a battle
// owns its Source exclusively.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float64 in [0.0, 1.0).
	Float64() float64
}

// Restorable is a Source whose stream position can be saved and resumed.
//
// Postcondition: after UnmarshalBinary(MarshalBinary()) the Source yields the
// same sequence it would have yielded at the time of MarshalBinary.
type Restorable interface {
	Source
	MarshalBinary() ([]byte, error)
	UnmarshalBinary(data []byte) error
}
