package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/botbattle/internal/game/dice"
)

// TestCryptoSource_Intn_InRange verifies the postcondition:
// every value returned by Intn(6) is in [0, 6).
func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

// TestCryptoSource_Intn_PanicsOnZero verifies the precondition:
// Intn panics when called with n <= 0.
func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestCryptoSource_Float64_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSeededSource_SameSeedSameSequence(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(1000), b.Intn(1000))
		require.Equal(t, a.Float64(), b.Float64())
	}
}

func TestSeededSource_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
}

func TestSeededSource_RestoreResumesStream(t *testing.T) {
	src := dice.NewSeededSource(7)
	for i := 0; i < 13; i++ {
		src.Intn(10)
	}
	state, err := src.MarshalBinary()
	require.NoError(t, err)

	want := make([]int, 20)
	for i := range want {
		want[i] = src.Intn(1_000_000)
	}

	resumed := dice.NewSeededSource(999)
	require.NoError(t, resumed.UnmarshalBinary(state))
	for i := range want {
		assert.Equal(t, want[i], resumed.Intn(1_000_000), "draw %d", i)
	}
}

func TestLoggedSource_LogsEachDraw(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	src := dice.NewLoggedSource(dice.NewSeededSource(3), zap.New(core))
	v := src.Intn(6)
	_ = src.Float64()
	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "rng draw", entry.Message)
	assert.Equal(t, int64(v), entry.ContextMap()["result"])
}

func TestLoggedSource_NotRestorable(t *testing.T) {
	src := dice.NewLoggedSource(dice.NewCryptoSource(), zap.NewNop())
	_, err := src.MarshalBinary()
	assert.ErrorIs(t, err, dice.ErrNotRestorable)
	assert.ErrorIs(t, src.UnmarshalBinary(nil), dice.ErrNotRestorable)
}

func TestLoggedSource_DelegatesRestore(t *testing.T) {
	src := dice.NewLoggedSource(dice.NewSeededSource(11), zap.NewNop())
	state, err := src.MarshalBinary()
	require.NoError(t, err)
	first := src.Intn(100)
	require.NoError(t, src.UnmarshalBinary(state))
	assert.Equal(t, first, src.Intn(100))
}

func TestPropertySeededSource_IntnInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		n := rapid.IntRange(1, 1<<20).Draw(rt, "n")
		v := dice.NewSeededSource(seed).Intn(n)
		assert.GreaterOrEqual(rt, v, 0)
		assert.Less(rt, v, n)
	})
}
