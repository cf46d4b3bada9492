package effect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/botbattle/internal/game/effect"
)

func burning() *effect.Definition {
	return &effect.Definition{ID: "burning", Name: "Burning", Turns: 3, Polarity: effect.Negative, Torture: true, StandardPercent: -0.05}
}

func stun() *effect.Definition {
	return &effect.Definition{ID: "stun", Name: "Stun", Turns: 1, Polarity: effect.Negative, Control: true, SkipTurn: true}
}

func firewall() *effect.Definition {
	return &effect.Definition{ID: "firewall", Name: "Firewall", Turns: 2, Polarity: effect.Positive, BlockNegative: true}
}

func overcharge() *effect.Definition {
	return &effect.Definition{ID: "overcharge", Name: "Overcharge", Turns: 2, Polarity: effect.Positive, DamagePercent: 0.25}
}

func TestActiveSet_Apply_Adds(t *testing.T) {
	s := effect.NewActiveSet()
	require.True(t, s.Apply(burning(), false))
	assert.True(t, s.Has("burning"))
	assert.Equal(t, 3, s.TurnsLeft("burning"))
}

func TestActiveSet_Apply_SelfAddsOneTurn(t *testing.T) {
	s := effect.NewActiveSet()
	require.True(t, s.Apply(overcharge(), true))
	assert.Equal(t, 3, s.TurnsLeft("overcharge"))
}

func TestActiveSet_Apply_ReapplyResetsNotStacks(t *testing.T) {
	s := effect.NewActiveSet()
	def := burning()
	require.True(t, s.Apply(def, false))
	s.Tick()
	require.Equal(t, 2, s.TurnsLeft("burning"))
	require.True(t, s.Apply(def, false))
	assert.Equal(t, 3, s.TurnsLeft("burning"))
	assert.Equal(t, 1, s.Len())
}

func TestActiveSet_Apply_BlockNegativeRejectsNegative(t *testing.T) {
	s := effect.NewActiveSet()
	require.True(t, s.Apply(firewall(), false))
	assert.False(t, s.Apply(burning(), false), "negative effect must be rejected")
	assert.False(t, s.Has("burning"))
	assert.True(t, s.Apply(overcharge(), false), "positive effect must still apply")
}

func TestActiveSet_Apply_BlockAllRejectsEverything(t *testing.T) {
	s := effect.NewActiveSet()
	require.True(t, s.Apply(&effect.Definition{ID: "void", Name: "Void", Turns: 2, BlockAll: true}, false))
	assert.False(t, s.Apply(overcharge(), false))
	assert.False(t, s.Apply(burning(), false))
}

func TestActiveSet_Apply_BlockControlRemovesActiveControl(t *testing.T) {
	s := effect.NewActiveSet()
	require.True(t, s.Apply(stun(), false))
	require.True(t, s.Apply(burning(), false))
	stab := &effect.Definition{ID: "stabilizer", Name: "Stabilizer", Turns: 3, Polarity: effect.Positive, BlockControl: true}
	require.True(t, s.Apply(stab, false))
	assert.False(t, s.Has("stun"))
	assert.True(t, s.Has("burning"))
	assert.True(t, s.Has("stabilizer"))
	assert.False(t, s.Apply(stun(), false))
}

func TestActiveSet_Apply_BlockTortureRemovesActiveTorture(t *testing.T) {
	s := effect.NewActiveSet()
	require.True(t, s.Apply(burning(), false))
	sealed := &effect.Definition{ID: "sealed", Name: "Sealed", Turns: 3, Polarity: effect.Positive, BlockTorture: true}
	require.True(t, s.Apply(sealed, false))
	assert.False(t, s.Has("burning"))
}

func TestActiveSet_RemovePolarity(t *testing.T) {
	s := effect.NewActiveSet()
	require.True(t, s.Apply(burning(), false))
	require.True(t, s.Apply(stun(), false))
	require.True(t, s.Apply(overcharge(), false))
	removed := s.RemovePolarity(effect.Negative)
	assert.Len(t, removed, 2)
	assert.Equal(t, []string{"Overcharge"}, s.Names())
	assert.Equal(t, 1.25, s.Modifiers().OutgoingDamage)
}

func TestActiveSet_Tick_ExpiresAtZero(t *testing.T) {
	s := effect.NewActiveSet()
	require.True(t, s.Apply(stun(), false))
	expired := s.Tick()
	require.Len(t, expired, 1)
	assert.Equal(t, "stun", expired[0].ID)
	assert.False(t, s.Has("stun"))
}

func TestActiveSet_Tick_RecomputesModifiers(t *testing.T) {
	s := effect.NewActiveSet()
	def := overcharge()
	def.Turns = 1
	require.True(t, s.Apply(def, false))
	require.Equal(t, 1.25, s.Modifiers().OutgoingDamage)
	s.Tick()
	assert.Equal(t, 1.0, s.Modifiers().OutgoingDamage)
}

func TestActiveSet_ConsumeAbsorb(t *testing.T) {
	s := effect.NewActiveSet()
	assert.False(t, s.ConsumeAbsorb())
	require.True(t, s.Apply(&effect.Definition{ID: "ka", Name: "Kinetic Armor", Turns: 3, AbsorbNextHit: true}, false))
	assert.True(t, s.HasAbsorb())
	assert.True(t, s.ConsumeAbsorb())
	assert.False(t, s.Has("ka"))
	assert.False(t, s.ConsumeAbsorb())
}

func TestActiveSet_Clear(t *testing.T) {
	s := effect.NewActiveSet()
	require.True(t, s.Apply(firewall(), false))
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Modifiers().Immune(effect.GroupNegative))
}

func TestActiveSet_TurnStart_SumsAndOrs(t *testing.T) {
	s := effect.NewActiveSet()
	require.True(t, s.Apply(burning(), false))
	require.True(t, s.Apply(stun(), false))
	require.True(t, s.Apply(&effect.Definition{ID: "fire2", Name: "Fire 2", Turns: 2, StandardPercent: -0.05, EnergyPercent: 0.1}, false))
	ts := s.TurnStart()
	assert.InDelta(t, -0.1, ts.Standard, 1e-9)
	assert.InDelta(t, 0.1, ts.Energy, 1e-9)
	assert.True(t, ts.SkipTurn)
	assert.False(t, ts.RandomMove)
	assert.True(t, ts.ChangesHealth())
}

func TestActiveSet_Set_BypassesImmunity(t *testing.T) {
	s := effect.NewActiveSet()
	require.True(t, s.Apply(firewall(), false))
	s.Set(burning(), 2)
	assert.Equal(t, 2, s.TurnsLeft("burning"))
}

func TestPropertyActiveSet_TickNeverLeavesNonPositive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		turns := rapid.IntRange(1, 10).Draw(t, "turns")
		ticks := rapid.IntRange(1, 20).Draw(t, "ticks")
		s := effect.NewActiveSet()
		require.True(t, s.Apply(&effect.Definition{ID: "e", Name: "E", Turns: turns}, rapid.Bool().Draw(t, "self")))
		for i := 0; i < ticks; i++ {
			s.Tick()
		}
		for _, inst := range s.All() {
			assert.Greater(t, inst.TurnsLeft, 0, "an active effect must have turns left")
		}
	})
}

func TestPropertyActiveSet_ModifiersMatchRecompute(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		defs := []*effect.Definition{burning(), stun(), overcharge(), firewall()}
		s := effect.NewActiveSet()
		n := rapid.IntRange(0, 12).Draw(t, "ops")
		for i := 0; i < n; i++ {
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				s.Apply(defs[rapid.IntRange(0, len(defs)-1).Draw(t, "def")], false)
			case 1:
				s.Tick()
			case 2:
				s.RemovePolarity(effect.Polarity(rapid.IntRange(0, 1).Draw(t, "polarity")))
			}
		}
		all := s.All()
		ptrs := make([]*effect.Instance, len(all))
		for i := range all {
			ptrs[i] = &all[i]
		}
		assert.Equal(t, effect.Compute(ptrs), s.Modifiers())
	})
}
