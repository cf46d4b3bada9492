package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/botbattle/internal/game/unit"
)

// zeroSrc always draws the low outcome.
type zeroSrc struct{}

func (zeroSrc) Intn(int) int     { return 0 }
func (zeroSrc) Float64() float64 { return 0 }

func speedUnit(index, speed, health int) *Combatant {
	def := &unit.Definition{ID: "u", Name: "U", Health: health, Speed: speed}
	side := SidePlayer
	if index >= RosterSize {
		side = SideEnemy
	}
	return newCombatant(def, 1, side, index)
}

func indices(cs []*Combatant) []int {
	out := make([]int, len(cs))
	for i, c := range cs {
		out[i] = c.Index
	}
	return out
}

func TestGenerate_OrdersReadyUnitsByRemainingCounter(t *testing.T) {
	a := speedUnit(0, 600, 100)
	b := speedUnit(1, 500, 100)
	s := newScheduler([]*Combatant{a, b})
	require.True(t, s.generate(2))
	assert.Equal(t, []int{0, 1}, indices(s.order))
	assert.Equal(t, 200, a.SpeedCounter())
	assert.Equal(t, 0, b.SpeedCounter())
}

func TestGenerate_EqualCountersKeepRosterOrder(t *testing.T) {
	a := speedUnit(0, 500, 100)
	b := speedUnit(1, 500, 100)
	s := newScheduler([]*Combatant{a, b})
	require.True(t, s.generate(2))
	assert.Equal(t, []int{0, 1}, indices(s.order))
}

func TestGenerate_SkipsDeadUnits(t *testing.T) {
	a := speedUnit(0, 500, 100)
	b := speedUnit(1, 900, 100)
	b.dead = true
	s := newScheduler([]*Combatant{a, b})
	require.True(t, s.generate(3))
	for _, c := range s.order {
		assert.Equal(t, 0, c.Index)
	}
	assert.Equal(t, 0, b.SpeedCounter())
}

func TestGenerate_NoLivingUnits_ReturnsFalse(t *testing.T) {
	a := speedUnit(0, 500, 100)
	a.dead = true
	s := newScheduler([]*Combatant{a})
	assert.False(t, s.generate(1))
	assert.Empty(t, s.order)
}

func TestBreakTie_HigherPowerWins(t *testing.T) {
	weak := speedUnit(0, 100, 100)
	strong := speedUnit(1, 100, 300)
	s := newScheduler([]*Combatant{weak, strong})
	s.handleTies(zeroSrc{})
	assert.Equal(t, 0, weak.SpeedCounter())
	assert.Equal(t, 1, strong.SpeedCounter())
}

func TestBreakTie_EqualPowerUsesSource(t *testing.T) {
	a := speedUnit(0, 100, 100)
	b := speedUnit(1, 100, 100)
	s := newScheduler([]*Combatant{a, b})
	s.handleTies(zeroSrc{})
	assert.Equal(t, 1, a.SpeedCounter())
	assert.Equal(t, 0, b.SpeedCounter())
}

func TestPushFrontAndRemoveAll(t *testing.T) {
	a := speedUnit(0, 500, 100)
	b := speedUnit(1, 400, 100)
	s := newScheduler([]*Combatant{a, b})
	s.order = []*Combatant{a, b, a, b}
	s.pushFront(b)
	assert.Equal(t, []int{1, 0, 1, 0, 1}, indices(s.order))
	s.removeAll(b)
	assert.Equal(t, []int{0, 0}, indices(s.order))
	assert.Same(t, a, s.pop())
	assert.Same(t, a, s.peek())
}

func TestPropertyHandleTies_Converges(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 6).Draw(t, "n")
		units := make([]*Combatant, n)
		for i := range units {
			units[i] = speedUnit(i, rapid.SampledFrom([]int{100, 150, 200}).Draw(t, "speed"), rapid.SampledFrom([]int{100, 200}).Draw(t, "health"))
		}
		s := newScheduler(units)
		s.handleTies(rapidSrc{t})
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if units[i].Speed() == units[j].Speed() && units[i].SpeedCounter() == units[j].SpeedCounter() {
					t.Fatalf("units %d and %d still tied", i, j)
				}
			}
		}
	})
}

func TestPropertyGenerate_Reproducible(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		speeds := rapid.SliceOfN(rapid.IntRange(50, 999), 6, 6).Draw(t, "speeds")
		depth := rapid.IntRange(1, 40).Draw(t, "depth")
		build := func() *scheduler {
			units := make([]*Combatant, len(speeds))
			for i, sp := range speeds {
				units[i] = speedUnit(i, sp, 100)
			}
			s := newScheduler(units)
			s.handleTies(zeroSrc{})
			require.True(t, s.generate(depth))
			return s
		}
		first, second := build(), build()
		assert.GreaterOrEqual(t, len(first.order), depth)
		assert.Equal(t, indices(first.order), indices(second.order))
	})
}

// rapidSrc draws tie-break coin flips from rapid.
type rapidSrc struct{ t *rapid.T }

func (r rapidSrc) Intn(n int) int     { return rapid.IntRange(0, n-1).Draw(r.t, "intn") }
func (r rapidSrc) Float64() float64 { return rapid.Float64Range(0, 1).Draw(r.t, "float") }
