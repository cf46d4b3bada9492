package combat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/botbattle/internal/game/combat"
	"github.com/cory-johannsen/botbattle/internal/game/effect"
	"github.com/cory-johannsen/botbattle/internal/game/unit"
)

// stubSource returns a fixed Float64 and always 0 from Intn, counting draws.
type stubSource struct {
	float  float64
	floats int
	ints   int
}

func (s *stubSource) Intn(int) int { s.ints++; return 0 }
func (s *stubSource) Float64() float64 {
	s.floats++
	return s.float
}

func poke() unit.Move {
	return unit.Move{
		Name:    "Poke",
		Target:  unit.TargetSingleEnemy,
		Actions: []unit.Action{unit.Damage{On: unit.TargetSingleEnemy, Power: 1, Type: unit.DamagePierce}},
	}
}

// botDef builds a 200 health, 0 armor, 100 strength unit whose unused
// move slots hold a weak single-target attack.
func botDef(id string, speed int, moves ...unit.Move) *unit.Definition {
	d := &unit.Definition{ID: id, Name: id, Health: 200, Strength: 100, Speed: speed, EnergyCapacity: 100}
	for i := range d.Moves {
		if i < len(moves) {
			d.Moves[i] = moves[i]
		} else {
			d.Moves[i] = poke()
		}
	}
	return d
}

func members(defs ...*unit.Definition) []combat.Member {
	out := make([]combat.Member, len(defs))
	for i, d := range defs {
		out[i] = combat.Member{Unit: d}
	}
	return out
}

// startFast starts a battle in which player 0 (speed 500) acts four times
// before anyone else. Every other unit has speed 100 unless overridden.
func startFast(t *testing.T, src combat.Source, p0 *unit.Definition, others ...*unit.Definition) *combat.Battle {
	t.Helper()
	defs := []*unit.Definition{p0}
	defs = append(defs, others...)
	for len(defs) < 2*combat.RosterSize {
		defs = append(defs, botDef("filler", 100))
	}
	b, err := combat.Start(members(defs[:3]...), members(defs[3:]...), 1, combat.WithSource(src))
	require.NoError(t, err)
	require.Equal(t, combat.PhaseAwaitingMoveSelection, b.Phase())
	require.Equal(t, 0, b.Actor().Index)
	return b
}

func single(name string, tt unit.TargetType, actions ...unit.Action) unit.Move {
	return unit.Move{Name: name, Target: tt, Actions: actions}
}

func countEvents(b *combat.Battle, kind combat.EventKind) int {
	n := 0
	for _, ev := range b.Events() {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func loadContent(t *testing.T) unit.Catalog {
	t.Helper()
	effects, err := effect.LoadDirectory("../../../content/effects")
	require.NoError(t, err)
	units, err := unit.LoadDirectory("../../../content/units", effects)
	require.NoError(t, err)
	return unit.Catalog{Units: units, Effects: effects}
}

func contentRoster(t *testing.T, cat unit.Catalog, ids ...string) []combat.Member {
	t.Helper()
	out := make([]combat.Member, len(ids))
	for i, id := range ids {
		def, ok := cat.Unit(id)
		require.True(t, ok, "unit %q", id)
		out[i] = combat.Member{Unit: def}
	}
	return out
}
