package ai

import (
	"github.com/cory-johannsen/botbattle/internal/game/combat"
)

// BuildWorldState snapshots b for the unit awaiting a move.
//
// Precondition: b must be awaiting a move selection.
// Postcondition: ws.Self.Index == b.Actor().Index; all six units are represented.
func BuildWorldState(b *combat.Battle) *WorldState {
	ws := &WorldState{}
	actor := b.Actor()
	for _, c := range b.Units() {
		u := &UnitState{
			Index:    c.Index,
			Name:     c.Name(),
			Side:     c.Side.String(),
			HP:       c.Health(),
			MaxHP:    c.MaxHealth(),
			Armor:    c.Armor(),
			MaxArmor: c.MaxArmor(),
			Energy:   c.Energy(),
			Capacity: c.EnergyCapacity(),
			Dead:     c.Dead(),
			Effects:  c.EffectNames(),
		}
		ws.Units = append(ws.Units, u)
		if actor != nil && c.Index == actor.Index {
			ws.Self = u
		}
	}
	return ws
}
