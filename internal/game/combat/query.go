package combat

import (
	"github.com/cory-johannsen/botbattle/internal/game/unit"
)

// ID returns the battle's unique identifier.
func (b *Battle) ID() string { return b.id }

// Phase returns the current state machine phase.
func (b *Battle) Phase() Phase { return b.phase }

// Turn returns the number of turns started so far.
func (b *Battle) Turn() int { return b.turn }

// Over reports whether the battle has ended.
func (b *Battle) Over() bool { return b.phase == PhaseBattleOver }

// Winner returns the winning side, or SideNone while the battle runs.
func (b *Battle) Winner() Side { return b.winner }

// Config returns the battle constants.
func (b *Battle) Config() Config { return b.cfg }

// Actor returns the combatant awaiting a move, or nil.
func (b *Battle) Actor() *Combatant {
	if b.phase != PhaseAwaitingMoveSelection {
		return nil
	}
	return b.actor
}

// Units returns all six combatants in roster order.
func (b *Battle) Units() []*Combatant {
	return append([]*Combatant(nil), b.units...)
}

// Unit returns the combatant at roster index i, or nil.
func (b *Battle) Unit(i int) *Combatant {
	if i < 0 || i >= len(b.units) {
		return nil
	}
	return b.units[i]
}

// TurnOrder returns the roster indices of the pending turns, next first.
func (b *Battle) TurnOrder() []int {
	out := make([]int, len(b.sched.order))
	for i, c := range b.sched.order {
		out[i] = c.Index
	}
	return out
}

// Events returns every event emitted so far.
func (b *Battle) Events() []Event {
	return append([]Event(nil), b.events...)
}

// MoveOption describes one selectable option of the current actor.
type MoveOption struct {
	Slot     int
	Name     string
	Target   unit.TargetType
	Energy   int
	Cooldown int
	Usable   bool
	Reason   string
}

// MoveOptions lists the actor's four moves followed by cooldown recovery.
// It returns nil outside PhaseAwaitingMoveSelection.
func (b *Battle) MoveOptions() []MoveOption {
	actor := b.Actor()
	if actor == nil {
		return nil
	}
	out := make([]MoveOption, 0, unit.CooldownSlot+1)
	for slot := 0; slot < unit.MoveSlots; slot++ {
		m := actor.Def.Moves[slot]
		ok, reason := actor.Usable(slot)
		out = append(out, MoveOption{
			Slot:     slot,
			Name:     m.Name,
			Target:   m.Target,
			Energy:   m.Energy,
			Cooldown: actor.cooldowns[slot],
			Usable:   ok,
			Reason:   reason,
		})
	}
	out = append(out, MoveOption{Slot: unit.CooldownSlot, Name: "Cooldown", Usable: true})
	return out
}

// LegalTargets returns the roster indices the actor may target with slot.
func (b *Battle) LegalTargets(slot int) []int {
	if b.Actor() == nil {
		return nil
	}
	var out []int
	for _, c := range b.legalTargets(slot) {
		out = append(out, c.Index)
	}
	return out
}

// IsLegalTarget reports whether index is a legal primary target for slot.
func (b *Battle) IsLegalTarget(slot, index int) bool {
	for _, i := range b.LegalTargets(slot) {
		if i == index {
			return true
		}
	}
	return false
}

// Preview returns the health change slot would cause to the unit at index if
// every damage and heal action hit, computed from the current state without
// mutating it. Non-damaging, non-healing moves preview as zero.
func (b *Battle) Preview(slot, index int) HealthChange {
	actor := b.Actor()
	target := b.Unit(index)
	if actor == nil || target == nil || slot < 0 || slot >= unit.MoveSlots || target.Dead() {
		return HealthChange{}
	}
	var total HealthChange
	for _, a := range actor.Def.Moves[slot].Actions {
		if !b.couldTarget(actor, a.Target(), target) {
			continue
		}
		switch act := a.(type) {
		case unit.Damage:
			amount := damageAmount(actor.Strength(), act.Power, actor.Modifiers().OutgoingDamage)
			total = total.Add(target.previewHealthChange(amount, unit.HealthStandard, act.Type))
		case unit.Heal:
			total = total.Add(target.previewHealthChange(target.percentOf(act.Percent, act.HealType), act.HealType, unit.DamageNone))
		}
	}
	return total
}

// couldTarget reports whether an action of type tt from actor can reach target.
func (b *Battle) couldTarget(actor *Combatant, tt unit.TargetType, target *Combatant) bool {
	switch tt {
	case unit.TargetSelf:
		return target == actor
	case unit.TargetSingleEnemy, unit.TargetAllEnemies:
		return target.Side != actor.Side
	case unit.TargetSingleAlly, unit.TargetAllAllies:
		return target.Side == actor.Side
	default:
		return false
	}
}
