package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/botbattle/internal/game/unit"
)

// runActions executes move's actions in authored order against the targets
// each resolves to. A missed target is reported once per move.
func (b *Battle) runActions(ctx *moveContext, move *unit.Move) {
	for _, a := range move.Actions {
		for _, target := range b.targets(ctx, a.Target()) {
			if b.rollAccuracy(ctx, target, a.Target()) {
				b.dispatch(ctx, a, target)
				continue
			}
			if !ctx.missShown[target] {
				ctx.missShown[target] = true
				b.emit(newEvent(EventMissed, ctx.actor, target))
			}
		}
	}
}

// dispatch applies one action to one target.
func (b *Battle) dispatch(ctx *moveContext, a unit.Action, target *Combatant) {
	actor := ctx.actor
	switch act := a.(type) {
	case unit.Damage:
		amount := damageAmount(actor.Strength(), act.Power, actor.Modifiers().OutgoingDamage)
		b.changeHealth(actor, target, target.makeHealthChange(amount, unit.HealthStandard, act.Type))

	case unit.ApplyStatus:
		ev := newEvent(EventEffectApplied, actor, target)
		ev.Effect = act.Effect.Name
		if !target.effects.Apply(act.Effect, target == actor) {
			ev.Kind = EventEffectBlocked
		}
		b.emit(ev)

	case unit.ExtraTurn:
		if target.Dead() {
			return
		}
		b.sched.pushFront(target)
		b.emit(newEvent(EventExtraTurnGranted, actor, target))

	case unit.RemoveEffects:
		removed := target.effects.RemovePolarity(act.Polarity)
		ev := newEvent(EventEffectsRemoved, actor, target)
		ev.Effect = act.Polarity.String()
		b.emit(ev)
		b.logger.Debug("effects removed",
			zap.String("target", target.Name()),
			zap.Stringer("polarity", act.Polarity),
			zap.Int("count", len(removed)),
		)

	case unit.Heal:
		amount := target.percentOf(act.Percent, act.HealType)
		b.changeHealth(actor, target, target.makeHealthChange(amount, act.HealType, unit.DamageNone))

	case unit.Revive:
		if target.revive(act.HealthPercent, act.ArmorPercent) {
			ev := newEvent(EventRevived, actor, target)
			ev.Health = target.health
			ev.Armor = target.armor
			b.emit(ev)
		}

	default:
		panic(fmt.Sprintf("combat: unhandled action %T", a))
	}
}

// changeHealth applies ch to target and records the outcome, including a death.
func (b *Battle) changeHealth(actor, target *Combatant, ch HealthChange) {
	applied, died := target.applyHealthChange(ch)
	ev := newEvent(EventHealthChanged, actor, target)
	ev.Armor = applied.Armor
	ev.Health = applied.Health
	b.emit(ev)
	if died {
		b.recordDeath(target)
	}
}

func (b *Battle) recordDeath(c *Combatant) {
	b.deaths = append(b.deaths, c)
	b.logger.Debug("unit died", zap.String("unit", c.Name()), zap.Int("index", c.Index))
	ev := newEvent(EventUnitDied, nil, c)
	ev.Side = c.Side
	b.emit(ev)
}
