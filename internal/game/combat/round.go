package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/botbattle/internal/game/unit"
)

// NoTarget is passed to SubmitMove when the chosen option needs no target.
const NoTarget = -1

// SubmitMove feeds the move selection for the current actor and runs the
// battle until the next selection is needed or the battle ends.
//
// Precondition: the battle is in PhaseAwaitingMoveSelection.
// Postcondition: on error the battle state is unchanged.
func (b *Battle) SubmitMove(slot, target int) error {
	if b.phase == PhaseBattleOver {
		return ErrBattleOver
	}
	if b.phase != PhaseAwaitingMoveSelection {
		return fmt.Errorf("%w: phase is %s", ErrNotAwaitingMove, b.phase)
	}
	if err := b.choose(slot, target); err != nil {
		return err
	}
	b.advance()
	return nil
}

// choose is the single entry point for executing a move choice, used by
// both SubmitMove and forced random moves. It checks legality, runs the move
// and finishes the turn.
func (b *Battle) choose(slot, target int) error {
	if slot < 0 || slot > unit.CooldownSlot {
		return fmt.Errorf("%w: %d", ErrSlotOutOfRange, slot)
	}
	if ok, reason := b.actor.Usable(slot); !ok {
		return fmt.Errorf("%w: slot %d: %s", ErrMoveUnusable, slot, reason)
	}
	primary, err := b.primaryTarget(slot, target)
	if err != nil {
		return err
	}

	b.execute(slot, primary)
	b.resolveDeaths()
	b.endTurn()
	return nil
}

// primaryTarget validates target for slot and returns the combatant it names.
// Omitting the target is allowed when the move does not need one or when no
// legal target exists.
func (b *Battle) primaryTarget(slot, target int) (*Combatant, error) {
	if slot == unit.CooldownSlot {
		return nil, nil
	}
	legal := b.legalTargets(slot)
	if target == NoTarget {
		if b.actor.Def.Moves[slot].Target.NeedsTarget() && len(legal) > 0 {
			return nil, fmt.Errorf("%w: move %q needs a target", ErrIllegalTarget, b.actor.Def.Moves[slot].Name)
		}
		if b.actor.Def.Moves[slot].Target == unit.TargetSelf {
			return b.actor, nil
		}
		return nil, nil
	}
	for _, c := range legal {
		if c.Index == target {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: index %d for move %q", ErrIllegalTarget, target, b.actor.Def.Moves[slot].Name)
}

// advance runs turns until a move selection is needed or the battle ends.
func (b *Battle) advance() {
	for {
		b.phase = PhaseAwaitingTurn
		if b.over() {
			b.finish()
			return
		}
		if !b.setupTurn() {
			b.finish()
			return
		}
		if len(b.deaths) > 0 || b.actor.skipTurn {
			if b.actor.skipTurn && len(b.deaths) == 0 {
				b.emit(newEvent(EventTurnSkipped, b.actor, nil))
			}
			b.resolveDeaths()
			b.endTurn()
			continue
		}
		if b.actor.randomMove {
			b.emit(newEvent(EventCorrupted, b.actor, nil))
			slot, target := b.randomChoice()
			if err := b.choose(slot, target); err != nil {
				// randomChoice only returns legal choices.
				panic(fmt.Sprintf("combat: forced random move rejected: %v", err))
			}
			continue
		}
		b.phase = PhaseAwaitingMoveSelection
		return
	}
}

// setupTurn pops the next actor and applies its start-of-turn effects.
// It returns false when no unit can act.
func (b *Battle) setupTurn() bool {
	b.phase = PhaseTurnSetup
	if len(b.sched.order) <= 1 {
		b.sched.generate(b.cfg.GenerateTurns)
	}
	next := b.sched.pop()
	if next == nil {
		return false
	}
	b.turn++
	b.actor = next
	b.logger.Debug("turn started",
		zap.Int("turn", b.turn),
		zap.String("actor", next.Name()),
		zap.Stringer("side", next.Side),
	)
	b.emit(newEvent(EventTurnStarted, next, nil))
	b.effectsTurnStart(next)
	return true
}

// effectsTurnStart applies the summed per-turn deltas of the actor's effects:
// one combined health change, then energy. A death from the health change
// ends start-of-turn processing.
func (b *Battle) effectsTurnStart(c *Combatant) {
	ts := c.effects.TurnStart()
	c.skipTurn = ts.SkipTurn
	c.randomMove = ts.RandomMove

	if ts.ChangesHealth() {
		armor := truncate(float64(c.MaxArmor()) * ts.Armor)
		standard := truncate(float64(c.MaxHealth()+c.MaxArmor()) * ts.Standard)
		health := truncate(float64(c.MaxHealth()) * ts.Health)

		ch := HealthChange{Armor: armor, Health: health}.Add(c.makeHealthChange(standard, unit.HealthStandard, unit.DamageNone))
		b.changeHealth(nil, c, ch)
		if len(b.deaths) > 0 {
			return
		}
	}
	if ts.Energy != 0 {
		b.changeEnergy(c, truncate(float64(c.EnergyCapacity())*ts.Energy))
	}
}

// execute performs the chosen option for the actor.
func (b *Battle) execute(slot int, primary *Combatant) {
	b.phase = PhaseExecutingMove
	actor := b.actor
	if slot == unit.CooldownSlot {
		b.emit(newEvent(EventCooldownUsed, actor, nil))
		b.logger.Debug("cooldown used", zap.String("actor", actor.Name()))
		b.cool(actor, b.cfg.CooldownPercent)
	} else {
		move := &actor.Def.Moves[slot]
		ev := newEvent(EventMoveUsed, actor, primary)
		ev.Move = move.Name
		b.emit(ev)
		b.logger.Debug("move used",
			zap.String("actor", actor.Name()),
			zap.String("move", move.Name),
			zap.Int("slot", slot),
		)
		actor.startCooldown(slot)
		b.changeEnergy(actor, move.Energy)
		b.runActions(newMoveContext(actor, primary), move)
		b.cool(actor, b.cfg.CoolingPercent)
	}
	actor.tickCooldowns()
}

func (b *Battle) changeEnergy(c *Combatant, delta int) {
	if applied := c.changeEnergy(delta); applied != 0 {
		ev := newEvent(EventEnergyChanged, c, nil)
		ev.Energy = applied
		b.emit(ev)
	}
}

func (b *Battle) cool(c *Combatant, pct float64) {
	b.changeEnergy(c, -roundHalfEven(pct*c.Modifiers().Cooldown*float64(c.EnergyCapacity())))
}

// resolveDeaths drops every pending turn of the units that died this turn.
func (b *Battle) resolveDeaths() {
	b.phase = PhaseResolvingDeaths
	for _, d := range b.deaths {
		b.sched.removeAll(d)
	}
	b.deaths = b.deaths[:0]
}

// endTurn decays the actor's effects.
func (b *Battle) endTurn() {
	b.phase = PhaseTurnEnd
	for _, def := range b.actor.effects.Tick() {
		ev := newEvent(EventEffectExpired, b.actor, b.actor)
		ev.Effect = def.Name
		b.emit(ev)
	}
}

// over reports whether every unit of either roster is dead.
func (b *Battle) over() bool {
	return len(b.livingOn(SidePlayer)) == 0 || len(b.livingOn(SideEnemy)) == 0
}

// finish enters PhaseBattleOver. The winner is the side of the next
// scheduled actor, generating one turn if the order is empty.
func (b *Battle) finish() {
	b.phase = PhaseBattleOver
	b.actor = nil
	if len(b.sched.order) == 0 {
		b.sched.generate(1)
	}
	if next := b.sched.peek(); next != nil {
		b.winner = next.Side
	} else {
		b.winner = SideNone
	}
	b.logger.Info("battle over",
		zap.Stringer("winner", b.winner),
		zap.Int("turns", b.turn),
	)
	ev := newEvent(EventBattleOver, nil, nil)
	ev.Side = b.winner
	b.emit(ev)
}

// randomChoice picks a uniformly random usable option and, unless the move
// targets the actor, a uniformly random target among the inverted legal set.
func (b *Battle) randomChoice() (slot, target int) {
	var usable []int
	for s := 0; s <= unit.CooldownSlot; s++ {
		if ok, _ := b.actor.Usable(s); ok {
			usable = append(usable, s)
		}
	}
	slot = usable[b.src.Intn(len(usable))]
	if slot == unit.CooldownSlot || b.actor.Def.Moves[slot].Target == unit.TargetSelf {
		return slot, NoTarget
	}
	candidates := b.legalTargets(slot)
	if len(candidates) == 0 {
		return slot, NoTarget
	}
	return slot, candidates[b.src.Intn(len(candidates))].Index
}

// legalTargets lists the combatants the actor may name as primary target for
// slot. A corrupted actor's legal set is inverted: enemy moves aim at its own
// side and ally moves at the other side.
func (b *Battle) legalTargets(slot int) []*Combatant {
	if b.actor == nil || slot < 0 || slot >= unit.MoveSlots {
		return nil
	}
	own, other := b.actor.Side, b.actor.Side.Opposite()
	if b.actor.randomMove {
		own, other = other, own
	}
	switch b.actor.Def.Moves[slot].Target {
	case unit.TargetSingleEnemy, unit.TargetAllEnemies:
		return b.livingOn(other)
	case unit.TargetSingleAlly, unit.TargetAllAllies:
		return b.livingOn(own)
	case unit.TargetDeadAlly:
		return b.deadOn(own)
	case unit.TargetSelf:
		return []*Combatant{b.actor}
	default:
		return nil
	}
}
