package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/botbattle/internal/game/unit"
)

// moveContext is the per-move state shared by every action of one move.
type moveContext struct {
	actor   *Combatant
	primary *Combatant
	// redirectChecked is set once the taunt check has run for this move.
	redirectChecked bool
	hits            map[*Combatant]bool
	missShown       map[*Combatant]bool
}

func newMoveContext(actor, primary *Combatant) *moveContext {
	return &moveContext{
		actor:     actor,
		primary:   primary,
		hits:      make(map[*Combatant]bool),
		missShown: make(map[*Combatant]bool),
	}
}

// targets expands tt into the concrete combatants an action affects.
// An empty result is a no-op for the caller.
func (b *Battle) targets(ctx *moveContext, tt unit.TargetType) []*Combatant {
	switch tt {
	case unit.TargetSingleEnemy:
		b.checkRedirect(ctx)
		if ctx.primary == nil {
			return nil
		}
		return []*Combatant{ctx.primary}
	case unit.TargetSingleAlly, unit.TargetDeadAlly:
		if ctx.primary == nil {
			return nil
		}
		return []*Combatant{ctx.primary}
	case unit.TargetSelf:
		return []*Combatant{ctx.actor}
	case unit.TargetAllEnemies:
		return b.livingOn(b.enemySide(ctx))
	case unit.TargetAllAllies:
		return b.livingOn(ctx.actor.Side)
	default:
		b.logger.Warn("unhandled target type")
		return nil
	}
}

// enemySide is the side enemy-targeting actions aim at: the primary target's
// side, or without one the side opposite the actor. A corrupted actor with no
// primary aims at its own side.
func (b *Battle) enemySide(ctx *moveContext) Side {
	if ctx.primary != nil && ctx.primary != ctx.actor {
		return ctx.primary.Side
	}
	if ctx.actor.randomMove {
		return ctx.actor.Side
	}
	return ctx.actor.Side.Opposite()
}

// checkRedirect applies the taunt rule at most once per move: a living unit
// on the targeted side carrying the redirect flag becomes the primary target.
// Among several, the one with the most armor plus health wins; ties keep the
// earliest in roster order. An actor never redirects onto itself.
func (b *Battle) checkRedirect(ctx *moveContext) {
	if ctx.redirectChecked {
		return
	}
	ctx.redirectChecked = true

	var taunter *Combatant
	for _, u := range b.livingOn(b.enemySide(ctx)) {
		if u == ctx.actor || !u.Modifiers().Redirect {
			continue
		}
		if taunter == nil || u.armor+u.health > taunter.armor+taunter.health {
			taunter = u
		}
	}
	if taunter != nil && taunter != ctx.primary {
		b.logger.Debug("attack redirected",
			zap.String("actor", ctx.actor.Name()),
			zap.String("to", taunter.Name()),
		)
		ctx.primary = taunter
	}
}

// rollAccuracy decides whether an action of type tt hits target. Only
// enemy-targeting actions can miss, and the first roll against a target is
// reused for the rest of the move.
func (b *Battle) rollAccuracy(ctx *moveContext, target *Combatant, tt unit.TargetType) bool {
	if !tt.IsEnemy() {
		return true
	}
	hit, rolled := ctx.hits[target]
	if !rolled {
		hit = b.src.Float64() <= ctx.actor.Modifiers().Accuracy
		ctx.hits[target] = hit
	}
	return hit
}

func (b *Battle) livingOn(side Side) []*Combatant {
	var out []*Combatant
	for _, u := range b.units {
		if u.Side == side && u.Alive() {
			out = append(out, u)
		}
	}
	return out
}

func (b *Battle) deadOn(side Side) []*Combatant {
	var out []*Combatant
	for _, u := range b.units {
		if u.Side == side && u.Dead() {
			out = append(out, u)
		}
	}
	return out
}
