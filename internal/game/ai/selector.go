package ai

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/botbattle/internal/game/combat"
	"github.com/cory-johannsen/botbattle/internal/game/unit"
)

// Selector chooses moves by running a Planner and taking the first planned
// step the battle accepts. It implements combat.Selector.
type Selector struct {
	planner *Planner
	logger  *zap.Logger
}

// NewSelector wraps planner.
//
// Precondition: planner and logger must not be nil.
func NewSelector(planner *Planner, logger *zap.Logger) *Selector {
	if planner == nil {
		panic("ai.NewSelector: planner must not be nil")
	}
	return &Selector{planner: planner, logger: logger}
}

// Choose implements combat.Selector.
//
// The first planned step whose slot is usable, whose move aims where its
// target token points, and whose resolved target is legal wins. Moves that
// need no target are submitted without one. When no
// planned step fits, the first usable move with its first legal target is
// used, and failing that cooldown recovery.
//
// Precondition: b is awaiting a move selection.
func (s *Selector) Choose(b *combat.Battle) (combat.Choice, error) {
	actor := b.Actor()
	if actor == nil {
		return combat.Choice{}, fmt.Errorf("ai.Selector: %w", combat.ErrNotAwaitingMove)
	}
	plan, err := s.planner.Plan(BuildWorldState(b))
	if err != nil {
		return combat.Choice{}, err
	}
	for _, step := range plan {
		if choice, ok := accept(b, actor, step); ok {
			s.logger.Debug("planned move",
				zap.String("actor", actor.Name()),
				zap.String("operator", step.Operator),
				zap.Int("slot", choice.Slot),
				zap.Int("target", choice.Target),
			)
			return choice, nil
		}
	}
	s.logger.Debug("no planned move fits, falling back", zap.String("actor", actor.Name()))
	return combat.FirstUsable.Choose(b)
}

// accept converts step into a choice the battle will take, if any.
func accept(b *combat.Battle, actor *combat.Combatant, step PlannedAction) (combat.Choice, bool) {
	if ok, _ := actor.Usable(step.Slot); !ok {
		return combat.Choice{}, false
	}
	if step.Slot == unit.CooldownSlot {
		return combat.Choice{Slot: step.Slot, Target: combat.NoTarget}, true
	}
	tt := actor.Def.Moves[step.Slot].Target
	if !fits(tt, step.Token) {
		return combat.Choice{}, false
	}
	if !tt.NeedsTarget() {
		return combat.Choice{Slot: step.Slot, Target: combat.NoTarget}, true
	}
	if !step.Resolved || !b.IsLegalTarget(step.Slot, step.Target) {
		return combat.Choice{}, false
	}
	return combat.Choice{Slot: step.Slot, Target: step.Target}, true
}

// fits reports whether a move of target type tt matches what token asks for.
func fits(tt unit.TargetType, token string) bool {
	switch token {
	case "", TargetNone:
		return true
	case TargetSelf:
		return tt == unit.TargetSelf
	case TargetWeakestEnemy, TargetStrongestEnemy, TargetFirstEnemy:
		return tt.IsEnemy()
	case TargetWeakestAlly:
		return tt == unit.TargetSingleAlly || tt == unit.TargetAllAllies
	case TargetDeadAlly:
		return tt == unit.TargetDeadAlly
	default:
		return false
	}
}
