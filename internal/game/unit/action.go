package unit

import (
	"github.com/cory-johannsen/botbattle/internal/game/effect"
)

// Action is one step of a move. The set of implementations is closed:
// Damage, ApplyStatus, ExtraTurn, RemoveEffects, Heal and Revive.
type Action interface {
	// Target returns the target type this action resolves against.
	Target() TargetType
	// Kind returns the YAML kind token of the action.
	Kind() string
	isAction()
}

// Damage hits each target for strength/100 × Power, scaled by the actor's
// outgoing damage multiplier.
type Damage struct {
	On    TargetType
	Power int
	Type  DamageType
}

// ApplyStatus attempts to add Effect to each target.
type ApplyStatus struct {
	On     TargetType
	Effect *effect.Definition
}

// ExtraTurn pushes each target to the front of the turn order.
type ExtraTurn struct {
	On TargetType
}

// RemoveEffects strips every active effect of Polarity from each target.
type RemoveEffects struct {
	On       TargetType
	Polarity effect.Polarity
}

// Heal restores Percent of the target's maximum of HealType.
type Heal struct {
	On       TargetType
	HealType HealthType
	Percent  float64
}

// Revive brings a dead target back with the given fractions of its maxima.
type Revive struct {
	On            TargetType
	HealthPercent float64
	ArmorPercent  float64
}

func (a Damage) Target() TargetType        { return a.On }
func (a ApplyStatus) Target() TargetType   { return a.On }
func (a ExtraTurn) Target() TargetType     { return a.On }
func (a RemoveEffects) Target() TargetType { return a.On }
func (a Heal) Target() TargetType          { return a.On }
func (a Revive) Target() TargetType        { return a.On }

func (Damage) Kind() string      { return kindDamage }
func (ApplyStatus) Kind() string { return kindApplyStatus }
func (ExtraTurn) Kind() string   { return kindExtraTurn }
func (a RemoveEffects) Kind() string {
	if a.Polarity == effect.Positive {
		return kindRemovePositive
	}
	return kindRemoveNegative
}
func (Heal) Kind() string   { return kindHeal }
func (Revive) Kind() string { return kindRevive }

func (Damage) isAction()        {}
func (ApplyStatus) isAction()   {}
func (ExtraTurn) isAction()     {}
func (RemoveEffects) isAction() {}
func (Heal) isAction()          {}
func (Revive) isAction()        {}

const (
	kindDamage         = "damage"
	kindApplyStatus    = "apply_status"
	kindExtraTurn      = "extra_turn"
	kindRemoveNegative = "remove_negative"
	kindRemovePositive = "remove_positive"
	kindHeal           = "heal"
	kindRevive         = "revive"
)
