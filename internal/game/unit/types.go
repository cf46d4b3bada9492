// Package unit holds the immutable authored data of combatants: unit
// definitions, their four moves and the ordered actions each move performs.
package unit

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// MoveSlots is the number of authored moves every unit carries.
const MoveSlots = 4

// CooldownSlot is the option index of the built-in cooldown recovery action.
// It is always available and is not one of the authored move slots.
const CooldownSlot = MoveSlots

// TargetType selects which combatants a move or action affects.
type TargetType int

const (
	// TargetNone is the zero value and is never valid in authored data.
	TargetNone TargetType = iota
	TargetSingleEnemy
	TargetAllEnemies
	TargetSelf
	TargetSingleAlly
	TargetAllAllies
	TargetDeadAlly
)

var targetNames = map[TargetType]string{
	TargetNone:        "none",
	TargetSingleEnemy: "single_enemy",
	TargetAllEnemies:  "all_enemies",
	TargetSelf:        "self",
	TargetSingleAlly:  "single_ally",
	TargetAllAllies:   "all_allies",
	TargetDeadAlly:    "dead_ally",
}

// String returns the YAML token of t.
func (t TargetType) String() string {
	if s, ok := targetNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TargetType(%d)", int(t))
}

// Phrase returns the words used for t in move descriptions.
func (t TargetType) Phrase() string {
	switch t {
	case TargetSingleEnemy:
		return "enemy"
	case TargetAllEnemies:
		return "all enemies"
	case TargetSelf:
		return "self"
	case TargetSingleAlly:
		return "ally"
	case TargetAllAllies:
		return "all allies"
	case TargetDeadAlly:
		return "dead ally"
	default:
		return "unknown target"
	}
}

// Valid reports whether t is one of the six authored target types.
func (t TargetType) Valid() bool {
	return t >= TargetSingleEnemy && t <= TargetDeadAlly
}

// IsEnemy reports whether t aims at the opposing side. Only enemy-targeting
// actions roll for accuracy.
func (t TargetType) IsEnemy() bool {
	return t == TargetSingleEnemy || t == TargetAllEnemies
}

// NeedsTarget reports whether a move with this target type requires the
// caller to pick a primary target. Group and self moves derive their targets
// from the actor's side.
func (t TargetType) NeedsTarget() bool {
	return t == TargetSingleEnemy || t == TargetSingleAlly || t == TargetDeadAlly
}

// UnmarshalYAML decodes a target type from its token.
func (t *TargetType) UnmarshalYAML(value *yaml.Node) error {
	for k, v := range targetNames {
		if k != TargetNone && v == value.Value {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown target type %q", value.Line, value.Value)
}

// MarshalYAML encodes t as its token.
func (t TargetType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// DamageType tags a Damage action. Blunt damage hits armor harder.
type DamageType int

const (
	DamageNone DamageType = iota
	DamagePierce
	DamageLaser
	DamageExplosive
	DamageBlunt
	DamageElectric
	DamageFire
)

var damageNames = []string{"none", "pierce", "laser", "explosive", "blunt", "electric", "fire"}

// String returns the lower-case name of d.
func (d DamageType) String() string {
	if d < 0 || int(d) >= len(damageNames) {
		return fmt.Sprintf("DamageType(%d)", int(d))
	}
	return damageNames[d]
}

// UnmarshalYAML decodes a damage type from its name.
func (d *DamageType) UnmarshalYAML(value *yaml.Node) error {
	for i, n := range damageNames {
		if strings.EqualFold(n, value.Value) {
			*d = DamageType(i)
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown damage type %q", value.Line, value.Value)
}

// MarshalYAML encodes d as its name.
func (d DamageType) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// HealthType selects which pool a health change targets.
type HealthType int

const (
	// HealthStandard splits a change across armor and health.
	HealthStandard HealthType = iota
	HealthOnly
	ArmorOnly
)

var healthNames = []string{"standard", "health", "armor"}

// String returns the YAML token of h.
func (h HealthType) String() string {
	if h < 0 || int(h) >= len(healthNames) {
		return fmt.Sprintf("HealthType(%d)", int(h))
	}
	return healthNames[h]
}

// UnmarshalYAML decodes a health type from its token.
func (h *HealthType) UnmarshalYAML(value *yaml.Node) error {
	for i, n := range healthNames {
		if n == value.Value {
			*h = HealthType(i)
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown health type %q", value.Line, value.Value)
}

// MarshalYAML encodes h as its token.
func (h HealthType) MarshalYAML() (interface{}, error) {
	return h.String(), nil
}
