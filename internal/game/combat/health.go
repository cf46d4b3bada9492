package combat

import (
	"math"

	"github.com/cory-johannsen/botbattle/internal/game/unit"
)

// bluntArmorBonus scales the armor share of Blunt damage.
const bluntArmorBonus = 1.25

// epsilon absorbs float noise in percentage products before rounding.
const epsilon = 1e-9

// HealthChange is a signed armor delta and health delta.
type HealthChange struct {
	Armor  int
	Health int
}

// Add returns the component-wise sum of h and o.
func (h HealthChange) Add(o HealthChange) HealthChange {
	return HealthChange{Armor: h.Armor + o.Armor, Health: h.Health + o.Health}
}

// IsZero reports whether both deltas are zero.
func (h HealthChange) IsZero() bool { return h.Armor == 0 && h.Health == 0 }

// makeHealthChange resolves a raw amount against c into armor and health
// deltas. A pending absorb effect negates a negative amount and is consumed.
func (c *Combatant) makeHealthChange(amount int, ht unit.HealthType, dt unit.DamageType) HealthChange {
	return c.resolveHealthChange(amount, ht, dt, true)
}

// previewHealthChange is makeHealthChange without consuming an absorb effect.
func (c *Combatant) previewHealthChange(amount int, ht unit.HealthType, dt unit.DamageType) HealthChange {
	return c.resolveHealthChange(amount, ht, dt, false)
}

// resolveHealthChange implements the layered health model.
//
// Positive amounts are scaled by the healing multiplier, negative amounts by
// the incoming damage multiplier, both rounded toward +Inf. Standard damage
// drains armor first up to the armor breakpoint and spills the remainder onto
// health; standard healing fills the health deficit first and the remainder
// goes to armor.
//
// Postcondition: when consume is false, c is not mutated.
func (c *Combatant) resolveHealthChange(amount int, ht unit.HealthType, dt unit.DamageType, consume bool) HealthChange {
	mods := c.effects.Modifiers()
	switch {
	case amount > 0:
		amount = ceilInt(float64(amount) * mods.Healing)
	case amount < 0:
		amount = ceilInt(float64(amount) * mods.IncomingDamage)
		if c.effects.HasAbsorb() {
			amount = 0
			if consume {
				c.effects.ConsumeAbsorb()
			}
		}
	}

	bonus := 1.0
	if dt == unit.DamageBlunt {
		bonus = bluntArmorBonus
	}

	var ch HealthChange
	switch ht {
	case unit.HealthOnly:
		ch.Health = amount
	case unit.ArmorOnly:
		ch.Armor = ceilInt(float64(amount) * bonus)
	case unit.HealthStandard:
		if amount < 0 {
			breakpoint := ceilInt(float64(c.armor) / bonus)
			if -amount <= breakpoint {
				ch.Armor = ceilInt(float64(amount) * bonus)
			} else {
				ch.Armor = amount
				ch.Health = breakpoint + amount
			}
		} else {
			ch.Health = amount
			ch.Armor = max(amount-(c.MaxHealth()-c.health), 0)
		}
	}
	return ch
}

// applyHealthChange applies ch to c, armor first, clamping each pool into
// [0, max]. It returns the deltas actually applied and whether this change
// killed c. Changes to a dead combatant are ignored.
//
// Postcondition: died is true at most once per death.
func (c *Combatant) applyHealthChange(ch HealthChange) (applied HealthChange, died bool) {
	if c.dead {
		return HealthChange{}, false
	}
	if ch.Armor != 0 {
		applied.Armor = applyBounded(&c.armor, c.MaxArmor(), ch.Armor)
	}
	if ch.Health != 0 {
		applied.Health = applyBounded(&c.health, c.MaxHealth(), ch.Health)
	}
	if c.health == 0 {
		c.dead = true
		died = true
	}
	return applied, died
}

func applyBounded(current *int, maximum, delta int) int {
	next := clamp(*current+delta, 0, maximum)
	applied := next - *current
	*current = next
	return applied
}

// damageAmount is the signed raw damage of a Damage action: negative
// strength/100 × power × outgoing multiplier, rounded half to even.
func damageAmount(strength, power int, outgoing float64) int {
	return -roundHalfEven(float64(strength) / 100 * float64(power) * outgoing)
}

// percentOf returns pct of the combatant's maximum of ht, truncated toward zero.
func (c *Combatant) percentOf(pct float64, ht unit.HealthType) int {
	var total int
	switch ht {
	case unit.ArmorOnly:
		total = c.MaxArmor()
	case unit.HealthOnly:
		total = c.MaxHealth()
	default:
		total = c.MaxArmor() + c.MaxHealth()
	}
	return truncate(float64(total) * pct)
}

func ceilInt(x float64) int {
	return int(math.Ceil(x - epsilon))
}

func truncate(x float64) int {
	return int(math.Trunc(x + math.Copysign(epsilon, x)))
}

func roundHalfEven(x float64) int {
	return int(math.RoundToEven(x))
}
