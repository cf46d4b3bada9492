// Package combat implements the turn-based bot battle engine: the speed
// scheduler, target resolution, the move action pipeline, the layered
// health/armor/energy model and the battle state machine.
package combat

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/botbattle/internal/game/effect"
	"github.com/cory-johannsen/botbattle/internal/game/unit"
)

// RosterSize is the number of units on each side of a battle.
const RosterSize = 3

// Side identifies which roster a combatant belongs to.
type Side int

const (
	SidePlayer Side = iota
	SideEnemy
	// SideNone is the winner when no unit on either side can act.
	SideNone
)

// String returns "player", "enemy" or "none".
func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideEnemy:
		return "enemy"
	default:
		return "none"
	}
}

// Opposite returns the other roster. SideNone has no opposite.
func (s Side) Opposite() Side {
	switch s {
	case SidePlayer:
		return SideEnemy
	case SideEnemy:
		return SidePlayer
	default:
		return SideNone
	}
}

// MarshalText encodes s by name.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a side name.
func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "player":
		*s = SidePlayer
	case "enemy":
		*s = SideEnemy
	case "none":
		*s = SideNone
	default:
		return fmt.Errorf("unknown side %q", text)
	}
	return nil
}

// Member places one unit definition on a roster.
type Member struct {
	Unit *unit.Definition
	// Level scales every base stat. Zero means 1.
	Level int
}

// Combatant is the mutable battle state of one roster member.
//
// Invariant: 0 <= Health() <= MaxHealth(), 0 <= Armor() <= MaxArmor(),
// Dead() iff Health() == 0, and every cooldown counter lies in [0, move cooldown + 1].
type Combatant struct {
	ID    string
	Def   *unit.Definition
	Level int
	Side  Side
	// Index is the roster position: players 0-2, enemies 3-5.
	Index int

	health       int
	armor        int
	energy       int
	speedCounter int
	dead         bool
	cooldowns    [unit.MoveSlots]int
	effects      *effect.ActiveSet
	skipTurn     bool
	randomMove   bool
}

// newCombatant builds a combatant at full health and armor with no energy.
//
// Precondition: def must not be nil; level >= 1.
func newCombatant(def *unit.Definition, level int, side Side, index int) *Combatant {
	c := &Combatant{
		ID:      uuid.NewString(),
		Def:     def,
		Level:   level,
		Side:    side,
		Index:   index,
		effects: effect.NewActiveSet(),
	}
	c.health = c.MaxHealth()
	c.armor = c.MaxArmor()
	return c
}

func (c *Combatant) Name() string        { return c.Def.Name }
func (c *Combatant) MaxHealth() int      { return c.Def.Health * c.Level }
func (c *Combatant) MaxArmor() int       { return c.Def.Armor * c.Level }
func (c *Combatant) Strength() int       { return c.Def.Strength * c.Level }
func (c *Combatant) Speed() int          { return c.Def.Speed * c.Level }
func (c *Combatant) EnergyCapacity() int { return c.Def.EnergyCapacity * c.Level }
func (c *Combatant) Health() int         { return c.health }
func (c *Combatant) Armor() int          { return c.armor }
func (c *Combatant) Energy() int         { return c.energy }
func (c *Combatant) SpeedCounter() int   { return c.speedCounter }
func (c *Combatant) Dead() bool          { return c.dead }
func (c *Combatant) Alive() bool         { return !c.dead }
func (c *Combatant) SkipTurn() bool      { return c.skipTurn }
func (c *Combatant) RandomMove() bool    { return c.randomMove }

// Power is the sum of the five level-scaled stats. It only breaks speed ties.
func (c *Combatant) Power() int {
	return c.MaxHealth() + c.MaxArmor() + c.Strength() + c.Speed() + c.EnergyCapacity()
}

// Cooldown returns the remaining cooldown of move slot.
//
// Precondition: 0 <= slot < unit.MoveSlots.
func (c *Combatant) Cooldown(slot int) int { return c.cooldowns[slot] }

// Cooldowns returns a copy of all move cooldown counters.
func (c *Combatant) Cooldowns() [unit.MoveSlots]int { return c.cooldowns }

// Effects returns copies of the active effect instances in application order.
func (c *Combatant) Effects() []effect.Instance { return c.effects.All() }

// EffectNames returns the display names of the active effects.
func (c *Combatant) EffectNames() []string { return c.effects.Names() }

// Modifiers returns the multipliers derived from the active effects.
func (c *Combatant) Modifiers() effect.Modifiers { return c.effects.Modifiers() }

// Usable reports whether option slot may be chosen now, and why not.
// The cooldown recovery option is always usable. A move is usable when it is
// off cooldown and either costs no energy or energy is below capacity.
//
// Precondition: 0 <= slot <= unit.CooldownSlot.
func (c *Combatant) Usable(slot int) (bool, string) {
	if slot == unit.CooldownSlot {
		return true, ""
	}
	if c.cooldowns[slot] > 0 {
		return false, fmt.Sprintf("%d turns left", c.cooldowns[slot])
	}
	if c.energy >= c.EnergyCapacity() && c.Def.Moves[slot].Energy > 0 {
		return false, "energy capacity full"
	}
	return true, ""
}

// changeEnergy adds delta to energy, flooring at zero. Energy has no upper clamp.
func (c *Combatant) changeEnergy(delta int) int {
	before := c.energy
	c.energy += delta
	if c.energy < 0 {
		c.energy = 0
	}
	return c.energy - before
}

func (c *Combatant) startCooldown(slot int) {
	c.cooldowns[slot] = c.Def.Moves[slot].Cooldown + 1
}

func (c *Combatant) tickCooldowns() {
	for i := range c.cooldowns {
		if c.cooldowns[i] > 0 {
			c.cooldowns[i]--
		}
	}
}

// revive restores a dead combatant to fractions of its maxima and clears its effects.
//
// Postcondition: returns false and changes nothing when c is alive.
func (c *Combatant) revive(healthPct, armorPct float64) bool {
	if !c.dead {
		return false
	}
	c.health = clamp(ceilInt(float64(c.MaxHealth())*healthPct), 1, c.MaxHealth())
	c.armor = clamp(ceilInt(float64(c.MaxArmor())*armorPct), 0, c.MaxArmor())
	c.effects.Clear()
	c.skipTurn = false
	c.randomMove = false
	c.dead = false
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
