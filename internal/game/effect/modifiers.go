package effect

// Modifiers are the values derived from a combatant's active effects.
// Each multiplier is 1 plus the sum of the matching percent field over all
// active effects.
type Modifiers struct {
	Accuracy       float64
	Cooldown       float64
	IncomingDamage float64
	OutgoingDamage float64
	Healing        float64
	// Redirect is true when single-target attacks against the carrier's
	// side must be redirected onto the carrier.
	Redirect bool

	immune [groupCount]bool
}

// Compute derives Modifiers from instances by pure recomputation.
//
// Postcondition: an empty input yields all multipliers == 1 and no immunities.
func Compute(instances []*Instance) Modifiers {
	m := Modifiers{Accuracy: 1, Cooldown: 1, IncomingDamage: 1, OutgoingDamage: 1, Healing: 1}
	for _, inst := range instances {
		d := inst.Def
		m.Accuracy += d.AccuracyPercent
		m.Cooldown += d.CooldownPercent
		m.IncomingDamage += d.IncomingDamagePercent
		m.OutgoingDamage += d.DamagePercent
		m.Healing += d.HealingPercent

		m.immune[GroupAll] = m.immune[GroupAll] || d.BlockAll
		m.immune[GroupNegative] = m.immune[GroupNegative] || d.BlockNegative
		m.immune[GroupPositive] = m.immune[GroupPositive] || d.BlockPositive
		m.immune[GroupControl] = m.immune[GroupControl] || d.BlockControl
		m.immune[GroupTorture] = m.immune[GroupTorture] || d.BlockTorture
		m.Redirect = m.Redirect || d.RedirectAttacks
	}
	return m
}

// Immune reports whether group g is currently blocked.
func (m Modifiers) Immune(g Group) bool {
	if g < 0 || g >= groupCount {
		return false
	}
	return m.immune[g]
}

// ImmuneGroups lists the blocked groups in declaration order.
func (m Modifiers) ImmuneGroups() []Group {
	var out []Group
	for _, g := range Groups() {
		if m.immune[g] {
			out = append(out, g)
		}
	}
	return out
}

// Blocks reports whether any blocked group contains def.
func (m Modifiers) Blocks(def *Definition) bool {
	for _, g := range Groups() {
		if m.immune[g] && def.InGroup(g) {
			return true
		}
	}
	return false
}

// TurnStart is the aggregate of every active effect's per-turn deltas.
type TurnStart struct {
	Armor      float64
	Standard   float64
	Health     float64
	Energy     float64
	SkipTurn   bool
	RandomMove bool
}

// ChangesHealth reports whether any health or armor delta is non-zero.
func (t TurnStart) ChangesHealth() bool {
	return t.Armor != 0 || t.Standard != 0 || t.Health != 0
}
