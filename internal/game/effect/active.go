package effect

// Instance tracks one applied effect on a combatant.
type Instance struct {
	Def       *Definition
	TurnsLeft int
}

// ActiveSet tracks all effects currently applied to one combatant, in the
// order they were first applied, and caches the Modifiers derived from them.
// It is not safe for concurrent use; the caller must serialise access.
//
// Invariant: mods == Compute(effects) after every exported mutation.
type ActiveSet struct {
	effects []*Instance
	mods    Modifiers
}

// NewActiveSet creates an empty ActiveSet with neutral modifiers.
func NewActiveSet() *ActiveSet {
	s := &ActiveSet{}
	s.recompute()
	return s
}

func (s *ActiveSet) recompute() {
	s.mods = Compute(s.effects)
}

func (s *ActiveSet) indexOf(id string) int {
	for i, inst := range s.effects {
		if inst.Def.ID == id {
			return i
		}
	}
	return -1
}

// Blocked reports whether an active immunity group rejects def.
func (s *ActiveSet) Blocked(def *Definition) bool {
	return s.mods.Blocks(def)
}

// Apply adds def to the set unless an active immunity group rejects it.
// Reapplying an active definition resets its remaining turns instead of
// stacking. A newly applied effect lasts one extra turn when applied by the
// carrier to itself, since decay runs at the end of the carrier's own turn.
// If def blocks control or torture effects, every other active effect of that
// kind is removed.
//
// Precondition: def must not be nil.
// Postcondition: returns false and leaves the set unchanged when blocked;
// otherwise Has(def.ID) is true and Modifiers() reflects the new set.
func (s *ActiveSet) Apply(def *Definition, self bool) bool {
	if s.Blocked(def) {
		return false
	}

	if i := s.indexOf(def.ID); i >= 0 {
		s.effects[i].TurnsLeft = def.Turns
	} else {
		turns := def.Turns
		if self {
			turns++
		}
		s.effects = append(s.effects, &Instance{Def: def, TurnsLeft: turns})
	}

	if def.BlockControl || def.BlockTorture {
		kept := s.effects[:0]
		for _, inst := range s.effects {
			if inst.Def.ID != def.ID &&
				((def.BlockControl && inst.Def.Control) || (def.BlockTorture && inst.Def.Torture)) {
				continue
			}
			kept = append(kept, inst)
		}
		s.effects = kept
	}

	s.recompute()
	return true
}

// Set installs def with exactly turnsLeft remaining turns, bypassing
// immunity checks. It is used to rebuild a set from a snapshot.
//
// Precondition: def must not be nil; turnsLeft >= 1.
func (s *ActiveSet) Set(def *Definition, turnsLeft int) {
	if i := s.indexOf(def.ID); i >= 0 {
		s.effects[i].TurnsLeft = turnsLeft
	} else {
		s.effects = append(s.effects, &Instance{Def: def, TurnsLeft: turnsLeft})
	}
	s.recompute()
}

// Remove deletes the effect with the given ID from the set.
// If the effect is not present, Remove is a no-op.
//
// Postcondition: Has(id) is false.
func (s *ActiveSet) Remove(id string) {
	if i := s.indexOf(id); i >= 0 {
		s.effects = append(s.effects[:i], s.effects[i+1:]...)
		s.recompute()
	}
}

// RemovePolarity strips every effect of polarity p and returns the removed definitions.
//
// Postcondition: no remaining effect has polarity p.
func (s *ActiveSet) RemovePolarity(p Polarity) []*Definition {
	var removed []*Definition
	kept := s.effects[:0]
	for _, inst := range s.effects {
		if inst.Def.Polarity == p {
			removed = append(removed, inst.Def)
			continue
		}
		kept = append(kept, inst)
	}
	s.effects = kept
	s.recompute()
	return removed
}

// Clear removes every effect.
func (s *ActiveSet) Clear() {
	s.effects = nil
	s.recompute()
}

// ConsumeAbsorb removes the first active effect flagged AbsorbNextHit.
//
// Postcondition: returns true iff such an effect existed and was removed.
func (s *ActiveSet) ConsumeAbsorb() bool {
	for i, inst := range s.effects {
		if inst.Def.AbsorbNextHit {
			s.effects = append(s.effects[:i], s.effects[i+1:]...)
			s.recompute()
			return true
		}
	}
	return false
}

// HasAbsorb reports whether an AbsorbNextHit effect is active.
func (s *ActiveSet) HasAbsorb() bool {
	for _, inst := range s.effects {
		if inst.Def.AbsorbNextHit {
			return true
		}
	}
	return false
}

// Tick decrements the remaining turns of every effect by 1 and removes the
// ones that reach zero.
//
// Postcondition: for every returned definition d, Has(d.ID) is false.
func (s *ActiveSet) Tick() []*Definition {
	var expired []*Definition
	kept := s.effects[:0]
	for _, inst := range s.effects {
		inst.TurnsLeft--
		if inst.TurnsLeft <= 0 {
			expired = append(expired, inst.Def)
			continue
		}
		kept = append(kept, inst)
	}
	s.effects = kept
	if len(expired) > 0 {
		s.recompute()
	}
	return expired
}

// Has reports whether the effect with id is currently active.
func (s *ActiveSet) Has(id string) bool {
	return s.indexOf(id) >= 0
}

// TurnsLeft returns the remaining turns for effect id, or 0 if not present.
func (s *ActiveSet) TurnsLeft(id string) int {
	if i := s.indexOf(id); i >= 0 {
		return s.effects[i].TurnsLeft
	}
	return 0
}

// Len returns the number of active effects.
func (s *ActiveSet) Len() int { return len(s.effects) }

// All returns copies of the active instances in application order.
func (s *ActiveSet) All() []Instance {
	out := make([]Instance, len(s.effects))
	for i, inst := range s.effects {
		out[i] = *inst
	}
	return out
}

// Names returns the display names of the active effects in application order.
func (s *ActiveSet) Names() []string {
	out := make([]string, len(s.effects))
	for i, inst := range s.effects {
		out[i] = inst.Def.Name
	}
	return out
}

// Modifiers returns the modifiers derived from the current set.
func (s *ActiveSet) Modifiers() Modifiers {
	return s.mods
}

// TurnStart sums the per-turn deltas and flags of every active effect.
func (s *ActiveSet) TurnStart() TurnStart {
	var ts TurnStart
	for _, inst := range s.effects {
		d := inst.Def
		ts.Armor += d.ArmorPercent
		ts.Standard += d.StandardPercent
		ts.Health += d.HealthPercent
		ts.Energy += d.EnergyPercent
		ts.SkipTurn = ts.SkipTurn || d.SkipTurn
		ts.RandomMove = ts.RandomMove || d.RandomMove
	}
	return ts
}
