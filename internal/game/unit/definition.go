package unit

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/botbattle/internal/game/effect"
)

var validatorInstance = validator.New()

// Definition is the immutable authored template for a combatant. Stats are
// the level-1 values; a combatant's effective stats are these times its level.
type Definition struct {
	ID             string
	Name           string
	Class          string
	Health         int
	Armor          int
	Strength       int
	Speed          int
	EnergyCapacity int
	Moves          [MoveSlots]Move
}

// Power is the sum of the five base stats at level 1.
func (d *Definition) Power() int {
	return d.Health + d.Armor + d.Strength + d.Speed + d.EnergyCapacity
}

// definitionSpec is the YAML shape of a unit file.
type definitionSpec struct {
	ID             string     `yaml:"id" validate:"required"`
	Name           string     `yaml:"name" validate:"required"`
	Class          string     `yaml:"class" validate:"omitempty,oneof=cyborg android mech flying"`
	Health         int        `yaml:"health" validate:"gt=0"`
	Armor          int        `yaml:"armor" validate:"gte=0"`
	Strength       int        `yaml:"strength" validate:"gte=0"`
	Speed          int        `yaml:"speed" validate:"gt=0"`
	EnergyCapacity int        `yaml:"energy_capacity" validate:"gte=0"`
	Moves          []moveSpec `yaml:"moves" validate:"len=4,dive"`
}

type moveSpec struct {
	Name     string       `yaml:"name" validate:"required"`
	Energy   int          `yaml:"energy" validate:"gte=0"`
	Cooldown int          `yaml:"cooldown" validate:"gte=0"`
	Target   TargetType   `yaml:"target" validate:"gte=1,lte=6"`
	Actions  []actionSpec `yaml:"actions" validate:"min=1,dive"`
}

type actionSpec struct {
	Kind          string      `yaml:"kind" validate:"oneof=damage apply_status extra_turn remove_negative remove_positive heal revive"`
	Target        *TargetType `yaml:"target"`
	Power         int         `yaml:"power" validate:"gte=0"`
	DamageType    DamageType  `yaml:"damage_type"`
	Effect        string      `yaml:"effect"`
	HealType      HealthType  `yaml:"heal_type"`
	Percent       float64     `yaml:"percent" validate:"gte=0,lte=1"`
	HealthPercent float64     `yaml:"health_percent" validate:"gte=0,lte=1"`
	ArmorPercent  float64     `yaml:"armor_percent" validate:"gte=0,lte=1"`
}

// build converts a validated spec into a Definition, resolving effect IDs
// against effects. Every violation is reported.
func (s *definitionSpec) build(effects *effect.Registry) (*Definition, error) {
	def := &Definition{
		ID:             s.ID,
		Name:           s.Name,
		Class:          s.Class,
		Health:         s.Health,
		Armor:          s.Armor,
		Strength:       s.Strength,
		Speed:          s.Speed,
		EnergyCapacity: s.EnergyCapacity,
	}
	var errs []error
	for i, ms := range s.Moves {
		m := Move{Name: ms.Name, Energy: ms.Energy, Cooldown: ms.Cooldown, Target: ms.Target}
		for j, as := range ms.Actions {
			a, err := as.build(ms.Target, effects)
			if err != nil {
				errs = append(errs, fmt.Errorf("move %d %q action %d: %w", i, ms.Name, j, err))
				continue
			}
			m.Actions = append(m.Actions, a)
		}
		def.Moves[i] = m
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("unit %q: %w", s.ID, errors.Join(errs...))
	}
	return def, nil
}

func (s *actionSpec) build(moveTarget TargetType, effects *effect.Registry) (Action, error) {
	on := moveTarget
	if s.Target != nil {
		on = *s.Target
	}
	if !on.Valid() {
		return nil, fmt.Errorf("invalid target type %s", on)
	}
	switch s.Kind {
	case kindDamage:
		if s.Power <= 0 {
			return nil, fmt.Errorf("damage power must be positive")
		}
		return Damage{On: on, Power: s.Power, Type: s.DamageType}, nil
	case kindApplyStatus:
		if effects == nil {
			return nil, fmt.Errorf("no effect registry to resolve %q", s.Effect)
		}
		def, ok := effects.Get(s.Effect)
		if !ok {
			return nil, fmt.Errorf("unknown effect %q", s.Effect)
		}
		return ApplyStatus{On: on, Effect: def}, nil
	case kindExtraTurn:
		return ExtraTurn{On: on}, nil
	case kindRemoveNegative:
		return RemoveEffects{On: on, Polarity: effect.Negative}, nil
	case kindRemovePositive:
		return RemoveEffects{On: on, Polarity: effect.Positive}, nil
	case kindHeal:
		if s.Percent <= 0 {
			return nil, fmt.Errorf("heal percent must be positive")
		}
		return Heal{On: on, HealType: s.HealType, Percent: s.Percent}, nil
	case kindRevive:
		if on != TargetDeadAlly {
			return nil, fmt.Errorf("revive must target %s, got %s", TargetDeadAlly, on)
		}
		if s.HealthPercent <= 0 {
			return nil, fmt.Errorf("revive health_percent must be positive")
		}
		return Revive{On: on, HealthPercent: s.HealthPercent, ArmorPercent: s.ArmorPercent}, nil
	default:
		return nil, fmt.Errorf("unknown action kind %q", s.Kind)
	}
}

// Parse decodes and validates a single unit definition from YAML.
//
// Precondition: effects must contain every effect referenced by apply_status actions.
// Postcondition: returns a Definition with exactly MoveSlots moves, each with
// at least one action, or an error describing every violation found.
func Parse(data []byte, effects *effect.Registry) (*Definition, error) {
	var spec definitionSpec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("decoding unit: %w", err)
	}
	if err := validatorInstance.Struct(&spec); err != nil {
		return nil, fmt.Errorf("unit %q: %w", spec.ID, err)
	}
	return spec.build(effects)
}

// Registry holds all known Definitions keyed by ID.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds def, overwriting any existing entry with the same ID.
//
// Precondition: def must not be nil.
func (r *Registry) Register(def *Definition) {
	r.defs[def.ID] = def
}

// Get returns the Definition for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Definition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns every Definition sorted by ID.
func (r *Registry) All() []*Definition {
	out := make([]*Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory parses every *.yaml file in dir as a unit definition.
//
// Precondition: dir must be a readable directory; effects must not be nil.
// Postcondition: returns a populated Registry, or an error joining every
// file that failed to parse or validate and every duplicate ID.
func LoadDirectory(dir string, effects *effect.Registry) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading unit dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		def, err := Parse(data, effects)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		if _, dup := reg.Get(def.ID); dup {
			errs = append(errs, fmt.Errorf("%s: duplicate unit ID %q", e.Name(), def.ID))
			continue
		}
		reg.Register(def)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return reg, nil
}

// Catalog resolves unit and effect IDs. It is the lookup used to rebuild a
// battle from a snapshot.
type Catalog struct {
	Units   *Registry
	Effects *effect.Registry
}

// Unit returns the unit definition for id.
func (c Catalog) Unit(id string) (*Definition, bool) {
	if c.Units == nil {
		return nil, false
	}
	return c.Units.Get(id)
}

// Effect returns the effect definition for id.
func (c Catalog) Effect(id string) (*effect.Definition, bool) {
	if c.Effects == nil {
		return nil, false
	}
	return c.Effects.Get(id)
}
