// Package effect implements timed status effects: their authored
// definitions, the active set carried by each combatant, and the derived
// modifiers recomputed whenever that set changes.
package effect

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
)

var validatorInstance = validator.New()

// Polarity classifies an effect as beneficial or harmful.
type Polarity int

const (
	Positive Polarity = iota
	Negative
)

// String returns "positive" or "negative".
func (p Polarity) String() string {
	switch p {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "unknown"
	}
}

// UnmarshalYAML accepts "positive" or "negative".
func (p *Polarity) UnmarshalYAML(value *yaml.Node) error {
	switch strings.ToLower(value.Value) {
	case "positive":
		*p = Positive
	case "negative":
		*p = Negative
	default:
		return fmt.Errorf("line %d: unknown polarity %q", value.Line, value.Value)
	}
	return nil
}

// MarshalYAML encodes the polarity by name.
func (p Polarity) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// Group is an immunity category. An active effect can grant immunity to a
// whole group, which rejects every new effect belonging to that group.
type Group int

const (
	GroupAll Group = iota
	GroupPositive
	GroupNegative
	GroupControl
	GroupTorture

	groupCount
)

// Groups returns every immunity group in declaration order.
func Groups() []Group {
	return []Group{GroupAll, GroupPositive, GroupNegative, GroupControl, GroupTorture}
}

// String returns the lower-case group name.
func (g Group) String() string {
	switch g {
	case GroupAll:
		return "all"
	case GroupPositive:
		return "positive"
	case GroupNegative:
		return "negative"
	case GroupControl:
		return "control"
	case GroupTorture:
		return "torture"
	default:
		return "unknown"
	}
}

// Definition is the immutable authored description of a status effect.
//
// Percent fields are fractions: 0.1 means +10%.
type Definition struct {
	ID          string   `yaml:"id" validate:"required"`
	Name        string   `yaml:"name" validate:"required"`
	Description string   `yaml:"description"`
	Turns       int      `yaml:"turns" validate:"gte=1"`
	Polarity    Polarity `yaml:"polarity" validate:"oneof=0 1"`
	Control     bool     `yaml:"control"`
	Torture     bool     `yaml:"torture"`

	// Applied at the start of each of the carrier's turns.
	ArmorPercent    float64 `yaml:"armor_percent" validate:"gte=-1,lte=1"`
	StandardPercent float64 `yaml:"standard_percent" validate:"gte=-1,lte=1"`
	HealthPercent   float64 `yaml:"health_percent" validate:"gte=-1,lte=1"`
	EnergyPercent   float64 `yaml:"energy_percent" validate:"gte=-1,lte=1"`

	// Summed into the carrier's derived multipliers.
	AccuracyPercent       float64 `yaml:"accuracy_percent" validate:"gte=-1"`
	DamagePercent         float64 `yaml:"damage_percent" validate:"gte=-1"`
	CooldownPercent       float64 `yaml:"cooldown_percent" validate:"gte=-1"`
	IncomingDamagePercent float64 `yaml:"incoming_damage_percent" validate:"gte=-1"`
	HealingPercent        float64 `yaml:"healing_percent" validate:"gte=-1"`

	BlockAll        bool `yaml:"block_all"`
	BlockNegative   bool `yaml:"block_negative"`
	BlockPositive   bool `yaml:"block_positive"`
	BlockControl    bool `yaml:"block_control"`
	BlockTorture    bool `yaml:"block_torture"`
	SkipTurn        bool `yaml:"skip_turn"`
	RedirectAttacks bool `yaml:"redirect_attacks"`
	RandomMove      bool `yaml:"random_move"`
	// AbsorbNextHit negates the next incoming damage amount and is consumed by it.
	AbsorbNextHit bool `yaml:"absorb_next_hit"`
}

// InGroup reports whether d belongs to immunity group g.
//
// Postcondition: GroupAll always matches.
func (d *Definition) InGroup(g Group) bool {
	switch g {
	case GroupAll:
		return true
	case GroupPositive:
		return d.Polarity == Positive
	case GroupNegative:
		return d.Polarity == Negative
	case GroupControl:
		return d.Control
	case GroupTorture:
		return d.Torture
	default:
		return false
	}
}

// Validate checks the definition's field constraints.
//
// Postcondition: nil return guarantees non-empty ID and Name, Turns >= 1 and a known Polarity.
func (d *Definition) Validate() error {
	if err := validatorInstance.Struct(d); err != nil {
		return fmt.Errorf("effect %q: %w", d.ID, err)
	}
	return nil
}

// Registry holds all known Definitions keyed by ID.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
//
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *Definition) {
	r.defs[def.ID] = def
}

// Get returns the Definition for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Definition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns a snapshot slice of all registered Definitions sorted by ID.
func (r *Registry) All() []*Definition {
	out := make([]*Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Definition,
// validates it, and returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to
// parse or validate, or if two files declare the same ID.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading effect dir %q: %w", dir, err)
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
		var def Definition
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		if _, dup := reg.Get(def.ID); dup {
			errs = append(errs, fmt.Errorf("%s: duplicate effect ID %q", e.Name(), def.ID))
			continue
		}
		reg.Register(&def)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return reg, nil
}
