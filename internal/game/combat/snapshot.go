package combat

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/botbattle/internal/game/dice"
	"github.com/cory-johannsen/botbattle/internal/game/effect"
	"github.com/cory-johannsen/botbattle/internal/game/unit"
)

// Catalog resolves the definition IDs recorded in a Snapshot.
// unit.Catalog satisfies it.
type Catalog interface {
	Unit(id string) (*unit.Definition, bool)
	Effect(id string) (*effect.Definition, bool)
}

// Snapshot is the complete resumable state of a battle between turns.
type Snapshot struct {
	ID        string         `yaml:"id"`
	Phase     Phase          `yaml:"phase"`
	Turn      int            `yaml:"turn"`
	Actor     int            `yaml:"actor"`
	Winner    Side           `yaml:"winner"`
	Config    Config         `yaml:"config"`
	Units     []UnitSnapshot `yaml:"units"`
	TurnOrder []int          `yaml:"turn_order"`
	Events    int            `yaml:"events"`
	// RNG is the base64 encoded state of the random stream.
	RNG string `yaml:"rng"`
}

// UnitSnapshot is the recorded state of one combatant.
type UnitSnapshot struct {
	ID           string           `yaml:"id"`
	Unit         string           `yaml:"unit"`
	Level        int              `yaml:"level"`
	Side         Side             `yaml:"side"`
	Health       int              `yaml:"health"`
	Armor        int              `yaml:"armor"`
	Energy       int              `yaml:"energy"`
	SpeedCounter int              `yaml:"speed_counter"`
	Dead         bool             `yaml:"dead"`
	Cooldowns    []int            `yaml:"cooldowns"`
	SkipTurn     bool             `yaml:"skip_turn"`
	RandomMove   bool             `yaml:"random_move"`
	Effects      []EffectSnapshot `yaml:"effects,omitempty"`
}

// EffectSnapshot is one active effect with its remaining turns.
type EffectSnapshot struct {
	ID        string `yaml:"id"`
	TurnsLeft int    `yaml:"turns_left"`
}

type restorable interface {
	MarshalBinary() ([]byte, error)
	UnmarshalBinary(data []byte) error
}

// Snapshot captures the battle so that Restore can resume it identically.
//
// Precondition: the battle is awaiting a move or over, and its random source
// implements dice.Restorable.
func (b *Battle) Snapshot() (*Snapshot, error) {
	if b.phase != PhaseAwaitingMoveSelection && b.phase != PhaseBattleOver {
		return nil, fmt.Errorf("%w: phase is %s", ErrSnapshotPhase, b.phase)
	}
	r, ok := b.src.(restorable)
	if !ok {
		return nil, ErrSourceNotRestorable
	}
	state, err := r.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceNotRestorable, err)
	}

	snap := &Snapshot{
		ID:        b.id,
		Phase:     b.phase,
		Turn:      b.turn,
		Actor:     NoUnit,
		Winner:    b.winner,
		Config:    b.cfg,
		TurnOrder: b.TurnOrder(),
		Events:    len(b.events),
		RNG:       base64.StdEncoding.EncodeToString(state),
	}
	if b.actor != nil {
		snap.Actor = b.actor.Index
	}
	for _, u := range b.units {
		us := UnitSnapshot{
			ID:           u.ID,
			Unit:         u.Def.ID,
			Level:        u.Level,
			Side:         u.Side,
			Health:       u.health,
			Armor:        u.armor,
			Energy:       u.energy,
			SpeedCounter: u.speedCounter,
			Dead:         u.dead,
			Cooldowns:    append([]int(nil), u.cooldowns[:]...),
			SkipTurn:     u.skipTurn,
			RandomMove:   u.randomMove,
		}
		for _, inst := range u.effects.All() {
			us.Effects = append(us.Effects, EffectSnapshot{ID: inst.Def.ID, TurnsLeft: inst.TurnsLeft})
		}
		snap.Units = append(snap.Units, us)
	}
	return snap, nil
}

// Restore rebuilds a battle from snap. The random stream resumes from the
// recorded state, so the restored battle continues exactly as the original.
// Events emitted before the snapshot are not retained.
//
// Precondition: catalog resolves every unit and effect ID in snap. A source
// passed via WithSource must implement dice.Restorable.
func Restore(snap *Snapshot, catalog Catalog, opts ...Option) (*Battle, error) {
	o := buildOptions(append([]Option{WithConfig(snap.Config)}, opts...))
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}
	if snap.Phase != PhaseAwaitingMoveSelection && snap.Phase != PhaseBattleOver {
		return nil, fmt.Errorf("%w: phase is %s", ErrSnapshotPhase, snap.Phase)
	}
	if len(snap.Units) != 2*RosterSize {
		return nil, fmt.Errorf("%w: snapshot holds %d units", ErrRosterSize, len(snap.Units))
	}
	if o.src == nil {
		o.src = dice.NewSeededSource(0)
	}
	r, ok := o.src.(restorable)
	if !ok {
		return nil, ErrSourceNotRestorable
	}
	state, err := base64.StdEncoding.DecodeString(snap.RNG)
	if err != nil {
		return nil, fmt.Errorf("decoding rng state: %w", err)
	}
	if err := r.UnmarshalBinary(state); err != nil {
		return nil, fmt.Errorf("restoring rng state: %w", err)
	}

	b := newBattle(snap.ID, o)
	b.phase = snap.Phase
	b.turn = snap.Turn
	b.winner = snap.Winner
	for i, us := range snap.Units {
		c, err := restoreCombatant(us, i, catalog)
		if err != nil {
			return nil, err
		}
		b.units = append(b.units, c)
	}
	b.sched = newScheduler(b.units)
	for _, idx := range snap.TurnOrder {
		if idx < 0 || idx >= len(b.units) {
			return nil, fmt.Errorf("%w: turn order index %d", ErrIllegalTarget, idx)
		}
		if b.units[idx].dead {
			return nil, fmt.Errorf("%w: dead unit %d in turn order", ErrInvalidUnit, idx)
		}
		b.sched.order = append(b.sched.order, b.units[idx])
	}
	if snap.Actor != NoUnit {
		if snap.Actor < 0 || snap.Actor >= len(b.units) {
			return nil, fmt.Errorf("%w: actor index %d", ErrIllegalTarget, snap.Actor)
		}
		if b.units[snap.Actor].dead {
			return nil, fmt.Errorf("%w: dead actor %d", ErrInvalidUnit, snap.Actor)
		}
		b.actor = b.units[snap.Actor]
	}
	return b, nil
}

func restoreCombatant(us UnitSnapshot, index int, catalog Catalog) (*Combatant, error) {
	def, ok := catalog.Unit(us.Unit)
	if !ok {
		return nil, fmt.Errorf("%w: unit %q", ErrUnknownDefinition, us.Unit)
	}
	if len(us.Cooldowns) != unit.MoveSlots {
		return nil, fmt.Errorf("%w: unit %q has %d cooldowns", ErrInvalidUnit, us.Unit, len(us.Cooldowns))
	}
	c := newCombatant(def, max(us.Level, 1), us.Side, index)
	if us.ID != "" {
		c.ID = us.ID
	}
	c.health = clamp(us.Health, 0, c.MaxHealth())
	c.armor = clamp(us.Armor, 0, c.MaxArmor())
	c.energy = max(us.Energy, 0)
	c.speedCounter = us.SpeedCounter
	c.dead = us.Dead
	if c.dead != (c.health == 0) {
		return nil, fmt.Errorf("%w: unit %q has dead=%t with health %d", ErrInvalidUnit, us.Unit, c.dead, c.health)
	}
	copy(c.cooldowns[:], us.Cooldowns)
	c.skipTurn = us.SkipTurn
	c.randomMove = us.RandomMove
	for _, es := range us.Effects {
		ed, ok := catalog.Effect(es.ID)
		if !ok {
			return nil, fmt.Errorf("%w: effect %q", ErrUnknownDefinition, es.ID)
		}
		c.effects.Set(ed, es.TurnsLeft)
	}
	return c, nil
}

// MarshalSnapshot encodes snap as YAML.
func MarshalSnapshot(snap *Snapshot) ([]byte, error) {
	return yaml.Marshal(snap)
}

// UnmarshalSnapshot decodes a YAML snapshot, rejecting unknown fields.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, nil
}
