package combat

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/botbattle/internal/game/dice"
)

// Config holds the tunable battle constants.
type Config struct {
	// GenerateTurns is the queue depth refilled when one turn or fewer remains.
	GenerateTurns int `yaml:"generate_turns"`
	// CooldownPercent is the share of energy capacity removed by the cooldown recovery option.
	CooldownPercent float64 `yaml:"cooldown_percent"`
	// CoolingPercent is the share of energy capacity removed after every move.
	CoolingPercent float64 `yaml:"cooling_percent"`
}

// DefaultConfig returns the standard battle constants.
func DefaultConfig() Config {
	return Config{GenerateTurns: 5, CooldownPercent: 0.4, CoolingPercent: 0.1}
}

// Validate reports constants that would stall or invert the battle.
func (c Config) Validate() error {
	switch {
	case c.GenerateTurns < 2:
		return fmt.Errorf("%w: generate_turns must be >= 2, got %d", ErrInvalidConfig, c.GenerateTurns)
	case c.CooldownPercent < 0 || c.CooldownPercent > 1:
		return fmt.Errorf("%w: cooldown_percent must be in [0,1], got %v", ErrInvalidConfig, c.CooldownPercent)
	case c.CoolingPercent < 0 || c.CoolingPercent > 1:
		return fmt.Errorf("%w: cooling_percent must be in [0,1], got %v", ErrInvalidConfig, c.CoolingPercent)
	}
	return nil
}

// Option customises a Battle.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	cfg     Config
	onEvent func(Event)
	src     Source
}

// WithLogger sets the battle logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithConfig overrides DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithEventHandler registers fn to receive every Event as it is emitted.
func WithEventHandler(fn func(Event)) Option {
	return func(o *options) { o.onEvent = fn }
}

// WithSource replaces the seeded generator. Snapshots require the source to
// implement dice.Restorable.
func WithSource(src Source) Option {
	return func(o *options) { o.src = src }
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop(), cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Phase is the battle state machine position.
type Phase int

const (
	PhaseAwaitingTurn Phase = iota
	PhaseTurnSetup
	PhaseAwaitingMoveSelection
	PhaseExecutingMove
	PhaseResolvingDeaths
	PhaseTurnEnd
	PhaseBattleOver
)

var phaseNames = []string{
	"awaiting-turn", "turn-setup", "awaiting-move-selection", "executing-move",
	"resolving-deaths", "turn-end", "battle-over",
}

// String returns the hyphenated phase name.
func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText encodes p by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	for i, n := range phaseNames {
		if n == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Battle is one battle session. It owns its roster, turn order and random
// stream and is not safe for concurrent use.
type Battle struct {
	id      string
	cfg     Config
	logger  *zap.Logger
	src     Source
	onEvent func(Event)

	units  []*Combatant
	sched  *scheduler
	phase  Phase
	turn   int
	actor  *Combatant
	deaths []*Combatant
	winner Side
	events []Event
}

// Start validates both rosters, breaks speed ties, fills the turn order and
// runs the battle up to the first move selection.
//
// Precondition: players and enemies hold exactly RosterSize members each.
// Postcondition: the returned battle is in PhaseAwaitingMoveSelection or
// PhaseBattleOver; on error no battle is returned.
func Start(players, enemies []Member, seed uint64, opts ...Option) (*Battle, error) {
	o := buildOptions(opts)
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}
	if len(players) != RosterSize || len(enemies) != RosterSize {
		return nil, fmt.Errorf("%w: got %d players and %d enemies", ErrRosterSize, len(players), len(enemies))
	}
	if o.src == nil {
		o.src = dice.NewSeededSource(seed)
	}

	b := newBattle(uuid.NewString(), o)
	for i, m := range append(append([]Member{}, players...), enemies...) {
		if err := validateMember(m); err != nil {
			return nil, fmt.Errorf("roster index %d: %w", i, err)
		}
		level := m.Level
		if level == 0 {
			level = 1
		}
		side := SidePlayer
		if i >= RosterSize {
			side = SideEnemy
		}
		b.units = append(b.units, newCombatant(m.Unit, level, side, i))
	}
	b.sched = newScheduler(b.units)
	b.sched.handleTies(b.src)
	b.sched.generate(b.cfg.GenerateTurns)

	b.logger.Info("battle started",
		zap.String("battle", b.id),
		zap.Uint64("seed", seed),
		zap.Strings("players", b.names(SidePlayer)),
		zap.Strings("enemies", b.names(SideEnemy)),
	)
	b.emit(Event{Kind: EventBattleStarted, Actor: NoUnit, Target: NoUnit, Side: SideNone})
	b.advance()
	return b, nil
}

func newBattle(id string, o options) *Battle {
	return &Battle{
		id:      id,
		cfg:     o.cfg,
		logger:  o.logger.With(zap.String("battle", id)),
		src:     o.src,
		onEvent: o.onEvent,
		winner:  SideNone,
	}
}

func validateMember(m Member) error {
	if m.Unit == nil {
		return fmt.Errorf("%w: nil definition", ErrInvalidUnit)
	}
	if m.Level < 0 {
		return fmt.Errorf("%w: %s has negative level %d", ErrInvalidUnit, m.Unit.ID, m.Level)
	}
	if m.Unit.Speed <= 0 {
		return fmt.Errorf("%w: %s has non-positive speed %d", ErrInvalidUnit, m.Unit.ID, m.Unit.Speed)
	}
	if m.Unit.Health <= 0 {
		return fmt.Errorf("%w: %s has non-positive health %d", ErrInvalidUnit, m.Unit.ID, m.Unit.Health)
	}
	for i, mv := range m.Unit.Moves {
		if !mv.Target.Valid() {
			return fmt.Errorf("%w: %s move %d has unhandled target type %s", ErrInvalidUnit, m.Unit.ID, i, mv.Target)
		}
		for j, a := range mv.Actions {
			if a == nil || !a.Target().Valid() {
				return fmt.Errorf("%w: %s move %d action %d has unhandled target type", ErrInvalidUnit, m.Unit.ID, i, j)
			}
		}
	}
	return nil
}

func (b *Battle) names(side Side) []string {
	var out []string
	for _, u := range b.units {
		if u.Side == side {
			out = append(out, u.Name())
		}
	}
	return out
}

// Engine tracks the battles hosted by one process, keyed by battle ID.
// All methods are safe for concurrent use; each Battle is not.
type Engine struct {
	mu      sync.RWMutex
	battles map[string]*Battle
	opts    []Option
}

// NewEngine creates an Engine whose battles all receive opts before any
// per-battle options.
//
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine(opts ...Option) *Engine {
	return &Engine{battles: make(map[string]*Battle), opts: opts}
}

// StartBattle starts and registers a new battle.
//
// Postcondition: on success the battle is retrievable via Battle(b.ID()).
func (e *Engine) StartBattle(players, enemies []Member, seed uint64, opts ...Option) (*Battle, error) {
	all := append(append([]Option{}, e.opts...), opts...)
	b, err := Start(players, enemies, seed, all...)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.battles[b.id] = b
	return b, nil
}

// Battle returns the registered battle with id.
func (e *Engine) Battle(id string) (*Battle, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.battles[id]
	return b, ok
}

// EndBattle forgets the battle with id.
func (e *Engine) EndBattle(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.battles, id)
}

// Len returns the number of registered battles.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.battles)
}
