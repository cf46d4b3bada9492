package cmd

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/botbattle/internal/game/ai"
	"github.com/cory-johannsen/botbattle/internal/game/combat"
	"github.com/cory-johannsen/botbattle/internal/game/dice"
	"github.com/cory-johannsen/botbattle/internal/observability"
	"github.com/cory-johannsen/botbattle/internal/scripting"
)

var (
	simPlayers      string
	simEnemies      string
	simLevel        int
	simSeed         uint64
	simDomain       string
	simEnemyDomain  string
	simMaxTurns     int
	simSnapshotPath string
	simResumePath   string
	simQuiet        bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run an AI-versus-AI battle",
	Long: `Run a battle between two rosters of three units, both driven by HTN AI
domains, and print every battle event.

The random stream is seeded from --seed, then battle.seed in the
configuration, then a random value. The seed is printed so that any battle
can be replayed.

Examples:
  botbattle simulate --players bruiser,medic,sniper --enemies drone,pyro,hacker --seed 42
  botbattle simulate --seed 42 --max-turns 10 --snapshot battle.yaml
  botbattle simulate --resume battle.yaml`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	mgr := scripting.NewManager(a.logger)
	defer mgr.Close()
	if err := mgr.LoadGlobal(a.cfg.Content.ScriptsDir, a.cfg.Scripting.InstructionLimit); err != nil {
		return fmt.Errorf("loading scripts: %w", err)
	}
	registry, err := ai.LoadRegistry(a.cfg.Content.AIDir, mgr, scriptScope)
	if err != nil {
		return fmt.Errorf("loading AI domains: %w", err)
	}
	selectors, err := buildSelectors(registry, a.logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var names []string
	logEvent := observability.EventLogger(a.logger)
	onEvent := func(ev combat.Event) {
		logEvent(ev)
		if !simQuiet {
			if line := formatEvent(names, ev); line != "" {
				fmt.Fprintln(out, line)
			}
		}
	}

	var b *combat.Battle
	if simResumePath != "" {
		b, err = resumeBattle(a, &names, onEvent)
	} else {
		b, err = startBattle(a, out, &names, onEvent)
	}
	if err != nil {
		return err
	}

	err = combat.Autoplay(b, selectors, simMaxTurns)
	switch {
	case errors.Is(err, combat.ErrTurnLimit):
		fmt.Fprintf(out, "stopped at turn limit %d\n", simMaxTurns)
	case err != nil:
		return fmt.Errorf("running battle: %w", err)
	default:
		fmt.Fprintf(out, "winner: %s after %d turns\n", b.Winner(), b.Turn())
	}

	if simSnapshotPath != "" {
		return writeSnapshot(b, simSnapshotPath)
	}
	return nil
}

// buildSelectors maps each side to the planner for its configured domain.
func buildSelectors(registry *ai.Registry, logger *zap.Logger) (map[combat.Side]combat.Selector, error) {
	enemyDomain := simEnemyDomain
	if enemyDomain == "" {
		enemyDomain = simDomain
	}
	selectors := make(map[combat.Side]combat.Selector, 2)
	for side, id := range map[combat.Side]string{combat.SidePlayer: simDomain, combat.SideEnemy: enemyDomain} {
		planner, ok := registry.PlannerFor(id)
		if !ok {
			return nil, fmt.Errorf("unknown AI domain %q", id)
		}
		selectors[side] = ai.NewSelector(planner, logger.With(zap.Stringer("side", side)))
	}
	return selectors, nil
}

// startBattle builds both rosters and starts a new battle. names is filled
// in roster order before the first event fires.
func startBattle(a *app, out io.Writer, names *[]string, onEvent func(combat.Event)) (*combat.Battle, error) {
	players, err := a.roster(splitIDs(simPlayers), simLevel)
	if err != nil {
		return nil, fmt.Errorf("players: %w", err)
	}
	enemies, err := a.roster(splitIDs(simEnemies), simLevel)
	if err != nil {
		return nil, fmt.Errorf("enemies: %w", err)
	}
	*names = (*names)[:0]
	for _, m := range append(append([]combat.Member{}, players...), enemies...) {
		*names = append(*names, m.Unit.Name)
	}

	seed := pickSeed(a.cfg.Battle.Seed)
	fmt.Fprintf(out, "seed: %d\n", seed)

	engine := combat.NewEngine(
		combat.WithLogger(a.logger),
		combat.WithConfig(a.battleConfig()),
		combat.WithEventHandler(onEvent),
	)
	b, err := engine.StartBattle(players, enemies, seed,
		combat.WithSource(dice.NewLoggedSource(dice.NewSeededSource(seed), a.logger)))
	if err != nil {
		return nil, fmt.Errorf("starting battle: %w", err)
	}
	return b, nil
}

// resumeBattle restores the battle stored at --resume. Restoring emits no
// events, so names is filled afterwards.
func resumeBattle(a *app, names *[]string, onEvent func(combat.Event)) (*combat.Battle, error) {
	data, err := os.ReadFile(simResumePath)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	snap, err := combat.UnmarshalSnapshot(data)
	if err != nil {
		return nil, err
	}
	b, err := combat.Restore(snap, a.catalog,
		combat.WithLogger(a.logger),
		combat.WithEventHandler(onEvent),
		combat.WithSource(dice.NewLoggedSource(dice.NewSeededSource(0), a.logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("restoring battle: %w", err)
	}
	for _, u := range b.Units() {
		*names = append(*names, u.Name())
	}
	return b, nil
}

func writeSnapshot(b *combat.Battle, path string) error {
	snap, err := b.Snapshot()
	if err != nil {
		return fmt.Errorf("capturing snapshot: %w", err)
	}
	data, err := combat.MarshalSnapshot(snap)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// pickSeed prefers the --seed flag, then the configured seed, then a random one.
func pickSeed(configured uint64) uint64 {
	if simSeed != 0 {
		return simSeed
	}
	if configured != 0 {
		return configured
	}
	return uint64(dice.NewCryptoSource().Intn(math.MaxInt32)) + 1
}

func splitIDs(list string) []string {
	var ids []string
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// formatEvent renders ev as one line of battle narration. Events with nothing
// to show render as "".
func formatEvent(names []string, ev combat.Event) string {
	name := func(i int) string {
		if i < 0 || i >= len(names) {
			return "?"
		}
		return names[i]
	}
	subject := ev.Target
	if subject == combat.NoUnit {
		subject = ev.Actor
	}

	switch ev.Kind {
	case combat.EventBattleStarted:
		if len(names) < 2*combat.RosterSize {
			return "battle started"
		}
		return fmt.Sprintf("battle started: %s vs %s",
			strings.Join(names[:combat.RosterSize], ", "), strings.Join(names[combat.RosterSize:], ", "))
	case combat.EventTurnStarted:
		return fmt.Sprintf("-- turn %d: %s", ev.Turn, name(ev.Actor))
	case combat.EventTurnSkipped:
		return fmt.Sprintf("%s skips its turn", name(subject))
	case combat.EventCorrupted:
		return fmt.Sprintf("%s is corrupted and acts on its own", name(subject))
	case combat.EventMoveUsed:
		if ev.Target == combat.NoUnit {
			return fmt.Sprintf("%s uses %s", name(ev.Actor), ev.Move)
		}
		return fmt.Sprintf("%s uses %s on %s", name(ev.Actor), ev.Move, name(ev.Target))
	case combat.EventCooldownUsed:
		return fmt.Sprintf("%s cools down", name(ev.Actor))
	case combat.EventMissed:
		return fmt.Sprintf("%s misses %s", name(ev.Actor), name(ev.Target))
	case combat.EventHealthChanged:
		return fmt.Sprintf("%s health %+d armor %+d", name(subject), ev.Health, ev.Armor)
	case combat.EventEnergyChanged:
		return fmt.Sprintf("%s energy %+d", name(subject), ev.Energy)
	case combat.EventEffectApplied:
		return fmt.Sprintf("%s gains %s", name(subject), ev.Effect)
	case combat.EventEffectBlocked:
		return fmt.Sprintf("%s resists %s", name(subject), ev.Effect)
	case combat.EventEffectsRemoved:
		return fmt.Sprintf("%s loses %s effects", name(subject), ev.Effect)
	case combat.EventEffectExpired:
		return fmt.Sprintf("%s: %s wore off", name(subject), ev.Effect)
	case combat.EventExtraTurnGranted:
		return fmt.Sprintf("%s gains an extra turn", name(subject))
	case combat.EventRevived:
		return fmt.Sprintf("%s is revived with %d health and %d armor", name(subject), ev.Health, ev.Armor)
	case combat.EventUnitDied:
		return fmt.Sprintf("%s is destroyed", name(subject))
	}
	return ""
}

func init() {
	f := simulateCmd.Flags()
	f.StringVar(&simPlayers, "players", "bruiser,medic,sniper", "comma separated unit IDs of the player roster")
	f.StringVar(&simEnemies, "enemies", "drone,pyro,hacker", "comma separated unit IDs of the enemy roster")
	f.IntVar(&simLevel, "level", 1, "level of every unit")
	f.Uint64Var(&simSeed, "seed", 0, "random seed; 0 uses battle.seed from the configuration")
	f.StringVar(&simDomain, "domain", "default", "AI domain for the player side")
	f.StringVar(&simEnemyDomain, "enemy-domain", "", "AI domain for the enemy side; empty uses --domain")
	f.IntVar(&simMaxTurns, "max-turns", 500, "stop after playing this many turns in this run; 0 is unbounded")
	f.StringVar(&simSnapshotPath, "snapshot", "", "write a resumable snapshot to this file when the run stops")
	f.StringVar(&simResumePath, "resume", "", "resume the battle stored in this snapshot file")
	f.BoolVar(&simQuiet, "quiet", false, "print only the seed and the result")
	rootCmd.AddCommand(simulateCmd)
}
