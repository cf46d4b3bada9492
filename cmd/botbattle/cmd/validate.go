package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/botbattle/internal/game/ai"
	"github.com/cory-johannsen/botbattle/internal/scripting"
)

// scriptScope is the scope AI preconditions are evaluated in. Only the global
// VM is loaded, so every call falls back to it.
const scriptScope = "battle"

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load all content and report problems",
	Long: `Load the effect, unit and AI domain directories and the Lua precondition
scripts named in the configuration. Every precondition a domain names must be
a function defined by the scripts.

Exits non-zero and lists every problem when anything fails to load.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	domains, err := ai.LoadDomains(a.cfg.Content.AIDir)
	if err != nil {
		return fmt.Errorf("loading AI domains: %w", err)
	}
	mgr := scripting.NewManager(a.logger)
	defer mgr.Close()
	if err := mgr.LoadGlobal(a.cfg.Content.ScriptsDir, a.cfg.Scripting.InstructionLimit); err != nil {
		return fmt.Errorf("loading scripts: %w", err)
	}

	var errs []error
	for _, d := range domains {
		for _, m := range d.Methods {
			if m.Precondition != "" && !mgr.HasHook(scriptScope, m.Precondition) {
				errs = append(errs, fmt.Errorf("domain %q method %q: precondition %q is not defined", d.ID, m.ID, m.Precondition))
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d effects\n", len(a.catalog.Effects.All()))
	fmt.Fprintf(out, "%d units\n", len(a.catalog.Units.All()))
	fmt.Fprintf(out, "%d AI domains\n", len(domains))
	fmt.Fprintln(out, "content OK")
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
