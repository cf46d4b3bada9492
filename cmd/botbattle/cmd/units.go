package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unitsShowMoves bool

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List the authored units",
	Long: `List every unit definition with its level 1 stats.

Examples:
  botbattle units            # one line per unit
  botbattle units --moves    # include each move's cost, cooldown and description`,
	Args: cobra.NoArgs,
	RunE: runUnits,
}

func runUnits(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	for _, def := range a.catalog.Units.All() {
		fmt.Fprintf(out, "%-10s %-12s %-10s hp=%d armor=%d str=%d spd=%d energy=%d power=%d\n",
			def.ID, def.Name, def.Class,
			def.Health, def.Armor, def.Strength, def.Speed, def.EnergyCapacity, def.Power())
		if !unitsShowMoves {
			continue
		}
		for i := range def.Moves {
			m := &def.Moves[i]
			fmt.Fprintf(out, "  [%d] %s (energy %d, cooldown %d, %s)\n", i, m.Name, m.Energy, m.Cooldown, m.Target.Phrase())
			fmt.Fprintf(out, "      %s\n", m.Describe())
		}
	}
	return nil
}

func init() {
	unitsCmd.Flags().BoolVar(&unitsShowMoves, "moves", false, "describe every move")
	rootCmd.AddCommand(unitsCmd)
}
