package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/CoverPlan/internal/engine"
)

var compareMax int

var compareCmd = &cobra.Command{
	Use:   "compare [input]",
	Short: "Compare the covering of each field under alternative rectangle bounds",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defaultMax := cfg.DefaultMaxRectangles
		if cmd.Flags().Changed("max") {
			defaultMax = compareMax
		}
		return runCompare(cmd.OutOrStdout(), inputPath(args), defaultMax)
	},
}

func init() {
	compareCmd.Flags().IntVar(&compareMax, "max", 0, "rectangle bound for fields without a bound line (0 = unbounded)")
	rootCmd.AddCommand(compareCmd)
}

// runCompare prints one table of scenarios per field.
func runCompare(out io.Writer, input string, defaultMax int) error {
	if defaultMax < 0 {
		return fmt.Errorf("--max must not be negative, got %d", defaultMax)
	}
	problems, err := loadProblems(out, input, defaultMax)
	if err != nil {
		return err
	}

	opt := newOptimizer()
	for _, p := range problems {
		fmt.Fprintf(out, "Field %d (%d X %d, %d strawberries)\n",
			p.Index, p.Field.Rows(), p.Field.Cols(), p.Field.MarkedCount())

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SCENARIO\tMAX\tRECTANGLES\tCOST\tDELTA")
		for _, cr := range engine.CompareBounds(opt, p) {
			bound := "-"
			if cr.Scenario.MaxRectangles > 0 {
				bound = fmt.Sprint(cr.Scenario.MaxRectangles)
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%+d\n",
				cr.Scenario.Name, bound, cr.Cardinality, cr.Cost, cr.CostDelta)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	return nil
}
