package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"

	"github.com/thalesfsp/bandit"
)

// solveOutput is the JSON output of the solve command.
type solveOutput struct {
	Initial    bandit.State       `json:"initial"`
	Trials     int                `json:"trials"`
	Myopic     bool               `json:"myopic"`
	Root       bandit.Decision    `json:"root"`
	LayerSizes []int              `json:"layer_sizes"`
	Policy     []bandit.PolicyRow `json:"policy"`
}

func newSolveCmd(o *options) *cobra.Command {
	var (
		pulls  int
		myopic bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve the bandit and print the policy table",
		Long: `Solve the bandit from the configured prior and print, for every state
that still has a pull to make, the optimal arm and the expected number of
successes over the remaining trials.

Ties are printed as arm1 with a tie marker: either arm is optimal.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			solution, err := o.solve(cmd.Context(), myopic)
			if err != nil {
				return err
			}

			rows := solution.Policy()
			if pulls >= 0 {
				filtered := rows[:0:0]
				for _, row := range rows {
					if row.Pulls == pulls {
						filtered = append(filtered, row)
					}
				}

				rows = filtered
			}

			if o.json {
				return writeJSON(cmd.OutOrStdout(), solveOutput{
					Initial:    solution.Initial,
					Trials:     solution.Trials,
					Myopic:     myopic,
					Root:       solution.Root(),
					LayerSizes: solution.LayerSizes(),
					Policy:     rows,
				})
			}

			au := o.colors()
			root := solution.Root()

			fmt.Fprintf(cmd.OutOrStdout(), "prior %s, %d trials: value %.6f, first pull %s%s\n\n",
				solution.Initial, solution.Trials, root.Value, armLabel(au, root), tieLabel(root))

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PULLS\tREMAINING\tSTATE\tARM\tVALUE\tTIE")

			for _, row := range rows {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%.6f\t%s\n",
					row.Pulls, row.Remaining, row.State, armLabel(au, row.Decision), row.Decision.Value, tieLabel(row.Decision))
			}

			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&pulls, "pulls", -1, "Only print the layer after this many pulls")
	cmd.Flags().BoolVar(&myopic, "myopic", false, "Value the greedy policy instead of the optimal one")

	return cmd
}

func armLabel(au aurora.Aurora, d bandit.Decision) string {
	switch {
	case d.Tie:
		return au.Yellow(d.Arm.String()).String()
	case d.Arm == bandit.Arm1:
		return au.Green(d.Arm.String()).String()
	default:
		return au.Blue(d.Arm.String()).String()
	}
}

func tieLabel(d bandit.Decision) string {
	if d.Tie {
		return "*"
	}

	return ""
}
