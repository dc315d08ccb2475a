package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thalesfsp/bandit"
)

// layerOutput is one JSON line of the layers command.
type layerOutput struct {
	Pulls      int  `json:"pulls"`
	Remaining  int  `json:"remaining"`
	States     int  `json:"states"`
	ClosedForm int  `json:"closed_form"`
	Match      bool `json:"match"`
}

func newLayersCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "layers",
		Short: "Enumerate the reachable states per pull",
		Long: `Enumerate the states reachable after 0..trials pulls from the prior and
compare each layer's size with the closed form C(k+3, 3).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			layers, err := bandit.EnumerateStates(o.config.Prior, o.config.Trials)
			if err != nil {
				return err
			}

			out := make([]layerOutput, len(layers))
			for k, layer := range layers {
				out[k] = layerOutput{
					Pulls:      layer.Pulls(),
					Remaining:  o.config.Trials - layer.Pulls(),
					States:     layer.Len(),
					ClosedForm: bandit.LayerSize(layer.Pulls()),
				}
				out[k].Match = out[k].States == out[k].ClosedForm

				o.logger.Debug("layer", "pulls", k, "states", layer.Len())
			}

			if o.json {
				return writeJSON(cmd.OutOrStdout(), out)
			}

			au := o.colors()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PULLS\tREMAINING\tSTATES\tC(k+3,3)\tOK")

			for _, l := range out {
				ok := au.Green("yes").String()
				if !l.Match {
					ok = au.Red("no").String()
				}

				fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\n", l.Pulls, l.Remaining, l.States, l.ClosedForm, ok)
			}

			return tw.Flush()
		},
	}
}
