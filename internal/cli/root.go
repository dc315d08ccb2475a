// Package cli implements the banditdp command line for solving and plotting
// finite-horizon Beta-Bernoulli bandits, plus a small Gaussian process demo.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"

	"github.com/thalesfsp/bandit"
)

// options carries the persistent flags and the configuration resolved from
// them before any subcommand runs.
type options struct {
	configPath string
	logLevel   string
	outputDir  string
	trials     int
	workers    int
	prior      []int
	json       bool
	noColor    bool

	config Config
	logger *slog.Logger
}

// Execute runs the root command, cancelling on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the banditdp command tree.
func NewRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "banditdp",
		Short: "Exact finite-horizon two-armed bandit solver",
		Long: `banditdp solves the two-armed Beta-Bernoulli bandit exactly by backward
induction over the reachable posterior states.

Examples:
  banditdp solve --trials 4               # Policy table from a uniform prior
  banditdp solve --prior 2,1,1,1 --json   # JSON output from a custom prior
  banditdp layers --trials 9              # Layer sizes against C(k+3,3)
  banditdp simulate --p1 0.3 --p2 0.7     # Play the policy
  banditdp plot --trials 15               # Value per horizon, HTML chart
  banditdp gp                             # Gaussian process demo chart`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.resolve(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", "", "Path to a YAML config file")
	flags.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVarP(&o.outputDir, "output-dir", "o", "", "Directory for rendered charts")
	flags.IntVarP(&o.trials, "trials", "n", 0, "Horizon (number of pulls)")
	flags.IntVarP(&o.workers, "workers", "w", 0, "Goroutines valuing one layer")
	flags.IntSliceVarP(&o.prior, "prior", "p", nil, "Prior counts alpha1,beta1,alpha2,beta2")
	flags.BoolVar(&o.json, "json", false, "Output as JSON")
	flags.BoolVar(&o.noColor, "no-color", false, "Disable coloured output")

	cmd.AddCommand(
		newSolveCmd(o),
		newLayersCmd(o),
		newSimulateCmd(o),
		newPlotCmd(o),
		newGPCmd(o),
	)

	return cmd
}

// resolve loads the config file and lays the changed flags over it.
func (o *options) resolve(cmd *cobra.Command) error {
	config, err := LoadConfig(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()

	if flags.Changed("log-level") {
		config.LogLevel = o.logLevel
	}

	if flags.Changed("output-dir") {
		config.OutputDir = o.outputDir
	}

	if flags.Changed("trials") {
		config.Trials = o.trials
	}

	if flags.Changed("workers") {
		config.Workers = o.workers
	}

	if flags.Changed("prior") {
		if len(o.prior) != 4 {
			return fmt.Errorf("%w: --prior takes 4 counts, got %d", bandit.ErrInvalidInput, len(o.prior))
		}

		config.Prior = bandit.State{
			Alpha1: o.prior[0],
			Beta1:  o.prior[1],
			Alpha2: o.prior[2],
			Beta2:  o.prior[3],
		}
	}

	if err := config.Validate(); err != nil {
		return err
	}

	logger, err := config.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	o.config = config
	o.logger = logger

	return nil
}

// colors returns the palette for text output.
func (o *options) colors() aurora.Aurora {
	return aurora.NewAurora(!o.noColor)
}

// solve runs the configured solve.
func (o *options) solve(ctx context.Context, myopic bool) (*bandit.Solution, error) {
	return o.solveHorizon(ctx, o.config.Trials, myopic)
}

// solveHorizon solves from the configured prior over trials pulls.
func (o *options) solveHorizon(ctx context.Context, trials int, myopic bool) (*bandit.Solution, error) {
	config := o.config.SolverConfig(o.logger)
	config.Myopic = myopic

	return bandit.SolveContext(ctx, config, o.config.Prior, trials)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
