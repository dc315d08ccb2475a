package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"
)

func newPlotCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plot",
		Short: "Chart the optimal value per horizon",
		Long: `Solve the bandit for every horizon from 1 to trials and render an HTML
page with the optimal expected reward, the greedy baseline, the optimal
reward per pull and the layer sizes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			horizons := make([]string, 0, o.config.Trials)
			optimal := make([]opts.LineData, 0, o.config.Trials)
			myopic := make([]opts.LineData, 0, o.config.Trials)
			perPull := make([]opts.LineData, 0, o.config.Trials)

			for n := 1; n <= o.config.Trials; n++ {
				best, err := o.solveHorizon(cmd.Context(), n, false)
				if err != nil {
					return err
				}

				greedy, err := o.solveHorizon(cmd.Context(), n, true)
				if err != nil {
					return err
				}

				horizons = append(horizons, fmt.Sprintf("%d", n))
				optimal = append(optimal, opts.LineData{Value: best.Root().Value})
				myopic = append(myopic, opts.LineData{Value: greedy.Root().Value})
				perPull = append(perPull, opts.LineData{Value: best.Root().Value / float64(n)})

				o.logger.Debug("plotted horizon", "trials", n, "optimal", best.Root().Value, "myopic", greedy.Root().Value)
			}

			values := charts.NewLine()
			values.SetGlobalOptions(
				charts.WithTitleOpts(opts.Title{
					Title:    "Expected reward",
					Subtitle: fmt.Sprintf("prior %s", o.config.Prior),
				}),
				charts.WithInitializationOpts(opts.Initialization{
					Theme: "shine",
				}),
				charts.WithXAxisOpts(opts.XAxis{Name: "trials"}),
			)
			values.SetXAxis(horizons).
				AddSeries("optimal", optimal).
				AddSeries("myopic", myopic)

			rate := charts.NewLine()
			rate.SetGlobalOptions(
				charts.WithTitleOpts(opts.Title{Title: "Optimal reward per pull"}),
				charts.WithXAxisOpts(opts.XAxis{Name: "trials"}),
			)
			rate.SetXAxis(horizons).AddSeries("optimal / trials", perPull)

			solution, err := o.solve(cmd.Context(), false)
			if err != nil {
				return err
			}

			pulls := make([]string, 0, len(solution.LayerSizes()))
			sizes := make([]opts.BarData, 0, len(solution.LayerSizes()))

			for k, n := range solution.LayerSizes() {
				pulls = append(pulls, fmt.Sprintf("%d", k))
				sizes = append(sizes, opts.BarData{Value: n})
			}

			layers := charts.NewBar()
			layers.SetGlobalOptions(
				charts.WithTitleOpts(opts.Title{Title: "States per layer"}),
				charts.WithXAxisOpts(opts.XAxis{Name: "pulls"}),
			)
			layers.SetXAxis(pulls).AddSeries("states", sizes)

			page := components.NewPage()
			page.AddCharts(values, rate, layers)

			path, err := renderPage(o.config.OutputDir, "bandit.html", page)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)

			return nil
		},
	}
}

// renderPage writes page to dir/name, creating dir if needed.
func renderPage(dir, name string, page *components.Page) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	if err := page.Render(f); err != nil {
		f.Close()

		return "", fmt.Errorf("render %s: %w", path, err)
	}

	return path, f.Close()
}
