package cli

import (
	"fmt"
	"math"
	"math/rand"
	"text/tabwriter"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/thalesfsp/bandit/gp"
)

// objective is the function the demo regresses on.
func objective(x float64) float64 {
	return x * math.Sin(x)
}

// gpCandidate is one line of the gp command output.
type gpCandidate struct {
	Acquisition string  `json:"acquisition"`
	X           float64 `json:"x"`
	Score       float64 `json:"score"`
	Mean        float64 `json:"mean"`
	StdDev      float64 `json:"std_dev"`
}

func newGPCmd(o *options) *cobra.Command {
	var (
		points []float64
		lo, hi float64
		grid   int
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "gp",
		Short: "Fit a Gaussian process to x·sin(x) and chart the acquisitions",
		Long: `Fit a Gaussian process to observations of x·sin(x), then score a grid of
candidates with UCB, Probability of Improvement, Expected Improvement and
Thompson Sampling. Prints the best candidate of each and renders an HTML
page with the posterior mean, a 2σ band and the PI and EI curves.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model := gp.New(o.config.GP)

			for _, x := range points {
				if err := model.Update([]float64{x}, objective(x)); err != nil {
					return err
				}
			}

			params := o.config.Acquisition
			params.BestSoFar = model.Best()
			params.RandomState = rand.New(rand.NewSource(seed))

			candidates := gp.Grid(lo, hi, grid)

			acquisitions := []struct {
				name string
				fn   gp.AcquisitionFunc
			}{
				{"UCB", gp.UCB},
				{"PI", gp.ProbabilityOfImprovement},
				{"EI", gp.ExpectedImprovement},
				{"Thompson", gp.ThompsonSampling},
			}

			out := make([]gpCandidate, 0, len(acquisitions))

			for _, acq := range acquisitions {
				idx, score, err := model.BestCandidate(candidates, acq.fn, params)
				if err != nil {
					return err
				}

				mean, variance, err := model.Predict(candidates[idx])
				if err != nil {
					return err
				}

				out = append(out, gpCandidate{
					Acquisition: acq.name,
					X:           candidates[idx][0],
					Score:       score,
					Mean:        mean,
					StdDev:      math.Sqrt(variance),
				})

				o.logger.Debug("scored candidates", "acquisition", acq.name, "x", candidates[idx][0], "score", score)
			}

			page, err := gpPage(model, candidates, params)
			if err != nil {
				return err
			}

			path, err := renderPage(o.config.OutputDir, "gp.html", page)
			if err != nil {
				return err
			}

			if o.json {
				return writeJSON(cmd.OutOrStdout(), out)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ACQUISITION\tX\tSCORE\tMEAN\tSTD")

			for _, c := range out {
				fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n", c.Acquisition, c.X, c.Score, c.Mean, c.StdDev)
			}

			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)

			return nil
		},
	}

	cmd.Flags().Float64SliceVar(&points, "points", []float64{1, 3, 5, 6, 8}, "Observed inputs")
	cmd.Flags().Float64Var(&lo, "lo", 0, "Lower end of the candidate grid")
	cmd.Flags().Float64Var(&hi, "hi", 10, "Upper end of the candidate grid")
	cmd.Flags().IntVar(&grid, "grid", 200, "Number of candidates")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed for Thompson Sampling")

	return cmd
}

// gpPage charts the posterior and the PI/EI curves over candidates.
func gpPage(model *gp.GaussianProcess, candidates [][]float64, params gp.AcquisitionParams) (*components.Page, error) {
	xs := make([]string, len(candidates))
	truth := make([]opts.LineData, len(candidates))
	mean := make([]opts.LineData, len(candidates))
	upper := make([]opts.LineData, len(candidates))
	lower := make([]opts.LineData, len(candidates))
	pi := make([]opts.LineData, len(candidates))
	ei := make([]opts.LineData, len(candidates))

	for i, c := range candidates {
		m, v, err := model.Predict(c)
		if err != nil {
			return nil, err
		}

		sigma := math.Sqrt(v)

		xs[i] = fmt.Sprintf("%.2f", c[0])
		truth[i] = opts.LineData{Value: objective(c[0])}
		mean[i] = opts.LineData{Value: m}
		upper[i] = opts.LineData{Value: m + 2*sigma}
		lower[i] = opts.LineData{Value: m - 2*sigma}
		pi[i] = opts.LineData{Value: gp.ProbabilityOfImprovement(m, v, params)}
		ei[i] = opts.LineData{Value: gp.ExpectedImprovement(m, v, params)}
	}

	posterior := charts.NewLine()
	posterior.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Gaussian process posterior",
			Subtitle: fmt.Sprintf("%d observations of x·sin(x)", model.Len()),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x"}),
	)
	posterior.SetXAxis(xs).
		AddSeries("x·sin(x)", truth).
		AddSeries("mean", mean).
		AddSeries("mean + 2σ", upper).
		AddSeries("mean - 2σ", lower)

	acquisition := charts.NewLine()
	acquisition.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Acquisition",
			Subtitle: fmt.Sprintf("best so far %.4f, ξ = %.3f", params.BestSoFar, params.Xi),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x"}),
	)
	acquisition.SetXAxis(xs).
		AddSeries("PI", pi).
		AddSeries("EI", ei)

	page := components.NewPage()
	page.AddCharts(posterior, acquisition)

	return page, nil
}
