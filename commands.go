package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/alDuncanson/imspca/chart"
	"github.com/alDuncanson/imspca/dataset"
	"github.com/alDuncanson/imspca/projection"
	"github.com/alDuncanson/imspca/tui"

	tea "github.com/charmbracelet/bubbletea"
	humanize "github.com/dustin/go-humanize"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

func (a *app) newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot <dataset>",
		Short: "Write the scatter, loadings and scree charts of a dataset",
		Long: `Fit a PCA on the dataset and write scatter, loadings and scree charts
to the output directory. Feature tables have no spectral axes, so no
loadings chart is written for them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPlot(args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringP("out", "o", "charts", "output directory")
	checkNoErr(a.v.BindPFlag("output.dir", flags.Lookup("out")))

	flags.StringP("format", "f", "png", "chart format: png, svg, pdf, jpg, eps or tif")
	checkNoErr(a.v.BindPFlag("output.format", flags.Lookup("format")))

	flags.Int("pc-x", 1, "component on the x axis of the scatter chart")
	checkNoErr(a.v.BindPFlag("scatter.pc_x", flags.Lookup("pc-x")))

	flags.Int("pc-y", 2, "component on the y axis of the scatter chart")
	checkNoErr(a.v.BindPFlag("scatter.pc_y", flags.Lookup("pc-y")))

	flags.Bool("label", false, "annotate scatter points with sample names")
	checkNoErr(a.v.BindPFlag("scatter.label", flags.Lookup("label")))

	flags.Int("pc", 1, "component of the loadings chart")
	checkNoErr(a.v.BindPFlag("loadings.pc", flags.Lookup("pc")))

	flags.Float64("color-range", 0.1, "loadings color scale spans [-range, +range]")
	checkNoErr(a.v.BindPFlag("loadings.color_range", flags.Lookup("color-range")))

	return cmd
}

// chartJob renders one chart of a plot run.
type chartJob struct {
	name   string
	render func() (*chart.Chart, error)
}

func (a *app) runPlot(path string) error {
	model, err := a.fit(path)
	if err != nil {
		return err
	}

	jobs := []chartJob{{
		name:   "scatter",
		render: func() (*chart.Chart, error) { return model.ScatterPlot(a.cfg.Scatter) },
	}}
	if _, ok := model.Dataset().(projection.SpectralSource); ok {
		jobs = append(jobs, chartJob{
			name:   "loadings",
			render: func() (*chart.Chart, error) { return model.LoadingsPlot(a.cfg.Loadings) },
		})
	} else {
		log.WithField("dataset", model.Dataset().Name()).
			Info("Dataset has no spectral axes, skipping loadings chart")
	}
	jobs = append(jobs, chartJob{
		name:   "scree",
		render: func() (*chart.Chart, error) { return model.ScreePlot(a.cfg.Scree) },
	})

	// A failing chart does not prevent the others from being written
	var errm error
	for _, job := range jobs {
		if err := a.writeChart(job); err != nil {
			errm = multierror.Append(errm, err)
		}
	}
	return errm
}

func (a *app) writeChart(job chartJob) error {
	c, err := job.render()
	if err != nil {
		return fmt.Errorf("%s chart: %w", job.name, err)
	}
	defer c.Close()

	path := filepath.Join(a.cfg.OutputDir, job.name+"."+a.cfg.OutputFormat)
	size, err := c.Save(a.fs, path)
	if err != nil {
		return fmt.Errorf("%s chart: %w", job.name, err)
	}

	log.WithField("file", path).Infof("Wrote %s chart (%s)", job.name, humanize.Bytes(uint64(size)))
	return nil
}

func (a *app) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <dataset>",
		Short: "Print the explained variance of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := a.fit(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			samples, features := model.Dataset().Matrix().Dims()
			fmt.Fprint(out, model)
			fmt.Fprintf(out, "%s samples, %s features, %d components (%s)\n\n",
				humanize.Comma(int64(samples)), humanize.Comma(int64(features)),
				model.NComponents(), model.Config().Solver)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "PC\tvariance [%]\tcumulative [%]\t")
			cumulative := model.CumulativeVariancePercent()
			for componentIndex, percent := range model.ExplainedVariancePercent() {
				fmt.Fprintf(w, "%d\t%.1f\t%.1f\t\n", componentIndex+1, percent, cumulative[componentIndex])
			}
			return w.Flush()
		},
	}
}

func (a *app) newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <dataset>",
		Short: "Browse the PCA scores of a dataset in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := a.fit(args[0])
			if err != nil {
				return err
			}

			program := tea.NewProgram(tui.NewModel(model, version), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("running terminal UI: %w", err)
			}
			return nil
		},
	}
}

func (a *app) newDemoCmd() *cobra.Command {
	demo := dataset.DefaultDemoConfig()

	cmd := &cobra.Command{
		Use:   "demo <path>",
		Short: "Write a synthetic two class spectra dataset",
		Long: `Generate GC-IMS like spectra of a "control" and a "treated" class and
write them as a JSON spectra file that the other commands can read.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spectra, err := dataset.Demo(demo)
			if err != nil {
				return err
			}
			if err := dataset.SaveSpectra(a.fs, args[0], spectra); err != nil {
				return fmt.Errorf("writing demo dataset: %w", err)
			}
			log.WithField("file", args[0]).Infof("Wrote %d demo spectra", spectra.Len())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&demo.SamplesPerClass, "samples", demo.SamplesPerClass, "spectra per class")
	flags.IntVar(&demo.RetentionPoints, "retention-points", demo.RetentionPoints, "points on the retention time axis")
	flags.IntVar(&demo.DriftPoints, "drift-points", demo.DriftPoints, "points on the drift time axis")
	flags.Int64Var(&demo.Seed, "demo-seed", demo.Seed, "seed of the noise generator")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  `Print the current version number of the binary`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}
