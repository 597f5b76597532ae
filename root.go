package main

import (
	"fmt"

	"github.com/alDuncanson/imspca/config"
	"github.com/alDuncanson/imspca/dataset"
	"github.com/alDuncanson/imspca/logging"
	"github.com/alDuncanson/imspca/projection"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var log = logging.WithNamespace("cli")

// app carries the state shared by the subcommands of one invocation.
type app struct {
	fs      afero.Fs
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
}

// newRootCmd builds the command tree. Datasets, configuration files and
// charts are all read from and written to fs.
func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs, v: viper.New()}

	root := &cobra.Command{
		Use:   "imspca",
		Short: "PCA for ion mobility spectrometry data",
		Long: `imspca fits a principal component analysis on GC-IMS spectra or
feature tables and renders scores, loadings and explained variance.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Display the usage/help by default
			return cmd.Usage()
		},
		// Do not display usage on error
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "configuration file (yaml, toml or json)")

	flags.String("log-level", "info", "define the log level")
	checkNoErr(a.v.BindPFlag("log.level", flags.Lookup("log-level")))

	flags.StringP("scaling", "s", "none", "scaling method: none, standard, auto, pareto or var")
	checkNoErr(a.v.BindPFlag("scaling", flags.Lookup("scaling")))

	flags.IntP("components", "n", 0, "number of components to fit, 0 keeps all")
	checkNoErr(a.v.BindPFlag("pca.components", flags.Lookup("components")))

	flags.String("solver", "svd", "decomposition: svd, eigen or randomized")
	checkNoErr(a.v.BindPFlag("pca.solver", flags.Lookup("solver")))

	flags.Int64("seed", 42, "seed of the randomized solver")
	checkNoErr(a.v.BindPFlag("pca.seed", flags.Lookup("seed")))

	root.AddCommand(
		a.newPlotCmd(),
		a.newInfoCmd(),
		a.newViewCmd(),
		a.newDemoCmd(),
		newVersionCmd(),
	)
	return root
}

// setup resolves the configuration and initializes logging before any
// subcommand runs.
func (a *app) setup(cmd *cobra.Command) error {
	a.v.SetFs(a.fs)
	if err := config.Setup(a.v, a.cfgFile); err != nil {
		return err
	}

	if err := logging.Init(logging.Options{
		Level:  a.v.GetString("log.level"),
		Output: cmd.ErrOrStderr(),
	}); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	cfg, err := config.FromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// fit loads the dataset at path and fits a model with the configured options.
func (a *app) fit(path string) (*projection.Model, error) {
	source, err := dataset.Load(a.fs, path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	model, err := projection.Fit(source, nil, a.cfg.Scaling, a.cfg.PCA)
	if err != nil {
		return nil, fmt.Errorf("fitting %s: %w", source.Name(), err)
	}
	return model, nil
}

func checkNoErr(err error) {
	if err != nil {
		panic(err)
	}
}
