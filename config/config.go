// Package config reads the imspca settings from defaults, an optional
// configuration file, IMSPCA_* environment variables and bound flags.
package config

import (
	"fmt"
	"strings"

	"github.com/alDuncanson/imspca/chart"
	"github.com/alDuncanson/imspca/projection"
	"github.com/alDuncanson/imspca/scaling"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "imspca"

// Config is the resolved configuration of one run.
type Config struct {
	LogLevel     string
	Scaling      scaling.Method
	PCA          projection.Config
	OutputDir    string
	OutputFormat string
	Scatter      projection.ScatterOptions
	Loadings     projection.LoadingsOptions
	Scree        projection.ScreeOptions
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	pca := projection.DefaultConfig()
	scatter := projection.DefaultScatterOptions()
	loadings := projection.DefaultLoadingsOptions()
	scree := projection.DefaultScreeOptions()

	v.SetDefault("log.level", "info")
	v.SetDefault("scaling", "none")

	v.SetDefault("pca.components", pca.Components)
	v.SetDefault("pca.solver", string(pca.Solver))
	v.SetDefault("pca.seed", pca.RandomSeed)
	v.SetDefault("pca.power_iterations", pca.PowerIterations)

	v.SetDefault("output.dir", "charts")
	v.SetDefault("output.format", "png")

	v.SetDefault("scatter.pc_x", scatter.PCX)
	v.SetDefault("scatter.pc_y", scatter.PCY)
	v.SetDefault("scatter.width", scatter.Width)
	v.SetDefault("scatter.height", scatter.Height)
	v.SetDefault("scatter.hue", scatter.Hue)
	v.SetDefault("scatter.style", scatter.Style)
	v.SetDefault("scatter.label", scatter.Label)

	v.SetDefault("loadings.pc", loadings.PC)
	v.SetDefault("loadings.color_range", loadings.ColorRange)
	v.SetDefault("loadings.width", loadings.Width)
	v.SetDefault("loadings.height", loadings.Height)

	v.SetDefault("scree.width", scree.Width)
	v.SetDefault("scree.height", scree.Height)
	v.SetDefault("scree.style", string(scree.Style))
}

// Setup applies defaults and environment lookups to v and reads file when it
// is not empty.
func Setup(v *viper.Viper, file string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file == "" {
		return nil
	}
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", file, err)
	}
	return nil
}

// FromViper resolves and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	method, err := scaling.ParseMethod(v.GetString("scaling"))
	if err != nil {
		return nil, err
	}
	solver, err := projection.ParseSolver(v.GetString("pca.solver"))
	if err != nil {
		return nil, err
	}
	screeStyle, err := chart.ParseStyle(v.GetString("scree.style"))
	if err != nil {
		return nil, err
	}

	return &Config{
		LogLevel: v.GetString("log.level"),
		Scaling:  method,
		PCA: projection.Config{
			Components:      v.GetInt("pca.components"),
			Solver:          solver,
			RandomSeed:      v.GetInt64("pca.seed"),
			PowerIterations: v.GetInt("pca.power_iterations"),
		},
		OutputDir:    v.GetString("output.dir"),
		OutputFormat: strings.TrimPrefix(v.GetString("output.format"), "."),
		Scatter: projection.ScatterOptions{
			PCX:    v.GetInt("scatter.pc_x"),
			PCY:    v.GetInt("scatter.pc_y"),
			Width:  v.GetFloat64("scatter.width"),
			Height: v.GetFloat64("scatter.height"),
			Hue:    v.GetString("scatter.hue"),
			Style:  v.GetString("scatter.style"),
			Label:  v.GetBool("scatter.label"),
		},
		Loadings: projection.LoadingsOptions{
			PC:         v.GetInt("loadings.pc"),
			ColorRange: v.GetFloat64("loadings.color_range"),
			Width:      v.GetFloat64("loadings.width"),
			Height:     v.GetFloat64("loadings.height"),
		},
		Scree: projection.ScreeOptions{
			Width:  v.GetFloat64("scree.width"),
			Height: v.GetFloat64("scree.height"),
			Style:  screeStyle,
		},
	}, nil
}
