package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alDuncanson/imspca/chart"
	"github.com/alDuncanson/imspca/projection"
	"github.com/alDuncanson/imspca/scaling"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	require.NoError(t, Setup(v, ""))

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, scaling.None, cfg.Scaling)
	assert.Equal(t, projection.DefaultConfig(), cfg.PCA)
	assert.Equal(t, projection.DefaultScatterOptions(), cfg.Scatter)
	assert.Equal(t, projection.DefaultLoadingsOptions(), cfg.Loadings)
	assert.Equal(t, projection.DefaultScreeOptions(), cfg.Scree)
	assert.Equal(t, "charts", cfg.OutputDir)
	assert.Equal(t, "png", cfg.OutputFormat)
}

func TestSetup_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "imspca.yaml")
	content := []byte(`
scaling: pareto
pca:
  components: 3
  solver: randomized
loadings:
  color_range: 0.05
scree:
  style: default
output:
  format: .svg
`)
	require.NoError(t, os.WriteFile(file, content, 0o644))

	v := viper.New()
	require.NoError(t, Setup(v, file))
	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, scaling.Pareto, cfg.Scaling)
	assert.Equal(t, 3, cfg.PCA.Components)
	assert.Equal(t, projection.SolverRandomized, cfg.PCA.Solver)
	assert.Equal(t, 0.05, cfg.Loadings.ColorRange)
	assert.Equal(t, chart.StyleDefault, cfg.Scree.Style)
	assert.Equal(t, "svg", cfg.OutputFormat)
}

func TestSetup_Environment(t *testing.T) {
	t.Setenv("IMSPCA_SCALING", "auto")
	t.Setenv("IMSPCA_SCATTER_PC_Y", "3")

	v := viper.New()
	require.NoError(t, Setup(v, ""))
	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, scaling.Auto, cfg.Scaling)
	assert.Equal(t, 3, cfg.Scatter.PCY)
}

func TestSetup_MissingFile(t *testing.T) {
	assert.Error(t, Setup(viper.New(), filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestFromViper_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "Scaling", key: "scaling", value: "minmax"},
		{name: "Solver", key: "pca.solver", value: "arpack"},
		{name: "ScreeStyle", key: "scree.style", value: "ggplot"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v := viper.New()
			require.NoError(t, Setup(v, ""))
			v.Set(test.key, test.value)

			_, err := FromViper(v)
			assert.Error(t, err)
		})
	}
}
