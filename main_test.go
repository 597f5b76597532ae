package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/alDuncanson/imspca/dataset"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tableCSV = `Sample,Label,f1,f2,f3,f4
s1,control,1,2,3,4
s2,control,2,1,4,3
s3,treated,8,9,1,0
s4,treated,9,8,0,1
s5,blank,5,5,5,5
`

func writeSpectraFixture(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	var spectra []dataset.Spectrum
	for sampleIndex := 0; sampleIndex < 6; sampleIndex++ {
		values := make([][]float64, 3)
		for r := range values {
			values[r] = make([]float64, 4)
			for d := range values[r] {
				values[r][d] = float64((sampleIndex+1)*(r+1)+d*d) + float64(sampleIndex%2)*float64(r*d)
			}
		}
		spectra = append(spectra, dataset.Spectrum{
			Name:      fmt.Sprintf("spectrum%d", sampleIndex),
			Label:     []string{"a", "b"}[sampleIndex%2],
			RetTime:   []float64{100, 200, 300},
			DriftTime: []float64{7.1, 7.2, 7.3, 7.4},
			Values:    values,
		})
	}

	data, err := json.Marshal(map[string]any{
		"name":             "fixture",
		"drift_time_label": "Drift Time [ms]",
		"spectra":          spectra,
	})
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, path, data, 0o644))
}

func execute(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(fs)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPlot_Spectra(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSpectraFixture(t, fs, "/data/fixture.json")

	_, err := execute(t, fs, "plot", "/data/fixture.json", "--out", "/out", "--scaling", "pareto", "--format", "svg")
	require.NoError(t, err)

	for _, name := range []string{"scatter", "loadings", "scree"} {
		exists, err := afero.Exists(fs, "/out/"+name+".svg")
		require.NoError(t, err)
		assert.True(t, exists, name)
	}
}

func TestPlot_TableSkipsLoadings(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/table.csv", []byte(tableCSV), 0o644))

	_, err := execute(t, fs, "plot", "/data/table.csv", "--out", "/out")
	require.NoError(t, err)

	for name, expected := range map[string]bool{"scatter": true, "loadings": false, "scree": true} {
		exists, err := afero.Exists(fs, "/out/"+name+".png")
		require.NoError(t, err)
		assert.Equal(t, expected, exists, name)
	}
}

func TestPlot_ChartErrorsAreCollected(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSpectraFixture(t, fs, "/data/fixture.json")

	_, err := execute(t, fs, "plot", "/data/fixture.json", "--out", "/out", "--pc-y", "9", "--color-range", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scatter chart")
	assert.Contains(t, err.Error(), "loadings chart")

	exists, err := afero.Exists(fs, "/out/scree.png")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPlot_ConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/table.csv", []byte(tableCSV), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/etc/imspca.yaml", []byte("output:\n  dir: /configured\n  format: pdf\n"), 0o644))

	_, err := execute(t, fs, "plot", "/data/table.csv", "--config", "/etc/imspca.yaml")
	require.NoError(t, err)

	exists, err := afero.Exists(fs, "/configured/scree.pdf")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInfo(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/table.csv", []byte(tableCSV), 0o644))

	out, err := execute(t, fs, "info", "/data/table.csv", "--scaling", "auto")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "PCA:\ntable,\nauto scaling\n"))
	assert.Contains(t, out, "5 samples, 4 features, 4 components (svd)")
	assert.Contains(t, out, "cumulative [%]")
}

func TestInfo_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/table.csv", []byte(tableCSV), 0o644))

	tests := []struct {
		name string
		args []string
	}{
		{name: "MissingFile", args: []string{"info", "/data/missing.csv"}},
		{name: "UnsupportedExtension", args: []string{"info", "/data/table.txt"}},
		{name: "UnknownScaling", args: []string{"info", "/data/table.csv", "--scaling", "minmax"}},
		{name: "TooManyComponents", args: []string{"info", "/data/table.csv", "-n", "9"}},
		{name: "BadLogLevel", args: []string{"info", "/data/table.csv", "--log-level", "loud"}},
		{name: "MissingArgument", args: []string{"info"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := execute(t, fs, test.args...)
			assert.Error(t, err)
		})
	}
}

func TestDemoThenPlot(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := execute(t, fs, "demo", "/data/demo.json", "--samples", "4", "--retention-points", "10", "--drift-points", "12")
	require.NoError(t, err)

	out, err := execute(t, fs, "info", "/data/demo.json", "-n", "3", "--solver", "randomized")
	require.NoError(t, err)
	assert.Contains(t, out, "8 samples, 120 features, 3 components (randomized)")

	_, err = execute(t, fs, "plot", "/data/demo.json", "--out", "/out", "--scaling", "auto")
	require.NoError(t, err)
	exists, err := afero.Exists(fs, "/out/loadings.png")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}
