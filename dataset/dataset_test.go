package dataset

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoByThreeSpectrum(name, label string, offset float64) Spectrum {
	return Spectrum{
		Name:      name,
		Label:     label,
		RetTime:   []float64{10, 20},
		DriftTime: []float64{1.0, 1.1, 1.2},
		Values: [][]float64{
			{offset + 1, offset + 2, offset + 3},
			{offset + 4, offset + 5, offset + 6},
		},
	}
}

func TestNewSpectra_FlattensRowMajor(t *testing.T) {
	spectra, err := NewSpectra("test", "", []Spectrum{
		twoByThreeSpectrum("a", "x", 0),
		twoByThreeSpectrum("b", "y", 10),
	})
	require.NoError(t, err)

	matrix := spectra.Matrix()
	rows, cols := matrix.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 6, cols)
	assert.Equal(t, 4.0, matrix.At(0, 3))
	assert.Equal(t, 16.0, matrix.At(1, 5))

	assert.Equal(t, []string{"a", "b"}, spectra.Samples())
	assert.Equal(t, []string{"x", "y"}, spectra.Labels())
	assert.Equal(t, DefaultDriftTimeLabel, spectra.DriftTimeLabel())

	retTime, driftTime := spectra.Axes()
	assert.Equal(t, []float64{10, 20}, retTime)
	assert.Equal(t, []float64{1.0, 1.1, 1.2}, driftTime)
}

func TestNewSpectra_RejectsMismatchedShapes(t *testing.T) {
	other := twoByThreeSpectrum("b", "y", 0)
	other.DriftTime = []float64{1.0, 1.1}
	other.Values = [][]float64{{1, 2}, {3, 4}}

	_, err := NewSpectra("test", "", []Spectrum{twoByThreeSpectrum("a", "x", 0), other})
	assert.ErrorIs(t, err, ErrInconsistentShape)
}

func TestNewSpectra_RejectsRaggedGrid(t *testing.T) {
	ragged := twoByThreeSpectrum("a", "x", 0)
	ragged.Values[1] = []float64{1}

	_, err := NewSpectra("test", "", []Spectrum{ragged})
	assert.ErrorIs(t, err, ErrInconsistentShape)
}

func TestNewSpectra_Empty(t *testing.T) {
	_, err := NewSpectra("test", "", nil)
	assert.Error(t, err)
}

func TestNewTable_RowCountMismatch(t *testing.T) {
	_, err := NewTable("t", []string{"a"}, []string{"x", "y"}, nil)
	assert.Error(t, err)
}

func TestLoadSpectra(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `{
		"drift_time_label": "Reduced Ion Mobility [cm²/Vs]",
		"spectra": [
			{"name": "s1", "label": "healthy", "ret_time": [1, 2], "drift_time": [0.5], "values": [[1], [2]]},
			{"name": "s2", "label": "sick", "ret_time": [1, 2], "drift_time": [0.5], "values": [[3], [4]]}
		]
	}`
	require.NoError(t, afero.WriteFile(fs, "/data/breath.json", []byte(content), 0o644))

	source, err := Load(fs, "/data/breath.json")
	require.NoError(t, err)

	spectra, ok := source.(*Spectra)
	require.True(t, ok)
	assert.Equal(t, "breath", spectra.Name())
	assert.Equal(t, "Reduced Ion Mobility [cm²/Vs]", spectra.DriftTimeLabel())
	assert.Equal(t, 2, spectra.Len())
	assert.Equal(t, "sick", spectra.At(1).Label)
}

func TestLoadSpectra_MissingName(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `{"spectra": [{"label": "a", "ret_time": [1], "drift_time": [1], "values": [[1]]}]}`
	require.NoError(t, afero.WriteFile(fs, "/s.json", []byte(content), 0o644))

	_, err := LoadSpectra(fs, "/s.json")
	assert.Error(t, err)
}

func TestLoadTable(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := "Sample,Label,f1,f2\n" +
		"s1,a,1.5,2\n" +
		"s2,b,3,4.25\n"
	require.NoError(t, afero.WriteFile(fs, "/table.csv", []byte(content), 0o644))

	source, err := Load(fs, "/table.csv")
	require.NoError(t, err)

	assert.Equal(t, "table", source.Name())
	assert.Equal(t, []string{"s1", "s2"}, source.Samples())
	assert.Equal(t, []string{"a", "b"}, source.Labels())

	matrix := source.Matrix()
	rows, cols := matrix.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 4.25, matrix.At(1, 1))
}

func TestLoadTable_MissingLabelColumn(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/table.csv", []byte("Sample,f1\ns1,1\n"), 0o644))

	_, err := LoadTable(fs, "/table.csv")
	assert.Error(t, err)
}

func TestLoadTable_NonNumericFeature(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/table.csv", []byte("Sample,Label,f1\ns1,a,high\ns2,b,low\n"), 0o644))

	_, err := LoadTable(fs, "/table.csv")
	assert.Error(t, err)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/data.txt")
	assert.Error(t, err)
}
