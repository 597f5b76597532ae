package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/afero"
	"gonum.org/v1/gonum/mat"
)

// Column names of the identifier columns in CSV feature tables.
const (
	SampleColumn = "Sample"
	LabelColumn  = "Label"
)

type jsonSpectra struct {
	Name           string     `json:"name"`
	DriftTimeLabel string     `json:"drift_time_label"`
	Spectra        []Spectrum `json:"spectra"`
}

// Source is what every loader returns.
type Source interface {
	Name() string
	Matrix() *mat.Dense
	Samples() []string
	Labels() []string
}

// Load reads a dataset, choosing the format from the file extension.
func Load(fs afero.Fs, path string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return LoadSpectra(fs, path)
	case ".csv":
		return LoadTable(fs, path)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// LoadSpectra reads a JSON spectra file.
func LoadSpectra(fs afero.Fs, path string) (*Spectra, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading JSON file: %w", err)
	}

	var parsed jsonSpectra
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	for i, spectrum := range parsed.Spectra {
		if spectrum.Name == "" {
			return nil, fmt.Errorf("spectrum %d missing name field", i)
		}
	}

	name := parsed.Name
	if name == "" {
		name = datasetNameFromPath(path)
	}
	return NewSpectra(name, parsed.DriftTimeLabel, parsed.Spectra)
}

// SaveSpectra writes spectra in the format read by LoadSpectra.
func SaveSpectra(fs afero.Fs, path string, spectra *Spectra) error {
	data, err := json.Marshal(jsonSpectra{
		Name:           spectra.name,
		DriftTimeLabel: spectra.driftTimeLabel,
		Spectra:        spectra.spectra,
	})
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return afero.WriteFile(fs, path, data, 0o644)
}

// LoadTable reads a CSV feature table with a "Sample" and a "Label" column;
// every other column is a numeric feature.
func LoadTable(fs afero.Fs, path string) (*Table, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening CSV file: %w", err)
	}
	defer file.Close()

	frame := dataframe.ReadCSV(file, dataframe.HasHeader(true))
	if frame.Err != nil {
		return nil, fmt.Errorf("reading CSV: %w", frame.Err)
	}
	if frame.Nrow() == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	samples := frame.Col(SampleColumn)
	if samples.Err != nil {
		return nil, fmt.Errorf("CSV missing '%s' column header", SampleColumn)
	}
	labels := frame.Col(LabelColumn)
	if labels.Err != nil {
		return nil, fmt.Errorf("CSV missing '%s' column header", LabelColumn)
	}

	var featureNames []string
	for _, columnName := range frame.Names() {
		if columnName != SampleColumn && columnName != LabelColumn {
			featureNames = append(featureNames, columnName)
		}
	}
	if len(featureNames) == 0 {
		return nil, fmt.Errorf("CSV has no feature columns")
	}

	features := mat.NewDense(frame.Nrow(), len(featureNames), nil)
	for columnIndex, columnName := range featureNames {
		values := frame.Col(columnName).Float()
		for rowIndex, value := range values {
			if math.IsNaN(value) {
				return nil, fmt.Errorf("column %q row %d is not numeric", columnName, rowIndex+1)
			}
			features.Set(rowIndex, columnIndex, value)
		}
	}

	return NewTable(datasetNameFromPath(path), samples.Records(), labels.Records(), features)
}

func datasetNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
