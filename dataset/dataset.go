// Package dataset holds ion mobility spectrometry datasets in the shape the
// PCA wrapper consumes: a samples x features matrix with per-sample names and
// class labels, plus the retention and drift time axes for spectral data.
package dataset

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DefaultDriftTimeLabel is used when a spectra file does not name its drift time axis.
const DefaultDriftTimeLabel = "Drift Time [ms]"

// ErrInconsistentShape is returned when samples do not share one feature layout.
var ErrInconsistentShape = errors.New("inconsistent sample shape")

// Spectrum is one GC-IMS measurement. Values is indexed [retention][drift].
type Spectrum struct {
	Name      string      `json:"name"`
	Label     string      `json:"label"`
	RetTime   []float64   `json:"ret_time"`
	DriftTime []float64   `json:"drift_time"`
	Values    [][]float64 `json:"values"`
}

// Shape returns the number of retention time and drift time points.
func (s Spectrum) Shape() (retention, drift int) {
	return len(s.RetTime), len(s.DriftTime)
}

func (s Spectrum) validate() error {
	if len(s.Values) != len(s.RetTime) {
		return fmt.Errorf("spectrum %q: %d rows for %d retention times: %w",
			s.Name, len(s.Values), len(s.RetTime), ErrInconsistentShape)
	}
	for rowIndex, row := range s.Values {
		if len(row) != len(s.DriftTime) {
			return fmt.Errorf("spectrum %q: row %d has %d values for %d drift times: %w",
				s.Name, rowIndex, len(row), len(s.DriftTime), ErrInconsistentShape)
		}
	}
	return nil
}

// Spectra is a collection of equally shaped spectra.
type Spectra struct {
	name           string
	driftTimeLabel string
	spectra        []Spectrum
}

// NewSpectra validates that every spectrum matches its own axes and that all
// spectra share the shape of the first one.
func NewSpectra(name, driftTimeLabel string, spectra []Spectrum) (*Spectra, error) {
	if len(spectra) == 0 {
		return nil, errors.New("dataset contains no spectra")
	}
	if driftTimeLabel == "" {
		driftTimeLabel = DefaultDriftTimeLabel
	}

	retention, drift := spectra[0].Shape()
	if retention == 0 || drift == 0 {
		return nil, fmt.Errorf("spectrum %q has empty axes: %w", spectra[0].Name, ErrInconsistentShape)
	}
	for _, spectrum := range spectra {
		if err := spectrum.validate(); err != nil {
			return nil, err
		}
		r, d := spectrum.Shape()
		if r != retention || d != drift {
			return nil, fmt.Errorf("spectrum %q is %dx%d, expected %dx%d: %w",
				spectrum.Name, r, d, retention, drift, ErrInconsistentShape)
		}
	}

	return &Spectra{name: name, driftTimeLabel: driftTimeLabel, spectra: spectra}, nil
}

func (s *Spectra) Name() string { return s.name }

// Len returns the number of spectra.
func (s *Spectra) Len() int { return len(s.spectra) }

// At returns the spectrum at index i.
func (s *Spectra) At(i int) Spectrum { return s.spectra[i] }

// Matrix flattens every spectrum row-major (retention time major) into one row.
func (s *Spectra) Matrix() *mat.Dense {
	retention, drift := s.spectra[0].Shape()
	numberOfFeatures := retention * drift
	flattened := make([]float64, 0, len(s.spectra)*numberOfFeatures)
	for _, spectrum := range s.spectra {
		for _, row := range spectrum.Values {
			flattened = append(flattened, row...)
		}
	}
	return mat.NewDense(len(s.spectra), numberOfFeatures, flattened)
}

func (s *Spectra) Samples() []string {
	samples := make([]string, len(s.spectra))
	for i, spectrum := range s.spectra {
		samples[i] = spectrum.Name
	}
	return samples
}

func (s *Spectra) Labels() []string {
	labels := make([]string, len(s.spectra))
	for i, spectrum := range s.spectra {
		labels[i] = spectrum.Label
	}
	return labels
}

// Axes returns the retention and drift time axes of the first spectrum.
func (s *Spectra) Axes() (retTime, driftTime []float64) {
	return s.spectra[0].RetTime, s.spectra[0].DriftTime
}

func (s *Spectra) DriftTimeLabel() string { return s.driftTimeLabel }

// Table is a plain feature table without spectral axes.
type Table struct {
	name     string
	samples  []string
	labels   []string
	features *mat.Dense
}

// NewTable wraps a feature matrix with one sample name and label per row.
func NewTable(name string, samples, labels []string, features *mat.Dense) (*Table, error) {
	if features == nil {
		return nil, errors.New("dataset contains no features")
	}
	rows, _ := features.Dims()
	if len(samples) != rows || len(labels) != rows {
		return nil, fmt.Errorf("%d samples and %d labels for %d rows: %w",
			len(samples), len(labels), rows, ErrInconsistentShape)
	}
	return &Table{name: name, samples: samples, labels: labels, features: features}, nil
}

func (t *Table) Name() string       { return t.name }
func (t *Table) Matrix() *mat.Dense { return mat.DenseCopyOf(t.features) }
func (t *Table) Samples() []string  { return t.samples }
func (t *Table) Labels() []string   { return t.labels }
