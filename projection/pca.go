// Package projection fits principal component analysis (PCA) models on ion
// mobility spectrometry datasets and renders their scores, loadings and
// explained variance as charts.
//
// # Principal Component Analysis (PCA) Overview
//
// A GC-IMS spectrum is a grid of intensities over retention time and drift
// time. Flattened, every spectrum becomes one row with thousands of features.
// PCA finds the few directions (principal components) along which the
// spectra vary the most, so that samples can be compared on a 2D scatter plot
// and the spectral regions driving the separation can be read off the
// component loadings.
//
// The decomposition itself is delegated to gonum: stat.PC for the default
// SVD solver, mat.EigenSym on the covariance matrix for the eigen solver, and
// a thin mat.SVD range finder for the randomized solver. This package only prepares
// the matrix, normalizes component signs and reshapes the results for
// plotting.
package projection

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/alDuncanson/imspca/logging"
	"github.com/alDuncanson/imspca/scaling"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var log = logging.WithNamespace("projection")

var (
	// ErrComponents is returned when the requested number of components is
	// negative or exceeds min(samples, features).
	ErrComponents = errors.New("invalid number of components")

	// ErrComponentOutOfRange is returned when a 1-based component index is
	// outside [1, NComponents].
	ErrComponentOutOfRange = errors.New("component index out of range")

	// ErrFactorization is returned when the underlying decomposition fails.
	ErrFactorization = errors.New("PCA factorization failed")

	// ErrUnknownSolver is returned for an unrecognized solver name.
	ErrUnknownSolver = errors.New("unknown PCA solver")

	// ErrTooFewSamples is returned when fewer than two samples are given.
	ErrTooFewSamples = errors.New("PCA needs at least two samples")
)

// Source is the dataset a model is fitted on. Matrix rows are samples.
type Source interface {
	Name() string
	Matrix() *mat.Dense
	Samples() []string
	Labels() []string
}

// SpectralSource is a Source whose features are a flattened retention time x
// drift time grid.
type SpectralSource interface {
	Source
	Axes() (retTime, driftTime []float64)
	DriftTimeLabel() string
}

// Solver selects the decomposition routine.
type Solver string

const (
	SolverSVD        Solver = "svd"
	SolverEigen      Solver = "eigen"
	SolverRandomized Solver = "randomized"
)

// ParseSolver maps a solver name to a Solver. The empty string selects SVD.
func ParseSolver(name string) (Solver, error) {
	switch Solver(strings.ToLower(strings.TrimSpace(name))) {
	case SolverSVD, "":
		return SolverSVD, nil
	case SolverEigen:
		return SolverEigen, nil
	case SolverRandomized:
		return SolverRandomized, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSolver, name)
	}
}

// Config holds the options forwarded to the decomposition.
type Config struct {
	Components      int    // Number of components to keep, 0 keeps min(samples, features)
	Solver          Solver // Decomposition routine (default: svd)
	RandomSeed      int64  // Seed of the randomized solver
	PowerIterations int    // Subspace iterations of the randomized solver (default: 4)
}

// DefaultConfig returns the default PCA options.
func DefaultConfig() Config {
	return Config{
		Components:      0,
		Solver:          SolverSVD,
		RandomSeed:      42,
		PowerIterations: 4,
	}
}

// Model is a fitted PCA model. It is immutable once returned by Fit.
type Model struct {
	source  Source
	method  scaling.Method
	config  Config
	weights []float64

	columnMeans            []float64
	components             *mat.Dense // (components x features)
	loadings               *mat.Dense // components, descaled when the scaling method requires it
	scores                 *mat.Dense // (samples x components)
	explainedVariance      []float64
	explainedVarianceRatio []float64
}

// decomposition is what every solver returns: the top component directions as
// rows and the variance of the scores along each of them.
type decomposition struct {
	components *mat.Dense
	variances  []float64
}

// Fit scales the dataset matrix, fits PCA and computes scores and loadings.
// A nil scaler selects scaling.ColumnScaler.
func Fit(source Source, scaler scaling.Scaler, method scaling.Method, config Config) (*Model, error) {
	if scaler == nil {
		scaler = scaling.NewColumnScaler()
	}
	if config.Solver == "" {
		config.Solver = SolverSVD
	}

	dataMatrix := source.Matrix()
	numberOfSamples, numberOfFeatures := dataMatrix.Dims()
	if numberOfSamples < 2 {
		return nil, ErrTooFewSamples
	}

	scaledMatrix, weights, err := scaler.Scale(dataMatrix, method)
	if err != nil {
		return nil, fmt.Errorf("scaling %s: %w", source.Name(), err)
	}

	maximumComponents := min(numberOfSamples, numberOfFeatures)
	numberOfComponents := config.Components
	if numberOfComponents == 0 {
		numberOfComponents = maximumComponents
	}
	if numberOfComponents < 0 || numberOfComponents > maximumComponents {
		return nil, fmt.Errorf("%w: requested %d, data allows at most %d",
			ErrComponents, config.Components, maximumComponents)
	}

	// Center the data by subtracting the mean of each feature. Every solver
	// works on the centered matrix and scores are projections of it.
	columnMeans := calculateColumnMeans(scaledMatrix, numberOfFeatures)
	centeredMatrix := centerDataMatrix(scaledMatrix, columnMeans)

	result, err := decompose(centeredMatrix, numberOfComponents, config)
	if err != nil {
		return nil, err
	}
	flipComponentSigns(result.components)

	model := &Model{
		source:            source,
		method:            method,
		config:            config,
		weights:           weights,
		columnMeans:       columnMeans,
		components:        result.components,
		scores:            projectOntoComponents(centeredMatrix, result.components),
		explainedVariance: result.variances,
		explainedVarianceRatio: explainedVarianceRatios(
			result.variances, totalVariance(centeredMatrix)),
	}
	model.loadings = descaleLoadings(result.components, weights, method)

	log.WithField("dataset", source.Name()).
		WithField("samples", numberOfSamples).
		WithField("features", numberOfFeatures).
		WithField("components", numberOfComponents).
		WithField("solver", config.Solver).
		WithField("scaling", method.String()).
		Debug("PCA model fitted")

	return model, nil
}

func decompose(centeredMatrix *mat.Dense, numberOfComponents int, config Config) (decomposition, error) {
	switch config.Solver {
	case SolverSVD:
		return decomposeWithSVD(centeredMatrix, numberOfComponents)
	case SolverEigen:
		return decomposeWithEigen(centeredMatrix, numberOfComponents)
	case SolverRandomized:
		return decomposeRandomized(centeredMatrix, numberOfComponents, config.RandomSeed, config.PowerIterations)
	default:
		return decomposition{}, fmt.Errorf("%w: %q", ErrUnknownSolver, string(config.Solver))
	}
}

// calculateColumnMeans computes the arithmetic mean of each column (feature) in the matrix.
func calculateColumnMeans(dataMatrix *mat.Dense, numberOfFeatures int) []float64 {
	columnMeans := make([]float64, numberOfFeatures)

	for columnIndex := 0; columnIndex < numberOfFeatures; columnIndex++ {
		columnValues := mat.Col(nil, columnIndex, dataMatrix)
		columnMeans[columnIndex] = stat.Mean(columnValues, nil)
	}

	return columnMeans
}

// centerDataMatrix returns a copy of the matrix with every column mean subtracted.
func centerDataMatrix(dataMatrix *mat.Dense, columnMeans []float64) *mat.Dense {
	numberOfSamples, numberOfFeatures := dataMatrix.Dims()
	centeredMatrix := mat.NewDense(numberOfSamples, numberOfFeatures, nil)

	centeredMatrix.Apply(func(rowIndex, columnIndex int, value float64) float64 {
		return value - columnMeans[columnIndex]
	}, dataMatrix)

	return centeredMatrix
}

// totalVariance is the sum of the sample variances of all columns of a
// centered matrix. It is the denominator of the explained variance ratio.
func totalVariance(centeredMatrix *mat.Dense) float64 {
	numberOfSamples, _ := centeredMatrix.Dims()
	sumOfSquares := mat.Norm(centeredMatrix, 2)
	return sumOfSquares * sumOfSquares / float64(numberOfSamples-1)
}

func explainedVarianceRatios(variances []float64, total float64) []float64 {
	ratios := make([]float64, len(variances))
	if total == 0 {
		return ratios
	}
	for componentIndex, variance := range variances {
		ratios[componentIndex] = variance / total
	}
	return ratios
}

// flipComponentSigns makes the largest absolute coefficient of every component
// positive. Decompositions only define components up to sign, so this keeps
// results identical across solvers and runs.
func flipComponentSigns(components *mat.Dense) {
	numberOfComponents, numberOfFeatures := components.Dims()

	for componentIndex := 0; componentIndex < numberOfComponents; componentIndex++ {
		row := components.RawRowView(componentIndex)
		largestIndex := 0
		for featureIndex := 1; featureIndex < numberOfFeatures; featureIndex++ {
			if math.Abs(row[featureIndex]) > math.Abs(row[largestIndex]) {
				largestIndex = featureIndex
			}
		}
		if row[largestIndex] < 0 {
			for featureIndex := range row {
				row[featureIndex] = -row[featureIndex]
			}
		}
	}
}

// projectOntoComponents multiplies the centered data by the transposed
// components to get the score of every sample on every component.
func projectOntoComponents(centeredMatrix, components *mat.Dense) *mat.Dense {
	var scores mat.Dense
	scores.Mul(centeredMatrix, components.T())
	return &scores
}

// descaleLoadings divides every component element-wise by the scaling weights
// so that loadings reflect the original feature magnitudes. Standard scaling
// and no scaling keep the raw components.
func descaleLoadings(components *mat.Dense, weights []float64, method scaling.Method) *mat.Dense {
	loadings := mat.DenseCopyOf(components)
	if !method.Descales() {
		return loadings
	}

	loadings.Apply(func(rowIndex, columnIndex int, value float64) float64 {
		return value / weights[columnIndex]
	}, loadings)

	return loadings
}

// checkComponent validates a 1-based component index.
func (m *Model) checkComponent(pc int) error {
	if pc < 1 || pc > m.NComponents() {
		return fmt.Errorf("%w: PC %d, model has %d components", ErrComponentOutOfRange, pc, m.NComponents())
	}
	return nil
}

// Dataset returns the source the model was fitted on.
func (m *Model) Dataset() Source { return m.source }

// ScalingMethod returns the scaling applied before fitting.
func (m *Model) ScalingMethod() scaling.Method { return m.method }

// Config returns the options the model was fitted with.
func (m *Model) Config() Config { return m.config }

// NComponents returns the number of fitted components.
func (m *Model) NComponents() int {
	numberOfComponents, _ := m.components.Dims()
	return numberOfComponents
}

// Weights returns a copy of the per-feature scaling weights.
func (m *Model) Weights() []float64 {
	return append([]float64(nil), m.weights...)
}

// ColumnMeans returns a copy of the per-feature means of the scaled matrix.
func (m *Model) ColumnMeans() []float64 {
	return append([]float64(nil), m.columnMeans...)
}

// Components returns a copy of the raw component directions (components x features).
func (m *Model) Components() *mat.Dense { return mat.DenseCopyOf(m.components) }

// Loadings returns a copy of the descaled loadings (components x features).
func (m *Model) Loadings() *mat.Dense { return mat.DenseCopyOf(m.loadings) }

// Scores returns a copy of the score matrix (samples x components).
func (m *Model) Scores() *mat.Dense { return mat.DenseCopyOf(m.scores) }

// ExplainedVariance returns the variance of the scores along each component.
func (m *Model) ExplainedVariance() []float64 {
	return append([]float64(nil), m.explainedVariance...)
}

// ExplainedVarianceRatio returns the fraction of the total variance captured
// by each component.
func (m *Model) ExplainedVarianceRatio() []float64 {
	return append([]float64(nil), m.explainedVarianceRatio...)
}

// String implements fmt.Stringer.
func (m *Model) String() string {
	return fmt.Sprintf("PCA:\n%s,\n%s scaling\n", m.source.Name(), m.method)
}
