// Package scaling applies per-feature scaling to a sample matrix before PCA.
//
// Every method except "standard" multiplies each column by a weight derived
// from the column's population standard deviation. The weights are returned
// alongside the scaled matrix so that PCA loadings can later be mapped back
// to the original feature magnitudes by dividing by them.
package scaling

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Method selects a scaling transform.
type Method string

const (
	None     Method = ""
	Standard Method = "standard"
	Auto     Method = "auto"
	Pareto   Method = "pareto"
	Var      Method = "var"
)

// ErrUnknownMethod is returned for a method key that is not one of the known methods.
var ErrUnknownMethod = errors.New("unknown scaling method")

// Methods lists every accepted method key, None included.
func Methods() []Method {
	return []Method{None, Standard, Auto, Pareto, Var}
}

// ParseMethod converts a user supplied key into a Method. "none" and the empty
// string both map to None.
func ParseMethod(key string) (Method, error) {
	normalized := strings.ToLower(strings.TrimSpace(key))
	if normalized == "none" {
		return None, nil
	}
	for _, method := range Methods() {
		if string(method) == normalized {
			return method, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownMethod, key)
}

// String returns the method key, or "none" for None.
func (m Method) String() string {
	if m == None {
		return "none"
	}
	return string(m)
}

// Descales reports whether loadings computed on data scaled with m should be
// divided by the weights to recover the original feature magnitudes.
func (m Method) Descales() bool {
	return m != None && m != Standard
}

// Scaler transforms a samples x features matrix according to a method.
type Scaler interface {
	// Scale returns the scaled matrix and one weight per feature.
	// The input matrix is never modified.
	Scale(samples mat.Matrix, method Method) (*mat.Dense, []float64, error)
}

// ColumnScaler is the default Scaler. It derives weights from the population
// statistics of each column.
type ColumnScaler struct{}

// NewColumnScaler returns the default Scaler.
func NewColumnScaler() ColumnScaler {
	return ColumnScaler{}
}

// Scale implements Scaler.
func (ColumnScaler) Scale(samples mat.Matrix, method Method) (*mat.Dense, []float64, error) {
	numberOfSamples, numberOfFeatures := samples.Dims()
	if numberOfSamples == 0 || numberOfFeatures == 0 {
		return nil, nil, errors.New("scaling: empty matrix")
	}

	scaled := mat.DenseCopyOf(samples)
	weights := make([]float64, numberOfFeatures)

	switch method {
	case None:
		for featureIndex := range weights {
			weights[featureIndex] = 1
		}
		return scaled, weights, nil
	case Standard, Auto, Pareto, Var:
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownMethod, string(method))
	}

	column := make([]float64, numberOfSamples)
	for featureIndex := 0; featureIndex < numberOfFeatures; featureIndex++ {
		mat.Col(column, featureIndex, scaled)
		mean, variance := stat.PopMeanVariance(column, nil)
		weights[featureIndex] = weightFor(method, variance)

		for sampleIndex := 0; sampleIndex < numberOfSamples; sampleIndex++ {
			value := scaled.At(sampleIndex, featureIndex)
			if method == Standard {
				value -= mean
			}
			scaled.Set(sampleIndex, featureIndex, value*weights[featureIndex])
		}
	}

	return scaled, weights, nil
}

// weightFor computes the multiplicative weight of one column. Constant columns
// keep weight 1 so that descaling never divides by zero.
func weightFor(method Method, variance float64) float64 {
	if variance == 0 {
		return 1
	}
	switch method {
	case Pareto:
		return 1 / math.Sqrt(math.Sqrt(variance))
	case Var:
		return 1 / variance
	default:
		return 1 / math.Sqrt(variance)
	}
}
