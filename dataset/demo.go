package dataset

import (
	"fmt"
	"math"
	"math/rand"
)

// DemoConfig controls the synthetic spectra generated by Demo.
type DemoConfig struct {
	SamplesPerClass int
	RetentionPoints int
	DriftPoints     int
	Seed            int64
}

// DefaultDemoConfig returns a small two class dataset.
func DefaultDemoConfig() DemoConfig {
	return DemoConfig{
		SamplesPerClass: 8,
		RetentionPoints: 40,
		DriftPoints:     60,
		Seed:            42,
	}
}

// demoPeak is a 2D Gaussian analyte peak. Intensities are relative to the
// reactant ion peak.
type demoPeak struct {
	retention, drift float64
	width            float64
	intensity        [2]float64
}

// Analyte peaks of the demo dataset. Each entry holds the intensity for the
// "control" and "treated" classes.
var demoPeaks = []demoPeak{
	{retention: 120, drift: 8.6, width: 0.06, intensity: [2]float64{0.45, 0.45}},
	{retention: 260, drift: 9.4, width: 0.05, intensity: [2]float64{0.10, 0.55}},
	{retention: 410, drift: 10.1, width: 0.07, intensity: [2]float64{0.50, 0.15}},
	{retention: 330, drift: 8.1, width: 0.04, intensity: [2]float64{0.20, 0.30}},
}

var demoClasses = [2]string{"control", "treated"}

// Demo generates GC-IMS like spectra of two classes: a reactant ion peak
// along the whole retention axis and a few analyte peaks whose intensities
// differ between the classes, with multiplicative noise.
func Demo(config DemoConfig) (*Spectra, error) {
	if config.SamplesPerClass < 1 || config.RetentionPoints < 2 || config.DriftPoints < 2 {
		return nil, fmt.Errorf("demo dataset needs at least one sample per class and two points per axis")
	}
	rng := rand.New(rand.NewSource(config.Seed))

	retTime := linspace(0, 500, config.RetentionPoints)
	driftTime := linspace(7, 11, config.DriftPoints)

	var spectra []Spectrum
	for classIndex, class := range demoClasses {
		for sampleIndex := 0; sampleIndex < config.SamplesPerClass; sampleIndex++ {
			values := make([][]float64, len(retTime))
			for r, rt := range retTime {
				values[r] = make([]float64, len(driftTime))
				for d, dt := range driftTime {
					// Reactant ion peak
					intensity := gaussian(dt, 7.5, 0.08)
					for _, peak := range demoPeaks {
						intensity += peak.intensity[classIndex] *
							gaussian(rt, peak.retention, 12) * gaussian(dt, peak.drift, peak.width)
					}
					values[r][d] = intensity * (1 + 0.05*rng.NormFloat64())
				}
			}

			spectra = append(spectra, Spectrum{
				Name:      fmt.Sprintf("%s_%02d", class, sampleIndex+1),
				Label:     class,
				RetTime:   retTime,
				DriftTime: driftTime,
				Values:    values,
			})
		}
	}

	return NewSpectra("demo", DefaultDriftTimeLabel, spectra)
}

func gaussian(x, center, width float64) float64 {
	z := (x - center) / width
	return math.Exp(-0.5 * z * z)
}

func linspace(start, stop float64, n int) []float64 {
	values := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range values {
		values[i] = start + step*float64(i)
	}
	return values
}
