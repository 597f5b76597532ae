package chart

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

const defaultMaxIntegerTicks = 10

// IntegerTicks places major ticks on integer values only. MaxTicks bounds the
// number of majors; zero means 10.
type IntegerTicks struct {
	MaxTicks int
}

// Ticks implements plot.Ticker.
func (t IntegerTicks) Ticks(min, max float64) []plot.Tick {
	maxTicks := t.MaxTicks
	if maxTicks <= 0 {
		maxTicks = defaultMaxIntegerTicks
	}

	lowest := math.Ceil(min)
	highest := math.Floor(max)
	if highest < lowest {
		return nil
	}

	step := niceIntegerStep((highest - lowest) / float64(maxTicks))
	var ticks []plot.Tick
	for value := math.Ceil(lowest/step) * step; value <= highest; value += step {
		ticks = append(ticks, plot.Tick{Value: value, Label: strconv.FormatFloat(value, 'f', 0, 64)})
	}
	return ticks
}

// niceIntegerStep rounds a raw step up to 1, 2 or 5 times a power of ten.
func niceIntegerStep(raw float64) float64 {
	if raw <= 1 {
		return 1
	}
	magnitude := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, multiplier := range []float64{1, 2, 5, 10} {
		if multiplier*magnitude >= raw {
			return multiplier * magnitude
		}
	}
	return 10 * magnitude
}

// RelabeledTicks takes the automatic tick locations of an axis, drops the
// first and last of them, and labels the rest through Label. Locations for
// which Label reports false are dropped as well. Minor ticks are added between
// the majors.
type RelabeledTicks struct {
	Label func(value float64) (string, bool)
}

// Ticks implements plot.Ticker.
func (t RelabeledTicks) Ticks(min, max float64) []plot.Tick {
	locations := autoMajorLocations(min, max)

	var ticks []plot.Tick
	if len(locations) > 2 {
		for _, value := range locations[1 : len(locations)-1] {
			label, ok := t.Label(value)
			if !ok {
				continue
			}
			ticks = append(ticks, plot.Tick{Value: value, Label: label})
		}
	}

	return append(ticks, minorTicks(locations, min, max)...)
}

// autoMajorLocations returns the default major tick locations extended by one
// step beyond each end of the axis range.
func autoMajorLocations(min, max float64) []float64 {
	var majors []float64
	for _, tick := range (plot.DefaultTicks{}).Ticks(min, max) {
		if !tick.IsMinor() {
			majors = append(majors, tick.Value)
		}
	}
	if len(majors) < 2 {
		return majors
	}

	step := majors[1] - majors[0]
	locations := make([]float64, 0, len(majors)+2)
	locations = append(locations, majors[0]-step)
	locations = append(locations, majors...)
	return append(locations, majors[len(majors)-1]+step)
}

// minorTicks subdivides every major interval into 4 or 5 parts, keeping the
// ones inside [min, max].
func minorTicks(majors []float64, min, max float64) []plot.Tick {
	if len(majors) < 2 {
		return nil
	}

	step := majors[1] - majors[0]
	divisions := minorDivisions(step)
	minorStep := step / float64(divisions)

	var ticks []plot.Tick
	for _, major := range majors[:len(majors)-1] {
		for division := 1; division < divisions; division++ {
			value := major + float64(division)*minorStep
			if value >= min && value <= max {
				ticks = append(ticks, plot.Tick{Value: value})
			}
		}
	}
	return ticks
}

// minorDivisions picks 5 subdivisions for steps of 1, 2.5 or 5 times a power
// of ten and 4 otherwise.
func minorDivisions(step float64) int {
	mantissa := step / math.Pow(10, math.Floor(math.Log10(step)))
	for _, candidate := range []float64{1, 2.5, 5, 10} {
		if math.Abs(mantissa-candidate) < 1e-9 {
			return 5
		}
	}
	return 4
}
