package projection

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Identifier columns of the score table.
const (
	SampleColumn = "Sample"
	LabelColumn  = "Label"
)

// ComponentColumn returns the score table column name of a 1-based component.
func ComponentColumn(pc int) string {
	return fmt.Sprintf("PC %d", pc)
}

// ScoreTable returns one row per sample with a column for every component
// score followed by the sample name and label.
func (m *Model) ScoreTable() (dataframe.DataFrame, error) {
	columns := make([]series.Series, 0, m.NComponents()+2)
	for componentIndex := 0; componentIndex < m.NComponents(); componentIndex++ {
		scores := mat.Col(nil, componentIndex, m.scores)
		columns = append(columns, series.New(scores, series.Float, ComponentColumn(componentIndex+1)))
	}
	columns = append(columns,
		series.New(m.source.Samples(), series.String, SampleColumn),
		series.New(m.source.Labels(), series.String, LabelColumn),
	)

	table := dataframe.New(columns...)
	if table.Err != nil {
		return table, fmt.Errorf("building score table: %w", table.Err)
	}
	return table, nil
}

// ExplainedVariancePercent returns the explained variance ratio of every
// component as a percentage rounded to one decimal.
func (m *Model) ExplainedVariancePercent() []float64 {
	percentages := make([]float64, len(m.explainedVarianceRatio))
	for componentIndex, ratio := range m.explainedVarianceRatio {
		percentages[componentIndex] = roundToOneDecimal(ratio * 100)
	}
	return percentages
}

// CumulativeVariancePercent returns the running sum of the explained variance
// ratio in percent, in component order.
func (m *Model) CumulativeVariancePercent() []float64 {
	cumulative := floats.CumSum(make([]float64, len(m.explainedVarianceRatio)), m.explainedVarianceRatio)
	floats.Scale(100, cumulative)
	return cumulative
}

func roundToOneDecimal(value float64) float64 {
	return math.Round(value*10) / 10
}
