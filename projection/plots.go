package projection

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/alDuncanson/imspca/chart"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var (
	// ErrShapeMismatch is returned when a loading vector cannot be reshaped
	// into the retention time x drift time grid.
	ErrShapeMismatch = errors.New("loadings do not match spectrum shape")

	// ErrNotSpectral is returned by LoadingsPlot for datasets without spectral axes.
	ErrNotSpectral = errors.New("dataset has no retention and drift time axes")

	// ErrUnknownColumn is returned for a hue or style key other than "Label" or "Sample".
	ErrUnknownColumn = errors.New("unknown score table column")

	// ErrColorRange is returned for a non-positive loadings colour range.
	ErrColorRange = errors.New("color range must be positive")
)

const (
	retentionTimeAxisLabel = "Retention Time [s]"
	heatMapPaletteSize     = 255
	scatterGlyphRadius     = 5
	axisLabelFontSize      = 12
	titleFontSize          = 16
)

// ScatterOptions configures ScatterPlot.
type ScatterOptions struct {
	PCX    int     // Component on the x axis, 1-based
	PCY    int     // Component on the y axis, 1-based
	Width  float64 // Inches
	Height float64 // Inches
	Hue    string  // Column that selects the marker color: "Label" or "Sample"
	Style  string  // Column that selects the marker shape: "Label" or "Sample"
	Label  bool    // Annotate every point with its sample name
}

// DefaultScatterOptions plots PC 1 against PC 2 grouped by label.
func DefaultScatterOptions() ScatterOptions {
	return ScatterOptions{PCX: 1, PCY: 2, Width: 9, Height: 8, Hue: LabelColumn, Style: LabelColumn}
}

// LoadingsOptions configures LoadingsPlot.
type LoadingsOptions struct {
	PC         int     // Component, 1-based
	ColorRange float64 // Color scale spans [-ColorRange, +ColorRange]
	Width      float64 // Inches
	Height     float64 // Inches
}

// DefaultLoadingsOptions plots PC 1 with a color scale of ±0.1.
func DefaultLoadingsOptions() LoadingsOptions {
	return LoadingsOptions{PC: 1, ColorRange: 0.1, Width: 9, Height: 10}
}

// ScreeOptions configures ScreePlot.
type ScreeOptions struct {
	Width  float64
	Height float64
	Style  chart.Style
}

// DefaultScreeOptions returns the scree plot defaults.
func DefaultScreeOptions() ScreeOptions {
	return ScreeOptions{Width: 9, Height: 8, Style: chart.StyleSeaborn}
}

// AxisLabel returns the scatter plot axis label of a component, annotated
// with the percentage of variance it explains.
func (m *Model) AxisLabel(pc int) (string, error) {
	if err := m.checkComponent(pc); err != nil {
		return "", err
	}
	percent := m.ExplainedVariancePercent()[pc-1]
	return fmt.Sprintf("PC %d (%s %% of variance)", pc, strconv.FormatFloat(percent, 'f', 1, 64)), nil
}

// scatterGroup collects the points sharing one hue and one style value.
type scatterGroup struct {
	name       string
	hueIndex   int
	styleIndex int
	points     plotter.XYs
}

// ScatterPlot plots the scores of two components against each other.
func (m *Model) ScatterPlot(options ScatterOptions) (*chart.Chart, error) {
	xLabel, err := m.AxisLabel(options.PCX)
	if err != nil {
		return nil, err
	}
	yLabel, err := m.AxisLabel(options.PCY)
	if err != nil {
		return nil, err
	}

	table, err := m.ScoreTable()
	if err != nil {
		return nil, err
	}
	hues, err := groupingColumn(table, options.Hue)
	if err != nil {
		return nil, err
	}
	styles, err := groupingColumn(table, options.Style)
	if err != nil {
		return nil, err
	}
	xValues := table.Col(ComponentColumn(options.PCX)).Float()
	yValues := table.Col(ComponentColumn(options.PCY)).Float()

	p := plot.New()
	chart.StyleSeaborn.Apply(p)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	chart.SetFontSizes(p, axisLabelFontSize, titleFontSize)

	for _, group := range groupPoints(xValues, yValues, hues, styles, options.Hue == options.Style) {
		scatter, err := plotter.NewScatter(group.points)
		if err != nil {
			return nil, fmt.Errorf("scatter group %q: %w", group.name, err)
		}
		scatter.GlyphStyle.Color = plotutil.Color(group.hueIndex)
		scatter.GlyphStyle.Shape = plotutil.Shape(group.styleIndex)
		scatter.GlyphStyle.Radius = vg.Points(scatterGlyphRadius)
		p.Add(scatter)
		p.Legend.Add(group.name, scatter)
	}
	p.Legend.Top = true

	if options.Label {
		points := make(plotter.XYs, len(xValues))
		for sampleIndex := range xValues {
			points[sampleIndex] = plotter.XY{X: xValues[sampleIndex], Y: yValues[sampleIndex]}
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: points, Labels: m.source.Samples()})
		if err != nil {
			return nil, fmt.Errorf("sample labels: %w", err)
		}
		labels.Offset = vg.Point{X: vg.Points(scatterGlyphRadius + 2)}
		p.Add(labels)
	}

	return chart.New(p, options.Width, options.Height), nil
}

// groupingColumn validates a hue or style key and returns its values.
func groupingColumn(table dataframe.DataFrame, column string) ([]string, error) {
	if column != LabelColumn && column != SampleColumn {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	values := table.Col(column)
	if values.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownColumn, values.Err)
	}
	return values.Records(), nil
}

// groupPoints splits the points by (hue, style) pair in order of first
// appearance. Hue and style values get their own color and shape indices.
func groupPoints(xValues, yValues []float64, hues, styles []string, sameKey bool) []*scatterGroup {
	hueIndices := map[string]int{}
	styleIndices := map[string]int{}
	groupsByKey := map[[2]string]*scatterGroup{}
	var groups []*scatterGroup

	for sampleIndex := range xValues {
		hue, style := hues[sampleIndex], styles[sampleIndex]
		if _, ok := hueIndices[hue]; !ok {
			hueIndices[hue] = len(hueIndices)
		}
		if _, ok := styleIndices[style]; !ok {
			styleIndices[style] = len(styleIndices)
		}

		key := [2]string{hue, style}
		group, ok := groupsByKey[key]
		if !ok {
			name := hue
			if !sameKey {
				name = hue + ", " + style
			}
			group = &scatterGroup{name: name, hueIndex: hueIndices[hue], styleIndex: styleIndices[style]}
			groupsByKey[key] = group
			groups = append(groups, group)
		}
		group.points = append(group.points, plotter.XY{X: xValues[sampleIndex], Y: yValues[sampleIndex]})
	}

	return groups
}

// LoadingGrid reshapes the loadings of a component into a (rows x columns)
// grid, row-major, so that rows follow retention time and columns drift time.
func (m *Model) LoadingGrid(pc, rows, columns int) (*mat.Dense, error) {
	if err := m.checkComponent(pc); err != nil {
		return nil, err
	}

	loadingVector := mat.Row(nil, pc-1, m.loadings)
	if rows <= 0 || columns <= 0 || len(loadingVector) != rows*columns {
		return nil, fmt.Errorf("%w: cannot reshape %d loadings into %dx%d",
			ErrShapeMismatch, len(loadingVector), rows, columns)
	}
	return mat.NewDense(rows, columns, loadingVector), nil
}

// loadingHeatMap adapts a loading grid to plotter.GridXYZ. Cell (c, r) sits at
// (c, r) so row 0 is drawn at the bottom.
type loadingHeatMap struct {
	grid *mat.Dense
}

func (h loadingHeatMap) Dims() (c, r int) {
	r, c = h.grid.Dims()
	return c, r
}

func (h loadingHeatMap) Z(c, r int) float64 { return h.grid.At(r, c) }
func (h loadingHeatMap) X(c int) float64    { return float64(c) }
func (h loadingHeatMap) Y(r int) float64    { return float64(r) }

// LoadingsPlot draws the loadings of one component on the retention time x
// drift time grid of the first spectrum.
func (m *Model) LoadingsPlot(options LoadingsOptions) (*chart.Chart, error) {
	spectral, ok := m.source.(SpectralSource)
	if !ok {
		return nil, ErrNotSpectral
	}
	if options.ColorRange <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrColorRange, options.ColorRange)
	}

	retTime, driftTime := spectral.Axes()
	grid, err := m.LoadingGrid(options.PC, len(retTime), len(driftTime))
	if err != nil {
		return nil, err
	}

	colorMap := moreland.SmoothBlueRed()
	colorMap.SetMin(-options.ColorRange)
	colorMap.SetMax(options.ColorRange)
	heatPalette := colorMap.Palette(heatMapPaletteSize)
	paletteColors := heatPalette.Colors()

	heatMap := plotter.NewHeatMap(loadingHeatMap{grid: grid}, heatPalette)
	heatMap.Min = -options.ColorRange
	heatMap.Max = options.ColorRange
	heatMap.Underflow = paletteColors[0]
	heatMap.Overflow = paletteColors[len(paletteColors)-1]

	p := plot.New()
	p.Add(heatMap)
	p.X.Tick.Marker = chart.RelabeledTicks{Label: axisValueLabeler(driftTime, 1)}
	p.Y.Tick.Marker = chart.RelabeledTicks{Label: axisValueLabeler(retTime, 0)}
	p.X.Label.Text = spectral.DriftTimeLabel()
	p.Y.Label.Text = retentionTimeAxisLabel
	p.Title.Text = fmt.Sprintf("PCA Loadings of PC %d", options.PC)
	chart.SetFontSizes(p, axisLabelFontSize, titleFontSize)

	colorBar := plot.New()
	colorBar.Add(&plotter.ColorBar{ColorMap: colorMap, Vertical: true})
	colorBar.HideX()
	colorBar.Y.Padding = 0
	// A blank title of the same size keeps the bar aligned with the heat map
	colorBar.Title.Text = " "
	chart.SetFontSizes(colorBar, axisLabelFontSize, titleFontSize)

	return chart.NewWithColorBar(p, colorBar, options.Width, options.Height), nil
}

// axisValueLabeler labels a grid index tick with the axis value at that index,
// formatted with the given number of decimals.
func axisValueLabeler(axis []float64, decimals int) func(float64) (string, bool) {
	return func(position float64) (string, bool) {
		index := int(position)
		if position < 0 || index >= len(axis) {
			return "", false
		}
		value := axis[index]
		if decimals == 0 {
			value = math.RoundToEven(value)
		}
		return strconv.FormatFloat(value, 'f', decimals, 64), true
	}
}

// ScreePlot draws the explained variance per component and cumulatively.
func (m *Model) ScreePlot(options ScreeOptions) (*chart.Chart, error) {
	cumulative := m.CumulativeVariancePercent()
	cumulativePoints := make(plotter.XYs, m.NComponents())
	perComponentPoints := make(plotter.XYs, m.NComponents())
	for componentIndex, ratio := range m.explainedVarianceRatio {
		x := float64(componentIndex + 1)
		cumulativePoints[componentIndex] = plotter.XY{X: x, Y: cumulative[componentIndex]}
		perComponentPoints[componentIndex] = plotter.XY{X: x, Y: ratio * 100}
	}

	p := plot.New()
	options.Style.Apply(p)
	p.X.Tick.Marker = chart.IntegerTicks{}
	p.Y.Tick.Marker = chart.IntegerTicks{}
	p.X.Label.Text = "Principal Component"
	p.Y.Label.Text = "Explainded variance ratio [%]"
	chart.SetFontSizes(p, axisLabelFontSize, titleFontSize)

	cumulativeLine, err := plotter.NewLine(cumulativePoints)
	if err != nil {
		return nil, fmt.Errorf("cumulative variance: %w", err)
	}
	cumulativeLine.LineStyle.Color = plotutil.Color(0)
	cumulativeLine.LineStyle.Width = vg.Points(1.5)

	perComponentLine, err := plotter.NewLine(perComponentPoints)
	if err != nil {
		return nil, fmt.Errorf("variance per component: %w", err)
	}
	perComponentLine.LineStyle.Color = plotutil.Color(1)
	perComponentLine.LineStyle.Width = vg.Points(1.5)

	p.Add(cumulativeLine, perComponentLine)
	p.Legend.Add("cumulative", cumulativeLine)
	p.Legend.Add("per PC", perComponentLine)

	return chart.New(p, options.Width, options.Height), nil
}
