package chart

import (
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Style is a named set of presentation settings.
type Style string

const (
	StyleDefault Style = "default"
	StyleSeaborn Style = "seaborn"
)

var (
	seabornBackground = color.RGBA{R: 234, G: 234, B: 242, A: 255}
	seabornGrid       = color.White
)

// ParseStyle maps a style name to a Style.
func ParseStyle(name string) (Style, error) {
	switch Style(strings.ToLower(name)) {
	case StyleDefault, "":
		return StyleDefault, nil
	case StyleSeaborn:
		return StyleSeaborn, nil
	default:
		return "", fmt.Errorf("unknown chart style %q", name)
	}
}

// Apply sets up the plot background and grid for the style. It must run
// before data plotters are added so the grid is drawn beneath them.
func (s Style) Apply(p *plot.Plot) {
	if s != StyleSeaborn {
		return
	}

	p.BackgroundColor = seabornBackground
	p.X.LineStyle.Width = 0
	p.Y.LineStyle.Width = 0
	p.X.Tick.LineStyle.Width = 0
	p.Y.Tick.LineStyle.Width = 0

	grid := plotter.NewGrid()
	grid.Vertical.Color = seabornGrid
	grid.Vertical.Width = vg.Points(1)
	grid.Vertical.Dashes = nil
	grid.Horizontal.Color = seabornGrid
	grid.Horizontal.Width = vg.Points(1)
	grid.Horizontal.Dashes = nil
	p.Add(grid)
}

// SetFontSizes sets axis label and title sizes in points.
func SetFontSizes(p *plot.Plot, labelSize, titleSize float64) {
	p.X.Label.TextStyle.Font.Size = vg.Points(labelSize)
	p.Y.Label.TextStyle.Font.Size = vg.Points(labelSize)
	p.Title.TextStyle.Font.Size = vg.Points(titleSize)
}
