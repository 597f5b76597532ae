// Package chart provides an owned figure type on top of gonum/plot.
//
// A Chart holds a main plot and, optionally, a narrow colour bar strip drawn
// to its right. Charts are created by the projection package, handed to the
// caller, and released with Close once they have been rendered or saved.
package chart

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	_ "gonum.org/v1/plot/vg/vgeps"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"
)

// colorBarFraction is the share of the figure width given to the colour bar.
const colorBarFraction = 0.14

// ErrClosed is returned when a closed Chart is used.
var ErrClosed = errors.New("chart is closed")

// Chart is a rendered figure owned by the caller.
type Chart struct {
	plot     *plot.Plot
	colorBar *plot.Plot
	width    vg.Length
	height   vg.Length
	closed   bool
}

// New wraps a plot in a figure of the given size in inches.
func New(p *plot.Plot, widthInches, heightInches float64) *Chart {
	return &Chart{
		plot:   p,
		width:  vg.Length(widthInches) * vg.Inch,
		height: vg.Length(heightInches) * vg.Inch,
	}
}

// NewWithColorBar wraps a plot and a colour bar plot drawn to its right.
func NewWithColorBar(p, colorBar *plot.Plot, widthInches, heightInches float64) *Chart {
	c := New(p, widthInches, heightInches)
	c.colorBar = colorBar
	return c
}

// Plot returns the main plot for inspection or further customization.
func (c *Chart) Plot() (*plot.Plot, error) {
	if c.closed {
		return nil, ErrClosed
	}
	return c.plot, nil
}

// ColorBar returns the colour bar plot, or nil if the chart has none.
func (c *Chart) ColorBar() (*plot.Plot, error) {
	if c.closed {
		return nil, ErrClosed
	}
	return c.colorBar, nil
}

// Size returns the figure dimensions.
func (c *Chart) Size() (width, height vg.Length) {
	return c.width, c.height
}

// Render draws the figure in the given format ("png", "svg", "pdf", "jpg",
// "tif") and writes it to w.
func (c *Chart) Render(w io.Writer, format string) (int64, error) {
	if c.closed {
		return 0, ErrClosed
	}

	canvas, err := draw.NewFormattedCanvas(c.width, c.height, strings.ToLower(format))
	if err != nil {
		return 0, err
	}
	dc := draw.New(canvas)

	if c.colorBar == nil {
		c.plot.Draw(dc)
	} else {
		barWidth := c.width * colorBarFraction
		mainArea := dc
		mainArea.Max.X -= barWidth
		barArea := dc
		barArea.Min.X = mainArea.Max.X
		c.plot.Draw(mainArea)
		c.colorBar.Draw(barArea)
	}

	return canvas.WriteTo(w)
}

// Save renders the figure into path on fs. The format is taken from the file
// extension and missing parent directories are created.
func (c *Chart) Save(fs afero.Fs, path string) (int64, error) {
	if c.closed {
		return 0, ErrClosed
	}

	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return 0, fmt.Errorf("no image format in file name %q", path)
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	file, err := fs.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}

	written, err := c.Render(file, format)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return written, fmt.Errorf("writing %s: %w", path, err)
	}
	return written, nil
}

// Close releases the plots held by the chart. Closing twice is a no-op.
func (c *Chart) Close() error {
	c.plot = nil
	c.colorBar = nil
	c.closed = true
	return nil
}
