package chart

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func newLinePlot(t *testing.T) *plot.Plot {
	t.Helper()
	p := plot.New()
	line, err := plotter.NewLine(plotter.XYs{{X: 1, Y: 1}, {X: 2, Y: 4}, {X: 3, Y: 9}})
	require.NoError(t, err)
	p.Add(line)
	return p
}

func TestChart_RenderPNG(t *testing.T) {
	c := New(newLinePlot(t), 3, 2)
	defer c.Close()

	var buffer bytes.Buffer
	written, err := c.Render(&buffer, "png")
	require.NoError(t, err)
	assert.Equal(t, int64(buffer.Len()), written)
	assert.True(t, bytes.HasPrefix(buffer.Bytes(), pngMagic))
}

func TestChart_RenderWithColorBar(t *testing.T) {
	c := NewWithColorBar(newLinePlot(t), newLinePlot(t), 3, 2)
	defer c.Close()

	var buffer bytes.Buffer
	_, err := c.Render(&buffer, "svg")
	require.NoError(t, err)
	assert.Contains(t, buffer.String(), "<svg")
}

func TestChart_RenderFormats(t *testing.T) {
	tests := []struct {
		format string
		prefix string
	}{
		{format: "png", prefix: string(pngMagic)},
		{format: "svg", prefix: ""},
		{format: "pdf", prefix: "%PDF"},
		{format: "eps", prefix: "%!PS-Adobe"},
		{format: "jpg", prefix: "\xff\xd8"},
		{format: "tif", prefix: "II*"},
	}

	for _, test := range tests {
		t.Run(test.format, func(t *testing.T) {
			c := New(newLinePlot(t), 3, 2)
			defer c.Close()

			var buffer bytes.Buffer
			written, err := c.Render(&buffer, test.format)
			require.NoError(t, err)
			assert.Positive(t, written)
			assert.True(t, bytes.HasPrefix(buffer.Bytes(), []byte(test.prefix)))
		})
	}
}

func TestChart_RenderUnknownFormat(t *testing.T) {
	c := New(newLinePlot(t), 3, 2)
	defer c.Close()

	_, err := c.Render(&bytes.Buffer{}, "bmp-ish")
	assert.Error(t, err)
}

func TestChart_SaveCreatesDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	c := New(newLinePlot(t), 3, 2)
	defer c.Close()

	written, err := c.Save(fs, "/out/charts/line.png")
	require.NoError(t, err)
	assert.Greater(t, written, int64(0))

	data, err := afero.ReadFile(fs, "/out/charts/line.png")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))
}

func TestChart_SaveWithoutExtension(t *testing.T) {
	c := New(newLinePlot(t), 3, 2)
	defer c.Close()

	_, err := c.Save(afero.NewMemMapFs(), "/out/line")
	assert.Error(t, err)
}

func TestChart_Close(t *testing.T) {
	c := New(newLinePlot(t), 3, 2)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err := c.Render(&bytes.Buffer{}, "png")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = c.Save(afero.NewMemMapFs(), "/x.png")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = c.Plot()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestChart_Size(t *testing.T) {
	c := New(plot.New(), 9, 8)
	width, height := c.Size()
	assert.InDelta(t, 9*72, float64(width), 1e-9)
	assert.InDelta(t, 8*72, float64(height), 1e-9)
}

func TestParseStyle(t *testing.T) {
	style, err := ParseStyle("Seaborn")
	require.NoError(t, err)
	assert.Equal(t, StyleSeaborn, style)

	style, err = ParseStyle("")
	require.NoError(t, err)
	assert.Equal(t, StyleDefault, style)

	_, err = ParseStyle("ggplot")
	assert.Error(t, err)
}

func TestStyleApply_AddsGridForSeaborn(t *testing.T) {
	p := plot.New()
	StyleSeaborn.Apply(p)
	assert.Equal(t, seabornBackground, p.BackgroundColor)

	plain := plot.New()
	background := plain.BackgroundColor
	StyleDefault.Apply(plain)
	assert.Equal(t, background, plain.BackgroundColor)
}
