package tui

import (
	"strings"
	"testing"

	"github.com/alDuncanson/imspca/dataset"
	"github.com/alDuncanson/imspca/projection"
	"github.com/alDuncanson/imspca/scaling"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	features := mat.NewDense(6, 4, []float64{
		1, 2, 3, 4,
		2, 1, 4, 3,
		8, 9, 1, 0,
		9, 8, 0, 1,
		5, 5, 5, 5,
		4, 6, 4, 6,
	})
	table, err := dataset.NewTable("demo",
		[]string{"s1", "s2", "s3", "s4", "s5", "s6"},
		[]string{"control", "control", "treated", "treated", "blank", "blank"},
		features)
	require.NoError(t, err)

	pca, err := projection.Fit(table, nil, scaling.Auto, projection.DefaultConfig())
	require.NoError(t, err)

	return NewModel(pca, "v0.0.0-test")
}

func press(t *testing.T, model Model, keys ...string) Model {
	t.Helper()
	var updated tea.Model = model
	for _, key := range keys {
		var msg tea.KeyMsg
		switch key {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		updated, _ = updated.Update(msg)
	}
	return updated.(Model)
}

func TestNewModel(t *testing.T) {
	model := newTestModel(t)

	assert.Equal(t, 1, model.pcX)
	assert.Equal(t, 2, model.pcY)
	assert.Equal(t, -1, model.selectedIndex)
	assert.Equal(t, []string{"control", "treated", "blank"}, model.classes)
	assert.Equal(t, tabScatter, model.activeTab)
}

func TestUpdate_CycleComponents(t *testing.T) {
	model := newTestModel(t)

	model = press(t, model, "x")
	assert.Equal(t, 2, model.pcX)

	model = press(t, model, "y", "y")
	assert.Equal(t, 4, model.pcY)
	model = press(t, model, "y")
	assert.Equal(t, 1, model.pcY)

	model = press(t, model, "x", "x", "x")
	assert.Equal(t, 1, model.pcX)
}

func TestUpdate_Selection(t *testing.T) {
	model := newTestModel(t)

	model = press(t, model, "down")
	assert.Equal(t, 0, model.selectedIndex)

	model = press(t, model, "up")
	assert.Equal(t, 5, model.selectedIndex)

	model = press(t, model, "down")
	assert.Equal(t, 0, model.selectedIndex)
}

func TestUpdate_TabsAndToggles(t *testing.T) {
	model := newTestModel(t)

	model = press(t, model, "2")
	assert.Equal(t, tabSamples, model.activeTab)
	model = press(t, model, "3")
	assert.Equal(t, tabVariance, model.activeTab)
	model = press(t, model, "1")
	assert.Equal(t, tabScatter, model.activeTab)

	model = press(t, model, "l")
	assert.True(t, model.showLabels)
	model = press(t, model, "/")
	assert.False(t, model.showMetadata)
}

func TestUpdate_Quit(t *testing.T) {
	model := newTestModel(t)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_WindowSize(t *testing.T) {
	model := newTestModel(t)

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, updated.(Model).width)
	assert.Equal(t, 40, updated.(Model).height)
}

func TestFindNearestNeighbors(t *testing.T) {
	model := newTestModel(t)

	neighbors := model.findNearestNeighbors(0, 2)
	require.Len(t, neighbors, 2)
	assert.Equal(t, 1, neighbors[0].sampleIndex)
	assert.LessOrEqual(t, neighbors[0].distance, neighbors[1].distance)

	assert.Nil(t, model.findNearestNeighbors(-1, 2))
}

func TestView_Tabs(t *testing.T) {
	model := newTestModel(t)
	model = press(t, model, "down", "l")

	scatter := ansi.Strip(model.View())
	assert.Contains(t, scatter, "Scatter")
	assert.Contains(t, scatter, "imspca demo")
	assert.Contains(t, scatter, "Selected")

	withoutPanel := ansi.Strip(press(t, model, "/").View())
	assert.Contains(t, withoutPanel, "[*]")

	samples := ansi.Strip(press(t, model, "2").View())
	assert.Contains(t, samples, "Sample")
	assert.Contains(t, samples, "treated")

	variance := ansi.Strip(press(t, model, "3").View())
	assert.Contains(t, variance, "PC 1")
	assert.Contains(t, variance, "auto scaling")
}

func TestDrawLineOnCanvas(t *testing.T) {
	grid := initializeCanvasGrid(5, 5)
	drawLineOnCanvas(grid, 0, 0, 4, 4, defineCanvasStyles().lineStyle)

	for i := 0; i < 5; i++ {
		assert.Equal(t, '·', grid[i][i].char)
	}
	assert.Equal(t, ' ', grid[0][4].char)
}

func TestOverlayAt(t *testing.T) {
	base := strings.Join([]string{
		"..........",
		"..........",
		"..........",
	}, "\n")

	tests := []struct {
		name     string
		x, y     int
		expected []string
	}{
		{
			name:     "Inside",
			x:        2,
			y:        1,
			expected: []string{"..........", "..ab......", "..cd......"},
		},
		{
			name:     "ClampedToRightEdge",
			x:        20,
			y:        0,
			expected: []string{"........ab", "........cd", ".........."},
		},
		{
			name:     "NegativeOrigin",
			x:        -3,
			y:        -1,
			expected: []string{"ab........", "cd........", ".........."},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := overlayAt(base, "ab\ncd", test.x, test.y)
			assert.Equal(t, strings.Join(test.expected, "\n"), result)
		})
	}
}

func TestRenderStatusBar(t *testing.T) {
	model := press(t, newTestModel(t), "x", "l")

	bar := ansi.Strip(model.renderStatusBar(newStyles(), 120))
	assert.Contains(t, bar, "x/y: PC 2/2")
	assert.Contains(t, bar, "L: labels on")
	assert.True(t, strings.HasSuffix(bar, "v0.0.0-test"))
	assert.Equal(t, 120, ansi.StringWidth(bar))
}

func TestOverlayAt_LargerOverlayReplacesBase(t *testing.T) {
	assert.Equal(t, "abcd\nefgh", overlayAt("..\n..", "abcd\nefgh", 1, 1))
}

func TestFitLines(t *testing.T) {
	assert.Equal(t, 3, len(strings.Split(fitLines([]string{"a"}, 3), "\n")))
	assert.Equal(t, "a\nb", fitLines([]string{"a", "b", "c"}, 2))
}
