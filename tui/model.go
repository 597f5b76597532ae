// Package tui provides an interactive terminal browser for the scores,
// samples and explained variance of a fitted PCA model.
package tui

import (
	"math"
	"sort"

	"github.com/alDuncanson/imspca/projection"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// neighborCount is the number of closest samples connected to the selection.
const neighborCount = 3

// Model represents the state of the scores browser.
type Model struct {
	width, height int
	pca           *projection.Model
	scores        *mat.Dense
	samples       []string
	labels        []string
	classes       []string
	pcX, pcY      int
	selectedIndex int
	showMetadata  bool
	showLabels    bool
	focusMode     bool
	activeTab     viewTab
	version       string
}

// NewModel creates a browser over a fitted model. The scatter tab starts on
// PC 1 against PC 2, or PC 1 against itself for single component models.
func NewModel(pca *projection.Model, version string) Model {
	dataset := pca.Dataset()
	labels := dataset.Labels()

	pcY := 2
	if pca.NComponents() < 2 {
		pcY = 1
	}

	return Model{
		pca:           pca,
		scores:        pca.Scores(),
		samples:       dataset.Samples(),
		labels:        labels,
		classes:       distinctInOrder(labels),
		pcX:           1,
		pcY:           pcY,
		width:         80,
		height:        24,
		selectedIndex: -1,
		showMetadata:  true,
		version:       version,
	}
}

// Init implements tea.Model. Everything is computed up front by NewModel.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update handles all incoming messages and updates the model state accordingly.
func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch message := msg.(type) {
	case tea.KeyMsg:
		return model.handleKeyPress(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
	}

	return model, nil
}

// handleKeyPress processes keyboard input and returns the updated model and any commands.
func (model Model) handleKeyPress(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMessage.String() {
	case "ctrl+c", "esc", "q":
		return model, tea.Quit

	case "tab", "down", "j":
		model.selectNextPoint()

	case "shift+tab", "up", "k":
		model.selectPreviousPoint()

	case "x":
		model.pcX = model.nextComponent(model.pcX)

	case "y":
		model.pcY = model.nextComponent(model.pcY)

	case "l", "L":
		model.showLabels = !model.showLabels

	case "f", "F":
		model.focusMode = !model.focusMode

	case "/":
		model.showMetadata = !model.showMetadata

	case "1":
		model.activeTab = tabScatter

	case "2":
		model.activeTab = tabSamples

	case "3":
		model.activeTab = tabVariance
	}

	return model, nil
}

// nextComponent cycles a 1-based component index through all components.
func (model Model) nextComponent(pc int) int {
	return pc%model.pca.NComponents() + 1
}

// selectNextPoint moves the selection to the next sample.
func (model *Model) selectNextPoint() {
	if len(model.samples) > 0 {
		model.selectedIndex = (model.selectedIndex + 1) % len(model.samples)
	}
}

// selectPreviousPoint moves the selection to the previous sample.
func (model *Model) selectPreviousPoint() {
	if len(model.samples) > 0 {
		model.selectedIndex--
		if model.selectedIndex < 0 {
			model.selectedIndex = len(model.samples) - 1
		}
	}
}

func (model Model) hasSelection() bool {
	return model.selectedIndex >= 0 && model.selectedIndex < len(model.samples)
}

// View renders the complete UI as a string.
func (model Model) View() string {
	s := newStyles()
	layout := model.calculateLayout()

	var content string
	switch model.activeTab {
	case tabSamples:
		content = model.renderSamplesTab(s, layout)
	case tabVariance:
		content = model.renderVarianceTab(s, layout)
	default:
		content = model.renderContentArea(s, layout)
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		model.renderTabBar(s, layout.totalWidth),
		content,
		model.renderStatusBar(s, layout.totalWidth),
	)
	return lipgloss.NewStyle().Margin(1, 1).Render(view)
}

// neighbor is another sample with its distance to the selection.
type neighbor struct {
	sampleIndex int
	distance    float64
}

// findNearestNeighbors returns the samples closest to the selected one in the
// space of all fitted components.
func (model Model) findNearestNeighbors(selectedIndex int, maxNeighbors int) []neighbor {
	if selectedIndex < 0 || selectedIndex >= len(model.samples) {
		return nil
	}

	selectedScores := mat.Row(nil, selectedIndex, model.scores)
	var neighborList []neighbor
	for sampleIndex := range model.samples {
		if sampleIndex == selectedIndex {
			continue
		}
		candidateScores := mat.Row(nil, sampleIndex, model.scores)
		neighborList = append(neighborList, neighbor{
			sampleIndex: sampleIndex,
			distance:    floats.Distance(selectedScores, candidateScores, 2),
		})
	}

	sort.SliceStable(neighborList, func(firstIndex, secondIndex int) bool {
		return neighborList[firstIndex].distance < neighborList[secondIndex].distance
	})

	if len(neighborList) > maxNeighbors {
		neighborList = neighborList[:maxNeighbors]
	}
	return neighborList
}

// classIndex returns the position of label among the distinct labels.
func (model Model) classIndex(label string) int {
	for index, class := range model.classes {
		if class == label {
			return index
		}
	}
	return 0
}

// scoreBounds returns the extent of the scores on one 1-based component.
func (model Model) scoreBounds(pc int) (minimum, maximum float64) {
	column := mat.Col(nil, pc-1, model.scores)
	if len(column) == 0 {
		return 0, 0
	}
	return floats.Min(column), floats.Max(column)
}

func distinctInOrder(values []string) []string {
	seen := make(map[string]bool)
	var distinct []string
	for _, value := range values {
		if !seen[value] {
			seen[value] = true
			distinct = append(distinct, value)
		}
	}
	return distinct
}

// absoluteValue returns the absolute value of an integer.
func absoluteValue(number int) int {
	if number < 0 {
		return -number
	}
	return number
}

// nonZeroRange avoids a division by zero for constant score columns.
func nonZeroRange(minimum, maximum float64) float64 {
	if span := maximum - minimum; span != 0 && !math.IsNaN(span) {
		return span
	}
	return 1
}
