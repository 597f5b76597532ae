package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// classColors are cycled through for the distinct labels of a dataset.
var classColors = []lipgloss.Color{"39", "208", "118", "213", "220", "141", "44", "203"}

// maxCanvasLabelWidth bounds the sample names drawn next to markers.
const maxCanvasLabelWidth = 12

// canvasCell represents a single cell in the rendering grid with its character and styling.
type canvasCell struct {
	char  rune
	style lipgloss.Style
}

// canvasStyles holds the styles that do not depend on the sample class.
type canvasStyles struct {
	selectedDotStyle   lipgloss.Style
	selectedLabelStyle lipgloss.Style
	lineStyle          lipgloss.Style
	axisStyle          lipgloss.Style
}

func defineCanvasStyles() canvasStyles {
	return canvasStyles{
		selectedDotStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		selectedLabelStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("118")).Bold(true),
		lineStyle:          lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
		axisStyle:          lipgloss.NewStyle().Foreground(lipgloss.Color("239")),
	}
}

func classStyle(classIndex int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(classColors[classIndex%len(classColors)])
}

// gridPoint is a sample positioned on the canvas grid.
type gridPoint struct {
	rowIndex    int
	columnIndex int
	sampleIndex int
	label       string
	isSelected  bool
	isNeighbor  bool
}

// renderCanvas draws the scores of the current component pair.
func (model Model) renderCanvas(canvasWidth, canvasHeight int) string {
	canvasGrid := initializeCanvasGrid(canvasWidth, canvasHeight)
	styles := defineCanvasStyles()

	if len(model.samples) == 0 {
		renderCanvasMessage(canvasGrid, "No samples in dataset")
	} else {
		model.renderPointsOnCanvas(canvasGrid, styles)
	}

	return canvasGridToString(canvasGrid)
}

// initializeCanvasGrid creates a 2D grid of empty canvas cells.
func initializeCanvasGrid(canvasWidth, canvasHeight int) [][]canvasCell {
	canvasGrid := make([][]canvasCell, canvasHeight)
	for rowIndex := range canvasGrid {
		canvasGrid[rowIndex] = make([]canvasCell, canvasWidth)
		for columnIndex := range canvasGrid[rowIndex] {
			canvasGrid[rowIndex][columnIndex] = canvasCell{char: ' ', style: lipgloss.NewStyle()}
		}
	}
	return canvasGrid
}

// renderCanvasMessage centers a placeholder message on the canvas.
func renderCanvasMessage(canvasGrid [][]canvasCell, message string) {
	if len(canvasGrid) == 0 {
		return
	}
	canvasWidth := len(canvasGrid[0])
	centerRowIndex := len(canvasGrid) / 2
	startColumnIndex := max((canvasWidth-len(message))/2, 0)
	writeText(canvasGrid, centerRowIndex, startColumnIndex, message, lipgloss.NewStyle())
}

func writeText(canvasGrid [][]canvasCell, rowIndex, startColumnIndex int, text string, style lipgloss.Style) {
	row := canvasGrid[rowIndex]
	for characterOffset, character := range []rune(text) {
		if columnIndex := startColumnIndex + characterOffset; columnIndex >= 0 && columnIndex < len(row) {
			row[columnIndex] = canvasCell{char: character, style: style}
		}
	}
}

// renderPointsOnCanvas draws the zero axes, connector lines, markers and labels.
func (model Model) renderPointsOnCanvas(canvasGrid [][]canvasCell, styles canvasStyles) {
	canvasHeight := len(canvasGrid)
	canvasWidth := len(canvasGrid[0])

	gridPoints := model.convertScoresToGridPositions(canvasWidth, canvasHeight)

	model.drawZeroAxes(canvasGrid, styles.axisStyle)

	var selectedGridPoint *gridPoint
	for gridPointIndex := range gridPoints {
		if gridPoints[gridPointIndex].isSelected {
			selectedGridPoint = &gridPoints[gridPointIndex]
		}
	}
	if selectedGridPoint != nil {
		for _, target := range gridPoints {
			if target.isNeighbor {
				drawLineOnCanvas(canvasGrid, selectedGridPoint.columnIndex, selectedGridPoint.rowIndex,
					target.columnIndex, target.rowIndex, styles.lineStyle)
			}
		}
	}

	// Highlighted points render last so they stay on top
	sort.SliceStable(gridPoints, func(firstIndex, secondIndex int) bool {
		return renderPriority(gridPoints[firstIndex]) < renderPriority(gridPoints[secondIndex])
	})
	model.renderGridPointsWithLabels(canvasGrid, gridPoints, styles)
}

func renderPriority(point gridPoint) int {
	switch {
	case point.isSelected:
		return 2
	case point.isNeighbor:
		return 1
	default:
		return 0
	}
}

// convertScoresToGridPositions maps the scores of the current component pair
// to grid cells. Larger y scores are drawn higher up.
func (model Model) convertScoresToGridPositions(canvasWidth, canvasHeight int) []gridPoint {
	const paddingSize = 2
	plotAreaWidth := max(canvasWidth-2*paddingSize, 1)
	plotAreaHeight := max(canvasHeight-2*paddingSize, 1)

	minimumX, maximumX := model.scoreBounds(model.pcX)
	minimumY, maximumY := model.scoreBounds(model.pcY)
	rangeX := nonZeroRange(minimumX, maximumX)
	rangeY := nonZeroRange(minimumY, maximumY)

	neighbors := make(map[int]bool)
	for _, n := range model.findNearestNeighbors(model.selectedIndex, neighborCount) {
		neighbors[n.sampleIndex] = true
	}

	gridPoints := make([]gridPoint, 0, len(model.samples))
	for sampleIndex, sample := range model.samples {
		x := model.scores.At(sampleIndex, model.pcX-1)
		y := model.scores.At(sampleIndex, model.pcY-1)

		columnIndex := paddingSize + int((x-minimumX)/rangeX*float64(plotAreaWidth-1))
		rowIndex := paddingSize + plotAreaHeight - 1 - int((y-minimumY)/rangeY*float64(plotAreaHeight-1))

		gridPoints = append(gridPoints, gridPoint{
			rowIndex:    clamp(rowIndex, 0, canvasHeight-1),
			columnIndex: clamp(columnIndex, 0, canvasWidth-1),
			sampleIndex: sampleIndex,
			label:       sample,
			isSelected:  sampleIndex == model.selectedIndex,
			isNeighbor:  neighbors[sampleIndex],
		})
	}

	return gridPoints
}

// drawZeroAxes draws the x=0 and y=0 lines when they fall inside the canvas.
func (model Model) drawZeroAxes(canvasGrid [][]canvasCell, axisStyle lipgloss.Style) {
	canvasHeight := len(canvasGrid)
	canvasWidth := len(canvasGrid[0])
	origin := model.convertOrigin(canvasWidth, canvasHeight)

	if origin.rowIndex >= 0 {
		for columnIndex := range canvasGrid[origin.rowIndex] {
			canvasGrid[origin.rowIndex][columnIndex] = canvasCell{char: '─', style: axisStyle}
		}
	}
	if origin.columnIndex >= 0 {
		for rowIndex := range canvasGrid {
			char := '│'
			if rowIndex == origin.rowIndex {
				char = '┼'
			}
			canvasGrid[rowIndex][origin.columnIndex] = canvasCell{char: char, style: axisStyle}
		}
	}
}

// convertOrigin returns the grid cell of the score origin, with -1 for an
// axis whose zero lies outside the data range.
func (model Model) convertOrigin(canvasWidth, canvasHeight int) gridPoint {
	const paddingSize = 2
	plotAreaWidth := max(canvasWidth-2*paddingSize, 1)
	plotAreaHeight := max(canvasHeight-2*paddingSize, 1)

	origin := gridPoint{rowIndex: -1, columnIndex: -1}
	minimumX, maximumX := model.scoreBounds(model.pcX)
	if minimumX <= 0 && maximumX >= 0 {
		origin.columnIndex = clamp(paddingSize+int(-minimumX/nonZeroRange(minimumX, maximumX)*float64(plotAreaWidth-1)), 0, canvasWidth-1)
	}
	minimumY, maximumY := model.scoreBounds(model.pcY)
	if minimumY <= 0 && maximumY >= 0 {
		origin.rowIndex = clamp(paddingSize+plotAreaHeight-1-int(-minimumY/nonZeroRange(minimumY, maximumY)*float64(plotAreaHeight-1)), 0, canvasHeight-1)
	}
	return origin
}

// renderGridPointsWithLabels draws markers and, when enabled, sample names.
func (model Model) renderGridPointsWithLabels(canvasGrid [][]canvasCell, gridPoints []gridPoint, styles canvasStyles) {
	hasSelection := model.hasSelection()

	for _, point := range gridPoints {
		// Focus mode hides everything but the selection and its neighbors
		if model.focusMode && hasSelection && !point.isSelected && !point.isNeighbor {
			continue
		}

		markerStyle := classStyle(model.classIndex(model.labels[point.sampleIndex]))
		labelStyle := markerStyle
		markerSymbol := "○"
		markerStartColumn := point.columnIndex

		switch {
		case point.isSelected:
			markerSymbol = "[*]"
			markerStyle = styles.selectedDotStyle
			labelStyle = styles.selectedLabelStyle
			markerStartColumn = max(point.columnIndex-1, 0)
		case point.isNeighbor:
			markerSymbol = "◆"
			markerStyle = markerStyle.Bold(true)
			labelStyle = markerStyle
		}

		writeText(canvasGrid, point.rowIndex, markerStartColumn, markerSymbol, markerStyle)

		if model.showLabels || point.isSelected {
			labelText := truncate.String(point.label, maxCanvasLabelWidth)
			labelStartColumn := markerStartColumn + len([]rune(markerSymbol)) + 1
			writeText(canvasGrid, point.rowIndex, labelStartColumn, labelText, labelStyle)
		}
	}
}

// canvasGridToString converts the 2D canvas grid into a renderable string.
func canvasGridToString(canvasGrid [][]canvasCell) string {
	var outputBuilder strings.Builder

	for rowIndex, gridRow := range canvasGrid {
		for _, cell := range gridRow {
			outputBuilder.WriteString(cell.style.Render(string(cell.char)))
		}
		if rowIndex < len(canvasGrid)-1 {
			outputBuilder.WriteString("\n")
		}
	}

	return outputBuilder.String()
}

// drawLineOnCanvas uses Bresenham's line algorithm to draw a line between two
// points. Only empty cells are filled so markers and axes stay visible.
func drawLineOnCanvas(canvasGrid [][]canvasCell, startX, startY, endX, endY int, lineStyle lipgloss.Style) {
	deltaX := absoluteValue(endX - startX)
	deltaY := absoluteValue(endY - startY)

	stepDirectionX := 1
	if startX > endX {
		stepDirectionX = -1
	}
	stepDirectionY := 1
	if startY > endY {
		stepDirectionY = -1
	}

	errorTerm := deltaX - deltaY
	currentX, currentY := startX, startY

	for {
		if currentY >= 0 && currentY < len(canvasGrid) && currentX >= 0 && currentX < len(canvasGrid[0]) {
			if canvasGrid[currentY][currentX].char == ' ' {
				canvasGrid[currentY][currentX] = canvasCell{char: '·', style: lineStyle}
			}
		}

		if currentX == endX && currentY == endY {
			break
		}

		// Doubled error keeps the arithmetic in integers
		doubledError := 2 * errorTerm
		if doubledError > -deltaY {
			errorTerm -= deltaY
			currentX += stepDirectionX
		}
		if doubledError < deltaX {
			errorTerm += deltaX
			currentY += stepDirectionY
		}
	}
}

func clamp(value, minimum, maximum int) int {
	return min(max(value, minimum), maximum)
}
