package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// maxMetadataComponents bounds the scores listed in the metadata panel.
const maxMetadataComponents = 4

// renderMetadata lists the scores of the selected sample and its closest
// samples in component space.
func (m Model) renderMetadata(s styles, panelWidth, panelHeight int) string {
	if !m.hasSelection() {
		return ""
	}

	var contentLines []string
	contentLines = append(contentLines,
		s.header.Render("Selected"),
		s.value.Render(truncate.StringWithTail(m.samples[m.selectedIndex], uint(panelWidth), "…")),
		s.label.Render("Label: ")+s.value.Render(m.labels[m.selectedIndex]),
		"",
	)

	for componentIndex := 0; componentIndex < min(m.pca.NComponents(), maxMetadataComponents); componentIndex++ {
		score := m.scores.At(m.selectedIndex, componentIndex)
		contentLines = append(contentLines,
			s.label.Render(fmt.Sprintf("PC %d: ", componentIndex+1))+s.value.Render(fmt.Sprintf("%.4g", score)))
	}

	if neighbors := m.findNearestNeighbors(m.selectedIndex, neighborCount); len(neighbors) > 0 {
		contentLines = append(contentLines, "", s.header.Render("Nearest"))
		for _, n := range neighbors {
			line := fmt.Sprintf("%.3g %s", n.distance, m.samples[n.sampleIndex])
			contentLines = append(contentLines, truncate.StringWithTail(line, uint(panelWidth), "…"))
		}
	}

	return fitLines(contentLines, panelHeight)
}

// renderSamplesTab lists every sample with its label and scores on the
// plotted components. The list scrolls to keep the selection visible.
func (m Model) renderSamplesTab(s styles, layout layoutDimensions) string {
	innerWidth := layout.canvasWidth - borderSize
	innerHeight := layout.canvasHeight - borderSize
	visibleRows := max(innerHeight-1, 1)

	nameWidth := max(innerWidth-40, 8)
	header := fmt.Sprintf("%-*s %-12s %12s %12s", nameWidth, "Sample", "Label",
		fmt.Sprintf("PC %d", m.pcX), fmt.Sprintf("PC %d", m.pcY))
	lines := []string{s.header.Render(truncate.String(header, uint(innerWidth)))}

	first := 0
	if m.selectedIndex >= visibleRows {
		first = m.selectedIndex - visibleRows + 1
	}
	last := min(first+visibleRows, len(m.samples))

	for sampleIndex := first; sampleIndex < last; sampleIndex++ {
		row := fmt.Sprintf("%-*s %-12s %12.4g %12.4g",
			nameWidth, truncate.StringWithTail(m.samples[sampleIndex], uint(nameWidth), "…"),
			truncate.StringWithTail(m.labels[sampleIndex], 12, "…"),
			m.scores.At(sampleIndex, m.pcX-1),
			m.scores.At(sampleIndex, m.pcY-1))
		row = truncate.String(row, uint(innerWidth))

		style := classStyle(m.classIndex(m.labels[sampleIndex]))
		if sampleIndex == m.selectedIndex {
			style = s.selected
		}
		lines = append(lines, style.Render(row))
	}

	return s.canvas.
		Width(innerWidth).
		Height(innerHeight).
		Render(fitLines(lines, innerHeight))
}

// renderVarianceTab draws a horizontal bar per component with its explained
// and cumulative variance.
func (m Model) renderVarianceTab(s styles, layout layoutDimensions) string {
	innerWidth := layout.canvasWidth - borderSize
	innerHeight := layout.canvasHeight - borderSize

	percents := m.pca.ExplainedVariancePercent()
	cumulative := m.pca.CumulativeVariancePercent()

	summary := strings.ReplaceAll(strings.TrimSpace(m.pca.String()), "\n", " ")
	lines := []string{
		s.header.Render(truncate.String(summary, uint(innerWidth))),
		s.label.Render(fmt.Sprintf("solver %s, %d components", m.pca.Config().Solver, m.pca.NComponents())),
		"",
	}

	const prefixWidth = 24
	barWidth := max(innerWidth-prefixWidth, 1)
	for componentIndex, percent := range percents {
		prefix := fmt.Sprintf("PC %-3d %5.1f %% %6.1f %% ", componentIndex+1, percent, cumulative[componentIndex])
		filled := int(percent / 100 * float64(barWidth))
		bar := s.bar.Render(strings.Repeat("█", filled)) +
			s.cumulativeFill.Render(strings.Repeat("░", max(int(cumulative[componentIndex]/100*float64(barWidth))-filled, 0)))
		lines = append(lines, s.value.Render(prefix)+bar)
	}

	return s.canvas.
		Width(innerWidth).
		Height(innerHeight).
		Render(fitLines(lines, innerHeight))
}

// fitLines pads or truncates lines to exactly height lines.
func fitLines(lines []string, height int) string {
	for len(lines) < height {
		lines = append(lines, "")
	}
	if height >= 0 && len(lines) > height {
		lines = lines[:height]
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
