package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	overlayPanelWidth  = 36
	overlayPanelHeight = 16
	minCanvasWidth     = 40
	minCanvasHeight    = 10
	tabBarHeight       = 1
	statusBarHeight    = 1
	borderSize         = 2
)

type viewTab int

const (
	tabScatter viewTab = iota
	tabSamples
	tabVariance
)

// layoutDimensions are the outer sizes of the areas of one frame.
type layoutDimensions struct {
	totalWidth   int
	canvasWidth  int
	canvasHeight int
}

// calculateLayout leaves a one cell margin around the frame and gives the
// canvas everything between the tab bar and the status bar.
func (m Model) calculateLayout() layoutDimensions {
	const margin = 1
	totalWidth := m.width - 2*margin

	return layoutDimensions{
		totalWidth:   totalWidth,
		canvasWidth:  max(totalWidth, minCanvasWidth),
		canvasHeight: max(m.height-2*margin-tabBarHeight-statusBarHeight, minCanvasHeight),
	}
}

// palette of the browser.
var (
	accentColor       = lipgloss.Color("#FF87D7")
	panelBorderColor  = lipgloss.Color("#5F5FAF")
	canvasBorderColor = lipgloss.Color("#FF8700")
	dimColor          = lipgloss.Color("#6C6C6C")
	panelBackground   = lipgloss.Color("#303030")
)

type styles struct {
	title, header                 lipgloss.Style
	canvas, overlay               lipgloss.Style
	tabActive, tabInactive        lipgloss.Style
	dim, label, value             lipgloss.Style
	selected, bar, cumulativeFill lipgloss.Style
}

func newStyles() styles {
	bold := lipgloss.NewStyle().Bold(true)
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	box := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c)
	}

	return styles{
		title:          bold.Foreground(accentColor),
		header:         bold.Foreground(accentColor),
		canvas:         box(canvasBorderColor),
		overlay:        box(panelBorderColor).Background(panelBackground).Padding(0, 1),
		tabActive:      bold.Foreground(accentColor).Padding(0, 1),
		tabInactive:    fg(dimColor).Padding(0, 1),
		dim:            fg(dimColor),
		label:          fg(lipgloss.Color("241")),
		value:          fg(lipgloss.Color("255")),
		selected:       bold.Foreground(lipgloss.Color("214")),
		bar:            fg(lipgloss.Color("117")),
		cumulativeFill: fg(dimColor),
	}
}

// tabNames are indexed by viewTab.
var tabNames = [...]string{"Scatter", "Samples", "Variance"}

func (m Model) renderTabBar(s styles, width int) string {
	parts := make([]string, len(tabNames))
	for tab, name := range tabNames {
		if viewTab(tab) == m.activeTab {
			parts[tab] = s.tabActive.Render(name)
		} else {
			parts[tab] = s.tabInactive.Render(name)
		}
	}

	tabRow := strings.Join(parts, s.dim.Render(" │ "))
	title := s.title.Render("imspca " + m.pca.Dataset().Name())
	gap := max(width-lipgloss.Width(tabRow)-lipgloss.Width(title), 1)

	return tabRow + strings.Repeat(" ", gap) + title
}

func (m Model) renderContentArea(s styles, layout layoutDimensions) string {
	canvasInnerWidth := layout.canvasWidth - borderSize
	canvasInnerHeight := layout.canvasHeight - borderSize

	canvasContent := m.renderCanvas(canvasInnerWidth, canvasInnerHeight)
	canvasBox := s.canvas.
		Width(canvasInnerWidth).
		Height(canvasInnerHeight).
		Render(canvasContent)

	if m.showMetadata && m.hasSelection() {
		canvasBox = m.overlayMetadataPanel(canvasBox, s, layout)
	}

	return canvasBox
}

// overlayMetadataPanel places the metadata of the selection in the top right
// corner of the canvas.
func (m Model) overlayMetadataPanel(base string, s styles, layout layoutDimensions) string {
	innerWidth := overlayPanelWidth - 4
	innerHeight := min(overlayPanelHeight, layout.canvasHeight-4)

	panel := s.overlay.
		Width(innerWidth).
		Height(innerHeight).
		Render(m.renderMetadata(s, innerWidth, innerHeight))

	return overlayAt(base, panel, layout.canvasWidth-overlayPanelWidth-1, 1)
}

// overlayAt draws overlay on top of base with its top left corner at column x
// and line y. The overlay is kept inside base and the uncovered parts of every
// line keep their ANSI styling.
func overlayAt(base, overlay string, x, y int) string {
	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(overlay, "\n")
	baseWidth := widestLine(baseLines)
	overlayWidth := widestLine(overlayLines)

	if overlayWidth >= baseWidth && len(overlayLines) >= len(baseLines) {
		return overlay
	}
	x = clamp(x, 0, max(baseWidth-overlayWidth, 0))
	y = clamp(y, 0, max(len(baseLines)-len(overlayLines), 0))

	for offset, overlayLine := range overlayLines {
		lineIndex := y + offset
		if lineIndex >= len(baseLines) {
			break
		}
		baseLine := baseLines[lineIndex]
		lineWidth := ansi.StringWidth(baseLine)

		left := ansi.Truncate(baseLine, x, "")
		if gap := x - ansi.StringWidth(left); gap > 0 {
			left += strings.Repeat(" ", gap)
		}
		end := x + ansi.StringWidth(overlayLine)
		right := ""
		if end < lineWidth {
			right = ansi.TruncateLeft(baseLine, end, "")
		}
		baseLines[lineIndex] = left + overlayLine + right
	}

	return strings.Join(baseLines, "\n")
}

func widestLine(lines []string) int {
	widest := 0
	for _, line := range lines {
		widest = max(widest, ansi.StringWidth(line))
	}
	return widest
}

func (m Model) renderStatusBar(s styles, width int) string {
	labels := "off"
	if m.showLabels {
		labels = "on"
	}
	hints := []string{
		"↑↓: select",
		fmt.Sprintf("x/y: PC %d/%d", m.pcX, m.pcY),
		"L: labels " + labels,
		"F: focus",
		"/: info",
		"1-3: tabs",
		"Esc: quit",
	}
	help := strings.Join(hints, " │ ")

	gap := max(width-lipgloss.Width(help)-lipgloss.Width(m.version), 1)
	return s.dim.Render(help + strings.Repeat(" ", gap) + m.version)
}
