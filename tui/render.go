package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/UnownHash/Flyover/highlight"
	"github.com/UnownHash/Flyover/selection"
)

const (
	markerColor = "#cc0000"
	helpText    = "click/enter: select  tab: next  +/-: zoom  arrows: pan  q: quit"
)

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#0066cc"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	tooltipStyle = lipgloss.NewStyle().Reverse(true)
)

type glyph struct {
	ch      rune
	fg      string
	bold    bool
	reverse bool
}

func (g glyph) sameLook(o glyph) bool {
	return g.fg == o.fg && g.bold == o.bold && g.reverse == o.reverse
}

func polygonGlyph(style highlight.Style, edge bool) glyph {
	g := glyph{fg: style.Color}
	switch {
	case edge && style.Weight >= highlight.HoverWeight:
		g.ch = '█'
	case edge && style.Weight >= 2:
		g.ch = '▓'
	case edge:
		g.ch = '▒'
	case style.FillOpacity >= highlight.HoverFillOpacity:
		g.ch = '░'
	default:
		g.ch = '·'
	}
	return g
}

// put writes text into row starting at col, clipped to the row.
func put(row []glyph, col int, text string, look glyph) {
	for _, ch := range text {
		if col >= len(row) {
			return
		}
		if col >= 0 {
			g := look
			g.ch = ch
			row[col] = g
		}
		col++
	}
}

func (m *Model) glyphs() [][]glyph {
	cells := m.view.Cells()
	grid := make([][]glyph, len(cells))

	for rowIdx, cellRow := range cells {
		grid[rowIdx] = make([]glyph, len(cellRow))
		for colIdx, cell := range cellRow {
			g := glyph{ch: ' '}
			if cell.Polygon != nil {
				g = polygonGlyph(cell.Polygon.Style(), cell.Edge)
			}
			if cell.Pointer {
				g.ch = '+'
			}
			grid[rowIdx][colIdx] = g
		}
	}

	snap := m.coord.Snapshot()
	for idx, marker := range m.view.Markers() {
		col, row, ok := m.view.PointToCell(marker.Point())
		if !ok {
			continue
		}
		look := glyph{fg: markerColor, bold: true}
		if idx == m.focus || (snap.Location != nil && snap.Location.Id == marker.Id) {
			look.reverse = true
		}
		put(grid[row], col, "●", look)
		put(grid[row], col+2, marker.DisplayName, glyph{fg: markerColor})
	}

	if tip, ok := m.view.Tooltip(); ok {
		if col, row, ok := m.view.PointToCell(tip.At); ok {
			put(grid[row], col+2, " "+tip.Text+" ", glyph{reverse: true})
		}
	}

	return grid
}

func renderRow(row []glyph) string {
	var sb strings.Builder
	start := 0
	for start < len(row) {
		end := start + 1
		for end < len(row) && row[end].sameLook(row[start]) {
			end++
		}

		var run strings.Builder
		for _, g := range row[start:end] {
			run.WriteRune(g.ch)
		}

		look := row[start]
		switch {
		case look.fg == "" && !look.bold && !look.reverse:
			sb.WriteString(run.String())
		case look.fg == "" && !look.bold:
			sb.WriteString(tooltipStyle.Render(run.String()))
		default:
			style := lipgloss.NewStyle().Bold(look.bold).Reverse(look.reverse)
			if look.fg != "" {
				style = style.Foreground(lipgloss.Color(look.fg))
			}
			sb.WriteString(style.Render(run.String()))
		}
		start = end
	}
	return sb.String()
}

func (m *Model) statusLine() string {
	snap := m.coord.Snapshot()

	var parts []string
	switch snap.Phase {
	case selection.PhaseIdle:
		parts = append(parts, "no location selected")
	case selection.PhaseSelecting:
		parts = append(parts, fmt.Sprintf("%s: loading...", snap.Location.DisplayName))
	case selection.PhaseLoaded:
		parts = append(parts, fmt.Sprintf("%s: %d feature(s)", snap.Location.DisplayName, snap.FeatureCount()))
	case selection.PhaseFailed:
		parts = append(parts, fmt.Sprintf("failed to load %v", snap.LastError))
	}

	if diag := baseOverlayDiagnostic(m.baseErr); diag != "" {
		parts = append(parts, diag)
	}

	_, zoom := m.view.View()
	parts = append(parts, fmt.Sprintf("zoom %.1f", zoom))

	return strings.Join(parts, " | ")
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "starting..."
	}

	var sb strings.Builder
	for _, row := range m.glyphs() {
		sb.WriteString(renderRow(row))
		sb.WriteByte('\n')
	}

	sb.WriteString(statusStyle.Width(m.width).MaxWidth(m.width).Render(m.statusLine()))
	sb.WriteByte('\n')
	sb.WriteString(helpStyle.MaxWidth(m.width).Render(helpText))

	return sb.String()
}
