package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("#5f9fb0")
	colorMuted  = lipgloss.Color("#6c757d")
	colorPinned = lipgloss.Color("#f39c12")
	colorOK     = lipgloss.Color("#2ecc71")
)

// Styles groups the terminal styles used by command output. Colours drop
// out automatically when the output is not a terminal.
type Styles struct {
	Header  lipgloss.Style
	Muted   lipgloss.Style
	Pinned  lipgloss.Style
	Tag     lipgloss.Style
	Success lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Muted:   lipgloss.NewStyle().Foreground(colorMuted),
		Pinned:  lipgloss.NewStyle().Bold(true).Foreground(colorPinned),
		Tag:     lipgloss.NewStyle().Foreground(colorMuted),
		Success: lipgloss.NewStyle().Foreground(colorOK),
	}
}

// table renders rows as left-aligned columns sized to their widest cell.
func (s Styles) table(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		rendered := make([]string, len(cells))
		for i, cell := range cells {
			cellStyle := style
			if i < len(cells)-1 {
				cellStyle = cellStyle.Width(widths[i] + 2)
			}
			rendered[i] = cellStyle.Render(cell)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, renderRow(header, s.Header))
	for _, row := range rows {
		lines = append(lines, renderRow(row, lipgloss.NewStyle()))
	}
	return strings.Join(lines, "\n")
}
