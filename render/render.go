// Package render draws gardens for terminals.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/katalvlaran/lawnmower/garden"
)

// Theme maps each cell kind to a style.
type Theme struct {
	Cells  map[garden.CellKind]lipgloss.Style
	Frame  lipgloss.Style
	Legend lipgloss.Style
}

// DefaultTheme: tall grass green, cut grass pale, mower bright.
var DefaultTheme = Theme{
	Cells: map[garden.CellKind]lipgloss.Style{
		garden.Open:          lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		garden.Visited:       lipgloss.NewStyle().Foreground(lipgloss.Color("150")),
		garden.Obstacle:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Bold(true),
		garden.Home:          lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		garden.AgentHere:     lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("226")).Bold(true),
		garden.WaypointStart: lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Bold(true),
		garden.WaypointEnd:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	},
	Frame: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("238")).
		Padding(0, 1),
	Legend: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// Plain returns q as layout runes, one line per row, each line ending in
// a newline. Unreadable cells render as '?'.
func Plain(q garden.Query) string {
	var b strings.Builder
	b.Grow(q.Rows() * (q.Cols() + 1))
	for r := 0; r < q.Rows(); r++ {
		for c := 0; c < q.Cols(); c++ {
			b.WriteRune(runeAt(q, r, c))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Styled renders q with DefaultTheme.
func Styled(q garden.Query) string {
	return DefaultTheme.Render(q)
}

// Render colours every cell, frames the garden and appends a legend.
func (t Theme) Render(q garden.Query) string {
	lines := make([]string, 0, q.Rows())
	var b strings.Builder
	for r := 0; r < q.Rows(); r++ {
		b.Reset()
		for c := 0; c < q.Cols(); c++ {
			k, err := q.KindAt(r, c)
			b.WriteString(t.cell(k, err))
		}
		lines = append(lines, b.String())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		t.Frame.Render(strings.Join(lines, "\n")),
		t.legend(),
	)
}

func (t Theme) cell(k garden.CellKind, err error) string {
	if err != nil {
		return "?"
	}
	s, ok := t.Cells[k]
	if !ok {
		return string(k.Rune())
	}
	return s.Render(string(k.Rune()))
}

func (t Theme) legend() string {
	kinds := []garden.CellKind{
		garden.Open, garden.Visited, garden.Obstacle, garden.Home,
		garden.AgentHere, garden.WaypointStart, garden.WaypointEnd,
	}
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, t.cell(k, nil)+" "+t.Legend.Render(k.String()))
	}
	return strings.Join(parts, "  ")
}

func runeAt(q garden.Query, r, c int) rune {
	k, err := q.KindAt(r, c)
	if err != nil {
		return '?'
	}
	return k.Rune()
}
