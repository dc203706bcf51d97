package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-dashboard-builder/components/builder"
)

const (
	sidebarWidth  = 30
	minColumnSize = 4
)

// renderCanvas draws the cells as bordered boxes. Cells sharing a top row are
// placed side by side at their column offsets.
func renderCanvas(cells []builder.Cell, selectedID string, width int) string {
	if len(cells) == 0 {
		return Styles.Empty.Render("No elements yet. Pick a type with 1-4 or press R for the demo set.")
	}
	col := (width - 2) / builder.GridColumns
	if col < minColumnSize {
		col = minColumnSize
	}
	sorted := append([]builder.Cell(nil), cells...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Placement.Y != sorted[j].Placement.Y {
			return sorted[i].Placement.Y < sorted[j].Placement.Y
		}
		return sorted[i].Placement.X < sorted[j].Placement.X
	})

	var bands []string
	for start := 0; start < len(sorted); {
		end := start
		for end < len(sorted) && sorted[end].Placement.Y == sorted[start].Placement.Y {
			end++
		}
		bands = append(bands, renderBand(sorted[start:end], selectedID, col))
		start = end
	}
	return lipgloss.JoinVertical(lipgloss.Left, bands...)
}

func renderBand(cells []builder.Cell, selectedID string, col int) string {
	parts := make([]string, 0, len(cells)*2)
	cursor := 0
	for _, cell := range cells {
		p := cell.Placement
		if p.X > cursor {
			parts = append(parts, strings.Repeat(" ", (p.X-cursor)*col))
		}
		parts = append(parts, renderCell(cell, cell.View.ID == selectedID, p.W*col))
		cursor = p.X + p.W
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderCell(cell builder.Cell, selected bool, width int) string {
	inner := width - 2
	if inner < 1 {
		inner = 1
	}
	lines := cellLines(cell.View)
	height := cell.Placement.H
	if height < 1 {
		height = 1
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = truncate(line, inner)
	}
	color := cell.View.Color
	if color == "" {
		color = ColorMuted
	}
	return cellStyle(color, selected).
		Width(inner).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

// cellLines is the plain text preview of an element view.
func cellLines(v builder.ElementView) []string {
	header := fmt.Sprintf("%s %s", v.Type, v.ID)
	switch {
	case v.Placeholder != "":
		return []string{header, v.Placeholder}
	case v.Type == builder.ElementText:
		return append([]string{header}, strings.Split(v.Text, "\n")...)
	case v.Type == builder.ElementImage:
		return []string{header, v.ImageURL, v.HoverText}
	case v.Type == builder.ElementChart && v.Chart != nil:
		lines := []string{header + " (" + v.ChartType + ")", strings.Join(v.Chart.Labels, " ")}
		for _, ds := range v.Chart.Datasets {
			lines = append(lines, ds.Label+" "+sparkline(ds.Data))
		}
		return lines
	case v.Type == builder.ElementTable && v.Table != nil:
		lines := []string{header, strings.Join(v.Table.Headers, " | ")}
		for _, row := range v.Table.Rows {
			lines = append(lines, strings.Join(row, " | "))
		}
		return lines
	}
	return []string{header}
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	out := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
		}
		out[i] = sparkBlocks[idx]
	}
	return string(out)
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
