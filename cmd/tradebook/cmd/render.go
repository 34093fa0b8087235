package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(highlight).
				Bold(true).
				PaddingRight(2)

	tableCellStyle = lipgloss.NewStyle().
			PaddingRight(2)

	tableTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginBottom(1)

	dimStyle = lipgloss.NewStyle().Foreground(subtle)
)

// renderTable lays out rows under a styled header with per-column widths.
func renderTable(title string, headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(tableTitleStyle.Render(title))
		b.WriteString("\n")
	}

	headerCells := make([]string, len(headers))
	for i, h := range headers {
		headerCells[i] = tableHeaderStyle.Render(pad(h, widths[i]))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, headerCells...))
	b.WriteString("\n")

	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("(empty)"))
		b.WriteString("\n")
		return b.String()
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = tableCellStyle.Render(pad(cell, widths[i]))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}
	return b.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func fmtAmount(d decimal.Decimal, precision int32) string {
	return d.Round(precision).String()
}
