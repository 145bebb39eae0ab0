package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatTable lays rows out under their headers with one space between
// columns. Count columns are passed by index and right-aligned so their
// digits line up; question text stays left-aligned.
func formatTable(headers []string, rows [][]string, numericCols ...int) []string {
	widths := columnWidths(headers, rows)
	if len(widths) == 0 {
		return nil
	}
	numeric := make(map[int]bool, len(numericCols))
	for _, col := range numericCols {
		numeric[col] = true
	}

	out := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		out = append(out, layoutRow(headers, widths, numeric))
	}
	for _, row := range rows {
		out = append(out, layoutRow(row, widths, numeric))
	}
	return out
}

func columnWidths(headers []string, rows [][]string) []int {
	count := len(headers)
	for _, row := range rows {
		if len(row) > count {
			count = len(row)
		}
	}
	widths := make([]int, count)
	grow := func(row []string) {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	grow(headers)
	for _, row := range rows {
		grow(row)
	}
	return widths
}

func layoutRow(row []string, widths []int, numeric map[int]bool) string {
	var b strings.Builder
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		pad := width - runewidth.StringWidth(cell)
		if pad < 0 {
			pad = 0
		}
		if numeric[i] {
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(cell)
		} else {
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", pad))
		}
	}
	return b.String()
}
