package main

import (
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableSpec is a rounded CLI table. Right holds zero-based indexes of
// right-aligned columns; short rows are padded with blanks.
type tableSpec struct {
	Headers []string
	Rows    [][]string
	Right   []int
}

func (s tableSpec) String() string {
	width := len(s.Headers)
	if width == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(padRow(s.Headers, width))
	for _, row := range s.Rows {
		tw.AppendRow(padRow(row, width))
	}

	configs := make([]table.ColumnConfig, 0, width)
	for i := range width {
		align := text.AlignLeft
		if slices.Contains(s.Right, i) {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func padRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	return row
}
