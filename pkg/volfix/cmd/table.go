package main

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// renderTable lays out rows under header. Columns listed in numeric (1-based)
// are right-aligned
func renderTable(out io.Writer, header table.Row, rows []table.Row, numeric ...int) string {
	tw := table.NewWriter()
	tw.AppendHeader(header)
	tw.AppendRows(rows)

	style := table.StyleDefault
	if isTerminal(out) {
		style = table.StyleRounded
	}
	tw.SetStyle(style)

	configs := make([]table.ColumnConfig, 0, len(numeric))
	for _, column := range numeric {
		configs = append(configs, table.ColumnConfig{Number: column, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
