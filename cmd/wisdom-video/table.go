package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/eric0324/wisdom-video/internal/timeline"
)

// renderTimelineTable formats the merged slide timeline for terminal output.
// The rounded style is only used on a real terminal.
func renderTimelineTable(w io.Writer, entries []timeline.Entry) string {
	tw := table.NewWriter()
	if isTerminal(w) {
		tw.SetStyle(table.StyleRounded)
	}

	tw.AppendHeader(table.Row{"#", "Slide", "Start", "End", "Duration", "Confidence"})

	for i, entry := range entries {
		tw.AppendRow(table.Row{
			i + 1,
			entry.SlideName,
			formatSeconds(entry.StartTime),
			formatSeconds(entry.EndTime),
			formatSeconds(entry.Duration),
			fmt.Sprintf("%.0f%%", entry.Confidence*100),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	return tw.Render()
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.1fs", s)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
