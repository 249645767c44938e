package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"gitstats/derive"
)

// CustomStatLabel names the fourth row of the breakdown
var CustomStatLabel = "Coffee Consumed"

// Breakdown writes the summary as a two-column table followed by the data
// source line. Dummy payloads get a highlighted warning instead.
func Breakdown(w io.Writer, s derive.Summary) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Stat", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{"Years Experience", strconv.FormatFloat(s.Years, 'f', 1, 64)},
		{"Projects", strconv.Itoa(s.Projects)},
		{"Commits", strconv.Itoa(s.Commits)},
		{CustomStatLabel, strconv.FormatFloat(s.CustomStat, 'f', -1, 64)},
		{"Contributions", strconv.Itoa(s.TotalContributions)},
		{"Current Streak", fmt.Sprintf("%d days", s.CurrentStreak)},
		{"Longest Streak", fmt.Sprintf("%d days", s.LongestStreak)},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	return footer(w, s)
}

func footer(w io.Writer, s derive.Summary) error {
	text := s.DataSourceText
	if s.IsDummy {
		text = color.New(color.FgYellow, color.Bold).Sprint(text)
	}
	if s.LastUpdatedText != "" {
		text = fmt.Sprintf("%s · Updated %s", text, s.LastUpdatedText)
	}
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
