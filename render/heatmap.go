// Package render draws stats payloads for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitstats/derive"
	"gitstats/models"
)

const (
	cell      = "■"
	cellWidth = 2
	gutter    = "    "
)

var palettes = map[models.ColorScheme][5]lipgloss.Color{
	models.ColorGreen:  {"#2D333B", "#0E4429", "#006D32", "#26A641", "#39D353"},
	models.ColorBlue:   {"#2D333B", "#0A3069", "#0550AE", "#218BFF", "#80CCFF"},
	models.ColorPurple: {"#2D333B", "#3E1F79", "#6639BA", "#8250DF", "#C297FF"},
	models.ColorOrange: {"#2D333B", "#762C00", "#BC4C00", "#FB8F44", "#FFC680"},
}

// Palette returns the five level colours of scheme, falling back to green
func Palette(scheme models.ColorScheme) [5]lipgloss.Color {
	if p, ok := palettes[scheme]; ok {
		return p
	}
	return palettes[models.ColorGreen]
}

// dayLabels follows the usual calendar layout: only alternate rows are named
var dayLabels = [7]string{"", "Mon", "", "Wed", "", "Fri", ""}

// Heatmap writes a seven-row contribution calendar, one column per week,
// followed by a level legend and the yearly total. Colours are dropped when
// w is not a terminal.
func Heatmap(w io.Writer, weeks []models.ContributionWeek, scheme models.ColorScheme) error {
	r := lipgloss.NewRenderer(w)
	palette := Palette(scheme)

	levels := make([]lipgloss.Style, len(palette))
	for i, c := range palette {
		levels[i] = r.NewStyle().Foreground(c)
	}
	dim := r.NewStyle().Foreground(lipgloss.Color("#768390"))

	var b strings.Builder
	b.WriteString(gutter)
	b.WriteString(dim.Render(monthHeader(weeks)))
	b.WriteString("\n")

	for row := 0; row < 7; row++ {
		b.WriteString(dim.Render(fmt.Sprintf("%-4s", dayLabels[row])))
		for _, week := range weeks {
			day, ok := dayAt(week, row)
			if !ok {
				b.WriteString(strings.Repeat(" ", cellWidth))
				continue
			}
			b.WriteString(levels[derive.ContributionLevel(day.ContributionCount)].Render(cell))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(gutter)
	b.WriteString(dim.Render("Less "))
	for _, s := range levels {
		b.WriteString(s.Render(cell))
		b.WriteString(" ")
	}
	b.WriteString(dim.Render("More"))
	b.WriteString("\n")

	total := derive.TotalContributions(weeks)
	fmt.Fprintf(&b, "%s%d contributions in the last year\n", gutter, total)

	_, err := io.WriteString(w, b.String())
	return err
}

// dayAt finds the day drawn in row. Weekday wins over slice position so
// partial weeks still line up.
func dayAt(week models.ContributionWeek, row int) (models.ContributionDay, bool) {
	for _, day := range week.ContributionDays {
		if day.Weekday == row {
			return day, true
		}
	}
	return models.ContributionDay{}, false
}

func monthHeader(weeks []models.ContributionWeek) string {
	header := []rune(strings.Repeat(" ", len(weeks)*cellWidth))
	next := 0
	for _, label := range derive.MonthLabels(weeks) {
		pos := label.Week * cellWidth
		// Labels that would overlap the previous one are skipped
		if pos < next || pos+len(label.Label) > len(header) {
			continue
		}
		copy(header[pos:], []rune(label.Label))
		next = pos + len(label.Label) + 1
	}
	return strings.TrimRight(string(header), " ")
}
