package render

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitstats/derive"
	"gitstats/dummy"
	"gitstats/models"
)

func sampleWeeks() []models.ContributionWeek {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	g := dummy.NewWithSource(rand.New(rand.NewPCG(1, 2)), func() time.Time { return now })
	return g.Contributions()
}

func TestPalette(t *testing.T) {
	for _, scheme := range models.ColorSchemes {
		p := Palette(scheme)
		for _, c := range p {
			assert.NotEmpty(t, string(c), "scheme %s", scheme)
		}
	}
	assert.Equal(t, Palette(models.ColorGreen), Palette("unknown"))
	assert.NotEqual(t, Palette(models.ColorGreen), Palette(models.ColorBlue))
}

func TestHeatmap(t *testing.T) {
	weeks := sampleWeeks()

	var buf bytes.Buffer
	require.NoError(t, Heatmap(&buf, weeks, models.ColorBlue))
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// month header, seven day rows, blank, legend, total
	require.Len(t, lines, 11)

	assert.Contains(t, lines[0], "Jun")
	assert.Contains(t, lines[0], "Jan")
	assert.True(t, strings.HasPrefix(lines[2], "Mon"))
	assert.True(t, strings.HasPrefix(lines[4], "Wed"))
	assert.True(t, strings.HasPrefix(lines[6], "Fri"))

	for _, row := range lines[1:8] {
		assert.Equal(t, len(weeks), strings.Count(row, cell))
	}
	assert.Contains(t, lines[9], "Less")
	assert.Contains(t, lines[9], "More")
	assert.Equal(t, 5, strings.Count(lines[9], cell))

	total := derive.TotalContributions(weeks)
	assert.Contains(t, lines[10], fmt.Sprintf("%d contributions in the last year", total))
}

func TestHeatmapPartialWeek(t *testing.T) {
	weeks := []models.ContributionWeek{{
		FirstDay: "2024-06-12",
		ContributionDays: []models.ContributionDay{
			{Date: "2024-06-12", ContributionCount: 4, Weekday: 3},
			{Date: "2024-06-13", ContributionCount: 0, Weekday: 4},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, Heatmap(&buf, weeks, models.ColorGreen))
	lines := strings.Split(buf.String(), "\n")

	assert.NotContains(t, lines[1], cell)
	assert.Contains(t, lines[4], cell)
	assert.Contains(t, lines[5], cell)
	assert.Contains(t, buf.String(), "4 contributions in the last year")
}

func TestHeatmapEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Heatmap(&buf, nil, models.ColorOrange))
	assert.Contains(t, buf.String(), "0 contributions in the last year")
}

func TestMonthHeaderSkipsOverlaps(t *testing.T) {
	weeks := []models.ContributionWeek{
		{ContributionDays: []models.ContributionDay{{Date: "2024-05-26"}}},
		{ContributionDays: []models.ContributionDay{{Date: "2024-06-02"}}},
		{ContributionDays: []models.ContributionDay{{Date: "2024-06-09"}}},
		{ContributionDays: []models.ContributionDay{{Date: "2024-06-16"}}},
	}
	assert.Equal(t, "May", monthHeader(weeks))
}

func TestBreakdown(t *testing.T) {
	s := derive.Summary{
		Years:              4.5,
		Projects:           42,
		Commits:            3847,
		CustomStat:         4686.15,
		TotalContributions: 2780,
		CurrentStreak:      3,
		LongestStreak:      21,
		DataSourceText:     "Cached data",
		LastUpdatedText:    "3 hours ago",
	}

	var buf bytes.Buffer
	require.NoError(t, Breakdown(&buf, s))
	out := buf.String()

	for _, want := range []string{"Years Experience", "4.5", "Projects", "42", "3847", "Coffee Consumed", "4686.15", "2780", "21 days"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "Cached data · Updated 3 hours ago")
}

func TestBreakdownDummyWarning(t *testing.T) {
	s := derive.Summary{
		IsDummy:        true,
		DataSourceText: derive.DataSourceText(models.SourceStatic, true),
	}

	var buf bytes.Buffer
	require.NoError(t, Breakdown(&buf, s))
	assert.Contains(t, buf.String(), "Using dummy data for testing")
}

