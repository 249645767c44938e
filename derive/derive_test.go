package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitstats/models"
)

var now = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestFormatLastUpdated(t *testing.T) {
	tests := []struct {
		name     string
		ts       time.Time
		expected string
	}{
		{name: "30 minutes ago", ts: now.Add(-30 * time.Minute), expected: "just now"},
		{name: "in the future", ts: now.Add(2 * time.Hour), expected: "just now"},
		{name: "exactly one hour", ts: now.Add(-time.Hour), expected: "1 hours ago"},
		{name: "five hours", ts: now.Add(-5*time.Hour - 59*time.Minute), expected: "5 hours ago"},
		{name: "23 hours", ts: now.Add(-23 * time.Hour), expected: "23 hours ago"},
		{name: "25 hours", ts: now.Add(-25 * time.Hour), expected: "yesterday"},
		{name: "47 hours", ts: now.Add(-47 * time.Hour), expected: "yesterday"},
		{name: "3 days", ts: now.Add(-72 * time.Hour), expected: "3 days ago"},
		{name: "6 days", ts: now.Add(-6 * 24 * time.Hour), expected: "6 days ago"},
		{name: "same year", ts: time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC), expected: "Mar 5"},
		{name: "previous year", ts: time.Date(2023, time.December, 24, 9, 0, 0, 0, time.UTC), expected: "Dec 24, 2023"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatLastUpdated(tt.ts.Format(time.RFC3339Nano), now)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatLastUpdatedInvalid(t *testing.T) {
	_, err := FormatLastUpdated("not a date", now)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseTimestamp(t *testing.T) {
	for _, in := range []string{"2024-06-01T10:00:00Z", "2024-06-01T10:00:00.123+02:00", "2024-06-01T10:00:00", "2024-06-01"} {
		_, err := ParseTimestamp(in)
		assert.NoError(t, err, in)
	}
}

func TestContributionLevel(t *testing.T) {
	tests := []struct {
		count    int
		expected int
	}{
		{0, 0}, {-2, 0}, {1, 1}, {3, 1}, {4, 2}, {6, 2}, {7, 3}, {9, 3}, {10, 4}, {1000, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ContributionLevel(tt.count), "count %d", tt.count)
	}
}

func strPtr(s string) *string { return &s }

func TestYearsExperience(t *testing.T) {
	tests := []struct {
		name     string
		entries  []models.ExperienceEntry
		expected float64
	}{
		{name: "no entries", entries: nil, expected: 0},
		{
			name: "no skills",
			entries: []models.ExperienceEntry{
				{StartDate: "2020-01-01", EndDate: strPtr("2022-01-01")},
			},
			expected: 0,
		},
		{
			name: "one entry two skills",
			entries: []models.ExperienceEntry{
				{StartDate: "2021-01-01", EndDate: strPtr("2023-01-01"), Skills: []string{"a", "b"}},
			},
			expected: 2.0,
		},
		{
			name: "skills accumulate across entries",
			entries: []models.ExperienceEntry{
				{StartDate: "2018-01-01", EndDate: strPtr("2020-01-01"), Skills: []string{"go"}},
				{StartDate: "2020-01-01", EndDate: strPtr("2021-01-01"), Skills: []string{"go", "rust"}},
				{StartDate: "2015-01-01", EndDate: strPtr("2016-01-01"), Skills: []string{"php"}},
			},
			expected: 3.0,
		},
		{
			name: "ongoing entry runs to now",
			entries: []models.ExperienceEntry{
				{StartDate: "2023-06-15T12:00:00Z", Skills: []string{"go"}},
			},
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := YearsExperience(tt.entries, now)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 0.01)
		})
	}
}

func TestYearsExperienceInvalidDate(t *testing.T) {
	_, err := YearsExperience([]models.ExperienceEntry{{StartDate: "soon", Skills: []string{"go"}}}, now)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func week(first string, counts ...int) models.ContributionWeek {
	start, _ := time.Parse(DateLayout, first)
	w := models.ContributionWeek{FirstDay: first}
	for i, c := range counts {
		w.ContributionDays = append(w.ContributionDays, models.ContributionDay{
			Date:              start.AddDate(0, 0, i).Format(DateLayout),
			ContributionCount: c,
			Weekday:           i,
		})
	}
	return w
}

func TestTotalContributionsAndStreaks(t *testing.T) {
	weeks := []models.ContributionWeek{
		week("2024-06-02", 1, 1, 1, 0, 5, 5, 0),
		week("2024-06-09", 2, 2, 2, 2, 0, 3, 4),
	}

	assert.Equal(t, 28, TotalContributions(weeks))

	current, longest := Streaks(weeks, now)
	// 2024-06-15 is the last day of the second week
	assert.Equal(t, 2, current)
	assert.Equal(t, 4, longest)

	current, longest = Streaks(nil, now)
	assert.Zero(t, current)
	assert.Zero(t, longest)
}

func TestMonthLabels(t *testing.T) {
	weeks := []models.ContributionWeek{
		week("2024-05-19", 0, 0, 0, 0, 0, 0, 0),
		week("2024-05-26", 0, 0, 0, 0, 0, 0, 0),
		week("2024-06-02", 0, 0, 0, 0, 0, 0, 0),
		{FirstDay: "broken"},
		week("2024-06-09", 0, 0, 0, 0, 0, 0, 0),
	}

	labels := MonthLabels(weeks)
	require.Len(t, labels, 2)
	assert.Equal(t, MonthLabel{Week: 0, Month: time.May, Year: 2024, Label: "May"}, labels[0])
	assert.Equal(t, MonthLabel{Week: 2, Month: time.June, Year: 2024, Label: "Jun"}, labels[1])
}

func TestDayTooltip(t *testing.T) {
	text, err := DayTooltip(models.ContributionDay{Date: "2024-05-26", ContributionCount: 3})
	require.NoError(t, err)
	assert.Equal(t, "3 contributions on Sun, May 26, 2024", text)

	text, err = DayTooltip(models.ContributionDay{Date: "2024-05-27", ContributionCount: 1})
	require.NoError(t, err)
	assert.Equal(t, "1 contribution on Mon, May 27, 2024", text)

	text, err = DayTooltip(models.ContributionDay{})
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = DayTooltip(models.ContributionDay{Date: "26/05/2024"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDataSourceText(t *testing.T) {
	assert.Equal(t, "Real-time data", DataSourceText(models.SourceStatic, false))
	assert.Equal(t, "Cached data", DataSourceText(models.SourceCache, false))
	assert.Equal(t, "Sample data", DataSourceText(models.SourceMock, false))
	assert.Equal(t, "", DataSourceText(models.SourceNone, false))
	assert.Contains(t, DataSourceText(models.SourceStatic, true), "dummy data")
}

func samplePayload() *models.GitStatsData {
	return &models.GitStatsData{
		LastUpdated: "2024-06-15T09:00:00Z",
		Profiles: []models.Profile{
			{Username: "a", Stats: models.ProfileStats{ProjectCount: 10, CommitCount: 100, Contributions: []models.ContributionWeek{week("2024-06-09", 1, 1, 1, 1, 1, 1, 1)}}},
			{Username: "b", Stats: models.ProfileStats{ProjectCount: 5, CommitCount: 50}},
		},
		Totals: models.StatsTotals{ProjectCount: 15, CommitCount: 150},
	}
}

func TestAggregateTotals(t *testing.T) {
	data := samplePayload()

	assert.Equal(t, models.StatsTotals{ProjectCount: 15, CommitCount: 150}, AggregateTotals(data, nil))
	assert.Equal(t, models.StatsTotals{ProjectCount: 5, CommitCount: 50}, AggregateTotals(data, []int{1}))
	assert.Equal(t, models.StatsTotals{ProjectCount: 10, CommitCount: 100}, AggregateTotals(data, []int{0, 7, -1}))
	assert.Equal(t, models.StatsTotals{}, AggregateTotals(nil, []int{0}))
}

func TestCoffeeCups(t *testing.T) {
	assert.InDelta(t, 10*1.5+100*1.2+2*1.5, CoffeeCups(CustomStatParams{Projects: 10, Commits: 100, Years: 2}), 1e-9)
}

func TestSummarize(t *testing.T) {
	result := models.DataResult{Data: samplePayload(), Source: models.SourceCache}
	opts := SummaryOptions{
		ProfileIndexes: []int{0},
		Experience: []models.ExperienceEntry{
			{StartDate: "2021-01-01", EndDate: strPtr("2023-01-01"), Skills: []string{"go"}},
		},
	}

	s, err := Summarize(result, opts, now)
	require.NoError(t, err)

	assert.Equal(t, 2.0, s.Years)
	assert.Equal(t, 10, s.Projects)
	assert.Equal(t, 100, s.Commits)
	assert.InDelta(t, 10*1.5+100*1.2+2.0*1.5, s.CustomStat, 1e-9)
	assert.Equal(t, 7, s.TotalContributions)
	assert.Equal(t, 7, s.CurrentStreak)
	assert.Equal(t, "Cached data", s.DataSourceText)
	assert.Equal(t, "3 hours ago", s.LastUpdatedText)
}

func TestSummarizeCustomStat(t *testing.T) {
	result := models.DataResult{Data: samplePayload(), Source: models.SourceStatic}
	opts := SummaryOptions{CustomStat: func(p CustomStatParams) float64 { return float64(p.Commits) / 3 }}

	s, err := Summarize(result, opts, now)
	require.NoError(t, err)
	assert.Equal(t, 50.0, s.CustomStat)
	assert.Equal(t, 150, s.Commits)
}
