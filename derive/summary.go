package derive

import (
	"time"

	"gitstats/models"
)

// SummaryOptions selects what goes into a Summary
type SummaryOptions struct {
	ProfileIndexes []int
	// HeatmapProfile picks the profile whose calendar feeds the contribution figures
	HeatmapProfile int
	Experience     []models.ExperienceEntry
	CustomStat     CustomStat
}

// Summary is the display-ready view of one DataResult
type Summary struct {
	Years              float64
	Projects           int
	Commits            int
	CustomStat         float64
	TotalContributions int
	CurrentStreak      int
	LongestStreak      int
	DataSourceText     string
	LastUpdatedText    string
	IsDummy            bool
	Source             models.DataSource
}

// Summarize derives every display value for result. Years are rounded to one
// decimal before they feed the custom stat. An unparseable lastUpdated leaves
// LastUpdatedText empty; invalid experience dates are returned as an error.
func Summarize(result models.DataResult, opts SummaryOptions, now time.Time) (Summary, error) {
	s := Summary{
		DataSourceText: DataSourceText(result.Source, result.IsDummy),
		IsDummy:        result.IsDummy,
		Source:         result.Source,
	}

	years, err := YearsExperience(opts.Experience, now)
	if err != nil {
		return s, err
	}
	s.Years = RoundTo(years, 1)

	if result.Data == nil {
		return s, nil
	}

	totals := AggregateTotals(result.Data, opts.ProfileIndexes)
	s.Projects, s.Commits = totals.ProjectCount, totals.CommitCount

	calc := opts.CustomStat
	if calc == nil {
		calc = CoffeeCups
	}
	s.CustomStat = RoundTo(calc(CustomStatParams{Projects: s.Projects, Commits: s.Commits, Years: s.Years}), 2)

	if result.Data.LastUpdated != "" {
		if text, err := FormatLastUpdated(result.Data.LastUpdated, now); err == nil {
			s.LastUpdatedText = text
		}
	}

	if i := opts.HeatmapProfile; i >= 0 && i < len(result.Data.Profiles) {
		weeks := result.Data.Profiles[i].Stats.Contributions
		s.TotalContributions = TotalContributions(weeks)
		s.CurrentStreak, s.LongestStreak = Streaks(weeks, now)
	}
	return s, nil
}
