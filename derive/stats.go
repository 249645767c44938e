package derive

import (
	"math"
	"time"

	"gitstats/models"
)

const daysPerYear = 365.25

// YearsExperience returns the largest per-skill total of experience, in
// fractional years. Each entry's duration is added to every skill it lists,
// so the result answers "longest practiced skill", not career length.
// An entry with a nil EndDate runs until now.
func YearsExperience(entries []models.ExperienceEntry, now time.Time) (float64, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	perSkill := make(map[string]float64)
	for _, entry := range entries {
		start, err := ParseTimestamp(entry.StartDate)
		if err != nil {
			return 0, err
		}
		end := now
		if entry.EndDate != nil {
			if end, err = ParseTimestamp(*entry.EndDate); err != nil {
				return 0, err
			}
		}

		years := end.Sub(start).Hours() / 24 / daysPerYear
		for _, skill := range entry.Skills {
			perSkill[skill] += years
		}
	}

	best := 0.0
	for _, years := range perSkill {
		best = math.Max(best, years)
	}
	return best, nil
}

// AggregateTotals sums the counters of the profiles at the given indexes into
// data.Profiles. Out-of-range indexes are skipped. With no indexes the
// payload's own totals are returned.
func AggregateTotals(data *models.GitStatsData, profileIndexes []int) models.StatsTotals {
	if data == nil {
		return models.StatsTotals{}
	}
	if len(profileIndexes) == 0 {
		return data.Totals
	}

	var totals models.StatsTotals
	for _, i := range profileIndexes {
		if i < 0 || i >= len(data.Profiles) {
			continue
		}
		totals.ProjectCount += data.Profiles[i].Stats.ProjectCount
		totals.CommitCount += data.Profiles[i].Stats.CommitCount
	}
	return totals
}

// CustomStatParams feeds a custom stat calculator
type CustomStatParams struct {
	Projects int
	Commits  int
	Years    float64
}

// CustomStat computes the fourth tile of the stats breakdown
type CustomStat func(CustomStatParams) float64

// CoffeeCups is the default custom stat: cups of coffee consumed
func CoffeeCups(p CustomStatParams) float64 {
	const (
		perProject = 1.5
		perCommit  = 1.2
		perYear    = 1.5
	)
	return float64(p.Projects)*perProject + float64(p.Commits)*perCommit + p.Years*perYear
}

// RoundTo rounds v to the given number of decimals
func RoundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
