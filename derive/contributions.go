package derive

import (
	"time"

	"gitstats/models"
)

// ContributionLevel buckets a daily count into the heat-map's five shades:
// 0 → 0, 1–3 → 1, 4–6 → 2, 7–9 → 3, 10+ → 4.
func ContributionLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 3:
		return 1
	case count <= 6:
		return 2
	case count <= 9:
		return 3
	default:
		return 4
	}
}

// TotalContributions sums every day of the calendar
func TotalContributions(weeks []models.ContributionWeek) int {
	total := 0
	for _, week := range weeks {
		for _, day := range week.ContributionDays {
			total += day.ContributionCount
		}
	}
	return total
}

// Streaks returns the run of active days ending on today (current) and the
// longest run anywhere in the calendar. Days with unparseable dates are ignored.
func Streaks(weeks []models.ContributionWeek, today time.Time) (current, longest int) {
	counts := make(map[time.Time]int)
	var days []time.Time
	for _, week := range weeks {
		for _, day := range week.ContributionDays {
			d, err := time.Parse(DateLayout, day.Date)
			if err != nil {
				continue
			}
			if _, seen := counts[d]; !seen {
				days = append(days, d)
			}
			counts[d] += day.ContributionCount
		}
	}
	if len(days) == 0 {
		return 0, 0
	}

	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	for d := todayDate; counts[d] > 0; d = d.AddDate(0, 0, -1) {
		current++
	}

	for _, d := range days {
		// Only start counting at the first day of a run
		if counts[d] <= 0 || counts[d.AddDate(0, 0, -1)] > 0 {
			continue
		}
		length := 0
		for cur := d; counts[cur] > 0; cur = cur.AddDate(0, 0, 1) {
			length++
		}
		if length > longest {
			longest = length
		}
	}
	return current, longest
}
