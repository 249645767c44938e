// Package derive turns GitStatsData fields into display-ready values.
// Every function is pure; the current time is always passed in.
package derive

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gitstats/models"
)

// ErrInvalidDate is returned for timestamps none of the accepted layouts match
var ErrInvalidDate = errors.New("invalid date")

// DateLayout is the layout of calendar dates in the payload
const DateLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	DateLayout,
}

// ParseTimestamp accepts RFC 3339 timestamps and bare dates. Bare dates and
// timestamps without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// FormatLastUpdated describes how long ago ts was, relative to now.
// Hours and days are floored from the elapsed time; anything a week or older
// is shown as a date, with the year only when it differs from now's year.
func FormatLastUpdated(ts string, now time.Time) (string, error) {
	date, err := ParseTimestamp(ts)
	if err != nil {
		return "", err
	}

	diffHours := int64(math.Floor(now.Sub(date).Hours()))
	if diffHours < 1 {
		return "just now", nil
	}
	if diffHours < 24 {
		return fmt.Sprintf("%d hours ago", diffHours), nil
	}

	diffDays := diffHours / 24
	if diffDays == 1 {
		return "yesterday", nil
	}
	if diffDays < 7 {
		return fmt.Sprintf("%d days ago", diffDays), nil
	}

	local := date.In(now.Location())
	if local.Year() != now.Year() {
		return local.Format("Jan 2, 2006"), nil
	}
	return local.Format("Jan 2"), nil
}

// DataSourceText is the footer line shown under a rendered payload
func DataSourceText(source models.DataSource, isDummy bool) string {
	if isDummy {
		return "⚠️ Using dummy data for testing"
	}
	switch source {
	case models.SourceStatic:
		return "Real-time data"
	case models.SourceCache:
		return "Cached data"
	case models.SourceMock:
		return "Sample data"
	default:
		return ""
	}
}

// DayTooltip renders e.g. "3 contributions on Sun, May 26, 2024"
func DayTooltip(day models.ContributionDay) (string, error) {
	if day.Date == "" {
		return "", nil
	}
	date, err := time.Parse(DateLayout, day.Date)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, day.Date)
	}

	noun := "contributions"
	if day.ContributionCount == 1 {
		noun = "contribution"
	}
	return fmt.Sprintf("%d %s on %s", day.ContributionCount, noun, date.Format("Mon, Jan 2, 2006")), nil
}

// MonthLabel marks the week column where a new month starts
type MonthLabel struct {
	Week  int
	Month time.Month
	Year  int
	Label string
}

// MonthLabels returns one label per month change, keyed by the first day of
// each week. Weeks without a parseable first day are skipped.
func MonthLabels(weeks []models.ContributionWeek) []MonthLabel {
	var labels []MonthLabel
	lastMonth, lastYear := time.Month(0), -1

	for i, week := range weeks {
		if len(week.ContributionDays) == 0 {
			continue
		}
		first, err := time.Parse(DateLayout, week.ContributionDays[0].Date)
		if err != nil {
			continue
		}
		if first.Month() != lastMonth || first.Year() != lastYear {
			labels = append(labels, MonthLabel{
				Week:  i,
				Month: first.Month(),
				Year:  first.Year(),
				Label: first.Format("Jan"),
			})
			lastMonth, lastYear = first.Month(), first.Year()
		}
	}
	return labels
}
