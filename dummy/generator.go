// Package dummy generates synthetic GitStatsData for demos and fixtures.
package dummy

import (
	"math/rand/v2"
	"time"

	"gitstats/models"
)

const (
	// Weeks is the length of a generated calendar
	Weeks = 53
	// MaxDailyCount is the upper bound, inclusive, of a generated day
	MaxDailyCount = 15

	dateLayout = "2006-01-02"

	// SourceDemo is the metadata source stamped on generated payloads
	SourceDemo = "demo"
)

// Options customises the single profile produced by Stats
type Options struct {
	Username     string
	Platform     models.Platform
	ProjectCount int
	CommitCount  int
}

// DefaultOptions returns the demo profile used when Stats gets zero values
func DefaultOptions() Options {
	return Options{
		Username:     "demouser",
		Platform:     models.PlatformGitHub,
		ProjectCount: 42,
		CommitCount:  3847,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Username == "" {
		o.Username = def.Username
	}
	if o.Platform == "" {
		o.Platform = def.Platform
	}
	if o.ProjectCount == 0 {
		o.ProjectCount = def.ProjectCount
	}
	if o.CommitCount == 0 {
		o.CommitCount = def.CommitCount
	}
	return o
}

// Generator produces dummy payloads. It is not safe for concurrent use
// because the underlying *rand.Rand is not.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// New returns a Generator with a freshly seeded random source
func New() *Generator {
	return NewWithSource(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), time.Now)
}

// NewWithSource returns a Generator reading randomness from rng and the
// current time from now. Fixing both makes the output reproducible.
func NewWithSource(rng *rand.Rand, now func() time.Time) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, now: now}
}

// StartDate returns the Sunday on or before one year prior to today, in UTC
func StartDate(today time.Time) time.Time {
	today = today.UTC()
	yearAgo := time.Date(today.Year()-1, today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return yearAgo.AddDate(0, 0, -int(yearAgo.Weekday()))
}

// Contributions returns Weeks consecutive weeks of seven days starting on
// StartDate, each day holding a uniform random count in [0, MaxDailyCount].
func (g *Generator) Contributions() []models.ContributionWeek {
	start := StartDate(g.now())

	weeks := make([]models.ContributionWeek, 0, Weeks)
	for w := 0; w < Weeks; w++ {
		days := make([]models.ContributionDay, 7)
		for d := range days {
			days[d] = models.ContributionDay{
				Date:              start.AddDate(0, 0, w*7+d).Format(dateLayout),
				ContributionCount: g.rng.IntN(MaxDailyCount + 1),
				Weekday:           d,
			}
		}
		weeks = append(weeks, models.ContributionWeek{
			FirstDay:         days[0].Date,
			ContributionDays: days,
		})
	}
	return weeks
}

func (g *Generator) profile(opts Options) models.Profile {
	return models.Profile{
		Username: opts.Username,
		Platform: opts.Platform,
		Stats: models.ProfileStats{
			ProjectCount:  opts.ProjectCount,
			CommitCount:   opts.CommitCount,
			Contributions: g.Contributions(),
		},
	}
}

func (g *Generator) wrap(profiles ...models.Profile) *models.GitStatsData {
	now := g.now().UTC()

	var totals models.StatsTotals
	for _, p := range profiles {
		totals.ProjectCount += p.Stats.ProjectCount
		totals.CommitCount += p.Stats.CommitCount
	}

	return &models.GitStatsData{
		LastUpdated: now.Format(time.RFC3339Nano),
		Profiles:    profiles,
		Totals:      totals,
		Metadata: models.StatsMetadata{
			Source:    SourceDemo,
			FetchedAt: now.UnixMilli(),
			IsDummy:   true,
		},
	}
}

// Stats returns a single-profile payload. Zero fields of opts take the
// values of DefaultOptions.
func (g *Generator) Stats(opts Options) *models.GitStatsData {
	return g.wrap(g.profile(opts.withDefaults()))
}

// MultiProfileStats returns a payload with a GitHub and a GitLab profile
// whose totals are the sum of both.
func (g *Generator) MultiProfileStats() *models.GitStatsData {
	return g.wrap(
		g.profile(DefaultOptions()),
		g.profile(Options{
			Username:     "demouser",
			Platform:     models.PlatformGitLab,
			ProjectCount: 15,
			CommitCount:  1254,
		}),
	)
}

// Result wraps a generated payload the way the fallback chain reports it
func Result(data *models.GitStatsData) models.DataResult {
	return models.DataResult{
		Data:    data,
		Source:  models.SourceDummy,
		IsDummy: true,
	}
}
