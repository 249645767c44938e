// Package models defines the core data structures used throughout the application.
package models

import "time"

// Platform identifies the hosting service a profile belongs to
type Platform string

const (
	PlatformGitHub    Platform = "github"
	PlatformGitLab    Platform = "gitlab"
	PlatformBitbucket Platform = "bitbucket"
)

// DataSource tells which tier of the fallback chain produced a payload.
// The empty value stands for "no source".
type DataSource string

const (
	SourceStatic DataSource = "static"
	SourceCache  DataSource = "cache"
	SourceMock   DataSource = "mock"
	SourceDummy  DataSource = "dummy"
	SourceNone   DataSource = ""
)

// ColorScheme names a heat-map palette
type ColorScheme string

const (
	ColorGreen  ColorScheme = "green"
	ColorBlue   ColorScheme = "blue"
	ColorPurple ColorScheme = "purple"
	ColorOrange ColorScheme = "orange"
)

// ColorSchemes lists every supported palette in display order
var ColorSchemes = []ColorScheme{ColorGreen, ColorBlue, ColorPurple, ColorOrange}

// ContributionDay is one day of activity for a profile
type ContributionDay struct {
	Date              string `json:"date"`
	ContributionCount int    `json:"contributionCount"`
	Weekday           int    `json:"weekday"`
}

// ContributionWeek groups up to seven consecutive days, anchored on FirstDay
type ContributionWeek struct {
	FirstDay         string            `json:"firstDay"`
	ContributionDays []ContributionDay `json:"contributionDays"`
}

// ProfileStats holds the per-profile counters and calendar
type ProfileStats struct {
	ProjectCount  int                `json:"projectCount"`
	CommitCount   int                `json:"commitCount"`
	Contributions []ContributionWeek `json:"contributions"`
}

// Profile is one tracked account on a platform
type Profile struct {
	Username string       `json:"username"`
	Platform Platform     `json:"platform"`
	Stats    ProfileStats `json:"stats"`
}

// StatsTotals aggregates counters across all profiles
type StatsTotals struct {
	ProjectCount int `json:"projectCount"`
	CommitCount  int `json:"commitCount"`
}

// StatsMetadata describes where a payload came from.
// FetchedAt is epoch milliseconds.
type StatsMetadata struct {
	Source    string `json:"source"`
	FetchedAt int64  `json:"fetchedAt"`
	IsDummy   bool   `json:"isDummy,omitempty"`
}

// GitStatsData is the root payload. Profiles keeps its insertion order, which is
// the canonical profile ordering used by index-based lookups.
type GitStatsData struct {
	LastUpdated string        `json:"lastUpdated"`
	Profiles    []Profile     `json:"profiles"`
	Totals      StatsTotals   `json:"totals"`
	Metadata    StatsMetadata `json:"metadata"`
}

// CachedStats is the cache wire shape: the payload plus the time it was stored.
type CachedStats struct {
	GitStatsData
	CachedAt int64 `json:"cachedAt"`
}

// ExperienceEntry is one period of work tagged with the skills practiced during it.
// A nil EndDate means the period is ongoing.
type ExperienceEntry struct {
	StartDate string   `json:"startDate"`
	EndDate   *string  `json:"endDate"`
	Skills    []string `json:"skills,omitempty"`
}

// DefaultCacheKey is the cache key used when FetchOptions.CacheKey is empty
const DefaultCacheKey = "git_stats_cache"

// FetchOptions configures one run of the fallback chain.
// CacheTTL is advisory and not compared against the cached entry's age.
type FetchOptions struct {
	DataURL       string
	CacheTTL      time.Duration
	CacheKey      string
	UseStaleCache *bool
}

// WithDefaults returns a copy of the options with CacheKey and UseStaleCache filled in
func (o FetchOptions) WithDefaults() FetchOptions {
	if o.CacheKey == "" {
		o.CacheKey = DefaultCacheKey
	}
	if o.UseStaleCache == nil {
		useStale := true
		o.UseStaleCache = &useStale
	}
	return o
}

// StaleCacheAllowed reports whether the cache tier may be consulted
func (o FetchOptions) StaleCacheAllowed() bool {
	return o.UseStaleCache == nil || *o.UseStaleCache
}

// DataResult is the tagged outcome of a fetch. Data is always set when Err is nil.
// Failures lists the errors swallowed while walking the fallback chain.
type DataResult struct {
	Data     *GitStatsData
	Err      error
	Source   DataSource
	IsDummy  bool
	Failures []error
}
