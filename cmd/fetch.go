package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gitstats/derive"
	"gitstats/dummy"
	"gitstats/models"
	"gitstats/render"
	"gitstats/service"
)

var fetchOpts struct {
	format         string
	scheme         string
	heatmapProfile int
	profiles       []int
	experienceFile string
	useDummy       bool
	multi          bool
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Run the fallback chain once and render the result",
	Long: `Fetch the stats document from --data-url. When that fails the last cached copy
is used, and when there is none a built-in sample payload is rendered instead.

Examples:
  gitstats fetch --data-url https://example.com/git-stats.json
  gitstats fetch --data-url ./data/git-stats.json --scheme purple --profiles 0,1
  gitstats fetch --dummy --multi --format json`,
	RunE: runFetch,
}

func init() {
	f := fetchCmd.Flags()
	f.StringVar(&fetchOpts.format, "format", "text", "output format: text or json")
	f.StringVar(&fetchOpts.scheme, "scheme", string(models.ColorGreen), "heat-map colour scheme: green, blue, purple or orange")
	f.IntVar(&fetchOpts.heatmapProfile, "profile", 0, "index of the profile drawn in the heat-map")
	f.IntSliceVar(&fetchOpts.profiles, "profiles", nil, "profile indexes summed in the breakdown (default: payload totals)")
	f.StringVar(&fetchOpts.experienceFile, "experience", "", "JSON file of experience entries used for years of experience")
	f.BoolVar(&fetchOpts.useDummy, "dummy", false, "render generated dummy data instead of fetching")
	f.BoolVar(&fetchOpts.multi, "multi", false, "with --dummy, generate several profiles")
}

func runFetch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, !fetchOpts.useDummy)
	if err != nil {
		return err
	}

	var result models.DataResult
	if fetchOpts.useDummy {
		gen := dummy.New()
		if fetchOpts.multi {
			result = dummy.Result(gen.MultiProfileStats())
		} else {
			result = dummy.Result(gen.Stats(dummy.Options{}))
		}
	} else {
		svc, err := service.NewService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer svc.Close()
		result = svc.Fetch(cmd.Context())
	}

	experience, err := readExperience(fetchOpts.experienceFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(fetchOpts.format) {
	case "json":
		return writeResultJSON(out, result)
	case "text":
		return writeResultText(out, result, experience)
	default:
		return fmt.Errorf("unsupported format %q", fetchOpts.format)
	}
}

func readExperience(path string) ([]models.ExperienceEntry, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read experience file: %w", err)
	}
	var entries []models.ExperienceEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse experience file %s: %w", path, err)
	}
	return entries, nil
}

type resultOutput struct {
	Source   models.DataSource    `json:"source"`
	IsDummy  bool                 `json:"isDummy"`
	Failures []string             `json:"failures,omitempty"`
	Data     *models.GitStatsData `json:"data"`
}

func writeResultJSON(w io.Writer, result models.DataResult) error {
	out := resultOutput{Source: result.Source, IsDummy: result.IsDummy, Data: result.Data}
	for _, err := range result.Failures {
		out.Failures = append(out.Failures, err.Error())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeResultText(w io.Writer, result models.DataResult, experience []models.ExperienceEntry) error {
	summary, err := derive.Summarize(result, derive.SummaryOptions{
		ProfileIndexes: fetchOpts.profiles,
		HeatmapProfile: fetchOpts.heatmapProfile,
		Experience:     experience,
	}, time.Now())
	if err != nil {
		return err
	}

	if data := result.Data; data != nil {
		if i := fetchOpts.heatmapProfile; i >= 0 && i < len(data.Profiles) {
			p := data.Profiles[i]
			bold := color.New(color.Bold).SprintFunc()
			fmt.Fprintf(w, "%s (%s)\n\n", bold(p.Username), p.Platform)
			if err := render.Heatmap(w, p.Stats.Contributions, models.ColorScheme(fetchOpts.scheme)); err != nil {
				return err
			}
			fmt.Fprintln(w)
		}
	}
	return render.Breakdown(w, summary)
}
