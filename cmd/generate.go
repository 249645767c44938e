package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gitstats/dummy"
	"gitstats/models"
)

var generateOpts struct {
	output   string
	multi    bool
	username string
	platform string
	projects int
	commits  int
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a dummy stats document for demos and tests",
	Long: `Generate a year of random contributions and write it as JSON.

Examples:
  gitstats generate
  gitstats generate --output public/data/dummy-git-stats.json --multi`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateOpts.output, "output", "o", dummy.DefaultPath, "file to write")
	f.BoolVar(&generateOpts.multi, "multi", false, "generate a GitHub and a GitLab profile")
	f.StringVar(&generateOpts.username, "username", "", "profile username (default demouser)")
	f.StringVar(&generateOpts.platform, "platform", "", "profile platform (default github)")
	f.IntVar(&generateOpts.projects, "projects", 0, "project count (default 42)")
	f.IntVar(&generateOpts.commits, "commits", 0, "commit count (default 3847)")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if _, err := loadConfig(cmd, false); err != nil {
		return err
	}

	gen := dummy.New()
	var data *models.GitStatsData
	if generateOpts.multi {
		data = gen.MultiProfileStats()
	} else {
		data = gen.Stats(dummy.Options{
			Username:     generateOpts.username,
			Platform:     models.Platform(generateOpts.platform),
			ProjectCount: generateOpts.projects,
			CommitCount:  generateOpts.commits,
		})
	}

	if err := dummy.SaveToFile(generateOpts.output, data); err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(cmd.OutOrStdout(), "%s Generated dummy data\n  %s\n", green("✓"), generateOpts.output)
	return nil
}
