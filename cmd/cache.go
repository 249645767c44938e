package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gitstats/cache"
	"gitstats/service"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the cached stats entry",
	Long: `Inspect or clear the entry stored under --cache-key in --cache-backend.

Only the sqlite, postgres and mysql backends outlive a single process, so these
commands are mostly useful with one of them.

Examples:
  gitstats cache get --cache-backend sqlite
  gitstats cache clear --cache-backend postgres --cache-dsn postgres://localhost/stats`,
}

var cacheGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the cached stats entry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := openCacheService(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		entry, err := svc.Cached(cmd.Context())
		if errors.Is(err, cache.ErrNotFound) {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Fprintln(cmd.OutOrStdout(), yellow("No cached entry"))
			return nil
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		cachedAt := time.UnixMilli(entry.CachedAt).UTC()
		fmt.Fprintf(out, "Cached at %s\n", cachedAt.Format(time.RFC3339))
		body, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(body))
		return err
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cached stats entry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := openCacheService(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.ClearCache(cmd.Context()); err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintln(cmd.OutOrStdout(), green("Cache entry cleared"))
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheGetCmd, cacheClearCmd)
}

func openCacheService(cmd *cobra.Command) (*service.Service, error) {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return nil, err
	}
	return service.NewService(cmd.Context(), cfg)
}
