package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gitstats/config"
	"gitstats/logger"
)

// flagKeys maps persistent flags onto configuration keys
var flagKeys = map[string]string{
	"data-url":         config.KeyDataURL,
	"cache-ttl":        config.KeyCacheTTL,
	"cache-key":        config.KeyCacheKey,
	"use-stale-cache":  config.KeyUseStaleCache,
	"cache-backend":    config.KeyCacheBackend,
	"cache-dsn":        config.KeyCacheDSN,
	"fetch-timeout":    config.KeyFetchTimeout,
	"refresh-interval": config.KeyRefreshInterval,
	"listen-addr":      config.KeyListenAddr,
	"static-dir":       config.KeyStaticDir,
	"log-level":        config.KeyLogLevel,
}

var rootCmd = &cobra.Command{
	Use:           "gitstats",
	Short:         "Fetch, cache and render git contribution stats",
	Long:          `gitstats loads a git stats JSON document, falls back to the last cached copy or sample data when it cannot, and renders it as a contribution heat-map.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String(config.KeyConfigFile, "", "path to a YAML config file")
	flags.String("data-url", "", "URL or file path of the stats JSON document")
	flags.Duration("cache-ttl", 0, "advisory cache lifetime (default 24h)")
	flags.String("cache-key", "", "cache entry key (default git_stats_cache)")
	flags.Bool("use-stale-cache", true, "serve the cached copy when the network tier fails")
	flags.String("cache-backend", "", "cache backend: memory, none, sqlite, postgres or mysql (default memory)")
	flags.String("cache-dsn", "", "sqlite file path or database connection string")
	flags.Duration("fetch-timeout", 0, "network tier timeout, 0 for none")
	flags.Duration("refresh-interval", 0, "background refresh interval for serve, 0 to disable")
	flags.String("listen-addr", "", "address the demo server listens on (default :8080)")
	flags.String("static-dir", "", "directory served by the demo server (default .)")
	flags.String("log-level", "", "debug, info, warn or error (default info)")

	rootCmd.AddCommand(fetchCmd, generateCmd, serveCmd, cacheCmd)
}

// newViper binds the changed persistent flags over env and file values
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	configFile, err := cmd.Flags().GetString(config.KeyConfigFile)
	if err != nil {
		return nil, err
	}
	v, err := config.NewViper(configFile)
	if err != nil {
		return nil, err
	}

	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return v, nil
}

// loadConfig resolves the configuration for cmd and initializes logging
func loadConfig(cmd *cobra.Command, requireDataURL bool) (*config.Config, error) {
	v, err := newViper(cmd)
	if err != nil {
		return nil, err
	}

	cfg := config.NewConfig()
	if err := cfg.Load(v, requireDataURL); err != nil {
		return nil, err
	}
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}
