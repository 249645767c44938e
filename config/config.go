package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"gitstats/cache"
	"gitstats/models"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix is prepended to every environment variable, e.g. GITSTATS_DATA_URL
const EnvPrefix = "GITSTATS"

// Configuration keys
const (
	KeyDataURL         = "data_url"
	KeyCacheTTL        = "cache_ttl"
	KeyCacheKey        = "cache_key"
	KeyUseStaleCache   = "use_stale_cache"
	KeyCacheBackend    = "cache_backend"
	KeyCacheDSN        = "cache_dsn"
	KeyFetchTimeout    = "fetch_timeout"
	KeyRefreshInterval = "refresh_interval"
	KeyListenAddr      = "listen_addr"
	KeyStaticDir       = "static_dir"
	KeyLogLevel        = "log_level"
	KeyConfigFile      = "config"
)

// Config holds all configuration for the application
type Config struct {
	DataURL         string
	CacheTTL        time.Duration
	CacheKey        string
	UseStaleCache   bool
	CacheBackend    cache.Backend
	CacheDSN        string
	FetchTimeout    time.Duration
	RefreshInterval time.Duration
	ListenAddr      string
	StaticDir       string
	LogLevel        string
}

// NewConfig creates a new Config instance
func NewConfig() *Config {
	return &Config{}
}

// SetDefaults registers the default value of every optional key
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyCacheTTL, 24*time.Hour)
	v.SetDefault(KeyCacheKey, models.DefaultCacheKey)
	v.SetDefault(KeyUseStaleCache, true)
	v.SetDefault(KeyCacheBackend, string(cache.BackendMemory))
	v.SetDefault(KeyFetchTimeout, time.Duration(0))
	v.SetDefault(KeyRefreshInterval, time.Duration(0))
	v.SetDefault(KeyListenAddr, ":8080")
	v.SetDefault(KeyStaticDir, ".")
	v.SetDefault(KeyLogLevel, "info")
}

// NewViper returns a viper instance wired to the GITSTATS_ environment and,
// when configFile is set, to that YAML file.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}
	return v, nil
}

// Load copies the values held by v into c and validates them.
// requireDataURL is false for commands that never hit the network tier.
func (c *Config) Load(v *viper.Viper, requireDataURL bool) error {
	c.DataURL = v.GetString(KeyDataURL)
	if requireDataURL && c.DataURL == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidConfig, KeyDataURL)
	}

	c.CacheTTL = v.GetDuration(KeyCacheTTL)
	if c.CacheTTL < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, KeyCacheTTL)
	}

	c.CacheKey = v.GetString(KeyCacheKey)
	if c.CacheKey == "" {
		c.CacheKey = models.DefaultCacheKey
	}
	c.UseStaleCache = v.GetBool(KeyUseStaleCache)

	c.CacheBackend = cache.Backend(strings.ToLower(v.GetString(KeyCacheBackend)))
	if !c.CacheBackend.Valid() {
		return fmt.Errorf("%w: unsupported %s %q", ErrInvalidConfig, KeyCacheBackend, c.CacheBackend)
	}
	c.CacheDSN = v.GetString(KeyCacheDSN)
	if c.CacheBackend.NeedsDSN() && c.CacheDSN == "" {
		return fmt.Errorf("%w: %s is required for the %s backend", ErrInvalidConfig, KeyCacheDSN, c.CacheBackend)
	}

	c.FetchTimeout = v.GetDuration(KeyFetchTimeout)
	c.RefreshInterval = v.GetDuration(KeyRefreshInterval)
	if c.FetchTimeout < 0 || c.RefreshInterval < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	}

	c.ListenAddr = v.GetString(KeyListenAddr)
	c.StaticDir = v.GetString(KeyStaticDir)
	c.LogLevel = v.GetString(KeyLogLevel)

	return nil
}

// FetchOptions converts the configuration into options for one fallback run
func (c *Config) FetchOptions() models.FetchOptions {
	useStale := c.UseStaleCache
	return models.FetchOptions{
		DataURL:       c.DataURL,
		CacheTTL:      c.CacheTTL,
		CacheKey:      c.CacheKey,
		UseStaleCache: &useStale,
	}
}
