package contract

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/fdr/core/algo"
	"github.com/huangsam/fdr/schema"
)

// Default values for configuration.
const (
	DefaultDataDir      = "data"
	DefaultHorizon      = 5
	DefaultResultLimit  = 20
	MaxResultLimit      = 100
	DefaultPrecision    = 1
	DefaultCacheTTL     = 6 * time.Hour
	DefaultRequestDelay = 500 * time.Millisecond
	DefaultAPIBaseURL   = "https://fantasy.premierleague.com/api"
	DefaultAddr         = ":8080"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// TiersRawInput holds a custom tier mapping from the YAML config file.
// Keys are tier numbers as strings since viper normalizes map keys.
type TiersRawInput struct {
	Attack  map[string][]string `mapstructure:"attack"`
	Defence map[string][]string `mapstructure:"defence"`
}

// Config holds the runtime configuration for a calculation.
// This struct remains the "final, validated" config.
type Config struct {
	DataDir         string
	Gameweek        int // 0 means the next unfinished gameweek
	StartGameweek   int // 0 means the next unfinished gameweek
	Horizon         int
	SeasonGameweeks int
	ResultLimit     int
	Team            string
	RankBy          schema.RankBy
	Precision       int
	Output          schema.OutputMode
	OutputFile      string
	Width           int // Terminal width override (0 = auto-detect)

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	APIBaseURL   string
	RequestDelay time.Duration
	Promoted     []string // Teams given placeholder statistics on fetch

	Addr        string
	RefreshCron string

	// Tiers is the curated mapping used for schedule display
	Tiers algo.TierMapping

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	DataDir           string `mapstructure:"data-dir"`
	OutputFile        string `mapstructure:"output-file"`
	Limit             int    `mapstructure:"limit"`
	Precision         int    `mapstructure:"precision"`
	Output            string `mapstructure:"output"`
	Width             int    `mapstructure:"width"`
	SeasonGameweeks   int    `mapstructure:"season-gameweeks"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	CacheTTL          string `mapstructure:"cache-ttl"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`
	Emoji             string `mapstructure:"emoji"`
	Color             string `mapstructure:"color"`

	// --- Fields from gameweekCmd.Flags() ---
	Gameweek int `mapstructure:"gameweek"`

	// --- Fields from horizonCmd.Flags() and scheduleCmd.Flags() ---
	Start   int    `mapstructure:"start"`
	Horizon int    `mapstructure:"horizon"`
	Team    string `mapstructure:"team"`
	RankBy  string `mapstructure:"rank-by"`

	// --- Fields from fetchCmd.Flags() ---
	APIBaseURL   string   `mapstructure:"api-base-url"`
	RequestDelay string   `mapstructure:"request-delay"`
	Promoted     []string `mapstructure:"promoted"`

	// --- Fields from serveCmd.Flags() ---
	Addr        string `mapstructure:"addr"`
	RefreshCron string `mapstructure:"refresh-cron"`

	// --- Custom tiers from config file ---
	Tiers TiersRawInput `mapstructure:"tiers"`
}

// Clone returns a copy of the Config struct.
// TierMapping is immutable so sharing it is safe.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// CloneWithWindow creates a copy of the Config with a new start gameweek and horizon.
func (c *Config) CloneWithWindow(start, horizon int) *Config {
	clone := c.Clone()
	clone.StartGameweek = start
	clone.Horizon = horizon
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processWindow(cfg, input); err != nil {
		return err
	}
	if err := processUpstream(cfg, input); err != nil {
		return err
	}
	if err := processTiers(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and analysis backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl '%s': %w", input.CacheTTL, err)
		}
		if ttl < 0 {
			return fmt.Errorf("cache-ttl cannot be negative (received %s)", input.CacheTTL)
		}
		cfg.CacheTTL = ttl
	}

	// --- Analysis Backend Validation ---
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
		return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return err
	}

	// Cache and analysis must not share a SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.AnalysisBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		analysisDBPath := cfg.AnalysisDBConnect
		if analysisDBPath == "" {
			analysisDBPath = GetAnalysisDBFilePath()
		}
		if cacheDBPath == analysisDBPath {
			return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.DataDir = strings.TrimSpace(input.DataDir)
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Team = strings.TrimSpace(input.Team)

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.RankBy = schema.RankBy(strings.ToLower(input.RankBy))
	switch cfg.RankBy {
	case "":
		cfg.RankBy = schema.RankByAttack
	case schema.RankByAttack, schema.RankByDefence:
	default:
		return fmt.Errorf("invalid rank-by '%s'. must be attack, defence", input.RankBy)
	}

	return validateBackendConfigs(cfg, input)
}

// processWindow validates the season length and any explicit gameweeks.
// A zero gameweek is resolved later against the fixture calendar.
func processWindow(cfg *Config, input *ConfigRawInput) error {
	cfg.SeasonGameweeks = input.SeasonGameweeks
	if cfg.SeasonGameweeks == 0 {
		cfg.SeasonGameweeks = schema.SeasonGameweeks
	}
	if cfg.SeasonGameweeks < 1 {
		return fmt.Errorf("season-gameweeks must be positive (received %d)", input.SeasonGameweeks)
	}

	cfg.Horizon = input.Horizon
	if cfg.Horizon == 0 {
		cfg.Horizon = DefaultHorizon
	}
	if !schema.IsValidHorizon(cfg.Horizon) {
		return fmt.Errorf("%w: %d (must be one of %v)", ErrInvalidHorizon, cfg.Horizon, schema.ValidHorizons)
	}

	cfg.Gameweek = input.Gameweek
	if cfg.Gameweek != 0 {
		if err := ValidateGameweek(cfg.Gameweek, cfg.SeasonGameweeks); err != nil {
			return err
		}
	}

	cfg.StartGameweek = input.Start
	if cfg.StartGameweek != 0 {
		if err := ValidateWindow(cfg.StartGameweek, cfg.Horizon, cfg.SeasonGameweeks); err != nil {
			return err
		}
	}
	return nil
}

// processUpstream handles the data API settings.
func processUpstream(cfg *Config, input *ConfigRawInput) error {
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(input.APIBaseURL), "/")
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return fmt.Errorf("api-base-url must be an http(s) URL (received %q)", input.APIBaseURL)
	}

	cfg.RequestDelay = DefaultRequestDelay
	if input.RequestDelay != "" {
		delay, err := time.ParseDuration(input.RequestDelay)
		if err != nil {
			return fmt.Errorf("invalid request-delay '%s': %w", input.RequestDelay, err)
		}
		if delay < 0 {
			return fmt.Errorf("request-delay cannot be negative (received %s)", input.RequestDelay)
		}
		cfg.RequestDelay = delay
	}

	cfg.Promoted = nil
	for _, name := range input.Promoted {
		if name = strings.TrimSpace(name); name != "" {
			cfg.Promoted = append(cfg.Promoted, name)
		}
	}

	cfg.Addr = input.Addr
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	cfg.RefreshCron = strings.TrimSpace(input.RefreshCron)
	return nil
}

// processTiers builds the tier mapping, preferring a complete custom table
// from the config file over the curated default.
func processTiers(cfg *Config, input *ConfigRawInput) error {
	if len(input.Tiers.Attack) == 0 && len(input.Tiers.Defence) == 0 {
		cfg.Tiers = algo.DefaultTierMapping()
		return nil
	}
	if len(input.Tiers.Attack) == 0 || len(input.Tiers.Defence) == 0 {
		return fmt.Errorf("custom tiers must define both attack and defence")
	}

	attack, err := parseTierBuckets(schema.AttackTier, input.Tiers.Attack)
	if err != nil {
		return err
	}
	defence, err := parseTierBuckets(schema.DefenceTier, input.Tiers.Defence)
	if err != nil {
		return err
	}
	tiers, err := algo.NewTierMapping(attack, defence)
	if err != nil {
		return fmt.Errorf("invalid custom tiers: %w", err)
	}
	cfg.Tiers = tiers
	return nil
}

// parseTierBuckets converts string tier keys into numeric buckets.
func parseTierBuckets(kind schema.TierKind, raw map[string][]string) (schema.TierBuckets, error) {
	buckets := make(schema.TierBuckets, len(raw))
	for key, names := range raw {
		tier, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s tier key '%s': %w", kind, key, err)
		}
		buckets[tier] = names
	}
	return buckets, nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
