package contract

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/huangsam/repoviz/schema"
)

// Default values for configuration.
const (
	DefaultPrecision    = 2
	MaxPrecision        = 4
	DefaultFetchTimeout = "30s"
	DefaultRetries      = 3
	DefaultCacheSize    = 256
	DefaultAPIURL       = "https://api.github.com"
	DefaultAddr         = ":8080"
)

// Config holds the runtime configuration for the analysis.
// This struct is the "final, validated" config.
type Config struct {
	Locator string // Raw locator string from the positional argument

	Host       string
	Provider   schema.ProviderKind
	APIURL     string
	Token      string // Please use env var as this is plaintext
	MirrorRoot string

	Extension  string
	Thresholds schema.Thresholds

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	Detail     bool

	FetchTimeout time.Duration
	Retries      int
	CacheSize    int
	CacheTTL     time.Duration

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Watch time.Duration // Re-run interval for analyze (0 = run once)
	Addr  string        // Listen address for serve

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	LocatorStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Host             string `mapstructure:"host"`
	Provider         string `mapstructure:"provider"`
	APIURL           string `mapstructure:"api-url"`
	Token            string `mapstructure:"token"`
	MirrorRoot       string `mapstructure:"mirror-root"`
	Extension        string `mapstructure:"extension"`
	Yellow           int    `mapstructure:"yellow"`
	Red              int    `mapstructure:"red"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Width            int    `mapstructure:"width"`
	Detail           bool   `mapstructure:"detail"`
	FetchTimeout     string `mapstructure:"fetch-timeout"`
	Retries          int    `mapstructure:"retries"`
	CacheSize        int    `mapstructure:"cache-size"`
	CacheTTL         string `mapstructure:"cache-ttl"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`

	// --- Fields from analyzeCmd.Flags() ---
	Watch string `mapstructure:"watch"`

	// --- Fields from serveCmd.Flags() ---
	Addr string `mapstructure:"addr"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateEncoding(cfg, input); err != nil {
		return err
	}
	if err := validateProvider(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	if err := validateHistoryConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// NormalizeExtension lowercases ext and ensures it starts with a dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
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

// validateSimpleInputs processes and validates output and display fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Locator = strings.TrimSpace(input.LocatorStr)
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width
	cfg.Addr = input.Addr
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	return nil
}

// validateEncoding handles the target extension and complexity thresholds.
func validateEncoding(cfg *Config, input *ConfigRawInput) error {
	cfg.Extension = NormalizeExtension(input.Extension)
	if cfg.Extension == "" || cfg.Extension == "." {
		return fmt.Errorf("extension cannot be empty")
	}

	cfg.Thresholds = schema.Thresholds{Yellow: input.Yellow, Red: input.Red}
	if err := cfg.Thresholds.Validate(); err != nil {
		return fmt.Errorf("invalid thresholds: %w", err)
	}
	return nil
}

// validateProvider resolves the access provider and its connection settings.
func validateProvider(cfg *Config, input *ConfigRawInput) error {
	cfg.Host = strings.ToLower(strings.TrimSpace(input.Host))
	if cfg.Host == "" {
		cfg.Host = schema.DefaultHost
	}

	cfg.Provider = schema.ProviderKind(strings.ToLower(input.Provider))
	if _, ok := schema.ValidProviderKinds[cfg.Provider]; !ok {
		return fmt.Errorf("invalid provider '%s'. must be github, git", input.Provider)
	}

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(input.APIURL), "/")
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if u, err := url.Parse(cfg.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api-url '%s'", input.APIURL)
	}

	cfg.Token = input.Token
	if cfg.Token == "" {
		cfg.Token = os.Getenv("GITHUB_TOKEN")
	}

	cfg.MirrorRoot = input.MirrorRoot
	if cfg.Provider == schema.GitProvider && cfg.MirrorRoot == "" {
		return fmt.Errorf("mirror-root is required when using the %s provider", cfg.Provider)
	}

	if input.Retries < 1 {
		return fmt.Errorf("retries must be at least 1 (received %d)", input.Retries)
	}
	cfg.Retries = input.Retries

	if input.CacheSize < 0 {
		return fmt.Errorf("cache-size cannot be negative (received %d)", input.CacheSize)
	}
	cfg.CacheSize = input.CacheSize

	return nil
}

// processDurations parses the duration-valued settings.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	timeout := input.FetchTimeout
	if timeout == "" {
		timeout = DefaultFetchTimeout
	}
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return fmt.Errorf("invalid fetch-timeout '%s': %w", input.FetchTimeout, err)
	}
	if d <= 0 {
		return fmt.Errorf("fetch-timeout must be positive (received %s)", d)
	}
	cfg.FetchTimeout = d

	cfg.CacheTTL = 0
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl '%s': %w", input.CacheTTL, err)
		}
		if ttl < 0 {
			return fmt.Errorf("cache-ttl cannot be negative (received %s)", ttl)
		}
		cfg.CacheTTL = ttl
	}

	cfg.Watch = 0
	if input.Watch != "" {
		watch, err := time.ParseDuration(input.Watch)
		if err != nil {
			return fmt.Errorf("invalid watch interval '%s': %w", input.Watch, err)
		}
		if watch < 0 {
			return fmt.Errorf("watch interval cannot be negative (received %s)", watch)
		}
		cfg.Watch = watch
	}

	return nil
}

// validateHistoryConfig validates the optional history backend.
func validateHistoryConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}
