package contract

import (
	"testing"
	"time"

	"github.com/huangsam/repoviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input matching the CLI defaults.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		LocatorStr:   "https://github.com/octo/demo",
		Host:         schema.DefaultHost,
		Provider:     string(schema.GitHubProvider),
		APIURL:       DefaultAPIURL,
		Extension:    ".java",
		Yellow:       schema.DefaultYellowThreshold,
		Red:          schema.DefaultRedThreshold,
		Output:       string(schema.TextOut),
		Precision:    DefaultPrecision,
		FetchTimeout: DefaultFetchTimeout,
		Retries:      DefaultRetries,
		CacheSize:    DefaultCacheSize,
		Emoji:        "no",
		Color:        "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError string
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "extension without dot", mutate: func(in *ConfigRawInput) { in.Extension = "JAVA" }},
		{name: "empty extension", mutate: func(in *ConfigRawInput) { in.Extension = " " }, expectError: "extension cannot be empty"},
		{name: "red not above yellow", mutate: func(in *ConfigRawInput) { in.Yellow, in.Red = 10, 10 }, expectError: "invalid thresholds"},
		{name: "negative yellow", mutate: func(in *ConfigRawInput) { in.Yellow = -1 }, expectError: "invalid thresholds"},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: "invalid output format"},
		{name: "parquet needs file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: "--output-file is required"},
		{name: "precision too high", mutate: func(in *ConfigRawInput) { in.Precision = 9 }, expectError: "precision must be between"},
		{name: "invalid provider", mutate: func(in *ConfigRawInput) { in.Provider = "svn" }, expectError: "invalid provider"},
		{name: "git provider needs mirror", mutate: func(in *ConfigRawInput) { in.Provider = "git" }, expectError: "mirror-root is required"},
		{name: "git provider with mirror", mutate: func(in *ConfigRawInput) { in.Provider, in.MirrorRoot = "git", "/srv/mirrors" }},
		{name: "bad api url", mutate: func(in *ConfigRawInput) { in.APIURL = "not a url" }, expectError: "invalid api-url"},
		{name: "zero retries", mutate: func(in *ConfigRawInput) { in.Retries = 0 }, expectError: "retries must be at least 1"},
		{name: "negative cache size", mutate: func(in *ConfigRawInput) { in.CacheSize = -1 }, expectError: "cache-size cannot be negative"},
		{name: "bad timeout", mutate: func(in *ConfigRawInput) { in.FetchTimeout = "soon" }, expectError: "invalid fetch-timeout"},
		{name: "zero timeout", mutate: func(in *ConfigRawInput) { in.FetchTimeout = "0s" }, expectError: "fetch-timeout must be positive"},
		{name: "bad cache ttl", mutate: func(in *ConfigRawInput) { in.CacheTTL = "1 hour" }, expectError: "invalid cache-ttl"},
		{name: "bad watch", mutate: func(in *ConfigRawInput) { in.Watch = "-5s" }, expectError: "watch interval cannot be negative"},
		{name: "bad emoji", mutate: func(in *ConfigRawInput) { in.Emoji = "perhaps" }, expectError: "invalid --emoji value"},
		{name: "history disabled by default", mutate: func(in *ConfigRawInput) { in.HistoryBackend = "" }},
		{name: "history sqlite", mutate: func(in *ConfigRawInput) { in.HistoryBackend = "SQLite" }},
		{name: "history invalid backend", mutate: func(in *ConfigRawInput) { in.HistoryBackend = "oracle" }, expectError: "invalid history backend"},
		{name: "history mysql without dsn", mutate: func(in *ConfigRawInput) { in.HistoryBackend = "mysql" }, expectError: "history-db-connect is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidateValues(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")

	input := validInput()
	input.Extension = "Java"
	input.Host = "GitHub.com"
	input.APIURL = "https://ghe.example.com/api/v3/"
	input.CacheTTL = "10m"
	input.Watch = "30s"
	input.HistoryBackend = "sqlite"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, "https://github.com/octo/demo", cfg.Locator)
	assert.Equal(t, ".java", cfg.Extension)
	assert.Equal(t, "github.com", cfg.Host)
	assert.Equal(t, "https://ghe.example.com/api/v3", cfg.APIURL)
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, schema.Thresholds{Yellow: 5, Red: 10}, cfg.Thresholds)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 30*time.Second, cfg.Watch)
	assert.Equal(t, schema.SQLiteBackend, cfg.HistoryBackend)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.False(t, cfg.UseEmojis)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidateTokenPrecedence(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")
	input := validInput()
	input.Token = "flag-token"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, "flag-token", cfg.Token)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/db", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/db", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost user=u dbname=db", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Extension: ".java", Thresholds: schema.DefaultThresholds()}
	clone := cfg.Clone()
	clone.Extension = ".kt"
	clone.Thresholds.Red = 99
	assert.Equal(t, ".java", cfg.Extension)
	assert.Equal(t, 10, cfg.Thresholds.Red)
}
