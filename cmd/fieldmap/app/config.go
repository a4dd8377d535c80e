package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/fieldmap/pkg/constants"
	"github.com/agentstation/fieldmap/pkg/errors"
)

// EnvPrefix prefixes the environment variables read into Config,
// e.g. FIELDMAP_KEY_COLUMN.
const EnvPrefix = "FIELDMAP"

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Mapping defaults
	KeyColumn      string
	Separator      string
	TokenOverlap   bool
	TokenMinLength int
	ExpandLists    bool

	// Dataset defaults
	Sheet string
	Table string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.fieldmap.yaml or ./.fieldmap.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return LoadConfigFile("")
}

// LoadConfigFile is LoadConfig with an explicit config file, which must
// exist and parse.
func LoadConfigFile(path string) (*Config, error) {
	// .env files are loaded before viper binds the environment
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("key_column", constants.DefaultKeyColumn)
	v.SetDefault("separator", constants.DefaultSeparator)
	v.SetDefault("token_overlap", true)
	v.SetDefault("token_min_length", constants.DefaultMinTokenLength)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "reading "+path, err)
		}
	} else {
		v.SetConfigType("yaml")
		v.SetConfigName(".fieldmap")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		// a missing config file is fine
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		KeyColumn:      v.GetString("key_column"),
		Separator:      v.GetString("separator"),
		TokenOverlap:   v.GetBool("token_overlap"),
		TokenMinLength: v.GetInt("token_min_length"),
		ExpandLists:    v.GetBool("expand_lists"),

		Sheet: v.GetString("sheet"),
		Table: v.GetString("table"),

		// Empty LogLevel lets -v/-q decide, see determineLogLevel
		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that would otherwise fail later inside a command.
func (c *Config) Validate() error {
	if c.TokenMinLength < 0 {
		return errors.NewConfigError("token_min_length", "must not be negative", nil)
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// Variables already set in the environment are not overridden.
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
