package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadOrDefault behaves like Load, except that a config file which does not
// exist yields the built-in defaults instead of an error.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath == "" {
		return defaultsWithEnv()
	}
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return defaultsWithEnv()
	}
	return Load(configPath)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	// mapstructure decodes into an existing slice element by element, so a
	// shorter list in the file would keep the tail of the default.
	if v.IsSet("schema.extension_tables") {
		cfg.Schema.ExtensionTables = nil
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := substituteEnvVars(cfg); err != nil {
		return nil, fmt.Errorf("failed to substitute environment variables: %w", err)
	}

	return cfg, nil
}

func defaultsWithEnv() (*Config, error) {
	cfg := DefaultConfig()
	if err := substituteEnvVars(cfg); err != nil {
		return nil, fmt.Errorf("failed to substitute environment variables: %w", err)
	}
	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func substituteEnvVars(cfg *Config) error {
	cfg.Source.MySQL.Host = expandEnvVar(cfg.Source.MySQL.Host)
	cfg.Source.MySQL.User = expandEnvVar(cfg.Source.MySQL.User)
	cfg.Source.MySQL.Password = expandEnvVar(cfg.Source.MySQL.Password)
	cfg.Source.MySQL.Database = expandEnvVar(cfg.Source.MySQL.Database)

	cfg.Output.Database = expandEnvVar(cfg.Output.Database)
	cfg.Snapshot.Path = expandEnvVar(cfg.Snapshot.Path)
	cfg.Snapshot.Provenance = expandEnvVar(cfg.Snapshot.Provenance)

	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// Overrides holds CLI flag values that take precedence over the config file.
type Overrides struct {
	LogLevel       string
	LogFormat      string
	SourceType     string
	Database       string
	SnapshotPath   string
	Compression    string
	Provenance     string
	RelationalOnly bool
	Transaction    bool
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
	if o.SourceType != "" {
		c.Source.Type = o.SourceType
	}
	if o.Database != "" {
		c.Output.Database = o.Database
	}
	if o.SnapshotPath != "" {
		c.Snapshot.Path = o.SnapshotPath
	}
	if o.Compression != "" {
		c.Snapshot.Compression = o.Compression
	}
	if o.Provenance != "" {
		c.Snapshot.Provenance = o.Provenance
	}
	if o.RelationalOnly {
		c.Snapshot.Enabled = false
	}
	if o.Transaction {
		c.Output.Transaction = true
	}
}
