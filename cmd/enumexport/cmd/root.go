package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/enumexport/internal/config"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile        string
	logLevel       string
	logFormat      string
	sourceType     string
	outputDatabase string
	snapshotPath   string
	compression    string
	provenance     string
	relationalOnly bool
	transaction    bool
)

const defaultConfigFile = "enumexport.yaml"

var rootCmd = &cobra.Command{
	Use:   "enumexport [source]",
	Short: "Enum table exporter with dual-sink verification",
	Long: `Exports enumeration tables from a source into a SQLite database and a
binary snapshot, and verifies that the source, the snapshot and the database
agree on the record count of every table.

Sources:
  - manifest: a YAML enum manifest (the argument is its path)
  - mysql:    tables in a MySQL schema (the argument is the database name)

Running "enumexport <source>" is the same as "enumexport export <source>".`,
	Version: Version,
	Args:    cobra.ArbitraryArgs,
	RunE:    runExport,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile,
		"Path to configuration file (missing default file means built-in defaults)")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Source and output overrides
	rootCmd.PersistentFlags().StringVar(&sourceType, "source-type", "",
		"Override source type (manifest, mysql)")
	rootCmd.PersistentFlags().StringVar(&outputDatabase, "database", "",
		"Override relational output file")
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "",
		"Override snapshot output file")
	rootCmd.PersistentFlags().StringVar(&compression, "compression", "",
		"Override snapshot compression (none, snappy, zstd)")
	rootCmd.PersistentFlags().StringVar(&provenance, "provenance", "",
		"Provenance tag used when the source reports none")
	rootCmd.PersistentFlags().BoolVar(&relationalOnly, "relational-only", false,
		"Skip the snapshot and verify source against relational counts only")
	rootCmd.PersistentFlags().BoolVar(&transaction, "transaction", false,
		"Write the whole run in one relational transaction")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() config.Overrides {
	return config.Overrides{
		LogLevel:       logLevel,
		LogFormat:      logFormat,
		SourceType:     sourceType,
		Database:       outputDatabase,
		SnapshotPath:   snapshotPath,
		Compression:    compression,
		Provenance:     provenance,
		RelationalOnly: relationalOnly,
		Transaction:    transaction,
	}
}

// loadConfig loads the config file, applies CLI overrides and validates
// the result. An explicitly given config file must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(GetConfigFile())
	} else {
		cfg, err = config.LoadOrDefault(GetConfigFile())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.ApplyOverrides(GetCLIOverrides())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
