package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/enumexport/internal/database"
	"github.com/dbsmedya/enumexport/internal/exporter"
	"github.com/dbsmedya/enumexport/internal/extension"
	"github.com/dbsmedya/enumexport/internal/logger"
	"github.com/dbsmedya/enumexport/internal/schema"
	"github.com/dbsmedya/enumexport/internal/sink"
	"github.com/dbsmedya/enumexport/internal/source"
)

const exportUsage = "Usage: enumexport export <source>"

var exportCmd = &cobra.Command{
	Use:   "export <source>",
	Short: "Export enum tables to the database and the snapshot",
	Long: `Export reads every enum table from the source and writes each record to
the relational output and to the snapshot document. After each table the
source, document and relational counts are compared; any mismatch aborts
the whole run and no snapshot file is written.

Repeated runs against the same database append rows again; tables are
created with CREATE TABLE IF NOT EXISTS.

Example:
  enumexport export ACE.Entity.yaml
  enumexport export --source-type mysql --compression zstd ace_world`,
	Args: cobra.ArbitraryArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		cmd.Println(exportUsage)
		return nil
	}
	sourceArg := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := database.SetupSignalHandlerWithCallback(context.Background(), func(sig os.Signal) {
		log.Warnw("Received shutdown signal - aborting export", "signal", sig.String())
	})
	defer stop()

	dbManager := database.NewManager(cfg)
	defer dbManager.Close()

	src, err := buildSource(ctx, cfg, dbManager, sourceArg)
	if err != nil {
		return sourceError(sourceArg, err)
	}
	// The output file is only created once the source is known to be readable.
	if err := src.Open(ctx); err != nil {
		return sourceError(sourceArg, err)
	}

	if err := dbManager.OpenOutput(ctx); err != nil {
		return err
	}

	writer, err := sink.NewWriter(dbManager.Output, log)
	if err != nil {
		return err
	}

	exp, err := exporter.New(
		src,
		writer,
		schema.NewResolver(cfg.Schema.ExtensionTables),
		extension.BuiltinWith(cfg.ExtensionOverrides()),
		exporter.OptionsFromConfig(cfg),
		log.WithSource(sourceArg),
	)
	if err != nil {
		return fmt.Errorf("failed to create exporter: %w", err)
	}

	result, err := exp.Run(ctx)
	if err != nil {
		if source.IsUnavailable(err) {
			return sourceError(sourceArg, err)
		}
		return fmt.Errorf("export failed: %w", err)
	}

	printSummary(cmd.OutOrStdout(), result, cfg.Output.Database)
	return nil
}

// sourceError reports a failure to read the source argument, naming it
// when the source itself could not be opened.
func sourceError(arg string, err error) error {
	if source.IsUnavailable(err) {
		return fmt.Errorf("source %s is unavailable: %w", arg, err)
	}
	return fmt.Errorf("export failed: %w", err)
}
