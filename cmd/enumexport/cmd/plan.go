package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/enumexport/internal/database"
	"github.com/dbsmedya/enumexport/internal/exporter"
	"github.com/dbsmedya/enumexport/internal/extension"
	"github.com/dbsmedya/enumexport/internal/schema"
)

var planDDL bool

var planCmd = &cobra.Command{
	Use:   "plan <source>",
	Short: "Show what an export would write, without writing",
	Long: `Plan reads the source and prints, for every table, the resolved schema,
the number of records and how many records carry an extension value.
Neither the database nor the snapshot is touched.

Example:
  enumexport plan ACE.Entity.yaml
  enumexport plan --ddl ACE.Entity.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().BoolVar(&planDDL, "ddl", false,
		"Print the CREATE TABLE statement of every table")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	dbManager := database.NewManager(cfg)
	defer dbManager.Close()

	src, err := buildSource(ctx, cfg, dbManager, args[0])
	if err != nil {
		return err
	}

	plans, err := exporter.Plan(ctx, src,
		schema.NewResolver(cfg.Schema.ExtensionTables),
		extension.BuiltinWith(cfg.ExtensionOverrides()),
	)
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s\n", color.Bold.Sprint("=== Export Plan ==="))
	fmt.Fprintf(w, "Source (%s): %s\n", cfg.Source.Type, args[0])
	fmt.Fprintf(w, "Database:    %s\n", cfg.Output.Database)
	if cfg.Snapshot.Enabled {
		fmt.Fprintf(w, "Snapshot:    %s (%s)\n\n", cfg.Snapshot.Path, cfg.Snapshot.Compression)
	} else {
		fmt.Fprintf(w, "Snapshot:    disabled\n\n")
	}

	var total int64
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		extensions := "-"
		if p.Schema.HasExtension {
			extensions = strconv.FormatInt(p.ExtensionHits, 10)
		}
		rows = append(rows, []string{p.Name, strconv.FormatInt(p.Records, 10), extensions})
		total += p.Records
	}
	fmt.Fprint(w, renderTable([]string{"TABLE", "RECORDS", "EXTENSIONS"}, rows))
	fmt.Fprintf(w, "\n%d tables, %d records\n", len(plans), total)

	if planDDL {
		fmt.Fprintln(w)
		for _, p := range plans {
			fmt.Fprintf(w, "%s;\n", p.Schema.DDL())
		}
	}
	return nil
}
