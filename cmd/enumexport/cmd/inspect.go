package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/enumexport/internal/snapshot"
)

var inspectRecords bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <snapshot>",
	Short: "Show the contents of a snapshot file",
	Long: `Inspect decodes a snapshot file, detecting its compression, and prints
its provenance and the record count of every table.

Example:
  enumexport inspect enums.snapshot
  enumexport inspect --records enums.snapshot`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectRecords, "records", false,
		"Also print every record")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	doc, codec, err := snapshot.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to inspect snapshot: %w", err)
	}
	printSnapshot(cmd.OutOrStdout(), args[0], codec, doc, inspectRecords)
	return nil
}
