package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const testManifest = `
provenance: ACE.Entity 1.0.8
enums:
  - name: Gender
    namespace: ACE.Entity.Enum
    values:
      - {value: 0, label: Invalid}
      - {value: 1, label: Male}
      - {value: 2, label: Female}
  - name: PropertyInt
    namespace: ACE.Entity.Enum.Properties
    values:
      - {value: 1, label: ItemType}
      - {value: 2, label: StackSize}
  - name: Helper
    namespace: ACE.Common
    values:
      - {value: 1, label: Skipped}
`

// writeManifest stores testManifest in dir and returns its path.
func writeManifest(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "ACE.Entity.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testManifest), 0644))
	return path
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the root command with args and returns everything
// written to its stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
