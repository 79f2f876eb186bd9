//nolint:testpackage // Need access to internal types
package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// withViper sets keys in the global viper instance for the duration of a
// test. Tests using it must not run in parallel.
func withViper(t *testing.T, values map[string]interface{}) {
	t.Helper()

	viper.Reset()

	for key, value := range values {
		viper.Set(key, value)
	}

	t.Cleanup(viper.Reset)
}
