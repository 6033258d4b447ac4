// Package commands implements the hdfsconn CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "hdfsconn",
	Short: "Validate HDFS connections for pipeline stages",
	Long: `hdfsconn validates a stage's HDFS connection ahead of any data movement:
it merges the effective Hadoop configuration, resolves the security identity
(simple or Kerberos, optionally impersonating a proxy user), opens the
filesystem, and canary-probes target directories for writability.

All problems found are reported together, so a single run surfaces every
misconfiguration at once.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(initCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hdfsconn %s (commit %s, built %s)\n", Version, Commit, Date)
	},
}
