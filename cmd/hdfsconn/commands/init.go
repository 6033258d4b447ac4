package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datafab/hdfsconn/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write a sample configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		cfg := config.Default()
		cfg.Connection = config.ConnectionConfig{
			URI: "hdfs://namenode:8020",
			Extra: map[string]string{
				"dfs.replication": "3",
			},
		}
		cfg.Probes = []string{"/user/pipeline/output"}

		if err := config.Save(cfg, path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
}
