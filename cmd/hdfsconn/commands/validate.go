package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datafab/hdfsconn/internal/cli/output"
	"github.com/datafab/hdfsconn/internal/logger"
	"github.com/datafab/hdfsconn/pkg/config"
	"github.com/datafab/hdfsconn/pkg/issue"
	"github.com/datafab/hdfsconn/pkg/stage"
)

var validateFlags struct {
	uri      string
	user     string
	kerberos bool
	confDir  string
	probes   []string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configured HDFS connection",
	Long: `Validate merges the effective configuration, resolves identities, opens
the filesystem and probes the listed directories for writability. Flags
override values from the configuration file.

Exit status is 0 when the connection and all probes are clean, 1 otherwise.`,
	RunE: runValidate,
}

func init() {
	f := validateCmd.Flags()
	f.StringVar(&validateFlags.uri, "uri", "", "filesystem URI (e.g. hdfs://namenode:8020)")
	f.StringVar(&validateFlags.user, "user", "", "user to impersonate")
	f.BoolVar(&validateFlags.kerberos, "kerberos", false, "use Kerberos authentication")
	f.StringVar(&validateFlags.confDir, "conf-dir", "", "directory with core-site.xml and hdfs-site.xml")
	f.StringArrayVar(&validateFlags.probes, "probe", nil, "directory to probe for writability (repeatable)")
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Config(cfg.Logging)); err != nil {
		return err
	}
	applyValidateFlags(cmd, cfg)

	conn := stage.NewConn(cfg.ConnConfig())
	ctx := stage.StaticContext{Mode: cfg.ExecutionMode(), Resources: cfg.ResourcesDir}

	issues := &issue.List{}
	valid := conn.Validate(ctx, issues)
	if valid {
		for _, dir := range cfg.Probes {
			conn.ProbeDir(stage.GroupHadoopFS, "probes", dir, issues)
		}
	}

	out := cmd.OutOrStdout()
	if issues.Empty() {
		fmt.Fprintf(out, "OK: %s\n", conn.URI())
		return nil
	}

	rows := make([][]string, 0, issues.Len())
	for _, is := range issues.All() {
		rows = append(rows, []string{string(is.Code), is.Group, is.Field, is.Message})
	}
	output.PrintTable(out, []string{"Code", "Group", "Field", "Message"}, rows)

	return fmt.Errorf("validation found %d issue(s)", issues.Len())
}

// applyValidateFlags lets explicit flags override file values.
func applyValidateFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("uri") {
		cfg.Connection.URI = validateFlags.uri
	}
	if cmd.Flags().Changed("user") {
		cfg.Connection.User = validateFlags.user
	}
	if cmd.Flags().Changed("kerberos") {
		cfg.Connection.Kerberos = validateFlags.kerberos
	}
	if cmd.Flags().Changed("conf-dir") {
		cfg.Connection.ConfDir = validateFlags.confDir
	}
	if len(validateFlags.probes) > 0 {
		cfg.Probes = validateFlags.probes
	}
}
