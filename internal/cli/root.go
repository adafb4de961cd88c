// Package cli provides the command-line interface for shiftsql.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/shiftsql/internal/cli/commands"
	"github.com/leapstack-labs/shiftsql/internal/config"

	// Registers the "redshift" target type.
	_ "github.com/leapstack-labs/shiftsql/pkg/adapters/redshift"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "shiftsql",
		Short: "shiftsql - Redshift command compiler and catalog inspector",
		Long: `shiftsql compiles Redshift-specific statements (COPY, UNLOAD, CREATE TABLE AS,
materialized views, ALTER TABLE APPEND, CREATE LIBRARY) from validated options,
and reflects tables, views and constraints from a cluster's system catalog.

Catalogs can be saved to a local snapshot database and inspected offline.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion", "__complete", "version":
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}

			ctx := commands.WithConfig(cmd.Context(), cfg)
			ctx = commands.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./shiftsql.yaml)")
	pf.BoolP("verbose", "v", false, "Verbose output")
	pf.StringP("output", "o", "", "Output format (text|json|yaml)")
	pf.String("snapshot-db", "", "Path to the snapshot database")

	pf.String("host", "", "Cluster endpoint")
	pf.Int("port", 0, "Cluster port")
	pf.String("database", "", "Database name")
	pf.String("user", "", "Database user")
	pf.String("schema", "", "Default schema")
	pf.String("sslmode", "", "libpq sslmode (disable|require|verify-ca|verify-full)")

	pf.String("access-key-id", "", "AWS access key id")
	pf.String("secret-access-key", "", "AWS secret access key")
	pf.String("session-token", "", "AWS session token for temporary credentials")
	pf.String("aws-partition", "", "AWS partition for --iam-role-name (aws|aws-cn|aws-us-gov)")
	pf.String("aws-account-id", "", "AWS account id for --iam-role-name")
	pf.String("iam-role-name", "", "IAM role name")
	pf.StringSlice("iam-role-arn", nil, "IAM role ARN; repeat to chain roles")
	pf.String("region", "", "AWS region of the S3 bucket")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.OutputText, config.OutputJSON, config.OutputYAML}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("sslmode", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"disable", "require", "verify-ca", "verify-full"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit, BuildDate))
	rootCmd.AddCommand(commands.NewCopyCommand())
	rootCmd.AddCommand(commands.NewUnloadCommand())
	rootCmd.AddCommand(commands.NewCTASCommand())
	rootCmd.AddCommand(commands.NewMViewCommand())
	rootCmd.AddCommand(commands.NewAppendCommand())
	rootCmd.AddCommand(commands.NewLibraryCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewTablesCommand())
	rootCmd.AddCommand(commands.NewSnapshotCommand())
	rootCmd.AddCommand(commands.NewQueryCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for shiftsql.

To load completions:

Bash:
  $ source <(shiftsql completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ shiftsql completion bash > /etc/bash_completion.d/shiftsql
  # macOS:
  $ shiftsql completion bash > $(brew --prefix)/etc/bash_completion.d/shiftsql

Zsh:
  $ shiftsql completion zsh > "${fpath[1]}/_shiftsql"

Fish:
  $ shiftsql completion fish > ~/.config/fish/completions/shiftsql.fish

PowerShell:
  PS> shiftsql completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}
	return cmd
}
