package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/shiftsql/internal/config"
	sqlcmd "github.com/leapstack-labs/shiftsql/pkg/commands"
)

// writeStructured encodes v as JSON or YAML. It reports false for the
// text format so callers can render their own view.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

type statementOutput struct {
	Kind     string `json:"kind" yaml:"kind"`
	SQL      string `json:"sql" yaml:"sql"`
	Executed bool   `json:"executed" yaml:"executed"`
}

// emit compiles c, prints it and runs it on the target when --execute is set.
func emit(cmd *cobra.Command, c sqlcmd.Command) error {
	cc := NewCommandContext(cmd)
	ctx := cmd.Context()

	execute, _ := cmd.Flags().GetBool("execute")

	d, err := cc.targetDialect()
	if err != nil {
		return err
	}
	text, err := sqlcmd.NewCompiler(d).Compile(c)
	if err != nil {
		return err
	}
	cc.Logger.Debug("statement compiled", "kind", c.Kind(), "bytes", len(text))

	if execute {
		a, cleanup, err := cc.connect(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := a.Exec(ctx, text); err != nil {
			return fmt.Errorf("failed to execute %s: %w", c.Kind(), err)
		}
		cc.Logger.Info("statement executed", "kind", c.Kind())
	}

	out := statementOutput{Kind: c.Kind(), SQL: text, Executed: execute}
	if ok, err := writeStructured(cmd.OutOrStdout(), cc.Cfg.Output, out); ok {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", text)
	return err
}

func addExecuteFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("execute", false, "Run the statement on the configured target")
}
