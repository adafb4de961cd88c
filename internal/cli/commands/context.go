package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/shiftsql/internal/config"
	"github.com/leapstack-labs/shiftsql/internal/snapshot"
	"github.com/leapstack-labs/shiftsql/pkg/adapter"
	"github.com/leapstack-labs/shiftsql/pkg/catalog"
	"github.com/leapstack-labs/shiftsql/pkg/dialect"
)

type configKey struct{}

type loggerKey struct{}

// WithConfig stores cfg in ctx for the subcommands.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// WithLogger stores logger in ctx for the subcommands.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetConfig retrieves the config from ctx, or the built-in defaults.
func GetConfig(ctx context.Context) *config.Config {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
			return c
		}
	}
	return &config.Config{
		Target: config.TargetConfig{
			Type:    config.DefaultTargetType,
			Port:    config.DefaultPort,
			SSLMode: config.DefaultSSLMode,
		},
		Snapshot: config.SnapshotConfig{Path: config.DefaultSnapshotPath},
		Output:   config.DefaultOutput,
	}
}

// GetLogger retrieves the logger from ctx.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.New(slog.DiscardHandler)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// NewCommandContext collects the config and logger stored by the root command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	return &CommandContext{
		Cfg:    GetConfig(cmd.Context()),
		Logger: GetLogger(cmd.Context()),
	}
}

// connect opens the configured target. The returned cleanup closes it.
func (c *CommandContext) connect(ctx context.Context) (adapter.Adapter, func(), error) {
	ac := c.Cfg.Target.AdapterConfig()
	a, err := adapter.NewAdapter(ac, c.Logger)
	if err != nil {
		return nil, nil, err
	}
	if err := a.Connect(ctx, ac); err != nil {
		return nil, nil, err
	}
	return a, func() { _ = a.Close() }, nil
}

// openStore opens the snapshot database, creating its directory if needed.
func (c *CommandContext) openStore(ctx context.Context) (*snapshot.Store, error) {
	path := c.Cfg.Snapshot.Path
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	return snapshot.Open(ctx, path, c.Logger)
}

// catalogSource returns the live target, or a saved snapshot when
// snapshotID is set.
func (c *CommandContext) catalogSource(ctx context.Context, snapshotID string) (catalog.Source, func(), error) {
	if snapshotID == "" {
		return c.connect(ctx)
	}

	store, err := c.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	src, err := store.Source(ctx, snapshotID)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return src, func() { _ = store.Close() }, nil
}

// targetDialect returns the SQL dialect registered for the target type.
func (c *CommandContext) targetDialect() (*dialect.Dialect, error) {
	d, ok := dialect.Get(c.Cfg.Target.Type)
	if !ok {
		return nil, fmt.Errorf("no SQL dialect for target type %q (available: %s)",
			c.Cfg.Target.Type, strings.Join(dialect.List(), ", "))
	}
	return d, nil
}
