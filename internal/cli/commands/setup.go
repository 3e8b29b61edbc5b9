package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/schemaprune/internal/analyzer"
	"github.com/leapstack-labs/schemaprune/internal/cli/config"
	"github.com/leapstack-labs/schemaprune/internal/cli/output"
	"github.com/leapstack-labs/schemaprune/internal/scanner"
	"github.com/leapstack-labs/schemaprune/internal/schema"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the shared command dependencies from the loaded
// configuration and command writers.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, falling back to environment
// variables with defaults when no config was loaded (e.g. in tests that
// invoke a command constructor directly).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		SchemaPath:   getEnvOrDefault("SCHEMAPRUNE_SCHEMA", config.DefaultSchemaPath),
		StatePath:    getEnvOrDefault("SCHEMAPRUNE_STATE_PATH", config.DefaultStateFile),
		OutputFormat: getEnvOrDefault("SCHEMAPRUNE_OUTPUT", config.DefaultOutput),
		Jobs:         config.DefaultJobs,
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadAndAnalyze runs the whole pipeline: schema load, file walk, analysis.
// It is shared by every command that needs a classified result set.
func (c *CommandContext) loadAndAnalyze(ctx context.Context) (*schema.Table, []analyzer.SourceFile, *analyzer.Result, error) {
	models, err := schema.Load(c.Cfg.SchemaPath)
	if err != nil {
		return nil, nil, nil, err
	}

	files, err := scanner.Walk(scanner.Config{
		ServerRoots: c.Cfg.ServerRoots,
		ClientRoots: c.Cfg.ClientRoots,
		Extensions:  c.Cfg.Extensions,
		Excludes:    c.Cfg.ExcludeDirs,
		Logger:      c.Logger,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	mode := analyzer.ModeTiered
	if c.Cfg.Strict {
		mode = analyzer.ModeStrict
	}
	a := analyzer.New(models, files, analyzer.Options{
		Mode:   mode,
		Jobs:   c.Cfg.Jobs,
		Logger: c.Logger,
	})
	result, err := a.Run(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return models, files, result, nil
}

// analyzerMode maps the config toggle to the analyzer mode.
func (c *CommandContext) analyzerMode() analyzer.Mode {
	if c.Cfg.Strict {
		return analyzer.ModeStrict
	}
	return analyzer.ModeTiered
}
