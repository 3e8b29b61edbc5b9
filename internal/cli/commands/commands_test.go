package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/schemaprune/internal/analyzer"
	"github.com/leapstack-labs/schemaprune/internal/cli/config"
	"github.com/leapstack-labs/schemaprune/internal/report"
)

func TestNewAnalyzeCommand(t *testing.T) {
	cmd := NewAnalyzeCommand()

	assert.Equal(t, "analyze", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	for _, name := range []string{"watch", "save", "min-risk", "detail"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}
}

func TestNewAuditCommand(t *testing.T) {
	cmd := NewAuditCommand()

	assert.Equal(t, "audit", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("cycles"))
}

func TestNewListCommand(t *testing.T) {
	cmd := NewListCommand()
	assert.Equal(t, "list", cmd.Use)
	assert.NotNil(t, cmd.RunE)
}

func TestNewExportCommand(t *testing.T) {
	cmd := NewExportCommand()

	assert.Equal(t, "export", cmd.Use)
	flag := cmd.Flags().Lookup("file")
	require.NotNil(t, flag)
	assert.Equal(t, "schemaprune-report.json", flag.DefValue)
}

func TestNewHistoryCommand(t *testing.T) {
	cmd := NewHistoryCommand()

	assert.Equal(t, "history", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("model"))
	limit := cmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "20", limit.DefValue)
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3")

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)

	assert.Contains(t, out.String(), "schemaprune v1.2.3")
}

func TestGetConfigFallsBackToDefaults(t *testing.T) {
	config.ResetConfig()

	cfg := getConfig()
	assert.Equal(t, config.DefaultSchemaPath, cfg.SchemaPath)
	assert.Equal(t, config.DefaultJobs, cfg.Jobs)
}

func TestGetConfigHonorsEnv(t *testing.T) {
	config.ResetConfig()
	t.Setenv("SCHEMAPRUNE_SCHEMA", "custom/schema.prisma")
	t.Setenv("SCHEMAPRUNE_OUTPUT", "json")

	cfg := getConfig()
	assert.Equal(t, "custom/schema.prisma", cfg.SchemaPath)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestNewCommandContext(t *testing.T) {
	config.ResetConfig()

	cmd := &cobra.Command{Use: "t"}
	cmd.SetContext(context.Background())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	cmdCtx := NewCommandContext(cmd)
	require.NotNil(t, cmdCtx.Cfg)
	require.NotNil(t, cmdCtx.Logger)
	require.NotNil(t, cmdCtx.Renderer)
}

func TestFilterByRisk(t *testing.T) {
	doc := &report.Document{
		Models: []*analyzer.ModelUsage{
			{Model: "A", Risk: analyzer.RiskSafe},
			{Model: "B", Risk: analyzer.RiskSuspicious},
			{Model: "C", Risk: analyzer.RiskDefinitelyUnused},
		},
	}

	filtered, err := filterByRisk(doc, "SUSPICIOUS")
	require.NoError(t, err)
	require.Len(t, filtered.Models, 2)
	assert.Equal(t, "B", filtered.Models[0].Model)
	assert.Equal(t, "C", filtered.Models[1].Model)

	// Original stays intact.
	assert.Len(t, doc.Models, 3)

	_, err = filterByRisk(doc, "BOGUS")
	require.Error(t, err)
}

func TestJoinUsageTypes(t *testing.T) {
	assert.Equal(t, "", joinUsageTypes(nil))
	assert.Equal(t, "DATABASE_OPERATION,WEAK_INDICATOR", joinUsageTypes([]analyzer.UsageType{
		analyzer.UsageDatabaseOperation,
		analyzer.UsageWeakIndicator,
	}))
}
