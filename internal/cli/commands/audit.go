package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/schemaprune/internal/analyzer"
	"github.com/leapstack-labs/schemaprune/internal/cli/output"
	"github.com/leapstack-labs/schemaprune/internal/report"
)

// NewAuditCommand creates the audit command.
func NewAuditCommand() *cobra.Command {
	var showCycles bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit declared relationships of at-risk models",
		Long: `For every model classified SUSPICIOUS or below, list the models that
reference it through declared relationships. A danger flag marks cases
where a referencing model is itself still in use: removing the at-risk
model would break a live relation.`,
		Example: `  # Audit after an analysis of the configured trees
  schemaprune audit

  # Include circular relationship groups
  schemaprune audit --cycles

  # JSON output
  schemaprune audit --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAudit(cmd, showCycles)
		},
	}

	cmd.Flags().BoolVar(&showCycles, "cycles", false, "Report circular relationship groups")

	return cmd
}

func runAudit(cmd *cobra.Command, showCycles bool) error {
	cmdCtx := NewCommandContext(cmd)

	models, files, result, err := cmdCtx.loadAndAnalyze(cmd.Context())
	if err != nil {
		return err
	}

	doc := report.Build(result, report.Meta{
		SchemaPath:   cmdCtx.Cfg.SchemaPath,
		Mode:         cmdCtx.analyzerMode(),
		FilesScanned: len(files),
	})

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(doc.Audit)
	}

	report.RenderAudit(r.Out(), doc, r.EffectiveMode() == output.ModeMarkdown)

	if showCycles {
		g := analyzer.BuildReferenceGraph(models)
		cycles := g.Cycles()
		r.Println("")
		if len(cycles) == 0 {
			r.Println("No circular relationship groups.")
		} else {
			r.Header(2, "Circular relationship groups")
			for _, cycle := range cycles {
				r.Println("  " + strings.Join(cycle, " <-> "))
			}
		}
	}
	return nil
}

// joinUsageTypes flattens a tag list for storage and display.
func joinUsageTypes(types []analyzer.UsageType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}
