package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/schemaprune/internal/report"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the full analysis report as JSON",
		Long: `Run the analysis and write the complete report, including per-file
evidence and the relationship audit, to a JSON file.`,
		Example: `  # Export to the default file
  schemaprune export

  # Export to a specific path
  schemaprune export --file usage-report.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, outPath)
		},
	}

	cmd.Flags().StringVar(&outPath, "file", "schemaprune-report.json", "Output file path")

	return cmd
}

func runExport(cmd *cobra.Command, outPath string) error {
	cmdCtx := NewCommandContext(cmd)

	_, files, result, err := cmdCtx.loadAndAnalyze(cmd.Context())
	if err != nil {
		return err
	}

	doc := report.Build(result, report.Meta{
		SchemaPath:   cmdCtx.Cfg.SchemaPath,
		Mode:         cmdCtx.analyzerMode(),
		FilesScanned: len(files),
	})

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := report.WriteJSON(f, doc); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	cmdCtx.Renderer.Printf("Report written to %s (%d models, %d files scanned)\n",
		outPath, len(doc.Models), doc.FilesScanned)
	return nil
}
