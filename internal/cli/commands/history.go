package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/schemaprune/internal/cli/output"
	"github.com/leapstack-labs/schemaprune/internal/state"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Model string
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show persisted analysis runs",
		Long: `List analysis runs saved with 'analyze --save'. With --model, show one
model's verdict across runs so tier drift is visible over time.`,
		Example: `  # Recent runs
  schemaprune history

  # Tier drift for one model
  schemaprune history --model Order`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Model, "model", "", "Show history for a single model")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "Maximum entries to show")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx := NewCommandContext(cmd)

	store := state.NewSQLiteStore()
	if err := store.Open(cmdCtx.Cfg.StatePath); err != nil {
		return fmt.Errorf("no run history at %s: %w", cmdCtx.Cfg.StatePath, err)
	}
	defer store.Close()
	if err := store.InitSchema(); err != nil {
		return err
	}

	r := cmdCtx.Renderer

	if opts.Model != "" {
		records, err := store.ModelHistory(opts.Model, opts.Limit)
		if err != nil {
			return err
		}
		if r.EffectiveMode() == output.ModeJSON {
			return r.JSON(records)
		}
		if len(records) == 0 {
			r.Printf("No saved runs include model %s\n", opts.Model)
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(r.Out())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Run", "Risk", "Confidence", "Files", "Used"})
		for _, rec := range records {
			t.AppendRow(table.Row{rec.RunID[:8], string(rec.Risk), rec.Confidence, rec.TotalFiles, rec.IsUsed})
		}
		renderModeAware(t, r)
		return nil
	}

	runs, err := store.ListRuns(opts.Limit)
	if err != nil {
		return err
	}
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(runs)
	}
	if len(runs) == 0 {
		r.Println("No saved runs. Use 'schemaprune analyze --save' to record one.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Out())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run", "Created", "Mode", "Models", "Files"})
	for _, run := range runs {
		t.AppendRow(table.Row{run.ID[:8], run.CreatedAt.Format("2006-01-02 15:04:05"), run.Mode, run.ModelCount, run.FilesScanned})
	}
	renderModeAware(t, r)
	return nil
}

func renderModeAware(t table.Writer, r *output.Renderer) {
	if r.EffectiveMode() == output.ModeMarkdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
}
