package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/schemaprune/internal/cli/output"
	"github.com/leapstack-labs/schemaprune/internal/report"
	"github.com/leapstack-labs/schemaprune/internal/scanner"
	"github.com/leapstack-labs/schemaprune/internal/state"
)

// AnalyzeOptions holds options for the analyze command.
type AnalyzeOptions struct {
	Watch   bool
	Save    bool
	MinRisk string
	Detail  string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Classify every schema model by usage risk",
		Long: `Scan the configured server and client source trees for references to
each declared model and classify every model into a risk tier:

  SAFE               database or API evidence found
  PROBABLY_SAFE      typed/business/client evidence with solid confidence
  SUSPICIOUS         weaker or borderline evidence
  LIKELY_UNUSED      only imports, bare mentions, or schema references
  DEFINITELY_UNUSED  no evidence anywhere

The classification is heuristic and lexical; treat it as a review queue,
not a removal list.`,
		Example: `  # Analyze using schemaprune.yaml discovered from the current directory
  schemaprune analyze

  # Strict binary classification, eight workers
  schemaprune analyze --strict --jobs 8

  # Only report models at or below a tier
  schemaprune analyze --min-risk SUSPICIOUS

  # Re-run automatically when source files change
  schemaprune analyze --watch

  # Persist the run for later tier-drift comparison
  schemaprune analyze --save`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Re-run analysis when source files change")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Persist the run to the history database")
	cmd.Flags().StringVar(&opts.MinRisk, "min-risk", "", "Only show models at or below this tier")
	cmd.Flags().StringVar(&opts.Detail, "detail", "", "Show per-file evidence for one model")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *AnalyzeOptions) error {
	cmdCtx := NewCommandContext(cmd)

	runOnce := func() error {
		return analyzeOnce(cmd, cmdCtx, opts)
	}

	if err := runOnce(); err != nil {
		return err
	}

	if opts.Watch {
		cmdCtx.Renderer.Errorf("Watching for changes (ctrl-c to stop)...\n")
		return scanner.Watch(cmd.Context(), scanner.Config{
			ServerRoots: cmdCtx.Cfg.ServerRoots,
			ClientRoots: cmdCtx.Cfg.ClientRoots,
			Excludes:    cmdCtx.Cfg.ExcludeDirs,
			Logger:      cmdCtx.Logger,
		}, func() {
			if err := runOnce(); err != nil {
				cmdCtx.Renderer.Errorf("analysis failed: %v\n", err)
			}
		})
	}
	return nil
}

func analyzeOnce(cmd *cobra.Command, cmdCtx *CommandContext, opts *AnalyzeOptions) error {
	_, files, result, err := cmdCtx.loadAndAnalyze(cmd.Context())
	if err != nil {
		return err
	}

	doc := report.Build(result, report.Meta{
		SchemaPath:   cmdCtx.Cfg.SchemaPath,
		Mode:         cmdCtx.analyzerMode(),
		FilesScanned: len(files),
	})

	if opts.MinRisk != "" {
		filtered, err := filterByRisk(doc, opts.MinRisk)
		if err != nil {
			return err
		}
		doc = filtered
	}

	if opts.Save {
		if err := saveRun(cmdCtx, doc); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
	}

	r := cmdCtx.Renderer
	if opts.Detail != "" {
		u, ok := result.Models[opts.Detail]
		if !ok {
			return fmt.Errorf("model not found: %s", opts.Detail)
		}
		report.RenderDetail(r.Out(), u)
		return nil
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return report.WriteJSON(r.Out(), doc)
	case output.ModeMarkdown:
		report.RenderSummary(r.Out(), doc, true)
	default:
		report.RenderSummary(r.Out(), doc, false)
	}
	return nil
}

// riskRank orders tiers from safest to most suspect for --min-risk
// filtering.
var riskRank = map[string]int{
	"SAFE":              0,
	"PROBABLY_SAFE":     1,
	"SUSPICIOUS":        2,
	"LIKELY_UNUSED":     3,
	"DEFINITELY_UNUSED": 4,
}

func filterByRisk(doc *report.Document, minRisk string) (*report.Document, error) {
	threshold, ok := riskRank[minRisk]
	if !ok {
		return nil, fmt.Errorf("invalid risk tier %q", minRisk)
	}
	filtered := *doc
	filtered.Models = nil
	for _, u := range doc.Models {
		if riskRank[string(u.Risk)] >= threshold {
			filtered.Models = append(filtered.Models, u)
		}
	}
	return &filtered, nil
}

func saveRun(cmdCtx *CommandContext, doc *report.Document) error {
	stateDir := filepath.Dir(cmdCtx.Cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore()
	if err := store.Open(cmdCtx.Cfg.StatePath); err != nil {
		return err
	}
	defer store.Close()
	if err := store.InitSchema(); err != nil {
		return err
	}

	run := &state.Run{
		SchemaPath:   doc.SchemaPath,
		Mode:         doc.Mode,
		ModelCount:   len(doc.Models),
		FilesScanned: doc.FilesScanned,
	}
	records := make([]*state.ModelRecord, 0, len(doc.Models))
	for _, u := range doc.Models {
		records = append(records, &state.ModelRecord{
			Model:       u.Model,
			Risk:        u.Risk,
			Confidence:  u.Confidence,
			TotalFiles:  u.TotalFiles,
			ServerFiles: u.ServerFiles,
			ClientFiles: u.ClientFiles,
			IsUsed:      u.IsUsed,
			UsageTypes:  joinUsageTypes(u.UsageTypes),
		})
	}
	if err := store.SaveRun(run, records); err != nil {
		return err
	}
	cmdCtx.Renderer.Errorf("Saved run %s\n", run.ID)
	return nil
}
