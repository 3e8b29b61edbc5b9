package analyzer

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/schemaprune/internal/schema"
)

// Mode selects the classification rule set.
type Mode string

const (
	// ModeTiered is the default five-level risk classification.
	ModeTiered Mode = "tiered"
	// ModeStrict collapses the verdict into a stricter binary real-usage
	// rule: medium-confidence tiers only count when they independently
	// reach two matches within a single file.
	ModeStrict Mode = "strict"
)

// strictMatchGate is the per-file match count a medium tier must reach
// before it counts as real usage in strict mode.
const strictMatchGate = 2

// probablySafeThreshold and suspiciousThreshold are the confidence floors
// of the classification decision rule.
const (
	probablySafeThreshold = 30
	suspiciousThreshold   = 20
)

// Options configures an analysis run.
type Options struct {
	Mode   Mode
	Jobs   int // worker count for per-model analysis; <=1 runs serially
	Logger *slog.Logger
}

// Analyzer classifies each declared model by scanning the candidate file
// set with the detector tiers. All state is owned by the instance; one
// analyzer is constructed per run and holds the run-scoped file cache.
type Analyzer struct {
	models *schema.Table
	files  []SourceFile
	cache  *fileCache
	mode   Mode
	jobs   int
	logger *slog.Logger
}

// New creates an analyzer over the declared model table and the walker's
// candidate file list.
func New(models *schema.Table, files []SourceFile, opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeTiered
	}
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	return &Analyzer{
		models: models,
		files:  files,
		cache:  newFileCache(logger),
		mode:   mode,
		jobs:   jobs,
		logger: logger,
	}
}

// Run analyzes every declared model and returns the classified result set,
// including the relationship audit of at-risk models. Output is
// deterministic given identical file contents and model list, in both the
// serial and parallel paths.
func (a *Analyzer) Run(ctx context.Context) (*Result, error) {
	names := a.models.Names()
	usages := make([]*ModelUsage, len(names))

	if a.jobs > 1 {
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(a.jobs)
		for i, name := range names {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				usages[i] = a.analyzeModel(name)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, name := range names {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			usages[i] = a.analyzeModel(name)
		}
	}

	result := &Result{
		Order:  names,
		Models: make(map[string]*ModelUsage, len(usages)),
	}
	for _, u := range usages {
		result.Models[u.Model] = u
	}
	result.Audit = AuditRelationships(a.models, result.Models)

	a.logger.Debug("analysis complete",
		"models", len(names),
		"files", len(a.files),
		"cached", a.cache.size())
	return result, nil
}

// analyzeModel folds per-file results for one model into its aggregated
// usage record and applies the classification rule.
func (a *Analyzer) analyzeModel(name string) *ModelUsage {
	tiers := compileTiers(name)

	usage := &ModelUsage{Model: name}
	tags := make(map[UsageType]bool)
	strictUsed := false

	for _, file := range a.files {
		fa, gated := a.analyzeFile(tiers, file)
		if fa == nil {
			continue
		}
		usage.Files = append(usage.Files, fa)
		usage.Confidence += fa.Confidence
		usage.TotalFiles++
		if fa.Area == AreaServer {
			usage.ServerFiles++
		} else {
			usage.ClientFiles++
		}
		for _, t := range fa.UsageTypes {
			tags[t] = true
		}
		if gated {
			strictUsed = true
		}
	}

	usage.UsageTypes = sortedTags(tags)
	usage.Risk = classify(tags, usage.Confidence)
	usage.IsUsed = usage.Risk == RiskSafe || usage.Risk == RiskProbablySafe
	if a.mode == ModeStrict {
		usage.IsUsed = tags[UsageDatabaseOperation] || tags[UsageAPIEndpoint] || strictUsed
	}
	return usage
}

// analyzeFile runs every applicable tier against one file for one model.
// It returns nil when no tier matched: absence of signal produces no
// record, never a zero-valued one. The second return reports whether a
// medium tier cleared the strict-mode match gate in this file.
func (a *Analyzer) analyzeFile(tiers []*compiledTier, file SourceFile) (*FileAnalysis, bool) {
	content := a.cache.get(file)
	if content.empty() {
		return nil, false
	}

	var fa *FileAnalysis
	gateCleared := false
	for _, tier := range tiers {
		if !tier.applies(file.Area) {
			continue
		}
		signal := tier.apply(content)
		if signal == nil {
			continue
		}
		if fa == nil {
			fa = &FileAnalysis{Path: file.Path, Area: file.Area}
		}
		fa.UsageTypes = append(fa.UsageTypes, signal.Type)
		fa.Matches += signal.Matches
		fa.Confidence += signal.Confidence
		fa.Signals = append(fa.Signals, *signal)
		if isMediumTier(signal.Type) && signal.Matches >= strictMatchGate {
			gateCleared = true
		}
	}
	return fa, gateCleared
}

// classify applies the risk decision rule in fixed priority order; the
// first matching rule wins.
func classify(tags map[UsageType]bool, confidence int) RiskLevel {
	switch {
	case tags[UsageDatabaseOperation] || tags[UsageAPIEndpoint]:
		return RiskSafe
	case hasMediumTier(tags) && confidence >= probablySafeThreshold:
		return RiskProbablySafe
	case hasMediumTier(tags):
		return RiskSuspicious
	case (tags[UsageWeakIndicator] || tags[UsageSchemaReference]) && confidence >= suspiciousThreshold:
		return RiskSuspicious
	case tags[UsageWeakIndicator] || tags[UsageSchemaReference]:
		return RiskLikelyUnused
	default:
		return RiskDefinitelyUnused
	}
}

func hasMediumTier(tags map[UsageType]bool) bool {
	return tags[UsageTypeDefinition] || tags[UsageBusinessLogic] || tags[UsageClientOperation]
}

func isMediumTier(t UsageType) bool {
	return t == UsageTypeDefinition || t == UsageBusinessLogic || t == UsageClientOperation
}

// sortedTags returns the tag set in detector strength order for stable
// output.
func sortedTags(tags map[UsageType]bool) []UsageType {
	rank := make(map[UsageType]int, len(tierSpecs))
	for i, spec := range tierSpecs {
		rank[spec.usage] = i
	}
	out := make([]UsageType, 0, len(tags))
	for t := range tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return rank[out[i]] < rank[out[j]] })
	return out
}
