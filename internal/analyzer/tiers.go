package analyzer

import (
	"regexp"
	"strings"
	"unicode"
)

// textVariant selects which representation of a file a tier scans.
type textVariant int

const (
	textClean textVariant = iota
	textRaw
)

// tierScope restricts a tier to one source area.
type tierScope int

const (
	scopeBoth tierScope = iota
	scopeServer
	scopeClient
)

// crudVerbs are the database client methods recognized by the
// DATABASE_OPERATION tier.
const crudVerbs = `create|createMany|findFirst|findUnique|findMany|update|updateMany|upsert|delete|deleteMany|count|aggregate|groupBy`

// maxExamples caps the literal match samples kept per tier for diagnostics.
const maxExamples = 3

// modelNames carries the regexp-escaped name variants interpolated into
// tier patterns. Source code may use either the declared name or its
// lower-cased accessor form, so both are tried.
type modelNames struct {
	exact string // escaped, as declared ("OrderItem")
	lower string // escaped, first rune lowered ("orderItem")
}

func escapeModel(name string) modelNames {
	return modelNames{
		exact: regexp.QuoteMeta(name),
		lower: regexp.QuoteMeta(lowerFirst(name)),
	}
}

// lowerFirst lowers the first rune, matching the accessor convention
// database clients generate for model handles.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// tierSpec defines one detector tier: a usage-type tag, a flat confidence
// weight added once per file when any of its patterns match, the area and
// text variant it applies to, and a pattern builder parameterized by the
// escaped model name.
type tierSpec struct {
	usage   UsageType
	weight  int
	scope   tierScope
	variant textVariant
	build   func(n modelNames) []string
}

// tierSpecs lists the tiers in descending strength order. WEAK_INDICATOR
// is never sufficient alone to mark a model as genuinely used; the
// classifier requires the stronger tiers to dominate the verdict.
var tierSpecs = []tierSpec{
	{
		usage:   UsageDatabaseOperation,
		weight:  40,
		scope:   scopeServer,
		variant: textClean,
		build: func(n modelNames) []string {
			alt := `(?:` + n.exact + `|` + n.lower + `)`
			return []string{
				// client-handle and transaction-scoped CRUD calls
				`\b\w+\.` + alt + `\.(?:` + crudVerbs + `)\s*\(`,
				// raw SQL escape hatches referencing the model
				`\$(?:queryRaw|executeRaw)\w*[^\n]*\b` + alt + `\b`,
				// relation include clauses naming the model
				`\binclude\s*:\s*\{[^}]*\b` + alt + `\s*:`,
			}
		},
	},
	{
		usage:   UsageAPIEndpoint,
		weight:  35,
		scope:   scopeBoth,
		variant: textClean,
		build: func(n modelNames) []string {
			return []string{
				`(?i)\.(?:get|post|put|delete|patch)\s*\([^\n]*` + n.lower,
				`(?i)\b(?:req|request|ctx)\.(?:params|body|query)\.\w*` + n.lower,
				`(?i)/api/[\w/-]*` + n.lower,
				`(?i)\b(?:axios(?:\.\w+)?|fetch)\s*\([^\n]*` + n.lower,
			}
		},
	},
	{
		usage:   UsageTypeDefinition,
		weight:  25,
		scope:   scopeBoth,
		variant: textClean,
		build: func(n modelNames) []string {
			return []string{
				`\b(?:interface|type)\s+\w*` + n.exact + `\w*\b`,
				`:\s*` + n.exact + `(?:\[\])?\b`,
				`<[^<>\n]*\b` + n.exact + `\b[^<>\n]*>`,
				`\b(?:const|let|var)\s+\w+\s*:\s*` + n.exact + `\b`,
			}
		},
	},
	{
		usage:   UsageBusinessLogic,
		weight:  20,
		scope:   scopeBoth,
		variant: textClean,
		build: func(n modelNames) []string {
			return []string{
				`(?i)\w*(?:service|repository|api)\.\w*` + n.lower + `\w*`,
				`(?i)\b(?:function|const|let|var)\s+\w*` + n.lower + `\w*\b`,
				`(?i)\b(?:get|create|update|delete|fetch|save|load|find)\w*` + n.lower + `\w*\s*\(`,
				`(?i)\b` + n.lower + `\w*slice\b`,
			}
		},
	},
	{
		usage:   UsageClientOperation,
		weight:  20,
		scope:   scopeClient,
		variant: textClean,
		build: func(n modelNames) []string {
			return []string{
				`\buse` + n.exact + `\w*\s*\(`,
				`\b` + n.exact + `(?:Props|State|Data)\b`,
				`(?i)\b(?:state|store)\.\w*` + n.lower,
				`(?i)\buse(?:App)?Selector\s*\([^\n]*` + n.lower,
				`(?i)\b` + n.lower + `(?:form|schema|validation)\w*\b`,
				`(?i)\b(?:navigate|router\.(?:push|replace)|history\.push)\s*\([^\n]*` + n.lower,
			}
		},
	},
	{
		usage:  UsageSchemaReference,
		weight: 15,
		scope:  scopeBoth,
		// raw text on purpose: relationship and DDL keywords legitimately
		// live inside declarative schema, migration, and seed files where
		// comment stripping carries no meaning.
		variant: textRaw,
		build: func(n modelNames) []string {
			return []string{
				`(?i)\b(?:relation|references)\b[^\n]*\b` + n.lower + `\b`,
				`(?i)\b` + n.lower + `\b[^\n]*\b(?:relation|references)\b`,
				`(?i)\b(?:create|alter|drop)\s+table\s+[^\n]*\b` + n.lower + `\b`,
				`(?i)\bseed\w*[^\n]*\b` + n.lower + `\b`,
			}
		},
	},
	{
		usage:   UsageWeakIndicator,
		weight:  2,
		scope:   scopeBoth,
		variant: textClean,
		build: func(n modelNames) []string {
			alt := `(?:` + n.exact + `|` + n.lower + `)`
			return []string{
				`(?i)\bimport\b[^\n]*\b` + n.lower + `\b`,
				"['\"`]" + alt + "['\"`]",
				`\b` + alt + `\b`,
			}
		},
	},
}

// compiledTier is one tier with its patterns compiled for a single model.
type compiledTier struct {
	usage    UsageType
	weight   int
	scope    tierScope
	variant  textVariant
	patterns []*regexp.Regexp
}

// compileTiers builds the full detector set for one model. Model names are
// escaped before interpolation so unusual identifiers cannot produce
// malformed or injection-prone expressions.
func compileTiers(model string) []*compiledTier {
	names := escapeModel(model)
	tiers := make([]*compiledTier, 0, len(tierSpecs))
	for _, spec := range tierSpecs {
		ct := &compiledTier{
			usage:   spec.usage,
			weight:  spec.weight,
			scope:   spec.scope,
			variant: spec.variant,
		}
		for _, src := range spec.build(names) {
			ct.patterns = append(ct.patterns, regexp.MustCompile(src))
		}
		tiers = append(tiers, ct)
	}
	return tiers
}

// applies reports whether the tier runs against files in the given area.
func (t *compiledTier) applies(area Area) bool {
	switch t.scope {
	case scopeServer:
		return area == AreaServer
	case scopeClient:
		return area == AreaClient
	}
	return true
}

// apply runs the tier against one file's content. It returns nil when no
// pattern matched; the flat tier weight is contributed once regardless of
// match count.
func (t *compiledTier) apply(content *fileContent) *UsageSignal {
	text := content.clean
	if t.variant == textRaw {
		text = content.raw
	}
	if text == "" {
		return nil
	}

	var matches int
	var examples []string
	for _, re := range t.patterns {
		found := re.FindAllString(text, -1)
		if len(found) == 0 {
			continue
		}
		matches += len(found)
		for _, f := range found {
			if len(examples) >= maxExamples {
				break
			}
			examples = append(examples, trimExample(f))
		}
	}
	if matches == 0 {
		return nil
	}
	return &UsageSignal{
		Type:       t.usage,
		Matches:    matches,
		Confidence: t.weight,
		Examples:   examples,
	}
}

// trimExample normalizes a literal match for diagnostic display.
func trimExample(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 80 {
		s = s[:80]
	}
	return s
}
