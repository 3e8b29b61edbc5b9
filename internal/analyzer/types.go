package analyzer

// UsageType labels the category of evidence a detector tier found.
type UsageType string

const (
	UsageDatabaseOperation UsageType = "DATABASE_OPERATION"
	UsageAPIEndpoint       UsageType = "API_ENDPOINT"
	UsageTypeDefinition    UsageType = "TYPE_DEFINITION"
	UsageBusinessLogic     UsageType = "BUSINESS_LOGIC"
	UsageClientOperation   UsageType = "CLIENT_OPERATION"
	UsageSchemaReference   UsageType = "SCHEMA_REFERENCE"
	UsageWeakIndicator     UsageType = "WEAK_INDICATOR"
)

// RiskLevel is the final classification of a model's likely-usage status.
type RiskLevel string

const (
	RiskSafe             RiskLevel = "SAFE"
	RiskProbablySafe     RiskLevel = "PROBABLY_SAFE"
	RiskSuspicious       RiskLevel = "SUSPICIOUS"
	RiskLikelyUnused     RiskLevel = "LIKELY_UNUSED"
	RiskDefinitelyUnused RiskLevel = "DEFINITELY_UNUSED"
)

// AtRisk reports whether the level marks a model as a removal candidate.
func (r RiskLevel) AtRisk() bool {
	switch r {
	case RiskSuspicious, RiskLikelyUnused, RiskDefinitelyUnused:
		return true
	}
	return false
}

// Area classifies a source file as belonging to the server or client tree.
type Area string

const (
	AreaServer Area = "server"
	AreaClient Area = "client"
)

// SourceFile is one candidate file produced by the walker: an absolute
// path plus its area classification.
type SourceFile struct {
	Path string `json:"path"`
	Area Area   `json:"area"`
}

// UsageSignal is the result of one detector tier against one (model, file)
// pair. Confidence is the tier's flat weight, independent of match count.
type UsageSignal struct {
	Type       UsageType `json:"type"`
	Matches    int       `json:"matches"`
	Confidence int       `json:"confidence"`
	Examples   []string  `json:"examples,omitempty"`
}

// FileAnalysis aggregates all tier signals for one model in one file.
// It is only produced when at least one tier matched.
type FileAnalysis struct {
	Path       string        `json:"path"`
	Area       Area          `json:"area"`
	UsageTypes []UsageType   `json:"usageTypes"`
	Matches    int           `json:"matches"`
	Confidence int           `json:"confidence"`
	Signals    []UsageSignal `json:"signals"`
}

// ModelUsage is the aggregated verdict for a single model across all files.
type ModelUsage struct {
	Model       string          `json:"model"`
	Confidence  int             `json:"confidence"`
	TotalFiles  int             `json:"totalFiles"`
	ServerFiles int             `json:"serverFiles"`
	ClientFiles int             `json:"clientFiles"`
	UsageTypes  []UsageType     `json:"usageTypes"`
	Files       []*FileAnalysis `json:"files,omitempty"`
	IsUsed      bool            `json:"isUsed"`
	Risk        RiskLevel       `json:"risk"`
}

// HasUsage reports whether the model's aggregated tag set contains t.
func (u *ModelUsage) HasUsage(t UsageType) bool {
	for _, ut := range u.UsageTypes {
		if ut == t {
			return true
		}
	}
	return false
}

// AuditEntry is the relationship auditor's verdict for one at-risk model.
type AuditEntry struct {
	Model        string    `json:"model"`
	Risk         RiskLevel `json:"risk"`
	ReferencedBy []string  `json:"referencedBy"`
	Danger       bool      `json:"danger"`
}

// Result is the full output of one analysis run: one ModelUsage per
// declared model (in schema order) and the relationship audit of every
// at-risk model.
type Result struct {
	Order  []string               `json:"order"`
	Models map[string]*ModelUsage `json:"models"`
	Audit  map[string]*AuditEntry `json:"audit"`
}

// Usages returns the per-model results in schema declaration order.
func (r *Result) Usages() []*ModelUsage {
	out := make([]*ModelUsage, 0, len(r.Order))
	for _, name := range r.Order {
		if u, ok := r.Models[name]; ok {
			out = append(out, u)
		}
	}
	return out
}
