// Package report renders and exports analysis results. It is a pure
// consumer of the analyzer's output maps and carries no analysis logic.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/schemaprune/internal/analyzer"
)

// Document is the serializable form of one analysis run.
type Document struct {
	GeneratedAt  time.Time                  `json:"generatedAt"`
	SchemaPath   string                     `json:"schemaPath"`
	Mode         string                     `json:"mode"`
	FilesScanned int                        `json:"filesScanned"`
	Models       []*analyzer.ModelUsage     `json:"models"`
	Audit        []*analyzer.AuditEntry     `json:"audit"`
	Summary      map[analyzer.RiskLevel]int `json:"summary"`
}

// Meta carries run metadata the analyzer itself does not know.
type Meta struct {
	SchemaPath   string
	Mode         analyzer.Mode
	FilesScanned int
}

// Build assembles a document from an analysis result. Models keep schema
// declaration order; audit entries follow the same order.
func Build(result *analyzer.Result, meta Meta) *Document {
	doc := &Document{
		GeneratedAt:  time.Now().UTC(),
		SchemaPath:   meta.SchemaPath,
		Mode:         string(meta.Mode),
		FilesScanned: meta.FilesScanned,
		Models:       result.Usages(),
		Summary:      make(map[analyzer.RiskLevel]int),
	}
	for _, u := range doc.Models {
		doc.Summary[u.Risk]++
		if entry, ok := result.Audit[u.Model]; ok {
			doc.Audit = append(doc.Audit, entry)
		}
	}
	return doc
}

// WriteJSON writes the document as indented JSON.
func WriteJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// RenderSummary writes the per-model classification table.
func RenderSummary(w io.Writer, doc *Document, markdown bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Model", "Risk", "Confidence", "Files", "Server", "Client", "Evidence"})

	for _, u := range doc.Models {
		t.AppendRow(table.Row{
			u.Model,
			string(u.Risk),
			u.Confidence,
			u.TotalFiles,
			u.ServerFiles,
			u.ClientFiles,
			usageTypeList(u.UsageTypes),
		})
	}

	if markdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}

	fmt.Fprintf(w, "\n%d models, %d files scanned", len(doc.Models), doc.FilesScanned)
	for _, risk := range []analyzer.RiskLevel{
		analyzer.RiskSafe,
		analyzer.RiskProbablySafe,
		analyzer.RiskSuspicious,
		analyzer.RiskLikelyUnused,
		analyzer.RiskDefinitelyUnused,
	} {
		if n := doc.Summary[risk]; n > 0 {
			fmt.Fprintf(w, " | %s: %d", risk, n)
		}
	}
	fmt.Fprintln(w)
}

// RenderAudit writes the relationship audit table for at-risk models.
func RenderAudit(w io.Writer, doc *Document, markdown bool) {
	if len(doc.Audit) == 0 {
		fmt.Fprintln(w, "No at-risk models to audit.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Model", "Risk", "Referenced By", "Danger"})

	for _, entry := range doc.Audit {
		refs := strings.Join(entry.ReferencedBy, ", ")
		if refs == "" {
			refs = "-"
		}
		danger := ""
		if entry.Danger {
			danger = "YES"
		}
		t.AppendRow(table.Row{entry.Model, string(entry.Risk), refs, danger})
	}

	if markdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
}

// RenderDetail writes the per-file evidence for a single model.
func RenderDetail(w io.Writer, u *analyzer.ModelUsage) {
	fmt.Fprintf(w, "%s: %s (confidence %d, used=%v)\n", u.Model, u.Risk, u.Confidence, u.IsUsed)
	for _, fa := range u.Files {
		fmt.Fprintf(w, "  %s [%s] confidence=%d matches=%d\n", fa.Path, fa.Area, fa.Confidence, fa.Matches)
		for _, sig := range fa.Signals {
			fmt.Fprintf(w, "    %-20s x%d", sig.Type, sig.Matches)
			if len(sig.Examples) > 0 {
				fmt.Fprintf(w, "  e.g. %s", sig.Examples[0])
			}
			fmt.Fprintln(w)
		}
	}
}

func usageTypeList(types []analyzer.UsageType) string {
	if len(types) == 0 {
		return "-"
	}
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
