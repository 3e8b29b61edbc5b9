package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/schemaprune/internal/analyzer"
)

func sampleResult() *analyzer.Result {
	return &analyzer.Result{
		Order: []string{"Widget", "Order", "Legacy"},
		Models: map[string]*analyzer.ModelUsage{
			"Widget": {
				Model:       "Widget",
				Confidence:  75,
				TotalFiles:  3,
				ServerFiles: 2,
				ClientFiles: 1,
				UsageTypes:  []analyzer.UsageType{analyzer.UsageDatabaseOperation, analyzer.UsageTypeDefinition},
				IsUsed:      true,
				Risk:        analyzer.RiskSafe,
			},
			"Order": {
				Model:      "Order",
				Confidence: 25,
				TotalFiles: 1,
				UsageTypes: []analyzer.UsageType{analyzer.UsageTypeDefinition},
				IsUsed:     true,
				Risk:       analyzer.RiskSuspicious,
			},
			"Legacy": {
				Model: "Legacy",
				Risk:  analyzer.RiskDefinitelyUnused,
			},
		},
		Audit: map[string]*analyzer.AuditEntry{
			"Order": {
				Model:        "Order",
				Risk:         analyzer.RiskSuspicious,
				ReferencedBy: []string{"Widget"},
				Danger:       true,
			},
			"Legacy": {
				Model: "Legacy",
				Risk:  analyzer.RiskDefinitelyUnused,
			},
		},
	}
}

func TestBuildPreservesOrderAndCounts(t *testing.T) {
	doc := Build(sampleResult(), Meta{
		SchemaPath:   "prisma/schema.prisma",
		Mode:         analyzer.ModeTiered,
		FilesScanned: 12,
	})

	require.Len(t, doc.Models, 3)
	assert.Equal(t, "Widget", doc.Models[0].Model)
	assert.Equal(t, "Order", doc.Models[1].Model)
	assert.Equal(t, "Legacy", doc.Models[2].Model)

	assert.Equal(t, "prisma/schema.prisma", doc.SchemaPath)
	assert.Equal(t, "tiered", doc.Mode)
	assert.Equal(t, 12, doc.FilesScanned)
	assert.False(t, doc.GeneratedAt.IsZero())

	assert.Equal(t, 1, doc.Summary[analyzer.RiskSafe])
	assert.Equal(t, 1, doc.Summary[analyzer.RiskSuspicious])
	assert.Equal(t, 1, doc.Summary[analyzer.RiskDefinitelyUnused])

	// Audit entries follow model order: Order before Legacy.
	require.Len(t, doc.Audit, 2)
	assert.Equal(t, "Order", doc.Audit[0].Model)
	assert.Equal(t, "Legacy", doc.Audit[1].Model)
}

func TestWriteJSONRoundTrips(t *testing.T) {
	doc := Build(sampleResult(), Meta{SchemaPath: "s.prisma", Mode: analyzer.ModeStrict})

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, doc))

	var decoded Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "strict", decoded.Mode)
	require.Len(t, decoded.Models, 3)
	assert.Equal(t, analyzer.RiskSafe, decoded.Models[0].Risk)
	assert.True(t, decoded.Audit[0].Danger)
}

func TestRenderSummary(t *testing.T) {
	doc := Build(sampleResult(), Meta{FilesScanned: 12})

	var buf bytes.Buffer
	RenderSummary(&buf, doc, false)
	out := buf.String()

	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "SAFE")
	assert.Contains(t, out, "DATABASE_OPERATION, TYPE_DEFINITION")
	assert.Contains(t, out, "3 models, 12 files scanned")
	assert.Contains(t, out, "SUSPICIOUS: 1")
}

func TestRenderSummaryMarkdown(t *testing.T) {
	doc := Build(sampleResult(), Meta{})

	var buf bytes.Buffer
	RenderSummary(&buf, doc, true)

	assert.Contains(t, buf.String(), "| Widget |")
}

func TestRenderAudit(t *testing.T) {
	doc := Build(sampleResult(), Meta{})

	var buf bytes.Buffer
	RenderAudit(&buf, doc, false)
	out := buf.String()

	assert.Contains(t, out, "Order")
	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "YES")
}

func TestRenderAuditEmpty(t *testing.T) {
	doc := &Document{}

	var buf bytes.Buffer
	RenderAudit(&buf, doc, false)

	assert.Contains(t, buf.String(), "No at-risk models to audit.")
}

func TestRenderDetail(t *testing.T) {
	u := &analyzer.ModelUsage{
		Model:      "Widget",
		Risk:       analyzer.RiskSafe,
		Confidence: 40,
		IsUsed:     true,
		Files: []*analyzer.FileAnalysis{
			{
				Path:       "/srv/api/widgets.ts",
				Area:       analyzer.AreaServer,
				Confidence: 40,
				Matches:    2,
				Signals: []analyzer.UsageSignal{
					{
						Type:       analyzer.UsageDatabaseOperation,
						Matches:    2,
						Confidence: 40,
						Examples:   []string{"prisma.widget.findMany("},
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	RenderDetail(&buf, u)
	out := buf.String()

	assert.Contains(t, out, "Widget: SAFE (confidence 40, used=true)")
	assert.Contains(t, out, "/srv/api/widgets.ts [server]")
	assert.Contains(t, out, "DATABASE_OPERATION")
	assert.Contains(t, out, "e.g. prisma.widget.findMany(")
}
