package analyzer

import (
	"github.com/leapstack-labs/schemaprune/internal/graph"
	"github.com/leapstack-labs/schemaprune/internal/schema"
)

// BuildReferenceGraph constructs the directed reference graph from the
// declared relationships of every model in the table.
func BuildReferenceGraph(models *schema.Table) *graph.Graph {
	g := graph.New()
	for _, m := range models.Models() {
		g.AddNode(m.Name)
		for _, rel := range m.Relationships {
			if _, declared := models.Get(rel.Model); declared {
				g.AddEdge(m.Name, rel.Model)
			}
		}
	}
	return g
}

// AuditRelationships inspects every model classified at risk and collects
// the models that reference it through declared relationships. The lookup
// is single-hop over declared relations, no transitive closure. Danger is
// raised when any referencing model is itself still in use: removing the
// at-risk model would break a live relation.
func AuditRelationships(models *schema.Table, usage map[string]*ModelUsage) map[string]*AuditEntry {
	g := BuildReferenceGraph(models)
	audit := make(map[string]*AuditEntry)

	for _, name := range models.Names() {
		u, ok := usage[name]
		if !ok || !u.Risk.AtRisk() {
			continue
		}
		entry := &AuditEntry{
			Model:        name,
			Risk:         u.Risk,
			ReferencedBy: g.ReferencedBy(name),
		}
		for _, ref := range entry.ReferencedBy {
			if refUsage, ok := usage[ref]; ok && !refUsage.Risk.AtRisk() {
				entry.Danger = true
				break
			}
		}
		audit[name] = entry
	}
	return audit
}
