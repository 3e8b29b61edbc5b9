package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddEdgeCreatesNodesAndDeduplicates(t *testing.T) {
	g := New()
	g.AddEdge("OrderItem", "Order")
	g.AddEdge("OrderItem", "Order")
	g.AddEdge("OrderItem", "Product")

	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, []string{"Order", "Product"}, g.References("OrderItem"))
}

func TestReferencedByIsSingleHop(t *testing.T) {
	g := New()
	g.AddEdge("B", "A")
	g.AddEdge("C", "B")

	assert.Equal(t, []string{"B"}, g.ReferencedBy("A"))
	assert.Equal(t, []string{"C"}, g.ReferencedBy("B"))
	assert.Empty(t, g.ReferencedBy("C"))
}

func TestNodesPreserveInsertionOrder(t *testing.T) {
	g := New()
	g.AddNode("Widget")
	g.AddNode("Order")
	g.AddNode("Widget")
	g.AddEdge("Order", "Customer")

	assert.Equal(t, []string{"Widget", "Order", "Customer"}, g.Nodes())
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	g := New()
	g.AddEdge("A", "B")

	refs := g.References("A")
	refs[0] = "mutated"
	assert.Equal(t, []string{"B"}, g.References("A"))
}

func TestCyclesNoneInDAG(t *testing.T) {
	g := New()
	g.AddEdge("C", "B")
	g.AddEdge("B", "A")
	g.AddEdge("C", "A")

	assert.Empty(t, g.Cycles())
}

func TestCyclesFindsMutualReference(t *testing.T) {
	g := New()
	g.AddEdge("User", "Profile")
	g.AddEdge("Profile", "User")
	g.AddEdge("User", "Account")

	cycles := g.Cycles()
	assert.Equal(t, [][]string{{"Profile", "User"}}, cycles)
}

func TestCyclesSelfReference(t *testing.T) {
	g := New()
	g.AddEdge("Category", "Category")

	assert.Equal(t, [][]string{{"Category"}}, g.Cycles())
}

func TestCyclesDeduplicated(t *testing.T) {
	// A three-node ring discovered from any entry point reports once.
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")
	g.AddEdge("C", "A")

	cycles := g.Cycles()
	assert.Equal(t, [][]string{{"A", "B", "C"}}, cycles)
}
