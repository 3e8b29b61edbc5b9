// Package graph provides the directed reference graph over declared model
// relationships. It backs the relationship auditor's reverse lookups and
// cycle reporting in the audit command.
package graph

import "sort"

// Graph is a directed graph of model references. An edge from A to B means
// model A declares a relationship targeting model B.
type Graph struct {
	nodes     map[string]struct{}
	refs      map[string][]string // model -> models it references
	refedBy   map[string][]string // model -> models referencing it
	nodeOrder []string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:   make(map[string]struct{}),
		refs:    make(map[string][]string),
		refedBy: make(map[string][]string),
	}
}

// AddNode registers a model. Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) {
	if _, exists := g.nodes[name]; exists {
		return
	}
	g.nodes[name] = struct{}{}
	g.nodeOrder = append(g.nodeOrder, name)
}

// AddEdge records that from declares a relationship targeting to. Both
// nodes are created if missing; duplicate edges are collapsed.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	for _, existing := range g.refs[from] {
		if existing == to {
			return
		}
	}
	g.refs[from] = append(g.refs[from], to)
	g.refedBy[to] = append(g.refedBy[to], from)
}

// References returns the models that name declares relationships to.
func (g *Graph) References(name string) []string {
	return append([]string(nil), g.refs[name]...)
}

// ReferencedBy returns the models that declare a relationship targeting
// name. This is the single-hop reverse lookup the auditor relies on.
func (g *Graph) ReferencedBy(name string) []string {
	return append([]string(nil), g.refedBy[name]...)
}

// Nodes returns all model names in insertion order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.nodeOrder...)
}

// NodeCount returns the number of models in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct reference edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, targets := range g.refs {
		n += len(targets)
	}
	return n
}

// Cycles finds the strongly-entangled reference groups: every cycle of
// declared relationships, reported as a sorted member list. Mutual
// references are legal in a schema; the audit command surfaces them as
// informational context when judging removal order.
func (g *Graph) Cycles() [][]string {
	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[string]int, len(g.nodes))
	stack := []string{}
	var cycles [][]string

	var visit func(name string)
	visit = func(name string) {
		state[name] = inStack
		stack = append(stack, name)
		for _, target := range g.refs[name] {
			switch state[target] {
			case unvisited:
				visit(target)
			case inStack:
				// Slice the current stack from the first occurrence of
				// target to close the cycle.
				for i, member := range stack {
					if member == target {
						cycle := append([]string(nil), stack[i:]...)
						sort.Strings(cycle)
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
	}

	for _, name := range g.nodeOrder {
		if state[name] == unvisited {
			visit(name)
		}
	}
	return dedupeCycles(cycles)
}

func dedupeCycles(cycles [][]string) [][]string {
	seen := make(map[string]bool, len(cycles))
	var out [][]string
	for _, c := range cycles {
		key := ""
		for _, m := range c {
			key += m + "\x00"
		}
		if !seen[key] {
			seen[key] = true
			out = append(out, c)
		}
	}
	return out
}
