// Package graph implements a small directed graph with a strongly connected
// components query, used internally by the substitution table to collapse
// dependency cycles before resolving them.
package graph

// Graph is a directed graph over comparable node identifiers. The zero value
// is not usable; construct one with New.
type Graph[Node comparable] struct {
	edges map[Node]map[Node]struct{}
}

// New returns an empty graph.
func New[Node comparable]() *Graph[Node] {
	return &Graph[Node]{edges: map[Node]map[Node]struct{}{}}
}

// AddEdge records a directed edge from start to end, implicitly adding both
// as nodes even if end has no outgoing edges of its own.
func (g *Graph[Node]) AddEdge(start, end Node) {
	if g.edges[start] == nil {
		g.edges[start] = map[Node]struct{}{}
	}
	g.edges[start][end] = struct{}{}
	if g.edges[end] == nil {
		g.edges[end] = map[Node]struct{}{}
	}
}

// AddEdges records an edge from start to every node in ends.
func (g *Graph[Node]) AddEdges(start Node, ends map[Node]struct{}) {
	for end := range ends {
		g.AddEdge(start, end)
	}
}

// DeleteOutgoingEdges removes every edge leaving node, leaving it as a
// childless node rather than removing it from the graph.
func (g *Graph[Node]) DeleteOutgoingEdges(node Node) {
	g.edges[node] = map[Node]struct{}{}
}

// Size returns the number of nodes in the graph.
func (g *Graph[Node]) Size() int { return len(g.edges) }

// Nodes returns every node in the graph, in no particular order.
func (g *Graph[Node]) Nodes() []Node {
	nodes := make([]Node, 0, len(g.edges))
	for n := range g.edges {
		nodes = append(nodes, n)
	}
	return nodes
}

// Children returns node's direct successors, in no particular order. A node
// with no recorded edges returns an empty slice.
func (g *Graph[Node]) Children(node Node) []Node {
	children := g.edges[node]
	out := make([]Node, 0, len(children))
	for c := range children {
		out = append(out, c)
	}
	return out
}

// StronglyConnectedComponents partitions the graph's nodes into their
// strongly connected components via Tarjan's algorithm.
func (g *Graph[Node]) StronglyConnectedComponents() []map[Node]struct{} {
	return runTarjan(g)
}
