package graph

// tarjan runs Tarjan's strongly connected component algorithm over a Graph
// via plain recursive depth-first search, collecting each component eagerly
// into a slice as it's discovered rather than streaming them out one at a
// time. The dependency table only ever needs the full set of components up
// front to rewrite the graph, so there's nothing to gain from a lazy
// producer here.
type tarjan[Node comparable] struct {
	graph      *Graph[Node]
	indexMap   *indexMap[Node]
	stack      *stack
	lowlink    *lowlink
	components []map[Node]struct{}
}

func runTarjan[Node comparable](g *Graph[Node]) []map[Node]struct{} {
	t := &tarjan[Node]{
		graph:    g,
		indexMap: newIndexMap[Node](),
		stack:    newStack(g.Size()),
		lowlink:  newLowlink(g.Size()),
	}
	for _, node := range g.Nodes() {
		if !t.indexMap.contains(node) {
			t.visit(node)
		}
	}
	return t.components
}

func (t *tarjan[Node]) visit(node Node) Index {
	// This is only ever called on a node with no Index yet; everything past
	// this point addresses the node via the Index it's just been given.
	index := t.indexMap.insert(node)
	t.stack.push(index)
	t.lowlink.set(index, index.intoRoot())

	for _, child := range t.graph.Children(node) {
		if !t.indexMap.contains(child) {
			childIndex := t.visit(child)
			t.lowlink.update(index, t.lowlink.get(childIndex))
		} else if childIndex := t.indexMap.get(child); t.stack.contains(childIndex) {
			// child is already on the stack, so it's also an ancestor of
			// node and potentially a better root for node's component.
			t.lowlink.update(index, Root(childIndex))
		}
	}

	// If node is still its own lowlink root after exploring every child,
	// everything above it on the stack belongs to the same component.
	if t.lowlink.isRoot(index) {
		popped := t.stack.popUntil(index)
		component := make(map[Node]struct{}, len(popped))
		for _, idx := range popped {
			component[t.indexMap.lookup(idx)] = struct{}{}
		}
		t.components = append(t.components, component)
	}

	return index
}
