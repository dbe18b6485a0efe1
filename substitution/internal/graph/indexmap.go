package graph

// Index is the dense, auto-incrementing handle Tarjan assigns to a node the
// first time it is visited. The key invariant the algorithm depends on: for
// any two nodes, whichever was visited first holds the lower Index.
type Index int

func (i Index) intoRoot() Root { return Root(i) }

// Root names a node via its Index when that node is being considered as a
// candidate lowlink root, to keep the two usages of a bare int from being
// interchanged by accident.
type Root int

// indexMap assigns and remembers Indexes for nodes as Tarjan first visits
// them.
type indexMap[Node comparable] struct {
	nextIndex int
	forward   map[Node]Index
	backward  map[Index]Node
}

func newIndexMap[Node comparable]() *indexMap[Node] {
	return &indexMap[Node]{
		forward:  map[Node]Index{},
		backward: map[Index]Node{},
	}
}

func (m *indexMap[Node]) contains(node Node) bool {
	_, ok := m.forward[node]
	return ok
}

// get returns the Index assigned to node. Panics if node is unknown.
func (m *indexMap[Node]) get(node Node) Index {
	idx, ok := m.forward[node]
	if !ok {
		panic("Get called on unknown node")
	}
	return idx
}

// lookup is get's inverse. Panics if idx was never assigned.
func (m *indexMap[Node]) lookup(idx Index) Node {
	node, ok := m.backward[idx]
	if !ok {
		panic("Lookup called on unknown node")
	}
	return node
}

// insert assigns node a fresh Index. Panics if node already has one.
func (m *indexMap[Node]) insert(node Node) Index {
	if m.contains(node) {
		panic("Cannot insert the same node twice")
	}
	idx := Index(m.nextIndex)
	m.nextIndex++
	m.forward[node] = idx
	m.backward[idx] = node
	return idx
}
