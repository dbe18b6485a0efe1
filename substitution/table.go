// Package substitution implements an iterative substitution table: clients
// declare a set of known facts and a dependency graph between table entries,
// and Resolve drives the graph to a fixpoint, merging each entry's
// dependencies into its final value.
//
// Cycles in the dependency graph are handled by first collapsing every
// strongly connected component down to a single set of edges leaving the
// component plus one self-edge, so the iterative solver only ever needs to
// know how to resolve a direct self-dependency.
package substitution

import (
	"github.com/m-mizutani/goerr"

	"github.com/lirlia/100day_challenge_backend/pelican/substitution/internal/graph"
)

// Value is the contract a client's entry type must satisfy.
type Value[T any] interface {
	// Merge combines the values of two dependencies into a single
	// contribution toward this entry's value.
	Merge(other T) (T, error)
}

// CycleResolver is invoked when a table entry's only remaining dependency is
// itself, once every non-recursive dependency has already been folded into
// known. known is nil if the entry had no other dependencies at all.
type CycleResolver[T Value[T]] func(known *T) (T, error)

// Table is an iterative substitution table over entries of type T. The zero
// value is not usable; construct one with NewTable.
type Table[T Value[T]] struct {
	nextVar      int
	known        map[Var]T
	unknown      map[Var]map[Var]struct{}
	resolveCycle CycleResolver[T]
}

// NewTable constructs an empty table driven by the given cycle-resolution
// callback.
func NewTable[T Value[T]](resolveCycle CycleResolver[T]) *Table[T] {
	return &Table[T]{
		known:        map[Var]T{},
		unknown:      map[Var]map[Var]struct{}{},
		resolveCycle: resolveCycle,
	}
}

// Var allocates a fresh table entry.
func (t *Table[T]) Var() Var {
	v := Var(t.nextVar)
	t.nextVar++
	return v
}

// Fact records a known value for v. Facts supersede dependencies: recording
// one for v discards any dependencies previously declared for v, and any
// dependency declared for v afterward is silently ignored. Calling Fact
// twice for the same Var is a DuplicateFactError.
func (t *Table[T]) Fact(v Var, value T) error {
	if _, ok := t.known[v]; ok {
		return goerr.Wrap(&DuplicateFactError{Var: v}, "duplicate fact recorded").With("var", v)
	}
	t.known[v] = value
	delete(t.unknown, v)
	return nil
}

// Dependency records that v's value should incorporate dependsOn's. A no-op
// if v already has a fact recorded.
func (t *Table[T]) Dependency(v, dependsOn Var) {
	if _, ok := t.known[v]; ok {
		return
	}
	if t.unknown[v] == nil {
		t.unknown[v] = map[Var]struct{}{}
	}
	t.unknown[v][dependsOn] = struct{}{}
}

// Resolve consumes the table's declared facts and dependencies and drives
// every entry to a final value. It returns NoProgressError if a full pass
// over the remaining entries neither finalizes an entry nor folds in any
// newly known dependency. Every entry, including a Var that is only named as
// a dependency, is given a self-edge by preparePartials and so resolves
// through the CycleResolver once its other dependencies are known.
func (t *Table[T]) Resolve() (map[Var]T, error) {
	complete := make(map[Var]T, len(t.known))
	for v, value := range t.known {
		complete[v] = value
	}

	partials := preparePartials[T](t.unknown)

	for len(partials) > 0 {
		progress := false
		next := make(map[Var]*partial[T], len(partials))

		for v, p := range partials {
			if _, ok := complete[v]; ok {
				continue
			}

			outcome, err := p.tryResolve(complete, t.resolveCycle)
			if err != nil {
				return nil, err
			}

			if outcome.done {
				complete[v] = outcome.result
				progress = true
				continue
			}

			next[v] = p
			progress = progress || outcome.progressed
		}

		if !progress {
			return nil, goerr.Wrap(&NoProgressError{}, "no table entry made progress during a full pass")
		}
		partials = next
	}

	return complete, nil
}

// preparePartials collapses every strongly connected component of the
// dependency graph down to a uniform shape — a recursive self-edge plus one
// edge to each dependency reachable from outside the component — then
// returns one partial per Var ready for the iterative solve.
//
// Every node in a strongly connected component with no edges leaving it is,
// by definition, transitively dependent on every other node in the
// component and ultimately on itself, and there's no more information to be
// had: all such nodes must resolve to the same value. A component with
// outgoing edges is no different except that value also depends on whatever
// lies outside the component. Rewriting every member node identically avoids
// having to patch up incoming edges from outside the component afterward.
func preparePartials[T Value[T]](unknown map[Var]map[Var]struct{}) map[Var]*partial[T] {
	g := graph.New[Var]()
	for src, dsts := range unknown {
		g.AddEdges(src, dsts)
	}

	for _, component := range g.StronglyConnectedComponents() {
		allDependencies := map[Var]struct{}{}
		for node := range component {
			for _, child := range g.Children(node) {
				if _, inComponent := component[child]; !inComponent {
					allDependencies[child] = struct{}{}
				}
			}
		}
		for node := range component {
			g.DeleteOutgoingEdges(node)
			g.AddEdges(node, allDependencies)
			g.AddEdge(node, node)
		}
	}

	result := make(map[Var]*partial[T], g.Size())
	for _, v := range g.Nodes() {
		dependencies := map[Var]struct{}{}
		for _, child := range g.Children(v) {
			dependencies[child] = struct{}{}
		}
		recursive := false
		if _, ok := dependencies[v]; ok {
			recursive = true
			delete(dependencies, v)
		}
		result[v] = &partial[T]{recursive: recursive, dependencies: dependencies}
	}
	return result
}
