// Package unification implements a union-find-backed unification table: the
// classical Hindley-Milner engine kernel. Clients allocate fresh variables,
// queue constraints between values and variables, and drain the table once
// to get back a resolved mapping from every variable to its representative.
//
// The table never inspects the shape of a client's value type; all
// structural decomposition (e.g. "two function types unify iff their
// argument and return types unify") is driven by the client's UnifyFunc,
// invoked once per queued constraint.
package unification

import (
	"github.com/m-mizutani/goerr"

	"github.com/lirlia/100day_challenge_backend/pelican/unification/internal/unionfind"
)

// Value is the contract a client's concrete value type must satisfy: merging
// two values of the same equivalence class into one, or failing.
type Value[T any] interface {
	Merge(other T) (T, error)
}

// UnifyFunc drives structural unification of two ValueOrVars. It is invoked
// once per queued constraint, in insertion order, and is expected to
// recursively decompose compound values down to variable-variable,
// variable-value, or value-value cases and drive the Unifier accordingly.
type UnifyFunc[T Value[T]] func(left, right ValueOrVar[T], u *Unifier[T]) error

// Table is a unification table over values of type T. The zero value is not
// usable; construct one with NewTable.
type Table[T Value[T]] struct {
	uf          *unionfind.Table[T]
	clean       unionfind.Snapshot
	constraints []constraintPair[T]
	unify       UnifyFunc[T]
}

type constraintPair[T Value[T]] struct {
	left, right ValueOrVar[T]
}

// NewTable constructs an empty table driven by the given structural
// unification callback.
func NewTable[T Value[T]](unify UnifyFunc[T]) *Table[T] {
	uf := unionfind.New[T]()
	return &Table[T]{
		uf:    uf,
		clean: uf.Snapshot(),
		unify: unify,
	}
}

// Var allocates a fresh unification variable.
func (t *Table[T]) Var() Var {
	return Var(t.uf.NewKey(nil))
}

// Constraint defers the structural unification of left and right until
// Unify is called. Order is preserved.
func (t *Table[T]) Constraint(left, right ValueOrVar[T]) {
	t.constraints = append(t.constraints, constraintPair[T]{left, right})
}

// Unify consumes the table: it drains the constraint queue through the
// client's UnifyFunc and returns every variable allocated since the table
// was created mapped to its resolved representative, which is either a
// concrete value or the canonical variable of its equivalence class. Any
// client error aborts the solve; partial union-find state is discarded with
// the table.
func (t *Table[T]) Unify() (map[Var]ValueOrVar[T], error) {
	vars := t.uf.KeysSince(t.clean)
	constraints := t.constraints
	t.constraints = nil

	u := &Unifier[T]{table: t}
	for i, c := range constraints {
		if err := t.unify(c.left, c.right, u); err != nil {
			return nil, goerr.Wrap(err, "failed to unify constraint").With("index", i)
		}
	}

	result := make(map[Var]ValueOrVar[T], len(vars))
	for _, k := range vars {
		v := Var(k)
		result[v] = u.Probe(v)
	}
	return result, nil
}

// Unifier is handed to UnifyFunc to let it communicate with the engine.
type Unifier[T Value[T]] struct {
	table *Table[T]
}

// Probe looks up the current value of v. If v's class already carries a
// concrete value that is returned; otherwise the canonical representative
// variable of the class is returned, which may differ from v. Probe never
// walks into a returned compound value — the core holds no structural
// assumptions, so an occurs-check failure by the client is the only thing
// that can turn repeated probing into infinite recursion, and that recursion
// happens in client code, not here.
func (u *Unifier[T]) Probe(v Var) ValueOrVar[T] {
	if val, ok := u.table.uf.ProbeValue(unionfind.Key(v)); ok {
		return Val(*val)
	}
	return VarOf[T](Var(u.table.uf.Find(unionfind.Key(v))))
}

// UnifyVarVar merges the equivalence classes of left and right. If both
// classes carry values, merge combines them; if exactly one does, that
// value is promoted to the merged class.
func (u *Unifier[T]) UnifyVarVar(left, right Var) error {
	return u.table.uf.Union(unionfind.Key(left), unionfind.Key(right), mergeValues[T])
}

// UnifyVarValue merges v's class with a singleton class carrying value. If
// v's class already has a value, merge combines the two.
func (u *Unifier[T]) UnifyVarValue(v Var, value T) error {
	return u.table.uf.UnionValue(unionfind.Key(v), value, mergeValues[T])
}

func mergeValues[T Value[T]](left, right T) (T, error) {
	return left.Merge(right)
}
