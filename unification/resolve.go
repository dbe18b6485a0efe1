package unification

import "fmt"

// UnresolvedVariableError is returned from ResolveMono when the table's
// final mapping for a variable is still another variable rather than a
// concrete value.
type UnresolvedVariableError struct {
	Var Var
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("unresolved unification variable %s", e.Var)
}

// Resolve walks vv to its canonical representation using the map returned
// by Table.Unify, applying walk to any concrete value reached so the client
// can recursively resolve nested variables of its own compound type.
func Resolve[T any](vv ValueOrVar[T], table map[Var]ValueOrVar[T], walk func(T, map[Var]ValueOrVar[T]) T) ValueOrVar[T] {
	if value, ok := vv.Value(); ok {
		return Val(walk(value, table))
	}
	v, _ := vv.Var()
	switch resolved := table[v]; {
	case resolved.isVar:
		return resolved
	default:
		return Val(walk(resolved.value, table))
	}
}

// ResolveMono is Resolve's monomorphic counterpart: it fails with
// UnresolvedVariableError if vv ultimately resolves to a variable rather
// than a concrete value.
func ResolveMono[T any](
	vv ValueOrVar[T],
	table map[Var]ValueOrVar[T],
	walk func(T, map[Var]ValueOrVar[T]) (T, error),
) (T, error) {
	if value, ok := vv.Value(); ok {
		return walk(value, table)
	}
	v, _ := vv.Var()
	resolved := table[v]
	if resolved.isVar {
		var zero T
		return zero, &UnresolvedVariableError{Var: resolved.v}
	}
	return walk(resolved.value, table)
}
