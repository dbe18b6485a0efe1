package unification

// ValueOrVar is a tagged union of either a concrete client value or a
// unification variable. Constraints are pairs of these, and Table.Unify
// returns every table variable mapped to one.
type ValueOrVar[T any] struct {
	value T
	v     Var
	isVar bool
}

// Val wraps a concrete value.
func Val[T any](value T) ValueOrVar[T] {
	return ValueOrVar[T]{value: value}
}

// VarOf wraps a unification variable.
func VarOf[T any](v Var) ValueOrVar[T] {
	return ValueOrVar[T]{v: v, isVar: true}
}

// IsVar reports whether this wraps a variable rather than a value.
func (vv ValueOrVar[T]) IsVar() bool {
	return vv.isVar
}

// Var returns the wrapped variable, if any.
func (vv ValueOrVar[T]) Var() (Var, bool) {
	if vv.isVar {
		return vv.v, true
	}
	return 0, false
}

// Value returns the wrapped concrete value, if any.
func (vv ValueOrVar[T]) Value() (T, bool) {
	if vv.isVar {
		var zero T
		return zero, false
	}
	return vv.value, true
}
