package substitution

import "fmt"

// DuplicateFactError is returned by Table.Fact when called twice for the
// same Var.
type DuplicateFactError struct {
	Var Var
}

func (e *DuplicateFactError) Error() string {
	return fmt.Sprintf("duplicate entry for %s in facts table", e.Var)
}

// NoProgressError is returned by Table.Resolve when a pass over every
// remaining partial result makes no progress at all, or when an entry with
// no self-dependency runs out of dependencies without a value. A Var that is
// only ever named as a dependency gets a self-edge like every other entry
// and resolves through the CycleResolver, so it does not cause this error.
type NoProgressError struct{}

func (e *NoProgressError) Error() string {
	return "substitution stopped making progress"
}
