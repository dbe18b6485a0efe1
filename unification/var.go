package unification

import "fmt"

// Var is an opaque identifier for a unification variable. Two variables are
// equal iff their underlying integers match; identifiers are handed out by a
// monotonic per-table counter and are never reused.
type Var int

func (v Var) String() string {
	return fmt.Sprintf("Var(%d)", int(v))
}
