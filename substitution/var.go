package substitution

import "fmt"

// Var identifies a table entry, used both to record facts and to declare
// dependency edges between entries.
type Var int

func (v Var) String() string {
	return fmt.Sprintf("Var(%d)", int(v))
}
