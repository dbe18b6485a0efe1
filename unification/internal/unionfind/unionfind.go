// Package unionfind is the external union-find primitive the unification
// table is built on: an array-backed disjoint-set forest where every node
// additionally carries an optional value, and "fresh since" queries reduce to
// remembering the length at the moment of the snapshot.
//
// It is not a general-purpose union-find (see
// 53d8ef79_google-mangle__unionfind-unionfind.go.go for a map-keyed
// variant aimed at term rewriting); this one is purpose-built for the dense,
// monotonically-allocated integer keys the unification table hands out.
package unionfind

// Key identifies a node in the forest. Keys are allocated densely starting
// at 0 and are never reused.
type Key int

// Snapshot records the forest's size at a moment in time, letting a caller
// later enumerate every Key allocated since via KeysSince.
type Snapshot struct {
	size int
}

// Table is a union-find forest of nodes of type T.
type Table[T any] struct {
	parent []Key
	value  []*T
}

// New returns an empty table.
func New[T any]() *Table[T] {
	return &Table[T]{}
}

// NewKey allocates a fresh node. If value is non-nil the node starts out
// already resolved to that value; otherwise it starts as its own root with
// no value.
func (t *Table[T]) NewKey(value *T) Key {
	k := Key(len(t.parent))
	t.parent = append(t.parent, k)
	t.value = append(t.value, value)
	return k
}

// Snapshot records the table's current size.
func (t *Table[T]) Snapshot() Snapshot {
	return Snapshot{size: len(t.parent)}
}

// KeysSince enumerates every Key allocated after s was taken, as a
// contiguous range in allocation order.
func (t *Table[T]) KeysSince(s Snapshot) []Key {
	keys := make([]Key, 0, len(t.parent)-s.size)
	for i := s.size; i < len(t.parent); i++ {
		keys = append(keys, Key(i))
	}
	return keys
}

// Find returns the representative (root) of key's equivalence class,
// compressing the path from key to the root as it goes.
func (t *Table[T]) Find(key Key) Key {
	root := key
	for t.parent[root] != root {
		root = t.parent[root]
	}
	for key != root {
		next := t.parent[key]
		t.parent[key] = root
		key = next
	}
	return root
}

// ProbeValue returns the value attached to key's class, if any, without
// forcing any further resolution.
func (t *Table[T]) ProbeValue(key Key) (*T, bool) {
	root := t.Find(key)
	if v := t.value[root]; v != nil {
		return v, true
	}
	return nil, false
}

// Union merges the equivalence classes of a and b. If both classes carry a
// value, merge is invoked to combine them (and may fail); if exactly one
// does, that value is promoted to the merged class. Tie-breaking between
// roots is deterministic: the lower-numbered root survives.
func (t *Table[T]) Union(a, b Key, merge func(T, T) (T, error)) error {
	aRoot, bRoot := t.Find(a), t.Find(b)
	if aRoot == bRoot {
		return nil
	}
	survivor, absorbed := aRoot, bRoot
	if survivor > absorbed {
		survivor, absorbed = absorbed, survivor
	}

	aVal, bVal := t.value[aRoot], t.value[bRoot]
	switch {
	case aVal != nil && bVal != nil:
		merged, err := merge(*aVal, *bVal)
		if err != nil {
			return err
		}
		t.value[survivor] = &merged
	case aVal != nil:
		t.value[survivor] = aVal
	case bVal != nil:
		t.value[survivor] = bVal
	}
	t.value[absorbed] = nil
	t.parent[absorbed] = survivor
	return nil
}

// UnionValue merges key's class with a singleton class carrying value. If
// key's class already has a value, merge combines the two (and may fail).
func (t *Table[T]) UnionValue(key Key, value T, merge func(T, T) (T, error)) error {
	root := t.Find(key)
	if existing := t.value[root]; existing != nil {
		merged, err := merge(*existing, value)
		if err != nil {
			return err
		}
		t.value[root] = &merged
		return nil
	}
	t.value[root] = &value
	return nil
}
