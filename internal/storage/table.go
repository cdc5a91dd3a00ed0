package storage

import "slices"

// table holds the records of one entity kind keyed by id, remembering
// insertion order. Ids come from a counter that starts at 1 and never rewinds.
type table[T any] struct {
	rows  map[int]T
	order []int
	next  int
	clone func(T) T
}

func newTable[T any](clone func(T) T) *table[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &table[T]{
		rows:  make(map[int]T),
		next:  1,
		clone: clone,
	}
}

func (t *table[T]) allocate() int {
	id := t.next
	t.next++
	return id
}

func (t *table[T]) put(id int, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = t.clone(v)
}

func (t *table[T]) get(id int) (T, bool) {
	v, ok := t.rows[id]
	if !ok {
		return v, false
	}
	return t.clone(v), true
}

func (t *table[T]) remove(id int) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	if i := slices.Index(t.order, id); i >= 0 {
		t.order = slices.Delete(t.order, i, i+1)
	}
	return true
}

// filter returns copies of the records matching keep, in insertion order.
// A nil keep matches everything.
func (t *table[T]) filter(keep func(T) bool) []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		v := t.rows[id]
		if keep == nil || keep(v) {
			out = append(out, t.clone(v))
		}
	}
	return out
}

func (t *table[T]) all() []T {
	return t.filter(nil)
}

func (t *table[T]) len() int {
	return len(t.order)
}
