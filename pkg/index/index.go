// Package index builds keyed lookups over fetched collections.
package index

// Index maps a key to the first item that produced it.
type Index[K comparable, V any] struct {
	m     map[K]V
	order []K
}

// By builds an Index over items using key. When two items share a key the
// later one wins, matching how the collections are keyed by id or characters.
func By[K comparable, V any](items []V, key func(V) K) *Index[K, V] {
	idx := &Index[K, V]{m: make(map[K]V, len(items))}
	for _, it := range items {
		k := key(it)
		if _, ok := idx.m[k]; !ok {
			idx.order = append(idx.order, k)
		}
		idx.m[k] = it
	}
	return idx
}

// Filtered builds an Index over the items accepted by keep.
func Filtered[K comparable, V any](items []V, key func(V) K, keep func(V) bool) *Index[K, V] {
	kept := make([]V, 0, len(items))
	for _, it := range items {
		if keep(it) {
			kept = append(kept, it)
		}
	}
	return By(kept, key)
}

// Get returns the item stored under k.
func (x *Index[K, V]) Get(k K) (V, bool) {
	v, ok := x.m[k]
	return v, ok
}

// Has reports whether k is present.
func (x *Index[K, V]) Has(k K) bool {
	_, ok := x.m[k]
	return ok
}

// Len returns the number of distinct keys.
func (x *Index[K, V]) Len() int { return len(x.m) }

// Keys returns the keys in first-insertion order.
func (x *Index[K, V]) Keys() []K {
	out := make([]K, len(x.order))
	copy(out, x.order)
	return out
}

// Set is a membership-only index.
type Set[K comparable] map[K]struct{}

// SetOf builds a Set from the keys of items.
func SetOf[K comparable, V any](items []V, key func(V) K) Set[K] {
	s := make(Set[K], len(items))
	for _, it := range items {
		s[key(it)] = struct{}{}
	}
	return s
}

// Has reports whether k is in the set.
func (s Set[K]) Has(k K) bool {
	_, ok := s[k]
	return ok
}

// Add inserts k.
func (s Set[K]) Add(k K) { s[k] = struct{}{} }
