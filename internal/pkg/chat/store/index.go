package store

import "sort"

// index keeps values ordered by key in a sorted slice. Duplicate keys are
// allowed and preserve insertion order among themselves, so iteration over
// a creation-time index yields entities in the order they were added.
type index[K any, V any] struct {
	cmp  func(a, b K) int
	keys []K
	vals []V
}

func newIndex[K any, V any](cmp func(a, b K) int) *index[K, V] {
	return &index[K, V]{cmp: cmp}
}

func (ix *index[K, V]) len() int {
	return len(ix.keys)
}

// upperBound returns the first position whose key orders strictly after k.
func (ix *index[K, V]) upperBound(k K) int {
	return sort.Search(len(ix.keys), func(i int) bool { return ix.cmp(ix.keys[i], k) > 0 })
}

// lowerBound returns the first position whose key orders at or after k.
func (ix *index[K, V]) lowerBound(k K) int {
	return sort.Search(len(ix.keys), func(i int) bool { return ix.cmp(ix.keys[i], k) >= 0 })
}

func (ix *index[K, V]) insert(k K, v V) {
	at := ix.upperBound(k)
	var zk K
	var zv V
	ix.keys = append(ix.keys, zk)
	ix.vals = append(ix.vals, zv)
	copy(ix.keys[at+1:], ix.keys[at:])
	copy(ix.vals[at+1:], ix.vals[at:])
	ix.keys[at] = k
	ix.vals[at] = v
}

// first returns the earliest-inserted value stored under k.
func (ix *index[K, V]) first(k K) (V, bool) {
	at := ix.lowerBound(k)
	if at < len(ix.keys) && ix.cmp(ix.keys[at], k) == 0 {
		return ix.vals[at], true
	}
	var zero V
	return zero, false
}

// between returns every value whose key falls in [start, end).
func (ix *index[K, V]) between(start, end K) []V {
	lo := ix.lowerBound(start)
	hi := ix.lowerBound(end)
	if hi < lo {
		return nil
	}
	out := make([]V, hi-lo)
	copy(out, ix.vals[lo:hi])
	return out
}

// ascend walks values in key order starting at the lower bound of from,
// stopping when fn returns false.
func (ix *index[K, V]) ascend(from K, fn func(k K, v V) bool) {
	for at := ix.lowerBound(from); at < len(ix.keys); at++ {
		if !fn(ix.keys[at], ix.vals[at]) {
			return
		}
	}
}

// all returns every value in key order.
func (ix *index[K, V]) all() []V {
	out := make([]V, len(ix.vals))
	copy(out, ix.vals)
	return out
}
