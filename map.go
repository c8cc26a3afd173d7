// Package tmap provides maps keyed by algebraic data types.
//
// A Map is built from a Codec describing the key type's structure as a
// shape; the backing store is a shape-generic trie, so keys sharing
// structure share trie paths. Sequence keys get genuine prefix-trie
// behavior for free. Maps are persistent values: every modifying
// operation returns a new Map and leaves its input untouched, sharing
// unmodified substructure. That also makes a Map safe to hand to other
// goroutines once built.
package tmap

import (
	"iter"

	"github.com/go-tries/tmap/shape"
	"github.com/go-tries/tmap/trie"
)

// Entry is a single key/value pair.
type Entry[K, V any] struct {
	Key K
	Val V
}

// Map associates keys of an algebraic type K with values of type V.
// Use New to create one; the zero Map has no codec and is unusable.
type Map[K, V any] struct {
	codec Codec[K]
	root  trie.Node
	size  int
}

// New returns a map over the key type described by codec, seeded with
// the given entries in order: a later entry overwrites an earlier one
// with the same key.
func New[K, V any](codec Codec[K], init ...Entry[K, V]) Map[K, V] {
	m := Map[K, V]{codec: codec}
	for _, e := range init {
		m = m.Set(e.Key, e.Val)
	}
	return m
}

// FromPairs is New with the entries as a slice.
func FromPairs[K, V any](codec Codec[K], pairs []Entry[K, V]) Map[K, V] {
	return New(codec, pairs...)
}

func (m Map[K, V]) Len() int {
	return m.size
}

// Empty is O(1): by the no-dead-branch invariant a trie with no values
// has no root at all.
func (m Map[K, V]) Empty() bool {
	return m.root == nil
}

func (m Map[K, V]) Get(key K) (V, bool) {
	v, ok := trie.Lookup(m.root, m.codec.Encode(key))
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// Set associates val with key and returns the updated map.
func (m Map[K, V]) Set(key K, val V) Map[K, V] {
	root, _, existed := trie.Insert(m.root, m.codec.Encode(key), val)
	m.root = root
	if !existed {
		m.size++
	}
	return m
}

// Del removes key and returns the updated map. Deleting an absent key
// returns the map unchanged.
func (m Map[K, V]) Del(key K) Map[K, V] {
	root, _, ok := trie.Delete(m.root, m.codec.Encode(key))
	if !ok {
		return m
	}
	m.root = root
	m.size--
	return m
}

// MapValues applies f to every value. The key set is unchanged.
func (m Map[K, V]) MapValues(f func(V) V) Map[K, V] {
	m.root = trie.MapValues(m.codec.Shape(), m.root, func(v any) any {
		return f(v.(V))
	})
	return m
}

// All iterates key/value pairs in the trie's deterministic traversal
// order, reconstructing keys through the codec.
func (m Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		trie.Walk(m.codec.Shape(), m.root, func(k shape.Key, v any) bool {
			return yield(m.codec.Decode(k), v.(V))
		})
	}
}

// Keys returns all keys in traversal order.
func (m Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.size)
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}

// Items returns all entries in traversal order.
func (m Map[K, V]) Items() []Entry[K, V] {
	items := make([]Entry[K, V], 0, m.size)
	for k, v := range m.All() {
		items = append(items, Entry[K, V]{k, v})
	}
	return items
}

// Merge unions two maps built from the same codec. Keys present in both
// get combine(a, b) with a taken from the receiver; keys present in one
// keep their value. There is no default combine policy. If combine
// panics the inputs are still valid, being persistent.
func (m Map[K, V]) Merge(other Map[K, V], combine func(a, b V) V) Map[K, V] {
	hits := 0
	root := trie.Merge(m.codec.Shape(), m.root, other.root, func(x, y any) any {
		hits++
		return combine(x.(V), y.(V))
	})
	return Map[K, V]{m.codec, root, m.size + other.size - hits}
}

// Equal reports whether both maps hold the same keys with eq-equal
// values. This is a structural comparison: the trie representation is
// canonical, so it cannot be fooled by operation history.
func (m Map[K, V]) Equal(other Map[K, V], eq func(a, b V) bool) bool {
	if m.size != other.size {
		return false
	}
	return trie.Equal(m.codec.Shape(), m.root, other.root, func(x, y any) bool {
		return eq(x.(V), y.(V))
	})
}
