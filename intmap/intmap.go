// Package intmap implements a persistent sparse map keyed by uint64.
//
// The structure is a fixed-depth bitmap trie: eight levels of 256-way
// nodes, one per key byte, with popcount rank indexing into packed
// child slices. Modifying operations copy the nodes along the key's
// path and share everything else with the input map, so earlier map
// values stay valid. Iteration is in ascending numeric key order.
package intmap

import (
	"iter"
	"math/bits"

	"github.com/hideo55/go-popcount"
)

const topShift = 64 - 8

// node covers one key byte: 256 presence bits plus a slice packed in
// bitmap rank order. Inner levels fill kids, the last level fills vals.
// A node always has at least one bit set.
type node[V any] struct {
	bitmap [4]uint64
	kids   []*node[V]
	vals   []V
}

// Map is a persistent uint64-keyed map. The zero value is an empty map.
type Map[V any] struct {
	root *node[V]
	size int
}

func New[V any]() Map[V] {
	return Map[V]{}
}

func (m Map[V]) Len() int {
	return m.size
}

func (m Map[V]) IsEmpty() bool {
	return m.root == nil
}

func (m Map[V]) Get(key uint64) (val V, ok bool) {
	n := m.root
	if n == nil {
		return
	}
	for shift := topShift; ; shift -= 8 {
		idx := byte(key >> shift)
		ofs := idx >> 6
		bmp := n.bitmap[ofs]
		bit := idx & 0x3F
		if bmp>>bit&1 == 0 {
			return
		}
		cnt := rank(n, ofs, bmp, bit)
		if shift == 0 {
			return n.vals[cnt], true
		}
		n = n.kids[cnt]
	}
}

// Set associates val with key. It returns the updated map and the
// previous value, if any.
func (m Map[V]) Set(key uint64, val V) (Map[V], V, bool) {
	return m.SetWith(key, val, nil)
}

// SetWith is Set with a collision policy: when the key is already
// present the stored value becomes combine(old, val). A nil combine
// replaces the old value.
func (m Map[V]) SetWith(key uint64, val V, combine func(old, new V) V) (Map[V], V, bool) {
	root, prev, ok := set(m.root, topShift, key, val, combine)
	size := m.size
	if !ok {
		size++
	}
	return Map[V]{root, size}, prev, ok
}

// Del removes key. It returns the updated map and the removed value,
// if any. Nodes left without entries are collapsed away.
func (m Map[V]) Del(key uint64) (Map[V], V, bool) {
	root, prev, ok := del(m.root, topShift, key)
	if !ok {
		return m, prev, false
	}
	return Map[V]{root, m.size - 1}, prev, true
}

// All iterates the map in ascending key order.
func (m Map[V]) All() iter.Seq2[uint64, V] {
	return func(yield func(uint64, V) bool) {
		if m.root != nil {
			walk(m.root, topShift, 0, yield)
		}
	}
}

// MapValues applies f to every value, preserving keys and structure.
func (m Map[V]) MapValues(f func(V) V) Map[V] {
	return Map[V]{mapValues(m.root, f), m.size}
}

// Merge unions two maps. Colliding values are combined with
// combine(a, b) where a comes from the receiver.
func (m Map[V]) Merge(other Map[V], combine func(a, b V) V) Map[V] {
	if m.root == nil {
		return other
	}
	if other.root == nil {
		return m
	}
	var hits int
	root := merge(m.root, other.root, combine, &hits)
	return Map[V]{root, m.size + other.size - hits}
}

// Equal reports whether both maps hold the same keys with eq-equal
// values. The representation is canonical, so this is a plain
// structural walk.
func (m Map[V]) Equal(other Map[V], eq func(a, b V) bool) bool {
	if m.size != other.size {
		return false
	}
	return equal(m.root, other.root, eq)
}

// rank counts the set bits below the given position, across the lower
// bitmap words first.
func rank[V any](n *node[V], ofs byte, bmp uint64, bit byte) int {
	cnt := popcount.Count(bmp & (1<<bit - 1))
	for j := byte(0); j < ofs; j++ {
		cnt += popcount.Count(n.bitmap[j])
	}
	return int(cnt)
}

func set[V any](n *node[V], shift int, key uint64, val V, combine func(V, V) V) (_ *node[V], prev V, existed bool) {
	idx := byte(key >> shift)
	ofs := idx >> 6
	bit := idx & 0x3F

	if n == nil {
		nn := &node[V]{}
		nn.bitmap[ofs] = 1 << bit
		if shift == 0 {
			nn.vals = []V{val}
		} else {
			kid, _, _ := set[V](nil, shift-8, key, val, nil)
			nn.kids = []*node[V]{kid}
		}
		return nn, prev, false
	}

	bmp := n.bitmap[ofs]
	cnt := rank(n, ofs, bmp, bit)
	nn := &node[V]{bitmap: n.bitmap}

	if bmp>>bit&1 == 0 {
		nn.bitmap[ofs] |= 1 << bit
		if shift == 0 {
			nn.vals = insertAt(n.vals, cnt, val)
			nn.kids = n.kids
		} else {
			kid, _, _ := set[V](nil, shift-8, key, val, nil)
			nn.kids = insertAt(n.kids, cnt, kid)
			nn.vals = n.vals
		}
		return nn, prev, false
	}

	if shift == 0 {
		prev = n.vals[cnt]
		next := val
		if combine != nil {
			next = combine(prev, val)
		}
		nn.vals = append([]V(nil), n.vals...)
		nn.vals[cnt] = next
		return nn, prev, true
	}

	kid, prev, existed := set(n.kids[cnt], shift-8, key, val, combine)
	nn.kids = append([]*node[V](nil), n.kids...)
	nn.kids[cnt] = kid
	nn.vals = n.vals
	return nn, prev, existed
}

func del[V any](n *node[V], shift int, key uint64) (_ *node[V], prev V, ok bool) {
	if n == nil {
		return nil, prev, false
	}

	idx := byte(key >> shift)
	ofs := idx >> 6
	bit := idx & 0x3F
	bmp := n.bitmap[ofs]
	if bmp>>bit&1 == 0 {
		return n, prev, false
	}
	cnt := rank(n, ofs, bmp, bit)

	if shift == 0 {
		prev = n.vals[cnt]
		if len(n.vals) == 1 {
			return nil, prev, true
		}
		nn := &node[V]{bitmap: n.bitmap}
		nn.bitmap[ofs] &^= 1 << bit
		nn.vals = removeAt(n.vals, cnt)
		return nn, prev, true
	}

	kid, prev, ok := del(n.kids[cnt], shift-8, key)
	if !ok {
		return n, prev, false
	}
	nn := &node[V]{bitmap: n.bitmap}
	if kid == nil {
		if len(n.kids) == 1 {
			return nil, prev, true
		}
		nn.bitmap[ofs] &^= 1 << bit
		nn.kids = removeAt(n.kids, cnt)
	} else {
		nn.kids = append([]*node[V](nil), n.kids...)
		nn.kids[cnt] = kid
	}
	nn.vals = n.vals
	return nn, prev, true
}

// walk visits entries in rank order, which matches ascending key order.
func walk[V any](n *node[V], shift int, prefix uint64, yield func(uint64, V) bool) bool {
	cnt := 0
	for w := 0; w < 4; w++ {
		bmp := n.bitmap[w]
		for bmp != 0 {
			bit := bits.TrailingZeros64(bmp)
			bmp &^= 1 << bit
			key := prefix | uint64(w*64+bit)<<shift
			if shift == 0 {
				if !yield(key, n.vals[cnt]) {
					return false
				}
			} else if !walk(n.kids[cnt], shift-8, key, yield) {
				return false
			}
			cnt++
		}
	}
	return true
}

func mapValues[V any](n *node[V], f func(V) V) *node[V] {
	if n == nil {
		return nil
	}
	nn := &node[V]{bitmap: n.bitmap}
	if n.vals != nil {
		nn.vals = make([]V, len(n.vals))
		for i, v := range n.vals {
			nn.vals[i] = f(v)
		}
	}
	if n.kids != nil {
		nn.kids = make([]*node[V], len(n.kids))
		for i, kid := range n.kids {
			nn.kids[i] = mapValues(kid, f)
		}
	}
	return nn
}

func merge[V any](a, b *node[V], combine func(V, V) V, hits *int) *node[V] {
	nn := &node[V]{}
	for w := 0; w < 4; w++ {
		nn.bitmap[w] = a.bitmap[w] | b.bitmap[w]
	}
	leaf := a.vals != nil

	ai, bi := 0, 0
	for w := 0; w < 4; w++ {
		union := nn.bitmap[w]
		for union != 0 {
			bit := uint64(1) << bits.TrailingZeros64(union)
			union &^= bit
			inA := a.bitmap[w]&bit != 0
			inB := b.bitmap[w]&bit != 0
			switch {
			case inA && inB && leaf:
				nn.vals = append(nn.vals, combine(a.vals[ai], b.vals[bi]))
				*hits++
				ai, bi = ai+1, bi+1
			case inA && inB:
				nn.kids = append(nn.kids, merge(a.kids[ai], b.kids[bi], combine, hits))
				ai, bi = ai+1, bi+1
			case inA && leaf:
				nn.vals = append(nn.vals, a.vals[ai])
				ai++
			case inA:
				nn.kids = append(nn.kids, a.kids[ai])
				ai++
			case leaf:
				nn.vals = append(nn.vals, b.vals[bi])
				bi++
			default:
				nn.kids = append(nn.kids, b.kids[bi])
				bi++
			}
		}
	}
	return nn
}

func equal[V any](a, b *node[V], eq func(V, V) bool) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.bitmap != b.bitmap {
		return false
	}
	for i := range a.vals {
		if !eq(a.vals[i], b.vals[i]) {
			return false
		}
	}
	for i := range a.kids {
		if !equal(a.kids[i], b.kids[i], eq) {
			return false
		}
	}
	return true
}

func insertAt[E any](s []E, i int, e E) []E {
	out := make([]E, len(s)+1)
	copy(out, s[:i])
	out[i] = e
	copy(out[i+1:], s[i:])
	return out
}

func removeAt[E any](s []E, i int) []E {
	out := make([]E, len(s)-1)
	copy(out, s[:i])
	copy(out[i:], s[i+1:])
	return out
}
