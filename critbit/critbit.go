// Package critbit implements a persistent ordered map keyed by byte
// strings, as a crit-bit tree.
//
// Iteration is in ascending lexicographic key order, so callers that
// need numeric order feed the map order-preserving encodings. The tree
// shape is determined by the key set alone, never by insertion history.
// Modifying operations copy the path from the root to the affected leaf
// and share the rest with the input map, so earlier map values stay
// valid. Key slices are kept as given and must not be mutated afterwards.
package critbit

import (
	"bytes"
	"iter"
)

type leaf[V any] struct {
	key []byte
	val V
}

// ref holds either a leaf or an inner node.
type ref[V any] struct {
	leaf *leaf[V]
	node *node[V]
}

type node[V any] struct {
	child [2]ref[V]
	// off is the offset of the differing byte
	off int
	// bit contains the single crit bit in the differing byte
	bit byte
}

// Map is a persistent ordered map. The zero value is an empty map.
type Map[V any] struct {
	root ref[V]
	size int
}

func New[V any]() Map[V] {
	return Map[V]{}
}

func (m Map[V]) Len() int {
	return m.size
}

func (m Map[V]) IsEmpty() bool {
	return m.root.leaf == nil && m.root.node == nil
}

// dir calculates the direction for the given key. A zero bit means the
// node splits on whether the key continues past off: keys that end
// there sort before their extensions, which start with a zero byte.
func (n *node[V]) dir(key []byte) byte {
	if n.off < len(key) && (key[n.off]&n.bit != 0 || n.bit == 0) {
		return 1
	}
	return 0
}

func (m Map[V]) Get(key []byte) (val V, ok bool) {
	if m.IsEmpty() {
		return
	}
	p := m.root
	for p.node != nil {
		p = p.node.child[p.node.dir(key)]
	}
	if !bytes.Equal(p.leaf.key, key) {
		return
	}
	return p.leaf.val, true
}

// Set associates val with key. It returns the updated map and the
// previous value, if any.
func (m Map[V]) Set(key []byte, val V) (Map[V], V, bool) {
	return m.SetWith(key, val, nil)
}

// SetWith is Set with a collision policy: when the key is already
// present the stored value becomes combine(old, val). A nil combine
// replaces the old value.
func (m Map[V]) SetWith(key []byte, val V, combine func(old, new V) V) (_ Map[V], prev V, existed bool) {
	if m.IsEmpty() {
		return Map[V]{ref[V]{leaf: &leaf[V]{key, val}}, 1}, prev, false
	}

	// walk for the best-matching leaf
	p := m.root
	for p.node != nil {
		p = p.node.child[p.node.dir(key)]
	}

	off, bit, eq := critPos(key, p.leaf.key)
	if eq {
		root, prev := replace(m.root, key, val, combine)
		return Map[V]{root, m.size}, prev, true
	}

	var ndir byte
	if off < len(key) && (key[off]&bit != 0 || bit == 0) {
		ndir = 1
	}
	root := insert(m.root, &leaf[V]{key, val}, off, bit, ndir)
	return Map[V]{root, m.size + 1}, prev, false
}

// Del removes key. It returns the updated map and the removed value,
// if any. A node left with a single child is collapsed into its other
// branch.
func (m Map[V]) Del(key []byte) (_ Map[V], prev V, ok bool) {
	if m.IsEmpty() {
		return m, prev, false
	}
	root, prev, ok := del(m.root, key)
	if !ok {
		return m, prev, false
	}
	return Map[V]{root, m.size - 1}, prev, true
}

// All iterates the map in ascending key order.
func (m Map[V]) All() iter.Seq2[[]byte, V] {
	return func(yield func([]byte, V) bool) {
		if !m.IsEmpty() {
			walk(m.root, yield)
		}
	}
}

// MapValues applies f to every value, preserving keys and structure.
func (m Map[V]) MapValues(f func(V) V) Map[V] {
	if m.IsEmpty() {
		return m
	}
	return Map[V]{mapValues(m.root, f), m.size}
}

// Merge unions two maps. Colliding values are combined with
// combine(a, b) where a comes from the receiver. The merge is
// structural: subtrees over disjoint key ranges are shared with the
// inputs rather than rebuilt.
func (m Map[V]) Merge(other Map[V], combine func(a, b V) V) Map[V] {
	if other.IsEmpty() {
		return m
	}
	if m.IsEmpty() {
		return other
	}
	var hits int
	root := merge(m.root, other.root, combine, &hits)
	return Map[V]{root, m.size + other.size - hits}
}

// Equal reports whether both maps hold the same keys with eq-equal
// values. The tree shape is canonical, so this is a plain structural
// walk.
func (m Map[V]) Equal(other Map[V], eq func(a, b V) bool) bool {
	if m.size != other.size {
		return false
	}
	return equal(m.root, other.root, eq)
}

// critPos finds the first differing byte offset and its crit bit.
func critPos(a, b []byte) (off int, bit byte, eq bool) {
	min := len(a)
	if len(b) < min {
		min = len(b)
	}
	for off = 0; off < min; off++ {
		if x := a[off] ^ b[off]; x != 0 {
			return off, critBit(x), false
		}
	}
	switch {
	case len(a) == len(b):
		return 0, 0, true
	case len(a) > len(b):
		return off, critBit(a[off]), false
	default:
		return off, critBit(b[off]), false
	}
}

// critBit isolates the highest set bit.
func critBit(x byte) byte {
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	return x &^ (x >> 1)
}

// replace rebuilds the path to an existing key with a new value.
func replace[V any](r ref[V], key []byte, val V, combine func(V, V) V) (ref[V], V) {
	if r.node != nil {
		n := *r.node
		d := n.dir(key)
		child, prev := replace(n.child[d], key, val, combine)
		n.child[d] = child
		return ref[V]{node: &n}, prev
	}
	prev := r.leaf.val
	next := val
	if combine != nil {
		next = combine(prev, val)
	}
	return ref[V]{leaf: &leaf[V]{r.leaf.key, next}}, prev
}

// insert rebuilds the path down to the crit position and splices a new
// node with the fresh leaf on side ndir there.
func insert[V any](r ref[V], l *leaf[V], off int, bit byte, ndir byte) ref[V] {
	if n := r.node; n != nil && (n.off < off || n.off == off && n.bit > bit) {
		nn := *n
		d := nn.dir(l.key)
		nn.child[d] = insert(nn.child[d], l, off, bit, ndir)
		return ref[V]{node: &nn}
	}
	nn := &node[V]{off: off, bit: bit}
	nn.child[ndir] = ref[V]{leaf: l}
	nn.child[1-ndir] = r
	return ref[V]{node: nn}
}

// merge unions two subtrees. Every node splits at the coarsest position
// where its keys diverge, and all its keys agree on every position
// before that one, so a representative leaf key stands in for the
// whole subtree when comparing prefixes.
func merge[V any](a, b ref[V], combine func(V, V) V, hits *int) ref[V] {
	if a.leaf != nil {
		return mergeLeaf(b, a.leaf, true, combine, hits)
	}
	if b.leaf != nil {
		return mergeLeaf(a, b.leaf, false, combine, hits)
	}

	ka := minLeaf(a).key
	kb := minLeaf(b).key
	doff, dbit, eq := critPos(ka, kb)
	na, nb := a.node, b.node

	// the trees diverge before either root splits: disjoint key
	// ranges, joined by a fresh node at the divergence
	if !eq && before(doff, dbit, na.off, na.bit) && before(doff, dbit, nb.off, nb.bit) {
		nn := &node[V]{off: doff, bit: dbit}
		var ad byte
		if doff < len(ka) && (ka[doff]&dbit != 0 || dbit == 0) {
			ad = 1
		}
		nn.child[ad] = a
		nn.child[1-ad] = b
		return ref[V]{node: nn}
	}

	switch {
	case na.off == nb.off && na.bit == nb.bit:
		nn := &node[V]{off: na.off, bit: na.bit}
		nn.child[0] = merge(na.child[0], nb.child[0], combine, hits)
		nn.child[1] = merge(na.child[1], nb.child[1], combine, hits)
		return ref[V]{node: nn}
	case before(na.off, na.bit, nb.off, nb.bit):
		// b splits later, so it sits entirely inside one side of a
		d := na.dir(kb)
		nn := *na
		nn.child[d] = merge(na.child[d], b, combine, hits)
		return ref[V]{node: &nn}
	default:
		d := nb.dir(ka)
		nn := *nb
		nn.child[d] = merge(a, nb.child[d], combine, hits)
		return ref[V]{node: &nn}
	}
}

// mergeLeaf splices a single leaf into a subtree. left says which merge
// operand the leaf came from, fixing the combine argument order.
func mergeLeaf[V any](r ref[V], l *leaf[V], left bool, combine func(V, V) V, hits *int) ref[V] {
	p := r
	for p.node != nil {
		p = p.node.child[p.node.dir(l.key)]
	}
	off, bit, eq := critPos(l.key, p.leaf.key)
	if eq {
		*hits++
		cmb := combine
		if left && combine != nil {
			cmb = func(old, new V) V { return combine(new, old) }
		}
		out, _ := replace(r, l.key, l.val, cmb)
		return out
	}
	var ndir byte
	if off < len(l.key) && (l.key[off]&bit != 0 || bit == 0) {
		ndir = 1
	}
	return insert(r, l, off, bit, ndir)
}

// minLeaf returns the leftmost leaf of a subtree.
func minLeaf[V any](r ref[V]) *leaf[V] {
	for r.node != nil {
		r = r.node.child[0]
	}
	return r.leaf
}

// before reports whether split position (off1, bit1) is tested earlier
// than (off2, bit2). Higher bits are tested first within a byte; a zero
// bit is the length split, tested last.
func before(off1 int, bit1 byte, off2 int, bit2 byte) bool {
	return off1 < off2 || off1 == off2 && bit1 > bit2
}

func del[V any](r ref[V], key []byte) (_ ref[V], prev V, ok bool) {
	if r.leaf != nil {
		if !bytes.Equal(r.leaf.key, key) {
			return r, prev, false
		}
		return ref[V]{}, r.leaf.val, true
	}
	d := r.node.dir(key)
	child, prev, ok := del(r.node.child[d], key)
	if !ok {
		return r, prev, false
	}
	if child.leaf == nil && child.node == nil {
		return r.node.child[1-d], prev, true
	}
	nn := *r.node
	nn.child[d] = child
	return ref[V]{node: &nn}, prev, true
}

func walk[V any](r ref[V], yield func([]byte, V) bool) bool {
	if r.leaf != nil {
		return yield(r.leaf.key, r.leaf.val)
	}
	return walk(r.node.child[0], yield) && walk(r.node.child[1], yield)
}

func mapValues[V any](r ref[V], f func(V) V) ref[V] {
	if r.leaf != nil {
		return ref[V]{leaf: &leaf[V]{r.leaf.key, f(r.leaf.val)}}
	}
	nn := *r.node
	nn.child[0] = mapValues(nn.child[0], f)
	nn.child[1] = mapValues(nn.child[1], f)
	return ref[V]{node: &nn}
}

func equal[V any](a, b ref[V], eq func(V, V) bool) bool {
	if a.leaf != nil && b.leaf != nil {
		return bytes.Equal(a.leaf.key, b.leaf.key) && eq(a.leaf.val, b.leaf.val)
	}
	if a.node != nil && b.node != nil {
		return a.node.off == b.node.off && a.node.bit == b.node.bit &&
			equal(a.node.child[0], b.node.child[0], eq) &&
			equal(a.node.child[1], b.node.child[1], eq)
	}
	return a.leaf == nil && a.node == nil && b.leaf == nil && b.node == nil
}
