// Package trie implements the shape-generic trie engine: one node kind
// per shape combinator and the structural operations over them.
//
// A trie for a Product shape is the outer trie itself, with the inner
// tries stored as its values ("trie of tries"); a Wrap shape is
// represented by its inner trie. An empty trie is a nil Node: no node
// reachable from a non-nil root is ever empty (the no-dead-branch
// invariant), so emptiness is a nil check, never a traversal.
//
// All operations are persistent: they return new nodes and share
// unmodified substructure with their input. Values are held as any;
// the typed wrapper in the root package restores static typing at the
// boundary.
//
// Recursion depth during traversal follows the key's shape depth, which
// for sequence keys grows with sequence length. The engine relies on
// Go's growable stacks rather than an explicit work list.
package trie

import (
	"fmt"

	"github.com/go-tries/tmap/critbit"
	"github.com/go-tries/tmap/intmap"
	"github.com/go-tries/tmap/shape"
)

// Node is a non-empty trie over some shape. A nil Node is the empty
// trie.
type Node interface {
	isNode()
}

// unitNode holds the value of the single Unit key.
type unitNode struct {
	val any
}

// boolNode is the fixed two-slot boolean trie.
type boolNode struct {
	fval, tval any
	fok, tok   bool
}

// intNode wraps a sparse integer leaf map. The map is never empty.
type intNode struct {
	m intmap.Map[any]
}

// bytesNode wraps an ordered leaf map. The map is never empty.
type bytesNode struct {
	m critbit.Map[any]
}

// sumNode has three live forms: left-only, right-only and both. The
// absent side is nil, never an empty placeholder.
type sumNode struct {
	left, right Node
}

func (*unitNode) isNode()  {}
func (*boolNode) isNode()  {}
func (*intNode) isNode()   {}
func (*bytesNode) isNode() {}
func (*sumNode) isNode()   {}

// Lookup finds the value stored under key, treating absent Sum sides
// and absent Product entries as misses.
func Lookup(n Node, key shape.Key) (any, bool) {
	for {
		if n == nil {
			return nil, false
		}
		switch k := key.(type) {
		case shape.UnitKey:
			return asUnit(n).val, true
		case shape.BoolKey:
			b := asBool(n)
			if bool(k) {
				return b.tval, b.tok
			}
			return b.fval, b.fok
		case shape.IntKey:
			return asInt(n).m.Get(uint64(k))
		case shape.BytesKey:
			return asBytes(n).m.Get(k)
		case shape.PairKey:
			sub, ok := Lookup(n, k.Fst)
			if !ok {
				return nil, false
			}
			n, key = sub.(Node), k.Snd
		case shape.Left:
			n, key = asSum(n).left, k.In
		case shape.Right:
			n, key = asSum(n).right, k.In
		default:
			panic(fmt.Sprintf("trie: unknown key form %T", key))
		}
	}
}

// Insert stores val under key. It returns the updated trie and the
// previous value, if the key was already present. Inserting into a nil
// trie grows exactly the nodes on the key's path (singleton
// construction, no transient empty nodes).
func Insert(n Node, key shape.Key, val any) (Node, any, bool) {
	if n == nil {
		return singleton(key, val), nil, false
	}
	switch k := key.(type) {
	case shape.UnitKey:
		return &unitNode{val}, asUnit(n).val, true
	case shape.BoolKey:
		b := *asBool(n)
		var prev any
		var ok bool
		if bool(k) {
			prev, ok = b.tval, b.tok
			b.tval, b.tok = val, true
		} else {
			prev, ok = b.fval, b.fok
			b.fval, b.fok = val, true
		}
		return &b, prev, ok
	case shape.IntKey:
		m, prev, ok := asInt(n).m.Set(uint64(k), val)
		return &intNode{m}, prev, ok
	case shape.BytesKey:
		m, prev, ok := asBytes(n).m.Set(k, val)
		return &bytesNode{m}, prev, ok
	case shape.PairKey:
		if sub, ok := Lookup(n, k.Fst); ok {
			inner, prev, existed := Insert(sub.(Node), k.Snd, val)
			outer, _, _ := Insert(n, k.Fst, Node(inner))
			return outer, prev, existed
		}
		outer, _, _ := Insert(n, k.Fst, singleton(k.Snd, val))
		return outer, nil, false
	case shape.Left:
		s := *asSum(n)
		left, prev, ok := Insert(s.left, k.In, val)
		s.left = left
		return &s, prev, ok
	case shape.Right:
		s := *asSum(n)
		right, prev, ok := Insert(s.right, k.In, val)
		s.right = right
		return &s, prev, ok
	}
	panic(fmt.Sprintf("trie: unknown key form %T", key))
}

// Delete removes key. It returns the updated trie (nil when the last
// value went away) and the removed value, if any. Emptied subtrees are
// collapsed bottom-up: a Product entry whose inner trie empties is
// removed from the outer trie, and a Sum side that empties is dropped
// from the node.
func Delete(n Node, key shape.Key) (Node, any, bool) {
	if n == nil {
		return nil, nil, false
	}
	switch k := key.(type) {
	case shape.UnitKey:
		return nil, asUnit(n).val, true
	case shape.BoolKey:
		b := *asBool(n)
		if bool(k) {
			if !b.tok {
				return n, nil, false
			}
			prev := b.tval
			if !b.fok {
				return nil, prev, true
			}
			b.tval, b.tok = nil, false
			return &b, prev, true
		}
		if !b.fok {
			return n, nil, false
		}
		prev := b.fval
		if !b.tok {
			return nil, prev, true
		}
		b.fval, b.fok = nil, false
		return &b, prev, true
	case shape.IntKey:
		m, prev, ok := asInt(n).m.Del(uint64(k))
		if !ok {
			return n, nil, false
		}
		if m.IsEmpty() {
			return nil, prev, true
		}
		return &intNode{m}, prev, true
	case shape.BytesKey:
		m, prev, ok := asBytes(n).m.Del(k)
		if !ok {
			return n, nil, false
		}
		if m.IsEmpty() {
			return nil, prev, true
		}
		return &bytesNode{m}, prev, true
	case shape.PairKey:
		sub, ok := Lookup(n, k.Fst)
		if !ok {
			return n, nil, false
		}
		inner, prev, ok := Delete(sub.(Node), k.Snd)
		if !ok {
			return n, nil, false
		}
		if inner == nil {
			outer, _, _ := Delete(n, k.Fst)
			return outer, prev, true
		}
		outer, _, _ := Insert(n, k.Fst, Node(inner))
		return outer, prev, true
	case shape.Left:
		s := *asSum(n)
		left, prev, ok := Delete(s.left, k.In)
		if !ok {
			return n, nil, false
		}
		if left == nil && s.right == nil {
			return nil, prev, true
		}
		s.left = left
		return &s, prev, true
	case shape.Right:
		s := *asSum(n)
		right, prev, ok := Delete(s.right, k.In)
		if !ok {
			return n, nil, false
		}
		if right == nil && s.left == nil {
			return nil, prev, true
		}
		s.right = right
		return &s, prev, true
	}
	panic(fmt.Sprintf("trie: unknown key form %T", key))
}

// singleton builds the minimal trie holding exactly one value.
func singleton(key shape.Key, val any) Node {
	switch k := key.(type) {
	case shape.UnitKey:
		return &unitNode{val}
	case shape.BoolKey:
		b := &boolNode{}
		if bool(k) {
			b.tval, b.tok = val, true
		} else {
			b.fval, b.fok = val, true
		}
		return b
	case shape.IntKey:
		m, _, _ := intmap.New[any]().Set(uint64(k), val)
		return &intNode{m}
	case shape.BytesKey:
		m, _, _ := critbit.New[any]().Set(k, val)
		return &bytesNode{m}
	case shape.PairKey:
		return singleton(k.Fst, singleton(k.Snd, val))
	case shape.Left:
		return &sumNode{left: singleton(k.In, val)}
	case shape.Right:
		return &sumNode{right: singleton(k.In, val)}
	}
	panic(fmt.Sprintf("trie: unknown key form %T", key))
}

// The as* casts fault on a key/node mismatch: that means a corrupted
// trie or a codec that is not a bijection, never a normal runtime
// condition.

func asUnit(n Node) *unitNode {
	u, ok := n.(*unitNode)
	if !ok {
		panic(mismatch(n, "Unit"))
	}
	return u
}

func asBool(n Node) *boolNode {
	b, ok := n.(*boolNode)
	if !ok {
		panic(mismatch(n, "Bool"))
	}
	return b
}

func asInt(n Node) *intNode {
	i, ok := n.(*intNode)
	if !ok {
		panic(mismatch(n, "Int"))
	}
	return i
}

func asBytes(n Node) *bytesNode {
	b, ok := n.(*bytesNode)
	if !ok {
		panic(mismatch(n, "Bytes"))
	}
	return b
}

func asSum(n Node) *sumNode {
	s, ok := n.(*sumNode)
	if !ok {
		panic(mismatch(n, "Sum"))
	}
	return s
}

func mismatch(n Node, want string) string {
	return fmt.Sprintf("trie: %T node at a %s position", n, want)
}
