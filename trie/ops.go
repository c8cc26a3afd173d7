package trie

import (
	"fmt"

	"github.com/go-tries/tmap/shape"
)

// The whole-trie operations dispatch on the Shape rather than on a key:
// only the shape says whether the values stored at a position are user
// values or the inner tries of a Product.

// MapValues applies f to every stored value, preserving structure: no
// position is created or removed, and a Sum node keeps the same sides.
func MapValues(s shape.Shape, n Node, f func(any) any) Node {
	if n == nil {
		return nil
	}
	switch s := s.(type) {
	case shape.Void:
		panic("trie: non-empty trie at a Void position")
	case shape.Unit:
		return &unitNode{f(asUnit(n).val)}
	case shape.Bool:
		b := *asBool(n)
		if b.fok {
			b.fval = f(b.fval)
		}
		if b.tok {
			b.tval = f(b.tval)
		}
		return &b
	case shape.Int:
		return &intNode{asInt(n).m.MapValues(f)}
	case shape.Bytes:
		return &bytesNode{asBytes(n).m.MapValues(f)}
	case *shape.Product:
		inner := s.R
		return MapValues(s.L, n, func(v any) any {
			return MapValues(inner, v.(Node), f)
		})
	case *shape.Sum:
		sn := asSum(n)
		return &sumNode{
			left:  MapValues(s.L, sn.left, f),
			right: MapValues(s.R, sn.right, f),
		}
	case *shape.Wrap:
		return MapValues(s.In, n, f)
	}
	panic(fmt.Sprintf("trie: unknown shape %T", s))
}

// Walk visits every key/value pair, reconstructing shape-form keys as
// it goes, and returns false if yield stopped it early. The order is
// deterministic: left before right at Product and Sum positions,
// ascending key order inside leaf maps, false before true at Bool
// leaves.
func Walk(s shape.Shape, n Node, yield func(shape.Key, any) bool) bool {
	if n == nil {
		return true
	}
	switch s := s.(type) {
	case shape.Void:
		panic("trie: non-empty trie at a Void position")
	case shape.Unit:
		return yield(shape.UnitKey{}, asUnit(n).val)
	case shape.Bool:
		b := asBool(n)
		if b.fok && !yield(shape.BoolKey(false), b.fval) {
			return false
		}
		if b.tok && !yield(shape.BoolKey(true), b.tval) {
			return false
		}
		return true
	case shape.Int:
		for k, v := range asInt(n).m.All() {
			if !yield(shape.IntKey(k), v) {
				return false
			}
		}
		return true
	case shape.Bytes:
		for k, v := range asBytes(n).m.All() {
			if !yield(shape.BytesKey(k), v) {
				return false
			}
		}
		return true
	case *shape.Product:
		inner := s.R
		return Walk(s.L, n, func(kl shape.Key, v any) bool {
			return Walk(inner, v.(Node), func(kr shape.Key, vv any) bool {
				return yield(shape.PairKey{Fst: kl, Snd: kr}, vv)
			})
		})
	case *shape.Sum:
		sn := asSum(n)
		if !Walk(s.L, sn.left, func(k shape.Key, v any) bool {
			return yield(shape.Left{In: k}, v)
		}) {
			return false
		}
		return Walk(s.R, sn.right, func(k shape.Key, v any) bool {
			return yield(shape.Right{In: k}, v)
		})
	case *shape.Wrap:
		return Walk(s.In, n, yield)
	}
	panic(fmt.Sprintf("trie: unknown shape %T", s))
}

// Merge unions two tries of the same shape. Where a full key is present
// in both, the values are combined with combine(a, b), a from the first
// trie; mismatched Sum sides are concatenated as-is. Merging with nil
// returns the other trie unchanged.
func Merge(s shape.Shape, a, b Node, combine func(x, y any) any) Node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	switch s := s.(type) {
	case shape.Void:
		panic("trie: non-empty trie at a Void position")
	case shape.Unit:
		return &unitNode{combine(asUnit(a).val, asUnit(b).val)}
	case shape.Bool:
		na, nb := asBool(a), asBool(b)
		out := *na
		if nb.fok {
			if out.fok {
				out.fval = combine(out.fval, nb.fval)
			} else {
				out.fval, out.fok = nb.fval, true
			}
		}
		if nb.tok {
			if out.tok {
				out.tval = combine(out.tval, nb.tval)
			} else {
				out.tval, out.tok = nb.tval, true
			}
		}
		return &out
	case shape.Int:
		return &intNode{asInt(a).m.Merge(asInt(b).m, combine)}
	case shape.Bytes:
		return &bytesNode{asBytes(a).m.Merge(asBytes(b).m, combine)}
	case *shape.Product:
		inner := s.R
		return Merge(s.L, a, b, func(x, y any) any {
			return Merge(inner, x.(Node), y.(Node), combine)
		})
	case *shape.Sum:
		na, nb := asSum(a), asSum(b)
		return &sumNode{
			left:  Merge(s.L, na.left, nb.left, combine),
			right: Merge(s.R, na.right, nb.right, combine),
		}
	case *shape.Wrap:
		return Merge(s.In, a, b, combine)
	}
	panic(fmt.Sprintf("trie: unknown shape %T", s))
}

// Equal reports structural equality of two tries of the same shape,
// comparing values with eq. Every node representation is canonical
// (independent of operation history), so structural equality coincides
// with key/value-set equality.
func Equal(s shape.Shape, a, b Node, eq func(x, y any) bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch s := s.(type) {
	case shape.Void:
		panic("trie: non-empty trie at a Void position")
	case shape.Unit:
		return eq(asUnit(a).val, asUnit(b).val)
	case shape.Bool:
		na, nb := asBool(a), asBool(b)
		if na.fok != nb.fok || na.tok != nb.tok {
			return false
		}
		if na.fok && !eq(na.fval, nb.fval) {
			return false
		}
		if na.tok && !eq(na.tval, nb.tval) {
			return false
		}
		return true
	case shape.Int:
		return asInt(a).m.Equal(asInt(b).m, eq)
	case shape.Bytes:
		return asBytes(a).m.Equal(asBytes(b).m, eq)
	case *shape.Product:
		inner := s.R
		return Equal(s.L, a, b, func(x, y any) bool {
			return Equal(inner, x.(Node), y.(Node), eq)
		})
	case *shape.Sum:
		na, nb := asSum(a), asSum(b)
		return Equal(s.L, na.left, nb.left, eq) &&
			Equal(s.R, na.right, nb.right, eq)
	case *shape.Wrap:
		return Equal(s.In, a, b, eq)
	}
	panic(fmt.Sprintf("trie: unknown shape %T", s))
}
