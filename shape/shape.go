// Package shape defines the structural vocabulary that key types
// decompose into, and the runtime key forms that index a trie.
//
// Any algebraic key type reduces to a combination of Void, Unit, leaf
// positions (Int, Bytes, Bool), Product, Sum and the transparent Wrap.
// Recursive key types (sequences) tie the knot through the pointer
// combinators, so a Shape value may be cyclic.
package shape

import (
	"fmt"
	"strings"
)

// Shape describes the structure of a key type. Shapes are built once
// and never mutated afterwards.
type Shape interface {
	fmt.Stringer
	isShape()
}

// Void is a position with no possible value: a key type with no
// constructors. A trie at a Void position is always empty.
type Void struct{}

// Unit is a position with exactly one possible value and no payload.
type Unit struct{}

// Int is a leaf position keyed by a bounded integral value or code
// point, backed by a sparse integer map.
type Int struct{}

// Bytes is a leaf position keyed by an order-preserving byte-string
// encoding, backed by an ordered map.
type Bytes struct{}

// Bool is a leaf position keyed by a boolean.
type Bool struct{}

// Product is a position requiring both an L-shaped and an R-shaped
// sub-value. Wider products are right-nested.
type Product struct {
	L, R Shape
}

// Sum is a position requiring either an L-shaped or an R-shaped
// sub-value, mutually exclusive.
type Sum struct {
	L, R Shape
}

// Wrap is transparent around its inner shape. Tag names the constructor
// or field for diagnostics and never affects behavior.
type Wrap struct {
	Tag string
	In  Shape
}

func (Void) isShape()     {}
func (Unit) isShape()     {}
func (Int) isShape()      {}
func (Bytes) isShape()    {}
func (Bool) isShape()     {}
func (*Product) isShape() {}
func (*Sum) isShape()     {}
func (*Wrap) isShape()    {}

func (Void) String() string  { return "Void" }
func (Unit) String() string  { return "Unit" }
func (Int) String() string   { return "Int" }
func (Bytes) String() string { return "Bytes" }
func (Bool) String() string  { return "Bool" }

func (s *Product) String() string { return render(s, map[Shape]bool{}) }
func (s *Sum) String() string     { return render(s, map[Shape]bool{}) }
func (s *Wrap) String() string    { return render(s, map[Shape]bool{}) }

// render prints a shape tree, cutting recursive back-references short.
func render(s Shape, seen map[Shape]bool) string {
	switch s := s.(type) {
	case *Product, *Sum, *Wrap:
		if seen[s] {
			return "..."
		}
		seen[s] = true
		defer delete(seen, s)
	}

	switch s := s.(type) {
	case *Product:
		return "Product(" + render(s.L, seen) + ", " + render(s.R, seen) + ")"
	case *Sum:
		return "Sum(" + render(s.L, seen) + ", " + render(s.R, seen) + ")"
	case *Wrap:
		var b strings.Builder
		b.WriteString("Wrap(")
		if s.Tag != "" {
			b.WriteString(s.Tag)
			b.WriteString(", ")
		}
		b.WriteString(render(s.In, seen))
		b.WriteString(")")
		return b.String()
	default:
		return s.String()
	}
}
