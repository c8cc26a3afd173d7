package tmap

import "github.com/go-tries/tmap/shape"

// Codec ties a concrete key type to its shape. Encode and Decode must
// be mutually inverse and Encode must produce keys matching Shape; the
// trie trusts this and never validates it. A codec that is not a
// bijection corrupts the map.
type Codec[K any] interface {
	Shape() shape.Shape
	Encode(K) shape.Key
	Decode(shape.Key) K
}

type codec[K any] struct {
	s   shape.Shape
	enc func(K) shape.Key
	dec func(shape.Key) K
}

func (c codec[K]) Shape() shape.Shape   { return c.s }
func (c codec[K]) Encode(k K) shape.Key { return c.enc(k) }
func (c codec[K]) Decode(k shape.Key) K { return c.dec(k) }

// MakeCodec builds a Codec from its three parts. Key type authors
// normally reach for the ready-made codecs or Derive instead.
func MakeCodec[K any](s shape.Shape, enc func(K) shape.Key, dec func(shape.Key) K) Codec[K] {
	return codec[K]{s, enc, dec}
}

// Derive maps an existing codec through a bijection: supply to and from
// converting the new key type to one that already has a codec. This is
// the hand-written equivalent of a derived instance: one line per
// custom key type.
func Derive[K, U any](base Codec[U], to func(K) U, from func(U) K) Codec[K] {
	return codec[K]{
		s:   base.Shape(),
		enc: func(k K) shape.Key { return base.Encode(to(k)) },
		dec: func(sk shape.Key) K { return from(base.Decode(sk)) },
	}
}

// WrapOf attaches a diagnostic tag to a codec's shape. The tag shows up
// in Shape.String output and nowhere else.
func WrapOf[K any](tag string, base Codec[K]) Codec[K] {
	return codec[K]{
		s:   &shape.Wrap{Tag: tag, In: base.Shape()},
		enc: base.Encode,
		dec: base.Decode,
	}
}
