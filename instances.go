package tmap

import "github.com/go-tries/tmap/shape"

// Composite key codecs. Each is a pure declaration of how the key type
// decomposes into the shape vocabulary; the trie algorithms never
// change.

// PtrOf treats a nil pointer as the extra "absent" key:
// Sum(Unit, elem). The decoded pointer for a present key points at a
// fresh copy.
func PtrOf[K any](elem Codec[K]) Codec[*K] {
	s := &shape.Sum{L: shape.Unit{}, R: elem.Shape()}
	return MakeCodec(s,
		func(p *K) shape.Key {
			if p == nil {
				return shape.Left{In: shape.UnitKey{}}
			}
			return shape.Right{In: elem.Encode(*p)}
		},
		func(k shape.Key) *K {
			switch k := k.(type) {
			case shape.Left:
				return nil
			case shape.Right:
				v := elem.Decode(k.In)
				return &v
			}
			panic("tmap: bad optional key form")
		})
}

// Either is a tagged union of two key types.
type Either[L, R any] struct {
	IsRight bool
	Left    L
	Right   R
}

func LeftOf[L, R any](l L) Either[L, R] {
	return Either[L, R]{Left: l}
}

func RightOf[L, R any](r R) Either[L, R] {
	return Either[L, R]{IsRight: true, Right: r}
}

// EitherOf keys a map by a tagged union: Sum(l, r).
func EitherOf[L, R any](l Codec[L], r Codec[R]) Codec[Either[L, R]] {
	s := &shape.Sum{L: l.Shape(), R: r.Shape()}
	return MakeCodec(s,
		func(e Either[L, R]) shape.Key {
			if e.IsRight {
				return shape.Right{In: r.Encode(e.Right)}
			}
			return shape.Left{In: l.Encode(e.Left)}
		},
		func(k shape.Key) Either[L, R] {
			switch k := k.(type) {
			case shape.Left:
				return LeftOf[L, R](l.Decode(k.In))
			case shape.Right:
				return RightOf[L](r.Decode(k.In))
			}
			panic("tmap: bad union key form")
		})
}

// Tuple2 through Tuple7 are fixed-arity composite keys. Their shapes
// are right-nested products, so wider tuples are derived from Tuple2.

type Tuple2[A, B any] struct {
	A A
	B B
}

type Tuple3[A, B, C any] struct {
	A A
	B B
	C C
}

type Tuple4[A, B, C, D any] struct {
	A A
	B B
	C C
	D D
}

type Tuple5[A, B, C, D, E any] struct {
	A A
	B B
	C C
	D D
	E E
}

type Tuple6[A, B, C, D, E, F any] struct {
	A A
	B B
	C C
	D D
	E E
	F F
}

type Tuple7[A, B, C, D, E, F, G any] struct {
	A A
	B B
	C C
	D D
	E E
	F F
	G G
}

func Tuple2Of[A, B any](a Codec[A], b Codec[B]) Codec[Tuple2[A, B]] {
	s := &shape.Product{L: a.Shape(), R: b.Shape()}
	return MakeCodec(s,
		func(t Tuple2[A, B]) shape.Key {
			return shape.PairKey{Fst: a.Encode(t.A), Snd: b.Encode(t.B)}
		},
		func(k shape.Key) Tuple2[A, B] {
			p := k.(shape.PairKey)
			return Tuple2[A, B]{a.Decode(p.Fst), b.Decode(p.Snd)}
		})
}

func Tuple3Of[A, B, C any](a Codec[A], b Codec[B], c Codec[C]) Codec[Tuple3[A, B, C]] {
	return Derive(Tuple2Of(a, Tuple2Of(b, c)),
		func(t Tuple3[A, B, C]) Tuple2[A, Tuple2[B, C]] {
			return Tuple2[A, Tuple2[B, C]]{t.A, Tuple2[B, C]{t.B, t.C}}
		},
		func(t Tuple2[A, Tuple2[B, C]]) Tuple3[A, B, C] {
			return Tuple3[A, B, C]{t.A, t.B.A, t.B.B}
		})
}

func Tuple4Of[A, B, C, D any](a Codec[A], b Codec[B], c Codec[C], d Codec[D]) Codec[Tuple4[A, B, C, D]] {
	return Derive(Tuple2Of(a, Tuple3Of(b, c, d)),
		func(t Tuple4[A, B, C, D]) Tuple2[A, Tuple3[B, C, D]] {
			return Tuple2[A, Tuple3[B, C, D]]{t.A, Tuple3[B, C, D]{t.B, t.C, t.D}}
		},
		func(t Tuple2[A, Tuple3[B, C, D]]) Tuple4[A, B, C, D] {
			return Tuple4[A, B, C, D]{t.A, t.B.A, t.B.B, t.B.C}
		})
}

func Tuple5Of[A, B, C, D, E any](a Codec[A], b Codec[B], c Codec[C], d Codec[D], e Codec[E]) Codec[Tuple5[A, B, C, D, E]] {
	return Derive(Tuple2Of(a, Tuple4Of(b, c, d, e)),
		func(t Tuple5[A, B, C, D, E]) Tuple2[A, Tuple4[B, C, D, E]] {
			return Tuple2[A, Tuple4[B, C, D, E]]{t.A, Tuple4[B, C, D, E]{t.B, t.C, t.D, t.E}}
		},
		func(t Tuple2[A, Tuple4[B, C, D, E]]) Tuple5[A, B, C, D, E] {
			return Tuple5[A, B, C, D, E]{t.A, t.B.A, t.B.B, t.B.C, t.B.D}
		})
}

func Tuple6Of[A, B, C, D, E, F any](a Codec[A], b Codec[B], c Codec[C], d Codec[D], e Codec[E], f Codec[F]) Codec[Tuple6[A, B, C, D, E, F]] {
	return Derive(Tuple2Of(a, Tuple5Of(b, c, d, e, f)),
		func(t Tuple6[A, B, C, D, E, F]) Tuple2[A, Tuple5[B, C, D, E, F]] {
			return Tuple2[A, Tuple5[B, C, D, E, F]]{t.A, Tuple5[B, C, D, E, F]{t.B, t.C, t.D, t.E, t.F}}
		},
		func(t Tuple2[A, Tuple5[B, C, D, E, F]]) Tuple6[A, B, C, D, E, F] {
			return Tuple6[A, B, C, D, E, F]{t.A, t.B.A, t.B.B, t.B.C, t.B.D, t.B.E}
		})
}

func Tuple7Of[A, B, C, D, E, F, G any](a Codec[A], b Codec[B], c Codec[C], d Codec[D], e Codec[E], f Codec[F], g Codec[G]) Codec[Tuple7[A, B, C, D, E, F, G]] {
	return Derive(Tuple2Of(a, Tuple6Of(b, c, d, e, f, g)),
		func(t Tuple7[A, B, C, D, E, F, G]) Tuple2[A, Tuple6[B, C, D, E, F, G]] {
			return Tuple2[A, Tuple6[B, C, D, E, F, G]]{t.A, Tuple6[B, C, D, E, F, G]{t.B, t.C, t.D, t.E, t.F, t.G}}
		},
		func(t Tuple2[A, Tuple6[B, C, D, E, F, G]]) Tuple7[A, B, C, D, E, F, G] {
			return Tuple7[A, B, C, D, E, F, G]{t.A, t.B.A, t.B.B, t.B.C, t.B.D, t.B.E, t.B.F}
		})
}

// SliceOf keys a map by sequences: Sum(Unit, Product(elem, self)),
// that is, nil or (head, tail). The self-reference makes the trie a genuine
// prefix trie: sequences sharing a prefix share the trie path down to
// where they diverge. Encode and Decode run iteratively, so key
// conversion never recurses with the sequence length.
func SliceOf[E any](elem Codec[E]) Codec[[]E] {
	s := &shape.Sum{L: shape.Unit{}}
	s.R = &shape.Product{L: elem.Shape(), R: s}
	return MakeCodec(s,
		func(xs []E) shape.Key {
			key := shape.Key(shape.Left{In: shape.UnitKey{}})
			for i := len(xs) - 1; i >= 0; i-- {
				key = shape.Right{In: shape.PairKey{Fst: elem.Encode(xs[i]), Snd: key}}
			}
			return key
		},
		func(k shape.Key) []E {
			var xs []E
			for {
				switch kk := k.(type) {
				case shape.Left:
					return xs
				case shape.Right:
					p := kk.In.(shape.PairKey)
					xs = append(xs, elem.Decode(p.Fst))
					k = p.Snd
				default:
					panic("tmap: bad sequence key form")
				}
			}
		})
}
