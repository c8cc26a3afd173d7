package tmap

import (
	"encoding/binary"
	"math/big"

	"github.com/go-tries/tmap/shape"
)

// Codecs for primitive leaf key types. Bounded integral types and code
// points go to the sparse integer leaf; 64-bit integrals, strings and
// big integers go to the ordered leaf through order-preserving byte
// encodings. Signed types are biased so numeric order survives the
// unsigned conversion. The strategy is fixed per key type, not
// configurable per map.

// Unit is the codec for struct{}: a map with at most one entry.
func Unit() Codec[struct{}] {
	return MakeCodec(shape.Unit{},
		func(struct{}) shape.Key { return shape.UnitKey{} },
		func(shape.Key) struct{} { return struct{}{} })
}

// VoidOf is the codec for an uninhabited key type. Encoding can never
// be reached with a value; if it is, the caller's types are lying.
func VoidOf[K any]() Codec[K] {
	return MakeCodec(shape.Void{},
		func(K) shape.Key { panic("tmap: encode of a Void key") },
		func(shape.Key) K { panic("tmap: decode of a Void key") })
}

func Bool() Codec[bool] {
	return MakeCodec(shape.Bool{},
		func(b bool) shape.Key { return shape.BoolKey(b) },
		func(k shape.Key) bool { return bool(k.(shape.BoolKey)) })
}

func Byte() Codec[byte] {
	return MakeCodec(shape.Int{},
		func(b byte) shape.Key { return shape.IntKey(b) },
		func(k shape.Key) byte { return byte(k.(shape.IntKey)) })
}

func Uint16() Codec[uint16] {
	return MakeCodec(shape.Int{},
		func(v uint16) shape.Key { return shape.IntKey(v) },
		func(k shape.Key) uint16 { return uint16(k.(shape.IntKey)) })
}

func Uint32() Codec[uint32] {
	return MakeCodec(shape.Int{},
		func(v uint32) shape.Key { return shape.IntKey(v) },
		func(k shape.Key) uint32 { return uint32(k.(shape.IntKey)) })
}

func Int8() Codec[int8] {
	return MakeCodec(shape.Int{},
		func(v int8) shape.Key { return shape.IntKey(uint8(v) ^ 1<<7) },
		func(k shape.Key) int8 { return int8(uint8(k.(shape.IntKey)) ^ 1<<7) })
}

func Int16() Codec[int16] {
	return MakeCodec(shape.Int{},
		func(v int16) shape.Key { return shape.IntKey(uint16(v) ^ 1<<15) },
		func(k shape.Key) int16 { return int16(uint16(k.(shape.IntKey)) ^ 1<<15) })
}

func Int32() Codec[int32] {
	return MakeCodec(shape.Int{},
		func(v int32) shape.Key { return shape.IntKey(uint32(v) ^ 1<<31) },
		func(k shape.Key) int32 { return int32(uint32(k.(shape.IntKey)) ^ 1<<31) })
}

// Rune keys a map by Unicode code point.
func Rune() Codec[rune] {
	return Derive(Int32(),
		func(r rune) int32 { return r },
		func(v int32) rune { return v })
}

// String keys go to the ordered leaf as raw bytes: iteration order is
// plain lexicographic byte order.
func String() Codec[string] {
	return MakeCodec(shape.Bytes{},
		func(s string) shape.Key { return shape.BytesKey(s) },
		func(k shape.Key) string { return string(k.(shape.BytesKey)) })
}

func Uint64() Codec[uint64] {
	return MakeCodec(shape.Bytes{},
		func(v uint64) shape.Key { return shape.BytesKey(be64(v)) },
		func(k shape.Key) uint64 {
			return binary.BigEndian.Uint64(k.(shape.BytesKey))
		})
}

func Int64() Codec[int64] {
	return MakeCodec(shape.Bytes{},
		func(v int64) shape.Key { return shape.BytesKey(be64(uint64(v) ^ 1<<63)) },
		func(k shape.Key) int64 {
			return int64(binary.BigEndian.Uint64(k.(shape.BytesKey)) ^ 1<<63)
		})
}

func Int() Codec[int] {
	return Derive(Int64(),
		func(v int) int64 { return int64(v) },
		func(v int64) int { return int(v) })
}

func Uint() Codec[uint] {
	return Derive(Uint64(),
		func(v uint) uint64 { return uint64(v) },
		func(v uint64) uint { return uint(v) })
}

// BigInt keys a map by arbitrary-precision integers. The encoding is
// order-preserving: a sign prefix, then the magnitude length, then the
// magnitude, with the negative half complemented so that more negative
// numbers sort earlier.
func BigInt() Codec[*big.Int] {
	return MakeCodec(shape.Bytes{},
		func(n *big.Int) shape.Key { return shape.BytesKey(bigIntBytes(n)) },
		func(k shape.Key) *big.Int { return bigIntFromBytes(k.(shape.BytesKey)) })
}

func be64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func bigIntBytes(n *big.Int) []byte {
	mag := n.Bytes()
	buf := make([]byte, 9+len(mag))
	if n.Sign() >= 0 {
		buf[0] = 0x01
		binary.BigEndian.PutUint64(buf[1:9], uint64(len(mag)))
		copy(buf[9:], mag)
	} else {
		buf[0] = 0x00
		binary.BigEndian.PutUint64(buf[1:9], ^uint64(len(mag)))
		for i, b := range mag {
			buf[9+i] = ^b
		}
	}
	return buf
}

func bigIntFromBytes(buf []byte) *big.Int {
	n := new(big.Int)
	if buf[0] == 0x01 {
		return n.SetBytes(buf[9:])
	}
	mag := make([]byte, len(buf)-9)
	for i, b := range buf[9:] {
		mag[i] = ^b
	}
	return n.SetBytes(mag).Neg(n)
}

// Ordering is a three-valued comparison result, usable as a key type.
type Ordering int8

const (
	LT Ordering = -1
	EQ Ordering = 0
	GT Ordering = 1
)

// Ord is the codec for Ordering keys.
func Ord() Codec[Ordering] {
	return Derive(Int8(),
		func(o Ordering) int8 { return int8(o) },
		func(v int8) Ordering { return Ordering(v) })
}
