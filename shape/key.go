package shape

// Key is the shape form of a concrete key value. A codec converts each
// key to exactly one Key tree matching the key type's Shape; the trie
// trusts that correspondence and never validates it.
//
// There is no key form for Void (no value exists) and none for Wrap
// (it is transparent).
type Key interface {
	isKey()
}

// UnitKey is the single value of a Unit position.
type UnitKey struct{}

// PairKey carries both halves of a Product position.
type PairKey struct {
	Fst, Snd Key
}

// Left selects the left side of a Sum position.
type Left struct {
	In Key
}

// Right selects the right side of a Sum position.
type Right struct {
	In Key
}

// IntKey indexes a sparse-integer leaf. Codecs for signed types bias
// the value so that numeric order survives the uint64 conversion.
type IntKey uint64

// BytesKey indexes an ordered leaf. The bytes must already be an
// order-preserving encoding of the original key.
type BytesKey []byte

// BoolKey indexes a two-slot boolean leaf.
type BoolKey bool

func (UnitKey) isKey()  {}
func (PairKey) isKey()  {}
func (Left) isKey()     {}
func (Right) isKey()    {}
func (IntKey) isKey()   {}
func (BytesKey) isKey() {}
func (BoolKey) isKey()  {}
