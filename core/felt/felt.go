package felt

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/fxamacker/cbor/v2"
)

const (
	Limbs = fp.Limbs // number of 64 bits words needed to represent a Element
	Bits  = fp.Bits  // number of bits needed to represent a Element
	Bytes = fp.Bytes // number of bytes needed to represent a Element
)

const base16 = 16

var ErrNotUint64 = errors.New("felt does not fit in a uint64")

// Zero felt constant
var Zero = Felt{}

// One felt constant
var One = FromUint64(1)

var bigIntPool = sync.Pool{
	New: func() interface{} {
		return new(big.Int)
	},
}

type Felt struct {
	val fp.Element
}

func NewFelt(element *fp.Element) *Felt {
	return &Felt{
		val: *element,
	}
}

// FromUint64 returns the felt representation of v.
func FromUint64(v uint64) Felt {
	var f Felt
	f.val.SetUint64(v)
	return f
}

// NewFromString parses a decimal or 0x-prefixed hexadecimal string.
func NewFromString(s string) (*Felt, error) {
	return new(Felt).SetString(s)
}

// MustFromString is NewFromString for compile-time constants. It panics on malformed input.
func MustFromString(s string) Felt {
	f, err := NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("felt: invalid constant %q: %v", s, err))
	}
	return *f
}

// Impl returns the underlying field element type
func (z *Felt) Impl() *fp.Element {
	return &z.val
}

// UnmarshalJSON accepts numbers and strings as input.
// See Element.SetString for valid prefixes (0x, 0b, ...).
// If there is an error, we try to explicitly unmarshal from hex before
// returning an error. This implementation is taken from [gnark-crypto].
//
// [gnark-crypto]: https://github.com/ConsenSys/gnark-crypto/blob/9fd0a7de2044f088a29cfac373da73d868230148/ecc/stark-curve/fp/element.go#L1028-L1056
func (z *Felt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > fp.Bits*3 {
		return errors.New("value too large (max = Element.Bits * 3)")
	}

	// we accept numbers and strings, remove leading and trailing quotes if any
	if len(s) > 0 && s[0] == '"' {
		s = s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == '"' {
		s = s[:len(s)-1]
	}

	// get temporary big int from the pool
	vv := bigIntPool.Get().(*big.Int)

	if _, ok := vv.SetString(s, 0); !ok {
		if _, ok := vv.SetString(s, base16); !ok {
			bigIntPool.Put(vv)
			return errors.New("can't parse into a big.Int: " + s)
		}
	}

	z.val.SetBigInt(vv)

	// release object into pool
	bigIntPool.Put(vv)
	return nil
}

// MarshalJSON encodes the felt as a 0x-prefixed hex string
func (z *Felt) MarshalJSON() ([]byte, error) {
	return []byte(`"` + z.String() + `"`), nil
}

// MarshalText allows felts to be used as JSON object keys.
func (z Felt) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

// UnmarshalText is used by yaml, mapstructure and JSON object keys.
func (z *Felt) UnmarshalText(text []byte) error {
	return z.UnmarshalJSON(text)
}

// MarshalCBOR encodes the felt as its 32 byte big-endian representation
func (z Felt) MarshalCBOR() ([]byte, error) {
	b := z.val.Bytes()
	return cbor.Marshal(b[:])
}

// UnmarshalCBOR decodes a felt encoded with MarshalCBOR
func (z *Felt) UnmarshalCBOR(data []byte) error {
	var raw []byte
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}
	return z.SetBytesCanonical(raw)
}

// SetInterface forwards the call to underlying field element implementation
func (z *Felt) SetInterface(i1 interface{}) (*Felt, error) {
	_, err := z.val.SetInterface(i1)
	return z, err
}

// SetBytes forwards the call to underlying field element implementation
func (z *Felt) SetBytes(e []byte) *Felt {
	z.val.SetBytes(e)
	return z
}

// SetBytesCanonical sets z from a big-endian byte slice and fails if the value is not reduced
func (z *Felt) SetBytesCanonical(data []byte) error {
	if len(data) > Bytes {
		return fmt.Errorf("felt: %d bytes exceed %d", len(data), Bytes)
	}
	return z.val.SetBytesCanonical(leftPad(data))
}

// SetString forwards the call to underlying field element implementation
func (z *Felt) SetString(number string) (*Felt, error) {
	_, err := z.val.SetString(number)
	return z, err
}

// SetUint64 forwards the call to underlying field element implementation
func (z *Felt) SetUint64(v uint64) *Felt {
	z.val.SetUint64(v)
	return z
}

// SetRandom forwards the call to underlying field element implementation
func (z *Felt) SetRandom() (*Felt, error) {
	_, err := z.val.SetRandom()
	return z, err
}

// String returns the 0x-prefixed lowercase hex representation
func (z *Felt) String() string {
	return "0x" + z.val.Text(base16)
}

// ShortString is String with the middle of long values elided, for logs
func (z *Felt) ShortString() string {
	const maxLen = 10
	s := z.String()
	if len(s) <= maxLen {
		return s
	}
	return s[:6] + "..." + s[len(s)-4:]
}

// Text forwards the call to underlying field element implementation
func (z *Felt) Text(base int) string {
	return z.val.Text(base)
}

// Equal forwards the call to underlying field element implementation
func (z *Felt) Equal(x *Felt) bool {
	return z.val.Equal(&x.val)
}

// Marshal forwards the call to underlying field element implementation
func (z *Felt) Marshal() []byte {
	return z.val.Marshal()
}

// Bytes forwards the call to underlying field element implementation
func (z *Felt) Bytes() [32]byte {
	return z.val.Bytes()
}

// IsOne forwards the call to underlying field element implementation
func (z *Felt) IsOne() bool {
	return z.val.IsOne()
}

// IsZero forwards the call to underlying field element implementation
func (z *Felt) IsZero() bool {
	return z.val.IsZero()
}

// Uint64 returns the value of z as a uint64, failing if it does not fit
func (z *Felt) Uint64() (uint64, error) {
	if !z.val.IsUint64() {
		return 0, ErrNotUint64
	}
	return z.val.Uint64(), nil
}

// BigInt returns the regular (non-Montgomery) value of z
func (z *Felt) BigInt(res *big.Int) *big.Int {
	return z.val.BigInt(res)
}

// Add forwards the call to underlying field element implementation
func (z *Felt) Add(x, y *Felt) *Felt {
	z.val.Add(&x.val, &y.val)
	return z
}

// Sub forwards the call to underlying field element implementation
func (z *Felt) Sub(x, y *Felt) *Felt {
	z.val.Sub(&x.val, &y.val)
	return z
}

// Cmp compares the regular (non-Montgomery) values of z and x
func (z *Felt) Cmp(x *Felt) int {
	return z.val.Cmp(&x.val)
}

// Clone returns a heap copy of z
func (z *Felt) Clone() *Felt {
	cp := *z
	return &cp
}

func leftPad(data []byte) []byte {
	if len(data) == Bytes {
		return data
	}
	padded := make([]byte, Bytes)
	copy(padded[Bytes-len(data):], data)
	return padded
}
