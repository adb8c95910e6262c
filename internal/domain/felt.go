package domain

import (
	"bytes"
	"fmt"
	"strings"

	junocrypto "github.com/NethermindEth/juno/core/crypto"
	"github.com/NethermindEth/juno/core/felt"
	"github.com/holiman/uint256"
)

// FieldPrime is the Starknet field modulus, 2^251 + 17*2^192 + 1.
var FieldPrime = uint256.MustFromHex("0x800000000000011000000000000000000000000000000000000000000000001")

const maxShortStringLen = 31

// Felt is a Starknet field element. The zero value is the felt 0.
type Felt struct {
	v felt.Felt
}

// NewFelt returns the felt for a small integer.
func NewFelt(x uint64) *Felt {
	f := &Felt{}
	f.v.SetUint64(x)
	return f
}

// FeltFromUint256 converts x, rejecting values outside the field.
func FeltFromUint256(x *uint256.Int) (*Felt, error) {
	if x == nil {
		return nil, fmt.Errorf("%w: nil value", ErrInvalidFelt)
	}
	if !x.Lt(FieldPrime) {
		return nil, fmt.Errorf("%w: %s is not below the field prime", ErrInvalidFelt, x.Hex())
	}
	b := x.Bytes32()
	f := &Felt{}
	f.v.SetBytes(b[:])
	return f, nil
}

// ParseFelt parses a 0x-prefixed hex or a decimal string.
func ParseFelt(s string) (*Felt, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty value", ErrInvalidFelt)
	}

	var (
		x   *uint256.Int
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits := s[2:]
		if digits == "" {
			return nil, fmt.Errorf("%w: %q has no digits", ErrInvalidFelt, s)
		}
		// uint256 refuses leading zeros, which are common in padded addresses.
		digits = strings.TrimLeft(digits, "0")
		if digits == "" {
			return NewFelt(0), nil
		}
		x, err = uint256.FromHex("0x" + digits)
	} else {
		x, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFelt, s, err)
	}
	return FeltFromUint256(x)
}

// MustParseFelt is like ParseFelt but panics on malformed input.
func MustParseFelt(s string) *Felt {
	f, err := ParseFelt(s)
	if err != nil {
		panic(err)
	}
	return f
}

// EncodeShortString packs an ASCII string of at most 31 characters into a felt.
func EncodeShortString(s string) (*Felt, error) {
	if len(s) > maxShortStringLen {
		return nil, fmt.Errorf("%w: short string %q is longer than %d characters", ErrInvalidFelt, s, maxShortStringLen)
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return nil, fmt.Errorf("%w: short string %q is not ASCII", ErrInvalidFelt, s)
		}
	}
	f := &Felt{}
	f.v.SetBytes([]byte(s))
	return f, nil
}

// Selector computes the entry point selector for a function name (sn_keccak).
func Selector(name string) *Felt {
	if name == "__default__" || name == "__l1_default__" {
		return NewFelt(0)
	}
	return FromJuno(junocrypto.StarknetKeccak([]byte(name)))
}

// ShortString decodes the felt as a printable short string.
func (f *Felt) ShortString() (string, bool) {
	if f.IsZero() {
		return "", false
	}
	full := f.v.Bytes()
	b := bytes.TrimLeft(full[:], "\x00")
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return "", false
		}
	}
	return string(b), true
}

// Uint256 returns a copy of the underlying integer.
func (f *Felt) Uint256() *uint256.Int {
	if f == nil {
		return new(uint256.Int)
	}
	b := f.v.Bytes()
	return new(uint256.Int).SetBytes32(b[:])
}

// FromJuno wraps a juno field element.
func FromJuno(v *felt.Felt) *Felt {
	f := &Felt{}
	if v != nil {
		f.v.Set(v)
	}
	return f
}

// Juno returns a copy as a juno field element.
func (f *Felt) Juno() *felt.Felt {
	if f == nil {
		return new(felt.Felt)
	}
	return new(felt.Felt).Set(&f.v)
}

func (f *Felt) IsZero() bool {
	return f == nil || f.v.IsZero()
}

func (f *Felt) Cmp(other *Felt) int {
	return f.v.Cmp(&other.v)
}

func (f *Felt) Equal(other *Felt) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.v.Equal(&other.v)
}

// Hex returns the minimal 0x-prefixed hex form.
func (f *Felt) Hex() string {
	if f == nil {
		return "0x0"
	}
	return f.v.String()
}

func (f *Felt) String() string {
	return f.Hex()
}

func (f *Felt) MarshalText() ([]byte, error) {
	return []byte(f.Hex()), nil
}

func (f *Felt) UnmarshalText(text []byte) error {
	parsed, err := ParseFelt(string(text))
	if err != nil {
		return err
	}
	*f = *parsed
	return nil
}

// FeltsToHex renders a calldata list as hex strings.
func FeltsToHex(felts []*Felt) []string {
	out := make([]string, len(felts))
	for i, f := range felts {
		out[i] = f.Hex()
	}
	return out
}
