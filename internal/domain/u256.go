package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
)

var u128Max = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))

// MaxU256 returns 2^256 - 1, the value used for unlimited allowances.
func MaxU256() *uint256.Int {
	return new(uint256.Int).SetAllOne()
}

// U256ToFelts splits a Cairo u256 into its (low, high) felts.
func U256ToFelts(x *uint256.Int) []*Felt {
	low, _ := FeltFromUint256(new(uint256.Int).And(x, u128Max))
	high, _ := FeltFromUint256(new(uint256.Int).Rsh(x, 128))
	return []*Felt{low, high}
}

// U256FromFelts joins a (low, high) pair back into a u256.
func U256FromFelts(low, high *Felt) (*uint256.Int, error) {
	if low == nil || high == nil {
		return nil, fmt.Errorf("%w: incomplete u256", ErrInvalidFelt)
	}
	lo, hi := low.Uint256(), high.Uint256()
	if lo.BitLen() > 128 || hi.BitLen() > 128 {
		return nil, fmt.Errorf("%w: u256 limb exceeds 128 bits (low=%s high=%s)", ErrInvalidFelt, low, high)
	}
	z := new(uint256.Int).Lsh(hi, 128)
	return z.Or(z, lo), nil
}

// ParseAmount parses a token amount as decimal, 0x hex, or mantissa-exponent
// notation such as "1000000e18".
func ParseAmount(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		f, err := ParseFelt(s)
		if err != nil {
			return nil, err
		}
		return f.Uint256(), nil
	}

	mantissa, exponent, hasExp := strings.Cut(strings.ToLower(s), "e")
	z, err := uint256.FromDecimal(mantissa)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !hasExp {
		return z, nil
	}

	exp, err := strconv.ParseUint(exponent, 10, 8)
	if err != nil {
		return nil, fmt.Errorf("invalid amount exponent in %q: %w", s, err)
	}
	ten := uint256.NewInt(10)
	for i := uint64(0); i < exp; i++ {
		if _, overflow := z.MulOverflow(z, ten); overflow {
			return nil, fmt.Errorf("amount %q overflows u256", s)
		}
	}
	return z, nil
}
