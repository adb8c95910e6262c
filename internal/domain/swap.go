package domain

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

const (
	// BpsDenominator is 100% expressed in basis points.
	BpsDenominator = 10_000

	// DefaultSlippageBps tolerates a 10% price movement between quote and swap.
	DefaultSlippageBps = 1_000

	// DefaultTradeDivisor trades one percent of the available bound.
	DefaultTradeDivisor = 100

	// LPFeeBps is the liquidity provider fee charged by the pool (0.3%).
	LPFeeBps = 30
)

// SortTokens orders two token addresses numerically, the order pools use.
func SortTokens(a, b *Felt) (*Felt, *Felt) {
	if a.Cmp(b) <= 0 {
		return a, b
	}
	return b, a
}

// TradeAmount returns min(balance, reserve) / divisor, so the trade never
// exceeds the caller's balance nor the pool's reserve.
func TradeAmount(balance, reserve *uint256.Int, divisor uint64) *uint256.Int {
	if divisor == 0 {
		divisor = DefaultTradeDivisor
	}
	bound := balance
	if reserve.Lt(balance) {
		bound = reserve
	}
	return new(uint256.Int).Div(bound, uint256.NewInt(divisor))
}

// MinAmountOut applies the slippage tolerance to a quoted output.
func MinAmountOut(quote *uint256.Int, slippageBps uint64) *uint256.Int {
	if slippageBps >= BpsDenominator {
		return new(uint256.Int)
	}
	z, _ := new(uint256.Int).MulDivOverflow(quote, uint256.NewInt(BpsDenominator-slippageBps), uint256.NewInt(BpsDenominator))
	return z
}

// EstimateAmountOut prices a swap on a constant product pool after the LP fee.
// The fee is floor(amountIn * feeBps / 10000) and is subtracted from the input.
// It returns zero when either reserve is empty or the math overflows.
func EstimateAmountOut(amountIn, reserveIn, reserveOut *uint256.Int, feeBps uint64) *uint256.Int {
	if reserveIn.IsZero() || reserveOut.IsZero() || feeBps >= BpsDenominator {
		return new(uint256.Int)
	}
	fee, overflow := new(uint256.Int).MulDivOverflow(amountIn, uint256.NewInt(feeBps), uint256.NewInt(BpsDenominator))
	if overflow {
		return new(uint256.Int)
	}
	inAfterFee := new(uint256.Int).Sub(amountIn, fee)
	newReserveIn, overflow := new(uint256.Int).AddOverflow(reserveIn, inAfterFee)
	if overflow {
		return new(uint256.Int)
	}
	newReserveOut, overflow := new(uint256.Int).MulDivOverflow(reserveIn, reserveOut, newReserveIn)
	if overflow {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(reserveOut, newReserveOut)
}

// LiquidityPlan holds the amounts passed to addLiquidity.
type LiquidityPlan struct {
	Amount0 *uint256.Int
	Amount1 *uint256.Int
	Min0    *uint256.Int
	Min1    *uint256.Int
}

// PlanLiquidity sizes the initial liquidity at the given price (token1 per
// token0). amount0 = min(balance0, balance1/price) * share keeps both legs
// within the available balances.
func PlanLiquidity(balance0, balance1 *uint256.Int, price, share, minShare *big.Rat) (*LiquidityPlan, error) {
	if price.Sign() <= 0 {
		return nil, fmt.Errorf("price must be positive, got %s", price.FloatString(4))
	}
	one := big.NewRat(1, 1)
	if share.Sign() <= 0 || share.Cmp(one) > 0 {
		return nil, fmt.Errorf("liquidity share must be in (0, 1], got %s", share.FloatString(4))
	}
	if minShare.Sign() < 0 || minShare.Cmp(one) > 0 {
		return nil, fmt.Errorf("minimum share must be in [0, 1], got %s", minShare.FloatString(4))
	}

	b0 := new(big.Rat).SetInt(balance0.ToBig())
	b1 := new(big.Rat).Quo(new(big.Rat).SetInt(balance1.ToBig()), price)
	bound := b0
	if b1.Cmp(b0) < 0 {
		bound = b1
	}

	a0 := floorRat(new(big.Rat).Mul(bound, share))
	if a0.Sign() == 0 {
		return nil, errors.New("insufficient token balances to seed liquidity")
	}
	a0Rat := new(big.Rat).SetInt(a0)
	a1 := floorRat(new(big.Rat).Mul(a0Rat, price))
	m0 := floorRat(new(big.Rat).Mul(a0Rat, minShare))
	m1 := floorRat(new(big.Rat).Mul(new(big.Rat).SetInt(a1), minShare))

	// All values are bounded by the balances, so they fit in 256 bits.
	return &LiquidityPlan{
		Amount0: uint256.MustFromBig(a0),
		Amount1: uint256.MustFromBig(a1),
		Min0:    uint256.MustFromBig(m0),
		Min1:    uint256.MustFromBig(m1),
	}, nil
}

// ParseRatio parses a decimal ratio such as "15.66".
func ParseRatio(s string) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid ratio %q", s)
	}
	return r, nil
}

func floorRat(r *big.Rat) *big.Int {
	return new(big.Int).Quo(r.Num(), r.Denom())
}
