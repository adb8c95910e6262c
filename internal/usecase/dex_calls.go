package usecase

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/trebuchet-org/starkswap/internal/domain"
)

// Read helpers for the ERC20, factory, pool and controller contracts.

func callU256(ctx context.Context, chain ChainReader, call domain.Call) (*uint256.Int, error) {
	out, err := chain.Call(ctx, call)
	if err != nil {
		return nil, err
	}
	if len(out) < 2 {
		return nil, fmt.Errorf("%s returned %d felts, expected a u256", call.Function, len(out))
	}
	return domain.U256FromFelts(out[0], out[1])
}

func balanceOf(ctx context.Context, chain ChainReader, token, owner *domain.Felt) (*uint256.Int, error) {
	return callU256(ctx, chain, domain.NewCall(token, "balanceOf", domain.Felts(owner)))
}

func allowance(ctx context.Context, chain ChainReader, token, owner, spender *domain.Felt) (*uint256.Int, error) {
	return callU256(ctx, chain, domain.NewCall(token, "allowance", domain.Felts(owner, spender)))
}

// getPool expects the token pair in sorted order.
func getPool(ctx context.Context, chain ChainReader, factory, token0, token1 *domain.Felt) (*domain.Felt, error) {
	out, err := chain.Call(ctx, domain.NewCall(factory, "getPool", domain.Felts(token0, token1)))
	if err != nil {
		return nil, err
	}
	if len(out) < 1 {
		return nil, fmt.Errorf("getPool returned no address")
	}
	return out[0], nil
}

// getReserves returns the reserves of the sorted token0 and token1.
func getReserves(ctx context.Context, chain ChainReader, pool *domain.Felt) (*uint256.Int, *uint256.Int, error) {
	out, err := chain.Call(ctx, domain.NewCall(pool, "getReserves"))
	if err != nil {
		return nil, nil, err
	}
	if len(out) < 4 {
		return nil, nil, fmt.Errorf("getReserves returned %d felts, expected two u256", len(out))
	}
	r0, err := domain.U256FromFelts(out[0], out[1])
	if err != nil {
		return nil, nil, err
	}
	r1, err := domain.U256FromFelts(out[2], out[3])
	if err != nil {
		return nil, nil, err
	}
	return r0, r1, nil
}

func quote(ctx context.Context, chain ChainReader, controller *domain.Felt, amount, reserveFrom, reserveTo *uint256.Int) (*uint256.Int, error) {
	return callU256(ctx, chain, domain.NewCall(controller, "quote",
		domain.U256(amount), domain.U256(reserveFrom), domain.U256(reserveTo)))
}

// topUpAllowance returns the increaseAllowance call that raises the spender's
// allowance to target, or nil when the current allowance already covers required.
func topUpAllowance(ctx context.Context, chain ChainReader, token, owner, spender *domain.Felt, required, target *uint256.Int) (*domain.Call, *uint256.Int, error) {
	current, err := allowance(ctx, chain, token, owner, spender)
	if err != nil {
		return nil, nil, err
	}
	if !current.Lt(required) {
		return nil, current, nil
	}
	added := new(uint256.Int).Sub(target, current)
	call := domain.NewCall(token, "increaseAllowance", domain.Felts(spender), domain.U256(added))
	return &call, current, nil
}
