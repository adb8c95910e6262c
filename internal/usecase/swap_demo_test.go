package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/models"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

var (
	bitcoin    = domain.MustParseFelt("0xb1")
	factory    = domain.MustParseFelt("0xf1")
	controller = domain.MustParseFelt("0xc1")
	pool       = domain.MustParseFelt("0x9001")
)

type swapFixture struct {
	*deployFixture
}

// newSwapFixture records a deployed suite and a pool holding 500 BTC and
// 1000 of the fee token.
func newSwapFixture(t *testing.T) *swapFixture {
	f := &swapFixture{newDeployFixture(t, true)}
	f.records.deployments["katana"] = models.Deployments{
		"Bitcoin":        {Label: "Bitcoin", Contract: "ERC20", Address: bitcoin},
		"PoolFactory":    {Label: "PoolFactory", Contract: "PoolFactory", Address: factory},
		"SwapController": {Label: "SwapController", Contract: "SwapController", Address: controller},
	}
	fee := domain.MustParseFelt(feeToken)
	f.chain.pools[pairKey(fee, bitcoin)] = pool
	// bitcoin sorts first, so it is the pool's token0
	f.chain.reserves[pool.Hex()] = [2]*uint256.Int{uint256.NewInt(500), uint256.NewInt(1000)}
	f.chain.balances[feeToken] = uint256.NewInt(2000)
	f.chain.balances[bitcoin.Hex()] = uint256.NewInt(0)
	return f
}

func (f *swapFixture) useCase() *usecase.SwapDemo {
	return usecase.NewSwapDemo(f.cfg, f.suites, f.records, f.chain, f.confirmer, f.progress, discardLogger())
}

func TestSwapDemo(t *testing.T) {
	ctx := context.Background()

	t.Run("swaps one percent of the bounded amount", func(t *testing.T) {
		f := newSwapFixture(t)

		result, err := f.useCase().Run(ctx, usecase.SwapDemoParams{})
		require.NoError(t, err)

		assert.True(t, result.Pool.Equal(pool))
		assert.Equal(t, uint64(1000), result.ReserveFrom.Uint64())
		assert.Equal(t, uint64(500), result.ReserveTo.Uint64())
		assert.Equal(t, uint64(10), result.Amount.Uint64())
		assert.Equal(t, uint64(5), result.Quote.Uint64())
		assert.Equal(t, uint64(5), result.Estimate.Uint64())
		assert.Equal(t, uint64(4), result.MinAmountOut.Uint64())
		assert.Equal(t, uint64(10), result.AllowanceTopUp.Uint64())
		assert.Equal(t, uint64(5), result.Received.Uint64())

		assert.Equal(t, []string{"invoke:increaseAllowance", "invoke:swapExactTokensForTokens"}, f.chain.ops)
		swap := f.chain.invokes[1]
		assert.True(t, swap.To.Equal(controller))
		assert.Equal(t, []string{feeToken, "0xb1", "0xa", "0x0", "0x4", "0x0"}, domain.FeltsToHex(swap.Calldata))
		assert.Len(t, result.Transactions, 2)
		assert.Equal(t, []usecase.ExecutionStage{usecase.StageSwap, usecase.StageDone}, f.progress.stages())
	})

	t.Run("sufficient allowance is not topped up", func(t *testing.T) {
		f := newSwapFixture(t)
		f.chain.allowances[feeToken] = uint256.NewInt(10)

		result, err := f.useCase().Run(ctx, usecase.SwapDemoParams{})
		require.NoError(t, err)
		assert.Nil(t, result.AllowanceTopUp)
		assert.Equal(t, []string{"invoke:swapExactTokensForTokens"}, f.chain.ops)
	})

	t.Run("reverse direction maps reserves by sorted position", func(t *testing.T) {
		f := newSwapFixture(t)
		f.chain.balances[bitcoin.Hex()] = uint256.NewInt(100_000)

		result, err := f.useCase().Run(ctx, usecase.SwapDemoParams{From: "${Bitcoin}", To: "${fee_token}", DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, uint64(500), result.ReserveFrom.Uint64())
		assert.Equal(t, uint64(5), result.Amount.Uint64())
	})

	t.Run("dry run quotes without writing", func(t *testing.T) {
		f := newSwapFixture(t)

		result, err := f.useCase().Run(ctx, usecase.SwapDemoParams{DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, uint64(10), result.Amount.Uint64())
		assert.Nil(t, result.Received)
		assert.Empty(t, f.chain.ops)
	})

	t.Run("custom divisor and slippage", func(t *testing.T) {
		f := newSwapFixture(t)
		slippage := uint64(0)

		result, err := f.useCase().Run(ctx, usecase.SwapDemoParams{Divisor: 10, SlippageBps: &slippage, DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, uint64(100), result.Amount.Uint64())
		assert.True(t, result.MinAmountOut.Eq(result.Quote))
	})

	t.Run("zero amount is an error", func(t *testing.T) {
		f := newSwapFixture(t)
		f.chain.balances[feeToken] = uint256.NewInt(99)

		_, err := f.useCase().Run(ctx, usecase.SwapDemoParams{})
		assert.ErrorIs(t, err, domain.ErrNothingToSwap)
		assert.Empty(t, f.chain.ops)
		assert.Equal(t, usecase.StageFailed, f.progress.stages()[len(f.progress.stages())-1])
	})

	t.Run("missing pool", func(t *testing.T) {
		f := newSwapFixture(t)
		f.chain.pools = map[string]*domain.Felt{}

		_, err := f.useCase().Run(ctx, usecase.SwapDemoParams{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("no recorded deployments", func(t *testing.T) {
		f := newSwapFixture(t)
		delete(f.records.deployments, "katana")

		_, err := f.useCase().Run(ctx, usecase.SwapDemoParams{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "run deploy first")
	})

	t.Run("requires credentials", func(t *testing.T) {
		f := newSwapFixture(t)
		f.cfg.Account = nil

		_, err := f.useCase().Run(ctx, usecase.SwapDemoParams{})
		var cfgErr *domain.ConfigError
		assert.True(t, errors.As(err, &cfgErr))
	})

	t.Run("remote network asks for confirmation", func(t *testing.T) {
		f := newSwapFixture(t)
		f.cfg.Network.Local = false
		f.confirmer.On("Confirm", mock.Anything, mock.Anything).Return(false, nil)

		result, err := f.useCase().Run(ctx, usecase.SwapDemoParams{})
		require.NoError(t, err)
		assert.True(t, result.Cancelled)
		assert.Empty(t, f.chain.ops)
	})
}
