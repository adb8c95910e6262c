package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/holiman/uint256"
	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
)

// SwapDemoParams contains parameters for the demonstration swap
type SwapDemoParams struct {
	From        string  // token reference or address, suite default when empty
	To          string  // token reference or address, suite default when empty
	Divisor     uint64  // suite default when zero
	SlippageBps *uint64 // suite default when nil
	DryRun      bool    // quote only
}

// SwapDemoResult contains the outcome of the demonstration swap
type SwapDemoResult struct {
	Network        string
	Account        *domain.Felt
	From           *domain.Felt
	To             *domain.Felt
	Pool           *domain.Felt
	ReserveFrom    *uint256.Int
	ReserveTo      *uint256.Int
	BalanceFrom    *uint256.Int
	BalanceTo      *uint256.Int
	Amount         *uint256.Int
	Quote          *uint256.Int
	Estimate       *uint256.Int // local constant product estimate
	MinAmountOut   *uint256.Int
	SlippageBps    uint64
	AllowanceTopUp *uint256.Int // nil when the allowance already sufficed
	Received       *uint256.Int
	Transactions   []*domain.Felt
	DryRun         bool
	Cancelled      bool
}

// SwapDemo performs one swap against the deployed suite
type SwapDemo struct {
	cfg         *config.RuntimeConfig
	suites      SuiteLoader
	deployments DeploymentRepository
	chain       ChainClient
	confirmer   Confirmer
	progress    ProgressSink
	log         *slog.Logger
}

// NewSwapDemo creates a new SwapDemo use case
func NewSwapDemo(
	cfg *config.RuntimeConfig,
	suites SuiteLoader,
	deployments DeploymentRepository,
	chain ChainClient,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *SwapDemo {
	return &SwapDemo{
		cfg:         cfg,
		suites:      suites,
		deployments: deployments,
		chain:       chain,
		confirmer:   confirmer,
		progress:    progress,
		log:         log.With("component", "swap"),
	}
}

// Run executes the use case
func (uc *SwapDemo) Run(ctx context.Context, params SwapDemoParams) (*SwapDemoResult, error) {
	result, err := uc.run(ctx, params)
	if err == nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDone, Message: "Swap complete"})
	}
	endRun(ctx, uc.progress, err)
	return result, err
}

func (uc *SwapDemo) run(ctx context.Context, params SwapDemoParams) (*SwapDemoResult, error) {
	network := uc.cfg.Network
	account, err := uc.cfg.RequireAccount()
	if err != nil {
		return nil, err
	}

	suite, err := uc.suites.LoadSuite(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load suite: %w", err)
	}
	spec := suite.Swap
	if spec == nil {
		return nil, fmt.Errorf("suite %s has no swap section", suite.Name)
	}

	records, err := uc.deployments.LoadDeployments(ctx, network.Name)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no deployments recorded for network %s, run deploy first", domain.ErrNotFound, network.Name)
	}

	feeToken, err := network.FeeTokenAddress()
	if err != nil {
		return nil, err
	}
	refs := newReferences(account.Address, feeToken)
	for label, dep := range records {
		refs.set(label, dep.Address)
	}

	from, err := refs.address(firstNonEmpty(params.From, spec.From))
	if err != nil {
		return nil, fmt.Errorf("from token: %w", err)
	}
	to, err := refs.address(firstNonEmpty(params.To, spec.To))
	if err != nil {
		return nil, fmt.Errorf("to token: %w", err)
	}
	if from.Equal(to) {
		return nil, fmt.Errorf("cannot swap %s for itself", from)
	}
	factory, err := refs.address("${" + spec.Factory + "}")
	if err != nil {
		return nil, fmt.Errorf("factory: %w", err)
	}
	controller, err := refs.address("${" + spec.Controller + "}")
	if err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}

	divisor := params.Divisor
	if divisor == 0 {
		divisor = spec.Divisor
	}
	slippage := uint64(domain.DefaultSlippageBps)
	if spec.SlippageBps != 0 {
		slippage = spec.SlippageBps
	}
	if params.SlippageBps != nil {
		slippage = *params.SlippageBps
	}
	if slippage > domain.BpsDenominator {
		return nil, fmt.Errorf("slippage %d bps exceeds 100%%", slippage)
	}

	result := &SwapDemoResult{
		Network:     network.Name,
		Account:     account.Address,
		From:        from,
		To:          to,
		SlippageBps: slippage,
		DryRun:      params.DryRun,
	}

	uc.step(ctx, 1, "Locating pool")
	token0, token1 := domain.SortTokens(from, to)
	pool, err := getPool(ctx, uc.chain, factory, token0, token1)
	if err != nil {
		return nil, err
	}
	if pool.IsZero() {
		return nil, fmt.Errorf("%w: no pool for %s/%s", domain.ErrNotFound, token0, token1)
	}
	result.Pool = pool

	r0, r1, err := getReserves(ctx, uc.chain, pool)
	if err != nil {
		return nil, err
	}
	if from.Equal(token0) {
		result.ReserveFrom, result.ReserveTo = r0, r1
	} else {
		result.ReserveFrom, result.ReserveTo = r1, r0
	}

	uc.step(ctx, 2, "Reading balances")
	if result.BalanceFrom, err = balanceOf(ctx, uc.chain, from, account.Address); err != nil {
		return nil, err
	}
	if result.BalanceTo, err = balanceOf(ctx, uc.chain, to, account.Address); err != nil {
		return nil, err
	}

	amount := domain.TradeAmount(result.BalanceFrom, result.ReserveFrom, divisor)
	if amount.IsZero() {
		return nil, fmt.Errorf("%w: balance %s and reserve %s leave no tradeable amount", domain.ErrNothingToSwap,
			result.BalanceFrom.Dec(), result.ReserveFrom.Dec())
	}
	result.Amount = amount
	result.Estimate = domain.EstimateAmountOut(amount, result.ReserveFrom, result.ReserveTo, domain.LPFeeBps)

	uc.step(ctx, 3, "Quoting")
	q, err := quote(ctx, uc.chain, controller, amount, result.ReserveFrom, result.ReserveTo)
	if err != nil {
		return nil, err
	}
	result.Quote = q
	result.MinAmountOut = domain.MinAmountOut(q, slippage)

	uc.log.Info("swap quoted",
		"amount_in", amount.Dec(),
		"quote", q.Dec(),
		"estimate", result.Estimate.Dec(),
		"min_out", result.MinAmountOut.Dec())

	if params.DryRun {
		return result, nil
	}

	if !network.Local && !uc.cfg.NonInteractive {
		ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Swap %s of %s on %s", amount.Dec(), from, network.Name))
		if err != nil {
			return nil, err
		}
		if !ok {
			result.Cancelled = true
			return result, nil
		}
	}

	uc.step(ctx, 4, "Approving controller")
	topUp, current, err := topUpAllowance(ctx, uc.chain, from, account.Address, controller, amount, amount)
	if err != nil {
		return nil, err
	}
	if topUp != nil {
		tx, err := uc.chain.Invoke(ctx, *topUp)
		if err != nil {
			return nil, fmt.Errorf("failed to increase allowance: %w", err)
		}
		result.AllowanceTopUp = new(uint256.Int).Sub(amount, current)
		result.Transactions = append(result.Transactions, tx.TransactionHash)
	}

	uc.step(ctx, 5, "Swapping")
	tx, err := uc.chain.Invoke(ctx, domain.NewCall(controller, "swapExactTokensForTokens",
		domain.Felts(from, to), domain.U256(amount), domain.U256(result.MinAmountOut)))
	if err != nil {
		return nil, fmt.Errorf("swap failed: %w", err)
	}
	result.Transactions = append(result.Transactions, tx.TransactionHash)

	newBalance, err := balanceOf(ctx, uc.chain, to, account.Address)
	if err != nil {
		return nil, err
	}
	result.Received = new(uint256.Int)
	if result.BalanceTo.Lt(newBalance) {
		result.Received.Sub(newBalance, result.BalanceTo)
	}

	uc.log.Info("swapped", "amount_in", amount.Dec(), "received", result.Received.Dec(), "tx", tx.TransactionHash)
	return result, nil
}

func (uc *SwapDemo) step(ctx context.Context, current int, message string) {
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageSwap,
		Current: current,
		Total:   5,
		Message: message,
		Spinner: true,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
