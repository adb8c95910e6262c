package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/models"
)

const (
	defaultBootstrapPrice    = "15.66"
	defaultBootstrapShare    = "0.5"
	defaultBootstrapMinShare = "0.95"
)

// BootstrapResult describes the first pool and its seeded liquidity
type BootstrapResult struct {
	Pool             *DeploymentOutcome
	Token0           *domain.Felt
	Token1           *domain.Felt
	Registered       bool // false when the factory already knew the pool
	Balance0         *uint256.Int
	Balance1         *uint256.Int
	Liquidity        *domain.LiquidityPlan
	LiquiditySkipped bool // pool already held reserves
	Transactions     []*domain.Felt
}

type bootstrapParams struct {
	price    *big.Rat
	share    *big.Rat
	minShare *big.Rat
}

func parseBootstrapParams(b *models.BootstrapSpec) (*bootstrapParams, error) {
	parse := func(value, def, field string) (*big.Rat, error) {
		if value == "" {
			value = def
		}
		r, err := domain.ParseRatio(value)
		if err != nil {
			return nil, fmt.Errorf("bootstrap %s: %w", field, err)
		}
		return r, nil
	}

	price, err := parse(b.Price, defaultBootstrapPrice, "price")
	if err != nil {
		return nil, err
	}
	share, err := parse(b.Share, defaultBootstrapShare, "share")
	if err != nil {
		return nil, err
	}
	minShare, err := parse(b.MinShare, defaultBootstrapMinShare, "min_share")
	if err != nil {
		return nil, err
	}
	return &bootstrapParams{price: price, share: share, minShare: minShare}, nil
}

// bootstrap deploys the pool after the core set, registers it with the
// factory, grants the controller unlimited allowances and seeds liquidity.
func (uc *DeploySuite) bootstrap(ctx context.Context, run *deployRun, poolStep *DeploymentStep) (*BootstrapResult, error) {
	spec := run.suite.Bootstrap
	params, err := parseBootstrapParams(spec)
	if err != nil {
		return nil, err
	}

	uc.bootstrapProgress(ctx, 1, fmt.Sprintf("Deploying pool %s", poolStep.Label))
	poolOutcome, err := uc.deployStep(ctx, run, poolStep)
	if err != nil {
		return nil, err
	}
	pool := poolOutcome.Deployment.Address

	deployer, err := run.refs.address("${" + models.RefDeployer + "}")
	if err != nil {
		return nil, err
	}
	factory, err := run.refs.address("${" + spec.Factory + "}")
	if err != nil {
		return nil, err
	}
	controller, err := run.refs.address("${" + spec.Controller + "}")
	if err != nil {
		return nil, err
	}
	token0, err := run.refs.address(spec.Token0)
	if err != nil {
		return nil, fmt.Errorf("token0: %w", err)
	}
	token1, err := run.refs.address(spec.Token1)
	if err != nil {
		return nil, fmt.Errorf("token1: %w", err)
	}

	result := &BootstrapResult{Pool: poolOutcome, Token0: token0, Token1: token1}
	sorted0, sorted1 := domain.SortTokens(token0, token1)

	// Registration
	uc.bootstrapProgress(ctx, 2, "Registering pool with the factory")
	registered := false
	if run.params.Resume {
		existing, err := getPool(ctx, uc.chain, factory, sorted0, sorted1)
		if err != nil {
			return nil, err
		}
		registered = existing.Equal(pool)
	}
	if !registered {
		tx, err := uc.chain.Invoke(ctx, domain.NewCall(factory, "addManualPool", domain.Felts(pool, sorted0, sorted1)))
		if err != nil {
			return nil, fmt.Errorf("failed to register pool: %w", err)
		}
		result.Registered = true
		result.Transactions = append(result.Transactions, tx.TransactionHash)
	}

	// Balances and amounts
	uc.bootstrapProgress(ctx, 3, "Reading balances")
	if result.Balance0, err = balanceOf(ctx, uc.chain, token0, deployer); err != nil {
		return nil, err
	}
	if result.Balance1, err = balanceOf(ctx, uc.chain, token1, deployer); err != nil {
		return nil, err
	}

	if run.params.Resume {
		r0, r1, err := getReserves(ctx, uc.chain, pool)
		if err != nil {
			return nil, err
		}
		if !r0.IsZero() || !r1.IsZero() {
			uc.log.Info("pool already has liquidity, skipping", "pool", pool)
			result.LiquiditySkipped = true
			return result, nil
		}
	}

	plan, err := domain.PlanLiquidity(result.Balance0, result.Balance1, params.price, params.share, params.minShare)
	if err != nil {
		return nil, err
	}
	result.Liquidity = plan

	// Allowances
	uc.bootstrapProgress(ctx, 4, "Granting allowances to the controller")
	for _, grant := range []struct {
		token  *domain.Felt
		amount *uint256.Int
	}{{token0, plan.Amount0}, {token1, plan.Amount1}} {
		call, _, err := topUpAllowance(ctx, uc.chain, grant.token, deployer, controller, grant.amount, domain.MaxU256())
		if err != nil {
			return nil, err
		}
		if call == nil {
			continue
		}
		tx, err := uc.chain.Invoke(ctx, *call)
		if err != nil {
			return nil, fmt.Errorf("failed to grant allowance on %s: %w", grant.token, err)
		}
		result.Transactions = append(result.Transactions, tx.TransactionHash)
	}

	// Liquidity
	uc.bootstrapProgress(ctx, 5, "Adding liquidity")
	tx, err := uc.chain.Invoke(ctx, domain.NewCall(controller, "addLiquidity",
		domain.Felts(token0, token1),
		domain.U256(plan.Amount0), domain.U256(plan.Amount1),
		domain.U256(plan.Min0), domain.U256(plan.Min1)))
	if err != nil {
		return nil, fmt.Errorf("failed to add liquidity: %w", err)
	}
	result.Transactions = append(result.Transactions, tx.TransactionHash)

	uc.log.Info("seeded liquidity",
		"pool", pool,
		"amount0", plan.Amount0.Dec(),
		"amount1", plan.Amount1.Dec())
	return result, nil
}

func (uc *DeploySuite) bootstrapProgress(ctx context.Context, current int, message string) {
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageBootstrap,
		Current: current,
		Total:   5,
		Message: message,
		Spinner: true,
	})
}
