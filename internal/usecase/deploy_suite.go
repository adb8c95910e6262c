package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
	"github.com/trebuchet-org/starkswap/internal/domain/models"
)

// DeploySuiteParams contains parameters for a suite deployment
type DeploySuiteParams struct {
	Resume        bool // reuse persisted deployments still present on chain
	DryRun        bool // stop after planning
	SkipBootstrap bool
}

// DeploySuiteResult contains the outcome of a suite deployment
type DeploySuiteResult struct {
	Network      string
	Account      *domain.Felt
	ChainID      *domain.ChainIDLookup
	Plan         *DeploymentPlan
	Artifacts    []*models.ContractArtifact
	Declared     []*DeclaredContract
	Declarations models.Declarations
	Deployments  []*DeploymentOutcome
	Bootstrap    *BootstrapResult
	DryRun       bool
	Cancelled    bool
}

// DeploymentOutcome is one deployed or reused instance
type DeploymentOutcome struct {
	Deployment *models.Deployment
	Reused     bool
}

// DeploySuite runs CONFIGURE, DECLARE, DEPLOY and BOOTSTRAP in order,
// persisting records as it goes
type DeploySuite struct {
	cfg         *config.RuntimeConfig
	suites      SuiteLoader
	declare     *DeclareContracts
	deployments DeploymentRepository
	chain       ChainClient
	confirmer   Confirmer
	progress    ProgressSink
	log         *slog.Logger
	now         func() time.Time
}

// NewDeploySuite creates a new DeploySuite use case
func NewDeploySuite(
	cfg *config.RuntimeConfig,
	suites SuiteLoader,
	declare *DeclareContracts,
	deployments DeploymentRepository,
	chain ChainClient,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *DeploySuite {
	return &DeploySuite{
		cfg:         cfg,
		suites:      suites,
		declare:     declare,
		deployments: deployments,
		chain:       chain,
		confirmer:   confirmer,
		progress:    progress,
		log:         log.With("component", "deploy"),
		now:         time.Now,
	}
}

// deployRun carries the state shared by the DEPLOY and BOOTSTRAP stages
type deployRun struct {
	params       DeploySuiteParams
	suite        *models.Suite
	declarations models.Declarations
	previous     models.Deployments // persisted records, only with --resume
	records      models.Deployments // records written by this run
	fresh        map[string]bool    // labels deployed (not reused) by this run
	refs         *references
	result       *DeploySuiteResult
}

// Run executes the use case
func (uc *DeploySuite) Run(ctx context.Context, params DeploySuiteParams) (*DeploySuiteResult, error) {
	result, err := uc.run(ctx, params)
	endRun(ctx, uc.progress, err)
	return result, err
}

func (uc *DeploySuite) run(ctx context.Context, params DeploySuiteParams) (*DeploySuiteResult, error) {
	network := uc.cfg.Network

	// CONFIGURE
	uc.stage(ctx, StageConfigure, fmt.Sprintf("Configuring deployment on %s", network.Name))
	suite, err := uc.suites.LoadSuite(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load suite: %w", err)
	}
	plan, err := BuildDeploymentPlan(suite)
	if err != nil {
		return nil, err
	}

	result := &DeploySuiteResult{
		Network: network.Name,
		Plan:    plan,
		DryRun:  params.DryRun,
	}
	if params.SkipBootstrap {
		plan.Pool = nil
	}

	account, err := uc.cfg.RequireAccount()
	if err != nil && !params.DryRun {
		return nil, err
	}
	if account != nil {
		result.Account = account.Address
	}

	if !uc.cfg.SkipChainID {
		lookup, err := uc.chain.ChainID(ctx)
		if err != nil {
			return nil, err
		}
		result.ChainID = lookup
		if lookup.Supported {
			uc.log.Info("connected", "network", network.Name, "chain_id", lookup.Name())
		} else {
			uc.log.Warn("node does not report a chain id", "network", network.Name, "reason", lookup.Reason)
		}
	}

	if params.DryRun {
		declared, err := uc.declare.run(ctx, DeclareContractsParams{Contracts: plan.Contracts, DryRun: true})
		if err != nil {
			return nil, err
		}
		result.Artifacts = declared.Artifacts
		uc.stage(ctx, StageDone, "Dry run complete")
		return result, nil
	}

	if !network.Local && !uc.cfg.NonInteractive {
		ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Deploy suite %s to %s (%s)", suite.Name, network.Name, network.RPCURL))
		if err != nil {
			return nil, err
		}
		if !ok {
			result.Cancelled = true
			return result, nil
		}
	}

	// DECLARE
	uc.stage(ctx, StageDeclare, fmt.Sprintf("Declaring %d contracts", len(plan.Contracts)))
	declared, err := uc.declare.run(ctx, DeclareContractsParams{Contracts: plan.Contracts, Replace: true})
	if err != nil {
		return nil, err
	}
	result.Artifacts = declared.Artifacts
	result.Declared = declared.Declared
	result.Declarations = declared.Declarations

	feeToken, err := network.FeeTokenAddress()
	if err != nil {
		return nil, err
	}
	run := &deployRun{
		params:       params,
		suite:        suite,
		declarations: declared.Declarations,
		previous:     models.Deployments{},
		records:      models.Deployments{},
		fresh:        map[string]bool{},
		refs:         newReferences(account.Address, feeToken),
		result:       result,
	}
	if params.Resume {
		previous, err := uc.deployments.LoadDeployments(ctx, network.Name)
		if err != nil {
			return nil, err
		}
		run.previous = previous
		// Keep records the suite no longer mentions.
		for label, dep := range previous {
			run.records[label] = dep
		}
	}

	// DEPLOY
	uc.stage(ctx, StageDeploy, fmt.Sprintf("Deploying %d contracts", len(plan.Steps)))
	for i, step := range plan.Steps {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageDeploy,
			Current: i + 1,
			Total:   len(plan.Steps),
			Message: fmt.Sprintf("Deploying %s (%s)", step.Label, step.Contract),
			Spinner: true,
		})
		outcome, err := uc.deployStep(ctx, run, step)
		if err != nil {
			return nil, err
		}
		result.Deployments = append(result.Deployments, outcome)
	}

	// BOOTSTRAP
	if plan.Pool != nil {
		uc.stage(ctx, StageBootstrap, "Bootstrapping the first pool")
		bootstrap, err := uc.bootstrap(ctx, run, plan.Pool)
		if err != nil {
			return nil, fmt.Errorf("bootstrap failed: %w", err)
		}
		result.Bootstrap = bootstrap
	}

	uc.stage(ctx, StageDone, "Deployment complete")
	return result, nil
}

// deployStep deploys one instance, or reuses the persisted one when resuming
// and the chain still holds it, and persists the record immediately.
func (uc *DeploySuite) deployStep(ctx context.Context, run *deployRun, step *DeploymentStep) (*DeploymentOutcome, error) {
	network := uc.cfg.Network.Name

	classHash, ok := run.declarations[step.Contract]
	if !ok {
		return nil, fmt.Errorf("contract %s was not declared", step.Contract)
	}

	args, calldata, err := run.refs.arguments(step.Spec.Args)
	if err != nil {
		return nil, fmt.Errorf("deployment %s: %w", step.Label, err)
	}

	// A dependency redeployed in this run invalidates the persisted instance.
	depsChanged := lo.SomeBy(step.Dependencies, func(dep string) bool { return run.fresh[dep] })
	if run.params.Resume && !depsChanged {
		if prev, ok := run.previous[step.Label]; ok {
			reusable, err := uc.isDeployed(ctx, prev, classHash)
			if err != nil {
				return nil, err
			}
			if reusable {
				uc.log.Info("reusing deployment", "label", step.Label, "address", prev.Address)
				uc.progress.Info(fmt.Sprintf("Reusing %s at %s", step.Label, prev.Address.Hex()))
				run.refs.set(step.Label, prev.Address)
				return &DeploymentOutcome{Deployment: prev, Reused: true}, nil
			}
		}
	}

	res, err := uc.chain.Deploy(ctx, DeployRequest{
		Label:     step.Label,
		ClassHash: classHash,
		Calldata:  calldata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", step.Label, err)
	}

	deployment := &models.Deployment{
		Label:           step.Label,
		Contract:        step.Contract,
		Address:         res.Address,
		ClassHash:       classHash,
		ConstructorArgs: args,
		Calldata:        calldata,
		Salt:            res.Salt,
		TransactionHash: res.TransactionHash,
		DeployedAt:      uc.now().UTC(),
	}
	uc.log.Info("deployed contract", "label", step.Label, "contract", step.Contract, "address", res.Address)

	run.refs.set(step.Label, res.Address)
	run.fresh[step.Label] = true
	run.records[step.Label] = deployment
	if err := uc.deployments.SaveDeployments(ctx, network, run.records); err != nil {
		return nil, err
	}
	return &DeploymentOutcome{Deployment: deployment}, nil
}

// isDeployed reports whether a persisted record still matches the chain.
func (uc *DeploySuite) isDeployed(ctx context.Context, prev *models.Deployment, classHash *domain.Felt) (bool, error) {
	if prev.Address == nil {
		return false, nil
	}
	onChain, err := uc.chain.ClassHashAt(ctx, prev.Address)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !onChain.Equal(classHash) {
		uc.log.Warn("persisted deployment has a different class, redeploying",
			"label", prev.Label, "address", prev.Address, "on_chain", onChain, "declared", classHash)
		return false, nil
	}
	return true, nil
}

func (uc *DeploySuite) stage(ctx context.Context, stage ExecutionStage, message string) {
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: stage, Message: message})
}
