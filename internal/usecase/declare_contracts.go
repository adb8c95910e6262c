package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
	"github.com/trebuchet-org/starkswap/internal/domain/models"
)

// DeclareContractsParams contains parameters for declaring contracts
type DeclareContractsParams struct {
	Contracts []string // suite contracts when empty
	DryRun    bool
	// Replace overwrites the declaration record instead of merging into it.
	// Implied when Contracts is empty.
	Replace bool
}

// DeclareContractsResult contains the outcome of a declaration run
type DeclareContractsResult struct {
	Network      string
	Artifacts    []*models.ContractArtifact
	Declared     []*DeclaredContract
	Declarations models.Declarations
	Unused       []string // compiled contracts that were not requested, dry run only
	DryRun       bool
}

// DeclaredContract is the declaration outcome of one contract
type DeclaredContract struct {
	Name            string
	ClassHash       *domain.Felt
	TransactionHash *domain.Felt
	AlreadyDeclared bool
}

// DeclareContracts declares each requested contract class exactly once and
// persists the resulting class hashes
type DeclareContracts struct {
	cfg          *config.RuntimeConfig
	suites       SuiteLoader
	artifacts    ArtifactRepository
	declarations DeclarationRepository
	signer       AccountSigner
	progress     ProgressSink
	log          *slog.Logger
}

// NewDeclareContracts creates a new DeclareContracts use case
func NewDeclareContracts(
	cfg *config.RuntimeConfig,
	suites SuiteLoader,
	artifacts ArtifactRepository,
	declarations DeclarationRepository,
	signer AccountSigner,
	progress ProgressSink,
	log *slog.Logger,
) *DeclareContracts {
	return &DeclareContracts{
		cfg:          cfg,
		suites:       suites,
		artifacts:    artifacts,
		declarations: declarations,
		signer:       signer,
		progress:     progress,
		log:          log.With("component", "declare"),
	}
}

// Run executes the use case
func (uc *DeclareContracts) Run(ctx context.Context, params DeclareContractsParams) (*DeclareContractsResult, error) {
	result, err := uc.run(ctx, params)
	if err == nil && !params.DryRun {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDone, Message: "Declaration complete"})
	}
	endRun(ctx, uc.progress, err)
	return result, err
}

// run declares without closing the progress display, for use inside a suite deployment
func (uc *DeclareContracts) run(ctx context.Context, params DeclareContractsParams) (*DeclareContractsResult, error) {
	names := lo.Uniq(params.Contracts)
	replace := params.Replace || len(names) == 0
	if len(names) == 0 {
		suite, err := uc.suites.LoadSuite(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load suite: %w", err)
		}
		names = lo.Uniq(suite.Contracts)
	}

	if !params.DryRun {
		if _, err := uc.cfg.RequireAccount(); err != nil {
			return nil, err
		}
	}

	// Resolve every artifact before sending anything.
	artifacts := make([]*models.ContractArtifact, 0, len(names))
	for _, name := range names {
		artifact, err := uc.artifacts.GetArtifact(ctx, name)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}

	result := &DeclareContractsResult{
		Network:   uc.cfg.Network.Name,
		Artifacts: artifacts,
		DryRun:    params.DryRun,
	}
	if params.DryRun {
		compiled, err := uc.artifacts.ListArtifacts(ctx)
		if err != nil {
			return nil, err
		}
		for _, artifact := range compiled {
			if !lo.Contains(names, artifact.Name) {
				result.Unused = append(result.Unused, artifact.Name)
			}
		}
		return result, nil
	}

	declarations, err := uc.declareAll(ctx, artifacts, replace, result)
	if err != nil {
		return nil, err
	}
	result.Declarations = declarations
	return result, nil
}

// declareAll declares the artifacts in order. A full run starts from an empty
// record so contracts dropped from the suite disappear; a subset merges.
func (uc *DeclareContracts) declareAll(ctx context.Context, artifacts []*models.ContractArtifact, replace bool, result *DeclareContractsResult) (models.Declarations, error) {
	network := uc.cfg.Network.Name

	declarations := models.Declarations{}
	if !replace {
		previous, err := uc.declarations.LoadDeclarations(ctx, network)
		if err != nil {
			return nil, err
		}
		for name, hash := range previous {
			declarations[name] = hash
		}
	}

	for i, artifact := range artifacts {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageDeclare,
			Current: i + 1,
			Total:   len(artifacts),
			Message: fmt.Sprintf("Declaring %s", artifact.Name),
			Spinner: true,
		})

		res, err := uc.signer.Declare(ctx, artifact)
		if err != nil {
			return nil, fmt.Errorf("failed to declare %s: %w", artifact.Name, err)
		}

		uc.log.Info("declared contract",
			"contract", artifact.Name,
			"class_hash", res.ClassHash,
			"already_declared", res.AlreadyDeclared)

		if res.AlreadyDeclared {
			uc.progress.Info(fmt.Sprintf("%s already declared", artifact.Name))
		}

		declarations[artifact.Name] = res.ClassHash
		result.Declared = append(result.Declared, &DeclaredContract{
			Name:            artifact.Name,
			ClassHash:       res.ClassHash,
			TransactionHash: res.TransactionHash,
			AlreadyDeclared: res.AlreadyDeclared,
		})
	}

	if err := uc.declarations.SaveDeclarations(ctx, network, declarations); err != nil {
		return nil, err
	}
	return declarations, nil
}
