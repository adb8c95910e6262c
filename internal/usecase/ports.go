package usecase

import (
	"context"

	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
	"github.com/trebuchet-org/starkswap/internal/domain/models"
)

// ArtifactRepository resolves logical contract names to compiled artifacts
type ArtifactRepository interface {
	GetArtifact(ctx context.Context, name string) (*models.ContractArtifact, error)
	ListArtifacts(ctx context.Context) ([]*models.ContractArtifact, error)
}

// DeclarationRepository persists the class hash of every declared contract
type DeclarationRepository interface {
	LoadDeclarations(ctx context.Context, network string) (models.Declarations, error)
	SaveDeclarations(ctx context.Context, network string, declarations models.Declarations) error
}

// DeploymentRepository persists deployed contract instances
type DeploymentRepository interface {
	LoadDeployments(ctx context.Context, network string) (models.Deployments, error)
	SaveDeployments(ctx context.Context, network string, deployments models.Deployments) error
}

// SuiteLoader loads the deployment suite
type SuiteLoader interface {
	LoadSuite(ctx context.Context) (*models.Suite, error)
}

// NetworkResolver lists and resolves configured networks
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, name string) (*config.Network, error)
	ResolveAccount(network string) (*config.Account, error)
}

// ChainIDProber asks an arbitrary RPC endpoint for its chain identifier
type ChainIDProber interface {
	ProbeChainID(ctx context.Context, rpcURL string) (*domain.ChainIDLookup, error)
}

// ChainReader performs read-only JSON-RPC queries on the configured network
type ChainReader interface {
	ChainID(ctx context.Context) (*domain.ChainIDLookup, error)
	Call(ctx context.Context, call domain.Call) ([]*domain.Felt, error)
	// ClassHashAt returns domain.ErrNotFound when no contract lives at address.
	ClassHashAt(ctx context.Context, address *domain.Felt) (*domain.Felt, error)
}

// AccountSigner submits transactions through the deployer account and waits
// for their acceptance
type AccountSigner interface {
	Declare(ctx context.Context, artifact *models.ContractArtifact) (*DeclareResult, error)
	Deploy(ctx context.Context, req DeployRequest) (*DeployResult, error)
	Invoke(ctx context.Context, calls ...domain.Call) (*InvokeResult, error)
}

// ChainClient is the full chain surface used by the orchestrator and the swap demo
type ChainClient interface {
	ChainReader
	AccountSigner
}

// Confirmer asks the user for confirmation
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// DeclareResult is the outcome of a declare transaction
type DeclareResult struct {
	ClassHash       *domain.Felt
	TransactionHash *domain.Felt // nil when the class was already declared
	AlreadyDeclared bool
}

// DeployRequest deploys an instance of a declared class through the universal deployer
type DeployRequest struct {
	Label     string
	ClassHash *domain.Felt
	Calldata  []*domain.Felt
	Salt      *domain.Felt // random when nil
}

// DeployResult is the outcome of a deploy transaction
type DeployResult struct {
	Address         *domain.Felt
	Salt            *domain.Felt
	TransactionHash *domain.Felt
}

// InvokeResult is the outcome of an invoke transaction
type InvokeResult struct {
	TransactionHash *domain.Felt
}

// Progress tracking interfaces

// ExecutionStage represents a stage of the deployment state machine
type ExecutionStage string

const (
	StageConfigure ExecutionStage = "configure"
	StageDeclare   ExecutionStage = "declare"
	StageDeploy    ExecutionStage = "deploy"
	StageBootstrap ExecutionStage = "bootstrap"
	StageSwap      ExecutionStage = "swap"
	StageDone      ExecutionStage = "done"
	StageFailed    ExecutionStage = "failed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   ExecutionStage
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	// Info prints a notice between progress lines
	Info(message string)
}

// endRun closes the progress display of a run that did not reach StageDone.
func endRun(ctx context.Context, sink ProgressSink, err error) {
	if err != nil {
		sink.OnProgress(ctx, ProgressEvent{Stage: StageFailed, Message: err.Error()})
	}
}
