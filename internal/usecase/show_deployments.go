package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
	"github.com/trebuchet-org/starkswap/internal/domain/models"
)

// ShowDeploymentsParams contains parameters for showing persisted records
type ShowDeploymentsParams struct {
	Label string // single deployment when set
}

// ShowDeploymentsResult contains the persisted records of a network
type ShowDeploymentsResult struct {
	Network      string
	Declarations models.Declarations
	Deployments  []*models.Deployment
}

// ShowDeployments reads the declaration and deployment records of the current network
type ShowDeployments struct {
	cfg          *config.RuntimeConfig
	declarations DeclarationRepository
	deployments  DeploymentRepository
}

// NewShowDeployments creates a new ShowDeployments use case
func NewShowDeployments(cfg *config.RuntimeConfig, declarations DeclarationRepository, deployments DeploymentRepository) *ShowDeployments {
	return &ShowDeployments{
		cfg:          cfg,
		declarations: declarations,
		deployments:  deployments,
	}
}

// Run executes the use case
func (uc *ShowDeployments) Run(ctx context.Context, params ShowDeploymentsParams) (*ShowDeploymentsResult, error) {
	network := uc.cfg.Network.Name

	declarations, err := uc.declarations.LoadDeclarations(ctx, network)
	if err != nil {
		return nil, err
	}
	deployments, err := uc.deployments.LoadDeployments(ctx, network)
	if err != nil {
		return nil, err
	}

	result := &ShowDeploymentsResult{
		Network:      network,
		Declarations: declarations,
	}
	if params.Label == "" {
		result.Deployments = deployments.Sorted()
		return result, nil
	}

	dep, ok := deployments[params.Label]
	if !ok {
		return nil, fmt.Errorf("%w: deployment %q on %s (recorded: %s)", domain.ErrNotFound,
			params.Label, network, strings.Join(deployments.Labels(), ", "))
	}
	result.Deployments = []*models.Deployment{dep}
	return result, nil
}
