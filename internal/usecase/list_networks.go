package usecase

import (
	"context"
	"time"

	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
)

const probeTimeout = 5 * time.Second

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	Probe bool // query each endpoint for its chain id
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Current  string
	Networks []NetworkStatus
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name         string
	Network      *config.Network
	ChainID      *domain.ChainIDLookup
	Account      *config.Account
	Error        error // resolution or chain id lookup failure
	AccountError error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	cfg      *config.RuntimeConfig
	resolver NetworkResolver
	prober   ChainIDProber
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, resolver NetworkResolver, prober ChainIDProber) *ListNetworks {
	return &ListNetworks{
		cfg:      cfg,
		resolver: resolver,
		prober:   prober,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	names := uc.resolver.GetNetworks(ctx)

	networks := make([]NetworkStatus, 0, len(names))
	for _, name := range names {
		status := NetworkStatus{Name: name}

		status.Account, status.AccountError = uc.resolver.ResolveAccount(name)

		network, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			status.Error = err
			networks = append(networks, status)
			continue
		}
		status.Network = network

		if params.Probe {
			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			status.ChainID, status.Error = uc.prober.ProbeChainID(probeCtx, network.RPCURL)
			cancel()
		}

		networks = append(networks, status)
	}

	result := &ListNetworksResult{Networks: networks}
	if uc.cfg.Network != nil {
		result.Current = uc.cfg.Network.Name
	}
	return result, nil
}
