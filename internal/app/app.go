package app

import (
	"log/slog"

	"github.com/trebuchet-org/starkswap/internal/domain/config"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Use cases
	DeploySuite      *usecase.DeploySuite
	DeclareContracts *usecase.DeclareContracts
	SwapDemo         *usecase.SwapDemo
	ListNetworks     *usecase.ListNetworks
	ShowDeployments  *usecase.ShowDeployments
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	deploySuite *usecase.DeploySuite,
	declareContracts *usecase.DeclareContracts,
	swapDemo *usecase.SwapDemo,
	listNetworks *usecase.ListNetworks,
	showDeployments *usecase.ShowDeployments,
) (*App, error) {
	return &App{
		Config:           cfg,
		Log:              log,
		DeploySuite:      deploySuite,
		DeclareContracts: declareContracts,
		SwapDemo:         swapDemo,
		ListNetworks:     listNetworks,
		ShowDeployments:  showDeployments,
	}, nil
}
