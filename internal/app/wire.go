//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/starkswap/internal/adapters"
	"github.com/trebuchet-org/starkswap/internal/config"
	"github.com/trebuchet-org/starkswap/internal/logging"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeclareContracts,
		usecase.NewDeploySuite,
		usecase.NewSwapDemo,
		usecase.NewListNetworks,
		usecase.NewShowDeployments,

		// App
		NewApp,
	)
	return nil, nil
}
