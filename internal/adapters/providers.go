package adapters

import (
	"log/slog"

	"github.com/google/wire"
	"github.com/trebuchet-org/starkswap/internal/adapters/artifacts"
	"github.com/trebuchet-org/starkswap/internal/adapters/interactive"
	"github.com/trebuchet-org/starkswap/internal/adapters/progress"
	"github.com/trebuchet-org/starkswap/internal/adapters/repository/records"
	"github.com/trebuchet-org/starkswap/internal/adapters/starknet"
	"github.com/trebuchet-org/starkswap/internal/adapters/suite"
	"github.com/trebuchet-org/starkswap/internal/config"
	domainconfig "github.com/trebuchet-org/starkswap/internal/domain/config"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// ProvideStarknetClient provides the chain client of the configured network
func ProvideStarknetClient(cfg *domainconfig.RuntimeConfig, log *slog.Logger) *starknet.Client {
	return starknet.NewClient(cfg, log)
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	artifacts.NewIndexer,
	wire.Bind(new(usecase.ArtifactRepository), new(*artifacts.Indexer)),

	records.NewFileRepositoryFromConfig,
	wire.Bind(new(usecase.DeclarationRepository), new(*records.FileRepository)),
	wire.Bind(new(usecase.DeploymentRepository), new(*records.FileRepository)),

	suite.NewLoader,
	wire.Bind(new(usecase.SuiteLoader), new(*suite.Loader)),
)

// StarknetSet provides the JSON-RPC reader and the starkli signer
var StarknetSet = wire.NewSet(
	ProvideStarknetClient,
	wire.Bind(new(usecase.ChainClient), new(*starknet.Client)),
	wire.Bind(new(usecase.AccountSigner), new(*starknet.Client)),

	starknet.NewProber,
	wire.Bind(new(usecase.ChainIDProber), new(*starknet.Prober)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewConfirmAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.ConfirmAdapter)),

	progress.NewProgressSink,
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	StarknetSet,
	InteractiveSet,
	ConfigSet,
)
