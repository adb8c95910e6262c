package config

import (
	"path/filepath"
	"time"

	"github.com/trebuchet-org/starkswap/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	Paths       Paths

	// Context settings
	Network *Network
	Account *Account // nil when no credentials are configured

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration
	SkipChainID    bool

	// External tools
	StarkliPath string

	// Resolved configurations
	ProjectFile *ProjectFile
}

// Paths locates the project's inputs and outputs.
type Paths struct {
	SourceDir      string // Cairo sources, scanned for contract names
	BuildDir       string // Sierra and CASM artifacts
	DeploymentsDir string // Per-network declaration and deployment records
	SuiteFile      string // Optional suite override
	AccountsDir    string // Account descriptors fetched by starkli
}

// NetworkDir returns the record directory of a network.
func (p Paths) NetworkDir(network string) string {
	return filepath.Join(p.DeploymentsDir, network)
}

// Network represents network configuration
type Network struct {
	Name        string `json:"name"`
	RPCURL      string `json:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
	FeeToken    string `json:"feeToken"`
	Local       bool   `json:"local"`
}

// Account is the deployer account used to sign transactions.
type Account struct {
	Address    *domain.Felt `json:"address"`
	PrivateKey string       `json:"-"`

	// Env vars the values were read from.
	AddressEnv    string `json:"addressEnv"`
	PrivateKeyEnv string `json:"privateKeyEnv"`
}

// RequireAccount returns the deployer account or a ConfigError naming the
// variables that must be set.
func (c *RuntimeConfig) RequireAccount() (*Account, error) {
	if c.Account != nil {
		return c.Account, nil
	}
	addrVar, keyVar := AccountEnvVars(c.Network.Name)
	return nil, &domain.ConfigError{
		Field:   "account",
		Message: "deployer credentials are not configured; set " + addrVar + " and " + keyVar + " (or ACCOUNT_ADDRESS and PRIVATE_KEY)",
	}
}

// FeeTokenAddress parses the network's fee token.
func (n *Network) FeeTokenAddress() (*domain.Felt, error) {
	f, err := domain.ParseFelt(n.FeeToken)
	if err != nil {
		return nil, &domain.ConfigError{Field: "networks." + n.Name + ".fee_token", Message: "invalid fee token address", Err: err}
	}
	return f, nil
}
