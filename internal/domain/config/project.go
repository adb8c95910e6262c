package config

import (
	"strings"
)

// ProjectFile represents the optional starkswap.toml project configuration
type ProjectFile struct {
	Paths    PathsConfig              `toml:"paths"`
	Networks map[string]NetworkConfig `toml:"networks"`
	Starkli  StarkliConfig            `toml:"starkli"`
}

// PathsConfig overrides the default project layout. Relative paths are
// resolved against the project root.
type PathsConfig struct {
	Src         string `toml:"src,omitempty"`
	Build       string `toml:"build,omitempty"`
	Deployments string `toml:"deployments,omitempty"`
	Suite       string `toml:"suite,omitempty"`
	Accounts    string `toml:"accounts,omitempty"`
}

// NetworkConfig adds a network or overrides fields of a known one.
type NetworkConfig struct {
	RPCURL      string `toml:"rpc_url,omitempty"`
	ExplorerURL string `toml:"explorer_url,omitempty"`
	FeeToken    string `toml:"fee_token,omitempty"`
	Local       *bool  `toml:"local,omitempty"`
}

// StarkliConfig configures the signer binary.
type StarkliConfig struct {
	Path string `toml:"path,omitempty"`
}

// AccountEnvVars returns the network-scoped credential variable names,
// e.g. MADARA_ACCOUNT_ADDRESS and MADARA_PRIVATE_KEY.
func AccountEnvVars(network string) (address, privateKey string) {
	prefix := EnvPrefix(network)
	return prefix + "_ACCOUNT_ADDRESS", prefix + "_PRIVATE_KEY"
}

// EnvPrefix uppercases a network name and replaces separators with underscores.
func EnvPrefix(network string) string {
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(strings.ToUpper(network))
}
