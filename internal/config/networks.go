package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
)

const (
	// DefaultNetwork is used when neither --network nor STARKNET_NETWORK is set.
	DefaultNetwork = "katana"

	// DefaultFeeToken is the STRK/ETH fee token address predeployed on devnets.
	DefaultFeeToken = "0x49d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7"

	fallbackAddressEnv    = "ACCOUNT_ADDRESS"
	fallbackPrivateKeyEnv = "PRIVATE_KEY"
)

// knownNetworks are always available. starkswap.toml may add or override entries.
var knownNetworks = map[string]config.NetworkConfig{
	"sharingan": {RPCURL: "${SHARINGAN_RPC_URL}", Local: lo.ToPtr(false)},
	"madara":    {RPCURL: "http://127.0.0.1:9944"},
	"katana":    {RPCURL: "http://127.0.0.1:5050"},
	"devnet":    {RPCURL: "http://127.0.0.1:5050/rpc"},
}

var envRefPattern = regexp.MustCompile(`\$\{?([A-Za-z_][A-Za-z0-9_]*)\}?`)

// NetworkResolver resolves network names against the known table and the project file
type NetworkResolver struct {
	networks map[string]config.NetworkConfig // keyed by lowercase name
	getenv   func(string) string
}

// NewNetworkResolver creates a resolver reading the process environment
func NewNetworkResolver(project *config.ProjectFile) *NetworkResolver {
	return newNetworkResolver(project, os.Getenv)
}

func newNetworkResolver(project *config.ProjectFile, getenv func(string) string) *NetworkResolver {
	r := &NetworkResolver{
		networks: make(map[string]config.NetworkConfig, len(knownNetworks)),
		getenv:   getenv,
	}
	for name, nc := range knownNetworks {
		r.networks[name] = nc
	}
	if project == nil {
		return r
	}

	for name, override := range project.Networks {
		key := strings.ToLower(name)
		merged := r.networks[key]
		if override.RPCURL != "" {
			merged.RPCURL = override.RPCURL
		}
		if override.ExplorerURL != "" {
			merged.ExplorerURL = override.ExplorerURL
		}
		if override.FeeToken != "" {
			merged.FeeToken = override.FeeToken
		}
		if override.Local != nil {
			merged.Local = override.Local
		}
		r.networks[key] = merged
	}
	return r
}

// GetNetworks returns all network names in sorted order
func (r *NetworkResolver) GetNetworks(ctx context.Context) []string {
	names := lo.Keys(r.networks)
	sort.Strings(names)
	return names
}

// ResolveNetwork implements the use case port
func (r *NetworkResolver) ResolveNetwork(ctx context.Context, name string) (*config.Network, error) {
	return r.Resolve(name)
}

// Resolve expands the network's RPC URL and validates its fee token
func (r *NetworkResolver) Resolve(name string) (*config.Network, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	nc, ok := r.networks[key]
	if !ok {
		return nil, &domain.ConfigError{
			Field:       "network",
			Message:     fmt.Sprintf("unknown network %q", name),
			Suggestions: r.suggest(key),
		}
	}

	rpcURL := strings.TrimSpace(os.Expand(nc.RPCURL, r.getenv))
	if rpcURL == "" {
		msg := "RPC URL is empty"
		if vars := referencedEnvVars(nc.RPCURL); len(vars) > 0 {
			msg = fmt.Sprintf("RPC URL is empty; set %s", strings.Join(vars, ", "))
		}
		return nil, &domain.ConfigError{Field: "networks." + key + ".rpc_url", Message: msg}
	}
	if _, err := url.ParseRequestURI(rpcURL); err != nil {
		return nil, &domain.ConfigError{Field: "networks." + key + ".rpc_url", Message: "invalid RPC URL", Err: err}
	}

	network := &config.Network{
		Name:        key,
		RPCURL:      rpcURL,
		ExplorerURL: os.Expand(nc.ExplorerURL, r.getenv),
		FeeToken:    DefaultFeeToken,
		Local:       isLocalURL(rpcURL),
	}
	if nc.FeeToken != "" {
		network.FeeToken = nc.FeeToken
	}
	if nc.Local != nil {
		network.Local = *nc.Local
	}
	if _, err := network.FeeTokenAddress(); err != nil {
		return nil, err
	}
	return network, nil
}

// ResolveAccount reads the deployer credentials for a network. It returns nil
// without error when no credentials are configured at all.
func (r *NetworkResolver) ResolveAccount(network string) (*config.Account, error) {
	addrVar, keyVar := config.AccountEnvVars(network)
	addr, addrSrc := r.firstEnv(addrVar, fallbackAddressEnv)
	key, keySrc := r.firstEnv(keyVar, fallbackPrivateKeyEnv)

	if addr == "" && key == "" {
		return nil, nil
	}
	if addr == "" {
		return nil, &domain.ConfigError{Field: "account", Message: fmt.Sprintf("%s is set but %s is not", keySrc, addrVar)}
	}
	if key == "" {
		return nil, &domain.ConfigError{Field: "account", Message: fmt.Sprintf("%s is set but %s is not", addrSrc, keyVar)}
	}

	address, err := domain.ParseFelt(addr)
	if err != nil {
		return nil, &domain.ConfigError{Field: addrSrc, Message: "invalid account address", Err: err}
	}
	if _, err := domain.ParseFelt(key); err != nil {
		// Never echo the key itself.
		return nil, &domain.ConfigError{Field: keySrc, Message: "private key is not a valid felt", Err: domain.ErrInvalidFelt}
	}

	return &config.Account{
		Address:       address,
		PrivateKey:    key,
		AddressEnv:    addrSrc,
		PrivateKeyEnv: keySrc,
	}, nil
}

func (r *NetworkResolver) firstEnv(names ...string) (string, string) {
	for _, name := range names {
		if v := strings.TrimSpace(r.getenv(name)); v != "" {
			return v, name
		}
	}
	return "", ""
}

func (r *NetworkResolver) suggest(name string) []string {
	names := r.GetNetworks(context.Background())
	if name == "" {
		return names
	}
	matches := fuzzy.Find(name, names)
	suggestions := make([]string, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, m.Str)
	}
	if len(suggestions) == 0 {
		return names
	}
	return suggestions
}

func referencedEnvVars(raw string) []string {
	matches := envRefPattern.FindAllStringSubmatch(raw, -1)
	return lo.Uniq(lo.Map(matches, func(m []string, _ int) string { return m[1] }))
}

func isLocalURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "0.0.0.0", "::1":
		return true
	}
	return false
}
