package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
)

// LenientNetworkKey lets a command start when the selected network or its
// credentials do not resolve. The network then only carries its name.
const LenientNetworkKey = "lenient_network"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	// .env must be loaded before any env lookup below
	loadEnvFiles(projectRoot)

	project, err := LoadProjectFile(projectRoot)
	if err != nil {
		return nil, err
	}

	networkName := v.GetString("network")
	if networkName == "" {
		networkName = DefaultNetwork
	}

	lenient := v.GetBool(LenientNetworkKey)
	resolver := NewNetworkResolver(project)
	network, err := resolver.Resolve(networkName)
	if err != nil {
		if !lenient {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		network = &config.Network{Name: strings.ToLower(strings.TrimSpace(networkName))}
	}
	account, err := resolver.ResolveAccount(network.Name)
	if err != nil && !lenient {
		return nil, err
	}

	starkli := v.GetString("starkli")
	if starkli == "" {
		starkli = project.Starkli.Path
	}
	if starkli == "" {
		starkli = "starkli"
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		Paths:          resolvePaths(projectRoot, project.Paths),
		Network:        network,
		Account:        account,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		SkipChainID:    v.GetBool("skip_chain_id"),
		StarkliPath:    starkli,
		ProjectFile:    project,
	}
	if suite := v.GetString("suite"); suite != "" {
		if !filepath.IsAbs(suite) {
			suite = filepath.Join(projectRoot, suite)
		}
		cfg.Paths.SuiteFile = suite
	}

	return cfg, nil
}

// FindProjectRoot walks up from the current directory looking for
// starkswap.toml or Scarb.toml, falling back to the current directory.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		for _, marker := range []string{ProjectFileName, "Scarb.toml"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("STARKSWAP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	_ = v.BindEnv("network", "STARKSWAP_NETWORK", "STARKNET_NETWORK")

	// Set defaults
	v.SetDefault("timeout", "10m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})

	return v
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg.ProjectFile)
}
