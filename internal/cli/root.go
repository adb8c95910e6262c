package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/starkswap/internal/app"
	"github.com/trebuchet-org/starkswap/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"

	// annotationLenientNetwork marks commands that start even when the
	// selected network does not resolve
	annotationLenientNetwork = "starkswap/lenient-network"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "starkswap",
		Short: "Deploy and exercise a Starknet DEX suite",
		Long: `starkswap declares and deploys an ERC20 token, a pool factory, a swap controller
and a first liquidity pool on a Starknet network, then runs a demonstration swap.

Deployer credentials are read from <NETWORK>_ACCOUNT_ADDRESS and <NETWORK>_PRIVATE_KEY
(or ACCOUNT_ADDRESS and PRIVATE_KEY), optionally from a .env file in the project root.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)
			if cmd.Annotations[annotationLenientNetwork] == "true" {
				v.Set(config.LenientNetworkKey, true)
			}

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringP("network", "n", "", "Network to use (katana, madara, devnet, sharingan or one from starkswap.toml)")
	flags.Bool("debug", false, "Enable debug logging")
	flags.Bool("non-interactive", false, "Disable interactive prompts")
	flags.Bool("json", false, "Output in JSON format")
	flags.Duration("timeout", 10*time.Minute, "Abort the command after this duration")
	flags.Bool("skip-chain-id", false, "Do not query the node for its chain id")
	flags.String("starkli", "", "Path to the starkli binary")
	flags.String("suite", "", "Suite file overriding the built-in DEX suite")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{NewDeployCmd(), NewDeclareCmd(), NewSwapCmd()} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{NewNetworksCmd(), NewShowCmd()} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// skipsApp reports whether a command runs without configuration
func skipsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return false
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}
