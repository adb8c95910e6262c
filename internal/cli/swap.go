package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/starkswap/internal/cli/render"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// NewSwapCmd creates the swap command
func NewSwapCmd() *cobra.Command {
	var (
		params      usecase.SwapDemoParams
		slippageBps uint64
	)

	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Run a demonstration swap against the deployed pool",
		Long: `Swap a small amount through the swap controller of a deployed suite.

The trade is 1/divisor of the smaller of the balance and the pool reserve of
the source token. Tokens are deployment labels, ${fee_token} or addresses.

Examples:
  starkswap swap
  starkswap swap --from '${Bitcoin}' --to '${fee_token}' --divisor 50
  starkswap swap --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("slippage-bps") {
				params.SlippageBps = &slippageBps
			}

			result, err := app.SwapDemo.Run(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("swap failed: %w", err)
			}

			if app.Config.JSON {
				return render.WriteJSON(cmd.OutOrStdout(), result)
			}
			return render.NewSwapRenderer(cmd.OutOrStdout(), app.Config.Network.ExplorerURL).RenderSwap(result)
		},
	}

	cmd.Flags().StringVar(&params.From, "from", "", "Token to sell")
	cmd.Flags().StringVar(&params.To, "to", "", "Token to buy")
	cmd.Flags().Uint64Var(&params.Divisor, "divisor", 0, "Trade 1/divisor of the balance or reserve (default 100)")
	cmd.Flags().Uint64Var(&slippageBps, "slippage-bps", 0, "Accepted slippage in basis points (default 1000)")
	cmd.Flags().BoolVar(&params.DryRun, "dry-run", false, "Quote without swapping")

	return cmd
}
