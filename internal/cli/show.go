package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/starkswap/internal/cli/render"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [label]",
		Short: "Show persisted declarations and deployments",
		Long: `Show the class hashes and deployments recorded for the current network.

With a label, show the full record of one deployment.

Examples:
  starkswap show
  starkswap show Bitcoin --network madara`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ShowDeploymentsParams{}
			if len(args) == 1 {
				params.Label = args[0]
			}

			result, err := app.ShowDeployments.Run(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to read deployments: %w", err)
			}

			if app.Config.JSON {
				if params.Label != "" {
					return render.WriteJSON(cmd.OutOrStdout(), result.Deployments[0])
				}
				return render.WriteJSON(cmd.OutOrStdout(), map[string]any{
					"network":      result.Network,
					"declarations": result.Declarations,
					"deployments":  result.Deployments,
				})
			}

			renderer := render.NewDeploymentsRenderer(cmd.OutOrStdout(), app.Config.Network.ExplorerURL)
			if params.Label != "" {
				return renderer.RenderDeployment(result.Network, result.Deployments[0])
			}
			return renderer.RenderDeploymentList(result)
		},
	}

	return cmd
}
