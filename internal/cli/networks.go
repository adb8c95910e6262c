package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/starkswap/internal/cli/render"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	var noProbe bool

	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List known networks and their chain ids",
		Long: `List the built-in networks and those added in starkswap.toml.

For each network the RPC endpoint is queried for its chain id and the deployer
credentials are checked. The current network is marked with *.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationLenientNetwork: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{Probe: !noProbe})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.WriteJSON(cmd.OutOrStdout(), render.NetworksJSON(result))
			}
			return render.NewNetworksRenderer(cmd.OutOrStdout()).RenderNetworksList(result)
		},
	}

	cmd.Flags().BoolVar(&noProbe, "no-probe", false, "Skip the chain id lookup")
	return cmd
}
