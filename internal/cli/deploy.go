package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/starkswap/internal/cli/render"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var params usecase.DeploySuiteParams

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Declare, deploy and bootstrap the DEX suite",
		Long: `Declare every contract of the suite, deploy its instances in dependency order,
then deploy the first pool, register it with the factory and seed its liquidity.

Declarations and deployments are recorded under deployments/<network>/. With
--resume, recorded deployments that still exist on chain are reused and the
bootstrap skips the steps that already happened.

Examples:
  starkswap deploy
  starkswap deploy --network madara --resume
  starkswap deploy --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeploySuite.Run(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("deployment failed: %w", err)
			}

			if app.Config.JSON {
				return render.WriteJSON(cmd.OutOrStdout(), result)
			}
			return render.NewDeployRenderer(cmd.OutOrStdout(), app.Config.Network.ExplorerURL).RenderDeploy(result)
		},
	}

	cmd.Flags().BoolVar(&params.Resume, "resume", false, "Reuse recorded deployments that still exist on chain")
	cmd.Flags().BoolVar(&params.DryRun, "dry-run", false, "Print the plan without sending transactions")
	cmd.Flags().BoolVar(&params.SkipBootstrap, "skip-bootstrap", false, "Stop after deploying the suite contracts")

	return cmd
}

// NewDeclareCmd creates the declare command
func NewDeclareCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "declare [contract...]",
		Short: "Declare contract classes",
		Long: `Declare the Sierra classes of the given contracts, or of every contract in the
suite, and record their class hashes. Classes that are already declared keep
their hash.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeclareContracts.Run(cmd.Context(), usecase.DeclareContractsParams{
				Contracts: args,
				DryRun:    dryRun,
			})
			if err != nil {
				return fmt.Errorf("declaration failed: %w", err)
			}

			if app.Config.JSON {
				return render.WriteJSON(cmd.OutOrStdout(), result)
			}
			return render.NewDeployRenderer(cmd.OutOrStdout(), app.Config.Network.ExplorerURL).RenderDeclare(result)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve artifacts without declaring")
	return cmd
}
