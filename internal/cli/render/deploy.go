package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// DeployRenderer renders declaration and suite deployment results
type DeployRenderer struct {
	out      io.Writer
	explorer string
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer, explorer string) *DeployRenderer {
	return &DeployRenderer{out: out, explorer: explorer}
}

// RenderDeclare renders the outcome of a declare run
func (r *DeployRenderer) RenderDeclare(result *usecase.DeclareContractsResult) error {
	if result.DryRun {
		headerStyle.Fprintf(r.out, "Dry run: would declare on %s\n", result.Network)
		for _, artifact := range result.Artifacts {
			fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint(artifact.Name), faintStyle.Sprint(artifact.SierraPath))
		}
		if len(result.Unused) > 0 {
			fmt.Fprintf(r.out, "  %s\n", faintStyle.Sprintf("Compiled but not requested: %s", strings.Join(result.Unused, ", ")))
		}
		return nil
	}

	headerStyle.Fprintf(r.out, "Declared classes on %s\n", result.Network)
	r.renderDeclared(result.Declared)
	return nil
}

func (r *DeployRenderer) renderDeclared(declared []*usecase.DeclaredContract) {
	t := newTable(r.out)
	for _, d := range declared {
		status := successStyle.Sprint("declared")
		if d.AlreadyDeclared {
			status = reusedStyle.Sprint("already declared")
		}
		t.AppendRow(table.Row{labelStyle.Sprint(d.Name), d.ClassHash.Hex(), status})
	}
	t.Render()
}

// RenderDeploy renders the outcome of a suite deployment
func (r *DeployRenderer) RenderDeploy(result *usecase.DeploySuiteResult) error {
	if result.Cancelled {
		fmt.Fprintln(r.out, FormatWarning("Deployment cancelled"))
		return nil
	}

	headerStyle.Fprintf(r.out, "Network: %s", result.Network)
	if name := result.ChainID.Name(); name != "" {
		fmt.Fprintf(r.out, " (%s)", name)
	}
	fmt.Fprintln(r.out)
	if result.Account != nil {
		fmt.Fprintf(r.out, "Account: %s\n", result.Account.Hex())
	}

	if result.DryRun {
		r.renderPlan(result.Plan)
		return nil
	}

	if len(result.Declared) > 0 {
		fmt.Fprintln(r.out)
		sectionStyle.Fprintln(r.out, "Declarations:")
		r.renderDeclared(result.Declared)
	}

	if len(result.Deployments) > 0 {
		fmt.Fprintln(r.out)
		sectionStyle.Fprintln(r.out, "Deployments:")
		t := newTable(r.out)
		for _, outcome := range result.Deployments {
			t.AppendRow(r.outcomeRow(outcome))
		}
		t.Render()
	}

	if b := result.Bootstrap; b != nil {
		fmt.Fprintln(r.out)
		sectionStyle.Fprintln(r.out, "Bootstrap:")
		t := newTable(r.out)
		t.AppendRow(r.outcomeRow(b.Pool))
		t.Render()

		if b.Registered {
			fmt.Fprintln(r.out, "  Pool registered with the factory")
		} else {
			fmt.Fprintln(r.out, faintStyle.Sprint("  Pool already registered"))
		}
		if b.LiquiditySkipped {
			fmt.Fprintln(r.out, faintStyle.Sprint("  Pool already holds reserves, liquidity not added"))
		} else if b.Liquidity != nil {
			fmt.Fprintf(r.out, "  Liquidity: %s of %s + %s of %s\n",
				FormatAmount(b.Liquidity.Amount0), b.Token0.Hex(),
				FormatAmount(b.Liquidity.Amount1), b.Token1.Hex())
			fmt.Fprintf(r.out, "  Minimums: %s / %s\n", FormatAmount(b.Liquidity.Min0), FormatAmount(b.Liquidity.Min1))
		}
		for _, tx := range b.Transactions {
			r.renderTx(tx.Hex(), explorerLink(r.explorer, "tx", tx))
		}
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatSuccess("Suite deployed"))
	return nil
}

func (r *DeployRenderer) outcomeRow(outcome *usecase.DeploymentOutcome) table.Row {
	d := outcome.Deployment
	status := successStyle.Sprint("deployed")
	if outcome.Reused {
		status = reusedStyle.Sprint("reused")
	}
	return table.Row{labelStyle.Sprint(d.Label), faintStyle.Sprint(d.Contract), addressStyle.Sprint(d.Address.Hex()), status}
}

func (r *DeployRenderer) renderTx(hash, link string) {
	if link != "" {
		fmt.Fprintf(r.out, "  tx %s %s\n", hash, faintStyle.Sprint(link))
		return
	}
	fmt.Fprintf(r.out, "  tx %s\n", hash)
}

func (r *DeployRenderer) renderPlan(plan *usecase.DeploymentPlan) {
	fmt.Fprintln(r.out)
	sectionStyle.Fprintf(r.out, "Plan for suite %s (dry run):\n", plan.Suite)
	fmt.Fprintf(r.out, "  Declare: %s\n", strings.Join(plan.Contracts, ", "))

	t := newTable(r.out)
	for i, step := range plan.Steps {
		t.AppendRow(planRow(i+1, step))
	}
	if plan.Pool != nil {
		t.AppendRow(planRow(len(plan.Steps)+1, plan.Pool))
	}
	t.Render()
	if plan.Pool != nil {
		fmt.Fprintf(r.out, "  Then register %s and seed its liquidity\n", plan.Pool.Label)
	}
}

func planRow(n int, step *usecase.DeploymentStep) table.Row {
	deps := faintStyle.Sprint("-")
	if len(step.Dependencies) > 0 {
		deps = faintStyle.Sprint("after " + strings.Join(step.Dependencies, ", "))
	}
	return table.Row{fmt.Sprintf("%d.", n), labelStyle.Sprint(step.Label), step.Contract, deps}
}
