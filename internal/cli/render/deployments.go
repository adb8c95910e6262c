package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/starkswap/internal/domain/models"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// DeploymentsRenderer renders the persisted records of a network
type DeploymentsRenderer struct {
	out      io.Writer
	explorer string
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer, explorer string) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out, explorer: explorer}
}

// RenderDeploymentList renders declarations and deployments as tables
func (r *DeploymentsRenderer) RenderDeploymentList(result *usecase.ShowDeploymentsResult) error {
	if len(result.Declarations) == 0 && len(result.Deployments) == 0 {
		fmt.Fprintf(r.out, "No deployments found on %s\n", result.Network)
		return nil
	}

	headerStyle.Fprintf(r.out, "Network: %s\n", result.Network)

	if len(result.Declarations) > 0 {
		fmt.Fprintln(r.out)
		sectionStyle.Fprintln(r.out, "Declared classes:")
		t := newTable(r.out)
		for _, name := range result.Declarations.Names() {
			t.AppendRow(table.Row{labelStyle.Sprint(name), result.Declarations[name].Hex()})
		}
		t.Render()
	}

	if len(result.Deployments) > 0 {
		fmt.Fprintln(r.out)
		sectionStyle.Fprintln(r.out, "Deployments:")
		t := newTable(r.out)
		for _, d := range result.Deployments {
			t.AppendRow(table.Row{
				labelStyle.Sprint(d.Label),
				faintStyle.Sprint(d.Contract),
				addressStyle.Sprint(d.Address.Hex()),
				faintStyle.Sprint(d.DeployedAt.Format("2006-01-02 15:04:05")),
			})
		}
		t.Render()
	}
	return nil
}

// RenderDeployment renders a single deployment record in detail
func (r *DeploymentsRenderer) RenderDeployment(network string, d *models.Deployment) error {
	headerStyle.Fprintf(r.out, "Deployment: %s\n", d.Label)
	fmt.Fprintln(r.out, strings.Repeat("=", 80))

	fmt.Fprintf(r.out, "  Network: %s\n", network)
	fmt.Fprintf(r.out, "  Contract: %s\n", labelStyle.Sprint(d.Contract))
	fmt.Fprintf(r.out, "  Address: %s\n", d.Address.Hex())
	if link := explorerLink(r.explorer, "contract", d.Address); link != "" {
		fmt.Fprintf(r.out, "  Explorer: %s\n", link)
	}
	fmt.Fprintf(r.out, "  Class Hash: %s\n", FormatFelt(d.ClassHash))
	if d.Salt != nil {
		fmt.Fprintf(r.out, "  Salt: %s\n", d.Salt.Hex())
	}
	if d.TransactionHash != nil {
		fmt.Fprintf(r.out, "  Transaction: %s\n", d.TransactionHash.Hex())
	}
	fmt.Fprintf(r.out, "  Deployed: %s\n", d.DeployedAt.Format("2006-01-02 15:04:05"))

	if len(d.ConstructorArgs) > 0 {
		fmt.Fprintln(r.out, "\nConstructor Arguments:")
		t := newTable(r.out)
		for _, arg := range d.ConstructorArgs {
			t.AppendRow(table.Row{arg.Name, faintStyle.Sprint(string(arg.Type)), arg.Value})
		}
		t.Render()
	}

	fmt.Fprintln(r.out, "\nCalldata:")
	if len(d.Calldata) == 0 {
		fmt.Fprintln(r.out, "  (empty)")
	}
	for i, f := range d.Calldata {
		fmt.Fprintf(r.out, "  [%d] %s\n", i, f.Hex())
	}
	return nil
}
