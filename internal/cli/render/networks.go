package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// RenderNetworksList renders the known networks, marking the current one
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := newTable(r.out)
	t.AppendHeader(table.Row{"", "NETWORK", "RPC", "CHAIN", "ACCOUNT"})
	for _, status := range result.Networks {
		marker := " "
		if status.Name == result.Current {
			marker = successStyle.Sprint("*")
		}

		if status.Network == nil {
			t.AppendRow(table.Row{marker, status.Name, errorStyle.Sprintf("error: %v", status.Error), "", ""})
			continue
		}

		t.AppendRow(table.Row{
			marker,
			labelStyle.Sprint(status.Name),
			status.Network.RPCURL,
			chainCell(status),
			accountCell(status),
		})
	}
	t.Render()
	return nil
}

func chainCell(status usecase.NetworkStatus) string {
	switch {
	case status.Error != nil:
		return errorStyle.Sprintf("❌ %v", status.Error)
	case status.ChainID == nil:
		return faintStyle.Sprint("-")
	case !status.ChainID.Supported:
		return warningStyle.Sprintf("unsupported (%s)", status.ChainID.Reason)
	default:
		return successStyle.Sprint(status.ChainID.Name())
	}
}

func accountCell(status usecase.NetworkStatus) string {
	switch {
	case status.AccountError != nil:
		return errorStyle.Sprint("invalid credentials")
	case status.Account == nil:
		return faintStyle.Sprint("not configured")
	default:
		return addressStyle.Sprint(status.Account.Address.Hex())
	}
}

// NetworkJSON is the --json form of a network status
type NetworkJSON struct {
	Name         string `json:"name"`
	Current      bool   `json:"current"`
	RPCURL       string `json:"rpcUrl,omitempty"`
	ExplorerURL  string `json:"explorerUrl,omitempty"`
	FeeToken     string `json:"feeToken,omitempty"`
	Local        bool   `json:"local"`
	ChainID      string `json:"chainId,omitempty"`
	Supported    *bool  `json:"chainIdSupported,omitempty"`
	Account      string `json:"account,omitempty"`
	Error        string `json:"error,omitempty"`
	AccountError string `json:"accountError,omitempty"`
}

// NetworksJSON converts the result to its --json form
func NetworksJSON(result *usecase.ListNetworksResult) []NetworkJSON {
	out := make([]NetworkJSON, 0, len(result.Networks))
	for _, status := range result.Networks {
		n := NetworkJSON{Name: status.Name, Current: status.Name == result.Current}
		if status.Network != nil {
			n.RPCURL = status.Network.RPCURL
			n.ExplorerURL = status.Network.ExplorerURL
			n.FeeToken = status.Network.FeeToken
			n.Local = status.Network.Local
		}
		if status.ChainID != nil {
			supported := status.ChainID.Supported
			n.Supported = &supported
			n.ChainID = status.ChainID.Name()
		}
		if status.Account != nil {
			n.Account = status.Account.Address.Hex()
		}
		if status.Error != nil {
			n.Error = status.Error.Error()
		}
		if status.AccountError != nil {
			n.AccountError = status.AccountError.Error()
		}
		out = append(out, n)
	}
	return out
}
