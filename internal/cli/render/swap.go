package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// SwapRenderer renders the demonstration swap
type SwapRenderer struct {
	out      io.Writer
	explorer string
}

// NewSwapRenderer creates a new swap renderer
func NewSwapRenderer(out io.Writer, explorer string) *SwapRenderer {
	return &SwapRenderer{out: out, explorer: explorer}
}

// RenderSwap renders quotes, amounts and the received balance
func (r *SwapRenderer) RenderSwap(result *usecase.SwapDemoResult) error {
	headerStyle.Fprintf(r.out, "Swap on %s\n", result.Network)
	fmt.Fprintf(r.out, "  Pool: %s\n", FormatFelt(result.Pool))
	fmt.Fprintf(r.out, "  From: %s (reserve %s, balance %s)\n", FormatFelt(result.From), FormatAmount(result.ReserveFrom), FormatAmount(result.BalanceFrom))
	fmt.Fprintf(r.out, "  To:   %s (reserve %s, balance %s)\n", FormatFelt(result.To), FormatAmount(result.ReserveTo), FormatAmount(result.BalanceTo))
	fmt.Fprintln(r.out)

	fmt.Fprintf(r.out, "  Amount in:  %s\n", labelStyle.Sprint(FormatAmount(result.Amount)))
	fmt.Fprintf(r.out, "  Quote:      %s\n", FormatAmount(result.Quote))
	fmt.Fprintf(r.out, "  Estimate:   %s %s\n", FormatAmount(result.Estimate), faintStyle.Sprint("(constant product, 0.3% fee)"))
	fmt.Fprintf(r.out, "  Min out:    %s %s\n", FormatAmount(result.MinAmountOut), faintStyle.Sprintf("(%.2f%% slippage)", float64(result.SlippageBps)/100))
	if result.AllowanceTopUp != nil {
		fmt.Fprintf(r.out, "  Allowance:  +%s\n", FormatAmount(result.AllowanceTopUp))
	}

	switch {
	case result.Cancelled:
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, FormatWarning("Swap cancelled"))
		return nil
	case result.DryRun:
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, faintStyle.Sprint("Dry run: no transaction sent"))
		return nil
	}

	for _, tx := range result.Transactions {
		if link := explorerLink(r.explorer, "tx", tx); link != "" {
			fmt.Fprintf(r.out, "  tx %s %s\n", tx.Hex(), faintStyle.Sprint(link))
		} else {
			fmt.Fprintf(r.out, "  tx %s\n", tx.Hex())
		}
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Received %s", FormatAmount(result.Received))))
	return nil
}
