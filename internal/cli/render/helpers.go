package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/holiman/uint256"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/starkswap/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TokenDecimals is the precision used when printing token amounts.
const TokenDecimals = 18

var (
	headerStyle  = color.New(color.FgCyan, color.Bold)
	sectionStyle = color.New(color.Bold, color.FgHiWhite)
	labelStyle   = color.New(color.FgYellow)
	addressStyle = color.New(color.FgWhite)
	faintStyle   = color.New(color.Faint)
	successStyle = color.New(color.FgGreen)
	warningStyle = color.New(color.FgYellow)
	errorStyle   = color.New(color.FgRed)
	reusedStyle  = color.New(color.FgBlue)
	titleCaser   = cases.Title(language.English)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warningStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return errorStyle.Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return successStyle.Sprintf("✅ %s", message)
}

// Title capitalises a network or stage name for headers.
func Title(s string) string {
	return titleCaser.String(s)
}

// FormatAmount prints a raw token amount with TokenDecimals decimals,
// e.g. 1500000000000000000 as 1.5.
func FormatAmount(x *uint256.Int) string {
	if x == nil {
		return "-"
	}
	digits := x.Dec()
	if len(digits) <= TokenDecimals {
		digits = strings.Repeat("0", TokenDecimals-len(digits)+1) + digits
	}
	whole := digits[:len(digits)-TokenDecimals]
	frac := strings.TrimRight(digits[len(digits)-TokenDecimals:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// FormatFelt prints a felt, or a dash when it is missing.
func FormatFelt(f *domain.Felt) string {
	if f == nil {
		return "-"
	}
	return f.Hex()
}

// explorerLink appends an explorer URL for a transaction or contract.
func explorerLink(explorer, kind string, f *domain.Felt) string {
	if explorer == "" || f == nil {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(explorer, "/"), kind, f.Hex())
}

// newTable creates a borderless table in the style of the list commands
func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingLeft:  "  ",
		PaddingRight: " ",
	}
	t.Style().Format.Header = text.FormatDefault
	return t
}

// WriteJSON prints v as indented JSON
func WriteJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
