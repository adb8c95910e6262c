package domain

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Call is a single contract function invocation.
type Call struct {
	To       *Felt
	Function string
	Calldata []*Felt
}

// NewCall builds a call from calldata groups, e.g. an address followed by a u256.
func NewCall(to *Felt, function string, parts ...[]*Felt) Call {
	calldata := make([]*Felt, 0)
	for _, p := range parts {
		calldata = append(calldata, p...)
	}
	return Call{To: to, Function: function, Calldata: calldata}
}

// Selector returns the entry point selector of the called function.
func (c Call) Selector() *Felt {
	return Selector(c.Function)
}

func (c Call) String() string {
	return fmt.Sprintf("%s.%s(%s)", c.To, c.Function, strings.Join(FeltsToHex(c.Calldata), ", "))
}

// Felts is a shorthand for a calldata group.
func Felts(fs ...*Felt) []*Felt {
	return fs
}

// U256 is a shorthand for the calldata group of a u256 amount.
func U256(x *uint256.Int) []*Felt {
	return U256ToFelts(x)
}
