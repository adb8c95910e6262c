package domain

import (
	"fmt"
)

// ArgType selects how an argument value is encoded into calldata.
type ArgType string

const (
	ArgFelt        ArgType = "felt"
	ArgAddress     ArgType = "address"
	ArgShortString ArgType = "shortstring"
	ArgU256        ArgType = "u256"
)

// Argument is a named, typed constructor or function argument.
type Argument struct {
	Name  string  `json:"name" yaml:"name"`
	Type  ArgType `json:"type" yaml:"type"`
	Value string  `json:"value" yaml:"value"`
}

// Encode converts the argument into its calldata felts.
func (a Argument) Encode() ([]*Felt, error) {
	switch a.Type {
	case ArgFelt, ArgAddress, "":
		f, err := ParseFelt(a.Value)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", a.Name, err)
		}
		return []*Felt{f}, nil
	case ArgShortString:
		f, err := EncodeShortString(a.Value)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", a.Name, err)
		}
		return []*Felt{f}, nil
	case ArgU256:
		amount, err := ParseAmount(a.Value)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", a.Name, err)
		}
		return U256ToFelts(amount), nil
	default:
		return nil, fmt.Errorf("argument %s: unsupported type %q", a.Name, a.Type)
	}
}

// EncodeArguments flattens a list of arguments into calldata.
func EncodeArguments(args []Argument) ([]*Felt, error) {
	calldata := make([]*Felt, 0, len(args))
	for _, arg := range args {
		felts, err := arg.Encode()
		if err != nil {
			return nil, err
		}
		calldata = append(calldata, felts...)
	}
	return calldata, nil
}
