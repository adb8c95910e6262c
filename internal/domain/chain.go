package domain

// ChainIDLookup is the result of asking a node for its chain identifier.
// Supported is false when the node does not implement the method at all;
// other failures are reported as errors rather than as a lookup result.
type ChainIDLookup struct {
	ChainID   *Felt  `json:"chainId,omitempty"`
	Supported bool   `json:"supported"`
	Reason    string `json:"reason,omitempty"`
}

// Name returns the decoded chain name such as SN_SEPOLIA, or the hex id
// when it is not a short string.
func (l *ChainIDLookup) Name() string {
	if l == nil || !l.Supported || l.ChainID == nil {
		return ""
	}
	if s, ok := l.ChainID.ShortString(); ok {
		return s
	}
	return l.ChainID.Hex()
}
