package starknet

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// Prober looks up the chain id of arbitrary endpoints, used when listing networks
type Prober struct {
	httpClient *http.Client
	log        *slog.Logger
}

// NewProber creates a new chain id prober
func NewProber(log *slog.Logger) *Prober {
	return &Prober{httpClient: http.DefaultClient, log: log}
}

// ProbeChainID opens a short-lived client to rpcURL and asks for its chain id
func (p *Prober) ProbeChainID(ctx context.Context, rpcURL string) (*domain.ChainIDLookup, error) {
	client := NewRPCClient(rpcURL, p.httpClient, p.log)
	defer client.Close()
	return client.ChainID(ctx)
}

var _ usecase.ChainIDProber = (*Prober)(nil)
