package starknet

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
	"github.com/trebuchet-org/starkswap/internal/domain/models"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// Client reads over JSON-RPC and signs through starkli. Read-only commands
// work without deployer credentials; signing fails closed.
type Client struct {
	*RPCClient

	cfg *config.RuntimeConfig
	log *slog.Logger

	once   sync.Once
	signer *Starkli
	err    error
}

// NewClient creates the chain client of the configured network
func NewClient(cfg *config.RuntimeConfig, log *slog.Logger) *Client {
	return &Client{
		RPCClient: NewRPCClient(cfg.Network.RPCURL, http.DefaultClient, log),
		cfg:       cfg,
		log:       log,
	}
}

func (c *Client) accountSigner() (*Starkli, error) {
	c.once.Do(func() {
		account, err := c.cfg.RequireAccount()
		if err != nil {
			c.err = err
			return
		}
		c.signer = NewStarkli(c.cfg, account, c.log)
	})
	return c.signer, c.err
}

func (c *Client) Declare(ctx context.Context, artifact *models.ContractArtifact) (*usecase.DeclareResult, error) {
	signer, err := c.accountSigner()
	if err != nil {
		return nil, err
	}
	return signer.Declare(ctx, artifact)
}

func (c *Client) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.DeployResult, error) {
	signer, err := c.accountSigner()
	if err != nil {
		return nil, err
	}
	return signer.Deploy(ctx, req)
}

func (c *Client) Invoke(ctx context.Context, calls ...domain.Call) (*usecase.InvokeResult, error) {
	signer, err := c.accountSigner()
	if err != nil {
		return nil, err
	}
	return signer.Invoke(ctx, calls...)
}

var _ usecase.ChainClient = (*Client)(nil)
