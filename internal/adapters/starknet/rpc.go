package starknet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// JSON-RPC error codes of interest.
const (
	codeMethodNotFound   = -32601
	codeContractNotFound = 20
)

const latestBlock = "latest"

// RPCClient performs read-only Starknet JSON-RPC queries
type RPCClient struct {
	rpcURL     string
	httpClient *http.Client
	log        *slog.Logger

	mu     sync.Mutex
	client *rpc.Client
}

// NewRPCClient creates a client for rpcURL. The connection is opened on first use.
func NewRPCClient(rpcURL string, httpClient *http.Client, log *slog.Logger) *RPCClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RPCClient{
		rpcURL:     rpcURL,
		httpClient: httpClient,
		log:        log.With("component", "rpc"),
	}
}

func (c *RPCClient) dial(ctx context.Context) (*rpc.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	client, err := rpc.DialOptions(ctx, c.rpcURL, rpc.WithHTTPClient(c.httpClient))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.rpcURL, err)
	}
	c.client = client
	return client, nil
}

func (c *RPCClient) call(ctx context.Context, result any, method string, params ...any) error {
	client, err := c.dial(ctx)
	if err != nil {
		return err
	}
	c.log.Debug("rpc request", "method", method, "url", c.rpcURL)
	return client.CallContext(ctx, result, method, params...)
}

// Close releases the underlying connection
func (c *RPCClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
}

// ChainID asks the node for its chain identifier. Nodes that do not implement
// starknet_chainId yield an unsupported lookup instead of an error.
func (c *RPCClient) ChainID(ctx context.Context) (*domain.ChainIDLookup, error) {
	var raw string
	if err := c.call(ctx, &raw, "starknet_chainId"); err != nil {
		if reason, ok := unsupported(err); ok {
			c.log.Debug("chain id not supported", "url", c.rpcURL, "reason", reason)
			return &domain.ChainIDLookup{Supported: false, Reason: reason}, nil
		}
		return nil, &domain.ChainCallError{Op: "starknet_chainId", Target: c.rpcURL, Err: err}
	}

	id, err := domain.ParseFelt(raw)
	if err != nil {
		return nil, &domain.ChainCallError{Op: "starknet_chainId", Target: c.rpcURL, Err: err}
	}
	return &domain.ChainIDLookup{ChainID: id, Supported: true}, nil
}

// unsupported reports whether err means the endpoint lacks the method entirely.
func unsupported(err error) (string, bool) {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == codeMethodNotFound {
		return fmt.Sprintf("method not found: %s", rpcErr.Error()), true
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
			return fmt.Sprintf("http %d", httpErr.StatusCode), true
		}
	}
	return "", false
}

type functionCall struct {
	ContractAddress    *domain.Felt   `json:"contract_address"`
	EntryPointSelector *domain.Felt   `json:"entry_point_selector"`
	Calldata           []*domain.Felt `json:"calldata"`
}

// Call executes a view function at the latest block
func (c *RPCClient) Call(ctx context.Context, call domain.Call) ([]*domain.Felt, error) {
	req := functionCall{
		ContractAddress:    call.To,
		EntryPointSelector: call.Selector(),
		Calldata:           call.Calldata,
	}
	if req.Calldata == nil {
		req.Calldata = []*domain.Felt{}
	}

	var out []*domain.Felt
	if err := c.call(ctx, &out, "starknet_call", req, latestBlock); err != nil {
		return nil, &domain.ChainCallError{Op: call.Function, Target: call.To.Hex(), Err: err}
	}
	return out, nil
}

// ClassHashAt returns the class hash of the contract deployed at address
func (c *RPCClient) ClassHashAt(ctx context.Context, address *domain.Felt) (*domain.Felt, error) {
	var hash domain.Felt
	if err := c.call(ctx, &hash, "starknet_getClassHashAt", latestBlock, address); err != nil {
		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == codeContractNotFound {
			return nil, fmt.Errorf("contract at %s: %w", address, domain.ErrNotFound)
		}
		return nil, &domain.ChainCallError{Op: "starknet_getClassHashAt", Target: address.Hex(), Err: err}
	}
	return &hash, nil
}

var _ usecase.ChainReader = (*RPCClient)(nil)
