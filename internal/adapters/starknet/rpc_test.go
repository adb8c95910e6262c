package starknet

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/starkswap/internal/domain"
)

const testRPCURL = "http://127.0.0.1:5050"

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// rpcResponder answers every request with result, or with a JSON-RPC error
// when code is non-zero. The last request is stored in seen.
func rpcResponder(result any, code int, seen *rpcRequest) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		var msg rpcRequest
		if err := json.NewDecoder(req.Body).Decode(&msg); err != nil {
			return nil, err
		}
		if seen != nil {
			*seen = msg
		}
		body := map[string]any{"jsonrpc": "2.0", "id": msg.ID}
		if code != 0 {
			body["error"] = map[string]any{"code": code, "message": "rpc failure"}
		} else {
			body["result"] = result
		}
		return httpmock.NewJsonResponse(http.StatusOK, body)
	}
}

func newMockedClient(t *testing.T) (*RPCClient, *httpmock.MockTransport) {
	t.Helper()
	mock := httpmock.NewMockTransport()
	client := NewRPCClient(testRPCURL, &http.Client{Transport: mock}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(client.Close)
	return client, mock
}

func TestRPCClient_ChainID(t *testing.T) {
	ctx := context.Background()

	t.Run("supported", func(t *testing.T) {
		client, mock := newMockedClient(t)
		var seen rpcRequest
		mock.RegisterResponder("POST", testRPCURL, rpcResponder("0x4b4154414e41", 0, &seen))

		lookup, err := client.ChainID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "starknet_chainId", seen.Method)
		assert.True(t, lookup.Supported)
		assert.Equal(t, "KATANA", lookup.Name())
	})

	t.Run("method not found", func(t *testing.T) {
		client, mock := newMockedClient(t)
		mock.RegisterResponder("POST", testRPCURL, rpcResponder(nil, -32601, nil))

		lookup, err := client.ChainID(ctx)
		require.NoError(t, err)
		assert.False(t, lookup.Supported)
		assert.Contains(t, lookup.Reason, "method not found")
		assert.Empty(t, lookup.Name())
	})

	for _, status := range []int{http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			client, mock := newMockedClient(t)
			mock.RegisterResponder("POST", testRPCURL, httpmock.NewStringResponder(status, "nope"))

			lookup, err := client.ChainID(ctx)
			require.NoError(t, err)
			assert.False(t, lookup.Supported)
		})
	}

	t.Run("other rpc errors surface", func(t *testing.T) {
		client, mock := newMockedClient(t)
		mock.RegisterResponder("POST", testRPCURL, rpcResponder(nil, -32603, nil))

		_, err := client.ChainID(ctx)
		var callErr *domain.ChainCallError
		require.True(t, errors.As(err, &callErr))
		assert.Equal(t, "starknet_chainId", callErr.Op)
	})

	t.Run("server errors surface", func(t *testing.T) {
		client, mock := newMockedClient(t)
		mock.RegisterResponder("POST", testRPCURL, httpmock.NewStringResponder(http.StatusInternalServerError, "boom"))

		_, err := client.ChainID(ctx)
		var callErr *domain.ChainCallError
		assert.True(t, errors.As(err, &callErr))
	})
}

func TestRPCClient_Call(t *testing.T) {
	client, mock := newMockedClient(t)
	var seen rpcRequest
	mock.RegisterResponder("POST", testRPCURL, rpcResponder([]string{"0x3e8", "0x0"}, 0, &seen))

	owner := domain.MustParseFelt("0xbeef")
	out, err := client.Call(context.Background(), domain.NewCall(domain.MustParseFelt("0xa001"), "balanceOf", domain.Felts(owner)))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "0x3e8", out[0].Hex())

	assert.Equal(t, "starknet_call", seen.Method)
	require.Len(t, seen.Params, 2)
	assert.JSONEq(t, `{
		"contract_address": "0xa001",
		"entry_point_selector": "`+domain.Selector("balanceOf").Hex()+`",
		"calldata": ["0xbeef"]
	}`, string(seen.Params[0]))
	assert.JSONEq(t, `"latest"`, string(seen.Params[1]))
}

func TestRPCClient_ClassHashAt(t *testing.T) {
	ctx := context.Background()
	address := domain.MustParseFelt("0xa001")

	t.Run("deployed", func(t *testing.T) {
		client, mock := newMockedClient(t)
		var seen rpcRequest
		mock.RegisterResponder("POST", testRPCURL, rpcResponder("0x1234", 0, &seen))

		hash, err := client.ClassHashAt(ctx, address)
		require.NoError(t, err)
		assert.Equal(t, "0x1234", hash.Hex())
		require.Len(t, seen.Params, 2)
		assert.JSONEq(t, `"latest"`, string(seen.Params[0]))
		assert.JSONEq(t, `"0xa001"`, string(seen.Params[1]))
	})

	t.Run("contract not found", func(t *testing.T) {
		client, mock := newMockedClient(t)
		mock.RegisterResponder("POST", testRPCURL, rpcResponder(nil, 20, nil))

		_, err := client.ClassHashAt(ctx, address)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
