package starknet

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
	"github.com/trebuchet-org/starkswap/internal/domain/models"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// fakeStarkli mimics the output layout of starkli: progress on stderr,
// result on stdout.
const fakeStarkli = `#!/bin/sh
echo "$* key=$STARKNET_PRIVATE_KEY" >> "$FAKE_STARKLI_LOG"
if [ -n "$FAKE_STARKLI_FAIL" ]; then
  echo "Error: $FAKE_STARKLI_FAIL" >&2
  exit 1
fi
case "$1" in
  account)
    prev=""
    for a in "$@"; do
      if [ "$prev" = "--output" ]; then echo '{}' > "$a"; fi
      prev="$a"
    done
    ;;
  declare)
    if [ -n "$FAKE_STARKLI_DECLARED" ]; then
      echo "Not declaring class as it's already declared. Class hash:" >&2
    else
      echo "Declaring Cairo 1 class: 0x1234" >&2
      echo "Contract declaration transaction: 0xdead" >&2
      echo "Class hash declared:" >&2
    fi
    echo "0x1234"
    ;;
  deploy)
    echo "Deploying class 0x1234" >&2
    echo "Contract deployment transaction: 0xbeef" >&2
    echo "0xa001"
    ;;
  invoke)
    echo "Invoke transaction: 0xcafe"
    ;;
esac
`

func newFakeStarkli(t *testing.T) (*Starkli, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake starkli is a shell script")
	}

	dir := t.TempDir()
	binary := filepath.Join(dir, "starkli")
	require.NoError(t, os.WriteFile(binary, []byte(fakeStarkli), 0755))

	logPath := filepath.Join(dir, "calls.log")
	t.Setenv("FAKE_STARKLI_LOG", logPath)
	t.Setenv("FAKE_STARKLI_FAIL", "")
	t.Setenv("FAKE_STARKLI_DECLARED", "")

	cfg := &config.RuntimeConfig{
		ProjectRoot: dir,
		StarkliPath: binary,
		Network:     &config.Network{Name: "katana", RPCURL: testRPCURL},
		Paths:       config.Paths{AccountsDir: filepath.Join(dir, "accounts")},
	}
	account := &config.Account{
		Address:    domain.MustParseFelt("0xacc"),
		PrivateKey: "0x5ec7e7",
	}
	return NewStarkli(cfg, account, slog.New(slog.NewTextHandler(io.Discard, nil))), logPath
}

func readCalls(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func testArtifact() *models.ContractArtifact {
	return &models.ContractArtifact{
		Name:       "ERC20",
		SierraPath: "build/ERC20.contract_class.json",
		CasmPath:   "build/ERC20.compiled_contract_class.json",
	}
}

func TestStarkli_Declare(t *testing.T) {
	ctx := context.Background()
	s, logPath := newFakeStarkli(t)

	result, err := s.Declare(ctx, testArtifact())
	require.NoError(t, err)
	assert.Equal(t, "0x1234", result.ClassHash.Hex())
	assert.Equal(t, "0xdead", result.TransactionHash.Hex())
	assert.False(t, result.AlreadyDeclared)

	// the second call reuses the fetched account descriptor
	_, err = s.Declare(ctx, testArtifact())
	require.NoError(t, err)

	calls := readCalls(t, logPath)
	require.Len(t, calls, 3)
	assert.True(t, strings.HasPrefix(calls[0], "account fetch 0xacc --rpc "+testRPCURL+" --output "))
	assert.Contains(t, calls[1], "declare --rpc "+testRPCURL+" --account ")
	assert.Contains(t, calls[1], "--watch --casm-file build/ERC20.compiled_contract_class.json build/ERC20.contract_class.json")
	assert.Contains(t, calls[1], "key=0x5ec7e7")
}

func TestStarkli_DeclareAlreadyDeclared(t *testing.T) {
	s, _ := newFakeStarkli(t)
	t.Setenv("FAKE_STARKLI_DECLARED", "1")

	result, err := s.Declare(context.Background(), testArtifact())
	require.NoError(t, err)
	assert.True(t, result.AlreadyDeclared)
	assert.Equal(t, "0x1234", result.ClassHash.Hex())
	assert.Nil(t, result.TransactionHash)
}

func TestStarkli_Deploy(t *testing.T) {
	s, logPath := newFakeStarkli(t)

	result, err := s.Deploy(context.Background(), usecase.DeployRequest{
		Label:     "Bitcoin",
		ClassHash: domain.MustParseFelt("0x1234"),
		Calldata:  domain.Felts(domain.NewFelt(1), domain.NewFelt(2)),
	})
	require.NoError(t, err)
	assert.Equal(t, "0xa001", result.Address.Hex())
	assert.Equal(t, "0xbeef", result.TransactionHash.Hex())
	require.NotNil(t, result.Salt)
	assert.True(t, result.Salt.Uint256().Lt(domain.FieldPrime))

	calls := readCalls(t, logPath)
	assert.Contains(t, calls[len(calls)-1], "--salt "+result.Salt.Hex()+" 0x1234 0x1 0x2")
}

func TestStarkli_Invoke(t *testing.T) {
	s, logPath := newFakeStarkli(t)

	token := domain.MustParseFelt("0xa001")
	spender := domain.MustParseFelt("0xa003")
	result, err := s.Invoke(context.Background(),
		domain.NewCall(token, "increaseAllowance", domain.Felts(spender), domain.U256(domain.MaxU256())),
		domain.NewCall(spender, "sync"),
	)
	require.NoError(t, err)
	assert.Equal(t, "0xcafe", result.TransactionHash.Hex())

	calls := readCalls(t, logPath)
	last := calls[len(calls)-1]
	assert.Contains(t, last, "invoke --rpc "+testRPCURL)
	assert.Contains(t, last, "0xa001 increaseAllowance 0xa003 0xffffffffffffffffffffffffffffffff 0xffffffffffffffffffffffffffffffff / 0xa003 sync")
}

func TestStarkli_Failure(t *testing.T) {
	s, _ := newFakeStarkli(t)
	// fetch the account before failing every call
	_, err := s.ensureAccountFile(context.Background())
	require.NoError(t, err)
	t.Setenv("FAKE_STARKLI_FAIL", "nonce too low")

	_, err = s.Invoke(context.Background(), domain.NewCall(domain.NewFelt(1), "sync"))
	var callErr *domain.ChainCallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, "invoke", callErr.Op)
	assert.ErrorContains(t, err, "nonce too low")
}

func TestClient_SigningRequiresAccount(t *testing.T) {
	cfg := &config.RuntimeConfig{
		Network: &config.Network{Name: "katana", RPCURL: testRPCURL},
	}
	client := NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.Declare(context.Background(), testArtifact())
	var cfgErr *domain.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "KATANA_ACCOUNT_ADDRESS")
}
