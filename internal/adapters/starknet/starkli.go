package starknet

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
	"github.com/trebuchet-org/starkswap/internal/domain/models"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// PrivateKeyEnv is read by starkli as the signer key.
const PrivateKeyEnv = "STARKNET_PRIVATE_KEY"

var (
	txHashPattern = regexp.MustCompile(`transaction: (0x[0-9a-fA-F]+)`)
	feltPattern   = regexp.MustCompile(`0x[0-9a-fA-F]+`)
)

// Starkli signs and submits transactions by driving the starkli binary
type Starkli struct {
	binary      string
	rpcURL      string
	network     string
	account     *config.Account
	accountsDir string
	workDir     string
	log         *slog.Logger

	accountOnce sync.Once
	accountFile string
	accountErr  error
}

// NewStarkli creates a signer for the given deployer account
func NewStarkli(cfg *config.RuntimeConfig, account *config.Account, log *slog.Logger) *Starkli {
	binary := cfg.StarkliPath
	if binary == "" {
		binary = "starkli"
	}
	return &Starkli{
		binary:      binary,
		rpcURL:      cfg.Network.RPCURL,
		network:     cfg.Network.Name,
		account:     account,
		accountsDir: cfg.Paths.AccountsDir,
		workDir:     cfg.ProjectRoot,
		log:         log.With("component", "starkli"),
	}
}

type output struct {
	stdout string
	stderr string
}

func (s *Starkli) run(ctx context.Context, args ...string) (*output, error) {
	start := time.Now()
	s.log.Debug("running starkli", "args", args)

	cmd := exec.CommandContext(ctx, s.binary, args...)
	cmd.Dir = s.workDir
	cmd.Env = append(os.Environ(), PrivateKeyEnv+"="+s.account.PrivateKey)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := &output{stdout: stdout.String(), stderr: stderr.String()}
	s.log.Debug("starkli finished", "command", args[0], "duration", time.Since(start), "error", err)
	if err != nil {
		if msg := strings.TrimSpace(out.stderr); msg != "" {
			return out, fmt.Errorf("starkli %s: %w: %s", args[0], err, msg)
		}
		return out, fmt.Errorf("starkli %s: %w", args[0], err)
	}
	return out, nil
}

// ensureAccountFile fetches the account descriptor once per process.
func (s *Starkli) ensureAccountFile(ctx context.Context) (string, error) {
	s.accountOnce.Do(func() {
		path := filepath.Join(s.accountsDir, fmt.Sprintf("%s-%s.json", s.network, s.account.Address.Hex()))
		if _, err := os.Stat(path); err == nil {
			s.accountFile = path
			return
		}
		if err := os.MkdirAll(s.accountsDir, 0755); err != nil {
			s.accountErr = &domain.PersistenceError{Op: "create", Path: s.accountsDir, Err: err}
			return
		}

		s.log.Info("fetching account descriptor", "address", s.account.Address.Hex(), "path", path)
		if _, err := s.run(ctx, "account", "fetch", s.account.Address.Hex(), "--rpc", s.rpcURL, "--output", path); err != nil {
			s.accountErr = &domain.ChainCallError{Op: "account fetch", Target: s.account.Address.Hex(), Err: err}
			return
		}
		s.accountFile = path
	})
	return s.accountFile, s.accountErr
}

func (s *Starkli) signed(ctx context.Context, command string, args ...string) (*output, error) {
	accountFile, err := s.ensureAccountFile(ctx)
	if err != nil {
		return nil, err
	}
	full := append([]string{command, "--rpc", s.rpcURL, "--account", accountFile, "--watch"}, args...)
	return s.run(ctx, full...)
}

// Declare declares the Sierra class of an artifact. A class that is already
// declared is not an error.
func (s *Starkli) Declare(ctx context.Context, artifact *models.ContractArtifact) (*usecase.DeclareResult, error) {
	out, err := s.signed(ctx, "declare", "--casm-file", artifact.CasmPath, artifact.SierraPath)
	if err != nil {
		return nil, &domain.ChainCallError{Op: "declare", Target: artifact.Name, Err: err}
	}

	classHash, err := lastFelt(out.stdout)
	if err != nil {
		return nil, &domain.ChainCallError{Op: "declare", Target: artifact.Name, Err: err}
	}

	result := &usecase.DeclareResult{
		ClassHash:       classHash,
		AlreadyDeclared: strings.Contains(out.stderr, "already declared"),
	}
	if !result.AlreadyDeclared {
		result.TransactionHash = transactionHash(out)
	}
	return result, nil
}

// Deploy deploys an instance of a declared class through the universal deployer
func (s *Starkli) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.DeployResult, error) {
	salt := req.Salt
	if salt == nil {
		var err error
		if salt, err = randomSalt(); err != nil {
			return nil, err
		}
	}

	args := append([]string{"--salt", salt.Hex(), req.ClassHash.Hex()}, domain.FeltsToHex(req.Calldata)...)
	out, err := s.signed(ctx, "deploy", args...)
	if err != nil {
		return nil, &domain.ChainCallError{Op: "deploy", Target: req.Label, Err: err}
	}

	address, err := lastFelt(out.stdout)
	if err != nil {
		return nil, &domain.ChainCallError{Op: "deploy", Target: req.Label, Err: err}
	}
	return &usecase.DeployResult{
		Address:         address,
		Salt:            salt,
		TransactionHash: transactionHash(out),
	}, nil
}

// Invoke sends one multicall transaction containing every call
func (s *Starkli) Invoke(ctx context.Context, calls ...domain.Call) (*usecase.InvokeResult, error) {
	if len(calls) == 0 {
		return nil, fmt.Errorf("invoke: no calls")
	}

	var args []string
	targets := make([]string, len(calls))
	for i, call := range calls {
		if i > 0 {
			args = append(args, "/")
		}
		args = append(args, call.To.Hex(), call.Function)
		args = append(args, domain.FeltsToHex(call.Calldata)...)
		targets[i] = call.Function
	}

	out, err := s.signed(ctx, "invoke", args...)
	if err != nil {
		return nil, &domain.ChainCallError{Op: "invoke", Target: strings.Join(targets, ","), Err: err}
	}

	hash := transactionHash(out)
	if hash == nil {
		hash, _ = lastFelt(out.stdout)
	}
	return &usecase.InvokeResult{TransactionHash: hash}, nil
}

func transactionHash(out *output) *domain.Felt {
	for _, text := range []string{out.stderr, out.stdout} {
		if m := txHashPattern.FindStringSubmatch(text); m != nil {
			if f, err := domain.ParseFelt(m[1]); err == nil {
				return f
			}
		}
	}
	return nil
}

// lastFelt returns the last hex value printed, which is where starkli puts
// its result.
func lastFelt(text string) (*domain.Felt, error) {
	matches := feltPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no result in starkli output %q", strings.TrimSpace(text))
	}
	return domain.ParseFelt(matches[len(matches)-1])
}

func randomSalt() (*domain.Felt, error) {
	var b [31]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return domain.FeltFromUint256(new(uint256.Int).SetBytes(b[:]))
}

var _ usecase.AccountSigner = (*Starkli)(nil)
