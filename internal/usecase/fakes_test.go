package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
	"github.com/trebuchet-org/starkswap/internal/domain/models"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

const feeToken = "0x49d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7"

var deployer = domain.MustParseFelt("0x1234")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(local bool) *config.RuntimeConfig {
	return &config.RuntimeConfig{
		Network: &config.Network{
			Name:     "katana",
			RPCURL:   "http://127.0.0.1:5050",
			FeeToken: feeToken,
			Local:    local,
		},
		Account: &config.Account{
			Address:    deployer,
			PrivateKey: "0x1",
		},
	}
}

func amount(s string) *uint256.Int {
	a, err := domain.ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// fakeChain simulates the declare/deploy surface and a minimal DEX: token
// balances and allowances of the deployer, a factory pool registry and pool
// reserves.
type fakeChain struct {
	mu sync.Mutex

	ops      []string // "declare:<name>", "deploy:<label>", "invoke:<function>"
	invokes  []domain.Call
	declared map[string]bool
	code     map[string]*domain.Felt // address -> class hash
	nextAddr uint64

	defaultBalance *uint256.Int
	balances       map[string]*uint256.Int // token -> deployer balance
	allowances     map[string]*uint256.Int // token -> controller allowance
	pools          map[string]*domain.Felt // sorted pair -> pool
	reserves       map[string][2]*uint256.Int

	chainIDErr error
	failDeploy string
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		declared:       map[string]bool{},
		code:           map[string]*domain.Felt{},
		nextAddr:       0xa000,
		defaultBalance: amount("1000000e18"),
		balances:       map[string]*uint256.Int{feeToken: amount("1000e18")},
		allowances:     map[string]*uint256.Int{},
		pools:          map[string]*domain.Felt{},
		reserves:       map[string][2]*uint256.Int{},
	}
}

func pairKey(a, b *domain.Felt) string {
	a, b = domain.SortTokens(a, b)
	return a.Hex() + "/" + b.Hex()
}

func u256At(calldata []*domain.Felt, i int) *uint256.Int {
	v, err := domain.U256FromFelts(calldata[i], calldata[i+1])
	if err != nil {
		panic(err)
	}
	return v
}

func classHashOf(name string) *domain.Felt {
	f, err := domain.EncodeShortString("class:" + name)
	if err != nil {
		panic(err)
	}
	return f
}

func (c *fakeChain) count(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, op := range c.ops {
		if len(op) >= len(prefix) && op[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (c *fakeChain) ChainID(ctx context.Context) (*domain.ChainIDLookup, error) {
	if c.chainIDErr != nil {
		return nil, c.chainIDErr
	}
	id, _ := domain.EncodeShortString("KATANA")
	return &domain.ChainIDLookup{ChainID: id, Supported: true}, nil
}

func (c *fakeChain) balance(token *domain.Felt) *uint256.Int {
	if b, ok := c.balances[token.Hex()]; ok {
		return b
	}
	return c.defaultBalance
}

func (c *fakeChain) Call(ctx context.Context, call domain.Call) ([]*domain.Felt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch call.Function {
	case "balanceOf":
		return domain.U256ToFelts(c.balance(call.To)), nil
	case "allowance":
		a, ok := c.allowances[call.To.Hex()]
		if !ok {
			a = new(uint256.Int)
		}
		return domain.U256ToFelts(a), nil
	case "getPool":
		pool, ok := c.pools[pairKey(call.Calldata[0], call.Calldata[1])]
		if !ok {
			pool = domain.NewFelt(0)
		}
		return []*domain.Felt{pool}, nil
	case "getReserves":
		r, ok := c.reserves[call.To.Hex()]
		if !ok {
			r = [2]*uint256.Int{new(uint256.Int), new(uint256.Int)}
		}
		return append(domain.U256ToFelts(r[0]), domain.U256ToFelts(r[1])...), nil
	case "quote":
		out := domain.EstimateAmountOut(u256At(call.Calldata, 0), u256At(call.Calldata, 2), u256At(call.Calldata, 4), domain.LPFeeBps)
		return domain.U256ToFelts(out), nil
	}
	return nil, fmt.Errorf("unexpected call %s", call.Function)
}

func (c *fakeChain) ClassHashAt(ctx context.Context, address *domain.Felt) (*domain.Felt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.code[address.Hex()]; ok {
		return h, nil
	}
	return nil, domain.ErrNotFound
}

func (c *fakeChain) Declare(ctx context.Context, artifact *models.ContractArtifact) (*usecase.DeclareResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, "declare:"+artifact.Name)

	already := c.declared[artifact.Name]
	c.declared[artifact.Name] = true
	res := &usecase.DeclareResult{ClassHash: classHashOf(artifact.Name), AlreadyDeclared: already}
	if !already {
		res.TransactionHash = domain.NewFelt(uint64(len(c.ops)))
	}
	return res, nil
}

func (c *fakeChain) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.DeployResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if req.Label == c.failDeploy {
		return nil, &domain.ChainCallError{Op: "deploy", Target: req.Label, Err: fmt.Errorf("rejected")}
	}
	c.ops = append(c.ops, "deploy:"+req.Label)

	c.nextAddr++
	addr := domain.NewFelt(c.nextAddr)
	c.code[addr.Hex()] = req.ClassHash
	return &usecase.DeployResult{
		Address:         addr,
		Salt:            domain.NewFelt(7),
		TransactionHash: domain.NewFelt(uint64(len(c.ops))),
	}, nil
}

func (c *fakeChain) Invoke(ctx context.Context, calls ...domain.Call) (*usecase.InvokeResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, call := range calls {
		c.ops = append(c.ops, "invoke:"+call.Function)
		c.invokes = append(c.invokes, call)
		cd := call.Calldata

		switch call.Function {
		case "addManualPool":
			c.pools[pairKey(cd[1], cd[2])] = cd[0]
		case "increaseAllowance":
			current, ok := c.allowances[call.To.Hex()]
			if !ok {
				current = new(uint256.Int)
			}
			sum, overflow := new(uint256.Int).AddOverflow(current, u256At(cd, 1))
			if overflow {
				return nil, fmt.Errorf("allowance overflow")
			}
			c.allowances[call.To.Hex()] = sum
		case "addLiquidity":
			key := pairKey(cd[0], cd[1])
			pool := c.pools[key]
			a0, a1 := u256At(cd, 2), u256At(cd, 4)
			if t0, _ := domain.SortTokens(cd[0], cd[1]); !t0.Equal(cd[0]) {
				a0, a1 = a1, a0
			}
			c.reserves[pool.Hex()] = [2]*uint256.Int{a0, a1}
		case "swapExactTokensForTokens":
			from, to, in := cd[0], cd[1], u256At(cd, 2)
			pool := c.pools[pairKey(from, to)]
			r := c.reserves[pool.Hex()]
			rIn, rOut := r[0], r[1]
			if t0, _ := domain.SortTokens(from, to); !t0.Equal(from) {
				rIn, rOut = rOut, rIn
			}
			out := domain.EstimateAmountOut(in, rIn, rOut, domain.LPFeeBps)
			if out.Lt(u256At(cd, 4)) {
				return nil, fmt.Errorf("insufficient output")
			}
			c.balances[from.Hex()] = new(uint256.Int).Sub(c.balance(from), in)
			c.balances[to.Hex()] = new(uint256.Int).Add(c.balance(to), out)
		}
	}
	return &usecase.InvokeResult{TransactionHash: domain.NewFelt(uint64(len(c.ops)))}, nil
}

// memoryRecords is an in-memory record repository that counts writes
type memoryRecords struct {
	declarations     map[string]models.Declarations
	deployments      map[string]models.Deployments
	declarationSaves int
	deploymentSaves  int
}

func newMemoryRecords() *memoryRecords {
	return &memoryRecords{
		declarations: map[string]models.Declarations{},
		deployments:  map[string]models.Deployments{},
	}
}

func (r *memoryRecords) LoadDeclarations(ctx context.Context, network string) (models.Declarations, error) {
	out := models.Declarations{}
	for k, v := range r.declarations[network] {
		out[k] = v
	}
	return out, nil
}

func (r *memoryRecords) SaveDeclarations(ctx context.Context, network string, d models.Declarations) error {
	r.declarationSaves++
	r.declarations[network] = models.Declarations{}
	for k, v := range d {
		r.declarations[network][k] = v
	}
	return nil
}

func (r *memoryRecords) LoadDeployments(ctx context.Context, network string) (models.Deployments, error) {
	out := models.Deployments{}
	for k, v := range r.deployments[network] {
		out[k] = v
	}
	return out, nil
}

func (r *memoryRecords) SaveDeployments(ctx context.Context, network string, d models.Deployments) error {
	r.deploymentSaves++
	r.deployments[network] = models.Deployments{}
	for k, v := range d {
		r.deployments[network][k] = v
	}
	return nil
}

// fakeArtifacts resolves every name in the set
type fakeArtifacts map[string]bool

func (a fakeArtifacts) GetArtifact(ctx context.Context, name string) (*models.ContractArtifact, error) {
	if !a[name] {
		return nil, &domain.ArtifactNotFoundError{Name: name}
	}
	return &models.ContractArtifact{
		Name:       name,
		SierraPath: "build/" + name + ".contract_class.json",
		CasmPath:   "build/" + name + ".compiled_contract_class.json",
	}, nil
}

func (a fakeArtifacts) ListArtifacts(ctx context.Context) ([]*models.ContractArtifact, error) {
	var out []*models.ContractArtifact
	for name := range a {
		art, _ := a.GetArtifact(ctx, name)
		out = append(out, art)
	}
	return out, nil
}

// MockSuiteLoader is a mock implementation of SuiteLoader
type MockSuiteLoader struct {
	mock.Mock
}

func (m *MockSuiteLoader) LoadSuite(ctx context.Context) (*models.Suite, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Suite), args.Error(1)
}

// MockConfirmer is a mock implementation of Confirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	args := m.Called(ctx, prompt)
	return args.Bool(0), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events  []usecase.ProgressEvent
	notices []string
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}
func (m *MockProgressSink) Info(message string) {
	m.notices = append(m.notices, message)
}

func (m *MockProgressSink) stages() []usecase.ExecutionStage {
	var out []usecase.ExecutionStage
	for _, e := range m.events {
		if len(out) == 0 || out[len(out)-1] != e.Stage {
			out = append(out, e.Stage)
		}
	}
	return out
}

// dexSuite mirrors the embedded default suite
func dexSuite() *models.Suite {
	return &models.Suite{
		Name:      "dex",
		Contracts: []string{"ERC20", "PoolFactory", "Pool", "SwapController"},
		Deployments: map[string]*models.DeploymentSpec{
			"Bitcoin": {Contract: "ERC20", Args: []domain.Argument{
				{Name: "name", Type: domain.ArgShortString, Value: "Bitcoin"},
				{Name: "symbol", Type: domain.ArgShortString, Value: "BTC"},
				{Name: "initial_supply", Type: domain.ArgU256, Value: "1000000e18"},
				{Name: "owner", Type: domain.ArgAddress, Value: "${deployer}"},
			}},
			"PoolFactory": {Contract: "PoolFactory", Args: []domain.Argument{
				{Name: "owner", Type: domain.ArgAddress, Value: "${deployer}"},
			}},
			"SwapController": {Contract: "SwapController", Args: []domain.Argument{
				{Name: "owner_address", Type: domain.ArgAddress, Value: "${deployer}"},
				{Name: "factory_address", Type: domain.ArgAddress, Value: "${PoolFactory}"},
			}},
		},
		Bootstrap: &models.BootstrapSpec{
			Pool: &models.DeploymentSpec{
				Label:    "ETH-BTC-LP",
				Contract: "Pool",
				Deps:     []string{"SwapController"},
				Args: []domain.Argument{
					{Name: "name", Type: domain.ArgShortString, Value: "ETH-BTC LP"},
					{Name: "symbol", Type: domain.ArgShortString, Value: "LP"},
					{Name: "factory_address", Type: domain.ArgAddress, Value: "${PoolFactory}"},
					{Name: "token_0_address", Type: domain.ArgAddress, Value: "${fee_token}"},
					{Name: "token_1_address", Type: domain.ArgAddress, Value: "${Bitcoin}"},
				},
			},
			Factory:    "PoolFactory",
			Controller: "SwapController",
			Token0:     "${fee_token}",
			Token1:     "${Bitcoin}",
			Price:      "15.66",
			Share:      "0.5",
			MinShare:   "0.95",
		},
		Swap: &models.SwapSpec{
			From:        "${fee_token}",
			To:          "${Bitcoin}",
			Factory:     "PoolFactory",
			Controller:  "SwapController",
			Divisor:     100,
			SlippageBps: 1000,
		},
	}
}

func dexArtifacts() fakeArtifacts {
	return fakeArtifacts{"ERC20": true, "PoolFactory": true, "Pool": true, "SwapController": true}
}
