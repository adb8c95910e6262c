package usecase

import (
	"fmt"
	"sort"

	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/models"
)

// DeploymentPlan is the ordered work of one suite run
type DeploymentPlan struct {
	Suite     string
	Contracts []string          // declared in suite order
	Steps     []*DeploymentStep // core deployments in dependency order
	Pool      *DeploymentStep   // bootstrap pool, nil without a bootstrap section
}

// DeploymentStep is one contract instance to deploy
type DeploymentStep struct {
	Label        string
	Contract     string
	Dependencies []string
	Spec         *models.DeploymentSpec
}

// BuildDeploymentPlan validates the suite and orders its deployments so every
// instance comes after the instances it references.
func BuildDeploymentPlan(suite *models.Suite) (*DeploymentPlan, error) {
	if err := suite.Validate(); err != nil {
		return nil, fmt.Errorf("invalid suite: %w", err)
	}

	steps, err := newDependencyGraph(suite.Deployments).TopologicalSort()
	if err != nil {
		return nil, err
	}

	plan := &DeploymentPlan{
		Suite:     suite.Name,
		Contracts: append([]string{}, suite.Contracts...),
		Steps:     steps,
	}
	if suite.Bootstrap != nil {
		pool := suite.Bootstrap.Pool
		plan.Pool = &DeploymentStep{
			Label:        pool.Label,
			Contract:     pool.Contract,
			Dependencies: pool.Dependencies(),
			Spec:         pool,
		}
	}
	return plan, nil
}

// Labels returns every label of the plan in execution order.
func (p *DeploymentPlan) Labels() []string {
	labels := make([]string, 0, len(p.Steps)+1)
	for _, s := range p.Steps {
		labels = append(labels, s.Label)
	}
	if p.Pool != nil {
		labels = append(labels, p.Pool.Label)
	}
	return labels
}

type dependencyGraph struct {
	nodes map[string]*models.DeploymentSpec
	edges map[string][]string // dependency -> dependents
}

func newDependencyGraph(specs map[string]*models.DeploymentSpec) *dependencyGraph {
	g := &dependencyGraph{
		nodes: specs,
		edges: make(map[string][]string),
	}
	for label, spec := range specs {
		for _, dep := range spec.Dependencies() {
			g.edges[dep] = append(g.edges[dep], label)
		}
	}
	return g
}

// TopologicalSort orders the deployments with label order as the tie-break.
func (g *dependencyGraph) TopologicalSort() ([]*DeploymentStep, error) {
	inDegree := make(map[string]int, len(g.nodes))
	for label, spec := range g.nodes {
		for _, dep := range spec.Dependencies() {
			if _, exists := g.nodes[dep]; !exists {
				return nil, fmt.Errorf("deployment '%s' depends on non-existent deployment '%s'", label, dep)
			}
		}
		inDegree[label] = len(spec.Dependencies())
	}

	var queue []string
	for label, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, label)
		}
	}
	sort.Strings(queue)

	var result []*DeploymentStep
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		spec := g.nodes[current]
		result = append(result, &DeploymentStep{
			Label:        current,
			Contract:     spec.Contract,
			Dependencies: spec.Dependencies(),
			Spec:         spec,
		})

		for _, dependent := range g.edges[current] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var cycle []string
		for label, degree := range inDegree {
			if degree > 0 {
				cycle = append(cycle, label)
			}
		}
		sort.Strings(cycle)
		return nil, fmt.Errorf("%w involving deployments: %v", domain.ErrDependencyCycle, cycle)
	}
	return result, nil
}

// references resolves ${name} values to addresses
type references struct {
	values map[string]*domain.Felt
}

func newReferences(deployer, feeToken *domain.Felt) *references {
	return &references{values: map[string]*domain.Felt{
		models.RefDeployer: deployer,
		models.RefFeeToken: feeToken,
	}}
}

func (r *references) set(label string, address *domain.Felt) {
	r.values[label] = address
}

// address resolves a reference or parses a literal address.
func (r *references) address(value string) (*domain.Felt, error) {
	if name, ok := models.ParseReference(value); ok {
		addr, found := r.values[name]
		if !found || addr == nil {
			return nil, fmt.Errorf("unresolved reference %s", value)
		}
		return addr, nil
	}
	return domain.ParseFelt(value)
}

// arguments substitutes references and encodes the calldata.
func (r *references) arguments(args []domain.Argument) ([]domain.Argument, []*domain.Felt, error) {
	resolved := make([]domain.Argument, len(args))
	for i, arg := range args {
		resolved[i] = arg
		if _, ok := models.ParseReference(arg.Value); ok {
			addr, err := r.address(arg.Value)
			if err != nil {
				return nil, nil, fmt.Errorf("argument %s: %w", arg.Name, err)
			}
			resolved[i].Value = addr.Hex()
		}
	}
	calldata, err := domain.EncodeArguments(resolved)
	if err != nil {
		return nil, nil, err
	}
	return resolved, calldata, nil
}
