package models

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/starkswap/internal/domain"
)

// Reserved reference names available to every suite.
const (
	RefDeployer = "deployer"
	RefFeeToken = "fee_token"
)

var referencePattern = regexp.MustCompile(`^\$\{([A-Za-z0-9_.\-]+)\}$`)

// ParseReference extracts the name from a "${name}" value.
func ParseReference(value string) (string, bool) {
	m := referencePattern.FindStringSubmatch(value)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsReserved reports whether a reference names a built-in value rather than a deployment.
func IsReserved(name string) bool {
	return name == RefDeployer || name == RefFeeToken
}

// Suite describes the contracts to declare, the instances to deploy and the
// pool bootstrap that follows.
type Suite struct {
	Name        string                     `yaml:"name"`
	Contracts   []string                   `yaml:"contracts"`
	Deployments map[string]*DeploymentSpec `yaml:"deployments"`
	Bootstrap   *BootstrapSpec             `yaml:"bootstrap,omitempty"`
	Swap        *SwapSpec                  `yaml:"swap,omitempty"`
}

// DeploymentSpec describes one contract instance. Args may reference
// ${deployer}, ${fee_token} or another deployment label.
type DeploymentSpec struct {
	Label    string            `yaml:"label,omitempty"`
	Contract string            `yaml:"contract"`
	Deps     []string          `yaml:"deps,omitempty"`
	Args     []domain.Argument `yaml:"args,omitempty"`
}

// Dependencies returns the deployment labels this deployment needs, from explicit
// deps and argument references, sorted.
func (s *DeploymentSpec) Dependencies() []string {
	deps := append([]string{}, s.Deps...)
	for _, arg := range s.Args {
		if ref, ok := ParseReference(arg.Value); ok && !IsReserved(ref) {
			deps = append(deps, ref)
		}
	}
	deps = lo.Uniq(deps)
	sort.Strings(deps)
	return deps
}

// BootstrapSpec describes the first pool and its initial liquidity.
type BootstrapSpec struct {
	Pool       *DeploymentSpec `yaml:"pool"`
	Factory    string          `yaml:"factory"`
	Controller string          `yaml:"controller"`
	Token0     string          `yaml:"token0"`
	Token1     string          `yaml:"token1"`
	Price      string          `yaml:"price"`     // token1 per token0
	Share      string          `yaml:"share"`     // fraction of the bounded balance to provide
	MinShare   string          `yaml:"min_share"` // minimum accepted fraction of each amount
}

// SwapSpec holds the demonstration swap defaults.
type SwapSpec struct {
	From        string `yaml:"from"`
	To          string `yaml:"to"`
	Factory     string `yaml:"factory"`
	Controller  string `yaml:"controller"`
	Divisor     uint64 `yaml:"divisor,omitempty"`
	SlippageBps uint64 `yaml:"slippage_bps,omitempty"`
}

// Validate checks labels, contract names and references.
func (s *Suite) Validate() error {
	if len(s.Contracts) == 0 {
		return fmt.Errorf("suite %q declares no contracts", s.Name)
	}

	known := func(label string) bool {
		_, ok := s.Deployments[label]
		return ok
	}

	for label, spec := range s.Deployments {
		if spec == nil {
			return fmt.Errorf("deployment %q is empty", label)
		}
		spec.Label = label
		if err := s.validateSpec(spec, known); err != nil {
			return err
		}
	}

	if b := s.Bootstrap; b != nil {
		if b.Pool == nil || b.Pool.Label == "" {
			return fmt.Errorf("bootstrap pool must have a label")
		}
		if known(b.Pool.Label) {
			return fmt.Errorf("bootstrap pool label %q collides with a deployment", b.Pool.Label)
		}
		if err := s.validateSpec(b.Pool, known); err != nil {
			return err
		}
		for field, label := range map[string]string{"factory": b.Factory, "controller": b.Controller} {
			if !known(label) {
				return fmt.Errorf("bootstrap %s %q is not a deployment", field, label)
			}
		}
		if err := validateTokenRef(b.Token0, known); err != nil {
			return fmt.Errorf("bootstrap token0: %w", err)
		}
		if err := validateTokenRef(b.Token1, known); err != nil {
			return fmt.Errorf("bootstrap token1: %w", err)
		}
	}

	if sw := s.Swap; sw != nil {
		poolLabel := ""
		if s.Bootstrap != nil && s.Bootstrap.Pool != nil {
			poolLabel = s.Bootstrap.Pool.Label
		}
		for field, label := range map[string]string{"factory": sw.Factory, "controller": sw.Controller} {
			if !known(label) {
				return fmt.Errorf("swap %s %q is not a deployment", field, label)
			}
		}
		knownOrPool := func(label string) bool { return known(label) || label == poolLabel }
		if err := validateTokenRef(sw.From, knownOrPool); err != nil {
			return fmt.Errorf("swap from: %w", err)
		}
		if err := validateTokenRef(sw.To, knownOrPool); err != nil {
			return fmt.Errorf("swap to: %w", err)
		}
	}
	return nil
}

func (s *Suite) validateSpec(spec *DeploymentSpec, known func(string) bool) error {
	if !lo.Contains(s.Contracts, spec.Contract) {
		return fmt.Errorf("deployment %q uses contract %q which the suite does not declare", spec.Label, spec.Contract)
	}
	for _, dep := range spec.Dependencies() {
		if !known(dep) {
			return fmt.Errorf("deployment %q references unknown deployment %q", spec.Label, dep)
		}
	}
	return nil
}

func validateTokenRef(value string, known func(string) bool) error {
	if ref, ok := ParseReference(value); ok {
		if IsReserved(ref) || known(ref) {
			return nil
		}
		return fmt.Errorf("unknown reference %q", value)
	}
	if _, err := domain.ParseFelt(value); err != nil {
		return err
	}
	return nil
}
