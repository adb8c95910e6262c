package models

import (
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/trebuchet-org/starkswap/internal/domain"
)

// Declarations maps logical contract names to their declared class hash
type Declarations map[string]*domain.Felt

// Names returns the declared contract names in sorted order.
func (d Declarations) Names() []string {
	names := lo.Keys(d)
	sort.Strings(names)
	return names
}

// Deployment represents a deployed contract instance
type Deployment struct {
	Label           string            `json:"label"`
	Contract        string            `json:"contract"`
	Address         *domain.Felt      `json:"address"`
	ClassHash       *domain.Felt      `json:"classHash"`
	ConstructorArgs []domain.Argument `json:"constructorArgs,omitempty"`
	Calldata        []*domain.Felt    `json:"calldata"`
	Salt            *domain.Felt      `json:"salt,omitempty"`
	TransactionHash *domain.Felt      `json:"transactionHash,omitempty"`
	DeployedAt      time.Time         `json:"deployedAt"`
}

// Deployments maps deployment labels to their records
type Deployments map[string]*Deployment

// Labels returns the deployment labels in sorted order.
func (d Deployments) Labels() []string {
	labels := lo.Keys(d)
	sort.Strings(labels)
	return labels
}

// Sorted returns the deployments ordered by deployment time, then label.
func (d Deployments) Sorted() []*Deployment {
	out := lo.Values(d)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DeployedAt.Equal(out[j].DeployedAt) {
			return out[i].DeployedAt.Before(out[j].DeployedAt)
		}
		return out[i].Label < out[j].Label
	})
	return out
}
