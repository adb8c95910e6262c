package records

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
	"github.com/trebuchet-org/starkswap/internal/domain/models"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

const (
	DeclarationsFile = "declarations.json"
	DeploymentsFile  = "deployments.json"
)

// FileRepository stores declaration and deployment records as json files,
// one directory per network
type FileRepository struct {
	rootDir string
	mu      sync.RWMutex
}

// NewFileRepository creates a repository rooted at the deployments directory
func NewFileRepository(rootDir string) *FileRepository {
	return &FileRepository{rootDir: rootDir}
}

// NewFileRepositoryFromConfig creates a repository from the runtime config
func NewFileRepositoryFromConfig(cfg *config.RuntimeConfig) *FileRepository {
	return NewFileRepository(cfg.Paths.DeploymentsDir)
}

func (r *FileRepository) path(network, filename string) string {
	return filepath.Join(r.rootDir, network, filename)
}

// LoadDeclarations returns the class hashes declared on a network. A missing
// file yields an empty map.
func (r *FileRepository) LoadDeclarations(ctx context.Context, network string) (models.Declarations, error) {
	declarations := make(models.Declarations)
	if err := r.loadFile(r.path(network, DeclarationsFile), &declarations); err != nil {
		return nil, err
	}
	return declarations, nil
}

// SaveDeclarations replaces the declaration records of a network
func (r *FileRepository) SaveDeclarations(ctx context.Context, network string, declarations models.Declarations) error {
	if declarations == nil {
		declarations = make(models.Declarations)
	}
	return r.saveFile(r.path(network, DeclarationsFile), declarations)
}

// LoadDeployments returns the deployments recorded on a network. A missing
// file yields an empty map.
func (r *FileRepository) LoadDeployments(ctx context.Context, network string) (models.Deployments, error) {
	deployments := make(models.Deployments)
	if err := r.loadFile(r.path(network, DeploymentsFile), &deployments); err != nil {
		return nil, err
	}
	for label, d := range deployments {
		if d != nil && d.Label == "" {
			d.Label = label
		}
	}
	return deployments, nil
}

// SaveDeployments replaces the deployment records of a network
func (r *FileRepository) SaveDeployments(ctx context.Context, network string, deployments models.Deployments) error {
	if deployments == nil {
		deployments = make(models.Deployments)
	}
	return r.saveFile(r.path(network, DeploymentsFile), deployments)
}

func (r *FileRepository) loadFile(path string, v any) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &domain.PersistenceError{Op: "read", Path: path, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &domain.PersistenceError{Op: "parse", Path: path, Err: err}
	}
	return nil
}

func (r *FileRepository) saveFile(path string, v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Path: path, Err: err}
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &domain.PersistenceError{Op: "create directory for", Path: path, Err: err}
	}

	// Write to temp file first
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return &domain.PersistenceError{Op: "write", Path: tmpPath, Err: err}
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return &domain.PersistenceError{Op: "write", Path: path, Err: err}
	}
	return nil
}

var (
	_ usecase.DeclarationRepository = (*FileRepository)(nil)
	_ usecase.DeploymentRepository  = (*FileRepository)(nil)
)
