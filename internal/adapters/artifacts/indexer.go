package artifacts

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
	"github.com/trebuchet-org/starkswap/internal/domain/models"
)

const (
	sourceExt = ".cairo"
	sierraExt = ".contract_class.json"
	casmExt   = ".compiled_contract_class.json"
)

// Indexer maps contract names found under the source directory to their
// compiled Sierra and CASM classes in the build directory
type Indexer struct {
	sourceDir string
	buildDir  string
	log       *slog.Logger

	mu      sync.RWMutex
	indexed bool
	sources map[string]string // contract name -> source path
}

// NewIndexer creates a new artifact indexer
func NewIndexer(cfg *config.RuntimeConfig, log *slog.Logger) *Indexer {
	return &Indexer{
		sourceDir: cfg.Paths.SourceDir,
		buildDir:  cfg.Paths.BuildDir,
		log:       log.With("component", "artifacts"),
	}
}

// Index scans the source directory for contract files
func (i *Indexer) Index() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	sources := make(map[string]string)
	err := filepath.WalkDir(i.sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != sourceExt {
			return nil
		}

		name := strings.TrimSuffix(d.Name(), sourceExt)
		if existing, ok := sources[name]; ok {
			i.log.Warn("duplicate contract source, keeping the first", "contract", name, "kept", existing, "ignored", path)
			return nil
		}
		sources[name] = path
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", i.sourceDir, err)
	}

	i.log.Debug("indexed contract sources", "count", len(sources), "dir", i.sourceDir)
	i.sources = sources
	i.indexed = true
	return nil
}

func (i *Indexer) ensureIndexed() error {
	i.mu.RLock()
	indexed := i.indexed
	i.mu.RUnlock()
	if indexed {
		return nil
	}
	return i.Index()
}

// GetArtifact resolves a contract name to its source and compiled classes
func (i *Indexer) GetArtifact(ctx context.Context, name string) (*models.ContractArtifact, error) {
	if err := i.ensureIndexed(); err != nil {
		return nil, err
	}

	i.mu.RLock()
	source, ok := i.sources[name]
	names := lo.Keys(i.sources)
	i.mu.RUnlock()

	if !ok {
		sort.Strings(names)
		return nil, &domain.ArtifactNotFoundError{
			Name:      name,
			Reason:    fmt.Sprintf("no %s%s under %s", name, sourceExt, i.sourceDir),
			Available: names,
		}
	}

	sierra, err := i.compiledPath(name, sierraExt)
	if err != nil {
		return nil, err
	}
	casm, err := i.compiledPath(name, casmExt)
	if err != nil {
		return nil, err
	}

	return &models.ContractArtifact{
		Name:       name,
		SourcePath: source,
		SierraPath: sierra,
		CasmPath:   casm,
	}, nil
}

// compiledPath finds build/<Name><ext>, falling back to the scarb layout
// build/<package>_<Name><ext>.
func (i *Indexer) compiledPath(name, ext string) (string, error) {
	exact := filepath.Join(i.buildDir, name+ext)
	if _, err := os.Stat(exact); err == nil {
		return exact, nil
	}

	matches, err := filepath.Glob(filepath.Join(i.buildDir, "*_"+name+ext))
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", &domain.ArtifactNotFoundError{
			Name:   name,
			Reason: fmt.Sprintf("not compiled, expected %s", exact),
		}
	default:
		sort.Strings(matches)
		return "", &domain.ArtifactNotFoundError{
			Name:   name,
			Reason: fmt.Sprintf("ambiguous compiled classes: %s", strings.Join(matches, ", ")),
		}
	}
}

// ListArtifacts returns every contract that has both compiled classes
func (i *Indexer) ListArtifacts(ctx context.Context) ([]*models.ContractArtifact, error) {
	if err := i.ensureIndexed(); err != nil {
		return nil, err
	}

	i.mu.RLock()
	names := lo.Keys(i.sources)
	i.mu.RUnlock()
	sort.Strings(names)

	var artifacts []*models.ContractArtifact
	for _, name := range names {
		artifact, err := i.GetArtifact(ctx, name)
		if err != nil {
			i.log.Debug("skipping uncompiled contract", "contract", name, "error", err)
			continue
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}
