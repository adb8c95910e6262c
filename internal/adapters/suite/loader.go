package suite

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
	"github.com/trebuchet-org/starkswap/internal/domain/models"
	"github.com/trebuchet-org/starkswap/internal/usecase"
	"gopkg.in/yaml.v3"
)

//go:embed default_suite.yaml
var defaultSuite []byte

// Loader reads the project suite file, falling back to the built-in DEX suite
type Loader struct {
	path string
	log  *slog.Logger
}

// NewLoader creates a suite loader for the configured suite file
func NewLoader(cfg *config.RuntimeConfig, log *slog.Logger) *Loader {
	return &Loader{
		path: cfg.Paths.SuiteFile,
		log:  log.With("component", "suite"),
	}
}

// LoadSuite parses and validates the suite
func (l *Loader) LoadSuite(ctx context.Context) (*models.Suite, error) {
	data, source := defaultSuite, "built-in suite"
	if l.path != "" {
		content, err := os.ReadFile(l.path)
		switch {
		case err == nil:
			data, source = content, l.path
		case errors.Is(err, fs.ErrNotExist):
			l.log.Debug("no suite file, using the built-in suite", "path", l.path)
		default:
			return nil, &domain.PersistenceError{Op: "read", Path: l.path, Err: err}
		}
	}

	suite, err := Parse(data)
	if err != nil {
		return nil, &domain.ConfigError{Field: "suite", Message: "invalid " + source, Err: err}
	}
	l.log.Debug("loaded suite", "name", suite.Name, "source", source, "deployments", len(suite.Deployments))
	return suite, nil
}

// Parse decodes a suite document strictly and validates it
func Parse(data []byte) (*models.Suite, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var suite models.Suite
	if err := dec.Decode(&suite); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := suite.Validate(); err != nil {
		return nil, err
	}
	return &suite, nil
}

// Default returns the built-in suite
func Default() *models.Suite {
	suite, err := Parse(defaultSuite)
	if err != nil {
		panic(fmt.Sprintf("built-in suite is invalid: %v", err))
	}
	return suite
}

var _ usecase.SuiteLoader = (*Loader)(nil)
